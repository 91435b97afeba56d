package archive

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// FlexString is a single-valued record field that the source data carries
// unpredictably as either a string or a list of strings. A list decodes to
// its first non-empty element.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		for _, v := range list {
			if strings.TrimSpace(v) != "" {
				*f = FlexString(v)
				return nil
			}
		}
		*f = ""
		return nil
	}

	return fmt.Errorf("field is neither string nor list of strings: %s", data)
}

// String returns the normalized value
func (f FlexString) String() string {
	return string(f)
}

// FlexStrings is a multi-valued record field carried as either a single
// string or a list of strings. A single string decodes to a one-element
// list.
type FlexStrings []string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexStrings) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*f = nil
			return nil
		}
		*f = FlexStrings{s}
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = FlexStrings(list)
		return nil
	}

	return fmt.Errorf("field is neither string nor list of strings: %s", data)
}

// Joined normalizes a multi-value field: list elements joined with a
// literal newline
func (f FlexStrings) Joined() string {
	return strings.Join(f, "\n")
}
