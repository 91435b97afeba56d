package archive

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/franz/tapevault/internal/store"
)

// ShowRecord is one show file from the shows/ directory.
//
// Explicit field schema (the source data is informal, this is the contract
// the parser enforces):
//
//	id         optional  string            precomputed slug; derived when absent
//	date       required  string            ISO yyyy-mm-dd
//	sequence   optional  int               same-day same-venue disambiguator
//	venue      optional  string-or-list    single-valued
//	venue_full optional  string-or-list    single-valued
//	city       optional  string-or-list    single-valued
//	state      optional  string-or-list    single-valued
//	country    optional  string-or-list    single-valued
//	setlist    optional  variable JSON     see normalizeSetlist
//	lineup     optional  variable JSON     see normalizeLineup
type ShowRecord struct {
	ID        FlexString      `json:"id"`
	Date      FlexString      `json:"date"`
	Sequence  int             `json:"sequence"`
	Venue     FlexString      `json:"venue"`
	VenueFull FlexString      `json:"venue_full"`
	City      FlexString      `json:"city"`
	State     FlexString      `json:"state"`
	Country   FlexString      `json:"country"`
	Setlist   json.RawMessage `json:"setlist"`
	Lineup    json.RawMessage `json:"lineup"`
}

// Slug returns the record's id, deriving the deterministic slug when the
// record does not carry one
func (r *ShowRecord) Slug() string {
	if r.ID != "" {
		return r.ID.String()
	}
	return store.ShowSlug(r.Date.String(), r.Venue.String(), r.City.String(),
		r.State.String(), r.Country.String())
}

// ParseShowRecord parses and validates one show record
func ParseShowRecord(data []byte) (*ShowRecord, error) {
	var rec ShowRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("malformed show record: %w", err)
	}

	date := rec.Date.String()
	if len(date) != 10 || date[4] != '-' || date[7] != '-' {
		return nil, fmt.Errorf("show record has invalid date %q", date)
	}

	return &rec, nil
}

// ParseSetlist normalizes the record's variable-shape setlist into the
// versioned blob form stored in the catalog
func (r *ShowRecord) ParseSetlist() (*store.Setlist, error) {
	return normalizeSetlist(r.Setlist)
}

// ParseLineup normalizes the record's variable-shape lineup
func (r *ShowRecord) ParseLineup() (*store.Lineup, error) {
	return normalizeLineup(r.Lineup)
}

// normalizeSetlist accepts the shapes the source data uses for setlists:
// a flat list of song names (a trailing " ->" marks a segue), a flat list
// of song objects, or a list of sets each holding either form.
func normalizeSetlist(raw json.RawMessage) (*store.Setlist, error) {
	sl := &store.Setlist{Version: 1}
	if len(raw) == 0 || string(raw) == "null" {
		return sl, nil
	}

	// A list of named sets
	var sets []struct {
		Name  string          `json:"name"`
		Songs json.RawMessage `json:"songs"`
	}
	if err := json.Unmarshal(raw, &sets); err == nil && len(sets) > 0 && sets[0].Songs != nil {
		for _, s := range sets {
			songs, err := normalizeSongs(s.Songs)
			if err != nil {
				return nil, err
			}
			sl.Sets = append(sl.Sets, store.Set{Name: s.Name, Songs: songs})
		}
		return sl, nil
	}

	// A flat song list becomes one unnamed set
	songs, err := normalizeSongs(raw)
	if err != nil {
		return nil, err
	}
	if len(songs) > 0 {
		sl.Sets = []store.Set{{Songs: songs}}
	}
	return sl, nil
}

func normalizeSongs(raw json.RawMessage) ([]store.Song, error) {
	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		songs := make([]store.Song, 0, len(names))
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			segue := strings.HasSuffix(name, "->")
			songs = append(songs, store.Song{
				Name:      strings.TrimSpace(strings.TrimSuffix(name, "->")),
				SegueInto: segue,
			})
		}
		return songs, nil
	}

	var objs []store.Song
	if err := json.Unmarshal(raw, &objs); err == nil {
		return objs, nil
	}

	return nil, fmt.Errorf("unrecognized setlist shape: %s", raw)
}

// normalizeLineup accepts a list of "Name - instruments" strings or a list
// of member objects
func normalizeLineup(raw json.RawMessage) (*store.Lineup, error) {
	l := &store.Lineup{Version: 1}
	if len(raw) == 0 || string(raw) == "null" {
		return l, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err == nil {
		for _, entry := range names {
			name, instruments, _ := strings.Cut(entry, " - ")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			l.Members = append(l.Members, store.Member{
				Name:        name,
				Instruments: strings.TrimSpace(instruments),
			})
		}
		return l, nil
	}

	var members []store.Member
	if err := json.Unmarshal(raw, &members); err == nil {
		l.Members = members
		return l, nil
	}

	return nil, fmt.Errorf("unrecognized lineup shape: %s", raw)
}

// RecordingRecord is one recording file from the recordings/ directory.
//
//	id           required  string            external recording identifier
//	show         optional  string            owning show slug; derived when absent
//	date         optional  string            used with venue fields to derive show
//	venue, city, state, country  optional string-or-list
//	source       optional  string-or-list    free-text source description
//	taper        optional  string-or-list
//	source_chain optional  string-or-list    multi-valued, newline-joined
//	lineage      optional  string-or-list    multi-valued, newline-joined
//	avg_rating   optional  float
//	num_reviews  optional  int
//	high_ratings optional  int               count of 4-5 star reviews
//	low_ratings  optional  int               count of 1-2 star reviews
type RecordingRecord struct {
	ID          FlexString  `json:"id"`
	Show        FlexString  `json:"show"`
	Date        FlexString  `json:"date"`
	Venue       FlexString  `json:"venue"`
	City        FlexString  `json:"city"`
	State       FlexString  `json:"state"`
	Country     FlexString  `json:"country"`
	Source      FlexString  `json:"source"`
	Taper       FlexString  `json:"taper"`
	SourceChain FlexStrings `json:"source_chain"`
	Lineage     FlexStrings `json:"lineage"`
	AvgRating   float64     `json:"avg_rating"`
	NumReviews  int         `json:"num_reviews"`
	HighRatings int         `json:"high_ratings"`
	LowRatings  int         `json:"low_ratings"`
}

// ShowSlug returns the owning show's id, deriving it from the location
// fields when the record does not name one
func (r *RecordingRecord) ShowSlug() string {
	if r.Show != "" {
		return r.Show.String()
	}
	return store.ShowSlug(r.Date.String(), r.Venue.String(), r.City.String(),
		r.State.String(), r.Country.String())
}

// ParseRecordingRecord parses and validates one recording record
func ParseRecordingRecord(data []byte) (*RecordingRecord, error) {
	var rec RecordingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("malformed recording record: %w", err)
	}

	if rec.ID == "" {
		return nil, fmt.Errorf("recording record missing id")
	}
	if rec.ShowSlug() == "" {
		return nil, fmt.Errorf("recording record %s has no owning show", rec.ID)
	}

	return &rec, nil
}

// CollectionRecord is one entry of the collections record.
//
//	slug         optional  string            derived from name when absent
//	name         required  string
//	description  optional  string-or-list
//	tags         optional  string-or-list    ordered, first tag is primary
//	shows        optional  string-or-list    ordered member show ids
type CollectionRecord struct {
	Slug        FlexString  `json:"slug"`
	Name        FlexString  `json:"name"`
	Description FlexString  `json:"description"`
	Tags        FlexStrings `json:"tags"`
	Shows       FlexStrings `json:"shows"`
}

// ParseCollections parses the single collections record, which is either a
// top-level list or wrapped in a "collections" key
func ParseCollections(data []byte) ([]*CollectionRecord, error) {
	var list []*CollectionRecord
	if err := json.Unmarshal(data, &list); err == nil {
		return validateCollections(list)
	}

	var wrapped struct {
		Collections []*CollectionRecord `json:"collections"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("malformed collections record: %w", err)
	}
	return validateCollections(wrapped.Collections)
}

func validateCollections(list []*CollectionRecord) ([]*CollectionRecord, error) {
	for _, c := range list {
		if c.Name == "" {
			return nil, fmt.Errorf("collection record missing name")
		}
		if c.Slug == "" {
			c.Slug = FlexString(store.Slugify(c.Name.String()))
		}
	}
	return list, nil
}
