package search

import (
	"strings"
	"testing"

	"github.com/franz/tapevault/internal/store"
)

func cornellShow() *store.Show {
	return &store.Show{
		ID:          "1977-05-08-barton-hall-cornell-u-ithaca-ny-usa",
		Date:        "1977-05-08",
		Year:        1977,
		Month:       5,
		Venue:       "Barton Hall, Cornell U.",
		City:        "Ithaca",
		State:       "NY",
		Country:     "USA",
		MemberNames: "Jerry Garcia, Bob Weir, Phil Lesh",
		SongNames:   "Scarlet Begonias, Fire on the Mountain, Morning Dew",
	}
}

func TestShowTextContent(t *testing.T) {
	text := ShowText(cornellShow())

	for _, want := range []string{
		"1977-05-08",
		"5-8-77",
		"5/8/77",
		"5.8.77",
		"1977",
		"70s",
		"Barton Hall",
		"Ithaca",
		"NY",
		"New York",
		"Fire on the Mountain",
		"Jerry Garcia",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("show text missing %q:\n%s", want, text)
		}
	}

	// Commas never survive into the token stream
	if strings.Contains(text, ",") {
		t.Errorf("show text contains commas:\n%s", text)
	}
}

func TestDateVariants(t *testing.T) {
	got := dateVariants("1977-05-08")
	want := []string{"5-8-77", "5/8/77", "5.8.77"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d = %q, want %q", i, got[i], want[i])
		}
	}

	// Two-digit year keeps its leading zero
	got = dateVariants("2003-12-01")
	if got[0] != "12-1-03" {
		t.Errorf("got %q, want 12-1-03", got[0])
	}

	if v := dateVariants("not a date"); v != nil {
		t.Errorf("expected nil for bad date, got %v", v)
	}
}

func TestCleanField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Barton Hall, Cornell U.", "Barton Hall Cornell U."},
		{"Winterland (San Francisco)", "Winterland San Francisco"},
		{"it's", "it s"},
		{"", ""},
		{"  spaced   out  ", "spaced out"},
	}
	for _, tt := range tests {
		if got := cleanField(tt.in); got != tt.want {
			t.Errorf("cleanField(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
