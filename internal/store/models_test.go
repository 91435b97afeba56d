package store

import (
	"testing"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Barton Hall, Cornell U.", "barton-hall-cornell-u"},
		{"Fillmore West", "fillmore-west"},
		{"  spaced  out  ", "spaced-out"},
		{"UPPER", "upper"},
		{"", ""},
		{"---", ""},
		{"O'Keefe Centre", "o-keefe-centre"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShowSlug(t *testing.T) {
	got := ShowSlug("1977-05-08", "Barton Hall, Cornell U.", "Ithaca", "NY", "USA")
	want := "1977-05-08-barton-hall-cornell-u-ithaca-ny-usa"
	if got != want {
		t.Errorf("ShowSlug = %q, want %q", got, want)
	}

	// Empty location parts drop out instead of leaving double dashes
	got = ShowSlug("1972-05-26", "Strand Lyceum", "London", "", "UK")
	want = "1972-05-26-strand-lyceum-london-uk"
	if got != want {
		t.Errorf("ShowSlug = %q, want %q", got, want)
	}
}

func TestNormalizeSourceType(t *testing.T) {
	tests := []struct {
		in   string
		want SourceType
	}{
		{"SBD", SourceSoundboard},
		{"Soundboard master reel", SourceSoundboard},
		{"Matrix of SBD + AUD", SourceMatrix},
		{"mtx blend", SourceMatrix},
		{"FM broadcast", SourceFM},
		{"2013 remaster", SourceRemaster},
		{"AUD: Nak 300s", SourceAudience},
		{"unknown gen tape", SourceUnknown},
		{"", SourceUnknown},
	}
	for _, tt := range tests {
		if got := NormalizeSourceType(tt.in); got != tt.want {
			t.Errorf("NormalizeSourceType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSourcePriorityOrdering(t *testing.T) {
	order := []SourceType{
		SourceSoundboard,
		SourceMatrix,
		SourceFM,
		SourceRemaster,
		SourceAudience,
		SourceUnknown,
	}
	for i := 1; i < len(order); i++ {
		if order[i-1].Priority() <= order[i].Priority() {
			t.Errorf("expected %s priority > %s priority", order[i-1], order[i])
		}
	}
}

func TestParseSetlistRoundTrip(t *testing.T) {
	blob := `{"v":1,"sets":[{"name":"Set 1","songs":[{"name":"Minglewood Blues"},{"name":"Scarlet Begonias","segue":true},{"name":"Fire on the Mountain"}]}]}`
	sl, err := ParseSetlist(blob)
	if err != nil {
		t.Fatalf("failed to parse setlist: %v", err)
	}
	names := sl.SongNames()
	if len(names) != 3 || names[1] != "Scarlet Begonias" {
		t.Errorf("unexpected song names: %v", names)
	}
	if !sl.Sets[0].Songs[1].SegueInto {
		t.Error("expected segue flag on second song")
	}
}

func TestParseSetlistEmpty(t *testing.T) {
	sl, err := ParseSetlist("")
	if err != nil {
		t.Fatalf("empty blob should parse: %v", err)
	}
	if len(sl.Sets) != 0 {
		t.Errorf("expected no sets, got %d", len(sl.Sets))
	}
}

func TestParseSetlistMalformed(t *testing.T) {
	if _, err := ParseSetlist("{not json"); err == nil {
		t.Error("expected error for malformed setlist blob")
	}
}

func TestParseLineup(t *testing.T) {
	blob := `{"v":1,"members":[{"name":"Jerry Garcia","instruments":"guitar, vocals"},{"name":"Phil Lesh","instruments":"bass"}]}`
	l, err := ParseLineup(blob)
	if err != nil {
		t.Fatalf("failed to parse lineup: %v", err)
	}
	names := l.MemberNames()
	if len(names) != 2 || names[0] != "Jerry Garcia" {
		t.Errorf("unexpected member names: %v", names)
	}
}
