package store

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Show represents one concert instance.
//
// The id is a deterministic slug derived from date, venue, city, state and
// country, so repeated imports of the same archive produce identical keys.
// Venue and location are stored inline; there is no venue table.
type Show struct {
	ID           string
	Date         string // ISO yyyy-mm-dd
	Year         int
	Month        int
	YearMonth    string // yyyy-mm
	ShowSequence int    // disambiguates multiple shows at one venue on one date
	Venue        string
	VenueFull    string
	City         string
	State        string
	Country      string

	// Opaque structured blobs plus their flattened projections.
	// The flattened strings are computed once at import and are used
	// only for building the search index.
	SetlistJSON string
	LineupJSON  string
	SongNames   string
	MemberNames string

	// Precomputed from child recordings at import time.
	RecordingCount  int
	BestRecordingID string
	AvgRating       float64
	TotalReviews    int

	// Mirrored from the library table; only mutated inside the same
	// transaction as the library write.
	InLibrary      bool
	LibraryAddedAt time.Time
}

// SourceType classifies how a recording was captured
type SourceType string

const (
	SourceSoundboard SourceType = "soundboard"
	SourceMatrix     SourceType = "matrix"
	SourceFM         SourceType = "fm"
	SourceRemaster   SourceType = "remaster"
	SourceAudience   SourceType = "audience"
	SourceUnknown    SourceType = "unknown"
)

// sourcePriority orders source types for best-recording selection
var sourcePriority = map[SourceType]int{
	SourceSoundboard: 6,
	SourceMatrix:     5,
	SourceFM:         4,
	SourceRemaster:   3,
	SourceAudience:   2,
	SourceUnknown:    1,
}

// Priority returns the ranking weight of a source type (higher is better)
func (t SourceType) Priority() int {
	return sourcePriority[t]
}

// NormalizeSourceType maps a free-text source description to a SourceType.
// Matching is ordered: a "matrix of sbd+aud" description is a matrix, not a
// soundboard, so matrix is checked first.
func NormalizeSourceType(raw string) SourceType {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "matrix") || strings.Contains(s, "mtx"):
		return SourceMatrix
	case strings.Contains(s, "sbd") || strings.Contains(s, "soundboard") || strings.Contains(s, "board"):
		return SourceSoundboard
	case strings.Contains(s, "fm"):
		return SourceFM
	case strings.Contains(s, "remaster"):
		return SourceRemaster
	case strings.Contains(s, "aud"):
		return SourceAudience
	default:
		return SourceUnknown
	}
}

// Recording represents one audio transfer of a show
type Recording struct {
	ID             string
	ShowID         string
	SourceType     SourceType
	Rating         float64 // raw mean of review stars
	WeightedRating float64 // confidence-weighted score used for ranking
	ReviewCount    int
	HighRatings    int
	LowRatings     int
	Confidence     float64
	Taper          string
	SourceChain    string
	Lineage        string
}

// Collection is a curated, editorial grouping of shows.
// Tags and membership are stored as ordered JSON arrays, not join rows;
// the data is read-only and small. Members may reference shows that no
// longer exist, readers must tolerate that.
type Collection struct {
	Slug        string
	Name        string
	Description string
	Tags        []string
	ShowIDs     []string
	ShowCount   int
}

// PrimaryTag returns the first tag, used for filtering
func (c *Collection) PrimaryTag() string {
	if len(c.Tags) == 0 {
		return ""
	}
	return c.Tags[0]
}

// LibraryEntry is a user bookmark for a show
type LibraryEntry struct {
	ShowID  string
	AddedAt time.Time
	Pinned  bool
	Note    string
}

// RecentPlay records that a show has been played meaningfully.
// One row per show; repeat plays update LastPlayedAt and PlayCount.
type RecentPlay struct {
	ShowID        string
	FirstPlayedAt time.Time
	LastPlayedAt  time.Time
	PlayCount     int
}

// DataVersion records which import package is currently loaded.
// A row existing is proof of a complete prior import.
type DataVersion struct {
	Version         string
	SourceRef       string
	BuiltAt         time.Time
	ImportedAt      time.Time
	ShowCount       int
	RecordingCount  int
	CollectionCount int
}

// Setlist is the versioned structured form of a show's setlist blob
type Setlist struct {
	Version int   `json:"v"`
	Sets    []Set `json:"sets"`
}

// Set is one set within a setlist
type Set struct {
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}

// Song is one setlist entry; SegueInto marks a "->" transition
type Song struct {
	Name      string `json:"name"`
	SegueInto bool   `json:"segue,omitempty"`
}

// SongNames returns the setlist's song names in order
func (sl *Setlist) SongNames() []string {
	var names []string
	for _, set := range sl.Sets {
		for _, song := range set.Songs {
			if song.Name != "" {
				names = append(names, song.Name)
			}
		}
	}
	return names
}

// Lineup is the versioned structured form of a show's lineup blob
type Lineup struct {
	Version int      `json:"v"`
	Members []Member `json:"members"`
}

// Member is one performer in a lineup
type Member struct {
	Name        string `json:"name"`
	Instruments string `json:"instruments,omitempty"`
}

// MemberNames returns the lineup's member names in order
func (l *Lineup) MemberNames() []string {
	var names []string
	for _, m := range l.Members {
		if m.Name != "" {
			names = append(names, m.Name)
		}
	}
	return names
}

// ParseSetlist deserializes a setlist blob, failing on malformed data
// rather than deferring the problem to later use
func ParseSetlist(blob string) (*Setlist, error) {
	if blob == "" {
		return &Setlist{Version: 1}, nil
	}
	var sl Setlist
	if err := json.Unmarshal([]byte(blob), &sl); err != nil {
		return nil, fmt.Errorf("failed to parse setlist: %w", err)
	}
	return &sl, nil
}

// ParseLineup deserializes a lineup blob
func ParseLineup(blob string) (*Lineup, error) {
	if blob == "" {
		return &Lineup{Version: 1}, nil
	}
	var l Lineup
	if err := json.Unmarshal([]byte(blob), &l); err != nil {
		return nil, fmt.Errorf("failed to parse lineup: %w", err)
	}
	return &l, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify reduces a string to lowercase hyphen-separated tokens
func Slugify(s string) string {
	s = slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

// ShowSlug derives the deterministic show id from date, venue and location.
// Example: 1977-05-08 at Barton Hall, Cornell U. in Ithaca, NY, USA becomes
// "1977-05-08-barton-hall-cornell-u-ithaca-ny-usa".
func ShowSlug(date, venue, city, state, country string) string {
	parts := []string{date}
	for _, p := range []string{venue, city, state, country} {
		if slug := Slugify(p); slug != "" {
			parts = append(parts, slug)
		}
	}
	return strings.Join(parts, "-")
}
