package archiveorg

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franz/tapevault/internal/util"
)

const testItemDoc = `{
	"metadata": {
		"identifier": "gd1977-05-08.sbd.hicks",
		"title": ["Grateful Dead Live at Barton Hall"],
		"date": "1977-05-08",
		"venue": "Barton Hall, Cornell U.",
		"source": "SBD master reel",
		"taper": "Betty Cantor",
		"avg_rating": "4.9",
		"num_reviews": "2"
	},
	"files": [
		{"name": "gd77.t02.flac", "title": "Loser", "format": "Flac", "track": "2", "length": "7:05", "size": "52428800"},
		{"name": "gd77.t01.flac", "title": "Minglewood Blues", "format": "Flac", "track": "1/12", "length": "307.12", "size": "41943040"},
		{"name": "gd77.txt", "format": "Text", "length": ""},
		{"name": "gd77.t01.mp3", "title": "Minglewood Blues", "format": "VBR MP3", "track": "1", "length": "307"}
	],
	"reviews": [
		{"reviewtitle": "The one", "reviewbody": "Best ever.", "reviewer": "deadhead42", "stars": "5", "reviewdate": "2009-05-08 12:00:00"},
		{"reviewtitle": "Overrated", "reviewer": "contrarian", "stars": "3", "reviewdate": "2011-01-02 08:30:00"}
	],
	"downloads": 123456
}`

// newTestServer serves the canned item document for every request
func newTestServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(5 * time.Second)
	client.SetBaseURL(srv.URL)
	return client
}

func TestFetchMapsItemDocument(t *testing.T) {
	client := newTestServer(t, http.StatusOK, testItemDoc)

	meta, tracks, reviews, err := client.Fetch(context.Background(), "gd1977-05-08.sbd.hicks")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// String-or-list metadata fields normalize
	if meta.Title != "Grateful Dead Live at Barton Hall" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.AvgRating != 4.9 || meta.ReviewCount != 2 {
		t.Errorf("rating = %f/%d", meta.AvgRating, meta.ReviewCount)
	}
	if meta.Downloads != 123456 {
		t.Errorf("downloads = %d", meta.Downloads)
	}

	// Non-audio files drop out; track order is numeric
	if len(tracks) != 3 {
		t.Fatalf("tracks = %d, want 3", len(tracks))
	}
	if tracks[0].Title != "Minglewood Blues" || tracks[0].TrackNum != 1 {
		t.Errorf("first track: %+v", tracks[0])
	}
	if tracks[2].FileName != "gd77.t02.flac" {
		t.Errorf("last track: %+v", tracks[2])
	}
	// Both length renderings parse to seconds
	if math.Abs(tracks[0].Duration-307.12) > 1e-9 {
		t.Errorf("duration = %f, want 307.12", tracks[0].Duration)
	}
	if tracks[2].Duration != 7*60+5 {
		t.Errorf("clock duration = %f, want 425", tracks[2].Duration)
	}

	if len(reviews) != 2 {
		t.Fatalf("reviews = %d, want 2", len(reviews))
	}
	if reviews[0].Stars != 5 || reviews[0].Reviewer != "deadhead42" {
		t.Errorf("first review: %+v", reviews[0])
	}
	if reviews[0].Date.Year() != 2009 {
		t.Errorf("review date: %v", reviews[0].Date)
	}
}

func TestFetchErrors(t *testing.T) {
	notFound := newTestServer(t, http.StatusNotFound, "no such item")
	if _, _, _, err := notFound.Fetch(context.Background(), "missing"); !errors.Is(err, util.ErrRemoteFetch) {
		t.Errorf("expected ErrRemoteFetch for 404, got %v", err)
	}

	garbage := newTestServer(t, http.StatusOK, "<html>not json</html>")
	if _, _, _, err := garbage.Fetch(context.Background(), "x"); !errors.Is(err, util.ErrRemoteFetch) {
		t.Errorf("expected ErrRemoteFetch for bad body, got %v", err)
	}

	ok := newTestServer(t, http.StatusOK, testItemDoc)
	if _, _, _, err := ok.Fetch(context.Background(), ""); err == nil {
		t.Error("expected error for empty recording id")
	}
}

func TestParseLength(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"307.12", 307.12},
		{"5:07", 307},
		{"1:02:03", 3723},
		{"", 0},
		{"junk", 0},
	}
	for _, tt := range tests {
		if got := parseLength(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("parseLength(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
