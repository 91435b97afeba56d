package archiveorg

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/franz/tapevault/internal/archive"
	"github.com/franz/tapevault/internal/util"
)

const (
	// BaseURL is the metadata API base URL
	BaseURL = "https://archive.org"

	// UserAgent identifies this application to the API
	UserAgent = "tapevault/1.0 (https://github.com/franz/tapevault)"

	// DefaultTimeout bounds a metadata fetch; expiry is a fetch failure
	DefaultTimeout = 30 * time.Second
)

// Client fetches per-recording metadata from the remote API. One request
// per recording id returns a superset document (item metadata, file
// listing, reviews) that gets mapped into the three cached payloads.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewClient creates a new metadata API client
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    BaseURL,
		userAgent:  UserAgent,
	}
}

// SetBaseURL points the client at a different API host (used by tests)
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// RecordingMeta is the detailed metadata payload for one recording
type RecordingMeta struct {
	Identifier  string  `json:"identifier"`
	Title       string  `json:"title"`
	Date        string  `json:"date"`
	Venue       string  `json:"venue"`
	Source      string  `json:"source"`
	Taper       string  `json:"taper"`
	Lineage     string  `json:"lineage"`
	Notes       string  `json:"notes"`
	Downloads   int     `json:"downloads"`
	AvgRating   float64 `json:"avg_rating"`
	ReviewCount int     `json:"review_count"`
}

// Track is one playable audio file of a recording
type Track struct {
	FileName string  `json:"file_name"`
	Title    string  `json:"title"`
	Format   string  `json:"format"`
	TrackNum int     `json:"track_num"`
	Duration float64 `json:"duration_sec"`
	Size     int64   `json:"size_bytes"`
}

// Review is one user review of a recording
type Review struct {
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Reviewer string    `json:"reviewer"`
	Stars    float64   `json:"stars"`
	Date     time.Time `json:"date"`
}

// itemResponse is the remote superset document. Most metadata fields come
// back as string-or-list unpredictably, same as the import records.
type itemResponse struct {
	Metadata struct {
		Identifier archive.FlexString  `json:"identifier"`
		Title      archive.FlexString  `json:"title"`
		Date       archive.FlexString  `json:"date"`
		Venue      archive.FlexString  `json:"venue"`
		Source     archive.FlexString  `json:"source"`
		Taper      archive.FlexString  `json:"taper"`
		Lineage    archive.FlexString  `json:"lineage"`
		Notes      archive.FlexStrings `json:"notes"`
		AvgRating  archive.FlexString  `json:"avg_rating"`
		NumReviews archive.FlexString  `json:"num_reviews"`
	} `json:"metadata"`
	Files []struct {
		Name   string `json:"name"`
		Title  string `json:"title"`
		Format string `json:"format"`
		Track  string `json:"track"`
		Length string `json:"length"`
		Size   string `json:"size"`
	} `json:"files"`
	Reviews []struct {
		Title    string `json:"reviewtitle"`
		Body     string `json:"reviewbody"`
		Reviewer string `json:"reviewer"`
		Stars    string `json:"stars"`
		Date     string `json:"reviewdate"`
	} `json:"reviews"`
	Downloads int `json:"downloads"`
}

// Fetch retrieves the superset document for a recording and maps it into
// the three payload shapes
func (c *Client) Fetch(ctx context.Context, recordingID string) (*RecordingMeta, []Track, []Review, error) {
	if recordingID == "" {
		return nil, nil, nil, fmt.Errorf("recording id cannot be empty")
	}

	urlStr := fmt.Sprintf("%s/metadata/%s", c.baseURL, recordingID)
	util.DebugLog("Metadata API: fetching %s", recordingID)

	req, err := http.NewRequestWithContext(ctx, "GET", urlStr, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%w: %v", util.ErrRemoteFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, nil, nil, fmt.Errorf("%w: unexpected status code %d: %s",
			util.ErrRemoteFetch, resp.StatusCode, string(body))
	}

	var item itemResponse
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return nil, nil, nil, fmt.Errorf("%w: failed to decode response: %v", util.ErrRemoteFetch, err)
	}

	meta := mapMeta(&item, recordingID)
	tracks := mapTracks(&item)
	reviews := mapReviews(&item)

	util.DebugLog("Metadata API: %s has %d tracks, %d reviews",
		recordingID, len(tracks), len(reviews))

	return meta, tracks, reviews, nil
}

func mapMeta(item *itemResponse, recordingID string) *RecordingMeta {
	m := &RecordingMeta{
		Identifier: item.Metadata.Identifier.String(),
		Title:      item.Metadata.Title.String(),
		Date:       item.Metadata.Date.String(),
		Venue:      item.Metadata.Venue.String(),
		Source:     item.Metadata.Source.String(),
		Taper:      item.Metadata.Taper.String(),
		Lineage:    item.Metadata.Lineage.String(),
		Notes:      item.Metadata.Notes.Joined(),
		Downloads:  item.Downloads,
	}
	if m.Identifier == "" {
		m.Identifier = recordingID
	}
	m.AvgRating, _ = strconv.ParseFloat(item.Metadata.AvgRating.String(), 64)
	m.ReviewCount, _ = strconv.Atoi(item.Metadata.NumReviews.String())
	if m.ReviewCount == 0 {
		m.ReviewCount = len(item.Reviews)
	}
	return m
}

// audioFormats are the file formats that count as playable tracks
var audioFormats = map[string]bool{
	"Flac":       true,
	"24bit Flac": true,
	"VBR MP3":    true,
	"MP3":        true,
	"Ogg Vorbis": true,
	"Shorten":    true,
}

func mapTracks(item *itemResponse) []Track {
	var tracks []Track
	for _, f := range item.Files {
		if !audioFormats[f.Format] {
			continue
		}

		track := Track{
			FileName: f.Name,
			Title:    f.Title,
			Format:   f.Format,
			Duration: parseLength(f.Length),
		}
		if track.Title == "" {
			track.Title = f.Name
		}
		track.TrackNum, _ = strconv.Atoi(strings.SplitN(f.Track, "/", 2)[0])
		track.Size, _ = strconv.ParseInt(f.Size, 10, 64)

		tracks = append(tracks, track)
	}

	sort.SliceStable(tracks, func(i, j int) bool {
		if tracks[i].TrackNum != tracks[j].TrackNum {
			return tracks[i].TrackNum < tracks[j].TrackNum
		}
		return tracks[i].FileName < tracks[j].FileName
	})

	return tracks
}

// parseLength handles the two length renderings the API uses: decimal
// seconds ("307.12") and clock time ("5:07" or "1:02:03")
func parseLength(s string) float64 {
	if s == "" {
		return 0
	}
	if !strings.Contains(s, ":") {
		sec, _ := strconv.ParseFloat(s, 64)
		return sec
	}

	var total float64
	for _, part := range strings.Split(s, ":") {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0
		}
		total = total*60 + v
	}
	return total
}

func mapReviews(item *itemResponse) []Review {
	var reviews []Review
	for _, r := range item.Reviews {
		review := Review{
			Title:    r.Title,
			Body:     r.Body,
			Reviewer: r.Reviewer,
		}
		review.Stars, _ = strconv.ParseFloat(r.Stars, 64)
		if t, err := time.Parse("2006-01-02 15:04:05", r.Date); err == nil {
			review.Date = t
		}
		reviews = append(reviews, review)
	}
	return reviews
}
