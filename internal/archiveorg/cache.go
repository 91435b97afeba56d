package archiveorg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/franz/tapevault/internal/util"
)

// DefaultTTL is how long a cache unit stays trusted. Within the bound
// no network request is made, whatever the remote state.
const DefaultTTL = 24 * time.Hour

// Kind names one of the three independently cached payloads per recording
type Kind string

const (
	KindMetadata Kind = "metadata"
	KindTracks   Kind = "tracks"
	KindReviews  Kind = "reviews"
)

// Cache is a filesystem-backed TTL cache in front of the metadata API.
// Each recording has three independent units, one file per
// {recordingId}.{kind}; freshness is the file's modification time against
// the TTL. Units hold the mapped payload, not the raw remote response.
//
// There is no cross-recording coordination: a race between two fetches of
// the same recording resolves last-write-wins, which is safe because
// fetched payloads for a given id are idempotent.
type Cache struct {
	dir    string
	ttl    time.Duration
	client *Client
}

// NewCache creates a cache rooted at dir with the default TTL
func NewCache(dir string, client *Client) *Cache {
	return &Cache{dir: dir, ttl: DefaultTTL, client: client}
}

// SetTTL overrides the freshness bound (used by tests)
func (c *Cache) SetTTL(ttl time.Duration) {
	c.ttl = ttl
}

// Meta returns the detailed metadata for a recording, from cache when
// fresh, otherwise fetched
func (c *Cache) Meta(ctx context.Context, recordingID string) (*RecordingMeta, error) {
	var meta RecordingMeta
	if c.readFresh(recordingID, KindMetadata, &meta) {
		return &meta, nil
	}

	fetched, _, _, err := c.refresh(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

// Tracks returns the track list for a recording
func (c *Cache) Tracks(ctx context.Context, recordingID string) ([]Track, error) {
	var tracks []Track
	if c.readFresh(recordingID, KindTracks, &tracks) {
		return tracks, nil
	}

	_, fetched, _, err := c.refresh(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

// Reviews returns the reviews for a recording
func (c *Cache) Reviews(ctx context.Context, recordingID string) ([]Review, error) {
	var reviews []Review
	if c.readFresh(recordingID, KindReviews, &reviews) {
		return reviews, nil
	}

	_, _, fetched, err := c.refresh(ctx, recordingID)
	if err != nil {
		return nil, err
	}
	return fetched, nil
}

// unitPath returns the cache file for one {recordingId}.{kind} unit
func (c *Cache) unitPath(recordingID string, kind Kind) string {
	return filepath.Join(c.dir, fmt.Sprintf("%s.%s.json", recordingID, kind))
}

// readFresh loads a cache unit when it exists and is inside the TTL.
// A corrupt unit is deleted and treated as a miss; an expired one is
// simply a miss, never served.
func (c *Cache) readFresh(recordingID string, kind Kind, v interface{}) bool {
	path := c.unitPath(recordingID, kind)

	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	if time.Since(info.ModTime()) >= c.ttl {
		util.DebugLog("Cache expired: %s.%s", recordingID, kind)
		return false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		// Self-healing: drop the corrupt unit and refetch
		util.WarnLog("Corrupt cache unit %s.%s, discarding: %v", recordingID, kind, err)
		os.Remove(path)
		return false
	}

	util.DebugLog("Cache hit: %s.%s", recordingID, kind)
	return true
}

// refresh fetches the recording's superset document and rewrites all
// three cache units. The fetch happens outside any lock; cache writes are
// independent per unit.
func (c *Cache) refresh(ctx context.Context, recordingID string) (*RecordingMeta, []Track, []Review, error) {
	meta, tracks, reviews, err := c.client.Fetch(ctx, recordingID)
	if err != nil {
		return nil, nil, nil, err
	}

	c.writeUnit(recordingID, KindMetadata, meta)
	c.writeUnit(recordingID, KindTracks, tracks)
	c.writeUnit(recordingID, KindReviews, reviews)

	return meta, tracks, reviews, nil
}

// writeUnit serializes one payload to its cache file. A failed write
// costs a refetch later, it does not fail the caller.
func (c *Cache) writeUnit(recordingID string, kind Kind, v interface{}) {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		util.WarnLog("Failed to create cache directory: %v", err)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		util.WarnLog("Failed to encode cache unit %s.%s: %v", recordingID, kind, err)
		return
	}

	if err := os.WriteFile(c.unitPath(recordingID, kind), data, 0644); err != nil {
		util.WarnLog("Failed to write cache unit %s.%s: %v", recordingID, kind, err)
	}
}

// Clear removes every cache unit
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to list cache: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(c.dir, e.Name())); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	return nil
}

// Stats reports the number of cache units and their total size
func (c *Cache) Stats() (units int, totalBytes int64, err error) {
	entries, err := os.ReadDir(c.dir)
	if os.IsNotExist(err) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list cache: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		units++
		totalBytes += info.Size()
	}

	return units, totalBytes, nil
}
