package search

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/whitespace"
	"github.com/blevesearch/bleve/v2/mapping"
)

// analyzerName is the custom analyzer the show-text field is indexed and
// queried with
const analyzerName = "showtext"

// defaultLimit bounds result sets when the caller does not
const defaultLimit = 100

// document is what gets indexed, one per show, keyed by show id
type document struct {
	Text string `json:"text"`
}

// Index is the full-text index over synthesized per-show text. It holds a
// bleve index directory on disk, separate from the catalog database, and
// returns ranked show ids only; callers fetch rows from the store.
type Index struct {
	path string
	idx  bleve.Index
}

// buildIndexMapping sets up the whitespace/lowercase analyzer. Splitting
// on whitespace only keeps '-', '.' and '/' inside tokens, so a query
// like "5-8-77" stays one term and matches the indexed date rendering
// instead of shattering into three numbers.
func buildIndexMapping() (mapping.IndexMapping, error) {
	im := bleve.NewIndexMapping()

	err := im.AddCustomAnalyzer(analyzerName, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     whitespace.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build analyzer: %w", err)
	}

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = analyzerName
	textField.Store = false
	textField.IncludeInAll = false

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("text", textField)

	im.DefaultMapping = doc
	im.DefaultAnalyzer = analyzerName

	return im, nil
}

// Open opens the index at path, creating an empty one if none exists
func Open(path string) (*Index, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return create(path)
	}

	idx, err := bleve.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open search index: %w", err)
	}

	return &Index{path: path, idx: idx}, nil
}

// OpenBuilder creates a fresh index at path, destroying whatever is there.
// Used for full rebuilds; the result is swapped into place once the
// catalog transaction it belongs to has committed.
func OpenBuilder(path string) (*Index, error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to clear stale index: %w", err)
	}
	return create(path)
}

func create(path string) (*Index, error) {
	im, err := buildIndexMapping()
	if err != nil {
		return nil, err
	}

	idx, err := bleve.New(path, im)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}

	return &Index{path: path, idx: idx}, nil
}

// Close closes the underlying bleve index
func (x *Index) Close() error {
	if x.idx != nil {
		return x.idx.Close()
	}
	return nil
}

// Path returns the index directory
func (x *Index) Path() string {
	return x.path
}

// Index upserts the entry for one show, replacing any previous text
func (x *Index) Index(showID, text string) error {
	return x.idx.Index(showID, document{Text: text})
}

// Delete removes the entry for one show
func (x *Index) Delete(showID string) error {
	return x.idx.Delete(showID)
}

// Batch groups index writes for bulk loading
type Batch struct {
	batch *bleve.Batch
}

// NewBatch creates an empty write batch
func (x *Index) NewBatch() *Batch {
	return &Batch{batch: x.idx.NewBatch()}
}

// Add queues one show's entry in the batch
func (b *Batch) Add(showID, text string) error {
	return b.batch.Index(showID, document{Text: text})
}

// Size returns the number of queued writes
func (b *Batch) Size() int {
	return b.batch.Size()
}

// RunBatch applies a batch and resets it for reuse
func (x *Index) RunBatch(b *Batch) error {
	if err := x.idx.Batch(b.batch); err != nil {
		return fmt.Errorf("failed to apply index batch: %w", err)
	}
	b.batch.Reset()
	return nil
}

// Count returns the number of indexed shows
func (x *Index) Count() (uint64, error) {
	return x.idx.DocCount()
}

// Search runs a free-text query and returns show ids in relevance order.
// Ties keep the index's stable ordering; callers must not re-sort.
func (x *Index) Search(query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	mq := bleve.NewMatchQuery(query)
	mq.SetField("text")

	req := bleve.NewSearchRequest(mq)
	req.Size = limit

	res, err := x.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}

	return ids, nil
}

// Swap atomically replaces the live index directory with a freshly built
// one. Both indexes must be closed first.
func Swap(buildPath, livePath string) error {
	if err := os.RemoveAll(livePath); err != nil {
		return fmt.Errorf("failed to remove old index: %w", err)
	}
	if err := os.Rename(buildPath, livePath); err != nil {
		return fmt.Errorf("failed to swap in new index: %w", err)
	}
	return nil
}
