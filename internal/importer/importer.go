package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"
	"github.com/schollz/progressbar/v3"

	"github.com/franz/tapevault/internal/archive"
	"github.com/franz/tapevault/internal/report"
	"github.com/franz/tapevault/internal/search"
	"github.com/franz/tapevault/internal/store"
	"github.com/franz/tapevault/internal/util"
)

// searchBatchSize bounds memory during the index build
const searchBatchSize = 500

// Importer is the one-shot bulk loader that turns a downloaded import
// package into a populated catalog plus a rebuilt search index.
//
// The catalog write is a single transaction: any database error rolls the
// whole import back and the prior catalog survives. Parse errors never
// abort the run; malformed records are logged, skipped and counted.
type Importer struct {
	store     *store.Store
	indexPath string
	logger    *report.EventLogger
	progress  bool
}

// Config holds importer configuration
type Config struct {
	Store        *store.Store
	IndexPath    string
	Logger       *report.EventLogger
	ShowProgress bool
}

// New creates a new Importer
func New(cfg *Config) *Importer {
	return &Importer{
		store:     cfg.Store,
		indexPath: cfg.IndexPath,
		logger:    cfg.Logger,
		progress:  cfg.ShowProgress,
	}
}

// Result reports what an import run did
type Result struct {
	Version            string
	ShowsImported      int
	ShowsSkipped       int
	RecordingsImported int
	RecordingsSkipped  int
	RecordingsOrphaned int
	Collections        int
	Duration           time.Duration
}

// Run imports the package at root, replacing the entire catalog and
// search index
func (im *Importer) Run(ctx context.Context, root string) (*Result, error) {
	start := time.Now()

	pkg, err := archive.Open(root)
	if err != nil {
		return nil, err
	}

	manifest, err := pkg.Manifest()
	if err != nil {
		return nil, err
	}

	util.InfoLog("Importing package %s (built %s)", manifest.Version,
		manifest.BuiltAt.Format("2006-01-02"))

	result := &Result{Version: manifest.Version}

	shows, err := im.parseShows(pkg, result)
	if err != nil {
		return nil, err
	}

	recordings, err := im.parseRecordings(pkg, result)
	if err != nil {
		return nil, err
	}

	computeShowStats(shows, recordings)

	collections, err := pkg.Collections()
	if err != nil {
		// A broken collections record degrades the package, it does not
		// abort the run
		util.WarnLog("Skipping collections: %v", err)
		im.logger.LogSkip(report.EventCollection, "collections.json", err)
		collections = nil
	}

	// The new search index is built beside the live one and swapped in
	// only after the catalog transaction commits
	buildPath := im.indexPath + ".building"
	idx, err := search.OpenBuilder(buildPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		idx.Close()
		os.RemoveAll(buildPath)
	}()

	err = im.store.Transaction(func(tx *sql.Tx) error {
		return im.loadCatalog(ctx, tx, idx, manifest, shows, recordings, collections, result)
	})
	if err != nil {
		im.logger.LogError(err)
		return nil, fmt.Errorf("import failed, catalog unchanged: %w", err)
	}

	if err := idx.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize search index: %w", err)
	}
	if err := search.Swap(buildPath, im.indexPath); err != nil {
		return nil, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// parseShows reads every show record into a keyed map. Slug collisions
// bump the show sequence so two shows at one venue on one day stay
// distinct and deterministic across runs.
func (im *Importer) parseShows(pkg *archive.Archive, result *Result) (map[string]*store.Show, error) {
	paths, err := pkg.ShowPaths()
	if err != nil {
		return nil, err
	}

	shows := make(map[string]*store.Show, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read show record: %w", err)
		}

		sh, err := buildShow(data)
		if err != nil {
			util.DebugLog("Skipping show record %s: %v", path, err)
			im.logger.LogSkip(report.EventShow, path, err)
			result.ShowsSkipped++
			continue
		}

		for shows[sh.ID] != nil {
			sh.ShowSequence++
			sh.ID = fmt.Sprintf("%s-%d", sh.ID, sh.ShowSequence)
		}
		shows[sh.ID] = sh
	}

	util.InfoLog("Parsed %d show records (%d skipped)", len(shows), result.ShowsSkipped)
	return shows, nil
}

// buildShow turns one show record into a catalog row with its derived
// fields: year/month split, versioned blobs, flattened name strings
func buildShow(data []byte) (*store.Show, error) {
	rec, err := archive.ParseShowRecord(data)
	if err != nil {
		return nil, err
	}

	setlist, err := rec.ParseSetlist()
	if err != nil {
		return nil, err
	}
	lineup, err := rec.ParseLineup()
	if err != nil {
		return nil, err
	}

	setlistJSON, err := json.Marshal(setlist)
	if err != nil {
		return nil, fmt.Errorf("failed to encode setlist: %w", err)
	}
	lineupJSON, err := json.Marshal(lineup)
	if err != nil {
		return nil, fmt.Errorf("failed to encode lineup: %w", err)
	}

	date := rec.Date.String()
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("show record has invalid date %q", date)
	}

	return &store.Show{
		ID:           rec.Slug(),
		Date:         date,
		Year:         t.Year(),
		Month:        int(t.Month()),
		YearMonth:    date[:7],
		ShowSequence: rec.Sequence,
		Venue:        rec.Venue.String(),
		VenueFull:    rec.VenueFull.String(),
		City:         rec.City.String(),
		State:        rec.State.String(),
		Country:      rec.Country.String(),
		SetlistJSON:  string(setlistJSON),
		LineupJSON:   string(lineupJSON),
		SongNames:    joinNames(setlist.SongNames()),
		MemberNames:  joinNames(lineup.MemberNames()),
	}, nil
}

func joinNames(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// parseRecordings reads every recording record into a keyed map
func (im *Importer) parseRecordings(pkg *archive.Archive, result *Result) (map[string]*store.Recording, error) {
	paths, err := pkg.RecordingPaths()
	if err != nil {
		return nil, err
	}

	recordings := make(map[string]*store.Recording, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read recording record: %w", err)
		}

		rec, err := archive.ParseRecordingRecord(data)
		if err != nil {
			util.DebugLog("Skipping recording record %s: %v", path, err)
			im.logger.LogSkip(report.EventRecording, path, err)
			result.RecordingsSkipped++
			continue
		}

		r := &store.Recording{
			ID:          rec.ID.String(),
			ShowID:      rec.ShowSlug(),
			SourceType:  store.NormalizeSourceType(rec.Source.String()),
			Rating:      rec.AvgRating,
			ReviewCount: rec.NumReviews,
			HighRatings: rec.HighRatings,
			LowRatings:  rec.LowRatings,
			Taper:       rec.Taper.String(),
			SourceChain: rec.SourceChain.Joined(),
			Lineage:     rec.Lineage.Joined(),
		}
		store.ComputeRatingScores(r)
		recordings[r.ID] = r
	}

	util.InfoLog("Parsed %d recording records (%d skipped)", len(recordings), result.RecordingsSkipped)
	return recordings, nil
}

// computeShowStats precomputes each show's recording count, review totals,
// review-weighted average rating and best recording id
func computeShowStats(shows map[string]*store.Show, recordings map[string]*store.Recording) {
	byShow := make(map[string][]*store.Recording)
	for _, r := range recordings {
		if shows[r.ShowID] != nil {
			byShow[r.ShowID] = append(byShow[r.ShowID], r)
		}
	}

	for id, sh := range shows {
		recs := byShow[id]
		sh.RecordingCount = len(recs)
		if len(recs) == 0 {
			continue
		}

		var ratingSum float64
		for _, r := range recs {
			sh.TotalReviews += r.ReviewCount
			ratingSum += r.Rating * float64(r.ReviewCount)
		}
		if sh.TotalReviews > 0 {
			sh.AvgRating = ratingSum / float64(sh.TotalReviews)
		}

		if best := store.SelectBest(recs); best != nil {
			sh.BestRecordingID = best.ID
		}
	}
}

// loadCatalog performs the destructive half of the import inside one
// transaction: snapshot user state, wipe, repopulate, restore, finalize
func (im *Importer) loadCatalog(ctx context.Context, tx *sql.Tx, idx *search.Index,
	manifest *archive.Manifest, shows map[string]*store.Show,
	recordings map[string]*store.Recording, collections []*archive.CollectionRecord,
	result *Result) error {

	userState, err := store.SnapshotUserStateTx(tx)
	if err != nil {
		return err
	}

	if err := store.WipeCatalogTx(tx); err != nil {
		return err
	}

	// Insert shows in date order; stable order keeps re-imports
	// byte-identical
	ordered := make([]*store.Show, 0, len(shows))
	for _, sh := range shows {
		ordered = append(ordered, sh)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		return ordered[i].ID < ordered[j].ID
	})

	bar := im.newBar(len(ordered)+len(recordings), "Importing")
	batch := idx.NewBatch()

	for _, sh := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := store.InsertShowTx(tx, sh); err != nil {
			return err
		}
		im.logger.LogImported(report.EventShow, sh.ID)

		// Same pass builds the show's search entry
		if err := batch.Add(sh.ID, search.ShowText(sh)); err != nil {
			return fmt.Errorf("failed to index show %s: %w", sh.ID, err)
		}
		if batch.Size() >= searchBatchSize {
			if err := idx.RunBatch(batch); err != nil {
				return err
			}
		}

		result.ShowsImported++
		barAdd(bar, 1)
	}

	if err := idx.RunBatch(batch); err != nil {
		return err
	}

	// Recordings insert only under a show from this package; the rest
	// are orphans, dropped and counted, never inserted
	recOrder := make([]string, 0, len(recordings))
	for id := range recordings {
		recOrder = append(recOrder, id)
	}
	sort.Strings(recOrder)

	for _, id := range recOrder {
		if err := ctx.Err(); err != nil {
			return err
		}

		r := recordings[id]
		if shows[r.ShowID] == nil {
			im.logger.LogOrphan(r.ID, r.ShowID)
			result.RecordingsOrphaned++
			barAdd(bar, 1)
			continue
		}

		if err := store.InsertRecordingTx(tx, r); err != nil {
			return err
		}
		im.logger.LogImported(report.EventRecording, r.ID)
		result.RecordingsImported++
		barAdd(bar, 1)
	}

	for _, rec := range collections {
		c := &store.Collection{
			Slug:        rec.Slug.String(),
			Name:        rec.Name.String(),
			Description: rec.Description.String(),
			Tags:        rec.Tags,
			ShowIDs:     rec.Shows,
		}
		if err := store.InsertCollectionTx(tx, c); err != nil {
			return err
		}
		im.logger.LogImported(report.EventCollection, c.Slug)
		result.Collections++
	}

	if err := store.RestoreUserStateTx(tx, userState, func(id string) bool {
		return shows[id] != nil
	}); err != nil {
		return err
	}

	// Written last: a data version row is proof of a complete import
	return store.SetDataVersionTx(tx, &store.DataVersion{
		Version:         manifest.Version,
		SourceRef:       manifest.SourceRef.String(),
		BuiltAt:         manifest.BuiltAt,
		ImportedAt:      time.Now(),
		ShowCount:       result.ShowsImported,
		RecordingCount:  result.RecordingsImported,
		CollectionCount: result.Collections,
	})
}

func (im *Importer) newBar(total int, description string) *progressbar.ProgressBar {
	if !im.progress || !util.IsTerminal(os.Stdout.Fd()) || util.IsQuiet() {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func barAdd(bar *progressbar.ProgressBar, n int) {
	if bar != nil {
		bar.Add(n)
	}
}
