package store

// Schema v1 - catalog, user state and data version tables
const schemaV1 = `
-- Schema version tracking
CREATE TABLE IF NOT EXISTS schema_version (
  version INTEGER PRIMARY KEY,
  applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- One row per concert; id is the deterministic show slug
CREATE TABLE IF NOT EXISTS shows (
  id TEXT PRIMARY KEY,
  date TEXT NOT NULL,
  year INTEGER NOT NULL,
  month INTEGER NOT NULL,
  year_month TEXT NOT NULL,
  show_sequence INTEGER NOT NULL DEFAULT 0,
  venue TEXT NOT NULL DEFAULT '',
  venue_full TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  state TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  setlist_json TEXT NOT NULL DEFAULT '',
  lineup_json TEXT NOT NULL DEFAULT '',
  song_names TEXT NOT NULL DEFAULT '',
  member_names TEXT NOT NULL DEFAULT '',
  recording_count INTEGER NOT NULL DEFAULT 0,
  best_recording_id TEXT,
  avg_rating REAL NOT NULL DEFAULT 0,
  total_reviews INTEGER NOT NULL DEFAULT 0,
  in_library INTEGER NOT NULL DEFAULT 0,
  library_added_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_shows_date ON shows(date, show_sequence);
CREATE INDEX IF NOT EXISTS idx_shows_year ON shows(year);
CREATE INDEX IF NOT EXISTS idx_shows_year_month ON shows(year_month);

-- One row per audio transfer; id is the external recording identifier
CREATE TABLE IF NOT EXISTS recordings (
  id TEXT PRIMARY KEY,
  show_id TEXT NOT NULL REFERENCES shows(id) ON DELETE CASCADE,
  source_type TEXT NOT NULL DEFAULT 'unknown',
  rating REAL NOT NULL DEFAULT 0,
  weighted_rating REAL NOT NULL DEFAULT 0,
  review_count INTEGER NOT NULL DEFAULT 0,
  high_ratings INTEGER NOT NULL DEFAULT 0,
  low_ratings INTEGER NOT NULL DEFAULT 0,
  confidence REAL NOT NULL DEFAULT 0,
  taper TEXT NOT NULL DEFAULT '',
  source_chain TEXT NOT NULL DEFAULT '',
  lineage TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_recordings_show ON recordings(show_id);

-- Curated groupings; tags and membership are ordered JSON arrays
CREATE TABLE IF NOT EXISTS collections (
  slug TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  tags_json TEXT NOT NULL DEFAULT '[]',
  show_ids_json TEXT NOT NULL DEFAULT '[]',
  show_count INTEGER NOT NULL DEFAULT 0
);

-- User bookmarks; existence is mirrored into shows.in_library
CREATE TABLE IF NOT EXISTS library (
  show_id TEXT PRIMARY KEY REFERENCES shows(id) ON DELETE CASCADE,
  added_at DATETIME NOT NULL,
  pinned INTEGER NOT NULL DEFAULT 0,
  note TEXT NOT NULL DEFAULT ''
);

-- Deduplicated play ledger, one row per show ever played meaningfully
CREATE TABLE IF NOT EXISTS recent_plays (
  show_id TEXT PRIMARY KEY REFERENCES shows(id) ON DELETE CASCADE,
  first_played_at DATETIME NOT NULL,
  last_played_at DATETIME NOT NULL,
  play_count INTEGER NOT NULL DEFAULT 1
);

-- Single-row store for the currently loaded import package.
-- The importer replaces the row inside the import transaction, last,
-- so a row existing means the prior import completed.
CREATE TABLE IF NOT EXISTS data_version (
  version TEXT NOT NULL,
  source_ref TEXT NOT NULL DEFAULT '',
  built_at DATETIME,
  imported_at DATETIME NOT NULL,
  show_count INTEGER NOT NULL DEFAULT 0,
  recording_count INTEGER NOT NULL DEFAULT 0,
  collection_count INTEGER NOT NULL DEFAULT 0
);
`

// Schema v2 - Query-path indexes
const schemaV2 = `
CREATE INDEX IF NOT EXISTS idx_shows_city ON shows(city);
CREATE INDEX IF NOT EXISTS idx_shows_state ON shows(state);
CREATE INDEX IF NOT EXISTS idx_recordings_ranked ON recordings(show_id, weighted_rating DESC);
CREATE INDEX IF NOT EXISTS idx_recent_last_played ON recent_plays(last_played_at DESC);
CREATE INDEX IF NOT EXISTS idx_library_pinned ON library(pinned DESC, added_at DESC);
`
