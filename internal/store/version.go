package store

import (
	"database/sql"
	"fmt"
)

// SetDataVersionTx replaces the single data_version row within an import
// transaction. Written last, so the row existing proves the import
// completed.
func SetDataVersionTx(tx *sql.Tx, v *DataVersion) error {
	if _, err := tx.Exec("DELETE FROM data_version"); err != nil {
		return fmt.Errorf("failed to clear data version: %w", err)
	}

	_, err := tx.Exec(`
		INSERT INTO data_version (
			version, source_ref, built_at, imported_at,
			show_count, recording_count, collection_count
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`, v.Version, v.SourceRef, v.BuiltAt, v.ImportedAt,
		v.ShowCount, v.RecordingCount, v.CollectionCount)
	if err != nil {
		return fmt.Errorf("failed to write data version: %w", err)
	}

	return nil
}

// GetDataVersion returns the currently loaded import package, or nil when
// no complete import has ever run
func (s *Store) GetDataVersion() (*DataVersion, error) {
	v := &DataVersion{}
	var builtAt sql.NullTime
	err := s.db.QueryRow(`
		SELECT version, source_ref, built_at, imported_at,
		       show_count, recording_count, collection_count
		FROM data_version LIMIT 1
	`).Scan(&v.Version, &v.SourceRef, &builtAt, &v.ImportedAt,
		&v.ShowCount, &v.RecordingCount, &v.CollectionCount)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get data version: %w", err)
	}
	if builtAt.Valid {
		v.BuiltAt = builtAt.Time
	}

	return v, nil
}
