package store

import (
	"database/sql"
	"fmt"

	"github.com/goccy/go-json"
)

func scanCollection(row rowScanner) (*Collection, error) {
	c := &Collection{}
	var tagsJSON, showIDsJSON string
	err := row.Scan(&c.Slug, &c.Name, &c.Description, &tagsJSON, &showIDsJSON, &c.ShowCount)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &c.Tags); err != nil {
		return nil, fmt.Errorf("failed to parse collection tags: %w", err)
	}
	if err := json.Unmarshal([]byte(showIDsJSON), &c.ShowIDs); err != nil {
		return nil, fmt.Errorf("failed to parse collection members: %w", err)
	}

	return c, nil
}

// InsertCollectionTx inserts a collection within an import transaction.
// Membership is logical only; dangling show references are allowed.
func InsertCollectionTx(tx *sql.Tx, c *Collection) error {
	tagsJSON, err := json.Marshal(c.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode collection tags: %w", err)
	}
	showIDsJSON, err := json.Marshal(c.ShowIDs)
	if err != nil {
		return fmt.Errorf("failed to encode collection members: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO collections (slug, name, description, tags_json, show_ids_json, show_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, c.Slug, c.Name, c.Description, string(tagsJSON), string(showIDsJSON), len(c.ShowIDs))
	if err != nil {
		return fmt.Errorf("failed to insert collection %s: %w", c.Slug, err)
	}

	return nil
}

// GetCollection retrieves a collection by slug, or nil if it does not exist
func (s *Store) GetCollection(slug string) (*Collection, error) {
	c, err := scanCollection(s.db.QueryRow(`
		SELECT slug, name, description, tags_json, show_ids_json, show_count
		FROM collections WHERE slug = ?
	`, slug))

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	return c, nil
}

// AllCollections retrieves every collection ordered by name
func (s *Store) AllCollections() ([]*Collection, error) {
	rows, err := s.db.Query(`
		SELECT slug, name, description, tags_json, show_ids_json, show_count
		FROM collections ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer rows.Close()

	var collections []*Collection
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		collections = append(collections, c)
	}

	return collections, rows.Err()
}

// CollectionsForShow returns the collections whose membership includes the
// given show id. This scans every collection's member list; acceptable while
// the collection count stays in the tens.
func (s *Store) CollectionsForShow(showID string) ([]*Collection, error) {
	all, err := s.AllCollections()
	if err != nil {
		return nil, err
	}

	var matches []*Collection
	for _, c := range all {
		for _, id := range c.ShowIDs {
			if id == showID {
				matches = append(matches, c)
				break
			}
		}
	}

	return matches, nil
}

// CountCollections returns the number of collections in the catalog
func (s *Store) CountCollections() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM collections").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count collections: %w", err)
	}
	return count, nil
}
