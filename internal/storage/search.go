package storage

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Search is one recorded search session
type Search struct {
	ID         string
	Query      string
	Root       string
	Regex      bool
	DocCount   int
	MatchCount int
	StartedAt  time.Time
}

// RecordSearch stores a completed indexing pass
func (db *DB) RecordSearch(query, root string, regex bool, docCount, matchCount int, startedAt time.Time) (*Search, error) {
	id := uuid.New().String()

	regexFlag := 0
	if regex {
		regexFlag = 1
	}

	_, err := db.Exec(`
		INSERT INTO searches (id, query, root, regex, doc_count, match_count, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, query, root, regexFlag, docCount, matchCount, startedAt.Unix())

	if err != nil {
		return nil, err
	}

	return db.GetSearch(id)
}

// GetSearch retrieves a search by ID
func (db *DB) GetSearch(id string) (*Search, error) {
	var s Search
	var regexFlag int
	var startedAt int64

	err := db.QueryRow(`
		SELECT id, query, root, regex, doc_count, match_count, started_at
		FROM searches WHERE id = ?
	`, id).Scan(&s.ID, &s.Query, &s.Root, &regexFlag, &s.DocCount, &s.MatchCount, &startedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	s.Regex = regexFlag == 1
	s.StartedAt = time.Unix(startedAt, 0)

	return &s, nil
}

// ListSearches retrieves recent searches, newest first
func (db *DB) ListSearches(limit int) ([]*Search, error) {
	rows, err := db.Query(`
		SELECT id, query, root, regex, doc_count, match_count, started_at
		FROM searches
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []*Search
	for rows.Next() {
		var s Search
		var regexFlag int
		var startedAt int64

		if err := rows.Scan(&s.ID, &s.Query, &s.Root, &regexFlag, &s.DocCount, &s.MatchCount, &startedAt); err != nil {
			return nil, err
		}

		s.Regex = regexFlag == 1
		s.StartedAt = time.Unix(startedAt, 0)
		searches = append(searches, &s)
	}

	return searches, rows.Err()
}

// DeleteSearch removes a search record
func (db *DB) DeleteSearch(id string) error {
	_, err := db.Exec(`DELETE FROM searches WHERE id = ?`, id)
	return err
}

// PruneSearches deletes all but the newest keep records and returns the
// number removed
func (db *DB) PruneSearches(keep int) (int, error) {
	// LIMIT -1 disables the limit in sqlite
	searches, err := db.ListSearches(-1)
	if err != nil {
		return 0, err
	}

	removed := 0
	for i, s := range searches {
		if i < keep {
			continue
		}
		if err := db.DeleteSearch(s.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
