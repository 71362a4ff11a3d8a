package database

import (
	"database/sql"
	"fmt"
	"time"
)

// SourceRepositoryImpl handles database operations for author sources
type SourceRepositoryImpl struct {
	db *DB
}

var _ SourceRepository = (*SourceRepositoryImpl)(nil)

func NewSourceRepository(db *DB) *SourceRepositoryImpl {
	return &SourceRepositoryImpl{db: db}
}

func (r *SourceRepositoryImpl) GetSource(sourceName string) (*Source, error) {
	var source Source
	var lastCollected, nextCollect sql.NullTime

	err := r.db.QueryRow(`
		SELECT name, url, feed_url, title, last_collected_at, next_collect_at,
		       created_at, updated_at
		FROM sources
		WHERE name = ?
	`, sourceName).Scan(
		&source.Name, &source.URL, &source.FeedURL, &source.Title,
		&lastCollected, &nextCollect, &source.CreatedAt, &source.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get source: %w", err)
	}

	if lastCollected.Valid {
		source.LastCollectedAt = &lastCollected.Time
	}
	if nextCollect.Valid {
		source.NextCollectAt = &nextCollect.Time
	}

	return &source, nil
}

func (r *SourceRepositoryImpl) GetSourceCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get source count: %w", err)
	}
	return count, nil
}

func (r *SourceRepositoryImpl) UpsertSource(sourceName, url, feedURL string) error {
	_, err := r.db.Exec(`
		INSERT INTO sources (name, url, feed_url)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			url = excluded.url,
			feed_url = excluded.feed_url,
			updated_at = CURRENT_TIMESTAMP
	`, sourceName, url, feedURL)
	if err != nil {
		return fmt.Errorf("failed to upsert source: %w", err)
	}
	return nil
}

func (r *SourceRepositoryImpl) UpdateSourceCollected(sourceName string, title string, nextCollect time.Time) error {
	_, err := r.db.Exec(`
		UPDATE sources
		SET title = COALESCE(NULLIF(?, ''), title), last_collected_at = CURRENT_TIMESTAMP,
		    next_collect_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name = ?
	`, title, nextCollect.UTC(), sourceName)
	if err != nil {
		return fmt.Errorf("failed to update source collection state: %w", err)
	}
	return nil
}
