package database

import (
	"database/sql"
	"fmt"
)

// ProgressRepositoryImpl tracks pagination progress per source so collection
// resumes where it left off.
type ProgressRepositoryImpl struct {
	db *DB
}

var _ ProgressRepository = (*ProgressRepositoryImpl)(nil)

func NewProgressRepository(db *DB) *ProgressRepositoryImpl {
	return &ProgressRepositoryImpl{db: db}
}

func (r *ProgressRepositoryImpl) GetProgress(sourceName string) (*Progress, error) {
	var progress Progress
	err := r.db.QueryRow(`
		SELECT source_name, last_page_processed, links_collected, last_updated
		FROM progress
		WHERE source_name = ?
	`, sourceName).Scan(&progress.SourceName, &progress.LastPageProcessed,
		&progress.LinksCollected, &progress.LastUpdated)
	if err == sql.ErrNoRows {
		return &Progress{SourceName: sourceName}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &progress, nil
}

func (r *ProgressRepositoryImpl) UpdateProgress(sourceName string, lastPage, linksCollected int) error {
	_, err := r.db.Exec(`
		INSERT INTO progress (source_name, last_page_processed, links_collected, last_updated)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (source_name) DO UPDATE SET
			last_page_processed = excluded.last_page_processed,
			links_collected = excluded.links_collected,
			last_updated = CURRENT_TIMESTAMP
	`, sourceName, lastPage, linksCollected)
	if err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}
	return nil
}
