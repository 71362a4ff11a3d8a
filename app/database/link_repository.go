package database

import (
	"database/sql"
	"fmt"
)

// LinkRepositoryImpl handles database operations for article links
type LinkRepositoryImpl struct {
	db *DB
}

var _ LinkRepository = (*LinkRepositoryImpl)(nil)

func NewLinkRepository(db *DB) *LinkRepositoryImpl {
	return &LinkRepositoryImpl{db: db}
}

// StoreLink inserts a link unless the URL is already known. Returns true when
// a new row was created.
func (r *LinkRepositoryImpl) StoreLink(sourceName, title, url string) (bool, error) {
	var existingID int64
	err := r.db.QueryRow(`SELECT id FROM links WHERE url = ? LIMIT 1`, url).Scan(&existingID)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check existing link: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO links (source_name, title, url)
		VALUES (?, ?, ?)
	`, sourceName, title, url)
	if err != nil {
		return false, fmt.Errorf("failed to store link: %w", err)
	}

	return true, nil
}

// GetPendingDownload returns links not yet downloaded, oldest collected first.
func (r *LinkRepositoryImpl) GetPendingDownload(sourceName string, limit int) ([]Link, error) {
	rows, err := r.db.Query(`
		SELECT id, source_name, title, url, collected_at
		FROM links
		WHERE source_name = ? AND downloaded = 0
		ORDER BY collected_at
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending downloads: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		err := rows.Scan(&link.ID, &link.SourceName, &link.Title, &link.URL, &link.CollectedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link rows: %w", err)
	}

	return links, nil
}

// GetPendingExtraction returns downloaded links not yet extracted, oldest
// download first.
func (r *LinkRepositoryImpl) GetPendingExtraction(sourceName string, limit int) ([]Link, error) {
	rows, err := r.db.Query(`
		SELECT id, source_name, title, url, html_path, extraction_attempts
		FROM links
		WHERE source_name = ? AND downloaded = 1 AND extracted = 0
		ORDER BY downloaded_at
		LIMIT ?
	`, sourceName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending extractions: %w", err)
	}
	defer rows.Close()

	var links []Link
	for rows.Next() {
		var link Link
		err := rows.Scan(&link.ID, &link.SourceName, &link.Title, &link.URL,
			&link.HTMLPath, &link.ExtractionAttempts)
		if err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link rows: %w", err)
	}

	return links, nil
}

func (r *LinkRepositoryImpl) GetLinkCount(sourceName string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM links WHERE source_name = ?`, sourceName).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get link count: %w", err)
	}
	return count, nil
}

func (r *LinkRepositoryImpl) MarkDownloaded(linkID int64, htmlPath string) error {
	_, err := r.db.Exec(`
		UPDATE links
		SET downloaded = 1, downloaded_at = CURRENT_TIMESTAMP, html_path = ?
		WHERE id = ?
	`, htmlPath, linkID)
	if err != nil {
		return fmt.Errorf("failed to mark link downloaded: %w", err)
	}
	return nil
}

// MarkExtracted records the extraction outcome. Quality outcomes (success,
// salvaged, failed) close the link out because a record was written either
// way; an "error" status keeps it eligible for another attempt.
func (r *LinkRepositoryImpl) MarkExtracted(linkID int64, status string, strategy string, contentLength int, errorMsg string) error {
	extracted := 1
	if status == "error" {
		extracted = 0
	}

	_, err := r.db.Exec(`
		UPDATE links
		SET extracted = ?, extracted_at = CURRENT_TIMESTAMP,
		    extraction_status = ?, extraction_error = ?,
		    extraction_attempts = extraction_attempts + 1,
		    content_length = ?, strategy = ?
		WHERE id = ?
	`, extracted, status, errorMsg, contentLength, strategy, linkID)
	if err != nil {
		return fmt.Errorf("failed to mark link extracted: %w", err)
	}
	return nil
}

func (r *LinkRepositoryImpl) GetStats() (Stats, error) {
	var stats Stats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN downloaded = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN extracted = 1 THEN 1 ELSE 0 END), 0)
		FROM links
	`).Scan(&stats.TotalLinks, &stats.DownloadedLinks, &stats.ExtractedLinks)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}

func (r *LinkRepositoryImpl) GetSourceStats(sourceName string) (Stats, error) {
	var stats Stats
	err := r.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN downloaded = 1 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN extracted = 1 THEN 1 ELSE 0 END), 0)
		FROM links
		WHERE source_name = ?
	`, sourceName).Scan(&stats.TotalLinks, &stats.DownloadedLinks, &stats.ExtractedLinks)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to get source stats: %w", err)
	}
	return stats, nil
}
