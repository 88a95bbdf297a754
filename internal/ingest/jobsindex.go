package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/dcamposl/ragdocs/internal/db"
)

// JobListing is one row of the ingestion history.
type JobListing struct {
	ID              string    `json:"processing_id"`
	CollectionName  string    `json:"collection_name"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	DocumentsFound  int       `json:"documents_found"`
	DocumentsLoaded int       `json:"documents_loaded"`
	DocumentsFailed int       `json:"documents_failed"`
	ChunksCreated   int       `json:"chunks_created"`
}

// IndexStore mirrors job summaries into SQLite for history listing. The
// JSON file per job stays authoritative; this table only serves queries
// across jobs.
type IndexStore struct {
	db *db.DB
}

// NewIndexStore wraps the database.
func NewIndexStore(database *db.DB) *IndexStore {
	return &IndexStore{db: database}
}

// Upsert inserts or replaces the job's summary row.
func (s *IndexStore) Upsert(ctx context.Context, job *Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_jobs (id, collection_name, status, created_at, updated_at,
			documents_found, documents_loaded, documents_failed, chunks_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at,
			documents_found = excluded.documents_found,
			documents_loaded = excluded.documents_loaded,
			documents_failed = excluded.documents_failed,
			chunks_created = excluded.chunks_created`,
		job.ID, job.CollectionName, string(job.Status), job.CreatedAt, job.UpdatedAt,
		job.Summary.DocumentsFound, job.Summary.DocumentsLoaded,
		job.Summary.DocumentsFailed, job.Summary.ChunksCreated)
	if err != nil {
		return fmt.Errorf("indexing job %s: %w", job.ID, err)
	}
	return nil
}

// List returns jobs newest first, up to limit.
func (s *IndexStore) List(ctx context.Context, limit int) ([]JobListing, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, collection_name, status, created_at, updated_at,
			documents_found, documents_loaded, documents_failed, chunks_created
		FROM ingestion_jobs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing jobs: %w", err)
	}
	defer rows.Close()

	var listings []JobListing
	for rows.Next() {
		var l JobListing
		if err := rows.Scan(&l.ID, &l.CollectionName, &l.Status, &l.CreatedAt, &l.UpdatedAt,
			&l.DocumentsFound, &l.DocumentsLoaded, &l.DocumentsFailed, &l.ChunksCreated); err != nil {
			return nil, fmt.Errorf("scanning job row: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}
