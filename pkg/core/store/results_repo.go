package store

import (
	"context"
	"fmt"
	"time"

	"mdna_extractor/pkg/models"
)

// ResultsRepo persists one row per processed filing. The extracted text
// itself lives on disk; the table holds outcomes and enough metadata to
// find the output file.
type ResultsRepo struct{}

// NewResultsRepo creates a repository instance.
func NewResultsRepo() *ResultsRepo {
	return &ResultsRepo{}
}

// EnsureSchema creates the results table when it does not exist.
func (r *ResultsRepo) EnsureSchema(ctx context.Context) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	query := `
		CREATE TABLE IF NOT EXISTS mdna_extractions (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			cik TEXT,
			accession_number TEXT,
			source_name TEXT,
			form_type TEXT,
			filing_date DATE,
			success BOOLEAN NOT NULL,
			stage TEXT,
			reason TEXT,
			word_count INTEGER,
			encoding TEXT,
			lossy BOOLEAN,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_mdna_extractions_run ON mdna_extractions (run_id);
		CREATE INDEX IF NOT EXISTS idx_mdna_extractions_cik ON mdna_extractions (cik);
	`

	if _, err := pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure results schema: %w", err)
	}
	return nil
}

// Record inserts one filing outcome. Satisfies the walker's ResultSink.
func (r *ResultsRepo) Record(ctx context.Context, runID string, result models.ExtractionResult) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	var filingDate any
	if !result.Filing.FilingDate.IsZero() {
		filingDate = result.Filing.FilingDate
	}

	query := `
		INSERT INTO mdna_extractions
			(run_id, cik, accession_number, source_name, form_type, filing_date,
			 success, stage, reason, word_count, encoding, lossy, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`

	_, err := pool.Exec(ctx, query,
		runID,
		result.Filing.CIK,
		result.Filing.AccessionNumber,
		result.Filing.SourceName,
		result.Filing.FormType,
		filingDate,
		result.Success,
		result.Stage,
		string(result.Reason),
		result.WordCount,
		result.Encoding,
		result.Lossy,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record extraction result: %w", err)
	}
	return nil
}

// FailureCounts returns the per-reason failure tally for one run.
func (r *ResultsRepo) FailureCounts(ctx context.Context, runID string) (map[string]int, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	rows, err := pool.Query(ctx,
		`SELECT reason, COUNT(*) FROM mdna_extractions
		 WHERE run_id = $1 AND NOT success GROUP BY reason`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query failure counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var reason string
		var n int
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("failed to scan failure count: %w", err)
		}
		counts[reason] = n
	}
	return counts, rows.Err()
}
