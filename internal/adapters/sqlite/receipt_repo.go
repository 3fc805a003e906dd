// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/covmeter/internal/ports/secondary"
)

// ReceiptRepository implements secondary.ReceiptRepository with SQLite.
type ReceiptRepository struct {
	db *sql.DB
}

// NewReceiptRepository creates a new SQLite receipt repository.
func NewReceiptRepository(db *sql.DB) *ReceiptRepository {
	return &ReceiptRepository{db: db}
}

// Create persists a new cycle receipt.
func (r *ReceiptRepository) Create(ctx context.Context, rec *secondary.ReceiptRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO receipts (id, benchmark, fuzzer, trial, cycle, segments_added, functions_recorded) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Benchmark,
		rec.Fuzzer,
		rec.Trial,
		rec.Cycle,
		rec.SegmentsAdded,
		rec.FunctionsRecorded,
	)
	if err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	return nil
}

// GetByID retrieves a receipt by its ID.
func (r *ReceiptRepository) GetByID(ctx context.Context, id string) (*secondary.ReceiptRecord, error) {
	var createdAt time.Time

	record := &secondary.ReceiptRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, benchmark, fuzzer, trial, cycle, segments_added, functions_recorded, created_at FROM receipts WHERE id = ?`,
		id,
	).Scan(&record.ID,
		&record.Benchmark,
		&record.Fuzzer,
		&record.Trial,
		&record.Cycle,
		&record.SegmentsAdded,
		&record.FunctionsRecorded,
		&createdAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get receipt: %w", err)
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)

	return record, nil
}

// List retrieves receipts matching the given filters, newest first.
func (r *ReceiptRepository) List(ctx context.Context, filters secondary.ReceiptFilters) ([]*secondary.ReceiptRecord, error) {
	query := `SELECT id, benchmark, fuzzer, trial, cycle, segments_added, functions_recorded, created_at FROM receipts WHERE 1=1`
	args := []any{}

	if filters.Benchmark != "" {
		query += " AND benchmark = ?"
		args = append(args, filters.Benchmark)
	}

	if filters.Fuzzer != "" {
		query += " AND fuzzer = ?"
		args = append(args, filters.Fuzzer)
	}

	if filters.Trial > 0 {
		query += " AND trial = ?"
		args = append(args, filters.Trial)
	}

	query += " ORDER BY created_at DESC, cycle DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	defer rows.Close()

	var recs []*secondary.ReceiptRecord
	for rows.Next() {
		var createdAt time.Time

		record := &secondary.ReceiptRecord{}
		err := rows.Scan(&record.ID,
			&record.Benchmark,
			&record.Fuzzer,
			&record.Trial,
			&record.Cycle,
			&record.SegmentsAdded,
			&record.FunctionsRecorded,
			&createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)

		recs = append(recs, record)
	}

	return recs, nil
}

// LatestCycle returns the highest measured cycle for a trial, 0 if none.
func (r *ReceiptRepository) LatestCycle(ctx context.Context, benchmark, fuzzer string, trial int) (int, error) {
	var cycle int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(cycle), 0) FROM receipts WHERE benchmark = ? AND fuzzer = ? AND trial = ?",
		benchmark, fuzzer, trial,
	).Scan(&cycle)
	if err != nil {
		return 0, fmt.Errorf("failed to get latest cycle: %w", err)
	}
	return cycle, nil
}

// Ensure ReceiptRepository implements the interface
var _ secondary.ReceiptRepository = (*ReceiptRepository)(nil)
