// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema and drift fails immediately.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/covmeter/internal/db"
	"github.com/example/covmeter/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedReceipt inserts a test receipt and returns its record.
func seedReceipt(t *testing.T, db *sql.DB, id string, trial, cycle int) *secondary.ReceiptRecord {
	t.Helper()
	rec := &secondary.ReceiptRecord{
		ID:                id,
		Benchmark:         "libpng",
		Fuzzer:            "afl",
		Trial:             trial,
		Cycle:             cycle,
		SegmentsAdded:     3,
		FunctionsRecorded: 7,
	}
	_, err := db.Exec(
		"INSERT INTO receipts (id, benchmark, fuzzer, trial, cycle, segments_added, functions_recorded) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Benchmark, rec.Fuzzer, rec.Trial, rec.Cycle, rec.SegmentsAdded, rec.FunctionsRecorded,
	)
	if err != nil {
		t.Fatalf("failed to seed receipt: %v", err)
	}
	return rec
}
