package db

// SchemaSQL is the complete schema for fresh covmeter installs.
//
// This is the single source of truth for the database schema. Tests use it
// via GetSchemaSQL() against in-memory databases, so repository code that
// references a column missing here fails immediately with "no such column".
const SchemaSQL = `
-- Blobs (object storage backend for the sqlite filestore)
CREATE TABLE IF NOT EXISTS blobs (
	key TEXT PRIMARY KEY,
	contents BLOB NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Receipts (one row per measured trial cycle)
CREATE TABLE IF NOT EXISTS receipts (
	id TEXT PRIMARY KEY,
	benchmark TEXT NOT NULL,
	fuzzer TEXT NOT NULL,
	trial INTEGER NOT NULL,
	cycle INTEGER NOT NULL,
	segments_added INTEGER NOT NULL DEFAULT 0,
	functions_recorded INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(benchmark, fuzzer, trial, cycle)
);

CREATE INDEX IF NOT EXISTS idx_receipts_trial ON receipts(benchmark, fuzzer, trial);
`

// InitSchema applies the schema to the shared database connection.
func InitSchema() error {
	db, err := GetDB()
	if err != nil {
		return err
	}

	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}

	return nil
}

// GetSchemaSQL returns the schema SQL for use in tests
func GetSchemaSQL() string {
	return SchemaSQL
}
