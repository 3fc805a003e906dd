package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/example/covmeter/internal/ports/secondary"
)

// Filestore implements secondary.Filestore on top of a SQLite blobs table.
// Useful for single-machine experiments where a shared directory tree is
// more bookkeeping than a database file.
type Filestore struct {
	db *sql.DB
}

// NewFilestore creates a new SQLite-backed filestore.
func NewFilestore(db *sql.DB) *Filestore {
	return &Filestore{db: db}
}

// Copy uploads the file at localPath to the blob at remotePath. The row
// replace is a single statement, so readers see either the old blob or the
// new one, never a torn write.
func (f *Filestore) Copy(ctx context.Context, localPath, remotePath string) error {
	contents, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", localPath, err)
	}

	_, err = f.db.ExecContext(ctx,
		`INSERT INTO blobs (key, contents) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET contents = excluded.contents, updated_at = CURRENT_TIMESTAMP`,
		remotePath, contents,
	)
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", remotePath, err)
	}

	return nil
}

// Read returns the contents of the blob at remotePath.
func (f *Filestore) Read(ctx context.Context, remotePath string) ([]byte, error) {
	var contents []byte
	err := f.db.QueryRowContext(ctx,
		"SELECT contents FROM blobs WHERE key = ?",
		remotePath,
	).Scan(&contents)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("blob %s not found", remotePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	return contents, nil
}

// Ensure Filestore implements the interface
var _ secondary.Filestore = (*Filestore)(nil)
