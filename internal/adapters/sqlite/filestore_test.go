package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/example/covmeter/internal/adapters/sqlite"
)

func writeLocalFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "local")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write local file: %v", err)
	}
	return path
}

func TestSQLiteFilestore_CopyThenRead(t *testing.T) {
	fs := sqlite.NewFilestore(setupTestDB(t))
	ctx := context.Background()

	local := writeLocalFile(t, "payload")
	if err := fs.Copy(ctx, local, "b1/f1/trial-1/state/blob.json"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	got, err := fs.Read(ctx, "b1/f1/trial-1/state/blob.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Read = %q, want %q", got, "payload")
	}
}

func TestSQLiteFilestore_CopyReplaces(t *testing.T) {
	fs := sqlite.NewFilestore(setupTestDB(t))
	ctx := context.Background()

	if err := fs.Copy(ctx, writeLocalFile(t, "first"), "key"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if err := fs.Copy(ctx, writeLocalFile(t, "second"), "key"); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	got, err := fs.Read(ctx, "key")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Read = %q, want %q", got, "second")
	}
}

func TestSQLiteFilestore_CopyMissingLocal(t *testing.T) {
	fs := sqlite.NewFilestore(setupTestDB(t))

	if err := fs.Copy(context.Background(), filepath.Join(t.TempDir(), "nope"), "key"); err == nil {
		t.Error("expected error for missing local file")
	}
}

func TestSQLiteFilestore_ReadMissing(t *testing.T) {
	fs := sqlite.NewFilestore(setupTestDB(t))

	if _, err := fs.Read(context.Background(), "absent"); err == nil {
		t.Error("expected error for missing blob")
	}
}
