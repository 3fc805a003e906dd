package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFilestore_CopyThenRead(t *testing.T) {
	root := filepath.Join(t.TempDir(), "store")
	fs, err := NewFilestore(root)
	if err != nil {
		t.Fatalf("NewFilestore failed: %v", err)
	}

	localPath := filepath.Join(t.TempDir(), "table.csv.gz")
	if err := os.WriteFile(localPath, []byte("payload"), 0644); err != nil {
		t.Fatalf("failed to write local file: %v", err)
	}

	ctx := context.Background()
	key := "b1/f1/trial-2/segments/segments-2-1.csv.gz"
	if err := fs.Copy(ctx, localPath, key); err != nil {
		t.Fatalf("Copy failed: %v", err)
	}

	got, err := fs.Read(ctx, key)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Read = %q, want %q", got, "payload")
	}
}

func TestFilestore_CopyOverwrites(t *testing.T) {
	fs, err := NewFilestore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilestore failed: %v", err)
	}

	ctx := context.Background()
	local := filepath.Join(t.TempDir(), "blob.json")
	for _, contents := range []string{"first", "second"} {
		if err := os.WriteFile(local, []byte(contents), 0644); err != nil {
			t.Fatalf("failed to write local file: %v", err)
		}
		if err := fs.Copy(ctx, local, "state/blob.json"); err != nil {
			t.Fatalf("Copy failed: %v", err)
		}
	}

	got, err := fs.Read(ctx, "state/blob.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("Read = %q, want %q", got, "second")
	}
}

func TestFilestore_CopyMissingLocal(t *testing.T) {
	fs, err := NewFilestore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilestore failed: %v", err)
	}

	if err := fs.Copy(context.Background(), filepath.Join(t.TempDir(), "nope"), "key"); err == nil {
		t.Error("expected error for missing local file")
	}
}

func TestFilestore_ReadMissing(t *testing.T) {
	fs, err := NewFilestore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFilestore failed: %v", err)
	}

	if _, err := fs.Read(context.Background(), "absent/key"); err == nil {
		t.Error("expected error for missing object")
	}
}
