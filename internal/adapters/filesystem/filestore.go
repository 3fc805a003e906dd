// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/covmeter/internal/ports/secondary"
)

// Filestore implements secondary.Filestore over a local directory tree.
// Remote keys map to paths under the root. Writes land in a temp file next
// to the destination and are renamed into place, so readers never observe a
// partially copied object.
type Filestore struct {
	root string
}

// NewFilestore creates a filestore rooted at the given directory,
// creating it if needed.
func NewFilestore(root string) (*Filestore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create filestore root: %w", err)
	}
	return &Filestore{root: root}, nil
}

// Copy uploads the file at localPath to the durable location remotePath.
func (f *Filestore) Copy(ctx context.Context, localPath, remotePath string) error {
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	dstPath := filepath.Join(f.root, filepath.FromSlash(remotePath))
	if err := os.MkdirAll(filepath.Dir(dstPath), 0755); err != nil {
		return fmt.Errorf("failed to create filestore dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dstPath), ".covmeter-copy-*")
	if err != nil {
		return fmt.Errorf("failed to create staging file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy %s: %w", localPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush staging file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dstPath); err != nil {
		return fmt.Errorf("failed to publish %s: %w", remotePath, err)
	}
	return nil
}

// Read returns the contents of the object at remotePath.
func (f *Filestore) Read(ctx context.Context, remotePath string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(f.root, filepath.FromSlash(remotePath)))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", remotePath, err)
	}
	return data, nil
}

// Root returns the filestore's base directory.
func (f *Filestore) Root() string {
	return f.root
}

// Ensure Filestore implements the interface
var _ secondary.Filestore = (*Filestore)(nil)
