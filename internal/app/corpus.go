package app

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/example/covmeter/internal/ports/secondary"
)

// ExtractCorpus extracts unique, non-blacklisted file contents from a tar.gz
// corpus archive into outputDir, each named by the SHA-256 of its contents.
// Directory members are skipped (archive structure is irrelevant), as are
// members whose hash is blacklisted or already materialized. Unreadable
// members are logged and skipped; one bad member does not fail the
// extraction. Returns the hashes of newly materialized units.
func ExtractCorpus(archivePath string, shaBlacklist map[string]struct{}, outputDir string, log secondary.Logger) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create corpus output dir: %w", err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus archive: %w", err)
	}
	defer gz.Close()

	var added []string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return added, fmt.Errorf("failed to read corpus archive member: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		contents, err := io.ReadAll(tr)
		if err != nil {
			log.Warnf("failed to read corpus member %s, skipping: %v", hdr.Name, err)
			continue
		}

		sum := sha256.Sum256(contents)
		hash := hex.EncodeToString(sum[:])
		if _, ok := shaBlacklist[hash]; ok {
			continue
		}

		unitPath := filepath.Join(outputDir, hash)
		if _, err := os.Stat(unitPath); err == nil {
			// Exact duplicate within the archive, already materialized.
			continue
		}

		if err := os.WriteFile(unitPath, contents, 0644); err != nil {
			return added, fmt.Errorf("failed to write corpus unit %s: %w", hash, err)
		}
		added = append(added, hash)
	}

	return added, nil
}
