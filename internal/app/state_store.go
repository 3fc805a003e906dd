// Package app implements the application services behind the primary ports.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"sort"

	"github.com/example/covmeter/internal/core/dataset"
	"github.com/example/covmeter/internal/ports/secondary"
)

// Durable state blobs carried between measurement cycles.
const (
	measuredFilesStateName   = "measured-files"
	segmentCoverageStateName = "measured-segment-coverage-data"
)

// StateStore carries one named JSON state document between measurement cycles.
// A store instance is scoped to one (name, stateDir, cycle) triple; it reads
// the blob the previous cycle's worker wrote and writes its own cycle's blob.
// Blobs are immutable once written - recovery from a crashed cycle re-derives
// the same cycle's blob from the prior one, never updates in place.
type StateStore struct {
	name     string
	stateDir string
	cycle    int
	fs       secondary.Filestore
	log      secondary.Logger

	prev       []byte
	prevLoaded bool
}

// NewStateStore creates a state store for one (name, stateDir, cycle) triple.
func NewStateStore(name, stateDir string, cycle int, fs secondary.Filestore, log secondary.Logger) *StateStore {
	return &StateStore{
		name:     name,
		stateDir: stateDir,
		cycle:    cycle,
		fs:       fs,
		log:      log,
	}
}

// blobPath returns the durable key for the given cycle's blob.
func (s *StateStore) blobPath(cycle int) string {
	return path.Join(s.stateDir, fmt.Sprintf("%s-%d.json", s.name, cycle))
}

// GetPrevious returns the previous cycle's state document, fetched lazily and
// cached for the lifetime of the store. Cycle 1 has no predecessor and yields
// nil without touching storage. A read failure also yields nil: a missing
// predecessor means "nothing known yet", which lets a worker recover after a
// skipped or failed cycle at the cost of re-recording old evidence.
func (s *StateStore) GetPrevious(ctx context.Context) []byte {
	if s.prevLoaded {
		return s.prev
	}
	s.prevLoaded = true

	if s.cycle == 1 {
		return nil
	}

	prevPath := s.blobPath(s.cycle - 1)
	data, err := s.fs.Read(ctx, prevPath)
	if err != nil {
		s.log.Warnf("no previous state at %s, starting empty: %v", prevPath, err)
		return nil
	}
	s.prev = data
	return s.prev
}

// SetCurrent serializes state and publishes it as this cycle's blob. The full
// payload is flushed to a local scratch file before the copy, so no partial
// state is ever visible at the durable location. Copy errors propagate: a
// cycle whose state write failed must be observable as a failed cycle.
func (s *StateStore) SetCurrent(ctx context.Context, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize state %s: %w", s.name, err)
	}

	scratch, err := os.CreateTemp("", s.name+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create scratch state file: %w", err)
	}
	defer os.Remove(scratch.Name())

	if _, err := scratch.Write(data); err != nil {
		scratch.Close()
		return fmt.Errorf("failed to write scratch state file: %w", err)
	}
	if err := scratch.Close(); err != nil {
		return fmt.Errorf("failed to flush scratch state file: %w", err)
	}

	if err := s.fs.Copy(ctx, scratch.Name(), s.blobPath(s.cycle)); err != nil {
		return fmt.Errorf("failed to publish state %s for cycle %d: %w", s.name, s.cycle, err)
	}
	return nil
}

// decodeSegmentKeys reads a state blob holding [[line, column], ...] pairs
// into a seen-set. Malformed pairs are skipped; a nil or unreadable blob
// yields an empty set.
func decodeSegmentKeys(raw []byte, log secondary.Logger) map[dataset.SegmentKey]struct{} {
	seen := make(map[dataset.SegmentKey]struct{})
	if len(raw) == 0 {
		return seen
	}
	var pairs [][]int
	if err := json.Unmarshal(raw, &pairs); err != nil {
		log.Errorf("failed to decode segment state, starting empty: %v", err)
		return seen
	}
	for _, p := range pairs {
		if len(p) < 2 {
			continue
		}
		seen[dataset.SegmentKey{Line: p[0], Column: p[1]}] = struct{}{}
	}
	return seen
}

// encodeSegmentKeys produces the canonical [[line, column], ...] form of a
// seen-set, ordered by line then column so equal sets serialize identically.
func encodeSegmentKeys(seen map[dataset.SegmentKey]struct{}) [][2]int {
	keys := make([]dataset.SegmentKey, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Line != keys[j].Line {
			return keys[i].Line < keys[j].Line
		}
		return keys[i].Column < keys[j].Column
	})
	pairs := make([][2]int, len(keys))
	for i, k := range keys {
		pairs[i] = [2]int{k.Line, k.Column}
	}
	return pairs
}

// decodeHashes reads a state blob holding a JSON array of content hashes.
func decodeHashes(raw []byte, log secondary.Logger) map[string]struct{} {
	seen := make(map[string]struct{})
	if len(raw) == 0 {
		return seen
	}
	var hashes []string
	if err := json.Unmarshal(raw, &hashes); err != nil {
		log.Errorf("failed to decode measured-files state, starting empty: %v", err)
		return seen
	}
	for _, h := range hashes {
		seen[h] = struct{}{}
	}
	return seen
}

// encodeHashes produces the sorted canonical form of a hash set.
func encodeHashes(seen map[string]struct{}) []string {
	hashes := make([]string, 0, len(seen))
	for h := range seen {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)
	return hashes
}
