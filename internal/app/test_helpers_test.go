package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/example/covmeter/internal/ports/secondary"
)

// mockFilestore implements secondary.Filestore with an in-memory object map.
type mockFilestore struct {
	mu      sync.Mutex
	objects map[string][]byte
	reads   []string
	copyErr error
	readErr error
}

func newMockFilestore() *mockFilestore {
	return &mockFilestore{objects: make(map[string][]byte)}
}

func (m *mockFilestore) Copy(ctx context.Context, localPath, remotePath string) error {
	if m.copyErr != nil {
		return m.copyErr
	}
	data, err := os.ReadFile(localPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[remotePath] = data
	return nil
}

func (m *mockFilestore) Read(ctx context.Context, remotePath string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads = append(m.reads, remotePath)
	if m.readErr != nil {
		return nil, m.readErr
	}
	data, ok := m.objects[remotePath]
	if !ok {
		return nil, fmt.Errorf("object %s not found", remotePath)
	}
	return data, nil
}

// mockReceiptRepository implements secondary.ReceiptRepository for testing.
type mockReceiptRepository struct {
	receipts  map[string]*secondary.ReceiptRecord
	order     []string
	createErr error
}

func newMockReceiptRepository() *mockReceiptRepository {
	return &mockReceiptRepository{receipts: make(map[string]*secondary.ReceiptRecord)}
}

func (m *mockReceiptRepository) Create(ctx context.Context, receipt *secondary.ReceiptRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.receipts[receipt.ID] = receipt
	m.order = append(m.order, receipt.ID)
	return nil
}

func (m *mockReceiptRepository) GetByID(ctx context.Context, id string) (*secondary.ReceiptRecord, error) {
	if r, ok := m.receipts[id]; ok {
		return r, nil
	}
	return nil, errors.New("not found")
}

func (m *mockReceiptRepository) List(ctx context.Context, filters secondary.ReceiptFilters) ([]*secondary.ReceiptRecord, error) {
	var result []*secondary.ReceiptRecord
	for i := len(m.order) - 1; i >= 0; i-- {
		r := m.receipts[m.order[i]]
		if filters.Benchmark != "" && r.Benchmark != filters.Benchmark {
			continue
		}
		if filters.Fuzzer != "" && r.Fuzzer != filters.Fuzzer {
			continue
		}
		if filters.Trial != 0 && r.Trial != filters.Trial {
			continue
		}
		result = append(result, r)
	}
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockReceiptRepository) LatestCycle(ctx context.Context, benchmark, fuzzer string, trial int) (int, error) {
	latest := 0
	for _, r := range m.receipts {
		if r.Benchmark == benchmark && r.Fuzzer == fuzzer && r.Trial == trial && r.Cycle > latest {
			latest = r.Cycle
		}
	}
	return latest, nil
}

// testLogger implements secondary.Logger and records formatted messages.
type testLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *testLogger) logf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func (l *testLogger) Infof(format string, args ...any)  { l.logf(format, args...) }
func (l *testLogger) Warnf(format string, args ...any)  { l.logf(format, args...) }
func (l *testLogger) Errorf(format string, args ...any) { l.logf(format, args...) }

func sortedKeys(objects map[string][]byte) []string {
	keys := make([]string, 0, len(objects))
	for k := range objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
