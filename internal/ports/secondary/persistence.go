package secondary

import "context"

// ReceiptRepository defines the secondary port for measurement receipt persistence.
// Receipts are immutable - no Update or Delete operations.
type ReceiptRepository interface {
	// Create persists a new receipt.
	Create(ctx context.Context, receipt *ReceiptRecord) error

	// GetByID retrieves a receipt by its ID.
	GetByID(ctx context.Context, id string) (*ReceiptRecord, error)

	// List retrieves receipts matching the given filters, newest first.
	List(ctx context.Context, filters ReceiptFilters) ([]*ReceiptRecord, error)

	// LatestCycle returns the highest recorded cycle for a trial, 0 if none.
	LatestCycle(ctx context.Context, benchmark, fuzzer string, trial int) (int, error)
}

// ReceiptRecord represents a completed measurement cycle as stored in persistence.
type ReceiptRecord struct {
	ID                string
	Benchmark         string
	Fuzzer            string
	Trial             int
	Cycle             int
	SegmentsAdded     int
	FunctionsRecorded int
	CreatedAt         string
}

// ReceiptFilters contains filter options for querying receipts.
type ReceiptFilters struct {
	Benchmark string
	Fuzzer    string
	Trial     int // 0 means any trial
	Limit     int
}
