// Package primary defines the primary ports (driving adapters) for the application.
package primary

import "context"

// MeasureService defines the primary port for measurement cycle operations.
type MeasureService interface {
	// MeasureCycle records one trial's coverage for one cycle: it parses the
	// coverage summary, appends evidence not seen in earlier cycles, exports
	// the increment as compressed CSV artifacts, and carries the updated
	// seen-set forward as this cycle's state blob.
	MeasureCycle(ctx context.Context, req MeasureCycleRequest) (*MeasureCycleResponse, error)

	// ListReceipts lists measurement receipts with optional filters.
	ListReceipts(ctx context.Context, filters ReceiptFilters) ([]*Receipt, error)
}

// MeasureCycleRequest contains parameters for measuring one trial/cycle pair.
type MeasureCycleRequest struct {
	Benchmark   string
	Fuzzer      string
	Trial       int
	Cycle       int
	Time        int64  // cycle timestamp, seconds since trial start
	SummaryPath string // local path to the coverage summary JSON
	CorpusPath  string // Optional - local path to the cycle's corpus archive (tar.gz)
	CorpusDir   string // Optional - output dir for extracted corpus units
}

// MeasureCycleResponse contains the result of measuring one cycle.
type MeasureCycleResponse struct {
	ReceiptID         string
	SegmentsAdded     int
	FunctionsRecorded int
	CorpusUnitsAdded  int
	FunctionsArtifact string // durable key of the functions table
	SegmentsArtifact  string // durable key of the segments table
}

// Receipt represents a measurement receipt at the port boundary.
type Receipt struct {
	ID                string
	Benchmark         string
	Fuzzer            string
	Trial             int
	Cycle             int
	SegmentsAdded     int
	FunctionsRecorded int
	CreatedAt         string
}

// ReceiptFilters contains filter options for listing receipts.
type ReceiptFilters struct {
	Benchmark string
	Fuzzer    string
	Trial     int
	Limit     int
}
