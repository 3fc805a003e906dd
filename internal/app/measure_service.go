package app

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/example/covmeter/internal/core/dataset"
	"github.com/example/covmeter/internal/core/summary"
	"github.com/example/covmeter/internal/ports/primary"
	"github.com/example/covmeter/internal/ports/secondary"
)

// MeasureServiceImpl implements the MeasureService interface. One invocation
// of MeasureCycle owns its dataset and state stores exclusively; concurrent
// invocations for different trials are independent by key layout.
type MeasureServiceImpl struct {
	fs        secondary.Filestore
	receipts  secondary.ReceiptRepository
	log       secondary.Logger
	reportDir string // local scratch root for export artifacts
	stateDir  string // durable key prefix for state blobs; empty selects the per-trial layout
}

// NewMeasureService creates a new MeasureService with injected dependencies.
func NewMeasureService(fs secondary.Filestore, receipts secondary.ReceiptRepository, log secondary.Logger, reportDir, stateDir string) *MeasureServiceImpl {
	return &MeasureServiceImpl{
		fs:        fs,
		receipts:  receipts,
		log:       log,
		reportDir: reportDir,
		stateDir:  stateDir,
	}
}

// trialDir returns the durable key prefix for one trial's artifacts.
func trialDir(benchmark, fuzzer string, trial int) string {
	return path.Join(benchmark, fuzzer, fmt.Sprintf("trial-%d", trial))
}

// MeasureCycle records one trial's coverage for one cycle.
//
// A malformed summary or a missing previous-state blob degrades to a smaller
// but valid export and is logged. A failed copy of an export artifact or of
// the cycle's state blob fails the cycle, so the calling scheduler can retry
// it; the prior cycle's blob is still intact and re-running is safe.
func (s *MeasureServiceImpl) MeasureCycle(ctx context.Context, req primary.MeasureCycleRequest) (*primary.MeasureCycleResponse, error) {
	if req.Benchmark == "" || req.Fuzzer == "" {
		return nil, fmt.Errorf("benchmark and fuzzer are required")
	}
	if req.Trial < 1 || req.Cycle < 1 {
		return nil, fmt.Errorf("trial and cycle must be positive, got trial=%d cycle=%d", req.Trial, req.Cycle)
	}

	tdir := trialDir(req.Benchmark, req.Fuzzer, req.Trial)
	// A configured state dir is used as given; the default scopes state per
	// trial so concurrent trials never share blob keys.
	stateDir := s.stateDir
	if stateDir == "" {
		stateDir = path.Join(tdir, "state")
	}

	corpusAdded, err := s.extractCycleCorpus(ctx, req, stateDir)
	if err != nil {
		return nil, err
	}

	segState := NewStateStore(segmentCoverageStateName, stateDir, req.Cycle, s.fs, s.log)
	seen := decodeSegmentKeys(segState.GetPrevious(ctx), s.log)

	ds := dataset.New()
	segmentsAdded := 0
	raw, err := os.ReadFile(req.SummaryPath)
	if err != nil {
		s.log.Errorf("failed to read coverage summary %s, recording empty cycle: %v", req.SummaryPath, err)
	} else {
		parsed, perr := summary.Parse(raw)
		if perr != nil {
			s.log.Errorf("coverage summary parse failed, keeping partial result: %v", perr)
		}
		for _, fn := range parsed.Functions {
			ds.AddFunctionEntry(req.Benchmark, req.Fuzzer, req.Trial, fn.Name, fn.Hits, req.Time)
		}
		for _, seg := range parsed.Segments {
			if ds.AddSegmentEntry(req.Benchmark, req.Fuzzer, req.Trial, seg.File, seg.Line, seg.Column, req.Time, seen) {
				// Recording the identity immediately also suppresses
				// within-call duplicates across files.
				seen[dataset.SegmentKey{Line: seg.Line, Column: seg.Column}] = struct{}{}
				segmentsAdded++
			}
		}
	}

	functionsKey, err := s.exportTable(ctx, tdir, "functions",
		fmt.Sprintf("functions-%d-%d.csv.gz", req.Trial, req.Cycle), ds.WriteFunctionsCSV)
	if err != nil {
		return nil, err
	}
	segmentsKey, err := s.exportTable(ctx, tdir, "segments",
		fmt.Sprintf("segments-%d-%d.csv.gz", req.Trial, req.Cycle), ds.WriteSegmentsCSV)
	if err != nil {
		return nil, err
	}

	if err := segState.SetCurrent(ctx, encodeSegmentKeys(seen)); err != nil {
		return nil, err
	}

	receiptID := uuid.NewString()
	receipt := &secondary.ReceiptRecord{
		ID:                receiptID,
		Benchmark:         req.Benchmark,
		Fuzzer:            req.Fuzzer,
		Trial:             req.Trial,
		Cycle:             req.Cycle,
		SegmentsAdded:     segmentsAdded,
		FunctionsRecorded: len(ds.FunctionRows()),
	}
	// Receipts are advisory; the durable artifacts above are the record of
	// truth, so a receipt failure does not fail an otherwise durable cycle.
	if err := s.receipts.Create(ctx, receipt); err != nil {
		s.log.Errorf("failed to record receipt for trial %d cycle %d: %v", req.Trial, req.Cycle, err)
		receiptID = ""
	}

	s.log.Infof("measured trial %d cycle %d: %d new segments, %d functions",
		req.Trial, req.Cycle, segmentsAdded, len(ds.FunctionRows()))

	return &primary.MeasureCycleResponse{
		ReceiptID:         receiptID,
		SegmentsAdded:     segmentsAdded,
		FunctionsRecorded: len(ds.FunctionRows()),
		CorpusUnitsAdded:  corpusAdded,
		FunctionsArtifact: functionsKey,
		SegmentsArtifact:  segmentsKey,
	}, nil
}

// extractCycleCorpus materializes the cycle's corpus archive, skipping units
// already measured in earlier cycles, and carries the grown hash set forward.
// Extraction faults are logged and non-fatal; only the state publish can fail
// the cycle.
func (s *MeasureServiceImpl) extractCycleCorpus(ctx context.Context, req primary.MeasureCycleRequest, stateDir string) (int, error) {
	if req.CorpusPath == "" {
		return 0, nil
	}

	filesState := NewStateStore(measuredFilesStateName, stateDir, req.Cycle, s.fs, s.log)
	measured := decodeHashes(filesState.GetPrevious(ctx), s.log)

	outDir := req.CorpusDir
	if outDir == "" {
		outDir = filepath.Join(s.reportDir, fmt.Sprintf("corpus-%d-%d", req.Trial, req.Cycle))
	}
	added, err := ExtractCorpus(req.CorpusPath, measured, outDir, s.log)
	if err != nil {
		s.log.Errorf("corpus extraction for trial %d cycle %d incomplete: %v", req.Trial, req.Cycle, err)
	}
	for _, h := range added {
		measured[h] = struct{}{}
	}

	if err := filesState.SetCurrent(ctx, encodeHashes(measured)); err != nil {
		return 0, err
	}
	return len(added), nil
}

// exportTable serializes one table as a gzip CSV artifact in the local report
// dir and copies it to its durable key. Export failures fail the cycle.
func (s *MeasureServiceImpl) exportTable(ctx context.Context, tdir, kind, name string, write func(io.Writer) error) (string, error) {
	localDir := filepath.Join(s.reportDir, filepath.FromSlash(tdir), kind)
	if err := os.MkdirAll(localDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}
	localPath := filepath.Join(localDir, name)

	f, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s artifact: %w", kind, err)
	}
	gz := gzip.NewWriter(f)
	if err := write(gz); err != nil {
		gz.Close()
		f.Close()
		return "", err
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to compress %s artifact: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to flush %s artifact: %w", kind, err)
	}

	remotePath := path.Join(tdir, kind, name)
	if err := s.fs.Copy(ctx, localPath, remotePath); err != nil {
		return "", fmt.Errorf("failed to publish %s artifact: %w", kind, err)
	}
	return remotePath, nil
}

// ListReceipts lists measurement receipts with optional filters.
func (s *MeasureServiceImpl) ListReceipts(ctx context.Context, filters primary.ReceiptFilters) ([]*primary.Receipt, error) {
	records, err := s.receipts.List(ctx, secondary.ReceiptFilters{
		Benchmark: filters.Benchmark,
		Fuzzer:    filters.Fuzzer,
		Trial:     filters.Trial,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}

	receipts := make([]*primary.Receipt, len(records))
	for i, r := range records {
		receipts[i] = &primary.Receipt{
			ID:                r.ID,
			Benchmark:         r.Benchmark,
			Fuzzer:            r.Fuzzer,
			Trial:             r.Trial,
			Cycle:             r.Cycle,
			SegmentsAdded:     r.SegmentsAdded,
			FunctionsRecorded: r.FunctionsRecorded,
			CreatedAt:         r.CreatedAt,
		}
	}
	return receipts, nil
}

// Ensure MeasureServiceImpl implements the interface
var _ primary.MeasureService = (*MeasureServiceImpl)(nil)
