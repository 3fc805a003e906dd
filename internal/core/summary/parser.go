// Package summary parses llvm-cov style coverage summary documents into
// per-function and per-segment hit records.
package summary

import (
	"encoding/json"
	"fmt"
)

// FunctionEntry is one function's cumulative hit counter from a summary.
type FunctionEntry struct {
	Name string
	Hits int64
}

// SegmentEntry is one executed source location from a summary.
// Only segments with a nonzero hit count are emitted.
type SegmentEntry struct {
	File   string
	Line   int
	Column int
}

// Result holds the entries extracted from one coverage summary.
type Result struct {
	Functions []FunctionEntry
	Segments  []SegmentEntry
}

type document struct {
	Data []json.RawMessage `json:"data"`
}

// Fields stay raw so a fault in one section cannot discard entries already
// extracted from another.
type export struct {
	Functions json.RawMessage `json:"functions"`
	Files     json.RawMessage `json:"files"`
}

type functionInfo struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type fileInfo struct {
	Filename string            `json:"filename"`
	Segments []json.RawMessage `json:"segments"`
}

// Parse extracts function and segment entries from a raw coverage summary.
// On malformed input it stops at the first fault and returns whatever had been
// accumulated up to that point together with a non-nil error; the partial
// result is always usable. It never panics past this boundary.
func Parse(raw []byte) (*Result, error) {
	result := &Result{}

	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return result, fmt.Errorf("failed to decode coverage summary: %w", err)
	}
	if len(doc.Data) == 0 {
		return result, fmt.Errorf("coverage summary has no data entries")
	}

	var exp export
	if err := json.Unmarshal(doc.Data[0], &exp); err != nil {
		return result, fmt.Errorf("failed to decode coverage export: %w", err)
	}

	var rawFns []json.RawMessage
	if len(exp.Functions) > 0 {
		if err := json.Unmarshal(exp.Functions, &rawFns); err != nil {
			return result, fmt.Errorf("failed to decode functions list: %w", err)
		}
	}
	for i, rawFn := range rawFns {
		var fn functionInfo
		if err := json.Unmarshal(rawFn, &fn); err != nil {
			return result, fmt.Errorf("failed to decode function %d: %w", i, err)
		}
		result.Functions = append(result.Functions, FunctionEntry{Name: fn.Name, Hits: fn.Count})
	}

	var rawFiles []json.RawMessage
	if len(exp.Files) > 0 {
		if err := json.Unmarshal(exp.Files, &rawFiles); err != nil {
			return result, fmt.Errorf("failed to decode files list: %w", err)
		}
	}
	for i, rawFile := range rawFiles {
		var file fileInfo
		if err := json.Unmarshal(rawFile, &file); err != nil {
			return result, fmt.Errorf("failed to decode file %d: %w", i, err)
		}
		for j, rawSeg := range file.Segments {
			line, column, hits, err := decodeSegment(rawSeg)
			if err != nil {
				return result, fmt.Errorf("failed to decode segment %d of %s: %w", j, file.Filename, err)
			}
			// Any nonzero count is a hit. Zero-hit segments are
			// instrumented-but-unexecuted and carry no evidence.
			if hits == 0 {
				continue
			}
			result.Segments = append(result.Segments, SegmentEntry{
				File:   file.Filename,
				Line:   line,
				Column: column,
			})
		}
	}

	return result, nil
}

// decodeSegment reads the (line, column, count, ...) tuple heading a segment
// array. Trailing elements (booleans in llvm-cov output) are ignored.
func decodeSegment(raw json.RawMessage) (line, column int, hits int64, err error) {
	var vals []any
	if err := json.Unmarshal(raw, &vals); err != nil {
		return 0, 0, 0, err
	}
	if len(vals) < 3 {
		return 0, 0, 0, fmt.Errorf("segment tuple has %d elements, want at least 3", len(vals))
	}
	nums := make([]int64, 3)
	for i := 0; i < 3; i++ {
		f, ok := vals[i].(float64)
		if !ok {
			return 0, 0, 0, fmt.Errorf("segment element %d is %T, want number", i, vals[i])
		}
		nums[i] = int64(f)
	}
	return int(nums[0]), int(nums[1]), nums[2], nil
}
