// Package dataset accumulates segment and function coverage rows for one
// trial across measurement cycles and serializes them as tabular exports.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// SegmentKey identifies a source location for dedup purposes. The file is
// constant per trial build, so (line, column) is the identity.
type SegmentKey struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// FunctionRow is one row of the functions table.
type FunctionRow struct {
	Benchmark string
	Fuzzer    string
	Trial     int
	Time      int64
	Function  string
	Hits      int64
}

// SegmentRow is one row of the segments table.
type SegmentRow struct {
	Benchmark string
	Fuzzer    string
	Trial     int
	Time      int64
	File      string
	Line      int
	Column    int
}

// Dataset owns the ordered segment and function tables for one trial.
// It is single-owner per (trial, cycle) invocation and not safe for
// concurrent use.
type Dataset struct {
	functions []FunctionRow
	segments  []SegmentRow
}

// New returns an empty dataset.
func New() *Dataset {
	return &Dataset{}
}

// AddFunctionEntry appends a function row unconditionally. Function rows are
// cumulative counter snapshots, not novelty events, so they are never deduped.
func (d *Dataset) AddFunctionEntry(benchmark, fuzzer string, trial int, function string, hits int64, time int64) {
	d.functions = append(d.functions, FunctionRow{
		Benchmark: benchmark,
		Fuzzer:    fuzzer,
		Trial:     trial,
		Time:      time,
		Function:  function,
		Hits:      hits,
	})
}

// AddSegmentEntry appends a segment row unless its (line, column) identity is
// already in seen. Reports whether the row was added. A suppressed duplicate
// is expected steady-state behavior, not an anomaly; the caller decides
// whether to record the identity in seen for later calls.
func (d *Dataset) AddSegmentEntry(benchmark, fuzzer string, trial int, file string, line, column int, time int64, seen map[SegmentKey]struct{}) bool {
	if _, ok := seen[SegmentKey{Line: line, Column: column}]; ok {
		return false
	}
	d.segments = append(d.segments, SegmentRow{
		Benchmark: benchmark,
		Fuzzer:    fuzzer,
		Trial:     trial,
		Time:      time,
		File:      file,
		Line:      line,
		Column:    column,
	})
	return true
}

// RemoveRedundantEntries drops all but the earliest row for each distinct
// (benchmark, fuzzer, trial, file, line, column) key. It is the batch
// fallback for datasets built without per-call seen filtering, and is
// idempotent. Rows are sorted by time ascending first; ties keep insertion
// order, so the result is deterministic regardless of input ordering.
func (d *Dataset) RemoveRedundantEntries() {
	sort.SliceStable(d.segments, func(i, j int) bool {
		return d.segments[i].Time < d.segments[j].Time
	})

	type fullKey struct {
		benchmark, fuzzer string
		trial             int
		file              string
		line, column      int
	}
	kept := d.segments[:0]
	first := make(map[fullKey]struct{}, len(d.segments))
	for _, row := range d.segments {
		k := fullKey{row.Benchmark, row.Fuzzer, row.Trial, row.File, row.Line, row.Column}
		if _, ok := first[k]; ok {
			continue
		}
		first[k] = struct{}{}
		kept = append(kept, row)
	}
	d.segments = kept
}

// FunctionRows returns the function table in insertion order.
func (d *Dataset) FunctionRows() []FunctionRow {
	return d.functions
}

// SegmentRows returns the segment table in insertion order.
func (d *Dataset) SegmentRows() []SegmentRow {
	return d.segments
}

// SegmentKeys returns the identity of every segment row currently in the table.
func (d *Dataset) SegmentKeys() []SegmentKey {
	keys := make([]SegmentKey, len(d.segments))
	for i, row := range d.segments {
		keys[i] = SegmentKey{Line: row.Line, Column: row.Column}
	}
	return keys
}

// WriteFunctionsCSV writes the functions table with its header row.
// The tables are never mutated by export.
func (d *Dataset) WriteFunctionsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"benchmark", "fuzzer", "trial", "time", "function", "hits"}); err != nil {
		return fmt.Errorf("failed to write functions header: %w", err)
	}
	for _, row := range d.functions {
		record := []string{
			row.Benchmark,
			row.Fuzzer,
			strconv.Itoa(row.Trial),
			strconv.FormatInt(row.Time, 10),
			row.Function,
			strconv.FormatInt(row.Hits, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write function row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSegmentsCSV writes the segments table with its header row.
func (d *Dataset) WriteSegmentsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"benchmark", "fuzzer", "trial", "time", "file", "line", "column"}); err != nil {
		return fmt.Errorf("failed to write segments header: %w", err)
	}
	for _, row := range d.segments {
		record := []string{
			row.Benchmark,
			row.Fuzzer,
			strconv.Itoa(row.Trial),
			strconv.FormatInt(row.Time, 10),
			row.File,
			strconv.Itoa(row.Line),
			strconv.Itoa(row.Column),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write segment row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
