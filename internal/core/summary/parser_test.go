package summary

import "testing"

const validSummary = `{
  "data": [
    {
      "functions": [
        {"name": "main", "count": 10},
        {"name": "foo", "count": 2},
        {"name": "bar", "count": 0}
      ],
      "files": [
        {
          "filename": "/src/fuzz_target.cc",
          "segments": [
            [5, 1, 1, true, true, false],
            [5, 2, 0, true, true, false],
            [6, 1, 3, true, true, false]
          ]
        }
      ]
    }
  ]
}`

func TestParse(t *testing.T) {
	result, err := Parse([]byte(validSummary))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(result.Functions) != 3 {
		t.Fatalf("expected 3 functions, got %d", len(result.Functions))
	}
	if result.Functions[2].Name != "bar" || result.Functions[2].Hits != 0 {
		t.Errorf("expected bar with 0 hits, got %+v", result.Functions[2])
	}

	// The (5,2) segment has zero hits and must be dropped.
	if len(result.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(result.Segments))
	}
	want := []SegmentEntry{
		{File: "/src/fuzz_target.cc", Line: 5, Column: 1},
		{File: "/src/fuzz_target.cc", Line: 6, Column: 1},
	}
	for i, seg := range result.Segments {
		if seg != want[i] {
			t.Errorf("segment %d = %+v, want %+v", i, seg, want[i])
		}
	}
}

func TestParse_Empty(t *testing.T) {
	result, err := Parse([]byte(`{"data": [{"functions": [], "files": []}]}`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Functions) != 0 || len(result.Segments) != 0 {
		t.Errorf("expected empty result, got %d functions, %d segments",
			len(result.Functions), len(result.Segments))
	}
}

func TestParse_NegativeCountIsHit(t *testing.T) {
	raw := `{"data": [{"functions": [], "files": [
		{"filename": "a.c", "segments": [[1, 1, -7]]}
	]}]}`

	result, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(result.Segments) != 1 {
		t.Errorf("expected negative count to register as a hit, got %d segments", len(result.Segments))
	}
}

func TestParse_NotJSON(t *testing.T) {
	result, err := Parse([]byte("not json"))
	if err == nil {
		t.Error("expected error for non-JSON input")
	}
	if result == nil {
		t.Fatal("expected non-nil partial result")
	}
	if len(result.Functions) != 0 || len(result.Segments) != 0 {
		t.Error("expected empty partial result")
	}
}

func TestParse_NoData(t *testing.T) {
	_, err := Parse([]byte(`{"data": []}`))
	if err == nil {
		t.Error("expected error for empty data array")
	}
}

func TestParse_PartialOnMalformedFile(t *testing.T) {
	// Functions decode fine; the second file's segments are malformed.
	// The partial result keeps the functions and the first file's segments.
	raw := `{"data": [{
		"functions": [{"name": "main", "count": 1}],
		"files": [
			{"filename": "a.c", "segments": [[2, 1, 5]]},
			{"filename": "b.c", "segments": [["bad"]]}
		]
	}]}`

	result, err := Parse([]byte(raw))
	if err == nil {
		t.Error("expected error for malformed segment tuple")
	}
	if len(result.Functions) != 1 {
		t.Errorf("expected 1 function in partial result, got %d", len(result.Functions))
	}
	if len(result.Segments) != 1 {
		t.Errorf("expected 1 segment in partial result, got %d", len(result.Segments))
	}
}

func TestParse_ShortSegmentTuple(t *testing.T) {
	raw := `{"data": [{"functions": [], "files": [
		{"filename": "a.c", "segments": [[1, 2]]}
	]}]}`

	_, err := Parse([]byte(raw))
	if err == nil {
		t.Error("expected error for short segment tuple")
	}
}
