package bench

import (
	"bytes"
	"strings"
	"testing"
)

// smallSuite keeps these tests fast: full-depth search over the real
// five-position Positions table is too slow for a unit test.
var smallSuite = []string{
	"lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL b - 1",
	"4k4/9/PPPPPPPPP/9/9/9/ppppppppp/9/4K4 b - 1",
}

func TestRunSuiteProducesResultPerPosition(t *testing.T) {
	var buf bytes.Buffer
	summary, err := RunSuite(&buf, smallSuite, 8, "", 2)
	if err != nil {
		t.Fatalf("RunSuite failed: %v", err)
	}
	if len(summary.Results) != len(smallSuite) {
		t.Fatalf("expected %d results, got %d", len(smallSuite), len(summary.Results))
	}
	for i, r := range summary.Results {
		if r.Failed {
			t.Errorf("position %d unexpectedly failed", i)
		}
	}
	if summary.TotalNodes == 0 {
		t.Errorf("expected nonzero total nodes")
	}
	if !strings.Contains(buf.String(), "Benchmark Summary:") {
		t.Errorf("expected a summary report in the output")
	}
}

func TestRunSuiteReportsMalformedSFEN(t *testing.T) {
	var buf bytes.Buffer
	summary, err := RunSuite(&buf, []string{"not a valid sfen"}, 8, "", 2)
	if err != nil {
		t.Fatalf("RunSuite failed: %v", err)
	}
	if summary.Failed != 1 {
		t.Errorf("expected 1 failed position, got %d", summary.Failed)
	}
	if !strings.Contains(buf.String(), "FAILED") {
		t.Errorf("expected a FAILED marker in the output")
	}
}

func TestRunParallelPreservesOrder(t *testing.T) {
	results, err := RunParallel(smallSuite, 8, "", 2)
	if err != nil {
		t.Fatalf("RunParallel failed: %v", err)
	}
	if len(results) != len(smallSuite) {
		t.Fatalf("expected %d results, got %d", len(smallSuite), len(results))
	}
	for i, r := range results {
		if r.SFEN != smallSuite[i] {
			t.Errorf("result %d: expected SFEN %q, got %q", i, smallSuite[i], r.SFEN)
		}
	}
}

func TestToBenchmarkRunAggregates(t *testing.T) {
	summary := Summary{
		Results:    []Result{{}, {}},
		TotalNodes: 1234,
		Failed:     0,
	}
	run := ToBenchmarkRun(summary, true)
	if run.TotalNodes != 1234 {
		t.Errorf("expected TotalNodes 1234, got %d", run.TotalNodes)
	}
	if run.Positions != 2 {
		t.Errorf("expected Positions 2, got %d", run.Positions)
	}
	if !run.UsedNNUE {
		t.Errorf("expected UsedNNUE true")
	}
}
