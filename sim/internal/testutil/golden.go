// Package testutil provides shared test infrastructure for the off-ramp simulator.
// It consolidates golden dataset types and assertion helpers used across
// sim/ and cmd/ test packages.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenDataset represents the structure of testdata/goldenscenarios.json.
type GoldenDataset struct {
	Duration float64          `json:"duration"`
	Tests    []GoldenTestCase `json:"tests"`
}

// GoldenTestCase is the expected outcome of one built-in scenario.
type GoldenTestCase struct {
	Scenario      string        `json:"scenario"`
	ArrivalCutoff string        `json:"arrival_cutoff"`
	Metrics       GoldenMetrics `json:"metrics"`
}

// GoldenMetrics represents the expected metrics from a golden test case.
type GoldenMetrics struct {
	// Exact match metrics (integers)
	Vehicles        int `json:"vehicles"`
	PeakOccupied    int `json:"peak_occupied"`
	PeakQueueLength int `json:"peak_queue"`

	// Deterministic floating-point metrics (derived from the simulation clock)
	AvgWait  float64 `json:"avg_wait"`
	AvgExit  float64 `json:"avg_exit"`
	AvgTotal float64 `json:"avg_total"`
	MaxWait  float64 `json:"max_wait"`
	EndTime  float64 `json:"end_time"`
}

// LoadGoldenDataset loads the golden dataset from the testdata directory.
// The path is resolved relative to this source file: sim/internal/testutil/ → testdata/.
func LoadGoldenDataset(t *testing.T) *GoldenDataset {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to repo root testdata/
	path := filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", "goldenscenarios.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read golden dataset: %v", err)
	}

	var dataset GoldenDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		t.Fatalf("Failed to parse golden dataset: %v", err)
	}

	return &dataset
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
