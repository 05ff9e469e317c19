package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/beadmd/internal/config"
	"github.com/san-kum/beadmd/internal/run"
)

func TestExportJSONRoundTrip(t *testing.T) {
	cfg := config.DefaultConfig()
	result := &run.Result{
		Samples: []run.Sample{
			{Time: 0, Kinetic: 1.0, Conserved: 1.5, Temperature: 300, Volume: 125000},
			{Step: 1, Time: 10, Kinetic: 0.9, Conserved: 1.5, Temperature: 290, Volume: 125000},
		},
		Metrics:    map[string]float64{"conserved_drift": 1e-8},
		StepsTaken: 1,
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, cfg, result); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got ExportData
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.Mode != cfg.Mode {
		t.Errorf("mode %q, want %q", got.Mode, cfg.Mode)
	}
	if got.Steps != 1 {
		t.Errorf("steps %d, want 1", got.Steps)
	}
	if len(got.Samples) != 2 || len(got.Samples[0]) != len(run.Columns) {
		t.Fatalf("samples shape %dx%d, want 2x%d", len(got.Samples), len(got.Samples[0]), len(run.Columns))
	}
	if got.Samples[1][0] != 10 {
		t.Errorf("second sample time %g, want 10", got.Samples[1][0])
	}
	if got.Metrics["conserved_drift"] != 1e-8 {
		t.Errorf("metric not preserved: %v", got.Metrics)
	}
}
