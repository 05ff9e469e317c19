package storage

import (
	"strings"
	"testing"

	"github.com/san-kum/beadmd/internal/config"
	"github.com/san-kum/beadmd/internal/run"
)

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Seed = 42
	result := &run.Result{
		Samples: []run.Sample{
			{Time: 0, Kinetic: 1.0, Potential: 0.5, Conserved: 1.5, Temperature: 300, Volume: 125000},
			{Step: 1, Time: 10, Kinetic: 0.95, Potential: 0.55, Conserved: 1.5, Temperature: 285, Volume: 125000},
		},
		Metrics:    map[string]float64{"temperature": 292.5},
		StepsTaken: 1,
	}

	runID, err := st.Save(cfg, result)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "nve_") {
		t.Errorf("run id %q, want nve_ prefix", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Mode != "nve" || meta.Seed != 42 || meta.Steps != 1 {
		t.Errorf("metadata mismatch: %+v", meta)
	}
	if meta.Metrics["temperature"] != 292.5 {
		t.Errorf("metrics not preserved: %v", meta.Metrics)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("loaded %d samples, want 2", len(samples))
	}
	if samples[1].Time != 10 || samples[1].Temperature != 285 {
		t.Errorf("sample values lost: %+v", samples[1])
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID {
		t.Errorf("list returned %+v", runs)
	}
}

func TestListEmptyStore(t *testing.T) {
	st := New(t.TempDir() + "/missing")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list on missing dir: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}
