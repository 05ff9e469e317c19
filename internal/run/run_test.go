package run

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/beadmd/internal/config"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Steps = 50
	cfg.System.NAtoms = 4
	return cfg
}

func TestAssembleAndExecute(t *testing.T) {
	cfg := shortConfig()
	r, err := Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	res, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.StepsTaken != 50 {
		t.Errorf("steps taken %d, want 50", res.StepsTaken)
	}
	if len(res.Samples) != 51 {
		t.Errorf("samples %d, want 51", len(res.Samples))
	}
	last := res.Samples[len(res.Samples)-1]
	if want := 50 * cfg.Dt; math.Abs(last.Time-want) > 1e-9 {
		t.Errorf("final time %g, want %g", last.Time, want)
	}
	if last.Temperature <= 0 {
		t.Errorf("temperature %g, want positive", last.Temperature)
	}
}

func TestExecuteHonorsCancellation(t *testing.T) {
	cfg := shortConfig()
	cfg.Steps = 1 << 30

	r, err := Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var res *Result
	go func() {
		res, _ = r.Execute(ctx)
		close(done)
	}()
	cancel()
	<-done

	if res == nil {
		t.Fatal("cancelled run returned no partial result")
	}
}

func TestAssembleRejectsBadConfig(t *testing.T) {
	cfg := shortConfig()
	cfg.Mode = "npt" // no barostat configured
	if _, err := Assemble(cfg); err == nil {
		t.Error("npt without a barostat assembled cleanly")
	}

	cfg = shortConfig()
	cfg.Thermostat.Kind = "nose-hoover"
	if _, err := Assemble(cfg); err == nil {
		t.Error("unknown thermostat assembled cleanly")
	}

	cfg = shortConfig()
	cfg.Dt = -1
	if _, err := Assemble(cfg); err == nil {
		t.Error("negative timestep assembled cleanly")
	}
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string   { return "count" }
func (c *countingMetric) Observe(Sample) { c.n++ }
func (c *countingMetric) Value() float64 { return float64(c.n) }
func (c *countingMetric) Reset()         { c.n = 0 }

func TestMetricsObserveEverySample(t *testing.T) {
	cfg := shortConfig()
	cfg.Steps = 20
	r, err := Assemble(cfg)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	r.AddMetric(&countingMetric{})

	res, err := r.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Metrics["count"] != 21 {
		t.Errorf("metric observed %g samples, want 21", res.Metrics["count"])
	}
}

func TestSweepRunsIndependentSeeds(t *testing.T) {
	cfg := shortConfig()
	cfg.Steps = 10
	cfg.Mode = "nvt"

	sw := NewSweep(cfg, 4, 100)
	sw.AddMetric(func() Metric { return &countingMetric{} })

	results, err := sw.Run(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("results %d, want 4", len(results))
	}
	// distinct seeds must give distinct trajectories
	a := results[0].Samples[10].Kinetic
	b := results[1].Samples[10].Kinetic
	if a == b {
		t.Error("two seeds produced identical trajectories")
	}
	for _, res := range results {
		if res.Metrics["count"] != 11 {
			t.Errorf("per-run metric %g, want 11", res.Metrics["count"])
		}
	}
}
