package run

import (
	"context"
	"sync"

	"github.com/san-kum/beadmd/internal/config"
)

// Sweep executes independent trajectories of the same configuration
// with consecutive seeds, one goroutine per trajectory. Each trajectory
// gets its own assembly; nothing is shared between them.
type Sweep struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	metrics   []func() Metric
}

// NewSweep builds a sweep of numRuns trajectories seeded from
// seedStart upward.
func NewSweep(cfg *config.Config, numRuns int, seedStart int64) *Sweep {
	return &Sweep{cfg: cfg, numRuns: numRuns, seedStart: seedStart}
}

// AddMetric registers a metric constructor; every trajectory gets a
// fresh instance so the aggregation stays race free.
func (s *Sweep) AddMetric(mk func() Metric) {
	s.metrics = append(s.metrics, mk)
}

// Run executes the sweep. The first assembly or stepping error aborts
// the whole sweep.
func (s *Sweep) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, s.numRuns)
	errs := make([]error, s.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < s.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := *s.cfg
			cfgCopy.Seed = s.seedStart + int64(idx)

			r, err := Assemble(&cfgCopy)
			if err != nil {
				errs[idx] = err
				return
			}
			for _, mk := range s.metrics {
				r.AddMetric(mk())
			}
			results[idx], errs[idx] = r.Execute(ctx)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
