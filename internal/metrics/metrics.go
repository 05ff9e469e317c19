// Package metrics provides summary observables computed over a
// trajectory's samples: mean temperature, conserved-quantity drift and
// mean cell volume.
package metrics

import (
	"math"

	"github.com/san-kum/beadmd/internal/run"
)

// Temperature averages the instantaneous kinetic temperature.
type Temperature struct {
	sum     float64
	samples int
}

func NewTemperature() *Temperature { return &Temperature{} }

func (m *Temperature) Name() string { return "temperature" }

func (m *Temperature) Observe(s run.Sample) {
	m.sum += s.Temperature
	m.samples++
}

func (m *Temperature) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Temperature) Reset() {
	m.sum = 0
	m.samples = 0
}

// Drift tracks the worst relative excursion of the conserved quantity
// from its initial value.
type Drift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewDrift() *Drift { return &Drift{} }

func (m *Drift) Name() string { return "conserved_drift" }

func (m *Drift) Observe(s run.Sample) {
	if m.samples == 0 {
		m.initial = s.Conserved
	}
	m.samples++
	if m.initial != 0 {
		drift := math.Abs(s.Conserved-m.initial) / math.Abs(m.initial)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *Drift) Value() float64 { return m.maxDrift }

func (m *Drift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// Volume averages the cell volume, the quantity of interest for the
// constant-pressure ensembles.
type Volume struct {
	sum     float64
	samples int
}

func NewVolume() *Volume { return &Volume{} }

func (m *Volume) Name() string { return "volume" }

func (m *Volume) Observe(s run.Sample) {
	m.sum += s.Volume
	m.samples++
}

func (m *Volume) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Volume) Reset() {
	m.sum = 0
	m.samples = 0
}
