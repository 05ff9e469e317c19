package dynamics

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/beadmd/internal/eda"
	"github.com/san-kum/beadmd/internal/forcefields"
	"github.com/san-kum/beadmd/internal/system"
)

func edaConfig(natoms int) Config {
	return Config{
		Timestep: testDt,
		Mode:     ModeEDANVE,
		NMTS:     []int{1},
		Field: &eda.ElectricField{
			Amplitude: [3]float64{1e-4, 0, 0},
			Freq:      0.002,
		},
		Bec: eda.NewBornCharges(natoms, 1.3),
	}
}

func TestEDAClockStaysSynchronized(t *testing.T) {
	ff := forcefields.NewHarmonic(testK, 1)
	s := buildSystem(t, edaConfig(2), 1, 2, ff, 5)

	for i := 0; i < 25; i++ {
		if err := s.d.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		diff := math.Abs(s.d.Time() - s.d.EDA().MTSTime.Get())
		if diff > edaClockTolerance {
			t.Fatalf("step %d: clocks diverged by %g", i, diff)
		}
	}
}

func TestEDAFieldSampledAtStepBoundaries(t *testing.T) {
	// zero base force isolates the driving term: after one step the
	// momentum kick is (E(t) + E(t+dt)) * Z * dt/2
	ff := forcefields.NewHarmonic(0, 1)
	cfg := edaConfig(1)
	s := buildSystem(t, cfg, 1, 1, ff, 5)
	for i := range s.b.P {
		for j := range s.b.P[i] {
			s.b.P[i][j] = 0
		}
	}

	if err := s.d.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}

	e0 := cfg.Field.At(0)[0]
	e1 := cfg.Field.At(testDt)[0]
	want := 1.3 * (e0 + e1) * testDt / 2
	if diff := math.Abs(s.b.P[0][0] - want); diff > 1e-14*math.Abs(want) {
		t.Errorf("driven momentum %g, want %g", s.b.P[0][0], want)
	}
	// the field is polarized along x only
	if s.b.P[0][1] != 0 || s.b.P[0][2] != 0 {
		t.Errorf("momentum leaked into unpolarized directions: %v", s.b.P[0])
	}
}

func TestEDARejectsMultipleTimeStepping(t *testing.T) {
	cfg := edaConfig(2)
	cfg.NMTS = []int{2, 2}
	ff := forcefields.NewHarmonic(testK, 2)

	b := system.NewBeads(1, 2)
	b.SetMasses([]float64{testMass, testMass})
	ff.Bind(b)
	d := New(cfg)
	err := d.Bind(system.NewEnsemble(), b, system.NewNormalModes(), system.NewCell(100), ff, rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrEDAMultipleTimeStep) {
		t.Fatalf("bind error = %v, want ErrEDAMultipleTimeStep", err)
	}
}
