package system

import (
	"math"
	"math/rand"
	"testing"
)

func testBeads(nbeads, natoms int, seed int64) *Beads {
	rng := rand.New(rand.NewSource(seed))
	b := NewBeads(nbeads, natoms)
	m := make([]float64, natoms)
	for i := range m {
		m[i] = 1.0 + rng.Float64()
	}
	b.SetMasses(m)
	for i := range b.Q {
		for j := range b.Q[i] {
			b.Q[i][j] = rng.NormFloat64()
			b.P[i][j] = rng.NormFloat64()
		}
	}
	return b
}

func newTestNM(b *Beads, temp float64) *NormalModes {
	nm := NewNormalModes()
	nm.Bind(b, nil)
	nm.Temp.Set(temp)
	return nm
}

func TestTransformRoundTrip(t *testing.T) {
	for _, nbeads := range []int{1, 2, 3, 4, 8} {
		b := testBeads(nbeads, 2, 7)
		nm := newTestNM(b, 300.0)

		v := nm.ToNM(b.Q)
		back := make([][]float64, nbeads)
		for i := range back {
			back[i] = make([]float64, 6)
		}
		nm.FromNM(v, back)

		for i := range b.Q {
			for j := range b.Q[i] {
				if math.Abs(back[i][j]-b.Q[i][j]) > 1e-12 {
					t.Fatalf("nbeads=%d: round trip mismatch at [%d][%d]: %v != %v",
						nbeads, i, j, back[i][j], b.Q[i][j])
				}
			}
		}
	}
}

func TestTransformIsOrthogonal(t *testing.T) {
	b := testBeads(4, 3, 11)
	nm := newTestNM(b, 300.0)

	normSq := func(x [][]float64) float64 {
		s := 0.0
		for i := range x {
			for j := range x[i] {
				s += x[i][j] * x[i][j]
			}
		}
		return s
	}

	v := nm.ToNM(b.P)
	if diff := math.Abs(normSq(v) - normSq(b.P)); diff > 1e-10 {
		t.Errorf("transform does not preserve norm, diff = %g", diff)
	}
}

func TestCentroidModeIsBeadAverage(t *testing.T) {
	b := testBeads(4, 2, 3)
	nm := newTestNM(b, 300.0)

	v := nm.ToNM(b.Q)
	sqrtN := math.Sqrt(4.0)
	for j := 0; j < 6; j++ {
		mean := 0.0
		for i := 0; i < 4; i++ {
			mean += b.Q[i][j]
		}
		mean /= 4.0
		if math.Abs(v[0][j]-sqrtN*mean) > 1e-12 {
			t.Fatalf("mode 0 component %d = %v, want %v", j, v[0][j], sqrtN*mean)
		}
	}
}

func TestFreeQStepConservesRingPolymerEnergy(t *testing.T) {
	b := testBeads(8, 2, 5)
	nm := newTestNM(b, 200.0)
	nm.Dt.Set(5.0)

	energy := func() float64 {
		// internal-mode kinetic energy plus spring potential; the
		// centroid is untouched by FreeQStep so total KE works too
		return b.KineticEnergy() + nm.SpringEnergy()
	}

	e0 := energy()
	for i := 0; i < 50; i++ {
		nm.FreeQStep()
	}
	e1 := energy()

	if rel := math.Abs(e1-e0) / math.Abs(e0); rel > 1e-9 {
		t.Errorf("free ring-polymer energy drifted by %g", rel)
	}
}

func TestFreeQStepSingleBeadNoop(t *testing.T) {
	b := testBeads(1, 2, 9)
	nm := newTestNM(b, 300.0)
	nm.Dt.Set(1.0)

	q0 := b.Clone()
	nm.FreeQStep()
	for j := range b.Q[0] {
		if b.Q[0][j] != q0.Q[0][j] {
			t.Fatal("FreeQStep moved positions for a single bead")
		}
	}
}

func TestZeroCentroidMomentum(t *testing.T) {
	b := testBeads(4, 3, 13)
	nm := newTestNM(b, 300.0)

	nm.ZeroCentroidMomentum()
	for j := 0; j < 9; j++ {
		sum := 0.0
		for i := range b.P {
			sum += b.P[i][j]
		}
		if math.Abs(sum) > 1e-12 {
			t.Fatalf("component %d: centroid momentum %v after zeroing", j, sum)
		}
	}
	if ke := nm.CentroidKineticEnergy(); ke > 1e-20 {
		t.Errorf("centroid kinetic energy %v after zeroing", ke)
	}
}
