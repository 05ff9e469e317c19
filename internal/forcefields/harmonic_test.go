package forcefields

import (
	"math"
	"testing"

	"github.com/san-kum/beadmd/internal/system"
)

func makeBeads(nbeads, natoms int) *system.Beads {
	b := system.NewBeads(nbeads, natoms)
	m := make([]float64, natoms)
	for i := range m {
		m[i] = 1.0
	}
	b.SetMasses(m)
	for i := range b.Q {
		for j := range b.Q[i] {
			b.Q[i][j] = 0.1*float64(j+1) - 0.05*float64(i)
		}
	}
	return b
}

func TestHarmonicSplitsSpringAcrossLevels(t *testing.T) {
	b := makeBeads(2, 3)
	h := NewHarmonic(0.3, 3)
	h.Bind(b)

	if h.NMTSLevels() != 3 {
		t.Fatalf("levels = %d, want 3", h.NMTSLevels())
	}
	// the per-level forces must sum to the full -k q
	for i := range b.Q {
		for j := range b.Q[i] {
			sum := 0.0
			for l := 0; l < 3; l++ {
				sum += h.ForcesMTS(l)[i][j]
			}
			want := -0.3 * b.Q[i][j]
			if math.Abs(sum-want) > 1e-15 {
				t.Fatalf("summed force [%d][%d] = %g, want %g", i, j, sum, want)
			}
		}
	}
}

func TestHarmonicVirialMatchesForce(t *testing.T) {
	b := makeBeads(1, 2)
	h := NewHarmonic(0.2, 1)
	h.Bind(b)

	vir := h.Vir()
	// vir_rc = sum_a f_r q_c with f = -k q
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			want := 0.0
			for a := 0; a < 2; a++ {
				want += -0.2 * b.Q[0][3*a+r] * b.Q[0][3*a+c]
			}
			if math.Abs(vir[3*r+c]-want) > 1e-15 {
				t.Fatalf("vir[%d][%d] = %g, want %g", r, c, vir[3*r+c], want)
			}
		}
	}
	// the trace recovers -2 V_pot
	tr := vir[0] + vir[4] + vir[8]
	if math.Abs(tr+2*h.Pot()) > 1e-14 {
		t.Errorf("tr vir = %g, want %g", tr, -2*h.Pot())
	}
}

func TestHarmonicSCCoefficientsAlternate(t *testing.T) {
	b := makeBeads(4, 2)
	h := NewHarmonicSC(0.2, 1, 0.1)
	h.Bind(b)

	coeff := h.CoeffSCPart1()
	for i := range coeff {
		want := 1.0 / 3.0
		if i%2 == 0 {
			want = -1.0 / 3.0
		}
		for j, c := range coeff[i] {
			if c != want {
				t.Fatalf("coeff[%d][%d] = %g, want %g", i, j, c, want)
			}
		}
	}
}

func TestHarmonicSCPotentialTracksPositions(t *testing.T) {
	b := makeBeads(2, 2)
	h := NewHarmonicSC(0.2, 1, 0.1)
	h.Bind(b)

	p0 := h.PotSC().Get()
	for i := range b.Q {
		for j := range b.Q[i] {
			b.Q[i][j] *= 2
		}
	}
	// the correction potential is quadratic in q
	if p1 := h.PotSC().Get(); math.Abs(p1-4*p0) > 1e-14*p0 {
		t.Errorf("potsc after doubling positions = %g, want %g", p1, 4*p0)
	}
}

func TestHarmonicSCSlowForceIsAlphaScaledGradient(t *testing.T) {
	b := makeBeads(2, 2)
	h := NewHarmonicSC(0.2, 1, 0.1)
	h.Bind(b)

	fsc := h.FSCPart2()
	for i := range fsc {
		for j := range fsc[i] {
			want := -2 * 0.1 * 0.2 * 0.2 * b.Q[i][j]
			if math.Abs(fsc[i][j]-want) > 1e-16 {
				t.Fatalf("fsc[%d][%d] = %g, want %g", i, j, fsc[i][j], want)
			}
		}
	}
}
