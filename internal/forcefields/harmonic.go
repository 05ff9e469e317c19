// Package forcefields provides force providers for the integrator
// engine. The engine consumes providers through the system.Forces
// contract; this package supplies the harmonic lattice used by the demo
// CLI and the integration tests.
package forcefields

import (
	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/system"
)

// Harmonic anchors every atom to the origin with isotropic springs. The
// total spring constant is split across MTS levels so multi-level
// stepping can be exercised with an exactly solvable potential: level 0
// carries the softest (cheapest) component.
type Harmonic struct {
	// K is the spring constant of each MTS level.
	K []float64

	b       *system.Beads
	scratch [][][]float64
}

// NewHarmonic splits the total spring constant k evenly over levels.
func NewHarmonic(k float64, levels int) *Harmonic {
	ks := make([]float64, levels)
	for i := range ks {
		ks[i] = k / float64(levels)
	}
	return &Harmonic{K: ks}
}

// Bind attaches the bead system the forces are evaluated on.
func (h *Harmonic) Bind(b *system.Beads) {
	h.b = b
	h.scratch = make([][][]float64, len(h.K))
	for l := range h.scratch {
		h.scratch[l] = make([][]float64, b.NBeads)
		for i := range h.scratch[l] {
			h.scratch[l][i] = make([]float64, 3*b.NAtoms)
		}
	}
}

func (h *Harmonic) NMTSLevels() int { return len(h.K) }

func (h *Harmonic) ForcesMTS(level int) [][]float64 {
	f := h.scratch[level]
	k := h.K[level]
	for i := range f {
		q := h.b.Q[i]
		for j := range f[i] {
			f[i][j] = -k * q[j]
		}
	}
	return f
}

func (h *Harmonic) Vir() []float64 {
	vir := make([]float64, 9)
	ktot := 0.0
	for _, k := range h.K {
		ktot += k
	}
	for i := range h.b.Q {
		q := h.b.Q[i]
		for a := 0; a < h.b.NAtoms; a++ {
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					vir[3*r+c] += -ktot * q[3*a+r] * q[3*a+c]
				}
			}
		}
	}
	return vir
}

func (h *Harmonic) Pot() float64 {
	ktot := 0.0
	for _, k := range h.K {
		ktot += k
	}
	pot := 0.0
	for i := range h.b.Q {
		for _, qj := range h.b.Q[i] {
			pot += 0.5 * ktot * qj * qj
		}
	}
	return pot
}

// HarmonicSC extends Harmonic with the Suzuki-Chin correction terms.
// The per-bead coefficient alternates -1/3 on even and +1/3 on odd
// beads; the slow correction force is the gradient of the |f|^2 term
// scaled by Alpha.
type HarmonicSC struct {
	*Harmonic

	// Alpha scales the |f|^2 correction.
	Alpha float64

	coeff [][]float64
	fsc   [][]float64
	potsc *depend.Scalar
}

func NewHarmonicSC(k float64, levels int, alpha float64) *HarmonicSC {
	return &HarmonicSC{Harmonic: NewHarmonic(k, levels), Alpha: alpha}
}

func (h *HarmonicSC) Bind(b *system.Beads) {
	h.Harmonic.Bind(b)
	h.coeff = make([][]float64, b.NBeads)
	h.fsc = make([][]float64, b.NBeads)
	for i := range h.coeff {
		h.coeff[i] = make([]float64, 3*b.NAtoms)
		h.fsc[i] = make([]float64, 3*b.NAtoms)
		c := 1.0 / 3.0
		if i%2 == 0 {
			c = -1.0 / 3.0
		}
		for j := range h.coeff[i] {
			h.coeff[i][j] = c
		}
	}
	h.potsc = depend.NewScalarVolatile("potsc", h.getPotSC)
}

func (h *HarmonicSC) CoeffSCPart1() [][]float64 { return h.coeff }

func (h *HarmonicSC) FSCPart2() [][]float64 {
	ktot := 0.0
	for _, k := range h.K {
		ktot += k
	}
	// gradient of alpha*|f|^2 with f = -k q
	for i := range h.fsc {
		q := h.b.Q[i]
		for j := range h.fsc[i] {
			h.fsc[i][j] = -2 * h.Alpha * ktot * ktot * q[j]
		}
	}
	return h.fsc
}

func (h *HarmonicSC) getPotSC() float64 {
	ktot := 0.0
	for _, k := range h.K {
		ktot += k
	}
	pot := 0.0
	for i := range h.b.Q {
		for _, qj := range h.b.Q[i] {
			pot += h.Alpha * ktot * ktot * qj * qj
		}
	}
	return pot
}

func (h *HarmonicSC) PotSC() *depend.Scalar { return h.potsc }
