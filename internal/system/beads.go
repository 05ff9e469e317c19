package system

import "gonum.org/v1/gonum/floats"

// Beads holds the replicated particle system used in path-integral
// sampling: nbeads copies of natoms particles, each copy carrying its
// own positions and momenta. With nbeads = 1 this degenerates to
// classical molecular dynamics.
type Beads struct {
	NBeads int
	NAtoms int

	// Q and P are indexed [bead][3*atom+dim].
	Q [][]float64
	P [][]float64

	// M is the per-atom mass; M3 repeats each mass over the three
	// Cartesian components.
	M  []float64
	M3 []float64
}

func NewBeads(nbeads, natoms int) *Beads {
	b := &Beads{
		NBeads: nbeads,
		NAtoms: natoms,
		Q:      make([][]float64, nbeads),
		P:      make([][]float64, nbeads),
		M:      make([]float64, natoms),
		M3:     make([]float64, 3*natoms),
	}
	for i := range b.Q {
		b.Q[i] = make([]float64, 3*natoms)
		b.P[i] = make([]float64, 3*natoms)
	}
	for i := range b.M {
		b.M[i] = 1.0
	}
	b.syncM3()
	return b
}

func (b *Beads) syncM3() {
	for i, m := range b.M {
		b.M3[3*i] = m
		b.M3[3*i+1] = m
		b.M3[3*i+2] = m
	}
}

// SetMasses assigns per-atom masses. Masses are fixed for a run.
func (b *Beads) SetMasses(m []float64) {
	copy(b.M, m)
	b.syncM3()
}

// TotalMass returns the summed mass of one replica.
func (b *Beads) TotalMass() float64 {
	return floats.Sum(b.M)
}

// Kick adds f*dt to the momenta of every bead.
func (b *Beads) Kick(f [][]float64, dt float64) {
	for i := range b.P {
		floats.AddScaled(b.P[i], dt, f[i])
	}
}

// KickScaled adds f*scale*dt elementwise, used for force terms carrying
// a per-component correction coefficient.
func (b *Beads) KickScaled(f, scale [][]float64, dt float64) {
	for i := range b.P {
		p, fi, si := b.P[i], f[i], scale[i]
		for j := range p {
			p[j] += fi[j] * si[j] * dt
		}
	}
}

// KineticEnergy returns the total kinetic energy of all beads.
func (b *Beads) KineticEnergy() float64 {
	ke := 0.0
	for _, p := range b.P {
		for j, pj := range p {
			ke += 0.5 * pj * pj / b.M3[j]
		}
	}
	return ke
}

// Clone returns a deep copy, used by tests and trajectory snapshots.
func (b *Beads) Clone() *Beads {
	c := NewBeads(b.NBeads, b.NAtoms)
	for i := range b.Q {
		copy(c.Q[i], b.Q[i])
		copy(c.P[i], b.P[i])
	}
	c.SetMasses(b.M)
	return c
}
