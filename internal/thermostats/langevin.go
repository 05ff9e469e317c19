// Package thermostats provides constant-temperature collaborators for
// the integrator engine. The engine itself treats a thermostat as an
// opaque interface; this package supplies the white-noise Langevin
// implementation used by the demo CLI and the NVT/NPT tests.
package thermostats

import (
	"math"
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/system"
)

// Langevin couples every bead degree of freedom to a white-noise bath
// with relaxation time Tau. The exact Ornstein-Uhlenbeck update
//
//	p' = c1 p + c2 sqrt(m) xi,  c1 = exp(-dt/tau), c2 = sqrt((1-c1^2) kB T)
//
// is applied over the piped thermostat step size. The kinetic energy
// removed from (or added to) the system is accumulated into Ethermo so
// the conserved quantity stays traceable.
type Langevin struct {
	Tau float64

	temp    *depend.Scalar
	dt      *depend.Scalar
	ethermo *depend.Scalar

	b    *system.Beads
	prng *rand.Rand
}

func NewLangevin(tau float64) *Langevin {
	return &Langevin{
		Tau:     tau,
		temp:    depend.NewScalar("langevin.temp"),
		dt:      depend.NewScalar("langevin.dt"),
		ethermo: depend.NewScalarValue("langevin.ethermo", 0),
	}
}

func (l *Langevin) Bind(b *system.Beads, nm *system.NormalModes, prng *rand.Rand, fixdof int) {
	l.b = b
	l.prng = prng
}

func (l *Langevin) Step() {
	dt := l.dt.Get()
	c1 := math.Exp(-dt / l.Tau)
	c2 := math.Sqrt((1 - c1*c1) * system.KBoltzmann * l.temp.Get())

	before := l.b.KineticEnergy()
	for i := range l.b.P {
		p := l.b.P[i]
		for j := range p {
			p[j] = c1*p[j] + c2*math.Sqrt(l.b.M3[j])*l.prng.NormFloat64()
		}
	}
	after := l.b.KineticEnergy()

	l.ethermo.Set(l.ethermo.Get() + before - after)
}

func (l *Langevin) Temp() *depend.Scalar    { return l.temp }
func (l *Langevin) Dt() *depend.Scalar      { return l.dt }
func (l *Langevin) Ethermo() *depend.Scalar { return l.ethermo }
