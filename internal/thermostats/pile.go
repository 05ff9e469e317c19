package thermostats

import (
	"math"
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/system"
)

// PILEGlobal is the path-integral Langevin equation thermostat with a
// global stochastic rescaling of the centroid: the internal ring-polymer
// fluctuations see per-component white noise while the centroid kinetic
// energy is exchanged with the bath as one collective degree of freedom.
// Because the centroid is treated globally it cannot be combined with
// frozen atoms; the orchestrator rejects that configuration at bind
// time.
type PILEGlobal struct {
	Tau float64

	temp    *depend.Scalar
	dt      *depend.Scalar
	ethermo *depend.Scalar

	b      *system.Beads
	nm     *system.NormalModes
	prng   *rand.Rand
	fixdof int
}

func NewPILEGlobal(tau float64) *PILEGlobal {
	return &PILEGlobal{
		Tau:     tau,
		temp:    depend.NewScalar("pile.temp"),
		dt:      depend.NewScalar("pile.dt"),
		ethermo: depend.NewScalarValue("pile.ethermo", 0),
	}
}

func (p *PILEGlobal) Bind(b *system.Beads, nm *system.NormalModes, prng *rand.Rand, fixdof int) {
	p.b = b
	p.nm = nm
	p.prng = prng
	p.fixdof = fixdof
}

func (p *PILEGlobal) Step() {
	dt := p.dt.Get()
	kt := system.KBoltzmann * p.temp.Get()
	before := p.b.KineticEnergy()

	n := p.b.NBeads
	d := 3 * p.b.NAtoms
	c1 := math.Exp(-dt / p.Tau)
	c2 := math.Sqrt((1 - c1*c1) * kt)

	mean := make([]float64, d)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			mean[j] += p.b.P[i][j]
		}
		mean[j] /= float64(n)
	}

	// Langevin on the deviations from the centroid, recentred so the
	// noise does not leak into the centroid mode
	if n > 1 {
		for j := 0; j < d; j++ {
			shift := 0.0
			for i := 0; i < n; i++ {
				dev := c1*(p.b.P[i][j]-mean[j]) + c2*math.Sqrt(p.b.M3[j])*p.prng.NormFloat64()
				p.b.P[i][j] = dev
				shift += dev
			}
			shift /= float64(n)
			for i := 0; i < n; i++ {
				p.b.P[i][j] -= shift
			}
		}
	} else {
		for j := 0; j < d; j++ {
			p.b.P[0][j] = 0
		}
	}

	// centroid: global stochastic velocity rescaling
	ckin := 0.0
	for j := 0; j < d; j++ {
		ckin += 0.5 * float64(n) * mean[j] * mean[j] / p.b.M3[j]
	}
	alpha := 1.0
	// frozen atoms are rejected at bind time, so fixdof holds only the
	// centre-of-mass count and applies to the centroid undivided
	ndof := d - p.fixdof
	if ckin > 0 && ndof > 0 {
		target := 0.5 * kt * float64(ndof)
		r := p.prng.NormFloat64()
		newKin := ckin*c1*c1 + target*(1-c1*c1) +
			2*r*c1*math.Sqrt(ckin*target*(1-c1*c1)/float64(ndof))
		if newKin < 0 {
			newKin = 0
		}
		alpha = math.Sqrt(newKin / ckin)
	}
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			p.b.P[i][j] += alpha * mean[j]
		}
	}

	after := p.b.KineticEnergy()
	p.ethermo.Set(p.ethermo.Get() + before - after)
}

func (p *PILEGlobal) Temp() *depend.Scalar    { return p.temp }
func (p *PILEGlobal) Dt() *depend.Scalar      { return p.dt }
func (p *PILEGlobal) Ethermo() *depend.Scalar { return p.ethermo }
