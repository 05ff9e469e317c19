package barostats

import (
	"math"
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/system"
)

// Anisotropic is the constant-stress twin of Isotropic: the piston is a
// full 3x3 cell momentum targeting an external stress tensor instead of
// a scalar pressure. The cell update is first order in the strain rate.
type Anisotropic struct {
	Tau float64

	pw [9]float64

	temp, pext   *depend.Scalar
	stressext    *depend.Array
	dt, qdt, tdt *depend.Scalar
	pdt          *depend.Array
	stamp        *depend.Scalar

	ebaro, pot, kin, cj *depend.Scalar

	thermostat *cellThermostat

	b      *system.Beads
	cell   *system.Cell
	forces system.Forces
	fixdof int
}

func NewAnisotropic(tau float64) *Anisotropic {
	a := &Anisotropic{
		Tau:       tau,
		temp:      depend.NewScalar("baro.temp"),
		pext:      depend.NewScalar("baro.pext"),
		stressext: depend.NewArray("baro.stressext"),
		dt:        depend.NewScalar("baro.dt"),
		qdt:       depend.NewScalar("baro.qdt"),
		tdt:       depend.NewScalar("baro.tdt"),
		pdt:       depend.NewArray("baro.pdt"),
		stamp:     depend.NewScalarValue("baro.stamp", 0),
	}
	a.kin = depend.NewScalarFunc("baro.kin", func() float64 {
		w := a.mass()
		ke := 0.0
		for _, p := range a.pw {
			ke += p * p / (2 * w)
		}
		return ke
	}, a.stamp)
	a.pot = depend.NewScalarFunc("baro.pot", func() float64 {
		// elastic energy against the target stress
		s := a.stressext.Get()
		v := a.cell.Volume()
		tr := (s[0] + s[4] + s[8]) / 3
		return tr * v
	}, a.stamp, a.stressext)
	a.cj = depend.NewScalarFunc("baro.cell_jacobian", func() float64 {
		return -system.KBoltzmann * a.temp.Get() * math.Log(a.cell.Volume())
	}, a.stamp, a.temp)
	a.thermostat = newCellThermostat(a)
	// cell bath heat enters the barostat energy, as in the isotropic case
	a.ebaro = depend.NewScalarFunc("baro.ebaro", func() float64 {
		return a.thermostat.ethermo.Get() + a.kin.Get() + a.pot.Get() + a.cj.Get()
	}, a.thermostat.ethermo, a.kin, a.pot, a.cj)
	return a
}

func (a *Anisotropic) Bind(b *system.Beads, nm *system.NormalModes, cell *system.Cell, forces system.Forces, bias [][]float64, prng *rand.Rand, fixdof, nmts int) {
	a.b = b
	a.cell = cell
	a.forces = forces
	a.fixdof = fixdof
	a.thermostat.prng = prng
	depend.Pipe(a.temp, a.thermostat.temp)
	depend.Pipe(a.tdt, a.thermostat.dt)
}

func (a *Anisotropic) mass() float64 {
	ndof := 3*float64(a.b.NAtoms*a.b.NBeads) + 9
	return ndof * system.KBoltzmann * a.temp.Get() * a.Tau * a.Tau
}

// stress is the instantaneous internal stress (vir + kinetic)/V.
func (a *Anisotropic) stress() [9]float64 {
	var s [9]float64
	vir := a.forces.Vir()
	v := a.cell.Volume()
	for i := 0; i < 9; i++ {
		s[i] = vir[i] / v
	}
	// kinetic contribution on the diagonal
	kin := 2 * a.b.KineticEnergy() / (3 * v)
	s[0] += kin
	s[4] += kin
	s[8] += kin
	return s
}

func (a *Anisotropic) Pstep(level int) {
	dt := a.pdt.Get()[level]
	v := a.cell.Volume()
	s := a.stress()
	target := a.stressext.Get()
	for i := 0; i < 9; i++ {
		a.pw[i] += dt * v * (s[i] - target[i])
	}
	a.bump()
}

func (a *Anisotropic) Qcstep() {
	t := a.qdt.Get()
	w := a.mass()
	// strain rate matrix
	var g [9]float64
	for i := range g {
		g[i] = a.pw[i] / w
	}
	// first-order cell update H += t g H
	var h [9]float64
	copy(h[:], a.cell.H)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += g[3*r+k] * h[3*k+c]
			}
			a.cell.H[3*r+c] += t * sum
		}
	}
	for i := range a.b.Q {
		q, p := a.b.Q[i], a.b.P[i]
		for at := 0; at < a.b.NAtoms; at++ {
			var dq, dp [3]float64
			for r := 0; r < 3; r++ {
				for c := 0; c < 3; c++ {
					dq[r] += g[3*r+c] * q[3*at+c]
					dp[r] += g[3*r+c] * p[3*at+c]
				}
			}
			for r := 0; r < 3; r++ {
				q[3*at+r] += t * (dq[r] + p[3*at+r]/a.b.M3[3*at+r])
				p[3*at+r] -= t * dp[r]
			}
		}
	}
	a.bump()
}

func (a *Anisotropic) Pscstep() {
	sc, ok := a.forces.(system.SCForces)
	if !ok {
		return
	}
	fsc := sc.FSCPart2()
	w := 0.0
	for i := range fsc {
		for j := range fsc[i] {
			w += fsc[i][j] * a.b.Q[i][j]
		}
	}
	kick := a.dt.Get() * 0.5 * w / 3
	a.pw[0] += kick
	a.pw[4] += kick
	a.pw[8] += kick
	a.bump()
}

func (a *Anisotropic) bump() { a.stamp.Set(a.stamp.Get() + 1) }

func (a *Anisotropic) Thermostat() system.Thermostat { return a.thermostat }
func (a *Anisotropic) Temp() *depend.Scalar          { return a.temp }
func (a *Anisotropic) Pext() *depend.Scalar          { return a.pext }
func (a *Anisotropic) Stressext() *depend.Array      { return a.stressext }
func (a *Anisotropic) Dt() *depend.Scalar            { return a.dt }
func (a *Anisotropic) Qdt() *depend.Scalar           { return a.qdt }
func (a *Anisotropic) Tdt() *depend.Scalar           { return a.tdt }
func (a *Anisotropic) Pdt() *depend.Array            { return a.pdt }
func (a *Anisotropic) Ebaro() *depend.Scalar         { return a.ebaro }
func (a *Anisotropic) Pot() *depend.Scalar           { return a.pot }
func (a *Anisotropic) Kin() *depend.Scalar           { return a.kin }
func (a *Anisotropic) CellJacobian() *depend.Scalar  { return a.cj }

// cellThermostat is the Langevin bath on the cell momentum components.
type cellThermostat struct {
	a       *Anisotropic
	temp    *depend.Scalar
	dt      *depend.Scalar
	ethermo *depend.Scalar
	prng    *rand.Rand
}

func newCellThermostat(a *Anisotropic) *cellThermostat {
	return &cellThermostat{
		a:       a,
		temp:    depend.NewScalar("cellthermo.temp"),
		dt:      depend.NewScalar("cellthermo.dt"),
		ethermo: depend.NewScalarValue("cellthermo.ethermo", 0),
	}
}

func (c *cellThermostat) Bind(*system.Beads, *system.NormalModes, *rand.Rand, int) {}

func (c *cellThermostat) Step() {
	dt := c.dt.Get()
	w := c.a.mass()
	c1 := math.Exp(-dt / c.a.Tau)
	c2 := math.Sqrt((1 - c1*c1) * system.KBoltzmann * c.temp.Get() * w)

	before, after := 0.0, 0.0
	for i := range c.a.pw {
		before += c.a.pw[i] * c.a.pw[i] / (2 * w)
		c.a.pw[i] = c1*c.a.pw[i] + c2*c.prng.NormFloat64()
		after += c.a.pw[i] * c.a.pw[i] / (2 * w)
	}
	c.ethermo.Set(c.ethermo.Get() + before - after)
	c.a.bump()
}

func (c *cellThermostat) Temp() *depend.Scalar    { return c.temp }
func (c *cellThermostat) Dt() *depend.Scalar      { return c.dt }
func (c *cellThermostat) Ethermo() *depend.Scalar { return c.ethermo }
