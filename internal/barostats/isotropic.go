// Package barostats provides constant-pressure collaborators for the
// integrator engine. The engine treats a barostat as an opaque
// interface; this package supplies a compact isotropic piston (BZP
// style) and an anisotropic variant for constant-stress runs. The cell
// coupling acts on the full bead coordinates, which coincides with the
// centroid form for a single bead.
package barostats

import (
	"math"
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/system"
)

// sinhx returns sinh(x)/x, continuous at zero.
func sinhx(x float64) float64 {
	if math.Abs(x) < 1e-8 {
		return 1 + x*x/6
	}
	return math.Sinh(x) / x
}

// Isotropic is an isotropic piston barostat. The piston momentum is
// kicked from the instantaneous pressure estimator at every MTS level
// and drives a coupled cell+position update that replaces the plain
// position drift.
type Isotropic struct {
	Tau float64 // piston relaxation time

	pw float64 // piston momentum

	temp, pext   *depend.Scalar
	stressext    *depend.Array
	dt, qdt, tdt *depend.Scalar
	pdt          *depend.Array

	// stamp versions the piston/cell state so the energy nodes below
	// recompute after every piston or cell update.
	stamp *depend.Scalar

	ebaro, pot, kin, cj *depend.Scalar

	thermostat *pistonThermostat

	b      *system.Beads
	cell   *system.Cell
	forces system.Forces
	fixdof int
}

func NewIsotropic(tau float64) *Isotropic {
	iso := &Isotropic{
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
	iso.kin = depend.NewScalarFunc("baro.kin", func() float64 {
		return iso.pw * iso.pw / (2 * iso.mass())
	}, iso.stamp)
	iso.pot = depend.NewScalarFunc("baro.pot", func() float64 {
		return iso.pext.Get() * iso.cell.Volume()
	}, iso.stamp, iso.pext)
	iso.cj = depend.NewScalarFunc("baro.cell_jacobian", func() float64 {
		return -system.KBoltzmann * iso.temp.Get() * math.Log(iso.cell.Volume())
	}, iso.stamp, iso.temp)
	iso.thermostat = newPistonThermostat(iso)
	// the piston bath's heat is part of the barostat energy; nothing
	// else registers it into the conserved quantity
	iso.ebaro = depend.NewScalarFunc("baro.ebaro", func() float64 {
		return iso.thermostat.ethermo.Get() + iso.kin.Get() + iso.pot.Get() + iso.cj.Get()
	}, iso.thermostat.ethermo, iso.kin, iso.pot, iso.cj)
	return iso
}

func (iso *Isotropic) Bind(b *system.Beads, nm *system.NormalModes, cell *system.Cell, forces system.Forces, bias [][]float64, prng *rand.Rand, fixdof, nmts int) {
	iso.b = b
	iso.cell = cell
	iso.forces = forces
	iso.fixdof = fixdof
	iso.thermostat.prng = prng
	depend.Pipe(iso.temp, iso.thermostat.temp)
	depend.Pipe(iso.tdt, iso.thermostat.dt)
}

func (iso *Isotropic) mass() float64 {
	ndof := 3*float64(iso.b.NAtoms*iso.b.NBeads) + 3
	return ndof * system.KBoltzmann * iso.temp.Get() * iso.Tau * iso.Tau
}

// pressure is the instantaneous estimator (2K + tr(vir)) / 3V.
func (iso *Isotropic) pressure() float64 {
	vir := iso.forces.Vir()
	tr := vir[0] + vir[4] + vir[8]
	return (2*iso.b.KineticEnergy() + tr) / (3 * iso.cell.Volume())
}

func (iso *Isotropic) Pstep(level int) {
	dt := iso.pdt.Get()[level]
	v := iso.cell.Volume()
	iso.pw += dt * 3 * v * (iso.pressure() - iso.pext.Get())
	if level == 0 {
		// finite-size kinetic term, applied once per outer kick
		iso.pw += dt * system.KBoltzmann * iso.temp.Get()
	}
	iso.bump()
}

func (iso *Isotropic) Qcstep() {
	t := iso.qdt.Get()
	vel := iso.pw / iso.mass()
	e := math.Exp(vel * t)
	iso.cell.Scale(e)
	for i := range iso.b.Q {
		q, p := iso.b.Q[i], iso.b.P[i]
		for j := range q {
			q[j] = q[j]*e + p[j]/iso.b.M3[j]*t*sinhx(vel*t)
			p[j] /= e
		}
	}
	iso.bump()
}

func (iso *Isotropic) Pscstep() {
	sc, ok := iso.forces.(system.SCForces)
	if !ok {
		return
	}
	// piston kick from the virial of the slow Suzuki-Chin correction
	fsc := sc.FSCPart2()
	w := 0.0
	for i := range fsc {
		for j := range fsc[i] {
			w += fsc[i][j] * iso.b.Q[i][j]
		}
	}
	iso.pw += iso.dt.Get() * 0.5 * w
	iso.bump()
}

func (iso *Isotropic) bump() { iso.stamp.Set(iso.stamp.Get() + 1) }

func (iso *Isotropic) Thermostat() system.Thermostat  { return iso.thermostat }
func (iso *Isotropic) Temp() *depend.Scalar           { return iso.temp }
func (iso *Isotropic) Pext() *depend.Scalar           { return iso.pext }
func (iso *Isotropic) Stressext() *depend.Array       { return iso.stressext }
func (iso *Isotropic) Dt() *depend.Scalar             { return iso.dt }
func (iso *Isotropic) Qdt() *depend.Scalar            { return iso.qdt }
func (iso *Isotropic) Tdt() *depend.Scalar            { return iso.tdt }
func (iso *Isotropic) Pdt() *depend.Array             { return iso.pdt }
func (iso *Isotropic) Ebaro() *depend.Scalar          { return iso.ebaro }
func (iso *Isotropic) Pot() *depend.Scalar            { return iso.pot }
func (iso *Isotropic) Kin() *depend.Scalar            { return iso.kin }
func (iso *Isotropic) CellJacobian() *depend.Scalar   { return iso.cj }

// pistonThermostat is the Langevin bath acting on the piston momentum.
type pistonThermostat struct {
	iso     *Isotropic
	temp    *depend.Scalar
	dt      *depend.Scalar
	ethermo *depend.Scalar
	prng    *rand.Rand
}

func newPistonThermostat(iso *Isotropic) *pistonThermostat {
	return &pistonThermostat{
		iso:     iso,
		temp:    depend.NewScalar("piston.temp"),
		dt:      depend.NewScalar("piston.dt"),
		ethermo: depend.NewScalarValue("piston.ethermo", 0),
	}
}

func (p *pistonThermostat) Bind(*system.Beads, *system.NormalModes, *rand.Rand, int) {}

func (p *pistonThermostat) Step() {
	dt := p.dt.Get()
	w := p.iso.mass()
	c1 := math.Exp(-dt / p.iso.Tau)
	c2 := math.Sqrt((1 - c1*c1) * system.KBoltzmann * p.temp.Get() * w)

	before := p.iso.pw * p.iso.pw / (2 * w)
	p.iso.pw = c1*p.iso.pw + c2*p.prng.NormFloat64()
	after := p.iso.pw * p.iso.pw / (2 * w)

	p.ethermo.Set(p.ethermo.Get() + before - after)
	p.iso.bump()
}

func (p *pistonThermostat) Temp() *depend.Scalar    { return p.temp }
func (p *pistonThermostat) Dt() *depend.Scalar      { return p.dt }
func (p *pistonThermostat) Ethermo() *depend.Scalar { return p.ethermo }
