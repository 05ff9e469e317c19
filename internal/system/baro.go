package system

import (
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
)

// Barostat is the contract of a constant-pressure or constant-stress
// algorithm. The integrator pipes temperature, pressure/stress targets
// and its derived step sizes into the exposed nodes before Bind.
type Barostat interface {
	Bind(b *Beads, nm *NormalModes, cell *Cell, forces Forces, bias [][]float64, prng *rand.Rand, fixdof, nmts int)

	// Pstep kicks the cell momentum at one MTS level; Qcstep performs
	// the coupled cell+centroid position update; Pscstep is the extra
	// Suzuki-Chin cell kick bracketing the slow correction force.
	Pstep(level int)
	Qcstep()
	Pscstep()

	// Thermostat returns the barostat's own thermostat, stepped
	// together with the system one.
	Thermostat() Thermostat

	Temp() *depend.Scalar
	Pext() *depend.Scalar
	Stressext() *depend.Array

	Dt() *depend.Scalar
	Qdt() *depend.Scalar
	Tdt() *depend.Scalar
	Pdt() *depend.Array

	// Energy bookkeeping terms registered with the ensemble.
	Ebaro() *depend.Scalar
	Pot() *depend.Scalar
	Kin() *depend.Scalar
	CellJacobian() *depend.Scalar
}

// NullBarostat is the default do-nothing barostat. Binding a
// constant-pressure integrator with it is a configuration error.
type NullBarostat struct {
	thermostat Thermostat

	temp, pext          *depend.Scalar
	stressext           *depend.Array
	dt, qdt, tdt        *depend.Scalar
	pdt                 *depend.Array
	ebaro, pot, kin, cj *depend.Scalar
}

func NewNullBarostat() *NullBarostat {
	return &NullBarostat{
		thermostat: NewNullThermostat(),
		temp:       depend.NewScalarValue("temp", 0),
		pext:       depend.NewScalarValue("pext", 0),
		stressext:  depend.NewArrayValue("stressext", make([]float64, 9)),
		dt:         depend.NewScalarValue("dt", 0),
		qdt:        depend.NewScalarValue("qdt", 0),
		tdt:        depend.NewScalarValue("tdt", 0),
		pdt:        depend.NewArrayValue("pdt", nil),
		ebaro:      depend.NewScalarValue("ebaro", 0),
		pot:        depend.NewScalarValue("pot", 0),
		kin:        depend.NewScalarValue("kin", 0),
		cj:         depend.NewScalarValue("cell_jacobian", 0),
	}
}

func (b *NullBarostat) Bind(*Beads, *NormalModes, *Cell, Forces, [][]float64, *rand.Rand, int, int) {
}
func (b *NullBarostat) Pstep(int)                    {}
func (b *NullBarostat) Qcstep()                      {}
func (b *NullBarostat) Pscstep()                     {}
func (b *NullBarostat) Thermostat() Thermostat       { return b.thermostat }
func (b *NullBarostat) Temp() *depend.Scalar         { return b.temp }
func (b *NullBarostat) Pext() *depend.Scalar         { return b.pext }
func (b *NullBarostat) Stressext() *depend.Array     { return b.stressext }
func (b *NullBarostat) Dt() *depend.Scalar           { return b.dt }
func (b *NullBarostat) Qdt() *depend.Scalar          { return b.qdt }
func (b *NullBarostat) Tdt() *depend.Scalar          { return b.tdt }
func (b *NullBarostat) Pdt() *depend.Array           { return b.pdt }
func (b *NullBarostat) Ebaro() *depend.Scalar        { return b.ebaro }
func (b *NullBarostat) Pot() *depend.Scalar          { return b.pot }
func (b *NullBarostat) Kin() *depend.Scalar          { return b.kin }
func (b *NullBarostat) CellJacobian() *depend.Scalar { return b.cj }
