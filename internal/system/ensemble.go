package system

import "github.com/san-kum/beadmd/internal/depend"

// Ensemble carries the thermodynamic targets of a run, the bias force,
// the simulation clock and the conserved-quantity ledger. Unset targets
// are explicit (HasPressure/HasStress/HasTemperature) rather than magic
// sentinel values; constant-T/p/s integrators validate them at bind
// time.
type Ensemble struct {
	// Temp is the target physical temperature. It defaults to -1 so a
	// constant-T integrator bound without a temperature fails
	// validation, while NVE can still derive a spring frequency.
	Temp      *depend.Scalar
	Pext      *depend.Scalar
	Stressext *depend.Array

	tempSet   bool
	pextSet   bool
	stressSet bool

	// Bias is an optional per-bead bias force applied at the outermost
	// MTS level, or nil.
	Bias [][]float64

	// Time is the simulation clock, advanced once per outer step.
	Time float64

	// Eens accumulates energy added or removed by every
	// non-symplectic momentum change: constraint projection,
	// thermostat heat exchange, field driving.
	Eens float64

	econs []*depend.Scalar
	xlpot []*depend.Scalar
	xlkin []*depend.Scalar
}

func NewEnsemble() *Ensemble {
	return &Ensemble{
		Temp:      depend.NewScalarValue("temp", -1.0),
		Pext:      depend.NewScalar("pext"),
		Stressext: depend.NewArray("stressext"),
	}
}

func (e *Ensemble) SetTemperature(t float64) {
	e.Temp.Set(t)
	e.tempSet = true
}

func (e *Ensemble) SetPressure(p float64) {
	e.Pext.Set(p)
	e.pextSet = true
}

// SetStress sets the 9-component external stress target.
func (e *Ensemble) SetStress(s []float64) {
	e.Stressext.Set(s)
	e.stressSet = true
}

func (e *Ensemble) HasTemperature() bool { return e.tempSet }
func (e *Ensemble) HasPressure() bool    { return e.pextSet }
func (e *Ensemble) HasStress() bool      { return e.stressSet }
func (e *Ensemble) HasBias() bool        { return e.Bias != nil }

// AddEcons registers an energy term into the conserved-quantity
// accounting (thermostat heat, barostat energy, field work).
func (e *Ensemble) AddEcons(n *depend.Scalar) { e.econs = append(e.econs, n) }

// AddXlpot registers an extended-Lagrangian potential term.
func (e *Ensemble) AddXlpot(n *depend.Scalar) { e.xlpot = append(e.xlpot, n) }

// AddXlkin registers an extended-Lagrangian kinetic term.
func (e *Ensemble) AddXlkin(n *depend.Scalar) { e.xlkin = append(e.xlkin, n) }

// Econs sums the ledger and every registered conserved-quantity term.
func (e *Ensemble) Econs() float64 {
	total := e.Eens
	for _, n := range e.econs {
		total += n.Get()
	}
	return total
}

// Xlpot sums the registered extended-Lagrangian potential terms.
func (e *Ensemble) Xlpot() float64 {
	total := 0.0
	for _, n := range e.xlpot {
		total += n.Get()
	}
	return total
}

// Xlkin sums the registered extended-Lagrangian kinetic terms.
func (e *Ensemble) Xlkin() float64 {
	total := 0.0
	for _, n := range e.xlkin {
		total += n.Get()
	}
	return total
}
