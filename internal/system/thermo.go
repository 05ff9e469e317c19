package system

import (
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
)

// Thermostat is the contract of a constant-temperature algorithm. The
// integrator pipes the simulation temperature and the thermostat step
// size into the Temp and Dt nodes before Bind is called.
type Thermostat interface {
	Bind(b *Beads, nm *NormalModes, prng *rand.Rand, fixdof int)
	Step()

	Temp() *depend.Scalar
	Dt() *depend.Scalar

	// Ethermo accumulates the heat exchanged with the bath, registered
	// into the conserved-quantity accounting.
	Ethermo() *depend.Scalar
}

// NullThermostat is the default no-op thermostat bound when an ensemble
// does not thermostat the system.
type NullThermostat struct {
	temp    *depend.Scalar
	dt      *depend.Scalar
	ethermo *depend.Scalar
}

func NewNullThermostat() *NullThermostat {
	return &NullThermostat{
		temp:    depend.NewScalarValue("temp", 0),
		dt:      depend.NewScalarValue("dt", 0),
		ethermo: depend.NewScalarValue("ethermo", 0),
	}
}

func (t *NullThermostat) Bind(*Beads, *NormalModes, *rand.Rand, int) {}
func (t *NullThermostat) Step()                                      {}
func (t *NullThermostat) Temp() *depend.Scalar                       { return t.temp }
func (t *NullThermostat) Dt() *depend.Scalar                         { return t.dt }
func (t *NullThermostat) Ethermo() *depend.Scalar                    { return t.ethermo }
