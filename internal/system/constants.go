package system

// Physical constants in Hartree atomic units.
const (
	KBoltzmann = 3.1668152e-06 // Boltzmann constant, Ha/K
	HBar       = 1.0           // reduced Planck constant
	ECharge    = 1.0           // elementary charge
)
