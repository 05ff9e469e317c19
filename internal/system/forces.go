package system

import "github.com/san-kum/beadmd/internal/depend"

// Forces is the contract of the external force-field evaluator. A
// provider exposes one force array per multiple-time-stepping level,
// level 0 being the cheapest (outermost) component. The evaluator may
// be backed by an external process; calls are synchronous regardless.
type Forces interface {
	// NMTSLevels returns the number of force components the provider
	// splits itself into.
	NMTSLevels() int

	// ForcesMTS returns the per-bead force array for one MTS level.
	ForcesMTS(level int) [][]float64

	// Vir returns the 9-component virial tensor summed over levels.
	Vir() []float64

	// Pot returns the total potential energy.
	Pot() float64
}

// SCForces extends Forces with the Suzuki-Chin correction terms used by
// the higher-order path-integral integrators.
type SCForces interface {
	Forces

	// CoeffSCPart1 is the per-component coefficient converting the
	// Trotter force into the cheap Suzuki-Chin approximation,
	// applied as f*(1+coeff).
	CoeffSCPart1() [][]float64

	// FSCPart2 is the slow |f|^2 correction force, integrated outside
	// the MTS recursion.
	FSCPart2() [][]float64

	// PotSC is the Suzuki-Chin potential correction, registered with
	// the conserved-quantity accounting.
	PotSC() *depend.Scalar
}
