package dynamics

import "errors"

// Configuration errors, detected at bind time.
var (
	// ErrMTSLevelMismatch indicates the configured MTS level count does
	// not match the number of force levels the provider supplies.
	ErrMTSLevelMismatch = errors.New("dynamics: MTS level count does not match force components")

	// ErrNegativeTemperature indicates a constant-T ensemble with a
	// negative or unspecified target temperature.
	ErrNegativeTemperature = errors.New("dynamics: negative or unspecified temperature for a constant-T integrator")

	// ErrBarostatUnset indicates constant-pressure dynamics with the
	// default no-op barostat.
	ErrBarostatUnset = errors.New("dynamics: barostat and its mode must be specified for constant-p integrators")

	// ErrPressureUnset indicates constant-pressure dynamics without a
	// target pressure.
	ErrPressureUnset = errors.New("dynamics: unspecified pressure for a constant-p integrator")

	// ErrStressUnset indicates constant-stress dynamics without a
	// target stress tensor.
	ErrStressUnset = errors.New("dynamics: unspecified stress for a constant-s integrator")

	// ErrInvalidSplitting indicates an unrecognized splitting mode.
	ErrInvalidSplitting = errors.New("dynamics: invalid splitting, only OBABO and BAOAB are supported")

	// ErrFixedAtomsThermostat indicates a global centroid thermostat
	// combined with frozen atoms.
	ErrFixedAtomsThermostat = errors.New("dynamics: fixed atoms and a global thermostat on the centroid are not supported, use a local thermostat")

	// ErrEDAMultipleTimeStep indicates a field-driven ensemble with
	// more than one MTS level.
	ErrEDAMultipleTimeStep = errors.New("dynamics: field-driven integrators do not support multiple time stepping")

	// ErrInvalidMTSEntry indicates an MTS level with fewer than one
	// inner sub-step.
	ErrInvalidMTSEntry = errors.New("dynamics: every MTS level needs at least one sub-step")

	// ErrSCForcesUnsupported indicates a Suzuki-Chin ensemble bound to
	// a force provider without the correction terms.
	ErrSCForcesUnsupported = errors.New("dynamics: force provider does not expose Suzuki-Chin correction terms")

	// ErrUnknownMode indicates an unrecognized ensemble mode.
	ErrUnknownMode = errors.New("dynamics: unknown ensemble mode")
)

// Runtime physical-consistency errors, detected mid-run.
var (
	// ErrZeroStress indicates the force provider returned an all-zero
	// stress tensor under constant-pressure dynamics.
	ErrZeroStress = errors.New("dynamics: zero stress tensor terminates constant-pressure dynamics at medium verbosity and above")

	// ErrClockDesync indicates the field-driving clock no longer
	// matches the simulation clock.
	ErrClockDesync = errors.New("dynamics: electric field evaluation time is out of sync with the simulation clock")
)
