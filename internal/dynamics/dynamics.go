package dynamics

import (
	"fmt"
	"math"
	"math/rand"
	"slices"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/eda"
	"github.com/san-kum/beadmd/internal/system"
)

// Mode identifies the statistical ensemble an integrator samples.
type Mode string

const (
	ModeNVE    Mode = "nve"
	ModeNVT    Mode = "nvt"
	ModeNVTCC  Mode = "nvt-cc"
	ModeNPT    Mode = "npt"
	ModeNST    Mode = "nst"
	ModeSC     Mode = "sc"
	ModeSCNPT  Mode = "scnpt"
	ModeEDANVE Mode = "eda-nve"
)

// edaClockTolerance bounds the allowed drift between the simulation
// clock and the field-evaluation clock after an outer step.
const edaClockTolerance = 1e-12

// globalCentroidThermostats lists the thermostat type names that act
// globally on the centroid and therefore cannot be combined with frozen
// atoms.
// TODO: the trailing space in the second entry makes it unmatchable
// against any Go type name; confirm the intended thermostat list before
// widening the check.
var globalCentroidThermostats = []string{
	"*thermostats.PILEGlobal",
	"*thermostats.NMGLEGlobal ",
}

// Config assembles a Dynamics instance. Zero values select sensible
// defaults: no-op thermostat and barostat, a single MTS level, OBABO
// splitting.
type Config struct {
	Timestep  float64
	Mode      Mode
	Splitting Splitting

	Thermostat system.Thermostat
	Barostat   system.Barostat

	FixCOM   bool
	FixAtoms []int

	// NMTS gives the number of inner sub-steps per force level; one
	// entry per level the force provider supplies.
	NMTS []int

	// Field and Bec configure the electric-field driving; consulted
	// only for the field-driven modes.
	Field *eda.ElectricField
	Bec   *eda.BornCharges
}

// Dynamics owns the master timestep, splitting mode and MTS level spec,
// selects and binds one integrator variant, wires the derived-quantity
// links between itself, the thermostat, the barostat and the
// normal-mode transform, and drives one outer step per call.
type Dynamics struct {
	Mode       Mode
	Thermostat system.Thermostat
	Barostat   system.Barostat
	FixCOM     bool
	FixAtoms   []int

	dt    *depend.Scalar
	split *depend.Scalar
	nmts  *depend.Array
	ntemp *depend.Scalar

	eda *eda.EDA

	ens    *system.Ensemble
	beads  *system.Beads
	nm     *system.NormalModes
	cell   *system.Cell
	forces system.Forces
	prng   *rand.Rand

	integ integrator
}

// New builds an unbound Dynamics from configuration. The timestep,
// splitting and MTS spec become immutable once Bind has run.
func New(cfg Config) *Dynamics {
	d := &Dynamics{
		Mode:       cfg.Mode,
		Thermostat: cfg.Thermostat,
		Barostat:   cfg.Barostat,
		FixCOM:     cfg.FixCOM,
		FixAtoms:   cfg.FixAtoms,
		dt:         depend.NewScalarValue("dt", cfg.Timestep),
		split:      depend.NewScalarValue("splitting", float64(cfg.Splitting)),
	}
	if d.Mode == "" {
		d.Mode = ModeNVE
	}
	if d.Thermostat == nil {
		d.Thermostat = system.NewNullThermostat()
	}
	if d.Barostat == nil {
		d.Barostat = system.NewNullBarostat()
	}

	nmts := cfg.NMTS
	if len(nmts) == 0 {
		nmts = []int{1}
	}
	fnmts := make([]float64, len(nmts))
	for i, n := range nmts {
		fnmts[i] = float64(n)
	}
	d.nmts = depend.NewArrayValue("nmts", fnmts)

	// field-driven modes allocate the driving state; everything else
	// stays clean
	if eda.IsDriven(string(d.Mode)) {
		d.eda = eda.New(cfg.Field, cfg.Bec)
	}
	return d
}

// FixedDOF returns the number of constrained degrees of freedom, used
// by thermostat and barostat normalization.
func (d *Dynamics) FixedDOF() int {
	fixdof := 3 * len(d.FixAtoms) * d.beads.NBeads
	if d.FixCOM {
		fixdof += 3
	}
	return fixdof
}

// Bind wires the collaborators into the dynamics and validates the
// configuration. All configuration errors surface here, before any
// stepping occurs.
func (d *Dynamics) Bind(ens *system.Ensemble, beads *system.Beads, nm *system.NormalModes, cell *system.Cell, forces system.Forces, prng *rand.Rand) error {
	d.ens = ens
	d.beads = beads
	d.nm = nm
	d.cell = cell
	d.forces = forces
	d.prng = prng

	if len(d.nmts.Get()) != forces.NMTSLevels() {
		return fmt.Errorf("%w: %d levels configured, %d provided",
			ErrMTSLevelMismatch, len(d.nmts.Get()), forces.NMTSLevels())
	}
	for _, n := range d.nmts.Get() {
		if n < 1 {
			return fmt.Errorf("%w: got %v", ErrInvalidMTSEntry, n)
		}
	}
	if name := fmt.Sprintf("%T", d.Thermostat); slices.Contains(globalCentroidThermostats, name) && len(d.FixAtoms) > 0 {
		return ErrFixedAtomsThermostat
	}
	if d.eda != nil && len(d.nmts.Get()) > 1 {
		return ErrEDAMultipleTimeStep
	}

	// simulation temperature: nbeads times the physical temperature,
	// piped into every subsystem that needs it
	d.ntemp = depend.NewScalarFunc("ntemp", func() float64 {
		return d.ens.Temp.Get() * float64(d.beads.NBeads)
	}, d.ens.Temp)

	fixdof := d.FixedDOF()

	d.nm.Bind(beads, forces)
	depend.Pipe(d.ntemp, d.nm.Temp)

	depend.Pipe(d.ntemp, d.Thermostat.Temp())
	d.Thermostat.Bind(beads, nm, prng, fixdof)

	depend.Pipe(d.ntemp, d.Barostat.Temp())
	depend.Pipe(d.ens.Pext, d.Barostat.Pext())
	depend.PipeArray(d.ens.Stressext, d.Barostat.Stressext())
	d.Barostat.Bind(beads, nm, cell, forces, d.ens.Bias, prng, fixdof, len(d.nmts.Get()))

	// the driving extension binds before the integrator so the
	// integrator can read its derived force node
	if d.eda != nil {
		d.eda.Bind(beads)
		d.eda.Time.Set(d.ens.Time)
		d.eda.MTSTime.Set(d.ens.Time)
	}

	d.integ.bind(d)
	if err := d.selectVariant(); err != nil {
		return err
	}

	d.ens.AddEcons(d.Thermostat.Ethermo())
	d.ens.AddEcons(d.Barostat.Ebaro())
	d.ens.AddXlpot(d.Barostat.Pot())
	d.ens.AddXlpot(d.Barostat.CellJacobian())
	d.ens.AddXlkin(d.Barostat.Kin())
	if d.Mode == ModeSC || d.Mode == ModeSCNPT {
		sc := d.forces.(system.SCForces)
		d.ens.AddEcons(sc.PotSC())
		d.ens.AddXlpot(sc.PotSC())
	}

	// constraints apply immediately after binding
	d.integ.pconstraints()

	return d.validateEnsemble()
}

func (d *Dynamics) selectVariant() error {
	in := &d.integ
	noop := func() {}
	switch d.Mode {
	case ModeNVE:
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepForce, in.qcstepCentroid, noop, in.stepNVE
	case ModeNVT:
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepForce, in.qcstepCentroid, in.tstepThermo, in.stepNVT
	case ModeNVTCC:
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepForce, in.qcstepCentroid, in.tstepThermo, in.stepNVTCC
	case ModeNPT, ModeNST:
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepBaro, in.qcstepBaro, in.tstepBaro, in.stepNVT
	case ModeSC:
		if _, ok := d.forces.(system.SCForces); !ok {
			return ErrSCForcesUnsupported
		}
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepSC, in.qcstepCentroid, in.tstepThermo, in.stepSC
	case ModeSCNPT:
		if _, ok := d.forces.(system.SCForces); !ok {
			return ErrSCForcesUnsupported
		}
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepSCNPT, in.qcstepBaro, in.tstepBaro, in.stepSCNPT
	case ModeEDANVE:
		in.pstep, in.qcstep, in.tstep, in.stepFn = in.pstepEDA, in.qcstepCentroid, noop, in.stepNVE
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, d.Mode)
	}
	return nil
}

// validateEnsemble enforces the ensemble-specific preconditions after
// binding.
func (d *Dynamics) validateEnsemble() error {
	switch d.Mode {
	case ModeNVT, ModeNVTCC, ModeNPT, ModeNST:
		if !d.ens.HasTemperature() || d.ens.Temp.Get() < 0 {
			return ErrNegativeTemperature
		}
	}
	switch d.Mode {
	case ModeNPT:
		if _, null := d.Barostat.(*system.NullBarostat); null {
			return ErrBarostatUnset
		}
		if !d.ens.HasPressure() {
			return ErrPressureUnset
		}
	case ModeNST:
		if _, null := d.Barostat.(*system.NullBarostat); null {
			return ErrBarostatUnset
		}
		if !d.ens.HasStress() {
			return ErrStressUnset
		}
	}
	return nil
}

// Step advances the dynamics by exactly one outer timestep.
func (d *Dynamics) Step() error {
	if d.eda != nil {
		d.eda.Time.Set(d.ens.Time)
	}

	if err := d.integ.stepFn(); err != nil {
		return err
	}
	d.ens.Time += d.dt.Get()

	if d.eda != nil {
		// the field must have been sampled exactly once per outer
		// step; anything else is an internal inconsistency
		if diff := math.Abs(d.ens.Time - d.eda.MTSTime.Get()); diff > edaClockTolerance {
			return fmt.Errorf("%w: |time - mts_time| = %g", ErrClockDesync, diff)
		}
	}
	return nil
}

// Dt returns the master timestep.
func (d *Dynamics) Dt() float64 { return d.dt.Get() }

// Time returns the current simulation time.
func (d *Dynamics) Time() float64 { return d.ens.Time }

// Econs returns the ensemble's conserved-quantity contribution.
func (d *Dynamics) Econs() float64 { return d.ens.Econs() }

// EDA exposes the driving state for the field-driven modes, nil
// otherwise.
func (d *Dynamics) EDA() *eda.EDA { return d.eda }
