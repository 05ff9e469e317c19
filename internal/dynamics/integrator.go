package dynamics

import (
	"math/rand"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/eda"
	"github.com/san-kum/beadmd/internal/logger"
	"github.com/san-kum/beadmd/internal/system"
)

// Splitting selects the ordering of thermostat (O), momentum kick (B)
// and position drift (A) sub-steps within one outer step.
type Splitting int

const (
	SplitOBABO Splitting = iota
	SplitBAOAB
)

func ParseSplitting(s string) (Splitting, error) {
	switch s {
	case "", "obabo":
		return SplitOBABO, nil
	case "baoab":
		return SplitBAOAB, nil
	}
	return 0, ErrInvalidSplitting
}

func (s Splitting) String() string {
	if s == SplitBAOAB {
		return "baoab"
	}
	return "obabo"
}

// integrator is the shared core of every ensemble variant: the bound
// collaborators, the derived per-level step sizes, the recursive MTS
// propagator and the constraint projection. The variant-specific
// physics is composed out of the strategy funcs selected at bind time.
type integrator struct {
	b          *system.Beads
	nm         *system.NormalModes
	cell       *system.Cell
	forces     system.Forces
	ens        *system.Ensemble
	thermostat system.Thermostat
	barostat   system.Barostat
	prng       *rand.Rand
	eda        *eda.EDA

	fixcom   bool
	fixatoms []int

	// nodes aliased from the orchestrator
	dt    *depend.Scalar
	split *depend.Scalar
	nmts  *depend.Array

	// derived timesteps
	inmts  *depend.Scalar
	levels *depend.Scalar
	qdt    *depend.Scalar
	qdtOnM *depend.Array
	pdt    *depend.Array
	tdt    *depend.Scalar

	// one-shot stress sanity guard for the constant-pressure variants
	stressCheck bool

	// strategies composed per ensemble kind
	pstep  func(level int) error
	qcstep func()
	tstep  func()
	stepFn func() error
}

func (in *integrator) bind(d *Dynamics) {
	in.b = d.beads
	in.nm = d.nm
	in.cell = d.cell
	in.forces = d.forces
	in.ens = d.ens
	in.thermostat = d.Thermostat
	in.barostat = d.Barostat
	in.prng = d.prng
	in.eda = d.eda
	in.fixcom = d.FixCOM
	in.fixatoms = d.FixAtoms

	in.dt = d.dt
	in.split = d.split
	in.nmts = d.nmts

	in.inmts = depend.NewScalarFunc("inmts", func() float64 {
		prod := 1.0
		for _, n := range in.nmts.Get() {
			prod *= n
		}
		return prod
	}, in.nmts)
	in.levels = depend.NewScalarFunc("nmtslevels", func() float64 {
		return float64(len(in.nmts.Get()))
	}, in.nmts)

	in.qdt = depend.NewScalarFunc("qdt", in.getQdt, in.split, in.dt, in.inmts)
	in.qdtOnM = depend.NewArrayFunc("qdt_on_m", func() []float64 {
		q := in.qdt.Get()
		out := make([]float64, len(in.b.M3))
		for j, m := range in.b.M3 {
			out[j] = q / m
		}
		return out
	}, in.qdt)
	in.pdt = depend.NewArrayFunc("pdt", in.getPdt, in.split, in.dt, in.nmts)
	in.tdt = depend.NewScalarFunc("tdt", in.getTdt, in.split, in.dt, in.nmts)

	// step sizes are owned here and aliased into the coupled
	// subsystems
	depend.Pipe(in.qdt, in.nm.Dt)
	depend.Pipe(in.dt, in.barostat.Dt())
	depend.Pipe(in.qdt, in.barostat.Qdt())
	depend.PipeArray(in.pdt, in.barostat.Pdt())
	depend.Pipe(in.tdt, in.barostat.Tdt())
	depend.Pipe(in.tdt, in.thermostat.Dt())

	in.stressCheck = true
}

func (in *integrator) getQdt() float64 {
	return in.dt.Get() * 0.5 / in.inmts.Get()
}

// getPdt returns the momentum step at each level:
// pdt[k] = dt/2 / prod(nmts[0..k]).
func (in *integrator) getPdt() []float64 {
	nmts := in.nmts.Get()
	out := make([]float64, len(nmts))
	acc := 1.0
	for i, n := range nmts {
		acc *= n
		out[i] = in.dt.Get() * 0.5 / acc
	}
	return out
}

func (in *integrator) getTdt() float64 {
	if Splitting(in.split.Get()) == SplitBAOAB {
		return in.dt.Get()
	}
	return in.dt.Get() * 0.5
}

func (in *integrator) nmtsAt(level int) int {
	return int(in.nmts.Get()[level])
}

func (in *integrator) nlevels() int {
	return int(in.levels.Get())
}

// pconstraints removes the centre-of-mass contribution from the
// momenta and zeroes frozen-atom components, crediting the removed
// kinetic energy to the conserved-quantity ledger. It runs after every
// momentum sub-step that changed momenta, so it is invoked from inside
// the MTS recursion, not just at step boundaries. The centre-of-mass
// correction is applied before frozen-atom zeroing.
func (in *integrator) pconstraints() {
	if in.fixcom {
		na3 := 3 * in.b.NAtoms
		mnb := in.b.TotalMass() * float64(in.b.NBeads)
		dens := 0.0
		for dir := 0; dir < 3; dir++ {
			pcom := 0.0
			for i := range in.b.P {
				for j := dir; j < na3; j += 3 {
					pcom += in.b.P[i][j]
				}
			}
			dens += pcom * pcom
			v := pcom / mnb
			for i := range in.b.P {
				for j := dir; j < na3; j += 3 {
					in.b.P[i][j] -= in.b.M3[j] * v
				}
			}
		}
		// the drift removal is attributed to the thermostat acting on
		// the centroid
		in.ens.Eens += dens * 0.5 / mnb
	}

	for _, a := range in.fixatoms {
		for i := range in.b.P {
			p := in.b.P[i]
			for dir := 0; dir < 3; dir++ {
				j := 3*a + dir
				in.ens.Eens += 0.5 * p[j] * p[j] / in.b.M3[j]
				p[j] = 0
			}
		}
	}
}

// mtspropBA is the "B then A" half of the recursive Trotter splitting:
// kick at this level, then either the analytic free propagation (at the
// innermost level) or the next level's full step, then kick again. An
// odd repetition count leaves one half-weight kick-drift pair at the
// end so the factorization stays exactly time-reversible.
func (in *integrator) mtspropBA(level int) error {
	mk := in.nmtsAt(level) / 2
	inner := level == in.nlevels()-1

	for i := 0; i < mk; i++ {
		if err := in.pstep(level); err != nil {
			return err
		}
		in.pconstraints()
		if inner {
			in.qcstep()
			in.nm.FreeQStep()
			in.qcstep()
			in.nm.FreeQStep()
		} else if err := in.mtsprop(level + 1); err != nil {
			return err
		}
		if err := in.pstep(level); err != nil {
			return err
		}
		in.pconstraints()
	}

	if in.nmtsAt(level)%2 == 1 {
		if err := in.pstep(level); err != nil {
			return err
		}
		in.pconstraints()
		if inner {
			in.qcstep()
			in.nm.FreeQStep()
		} else if err := in.mtspropBA(level + 1); err != nil {
			return err
		}
	}
	return nil
}

// mtspropAB is the time-reversed twin of mtspropBA: the odd leftover
// piece comes first, then the full kick-drift-kick sub-steps.
func (in *integrator) mtspropAB(level int) error {
	inner := level == in.nlevels()-1

	if in.nmtsAt(level)%2 == 1 {
		if inner {
			in.qcstep()
			in.nm.FreeQStep()
		} else if err := in.mtspropAB(level + 1); err != nil {
			return err
		}
		if err := in.pstep(level); err != nil {
			return err
		}
		in.pconstraints()
	}

	for i := 0; i < in.nmtsAt(level)/2; i++ {
		if err := in.pstep(level); err != nil {
			return err
		}
		in.pconstraints()
		if inner {
			in.qcstep()
			in.nm.FreeQStep()
			in.qcstep()
			in.nm.FreeQStep()
		} else if err := in.mtsprop(level + 1); err != nil {
			return err
		}
		if err := in.pstep(level); err != nil {
			return err
		}
		in.pconstraints()
	}
	return nil
}

// mtsprop composes the two halves into one full, time-symmetric step at
// the given level.
func (in *integrator) mtsprop(level int) error {
	if err := in.mtspropBA(level); err != nil {
		return err
	}
	return in.mtspropAB(level)
}

// pstepForce is the plain velocity Verlet momentum kick: forces at the
// given MTS level scaled by that level's derived step size, plus the
// bias force in the outermost loop.
func (in *integrator) pstepForce(level int) error {
	dt := in.pdt.Get()[level]
	in.b.Kick(in.forces.ForcesMTS(level), dt)
	if level == 0 && in.ens.HasBias() {
		in.b.Kick(in.ens.Bias, dt)
	}
	return nil
}

// qcstepCentroid drifts the centroid by the mass-scaled position step;
// the internal modes are advanced separately by the free propagator.
func (in *integrator) qcstepCentroid() {
	qdtOnM := in.qdtOnM.Get()
	n := float64(in.b.NBeads)
	d := 3 * in.b.NAtoms
	for j := 0; j < d; j++ {
		mean := 0.0
		for i := range in.b.P {
			mean += in.b.P[i][j]
		}
		mean /= n
		drift := mean * qdtOnM[j]
		for i := range in.b.Q {
			in.b.Q[i][j] += drift
		}
	}
}

// checkStress verifies on the first momentum kick that the force
// provider reports a non-zero virial; constant-pressure dynamics is
// meaningless without it. The guard disables itself after the first
// call regardless of outcome.
func (in *integrator) checkStress() error {
	if !in.stressCheck {
		return nil
	}
	in.stressCheck = false

	for _, v := range in.forces.Vir() {
		if v != 0 {
			return nil
		}
	}
	logger.L().Warn("forcefield returned a zero stress tensor, constant-pressure dynamics will likely make no sense")
	if logger.AtLeast(logger.Medium) {
		return ErrZeroStress
	}
	return nil
}
