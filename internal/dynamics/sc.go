package dynamics

import "github.com/san-kum/beadmd/internal/system"

// scForces returns the provider's Suzuki-Chin view; selection of the
// sc/scnpt modes guarantees the assertion holds (validated at bind).
func (in *integrator) scForces() system.SCForces {
	return in.forces.(system.SCForces)
}

// pstepSC kicks with the Trotter force scaled by (1 + coeffsc_part_1),
// the cheap approximation to the Suzuki-Chin force; the bias stays in
// the outer loop.
func (in *integrator) pstepSC(level int) error {
	dt := in.pdt.Get()[level]
	if level == 0 && in.ens.HasBias() {
		in.b.Kick(in.ens.Bias, dt)
	}
	sc := in.scForces()
	f := in.forces.ForcesMTS(level)
	coeff := sc.CoeffSCPart1()
	for i := range in.b.P {
		p, fi, ci := in.b.P[i], f[i], coeff[i]
		for j := range p {
			p[j] += fi[j] * (1 + ci[j]) * dt
		}
	}
	return nil
}

// pstepSCNPT adds the barostat kick and the one-shot stress check in
// front of the Suzuki-Chin kick.
func (in *integrator) pstepSCNPT(level int) error {
	if err := in.checkStress(); err != nil {
		return err
	}
	in.barostat.Pstep(level)
	return in.pstepSC(level)
}

// kickSCSlow applies the slow |f|^2 correction, treated as the slowest
// scale and integrated as a half-kick immediately outside the full MTS
// recursion.
func (in *integrator) kickSCSlow() {
	in.b.Kick(in.scForces().FSCPart2(), in.dt.Get()*0.5)
}

// stepSC performs one higher-order (Suzuki-Chin) outer step.
func (in *integrator) stepSC() error {
	if Splitting(in.split.Get()) == SplitBAOAB {
		in.kickSCSlow()
		if err := in.mtspropBA(0); err != nil {
			return err
		}
		in.tstep()
		in.pconstraints()
		if err := in.mtspropAB(0); err != nil {
			return err
		}
		in.kickSCSlow()
		return nil
	}

	in.tstep()
	in.pconstraints()
	in.kickSCSlow()
	if err := in.mtsprop(0); err != nil {
		return err
	}
	in.kickSCSlow()
	in.tstep()
	in.pconstraints()
	return nil
}

// stepSCNPT is stepSC with the barostat's Suzuki-Chin cell kick
// bracketing the slow-force half-kicks.
func (in *integrator) stepSCNPT() error {
	if Splitting(in.split.Get()) == SplitBAOAB {
		in.barostat.Pscstep()
		in.kickSCSlow()
		if err := in.mtspropBA(0); err != nil {
			return err
		}
		in.tstep()
		in.pconstraints()
		if err := in.mtspropAB(0); err != nil {
			return err
		}
		in.barostat.Pscstep()
		in.kickSCSlow()
		return nil
	}

	in.tstep()
	in.pconstraints()
	in.barostat.Pscstep()
	in.kickSCSlow()
	if err := in.mtsprop(0); err != nil {
		return err
	}
	in.barostat.Pscstep()
	in.kickSCSlow()
	in.tstep()
	in.pconstraints()
	return nil
}
