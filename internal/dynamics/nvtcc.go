package dynamics

// pstepCC kicks the momenta with the total force in normal-mode
// coordinates over half the master timestep. The centroid component is
// zeroed immediately after by the caller, so the kick only feeds the
// internal modes.
func (in *integrator) pstepCC() {
	d := 3 * in.b.NAtoms
	total := make([][]float64, in.b.NBeads)
	for i := range total {
		total[i] = make([]float64, d)
	}
	for level := 0; level < in.forces.NMTSLevels(); level++ {
		f := in.forces.ForcesMTS(level)
		for i := range total {
			for j := range total[i] {
				total[i][j] += f[i][j]
			}
		}
	}
	in.b.Kick(total, in.dt.Get()*0.5)
}

// zeroCentroid removes the centroid momentum, crediting the ledger with
// the kinetic energy it carried when the removal follows a thermostat
// step (the energy balance only needs accounting when the bath added
// it).
func (in *integrator) zeroCentroid(credit bool) {
	if credit {
		in.ens.Eens += in.nm.CentroidKineticEnergy()
	}
	in.nm.ZeroCentroidMomentum()
}

// stepNVTCC is the constrained-centroid variant: a hand-unrolled
// sequence that keeps the centroid exactly fixed while the internal
// modes are thermostatted and propagated.
func (in *integrator) stepNVTCC() error {
	in.tstep()
	in.pconstraints()
	in.zeroCentroid(true)

	in.pstepCC()
	in.zeroCentroid(false)
	in.pconstraints()

	// the centroid drift is skipped entirely; only the internal modes
	// move
	in.nm.FreeQStep()

	in.pstepCC()
	in.zeroCentroid(false)
	in.pconstraints()

	in.tstep()
	in.zeroCentroid(true)
	in.pconstraints()
	return nil
}
