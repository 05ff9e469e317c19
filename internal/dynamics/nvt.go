package dynamics

// tstepThermo applies the system thermostat.
func (in *integrator) tstepThermo() {
	in.thermostat.Step()
}

// stepNVT performs one constant-temperature outer step. OBABO brackets
// the MTS propagation with thermostat half-steps; BAOAB inserts one
// full thermostat step between the two halves of the propagation.
func (in *integrator) stepNVT() error {
	if Splitting(in.split.Get()) == SplitBAOAB {
		if err := in.mtspropBA(0); err != nil {
			return err
		}
		in.tstep()
		in.pconstraints()
		return in.mtspropAB(0)
	}

	in.tstep()
	in.pconstraints()
	if err := in.mtsprop(0); err != nil {
		return err
	}
	in.tstep()
	in.pconstraints()
	return nil
}
