package dynamics

// pstepEDA layers the field-driving force on top of the plain momentum
// kick. The driving force is derived from the field-evaluation clock:
// on the first kick of an outer step the two clocks agree and the clock
// is advanced by dt, so later kicks in the same step reuse the value
// computed for the step's start (and the closing kick, after the clock
// advanced, samples the field at the step's end).
func (in *integrator) pstepEDA(level int) error {
	if err := in.pstepForce(level); err != nil {
		return err
	}

	dt := in.pdt.Get()[level]
	f := in.eda.Forces.Get()
	for i := range in.b.P {
		p := in.b.P[i]
		for j := range p {
			p[j] += f[j] * dt
		}
	}

	if in.eda.MTSTime.Get() == in.eda.Time.Get() {
		in.eda.MTSTime.Set(in.eda.MTSTime.Get() + in.dt.Get())
	}
	return nil
}
