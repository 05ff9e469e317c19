package dynamics

// stepNVE performs one constant-energy outer step: the full recursive
// MTS propagation and nothing else.
func (in *integrator) stepNVE() error {
	return in.mtsprop(0)
}
