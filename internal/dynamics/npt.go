package dynamics

// pstepBaro precedes every momentum kick with the barostat's own cell
// momentum kick. The zero-stress sanity check runs on the first kick
// only. The constant-stress variant shares this path unchanged; the
// anisotropy lives entirely inside the barostat.
func (in *integrator) pstepBaro(level int) error {
	if err := in.checkStress(); err != nil {
		return err
	}
	in.barostat.Pstep(level)
	return in.pstepForce(level)
}

// qcstepBaro replaces the plain centroid drift with the barostat-driven
// coupled cell+position update.
func (in *integrator) qcstepBaro() {
	in.barostat.Qcstep()
}

// tstepBaro advances the system thermostat together with the
// barostat's own.
func (in *integrator) tstepBaro() {
	in.thermostat.Step()
	in.barostat.Thermostat().Step()
}
