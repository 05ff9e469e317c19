// Package dynamics implements symplectic integrators for
// path-integral molecular dynamics.
//
// A [Dynamics] instance is assembled from a [Config] and bound to the
// beads, ensemble, normal-mode transform and cell of one trajectory:
//
//	d := dynamics.New(cfg)
//	if err := d.Bind(beads, ens, nm, cell, forces, prng); err != nil {
//	    return err
//	}
//	for i := 0; i < steps; i++ {
//	    if err := d.Step(); err != nil {
//	        return err
//	    }
//	}
//
// The [Mode] selects the sampled ensemble. All modes share one
// recursive multiple-time-stepping propagator: forces are split into
// levels and level k is applied every product-of-NMTS[0..k] inner
// sub-steps, with thermostat and barostat pieces interleaved per the
// OBABO or BAOAB [Splitting].
//
// Energy added or removed by non-Hamiltonian pieces (constraints,
// thermostats, barostats, field driving) is accumulated in ledgers so
// that a modified conserved quantity can be monitored throughout.
//
// Dynamics instances are not safe for concurrent use.
package dynamics
