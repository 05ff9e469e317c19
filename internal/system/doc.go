// Package system defines the shared data model of a path-integral
// simulation and the contracts of its collaborators:
//
//   - [Beads]: the replicated particle system (positions, momenta, masses)
//   - [NormalModes]: the bead/normal-mode transform and the analytic
//     free ring-polymer propagator
//   - [Cell]: the simulation box
//   - [Ensemble]: target temperature/pressure/stress, bias forces and
//     the conserved-quantity ledger
//   - [Forces], [Thermostat], [Barostat]: opaque collaborator interfaces
//     with no-op defaults
//
// All quantities are in Hartree atomic units.
package system
