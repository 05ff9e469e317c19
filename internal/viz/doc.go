// Package viz renders a running simulation in the terminal: a Braille
// canvas showing the bead positions projected onto the xy plane, and
// live charts of the conserved quantity and the kinetic temperature.
// The interactive monitor is a bubbletea program that owns the step
// loop and advances the trajectory between frames.
package viz
