// Package eda implements the electric-dipole-approximation driving
// extension: a time-dependent external field coupled to the system
// through fixed Born effective charges. It is layered onto a base
// integrator and adds a force term F = e Z E(t) to every momentum kick.
package eda

import (
	"math"

	"github.com/san-kum/beadmd/internal/depend"
	"github.com/san-kum/beadmd/internal/system"
)

// Modes lists the ensemble modes that allocate the driving extension.
var Modes = []string{"eda-nve"}

// IsDriven reports whether an ensemble mode uses the field driving.
func IsDriven(mode string) bool {
	for _, m := range Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// ElectricField is a monochromatic plane wave with an optional Gaussian
// envelope: E(t) = A cos(w t + phi) exp(-(t-peak)^2 / 2 sigma^2).
// A non-positive Sigma disables the envelope.
type ElectricField struct {
	Amplitude [3]float64
	Freq      float64
	Phase     float64
	Peak      float64
	Sigma     float64
}

// At returns the instantaneous field vector.
func (f *ElectricField) At(t float64) [3]float64 {
	env := 1.0
	if f.Sigma > 0 {
		x := (t - f.Peak) / f.Sigma
		env = math.Exp(-0.5 * x * x)
	}
	c := math.Cos(f.Freq*t+f.Phase) * env
	return [3]float64{f.Amplitude[0] * c, f.Amplitude[1] * c, f.Amplitude[2] * c}
}

// BornCharges is the fixed Born effective charge tensor, one 3x3 block
// per atom stored as a (3*natoms) x 3 matrix shared across beads.
type BornCharges struct {
	Z [][]float64
}

// NewBornCharges builds a diagonal charge tensor with charge q per atom.
func NewBornCharges(natoms int, q float64) *BornCharges {
	z := make([][]float64, 3*natoms)
	for i := range z {
		z[i] = make([]float64, 3)
		z[i][i%3] = q
	}
	return &BornCharges{Z: z}
}

// EDA holds the driving state: two clocks that must track each other at
// the granularity of one outer step, and the derived driving force,
// recomputed only when the clock (or the field or charges) changes.
type EDA struct {
	Field *ElectricField
	Bec   *BornCharges

	// Time mirrors the outer simulation clock; MTSTime is advanced by
	// the integrator on the first momentum kick of each outer step so
	// later kicks in the same step reuse the cached force.
	Time    *depend.Scalar
	MTSTime *depend.Scalar

	// Forces is the flat per-component driving force e * Z * E(t).
	Forces *depend.Array

	nbeads int
}

func New(field *ElectricField, bec *BornCharges) *EDA {
	e := &EDA{
		Field:   field,
		Bec:     bec,
		Time:    depend.NewScalarValue("eda.time", 0),
		MTSTime: depend.NewScalarValue("eda.mts_time", 0),
	}
	e.Forces = depend.NewArrayFunc("eda.forces", e.computeForces, e.MTSTime)
	return e
}

// Bind sizes the force array against the bead system.
func (e *EDA) Bind(b *system.Beads) {
	e.nbeads = b.NBeads
}

func (e *EDA) computeForces() []float64 {
	t := e.MTSTime.Get()
	ef := e.Field.At(t)
	f := make([]float64, len(e.Bec.Z))
	for i, row := range e.Bec.Z {
		f[i] = system.ECharge * (row[0]*ef[0] + row[1]*ef[1] + row[2]*ef[2])
	}
	return f
}
