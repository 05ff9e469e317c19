package system

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/beadmd/internal/depend"
)

// NormalModes performs the transform between the bead representation
// and the ring-polymer normal modes, and propagates the harmonic
// inter-bead spring term analytically. The position step size Dt and
// the simulation temperature Temp are piped in by the integrator that
// owns them.
type NormalModes struct {
	Dt   *depend.Scalar
	Temp *depend.Scalar

	b      *Beads
	forces Forces
	omegak *depend.Array
}

func NewNormalModes() *NormalModes {
	return &NormalModes{
		Dt:   depend.NewScalar("nm.dt"),
		Temp: depend.NewScalar("nm.temp"),
	}
}

// Bind attaches the bead system and the force provider.
func (nm *NormalModes) Bind(b *Beads, forces Forces) {
	nm.b = b
	nm.forces = forces
	nm.omegak = depend.NewArrayFunc("omegak", nm.getOmegak, nm.Temp)
}

// getOmegak returns the ring-polymer mode frequencies
// omega_k = 2 omega_n sin(k pi / n) with omega_n = kB T_sim / hbar.
func (nm *NormalModes) getOmegak() []float64 {
	n := nm.b.NBeads
	w := make([]float64, n)
	if n == 1 {
		return w
	}
	omegan := nm.Temp.Get() * KBoltzmann / HBar
	for k := 1; k < n; k++ {
		w[k] = 2 * omegan * math.Sin(float64(k)*math.Pi/float64(n))
	}
	return w
}

// ToNM transforms a per-bead array into the real normal-mode
// representation. The transform is orthogonal: mode 0 is sqrt(n) times
// the bead average, modes k and n-k hold the cosine and sine
// combinations.
func (nm *NormalModes) ToNM(x [][]float64) [][]float64 {
	n := nm.b.NBeads
	d := 3 * nm.b.NAtoms
	out := make([][]float64, n)
	for k := range out {
		out[k] = make([]float64, d)
	}
	if n == 1 {
		copy(out[0], x[0])
		return out
	}

	inv := 1.0 / math.Sqrt(float64(n))
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			col[i] = x[i][j]
		}
		c := fft.FFTReal(col)
		out[0][j] = real(c[0]) * inv
		for k := 1; k < (n+1)/2; k++ {
			out[k][j] = math.Sqrt2 * real(c[k]) * inv
			out[n-k][j] = -math.Sqrt2 * imag(c[k]) * inv
		}
		if n%2 == 0 {
			out[n/2][j] = real(c[n/2]) * inv
		}
	}
	return out
}

// FromNM inverts ToNM, writing the bead representation into dst.
func (nm *NormalModes) FromNM(v [][]float64, dst [][]float64) {
	n := nm.b.NBeads
	d := 3 * nm.b.NAtoms
	if n == 1 {
		copy(dst[0], v[0])
		return
	}

	scale := math.Sqrt(float64(n))
	spec := make([]complex128, n)
	for j := 0; j < d; j++ {
		spec[0] = complex(v[0][j]*scale, 0)
		for k := 1; k < (n+1)/2; k++ {
			re := v[k][j] * scale / math.Sqrt2
			im := -v[n-k][j] * scale / math.Sqrt2
			spec[k] = complex(re, im)
			spec[n-k] = cmplx.Conj(spec[k])
		}
		if n%2 == 0 {
			spec[n/2] = complex(v[n/2][j]*scale, 0)
		}
		col := fft.IFFT(spec)
		for i := 0; i < n; i++ {
			dst[i][j] = real(col[i])
		}
	}
}

// Pnm returns the momenta in the normal-mode representation.
func (nm *NormalModes) Pnm() [][]float64 { return nm.ToNM(nm.b.P) }

// Qnm returns the positions in the normal-mode representation.
func (nm *NormalModes) Qnm() [][]float64 { return nm.ToNM(nm.b.Q) }

// Fnm returns the total force in the normal-mode representation.
func (nm *NormalModes) Fnm() [][]float64 {
	d := 3 * nm.b.NAtoms
	total := make([][]float64, nm.b.NBeads)
	for i := range total {
		total[i] = make([]float64, d)
	}
	for level := 0; level < nm.forces.NMTSLevels(); level++ {
		f := nm.forces.ForcesMTS(level)
		for i := range total {
			for j := range total[i] {
				total[i][j] += f[i][j]
			}
		}
	}
	return nm.ToNM(total)
}

// Dynm3 returns the normal-mode masses; in the Cartesian normal-mode
// representation these equal the physical masses for every mode.
func (nm *NormalModes) Dynm3() []float64 { return nm.b.M3 }

// CentroidKineticEnergy returns the kinetic energy stored in the
// centroid mode.
func (nm *NormalModes) CentroidKineticEnergy() float64 {
	n := float64(nm.b.NBeads)
	d := 3 * nm.b.NAtoms
	ke := 0.0
	for j := 0; j < d; j++ {
		mean := 0.0
		for i := range nm.b.P {
			mean += nm.b.P[i][j]
		}
		mean /= n
		// pnm[0] = sqrt(n) * mean, so pnm0^2/(2m) = n mean^2 / (2m)
		ke += 0.5 * n * mean * mean / nm.b.M3[j]
	}
	return ke
}

// ZeroCentroidMomentum removes the centroid mode from the momenta,
// leaving the internal ring-polymer modes untouched.
func (nm *NormalModes) ZeroCentroidMomentum() {
	n := float64(nm.b.NBeads)
	d := 3 * nm.b.NAtoms
	for j := 0; j < d; j++ {
		mean := 0.0
		for i := range nm.b.P {
			mean += nm.b.P[i][j]
		}
		mean /= n
		for i := range nm.b.P {
			nm.b.P[i][j] -= mean
		}
	}
}

// FreeQStep advances the internal (non-centroid) modes by the exact
// harmonic propagator over the piped position step size. With a single
// bead there is no spring term and the call is a no-op.
func (nm *NormalModes) FreeQStep() {
	n := nm.b.NBeads
	if n == 1 {
		return
	}
	dt := nm.Dt.Get()
	wk := nm.omegak.Get()

	qnm := nm.ToNM(nm.b.Q)
	pnm := nm.ToNM(nm.b.P)
	for k := 1; k < n; k++ {
		w := wk[k]
		if w == 0 {
			for j, m := range nm.b.M3 {
				qnm[k][j] += pnm[k][j] / m * dt
			}
			continue
		}
		c, s := math.Cos(w*dt), math.Sin(w*dt)
		for j, m := range nm.b.M3 {
			p, q := pnm[k][j], qnm[k][j]
			pnm[k][j] = p*c - m*w*q*s
			qnm[k][j] = q*c + p*s/(m*w)
		}
	}
	nm.FromNM(qnm, nm.b.Q)
	nm.FromNM(pnm, nm.b.P)
}

// SpringEnergy returns the harmonic inter-bead potential.
func (nm *NormalModes) SpringEnergy() float64 {
	n := nm.b.NBeads
	if n == 1 {
		return 0
	}
	wk := nm.omegak.Get()
	qnm := nm.ToNM(nm.b.Q)
	e := 0.0
	for k := 1; k < n; k++ {
		w2 := wk[k] * wk[k]
		for j, m := range nm.b.M3 {
			e += 0.5 * m * w2 * qnm[k][j] * qnm[k][j]
		}
	}
	return e
}
