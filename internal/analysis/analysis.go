// Package analysis post-processes trajectory observables: power
// spectra of sampled time series, autocorrelation functions, and
// block-averaged error bars for equilibrium estimates.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided power spectrum of a uniformly
// sampled series together with the frequency axis in cycles per unit
// of dt. The mean is removed and the series is zero-padded to the
// next power of two before transforming.
func PowerSpectrum(data []float64, dt float64) (freqs, power []float64) {
	if len(data) < 2 || dt <= 0 {
		return nil, nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	for i, v := range data {
		padded[i] = v - mean
	}

	spec := fft.FFTReal(padded)

	half := n / 2
	freqs = make([]float64, half)
	power = make([]float64, half)
	for i := 0; i < half; i++ {
		freqs[i] = float64(i) / (float64(n) * dt)
		power[i] = cmplx.Abs(spec[i])
	}
	return freqs, power
}

// DominantFrequency returns the frequency of the largest nonzero
// spectral component. The zero-frequency bin is skipped.
func DominantFrequency(data []float64, dt float64) float64 {
	freqs, power := PowerSpectrum(data, dt)
	if len(power) < 2 {
		return 0
	}
	best := 1
	for i := 2; i < len(power); i++ {
		if power[i] > power[best] {
			best = i
		}
	}
	return freqs[best]
}

// Autocorrelation returns the normalized autocorrelation function of
// the series up to maxLag. The zero-lag value is 1 for any series
// with nonzero variance.
func Autocorrelation(data []float64, maxLag int) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}
	if maxLag >= n {
		maxLag = n - 1
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range data {
		variance += (v - mean) * (v - mean)
	}
	if variance == 0 {
		return make([]float64, maxLag+1)
	}

	acf := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i < n-lag; i++ {
			sum += (data[i] - mean) * (data[i+lag] - mean)
		}
		acf[lag] = sum / variance
	}
	return acf
}

// CorrelationTime integrates the autocorrelation function up to its
// first zero crossing, in units of the sampling interval.
func CorrelationTime(data []float64) float64 {
	acf := Autocorrelation(data, len(data)/2)
	tau := 0.5
	for _, c := range acf[1:] {
		if c <= 0 {
			break
		}
		tau += c
	}
	return tau
}

// BlockAverage estimates the mean of a correlated series and its
// standard error by averaging over nblocks contiguous blocks.
func BlockAverage(data []float64, nblocks int) (mean, stderr float64) {
	if len(data) == 0 || nblocks < 1 {
		return 0, 0
	}
	if nblocks > len(data) {
		nblocks = len(data)
	}

	blockLen := len(data) / nblocks
	blockMeans := make([]float64, nblocks)
	for b := 0; b < nblocks; b++ {
		var sum float64
		for i := b * blockLen; i < (b+1)*blockLen; i++ {
			sum += data[i]
		}
		blockMeans[b] = sum / float64(blockLen)
	}

	for _, m := range blockMeans {
		mean += m
	}
	mean /= float64(nblocks)

	if nblocks < 2 {
		return mean, 0
	}
	var variance float64
	for _, m := range blockMeans {
		variance += (m - mean) * (m - mean)
	}
	variance /= float64(nblocks - 1)
	return mean, math.Sqrt(variance / float64(nblocks))
}
