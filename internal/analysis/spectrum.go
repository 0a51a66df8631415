package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/spintop/internal/sim"
)

// Spectrum is a one-sided power spectrum.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum returns the magnitude of the first half of the DFT of data
// after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	coeffs := fft.FFTReal(centered)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// WobbleSpectrum is the power spectrum of the tilt signal of samples taken
// every dt seconds.
func WobbleSpectrum(samples []sim.Sample, dt float64) Spectrum {
	tilt := make([]float64, len(samples))
	for i, s := range samples {
		tilt[i] = s.Tilt
	}
	power := PowerSpectrum(tilt)
	freqs := make([]float64, len(power))
	if n := len(samples); n > 0 && dt > 0 {
		for i := range freqs {
			freqs[i] = float64(i) / (float64(n) * dt)
		}
	}
	return Spectrum{Freqs: freqs, Power: power}
}

// DominantFrequency returns the strongest non-DC bin. It returns zeros for a
// spectrum with fewer than two bins.
func DominantFrequency(s Spectrum) (freq, power float64) {
	best := -1
	for i := 1; i < len(s.Power); i++ {
		if best < 0 || s.Power[i] > s.Power[best] {
			best = i
		}
	}
	if best < 0 || math.IsNaN(s.Power[best]) {
		return 0, 0
	}
	return s.Freqs[best], s.Power[best]
}
