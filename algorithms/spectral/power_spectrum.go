package spectral

import (
	"math"
)

// PowerSpectrum computes a power-spectral-density proxy from a real-valued
// signal. Magnitudes are sqrt((re^2 + im^2) / n) per bin; the values are
// only compared against each other, never scaled to physical units.
type PowerSpectrum struct {
	plans *PlanCache
}

// NewPowerSpectrum creates a power spectrum calculator backed by the given
// plan cache. The cache may be shared across concurrent analyses.
func NewPowerSpectrum(plans *PlanCache) *PowerSpectrum {
	if plans == nil {
		plans = NewPlanCache()
	}
	return &PowerSpectrum{plans: plans}
}

// Compute transforms the signal and returns one magnitude per input sample.
// The full (mirrored) spectrum is returned; callers pick the bins they need.
func (ps *PowerSpectrum) Compute(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return []float64{}
	}

	plan, release := ps.plans.Acquire(n)
	defer release()

	// Real samples in, zero imaginary part
	buffer := make([]complex128, n)
	for i, s := range signal {
		buffer[i] = complex(s, 0)
	}

	coeffs := plan.Coefficients(nil, buffer)

	nf := float64(n)
	psd := make([]float64, n)
	for i, c := range coeffs {
		re, im := real(c), imag(c)
		psd[i] = math.Sqrt((re*re + im*im) / nf)
	}

	return psd
}
