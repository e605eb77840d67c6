package windowing

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
)

// parallelThreshold is the buffer length above which Apply fans the
// multiply loop out across goroutines. Below it the goroutine overhead
// outweighs the work.
const parallelThreshold = 2048

// Hann represents a Hann window function used to suppress spectral leakage
// before transforming a finite, non-periodic buffer.
type Hann struct {
	size         int
	coefficients []float64
}

// NewHann creates a new Hann window of the given size
func NewHann(size int) *Hann {
	h := &Hann{size: size}
	h.generate()
	return h
}

// generate creates Hann window coefficients: 0.5 * (1 - cos(2*pi*i/(n-1))).
// The divisor is clamped so a 1-sample window does not divide by zero.
func (h *Hann) generate() {
	h.coefficients = make([]float64, h.size)

	denominator := math.Max(float64(h.size-1), 1.0)
	for i := range h.coefficients {
		h.coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
	}
}

// Apply applies the window to a signal (creates new array).
// Large signals are windowed in parallel; elements are independent.
func (h *Hann) Apply(signal []float64) []float64 {
	if len(signal) != h.size {
		return nil
	}

	windowed := make([]float64, h.size)
	common.ParallelFor(h.size, parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			windowed[i] = signal[i] * h.coefficients[i]
		}
	})

	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (h *Hann) ApplyInPlace(signal []float64) error {
	if len(signal) != h.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), h.size)
	}

	for i := 0; i < h.size; i++ {
		signal[i] *= h.coefficients[i]
	}

	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (h *Hann) GetCoefficients() []float64 {
	coeffs := make([]float64, len(h.coefficients))
	copy(coeffs, h.coefficients)
	return coeffs
}

// GetSize returns the window size
func (h *Hann) GetSize() int {
	return h.size
}
