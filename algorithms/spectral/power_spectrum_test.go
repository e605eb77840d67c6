package spectral

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"
	"testing"

	"github.com/mjibson/go-dsp/fft"
)

func sineAtBin(n, bin int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2 * math.Pi * float64(bin) * float64(i) / float64(n))
	}
	return signal
}

func TestComputeSinePeakBin(t *testing.T) {
	ps := NewPowerSpectrum(NewPlanCache())

	n, bin := 1024, 16
	psd := ps.Compute(sineAtBin(n, bin))

	if len(psd) != n {
		t.Fatalf("expected %d bins, got %d", n, len(psd))
	}

	maxIdx := 0
	for i := 1; i < n/2; i++ {
		if psd[i] > psd[maxIdx] {
			maxIdx = i
		}
	}
	if maxIdx != bin {
		t.Fatalf("expected peak at bin %d, got %d", bin, maxIdx)
	}
	// Unit sine at an exact bin: |X| = n/2, magnitude n/(2*sqrt(n))
	want := float64(n) / (2 * math.Sqrt(float64(n)))
	if math.Abs(psd[bin]-want) > 1e-6 {
		t.Fatalf("expected magnitude %.4f at peak, got %.4f", want, psd[bin])
	}
}

func TestComputeMatchesFFTReal(t *testing.T) {
	// Cross-check the gonum-based path against go-dsp's FFT
	ps := NewPowerSpectrum(NewPlanCache())

	n := 256
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(float64(i)*0.11) + 0.3*math.Cos(float64(i)*0.57)
	}

	got := ps.Compute(signal)
	ref := fft.FFTReal(signal)

	scale := math.Sqrt(float64(n))
	for i := range ref {
		want := cmplx.Abs(ref[i]) / scale
		if math.Abs(got[i]-want) > 1e-9 {
			t.Fatalf("bin %d: %.12f vs reference %.12f", i, got[i], want)
		}
	}
}

func TestComputeEmptyInput(t *testing.T) {
	ps := NewPowerSpectrum(NewPlanCache())
	if psd := ps.Compute(nil); len(psd) != 0 {
		t.Fatalf("expected empty spectrum, got %d bins", len(psd))
	}
}

func TestPlanCacheReuse(t *testing.T) {
	cache := NewPlanCache()
	ps := NewPowerSpectrum(cache)

	ps.Compute(sineAtBin(512, 8))
	ps.Compute(sineAtBin(512, 8))
	ps.Compute(sineAtBin(256, 8))

	sizes := cache.Sizes()
	if len(sizes) != 2 {
		t.Fatalf("expected plans for 2 distinct lengths, got %v", sizes)
	}
}

func TestPlanCacheConcurrent(t *testing.T) {
	// A single cache shared across goroutines computing the same length
	// must produce identical, uncorrupted spectra.
	cache := NewPlanCache()
	ps := NewPowerSpectrum(cache)

	n, bin := 512, 20
	signal := sineAtBin(n, bin)
	want := ps.Compute(signal)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := 0; it < 25; it++ {
				got := ps.Compute(signal)
				for i := range want {
					if math.Abs(got[i]-want[i]) > 1e-12 {
						errs <- fmt.Errorf("spectrum mismatch at bin %d", i)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		t.Fatalf("concurrent compute: %v", err)
	}
}
