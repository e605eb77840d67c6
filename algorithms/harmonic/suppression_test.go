package harmonic

import (
	"math"
	"testing"
)

// syntheticPSD builds a spectrum where bin index equals frequency in Hz
// (sampleRate == signalLen), with spikes at the given (bin, power) pairs.
func syntheticPSD(n int, spikes map[int]float64) []float64 {
	psd := make([]float64, n)
	for bin, power := range spikes {
		psd[bin] = power
	}
	return psd
}

func TestExtractSuppressesHarmonics(t *testing.T) {
	ex := NewSuppressionExtractor(5)

	// Fundamental at 100 with overtones at 200/300/400; a naive loudest-bin
	// search would report all four.
	psd := syntheticPSD(1024, map[int]float64{
		100: 1.0,
		200: 0.8,
		300: 0.6,
		400: 0.4,
	})
	peaks := ex.ExtractFundamentals(psd, 1024, 1024)

	if len(peaks) != 1 {
		t.Fatalf("expected a single fundamental, got %v", peaks)
	}
	if math.Abs(peaks[0].Frequency-100.0) > 1e-9 {
		t.Fatalf("expected 100 Hz, got %.2f", peaks[0].Frequency)
	}
	if peaks[0].Power != 1.0 {
		t.Fatalf("expected power 1.0, got %.2f", peaks[0].Power)
	}
}

func TestExtractDistinctFundamentals(t *testing.T) {
	ex := NewSuppressionExtractor(5)

	// 137 is not a low-order harmonic of 100, so both must survive,
	// ordered by descending power.
	psd := syntheticPSD(1024, map[int]float64{
		100: 0.9,
		137: 0.7,
	})
	peaks := ex.ExtractFundamentals(psd, 1024, 1024)

	if len(peaks) != 2 {
		t.Fatalf("expected two fundamentals, got %v", peaks)
	}
	if peaks[0].Frequency != 100.0 || peaks[1].Frequency != 137.0 {
		t.Fatalf("unexpected order: %v", peaks)
	}
	if peaks[0].Power < peaks[1].Power {
		t.Fatalf("peaks not sorted by power: %v", peaks)
	}
}

func TestExtractBelowThreshold(t *testing.T) {
	ex := NewSuppressionExtractor(5)

	// Everything under the absolute noise floor of 0.05
	psd := make([]float64, 512)
	for i := range psd {
		psd[i] = 0.01
	}
	if peaks := ex.ExtractFundamentals(psd, 512, 512); len(peaks) != 0 {
		t.Fatalf("expected no peaks below the noise floor, got %v", peaks)
	}
}

func TestExtractRelativeThreshold(t *testing.T) {
	ex := NewSuppressionExtractor(5)

	// The second spike is under 10% of the maximum and must be dropped
	// even though it clears the absolute floor.
	psd := syntheticPSD(1024, map[int]float64{
		100: 1.0,
		137: 0.08,
	})
	peaks := ex.ExtractFundamentals(psd, 1024, 1024)
	if len(peaks) != 1 {
		t.Fatalf("expected only the dominant peak, got %v", peaks)
	}
}

func TestExtractIgnoresDCAndMirror(t *testing.T) {
	ex := NewSuppressionExtractor(5)

	// Energy at DC and in the mirrored half must never be reported
	psd := syntheticPSD(1024, map[int]float64{
		0:   5.0,
		900: 5.0,
		100: 0.5,
	})
	peaks := ex.ExtractFundamentals(psd, 1024, 1024)
	if len(peaks) != 1 || peaks[0].Frequency != 100.0 {
		t.Fatalf("expected only the 100 Hz peak, got %v", peaks)
	}
}

func TestExtractClampsPower(t *testing.T) {
	ex := NewSuppressionExtractor(5)

	psd := syntheticPSD(1024, map[int]float64{100: 7.5})
	peaks := ex.ExtractFundamentals(psd, 1024, 1024)
	if len(peaks) != 1 || peaks[0].Power != 1.0 {
		t.Fatalf("expected power clamped to 1.0, got %v", peaks)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	ex := NewSuppressionExtractor(5)
	if peaks := ex.ExtractFundamentals(nil, 48000, 0); peaks != nil {
		t.Fatalf("expected nil for empty input, got %v", peaks)
	}
}

func TestPrimaryPeak(t *testing.T) {
	psd := syntheticPSD(512, map[int]float64{50: 0.5})
	peak, ok := PrimaryPeak(psd, 512, 512)
	if !ok {
		t.Fatalf("expected a primary peak")
	}
	if peak.Frequency != 50.0 || peak.Power != 0.5 {
		t.Fatalf("unexpected peak: %v", peak)
	}
}

func TestPrimaryPeakNoiseFloor(t *testing.T) {
	psd := syntheticPSD(512, map[int]float64{50: 0.05})
	if _, ok := PrimaryPeak(psd, 512, 512); ok {
		t.Fatalf("expected no peak below the primary noise floor")
	}

	if _, ok := PrimaryPeak(make([]float64, 512), 512, 512); ok {
		t.Fatalf("expected no peak in a silent spectrum")
	}
}
