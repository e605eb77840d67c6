package harmonic

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-pitch/logging"
)

const (
	// defaultMaxPeaks bounds the suppression iterations. Voice content
	// rarely carries more than five distinct fundamentals per chunk.
	defaultMaxPeaks = 5

	// thresholdRatio and noiseFloor together form the peak threshold:
	// max(maxPower * thresholdRatio, noiseFloor). The ratio is kept low
	// because true fundamentals often carry less energy than their own
	// harmonics.
	thresholdRatio = 0.10
	noiseFloor     = 0.05

	// bandWidthRatio sets the suppressed band around a peak to +-3% of
	// the peak frequency, converted to bins.
	bandWidthRatio = 0.03

	// maxHarmonic is the highest suppressed overtone (2x..4x). Higher
	// harmonics rarely interfere with fundamental detection.
	maxHarmonic = 4

	// primaryNoiseFloor is the minimum power accepted by PrimaryPeak
	primaryNoiseFloor = 0.1
)

// Peak is a detected spectral peak that is a plausible fundamental
type Peak struct {
	Frequency float64 // Hz
	Power     float64 // normalized to [0, 1]
}

// SuppressionExtractor isolates fundamental frequencies from a power
// spectrum by iterative harmonic suppression: find the strongest peak,
// assume it is a fundamental, zero out its band and its low-order
// harmonics, then search again. Naive loudest-bin picking would keep
// rediscovering overtones of the same note instead of distinct notes.
type SuppressionExtractor struct {
	maxPeaks int
	logger   logging.Logger
}

// NewSuppressionExtractor creates an extractor that returns at most
// maxPeaks fundamentals per call. maxPeaks <= 0 selects the default of 5.
func NewSuppressionExtractor(maxPeaks int) *SuppressionExtractor {
	if maxPeaks <= 0 {
		maxPeaks = defaultMaxPeaks
	}
	return &SuppressionExtractor{
		maxPeaks: maxPeaks,
		logger:   logging.GetGlobalLogger().WithFields(logging.Fields{"component": "harmonic"}),
	}
}

// ExtractFundamentals finds the strongest plausible fundamentals in psd,
// ordered by descending power. Only bins [1, n/2) are considered; DC and
// the mirrored half are excluded. signalLen is the pre-transform sample
// count used to convert bin indices to Hz.
func (se *SuppressionExtractor) ExtractFundamentals(psd []float64, sampleRate uint32, signalLen int) []Peak {
	if len(psd) < 2 || signalLen == 0 {
		return nil
	}

	half := len(psd) / 2

	// Global maximum over the positive-frequency bins sets the threshold
	maxPower := 0.0
	for _, p := range psd[1:half] {
		maxPower = math.Max(maxPower, p)
	}
	threshold := math.Max(maxPower*thresholdRatio, noiseFloor)

	freqResolution := float64(sampleRate) / float64(signalLen)

	// The loop mutates a local copy of the spectrum, progressively
	// zeroing out what it has already accounted for.
	spectrum := make([]float64, len(psd))
	copy(spectrum, psd)

	var peaks []Peak
	for p := 0; p < se.maxPeaks; p++ {
		maxIdx := 0
		power := 0.0
		for i := 1; i < half; i++ {
			if spectrum[i] > power {
				power = spectrum[i]
				maxIdx = i
			}
		}

		if maxIdx == 0 || power < threshold {
			break
		}

		frequency := float64(maxIdx) * float64(sampleRate) / float64(signalLen)
		peaks = append(peaks, Peak{Frequency: frequency, Power: math.Min(power, 1.0)})

		widthBins := int(math.Ceil(frequency * bandWidthRatio / freqResolution))

		// Suppress the fundamental band itself to avoid re-detection
		zeroBand(spectrum, maxIdx, widthBins, half)

		// Suppress the low-order harmonics so overtones are not
		// mistaken for separate fundamentals
		for n := 2; n <= maxHarmonic; n++ {
			harmonicIdx := int(frequency * float64(n) / freqResolution)
			if harmonicIdx < half {
				zeroBand(spectrum, harmonicIdx, widthBins, half)
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		return peaks[i].Power > peaks[j].Power
	})

	se.logger.Debug("harmonic suppression", logging.Fields{
		"max_power":    maxPower,
		"threshold":    threshold,
		"fundamentals": len(peaks),
	})

	return peaks
}

// zeroBand zeroes spectrum[center-width .. center+width], clamped to
// [1, half] so DC stays untouched and the mirror half is never entered.
func zeroBand(spectrum []float64, center, width, half int) {
	start := max(center-width, 1)
	end := min(center+width, half)
	for i := start; i <= end && i < len(spectrum); i++ {
		spectrum[i] = 0.0
	}
}

// PrimaryPeak returns the single strongest positive-frequency bin, used as
// a fallback when the buffer is too short for multi-peak extraction.
// Returns false when the spectrum never clears the noise floor.
func PrimaryPeak(psd []float64, sampleRate uint32, signalLen int) (Peak, bool) {
	if len(psd) < 2 || signalLen == 0 {
		return Peak{}, false
	}

	half := len(psd) / 2
	maxIdx := 0
	power := 0.0
	for i := 1; i < half; i++ {
		if psd[i] > power {
			power = psd[i]
			maxIdx = i
		}
	}

	if maxIdx == 0 || power < primaryNoiseFloor {
		return Peak{}, false
	}

	frequency := float64(maxIdx) * float64(sampleRate) / float64(signalLen)
	return Peak{Frequency: frequency, Power: math.Min(power, 1.0)}, true
}
