package pitch

import (
	"github.com/RyanBlaney/sonido-pitch/algorithms/harmonic"
	"github.com/RyanBlaney/sonido-pitch/algorithms/spectral"
	"github.com/RyanBlaney/sonido-pitch/algorithms/windowing"
	"github.com/RyanBlaney/sonido-pitch/logging"
	"github.com/RyanBlaney/sonido-pitch/transcode"
)

const (
	// analysisMinConfidence gates raw detections before ranking. It is
	// stricter than rankMinConfidence on purpose: both thresholds apply,
	// each at its own stage.
	analysisMinConfidence = 0.30

	// multiPeakMinSamples is the smallest buffer worth running the
	// multi-peak path on (10 ms at 48 kHz). Shorter buffers fall back to
	// single-peak detection.
	multiPeakMinSamples = 480

	// maxPeaksPerChunk bounds the suppression iterations per analysis
	maxPeaksPerChunk = 5

	// fallbackIntensity is reported by the single-peak path, which has
	// no meaningful relative power to attach.
	fallbackIntensity = 0.5
)

// Analyzer runs the note-detection pipeline on raw audio buffers. It is
// stateless per call; the note table and the FFT plan cache are the only
// shared resources and both are safe for concurrent use, so a single
// Analyzer may serve concurrent requests.
type Analyzer struct {
	table     *NoteTable
	power     *spectral.PowerSpectrum
	extractor *harmonic.SuppressionExtractor
	logger    logging.Logger
}

// NewAnalyzer creates an analyzer around an existing note table and plan
// cache. Either may be nil, in which case a private instance is built;
// callers serving many analyzers should share both.
func NewAnalyzer(table *NoteTable, plans *spectral.PlanCache) *Analyzer {
	if table == nil {
		table = NewNoteTable()
	}
	return &Analyzer{
		table:     table,
		power:     spectral.NewPowerSpectrum(plans),
		extractor: harmonic.NewSuppressionExtractor(maxPeaksPerChunk),
		logger:    logging.GetGlobalLogger().WithFields(logging.Fields{"component": "analyzer"}),
	}
}

// AnalyzeRawBytes interprets data as little-endian 16-bit PCM and returns
// the detected notes, keeping only those above the analysis confidence
// gate. Empty or sub-2-byte input yields an empty result, not an error.
func (a *Analyzer) AnalyzeRawBytes(data []byte, sampleRate uint32, profile VoiceProfile) []DetectedNote {
	if len(data) < 2 {
		return nil
	}

	samples := transcode.BytesToSamples(data)

	var notes []DetectedNote
	if len(samples) >= multiPeakMinSamples {
		notes = a.AnalyzeChunkMulti(samples, sampleRate, profile)
	} else if note, confidence, ok := a.AnalyzeChunk(samples, sampleRate); ok {
		notes = []DetectedNote{{Note: note, Confidence: confidence, Intensity: fallbackIntensity}}
	}

	kept := notes[:0]
	for _, n := range notes {
		if n.Confidence > analysisMinConfidence {
			kept = append(kept, n)
		}
	}

	a.logger.Debug("analyzed raw bytes", logging.Fields{
		"bytes":       len(data),
		"samples":     len(samples),
		"sample_rate": sampleRate,
		"profile":     profile.String(),
		"notes":       len(kept),
	})

	return kept
}

// AnalyzeChunkMulti runs the full pipeline on normalized samples: Hann
// window, power spectrum, harmonic-suppression peak extraction, profile
// filtering and note lookup. Peaks outside the lookup range are silently
// dropped.
func (a *Analyzer) AnalyzeChunkMulti(samples []float64, sampleRate uint32, profile VoiceProfile) []DetectedNote {
	if len(samples) == 0 {
		return nil
	}

	windowed := windowing.NewHann(len(samples)).Apply(samples)
	psd := a.power.Compute(windowed)
	peaks := a.extractor.ExtractFundamentals(psd, sampleRate, len(samples))

	var notes []DetectedNote
	for _, peak := range peaks {
		if !profile.InRange(peak.Frequency) {
			a.logger.Debug("frequency outside profile", logging.Fields{
				"frequency": peak.Frequency,
				"profile":   profile.String(),
			})
			continue
		}

		if note, confidence, ok := a.table.FindClosest(peak.Frequency); ok {
			notes = append(notes, DetectedNote{
				Note:       note,
				Confidence: confidence,
				Intensity:  peak.Power,
			})
		}
	}

	return notes
}

// AnalyzeChunk is the single-peak fallback for short buffers. It returns
// the note nearest to the strongest spectral peak; confidence comes from
// the frequency match alone since power-based confidence is unreliable at
// the coarse bin resolution of small windows.
func (a *Analyzer) AnalyzeChunk(samples []float64, sampleRate uint32) (string, float64, bool) {
	if len(samples) == 0 {
		return "", 0, false
	}

	windowed := windowing.NewHann(len(samples)).Apply(samples)
	psd := a.power.Compute(windowed)

	peak, ok := harmonic.PrimaryPeak(psd, sampleRate, len(samples))
	if !ok {
		return "", 0, false
	}

	return a.table.FindClosest(peak.Frequency)
}
