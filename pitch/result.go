package pitch

import "time"

// DetectedNote is the externally visible unit of result: a note name with
// how precisely the detected frequency matched it (confidence) and the
// relative spectral power of the peak that produced it (intensity).
type DetectedNote struct {
	Note       string  `json:"note"`
	Confidence float64 `json:"confidence"`
	Intensity  float64 `json:"intensity"`
}

// AnalysisResult is one complete analysis response. It is constructed
// fresh per call and never mutated afterwards.
type AnalysisResult struct {
	Notes           []DetectedNote `json:"notes"`
	SampleRate      uint32         `json:"sample_rate"`
	SamplesAnalyzed int            `json:"samples_analyzed"`
	Timestamp       float64        `json:"timestamp"`
}

// NewAnalysisResult assembles a result with a capture timestamp in Unix
// seconds. Notes is never nil so the JSON encodes as an empty array.
func NewAnalysisResult(notes []DetectedNote, sampleRate uint32, samplesAnalyzed int) AnalysisResult {
	if notes == nil {
		notes = []DetectedNote{}
	}
	return AnalysisResult{
		Notes:           notes,
		SampleRate:      sampleRate,
		SamplesAnalyzed: samplesAnalyzed,
		Timestamp:       float64(time.Now().UnixNano()) / 1e9,
	}
}
