package pitch

import (
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
)

// Ranking is product policy layered on top of the physics-driven
// extraction: it decides which detected notes matter most for a response
// without touching the signal-processing code.

const (
	// rankMinConfidence drops barely-matched notes before scoring. This
	// gate is deliberately looser than analysisMinConfidence, which has
	// already run at the detection stage.
	rankMinConfidence = 0.10

	// maxRankedNotes caps the notes returned to the caller
	maxRankedNotes = 3

	// Score weights. The low-frequency bonus dominates because bass
	// fundamentals carry naturally weaker spectral power and would be
	// starved out by confidence and intensity alone.
	lowFreqWeight    = 0.7
	confidenceWeight = 0.2
	intensityWeight  = 0.1

	// defaultNoteFrequency is used for note names outside the static map
	defaultNoteFrequency = 440.0
)

// approxNoteFrequencies maps note names in the low octaves to approximate
// reference frequencies for scoring. Only octaves 1-3 need to be explicit;
// anything higher scores a negligible low-frequency bonus anyway.
var approxNoteFrequencies = map[string]float64{
	"C1": 32.7, "C2": 65.4, "C3": 130.8,
	"D1": 36.7, "D2": 73.4, "D3": 146.8,
	"E1": 41.2, "E2": 82.4, "E3": 164.8,
	"F1": 43.7, "F2": 87.3, "F3": 174.6,
	"G1": 49.0, "G2": 98.0, "G3": 196.0,
	"A1": 55.0, "A2": 110.0, "A3": 220.0,
	"B1": 61.7, "B2": 123.5, "B3": 247.0,
}

// noteToFrequency converts a note name to an approximate frequency for
// scoring purposes only; detection uses the full NoteTable.
func noteToFrequency(name string) float64 {
	if freq, ok := approxNoteFrequencies[name]; ok {
		return freq
	}
	return defaultNoteFrequency
}

// LowFrequencyBonus rewards lower frequencies on an inverse log scale:
// 50 Hz scores 1.0 and the bonus decays toward 0 by 800 Hz. It
// counteracts the naturally lower spectral energy of bass fundamentals.
func LowFrequencyBonus(freq float64) float64 {
	bonus := 1.0 / (1.0 + math.Log2(freq/50.0))
	return common.Clamp(bonus, 0.0, 1.0)
}

// noteScore combines the low-frequency bonus, match confidence and
// spectral intensity into the single value used for ranking.
func noteScore(n DetectedNote) float64 {
	freq := noteToFrequency(n.Note)
	return LowFrequencyBonus(freq)*lowFreqWeight +
		common.Clamp(n.Confidence, 0.0, 1.0)*confidenceWeight +
		n.Intensity*intensityWeight
}

// RankNotes filters out low-confidence notes, orders the rest by
// descending score and returns at most the top 3.
func RankNotes(notes []DetectedNote) []DetectedNote {
	type scored struct {
		note  DetectedNote
		score float64
	}

	ranked := make([]scored, 0, len(notes))
	for _, n := range notes {
		if n.Confidence < rankMinConfidence {
			continue
		}
		ranked = append(ranked, scored{note: n, score: noteScore(n)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > maxRankedNotes {
		ranked = ranked[:maxRankedNotes]
	}

	result := make([]DetectedNote, len(ranked))
	for i, s := range ranked {
		result[i] = s.note
	}
	return result
}
