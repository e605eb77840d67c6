package pitch

import (
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-pitch/transcode"
)

// sineBytes builds little-endian PCM16 bytes for a sum of sines. Each
// component is (frequency, amplitude).
func sineBytes(n int, sampleRate float64, components ...[2]float64) []byte {
	samples := make([]float64, n)
	for i := range samples {
		tm := float64(i) / sampleRate
		for _, c := range components {
			samples[i] += c[1] * math.Sin(2*math.Pi*c[0]*tm)
		}
	}
	return transcode.SamplesToBytes(samples)
}

func hasNote(notes []DetectedNote, name string) bool {
	for _, n := range notes {
		if n.Note == name {
			return true
		}
	}
	return false
}

func TestAnalyzePureSineA4(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	// 4800 samples at 48 kHz put 440 Hz exactly on a bin (10 Hz resolution)
	data := sineBytes(4800, 48000, [2]float64{440, 0.8})
	notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileNone)

	if len(notes) == 0 {
		t.Fatalf("expected at least one note")
	}
	if !hasNote(notes, "A4") {
		t.Fatalf("expected A4, got %v", notes)
	}
	for _, n := range notes {
		if n.Note == "A4" && n.Confidence <= 0.9 {
			t.Fatalf("expected A4 confidence > 0.9, got %.4f", n.Confidence)
		}
	}
}

func TestAnalyzeSuppressesHarmonics(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	// A3 fundamental plus its exact 2nd and 3rd harmonics (A4, E5). The
	// harmonics carry real energy but must not surface as notes.
	data := sineBytes(4800, 48000,
		[2]float64{220, 0.5},
		[2]float64{440, 0.35},
		[2]float64{660, 0.25},
	)
	notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileNone)

	if !hasNote(notes, "A3") {
		t.Fatalf("expected fundamental A3, got %v", notes)
	}
	if hasNote(notes, "A4") {
		t.Fatalf("2nd harmonic reported as a separate note: %v", notes)
	}
	if hasNote(notes, "E5") {
		t.Fatalf("3rd harmonic reported as a separate note: %v", notes)
	}
}

func TestAnalyzeSilentBuffer(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	for _, n := range []int{100, 480, 4800} {
		data := make([]byte, n*2)
		if notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileNone); len(notes) != 0 {
			t.Fatalf("expected no notes for %d silent samples, got %v", n, notes)
		}
	}
}

func TestAnalyzeTinyInput(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	if notes := analyzer.AnalyzeRawBytes(nil, 48000, ProfileNone); len(notes) != 0 {
		t.Fatalf("expected no notes for empty input, got %v", notes)
	}
	if notes := analyzer.AnalyzeRawBytes([]byte{0x01}, 48000, ProfileNone); len(notes) != 0 {
		t.Fatalf("expected no notes for 1-byte input, got %v", notes)
	}
}

func TestAnalyzeShortBufferFallback(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	// 441 samples is below the multi-peak minimum; 400 Hz sits on an
	// exact bin (100 Hz resolution) and maps to G4 within the gate.
	data := sineBytes(441, 44100, [2]float64{400, 0.8})
	notes := analyzer.AnalyzeRawBytes(data, 44100, ProfileNone)

	if len(notes) != 1 {
		t.Fatalf("expected exactly one fallback note, got %v", notes)
	}
	if notes[0].Note != "G4" {
		t.Fatalf("expected G4, got %v", notes[0])
	}
	if notes[0].Intensity != 0.5 {
		t.Fatalf("expected placeholder intensity 0.5, got %.2f", notes[0].Intensity)
	}
	if notes[0].Confidence <= analysisMinConfidence {
		t.Fatalf("expected confidence above the analysis gate, got %.4f", notes[0].Confidence)
	}
}

func TestAnalyzeConfidenceGate(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	// 415 Hz sits almost exactly between G4 and A4; whichever neighbor
	// wins, the match is near a full semitone off and must be gated out.
	data := sineBytes(4800, 48000, [2]float64{415, 0.8})
	if notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileNone); len(notes) != 0 {
		t.Fatalf("expected the off-pitch note to be gated, got %v", notes)
	}
}

func TestAnalyzeProfileFilter(t *testing.T) {
	analyzer := NewAnalyzer(nil, nil)

	data := sineBytes(4800, 48000, [2]float64{440, 0.8})

	// 440 Hz is far above the bass range plus margin
	if notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileBass); len(notes) != 0 {
		t.Fatalf("expected bass profile to reject 440 Hz, got %v", notes)
	}
	// The same buffer passes with a matching profile
	if notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileSoprano); !hasNote(notes, "A4") {
		t.Fatalf("expected soprano profile to keep A4, got %v", notes)
	}
}

func TestAnalyzerSharedStateConcurrency(t *testing.T) {
	// One table and plan cache shared across goroutines, as the server
	// uses them.
	table := NewNoteTable()
	analyzer := NewAnalyzer(table, nil)
	data := sineBytes(4800, 48000, [2]float64{440, 0.8})

	done := make(chan struct{})
	for g := 0; g < 8; g++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for it := 0; it < 16; it++ {
				notes := analyzer.AnalyzeRawBytes(data, 48000, ProfileNone)
				if !hasNote(notes, "A4") {
					t.Errorf("concurrent analysis lost A4: %v", notes)
					return
				}
			}
		}()
	}
	for g := 0; g < 8; g++ {
		<-done
	}
}
