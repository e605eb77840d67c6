package pitch

import (
	"fmt"
	"math"
	"sort"

	"github.com/RyanBlaney/sonido-pitch/algorithms/common"
)

const (
	// knownNoteFrequency anchors equal temperament at A4 = 440 Hz
	knownNoteFrequency = 440.0

	// Octave range of the lookup table. C1 (32.7 Hz) covers very low
	// bass, C7 (2093 Hz) high soprano.
	minOctave = 1
	maxOctave = 7

	// maxLookupFrequency bounds FindClosest; nothing musical lives above
	maxLookupFrequency = 20000.0
)

// naturalNotes maps note letters to MIDI semitone positions within an
// octave (C=0 .. B=11). Sharps and flats are intentionally excluded to
// focus on standard musical notes.
var naturalNotes = []struct {
	name     string
	semitone int
}{
	{"C", 0},
	{"D", 2},
	{"E", 4},
	{"F", 5},
	{"G", 7},
	{"A", 9},
	{"B", 11},
}

// NoteTableEntry pairs a note name like "A4" with its reference frequency
type NoteTableEntry struct {
	Name      string
	Frequency float64
}

// NoteTable is a precomputed frequency-to-note lookup. It is built once,
// sorted ascending by frequency, and read-only afterwards, so concurrent
// analyses may share a single instance without synchronization.
type NoteTable struct {
	entries []NoteTableEntry
}

// NewNoteTable builds the table of natural notes across octaves 1-7 using
// the equal-tempered relation f = 440 * 2^(semitonesFromA4 / 12).
func NewNoteTable() *NoteTable {
	var entries []NoteTableEntry

	for octave := minOctave; octave <= maxOctave; octave++ {
		for _, n := range naturalNotes {
			noteNum := octave*12 + n.semitone + 12 // C0 is MIDI 12
			semitonesFromA4 := noteNum - 69        // A4 is MIDI 69
			frequency := knownNoteFrequency * math.Exp2(float64(semitonesFromA4)/12.0)

			entries = append(entries, NoteTableEntry{
				Name:      fmt.Sprintf("%s%d", n.name, octave),
				Frequency: frequency,
			})
		}
	}

	// Sorted ascending by frequency for binary search
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Frequency < entries[j].Frequency
	})

	return &NoteTable{entries: entries}
}

// Len returns the number of entries in the table
func (t *NoteTable) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the table entries in ascending frequency order
func (t *NoteTable) Entries() []NoteTableEntry {
	entries := make([]NoteTableEntry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

// FindClosest returns the note nearest to freq together with a confidence
// derived from the musical distance in cents: an exact match scores 1.0
// and confidence reaches 0 at or beyond 100 cents (one semitone). The
// cents conversion matters because a fixed Hz error means far more at low
// pitches than at high ones. Frequencies outside (0, 20000] are rejected.
func (t *NoteTable) FindClosest(freq float64) (string, float64, bool) {
	if freq <= 0 || freq > maxLookupFrequency || len(t.entries) == 0 {
		return "", 0, false
	}

	idx := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Frequency >= freq
	})

	// Compare the two neighboring entries and keep the closer one in Hz
	if idx == len(t.entries) {
		idx--
	} else if idx > 0 &&
		math.Abs(freq-t.entries[idx-1].Frequency) < math.Abs(freq-t.entries[idx].Frequency) {
		idx--
	}

	entry := t.entries[idx]
	cents := 1200.0 * math.Abs(math.Log2(freq/entry.Frequency))
	confidence := common.Clamp(1.0-cents/100.0, 0.0, 1.0)

	return entry.Name, confidence, true
}
