package pitch

import "testing"

func TestBassProfileRange(t *testing.T) {
	minFreq, maxFreq, ok := ProfileBass.FreqRange()
	if !ok {
		t.Fatalf("expected bass to carry a range")
	}
	if minFreq != 65.41 || maxFreq != 261.63 {
		t.Fatalf("unexpected bass range: %.2f-%.2f", minFreq, maxFreq)
	}

	// Inside the range
	if !ProfileBass.InRange(260.0) {
		t.Fatalf("expected 260 Hz inside bass range")
	}
	// Inside the 5%-of-range margin above the top (margin is ~9.81 Hz)
	if !ProfileBass.InRange(270.0) {
		t.Fatalf("expected 270 Hz inside bass margin")
	}
	// Clearly beyond the margin
	if ProfileBass.InRange(300.0) {
		t.Fatalf("expected 300 Hz outside bass range")
	}
	if ProfileBass.InRange(50.0) {
		t.Fatalf("expected 50 Hz outside bass range")
	}
}

func TestNoneProfileAcceptsEverything(t *testing.T) {
	for _, freq := range []float64{1.0, 60.0, 440.0, 5000.0, 19999.0} {
		if !ProfileNone.InRange(freq) {
			t.Fatalf("expected no_profile to accept %.1f Hz", freq)
		}
	}
	if _, _, ok := ProfileNone.FreqRange(); ok {
		t.Fatalf("expected no range for no_profile")
	}
}

func TestParseProfile(t *testing.T) {
	cases := map[string]VoiceProfile{
		"":           ProfileNone,
		"no_profile": ProfileNone,
		"Soprano":    ProfileSoprano,
		"mezzo":      ProfileMezzo,
		"contralto":  ProfileAlto,
		"tenor":      ProfileTenor,
		"baritone":   ProfileBaritone,
		"BASS":       ProfileBass,
	}
	for input, want := range cases {
		got, err := ParseProfile(input)
		if err != nil {
			t.Fatalf("ParseProfile(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseProfile(%q) = %v, want %v", input, got, want)
		}
	}

	if _, err := ParseProfile("falsetto"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestProfileStringRoundTrip(t *testing.T) {
	profiles := []VoiceProfile{
		ProfileNone, ProfileSoprano, ProfileMezzo, ProfileAlto,
		ProfileTenor, ProfileBaritone, ProfileBass,
	}
	for _, p := range profiles {
		parsed, err := ParseProfile(p.String())
		if err != nil {
			t.Fatalf("round trip %v: %v", p, err)
		}
		if parsed != p {
			t.Fatalf("round trip %v came back as %v", p, parsed)
		}
	}
}
