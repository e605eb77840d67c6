package pitch

import (
	"fmt"
	"strings"
)

// VoiceProfile names a vocal frequency range used to filter note detection
// toward an expected human voice range.
type VoiceProfile int

const (
	ProfileNone VoiceProfile = iota
	ProfileSoprano
	ProfileMezzo
	ProfileAlto
	ProfileTenor
	ProfileBaritone
	ProfileBass
)

// profileMarginRatio widens each profile range by 5% of its span on both
// sides. The margin absorbs frequency-estimation error near the
// boundaries without letting adjacent voice ranges bleed together.
const profileMarginRatio = 0.05

// profileRanges holds the fixed (min, max) Hz span per profile
var profileRanges = map[VoiceProfile][2]float64{
	ProfileSoprano:  {261.63, 1046.50}, // C4 - C6
	ProfileMezzo:    {220.00, 880.00},  // A3 - A5
	ProfileAlto:     {174.61, 698.46},  // F3 - F5
	ProfileTenor:    {130.81, 523.25},  // C3 - C5
	ProfileBaritone: {110.00, 440.00},  // A2 - A4
	ProfileBass:     {65.41, 261.63},   // C2 - C4
}

func (p VoiceProfile) String() string {
	switch p {
	case ProfileNone:
		return "no_profile"
	case ProfileSoprano:
		return "soprano"
	case ProfileMezzo:
		return "mezzo"
	case ProfileAlto:
		return "alto"
	case ProfileTenor:
		return "tenor"
	case ProfileBaritone:
		return "baritone"
	case ProfileBass:
		return "bass"
	default:
		return "unknown"
	}
}

// FreqRange returns the profile's frequency span. ok is false for
// ProfileNone, which carries no range.
func (p VoiceProfile) FreqRange() (minFreq, maxFreq float64, ok bool) {
	r, ok := profileRanges[p]
	if !ok {
		return 0, 0, false
	}
	return r[0], r[1], true
}

// InRange reports whether frequency falls inside the profile range plus
// margin. ProfileNone accepts every frequency.
func (p VoiceProfile) InRange(frequency float64) bool {
	minFreq, maxFreq, ok := p.FreqRange()
	if !ok {
		return true
	}

	margin := (maxFreq - minFreq) * profileMarginRatio
	return frequency >= minFreq-margin && frequency <= maxFreq+margin
}

// ParseProfile converts a transport-level profile id to a VoiceProfile.
// The empty string means no profile.
func ParseProfile(s string) (VoiceProfile, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no_profile", "none":
		return ProfileNone, nil
	case "soprano":
		return ProfileSoprano, nil
	case "mezzo", "mezzo-soprano":
		return ProfileMezzo, nil
	case "alto", "contralto":
		return ProfileAlto, nil
	case "tenor":
		return ProfileTenor, nil
	case "baritone":
		return ProfileBaritone, nil
	case "bass":
		return ProfileBass, nil
	default:
		return ProfileNone, fmt.Errorf("unknown voice profile %q", s)
	}
}
