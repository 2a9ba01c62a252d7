package model

import "fmt"

// Standing is the player's reputation level with one faction.
// Values are totally ordered: Hostile < Unfriendly < Neutral < Friendly < Allied.
// The scale is centered on zero so the zero value is Neutral.
type Standing int

const (
	StandingHostile Standing = iota - 2
	StandingUnfriendly
	StandingNeutral
	StandingFriendly
	StandingAllied
)

var standingNames = []string{"hostile", "unfriendly", "neutral", "friendly", "allied"}

func (s Standing) String() string {
	if s < StandingHostile || s > StandingAllied {
		return fmt.Sprintf("standing(%d)", int(s))
	}
	return standingNames[s-StandingHostile]
}

// Shift moves the standing by delta ordinal steps, clamped into range.
// Arbitrary magnitudes are fine: shifting -5 from Hostile stays Hostile.
func (s Standing) Shift(delta int) Standing {
	return Standing(clampOrdinal(int(s)+delta, int(StandingHostile), int(StandingAllied)))
}

// ParseStanding converts a string form back into a Standing.
func ParseStanding(raw string) (Standing, error) {
	for i, name := range standingNames {
		if raw == name {
			return Standing(i) + StandingHostile, nil
		}
	}
	return StandingNeutral, fmt.Errorf("%w: standing %q", ErrInvalidValue, raw)
}

// MarshalText / UnmarshalText make standings round-trip as their string
// forms in JSON documents and frontmatter.
func (s Standing) MarshalText() ([]byte, error) {
	if s < StandingHostile || s > StandingAllied {
		return nil, fmt.Errorf("%w: standing ordinal %d", ErrInvalidValue, int(s))
	}
	return []byte(standingNames[s-StandingHostile]), nil
}

func (s *Standing) UnmarshalText(data []byte) error {
	parsed, err := ParseStanding(string(data))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Disposition is one NPC's attitude toward the player.
// Values are totally ordered: Hostile < Wary < Neutral < Warm < Loyal.
// The scale is centered on zero so a fresh NPC starts Neutral.
type Disposition int

const (
	DispositionHostile Disposition = iota - 2
	DispositionWary
	DispositionNeutral
	DispositionWarm
	DispositionLoyal
)

var dispositionNames = []string{"hostile", "wary", "neutral", "warm", "loyal"}

func (d Disposition) String() string {
	if d < DispositionHostile || d > DispositionLoyal {
		return fmt.Sprintf("disposition(%d)", int(d))
	}
	return dispositionNames[d-DispositionHostile]
}

// Shift moves the disposition by delta ordinal steps, clamped into range.
func (d Disposition) Shift(delta int) Disposition {
	return Disposition(clampOrdinal(int(d)+delta, int(DispositionHostile), int(DispositionLoyal)))
}

// ParseDisposition converts a string form back into a Disposition.
func ParseDisposition(raw string) (Disposition, error) {
	for i, name := range dispositionNames {
		if raw == name {
			return Disposition(i) + DispositionHostile, nil
		}
	}
	return DispositionNeutral, fmt.Errorf("%w: disposition %q", ErrInvalidValue, raw)
}

func (d Disposition) MarshalText() ([]byte, error) {
	if d < DispositionHostile || d > DispositionLoyal {
		return nil, fmt.Errorf("%w: disposition ordinal %d", ErrInvalidValue, int(d))
	}
	return []byte(dispositionNames[d-DispositionHostile]), nil
}

func (d *Disposition) UnmarshalText(data []byte) error {
	parsed, err := ParseDisposition(string(data))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func clampOrdinal(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
