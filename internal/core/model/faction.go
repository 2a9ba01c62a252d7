package model

import "fmt"

// Faction identifies one of the fixed factions of the setting.
type Faction string

const (
	FactionCombine   Faction = "combine"
	FactionWardens   Faction = "wardens"
	FactionFreeports Faction = "freeports"
	FactionChorus    Faction = "chorus"
	FactionUndertow  Faction = "undertow"
)

// AllFactions lists every faction in definition order. Diff output and
// snapshot synthesis iterate this list so results are deterministic.
var AllFactions = []Faction{
	FactionCombine,
	FactionWardens,
	FactionFreeports,
	FactionChorus,
	FactionUndertow,
}

// ParseFaction validates a raw faction string.
func ParseFaction(raw string) (Faction, error) {
	for _, f := range AllFactions {
		if Faction(raw) == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: faction %q", ErrInvalidValue, raw)
}

// FactionStanding holds the player's standing with a single faction. The
// owning Campaign keeps exactly one per faction.
type FactionStanding struct {
	Faction  Faction  `json:"faction"`
	Standing Standing `json:"standing"`
}

// Shift moves the standing by delta ordinal steps, clamps, and returns the
// new value.
func (fs *FactionStanding) Shift(delta int) Standing {
	fs.Standing = fs.Standing.Shift(delta)
	return fs.Standing
}
