package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CurrentSchemaVersion is the terminal version of the persisted document
// format. The migrate package upgrades older documents to this version.
const CurrentSchemaVersion = "3"

// MaxSocialEnergy is the ceiling (and session-reset value) for a
// character's social energy.
const MaxSocialEnergy = 100

// EntryType classifies a history entry.
type EntryType string

const (
	EntryCanon        EntryType = "canon"
	EntryConsequence  EntryType = "consequence"
	EntryMission      EntryType = "mission"
	EntryFactionShift EntryType = "faction_shift"
	EntryHinge        EntryType = "hinge"
)

// ParseEntryType validates a raw history entry type.
func ParseEntryType(raw string) (EntryType, error) {
	switch t := EntryType(raw); t {
	case EntryCanon, EntryConsequence, EntryMission, EntryFactionShift, EntryHinge:
		return t, nil
	}
	return "", fmt.Errorf("%w: history entry type %q", ErrInvalidValue, raw)
}

// HingeDetail records an irreversible narrative choice.
type HingeDetail struct {
	Situation   string `json:"situation"`
	Choice      string `json:"choice"`
	Reasoning   string `json:"reasoning"`
	WhatShifted string `json:"what_shifted,omitempty"`
}

// MissionDetail is attached to mission entries logged at session end.
type MissionDetail struct {
	Title       string `json:"title"`
	Reflections string `json:"reflections,omitempty"`
}

// HistoryEntry is one record in the append-only chronicle. Entries are
// never edited or deleted once appended.
type HistoryEntry struct {
	ID        string         `json:"id"`
	Type      EntryType      `json:"type"`
	Summary   string         `json:"summary"`
	Session   int            `json:"session"`
	Timestamp time.Time      `json:"timestamp"`
	Permanent bool           `json:"permanent"`
	Hinge     *HingeDetail   `json:"hinge,omitempty"`
	Mission   *MissionDetail `json:"mission,omitempty"`
}

// HingeRecord is a hinge moment as remembered on the character sheet.
type HingeRecord struct {
	Session int    `json:"session"`
	Choice  string `json:"choice"`
}

// Character is a player character.
type Character struct {
	Name         string        `json:"name"`
	Callsign     string        `json:"callsign"`
	Background   string        `json:"background"`
	SocialEnergy int           `json:"social_energy"` // 0..MaxSocialEnergy
	HingeMoments []HingeRecord `json:"hinge_moments,omitempty"`
}

// Snapshot is a point-in-time copy of every faction standing and NPC
// disposition, captured at session boundaries and used as the diff
// baseline. It is replaced wholesale, never merged.
type Snapshot struct {
	Session      int                    `json:"session"`
	Factions     map[Faction]Standing   `json:"factions"`
	Dispositions map[string]Disposition `json:"dispositions"`
}

// Campaign is the root aggregate. Invariant: Factions always contains an
// entry for every faction in AllFactions, never a partial set.
type Campaign struct {
	ID            string                       `json:"id"`
	Name          string                       `json:"name"`
	SchemaVersion string                       `json:"schema_version"`
	Characters    []Character                  `json:"characters"`
	ActiveNPCs    []*NPC                       `json:"active_npcs"`
	DormantNPCs   []*NPC                       `json:"dormant_npcs"`
	Factions      map[Faction]*FactionStanding `json:"factions"`
	History       []HistoryEntry               `json:"history"`
	LastSnapshot  *Snapshot                    `json:"last_snapshot,omitempty"`
	Session       int                          `json:"session"`
	SavedAt       time.Time                    `json:"saved_at"`
}

// NewCampaign creates a fresh campaign: new id, current schema version,
// every faction at Neutral, empty history, no snapshot.
func NewCampaign(name string) *Campaign {
	factions := make(map[Faction]*FactionStanding, len(AllFactions))
	for _, f := range AllFactions {
		factions[f] = &FactionStanding{Faction: f, Standing: StandingNeutral}
	}
	return &Campaign{
		ID:            uuid.New().String(),
		Name:          name,
		SchemaVersion: CurrentSchemaVersion,
		Factions:      factions,
		History:       []HistoryEntry{},
		Session:       1,
		SavedAt:       time.Now().UTC(),
	}
}

// FindNPC looks an NPC up by id across the active and dormant buckets.
func (c *Campaign) FindNPC(id string) (*NPC, bool) {
	for _, n := range c.ActiveNPCs {
		if n.ID == id {
			return n, true
		}
	}
	for _, n := range c.DormantNPCs {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// AllNPCs returns every NPC in bucket definition order, active first.
func (c *Campaign) AllNPCs() []*NPC {
	out := make([]*NPC, 0, len(c.ActiveNPCs)+len(c.DormantNPCs))
	out = append(out, c.ActiveNPCs...)
	return append(out, c.DormantNPCs...)
}

// Capture copies every current standing and disposition into a snapshot
// for the given session number.
func (c *Campaign) Capture(session int) *Snapshot {
	snap := &Snapshot{
		Session:      session,
		Factions:     make(map[Faction]Standing, len(AllFactions)),
		Dispositions: make(map[string]Disposition),
	}
	for _, f := range AllFactions {
		if fs, ok := c.Factions[f]; ok {
			snap.Factions[f] = fs.Standing
		} else {
			snap.Factions[f] = StandingNeutral
		}
	}
	for _, n := range c.AllNPCs() {
		snap.Dispositions[n.ID] = n.Disposition
	}
	return snap
}
