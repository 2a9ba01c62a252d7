package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCampaignInvariants(t *testing.T) {
	c := NewCampaign("Red Static")

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, CurrentSchemaVersion, c.SchemaVersion)
	assert.Equal(t, 1, c.Session)
	assert.Empty(t, c.History)
	assert.Nil(t, c.LastSnapshot)

	// The faction map is total: every enumerated faction at Neutral.
	require.Len(t, c.Factions, len(AllFactions))
	for _, f := range AllFactions {
		fs, ok := c.Factions[f]
		require.True(t, ok, "missing faction %s", f)
		assert.Equal(t, StandingNeutral, fs.Standing)
	}
}

func TestFindNPCAcrossBuckets(t *testing.T) {
	c := NewCampaign("test")
	c.ActiveNPCs = append(c.ActiveNPCs, &NPC{ID: "a", Name: "Vex"})
	c.DormantNPCs = append(c.DormantNPCs, &NPC{ID: "d", Name: "Moth"})

	npc, ok := c.FindNPC("a")
	require.True(t, ok)
	assert.Equal(t, "Vex", npc.Name)

	npc, ok = c.FindNPC("d")
	require.True(t, ok)
	assert.Equal(t, "Moth", npc.Name)

	_, ok = c.FindNPC("missing")
	assert.False(t, ok)
}

func TestCaptureCoversEveryFaction(t *testing.T) {
	c := NewCampaign("test")
	c.Factions[FactionChorus].Standing = StandingAllied
	c.ActiveNPCs = append(c.ActiveNPCs, &NPC{ID: "a", Disposition: DispositionWarm})
	c.DormantNPCs = append(c.DormantNPCs, &NPC{ID: "d", Disposition: DispositionHostile})

	snap := c.Capture(4)
	assert.Equal(t, 4, snap.Session)
	require.Len(t, snap.Factions, len(AllFactions))
	assert.Equal(t, StandingAllied, snap.Factions[FactionChorus])
	assert.Equal(t, StandingNeutral, snap.Factions[FactionCombine])
	assert.Equal(t, DispositionWarm, snap.Dispositions["a"])
	assert.Equal(t, DispositionHostile, snap.Dispositions["d"])
}

func TestCurrentProfileSparseLookup(t *testing.T) {
	npc := &NPC{
		Disposition: DispositionWary,
		Behaviors: map[Disposition]BehaviorProfile{
			DispositionWary: {Tone: "clipped", Tell: "checks the exits"},
		},
	}

	p, ok := npc.CurrentProfile()
	require.True(t, ok)
	assert.Equal(t, "clipped", p.Tone)

	// No configured profile for the new level, no implicit default.
	npc.Disposition = DispositionLoyal
	_, ok = npc.CurrentProfile()
	assert.False(t, ok)
}

func TestParseEntryType(t *testing.T) {
	for _, raw := range []string{"canon", "consequence", "mission", "faction_shift", "hinge"} {
		_, err := ParseEntryType(raw)
		assert.NoError(t, err, raw)
	}
	_, err := ParseEntryType("rumor")
	assert.ErrorIs(t, err, ErrInvalidValue)
}
