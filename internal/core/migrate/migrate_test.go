package migrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/chronicle/internal/core/model"
)

func TestRunCurrentVersionIsIdempotent(t *testing.T) {
	c := model.NewCampaign("Red Static")
	c.Factions[model.FactionUndertow].Standing = model.StandingFriendly
	c.LastSnapshot = c.Capture(2)
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	got, err := Run(raw)
	require.NoError(t, err)

	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, model.CurrentSchemaVersion, got.SchemaVersion)
	assert.Equal(t, model.StandingFriendly, got.Factions[model.FactionUndertow].Standing)
	assert.Equal(t, 2, got.LastSnapshot.Session)

	// Running the result through again changes nothing.
	raw2, err := json.Marshal(got)
	require.NoError(t, err)
	again, err := Run(raw2)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRunSynthesizesMissingSnapshot(t *testing.T) {
	c := model.NewCampaign("test")
	c.Factions[model.FactionCombine].Standing = model.StandingUnfriendly
	c.ActiveNPCs = append(c.ActiveNPCs, &model.NPC{ID: "n1", Disposition: model.DispositionWarm})
	require.Nil(t, c.LastSnapshot)
	raw, err := json.Marshal(c)
	require.NoError(t, err)

	got, err := Run(raw)
	require.NoError(t, err)

	require.NotNil(t, got.LastSnapshot)
	assert.Equal(t, 0, got.LastSnapshot.Session)
	assert.Len(t, got.LastSnapshot.Factions, len(model.AllFactions))
	assert.Equal(t, model.StandingUnfriendly, got.LastSnapshot.Factions[model.FactionCombine])
	assert.Equal(t, model.DispositionWarm, got.LastSnapshot.Dispositions["n1"])
}

func TestRunUpgradesV1Document(t *testing.T) {
	raw := []byte(`{
		"id": "c1",
		"name": "Old Campaign",
		"schema_version": "1",
		"npcs": [
			{
				"id": "n1",
				"name": "Vex",
				"faction": "combine",
				"disposition": "wary",
				"triggers": [{"condition": "helped_combine", "effect": "softens", "disposition_delta": 1, "one_shot": true}]
			}
		],
		"log": [
			{"id": "h1", "type": "canon", "summary": "It began.", "session": 1, "timestamp": "2025-01-01T00:00:00Z"}
		],
		"saved_at": "2025-01-01T00:00:00Z"
	}`)

	got, err := Run(raw)
	require.NoError(t, err)

	assert.Equal(t, model.CurrentSchemaVersion, got.SchemaVersion)

	// Flat npcs list landed in the active bucket.
	require.Len(t, got.ActiveNPCs, 1)
	assert.Empty(t, got.DormantNPCs)
	assert.Equal(t, "Vex", got.ActiveNPCs[0].Name)
	assert.False(t, got.ActiveNPCs[0].Triggers[0].Fired)

	// The log became the history, entries default non-permanent.
	require.Len(t, got.History, 1)
	assert.Equal(t, model.EntryCanon, got.History[0].Type)
	assert.False(t, got.History[0].Permanent)

	// Missing factions filled at Neutral, baseline snapshot synthesized.
	assert.Len(t, got.Factions, len(model.AllFactions))
	require.NotNil(t, got.LastSnapshot)
	assert.Equal(t, 0, got.LastSnapshot.Session)
	assert.Len(t, got.LastSnapshot.Factions, len(model.AllFactions))
	assert.Equal(t, model.DispositionWary, got.LastSnapshot.Dispositions["n1"])
}

func TestRunUnknownVersion(t *testing.T) {
	raw := []byte(`{"id": "c1", "schema_version": "0.9-beta"}`)
	_, err := Run(raw)
	assert.ErrorIs(t, err, ErrUnknownSchema)
}

func TestRunMalformedStepInputSurfacesWhole(t *testing.T) {
	// v1 with a npcs field of the wrong shape: the chain fails and no
	// partially-migrated campaign is returned.
	raw := []byte(`{"id": "c1", "schema_version": "1", "npcs": "corrupt"}`)
	got, err := Run(raw)
	assert.Error(t, err)
	assert.Nil(t, got)
}
