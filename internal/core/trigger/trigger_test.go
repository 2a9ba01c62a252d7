package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/chronicle/internal/core/model"
)

func testNPC() *model.NPC {
	return &model.NPC{
		ID:          "n1",
		Name:        "Vex",
		Disposition: model.DispositionNeutral,
		Triggers: []model.MemoryTrigger{
			{Condition: "helped_combine", Effect: "warms slightly", DispositionDelta: 1},
			{Condition: "betrayed_combine", Effect: "never forgets", DispositionDelta: -2, OneShot: true},
			{Condition: "mentioned_the_ledger", Effect: "goes quiet", DispositionDelta: 0},
		},
	}
}

func TestOneShotFiresExactlyOnce(t *testing.T) {
	npc := testNPC()

	fired := Evaluate(npc, []string{"betrayed_combine"})
	require.Len(t, fired, 1)
	assert.Equal(t, model.DispositionHostile, npc.Disposition)
	assert.True(t, npc.Triggers[1].Fired)

	// Offering the same tag again yields zero further firings.
	fired = Evaluate(npc, []string{"betrayed_combine"})
	assert.Empty(t, fired)
	assert.Equal(t, model.DispositionHostile, npc.Disposition)
}

func TestRepeatableTriggerFiresEveryTime(t *testing.T) {
	npc := testNPC()

	for i := 0; i < 3; i++ {
		fired := Evaluate(npc, []string{"helped_combine"})
		require.Len(t, fired, 1, "pass %d", i)
	}
	// +1 three times from Neutral, clamped at Loyal.
	assert.Equal(t, model.DispositionLoyal, npc.Disposition)
}

func TestMultipleTriggersFireInDeclarationOrder(t *testing.T) {
	npc := testNPC()

	fired := Evaluate(npc, []string{"mentioned_the_ledger", "helped_combine"})
	require.Len(t, fired, 2)
	assert.Equal(t, "helped_combine", fired[0].Condition)
	assert.Equal(t, "mentioned_the_ledger", fired[1].Condition)
}

func TestZeroDeltaFiresWithoutDispositionChange(t *testing.T) {
	npc := testNPC()

	fired := Evaluate(npc, []string{"mentioned_the_ledger"})
	require.Len(t, fired, 1)
	assert.Equal(t, 0, fired[0].Delta)
	assert.Equal(t, model.DispositionNeutral, npc.Disposition)
}

func TestNoMatchingTags(t *testing.T) {
	npc := testNPC()
	assert.Empty(t, Evaluate(npc, []string{"unrelated_tag"}))
	assert.Empty(t, Evaluate(npc, nil))
}

func TestReact(t *testing.T) {
	npc := testNPC()

	r, ok := React(npc, []string{"helped_combine"})
	require.True(t, ok)
	assert.Equal(t, "n1", r.NPCID)
	assert.Equal(t, "Vex", r.NPCName)
	assert.Equal(t, model.DispositionWarm, r.Disposition)
	require.Len(t, r.Fired, 1)

	_, ok = React(npc, []string{"nothing"})
	assert.False(t, ok)
}
