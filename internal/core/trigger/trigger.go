// Package trigger matches event tags against per-NPC memory-trigger rules
// and applies their disposition effects.
package trigger

import "github.com/agenthands/chronicle/internal/core/model"

// Firing records one trigger that matched and took effect.
type Firing struct {
	Condition string `json:"condition"`
	Effect    string `json:"effect"`
	Delta     int    `json:"delta"`
}

// Reaction is the full outcome of evaluating one NPC against a tag set.
type Reaction struct {
	NPCID       string            `json:"npc_id"`
	NPCName     string            `json:"npc_name"`
	Fired       []Firing          `json:"fired"`
	Disposition model.Disposition `json:"disposition"`
}

// Evaluate walks the NPC's triggers in declaration order. A trigger fires
// when its condition tag is present and it is not an exhausted one-shot.
// Firing marks the trigger, permanently exhausts one-shots, and applies
// the disposition delta through the clamped scale (delta 0 is a no-op on
// disposition but still reported). Several triggers may fire from a single
// call; zero firings is a normal result, not an error.
func Evaluate(npc *model.NPC, tags []string) []Firing {
	present := make(map[string]bool, len(tags))
	for _, t := range tags {
		present[t] = true
	}

	var fired []Firing
	for i := range npc.Triggers {
		t := &npc.Triggers[i]
		if !present[t.Condition] {
			continue
		}
		if t.OneShot && t.Fired {
			continue
		}
		t.Fired = true
		if t.DispositionDelta != 0 {
			npc.Disposition = npc.Disposition.Shift(t.DispositionDelta)
		}
		fired = append(fired, Firing{
			Condition: t.Condition,
			Effect:    t.Effect,
			Delta:     t.DispositionDelta,
		})
	}
	return fired
}

// React wraps Evaluate with the NPC identity and resulting disposition.
// ok is false when nothing fired.
func React(npc *model.NPC, tags []string) (Reaction, bool) {
	fired := Evaluate(npc, tags)
	if len(fired) == 0 {
		return Reaction{}, false
	}
	return Reaction{
		NPCID:       npc.ID,
		NPCName:     npc.Name,
		Fired:       fired,
		Disposition: npc.Disposition,
	}, true
}
