package model

// BehaviorProfile describes how an NPC acts at one disposition level.
type BehaviorProfile struct {
	Tone      string `json:"tone"`
	Reveals   string `json:"reveals,omitempty"`
	Withholds string `json:"withholds,omitempty"`
	Tell      string `json:"tell,omitempty"` // observable mannerism
}

// Agenda is what an NPC is privately driving at.
type Agenda struct {
	Wants string `json:"wants"`
	Fears string `json:"fears"`
}

// MemoryTrigger binds an event tag to a disposition effect on one NPC.
// Fired is owned by the trigger itself and persists with the NPC so a
// one-shot stays exhausted across save/load.
type MemoryTrigger struct {
	Condition        string `json:"condition"`
	Effect           string `json:"effect"`
	DispositionDelta int    `json:"disposition_delta"` // 0 = no effect
	OneShot          bool   `json:"one_shot"`
	Fired            bool   `json:"fired"`
}

// NPC is a non-player character tracked by the campaign.
type NPC struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Faction     Faction     `json:"faction,omitempty"`
	Disposition Disposition `json:"disposition"`
	Agenda      Agenda      `json:"agenda"`

	// Behaviors is sparse: levels without an entry have no configured
	// profile and CurrentProfile reports ok=false.
	Behaviors map[Disposition]BehaviorProfile `json:"behaviors,omitempty"`

	Triggers        []MemoryTrigger `json:"triggers,omitempty"`
	Memories        []string        `json:"memories,omitempty"`
	LastInteraction string          `json:"last_interaction,omitempty"`
}

// CurrentProfile looks up the behavior profile for the NPC's current
// disposition. There is no implicit default for unconfigured levels.
func (n *NPC) CurrentProfile() (BehaviorProfile, bool) {
	p, ok := n.Behaviors[n.Disposition]
	return p, ok
}

// Remember appends a fact to the NPC's remembered list.
func (n *NPC) Remember(fact string) {
	n.Memories = append(n.Memories, fact)
}
