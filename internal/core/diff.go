package core

import "github.com/agenthands/chronicle/internal/core/model"

// ChangeType tags a session change record.
type ChangeType string

const (
	ChangeFaction        ChangeType = "faction"
	ChangeNPCDisposition ChangeType = "npc_disposition"
)

// Change is one "changed since last session" record: a faction whose
// standing moved or an NPC whose disposition moved.
type Change struct {
	Type ChangeType `json:"type"`
	ID   string     `json:"id"`
	Name string     `json:"name,omitempty"`
	Old  string     `json:"old"`
	New  string     `json:"new"`
}

// diffSnapshot compares current standings and dispositions against the
// baseline snapshot. Ordering is deterministic: every faction change in
// enumeration order, then every NPC change in bucket definition order.
// NPCs added since the baseline have no old value and are not reported.
func diffSnapshot(c *model.Campaign, snap *model.Snapshot) []Change {
	var changes []Change
	for _, f := range model.AllFactions {
		fs, ok := c.Factions[f]
		if !ok {
			continue
		}
		old := snap.Factions[f]
		if fs.Standing != old {
			changes = append(changes, Change{
				Type: ChangeFaction,
				ID:   string(f),
				Old:  old.String(),
				New:  fs.Standing.String(),
			})
		}
	}
	for _, n := range c.AllNPCs() {
		old, ok := snap.Dispositions[n.ID]
		if !ok {
			continue
		}
		if n.Disposition != old {
			changes = append(changes, Change{
				Type: ChangeNPCDisposition,
				ID:   n.ID,
				Name: n.Name,
				Old:  old.String(),
				New:  n.Disposition.String(),
			})
		}
	}
	return changes
}
