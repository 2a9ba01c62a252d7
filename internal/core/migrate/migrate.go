// Package migrate upgrades persisted campaign documents from any known
// prior schema version to the current one.
package migrate

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/agenthands/chronicle/internal/core/model"
)

// ErrUnknownSchema is returned when a document carries a schema version
// the chain has no step for. The caller's document is left untouched.
var ErrUnknownSchema = errors.New("unknown schema version")

// step upgrades a raw document from one version to the next. Transforms
// run on the decoded map form, never on the caller's bytes.
type step struct {
	from  string
	to    string
	apply func(doc map[string]any) error
}

// chain is the ordered upgrade table. Applied repeatedly until the
// document's version equals model.CurrentSchemaVersion.
var chain = []step{
	{from: "1", to: "2", apply: splitNPCBuckets},
	{from: "2", to: "3", apply: backfillFlags},
}

// Run decodes a raw campaign document, walks it through the upgrade chain
// until it reaches the current schema version, and returns the normalized
// campaign. A document already at the current version passes through
// unchanged except that a missing snapshot is synthesized (session 0,
// values read off current state). The chain succeeds whole or Run returns
// an error without installing anything.
func Run(raw []byte) (*model.Campaign, error) {
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode campaign document: %w", err)
	}

	version, _ := doc["schema_version"].(string)
	for version != model.CurrentSchemaVersion {
		s, ok := lookup(version)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSchema, version)
		}
		if err := s.apply(doc); err != nil {
			return nil, fmt.Errorf("migrate %s -> %s: %w", s.from, s.to, err)
		}
		doc["schema_version"] = s.to
		version = s.to
	}

	buf, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("re-encode migrated document: %w", err)
	}
	var c model.Campaign
	if err := json.Unmarshal(buf, &c); err != nil {
		return nil, fmt.Errorf("decode migrated campaign: %w", err)
	}

	normalize(&c)
	return &c, nil
}

func lookup(version string) (step, bool) {
	for _, s := range chain {
		if s.from == version {
			return s, true
		}
	}
	return step{}, false
}

// splitNPCBuckets (v1 -> v2): v1 kept every NPC in a single flat "npcs"
// list. v2 partitions them into active and dormant buckets; migrated NPCs
// all land in the active bucket.
func splitNPCBuckets(doc map[string]any) error {
	flat, ok := doc["npcs"].([]any)
	if !ok && doc["npcs"] != nil {
		return fmt.Errorf("v1 npcs field is %T, want list", doc["npcs"])
	}
	if flat == nil {
		flat = []any{}
	}
	doc["active_npcs"] = flat
	doc["dormant_npcs"] = []any{}
	delete(doc, "npcs")
	return nil
}

// backfillFlags (v2 -> v3): v2 named the chronicle "log" and predates the
// permanence flag on entries and the fired flag on triggers.
func backfillFlags(doc map[string]any) error {
	if log, ok := doc["log"]; ok {
		doc["history"] = log
		delete(doc, "log")
	}
	entries, _ := doc["history"].([]any)
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			return fmt.Errorf("history entry is %T, want object", e)
		}
		if _, ok := entry["permanent"]; !ok {
			entry["permanent"] = false
		}
	}
	for _, bucket := range []string{"active_npcs", "dormant_npcs"} {
		npcs, _ := doc[bucket].([]any)
		for _, n := range npcs {
			npc, ok := n.(map[string]any)
			if !ok {
				return fmt.Errorf("npc in %s is %T, want object", bucket, n)
			}
			triggers, _ := npc["triggers"].([]any)
			for _, t := range triggers {
				trigger, ok := t.(map[string]any)
				if !ok {
					return fmt.Errorf("trigger is %T, want object", t)
				}
				if _, ok := trigger["fired"]; !ok {
					trigger["fired"] = false
				}
			}
		}
	}
	return nil
}

// normalize enforces the aggregate invariants migration must guarantee:
// the faction map is total over the enumerated set, slices are non-nil,
// the session counter starts at 1, and a baseline snapshot exists.
func normalize(c *model.Campaign) {
	if c.Factions == nil {
		c.Factions = make(map[model.Faction]*model.FactionStanding, len(model.AllFactions))
	}
	for _, f := range model.AllFactions {
		if _, ok := c.Factions[f]; !ok {
			c.Factions[f] = &model.FactionStanding{Faction: f, Standing: model.StandingNeutral}
		}
	}
	if c.History == nil {
		c.History = []model.HistoryEntry{}
	}
	if c.Session < 1 {
		c.Session = 1
	}
	if c.LastSnapshot == nil {
		c.LastSnapshot = c.Capture(0)
	}
}
