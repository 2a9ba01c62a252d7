package wiki

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/agenthands/chronicle/internal/core/model"
)

// Syncer merges externally edited wiki files into a live campaign under a
// timestamp precedence rule: a file only wins when its mtime is strictly
// newer than the campaign's last save. Stale or duplicate notifications
// are no-ops, so the handler tolerates repeated and out-of-order
// delivery.
//
// Layout under Root:
//
//	<campaign-id>/npcs/<npc-id>.md
//	<campaign-id>/factions/<faction>.md
type Syncer struct {
	Root string

	log *zap.Logger
}

func NewSyncer(root string, logger *zap.Logger) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Syncer{Root: root, log: logger}
}

// NPCPath returns the wiki file path for one NPC.
func (s *Syncer) NPCPath(campaignID, npcID string) string {
	return filepath.Join(s.Root, campaignID, "npcs", npcID+".md")
}

// FactionPath returns the wiki file path for one faction.
func (s *Syncer) FactionPath(campaignID string, f model.Faction) string {
	return filepath.Join(s.Root, campaignID, "factions", string(f)+".md")
}

// HandleChange processes one changed file against the campaign. Files
// outside the campaign's subtree, files for unknown entities, and unknown
// header keys are silently ignored. Malformed values of recognized keys
// are validation errors. State merges only when the file is strictly
// newer than c.SavedAt.
func (s *Syncer) HandleChange(c *model.Campaign, path string) error {
	kind, id, ok := s.resolve(c.ID, path)
	if !ok {
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		// Deleted between notification and handling; external state is
		// gone so there is nothing to merge.
		return nil
	}
	if !info.ModTime().After(c.SavedAt) {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read wiki file %s: %w", path, err)
	}
	fm, err := Parse(data)
	if err != nil {
		return fmt.Errorf("wiki file %s: %w", path, err)
	}

	switch kind {
	case "npcs":
		return s.mergeNPC(c, id, fm)
	case "factions":
		return s.mergeFaction(c, id, fm)
	}
	return nil
}

// resolve maps an absolute path back to (kind, entity id) under the
// campaign's subtree. ok is false for anything that is not a recognized
// wiki file of this campaign.
func (s *Syncer) resolve(campaignID, path string) (kind, id string, ok bool) {
	rel, err := filepath.Rel(filepath.Join(s.Root, campaignID), path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", "", false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) != 2 {
		return "", "", false
	}
	kind = parts[0]
	if kind != "npcs" && kind != "factions" {
		return "", "", false
	}
	name := parts[1]
	if !strings.HasSuffix(name, ".md") {
		return "", "", false
	}
	return kind, strings.TrimSuffix(name, ".md"), true
}

func (s *Syncer) mergeNPC(c *model.Campaign, id string, fm *Frontmatter) error {
	npc, ok := c.FindNPC(id)
	if !ok {
		return nil
	}
	if raw, ok := fm.Fields["faction"]; ok {
		f, err := model.ParseFaction(raw)
		if err != nil {
			return fmt.Errorf("npc %s: %w", id, err)
		}
		npc.Faction = f
	}
	if raw, ok := fm.Fields["disposition"]; ok {
		d, err := model.ParseDisposition(raw)
		if err != nil {
			return fmt.Errorf("npc %s: %w", id, err)
		}
		npc.Disposition = d
	}
	s.log.Info("wiki edit merged", zap.String("kind", "npc"), zap.String("id", id))
	return nil
}

func (s *Syncer) mergeFaction(c *model.Campaign, id string, fm *Frontmatter) error {
	f, err := model.ParseFaction(id)
	if err != nil {
		// Not an enumerated faction; treat as an unrecognized file.
		return nil
	}
	raw, ok := fm.Fields["standing"]
	if !ok {
		return nil
	}
	st, err := model.ParseStanding(raw)
	if err != nil {
		return fmt.Errorf("faction %s: %w", id, err)
	}
	c.Factions[f].Standing = st
	s.log.Info("wiki edit merged", zap.String("kind", "faction"), zap.String("id", id))
	return nil
}

// Export writes the campaign's NPCs and factions out as wiki files, the
// program-to-disk half of the sync. Existing body text below a file's
// header is preserved; only the header is rewritten.
func (s *Syncer) Export(c *model.Campaign) error {
	for _, npc := range c.AllNPCs() {
		path := s.NPCPath(c.ID, npc.ID)
		fields := map[string]string{
			"type":        "npc",
			"name":        npc.Name,
			"faction":     string(npc.Faction),
			"disposition": npc.Disposition.String(),
		}
		keys := []string{"type", "name", "faction", "disposition"}
		if err := s.writeFile(path, keys, fields, npc.Name); err != nil {
			return err
		}
	}
	for _, f := range model.AllFactions {
		fs, ok := c.Factions[f]
		if !ok {
			continue
		}
		path := s.FactionPath(c.ID, f)
		fields := map[string]string{
			"type":     "faction",
			"standing": fs.Standing.String(),
		}
		if err := s.writeFile(path, []string{"type", "standing"}, fields, string(f)); err != nil {
			return err
		}
	}
	return nil
}

func (s *Syncer) writeFile(path string, keys []string, fields map[string]string, title string) error {
	body := fmt.Sprintf("# %s\n", title)
	if existing, err := os.ReadFile(path); err == nil {
		if fm, err := Parse(existing); err == nil && fm.Body != "" {
			body = fm.Body
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create wiki dir: %w", err)
	}
	if err := os.WriteFile(path, Render(keys, fields, body), 0o644); err != nil {
		return fmt.Errorf("write wiki file %s: %w", path, err)
	}
	return nil
}
