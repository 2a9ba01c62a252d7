package wiki

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/chronicle/internal/core/model"
)

func writeWikiFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func syncFixture(t *testing.T) (*Syncer, *model.Campaign) {
	t.Helper()
	c := model.NewCampaign("Red Static")
	c.ActiveNPCs = append(c.ActiveNPCs, &model.NPC{
		ID:          "vex",
		Name:        "Vex",
		Faction:     model.FactionCombine,
		Disposition: model.DispositionNeutral,
	})
	c.SavedAt = time.Now().UTC()
	return NewSyncer(t.TempDir(), nil), c
}

func TestHandleChangeStaleFileIgnored(t *testing.T) {
	s, c := syncFixture(t)
	path := s.NPCPath(c.ID, "vex")
	writeWikiFile(t, path, "---\ntype: npc\ndisposition: loyal\n---\n", c.SavedAt.Add(-time.Hour))

	require.NoError(t, s.HandleChange(c, path))
	assert.Equal(t, model.DispositionNeutral, c.ActiveNPCs[0].Disposition)
}

func TestHandleChangeNewerFileApplied(t *testing.T) {
	s, c := syncFixture(t)
	path := s.NPCPath(c.ID, "vex")
	writeWikiFile(t, path, "---\ntype: npc\nfaction: chorus\ndisposition: loyal\n---\n", c.SavedAt.Add(time.Hour))

	require.NoError(t, s.HandleChange(c, path))
	assert.Equal(t, model.DispositionLoyal, c.ActiveNPCs[0].Disposition)
	assert.Equal(t, model.FactionChorus, c.ActiveNPCs[0].Faction)

	// Re-invoking on the unchanged file is a no-op: state already
	// matches and the merge is idempotent.
	require.NoError(t, s.HandleChange(c, path))
	assert.Equal(t, model.DispositionLoyal, c.ActiveNPCs[0].Disposition)
}

func TestHandleChangeFactionStanding(t *testing.T) {
	s, c := syncFixture(t)
	path := s.FactionPath(c.ID, model.FactionWardens)
	writeWikiFile(t, path, "---\ntype: faction\nstanding: unfriendly\n---\n", c.SavedAt.Add(time.Hour))

	require.NoError(t, s.HandleChange(c, path))
	assert.Equal(t, model.StandingUnfriendly, c.Factions[model.FactionWardens].Standing)
}

func TestHandleChangeUnknownKeysIgnored(t *testing.T) {
	s, c := syncFixture(t)
	path := s.NPCPath(c.ID, "vex")
	writeWikiFile(t, path, "---\ntype: npc\nmood: sour\ntheme_song: dirge\n---\n", c.SavedAt.Add(time.Hour))

	require.NoError(t, s.HandleChange(c, path))
	assert.Equal(t, model.DispositionNeutral, c.ActiveNPCs[0].Disposition)
}

func TestHandleChangeMalformedValueRejected(t *testing.T) {
	s, c := syncFixture(t)
	path := s.NPCPath(c.ID, "vex")
	writeWikiFile(t, path, "---\ntype: npc\ndisposition: chummy\n---\n", c.SavedAt.Add(time.Hour))

	err := s.HandleChange(c, path)
	assert.ErrorIs(t, err, model.ErrInvalidValue)
	assert.Equal(t, model.DispositionNeutral, c.ActiveNPCs[0].Disposition)
}

func TestHandleChangeUnrecognizedFilesIgnored(t *testing.T) {
	s, c := syncFixture(t)

	// Unknown NPC id.
	path := s.NPCPath(c.ID, "stranger")
	writeWikiFile(t, path, "---\ntype: npc\ndisposition: loyal\n---\n", c.SavedAt.Add(time.Hour))
	assert.NoError(t, s.HandleChange(c, path))

	// Not under a recognized subtree.
	other := filepath.Join(s.Root, c.ID, "notes", "scratch.md")
	writeWikiFile(t, other, "scratch\n", c.SavedAt.Add(time.Hour))
	assert.NoError(t, s.HandleChange(c, other))

	// Different campaign's subtree.
	foreign := filepath.Join(s.Root, "other-campaign", "npcs", "vex.md")
	writeWikiFile(t, foreign, "---\ndisposition: loyal\n---\n", c.SavedAt.Add(time.Hour))
	assert.NoError(t, s.HandleChange(c, foreign))
	assert.Equal(t, model.DispositionNeutral, c.ActiveNPCs[0].Disposition)

	// Vanished file.
	assert.NoError(t, s.HandleChange(c, s.NPCPath(c.ID, "vex")))
}

func TestExportWritesAndPreservesBody(t *testing.T) {
	s, c := syncFixture(t)

	require.NoError(t, s.Export(c))

	data, err := os.ReadFile(s.NPCPath(c.ID, "vex"))
	require.NoError(t, err)
	fm, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "npc", fm.Fields["type"])
	assert.Equal(t, "combine", fm.Fields["faction"])
	assert.Equal(t, "neutral", fm.Fields["disposition"])

	// Hand-written body text survives a re-export.
	custom := Render([]string{"type"}, map[string]string{"type": "npc"}, "Keeps a ledger of slights.\n")
	require.NoError(t, os.WriteFile(s.NPCPath(c.ID, "vex"), custom, 0o644))
	c.ActiveNPCs[0].Disposition = model.DispositionWarm

	require.NoError(t, s.Export(c))
	data, err = os.ReadFile(s.NPCPath(c.ID, "vex"))
	require.NoError(t, err)
	fm, err = Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "warm", fm.Fields["disposition"])
	assert.Equal(t, "Keeps a ledger of slights.\n", fm.Body)

	// Factions exported too.
	data, err = os.ReadFile(s.FactionPath(c.ID, model.FactionUndertow))
	require.NoError(t, err)
	fm, err = Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "faction", fm.Fields["type"])
	assert.Equal(t, "neutral", fm.Fields["standing"])
}
