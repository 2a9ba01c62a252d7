// Package core orchestrates campaign state: loading and migrating
// documents, mutating standings and dispositions, logging the chronicle,
// and reporting session-boundary changes. The Manager is the sole entry
// point for callers; it is synchronous and not safe for concurrent use on
// the same campaign without external locking.
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/chronicle/internal/core/migrate"
	"github.com/agenthands/chronicle/internal/core/model"
	"github.com/agenthands/chronicle/internal/core/trigger"
	"github.com/agenthands/chronicle/internal/store"
)

var (
	// ErrNoCampaign is returned by mutations invoked before any campaign
	// has been created or loaded.
	ErrNoCampaign = errors.New("no campaign loaded")

	// ErrNPCNotFound is returned when an NPC id is unknown to the
	// current campaign.
	ErrNPCNotFound = errors.New("npc not found")

	// ErrDuplicateNPC is returned when an NPC id already exists in
	// either bucket.
	ErrDuplicateNPC = errors.New("npc id already present")
)

// Manager owns an id-keyed cache of loaded campaigns backed by a
// pluggable Store.
type Manager struct {
	Store store.Store

	log     *zap.Logger
	cache   map[string]*model.Campaign
	current *model.Campaign
}

func NewManager(s store.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Store: s,
		log:   logger,
		cache: make(map[string]*model.Campaign),
	}
}

// Current returns the campaign mutations operate on, or nil before the
// first create/load.
func (m *Manager) Current() *model.Campaign {
	return m.current
}

// CreateCampaign starts a fresh campaign with the full faction set at
// Neutral, persists it, and makes it current. A failed write installs
// nothing.
func (m *Manager) CreateCampaign(ctx context.Context, name string) (*model.Campaign, error) {
	c := model.NewCampaign(name)
	if err := m.persist(ctx, c); err != nil {
		return nil, err
	}
	m.cache[c.ID] = c
	m.current = c
	m.log.Info("campaign created", zap.String("id", c.ID), zap.String("name", name))
	return c, nil
}

// LoadCampaign fetches a persisted document, migrates it to the current
// schema version, caches it, and makes it current.
func (m *Manager) LoadCampaign(ctx context.Context, id string) (*model.Campaign, error) {
	if c, ok := m.cache[id]; ok {
		m.current = c
		return c, nil
	}
	raw, err := m.Store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load campaign %s: %w", id, err)
	}
	c, err := migrate.Run(raw)
	if err != nil {
		return nil, fmt.Errorf("load campaign %s: %w", id, err)
	}
	m.cache[id] = c
	m.current = c
	m.log.Info("campaign loaded",
		zap.String("id", id),
		zap.String("schema_version", c.SchemaVersion))
	return c, nil
}

// ListCampaigns returns the ids known to the backing store.
func (m *Manager) ListCampaigns(ctx context.Context) ([]string, error) {
	return m.Store.List(ctx)
}

// AddNPC inserts an NPC into the active or dormant bucket. An empty id is
// assigned; ids must be unique across both buckets. A zero-valued
// Disposition is Neutral. No history entry is written.
func (m *Manager) AddNPC(npc *model.NPC, active bool) error {
	c := m.current
	if c == nil {
		return ErrNoCampaign
	}
	if npc.ID == "" {
		npc.ID = uuid.New().String()
	}
	if _, exists := c.FindNPC(npc.ID); exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNPC, npc.ID)
	}
	if npc.Faction != "" {
		if _, err := model.ParseFaction(string(npc.Faction)); err != nil {
			return err
		}
	}
	if active {
		c.ActiveNPCs = append(c.ActiveNPCs, npc)
	} else {
		c.DormantNPCs = append(c.DormantNPCs, npc)
	}
	return nil
}

// GetNPC looks an NPC up by id in the current campaign.
func (m *Manager) GetNPC(id string) (*model.NPC, error) {
	c := m.current
	if c == nil {
		return nil, ErrNoCampaign
	}
	npc, ok := c.FindNPC(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNPCNotFound, id)
	}
	return npc, nil
}

// FactionShiftResult reports a standing shift and the reactions it
// provoked among active NPCs aligned with the faction.
type FactionShiftResult struct {
	Faction   model.Faction      `json:"faction"`
	Before    model.Standing     `json:"before"`
	After     model.Standing     `json:"after"`
	Reason    string             `json:"reason"`
	Reactions []trigger.Reaction `json:"npc_reactions,omitempty"`
}

// ShiftFaction applies a clamped standing shift, logs a faction_shift
// history entry naming the faction and resulting standing label, and
// feeds the derived event tag to every active NPC aligned with the
// faction. The tag rule: delta > 0 yields helped_<faction>, any other
// delta yields betrayed_<faction>, regardless of magnitude.
func (m *Manager) ShiftFaction(faction model.Faction, delta int, reason string) (*FactionShiftResult, error) {
	c := m.current
	if c == nil {
		return nil, ErrNoCampaign
	}
	fs, ok := c.Factions[faction]
	if !ok {
		return nil, fmt.Errorf("%w: faction %q", model.ErrInvalidValue, faction)
	}

	before := fs.Standing
	after := fs.Shift(delta)

	summary := fmt.Sprintf("Standing with %s is now %s: %s", faction, after, reason)
	m.appendHistory(model.HistoryEntry{
		Type:      model.EntryFactionShift,
		Summary:   summary,
		Permanent: false,
	})

	tag := fmt.Sprintf("helped_%s", faction)
	if delta <= 0 {
		tag = fmt.Sprintf("betrayed_%s", faction)
	}

	var reactions []trigger.Reaction
	for _, npc := range c.ActiveNPCs {
		if npc.Faction != faction {
			continue
		}
		if r, fired := trigger.React(npc, []string{tag}); fired {
			reactions = append(reactions, r)
		}
	}

	m.log.Info("faction standing shifted",
		zap.String("faction", string(faction)),
		zap.Int("delta", delta),
		zap.String("before", before.String()),
		zap.String("after", after.String()),
		zap.Int("reactions", len(reactions)))

	return &FactionShiftResult{
		Faction:   faction,
		Before:    before,
		After:     after,
		Reason:    reason,
		Reactions: reactions,
	}, nil
}

// DispositionChange reports an NPC disposition update.
type DispositionChange struct {
	NPCID  string            `json:"npc_id"`
	Before model.Disposition `json:"before"`
	After  model.Disposition `json:"after"`
}

// UpdateNPCDisposition sets an NPC's disposition directly.
func (m *Manager) UpdateNPCDisposition(id string, d model.Disposition) (*DispositionChange, error) {
	npc, err := m.GetNPC(id)
	if err != nil {
		return nil, err
	}
	before := npc.Disposition
	npc.Disposition = d
	m.log.Info("npc disposition updated",
		zap.String("npc_id", id),
		zap.String("before", before.String()),
		zap.String("after", d.String()))
	return &DispositionChange{NPCID: id, Before: before, After: d}, nil
}

// LogHistory appends an entry to the chronicle, stamped with the current
// session number and a fresh id.
func (m *Manager) LogHistory(t model.EntryType, summary string, permanent bool) (*model.HistoryEntry, error) {
	if m.current == nil {
		return nil, ErrNoCampaign
	}
	if _, err := model.ParseEntryType(string(t)); err != nil {
		return nil, err
	}
	return m.appendHistory(model.HistoryEntry{
		Type:      t,
		Summary:   summary,
		Permanent: permanent,
	}), nil
}

// LogHingeMoment records an irreversible narrative choice. Hinge entries
// are always permanent and their summary carries the hinge marker.
func (m *Manager) LogHingeMoment(situation, choice, reasoning string) (*model.HistoryEntry, error) {
	if m.current == nil {
		return nil, ErrNoCampaign
	}
	return m.appendHistory(model.HistoryEntry{
		Type:      model.EntryHinge,
		Summary:   fmt.Sprintf("Hinge moment: %s", choice),
		Permanent: true,
		Hinge: &model.HingeDetail{
			Situation: situation,
			Choice:    choice,
			Reasoning: reasoning,
		},
	}), nil
}

// EndSessionParams configures EndSession. Social energy resets by
// default; set KeepSocialEnergy to suppress it.
type EndSessionParams struct {
	Summary          string
	Reflections      string
	MissionTitle     string
	KeepSocialEnergy bool
}

// EndSession closes the current session: appends a mission entry
// referencing the session number, resets every character's social energy
// to maximum unless suppressed, replaces the last-session snapshot with a
// fresh capture of the now-current state, advances the session counter,
// and saves through to durable stores. A failed write rolls every
// in-memory mutation back, so the session boundary is all-or-nothing.
func (m *Manager) EndSession(ctx context.Context, p EndSessionParams) (*model.HistoryEntry, error) {
	c := m.current
	if c == nil {
		return nil, ErrNoCampaign
	}

	historyLen := len(c.History)
	prevSnapshot := c.LastSnapshot
	prevEnergy := make([]int, len(c.Characters))
	for i, ch := range c.Characters {
		prevEnergy[i] = ch.SocialEnergy
	}

	entry := model.HistoryEntry{
		Type:    model.EntryMission,
		Summary: fmt.Sprintf("Session %d: %s", c.Session, p.Summary),
	}
	if p.MissionTitle != "" {
		entry.Mission = &model.MissionDetail{
			Title:       p.MissionTitle,
			Reflections: p.Reflections,
		}
	}
	logged := m.appendHistory(entry)

	if !p.KeepSocialEnergy {
		for i := range c.Characters {
			c.Characters[i].SocialEnergy = model.MaxSocialEnergy
		}
	}

	c.LastSnapshot = c.Capture(c.Session)
	c.Session++

	if err := m.SaveCampaign(ctx); err != nil {
		c.History = c.History[:historyLen]
		c.LastSnapshot = prevSnapshot
		c.Session--
		for i := range c.Characters {
			c.Characters[i].SocialEnergy = prevEnergy[i]
		}
		return nil, err
	}
	m.log.Info("session ended",
		zap.String("campaign", c.ID),
		zap.Int("session", c.LastSnapshot.Session))
	return logged, nil
}

// CheckNPCTriggers runs the trigger engine over every active NPC and
// returns only those with at least one firing.
func (m *Manager) CheckNPCTriggers(tags []string) []trigger.Reaction {
	c := m.current
	if c == nil {
		return nil
	}
	var reactions []trigger.Reaction
	for _, npc := range c.ActiveNPCs {
		if r, fired := trigger.React(npc, tags); fired {
			reactions = append(reactions, r)
		}
	}
	return reactions
}

// SessionChanges diffs current standings and dispositions against the
// last snapshot. Empty when no snapshot exists.
func (m *Manager) SessionChanges() []Change {
	c := m.current
	if c == nil || c.LastSnapshot == nil {
		return nil
	}
	return diffSnapshot(c, c.LastSnapshot)
}

// SaveCampaign writes the current campaign through to the store when the
// store is durable; on an ephemeral store it is a no-op.
func (m *Manager) SaveCampaign(ctx context.Context) error {
	if m.current == nil {
		return ErrNoCampaign
	}
	if !store.Durable(m.Store) {
		return nil
	}
	return m.PersistCampaign(ctx)
}

// PersistCampaign always forces a write-through regardless of store kind.
func (m *Manager) PersistCampaign(ctx context.Context) error {
	if m.current == nil {
		return ErrNoCampaign
	}
	return m.persist(ctx, m.current)
}

// persist stamps SavedAt and writes the document. On failure SavedAt is
// restored, so the wiki mtime guard keeps comparing against the last
// write that actually landed.
func (m *Manager) persist(ctx context.Context, c *model.Campaign) error {
	prev := c.SavedAt
	c.SavedAt = time.Now().UTC()
	doc, err := json.Marshal(c)
	if err != nil {
		c.SavedAt = prev
		return fmt.Errorf("encode campaign %s: %w", c.ID, err)
	}
	if err := m.Store.Put(ctx, c.ID, doc); err != nil {
		c.SavedAt = prev
		return fmt.Errorf("persist campaign %s: %w", c.ID, err)
	}
	return nil
}

func (m *Manager) appendHistory(entry model.HistoryEntry) *model.HistoryEntry {
	c := m.current
	entry.ID = uuid.New().String()
	entry.Session = c.Session
	entry.Timestamp = time.Now().UTC()
	c.History = append(c.History, entry)
	return &c.History[len(c.History)-1]
}
