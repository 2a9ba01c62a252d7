package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/chronicle/internal/core"
	"github.com/agenthands/chronicle/internal/core/model"
	"github.com/agenthands/chronicle/internal/store"
)

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/campaigns", s.ListCampaigns)
	r.POST("/campaigns", s.CreateCampaign)
	r.POST("/campaigns/:id/load", s.LoadCampaign)

	r.GET("/campaign", s.GetCampaign)
	r.POST("/campaign/npcs", s.AddNPC)
	r.PUT("/campaign/npcs/:id/disposition", s.UpdateDisposition)
	r.POST("/campaign/factions/:faction/shift", s.ShiftFaction)
	r.POST("/campaign/history", s.LogHistory)
	r.POST("/campaign/hinges", s.LogHinge)
	r.POST("/campaign/session/end", s.EndSession)
	r.POST("/campaign/triggers/check", s.CheckTriggers)
	r.GET("/campaign/changes", s.SessionChanges)
	r.POST("/campaign/persist", s.Persist)
	r.POST("/campaign/export", s.ExportWiki)

	return r
}

func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, core.ErrNPCNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidValue), errors.Is(err, core.ErrNoCampaign),
		errors.Is(err, core.ErrDuplicateNPC):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.log.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

type CreateCampaignRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *Server) CreateCampaign(c *gin.Context) {
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, err := s.Manager.CreateCampaign(c.Request.Context(), req.Name)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (s *Server) ListCampaigns(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids, err := s.Manager.ListCampaigns(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": ids})
}

func (s *Server) LoadCampaign(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign, err := s.Manager.LoadCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (s *Server) GetCampaign(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign := s.Manager.Current()
	if campaign == nil {
		s.fail(c, core.ErrNoCampaign)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

type AddNPCRequest struct {
	Name        string                `json:"name" binding:"required"`
	Faction     string                `json:"faction"`
	Disposition string                `json:"disposition"`
	Wants       string                `json:"wants"`
	Fears       string                `json:"fears"`
	Triggers    []model.MemoryTrigger `json:"triggers"`
	Active      *bool                 `json:"active"`
}

func (s *Server) AddNPC(c *gin.Context) {
	var req AddNPCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	npc := &model.NPC{
		Name:     req.Name,
		Faction:  model.Faction(req.Faction),
		Agenda:   model.Agenda{Wants: req.Wants, Fears: req.Fears},
		Triggers: req.Triggers,
	}
	if req.Disposition != "" {
		d, err := model.ParseDisposition(req.Disposition)
		if err != nil {
			s.fail(c, err)
			return
		}
		npc.Disposition = d
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Manager.AddNPC(npc, active); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, npc)
}

type UpdateDispositionRequest struct {
	Disposition string `json:"disposition" binding:"required"`
}

func (s *Server) UpdateDisposition(c *gin.Context) {
	var req UpdateDispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	d, err := model.ParseDisposition(req.Disposition)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	change, err := s.Manager.UpdateNPCDisposition(c.Param("id"), d)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, change)
}

type ShiftFactionRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

func (s *Server) ShiftFaction(c *gin.Context) {
	var req ShiftFactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	faction, err := model.ParseFaction(c.Param("faction"))
	if err != nil {
		s.fail(c, err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	result, err := s.Manager.ShiftFaction(faction, req.Delta, req.Reason)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type LogHistoryRequest struct {
	Type      string `json:"type" binding:"required"`
	Summary   string `json:"summary" binding:"required"`
	Permanent bool   `json:"permanent"`
}

func (s *Server) LogHistory(c *gin.Context) {
	var req LogHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.Manager.LogHistory(model.EntryType(req.Type), req.Summary, req.Permanent)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type LogHingeRequest struct {
	Situation string `json:"situation" binding:"required"`
	Choice    string `json:"choice" binding:"required"`
	Reasoning string `json:"reasoning"`
}

func (s *Server) LogHinge(c *gin.Context) {
	var req LogHingeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.Manager.LogHingeMoment(req.Situation, req.Choice, req.Reasoning)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

type EndSessionRequest struct {
	Summary          string `json:"summary" binding:"required"`
	Reflections      string `json:"reflections"`
	MissionTitle     string `json:"mission_title"`
	KeepSocialEnergy bool   `json:"keep_social_energy"`
}

func (s *Server) EndSession(c *gin.Context) {
	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.Manager.EndSession(c.Request.Context(), core.EndSessionParams{
		Summary:          req.Summary,
		Reflections:      req.Reflections,
		MissionTitle:     req.MissionTitle,
		KeepSocialEnergy: req.KeepSocialEnergy,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

type CheckTriggersRequest struct {
	Tags []string `json:"tags" binding:"required"`
}

func (s *Server) CheckTriggers(c *gin.Context) {
	var req CheckTriggersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"reactions": s.Manager.CheckNPCTriggers(req.Tags)})
}

func (s *Server) SessionChanges(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	changes := s.Manager.SessionChanges()
	if changes == nil {
		changes = []core.Change{}
	}
	c.JSON(http.StatusOK, gin.H{"changes": changes})
}

func (s *Server) Persist(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Manager.PersistCampaign(c.Request.Context()); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

func (s *Server) ExportWiki(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	campaign := s.Manager.Current()
	if campaign == nil {
		s.fail(c, core.ErrNoCampaign)
		return
	}
	if err := s.Syncer.Export(campaign); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
