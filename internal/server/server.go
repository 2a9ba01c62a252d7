package server

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/chronicle/internal/config"
	"github.com/agenthands/chronicle/internal/core"
	"github.com/agenthands/chronicle/internal/core/wiki"
	"github.com/agenthands/chronicle/internal/store"
)

// Server wires the Manager, its store, and the wiki sync pipeline behind
// the HTTP surface. The Manager is not safe for concurrent use, and the
// wiki watcher mutates the same campaign from its own goroutine, so mu
// serializes every Manager and Syncer access.
type Server struct {
	Manager *core.Manager
	Syncer  *wiki.Syncer

	mu      sync.Mutex
	cfg     *config.Config
	log     *zap.Logger
	watcher *wiki.Watcher
}

func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	applyEnvOverrides(cfg)

	st, err := buildStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &Server{
		Manager: core.NewManager(st, logger),
		Syncer:  wiki.NewSyncer(cfg.Wiki.Root, logger),
		cfg:     cfg,
		log:     logger,
	}, nil
}

// applyEnvOverrides lets deployment env vars win over the TOML file.
func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("STORE_KIND"); v != "" {
		cfg.Store.Kind = v
	}
	if v := os.Getenv("STORE_DIR"); v != "" {
		cfg.Store.Dir = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("GRAPH_URI"); v != "" {
		cfg.Graph.URI = v
	}
	if v := os.Getenv("GRAPH_USER"); v != "" {
		cfg.Graph.User = v
	}
	if v := os.Getenv("GRAPH_PASSWORD"); v != "" {
		cfg.Graph.Password = v
	}
	if v := os.Getenv("WIKI_ROOT"); v != "" {
		cfg.Wiki.Root = v
	}
}

func buildStore(cfg *config.Config, logger *zap.Logger) (store.Store, error) {
	switch cfg.Store.Kind {
	case "", "file":
		return store.NewFile(cfg.Store.Dir)
	case "memory":
		return store.NewMemory(), nil
	case "bolt":
		return store.NewBolt(cfg.Store.Path)
	case "graph":
		return store.NewGraph(cfg.Graph.URI, cfg.Graph.User, cfg.Graph.Password, logger)
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}
}

// StartWiki begins watching the wiki root and merging external edits
// into the current campaign.
func (s *Server) StartWiki() error {
	if !s.cfg.Wiki.Enabled {
		return nil
	}
	if err := os.MkdirAll(s.cfg.Wiki.Root, 0o755); err != nil {
		return fmt.Errorf("create wiki root: %w", err)
	}
	debounce := time.Duration(s.cfg.Wiki.DebounceMS) * time.Millisecond
	w, err := wiki.NewWatcher(s.cfg.Wiki.Root, debounce, s.handleWikiChange, s.log)
	if err != nil {
		return fmt.Errorf("start wiki watcher: %w", err)
	}
	s.watcher = w
	return nil
}

func (s *Server) handleWikiChange(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.Manager.Current()
	if c == nil {
		return
	}
	if err := s.Syncer.HandleChange(c, path); err != nil {
		s.log.Warn("wiki sync rejected", zap.String("path", path), zap.Error(err))
	}
}

// Close releases the watcher and the backing store.
func (s *Server) Close() error {
	if s.watcher != nil {
		s.watcher.Close()
	}
	return s.Manager.Store.Close()
}
