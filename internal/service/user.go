package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// EngineHook runs once on a freshly loaded engine before it is handed out.
type EngineHook func(ctx context.Context, e *Engine)

type engineEntry struct {
	ready  chan struct{}
	engine *Engine
}

// LearnerService keeps one loaded engine per learner.
type LearnerService struct {
	mu      sync.Mutex
	engines map[int64]*engineEntry
	hooks   []EngineHook

	repository ProfileRepository
	cfg        EngineConfig
	logger     *zap.Logger
}

// NewLearnerService creates a new LearnerService. cfg.Rand is ignored: every engine gets its
// own source since random sources are not safe for concurrent use.
func NewLearnerService(repository ProfileRepository, cfg EngineConfig, logger *zap.Logger) *LearnerService {
	return &LearnerService{
		engines:    make(map[int64]*engineEntry),
		repository: repository,
		cfg:        cfg,
		logger:     logger,
	}
}

// OnLoad registers a hook run after an engine's profile is loaded. Register hooks before
// the first call to Engine.
func (s *LearnerService) OnLoad(hook EngineHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, hook)
}

// Engine returns the learner's engine, loading the profile and running load hooks on first use.
// The second result is true when the engine was created by this call. Concurrent first calls
// for the same learner wait for a single load; other learners are not blocked.
func (s *LearnerService) Engine(ctx context.Context, learnerID int64) (*Engine, bool) {
	s.mu.Lock()
	if entry, ok := s.engines[learnerID]; ok {
		s.mu.Unlock()
		<-entry.ready
		return entry.engine, false
	}

	entry := &engineEntry{ready: make(chan struct{})}
	s.engines[learnerID] = entry
	hooks := append([]EngineHook(nil), s.hooks...)
	s.mu.Unlock()

	cfg := s.cfg
	cfg.Rand = NewRandom()
	e := NewEngine(learnerID, s.repository, s.logger, cfg)
	e.Load(ctx)
	for _, hook := range hooks {
		hook(ctx, e)
	}

	entry.engine = e
	close(entry.ready)

	s.logger.Debug("learner engine loaded", zap.Int64("learner_id", learnerID))

	return e, true
}

// Dirty returns engines with changes that were not pushed yet. Engines still loading are skipped.
func (s *LearnerService) Dirty() []*Engine {
	s.mu.Lock()
	engines := make([]*Engine, 0, len(s.engines))
	for _, entry := range s.engines {
		select {
		case <-entry.ready:
			engines = append(engines, entry.engine)
		default:
		}
	}
	s.mu.Unlock()

	out := engines[:0]
	for _, e := range engines {
		if e.IsDirty() {
			out = append(out, e)
		}
	}
	return out
}
