package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/metrics"
)

// SyncService pushes learner snapshots to a remote endpoint and merges remote snapshots back.
// Every failure is logged and swallowed: local state stays authoritative until a later sync succeeds.
type SyncService struct {
	client   SyncClient
	content  ContentRepository
	learners *LearnerService
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewSyncService creates a new sync service. A nil client disables syncing; otherwise every
// learner engine pulls its remote snapshot once when it is first loaded.
func NewSyncService(
	client SyncClient,
	content ContentRepository,
	learners *LearnerService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *SyncService {
	s := &SyncService{
		client:   client,
		content:  content,
		learners: learners,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
	if s.Enabled() && learners != nil {
		learners.OnLoad(s.Pull)
	}
	return s
}

// Enabled reports whether a sync client is configured.
func (s *SyncService) Enabled() bool {
	return s.client != nil
}

// Push sends the learner's snapshot. Fire-and-forget: errors are only logged.
func (s *SyncService) Push(ctx context.Context, e *Engine) {
	if !s.Enabled() {
		return
	}

	chapters, err := s.content.GetChapters(ctx)
	if err != nil {
		s.logger.Debug("sync push skipped: content unavailable", zap.Error(err))
		return
	}

	payload, revision := e.SyncPayload(chapters)
	err = s.client.Push(ctx, e.LearnerID(), payload)
	s.metrics.ObservePush(err)
	if err != nil {
		s.logger.Debug("sync push failed",
			zap.Int64("learner_id", e.LearnerID()),
			zap.Error(err),
		)
		return
	}

	if err := e.MarkSynced(ctx, s.now(), revision); err != nil {
		s.logger.Warn("failed to record sync time",
			zap.Int64("learner_id", e.LearnerID()),
			zap.Error(err),
		)
	}
}

// Pull fetches the learner's remote snapshot and merges it. Errors are only logged.
func (s *SyncService) Pull(ctx context.Context, e *Engine) {
	if !s.Enabled() {
		return
	}

	remote, err := s.client.Pull(ctx, e.LearnerID())
	if err != nil {
		s.logger.Debug("sync pull failed",
			zap.Int64("learner_id", e.LearnerID()),
			zap.Error(err),
		)
		return
	}
	if remote == nil || len(remote.Concepts) == 0 {
		return
	}

	if err := e.Merge(ctx, remote); err != nil {
		s.logger.Warn("failed to merge remote profile",
			zap.Int64("learner_id", e.LearnerID()),
			zap.Error(err),
		)
		return
	}

	s.logger.Info("remote profile merged", zap.Int64("learner_id", e.LearnerID()))
}

// PushDirty pushes every learner with unsynced changes.
func (s *SyncService) PushDirty(ctx context.Context) int {
	dirty := s.learners.Dirty()
	for _, e := range dirty {
		if ctx.Err() != nil {
			break
		}
		s.Push(ctx, e)
	}
	return len(dirty)
}

// Start runs periodic pushes on the given cron schedule until ctx is done.
func (s *SyncService) Start(ctx context.Context, schedule string) {
	if !s.Enabled() {
		s.logger.Info("sync disabled")
		return
	}

	s.logger.Info("sync service started", zap.String("schedule", schedule))

	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc(schedule, func() {
		n := s.PushDirty(ctx)
		s.logger.Debug("cron triggered: pushed dirty learners", zap.Int("count", n))
	})
	if err != nil {
		s.logger.Error("failed to add cron job", zap.Error(err))
		return
	}

	c.Start()

	<-ctx.Done()

	<-c.Stop().Done()
	s.logger.Info("sync service stopped")
}
