package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/config"
	"github.com/aliskhannn/concept-review-bot/internal/delivery/telegram"
	"github.com/aliskhannn/concept-review-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/concept-review-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/concept-review-bot/internal/logger"
	"github.com/aliskhannn/concept-review-bot/internal/metrics"
	"github.com/aliskhannn/concept-review-bot/internal/remotesync"
	"github.com/aliskhannn/concept-review-bot/internal/repository"
	"github.com/aliskhannn/concept-review-bot/internal/service"
	"github.com/aliskhannn/concept-review-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The corpus is required: without it no session can be built.
	content, err := repository.NewContentRepository(cfg.Content.Dir, cfg.Content.Manifest)
	if err != nil {
		lg.Fatal("failed to load study content", zap.Error(err))
	}

	chapters, _ := content.GetChapters(ctx)
	lg.Info("study content loaded", zap.Int("chapters", len(chapters)))

	profiles, closeStore := newProfileRepository(ctx, cfg, lg)
	defer closeStore()

	m := metrics.New()
	if cfg.Metrics.Addr != "" {
		go serveMetrics(ctx, cfg.Metrics.Addr, m, lg)
	}

	learners := service.NewLearnerService(profiles, service.EngineConfig{
		Session: service.SessionConfig{
			Size:           cfg.Study.SessionSize,
			MaxNewConcepts: cfg.Study.MaxNewConcepts,
		},
		ExamSize: cfg.Study.ExamSize,
	}, lg)

	var client service.SyncClient
	if cfg.Sync.URL != "" {
		c, err := remotesync.NewClient(cfg.Sync.URL, cfg.Sync.Timeout)
		if err != nil {
			lg.Fatal("failed to create sync client", zap.Error(err))
		}
		client = c
	}

	syncService := service.NewSyncService(client, content, learners, m, lg)
	go syncService.Start(ctx, cfg.Sync.Schedule)

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		lg.Fatal("failed to create bot", zap.Error(err))
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "chapters", Description: "List chapters"},
		{Command: "chapter", Description: "Concepts of a chapter (usage: /chapter <id>)"},
		{Command: "study", Description: "Adaptive study session (usage: /study [chapter|all])"},
		{Command: "exam", Description: "Exam without feedback (usage: /exam [chapter|all] [n])"},
		{Command: "stats", Description: "Show progress"},
		{Command: "skip", Description: "Skip or restore a concept (usage: /skip <concept>)"},
		{Command: "size", Description: "Set study session length"},
		{Command: "name", Description: "Show or set display name"},
		{Command: "reset", Description: "Reset all progress"},
	}

	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	handler := telegram.NewHandler(
		bot,
		lg,
		content,
		learners,
		syncService,
		storage.NewSessionStorage(),
		m,
	)
	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		lg.Error("telegram handler stopped", zap.Error(err))
	}

	// Flush unsynced progress before exit.
	if syncService.Enabled() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Sync.Timeout)
		n := syncService.PushDirty(flushCtx)
		cancel()
		lg.Info("pushed unsynced learners on shutdown", zap.Int("count", n))
	}

	lg.Info("shutdown signal received")
}

// newProfileRepository builds the configured profile store and its cleanup func.
func newProfileRepository(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.ProfileRepository, func()) {
	if cfg.Storage.Driver == config.StorageDriverFile {
		repo, err := repository.NewFileProfileRepository(cfg.Storage.FileDir)
		if err != nil {
			lg.Fatal("failed to open profile directory", zap.Error(err))
		}
		lg.Info("using file profile storage", zap.String("dir", cfg.Storage.FileDir))
		return repo, func() {}
	}

	dsn, err := cfg.DB.DSN()
	if err != nil {
		lg.Fatal("database url is not configured", zap.Error(err))
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(cfg.DB.MaxConnections),
		MaxConnLifetime: cfg.DB.MaxConnLifetime,
	})
	if err != nil {
		lg.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		lg.Fatal("failed to prepare database schema", zap.Error(err))
	}

	lg.Info("using postgres profile storage")
	return pgrepo.NewProfileRepository(pool, postgres.NewTransactor(pool)), pool.Close
}

func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, lg *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	lg.Info("metrics server started", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Error("metrics server failed", zap.Error(err))
	}
}
