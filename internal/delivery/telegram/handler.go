package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/metrics"
)

type Handler struct {
	bot      *tgbotapi.BotAPI
	logger   *zap.Logger
	content  ContentService
	learners LearnerService
	sync     SyncService
	sessions SessionStorage
	metrics  *metrics.Metrics
	now      func() time.Time
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	content ContentService,
	learners LearnerService,
	sync SyncService,
	sessions SessionStorage,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		bot:      bot,
		logger:   logger,
		content:  content,
		learners: learners,
		sync:     sync,
		sessions: sessions,
		metrics:  m,
		now:      time.Now,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			h.bot.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	if !update.Message.IsCommand() {
		_ = h.send(newMessage(chatID, msgUnknownCommand()))
		return
	}

	args := update.Message.CommandArguments()

	var fn HandlerFunc
	switch update.Message.Command() {
	case "start":
		fn = h.handleStart(userID, update.Message.From.FirstName)
	case "name":
		fn = h.handleName(userID, args)
	case "chapters":
		fn = h.handleChapters(userID)
	case "chapter":
		fn = h.handleChapter(userID, args)
	case "study":
		fn = h.handleStudy(userID, args)
	case "exam":
		fn = h.handleExam(userID, args)
	case "stats":
		fn = h.handleStats(userID)
	case "skip":
		fn = h.handleSkip(userID, args)
	case "size":
		fn = h.handleSize(userID, args)
	case "reset":
		fn = h.handleReset()
	default:
		_ = h.send(newMessage(chatID, msgUnknownCommand()))
		return
	}

	_ = h.withErrorHandling(fn)(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	_ = h.send(newPlainMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}

// pushAsync pushes the learner's snapshot without blocking the update loop.
func (h *Handler) pushAsync(ctx context.Context, userID int64) {
	e, _ := h.learners.Engine(ctx, userID)
	go h.sync.Push(context.WithoutCancel(ctx), e)
}
