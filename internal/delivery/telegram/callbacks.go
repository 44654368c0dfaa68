package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}

	var notice string
	cd := decodeCallback(cb.Data)
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch cd.Action {
	case actionAnswer:
		notice = h.handleAnswerCallback(ctx, cb, cd)
	case actionStudy, actionExam:
		mode := entities.SessionModeStudy
		if cd.Action == actionExam {
			mode = entities.SessionModeExam
		}
		scope := ""
		if len(cd.Params) > 0 && cd.Params[0] != allChapters {
			scope = cd.Params[0]
		}
		_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
			return h.startSession(ctx, chatID, userID, mode, scope, 0)
		})(ctx, chatID)
	case actionReset:
		notice = h.handleResetCallback(ctx, cb, cd)
	case actionDetail:
		if len(cd.Params) == 1 {
			_ = h.withErrorHandling(func(ctx context.Context, chatID int64) error {
				return h.sendChapterDetail(ctx, chatID, userID, cd.Params[0])
			})(ctx, chatID)
		}
	case actionSkip:
		notice = h.handleSkipCallback(ctx, cb, cd)
	default:
		h.logger.Debug("unknown callback", zap.String("data", cb.Data))
	}

	// Remove the user's "clock".
	answer := tgbotapi.NewCallback(cb.ID, notice)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Debug("callback answer error", zap.Error(err))
	}
}

// handleAnswerCallback records the chosen answer and moves the session forward.
// It returns a short notice shown to the user, if any.
func (h *Handler) handleAnswerCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) string {
	ans, ok := parseAnswerCallback(cd)
	if !ok {
		h.logger.Debug("invalid answer callback", zap.String("data", cb.Data))
		return ""
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	session, ok := h.sessions.Get(userID, ans.SessionID)
	if !ok || !session.IsActive() || ans.QuestionIndex != session.Current {
		return msgSessionExpired
	}

	q := session.CurrentQuestion()
	if ans.ChoiceIndex >= len(q.Choices) {
		return msgSessionExpired
	}

	e, _ := h.learners.Engine(ctx, userID)
	correct, err := e.RecordAnswer(ctx, q, ans.ChoiceIndex)
	if err != nil {
		h.logger.Error("failed to record answer",
			zap.Int64("user_id", userID),
			zap.String("question_key", string(q.Key)),
			zap.Error(err),
		)
		return msgProgressNotSaved
	}

	h.metrics.ObserveAnswer(q.Level, correct)
	session.Advance(correct, h.now())

	text := formatQuestion(q, ans.QuestionIndex+1, session.Total()) + "\n\n"
	if session.Mode == entities.SessionModeExam {
		text += formatExamAck(q.Choices[ans.ChoiceIndex])
	} else {
		text += formatAnswerFeedback(correct, q.CorrectAnswer())
	}
	_ = h.send(newEdit(chatID, cb.Message.MessageID, text))

	if session.IsActive() {
		_ = h.sendQuestion(chatID, session)
		return ""
	}

	h.sessions.Delete(userID)

	h.logger.Info("session completed",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID),
		zap.String("mode", string(session.Mode)),
		zap.Int("correct", session.CorrectAnswers),
		zap.Int("total", session.Total()),
	)

	msg := newMessage(chatID, formatSessionResult(session))
	msg.ReplyMarkup = buildSessionResultKeyboard(session)
	_ = h.send(msg)

	h.pushAsync(ctx, userID)

	return ""
}

func (h *Handler) handleResetCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) string {
	if len(cd.Params) != 1 {
		return ""
	}

	chatID := cb.Message.Chat.ID
	userID := cb.From.ID

	switch cd.Params[0] {
	case resetConfirm:
		e, _ := h.learners.Engine(ctx, userID)
		if err := e.Reset(ctx); err != nil {
			h.logger.Error("failed to reset progress",
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
			return msgInternalError
		}

		h.sessions.Delete(userID)
		h.logger.Info("progress reset", zap.Int64("user_id", userID))
		_ = h.send(newEdit(chatID, cb.Message.MessageID, msgResetDone()))
		h.pushAsync(ctx, userID)

	case resetCancel:
		_ = h.send(newEdit(chatID, cb.Message.MessageID, msgResetCancelled()))
	}

	return ""
}

// handleSkipCallback toggles a concept from the chapter view and redraws the view in place.
func (h *Handler) handleSkipCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, cd callbackData) string {
	chapterID, conceptID, ok := parseSkipCallback(cd)
	if !ok {
		h.logger.Debug("invalid skip callback", zap.String("data", cb.Data))
		return ""
	}

	userID := cb.From.ID
	chatID := cb.Message.Chat.ID

	ch, err := h.content.GetChapter(ctx, chapterID)
	if err != nil {
		h.logger.Debug("skip callback for unknown chapter",
			zap.String("chapter_id", chapterID),
			zap.Error(err),
		)
		return msgChapterUnavailable
	}
	concept := ch.Concept(conceptID)
	if concept == nil {
		return msgChapterUnavailable
	}

	e, _ := h.learners.Engine(ctx, userID)
	skipped, err := e.ToggleSkip(ctx, concept.ID)
	if err != nil {
		h.logger.Error("failed to toggle skip",
			zap.Int64("user_id", userID),
			zap.String("concept_id", concept.ID),
			zap.Error(err),
		)
		return msgProgressNotSaved
	}

	h.logger.Info("concept skip toggled",
		zap.Int64("user_id", userID),
		zap.String("concept_id", concept.ID),
		zap.Bool("skipped", skipped),
	)

	detail := e.ChapterDetail(ch)
	edit := newEdit(chatID, cb.Message.MessageID, formatChapterDetail(detail))
	markup := buildChapterDetailKeyboard(detail)
	edit.ReplyMarkup = &markup
	_ = h.send(edit)

	return skipNotice(concept.Term, skipped)
}
