package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
	"github.com/aliskhannn/concept-review-bot/internal/repository"
)

// handleStart greets the learner.
func (h *Handler) handleStart(userID int64, firstName string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		e, _ := h.learners.Engine(ctx, userID)

		name := e.DisplayName()
		if name == "" {
			name = firstName
		}

		return h.send(newMessage(chatID, msgWelcome(name)))
	}
}

// handleName shows or sets the learner's display name.
func (h *Handler) handleName(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		e, _ := h.learners.Engine(ctx, userID)

		name := strings.TrimSpace(args)
		if name == "" {
			return h.send(newMessage(chatID, msgDisplayName(e.DisplayName())))
		}

		if err := e.SetDisplayName(ctx, name); err != nil {
			return fmt.Errorf("set display name: %w", err)
		}

		return h.send(newMessage(chatID, msgDisplayNameSaved(name)))
	}
}

// handleChapters lists chapters with study and exam buttons.
func (h *Handler) handleChapters(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		chapters, err := h.content.GetChapters(ctx)
		if err != nil {
			h.logger.Error("failed to get chapters", zap.Error(err))
			return h.send(newPlainMessage(chatID, msgContentUnavailable))
		}

		e, _ := h.learners.Engine(ctx, userID)
		overall := e.OverallStatistics(chapters)

		msg := newMessage(chatID, formatChapters(chapters, overall))
		msg.ReplyMarkup = buildChaptersKeyboard(chapters)
		return h.send(msg)
	}
}

// handleChapter shows the concepts of a chapter with skip toggles.
func (h *Handler) handleChapter(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		chapterID := strings.TrimSpace(args)
		if chapterID == "" {
			return h.send(newPlainMessage(chatID, msgUseChapter))
		}
		return h.sendChapterDetail(ctx, chatID, userID, chapterID)
	}
}

// sendChapterDetail sends the concept view of a chapter.
func (h *Handler) sendChapterDetail(ctx context.Context, chatID, userID int64, chapterID string) error {
	ch, err := h.content.GetChapter(ctx, chapterID)
	if err != nil {
		if errors.Is(err, repository.ErrChapterNotFound) {
			return h.send(newMessage(chatID, msgChapterNotFound(chapterID)))
		}
		h.logger.Error("failed to get chapter", zap.String("chapter_id", chapterID), zap.Error(err))
		return h.send(newPlainMessage(chatID, msgContentUnavailable))
	}

	e, _ := h.learners.Engine(ctx, userID)
	detail := e.ChapterDetail(ch)

	msg := newMessage(chatID, formatChapterDetail(detail))
	msg.ReplyMarkup = buildChapterDetailKeyboard(detail)
	return h.send(msg)
}

// handleStudy starts an adaptive study session.
func (h *Handler) handleStudy(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		chapterID, _, ok := parseScopeArgs(args)
		if !ok {
			return h.send(newMessage(chatID, msgUnknownCommand()))
		}
		return h.startSession(ctx, chatID, userID, entities.SessionModeStudy, chapterID, 0)
	}
}

// handleExam starts an exam over the selected chapters.
func (h *Handler) handleExam(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		chapterID, count, ok := parseScopeArgs(args)
		if !ok {
			return h.send(newPlainMessage(chatID, msgUseExam))
		}
		return h.startSession(ctx, chatID, userID, entities.SessionModeExam, chapterID, count)
	}
}

// handleStats shows the learner's progress.
func (h *Handler) handleStats(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		chapters, err := h.content.GetChapters(ctx)
		if err != nil {
			h.logger.Error("failed to get chapters", zap.Error(err))
			return h.send(newPlainMessage(chatID, msgContentUnavailable))
		}

		e, _ := h.learners.Engine(ctx, userID)

		stats := make([]entities.ChapterStats, 0, len(chapters))
		for _, ch := range chapters {
			stats = append(stats, e.ChapterStatistics(ch))
		}

		text := formatStats(e.DisplayName(), chapters, stats, e.OverallStatistics(chapters))
		return h.send(newMessage(chatID, text))
	}
}

// handleSkip toggles the skip state of a concept.
func (h *Handler) handleSkip(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		conceptID := strings.TrimSpace(args)
		if conceptID == "" {
			return h.send(newPlainMessage(chatID, msgUseSkip))
		}

		_, concept, err := h.content.GetConcept(ctx, conceptID)
		if err != nil {
			if errors.Is(err, repository.ErrConceptNotFound) {
				return h.send(newMessage(chatID, msgConceptNotFound(conceptID)))
			}
			return fmt.Errorf("get concept: %w", err)
		}

		e, _ := h.learners.Engine(ctx, userID)
		skipped, err := e.ToggleSkip(ctx, concept.ID)
		if err != nil {
			return fmt.Errorf("toggle skip: %w", err)
		}

		h.logger.Info("concept skip toggled",
			zap.Int64("user_id", userID),
			zap.String("concept_id", concept.ID),
			zap.Bool("skipped", skipped),
		)

		return h.send(newMessage(chatID, msgSkipToggled(concept.Term, skipped)))
	}
}

// handleSize changes the number of questions in study sessions.
func (h *Handler) handleSize(userID int64, args string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		n, err := strconv.Atoi(strings.TrimSpace(args))
		if err != nil || n <= 0 {
			return h.send(newPlainMessage(chatID, msgUseSize))
		}

		e, _ := h.learners.Engine(ctx, userID)
		e.SetSessionSize(n)

		return h.send(newMessage(chatID, msgSessionSize(e.SessionSize())))
	}
}

// handleReset asks for confirmation before erasing progress.
func (h *Handler) handleReset() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		msg := newMessage(chatID, msgResetConfirm())
		msg.ReplyMarkup = buildResetKeyboard()
		return h.send(msg)
	}
}

// startSession builds a session over the chosen scope and sends its first question.
// An empty chapterID selects every chapter.
func (h *Handler) startSession(
	ctx context.Context,
	chatID, userID int64,
	mode entities.SessionMode,
	chapterID string,
	count int,
) error {
	chapters, err := h.resolveChapters(ctx, chapterID)
	if err != nil {
		if errors.Is(err, repository.ErrChapterNotFound) {
			return h.send(newMessage(chatID, msgChapterNotFound(chapterID)))
		}
		h.logger.Error("failed to get chapters", zap.Error(err))
		return h.send(newPlainMessage(chatID, msgContentUnavailable))
	}

	e, _ := h.learners.Engine(ctx, userID)

	var questions []entities.Question
	if mode == entities.SessionModeExam {
		questions = e.BuildExamSession(chapters, count)
	} else {
		questions = e.BuildStudySession(chapters)
	}

	if len(questions) == 0 {
		if mode == entities.SessionModeExam {
			return h.send(newMessage(chatID, msgNoExamQuestions()))
		}
		return h.send(newMessage(chatID, msgNothingToStudy()))
	}

	ids := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		ids = append(ids, ch.ID)
	}

	if prev, ok := h.sessions.Active(userID); ok {
		h.logger.Debug("unfinished session replaced",
			zap.Int64("user_id", userID),
			zap.String("session_id", prev.ID),
		)
		if err := h.send(newMessage(chatID, msgSessionReplaced(prev.Current, prev.Total()))); err != nil {
			return err
		}
	}

	session := entities.NewQuizSession(userID, mode, ids, questions, h.now())
	h.sessions.Store(session)
	h.metrics.ObserveSession(mode)

	h.logger.Debug("session started",
		zap.Int64("user_id", userID),
		zap.String("session_id", session.ID),
		zap.String("mode", string(mode)),
		zap.Int("questions", session.Total()),
	)

	if err := h.send(newMessage(chatID, buildSessionStartMessage(mode, session.Total()))); err != nil {
		return err
	}

	return h.sendQuestion(chatID, session)
}

// sendQuestion sends the session's current question with answer buttons.
func (h *Handler) sendQuestion(chatID int64, session *entities.QuizSession) error {
	q := session.CurrentQuestion()
	if q == nil {
		return nil
	}

	msg := newMessage(chatID, formatQuestion(q, session.Current+1, session.Total()))
	msg.ReplyMarkup = buildAnswerKeyboard(q, session.ID, session.Current)
	return h.send(msg)
}

func (h *Handler) resolveChapters(ctx context.Context, chapterID string) ([]*entities.Chapter, error) {
	if chapterID == "" {
		return h.content.GetChapters(ctx)
	}

	ch, err := h.content.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	return []*entities.Chapter{ch}, nil
}
