// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// Error messages.
const (
	msgInternalError      = "Something went wrong. Please try again later."
	msgContentUnavailable = "Study material is unavailable right now. Please try again later."
	msgProgressNotSaved   = "Your answer could not be saved. Please try again."
	msgSessionExpired     = "This question is no longer active."
	msgChapterUnavailable = "This chapter is no longer available."
	msgUseSkip            = "Usage: /skip <concept id>"
	msgUseChapter         = "Usage: /chapter <chapter id>"
	msgUseSize            = "Usage: /size <questions per study session>"
	msgUseExam            = "Usage: /exam [chapter id|all] [number of questions]"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

func italic(s string) string {
	return "_" + md(s) + "_"
}

func msgWelcome(name string) string {
	greeting := "Welcome!"
	if name != "" {
		greeting = fmt.Sprintf("Welcome, %s!", name)
	}

	return strings.Join([]string{
		bold(greeting),
		md("Study concepts level by level: recognise the term, recognise the definition, then apply it. " +
			"Answered questions come back for review on a spaced-repetition schedule."),
		commandList(),
	}, "\n\n")
}

func msgUnknownCommand() string {
	return md("Unknown command. Available commands:") + "\n\n" + commandList()
}

func commandList() string {
	return md(strings.Join([]string{
		"/chapters — list chapters",
		"/chapter <id> — concepts of a chapter, skip or restore them",
		"/study [chapter|all] — adaptive study session",
		"/exam [chapter|all] [n] — exam without feedback",
		"/stats — your progress",
		"/skip <concept> — skip or restore a concept",
		"/size <n> — study session length",
		"/name <name> — set your display name",
		"/reset — start over",
	}, "\n"))
}

func msgChapterNotFound(id string) string {
	return md(fmt.Sprintf("Chapter %q not found. See /chapters.", id))
}

func msgConceptNotFound(id string) string {
	return md(fmt.Sprintf("Concept %q not found.", id))
}

func msgNothingToStudy() string {
	return md("🎉 Nothing to study right now: every concept in scope is learned and no reviews are due. " +
		"Try /exam or come back later.")
}

func msgNoExamQuestions() string {
	return md("There are no questions to ask in this scope.")
}

func msgSessionReplaced(answered, total int) string {
	return md(fmt.Sprintf("Your unfinished session (%d of %d answered) was replaced.", answered, total))
}

// skipNotice is the short callback notice after a skip toggle.
func skipNotice(term string, skipped bool) string {
	if skipped {
		return "Skipped: " + term
	}
	return "Restored: " + term
}

func msgSkipToggled(term string, skipped bool) string {
	if skipped {
		return md(fmt.Sprintf("⏭ %s is skipped and will not appear in study sessions.", term))
	}
	return md(fmt.Sprintf("↩️ %s is back in your study sessions.", term))
}

func msgDisplayName(name string) string {
	if name == "" {
		return md("You have no display name yet. Set one with /name <name>.")
	}
	return md("Your display name: ") + bold(name)
}

func msgDisplayNameSaved(name string) string {
	return md("✅ Display name saved: ") + bold(name)
}

func msgSessionSize(size int) string {
	return md(fmt.Sprintf("✅ Study sessions now have up to %d questions.", size))
}

func msgResetConfirm() string {
	return bold("Reset all progress?") + "\n\n" + md("Every level, review schedule and skip will be erased.")
}

func msgResetDone() string {
	return md("🗑 Progress reset.")
}

func msgResetCancelled() string {
	return md("Reset cancelled.")
}

// buildSessionStartMessage describes a newly started session.
func buildSessionStartMessage(mode entities.SessionMode, total int) string {
	if mode == entities.SessionModeExam {
		return fmt.Sprintf("%s\n\n%s",
			bold(fmt.Sprintf("📝 Exam: %d questions", total)),
			md("Answers are checked at the end."),
		)
	}

	return fmt.Sprintf("%s\n\n%s",
		bold(fmt.Sprintf("🎯 Study session: %d questions", total)),
		md("Pick the right answer for each question."),
	)
}

// formatAnswerFeedback formats feedback for an answered study question.
func formatAnswerFeedback(isCorrect bool, correctAnswer string) string {
	if isCorrect {
		return md("✅ Correct!")
	}
	return fmt.Sprintf(
		"%s\n\n%s %s",
		md("❌ Incorrect"),
		md("Correct answer:"),
		bold(correctAnswer),
	)
}

// formatExamAck acknowledges an exam answer without revealing correctness.
func formatExamAck(choice string) string {
	return md("Your answer: ") + italic(choice)
}

// formatSessionResult formats the final score of a session.
func formatSessionResult(session *entities.QuizSession) string {
	total := session.Total()
	percentage := 0.0
	if total > 0 {
		percentage = float64(session.CorrectAnswers) / float64(total) * 100
	}

	emoji, message := "📚", "Keep going, the next session adapts to what you missed."
	switch {
	case percentage >= 90:
		emoji, message = "🌟", "Excellent result!"
	case percentage >= 70:
		emoji, message = "👍", "Good result!"
	case percentage >= 50:
		emoji, message = "💪", "Not bad, keep practising!"
	}

	title := "Session complete!"
	if session.Mode == entities.SessionModeExam {
		title = "Exam complete!"
	}

	return fmt.Sprintf(
		"%s %s\n\n%s %s\n%s\n\n%s",
		md(emoji),
		md(title),
		md("Score:"),
		bold(fmt.Sprintf("%d/%d (%.0f%%)", session.CorrectAnswers, total, percentage)),
		md(buildProgressBar(session.CorrectAnswers, total, 10)),
		md(message),
	)
}

// buildProgressBar creates ASCII progress bar.
func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return fmt.Sprintf("[%s]", strings.Repeat("░", length))
	}

	filled := int(float64(current) / float64(total) * float64(length))
	if filled > length {
		filled = length
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s]", bar)
}
