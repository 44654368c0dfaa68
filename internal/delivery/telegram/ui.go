package telegram

import (
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// buildAnswerKeyboard builds one button per choice of the question.
func buildAnswerKeyboard(q *entities.Question, sessionID string, questionIndex int) tgbotapi.InlineKeyboardMarkup {
	row := make([]tgbotapi.InlineKeyboardButton, 0, len(q.Choices))
	for i := range q.Choices {
		data := buildAnswerCallback(sessionID, questionIndex, i)
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(choiceLabel(i), data))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

// buildChaptersKeyboard builds concept list, study and exam buttons for every chapter.
func buildChaptersKeyboard(chapters []*entities.Chapter) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(chapters)+1)
	for _, ch := range chapters {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📋 "+ch.Name, buildChapterDetailCallback(ch.ID)),
			tgbotapi.NewInlineKeyboardButtonData("🎯 Study", buildStudyCallback(ch.ID)),
			tgbotapi.NewInlineKeyboardButtonData("📝 Exam", buildExamCallback(ch.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎯 Study all", buildStudyCallback(allChapters)),
		tgbotapi.NewInlineKeyboardButtonData("📝 Exam all", buildExamCallback(allChapters)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// skipButtonsPerRow is the number of skip toggles per keyboard row.
const skipButtonsPerRow = 2

// maxButtonTermLen caps the term shown on a skip toggle, in runes.
const maxButtonTermLen = 24

// buildChapterDetailKeyboard builds a skip or restore toggle per concept followed by
// study and exam buttons for the chapter.
func buildChapterDetailKeyboard(detail entities.ChapterDetail) tgbotapi.InlineKeyboardMarkup {
	chapterID := detail.Chapter.ID
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(detail.Concepts)/skipButtonsPerRow+2)

	var row []tgbotapi.InlineKeyboardButton
	for _, st := range detail.Concepts {
		data, ok := buildSkipCallback(chapterID, st.Concept.ID)
		if !ok {
			continue
		}

		label := "✕ " + shortTerm(st.Concept.Term)
		if st.Skipped {
			label = "↩ " + shortTerm(st.Concept.Term)
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, data))

		if len(row) == skipButtonsPerRow {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🎯 Study", buildStudyCallback(chapterID)),
		tgbotapi.NewInlineKeyboardButtonData("📝 Exam", buildExamCallback(chapterID)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func shortTerm(term string) string {
	if utf8.RuneCountInString(term) <= maxButtonTermLen {
		return term
	}
	runes := []rune(term)
	return string(runes[:maxButtonTermLen-1]) + "…"
}

// buildSessionResultKeyboard offers another session over the same scope.
func buildSessionResultKeyboard(session *entities.QuizSession) tgbotapi.InlineKeyboardMarkup {
	scope := allChapters
	if len(session.ChapterIDs) == 1 {
		scope = session.ChapterIDs[0]
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Study again", buildStudyCallback(scope)),
			tgbotapi.NewInlineKeyboardButtonData("📝 Exam", buildExamCallback(scope)),
		),
	)
}

// buildResetKeyboard builds the reset confirmation keyboard.
func buildResetKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 Yes, reset", buildResetConfirmCallback()),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", buildResetCancelCallback()),
		),
	)
}
