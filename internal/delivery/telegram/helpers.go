package telegram

import (
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

// choiceLabel returns the button label of the i-th choice: A, B, C...
func choiceLabel(i int) string {
	return string(rune('A' + i))
}

// parseScopeArgs parses "[chapter|all] [n]" command arguments. An empty chapter means all chapters,
// a missing count is returned as 0.
func parseScopeArgs(args string) (chapterID string, count int, ok bool) {
	fields := strings.Fields(args)
	if len(fields) > 2 {
		return "", 0, false
	}

	if len(fields) >= 1 {
		chapterID = fields[0]
		if chapterID == allChapters {
			chapterID = ""
		}
	}

	if len(fields) == 2 {
		n, err := strconv.Atoi(fields[1])
		if err != nil || n <= 0 {
			return "", 0, false
		}
		count = n
	}

	return chapterID, count, true
}
