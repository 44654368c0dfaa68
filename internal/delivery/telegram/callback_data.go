package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionAnswer = "answer"
	actionStudy  = "study"
	actionExam   = "exam"
	actionReset  = "reset"
	actionDetail = "chapter"
	actionSkip   = "skip"
)

// maxCallbackDataLen is the Telegram limit for inline button data in bytes.
const maxCallbackDataLen = 64

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// allChapters selects every chapter in study and exam commands.
const allChapters = "all"

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// answerCallback is a decoded answer button press.
type answerCallback struct {
	SessionID     string
	QuestionIndex int
	ChoiceIndex   int
}

// buildAnswerCallback builds callback data for answering a question of a session.
func buildAnswerCallback(sessionID string, questionIndex, choiceIndex int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{
			sessionID,
			strconv.Itoa(questionIndex),
			strconv.Itoa(choiceIndex),
		},
	}.encode()
}

// parseAnswerCallback extracts the answer fields from decoded callback data.
func parseAnswerCallback(cd callbackData) (answerCallback, bool) {
	if cd.Action != actionAnswer || len(cd.Params) != 3 || cd.Params[0] == "" {
		return answerCallback{}, false
	}

	q, err1 := strconv.Atoi(cd.Params[1])
	c, err2 := strconv.Atoi(cd.Params[2])
	if err1 != nil || err2 != nil || q < 0 || c < 0 {
		return answerCallback{}, false
	}

	return answerCallback{SessionID: cd.Params[0], QuestionIndex: q, ChoiceIndex: c}, true
}

// buildStudyCallback builds callback data for starting a study session on a chapter.
func buildStudyCallback(chapterID string) string {
	return callbackData{Action: actionStudy, Params: []string{chapterID}}.encode()
}

// buildExamCallback builds callback data for starting an exam on a chapter.
func buildExamCallback(chapterID string) string {
	return callbackData{Action: actionExam, Params: []string{chapterID}}.encode()
}

// buildChapterDetailCallback builds callback data for opening a chapter's concept list.
func buildChapterDetailCallback(chapterID string) string {
	return callbackData{Action: actionDetail, Params: []string{chapterID}}.encode()
}

// buildSkipCallback builds callback data for toggling the skip state of a concept shown in
// a chapter view. It reports false when the ids do not fit into callback data.
func buildSkipCallback(chapterID, conceptID string) (string, bool) {
	data := callbackData{Action: actionSkip, Params: []string{chapterID, conceptID}}.encode()
	return data, len(data) <= maxCallbackDataLen
}

// parseSkipCallback extracts chapter and concept ids from decoded skip callback data.
func parseSkipCallback(cd callbackData) (chapterID, conceptID string, ok bool) {
	if cd.Action != actionSkip || len(cd.Params) != 2 || cd.Params[0] == "" || cd.Params[1] == "" {
		return "", "", false
	}
	return cd.Params[0], cd.Params[1], true
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
