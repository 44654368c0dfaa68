package telegram

import (
	"fmt"
	"strings"

	"github.com/aliskhannn/concept-review-bot/internal/domain/entities"
)

// formatQuestion renders a question with lettered choices.
func formatQuestion(q *entities.Question, currentNum, total int) string {
	var b strings.Builder

	b.WriteString(md(fmt.Sprintf("Question %d of %d", currentNum, total)))
	b.WriteString("\n")
	b.WriteString(italic(q.Level.Label()))
	b.WriteString("\n\n")
	b.WriteString(bold(q.Prompt))
	b.WriteString("\n")

	for i, choice := range q.Choices {
		b.WriteString("\n")
		b.WriteString(bold(choiceLabel(i) + "."))
		b.WriteString(" ")
		b.WriteString(md(choice))
	}

	return b.String()
}

// formatChapters renders the chapter list with completion percentages.
func formatChapters(chapters []*entities.Chapter, stats entities.OverallStats) string {
	lines := make([]string, 0, len(chapters)+2)
	lines = append(lines, bold("📚 Chapters"), "")

	for _, ch := range chapters {
		lines = append(lines, md(fmt.Sprintf("%s (%s): %d%%", ch.Name, ch.ID, stats.ChapterProgress[ch.ID])))
	}

	return strings.Join(lines, "\n")
}

// Level dots of the chapter view.
const (
	dotPassed  = "🟢"
	dotCurrent = "🟡"
	dotLocked  = "⚪"
)

// formatChapterDetail renders a chapter's concepts with level dots, skip state, trouble spots
// and confusable hints.
func formatChapterDetail(detail entities.ChapterDetail) string {
	st := detail.Stats
	lines := make([]string, 0, len(detail.Concepts)*2+6)

	lines = append(lines,
		bold("📋 "+detail.Chapter.Name),
		md(fmt.Sprintf("%s %d%%", buildProgressBar(st.PercentComplete, 100, 10), st.PercentComplete)),
	)
	if st.TotalConcepts > 0 && st.LearnedCount == st.TotalConcepts {
		lines = append(lines, md(fmt.Sprintf("All %d concepts mastered!", st.TotalConcepts)))
	} else {
		lines = append(lines, md(fmt.Sprintf("%d of %d levels passed · %d of %d concepts mastered",
			st.LevelsPassed, st.LevelsTotal, st.LearnedCount, st.TotalConcepts)))
	}
	lines = append(lines, italic(fmt.Sprintf("%s passed  %s in progress  %s locked", dotPassed, dotCurrent, dotLocked)))
	if st.SkippedCount > 0 {
		noun := "term"
		if st.SkippedCount > 1 {
			noun = "terms"
		}
		lines = append(lines, italic(fmt.Sprintf("%d %s skipped", st.SkippedCount, noun)))
	}
	lines = append(lines, "")

	for _, cs := range detail.Concepts {
		lines = append(lines, formatConceptLine(cs))
		if len(cs.ConfusedWith) > 0 {
			lines = append(lines, "    "+italic("Often confused with: "+strings.Join(cs.ConfusedWith, ", ")))
		}
	}

	return strings.Join(lines, "\n")
}

func formatConceptLine(cs entities.ConceptStatus) string {
	var b strings.Builder
	for lvl := entities.Level1; lvl <= cs.MaxLevel; lvl++ {
		switch {
		case cs.Passed[lvl]:
			b.WriteString(dotPassed)
		case lvl == cs.CurrentLevel:
			b.WriteString(dotCurrent)
		default:
			b.WriteString(dotLocked)
		}
	}
	b.WriteString(" ")

	if cs.Skipped {
		b.WriteString("~" + md(cs.Concept.Term) + "~ ")
		b.WriteString(italic("skipped"))
	} else {
		b.WriteString(bold(cs.Concept.Term))
	}
	if cs.TroubleSpot {
		b.WriteString(" ❗")
	}
	return b.String()
}

// formatStats renders overall and per-chapter statistics.
func formatStats(name string, chapters []*entities.Chapter, stats []entities.ChapterStats, overall entities.OverallStats) string {
	var b strings.Builder

	title := "📊 Your progress"
	if name != "" {
		title = fmt.Sprintf("📊 Progress of %s", name)
	}
	b.WriteString(bold(title))
	b.WriteString("\n\n")
	b.WriteString(md(fmt.Sprintf("✅ Learned concepts: %d", overall.LearnedCount)))

	for i, ch := range chapters {
		st := stats[i]
		b.WriteString("\n\n")
		b.WriteString(bold(ch.Name))
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf("%s %d%%", buildProgressBar(st.PercentComplete, 100, 10), st.PercentComplete)))
		b.WriteString("\n")
		b.WriteString(md(fmt.Sprintf(
			"Learned %d · started %d · skipped %d · total %d",
			st.LearnedCount, st.StartedCount, st.SkippedCount, st.TotalConcepts,
		)))
		if st.IsComplete() {
			b.WriteString("\n")
			b.WriteString(md("🏁 Chapter complete"))
		}
	}

	return b.String()
}
