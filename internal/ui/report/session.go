package report

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

// Session renders a practice session and its stored responses.
func Session(s store.PracticeSession, responses []store.SessionResponse) string {
	lines := []string{
		section("Session " + s.ID),
		field("Question", s.Question),
		field("Type", fmt.Sprintf("%s / %s / %s", s.QuestionType, s.Category, s.Difficulty)),
		field("State", s.State),
		field("Started", s.StartedAt.Local().Format("2006-01-02 15:04")),
	}
	if s.CompletedAt != nil {
		lines = append(lines, field("Completed", s.CompletedAt.Local().Format("2006-01-02 15:04")))
	}
	lines = append(lines, section(fmt.Sprintf("Responses (%d)", len(responses))))
	for i, r := range responses {
		lines = append(lines, theme.Body.Render(fmt.Sprintf(
			"%2d. %3d wpm  %2d fillers  clarity %3d  confidence %3d  analysis %3d (%s)",
			i+1, r.WordsPerMinute, r.FillerWordCount, r.Clarity, r.Confidence, r.AnalysisScore, r.AnalysisProvider)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Snapshot renders the summary stored when a session completes.
func Snapshot(s store.MetricSnapshot) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		section("Session summary"),
		score("Overall", s.OverallScore),
		score("Confidence", s.ConfidenceLevel),
		score("Clarity", s.ClarityScore),
		field("Words per minute", s.WordsPerMinute),
	)
}
