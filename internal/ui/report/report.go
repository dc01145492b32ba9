// Package report renders analytics results as styled terminal text.
package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/coaching"
	"github.com/abhisek/prepcoach/internal/speech"
	"github.com/abhisek/prepcoach/internal/ui/components"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

// barWidth is the width of score bars including their label.
const barWidth = 56

func section(title string) string {
	return theme.Section.Render(title)
}

func field(label string, value any) string {
	return theme.Label.Render(label) + theme.Body.Render(fmt.Sprint(value))
}

func score(label string, v int) string {
	return components.ScoreBar(label, v, barWidth).View()
}

func bullets(items []string) string {
	if len(items) == 0 {
		return theme.Hint.Render("  (none)")
	}
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = "  • " + it
	}
	return theme.Body.Render(strings.Join(lines, "\n"))
}

// Classification renders a classified question.
func Classification(qc classify.Context) string {
	lines := []string{
		section("Question"),
		field("Type", qc.Type),
		field("Category", qc.Category),
		field("Difficulty", qc.Difficulty),
	}
	if qc.Role != "" {
		lines = append(lines, field("Role", qc.Role))
	}
	if qc.Industry != "" {
		lines = append(lines, field("Industry", qc.Industry))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Metrics renders speech delivery metrics.
func Metrics(m speech.Metrics) string {
	lines := []string{
		section("Delivery"),
		field("Words per minute", m.WordsPerMinute),
		field("Filler words", m.FillerWordCount),
		score("Pace", m.Pace),
		score("Clarity", m.Clarity),
		score("Confidence", m.Confidence),
	}
	if len(m.Suggestions) > 0 {
		lines = append(lines, bullets(m.Suggestions))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func priorityBadge(p coaching.Priority) string {
	label := "[" + strings.ToUpper(string(p)) + "]"
	switch p {
	case coaching.PriorityHigh:
		return theme.PriorityHigh.Render(label)
	case coaching.PriorityMedium:
		return theme.PriorityMedium.Render(label)
	default:
		return theme.PriorityLow.Render(label)
	}
}

// Insights renders coaching insights in the order given.
func Insights(insights []coaching.Insight) string {
	lines := []string{section("Coaching")}
	if len(insights) == 0 {
		lines = append(lines, theme.Hint.Render("  (no insights)"))
	}
	for _, in := range insights {
		lines = append(lines,
			priorityBadge(in.Priority)+" "+theme.Title.Render(in.Title)+theme.Hint.Render(" ("+string(in.Type)+")"),
			theme.Body.Render("  "+in.Message),
			theme.Hint.Render("  → "+in.ActionableAdvice),
		)
		if in.Example != "" {
			lines = append(lines, theme.Hint.Render("  e.g. "+in.Example))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Analysis renders an AI answer analysis.
func Analysis(a coaching.Analysis) string {
	provider := a.Provider
	if a.IsFallback() {
		provider += " (model unavailable)"
	}
	lines := []string{
		section("Answer analysis"),
		field("Provider", provider),
		score("Overall", a.OverallScore),
		score("Content", a.ContentScore),
		score("Structure", a.StructureScore),
		score("Communication", a.CommunicationScore),
		theme.Body.Render("Strengths"),
		bullets(a.Strengths),
		theme.Body.Render("Improvements"),
		bullets(a.Improvements),
	}
	if a.Summary != "" {
		lines = append(lines, theme.Hint.Render(a.Summary))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Suggestions renders generated practice questions.
func Suggestions(s coaching.Suggestions) string {
	lines := []string{section("Practice questions"), field("Provider", s.Provider)}
	for i, q := range s.Questions {
		lines = append(lines, fmt.Sprintf("%2d. %s %s", i+1, theme.Body.Render(q.Question), theme.Hint.Render("("+string(q.Type)+")")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
