package report

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepcoach/internal/quiz"
	"github.com/abhisek/prepcoach/internal/store"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

// Quizzes renders the quiz catalogue.
func Quizzes(quizzes []store.Quiz) string {
	if len(quizzes) == 0 {
		return theme.Hint.Render("No quizzes imported yet.")
	}
	lines := []string{theme.Title.Render(fmt.Sprintf("%-36s  %-30s  %8s  %7s", "ID", "Title", "Attempts", "Passing"))}
	for _, q := range quizzes {
		lines = append(lines, theme.Body.Render(fmt.Sprintf("%-36s  %-30s  %8d  %6d%%", q.ID, truncate(q.Title, 30), q.MaxAttempts, q.PassingScore)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Result renders a submitted attempt's score.
func Result(a store.Attempt) string {
	if a.Score == nil || a.Passed == nil {
		return field("State", a.State)
	}
	verdict := theme.Incorrect.Render("FAILED")
	if *a.Passed {
		verdict = theme.Correct.Render("PASSED")
	}
	pct := 0
	if a.MaxScore > 0 {
		pct = *a.Score * 100 / a.MaxScore
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		section(fmt.Sprintf("Attempt %d", a.AttemptNumber)),
		field("Points", fmt.Sprintf("%d/%d", *a.Score, a.MaxScore)),
		score("Score", pct),
		field("Result", verdict),
	)
}

// Review renders every question of an attempt with the user's answer.
func Review(r quiz.Review) string {
	lines := []string{theme.Title.Render(r.Quiz.Title)}
	for i, q := range r.Questions {
		resp, answered := r.Responses[q.ID]
		mark := theme.Hint.Render("–")
		answer := theme.Hint.Render("(unanswered)")
		earned := 0
		if answered {
			answer = strings.Join(resp.Answer, ", ")
			earned = resp.PointsEarned
			mark = theme.Incorrect.Render("✗")
			if resp.IsCorrect {
				mark = theme.Correct.Render("✓")
			}
		}
		lines = append(lines,
			fmt.Sprintf("%s %d. %s %s", mark, i+1, theme.Body.Render(q.Text), theme.Hint.Render(fmt.Sprintf("[%d/%d]", earned, q.Points))),
			theme.Hint.Render("   your answer: ")+answer,
		)
		if r.Attempt.State == store.AttemptSubmitted {
			lines = append(lines, theme.Hint.Render("   correct:     "+strings.Join(q.CorrectAnswer, ", ")))
		}
	}
	lines = append(lines, Result(r.Attempt))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Questions lists an attempt's questions with their IDs and options,
// without revealing answers.
func Questions(r quiz.Review) string {
	lines := []string{theme.Title.Render(r.Quiz.Title)}
	for i, q := range r.Questions {
		lines = append(lines,
			fmt.Sprintf("%d. %s %s", i+1, theme.Body.Render(q.Text), theme.Hint.Render(fmt.Sprintf("[%s, %d pt]", q.Type, q.Points))),
			theme.Hint.Render("   id: "+q.ID),
		)
		for _, opt := range q.Options {
			lines = append(lines, theme.Body.Render("   - "+opt))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
