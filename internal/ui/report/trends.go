package report

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/prepcoach/internal/trends"
	"github.com/abhisek/prepcoach/internal/ui/theme"
)

func optInt(v *int, suffix string) string {
	if v == nil {
		return "—"
	}
	return strconv.Itoa(*v) + suffix
}

// Trends renders a trend prediction.
func Trends(in trends.Insights) string {
	p := in.CurrentPerformance
	lines := []string{
		section("Performance"),
		field("State", in.UserState),
		score("Overall", p.OverallScore),
		score("Confidence", p.ConfidenceLevel),
		score("Clarity", p.ClarityScore),
		field("Words per minute", p.WordsPerMinute),

		section("Predictions"),
		field("Next session", optInt(in.Predictions.NextSessionScore, "")),
		field("Weekly change", optInt(in.Predictions.WeeklyImprovement, " pts")),
		field("Readiness", optInt(in.Predictions.InterviewReadiness, "%")),
	}
	if d := in.Predictions.TargetAchievementDate; d != "" {
		lines = append(lines, field("Target reached", d))
	}

	lines = append(lines,
		section("Trends"),
		field("Velocity", in.Trends.ImprovementVelocity),
	)
	if in.Trends.StrongestSkill != "" {
		lines = append(lines, field("Strongest skill", in.Trends.StrongestSkill))
	}
	if in.Trends.ImprovementArea != "" {
		lines = append(lines, field("Work on", in.Trends.ImprovementArea))
	}

	r := in.Recommendations
	lines = append(lines, section("Recommendations"))
	for _, fa := range r.FocusAreas {
		lines = append(lines,
			theme.Title.Render("• "+fa.Title),
			theme.Body.Render("  "+fa.Description),
		)
	}
	lines = append(lines,
		field("Practice", r.PracticeFrequency),
		field("Next milestone", r.NextMilestone),
		theme.Hint.Render(fmt.Sprintf("%q", r.ConfidenceBooster)),
	)
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
