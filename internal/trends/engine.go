package trends

import (
	"fmt"
	"math"
	"time"
)

// Copy shown on the recommendation cards.
const (
	boosterDefault    = "Your consistent practice is building real interview skills. Keep showing up."
	boosterConfidence = "Confidence grows with repetition. Every session makes the next one feel easier."
	boosterNewUser    = "Every strong interviewer started with a first practice session."

	frequencyDefault      = "3-4 sessions per week"
	frequencyAccelerating = "4-5 sessions per week to keep the momentum"
	frequencySlowing      = "2-3 focused sessions per week on your weakest skill"
	frequencyNewUser      = "Start with 3 sessions per week"

	milestoneAccelerating = "Push for a 90+ overall score"
	milestoneSlowing      = "Regain momentum with three consecutive improving sessions"
)

// Engine computes Insights from ascending history. It is pure apart from
// its clock and safe for concurrent use.
type Engine struct {
	cfg Config
	now func() time.Time
}

// NewEngine creates an Engine using the wall clock.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// WithClock returns a copy of e that reads the time from now.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	c := *e
	c.now = now
	return &c
}

// Predict derives insights from history, which must be sorted oldest
// first. History is never re-sorted: out-of-order input yields wrong
// trend windows.
func (e *Engine) Predict(history []Snapshot) Insights {
	switch n := len(history); {
	case n == 0:
		return e.newUser()
	case n < e.cfg.MinForPredictions:
		return e.insufficientData(history)
	default:
		return e.ready(history, e.now())
	}
}

func (e *Engine) newUser() Insights {
	return Insights{
		UserState: StateNewUser,
		Trends:    Trends{ImprovementVelocity: VelocitySteady},
		Recommendations: Recommendations{
			FocusAreas: []FocusArea{
				{Title: "Complete Your First Session", Description: "Answer one practice question out loud to establish your baseline."},
				{Title: "Learn the STAR Framework", Description: "Structure behavioral answers as Situation, Task, Action, Result."},
			},
			PracticeFrequency: frequencyNewUser,
			NextMilestone:     fmt.Sprintf("Complete %d sessions to unlock predictions", e.cfg.MinForPredictions),
			ConfidenceBooster: boosterNewUser,
		},
	}
}

func (e *Engine) insufficientData(history []Snapshot) Insights {
	latest := history[len(history)-1]
	readiness := clamp(round(float64(latest.OverallScore) * e.cfg.EarlyReadinessFactor))
	strongest, weakest := skills(latest)

	recs := e.recommendations(latest, VelocitySteady)
	remaining := e.cfg.MinForPredictions - len(history)
	recs.FocusAreas = append(recs.FocusAreas, FocusArea{
		Title:       "Unlock Predictions",
		Description: fmt.Sprintf("Complete %d more %s to see score predictions and trends.", remaining, plural(remaining, "session")),
	})
	recs.NextMilestone = fmt.Sprintf("Complete %d sessions to unlock predictions", e.cfg.MinForPredictions)

	return Insights{
		UserState:          StateInsufficientData,
		CurrentPerformance: performanceOf(history[len(history)-1:]),
		Predictions:        Predictions{InterviewReadiness: &readiness},
		Trends: Trends{
			ImprovementVelocity: VelocitySteady,
			StrongestSkill:      strongest,
			ImprovementArea:     weakest,
		},
		Recommendations: recs,
	}
}

func (e *Engine) ready(history []Snapshot, now time.Time) Insights {
	scores := overallScores(history)
	latest := history[len(history)-1]

	next := e.nextSessionScore(scores)
	weekly := e.weeklyImprovement(history, now)
	readiness := e.interviewReadiness(scores, weekly)
	velocity := e.velocity(scores)
	strongest, weakest := skills(latest)

	return Insights{
		UserState:          StateReady,
		CurrentPerformance: performanceOf(tail(history, 3)),
		Predictions: Predictions{
			NextSessionScore:      &next,
			WeeklyImprovement:     &weekly,
			TargetAchievementDate: e.targetDate(scores, weekly, now),
			InterviewReadiness:    &readiness,
		},
		Trends: Trends{
			ImprovementVelocity: velocity,
			StrongestSkill:      strongest,
			ImprovementArea:     weakest,
		},
		Recommendations: e.recommendations(latest, velocity),
	}
}

// nextSessionScore extrapolates from a recency-weighted mean of the last
// five scores, weights 1..k oldest to newest.
func (e *Engine) nextSessionScore(scores []int) int {
	latest := scores[len(scores)-1]
	if len(scores) < 3 {
		return clamp(latest + 2)
	}
	recent := tail(scores, 5)
	var sum, weights float64
	for i, s := range recent {
		w := float64(i + 1)
		sum += float64(s) * w
		weights += w
	}
	improvement := sum/weights - float64(latest)
	return clamp(round(float64(latest) + improvement*e.cfg.OptimisticBias))
}

// weeklyImprovement compares mean scores of [now-7d, now] and
// [now-14d, now-7d).
func (e *Engine) weeklyImprovement(history []Snapshot, now time.Time) int {
	if len(history) < e.cfg.MinForWeekly {
		return 0
	}
	weekAgo := now.Add(-7 * 24 * time.Hour)
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour)

	var this, last []int
	for _, s := range history {
		switch {
		case !s.Timestamp.Before(weekAgo) && !s.Timestamp.After(now):
			this = append(this, s.OverallScore)
		case !s.Timestamp.Before(twoWeeksAgo) && s.Timestamp.Before(weekAgo):
			last = append(last, s.OverallScore)
		}
	}
	if len(this) == 0 || len(last) == 0 {
		return 0
	}
	return round(mean(this) - mean(last))
}

func (e *Engine) targetDate(scores []int, weekly int, now time.Time) string {
	avg := mean(tail(scores, 3))
	target := float64(e.cfg.TargetScore)
	if avg >= target {
		return TargetAchieved
	}
	gain := e.cfg.DefaultWeeklyGain
	if weekly > 0 {
		gain = float64(weekly)
	}
	perSession := gain / e.cfg.SessionsPerWeek
	sessions := math.Ceil((target - avg) / perSession)
	days := int(math.Ceil(sessions / e.cfg.SessionsPerWeek * 7))
	return now.AddDate(0, 0, days).Format("January 2, 2006")
}

func (e *Engine) interviewReadiness(scores []int, weekly int) int {
	recent := tail(scores, 5)
	consistency := clampF(100 - stdev(recent)*e.cfg.ConsistencyStdevFactor)
	v := mean(recent)*e.cfg.ReadinessScoreWeight +
		consistency*e.cfg.ReadinessConsistencyWeight +
		float64(max(0, weekly))*e.cfg.ReadinessImprovementWeight
	return clamp(round(v))
}

// velocity compares the gain over the latest three sessions with the gain
// over the three before them.
func (e *Engine) velocity(scores []int) Velocity {
	n := len(scores)
	if n < e.cfg.MinForVelocity {
		return VelocitySteady
	}
	recent := scores[n-1] - scores[n-3]
	previous := scores[n-4] - scores[n-6]
	switch {
	case recent > previous+e.cfg.VelocityMargin:
		return VelocityAccelerating
	case recent < previous-e.cfg.VelocityMargin:
		return VelocitySlowing
	case recent < e.cfg.DecliningBelow:
		return VelocityDeclining
	default:
		return VelocitySteady
	}
}

func (e *Engine) recommendations(latest Snapshot, v Velocity) Recommendations {
	recs := Recommendations{
		FocusAreas:        []FocusArea{},
		PracticeFrequency: frequencyDefault,
		NextMilestone:     fmt.Sprintf("Reach a %d overall score", e.cfg.TargetScore),
		ConfidenceBooster: boosterDefault,
	}

	if latest.ConfidenceLevel < e.cfg.MinConfidence {
		recs.FocusAreas = append(recs.FocusAreas, FocusArea{
			Title:       "Build Speaking Confidence",
			Description: "Open with your conclusion and cut hedging words like \"I think\" and \"maybe\".",
		})
		recs.ConfidenceBooster = boosterConfidence
	}
	if latest.ClarityScore < e.cfg.MinClarity {
		recs.FocusAreas = append(recs.FocusAreas, FocusArea{
			Title:       "Improve Speech Clarity",
			Description: "Replace filler words with short pauses and finish each sentence before starting the next.",
		})
	}
	if latest.WordsPerMinute < e.cfg.MinWPM || latest.WordsPerMinute > e.cfg.MaxWPM {
		recs.FocusAreas = append(recs.FocusAreas, FocusArea{
			Title:       "Optimize Speaking Pace",
			Description: fmt.Sprintf("You spoke at %d words per minute; aim for %d-%d.", latest.WordsPerMinute, e.cfg.MinWPM, e.cfg.MaxWPM),
		})
	}
	if len(recs.FocusAreas) == 0 {
		recs.FocusAreas = append(recs.FocusAreas, FocusArea{
			Title:       "Maintain Current Excellence",
			Description: "Your delivery is on target. Practice harder questions to stay sharp.",
		})
	}

	switch v {
	case VelocityAccelerating:
		recs.PracticeFrequency = frequencyAccelerating
		recs.NextMilestone = milestoneAccelerating
	case VelocitySlowing:
		recs.PracticeFrequency = frequencySlowing
		recs.NextMilestone = milestoneSlowing
	}
	return recs
}

// skills returns the strongest and weakest skill of s. The first listed
// skill wins ties.
func skills(s Snapshot) (strongest, weakest string) {
	type skill struct {
		name  string
		score int
	}
	all := []skill{
		{SkillConfidence, s.ConfidenceLevel},
		{SkillClarity, s.ClarityScore},
		{SkillPaceControl, PaceControlScore(s.WordsPerMinute)},
	}
	hi, lo := all[0], all[0]
	for _, sk := range all[1:] {
		if sk.score > hi.score {
			hi = sk
		}
		if sk.score < lo.score {
			lo = sk
		}
	}
	return hi.name, lo.name
}

func performanceOf(snaps []Snapshot) Performance {
	var overall, conf, clarity, wpm []int
	for _, s := range snaps {
		overall = append(overall, s.OverallScore)
		conf = append(conf, s.ConfidenceLevel)
		clarity = append(clarity, s.ClarityScore)
		wpm = append(wpm, s.WordsPerMinute)
	}
	return Performance{
		OverallScore:    round(mean(overall)),
		ConfidenceLevel: round(mean(conf)),
		ClarityScore:    round(mean(clarity)),
		WordsPerMinute:  round(mean(wpm)),
	}
}

func overallScores(history []Snapshot) []int {
	out := make([]int, len(history))
	for i, s := range history {
		out[i] = s.OverallScore
	}
	return out
}

func tail[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += float64(x)
	}
	return sum / float64(len(xs))
}

// stdev is the population standard deviation.
func stdev(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		d := float64(x) - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)))
}

func round(f float64) int { return int(math.Round(f)) }

func clamp(v int) int { return min(100, max(0, v)) }

func clampF(v float64) float64 { return math.Min(100, math.Max(0, v)) }

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
