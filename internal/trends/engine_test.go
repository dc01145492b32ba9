package trends

import (
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(DefaultConfig()).WithClock(func() time.Time { return testNow })
}

// daily builds one snapshot per day ending at testNow, with fixed
// delivery metrics.
func daily(scores ...int) []Snapshot {
	out := make([]Snapshot, len(scores))
	start := testNow.AddDate(0, 0, -(len(scores) - 1))
	for i, s := range scores {
		out[i] = Snapshot{
			Timestamp:       start.AddDate(0, 0, i),
			OverallScore:    s,
			ConfidenceLevel: 80,
			ClarityScore:    85,
			WordsPerMinute:  150,
		}
	}
	return out
}

func TestPaceControlScore(t *testing.T) {
	tests := []struct {
		wpm  int
		want int
	}{
		{150, 100}, {140, 100}, {160, 100},
		{125, 85}, {120, 85}, {139, 85}, {161, 85}, {180, 85},
		{110, 70}, {100, 70}, {119, 70}, {181, 70}, {200, 70},
		{99, 50}, {201, 50}, {250, 50}, {0, 50},
	}
	for _, tt := range tests {
		if got := PaceControlScore(tt.wpm); got != tt.want {
			t.Errorf("PaceControlScore(%d) = %d, want %d", tt.wpm, got, tt.want)
		}
	}
}

func TestUserStateByHistoryLength(t *testing.T) {
	e := testEngine()
	tests := []struct {
		n    int
		want UserState
	}{
		{0, StateNewUser},
		{1, StateInsufficientData},
		{2, StateInsufficientData},
		{3, StateReady},
		{10, StateReady},
	}
	for _, tt := range tests {
		scores := make([]int, tt.n)
		for i := range scores {
			scores[i] = 60 + i
		}
		got := e.Predict(daily(scores...))
		if got.UserState != tt.want {
			t.Errorf("len=%d: state = %s, want %s", tt.n, got.UserState, tt.want)
		}
		ready := tt.want == StateReady
		if (got.Predictions.NextSessionScore != nil) != ready {
			t.Errorf("len=%d: NextSessionScore set = %v, want %v", tt.n, got.Predictions.NextSessionScore != nil, ready)
		}
		if (got.Predictions.WeeklyImprovement != nil) != ready {
			t.Errorf("len=%d: WeeklyImprovement set = %v, want %v", tt.n, got.Predictions.WeeklyImprovement != nil, ready)
		}
	}
}

func TestPredict_NewUser(t *testing.T) {
	got := testEngine().Predict(nil)

	if got.CurrentPerformance != (Performance{}) {
		t.Errorf("performance = %+v, want zero", got.CurrentPerformance)
	}
	if got.Predictions.InterviewReadiness != nil || got.Predictions.TargetAchievementDate != "" {
		t.Errorf("predictions = %+v, want empty", got.Predictions)
	}
	if got.Trends.ImprovementVelocity != VelocitySteady {
		t.Errorf("velocity = %s, want steady", got.Trends.ImprovementVelocity)
	}
	if len(got.Recommendations.FocusAreas) == 0 || got.Recommendations.FocusAreas[0].Title != "Complete Your First Session" {
		t.Errorf("focus areas = %+v", got.Recommendations.FocusAreas)
	}
}

func TestPredict_InsufficientData(t *testing.T) {
	history := []Snapshot{
		{Timestamp: testNow.AddDate(0, 0, -1), OverallScore: 60, ConfidenceLevel: 50, ClarityScore: 50, WordsPerMinute: 90},
		{Timestamp: testNow, OverallScore: 75, ConfidenceLevel: 65, ClarityScore: 80, WordsPerMinute: 150},
	}
	got := testEngine().Predict(history)

	want := Performance{OverallScore: 75, ConfidenceLevel: 65, ClarityScore: 80, WordsPerMinute: 150}
	if got.CurrentPerformance != want {
		t.Errorf("performance = %+v, want latest snapshot %+v", got.CurrentPerformance, want)
	}
	if r := got.Predictions.InterviewReadiness; r == nil || *r != 60 {
		t.Errorf("readiness = %v, want 60", r)
	}
	if got.Trends.StrongestSkill != SkillPaceControl || got.Trends.ImprovementArea != SkillConfidence {
		t.Errorf("skills = %s / %s, want Pace Control / Confidence", got.Trends.StrongestSkill, got.Trends.ImprovementArea)
	}

	areas := got.Recommendations.FocusAreas
	if len(areas) != 2 || areas[0].Title != "Build Speaking Confidence" || areas[1].Title != "Unlock Predictions" {
		t.Fatalf("focus areas = %+v", areas)
	}
	if areas[1].Description != "Complete 1 more session to see score predictions and trends." {
		t.Errorf("unlock description = %q", areas[1].Description)
	}
	if got.Recommendations.ConfidenceBooster != boosterConfidence {
		t.Errorf("booster = %q, want confidence override", got.Recommendations.ConfidenceBooster)
	}
}

func TestPredict_Ready(t *testing.T) {
	got := testEngine().Predict(daily(70, 74, 78))

	want := Performance{OverallScore: 74, ConfidenceLevel: 80, ClarityScore: 85, WordsPerMinute: 150}
	if got.CurrentPerformance != want {
		t.Errorf("performance = %+v, want %+v", got.CurrentPerformance, want)
	}

	p := got.Predictions
	// weighted mean 452/6, delta -2.67, 78 - 3.2 = 74.8
	if *p.NextSessionScore != 75 {
		t.Errorf("next session = %d, want 75", *p.NextSessionScore)
	}
	if *p.WeeklyImprovement != 0 {
		t.Errorf("weekly = %d, want 0 below four sessions", *p.WeeklyImprovement)
	}
	// 11 points at 1 per session: 11 sessions, 26 days.
	if p.TargetAchievementDate != "April 15, 2026" {
		t.Errorf("target date = %q, want April 15, 2026", p.TargetAchievementDate)
	}
	// 74*0.6 + (100 - 2*3.266)*0.3 = 72.44
	if *p.InterviewReadiness != 72 {
		t.Errorf("readiness = %d, want 72", *p.InterviewReadiness)
	}

	if got.Trends.ImprovementVelocity != VelocitySteady {
		t.Errorf("velocity = %s, want steady", got.Trends.ImprovementVelocity)
	}
	if got.Trends.StrongestSkill != SkillPaceControl || got.Trends.ImprovementArea != SkillConfidence {
		t.Errorf("skills = %s / %s", got.Trends.StrongestSkill, got.Trends.ImprovementArea)
	}
	areas := got.Recommendations.FocusAreas
	if len(areas) != 1 || areas[0].Title != "Maintain Current Excellence" {
		t.Errorf("focus areas = %+v", areas)
	}
	if got.Recommendations.PracticeFrequency != frequencyDefault {
		t.Errorf("frequency = %q", got.Recommendations.PracticeFrequency)
	}
}

func TestPredict_ScoresStayInRange(t *testing.T) {
	tests := []struct {
		name   string
		scores []int
	}{
		{"perfect", []int{100, 100, 100, 100, 100}},
		{"zeros", []int{0, 0, 0}},
		{"volatile", []int{0, 100, 0, 100, 0, 100}},
		{"climbing", []int{10, 30, 50, 70, 90, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testEngine().Predict(daily(tt.scores...)).Predictions
			for name, v := range map[string]*int{
				"next":      p.NextSessionScore,
				"readiness": p.InterviewReadiness,
			} {
				if v == nil || *v < 0 || *v > 100 {
					t.Errorf("%s = %v, want within [0,100]", name, v)
				}
			}
			if p.WeeklyImprovement == nil || p.TargetAchievementDate == "" {
				t.Errorf("predictions incomplete: %+v", p)
			}
		})
	}
}

func TestPredict_TargetAchieved(t *testing.T) {
	p := testEngine().Predict(daily(60, 85, 86, 90)).Predictions
	if p.TargetAchievementDate != TargetAchieved {
		t.Errorf("target date = %q, want %q", p.TargetAchievementDate, TargetAchieved)
	}
}

func TestWeeklyImprovement(t *testing.T) {
	e := testEngine()
	at := func(daysAgo, score int) Snapshot {
		return Snapshot{Timestamp: testNow.AddDate(0, 0, -daysAgo), OverallScore: score}
	}

	tests := []struct {
		name    string
		history []Snapshot
		want    int
	}{
		{"both windows", []Snapshot{at(10, 60), at(9, 64), at(3, 72), at(1, 76)}, 12},
		{"declining", []Snapshot{at(13, 80), at(8, 80), at(2, 75), at(0, 70)}, -8},
		{"last week empty", []Snapshot{at(5, 60), at(4, 64), at(3, 72), at(1, 76)}, 0},
		{"this week empty", []Snapshot{at(20, 60), at(12, 64), at(10, 72), at(8, 76)}, 0},
		{"too few", []Snapshot{at(10, 60), at(3, 72), at(1, 76)}, 0},
		{"boundary at seven days counts as this week", []Snapshot{at(10, 50), at(9, 50), at(7, 80), at(6, 80)}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.weeklyImprovement(tt.history, testNow); got != tt.want {
				t.Errorf("weeklyImprovement = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTargetDateUsesPositiveWeeklyGain(t *testing.T) {
	e := testEngine()
	// avg 79, gain 6/week: 2 per session, 3 sessions, 7 days.
	if got := e.targetDate([]int{78, 79, 80}, 6, testNow); got != "March 27, 2026" {
		t.Errorf("targetDate = %q, want March 27, 2026", got)
	}
	// Negative weekly improvement falls back to 3 per week.
	if got := e.targetDate([]int{78, 79, 80}, -4, testNow); got != "April 3, 2026" {
		t.Errorf("targetDate = %q, want April 3, 2026", got)
	}
}

func TestVelocity(t *testing.T) {
	e := testEngine()
	tests := []struct {
		name   string
		scores []int
		want   Velocity
	}{
		{"too few", []int{60, 70, 80, 90, 95}, VelocitySteady},
		{"accelerating", []int{60, 62, 64, 66, 75, 80}, VelocityAccelerating},
		{"slowing", []int{60, 70, 80, 80, 81, 82}, VelocitySlowing},
		{"declining", []int{80, 80, 79, 78, 76, 75}, VelocityDeclining},
		{"steady", []int{70, 71, 72, 73, 74, 75}, VelocitySteady},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.velocity(tt.scores); got != tt.want {
				t.Errorf("velocity(%v) = %s, want %s", tt.scores, got, tt.want)
			}
		})
	}
}

func TestRecommendations(t *testing.T) {
	e := testEngine()

	recs := e.recommendations(Snapshot{ConfidenceLevel: 60, ClarityScore: 70, WordsPerMinute: 200}, VelocityAccelerating)
	titles := make([]string, len(recs.FocusAreas))
	for i, a := range recs.FocusAreas {
		titles[i] = a.Title
	}
	want := []string{"Build Speaking Confidence", "Improve Speech Clarity", "Optimize Speaking Pace"}
	if len(titles) != len(want) {
		t.Fatalf("focus areas = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("focus[%d] = %q, want %q", i, titles[i], want[i])
		}
	}
	if recs.PracticeFrequency != frequencyAccelerating || recs.NextMilestone != milestoneAccelerating {
		t.Errorf("accelerating cadence = %q / %q", recs.PracticeFrequency, recs.NextMilestone)
	}

	recs = e.recommendations(Snapshot{ConfidenceLevel: 90, ClarityScore: 90, WordsPerMinute: 150}, VelocitySlowing)
	if recs.PracticeFrequency != frequencySlowing || recs.NextMilestone != milestoneSlowing {
		t.Errorf("slowing cadence = %q / %q", recs.PracticeFrequency, recs.NextMilestone)
	}
	if recs.ConfidenceBooster != boosterDefault {
		t.Errorf("booster = %q, want default", recs.ConfidenceBooster)
	}
}

func TestSkillsTieGoesToFirst(t *testing.T) {
	strongest, weakest := skills(Snapshot{ConfidenceLevel: 70, ClarityScore: 70, WordsPerMinute: 110})
	if strongest != SkillConfidence || weakest != SkillConfidence {
		t.Errorf("skills = %s / %s, want Confidence / Confidence", strongest, weakest)
	}
}
