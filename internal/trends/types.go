// Package trends predicts interview readiness from a user's practice
// history.
package trends

import "time"

// Snapshot is one completed session's summary metrics.
type Snapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	OverallScore    int       `json:"overallScore"`
	ConfidenceLevel int       `json:"confidenceLevel"`
	ClarityScore    int       `json:"clarityScore"`
	WordsPerMinute  int       `json:"wordsPerMinute"`
}

// UserState depends only on how much history is available.
type UserState string

const (
	StateNewUser          UserState = "new_user"
	StateInsufficientData UserState = "insufficient_data"
	StateReady            UserState = "ready_for_predictions"
)

// Velocity describes how the rate of improvement is changing.
type Velocity string

const (
	VelocityAccelerating Velocity = "accelerating"
	VelocitySteady       Velocity = "steady"
	VelocitySlowing      Velocity = "slowing"
	VelocityDeclining    Velocity = "declining"
)

// Skill names compared by StrongestSkill and ImprovementArea.
const (
	SkillConfidence  = "Confidence"
	SkillClarity     = "Clarity"
	SkillPaceControl = "Pace Control"
)

// TargetAchieved is the target date text once the target is reached.
const TargetAchieved = "Target achieved!"

// Performance is a set of averaged metrics.
type Performance struct {
	OverallScore    int `json:"overallScore"`
	ConfidenceLevel int `json:"confidenceLevel"`
	ClarityScore    int `json:"clarityScore"`
	WordsPerMinute  int `json:"wordsPerMinute"`
}

// Predictions are nil until enough history exists.
type Predictions struct {
	NextSessionScore      *int   `json:"nextSessionScore"`
	WeeklyImprovement     *int   `json:"weeklyImprovement"`
	TargetAchievementDate string `json:"targetAchievementDate,omitempty"`
	InterviewReadiness    *int   `json:"interviewReadiness"`
}

// Trends summarizes the direction of recent practice.
type Trends struct {
	ImprovementVelocity Velocity `json:"improvementVelocity"`
	StrongestSkill      string   `json:"strongestSkill,omitempty"`
	ImprovementArea     string   `json:"improvementArea,omitempty"`
}

// FocusArea is one recommended thing to work on.
type FocusArea struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Recommendations tell the user what to practice next.
type Recommendations struct {
	FocusAreas        []FocusArea `json:"focusAreas"`
	PracticeFrequency string      `json:"practiceFrequency"`
	NextMilestone     string      `json:"nextMilestone"`
	ConfidenceBooster string      `json:"confidenceBooster"`
}

// Insights is the full prediction result.
type Insights struct {
	UserState          UserState       `json:"userState"`
	CurrentPerformance Performance     `json:"currentPerformance"`
	Predictions        Predictions     `json:"predictions"`
	Trends             Trends          `json:"trends"`
	Recommendations    Recommendations `json:"recommendations"`
}
