// Package coaching turns a classified question and speech metrics into
// ranked coaching insights, and wraps the language model used for
// answer analysis.
package coaching

import (
	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/speech"
)

// InsightType groups insights by what they coach.
type InsightType string

const (
	InsightStructure  InsightType = "structure"
	InsightContent    InsightType = "content"
	InsightDelivery   InsightType = "delivery"
	InsightTiming     InsightType = "timing"
	InsightConfidence InsightType = "confidence"
)

// Priority ranks insights for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Weight is the sort weight of p: high=3, medium=2, low=1.
func (p Priority) Weight() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Insight is one piece of coaching advice.
type Insight struct {
	Type             InsightType `json:"type"`
	Priority         Priority    `json:"priority"`
	Title            string      `json:"title"`
	Message          string      `json:"message"`
	ActionableAdvice string      `json:"actionableAdvice"`
	Framework        string      `json:"framework,omitempty"`
	Example          string      `json:"example,omitempty"`
}

// Profile is what the coach knows about the user.
type Profile struct {
	Name string
	Role string

	// Highlights maps a question category to an experience the user
	// wants to draw on, e.g. "leadership" -> "leading the payments migration".
	Highlights map[string]string
}

// Request is the input to Generate.
type Request struct {
	Question classify.Context
	Profile  *Profile
	Speech   *speech.Metrics
	Answer   string
}
