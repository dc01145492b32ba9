package coaching

import (
	"time"

	"github.com/abhisek/prepcoach/internal/classify"
)

// Framework is a recommended answer structure.
type Framework struct {
	Name    string
	Steps   string
	Example string
}

// TimeRange is the recommended spoken length for a question type.
type TimeRange struct {
	Min time.Duration
	Max time.Duration
}

// Config holds the insight tables and thresholds.
type Config struct {
	Frameworks map[classify.QuestionType]Framework

	// Experience maps a question category to the kind of experience an
	// answer should draw on when the profile has no highlight for it.
	Experience        map[string]string
	DefaultExperience string

	Timing map[classify.QuestionType]TimeRange

	MinWPM        int
	MaxWPM        int
	MinConfidence int
	MinClarity    int

	// Live thresholds apply while the user is still speaking.
	LiveMaxWPM          int
	LiveWrapUp          map[classify.QuestionType]time.Duration
	LiveDefaultWrapUp   time.Duration
	PraiseMinConfidence int
	PraiseMinClarity    int

	// AnswerWPM converts a TimeRange to an expected word count.
	AnswerWPM int
}

// DefaultConfig returns the standard coaching tables.
func DefaultConfig() Config {
	return Config{
		Frameworks: map[classify.QuestionType]Framework{
			classify.TypeBehavioral: {
				Name:    "STAR",
				Steps:   "Situation, Task, Action, Result",
				Example: "Situation: our release was slipping. Task: I owned the fix. Action: I split the work and paired daily. Result: we shipped a week early.",
			},
			classify.TypeTechnical: {
				Name:    "Problem-Solution-Example",
				Steps:   "state the problem, walk through your solution, then ground it in a concrete example",
				Example: "Problem: reads were slow. Solution: add a covering index. Example: on our orders table this cut p95 latency from 800ms to 40ms.",
			},
			classify.TypeSituational: {
				Name:    "Think-Explain-Act",
				Steps:   "think aloud about the constraints, explain your reasoning, then describe the action you would take",
				Example: "I'd first confirm the customer's impact, explain the trade-off to my lead, then ship a targeted fix and follow up.",
			},
			classify.TypeGeneral: {
				Name:    "Introduction-Body-Conclusion",
				Steps:   "open with a direct answer, support it with one or two specifics, then close by tying it to the role",
				Example: "I'm drawn to this role because of the platform work. At my last job I built our CI pipeline. That's the impact I want to keep having here.",
			},
		},
		Experience: map[string]string{
			"conflict-resolution":   "a disagreement you resolved with a colleague or stakeholder",
			"leadership":            "a time you led a team or mentored someone",
			"learning-from-failure": "a setback and what you changed afterwards",
			"problem-solving":       "a hard problem you untangled step by step",
			"time-management":       "a deadline you met by prioritizing ruthlessly",
			"system-design":         "a system you designed or scaled",
			"algorithms":            "an algorithmic problem you optimized",
			"databases":             "a schema or query you tuned",
			"coding":                "code you wrote and shipped to production",
			"customer-focus":        "a customer problem you owned end to end",
			"teamwork":              "a cross-team project you helped land",
			"ethics":                "a time you held the line on doing the right thing",
			"motivation":            "what drew you to this field and this company",
			"self-assessment":       "concrete feedback you received and acted on",
			"career-goals":          "the skills you are deliberately building",
		},
		DefaultExperience: "your relevant project experience",
		Timing: map[classify.QuestionType]TimeRange{
			classify.TypeBehavioral:  {Min: 2 * time.Minute, Max: 3 * time.Minute},
			classify.TypeTechnical:   {Min: 3 * time.Minute, Max: 4 * time.Minute},
			classify.TypeSituational: {Min: 2 * time.Minute, Max: 2 * time.Minute},
			classify.TypeGeneral:     {Min: 1 * time.Minute, Max: 2 * time.Minute},
		},
		MinWPM:        120,
		MaxWPM:        180,
		MinConfidence: 60,
		MinClarity:    70,

		LiveMaxWPM: 200,
		LiveWrapUp: map[classify.QuestionType]time.Duration{
			classify.TypeTechnical: 240 * time.Second,
		},
		LiveDefaultWrapUp:   180 * time.Second,
		PraiseMinConfidence: 80,
		PraiseMinClarity:    75,

		AnswerWPM: 150,
	}
}
