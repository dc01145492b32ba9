package coaching

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/speech"
)

// Generator builds ranked coaching insights. It is pure and safe for
// concurrent use.
type Generator struct {
	cfg Config
}

// NewGenerator creates a Generator over cfg.
func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate returns the insights for req, highest priority first. Insights
// of equal priority keep their generation order.
func (g *Generator) Generate(req Request) []Insight {
	insights := []Insight{
		g.structure(req.Question.Type),
		g.content(req.Question, req.Profile),
	}
	if req.Speech != nil {
		insights = append(insights, g.delivery(*req.Speech, g.cfg.MaxWPM)...)
	}
	insights = append(insights, g.timing(req.Question.Type))
	if strings.TrimSpace(req.Answer) != "" {
		insights = append(insights, g.answerLength(req.Question.Type, req.Answer))
	}
	return rank(insights)
}

// GenerateLive is Generate for an answer still in progress. It tolerates
// faster speech, asks the user to wrap up once elapsed passes the type's
// cutoff, and reinforces strong delivery.
func (g *Generator) GenerateLive(req Request, elapsed time.Duration) []Insight {
	insights := []Insight{
		g.structure(req.Question.Type),
		g.content(req.Question, req.Profile),
	}
	if req.Speech != nil {
		insights = append(insights, g.delivery(*req.Speech, g.cfg.LiveMaxWPM)...)
	}
	insights = append(insights, g.timing(req.Question.Type))

	cutoff, ok := g.cfg.LiveWrapUp[req.Question.Type]
	if !ok {
		cutoff = g.cfg.LiveDefaultWrapUp
	}
	if elapsed > cutoff {
		insights = append(insights, Insight{
			Type:             InsightTiming,
			Priority:         PriorityHigh,
			Title:            "Time to wrap up",
			Message:          fmt.Sprintf("You have been speaking for %s.", formatElapsed(elapsed)),
			ActionableAdvice: "Summarize your result in one sentence and stop.",
		})
	}

	if m := req.Speech; m != nil && m.Confidence > g.cfg.PraiseMinConfidence && m.Clarity > g.cfg.PraiseMinClarity {
		insights = append(insights, Insight{
			Type:             InsightConfidence,
			Priority:         PriorityLow,
			Title:            "Great delivery",
			Message:          "You sound confident and clear.",
			ActionableAdvice: "Keep this pace and tone through the rest of your answer.",
		})
	}
	return rank(insights)
}

func rank(insights []Insight) []Insight {
	slices.SortStableFunc(insights, func(a, b Insight) int {
		return b.Priority.Weight() - a.Priority.Weight()
	})
	return insights
}

func (g *Generator) structure(qt classify.QuestionType) Insight {
	fw, ok := g.cfg.Frameworks[qt]
	if !ok {
		fw = g.cfg.Frameworks[classify.TypeGeneral]
	}
	priority := PriorityHigh
	if qt == classify.TypeGeneral || !ok {
		priority = PriorityMedium
	}
	return Insight{
		Type:             InsightStructure,
		Priority:         priority,
		Title:            fmt.Sprintf("Use the %s framework", fw.Name),
		Message:          fmt.Sprintf("Structure your %s answer with %s: %s.", qt, fw.Name, fw.Steps),
		ActionableAdvice: fmt.Sprintf("Outline the %s steps in your head before you start speaking.", fw.Name),
		Framework:        fw.Name,
		Example:          fw.Example,
	}
}

func (g *Generator) content(q classify.Context, p *Profile) Insight {
	experience := g.experience(q.Category, p)
	advice := "Pick one concrete story and quantify the outcome."
	if q.Role != "" {
		advice = fmt.Sprintf("Pick one concrete story that matters for a %s and quantify the outcome.", q.Role)
	}
	return Insight{
		Type:             InsightContent,
		Priority:         PriorityHigh,
		Title:            "Draw on specific experience",
		Message:          fmt.Sprintf("Ground your answer in %s.", experience),
		ActionableAdvice: advice,
	}
}

func (g *Generator) experience(category string, p *Profile) string {
	if p != nil {
		if h := strings.TrimSpace(p.Highlights[category]); h != "" {
			return h
		}
	}
	if e, ok := g.cfg.Experience[category]; ok {
		return e
	}
	return g.cfg.DefaultExperience
}

func (g *Generator) delivery(m speech.Metrics, maxWPM int) []Insight {
	var out []Insight
	if m.WordsPerMinute > maxWPM {
		out = append(out, Insight{
			Type:             InsightDelivery,
			Priority:         PriorityHigh,
			Title:            "Slow down",
			Message:          fmt.Sprintf("You are speaking at %d words per minute.", m.WordsPerMinute),
			ActionableAdvice: "Pause briefly after each key point.",
		})
	}
	if m.WordsPerMinute < g.cfg.MinWPM {
		out = append(out, Insight{
			Type:             InsightDelivery,
			Priority:         PriorityMedium,
			Title:            "Increase your pace",
			Message:          fmt.Sprintf("You are speaking at %d words per minute.", m.WordsPerMinute),
			ActionableAdvice: fmt.Sprintf("Aim for %d-%d words per minute.", g.cfg.MinWPM, g.cfg.MaxWPM),
		})
	}
	if m.Confidence < g.cfg.MinConfidence {
		out = append(out, Insight{
			Type:             InsightDelivery,
			Priority:         PriorityHigh,
			Title:            "Project confidence",
			Message:          fmt.Sprintf("Your confidence score is %d.", m.Confidence),
			ActionableAdvice: "State your conclusion first and avoid hedging phrases.",
		})
	}
	if m.Clarity < g.cfg.MinClarity {
		out = append(out, Insight{
			Type:             InsightDelivery,
			Priority:         PriorityMedium,
			Title:            "Improve clarity",
			Message:          fmt.Sprintf("You used %d filler words.", m.FillerWordCount),
			ActionableAdvice: "Replace filler words with a short silent pause.",
		})
	}
	return out
}

func (g *Generator) timing(qt classify.QuestionType) Insight {
	r := g.timeRange(qt)
	return Insight{
		Type:             InsightTiming,
		Priority:         PriorityMedium,
		Title:            "Watch your timing",
		Message:          fmt.Sprintf("Aim for %s on a %s question.", formatRange(r), qt),
		ActionableAdvice: "Practice with a timer until the length feels natural.",
	}
}

func (g *Generator) timeRange(qt classify.QuestionType) TimeRange {
	if r, ok := g.cfg.Timing[qt]; ok {
		return r
	}
	return g.cfg.Timing[classify.TypeGeneral]
}

func (g *Generator) answerLength(qt classify.QuestionType, answer string) Insight {
	words := len(strings.Fields(answer))
	r := g.timeRange(qt)
	lo := int(r.Min.Minutes() * float64(g.cfg.AnswerWPM))
	hi := int(r.Max.Minutes() * float64(g.cfg.AnswerWPM))

	var msg, advice string
	switch {
	case words < lo:
		msg = fmt.Sprintf("Your answer has %d words, short of the %d-%d typical for %s.", words, lo, hi, formatRange(r))
		advice = "Add one more specific detail about your actions and the result."
	case words > hi:
		msg = fmt.Sprintf("Your answer has %d words, more than the %d-%d typical for %s.", words, lo, hi, formatRange(r))
		advice = "Cut background detail and lead with your actions."
	default:
		msg = fmt.Sprintf("Your answer has %d words, right in the %d-%d range.", words, lo, hi)
		advice = "Keep this length."
	}
	return Insight{
		Type:             InsightContent,
		Priority:         PriorityLow,
		Title:            "Answer length",
		Message:          msg,
		ActionableAdvice: advice,
	}
}

func formatRange(r TimeRange) string {
	lo, hi := int(r.Min.Minutes()), int(r.Max.Minutes())
	if lo == hi {
		return fmt.Sprintf("%d minutes", lo)
	}
	return fmt.Sprintf("%d-%d minutes", lo, hi)
}

func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
