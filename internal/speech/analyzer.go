// Package speech derives delivery metrics (pace, filler words, clarity,
// confidence) from a response transcript and its duration.
package speech

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/prepcoach/internal/apperr"
)

// Suggestions emitted by Analyze.
const (
	SuggestSpeakFaster   = "Speak a little faster to keep your listener engaged."
	SuggestSlowDown      = "Slow down so each point has time to land."
	SuggestReduceFillers = "Reduce filler words; pause silently instead."
	SuggestSpeakClearly  = "Speak more clearly and finish each sentence before starting the next."
)

// Metrics are the delivery metrics for one spoken response.
type Metrics struct {
	WordsPerMinute  int      `json:"words_per_minute"`
	FillerWordCount int      `json:"filler_word_count"`
	Pace            int      `json:"pace"`
	Clarity         int      `json:"clarity"`
	Confidence      int      `json:"confidence"`
	Suggestions     []string `json:"suggestions"`
}

// Analyzer computes Metrics. It is safe for concurrent use.
type Analyzer struct {
	cfg     Config
	fillers []*regexp.Regexp
}

// NewAnalyzer compiles the filler patterns in cfg.
func NewAnalyzer(cfg Config) *Analyzer {
	a := &Analyzer{cfg: cfg}
	for _, w := range cfg.FillerWords {
		a.fillers = append(a.fillers, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return a
}

// Analyze computes delivery metrics for transcript spoken over duration.
// A zero duration means "unknown" and uses the configured default; a
// negative duration is rejected.
func (a *Analyzer) Analyze(transcript string, duration time.Duration) (Metrics, error) {
	if duration < 0 {
		return Metrics{}, apperr.Validation("duration", "must not be negative, got %s", duration)
	}
	if duration == 0 {
		duration = a.cfg.DefaultDuration
	}

	words := len(strings.Fields(transcript))
	fillers := a.countFillers(transcript)

	wpm := int(math.Round(float64(words) / duration.Seconds() * 60))
	pace := a.paceScore(wpm)
	clarity := a.clarityScore(fillers, words)
	confidence := max(a.cfg.ConfidenceFloor, pace-fillers*a.cfg.FillerPenalty)

	m := Metrics{
		WordsPerMinute:  wpm,
		FillerWordCount: fillers,
		Pace:            clamp(pace),
		Clarity:         clamp(clarity),
		Confidence:      clamp(confidence),
		Suggestions:     []string{},
	}
	m.Suggestions = a.suggestions(m)
	return m, nil
}

func (a *Analyzer) countFillers(transcript string) int {
	n := 0
	for _, re := range a.fillers {
		n += len(re.FindAllStringIndex(transcript, -1))
	}
	return n
}

func (a *Analyzer) paceScore(wpm int) int {
	switch {
	case wpm < a.cfg.MinWPM:
		return max(a.cfg.PaceFloor, 100-(a.cfg.MinWPM-wpm)*a.cfg.PacePenalty)
	case wpm > a.cfg.MaxWPM:
		return max(a.cfg.PaceFloor, 100-(wpm-a.cfg.MaxWPM)*a.cfg.PacePenalty)
	default:
		return 100
	}
}

func (a *Analyzer) clarityScore(fillers, words int) int {
	ratio := 0.0
	if words > 0 {
		ratio = float64(fillers) / float64(words)
	}
	return max(a.cfg.ClarityFloor, int(math.Round(100-ratio*a.cfg.FillerRatioPenalty)))
}

func (a *Analyzer) suggestions(m Metrics) []string {
	out := []string{}
	if m.WordsPerMinute < a.cfg.MinWPM {
		out = append(out, SuggestSpeakFaster)
	}
	if m.WordsPerMinute > a.cfg.MaxWPM {
		out = append(out, SuggestSlowDown)
	}
	if m.FillerWordCount > a.cfg.MaxFillers {
		out = append(out, SuggestReduceFillers)
	}
	if m.Clarity < a.cfg.ClarityTarget {
		out = append(out, SuggestSpeakClearly)
	}
	return out
}

func clamp(v int) int {
	return min(100, max(0, v))
}

// DefaultDuration is the duration assumed when none is given.
func (a *Analyzer) DefaultDuration() time.Duration {
	return a.cfg.DefaultDuration
}
