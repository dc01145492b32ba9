package speech

import "time"

// Config holds the thresholds and weights used by Analyzer.
type Config struct {
	// FillerWords are matched case-insensitively on word boundaries.
	// Multi-word fillers ("you know") are allowed.
	FillerWords []string

	// DefaultDuration is used when the caller passes a zero duration.
	DefaultDuration time.Duration

	// MinWPM and MaxWPM bound the ideal speaking pace (inclusive).
	MinWPM int
	MaxWPM int

	// PaceFloor is the lowest pace score; PacePenalty is deducted per
	// word-per-minute outside the ideal band.
	PaceFloor   int
	PacePenalty int

	// ClarityFloor is the lowest clarity score; FillerRatioPenalty scales
	// the filler-to-word ratio into clarity points.
	ClarityFloor       int
	FillerRatioPenalty float64

	// ConfidenceFloor is the lowest confidence score; FillerPenalty is
	// deducted from pace per filler word.
	ConfidenceFloor int
	FillerPenalty   int

	// MaxFillers is the filler count above which a suggestion is emitted.
	MaxFillers int

	// ClarityTarget is the clarity score below which a suggestion is emitted.
	ClarityTarget int
}

// DefaultConfig returns the standard speech thresholds.
func DefaultConfig() Config {
	return Config{
		FillerWords:        []string{"um", "uh", "like", "you know", "so", "well", "actually", "basically"},
		DefaultDuration:    60 * time.Second,
		MinWPM:             120,
		MaxWPM:             180,
		PaceFloor:          60,
		PacePenalty:        2,
		ClarityFloor:       50,
		FillerRatioPenalty: 200,
		ConfidenceFloor:    50,
		FillerPenalty:      5,
		MaxFillers:         3,
		ClarityTarget:      70,
	}
}
