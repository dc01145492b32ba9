package trends

import "time"

// Config holds the prediction constants.
type Config struct {
	// Lookback bounds the history the service loads.
	Lookback time.Duration

	TargetScore int

	// OptimisticBias scales the recency-weighted delta of the next
	// session prediction.
	OptimisticBias float64

	// DefaultWeeklyGain is used by the target date estimate when the
	// measured weekly improvement is not positive.
	DefaultWeeklyGain float64
	SessionsPerWeek   float64

	// Readiness blends mean score, consistency and weekly improvement.
	ReadinessScoreWeight       float64
	ReadinessConsistencyWeight float64
	ReadinessImprovementWeight float64
	ConsistencyStdevFactor     float64

	// EarlyReadinessFactor scales the latest score before predictions
	// unlock.
	EarlyReadinessFactor float64

	MinForPredictions int
	MinForWeekly      int
	MinForVelocity    int
	VelocityMargin    int
	DecliningBelow    int

	MinConfidence int
	MinClarity    int
	MinWPM        int
	MaxWPM        int
}

// DefaultConfig returns the standard prediction constants.
func DefaultConfig() Config {
	return Config{
		Lookback:                   30 * 24 * time.Hour,
		TargetScore:                85,
		OptimisticBias:             1.2,
		DefaultWeeklyGain:          3,
		SessionsPerWeek:            3,
		ReadinessScoreWeight:       0.6,
		ReadinessConsistencyWeight: 0.3,
		ReadinessImprovementWeight: 0.1,
		ConsistencyStdevFactor:     2,
		EarlyReadinessFactor:       0.8,
		MinForPredictions:          3,
		MinForWeekly:               4,
		MinForVelocity:             6,
		VelocityMargin:             3,
		DecliningBelow:             -2,
		MinConfidence:              70,
		MinClarity:                 75,
		MinWPM:                     120,
		MaxWPM:                     180,
	}
}

type paceBand struct {
	lo, hi, score int
}

var paceControlBands = []paceBand{
	{140, 160, 100},
	{120, 139, 85},
	{161, 180, 85},
	{100, 119, 70},
	{181, 200, 70},
}

// PaceControlScore scores speaking pace for skill comparison. It is
// coarser than the per-response pace score.
func PaceControlScore(wpm int) int {
	for _, b := range paceControlBands {
		if wpm >= b.lo && wpm <= b.hi {
			return b.score
		}
	}
	return 50
}
