package trends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/logging"
	"github.com/abhisek/prepcoach/internal/store"
)

// Service loads a user's recent history and runs the engine over it.
type Service struct {
	history store.HistoryRepo
	engine  *Engine
	cfg     Config
	now     func() time.Time
	logger  *zap.Logger
}

// NewService creates a Service. A nil logger discards output.
func NewService(history store.HistoryRepo, cfg Config, logger *zap.Logger) *Service {
	return &Service{
		history: history,
		engine:  NewEngine(cfg),
		cfg:     cfg,
		now:     time.Now,
		logger:  logging.OrNop(logger),
	}
}

// WithClock returns a copy of s that reads the time from now.
func (s *Service) WithClock(now func() time.Time) *Service {
	c := *s
	c.now = now
	c.engine = s.engine.WithClock(now)
	return &c
}

// Insights predicts from the user's snapshots of the last Lookback window.
func (s *Service) Insights(ctx context.Context, userID string) (Insights, error) {
	if strings.TrimSpace(userID) == "" {
		return Insights{}, apperr.Validation("user", "must not be empty")
	}

	now := s.now()
	snaps, err := s.history.Since(ctx, userID, now.Add(-s.cfg.Lookback))
	if err != nil {
		return Insights{}, fmt.Errorf("load history: %w", err)
	}

	history := make([]Snapshot, 0, len(snaps))
	for _, m := range snaps {
		if m.Timestamp.After(now) {
			continue
		}
		history = append(history, Snapshot{
			Timestamp:       m.Timestamp,
			OverallScore:    m.OverallScore,
			ConfidenceLevel: m.ConfidenceLevel,
			ClarityScore:    m.ClarityScore,
			WordsPerMinute:  m.WordsPerMinute,
		})
	}

	insights := s.engine.Predict(history)
	s.logger.Debug("trend insights",
		zap.String("user", userID),
		zap.Int("sessions", len(history)),
		zap.String("state", string(insights.UserState)),
	)
	return insights, nil
}
