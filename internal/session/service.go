// Package session runs interview practice sessions: each spoken response
// is classified, measured, coached and analyzed, and a completed session
// is summarized into the user's performance history.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/prepcoach/internal/apperr"
	"github.com/abhisek/prepcoach/internal/classify"
	"github.com/abhisek/prepcoach/internal/coaching"
	"github.com/abhisek/prepcoach/internal/keylock"
	"github.com/abhisek/prepcoach/internal/llm"
	"github.com/abhisek/prepcoach/internal/logging"
	"github.com/abhisek/prepcoach/internal/speech"
	"github.com/abhisek/prepcoach/internal/store"
)

// Config bundles the tables of the analytics components.
type Config struct {
	Lexicon  classify.Lexicon
	Speech   speech.Config
	Coaching coaching.Config
}

// DefaultConfig returns the default tables for every component.
func DefaultConfig() Config {
	return Config{
		Lexicon:  classify.DefaultLexicon(),
		Speech:   speech.DefaultConfig(),
		Coaching: coaching.DefaultConfig(),
	}
}

// Feedback is everything produced for one response.
type Feedback struct {
	Response store.SessionResponse `json:"-"`
	Question classify.Context      `json:"question"`
	Metrics  speech.Metrics        `json:"metrics"`
	Insights []coaching.Insight    `json:"insights"`
	Analysis coaching.Analysis     `json:"analysis"`
}

// Service manages practice sessions. A user has at most one session in
// progress.
type Service struct {
	repo       store.SessionRepo
	classifier *classify.Classifier
	analyzer   *speech.Analyzer
	generator  *coaching.Generator
	analyst    *coaching.Analyst
	logger     *zap.Logger

	// Profile personalizes content insights when set.
	Profile *coaching.Profile

	now   func() time.Time
	newID func() string

	userLocks    keylock.Mutex
	sessionLocks keylock.Mutex
}

// NewService creates a Service. A nil analyst always falls back; a nil
// logger discards output.
func NewService(repo store.SessionRepo, analyst *coaching.Analyst, cfg Config, logger *zap.Logger) *Service {
	classifier := classify.New(cfg.Lexicon)
	if analyst == nil {
		analyst = coaching.NewAnalyst(llm.Disabled(), coaching.DefaultAnalystConfig(), classifier, logger)
	}
	return &Service{
		repo:       repo,
		classifier: classifier,
		analyzer:   speech.NewAnalyzer(cfg.Speech),
		generator:  coaching.NewGenerator(cfg.Coaching),
		analyst:    analyst,
		logger:     logging.OrNop(logger),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Start opens a session around questionText.
func (s *Service) Start(ctx context.Context, userID, questionText, role, industry string) (store.PracticeSession, error) {
	if strings.TrimSpace(userID) == "" {
		return store.PracticeSession{}, apperr.Validation("user", "must not be empty")
	}
	if err := classify.ValidateText(questionText); err != nil {
		return store.PracticeSession{}, err
	}

	qc := s.classifier.Classify(questionText, role, industry)
	sess := store.PracticeSession{
		ID:           s.newID(),
		UserID:       userID,
		Question:     strings.TrimSpace(questionText),
		Role:         role,
		Industry:     industry,
		QuestionType: string(qc.Type),
		Category:     qc.Category,
		Difficulty:   string(qc.Difficulty),
		State:        store.SessionInProgress,
		StartedAt:    s.now(),
	}

	unlock := s.userLocks.Lock(userID)
	defer unlock()

	if err := s.repo.Create(ctx, sess); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.PracticeSession{}, &apperr.StateError{
				Op:     "start session",
				State:  string(store.SessionInProgress),
				Reason: "user already has a session in progress",
			}
		}
		return store.PracticeSession{}, fmt.Errorf("create session: %w", err)
	}
	s.logger.Info("session started",
		zap.String("session", sess.ID),
		zap.String("user", userID),
		zap.String("type", sess.QuestionType),
		zap.String("category", sess.Category),
	)
	return sess, nil
}

// Respond analyzes one spoken answer and stores it with its feedback.
// Model failures never fail the call; the analysis falls back instead.
func (s *Service) Respond(ctx context.Context, sessionID, transcript string, duration time.Duration) (Feedback, error) {
	if strings.TrimSpace(transcript) == "" {
		return Feedback{}, apperr.Validation("transcript", "must not be empty")
	}
	metrics, err := s.analyzer.Analyze(transcript, duration)
	if err != nil {
		return Feedback{}, err
	}

	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	sess, err := s.open(ctx, sessionID, "respond")
	if err != nil {
		return Feedback{}, err
	}
	qc := questionContext(sess)

	fb := Feedback{
		Question: qc,
		Metrics:  metrics,
		Insights: s.generator.Generate(coaching.Request{
			Question: qc,
			Profile:  s.Profile,
			Speech:   &metrics,
			Answer:   transcript,
		}),
		Analysis: s.analyst.AnalyzeAnswer(ctx, coaching.AnalysisRequest{
			Question:   sess.Question,
			Context:    qc,
			Transcript: transcript,
		}),
	}
	encoded, err := json.Marshal(fb)
	if err != nil {
		return Feedback{}, fmt.Errorf("encode feedback: %w", err)
	}
	if duration == 0 {
		duration = s.analyzer.DefaultDuration()
	}

	resp, err := s.repo.AddResponse(ctx, store.SessionResponse{
		SessionID:        sessionID,
		Transcript:       transcript,
		Duration:         duration,
		WordsPerMinute:   metrics.WordsPerMinute,
		FillerWordCount:  metrics.FillerWordCount,
		Pace:             metrics.Pace,
		Clarity:          metrics.Clarity,
		Confidence:       metrics.Confidence,
		AnalysisScore:    fb.Analysis.OverallScore,
		AnalysisProvider: fb.Analysis.Provider,
		Feedback:         string(encoded),
		CreatedAt:        s.now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Feedback{}, sessionClosed("respond")
		}
		return Feedback{}, fmt.Errorf("store response: %w", err)
	}
	fb.Response = resp

	s.logger.Info("response analyzed",
		zap.String("session", sessionID),
		zap.Int("wpm", metrics.WordsPerMinute),
		zap.Int("fillers", metrics.FillerWordCount),
		zap.Int("score", fb.Analysis.OverallScore),
		zap.Bool("fallback", fb.Analysis.IsFallback()),
	)
	return fb, nil
}

// Live returns coaching for an answer still being spoken. Nothing is
// stored.
func (s *Service) Live(ctx context.Context, sessionID, partialTranscript string, elapsed time.Duration) ([]coaching.Insight, speech.Metrics, error) {
	if elapsed < 0 {
		return nil, speech.Metrics{}, apperr.Validation("elapsed", "must not be negative")
	}
	sess, err := s.open(ctx, sessionID, "coach")
	if err != nil {
		return nil, speech.Metrics{}, err
	}

	req := coaching.Request{Question: questionContext(sess), Profile: s.Profile}
	var metrics speech.Metrics
	if strings.TrimSpace(partialTranscript) != "" && elapsed > 0 {
		metrics, err = s.analyzer.Analyze(partialTranscript, elapsed)
		if err != nil {
			return nil, speech.Metrics{}, err
		}
		req.Speech = &metrics
	}
	return s.generator.GenerateLive(req, elapsed), metrics, nil
}

// Complete closes the session and appends its summary to the user's
// history. A session needs at least one response.
func (s *Service) Complete(ctx context.Context, sessionID string) (store.MetricSnapshot, error) {
	unlock := s.sessionLocks.Lock(sessionID)
	defer unlock()

	sess, err := s.open(ctx, sessionID, "complete")
	if err != nil {
		return store.MetricSnapshot{}, err
	}
	responses, err := s.repo.Responses(ctx, sessionID)
	if err != nil {
		return store.MetricSnapshot{}, fmt.Errorf("load responses: %w", err)
	}
	if len(responses) == 0 {
		return store.MetricSnapshot{}, &apperr.StateError{
			Op:     "complete",
			State:  string(sess.State),
			Reason: "session has no responses",
		}
	}

	now := s.now()
	snap := Summarize(responses)
	snap.UserID = sess.UserID
	snap.SessionID = sess.ID
	snap.Timestamp = now

	if err := s.repo.Complete(ctx, sessionID, now, snap); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return store.MetricSnapshot{}, sessionClosed("complete")
		}
		return store.MetricSnapshot{}, fmt.Errorf("complete session: %w", err)
	}
	s.logger.Info("session completed",
		zap.String("session", sessionID),
		zap.Int("responses", len(responses)),
		zap.Int("overall", snap.OverallScore),
	)
	return snap, nil
}

// Get returns the session and its responses.
func (s *Service) Get(ctx context.Context, sessionID string) (store.PracticeSession, []store.SessionResponse, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.PracticeSession{}, nil, apperr.NotFound("session", sessionID)
		}
		return store.PracticeSession{}, nil, err
	}
	responses, err := s.repo.Responses(ctx, sessionID)
	if err != nil {
		return store.PracticeSession{}, nil, fmt.Errorf("load responses: %w", err)
	}
	return *sess, responses, nil
}

// Current returns the user's session in progress.
func (s *Service) Current(ctx context.Context, userID string) (store.PracticeSession, error) {
	sess, err := s.repo.Open(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.PracticeSession{}, apperr.NotFound("open session for user", userID)
		}
		return store.PracticeSession{}, err
	}
	return *sess, nil
}

func (s *Service) open(ctx context.Context, sessionID, op string) (*store.PracticeSession, error) {
	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("session", sessionID)
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess.State != store.SessionInProgress {
		return nil, sessionClosed(op)
	}
	return sess, nil
}

// Summarize averages responses into one snapshot. The overall score
// weighs answer analysis at half, and clarity and confidence at a
// quarter each. Fallback analyses carry no measurement and are left out
// of the analysis mean; with none measured, clarity and confidence
// share the overall score equally.
func Summarize(responses []store.SessionResponse) store.MetricSnapshot {
	if len(responses) == 0 {
		return store.MetricSnapshot{}
	}

	var analysis, clarity, confidence, wpm float64
	var analyzed int
	for _, r := range responses {
		if r.AnalysisProvider != coaching.ProviderFallback {
			analysis += float64(r.AnalysisScore)
			analyzed++
		}
		clarity += float64(r.Clarity)
		confidence += float64(r.Confidence)
		wpm += float64(r.WordsPerMinute)
	}
	n := float64(len(responses))
	clarity, confidence, wpm = clarity/n, confidence/n, wpm/n

	overall := 0.5*clarity + 0.5*confidence
	if analyzed > 0 {
		overall = 0.5*analysis/float64(analyzed) + 0.25*clarity + 0.25*confidence
	}

	return store.MetricSnapshot{
		OverallScore:    int(math.Round(overall)),
		ConfidenceLevel: int(math.Round(confidence)),
		ClarityScore:    int(math.Round(clarity)),
		WordsPerMinute:  int(math.Round(wpm)),
	}
}

func questionContext(s *store.PracticeSession) classify.Context {
	return classify.Context{
		Type:       classify.QuestionType(s.QuestionType),
		Category:   s.Category,
		Difficulty: classify.Difficulty(s.Difficulty),
		Role:       s.Role,
		Industry:   s.Industry,
	}
}

func sessionClosed(op string) error {
	return &apperr.StateError{Op: op, State: string(store.SessionCompleted), Reason: "session already completed"}
}
