package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var sessionColumns = []string{
	"id", "user_id", "question", "role", "industry", "question_type",
	"category", "difficulty", "state", "started_at", "completed_at",
}

var sessionResponseColumns = []string{
	"id", "session_id", "transcript", "duration_ms", "words_per_minute",
	"filler_word_count", "pace", "clarity", "confidence", "analysis_score",
	"analysis_provider", "feedback", "created_at",
}

// sessionRepo implements SessionRepo.
type sessionRepo struct {
	drv *entsql.Driver
}

func (r *sessionRepo) Create(ctx context.Context, s PracticeSession) error {
	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		open, err := countQ(ctx, tx, sqlite().Select().Count().
			From(entsql.Table(tableSessions)).
			Where(entsql.And(
				entsql.EQ("user_id", s.UserID),
				entsql.EQ("state", string(SessionInProgress)),
			)))
		if err != nil {
			return fmt.Errorf("count open sessions: %w", err)
		}
		if open > 0 {
			return ErrConflict
		}

		q := sqlite().Insert(tableSessions).
			Columns(sessionColumns...).
			Values(s.ID, s.UserID, s.Question, s.Role, s.Industry, s.QuestionType,
				s.Category, s.Difficulty, string(s.State), toMillis(s.StartedAt),
				nullMillis(s.CompletedAt))
		if _, err := execQ(ctx, tx, q); err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

func (r *sessionRepo) Get(ctx context.Context, id string) (*PracticeSession, error) {
	return r.one(ctx, r.drv, entsql.EQ("id", id))
}

func (r *sessionRepo) Open(ctx context.Context, userID string) (*PracticeSession, error) {
	return r.one(ctx, r.drv, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.EQ("state", string(SessionInProgress)),
	))
}

func (r *sessionRepo) one(ctx context.Context, ex dialect.ExecQuerier, pred *entsql.Predicate) (*PracticeSession, error) {
	q := sqlite().Select(sessionColumns...).
		From(entsql.Table(tableSessions)).
		Where(pred).
		Limit(1)
	rows, err := queryQ(ctx, ex, q)
	if err != nil {
		return nil, fmt.Errorf("query session: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("practice session: %w", ErrNotFound)
	}
	var (
		s         PracticeSession
		state     string
		started   int64
		completed sql.NullInt64
	)
	if err := rows.Scan(&s.ID, &s.UserID, &s.Question, &s.Role, &s.Industry,
		&s.QuestionType, &s.Category, &s.Difficulty, &state, &started, &completed); err != nil {
		return nil, fmt.Errorf("scan session: %w", err)
	}
	s.State = SessionState(state)
	s.StartedAt = fromMillis(started)
	s.CompletedAt = fromNullMillis(completed)
	return &s, nil
}

func (r *sessionRepo) AddResponse(ctx context.Context, resp SessionResponse) (SessionResponse, error) {
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		s, err := r.one(ctx, tx, entsql.EQ("id", resp.SessionID))
		if err != nil {
			return err
		}
		if s.State != SessionInProgress {
			return ErrConflict
		}

		q := sqlite().Insert(tableSessionResponses).
			Columns(sessionResponseColumns[1:]...).
			Values(resp.SessionID, resp.Transcript, resp.Duration.Milliseconds(),
				resp.WordsPerMinute, resp.FillerWordCount, resp.Pace, resp.Clarity,
				resp.Confidence, resp.AnalysisScore, resp.AnalysisProvider,
				resp.Feedback, toMillis(resp.CreatedAt))
		res, err := execQ(ctx, tx, q)
		if err != nil {
			return fmt.Errorf("insert session response: %w", err)
		}
		resp.ID, err = res.LastInsertId()
		return err
	})
	return resp, err
}

func (r *sessionRepo) Responses(ctx context.Context, sessionID string) ([]SessionResponse, error) {
	q := sqlite().Select(sessionResponseColumns...).
		From(entsql.Table(tableSessionResponses)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy(entsql.Asc("id"))
	rows, err := queryQ(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query session responses: %w", err)
	}
	defer rows.Close()

	var out []SessionResponse
	for rows.Next() {
		var (
			resp       SessionResponse
			durationMs int64
			created    int64
		)
		if err := rows.Scan(&resp.ID, &resp.SessionID, &resp.Transcript, &durationMs,
			&resp.WordsPerMinute, &resp.FillerWordCount, &resp.Pace, &resp.Clarity,
			&resp.Confidence, &resp.AnalysisScore, &resp.AnalysisProvider,
			&resp.Feedback, &created); err != nil {
			return nil, fmt.Errorf("scan session response: %w", err)
		}
		resp.Duration = time.Duration(durationMs) * time.Millisecond
		resp.CreatedAt = fromMillis(created)
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *sessionRepo) Complete(ctx context.Context, id string, at time.Time, snap MetricSnapshot) error {
	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		res, err := execQ(ctx, tx, sqlite().Update(tableSessions).
			Set("state", string(SessionCompleted)).
			Set("completed_at", toMillis(at)).
			Where(entsql.And(
				entsql.EQ("id", id),
				entsql.EQ("state", string(SessionInProgress)),
			)))
		if err != nil {
			return fmt.Errorf("complete session: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			if _, err := r.one(ctx, tx, entsql.EQ("id", id)); errors.Is(err, ErrNotFound) {
				return err
			}
			return ErrConflict
		}

		if _, err := execQ(ctx, tx, insertSnapshot(snap)); err != nil {
			return fmt.Errorf("append snapshot: %w", err)
		}
		return nil
	})
}
