package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var quizColumns = []string{
	"id", "title", "max_attempts", "passing_score", "is_randomized",
	"time_limit_secs", "created_at",
}

var questionColumns = []string{
	"id", "quiz_id", "text", "type", "options", "correct_answer", "points", "order_index",
}

var attemptColumns = []string{
	"id", "user_id", "quiz_id", "attempt_number", "max_score", "score",
	"passed", "state", "started_at", "completed_at",
}

var quizResponseColumns = []string{
	"attempt_id", "question_id", "answer", "is_correct", "points_earned", "answered_at",
}

// quizRepo implements QuizRepo.
type quizRepo struct {
	drv *entsql.Driver
}

func (r *quizRepo) CreateQuiz(ctx context.Context, q Quiz, questions []Question) error {
	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		_, err := execQ(ctx, tx, sqlite().Insert(tableQuizzes).
			Columns(quizColumns...).
			Values(q.ID, q.Title, q.MaxAttempts, q.PassingScore, q.IsRandomized,
				q.TimeLimitSecs, toMillis(q.CreatedAt)))
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("quiz %q: %w", q.ID, ErrConflict)
			}
			return fmt.Errorf("insert quiz: %w", err)
		}
		if len(questions) == 0 {
			return nil
		}

		ins := sqlite().Insert(tableQuestions).Columns(questionColumns...)
		for _, qq := range questions {
			options, err := json.Marshal(nonNil(qq.Options))
			if err != nil {
				return fmt.Errorf("encode options: %w", err)
			}
			correct, err := json.Marshal(nonNil(qq.CorrectAnswer))
			if err != nil {
				return fmt.Errorf("encode correct answer: %w", err)
			}
			ins.Values(qq.ID, q.ID, qq.Text, string(qq.Type), string(options),
				string(correct), qq.Points, qq.OrderIndex)
		}
		if _, err := execQ(ctx, tx, ins); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("question id: %w", ErrConflict)
			}
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}

func (r *quizRepo) GetQuiz(ctx context.Context, id string) (*Quiz, error) {
	quizzes, err := r.quizzes(ctx, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("quiz: %w", ErrNotFound)
	}
	return &quizzes[0], nil
}

func (r *quizRepo) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	return r.quizzes(ctx, nil)
}

func (r *quizRepo) quizzes(ctx context.Context, pred *entsql.Predicate) ([]Quiz, error) {
	q := sqlite().Select(quizColumns...).
		From(entsql.Table(tableQuizzes)).
		OrderBy(entsql.Asc("title"), entsql.Asc("id"))
	if pred != nil {
		q.Where(pred)
	}
	rows, err := queryQ(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var out []Quiz
	for rows.Next() {
		var (
			qz      Quiz
			created int64
		)
		if err := rows.Scan(&qz.ID, &qz.Title, &qz.MaxAttempts, &qz.PassingScore,
			&qz.IsRandomized, &qz.TimeLimitSecs, &created); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		qz.CreatedAt = fromMillis(created)
		out = append(out, qz)
	}
	return out, rows.Err()
}

func (r *quizRepo) Questions(ctx context.Context, quizID string) ([]Question, error) {
	return r.questions(ctx, r.drv, entsql.EQ("quiz_id", quizID))
}

func (r *quizRepo) GetQuestion(ctx context.Context, id string) (*Question, error) {
	qs, err := r.questions(ctx, r.drv, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, fmt.Errorf("question: %w", ErrNotFound)
	}
	return &qs[0], nil
}

func (r *quizRepo) questions(ctx context.Context, ex dialect.ExecQuerier, pred *entsql.Predicate) ([]Question, error) {
	q := sqlite().Select(questionColumns...).
		From(entsql.Table(tableQuestions)).
		Where(pred).
		OrderBy(entsql.Asc("order_index"), entsql.Asc("id"))
	rows, err := queryQ(ctx, ex, q)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var (
			qq               Question
			typ              string
			options, correct string
		)
		if err := rows.Scan(&qq.ID, &qq.QuizID, &qq.Text, &typ, &options, &correct,
			&qq.Points, &qq.OrderIndex); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		qq.Type = QuestionType(typ)
		if err := json.Unmarshal([]byte(options), &qq.Options); err != nil {
			return nil, fmt.Errorf("decode options of %s: %w", qq.ID, err)
		}
		if err := json.Unmarshal([]byte(correct), &qq.CorrectAnswer); err != nil {
			return nil, fmt.Errorf("decode correct answer of %s: %w", qq.ID, err)
		}
		out = append(out, qq)
	}
	return out, rows.Err()
}

func (r *quizRepo) StartAttempt(ctx context.Context, a Attempt, maxAttempts int) (Attempt, error) {
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		prior, err := countQ(ctx, tx, sqlite().Select().Count().
			From(entsql.Table(tableAttempts)).
			Where(entsql.And(
				entsql.EQ("user_id", a.UserID),
				entsql.EQ("quiz_id", a.QuizID),
			)))
		if err != nil {
			return fmt.Errorf("count attempts: %w", err)
		}
		if prior >= maxAttempts {
			return ErrLimitReached
		}
		a.AttemptNumber = prior + 1

		_, err = execQ(ctx, tx, sqlite().Insert(tableAttempts).
			Columns(attemptColumns...).
			Values(a.ID, a.UserID, a.QuizID, a.AttemptNumber, a.MaxScore,
				nullInt(a.Score), nullBool(a.Passed), string(a.State),
				toMillis(a.StartedAt), nullMillis(a.CompletedAt)))
		if err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return fmt.Errorf("insert attempt: %w", err)
		}

		if len(a.QuestionIDs) == 0 {
			return nil
		}
		ins := sqlite().Insert(tableAttemptQuestions).Columns("attempt_id", "question_id", "position")
		for i, qid := range a.QuestionIDs {
			ins.Values(a.ID, qid, i)
		}
		if _, err := execQ(ctx, tx, ins); err != nil {
			return fmt.Errorf("snapshot attempt questions: %w", err)
		}
		return nil
	})
	return a, err
}

func (r *quizRepo) GetAttempt(ctx context.Context, id string) (*Attempt, error) {
	return r.attempt(ctx, r.drv, id)
}

func (r *quizRepo) attempt(ctx context.Context, ex dialect.ExecQuerier, id string) (*Attempt, error) {
	attempts, err := r.attempts(ctx, ex, entsql.EQ("id", id))
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, fmt.Errorf("attempt: %w", ErrNotFound)
	}
	a := attempts[0]

	rows, err := queryQ(ctx, ex, sqlite().Select("question_id").
		From(entsql.Table(tableAttemptQuestions)).
		Where(entsql.EQ("attempt_id", id)).
		OrderBy(entsql.Asc("position")))
	if err != nil {
		return nil, fmt.Errorf("query attempt questions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var qid string
		if err := rows.Scan(&qid); err != nil {
			return nil, fmt.Errorf("scan attempt question: %w", err)
		}
		a.QuestionIDs = append(a.QuestionIDs, qid)
	}
	return &a, rows.Err()
}

func (r *quizRepo) Attempts(ctx context.Context, userID, quizID string) ([]Attempt, error) {
	return r.attempts(ctx, r.drv, entsql.And(
		entsql.EQ("user_id", userID),
		entsql.EQ("quiz_id", quizID),
	))
}

func (r *quizRepo) attempts(ctx context.Context, ex dialect.ExecQuerier, pred *entsql.Predicate) ([]Attempt, error) {
	rows, err := queryQ(ctx, ex, sqlite().Select(attemptColumns...).
		From(entsql.Table(tableAttempts)).
		Where(pred).
		OrderBy(entsql.Asc("attempt_number")))
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a         Attempt
			score     sql.NullInt64
			passed    sql.NullBool
			state     string
			started   int64
			completed sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuizID, &a.AttemptNumber, &a.MaxScore,
			&score, &passed, &state, &started, &completed); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if score.Valid {
			v := int(score.Int64)
			a.Score = &v
		}
		if passed.Valid {
			v := passed.Bool
			a.Passed = &v
		}
		a.State = AttemptState(state)
		a.StartedAt = fromMillis(started)
		a.CompletedAt = fromNullMillis(completed)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *quizRepo) UpsertResponse(ctx context.Context, resp Response) error {
	answer, err := json.Marshal(nonNil(resp.Answer))
	if err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	return withTx(ctx, r.drv, func(tx dialect.Tx) error {
		a, err := r.attempt(ctx, tx, resp.AttemptID)
		if err != nil {
			return err
		}
		if a.State != AttemptInProgress {
			return ErrConflict
		}

		q := sqlite().Insert(tableQuizResponses).
			Columns(quizResponseColumns...).
			Values(resp.AttemptID, resp.QuestionID, string(answer), resp.IsCorrect,
				resp.PointsEarned, toMillis(resp.AnsweredAt)).
			OnConflict(
				entsql.ConflictColumns("attempt_id", "question_id"),
				entsql.ResolveWithNewValues(),
			)
		if _, err := execQ(ctx, tx, q); err != nil {
			return fmt.Errorf("upsert response: %w", err)
		}
		return nil
	})
}

func (r *quizRepo) Responses(ctx context.Context, attemptID string) ([]Response, error) {
	rows, err := queryQ(ctx, r.drv, sqlite().Select(quizResponseColumns...).
		From(entsql.Table(tableQuizResponses)).
		Where(entsql.EQ("attempt_id", attemptID)).
		OrderBy(entsql.Asc("answered_at"), entsql.Asc("question_id")))
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	var out []Response
	for rows.Next() {
		var (
			resp     Response
			answer   string
			answered int64
		)
		if err := rows.Scan(&resp.AttemptID, &resp.QuestionID, &answer, &resp.IsCorrect,
			&resp.PointsEarned, &answered); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal([]byte(answer), &resp.Answer); err != nil {
			return nil, fmt.Errorf("decode answer: %w", err)
		}
		resp.AnsweredAt = fromMillis(answered)
		out = append(out, resp)
	}
	return out, rows.Err()
}

func (r *quizRepo) SubmitAttempt(ctx context.Context, id string, passingScore int, at time.Time) (Attempt, error) {
	var out Attempt
	err := withTx(ctx, r.drv, func(tx dialect.Tx) error {
		a, err := r.attempt(ctx, tx, id)
		if err != nil {
			return err
		}
		if a.State != AttemptInProgress {
			return ErrConflict
		}

		score, err := countQ(ctx, tx, sqlite().Select(entsql.Sum("points_earned")).
			From(entsql.Table(tableQuizResponses)).
			Where(entsql.EQ("attempt_id", id)))
		if err != nil {
			return fmt.Errorf("sum points: %w", err)
		}
		passed := score >= passingScore

		res, err := execQ(ctx, tx, sqlite().Update(tableAttempts).
			Set("state", string(AttemptSubmitted)).
			Set("score", score).
			Set("passed", passed).
			Set("completed_at", toMillis(at)).
			Where(entsql.And(
				entsql.EQ("id", id),
				entsql.EQ("state", string(AttemptInProgress)),
			)))
		if err != nil {
			return fmt.Errorf("submit attempt: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return ErrConflict
		}

		completed := at.UTC().Truncate(time.Millisecond)
		a.State = AttemptSubmitted
		a.Score = &score
		a.Passed = &passed
		a.CompletedAt = &completed
		out = *a
		return nil
	})
	return out, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
