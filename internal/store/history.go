package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var snapshotColumns = []string{
	"id", "user_id", "session_id", "recorded_at",
	"overall_score", "confidence_level", "clarity_score", "words_per_minute",
}

// historyRepo implements HistoryRepo.
type historyRepo struct {
	drv *entsql.Driver
}

func (r *historyRepo) Append(ctx context.Context, snap MetricSnapshot) (MetricSnapshot, error) {
	res, err := execQ(ctx, r.drv, insertSnapshot(snap))
	if err != nil {
		return snap, fmt.Errorf("append snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return snap, fmt.Errorf("snapshot id: %w", err)
	}
	snap.ID = id
	return snap, nil
}

func (r *historyRepo) Since(ctx context.Context, userID string, since time.Time) ([]MetricSnapshot, error) {
	q := sqlite().Select(snapshotColumns...).
		From(entsql.Table(tableSnapshots)).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.GTE("recorded_at", toMillis(since)),
		)).
		OrderBy(entsql.Asc("recorded_at"), entsql.Asc("id"))

	rows, err := queryQ(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []MetricSnapshot
	for rows.Next() {
		var (
			s  MetricSnapshot
			at int64
		)
		if err := rows.Scan(&s.ID, &s.UserID, &s.SessionID, &at,
			&s.OverallScore, &s.ConfidenceLevel, &s.ClarityScore, &s.WordsPerMinute); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		s.Timestamp = fromMillis(at)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *historyRepo) Prune(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	pred := entsql.LT("recorded_at", toMillis(cutoff))
	if userID != "" {
		pred = entsql.And(pred, entsql.EQ("user_id", userID))
	}
	res, err := execQ(ctx, r.drv, sqlite().Delete(tableSnapshots).Where(pred))
	if err != nil {
		return 0, fmt.Errorf("prune snapshots: %w", err)
	}
	return res.RowsAffected()
}

func insertSnapshot(s MetricSnapshot) querier {
	return sqlite().Insert(tableSnapshots).
		Columns("user_id", "session_id", "recorded_at",
			"overall_score", "confidence_level", "clarity_score", "words_per_minute").
		Values(s.UserID, s.SessionID, toMillis(s.Timestamp),
			s.OverallScore, s.ConfidenceLevel, s.ClarityScore, s.WordsPerMinute)
}
