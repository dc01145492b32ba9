package store

import (
	"context"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

var llmEventColumns = []string{
	"id", "recorded_at", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

// eventRepo implements EventRepo.
type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendLLMEvent(ctx context.Context, e LLMEvent) error {
	q := sqlite().Insert(tableLLMEvents).
		Columns(llmEventColumns[1:]...).
		Values(toMillis(e.Timestamp), e.Provider, e.Model, e.Purpose, e.InputTokens,
			e.OutputTokens, e.LatencyMs, e.Success, e.ErrorMessage,
			e.RequestBody, e.ResponseBody)
	if _, err := execQ(ctx, r.drv, q); err != nil {
		return fmt.Errorf("save llm event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEvent, error) {
	q := sqlite().Select(llmEventColumns...).
		From(entsql.Table(tableLLMEvents)).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		q.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		q.Limit(opts.Limit)
	}
	return r.scan(ctx, q)
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int64) (*LLMEvent, error) {
	q := sqlite().Select(llmEventColumns...).
		From(entsql.Table(tableLLMEvents)).
		Where(entsql.EQ("id", id))
	events, err := r.scan(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("llm event %d: %w", id, ErrNotFound)
	}
	return &events[0], nil
}

func (r *eventRepo) LLMUsageBy(ctx context.Context, groupBy string) ([]LLMUsage, error) {
	if groupBy != "purpose" && groupBy != "model" {
		return nil, errors.New("llm usage: group by purpose or model")
	}
	q := sqlite().Select(
		groupBy,
		entsql.Count("*"),
		"SUM(CASE WHEN `success` = 0 THEN 1 ELSE 0 END)",
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		"CAST(AVG(`latency_ms`) AS INTEGER)",
	).
		From(entsql.Table(tableLLMEvents)).
		GroupBy(groupBy).
		OrderBy(entsql.Asc(groupBy))

	rows, err := queryQ(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query llm usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var u LLMUsage
		if err := rows.Scan(&u.Key, &u.Calls, &u.Failures, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan llm usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) scan(ctx context.Context, q querier) ([]LLMEvent, error) {
	rows, err := queryQ(ctx, r.drv, q)
	if err != nil {
		return nil, fmt.Errorf("query llm events: %w", err)
	}
	defer rows.Close()

	var out []LLMEvent
	for rows.Next() {
		var (
			e  LLMEvent
			at int64
		)
		if err := rows.Scan(&e.ID, &at, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens,
			&e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
			&e.RequestBody, &e.ResponseBody); err != nil {
			return nil, fmt.Errorf("scan llm event: %w", err)
		}
		e.Timestamp = fromMillis(at)
		out = append(out, e)
	}
	return out, rows.Err()
}
