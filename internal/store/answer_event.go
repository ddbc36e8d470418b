package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// AnswerEventData records one evaluated answer in either mode.
type AnswerEventData struct {
	SessionID string
	Mode      string
	ItemID    string
	Correct   bool
	Delta     int
	Score     int
	Streak    int
	Timestamp time.Time
}

// ModeStats aggregates answer events for one mode.
type ModeStats struct {
	Mode    string
	Answers int
	Correct int
	Points  int
	LastAt  time.Time
}

// Accuracy returns the share of correct answers, or 0 with no answers.
func (m ModeStats) Accuracy() float64 {
	if m.Answers == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Answers)
}

// EventRepo provides append and summary access to answer history.
type EventRepo interface {
	AppendAnswer(ctx context.Context, data AnswerEventData) error
	AnswerStats(ctx context.Context) ([]ModeStats, error)
	RecentAnswers(ctx context.Context, limit int) ([]AnswerEventData, error)
}

type eventRepo struct {
	drv *entsql.Driver
}

func (r *eventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableAnswers).
		Columns("session_id", "mode", "item_id", "correct", "delta", "score", "streak", "timestamp").
		Values(data.SessionID, data.Mode, data.ItemID, boolToInt(data.Correct), data.Delta, data.Score, data.Streak, ts.UnixMilli()).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("append answer event: %w", err)
	}
	return nil
}

func (r *eventRepo) AnswerStats(ctx context.Context) ([]ModeStats, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(
		"mode",
		entsql.As(entsql.Count("*"), "answers"),
		entsql.As(entsql.Sum("correct"), "correct_total"),
		entsql.As(entsql.Sum("delta"), "points"),
		entsql.As(entsql.Max("timestamp"), "last_at"),
	).
		From(b.Table(tableAnswers)).
		GroupBy("mode").
		OrderBy("mode").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query answer stats: %w", err)
	}
	defer rows.Close()

	var out []ModeStats
	for rows.Next() {
		var (
			s    ModeStats
			last int64
		)
		if err := rows.Scan(&s.Mode, &s.Answers, &s.Correct, &s.Points, &last); err != nil {
			return nil, fmt.Errorf("scan answer stats: %w", err)
		}
		s.LastAt = time.UnixMilli(last)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *eventRepo) RecentAnswers(ctx context.Context, limit int) ([]AnswerEventData, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select("session_id", "mode", "item_id", "correct", "delta", "score", "streak", "timestamp").
		From(b.Table(tableAnswers)).
		OrderBy(entsql.Desc("id"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query recent answers: %w", err)
	}
	defer rows.Close()

	var out []AnswerEventData
	for rows.Next() {
		var (
			e       AnswerEventData
			correct int
			ts      int64
		)
		if err := rows.Scan(&e.SessionID, &e.Mode, &e.ItemID, &correct, &e.Delta, &e.Score, &e.Streak, &ts); err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		e.Correct = correct != 0
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
