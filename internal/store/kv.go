package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/gachadeck/internal/logger"
)

// kvProgressRepo implements ProgressRepo on the SQLite kv table.
type kvProgressRepo struct {
	drv *entsql.Driver
	key string
	log *logger.Logger
}

func (r *kvProgressRepo) Load(ctx context.Context) (Progress, error) {
	raw, ok, err := readKV(ctx, r.drv, r.key)
	if err != nil {
		return DefaultProgress(), err
	}
	if !ok {
		return DefaultProgress(), nil
	}
	p, err := decodeProgress(raw)
	if err != nil {
		r.log.Warn("discarding unreadable progress", "key", r.key, "error", err)
		return DefaultProgress(), nil
	}
	return p, nil
}

func (r *kvProgressRepo) Save(ctx context.Context, p Progress, fields ...Field) error {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	existing, _, err := readKV(ctx, tx, r.key)
	if err != nil {
		tx.Rollback()
		return err
	}
	merged, err := mergeProgress(existing, p, fields)
	if err != nil {
		tx.Rollback()
		return err
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(tableKV).
		Columns("key", "value", "updated_at").
		Values(r.key, string(merged), time.Now().UnixMilli()).
		OnConflict(entsql.ConflictColumns("key"), entsql.ResolveWithNewValues()).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("save progress: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress: %w", err)
	}
	return nil
}

func (r *kvProgressRepo) Clear(ctx context.Context) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(tableKV).
		Where(entsql.EQ("key", r.key)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

func readKV(ctx context.Context, q dialect.ExecQuerier, key string) ([]byte, bool, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("value").
		From(b.Table(tableKV)).
		Where(entsql.EQ("key", key)).
		Query()

	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return nil, false, fmt.Errorf("scan %s: %w", key, err)
	}
	return []byte(value), true, nil
}
