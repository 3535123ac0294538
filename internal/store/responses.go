package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// GetResponse returns a cached payload for key.
func (s *Store) GetResponse(ctx context.Context, key string) (string, bool, error) {
	var payload string
	err := s.queryRow(ctx, sq.Select("payload").From("responses").Where(sq.Eq{"key": key}), &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get response: %w", err)
	}
	return payload, true, nil
}

// PutResponse stores or replaces the payload for key.
func (s *Store) PutResponse(ctx context.Context, key, chain, payload string) error {
	insert := sq.Insert("responses").
		Columns("key", "chain", "payload", "created_at").
		Values(key, chain, payload, formatTime(time.Now())).
		Suffix("ON CONFLICT(key) DO UPDATE SET chain = excluded.chain, payload = excluded.payload, created_at = excluded.created_at")
	if _, err := s.exec(ctx, insert); err != nil {
		return fmt.Errorf("put response: %w", err)
	}
	return nil
}

// CountResponses reports how many payloads are cached per chain.
func (s *Store) CountResponses(ctx context.Context) (map[string]int, error) {
	sqlText, args, err := sq.Select("chain", "COUNT(1)").From("responses").GroupBy("chain").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	counts := make(map[string]int)
	err = retryOnBusy(ctx, func() error {
		clear(counts)
		rows, err := s.db.QueryContext(ctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var (
				chain string
				n     int
			)
			if err := rows.Scan(&chain, &n); err != nil {
				return err
			}
			counts[chain] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("count responses: %w", err)
	}
	return counts, nil
}

// ClearResponses drops every cached payload and returns how many were removed.
func (s *Store) ClearResponses(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, sq.Delete("responses"))
	if err != nil {
		return 0, fmt.Errorf("clear responses: %w", err)
	}
	return res.RowsAffected()
}
