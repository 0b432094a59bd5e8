package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tldsweep/tldsweep/internal/core"
)

// Usage returns the consumed call count for a method within its current
// quota window. An elapsed window resets to zero.
func (s *Store) Usage(ctx context.Context, method core.Method, window time.Duration, now time.Time) (int, error) {
	if s == nil || s.DB == nil {
		return 0, errors.New("quota store is not initialized")
	}

	var (
		used        int
		windowStart int64
	)
	row := s.DB.QueryRowContext(ctx, `
		SELECT used, window_start FROM method_usage WHERE method = ?
	`, string(method))
	if err := row.Scan(&used, &windowStart); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("fetch method usage: %w", err)
	}

	if window > 0 && now.After(time.Unix(windowStart, 0).Add(window)) {
		return 0, nil
	}
	return used, nil
}

// RecordUsage adds consumed calls for a method, starting a fresh window
// when the previous one has elapsed.
func (s *Store) RecordUsage(ctx context.Context, method core.Method, delta int, window time.Duration, now time.Time) error {
	if s == nil || s.DB == nil {
		return errors.New("quota store is not initialized")
	}
	if delta <= 0 {
		return nil
	}

	used, err := s.Usage(ctx, method, window, now)
	if err != nil {
		return err
	}

	windowStart := now
	if used > 0 {
		var existing int64
		row := s.DB.QueryRowContext(ctx, `SELECT window_start FROM method_usage WHERE method = ?`, string(method))
		if err := row.Scan(&existing); err == nil {
			windowStart = time.Unix(existing, 0).UTC()
		}
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO method_usage (method, window_start, used)
		VALUES (?, ?, ?)
		ON CONFLICT(method) DO UPDATE SET
			window_start = excluded.window_start,
			used = excluded.used
	`, string(method), windowStart.UTC().Unix(), used+delta)
	if err != nil {
		return fmt.Errorf("store method usage: %w", err)
	}
	return nil
}
