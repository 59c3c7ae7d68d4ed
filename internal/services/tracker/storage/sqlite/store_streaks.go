package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

// GetStreak fetches the user's streak record.
func (s *Store) GetStreak(ctx context.Context, userID string) (domain.Streak, error) {
	if err := ctx.Err(); err != nil {
		return domain.Streak{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Streak{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return domain.Streak{}, fmt.Errorf("user id is required")
	}

	var streak domain.Streak
	var lastCredited sql.NullString
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT
	user_id,
	current_streak,
	grace_days_remaining,
	last_credited_date
FROM streaks
WHERE user_id = ?
`, userID)
	if err := row.Scan(&streak.UserID, &streak.CurrentStreak, &streak.GraceDaysRemaining, &lastCredited); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Streak{}, storage.ErrNotFound
		}
		return domain.Streak{}, fmt.Errorf("get streak: %w", err)
	}
	if lastCredited.Valid && lastCredited.String != "" {
		day, err := time.ParseInLocation(dayLayout, lastCredited.String, time.UTC)
		if err != nil {
			return domain.Streak{}, fmt.Errorf("parse last credited date: %w", err)
		}
		streak.LastCreditedDay = day
	}
	return streak, nil
}

// PutStreak inserts or replaces the user's streak record.
func (s *Store) PutStreak(ctx context.Context, streak domain.Streak) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(streak.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if streak.CurrentStreak < 0 {
		return fmt.Errorf("current streak must not be negative")
	}
	if streak.GraceDaysRemaining < 0 {
		return fmt.Errorf("grace days must not be negative")
	}

	var lastCredited sql.NullString
	if !streak.LastCreditedDay.IsZero() {
		lastCredited = sql.NullString{String: streak.LastCreditedDay.UTC().Format(dayLayout), Valid: true}
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO streaks (
	user_id,
	current_streak,
	grace_days_remaining,
	last_credited_date
) VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
	current_streak = excluded.current_streak,
	grace_days_remaining = excluded.grace_days_remaining,
	last_credited_date = excluded.last_credited_date
`,
		streak.UserID,
		streak.CurrentStreak,
		streak.GraceDaysRemaining,
		lastCredited,
	)
	if err != nil {
		return fmt.Errorf("put streak: %w", err)
	}
	return nil
}
