package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

// StreakService maintains per-user streak records.
type StreakService struct {
	streaks storage.StreakStore
}

// NewStreakService creates a streak service.
func NewStreakService(streaks storage.StreakStore) *StreakService {
	return &StreakService{streaks: streaks}
}

// Credit applies one completed-session credit for the calendar day of the
// given time. The record is created lazily on first credit; an idempotent
// same-day repeat is returned unchanged without a write.
func (s *StreakService) Credit(ctx context.Context, userID string, at time.Time) (domain.Streak, error) {
	if s == nil || s.streaks == nil {
		return domain.Streak{}, fmt.Errorf("streak service is not configured")
	}

	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return domain.Streak{}, fmt.Errorf("get streak: %w", err)
		}
		streak = domain.NewStreak(userID)
	}

	credited, changed := streak.Credit(at)
	if !changed {
		return credited, nil
	}
	if err := s.streaks.PutStreak(ctx, credited); err != nil {
		return domain.Streak{}, fmt.Errorf("put streak: %w", err)
	}
	return credited, nil
}

// Get returns the user's streak record. A user never credited gets the
// default record without a write.
func (s *StreakService) Get(ctx context.Context, userID string) (domain.Streak, error) {
	if s == nil || s.streaks == nil {
		return domain.Streak{}, fmt.Errorf("streak service is not configured")
	}

	streak, err := s.streaks.GetStreak(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.NewStreak(userID), nil
		}
		return domain.Streak{}, fmt.Errorf("get streak: %w", err)
	}
	return streak, nil
}
