package service

import (
	"context"
	"testing"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
)

func TestStreakCreditCreatesRecordLazily(t *testing.T) {
	store := newMemStore()
	svc := NewStreakService(store)
	day := time.Date(2026, 3, 4, 14, 30, 0, 0, time.UTC)

	streak, err := svc.Credit(context.Background(), "user-1", day)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if streak.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", streak.CurrentStreak)
	}
	if streak.GraceDaysRemaining != 1 {
		t.Fatalf("grace days = %d, want 1", streak.GraceDaysRemaining)
	}
	if store.putStreakCalls != 1 {
		t.Fatalf("put streak calls = %d, want 1", store.putStreakCalls)
	}
}

func TestStreakCreditSameDayDoesNotWrite(t *testing.T) {
	store := newMemStore()
	svc := NewStreakService(store)
	day := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	if _, err := svc.Credit(context.Background(), "user-1", day); err != nil {
		t.Fatalf("first credit: %v", err)
	}
	streak, err := svc.Credit(context.Background(), "user-1", day.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if streak.CurrentStreak != 1 {
		t.Fatalf("current streak = %d, want 1", streak.CurrentStreak)
	}
	if store.putStreakCalls != 1 {
		t.Fatalf("put streak calls = %d, want 1", store.putStreakCalls)
	}
}

func TestStreakCreditContinuation(t *testing.T) {
	store := newMemStore()
	svc := NewStreakService(store)
	day := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		if _, err := svc.Credit(context.Background(), "user-1", day.AddDate(0, 0, i)); err != nil {
			t.Fatalf("credit day %d: %v", i, err)
		}
	}
	streak, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if streak.CurrentStreak != 5 {
		t.Fatalf("current streak = %d, want 5", streak.CurrentStreak)
	}
}

func TestStreakCreditGapConsumesGraceThenDecays(t *testing.T) {
	store := newMemStore()
	svc := NewStreakService(store)
	store.streaks["user-1"] = domain.Streak{
		UserID:             "user-1",
		CurrentStreak:      100,
		GraceDaysRemaining: 1,
		LastCreditedDay:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	// Two-day gap consumes the grace day, streak untouched.
	streak, err := svc.Credit(context.Background(), "user-1", time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("credit after gap: %v", err)
	}
	if streak.CurrentStreak != 100 {
		t.Fatalf("current streak = %d, want 100", streak.CurrentStreak)
	}
	if streak.GraceDaysRemaining != 0 {
		t.Fatalf("grace days = %d, want 0", streak.GraceDaysRemaining)
	}

	// Next gap has no grace left, 20% decays.
	streak, err = svc.Credit(context.Background(), "user-1", time.Date(2026, 3, 5, 9, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("credit after second gap: %v", err)
	}
	if streak.CurrentStreak != 80 {
		t.Fatalf("current streak = %d, want 80", streak.CurrentStreak)
	}
}

func TestStreakGetDefaultsForNewUser(t *testing.T) {
	store := newMemStore()
	svc := NewStreakService(store)

	streak, err := svc.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if streak.CurrentStreak != 0 {
		t.Fatalf("current streak = %d, want 0", streak.CurrentStreak)
	}
	if streak.GraceDaysRemaining != 1 {
		t.Fatalf("grace days = %d, want 1", streak.GraceDaysRemaining)
	}
	if store.putStreakCalls != 0 {
		t.Fatalf("put streak calls = %d, want 0", store.putStreakCalls)
	}
}
