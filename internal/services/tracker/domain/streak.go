package domain

import (
	"math"
	"time"
)

// decayRate is the fraction of the streak lost per missed gap once grace
// days are exhausted. The lost amount rounds down.
const decayRate = 0.20

// defaultGraceDays is the forgiveness budget for a new streak record.
const defaultGraceDays = 1

// Streak is the one-per-user engagement record. The zero LastCreditedDay
// means the user has never been credited.
type Streak struct {
	UserID             string
	CurrentStreak      int
	GraceDaysRemaining int
	LastCreditedDay    time.Time
}

// NewStreak creates a default streak record for a user.
func NewStreak(userID string) Streak {
	return Streak{
		UserID:             userID,
		GraceDaysRemaining: defaultGraceDays,
	}
}

// Credit applies one completed-session credit for the given day and returns
// the updated record. The boolean reports whether the record changed; a
// same-day repeat credit is an idempotent no-op and must not be persisted.
//
// Crediting the day after the last credit (or the first credit ever)
// extends the streak by one. A gap of two or more days consumes a grace
// day when one remains; otherwise the streak decays by 20%, rounded down
// and clamped at zero. Grace and decay never apply to the same gap.
func (s Streak) Credit(day time.Time) (Streak, bool) {
	today := DayOf(day)

	if !s.LastCreditedDay.IsZero() && DayOf(s.LastCreditedDay).Equal(today) {
		return s, false
	}

	yesterday := today.AddDate(0, 0, -1)
	if s.LastCreditedDay.IsZero() || DayOf(s.LastCreditedDay).Equal(yesterday) {
		s.CurrentStreak++
	} else if s.GraceDaysRemaining > 0 {
		s.GraceDaysRemaining--
	} else {
		lost := int(math.Floor(float64(s.CurrentStreak) * decayRate))
		s.CurrentStreak -= lost
		if s.CurrentStreak < 0 {
			s.CurrentStreak = 0
		}
	}

	s.LastCreditedDay = today
	return s, true
}
