package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	apperrors "github.com/louisbranch/focusbuddy/internal/platform/errors"
	"github.com/louisbranch/focusbuddy/internal/platform/pagination"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

// StatsRange selects the aggregation window ending today.
type StatsRange int

const (
	// StatsRangeUnspecified represents an invalid stats range value.
	StatsRangeUnspecified StatsRange = iota
	// StatsRangeDaily covers today only.
	StatsRangeDaily
	// StatsRangeWeekly covers the last 7 calendar days inclusive.
	StatsRangeWeekly
	// StatsRangeMonthly covers the last 30 calendar days inclusive.
	StatsRangeMonthly
)

// DailyGoalSeconds is the fixed daily focus goal reported by summaries.
const DailyGoalSeconds = 8 * 60 * 60

const (
	timelineDefaultPageSize = 50
	timelineMaxPageSize     = 100
)

var (
	// ErrInvalidStatsRange indicates an unknown stats range value.
	ErrInvalidStatsRange = apperrors.New(apperrors.CodeStatsInvalidRange, "stats range must be DAILY, WEEKLY, or MONTHLY")
	// ErrInvalidDateWindow indicates a timeline window whose start follows its end.
	ErrInvalidDateWindow = apperrors.New(apperrors.CodeStatsInvalidDateWindow, "window start must not be after window end")
)

// Stats aggregates a user's activity over a range window.
type Stats struct {
	Range                   StatsRange
	TotalFocusedMinutes     int64
	TotalSessions           int
	CompletedSessions       int
	CompletionRatePercent   float64 // one decimal place, 0 when no sessions
	CompletedTasks          int
	CurrentStreak           int
	FocusConsistencyPercent float64 // one decimal place, 0 when no completions
}

// Timeline is one page of per-session summaries, newest start first.
type Timeline struct {
	Entries    []storage.TimelineEntry
	TotalCount int
	Page       int
	PageSize   int
}

// DailySummary breaks one calendar day down by session type.
type DailySummary struct {
	Date              string // YYYY-MM-DD UTC
	FocusSeconds      int64
	BreakSeconds      int64
	MeetingSeconds    int64
	OtherSeconds      int64
	TotalSeconds      int64
	GoalSeconds       int64
	ProductivityScore int // focus/(focus+break)*100 truncated, 0 when denominator 0
}

// ProductivityService computes stats, timelines, and daily summaries over
// historical sessions.
type ProductivityService struct {
	sessions storage.SessionStore
	tasks    storage.TaskStore
	streaks  *StreakService
	clock    func() time.Time
}

// NewProductivityService creates a productivity service. A nil clock
// defaults to time.Now.
func NewProductivityService(
	sessions storage.SessionStore,
	tasks storage.TaskStore,
	streaks *StreakService,
	clock func() time.Time,
) *ProductivityService {
	if clock == nil {
		clock = time.Now
	}
	return &ProductivityService{
		sessions: sessions,
		tasks:    tasks,
		streaks:  streaks,
		clock:    clock,
	}
}

// GetStats aggregates the user's sessions over the range window ending now.
func (s *ProductivityService) GetStats(ctx context.Context, userID string, statsRange StatsRange) (Stats, error) {
	if s == nil || s.sessions == nil {
		return Stats{}, fmt.Errorf("productivity service is not configured")
	}

	days, err := statsRange.days()
	if err != nil {
		return Stats{}, err
	}

	now := s.clock().UTC()
	from := domain.DayOf(now).AddDate(0, 0, -(days - 1))

	sessions, err := s.sessions.ListSessionsBetween(ctx, userID, from, now)
	if err != nil {
		return Stats{}, fmt.Errorf("list sessions: %w", err)
	}

	stats := Stats{Range: statsRange, TotalSessions: len(sessions)}
	var focusedSeconds int64
	completedDays := make(map[string]struct{})
	for _, session := range sessions {
		if session.State != domain.StateCompleted {
			continue
		}
		stats.CompletedSessions++
		focusedSeconds += session.ActualFocusSeconds
		completedDays[session.SessionDate] = struct{}{}
	}
	stats.TotalFocusedMinutes = focusedSeconds / 60
	if stats.TotalSessions > 0 {
		stats.CompletionRatePercent = roundOneDecimal(float64(stats.CompletedSessions) / float64(stats.TotalSessions) * 100)
	}
	stats.FocusConsistencyPercent = roundOneDecimal(float64(len(completedDays)) / float64(days) * 100)

	if s.tasks != nil {
		count, err := s.tasks.CountCompletedTasks(ctx, userID, from, now)
		if err != nil {
			return Stats{}, fmt.Errorf("count completed tasks: %w", err)
		}
		stats.CompletedTasks = count
	}
	if s.streaks != nil {
		streak, err := s.streaks.Get(ctx, userID)
		if err != nil {
			return Stats{}, err
		}
		stats.CurrentStreak = streak.CurrentStreak
	}
	return stats, nil
}

// GetTimeline returns one page of per-session summaries for sessions
// started within [from, to]. The window covers whole calendar days: from is
// taken at the start of its day and to at the end of its day, so a midnight
// end timestamp still includes that day's sessions. Pages are zero-based;
// the size is clamped to the timeline maximum and defaulted when unset.
func (s *ProductivityService) GetTimeline(ctx context.Context, userID string, from, to time.Time, page, size int) (Timeline, error) {
	if s == nil || s.sessions == nil {
		return Timeline{}, fmt.Errorf("productivity service is not configured")
	}
	from = domain.DayOf(from)
	to = domain.DayOf(to).AddDate(0, 0, 1).Add(-time.Millisecond)
	if from.After(to) {
		return Timeline{}, ErrInvalidDateWindow
	}
	page = pagination.NormalizeOffset(page)
	size = pagination.ClampPageSize(size, pagination.PageSizeConfig{
		Default: timelineDefaultPageSize,
		Max:     timelineMaxPageSize,
	})

	storagePage, err := s.sessions.ListTimeline(ctx, userID, from, to, size, page*size)
	if err != nil {
		return Timeline{}, fmt.Errorf("list timeline: %w", err)
	}
	return Timeline{
		Entries:    storagePage.Entries,
		TotalCount: storagePage.TotalCount,
		Page:       page,
		PageSize:   size,
	}, nil
}

// GetDailySummary breaks the given calendar day down by session type over
// the user's completed sessions.
func (s *ProductivityService) GetDailySummary(ctx context.Context, userID string, date time.Time) (DailySummary, error) {
	if s == nil || s.sessions == nil {
		return DailySummary{}, fmt.Errorf("productivity service is not configured")
	}

	dayStart := domain.DayOf(date)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)
	sessions, err := s.sessions.ListSessionsBetween(ctx, userID, dayStart, dayEnd)
	if err != nil {
		return DailySummary{}, fmt.Errorf("list sessions: %w", err)
	}

	summary := DailySummary{
		Date:        domain.DayLabel(date),
		GoalSeconds: DailyGoalSeconds,
	}
	for _, session := range sessions {
		if session.State != domain.StateCompleted {
			continue
		}
		switch session.Type {
		case domain.SessionTypeFocus:
			summary.FocusSeconds += session.ActualFocusSeconds
		case domain.SessionTypeBreak:
			summary.BreakSeconds += session.ActualFocusSeconds
		case domain.SessionTypeMeeting:
			summary.MeetingSeconds += session.ActualFocusSeconds
		case domain.SessionTypeOther:
			summary.OtherSeconds += session.ActualFocusSeconds
		}
	}
	summary.TotalSeconds = summary.FocusSeconds + summary.BreakSeconds + summary.MeetingSeconds + summary.OtherSeconds
	if denominator := summary.FocusSeconds + summary.BreakSeconds; denominator > 0 {
		summary.ProductivityScore = int(summary.FocusSeconds * 100 / denominator)
	}
	return summary, nil
}

func (r StatsRange) days() (int, error) {
	switch r {
	case StatsRangeDaily:
		return 1, nil
	case StatsRangeWeekly:
		return 7, nil
	case StatsRangeMonthly:
		return 30, nil
	default:
		return 0, ErrInvalidStatsRange
	}
}

// String returns a stable label for a stats range.
func (r StatsRange) String() string {
	switch r {
	case StatsRangeDaily:
		return "DAILY"
	case StatsRangeWeekly:
		return "WEEKLY"
	case StatsRangeMonthly:
		return "MONTHLY"
	default:
		return "UNSPECIFIED"
	}
}

// StatsRangeFromLabel parses a string label into a StatsRange. It trims
// whitespace and matches case-insensitively.
func StatsRangeFromLabel(value string) (StatsRange, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "DAILY":
		return StatsRangeDaily, nil
	case "WEEKLY":
		return StatsRangeWeekly, nil
	case "MONTHLY":
		return StatsRangeMonthly, nil
	default:
		return StatsRangeUnspecified, ErrInvalidStatsRange
	}
}

func roundOneDecimal(value float64) float64 {
	return math.Round(value*10) / 10
}
