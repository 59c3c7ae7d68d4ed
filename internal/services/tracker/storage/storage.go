// Package storage defines persistence contracts for tracker service state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ErrActiveSessionExists indicates the user already has a non-terminal session.
var ErrActiveSessionExists = errors.New("active session exists")

// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
var ErrAlreadyExists = errors.New("record already exists")

// ErrStaleSession indicates a session write computed from a snapshot whose
// state has since changed.
var ErrStaleSession = errors.New("session state changed")

// User stores one collaborator-issued user identity known to the tracker.
type User struct {
	ID          string
	DisplayName string
	CreatedAt   time.Time
}

// TaskStatus describes the completion state of a tracked task.
type TaskStatus string

const (
	// TaskStatusOpen marks a task still in progress.
	TaskStatusOpen TaskStatus = "OPEN"
	// TaskStatusCompleted marks a finished task.
	TaskStatusCompleted TaskStatus = "COMPLETED"
)

// Task stores one to-do item counted by productivity stats.
type Task struct {
	ID        string
	UserID    string
	Title     string
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimelineEntry is one per-session summary row for timeline queries.
type TimelineEntry struct {
	SessionID        string
	Task             string
	State            domain.State
	StartedAt        time.Time
	EndedAt          *time.Time
	FocusMinutes     int64
	DistractionCount int
}

// TimelinePage stores one page of timeline entries, newest start first.
type TimelinePage struct {
	Entries    []TimelineEntry
	TotalCount int
}

// SessionStore persists focus session records.
type SessionStore interface {
	// PutSession inserts a new session. It returns ErrActiveSessionExists
	// when the user already has a non-terminal session.
	PutSession(ctx context.Context, session domain.Session) error
	// UpdateSession rewrites the mutable fields of an existing session.
	// The write only applies while the stored state still equals previous;
	// losing that race returns ErrStaleSession. Terminal sessions therefore
	// stay terminal.
	UpdateSession(ctx context.Context, session domain.Session, previous domain.State) error
	GetSession(ctx context.Context, sessionID string) (domain.Session, error)
	// GetActiveSession returns the user's single non-terminal session, or
	// ErrNotFound when none is open.
	GetActiveSession(ctx context.Context, userID string) (domain.Session, error)
	// ListSessionsByUser returns all sessions for the user, most recent
	// start first.
	ListSessionsByUser(ctx context.Context, userID string) ([]domain.Session, error)
	// ListSessionsBetween returns sessions whose start falls within
	// [from, to], most recent start first.
	ListSessionsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Session, error)
	// ListTimeline returns a page of per-session summaries for sessions
	// whose start falls within [from, to], most recent start first.
	ListTimeline(ctx context.Context, userID string, from, to time.Time, limit, offset int) (TimelinePage, error)
}

// DistractionStore persists distraction log entries.
type DistractionStore interface {
	AddDistraction(ctx context.Context, entry domain.DistractionLog) error
	// ListDistractions returns a session's distraction entries, oldest first.
	ListDistractions(ctx context.Context, sessionID string) ([]domain.DistractionLog, error)
}

// StreakStore persists per-user streak records.
type StreakStore interface {
	// GetStreak returns the user's streak record, or ErrNotFound when the
	// user has never been credited.
	GetStreak(ctx context.Context, userID string) (domain.Streak, error)
	// PutStreak inserts or replaces the user's streak record.
	PutStreak(ctx context.Context, streak domain.Streak) error
}

// UserStore persists user identity records issued by the auth collaborator.
type UserStore interface {
	PutUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (User, error)
}

// TaskStore persists tasks and answers completion-count queries for stats.
type TaskStore interface {
	PutTask(ctx context.Context, task Task) error
	// CountCompletedTasks counts the user's tasks completed within the
	// [from, to] updated-at window.
	CountCompletedTasks(ctx context.Context, userID string, from, to time.Time) (int, error)
}
