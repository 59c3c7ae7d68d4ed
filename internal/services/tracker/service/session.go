// Package service implements tracker operations over storage contracts.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/louisbranch/focusbuddy/internal/platform/errors"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

var (
	// ErrUserNotFound indicates an operation for an unknown user.
	ErrUserNotFound = apperrors.New(apperrors.CodeUserNotFound, "user not found")
	// ErrSessionNotFound indicates an operation on a missing session.
	ErrSessionNotFound = apperrors.New(apperrors.CodeSessionNotFound, "session not found")
	// ErrSessionNotOwned indicates an operation on another user's session.
	ErrSessionNotOwned = apperrors.New(apperrors.CodeSessionNotOwned, "session belongs to another user")
	// ErrSessionAlreadyActive indicates a start while a session is open.
	ErrSessionAlreadyActive = apperrors.New(apperrors.CodeSessionAlreadyActive, "user already has an active session")
	// ErrSessionConflict indicates a transition that lost a race with a
	// concurrent request for the same session.
	ErrSessionConflict = apperrors.New(apperrors.CodeSessionInvalidTransition, "session was changed by a concurrent request")
)

// SessionService drives the session lifecycle over the storage contracts.
type SessionService struct {
	sessions     storage.SessionStore
	distractions storage.DistractionStore
	users        storage.UserStore
	streaks      *StreakService
	clock        func() time.Time
	idGenerator  func() (string, error)
}

// NewSessionService creates a session service. A nil clock defaults to
// time.Now and a nil idGenerator to the platform ID generator.
func NewSessionService(
	sessions storage.SessionStore,
	distractions storage.DistractionStore,
	users storage.UserStore,
	streaks *StreakService,
	clock func() time.Time,
	idGenerator func() (string, error),
) *SessionService {
	if clock == nil {
		clock = time.Now
	}
	return &SessionService{
		sessions:     sessions,
		distractions: distractions,
		users:        users,
		streaks:      streaks,
		clock:        clock,
		idGenerator:  idGenerator,
	}
}

// Start opens a new session for the user. The user must be known and must
// not already have an open session.
func (s *SessionService) Start(ctx context.Context, input domain.StartSessionInput) (domain.Session, error) {
	if s == nil || s.sessions == nil {
		return domain.Session{}, fmt.Errorf("session service is not configured")
	}

	normalized, err := domain.NormalizeStartSessionInput(input)
	if err != nil {
		return domain.Session{}, err
	}
	if s.users != nil {
		if _, err := s.users.GetUser(ctx, normalized.UserID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return domain.Session{}, ErrUserNotFound
			}
			return domain.Session{}, fmt.Errorf("resolve user: %w", err)
		}
	}

	session, err := domain.StartSession(normalized, s.clock, s.idGenerator)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.PutSession(ctx, session); err != nil {
		if errors.Is(err, storage.ErrActiveSessionExists) {
			return domain.Session{}, ErrSessionAlreadyActive
		}
		return domain.Session{}, fmt.Errorf("store session: %w", err)
	}
	return session, nil
}

// Pause suspends the user's session timer.
func (s *SessionService) Pause(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	return s.transition(ctx, userID, sessionID, func(session *domain.Session, now time.Time) error {
		return session.Pause(now)
	})
}

// Resume restarts the user's session timer after a pause.
func (s *SessionService) Resume(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	return s.transition(ctx, userID, sessionID, func(session *domain.Session, now time.Time) error {
		return session.Resume(now)
	})
}

// End moves the user's session to a terminal state. A completed session
// also credits the user's streak for the end day. If the credit fails the
// session is already terminal and is returned together with the error, so
// the caller keeps the persisted result instead of retrying a transition
// that can no longer succeed.
func (s *SessionService) End(ctx context.Context, userID, sessionID string, terminal domain.State, reflection string) (domain.Session, error) {
	session, err := s.transition(ctx, userID, sessionID, func(session *domain.Session, now time.Time) error {
		return session.End(now, terminal, reflection)
	})
	if err != nil {
		return domain.Session{}, err
	}

	if terminal == domain.StateCompleted && s.streaks != nil {
		if _, err := s.streaks.Credit(ctx, userID, *session.EndedAt); err != nil {
			return session, fmt.Errorf("credit streak: %w", err)
		}
	}
	return session, nil
}

// AddDistraction appends a distraction log entry to the user's open session.
func (s *SessionService) AddDistraction(ctx context.Context, userID, sessionID, description string) (domain.DistractionLog, error) {
	if s == nil || s.sessions == nil || s.distractions == nil {
		return domain.DistractionLog{}, fmt.Errorf("session service is not configured")
	}

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return domain.DistractionLog{}, err
	}
	entry, err := domain.NewDistractionLog(session, description, s.clock, s.idGenerator)
	if err != nil {
		return domain.DistractionLog{}, err
	}
	if err := s.distractions.AddDistraction(ctx, entry); err != nil {
		return domain.DistractionLog{}, fmt.Errorf("store distraction: %w", err)
	}
	return entry, nil
}

// GetActive returns the user's open session. The boolean reports whether
// one exists; no open session is not an error.
func (s *SessionService) GetActive(ctx context.Context, userID string) (domain.Session, bool, error) {
	if s == nil || s.sessions == nil {
		return domain.Session{}, false, fmt.Errorf("session service is not configured")
	}

	session, err := s.sessions.GetActiveSession(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Session{}, false, nil
		}
		return domain.Session{}, false, fmt.Errorf("get active session: %w", err)
	}
	return session, true, nil
}

// GetHistory lists all of the user's sessions, newest start first.
func (s *SessionService) GetHistory(ctx context.Context, userID string) ([]domain.Session, error) {
	if s == nil || s.sessions == nil {
		return nil, fmt.Errorf("session service is not configured")
	}

	sessions, err := s.sessions.ListSessionsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListDistractions lists the distraction entries of one owned session.
func (s *SessionService) ListDistractions(ctx context.Context, userID, sessionID string) ([]domain.DistractionLog, error) {
	if s == nil || s.sessions == nil || s.distractions == nil {
		return nil, fmt.Errorf("session service is not configured")
	}

	if _, err := s.ownedSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}
	entries, err := s.distractions.ListDistractions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list distractions: %w", err)
	}
	return entries, nil
}

// transition loads an owned session, applies one lifecycle step in memory,
// and persists the result guarded on the state the step was computed from.
// Two interleaved requests cannot both pass the checks and both write: the
// second write sees a changed state and fails with ErrSessionConflict.
func (s *SessionService) transition(ctx context.Context, userID, sessionID string, step func(*domain.Session, time.Time) error) (domain.Session, error) {
	if s == nil || s.sessions == nil {
		return domain.Session{}, fmt.Errorf("session service is not configured")
	}

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return domain.Session{}, err
	}
	previous := session.State
	if err := step(&session, s.clock()); err != nil {
		return domain.Session{}, err
	}
	if err := s.sessions.UpdateSession(ctx, session, previous); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		if errors.Is(err, storage.ErrStaleSession) {
			return domain.Session{}, ErrSessionConflict
		}
		return domain.Session{}, fmt.Errorf("update session: %w", err)
	}
	return session, nil
}

func (s *SessionService) ownedSession(ctx context.Context, userID, sessionID string) (domain.Session, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.Session{}, ErrSessionNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != userID {
		return domain.Session{}, ErrSessionNotOwned
	}
	return session, nil
}
