package service

import (
	"context"
	"sort"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

// memStore is an in-memory implementation of the tracker storage contracts.
type memStore struct {
	sessions     map[string]domain.Session
	distractions map[string][]domain.DistractionLog
	streaks      map[string]domain.Streak
	users        map[string]storage.User
	tasks        map[string]storage.Task

	putStreakCalls int
	putStreakErr   error
}

func newMemStore() *memStore {
	return &memStore{
		sessions:     make(map[string]domain.Session),
		distractions: make(map[string][]domain.DistractionLog),
		streaks:      make(map[string]domain.Streak),
		users:        make(map[string]storage.User),
		tasks:        make(map[string]storage.Task),
	}
}

func (m *memStore) PutSession(_ context.Context, session domain.Session) error {
	for _, existing := range m.sessions {
		if existing.UserID == session.UserID && !existing.State.Terminal() && !session.State.Terminal() {
			return storage.ErrActiveSessionExists
		}
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *memStore) UpdateSession(_ context.Context, session domain.Session, previous domain.State) error {
	stored, ok := m.sessions[session.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if stored.State != previous {
		return storage.ErrStaleSession
	}
	m.sessions[session.ID] = session
	return nil
}

func (m *memStore) GetSession(_ context.Context, sessionID string) (domain.Session, error) {
	session, ok := m.sessions[sessionID]
	if !ok {
		return domain.Session{}, storage.ErrNotFound
	}
	return session, nil
}

func (m *memStore) GetActiveSession(_ context.Context, userID string) (domain.Session, error) {
	for _, session := range m.sessions {
		if session.UserID == userID && !session.State.Terminal() {
			return session, nil
		}
	}
	return domain.Session{}, storage.ErrNotFound
}

func (m *memStore) ListSessionsByUser(_ context.Context, userID string) ([]domain.Session, error) {
	var sessions []domain.Session
	for _, session := range m.sessions {
		if session.UserID == userID {
			sessions = append(sessions, session)
		}
	}
	sortSessions(sessions)
	return sessions, nil
}

func (m *memStore) ListSessionsBetween(_ context.Context, userID string, from, to time.Time) ([]domain.Session, error) {
	var sessions []domain.Session
	for _, session := range m.sessions {
		if session.UserID != userID {
			continue
		}
		if session.StartedAt.Before(from) || session.StartedAt.After(to) {
			continue
		}
		sessions = append(sessions, session)
	}
	sortSessions(sessions)
	return sessions, nil
}

func (m *memStore) ListTimeline(ctx context.Context, userID string, from, to time.Time, limit, offset int) (storage.TimelinePage, error) {
	sessions, err := m.ListSessionsBetween(ctx, userID, from, to)
	if err != nil {
		return storage.TimelinePage{}, err
	}
	page := storage.TimelinePage{TotalCount: len(sessions)}
	for i, session := range sessions {
		if i < offset {
			continue
		}
		if len(page.Entries) >= limit {
			break
		}
		page.Entries = append(page.Entries, storage.TimelineEntry{
			SessionID:        session.ID,
			Task:             session.Task,
			State:            session.State,
			StartedAt:        session.StartedAt,
			EndedAt:          session.EndedAt,
			FocusMinutes:     session.ActualFocusSeconds / 60,
			DistractionCount: len(m.distractions[session.ID]),
		})
	}
	return page, nil
}

func (m *memStore) AddDistraction(_ context.Context, entry domain.DistractionLog) error {
	m.distractions[entry.SessionID] = append(m.distractions[entry.SessionID], entry)
	return nil
}

func (m *memStore) ListDistractions(_ context.Context, sessionID string) ([]domain.DistractionLog, error) {
	return m.distractions[sessionID], nil
}

func (m *memStore) GetStreak(_ context.Context, userID string) (domain.Streak, error) {
	streak, ok := m.streaks[userID]
	if !ok {
		return domain.Streak{}, storage.ErrNotFound
	}
	return streak, nil
}

func (m *memStore) PutStreak(_ context.Context, streak domain.Streak) error {
	m.putStreakCalls++
	if m.putStreakErr != nil {
		return m.putStreakErr
	}
	m.streaks[streak.UserID] = streak
	return nil
}

func (m *memStore) PutUser(_ context.Context, user storage.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memStore) GetUser(_ context.Context, userID string) (storage.User, error) {
	user, ok := m.users[userID]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (m *memStore) PutTask(_ context.Context, task storage.Task) error {
	m.tasks[task.ID] = task
	return nil
}

func (m *memStore) CountCompletedTasks(_ context.Context, userID string, from, to time.Time) (int, error) {
	count := 0
	for _, task := range m.tasks {
		if task.UserID != userID || task.Status != storage.TaskStatusCompleted {
			continue
		}
		if task.UpdatedAt.Before(from) || task.UpdatedAt.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

func sortSessions(sessions []domain.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].StartedAt.Equal(sessions[j].StartedAt) {
			return sessions[i].StartedAt.After(sessions[j].StartedAt)
		}
		return sessions[i].ID > sessions[j].ID
	})
}

var (
	_ storage.SessionStore     = (*memStore)(nil)
	_ storage.DistractionStore = (*memStore)(nil)
	_ storage.StreakStore      = (*memStore)(nil)
	_ storage.UserStore        = (*memStore)(nil)
	_ storage.TaskStore        = (*memStore)(nil)
)
