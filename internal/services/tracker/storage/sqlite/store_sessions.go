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

const sessionColumns = `
	id,
	user_id,
	task,
	session_type,
	planned_duration_minutes,
	state,
	started_at,
	paused_at,
	resumed_at,
	ended_at,
	total_paused_seconds,
	actual_focus_seconds,
	reflection,
	session_date`

// PutSession inserts a new session record. The partial unique index on
// non-terminal sessions rejects a second open session for the same user.
func (s *Store) PutSession(ctx context.Context, session domain.Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if session.State == domain.StateUnspecified {
		return fmt.Errorf("session state is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO sessions (`+sessionColumns+`
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		session.ID,
		session.UserID,
		session.Task,
		session.Type.String(),
		session.PlannedDurationMinutes,
		session.State.String(),
		toMillis(session.StartedAt),
		toNullMillis(session.PausedAt),
		toNullMillis(session.ResumedAt),
		toNullMillis(session.EndedAt),
		session.TotalPausedSeconds,
		session.ActualFocusSeconds,
		session.Reflection,
		session.SessionDate,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return storage.ErrActiveSessionExists
		}
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// UpdateSession rewrites the mutable fields of an existing session. The
// state column doubles as an optimistic lock: the update is guarded on the
// stored state still matching previous, so a write computed from a stale
// snapshot cannot reopen a terminal session.
func (s *Store) UpdateSession(ctx context.Context, session domain.Session, previous domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(session.ID) == "" {
		return fmt.Errorf("session id is required")
	}
	if session.State == domain.StateUnspecified {
		return fmt.Errorf("session state is required")
	}
	if previous == domain.StateUnspecified {
		return fmt.Errorf("previous session state is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `
UPDATE sessions SET
	state = ?,
	paused_at = ?,
	resumed_at = ?,
	ended_at = ?,
	total_paused_seconds = ?,
	actual_focus_seconds = ?,
	reflection = ?
WHERE id = ? AND state = ?
`,
		session.State.String(),
		toNullMillis(session.PausedAt),
		toNullMillis(session.ResumedAt),
		toNullMillis(session.EndedAt),
		session.TotalPausedSeconds,
		session.ActualFocusSeconds,
		session.Reflection,
		session.ID,
		previous.String(),
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update session rows affected: %w", err)
	}
	if affected == 0 {
		var one int
		err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, session.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return storage.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("update session recheck: %w", err)
		}
		return storage.ErrStaleSession
	}
	return nil
}

// GetSession fetches a session record by ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Session{}, err
	}
	if strings.TrimSpace(sessionID) == "" {
		return domain.Session{}, fmt.Errorf("session id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT`+sessionColumns+`
FROM sessions
WHERE id = ?
`, sessionID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, storage.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// GetActiveSession returns the user's single non-terminal session.
func (s *Store) GetActiveSession(ctx context.Context, userID string) (domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return domain.Session{}, err
	}
	if err := s.ready(); err != nil {
		return domain.Session{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return domain.Session{}, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(ctx, `
SELECT`+sessionColumns+`
FROM sessions
WHERE user_id = ? AND state NOT IN ('COMPLETED', 'ABORTED')
`, userID)
	session, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Session{}, storage.ErrNotFound
		}
		return domain.Session{}, fmt.Errorf("get active session: %w", err)
	}
	return session, nil
}

// ListSessionsByUser lists all of a user's sessions, newest start first.
func (s *Store) ListSessionsByUser(ctx context.Context, userID string) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT`+sessionColumns+`
FROM sessions
WHERE user_id = ?
ORDER BY started_at DESC, id DESC
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListSessionsBetween lists a user's sessions started within [from, to],
// newest start first.
func (s *Store) ListSessionsBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT`+sessionColumns+`
FROM sessions
WHERE user_id = ? AND started_at >= ? AND started_at <= ?
ORDER BY started_at DESC, id DESC
`, userID, toMillis(from), toMillis(to))
	if err != nil {
		return nil, fmt.Errorf("list sessions between: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListTimeline returns a page of per-session summaries with distraction
// counts for sessions started within [from, to], newest start first.
func (s *Store) ListTimeline(ctx context.Context, userID string, from, to time.Time, limit, offset int) (storage.TimelinePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.TimelinePage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.TimelinePage{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return storage.TimelinePage{}, fmt.Errorf("user id is required")
	}
	if limit <= 0 {
		return storage.TimelinePage{}, fmt.Errorf("limit must be greater than zero")
	}
	if offset < 0 {
		return storage.TimelinePage{}, fmt.Errorf("offset must not be negative")
	}

	var total int
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM sessions
WHERE user_id = ? AND started_at >= ? AND started_at <= ?
`, userID, toMillis(from), toMillis(to))
	if err := row.Scan(&total); err != nil {
		return storage.TimelinePage{}, fmt.Errorf("count timeline sessions: %w", err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	s.id,
	s.task,
	s.state,
	s.started_at,
	s.ended_at,
	s.actual_focus_seconds,
	COUNT(d.id)
FROM sessions s
LEFT JOIN distraction_logs d ON d.session_id = s.id
WHERE s.user_id = ? AND s.started_at >= ? AND s.started_at <= ?
GROUP BY s.id
ORDER BY s.started_at DESC, s.id DESC
LIMIT ? OFFSET ?
`, userID, toMillis(from), toMillis(to), limit, offset)
	if err != nil {
		return storage.TimelinePage{}, fmt.Errorf("list timeline: %w", err)
	}
	defer rows.Close()

	page := storage.TimelinePage{TotalCount: total}
	for rows.Next() {
		var entry storage.TimelineEntry
		var stateLabel string
		var startedAt int64
		var endedAt sql.NullInt64
		var focusSeconds int64
		if err := rows.Scan(
			&entry.SessionID,
			&entry.Task,
			&stateLabel,
			&startedAt,
			&endedAt,
			&focusSeconds,
			&entry.DistractionCount,
		); err != nil {
			return storage.TimelinePage{}, fmt.Errorf("scan timeline entry: %w", err)
		}
		state, err := domain.StateFromLabel(stateLabel)
		if err != nil {
			return storage.TimelinePage{}, fmt.Errorf("parse timeline state: %w", err)
		}
		entry.State = state
		entry.StartedAt = fromMillis(startedAt)
		entry.EndedAt = fromNullMillis(endedAt)
		entry.FocusMinutes = focusSeconds / 60
		page.Entries = append(page.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return storage.TimelinePage{}, fmt.Errorf("iterate timeline: %w", err)
	}
	return page, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (domain.Session, error) {
	var session domain.Session
	var typeLabel, stateLabel string
	var startedAt int64
	var pausedAt, resumedAt, endedAt sql.NullInt64
	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Task,
		&typeLabel,
		&session.PlannedDurationMinutes,
		&stateLabel,
		&startedAt,
		&pausedAt,
		&resumedAt,
		&endedAt,
		&session.TotalPausedSeconds,
		&session.ActualFocusSeconds,
		&session.Reflection,
		&session.SessionDate,
	); err != nil {
		return domain.Session{}, err
	}

	sessionType, err := domain.SessionTypeFromLabel(typeLabel)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session type: %w", err)
	}
	state, err := domain.StateFromLabel(stateLabel)
	if err != nil {
		return domain.Session{}, fmt.Errorf("parse session state: %w", err)
	}

	session.Type = sessionType
	session.State = state
	session.StartedAt = fromMillis(startedAt)
	session.PausedAt = fromNullMillis(pausedAt)
	session.ResumedAt = fromNullMillis(resumedAt)
	session.EndedAt = fromNullMillis(endedAt)
	return session, nil
}

func collectSessions(rows *sql.Rows) ([]domain.Session, error) {
	var sessions []domain.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}
