package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/domain"
)

// AddDistraction persists one distraction log entry.
func (s *Store) AddDistraction(ctx context.Context, entry domain.DistractionLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	if strings.TrimSpace(entry.ID) == "" {
		return fmt.Errorf("distraction id is required")
	}
	if strings.TrimSpace(entry.SessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(entry.Description) == "" {
		return fmt.Errorf("description is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO distraction_logs (
	id,
	session_id,
	description,
	logged_at
) VALUES (?, ?, ?, ?)
`,
		entry.ID,
		entry.SessionID,
		entry.Description,
		toMillis(entry.LoggedAt),
	)
	if err != nil {
		return fmt.Errorf("add distraction: %w", err)
	}
	return nil
}

// ListDistractions lists a session's distraction entries, oldest first.
func (s *Store) ListDistractions(ctx context.Context, sessionID string) ([]domain.DistractionLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT
	id,
	session_id,
	description,
	logged_at
FROM distraction_logs
WHERE session_id = ?
ORDER BY logged_at ASC, id ASC
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list distractions: %w", err)
	}
	defer rows.Close()

	var entries []domain.DistractionLog
	for rows.Next() {
		var entry domain.DistractionLog
		var loggedAt int64
		if err := rows.Scan(&entry.ID, &entry.SessionID, &entry.Description, &loggedAt); err != nil {
			return nil, fmt.Errorf("scan distraction: %w", err)
		}
		entry.LoggedAt = fromMillis(loggedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate distractions: %w", err)
	}
	return entries, nil
}
