package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

// PutTask inserts or replaces one task record.
func (s *Store) PutTask(ctx context.Context, task storage.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	task.ID = strings.TrimSpace(task.ID)
	task.UserID = strings.TrimSpace(task.UserID)
	task.Title = strings.TrimSpace(task.Title)
	if task.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if task.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if task.Title == "" {
		return fmt.Errorf("title is required")
	}
	switch task.Status {
	case storage.TaskStatusOpen, storage.TaskStatusCompleted:
	default:
		return fmt.Errorf("unknown task status: %s", task.Status)
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO tasks (
	id,
	user_id,
	title,
	status,
	created_at,
	updated_at
) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	title = excluded.title,
	status = excluded.status,
	updated_at = excluded.updated_at
`,
		task.ID,
		task.UserID,
		task.Title,
		string(task.Status),
		toMillis(task.CreatedAt),
		toMillis(task.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("put task: %w", err)
	}
	return nil
}

// CountCompletedTasks counts tasks completed within the updated-at window.
func (s *Store) CountCompletedTasks(ctx context.Context, userID string, from, to time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}
	if strings.TrimSpace(userID) == "" {
		return 0, fmt.Errorf("user id is required")
	}

	var count int
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT COUNT(*)
FROM tasks
WHERE user_id = ? AND status = ? AND updated_at >= ? AND updated_at <= ?
`, userID, string(storage.TaskStatusCompleted), toMillis(from), toMillis(to))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count completed tasks: %w", err)
	}
	return count, nil
}
