package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/focusbuddy/internal/services/tracker/storage"
)

// PutUser persists one user identity record.
func (s *Store) PutUser(ctx context.Context, user storage.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	user.ID = strings.TrimSpace(user.ID)
	if user.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO users (
	id,
	display_name,
	created_at
) VALUES (?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
	display_name = excluded.display_name
`,
		user.ID,
		strings.TrimSpace(user.DisplayName),
		toMillis(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("put user: %w", err)
	}
	return nil
}

// GetUser fetches a user record by ID.
func (s *Store) GetUser(ctx context.Context, userID string) (storage.User, error) {
	if err := ctx.Err(); err != nil {
		return storage.User{}, err
	}
	if err := s.ready(); err != nil {
		return storage.User{}, err
	}
	if strings.TrimSpace(userID) == "" {
		return storage.User{}, fmt.Errorf("user id is required")
	}

	var user storage.User
	var createdAt int64
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT
	id,
	display_name,
	created_at
FROM users
WHERE id = ?
`, userID)
	if err := row.Scan(&user.ID, &user.DisplayName, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.User{}, storage.ErrNotFound
		}
		return storage.User{}, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt = fromMillis(createdAt)
	return user, nil
}
