package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/focusbuddy/internal/platform/errors"
	"github.com/louisbranch/focusbuddy/internal/platform/id"
)

// MaxDistractionLength bounds the distraction description.
const MaxDistractionLength = 255

var (
	// ErrEmptyDistraction indicates a missing distraction description.
	ErrEmptyDistraction = apperrors.New(apperrors.CodeDistractionEmpty, "distraction description is required")
	// ErrSessionNotActive indicates a distraction add on a terminal session.
	ErrSessionNotActive = apperrors.New(apperrors.CodeSessionNotActive, "distractions can only be logged on an open session")
)

// DistractionLog records one interruption noticed during a session.
type DistractionLog struct {
	ID          string
	SessionID   string
	Description string
	LoggedAt    time.Time
}

// NewDistractionLog creates a distraction log entry for an open session.
func NewDistractionLog(session Session, description string, now func() time.Time, idGenerator func() (string, error)) (DistractionLog, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	if session.State.Terminal() {
		return DistractionLog{}, ErrSessionNotActive
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return DistractionLog{}, ErrEmptyDistraction
	}
	if len(description) > MaxDistractionLength {
		return DistractionLog{}, apperrors.WithMetadata(apperrors.CodeDistractionTooLong,
			"distraction description is too long", map[string]string{
				"max_length": strconv.Itoa(MaxDistractionLength),
			})
	}

	logID, err := idGenerator()
	if err != nil {
		return DistractionLog{}, fmt.Errorf("generate distraction id: %w", err)
	}

	return DistractionLog{
		ID:          logID,
		SessionID:   session.ID,
		Description: description,
		LoggedAt:    now().UTC(),
	}, nil
}
