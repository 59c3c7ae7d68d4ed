package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/louisbranch/focusbuddy/internal/platform/errors"
	"github.com/louisbranch/focusbuddy/internal/platform/id"
)

// State describes the lifecycle state of a session.
type State int

const (
	// StateUnspecified represents an invalid session state value.
	StateUnspecified State = iota
	// StateStarted indicates the session is running after creation.
	StateStarted
	// StatePaused indicates the session timer is suspended.
	StatePaused
	// StateResumed indicates the session is running again after a pause.
	StateResumed
	// StateCompleted indicates the session finished normally. Terminal.
	StateCompleted
	// StateAborted indicates the session was ended early. Terminal.
	StateAborted
)

// SessionType describes what kind of work interval a session tracks.
type SessionType int

const (
	// SessionTypeUnspecified represents an invalid session type value.
	SessionTypeUnspecified SessionType = iota
	// SessionTypeFocus is a focused work interval.
	SessionTypeFocus
	// SessionTypeBreak is a rest interval.
	SessionTypeBreak
	// SessionTypeMeeting is a meeting interval.
	SessionTypeMeeting
	// SessionTypeOther is any other tracked interval.
	SessionTypeOther
)

// MaxTaskLength bounds the session task description.
const MaxTaskLength = 60

var (
	// ErrEmptyTask indicates a missing task description.
	ErrEmptyTask = apperrors.New(apperrors.CodeSessionTaskEmpty, "task description is required")
	// ErrTaskTooLong indicates a task description over the length bound.
	ErrTaskTooLong = apperrors.New(apperrors.CodeSessionTaskTooLong, "task description is too long")
	// ErrInvalidSessionType indicates a missing or unknown session type.
	ErrInvalidSessionType = apperrors.New(apperrors.CodeSessionInvalidType, "session type is required")
	// ErrInvalidDuration indicates a negative planned duration.
	ErrInvalidDuration = apperrors.New(apperrors.CodeSessionInvalidDuration, "planned duration must not be negative")
	// ErrInvalidTerminalState indicates an end request with a non-terminal target state.
	ErrInvalidTerminalState = apperrors.New(apperrors.CodeSessionInvalidTerminal, "terminal state must be COMPLETED or ABORTED")
)

// Session represents one timed work interval tracked for a user.
type Session struct {
	ID                     string
	UserID                 string
	Task                   string
	Type                   SessionType
	PlannedDurationMinutes int
	State                  State
	StartedAt              time.Time
	PausedAt               *time.Time // nil unless a pause is in effect
	ResumedAt              *time.Time // nil until the first resume
	EndedAt                *time.Time // nil while the session is open
	TotalPausedSeconds     int64
	ActualFocusSeconds     int64 // frozen at End; zero while open
	Reflection             string
	SessionDate            string // calendar day of StartedAt, YYYY-MM-DD UTC
}

// StartSessionInput describes the data needed to start a session.
type StartSessionInput struct {
	UserID                 string
	Task                   string
	Type                   SessionType
	PlannedDurationMinutes int
}

// StartSession creates a new session in the Started state with a generated ID.
func StartSession(input StartSessionInput, now func() time.Time, idGenerator func() (string, error)) (Session, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	normalized, err := NormalizeStartSessionInput(input)
	if err != nil {
		return Session{}, err
	}

	sessionID, err := idGenerator()
	if err != nil {
		return Session{}, fmt.Errorf("generate session id: %w", err)
	}

	startedAt := now().UTC()
	return Session{
		ID:                     sessionID,
		UserID:                 normalized.UserID,
		Task:                   normalized.Task,
		Type:                   normalized.Type,
		PlannedDurationMinutes: normalized.PlannedDurationMinutes,
		State:                  StateStarted,
		StartedAt:              startedAt,
		SessionDate:            DayLabel(startedAt),
	}, nil
}

// NormalizeStartSessionInput trims and validates session start input.
func NormalizeStartSessionInput(input StartSessionInput) (StartSessionInput, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	if input.UserID == "" {
		return StartSessionInput{}, fmt.Errorf("user id is required")
	}
	input.Task = strings.TrimSpace(input.Task)
	if input.Task == "" {
		return StartSessionInput{}, ErrEmptyTask
	}
	if len(input.Task) > MaxTaskLength {
		return StartSessionInput{}, apperrors.WithMetadata(apperrors.CodeSessionTaskTooLong,
			"task description is too long", map[string]string{
				"max_length": strconv.Itoa(MaxTaskLength),
			})
	}
	switch input.Type {
	case SessionTypeFocus, SessionTypeBreak, SessionTypeMeeting, SessionTypeOther:
	default:
		return StartSessionInput{}, ErrInvalidSessionType
	}
	if input.PlannedDurationMinutes < 0 {
		return StartSessionInput{}, ErrInvalidDuration
	}
	return input, nil
}

// Pause suspends the session timer. Allowed from Started and Resumed.
func (s *Session) Pause(now time.Time) error {
	if err := s.checkTransition(StatePaused); err != nil {
		return err
	}
	pausedAt := now.UTC()
	s.PausedAt = &pausedAt
	s.State = StatePaused
	return nil
}

// Resume restarts the session timer after a pause, folding the elapsed
// pause time into the cumulative paused-seconds counter.
func (s *Session) Resume(now time.Time) error {
	if err := s.checkTransition(StateResumed); err != nil {
		return err
	}
	now = now.UTC()
	s.foldPause(now)
	resumedAt := now
	s.ResumedAt = &resumedAt
	s.State = StateResumed
	return nil
}

// End moves the session to a terminal state, freezing focus accounting.
// A pause still in effect is folded into paused seconds first. The actual
// focused time is the wall-clock elapsed time minus all paused intervals,
// floor-clamped at zero.
func (s *Session) End(now time.Time, terminal State, reflection string) error {
	if terminal != StateCompleted && terminal != StateAborted {
		return ErrInvalidTerminalState
	}
	if err := s.checkTransition(terminal); err != nil {
		return err
	}
	now = now.UTC()
	s.foldPause(now)
	endedAt := now
	s.EndedAt = &endedAt
	s.Reflection = strings.TrimSpace(reflection)
	s.ActualFocusSeconds = focusSeconds(s.StartedAt, endedAt, s.TotalPausedSeconds)
	s.State = terminal
	return nil
}

// FocusSeconds reports the focused time accumulated so far. For ended
// sessions this is the frozen value; for open sessions now stands in for
// the missing end time, and an in-flight pause is excluded as well.
func (s Session) FocusSeconds(now time.Time) int64 {
	if s.State.Terminal() {
		return s.ActualFocusSeconds
	}
	now = now.UTC()
	paused := s.TotalPausedSeconds
	if s.PausedAt != nil {
		if elapsed := int64(now.Sub(*s.PausedAt) / time.Second); elapsed > 0 {
			paused += elapsed
		}
	}
	return focusSeconds(s.StartedAt, now, paused)
}

// foldPause accumulates an in-flight pause into TotalPausedSeconds.
func (s *Session) foldPause(now time.Time) {
	if s.PausedAt == nil {
		return
	}
	if elapsed := int64(now.Sub(*s.PausedAt) / time.Second); elapsed > 0 {
		s.TotalPausedSeconds += elapsed
	}
	s.PausedAt = nil
}

func (s *Session) checkTransition(target State) error {
	if s.State.CanTransitionTo(target) {
		return nil
	}
	return apperrors.WithMetadata(apperrors.CodeSessionInvalidTransition,
		fmt.Sprintf("session state %s does not allow transition to %s", s.State, target),
		map[string]string{
			"from": s.State.String(),
			"to":   target.String(),
		})
}

func focusSeconds(startedAt, endedAt time.Time, pausedSeconds int64) int64 {
	elapsed := int64(endedAt.Sub(startedAt) / time.Second)
	focus := elapsed - pausedSeconds
	if focus < 0 {
		return 0
	}
	return focus
}

// Terminal reports whether the state permits no further transitions.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// CanTransitionTo reports whether a state transition is permitted.
func (s State) CanTransitionTo(target State) bool {
	switch s {
	case StateStarted:
		return target == StatePaused || target == StateCompleted || target == StateAborted
	case StatePaused:
		return target == StateResumed || target == StateCompleted || target == StateAborted
	case StateResumed:
		return target == StatePaused || target == StateCompleted || target == StateAborted
	default:
		return false
	}
}

// String returns a stable label for a session state.
func (s State) String() string {
	switch s {
	case StateStarted:
		return "STARTED"
	case StatePaused:
		return "PAUSED"
	case StateResumed:
		return "RESUMED"
	case StateCompleted:
		return "COMPLETED"
	case StateAborted:
		return "ABORTED"
	default:
		return "UNSPECIFIED"
	}
}

// StateFromLabel parses a string label into a State. It trims whitespace
// and matches case-insensitively.
func StateFromLabel(value string) (State, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return StateUnspecified, fmt.Errorf("session state is required")
	}
	switch strings.ToUpper(trimmed) {
	case "STARTED":
		return StateStarted, nil
	case "PAUSED":
		return StatePaused, nil
	case "RESUMED":
		return StateResumed, nil
	case "COMPLETED":
		return StateCompleted, nil
	case "ABORTED":
		return StateAborted, nil
	default:
		return StateUnspecified, fmt.Errorf("unknown session state: %s", trimmed)
	}
}

// String returns a stable label for a session type.
func (t SessionType) String() string {
	switch t {
	case SessionTypeFocus:
		return "FOCUS"
	case SessionTypeBreak:
		return "BREAK"
	case SessionTypeMeeting:
		return "MEETING"
	case SessionTypeOther:
		return "OTHER"
	default:
		return "UNSPECIFIED"
	}
}

// SessionTypeFromLabel parses a string label into a SessionType. It trims
// whitespace and matches case-insensitively.
func SessionTypeFromLabel(value string) (SessionType, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return SessionTypeUnspecified, fmt.Errorf("session type is required")
	}
	switch strings.ToUpper(trimmed) {
	case "FOCUS":
		return SessionTypeFocus, nil
	case "BREAK":
		return SessionTypeBreak, nil
	case "MEETING":
		return SessionTypeMeeting, nil
	case "OTHER":
		return SessionTypeOther, nil
	default:
		return SessionTypeUnspecified, fmt.Errorf("unknown session type: %s", trimmed)
	}
}

// DayLabel formats a time as its UTC calendar day, YYYY-MM-DD.
func DayLabel(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayOf truncates a time to midnight of its UTC calendar day.
func DayOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
