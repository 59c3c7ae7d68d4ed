// Package domain defines the entities and lifecycle state for focus sessions.
//
// A Session represents a single timed work interval tracked for a user. It
// records when the interval started, how much of it was spent paused, and
// what remained as actual focused time once the interval ended.
//
// # Session Lifecycle
//
// Sessions move through several states:
//   - Started: The session is running. Only one session can be open per user.
//   - Paused: The timer is temporarily suspended; paused time is excluded
//     from focus accounting.
//   - Resumed: The timer is running again after a pause.
//   - Completed: The session finished normally and counts toward the
//     user's streak.
//   - Aborted: The session was ended early; it never credits a streak.
//
// Completed and Aborted are terminal. The package also owns the per-user
// Streak record and its credit algorithm: one credit per calendar day, a
// grace day absorbing one missed day, and a 20% floor decay once grace is
// exhausted.
package domain
