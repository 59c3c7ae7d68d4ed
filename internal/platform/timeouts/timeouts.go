// Package timeouts defines shared timeout constants used across services.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// Shutdown limits how long the service waits for in-flight requests and
// telemetry flushes during graceful shutdown.
const Shutdown = 5 * time.Second
