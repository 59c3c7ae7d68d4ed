// Package errors provides structured error handling with machine-readable codes.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// User errors
	CodeUserNotFound Code = "USER_NOT_FOUND"

	// Session errors
	CodeSessionNotFound          Code = "SESSION_NOT_FOUND"
	CodeSessionNotOwned          Code = "SESSION_NOT_OWNED"
	CodeSessionAlreadyActive     Code = "SESSION_ALREADY_ACTIVE"
	CodeSessionInvalidTransition Code = "SESSION_INVALID_TRANSITION"
	CodeSessionNotActive         Code = "SESSION_NOT_ACTIVE"
	CodeSessionTaskEmpty         Code = "SESSION_TASK_EMPTY"
	CodeSessionTaskTooLong       Code = "SESSION_TASK_TOO_LONG"
	CodeSessionInvalidType       Code = "SESSION_INVALID_TYPE"
	CodeSessionInvalidDuration   Code = "SESSION_INVALID_DURATION"
	CodeSessionInvalidTerminal   Code = "SESSION_INVALID_TERMINAL_STATE"

	// Distraction errors
	CodeDistractionEmpty   Code = "DISTRACTION_EMPTY"
	CodeDistractionTooLong Code = "DISTRACTION_TOO_LONG"

	// Stats errors
	CodeStatsInvalidRange      Code = "STATS_INVALID_RANGE"
	CodeStatsInvalidDateWindow Code = "STATS_INVALID_DATE_WINDOW"
)

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeSessionTaskEmpty,
		CodeSessionTaskTooLong,
		CodeSessionInvalidType,
		CodeSessionInvalidDuration,
		CodeSessionInvalidTerminal,
		CodeDistractionEmpty,
		CodeDistractionTooLong,
		CodeStatsInvalidRange,
		CodeStatsInvalidDateWindow:
		return codes.InvalidArgument

	// FailedPrecondition - state doesn't allow operation
	case CodeSessionAlreadyActive,
		CodeSessionInvalidTransition,
		CodeSessionNotActive:
		return codes.FailedPrecondition

	// PermissionDenied - caller does not own the resource
	case CodeSessionNotOwned:
		return codes.PermissionDenied

	// NotFound - resource doesn't exist
	case CodeSessionNotFound,
		CodeUserNotFound:
		return codes.NotFound

	default:
		return codes.Internal
	}
}
