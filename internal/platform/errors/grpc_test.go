package errors

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestHandleErrorNil(t *testing.T) {
	if got := HandleError(nil); got != nil {
		t.Fatalf("HandleError(nil) = %v, want nil", got)
	}
}

func TestHandleErrorDomainError(t *testing.T) {
	err := fmt.Errorf("end session: %w", New(CodeSessionNotFound, "session not found"))

	st, ok := status.FromError(HandleError(err))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.NotFound {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.NotFound)
	}
	if st.Message() != "session not found" {
		t.Fatalf("status message = %q, want domain message", st.Message())
	}
}

func TestHandleErrorMasksUnknown(t *testing.T) {
	st, ok := status.FromError(HandleError(errors.New("sqlite: disk I/O error")))
	if !ok {
		t.Fatal("expected grpc status")
	}
	if st.Code() != codes.Internal {
		t.Fatalf("status code = %v, want %v", st.Code(), codes.Internal)
	}
	if st.Message() == "sqlite: disk I/O error" {
		t.Fatal("internal detail leaked into client-facing message")
	}
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("pause: %w", New(CodeSessionNotOwned, "not owned"))

	if got := GetCode(wrapped); got != CodeSessionNotOwned {
		t.Fatalf("GetCode() = %v, want %v", got, CodeSessionNotOwned)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Fatalf("GetCode(plain) = %v, want %v", got, CodeUnknown)
	}
	if !IsCode(wrapped, CodeSessionNotOwned) {
		t.Fatal("IsCode() = false, want true")
	}
}
