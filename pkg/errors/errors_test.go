package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestErrorIncludesInternal(t *testing.T) {
	internal := stdErrors.New("boom")
	err := Wrap(internal, "failed")

	if err.Error() != "failed: boom" {
		t.Fatalf("unexpected error string: %s", err.Error())
	}
	if !stdErrors.Is(err, internal) {
		t.Fatal("expected wrapped error to unwrap to the internal error")
	}
}

func TestWithInternalCopies(t *testing.T) {
	base := New("TEST", "test", 400)
	with := base.WithInternal(stdErrors.New("oops"))

	if with == base {
		t.Fatal("expected WithInternal to return a copy")
	}
	if base.Internal != nil {
		t.Fatal("expected original error to remain unchanged")
	}
	if with.Internal == nil {
		t.Fatal("expected internal error to be set")
	}
}

func TestIsMatchesCopiesOfSentinel(t *testing.T) {
	err := fmt.Errorf("handler: %w", ErrQuestionRequired.WithInternal(stdErrors.New("missing")))

	if !stdErrors.Is(err, ErrQuestionRequired) {
		t.Fatal("expected copy to match its sentinel")
	}
	if stdErrors.Is(err, ErrMalformedRequest) {
		t.Fatal("expected different codes not to match")
	}
}

func TestFromError(t *testing.T) {
	if out := FromError(ErrNotFound); out != ErrNotFound {
		t.Fatal("expected FromError to return the same AppError instance")
	}

	out := FromError(stdErrors.New("raw"))
	if out.Code != ErrInternalServer.Code {
		t.Fatalf("expected internal server code, got %s", out.Code)
	}
	if out.Internal == nil {
		t.Fatal("expected internal error to be attached")
	}
	if out.Error() != "internal server error: raw" {
		t.Fatalf("unexpected message: %s", out.Error())
	}

	if FromError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestAskErrorsAreServerErrors(t *testing.T) {
	for _, err := range []*AppError{ErrMalformedRequest, ErrQuestionRequired, ErrCompletionFailed, ErrStoreFailed} {
		if err.StatusCode != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", err.Code, err.StatusCode)
		}
	}
}

func TestNewBadRequest(t *testing.T) {
	err := NewBadRequest("invalid payload")
	if err.Code != ErrBadRequest.Code {
		t.Fatalf("expected %s, got %s", ErrBadRequest.Code, err.Code)
	}
	if err.Message != "invalid payload" {
		t.Fatalf("unexpected message: %s", err.Message)
	}
	if err.StatusCode != ErrBadRequest.StatusCode {
		t.Fatalf("unexpected status: %d", err.StatusCode)
	}
}
