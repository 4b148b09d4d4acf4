package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	// ErrStorageInconsistent marks a catalog row whose blob is missing from
	// object storage. Must never be silently treated as empty content.
	ErrStorageInconsistent = errors.New("storage inconsistent")
	// ErrNoExtractableText marks an assembled context that is empty or
	// whitespace-only. Callers surface it as a message, never as a prompt.
	ErrNoExtractableText = errors.New("no extractable text")
	ErrTemporary         = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

// GatewayMessagePrefix opens every user-facing gateway failure message.
// Handlers match on it when classifying generation outcomes.
const GatewayMessagePrefix = "Error contacting OpenRouter:"

// GatewayError wraps a failed completion call. Its message is the exact text
// embedded in payload-level answers, so generation failures stay HTTP 200.
type GatewayError struct {
	Cause error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s %v", GatewayMessagePrefix, e.Cause)
}

func (e *GatewayError) Unwrap() error { return e.Cause }

// AsGatewayError extracts a GatewayError from an error chain.
func AsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}
