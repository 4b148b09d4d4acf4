package openrouter

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/avelkov/study-tutor-backend/internal/infrastructure/resilience"
)

// classifyCompletionError decides retry behavior per failure. Cancellation is
// neither retried nor counted against the breaker; auth and other 4xx
// responses fail fast; throttling, 5xx and transport errors retry and count.
func classifyCompletionError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyHTTPStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyHTTPStatus(reqErr.HTTPStatusCode)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	}

	return resilience.ErrorClassification{
		Retryable:     false,
		RecordFailure: true,
	}
}

func classifyHTTPStatus(statusCode int) resilience.ErrorClassification {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests,
		http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return resilience.ErrorClassification{
			Retryable:     true,
			RecordFailure: true,
		}
	default:
		return resilience.ErrorClassification{
			Retryable:     false,
			RecordFailure: false,
		}
	}
}
