package webhook

import (
	"math"
	"math/rand"
	"net/http"
	"time"
)

// backoff returns the wait before retry attempt n (1-based): the initial
// delay grown by the multiplier, capped, with ±10% jitter.
func backoff(attempt int, config *RetryConfig) time.Duration {
	if attempt <= 0 {
		return 0
	}

	delay := float64(config.InitialDelay) * math.Pow(config.Multiplier, float64(attempt-1))
	delay = math.Min(delay, float64(config.MaxDelay))

	jitter := delay * 0.1
	delay += (rand.Float64()*2 - 1) * jitter

	return time.Duration(delay)
}

// retryable reports whether a response status warrants another attempt.
func retryable(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
