package coingecko

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrRateLimited matches any *RateLimitError.
	ErrRateLimited = errors.New("rate limited by market data API")
	// ErrInvalidParams is returned before any request for out-of-range paging.
	ErrInvalidParams = errors.New("invalid request parameters")
)

// Failure kinds, as journaled and logged.
const (
	KindRateLimited = "rate_limited"
	KindHTTP        = "http"
	KindNetwork     = "network"
	KindDecode      = "decode"
	KindInvalid     = "invalid"
)

// RateLimitError is returned for HTTP 429.
type RateLimitError struct {
	RetryAfter time.Duration // zero when upstream did not say
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by market data API, retry after %s", e.RetryAfter)
	}
	return ErrRateLimited.Error()
}

func (e *RateLimitError) Is(target error) bool { return target == ErrRateLimited }

// HTTPError is any other non-2xx response.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("request failed with status %d %s", e.Status, http.StatusText(e.Status))
}

// NetworkError is a transport failure: no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.Err) }
func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the response body did not match the expected shape.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %s response: %v", e.Endpoint, e.Err)
}
func (e *DecodeError) Unwrap() error { return e.Err }

// Kind classifies err into one of the failure kinds, or "" for nil.
func Kind(err error) string {
	var (
		httpErr   *HTTPError
		netErr    *NetworkError
		decodeErr *DecodeError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return KindRateLimited
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &decodeErr):
		return KindDecode
	case errors.As(err, &netErr):
		return KindNetwork
	default:
		return KindInvalid
	}
}

// Status returns the HTTP status carried by err, or 0.
func Status(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	if errors.Is(err, ErrRateLimited) {
		return http.StatusTooManyRequests
	}
	return 0
}

// Message renders err as the one-line text shown to a user.
func Message(err error) string {
	var httpErr *HTTPError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRateLimited):
		return "Rate limit exceeded. Please try again later."
	case errors.As(err, &httpErr):
		return fmt.Sprintf("API Error: %d %s", httpErr.Status, http.StatusText(httpErr.Status))
	case Kind(err) == KindNetwork:
		return "Network error. Check your connection and try again."
	case Kind(err) == KindDecode:
		return "Unexpected response from the market data API."
	default:
		return err.Error()
	}
}
