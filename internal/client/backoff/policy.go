// Package backoff decides whether a failed call should be attempted again
// and how long to wait before doing so.
//
// A Policy is a plain value: it keeps no state between calls, so one value
// can be shared by any number of concurrent retry loops.
package backoff

import (
	"math"
	"net/http"
	"time"
)

const (
	// DefaultMaxRetries is the total number of attempts a retried call gets.
	DefaultMaxRetries = 3
	// DefaultBaseDelay is the delay after the first failed attempt.
	DefaultBaseDelay = time.Second
	// MaxDelay is the ceiling Delay saturates at instead of overflowing.
	MaxDelay = time.Duration(math.MaxInt64)
)

// Class is the retry classification of a failure.
type Class int

const (
	// Transient failures are network errors (no status) and 5xx responses.
	Transient Class = iota
	// Unauthorized is a 401 response.
	Unauthorized
	// ClientError is any other non-success status; it is never retried.
	ClientError
)

func (c Class) String() string {
	switch c {
	case Transient:
		return "transient"
	case Unauthorized:
		return "unauthorized"
	case ClientError:
		return "client_error"
	default:
		return "unknown"
	}
}

// Classify maps a response status to a Class. hasStatus is false when the
// call failed before any response was received.
func Classify(status int, hasStatus bool) Class {
	switch {
	case !hasStatus:
		return Transient
	case status >= http.StatusInternalServerError:
		return Transient
	case status == http.StatusUnauthorized:
		return Unauthorized
	default:
		return ClientError
	}
}

// Policy is an exponential backoff: the delay after attempt i is
// BaseDelay * 2^i, and at most MaxRetries attempts are made in total.
type Policy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// Default returns the 3 attempts / 1s base policy.
func Default() Policy {
	return Policy{MaxRetries: DefaultMaxRetries, BaseDelay: DefaultBaseDelay}
}

// normalized fills zero fields with defaults.
func (p Policy) normalized() Policy {
	if p.MaxRetries <= 0 {
		p.MaxRetries = DefaultMaxRetries
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	return p
}

// Attempts is the effective total attempt budget.
func (p Policy) Attempts() int {
	return p.normalized().MaxRetries
}

// Delay returns BaseDelay * 2^attempt for a zero-based attempt index,
// saturating at MaxDelay.
func (p Policy) Delay(attempt int) time.Duration {
	p = p.normalized()
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 63 || p.BaseDelay > MaxDelay>>uint(attempt) {
		return MaxDelay
	}
	return p.BaseDelay << uint(attempt)
}

// Next reports whether attempt (zero-based) that failed with class should be
// followed by another one, and after what delay.
//
// The last allowed attempt (MaxRetries-1) never gets a follow-up, and only
// Transient failures are retried.
func (p Policy) Next(attempt int, class Class) (time.Duration, bool) {
	p = p.normalized()
	if class != Transient {
		return 0, false
	}
	if attempt >= p.MaxRetries-1 {
		return 0, false
	}
	return p.Delay(attempt), true
}
