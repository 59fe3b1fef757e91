package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/varta/internal/client/backoff"
	"github.com/tidwall/gjson"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a failed attempt against a service.
type Error struct {
	Service string
	Method  string
	Path    string
	// Status is the HTTP status, or 0 when the request never got a response.
	Status int
	Body   []byte
	// Err is the transport error when Status is 0.
	Err error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s %s: %v", e.Service, e.Method, e.Path, e.Err)
	}
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("%s %s %s: %d %s: %s", e.Service, e.Method, e.Path, e.Status, http.StatusText(e.Status), msg)
	}
	return fmt.Sprintf("%s %s %s: %d %s", e.Service, e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinels by status.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrUnavailable:
		if e.Status == 0 {
			return !errors.Is(e.Err, context.Canceled)
		}
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

// Class is the retry classification of e.
func (e *Error) Class() backoff.Class {
	return backoff.Classify(e.Status, e.Status != 0)
}

// Message is the server-provided explanation: the "message" field of a JSON
// body, else its "error" field, else a short plain-text body.
func (e *Error) Message() string {
	if len(e.Body) == 0 {
		return ""
	}
	if gjson.ValidBytes(e.Body) {
		for _, field := range []string{"message", "error"} {
			if r := gjson.GetBytes(e.Body, field); r.Exists() && r.String() != "" {
				return r.String()
			}
		}
		if r := gjson.ParseBytes(e.Body); r.Type == gjson.String {
			return r.String()
		}
		return ""
	}
	text := strings.TrimSpace(string(e.Body))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}

// StatusOf returns the HTTP status carried by err, if any.
func StatusOf(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status, true
	}
	return 0, false
}
