package client

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/varta/internal/client/metrics"
	"github.com/dmitrijs2005/varta/internal/logging"
	"github.com/google/uuid"
)

const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

// Invoker performs one HTTP round trip.
type Invoker func(req *http.Request) (*http.Response, error)

// Interceptor wraps an attempt. It may change req before calling next and
// inspect the response after it.
type Interceptor func(req *http.Request, next Invoker) (*http.Response, error)

// TokenStore is the slice of the credential store the interceptors need.
type TokenStore interface {
	Token(ctx context.Context) (string, bool)
	RemoveToken(ctx context.Context) error
}

// chain nests interceptors so that the first registered runs outermost.
func chain(interceptors []Interceptor, final Invoker) Invoker {
	next := final
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, inner := interceptors[i], next
		next = func(req *http.Request) (*http.Response, error) {
			return ic(req, inner)
		}
	}
	return next
}

// BearerToken attaches the stored token. Without one the request goes out
// unauthenticated and the server decides.
func BearerToken(store TokenStore, log logging.Logger) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		if token, ok := store.Token(req.Context()); ok {
			req.Header.Set(AuthorizationHeader, "Bearer "+token)
		} else {
			log.Debug(req.Context(), "no token available", "path", req.URL.Path)
		}
		return next(req)
	}
}

// RequestID stamps each attempt with a fresh id unless the caller set one.
func RequestID() Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return next(req)
	}
}

// Unauthorized purges the store and publishes an Invalidated event on every
// 401, whichever call received it. The response itself is passed through.
func Unauthorized(service string, store TokenStore, hub *Invalidations, m *metrics.Metrics, log logging.Logger) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		resp, err := next(req)
		if err != nil || resp.StatusCode != http.StatusUnauthorized {
			return resp, err
		}

		ctx := context.WithoutCancel(req.Context())
		log.Warn(ctx, "unauthorized response, purging credentials", "method", req.Method, "path", req.URL.Path)
		m.ObserveUnauthorized(service)
		if perr := store.RemoveToken(ctx); perr != nil {
			log.Error(ctx, "credential purge failed", "error", perr)
		}
		if hub != nil {
			hub.Publish(ctx, Invalidated{
				Service: service,
				Method:  req.Method,
				Path:    req.URL.Path,
				At:      time.Now(),
			})
		}
		return resp, nil
	}
}

// Logging records every attempt and its outcome.
func Logging(log logging.Logger) Interceptor {
	return func(req *http.Request, next Invoker) (*http.Response, error) {
		ctx := req.Context()
		start := time.Now()
		log.Debug(ctx, "request", "method", req.Method, "path", req.URL.Path, "request_id", req.Header.Get(RequestIDHeader))

		resp, err := next(req)
		switch {
		case err != nil:
			log.Error(ctx, "request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		case resp.StatusCode >= http.StatusBadRequest:
			log.Error(ctx, "response error", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		default:
			log.Debug(ctx, "response", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode, "took", time.Since(start))
		}
		return resp, err
	}
}
