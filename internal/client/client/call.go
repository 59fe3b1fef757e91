package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// Call performs req against svc and decodes the response body into T.
//
// With useRetry set, idempotent requests are repeated on network failures and
// 5xx responses following the service backoff policy. 401 and other 4xx
// responses fail on the first attempt. Non-idempotent requests are always
// attempted exactly once.
//
// An empty body yields the zero T. When T is string a non-JSON body is
// returned verbatim.
func Call[T any](ctx context.Context, svc *Service, req Request, useRetry bool) (T, error) {
	var zero T

	start := time.Now()
	defer func() { svc.metrics.ObserveCall(svc.name, req.Method, time.Since(start)) }()

	data, err := svc.do(ctx, req, useRetry && req.Idempotent)
	if err != nil {
		return zero, err
	}

	out, err := decode[T](data)
	if err != nil {
		return zero, fmt.Errorf("%s %s %s: decode response: %w", svc.name, req.Method, req.Path, err)
	}
	return out, nil
}

func (s *Service) do(ctx context.Context, req Request, retryable bool) ([]byte, error) {
	var (
		data    []byte
		attempt int
		delay   time.Duration
		last    error
	)

	b := retry.BackoffFunc(func() (time.Duration, bool) {
		return delay, false
	})

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		i := attempt
		attempt++

		body, err := s.attempt(ctx, req)
		if err == nil {
			data = body
			return nil
		}
		last = err

		var e *Error
		if !retryable || !errors.As(err, &e) || ctx.Err() != nil {
			return err
		}
		d, ok := s.policy.Next(i, e.Class())
		if !ok {
			return err
		}

		delay = d
		s.metrics.ObserveRetry(s.name)
		s.log.Warn(ctx, "retrying request", "method", req.Method, "path", req.Path, "attempt", i+1, "delay", d, "error", err)
		if s.onRetry != nil {
			s.onRetry(RetryAttempt{Service: s.name, Method: req.Method, Path: req.Path, Attempt: i + 1, Delay: d})
		}
		return retry.RetryableError(err)
	})
	if err == nil {
		return data, nil
	}

	// Cancelled while waiting between attempts.
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) && !errors.Is(last, ctxErr) {
		return nil, &Error{Service: s.name, Method: req.Method, Path: req.Path, Err: ctxErr}
	}
	return nil, err
}

func decode[T any](data []byte) (T, error) {
	var out T
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return out, nil
	}

	if s, ok := any(&out).(*string); ok {
		if err := json.Unmarshal(data, s); err != nil {
			*s = string(data)
		}
		return out, nil
	}

	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
