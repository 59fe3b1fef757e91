// Package client talks HTTP to the two Varta backends.
//
// # Overview
//
//  1. Service is one configured client per logical backend (identity,
//     content). Its base URL is fixed at construction, so a domain API bound
//     to a Service cannot reach the wrong backend.
//  2. Interceptors wrap every attempt in registration order: request logging,
//     a request id, the bearer token read from the credential store, and the
//     401 handler that purges the store and publishes a session-invalidated
//     event on Invalidations.
//  3. Call is the single entry point the domain APIs use. It decodes the JSON
//     body into the caller's type and retries idempotent requests on
//     transient failures according to the service's backoff.Policy.
//
// # Error Handling
//
// Failures are returned as *Error carrying the HTTP status (0 when no
// response arrived). errors.Is matches ErrUnauthorized for 401 and
// ErrUnavailable for network failures and 5xx.
//
// # Concurrency
//
// Service, Call and Invalidations are safe for concurrent use. Each Call
// owns its retry loop; nothing is shared between calls except the
// credential store the interceptors consult.
package client
