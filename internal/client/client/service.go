package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/varta/internal/client/backoff"
	"github.com/dmitrijs2005/varta/internal/client/config"
	"github.com/dmitrijs2005/varta/internal/client/metrics"
	"github.com/dmitrijs2005/varta/internal/logging"
)

// Logical service names.
const (
	IdentityService = "identity"
	ContentService  = "content"
)

// maxBodySize caps how much of a response is read.
const maxBodySize = 8 << 20

// RetryAttempt describes a scheduled retry: Attempt is the zero-based index
// of the attempt about to run, Delay the wait before it.
type RetryAttempt struct {
	Service string
	Method  string
	Path    string
	Attempt int
	Delay   time.Duration
}

// Service is a client bound to one backend.
type Service struct {
	name    string
	baseURL *url.URL

	httpClient *http.Client
	timeout    time.Duration
	policy     backoff.Policy
	extra      []Interceptor
	metrics    *metrics.Metrics
	log        logging.Logger
	onRetry    func(RetryAttempt)

	invoke Invoker
}

type Option func(*Service)

// WithHTTPClient replaces the underlying client. Its Timeout is overridden
// by the service timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Service) { s.httpClient = c }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func WithPolicy(p backoff.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithInterceptors appends interceptors after the built-in ones.
func WithInterceptors(ics ...Interceptor) Option {
	return func(s *Service) { s.extra = append(s.extra, ics...) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithRetryObserver is called before every backoff sleep.
func WithRetryObserver(fn func(RetryAttempt)) Option {
	return func(s *Service) { s.onRetry = fn }
}

// NewService builds the client for one backend. Interceptors run in this
// order: logging, request id, bearer token, 401 handling, then any added
// with WithInterceptors.
func NewService(name, baseURL string, store TokenStore, hub *Invalidations, opts ...Option) (*Service, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme and host required", name, baseURL)
	}

	s := &Service{
		name:    name,
		baseURL: u,
		timeout: config.DefaultRequestTimeout,
		policy:  backoff.Default(),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("service", name)

	hc := &http.Client{}
	if s.httpClient != nil {
		copied := *s.httpClient
		hc = &copied
	}
	hc.Timeout = s.timeout
	s.httpClient = hc

	interceptors := []Interceptor{
		Logging(s.log),
		RequestID(),
		BearerToken(store, s.log),
		Unauthorized(name, store, hub, s.metrics, s.log),
	}
	interceptors = append(interceptors, s.extra...)
	s.invoke = chain(interceptors, s.httpClient.Do)

	return s, nil
}

func (s *Service) Name() string { return s.name }

func (s *Service) BaseURL() string { return s.baseURL.String() }

func (s *Service) Policy() backoff.Policy { return s.policy }

func (s *Service) endpoint(req Request) string {
	u := *s.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(req.Path, "/")
	u.RawPath = ""
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	} else {
		u.RawQuery = ""
	}
	return u.String()
}

// attempt performs a single round trip and returns the body of a 2xx/3xx
// response, or an *Error.
func (s *Service) attempt(ctx context.Context, req Request) ([]byte, error) {
	fail := func(status int, body []byte, err error) *Error {
		return &Error{Service: s.name, Method: req.Method, Path: req.Path, Status: status, Body: body, Err: err}
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, s.endpoint(req), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s request: %w", req.Method, req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.invoke(httpReq)
	if err != nil {
		s.metrics.ObserveAttempt(s.name, req.Method, 0)
		return nil, fail(0, nil, err)
	}
	defer resp.Body.Close()
	s.metrics.ObserveAttempt(s.name, req.Method, resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fail(0, nil, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fail(resp.StatusCode, data, nil)
	}
	return data, nil
}

// Services are the two clients of the platform sharing one credential store
// and one invalidation hub.
type Services struct {
	Identity      *Service
	Content       *Service
	Invalidations *Invalidations
}

// NewServices builds both clients from cfg.
func NewServices(cfg *config.Config, store TokenStore, opts ...Option) (*Services, error) {
	hub := NewInvalidations()

	base := []Option{WithTimeout(cfg.RequestTimeout), WithPolicy(cfg.Backoff())}
	opts = append(base, opts...)

	identity, err := NewService(IdentityService, cfg.UserServiceURL, store, hub, opts...)
	if err != nil {
		return nil, err
	}
	content, err := NewService(ContentService, cfg.ContentServiceURL, store, hub, opts...)
	if err != nil {
		return nil, err
	}

	return &Services{Identity: identity, Content: content, Invalidations: hub}, nil
}
