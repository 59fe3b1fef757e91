// Package services contains the application services of the Varta client.
// SessionController owns the session lifecycle: it validates a persisted
// session on startup, performs login, registration and logout, and reacts
// to credentials being invalidated by any service call.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/varta/internal/client/client"
	"github.com/dmitrijs2005/varta/internal/client/credentials"
	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/logging"
)

type State int

const (
	Initializing State = iota
	Validating
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session is a snapshot of the controller state. User is only set while
// Authenticated.
type Session struct {
	State State
	User  *models.UserProfile
}

// AccountAPI is the part of the identity service the controller drives.
type AccountAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error)
	Me(ctx context.Context) (*models.UserProfile, error)
}

// CredentialStore is the persisted token and profile.
type CredentialStore interface {
	Token(ctx context.Context) (string, bool)
	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error
	User(ctx context.Context) *models.UserProfile
	SetUser(ctx context.Context, u *models.UserProfile) error
}

// InvalidationSource delivers session-invalidated events.
type InvalidationSource interface {
	Subscribe(fn func(context.Context, client.Invalidated)) (unsubscribe func())
}

type Option func(*SessionController)

func WithNotifier(n Notifier) Option {
	return func(c *SessionController) { c.notifier = n }
}

func WithLogger(l logging.Logger) Option {
	return func(c *SessionController) { c.log = l }
}

// WithLoginRequired sets the hook run when the session is invalidated by a
// 401 response. The CLI uses it to send the user back to the login prompt.
func WithLoginRequired(fn func(ctx context.Context)) Option {
	return func(c *SessionController) { c.loginRequired = fn }
}

type listener struct {
	id int
	fn func(Session)
}

// SessionController is the only writer of the session state.
type SessionController struct {
	accounts AccountAPI
	store    CredentialStore

	notifier      Notifier
	log           logging.Logger
	loginRequired func(ctx context.Context)

	mu        sync.Mutex
	state     State
	user      *models.UserProfile
	listeners []listener
	nextID    int

	// pending holds snapshots not yet delivered; one goroutine at a time
	// drains it while delivering is set.
	pending    []Session
	delivering bool

	startOnce   sync.Once
	unsubscribe func()
}

// NewSessionController creates a controller in the Initializing state and
// subscribes it to invalidations when a source is given.
func NewSessionController(accounts AccountAPI, store CredentialStore, invalidations InvalidationSource, opts ...Option) *SessionController {
	c := &SessionController{
		accounts: accounts,
		store:    store,
		notifier: nopNotifier{},
		log:      logging.Nop(),
		state:    Initializing,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "session")

	if invalidations != nil {
		c.unsubscribe = invalidations.Subscribe(c.onInvalidated)
	}
	return c
}

// Close detaches the controller from the invalidation source.
func (c *SessionController) Close() {
	if c.unsubscribe != nil {
		c.unsubscribe()
	}
}

// Session returns the current snapshot.
func (c *SessionController) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Session{State: c.state, User: c.user}
}

// IsAuthenticated is true while a profile is held and a token is stored.
func (c *SessionController) IsAuthenticated(ctx context.Context) bool {
	c.mu.Lock()
	u := c.user
	c.mu.Unlock()
	if u == nil {
		return false
	}
	_, ok := c.store.Token(ctx)
	return ok
}

// Subscribe registers fn for every state transition. Callbacks run outside
// the controller lock, one at a time and in transition order. A transition
// caused from inside a callback, for example by a call that gets a 401, is
// delivered after the current callback returns.
func (c *SessionController) Subscribe(fn func(Session)) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.listeners = append(c.listeners, listener{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, l := range c.listeners {
				if l.id == id {
					c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (c *SessionController) transition(ctx context.Context, state State, u *models.UserProfile) {
	c.mu.Lock()
	from := c.state
	c.state, c.user = state, u
	c.pending = append(c.pending, Session{State: state, User: u})
	if c.delivering {
		c.mu.Unlock()
		c.log.Debug(ctx, "session transition queued", "from", from.String(), "to", state.String())
		return
	}
	c.delivering = true
	c.mu.Unlock()

	c.log.Debug(ctx, "session transition", "from", from.String(), "to", state.String())
	c.deliver()
}

// deliver drains pending, calling listeners without holding mu.
func (c *SessionController) deliver() {
	c.mu.Lock()
	for len(c.pending) > 0 {
		s := c.pending[0]
		c.pending = c.pending[1:]
		listeners := make([]listener, len(c.listeners))
		copy(listeners, c.listeners)

		c.mu.Unlock()
		for _, l := range listeners {
			l.fn(s)
		}
		c.mu.Lock()
	}
	c.pending = nil
	c.delivering = false
	c.mu.Unlock()
}

// Start validates a persisted session once per controller. Later calls only
// return the current snapshot.
func (c *SessionController) Start(ctx context.Context) Session {
	c.startOnce.Do(func() { c.start(ctx) })
	return c.Session()
}

func (c *SessionController) start(ctx context.Context) {
	_, hasToken := c.store.Token(ctx)
	cached := c.store.User(ctx)
	if !hasToken || cached == nil {
		c.transition(ctx, Unauthenticated, nil)
		return
	}

	c.log.Info(ctx, "validating existing session")
	c.transition(ctx, Validating, nil)

	current, err := c.accounts.Me(ctx)
	if err != nil || current == nil {
		c.log.Error(ctx, "session validation failed", "error", err)
		if perr := c.store.RemoveToken(ctx); perr != nil {
			c.log.Error(ctx, "credential purge failed", "error", perr)
		}
		c.notifier.Notify(ctx, Notice{Kind: NoticeError, Title: TitleSessionExpired, Message: "Please log in again"})
		c.transition(ctx, Unauthenticated, nil)
		return
	}

	if err := c.store.SetUser(ctx, current); err != nil {
		c.log.Warn(ctx, "profile cache update failed", "error", err)
	}
	c.log.Info(ctx, "session validated successfully")
	c.transition(ctx, Authenticated, current)
}

// Login authenticates, stores the token and the interim profile built from
// the login response. On failure nothing is changed and the error returned.
func (c *SessionController) Login(ctx context.Context, req models.LoginRequest) (*models.UserProfile, error) {
	c.log.Info(ctx, "starting login process")

	resp, err := c.accounts.Login(ctx, req)
	if err == nil && resp.JWTToken == "" {
		err = errors.New("login response has no token")
	}
	if err != nil {
		c.log.Error(ctx, "login failed", "error", err)
		c.notifier.Notify(ctx, Notice{Kind: NoticeError, Title: TitleLoginFailed, Message: UserMessage(err, "Login failed")})
		return nil, err
	}

	if err := c.store.SetToken(ctx, resp.JWTToken); err != nil {
		c.notifier.Notify(ctx, Notice{Kind: NoticeError, Title: TitleLoginFailed, Message: "Login failed"})
		return nil, fmt.Errorf("store token: %w", err)
	}

	u := resp.Profile(req.Email)
	if !credentials.Matches(resp.JWTToken, u) {
		sub, _ := credentials.Subject(resp.JWTToken)
		c.log.Warn(ctx, "token subject does not match principal", "subject", sub, "user_id", string(u.ID))
	}
	if err := c.store.SetUser(ctx, u); err != nil {
		c.log.Warn(ctx, "profile cache write failed", "error", err)
	}

	c.log.Info(ctx, "login successful", "user_id", string(u.ID))
	c.transition(ctx, Authenticated, u)
	c.notifier.Notify(ctx, Notice{Kind: NoticeSuccess, Title: TitleWelcomeBack, Message: "Hello " + resp.UserName})
	return u, nil
}

// Register creates the account and logs in with the same credentials. A
// failed automatic login still reports the registration as successful; the
// session then stays Unauthenticated.
func (c *SessionController) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	c.log.Info(ctx, "starting registration process")

	if err := c.store.RemoveToken(ctx); err != nil {
		c.log.Warn(ctx, "stale credential purge failed", "error", err)
	}

	registered, err := c.accounts.Register(ctx, req)
	if err != nil {
		c.log.Error(ctx, "registration failed", "error", err)
		c.notifier.Notify(ctx, Notice{Kind: NoticeError, Title: TitleRegisterFailed, Message: UserMessage(err, "Registration failed")})
		return nil, err
	}

	c.log.Info(ctx, "registration successful, attempting auto-login")
	if _, err := c.Login(ctx, models.LoginRequest{Email: req.Email, Password: req.Password}); err != nil {
		c.log.Info(ctx, "auto-login failed, registration was successful")
		c.notifier.Notify(ctx, Notice{Kind: NoticeInfo, Title: TitleRegistered, Message: "Please login with your credentials"})
		return registered, nil
	}

	c.notifier.Notify(ctx, Notice{Kind: NoticeSuccess, Title: TitleWelcome, Message: "Your account has been created successfully"})
	return registered, nil
}

// Logout clears the stored credentials. It never fails; a backend error is
// only logged.
func (c *SessionController) Logout(ctx context.Context) {
	c.log.Info(ctx, "logging out user")
	if err := c.store.RemoveToken(ctx); err != nil {
		c.log.Error(ctx, "credential purge failed", "error", err)
	}
	c.transition(ctx, Unauthenticated, nil)
	c.notifier.Notify(ctx, Notice{Kind: NoticeInfo, Title: TitleLoggedOut, Message: "You have been logged out successfully"})
}

// Refresh reloads the current profile. Any failure logs the user out; a 401
// has already reset the session through the invalidation handler, so no
// second transition or logout notice follows it.
func (c *SessionController) Refresh(ctx context.Context) (*models.UserProfile, error) {
	c.log.Info(ctx, "refreshing user data")

	current, err := c.accounts.Me(ctx)
	if err == nil && current == nil {
		err = errors.New("empty profile")
	}
	if err != nil {
		c.log.Error(ctx, "failed to refresh user data", "error", err)
		if errors.Is(err, client.ErrUnauthorized) && c.Session().State == Unauthenticated {
			return nil, err
		}
		c.Logout(ctx)
		return nil, err
	}

	if err := c.store.SetUser(ctx, current); err != nil {
		c.log.Warn(ctx, "profile cache update failed", "error", err)
	}
	c.transition(ctx, Authenticated, current)
	return current, nil
}

// onInvalidated runs after a 401 has already purged the store.
func (c *SessionController) onInvalidated(ctx context.Context, ev client.Invalidated) {
	c.log.Warn(ctx, "session invalidated", "service", ev.Service, "path", ev.Path)

	c.mu.Lock()
	state := c.state
	c.mu.Unlock()

	// Validating is resolved by start itself.
	if state != Validating && state != Unauthenticated {
		c.transition(ctx, Unauthenticated, nil)
	}
	if c.loginRequired != nil {
		c.loginRequired(ctx)
	}
}
