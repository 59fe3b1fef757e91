// Package credentials is the single owner of the persisted bearer token and
// the cached user profile.
//
// Both live as separate entries of a metadata.Repository. Only this package
// writes them; everything else reads through Store.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/varta/internal/logging"
)

// DefaultNamespace prefixes the two keys.
const DefaultNamespace = "varta"

// ErrNoToken is returned by SetUser when no token is stored: a profile is
// only kept alongside the token it was obtained with.
var ErrNoToken = errors.New("no token stored")

// Credential is the authenticated view: both entries present.
type Credential struct {
	Token     string
	Principal *models.UserProfile
}

// Store serialises all access to its repository, so a RemoveToken is never
// observed half done by a concurrent reader of this Store.
type Store struct {
	mu       sync.Mutex
	repo     metadata.Repository
	log      logging.Logger
	tokenKey string
	userKey  string
}

// NewStore binds a store to repo. An empty namespace means DefaultNamespace.
func NewStore(repo metadata.Repository, namespace string, log logging.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Store{
		repo:     repo,
		log:      log.With("component", "credentials"),
		tokenKey: namespace + "_token",
		userKey:  namespace + "_user",
	}
}

// Keys returns the token and user entry names.
func (s *Store) Keys() (token, user string) {
	return s.tokenKey, s.userKey
}

// Token returns the stored token. A backend failure reads as absent.
func (s *Store) Token(ctx context.Context) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token(ctx)
}

func (s *Store) token(ctx context.Context) (string, bool) {
	v, err := s.repo.Get(ctx, s.tokenKey)
	if err != nil {
		s.log.Error(ctx, "token read failed", "error", err)
		return "", false
	}
	if len(v) == 0 {
		return "", false
	}
	return string(v), true
}

// SetToken overwrites any stored token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Set(ctx, s.tokenKey, []byte(token)); err != nil {
		s.log.Error(ctx, "token write failed", "error", err)
		return err
	}
	s.log.Debug(ctx, "token stored")
	return nil
}

// RemoveToken clears both the token and the cached profile in one backend
// operation. Removing absent entries is not an error.
func (s *Store) RemoveToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, s.tokenKey, s.userKey); err != nil {
		s.log.Error(ctx, "credential purge failed", "error", err)
		return err
	}
	s.log.Debug(ctx, "token removed")
	return nil
}

// User decodes the cached profile. Absent, malformed or id-less data yields nil.
func (s *Store) User(ctx context.Context) *models.UserProfile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user(ctx)
}

func (s *Store) user(ctx context.Context) *models.UserProfile {
	v, err := s.repo.Get(ctx, s.userKey)
	if err != nil {
		s.log.Error(ctx, "profile read failed", "error", err)
		return nil
	}
	if len(v) == 0 {
		return nil
	}

	var u *models.UserProfile
	if err := json.Unmarshal(v, &u); err != nil {
		s.log.Warn(ctx, "cached profile is malformed", "error", err)
		return nil
	}
	if u == nil || u.ID == "" {
		return nil
	}
	return u
}

// SetUser serialises and stores the profile. It fails with ErrNoToken when
// the token has been purged in the meantime.
func (s *Store) SetUser(ctx context.Context, u *models.UserProfile) error {
	if u == nil {
		return nil
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.token(ctx); !ok {
		return ErrNoToken
	}
	if err := s.repo.Set(ctx, s.userKey, b); err != nil {
		s.log.Error(ctx, "profile write failed", "error", err)
		return err
	}
	return nil
}

// Credential returns token and principal when both are stored.
func (s *Store) Credential(ctx context.Context) (Credential, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.token(ctx)
	if !ok {
		return Credential{}, false
	}
	u := s.user(ctx)
	if u == nil {
		return Credential{}, false
	}
	return Credential{Token: token, Principal: u}, true
}
