package credentials

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/client/repositories/metadata"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingRepo struct {
	metadata.Repository
	err error
}

func (f failingRepo) Get(context.Context, string) ([]byte, error)     { return nil, f.err }
func (f failingRepo) Set(context.Context, string, []byte) error       { return f.err }
func (f failingRepo) Delete(context.Context, ...string) error         { return f.err }
func (f failingRepo) List(context.Context) (map[string][]byte, error) { return nil, f.err }
func (f failingRepo) Clear(context.Context) error                     { return f.err }

func newStore(t *testing.T) (*Store, *metadata.MemoryRepository) {
	t.Helper()
	repo := metadata.NewMemoryRepository()
	return NewStore(repo, "", nil), repo
}

func TestStore_TokenRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	_, ok := s.Token(ctx)
	assert.False(t, ok)

	require.NoError(t, s.SetToken(ctx, "T1"))
	require.NoError(t, s.SetToken(ctx, "T2"))

	tok, ok := s.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, "T2", tok)
}

func TestStore_KeysUseNamespace(t *testing.T) {
	s := NewStore(metadata.NewMemoryRepository(), "staging", nil)
	tk, uk := s.Keys()
	assert.Equal(t, "staging_token", tk)
	assert.Equal(t, "staging_user", uk)

	s, _ = newStore(t)
	tk, uk = s.Keys()
	assert.Equal(t, "varta_token", tk)
	assert.Equal(t, "varta_user", uk)
}

func TestStore_UserRoundTrip(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	u := &models.UserProfile{ID: "7", Name: "Ann", Email: "a@b.com", Role: "user", Bio: "hi"}
	require.NoError(t, s.SetToken(ctx, "T1"))
	require.NoError(t, s.SetUser(ctx, u))
	require.NoError(t, s.SetUser(ctx, nil))

	assert.Equal(t, u, s.User(ctx))
}

func TestStore_SetUserWithoutToken(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	require.ErrorIs(t, s.SetUser(ctx, &models.UserProfile{ID: "7"}), ErrNoToken)

	m, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestStore_UserMalformedOrAbsentIsNil(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	assert.Nil(t, s.User(ctx))

	_, userKey := s.Keys()
	for _, raw := range []string{`{not json`, `"just a string"`, `[1,2]`, `{"id":true}`, `null`, `{}`, `{"id":"","name":"Ann"}`} {
		require.NoError(t, repo.Set(ctx, userKey, []byte(raw)))
		assert.NotPanics(t, func() { assert.Nil(t, s.User(ctx), raw) })
	}

	require.NoError(t, s.SetToken(ctx, "T1"))
	require.NoError(t, repo.Set(ctx, userKey, []byte(`null`)))
	_, ok := s.Credential(ctx)
	assert.False(t, ok, "a null profile is not a credential")
}

func TestStore_RemoveTokenClearsBoth(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "T1"))
	require.NoError(t, s.SetUser(ctx, &models.UserProfile{ID: "7"}))
	_, ok := s.Credential(ctx)
	require.True(t, ok)

	require.NoError(t, s.RemoveToken(ctx))
	require.NoError(t, s.RemoveToken(ctx))

	m, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
	_, ok = s.Credential(ctx)
	assert.False(t, ok)
}

func TestStore_CredentialNeedsBoth(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetToken(ctx, "T1"))
	_, ok := s.Credential(ctx)
	assert.False(t, ok, "token alone is not a credential")

	require.NoError(t, s.SetUser(ctx, &models.UserProfile{ID: "7", Name: "Ann"}))
	c, ok := s.Credential(ctx)
	require.True(t, ok)
	assert.Equal(t, "T1", c.Token)
	assert.Equal(t, models.ID("7"), c.Principal.ID)
}

func TestStore_BackendFailures(t *testing.T) {
	boom := errors.New("quota exceeded")
	s := NewStore(failingRepo{err: boom}, "varta", nil)
	ctx := context.Background()

	_, ok := s.Token(ctx)
	assert.False(t, ok)
	assert.Nil(t, s.User(ctx))
	assert.ErrorIs(t, s.SetToken(ctx, "T"), boom)
	assert.ErrorIs(t, s.SetUser(ctx, &models.UserProfile{}), ErrNoToken, "unreadable token counts as absent")
	assert.ErrorIs(t, s.RemoveToken(ctx), boom)
}

func TestStore_ConcurrentPurgeIsIdempotent(t *testing.T) {
	s, repo := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetToken(ctx, "T1"))
	require.NoError(t, s.SetUser(ctx, &models.UserProfile{ID: "1"}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.RemoveToken(ctx))
		}()
	}
	wg.Wait()

	m, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func signed(t *testing.T, sub string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

func TestSubject(t *testing.T) {
	sub, ok := Subject(signed(t, "a@b.com"))
	require.True(t, ok)
	assert.Equal(t, "a@b.com", sub)

	_, ok = Subject("opaque")
	assert.False(t, ok)
}

func TestMatches(t *testing.T) {
	u := &models.UserProfile{ID: "7", Name: "Ann", Email: "a@b.com"}

	assert.True(t, Matches(signed(t, "a@b.com"), u))
	assert.True(t, Matches(signed(t, "7"), u))
	assert.False(t, Matches(signed(t, "someone@else"), u))
	assert.True(t, Matches("opaque", u))
}
