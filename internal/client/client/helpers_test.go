package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/varta/internal/client/backoff"
	"github.com/dmitrijs2005/varta/internal/client/credentials"
	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/client/repositories/metadata"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

var fastPolicy = backoff.Policy{MaxRetries: 3, BaseDelay: time.Millisecond}

type fixture struct {
	srv   *httptest.Server
	repo  *metadata.MemoryRepository
	store *credentials.Store
	hub   *Invalidations
	svc   *Service
}

func newFixture(t *testing.T, routes func(r chi.Router), opts ...Option) *fixture {
	t.Helper()

	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	repo := metadata.NewMemoryRepository()
	f := &fixture{
		srv:   srv,
		repo:  repo,
		store: credentials.NewStore(repo, "test", nil),
		hub:   NewInvalidations(),
	}

	opts = append([]Option{WithPolicy(fastPolicy)}, opts...)
	svc, err := NewService(IdentityService, srv.URL+"/api/users", f.store, f.hub, opts...)
	require.NoError(t, err)
	f.svc = svc
	return f
}

func (f *fixture) login(t *testing.T, token string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.store.SetToken(ctx, token))
	require.NoError(t, f.store.SetUser(ctx, &models.UserProfile{ID: "1", Name: "Ann", Email: "a@b.com", Role: "user"}))
}

// statusSequence answers with codes in order, repeating the last one.
func statusSequence(hits *atomic.Int32, codes ...int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1)) - 1
		if n >= len(codes) {
			n = len(codes) - 1
		}
		code := codes[n]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if code < http.StatusBadRequest {
			_, _ = w.Write([]byte(`{"id":7,"name":"Ann"}`))
		} else {
			_, _ = w.Write([]byte(`{"message":"boom"}`))
		}
	}
}
