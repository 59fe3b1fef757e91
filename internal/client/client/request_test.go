package client

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Idempotency(t *testing.T) {
	assert.True(t, Get("/a").Idempotent)
	assert.True(t, Put("/a", nil).Idempotent)
	assert.True(t, Delete("/a").Idempotent)
	assert.False(t, Post("/a", nil).Idempotent)
	assert.Equal(t, http.MethodPost, Post("/a", nil).Method)
}

func TestRequest_WithDoesNotAlias(t *testing.T) {
	base := Get("/posts").With("category", "go")
	a := base.With("sort", "new").WithInt("page", 2).WithInt("limit", 0)
	b := base.With("sort", "top")

	assert.Equal(t, "category=go", base.Query.Encode())
	assert.Equal(t, "category=go&page=2&sort=new", a.Query.Encode())
	assert.Equal(t, "category=go&sort=top", b.Query.Encode())
}

func TestService_Endpoint(t *testing.T) {
	svc, err := NewService(ContentService, "http://localhost:8080/api/content/", nopStore{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api/content/posts/3", svc.endpoint(Get("/posts/3")))
	assert.Equal(t, "http://localhost:8080/api/content/posts?q=go", svc.endpoint(Get("posts").With("q", "go")))
}

func TestNewService_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://bad"} {
		_, err := NewService(IdentityService, raw, nopStore{}, nil)
		assert.Error(t, err, raw)
	}
}
