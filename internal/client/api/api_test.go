package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/varta/internal/client/backoff"
	"github.com/dmitrijs2005/varta/internal/client/client"
	"github.com/dmitrijs2005/varta/internal/client/credentials"
	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/client/repositories/metadata"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newService(t *testing.T, r chi.Router) *client.Service {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	store := credentials.NewStore(metadata.NewMemoryRepository(), "", nil)
	svc, err := client.NewService("test", srv.URL, store, client.NewInvalidations(),
		client.WithPolicy(backoff.Policy{MaxRetries: 3, BaseDelay: time.Millisecond}))
	require.NoError(t, err)
	return svc
}

func TestUsers_RegisterSendsOptionalFields(t *testing.T) {
	var body map[string]any
	r := chi.NewRouter()
	r.Post("/users/register", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &body))
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "name": "Ann", "email": "a@b.com", "role": "user"})
	})
	users := NewUsers(newService(t, r), nil)

	u, err := users.Register(context.Background(), models.RegisterRequest{Email: "a@b.com", Password: "secret1", Name: "Ann", Role: "user"})
	require.NoError(t, err)
	assert.Equal(t, models.ID("9"), u.ID)

	assert.Contains(t, body, "bio")
	assert.Contains(t, body, "phoneNumber")
	assert.Equal(t, "", body["bio"])
}

func TestUsers_UserByIDMapsFailures(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "nope"})
	})
	users := NewUsers(newService(t, r), nil)

	_, err := users.UserByID(context.Background(), "42")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUsers_FollowersCount(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/users/followers/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"followerId": 2}, {"followerId": 3}})
	})
	r.Get("/users/following/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{})
	})
	users := NewUsers(newService(t, r), nil)

	followers, err := users.Followers(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 2, followers.Count)
	assert.Equal(t, models.ID("3"), followers.Followers[1].FollowerID)

	following, err := users.Following(context.Background(), "1")
	require.NoError(t, err)
	assert.Zero(t, following.Count)
}

func TestUsers_IsFollowing(t *testing.T) {
	var failFollowing atomic.Bool
	r := chi.NewRouter()
	r.Get("/users/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1, "name": "Ann"})
	})
	r.Get("/users/following/{id}", func(w http.ResponseWriter, r *http.Request) {
		if failFollowing.Load() || chi.URLParam(r, "id") != "1" {
			writeJSON(w, http.StatusBadRequest, nil)
			return
		}
		writeJSON(w, http.StatusOK, []map[string]any{{"followerId": 1, "followingId": 5}, {"targetId": "8"}})
	})
	users := NewUsers(newService(t, r), nil)
	ctx := context.Background()

	assert.True(t, users.IsFollowing(ctx, "5"))
	assert.True(t, users.IsFollowing(ctx, "8"))
	assert.False(t, users.IsFollowing(ctx, "9"))

	failFollowing.Store(true)
	assert.False(t, users.IsFollowing(ctx, "5"))
}

func TestUsers_ResetPasswordUsesQuery(t *testing.T) {
	var query string
	r := chi.NewRouter()
	r.Post("/reset-password", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("email") + "|" + r.URL.Query().Get("newPassword")
		_, _ = w.Write([]byte("Password reset successfully"))
	})
	users := NewUsers(newService(t, r), nil)

	msg, err := users.ResetPassword(context.Background(), "a+b@c.com", "n&w")
	require.NoError(t, err)
	assert.Equal(t, "Password reset successfully", msg)
	assert.Equal(t, "a+b@c.com|n&w", query)
}

func TestContent_PostsEnvelope(t *testing.T) {
	var rawQuery atomic.Value
	r := chi.NewRouter()
	r.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
		rawQuery.Store(r.URL.RawQuery)
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "title": "a"}, {"id": 2, "title": "b"}})
	})
	content := NewContent(newService(t, r), nil)
	ctx := context.Background()

	got, err := content.Posts(ctx, models.PostsQuery{})
	require.NoError(t, err)
	assert.Equal(t, "", rawQuery.Load())
	want := models.PostsResponse{
		Posts: []models.Post{{ID: "1", Title: "a"}, {ID: "2", Title: "b"}},
		Total: 2,
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Posts() mismatch (-want +got):\n%s", diff)
	}

	got, err = content.Posts(ctx, models.PostsQuery{Category: "movies", Page: 2, Limit: 5})
	require.NoError(t, err)
	assert.Equal(t, "category=movies&limit=5&page=2", rawQuery.Load())
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 5, got.Limit)
}

func TestContent_SynthesizedResponses(t *testing.T) {
	var likes, rates atomic.Int32
	r := chi.NewRouter()
	r.Post("/posts/{id}/like", func(w http.ResponseWriter, r *http.Request) {
		likes.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	r.Get("/posts/{id}/likes", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("12"))
	})
	r.Post("/posts/{id}/rate", func(w http.ResponseWriter, r *http.Request) {
		rates.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	content := NewContent(newService(t, r), nil)
	ctx := context.Background()

	like, err := content.ToggleLike(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, models.LikeResponse{IsLiked: true, LikesCount: 0}, like)

	l, err := content.Likes(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 12, l.Count)
	assert.Empty(t, l.Likes)

	rating, err := content.RatePost(ctx, "3", models.RatePostRequest{RatingValue: 4})
	require.NoError(t, err)
	assert.Equal(t, models.RatingResponse{AverageRating: 4, UserRating: 4, TotalRatings: 1}, rating)

	assert.EqualValues(t, 1, likes.Load())
	assert.EqualValues(t, 1, rates.Load())
}

func TestContent_TopRatedIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	r := chi.NewRouter()
	r.Get("/posts/top-rated", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, nil)
	})
	r.Get("/posts/trending", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		writeJSON(w, http.StatusServiceUnavailable, nil)
	})
	content := NewContent(newService(t, r), nil)
	ctx := context.Background()

	_, err := content.TopRated(ctx, "movies")
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.EqualValues(t, 1, hits.Load())

	hits.Store(0)
	_, err = content.Trending(ctx)
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.EqualValues(t, 3, hits.Load())
}

func TestContent_CommentsAndBookmarks(t *testing.T) {
	var deleted atomic.Value
	r := chi.NewRouter()
	r.Get("/posts/{id}/comments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "text": "hi", "postId": 3}})
	})
	r.Delete("/posts/{id}/comments/{cid}", func(w http.ResponseWriter, r *http.Request) {
		deleted.Store(chi.URLParam(r, "id") + "/" + chi.URLParam(r, "cid"))
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/posts/bookmarked", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"posts": []any{}, "total": 0, "page": 1, "limit": 10})
	})
	content := NewContent(newService(t, r), nil)
	ctx := context.Background()

	comments, err := content.Comments(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 1, comments.Total)
	assert.Equal(t, "hi", comments.Comments[0].Text)

	require.NoError(t, content.DeleteComment(ctx, "3", "1"))
	assert.Equal(t, "3/1", deleted.Load())

	b, err := content.Bookmarked(ctx, models.PostsQuery{})
	require.NoError(t, err)
	assert.Equal(t, 10, b.Limit)
}
