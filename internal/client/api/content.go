package api

import (
	"context"

	"github.com/dmitrijs2005/varta/internal/client/client"
	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/logging"
)

// Default pagination reported when the query leaves it unset.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Content is the content service API.
type Content struct {
	svc *client.Service
	log logging.Logger
}

func NewContent(svc *client.Service, log logging.Logger) *Content {
	if log == nil {
		log = logging.Nop()
	}
	return &Content{svc: svc, log: log.With("api", "content")}
}

func postPath(id string, rest ...string) string {
	p := "/posts/" + id
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

func withPaging(req client.Request, q models.PostsQuery) client.Request {
	return req.
		With("category", q.Category).
		With("sort", q.Sort).
		WithInt("page", q.Page).
		WithInt("limit", q.Limit)
}

func (c *Content) CreatePost(ctx context.Context, req models.CreatePostRequest) (*models.Post, error) {
	c.log.Info(ctx, "creating post", "title", req.Title, "category", req.Category)
	return client.Call[*models.Post](ctx, c.svc, client.Post("/posts", req), false)
}

// Posts lists posts. The service returns a bare array; it is wrapped into
// the pagination envelope here.
func (c *Content) Posts(ctx context.Context, q models.PostsQuery) (models.PostsResponse, error) {
	posts, err := client.Call[[]models.Post](ctx, c.svc, withPaging(client.Get("/posts"), q), true)
	if err != nil {
		return models.PostsResponse{}, err
	}

	resp := models.PostsResponse{Posts: posts, Total: len(posts), Page: q.Page, Limit: q.Limit}
	if resp.Page == 0 {
		resp.Page = DefaultPage
	}
	if resp.Limit == 0 {
		resp.Limit = DefaultLimit
	}
	return resp, nil
}

func (c *Content) Post(ctx context.Context, id string) (*models.Post, error) {
	return client.Call[*models.Post](ctx, c.svc, client.Get(postPath(id)), true)
}

func (c *Content) UpdatePost(ctx context.Context, id string, req models.UpdatePostRequest) (*models.Post, error) {
	c.log.Info(ctx, "updating post", "id", id)
	return client.Call[*models.Post](ctx, c.svc, client.Put(postPath(id), req), true)
}

func (c *Content) DeletePost(ctx context.Context, id string) error {
	c.log.Info(ctx, "deleting post", "id", id)
	_, err := client.Call[struct{}](ctx, c.svc, client.Delete(postPath(id)), true)
	return err
}

func (c *Content) Trending(ctx context.Context) ([]models.Post, error) {
	return client.Call[[]models.Post](ctx, c.svc, client.Get("/posts/trending"), true)
}

func (c *Content) Popular(ctx context.Context) ([]models.Post, error) {
	return client.Call[[]models.Post](ctx, c.svc, client.Get("/posts/popular"), true)
}

func (c *Content) Recent(ctx context.Context) ([]models.Post, error) {
	return client.Call[[]models.Post](ctx, c.svc, client.Get("/posts/recent"), true)
}

// TopRated is a read that is still sent only once.
func (c *Content) TopRated(ctx context.Context, category string) ([]models.Post, error) {
	req := client.Get("/posts/top-rated").With("category", category)
	return client.Call[[]models.Post](ctx, c.svc, req, false)
}

func (c *Content) ByCategory(ctx context.Context, category string, q models.PostsQuery) (models.PostsResponse, error) {
	q.Category = ""
	req := withPaging(client.Get("/posts/category/"+category), q)
	return client.Call[models.PostsResponse](ctx, c.svc, req, true)
}

func (c *Content) Search(ctx context.Context, q models.SearchQuery) (models.PostsResponse, error) {
	req := client.Get("/posts/search").
		With("query", q.Query).
		With("category", q.Category).
		WithInt("page", q.Page).
		WithInt("limit", q.Limit)
	return client.Call[models.PostsResponse](ctx, c.svc, req, true)
}

// ToggleLike reports the post as liked; the service returns no like data.
func (c *Content) ToggleLike(ctx context.Context, id string) (models.LikeResponse, error) {
	if _, err := client.Call[struct{}](ctx, c.svc, client.Post(postPath(id, "like"), nil), false); err != nil {
		return models.LikeResponse{}, err
	}
	return models.LikeResponse{IsLiked: true}, nil
}

// Likes wraps the bare count returned by the service.
func (c *Content) Likes(ctx context.Context, id string) (models.LikesResponse, error) {
	n, err := client.Call[int](ctx, c.svc, client.Get(postPath(id, "likes")), true)
	if err != nil {
		return models.LikesResponse{}, err
	}
	return models.LikesResponse{Likes: []models.UserProfile{}, Count: n}, nil
}

// RatePost echoes the submitted value back as both the average and the
// caller's rating.
func (c *Content) RatePost(ctx context.Context, id string, req models.RatePostRequest) (models.RatingResponse, error) {
	if _, err := client.Call[struct{}](ctx, c.svc, client.Post(postPath(id, "rate"), req), false); err != nil {
		return models.RatingResponse{}, err
	}
	v := float64(req.RatingValue)
	return models.RatingResponse{AverageRating: v, UserRating: v, TotalRatings: 1}, nil
}

func (c *Content) Rating(ctx context.Context, id string) (models.RatingResponse, error) {
	return client.Call[models.RatingResponse](ctx, c.svc, client.Get(postPath(id, "rating")), true)
}

// AverageRating reads the same endpoint as Rating as a bare number.
func (c *Content) AverageRating(ctx context.Context, id string) (float64, error) {
	return client.Call[float64](ctx, c.svc, client.Get(postPath(id, "rating")), true)
}

func (c *Content) UserRating(ctx context.Context, id string) (float64, error) {
	return client.Call[float64](ctx, c.svc, client.Get(postPath(id, "rating", "user")), true)
}

func (c *Content) Bookmark(ctx context.Context, id string) error {
	_, err := client.Call[struct{}](ctx, c.svc, client.Post(postPath(id, "bookmark"), nil), false)
	return err
}

func (c *Content) Unbookmark(ctx context.Context, id string) error {
	_, err := client.Call[struct{}](ctx, c.svc, client.Delete(postPath(id, "bookmark")), true)
	return err
}

func (c *Content) Bookmarked(ctx context.Context, q models.PostsQuery) (models.PostsResponse, error) {
	return client.Call[models.PostsResponse](ctx, c.svc, withPaging(client.Get("/posts/bookmarked"), q), true)
}

func (c *Content) Comments(ctx context.Context, postID string) (models.CommentsResponse, error) {
	list, err := client.Call[[]models.Comment](ctx, c.svc, client.Get(postPath(postID, "comments")), true)
	if err != nil {
		return models.CommentsResponse{}, err
	}
	return models.CommentsResponse{Comments: list, Total: len(list)}, nil
}

func (c *Content) AddComment(ctx context.Context, postID string, req models.CreateCommentRequest) (*models.Comment, error) {
	return client.Call[*models.Comment](ctx, c.svc, client.Post(postPath(postID, "comment"), req), false)
}

func (c *Content) UpdateComment(ctx context.Context, postID, commentID string, req models.CreateCommentRequest) (*models.Comment, error) {
	return client.Call[*models.Comment](ctx, c.svc, client.Put(postPath(postID, "comments", commentID), req), true)
}

func (c *Content) DeleteComment(ctx context.Context, postID, commentID string) error {
	_, err := client.Call[struct{}](ctx, c.svc, client.Delete(postPath(postID, "comments", commentID)), true)
	return err
}

func (c *Content) UserPosts(ctx context.Context, userID string, q models.PostsQuery) (models.PostsResponse, error) {
	req := withPaging(client.Get("/users/"+userID+"/posts"), q)
	return client.Call[models.PostsResponse](ctx, c.svc, req, true)
}

func (c *Content) MyPosts(ctx context.Context, q models.PostsQuery) (models.PostsResponse, error) {
	return client.Call[models.PostsResponse](ctx, c.svc, withPaging(client.Get("/posts/my"), q), true)
}
