package models

import "encoding/json"

type Post struct {
	ID            ID           `json:"id"`
	Title         string       `json:"title"`
	Content       string       `json:"content"`
	Category      string       `json:"category"`
	AuthorID      ID           `json:"authorId"`
	Author        *UserProfile `json:"author,omitempty"`
	CreatedAt     string       `json:"createdAt,omitempty"`
	UpdatedAt     string       `json:"updatedAt,omitempty"`
	LikesCount    int          `json:"likesCount"`
	CommentsCount int          `json:"commentsCount"`
	AverageRating float64      `json:"averageRating"`
	IsLiked       bool         `json:"isLiked,omitempty"`
	UserRating    float64      `json:"userRating,omitempty"`
}

// UnmarshalJSON also accepts the content service's postId, userId and
// ratingAvg names. The canonical names win when both are present.
func (p *Post) UnmarshalJSON(b []byte) error {
	type plain Post
	var w struct {
		plain
		PostID    ID       `json:"postId"`
		UserID    ID       `json:"userId"`
		RatingAvg *float64 `json:"ratingAvg"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*p = Post(w.plain)
	if p.ID == "" {
		p.ID = w.PostID
	}
	if p.AuthorID == "" {
		p.AuthorID = w.UserID
	}
	if p.AverageRating == 0 && w.RatingAvg != nil {
		p.AverageRating = *w.RatingAvg
	}
	return nil
}

type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
}

type UpdatePostRequest struct {
	Title    string `json:"title,omitempty"`
	Content  string `json:"content,omitempty"`
	Category string `json:"category,omitempty"`
}

// PostsResponse is the paginated envelope of list endpoints.
type PostsResponse struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// PostsQuery filters list endpoints. Zero fields are omitted.
type PostsQuery struct {
	Category string
	Sort     string // newest, oldest, popular, trending
	Page     int
	Limit    int
}

type SearchQuery struct {
	Query    string
	Category string
	Page     int
	Limit    int
}

type Comment struct {
	ID        ID           `json:"id"`
	Text      string       `json:"text"`
	PostID    ID           `json:"postId"`
	AuthorID  ID           `json:"authorId"`
	Author    *UserProfile `json:"author,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
}

// UnmarshalJSON also accepts the content service's commentId and userId.
func (c *Comment) UnmarshalJSON(b []byte) error {
	type plain Comment
	var w struct {
		plain
		CommentID ID `json:"commentId"`
		UserID    ID `json:"userId"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*c = Comment(w.plain)
	if c.ID == "" {
		c.ID = w.CommentID
	}
	if c.AuthorID == "" {
		c.AuthorID = w.UserID
	}
	return nil
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type CommentsResponse struct {
	Comments []Comment `json:"comments"`
	Total    int       `json:"total"`
}

// RatePostRequest carries a 1-5 rating.
type RatePostRequest struct {
	RatingValue int `json:"ratingValue"`
}

type LikeResponse struct {
	IsLiked    bool `json:"isLiked"`
	LikesCount int  `json:"likesCount"`
}

type LikesResponse struct {
	Likes []UserProfile `json:"likes"`
	Count int           `json:"count"`
}

type RatingResponse struct {
	AverageRating float64 `json:"averageRating"`
	UserRating    float64 `json:"userRating,omitempty"`
	TotalRatings  int     `json:"totalRatings"`
}
