package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/varta/internal/client/models"
)

// Posts lists posts: posts [category] [page].
func (a *App) Posts(ctx context.Context, args []string) error {
	var q models.PostsQuery
	if len(args) > 0 {
		q.Category = args[0]
	}
	if len(args) > 1 {
		page, err := strconv.Atoi(args[1])
		if err != nil || page < 1 {
			fmt.Fprintln(a.out, "Usage: posts [category] [page]")
			return nil
		}
		q.Page = page
	}

	resp, err := a.content.Posts(ctx, q)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if len(resp.Posts) == 0 {
		fmt.Fprintln(a.out, "No posts")
		return nil
	}
	for _, p := range resp.Posts {
		fmt.Fprintf(a.out, "%-6s %-12s %s\n", p.ID, p.Category, p.Title)
	}
	fmt.Fprintf(a.out, "page %d, %d shown\n", resp.Page, resp.Total)
	return nil
}

// Post shows a single post: post <id>.
func (a *App) Post(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: post <id>")
		return nil
	}

	p, err := a.content.Post(ctx, args[0])
	if err != nil {
		fmt.Fprintln(a.out, "Error:", err)
		return err
	}
	if p == nil {
		fmt.Fprintln(a.out, "Not found")
		return nil
	}

	fmt.Fprintf(a.out, "%s [%s]\n", p.Title, p.Category)
	fmt.Fprintln(a.out, p.Content)
	fmt.Fprintf(a.out, "likes: %d  comments: %d  rating: %.1f\n", p.LikesCount, p.CommentsCount, p.AverageRating)
	return nil
}

func printProfile(w io.Writer, u *models.UserProfile) {
	fmt.Fprintf(w, "id: %s\nname: %s\nemail: %s\nrole: %s\n", u.ID, u.Name, u.Email, u.Role)
	if u.PhoneNumber != "" {
		fmt.Fprintf(w, "phone: %s\n", u.PhoneNumber)
	}
	if u.Bio != "" {
		fmt.Fprintf(w, "bio: %s\n", u.Bio)
	}
}
