package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/varta/internal/client/client"
	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/dmitrijs2005/varta/internal/logging"
)

var ErrUserNotFound = errors.New("user not found or endpoint not available")

// Users is the identity service API.
type Users struct {
	svc *client.Service
	log logging.Logger
}

func NewUsers(svc *client.Service, log logging.Logger) *Users {
	if log == nil {
		log = logging.Nop()
	}
	return &Users{svc: svc, log: log.With("api", "users")}
}

// Register submits a new account. bio and phoneNumber are always present in
// the payload.
func (u *Users) Register(ctx context.Context, req models.RegisterRequest) (*models.UserProfile, error) {
	u.log.Info(ctx, "registering user", "email", req.Email)
	return client.Call[*models.UserProfile](ctx, u.svc, client.Post("/users/register", req), false)
}

func (u *Users) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	u.log.Info(ctx, "logging in user", "email", req.Email)
	return client.Call[models.LoginResponse](ctx, u.svc, client.Post("/users/login", req), false)
}

func (u *Users) Me(ctx context.Context) (*models.UserProfile, error) {
	u.log.Debug(ctx, "fetching current user profile")
	return client.Call[*models.UserProfile](ctx, u.svc, client.Get("/users/me"), true)
}

func (u *Users) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.UserProfile, error) {
	u.log.Info(ctx, "updating user profile")
	return client.Call[*models.UserProfile](ctx, u.svc, client.Put("/users/update", req), true)
}

func (u *Users) DeleteAccount(ctx context.Context) (*models.UserProfile, error) {
	u.log.Info(ctx, "deleting user account")
	return client.Call[*models.UserProfile](ctx, u.svc, client.Delete("/users/delete"), true)
}

// UserByID hides the failure cause behind ErrUserNotFound.
func (u *Users) UserByID(ctx context.Context, id string) (*models.UserProfile, error) {
	p, err := client.Call[*models.UserProfile](ctx, u.svc, client.Get("/users/"+id), true)
	if err != nil {
		u.log.Error(ctx, "get user by id failed", "id", id, "error", err)
		return nil, ErrUserNotFound
	}
	return p, nil
}

func (u *Users) Followers(ctx context.Context, userID string) (models.FollowersResponse, error) {
	list, err := client.Call[[]models.Follow](ctx, u.svc, client.Get("/users/followers/"+userID), true)
	if err != nil {
		return models.FollowersResponse{}, err
	}
	return models.FollowersResponse{Followers: list, Count: len(list)}, nil
}

func (u *Users) Following(ctx context.Context, userID string) (models.FollowingResponse, error) {
	list, err := client.Call[[]models.Follow](ctx, u.svc, client.Get("/users/following/"+userID), true)
	if err != nil {
		return models.FollowingResponse{}, err
	}
	return models.FollowingResponse{Following: list, Count: len(list)}, nil
}

func (u *Users) Follow(ctx context.Context, targetID string) error {
	u.log.Info(ctx, "following user", "target", targetID)
	_, err := client.Call[struct{}](ctx, u.svc, client.Post("/users/follow/"+targetID, nil), true)
	if err != nil {
		return fmt.Errorf("follow %s: %w", targetID, err)
	}
	return nil
}

func (u *Users) Unfollow(ctx context.Context, targetID string) error {
	u.log.Info(ctx, "unfollowing user", "target", targetID)
	_, err := client.Call[struct{}](ctx, u.svc, client.Post("/users/unfollow/"+targetID, nil), true)
	if err != nil {
		return fmt.Errorf("unfollow %s: %w", targetID, err)
	}
	return nil
}

// IsFollowing looks targetID up in the current user's following list.
// Any failure reads as false.
func (u *Users) IsFollowing(ctx context.Context, targetID string) bool {
	me, err := u.Me(ctx)
	if err != nil || me == nil {
		u.log.Warn(ctx, "follow status unavailable", "error", err)
		return false
	}
	following, err := u.Following(ctx, string(me.ID))
	if err != nil {
		u.log.Warn(ctx, "follow status unavailable", "error", err)
		return false
	}
	for _, f := range following.Following {
		if f.Refers(targetID) {
			return true
		}
	}
	return false
}

func (u *Users) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) (string, error) {
	u.log.Info(ctx, "requesting password reset", "email", req.Email)
	return client.Call[string](ctx, u.svc, client.Post("/forgot-password", req), false)
}

// ResetPassword sends both values as query parameters.
func (u *Users) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	u.log.Info(ctx, "resetting password", "email", email)
	req := client.Post("/reset-password", nil).With("email", email).With("newPassword", newPassword)
	return client.Call[string](ctx, u.svc, req, false)
}

func (u *Users) AllUsers(ctx context.Context) ([]models.UserProfile, error) {
	return client.Call[[]models.UserProfile](ctx, u.svc, client.Get("/getusers"), true)
}

func (u *Users) DeleteUserByID(ctx context.Context, id string) error {
	u.log.Info(ctx, "deleting user by id", "id", id)
	_, err := client.Call[struct{}](ctx, u.svc, client.Delete("/users/"+id), true)
	return err
}
