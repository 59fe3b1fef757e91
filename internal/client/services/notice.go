package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/varta/internal/client/client"
)

type NoticeKind int

const (
	NoticeInfo NoticeKind = iota
	NoticeSuccess
	NoticeError
)

func (k NoticeKind) String() string {
	switch k {
	case NoticeSuccess:
		return "success"
	case NoticeError:
		return "error"
	default:
		return "info"
	}
}

// Notice is a short user-facing message about a session change.
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

// Notice titles.
const (
	TitleSessionExpired = "Session Expired"
	TitleWelcomeBack    = "Welcome back!"
	TitleLoginFailed    = "Login Failed"
	TitleWelcome        = "Welcome to Varta!"
	TitleRegistered     = "Registration Successful!"
	TitleRegisterFailed = "Registration Failed"
	TitleLoggedOut      = "Logged Out"
)

// Notifier shows notices to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, Notice) {}

// UserMessage returns the server-provided explanation carried by err, or
// fallback when there is none.
func UserMessage(err error, fallback string) string {
	var e *client.Error
	if errors.As(err, &e) {
		if msg := e.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}
