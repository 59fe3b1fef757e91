package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/varta/internal/client/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account fields and creates the account. The
// session controller logs in with the same credentials afterwards.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	phone := GetOptionalText(a.reader, "Enter phone number", a.out)
	bio := GetOptionalText(a.reader, "Enter bio", a.out)

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	_, err = a.session.Register(ctx, models.RegisterRequest{
		Email:       email,
		Password:    string(password),
		Name:        name,
		Role:        models.DefaultRole,
		PhoneNumber: phone,
		Bio:         bio,
	})
	return err
}

// Login prompts for credentials and authenticates. Failures are reported by
// the session notices.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer wipe(password)

	_, err = a.session.Login(ctx, models.LoginRequest{Email: email, Password: string(password)})
	return err
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Logout(ctx)
	return nil
}

// Me prints the profile held by the session.
func (a *App) Me(ctx context.Context) error {
	s := a.session.Session()
	if s.User == nil {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	printProfile(a.out, s.User)
	return nil
}

// Refresh reloads the profile from the identity service.
func (a *App) Refresh(ctx context.Context) error {
	u, err := a.session.Refresh(ctx)
	if err != nil {
		return err
	}
	printProfile(a.out, u)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s := a.session.Session()
	_, hasToken := a.store.Token(ctx)
	fmt.Fprintf(a.out, "state: %s\n", s.State)
	fmt.Fprintf(a.out, "token stored: %t\n", hasToken)
	fmt.Fprintf(a.out, "identity: %s\n", a.services.Identity.BaseURL())
	fmt.Fprintf(a.out, "content: %s\n", a.services.Content.BaseURL())
	fmt.Fprintf(a.out, "store: %s\n", a.config.StoreBackend)
	return nil
}
