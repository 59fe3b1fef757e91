package credentials

import (
	"github.com/dmitrijs2005/varta/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
)

// Subject extracts the "sub" claim of a JWT without verifying it. Tokens are
// opaque to the client; this is only used to spot a principal that does not
// belong to the token.
func Subject(token string) (string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", false
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}

// Matches reports whether the token subject names u by id, email or name.
// Tokens without a readable subject always match.
func Matches(token string, u *models.UserProfile) bool {
	sub, ok := Subject(token)
	if !ok || u == nil {
		return true
	}
	return sub == string(u.ID) || sub == u.Email || sub == u.Name
}
