package schoolsvc

import (
	"context"
	"net/url"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

type AuthClient struct {
	c *Client
}

var _ session.Authenticator = (*AuthClient)(nil)

// Login exchanges credentials for a bearer token. The backend reads an OAuth2 password form.
func (a *AuthClient) Login(ctx context.Context, creds user.Credentials) (user.Token, error) {
	form := make(url.Values)
	form.Set("username", creds.Email)
	form.Set("password", creds.Password)

	var tok user.Token
	err := a.c.call(ctx, request{method: rest.Post, path: "/auth/login", form: form}, &tok)
	return tok, err
}

type changePasswordBody struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword changes the current user's password. The confirmation is checked client side only.
func (a *AuthClient) ChangePassword(ctx context.Context, pc user.PasswordChange) error {
	body := changePasswordBody{CurrentPassword: pc.CurrentPassword, NewPassword: pc.NewPassword}
	return a.c.call(ctx, request{method: rest.Post, path: "/auth/change-password", body: body}, nil)
}
