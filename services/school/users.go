package schoolsvc

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

type UserClient struct {
	c *Client
}

var _ session.Profiler = (*UserClient)(nil)

// Register creates a user account of any role.
func (u *UserClient) Register(ctx context.Context, nu user.NewUser) (user.User, error) {
	var usr user.User
	err := u.c.call(ctx, request{method: rest.Post, path: "/users/", body: nu}, &usr)
	return usr, err
}

// Me returns the user the current token was issued to.
func (u *UserClient) Me(ctx context.Context) (user.User, error) {
	var usr user.User
	err := u.c.call(ctx, request{method: rest.Get, path: "/users/me"}, &usr)
	return usr, err
}
