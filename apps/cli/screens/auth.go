package screens

import (
	"context"

	"github.com/trezcool/academia/core/access"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

type Login struct {
	Banner
	env *Env
}

func NewLogin(env *Env) *Login {
	return &Login{env: env}
}

// Submit starts a session and returns where to go next: the return path carried by location, or "/".
func (l *Login) Submit(ctx context.Context, creds user.Credentials, location string) (session.Session, string, error) {
	l.clear()
	sess, err := l.env.Session.Start(ctx, creds)
	if err != nil {
		return session.Session{}, "", l.fail("Login", err)
	}
	return sess, access.ReturnPath(location), nil
}

func (l *Login) Logout(ctx context.Context) error {
	l.clear()
	if err := l.env.Session.End(ctx); err != nil {
		return l.fail("Logout", err)
	}
	return nil
}

// Register lets an admin create a user account of any role.
type Register struct {
	Banner
	env *Env

	User user.User
}

func NewRegister(env *Env) *Register {
	return &Register{env: env}
}

func (r *Register) Submit(ctx context.Context, nu user.NewUser) (user.User, error) {
	r.clear()
	if err := nu.Validate(r.env.Validator); err != nil {
		return user.User{}, r.fail("Register user", err)
	}
	usr, err := r.env.API.Users.Register(ctx, nu)
	if err != nil {
		return user.User{}, r.fail("Register user", err)
	}
	r.User = usr
	return usr, nil
}
