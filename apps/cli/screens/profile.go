package screens

import (
	"context"

	"github.com/trezcool/academia/core/user"
)

type Profile struct {
	Banner
	env *Env

	User user.User
}

func NewProfile(env *Env) *Profile {
	return &Profile{env: env}
}

// Load re-reads the current user from the backend and updates the session with it.
func (p *Profile) Load(ctx context.Context) error {
	p.clear()
	sess, err := p.env.Session.Refresh(ctx, p.env.API.Users)
	if err != nil {
		return p.fail("Load profile", err)
	}
	p.User = sess.User
	return nil
}

// ChangePassword checks the confirmation and the password policy before calling the backend.
func (p *Profile) ChangePassword(ctx context.Context, pc user.PasswordChange) error {
	p.clear()
	if err := pc.Validate(p.env.Validator); err != nil {
		return p.fail("Change password", err)
	}
	if err := p.env.API.Auth.ChangePassword(ctx, pc); err != nil {
		return p.fail("Change password", err)
	}
	p.env.log().Info("password changed", p.User)
	return nil
}
