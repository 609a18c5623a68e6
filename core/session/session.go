// Package session owns the process wide identity: who is logged in and with which token.
package session

import (
	"context"

	"github.com/trezcool/academia/core/user"
)

// State is where the store is in its lifecycle.
type State int

const (
	// StateLoading holds until the persisted session has been read.
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}
	return "unknown"
}

// Session is the authenticated user and the bearer token issued to them.
type Session struct {
	user.User
	Token string `json:"-"`
}

// persisted storage keys; always written and cleared together
const (
	tokenKey = "token"
	userKey  = "user"
)

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds user.Credentials) (user.Token, error)
}

// Profiler returns the user the current token belongs to.
type Profiler interface {
	Me(ctx context.Context) (user.User, error)
}
