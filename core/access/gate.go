// Package access decides what happens when the user navigates to a path.
package access

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
	HomePath         = "/"

	nextParam = "next"
)

type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeRender
	OutcomeRedirectLogin
	OutcomeRedirectUnauthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRender:
		return "render"
	case OutcomeRedirectLogin:
		return "redirect-login"
	case OutcomeRedirectUnauthorized:
		return "redirect-unauthorized"
	}
	return "unknown"
}

// Decision is the gate's verdict. Location is set for redirects only.
type Decision struct {
	Outcome  Outcome
	Location string
}

// Decide gates currentPath. Roles are flat: ADMIN does not imply TEACHER.
// An empty requiredRoles only requires a session.
func Decide(state session.State, sess *session.Session, requiredRoles []user.Role, currentPath string) Decision {
	if state == session.StateLoading {
		return Decision{Outcome: OutcomeLoading}
	}
	if sess == nil || state != session.StateAuthenticated {
		return Decision{Outcome: OutcomeRedirectLogin, Location: LoginLocation(currentPath)}
	}
	if len(requiredRoles) > 0 && !sess.HasAnyRole(requiredRoles...) {
		return Decision{Outcome: OutcomeRedirectUnauthorized, Location: UnauthorizedPath}
	}
	return Decision{Outcome: OutcomeRender}
}

// LoginLocation is the login path carrying currentPath as the return path.
func LoginLocation(currentPath string) string {
	if currentPath == "" {
		return LoginPath
	}
	q := make(url.Values)
	q.Set(nextParam, currentPath)
	return LoginPath + "?" + q.Encode()
}

// ReturnPath extracts the return path from a login location, "/" if there is none.
// Only local absolute paths are honoured.
func ReturnPath(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return HomePath
	}
	next := u.Query().Get(nextParam)
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return HomePath
	}
	return next
}

var ErrNoRoute = errors.New("no such page")

// Resolve matches path against Routes and gates it. Public routes always render.
// Unknown paths fall back to HomePath.
func Resolve(state session.State, sess *session.Session, path string) (Route, Params, Decision, error) {
	r, params, ok := Match(path)
	if !ok {
		path = HomePath
		if r, params, ok = Match(path); !ok {
			return Route{}, nil, Decision{}, errors.Wrapf(ErrNoRoute, "%s", path)
		}
	}
	if r.Public {
		return r, params, Decision{Outcome: OutcomeRender}, nil
	}
	return r, params, Decide(state, sess, r.Roles, path), nil
}
