package user

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
)

// Role is one of a closed set. There is no hierarchy between roles.
type Role string

// Roles
const (
	RoleAdmin   Role = "ADMIN"
	RoleTeacher Role = "TEACHER"
	RoleStudent Role = "STUDENT"
)

var (
	AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

	ErrInvalidRole = errors.New("invalid role")
)

// ParseRole is case-insensitive: the backend speaks "admin", the portal "ADMIN".
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(core.CleanString(s)))
	if !r.Valid() {
		return "", errors.Wrapf(ErrInvalidRole, "%q", s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string { return string(r) }

// MarshalJSON writes the backend's lower-case enum value.
func (r Role) MarshalJSON() ([]byte, error) {
	return []byte(`"` + strings.ToLower(string(r)) + `"`), nil
}

func (r *Role) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*r = ""
		return nil
	}
	role, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// User is the backend's user summary, as returned by login and `/users/me`.
type User struct {
	ID        core.ID `json:"id"`
	Email     string  `json:"email"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Role      Role    `json:"role"`
	IsActive  bool    `json:"is_active"`
}

func (u User) FullName() string {
	return core.FullName(u.FirstName, u.LastName)
}

// HasAnyRole reports whether u's role is one of roles.
func (u User) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }

// Credentials are what the login form collects. Email is sent as the form's `username`.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(v *core.Validator) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return v.Struct(c)
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,pwdminlen"`
	FirstName string `json:"first_name" validate:"notblank"`
	LastName  string `json:"last_name" validate:"notblank"`
	Role      Role   `json:"role" validate:"role"`
	IsActive  bool   `json:"is_active"`
}

func (nu *NewUser) Validate(v *core.Validator) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	return v.Struct(nu)
}

// PasswordChange is the profile screen's form. ConfirmPassword never leaves the client.
type PasswordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

func (pc PasswordChange) Validate(v *core.Validator) error { return v.Struct(pc) }

// Token is the login response: a bearer token and the user it was issued to.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}
