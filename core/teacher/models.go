package teacher

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

type Teacher struct {
	ID            core.ID    `json:"id"`
	UserID        core.ID    `json:"user_id"`
	HireDate      core.Date  `json:"hire_date"`
	Qualification string     `json:"qualification"`
	Department    string     `json:"department"`
	User          *user.User `json:"user,omitempty"`
}

func (t Teacher) Name() string {
	if t.User == nil {
		return ""
	}
	return t.User.FullName()
}

// NewTeacher contains information needed to create a Teacher along with its user account.
type NewTeacher struct {
	Email         string    `json:"email" validate:"required,email"`
	Password      string    `json:"password" validate:"required"`
	FirstName     string    `json:"first_name" validate:"notblank"`
	LastName      string    `json:"last_name" validate:"notblank"`
	HireDate      core.Date `json:"hire_date"`
	Qualification string    `json:"qualification" validate:"notblank"`
	Department    string    `json:"department"`
}

func (nt *NewTeacher) Validate(v *core.Validator) error {
	nt.Email = core.CleanString(nt.Email, true /* lower */)
	nt.FirstName = core.CleanString(nt.FirstName)
	nt.LastName = core.CleanString(nt.LastName)
	nt.Qualification = core.CleanString(nt.Qualification)
	nt.Department = core.CleanString(nt.Department)
	if nt.HireDate.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "hire_date", Error: "this field is required"})
	}
	return v.Struct(nt)
}

// UpdateTeacher defines what may be changed on an existing Teacher. nil fields are left untouched.
type UpdateTeacher struct {
	Email         *string    `json:"email,omitempty" validate:"omitempty,email"`
	Password      *string    `json:"password,omitempty"`
	FirstName     *string    `json:"first_name,omitempty"`
	LastName      *string    `json:"last_name,omitempty"`
	HireDate      *core.Date `json:"hire_date,omitempty"`
	Qualification *string    `json:"qualification,omitempty"`
	Department    *string    `json:"department,omitempty"`
}

func (ut *UpdateTeacher) Validate(v *core.Validator) error {
	if ut.Password != nil && *ut.Password == "" {
		ut.Password = nil
	}
	if ut.Email != nil {
		ut.Email = core.StrPtr(core.CleanString(*ut.Email, true /* lower */))
	}
	return v.Struct(ut)
}

func (ut UpdateTeacher) IsEmpty() bool {
	return ut.Email == nil && ut.Password == nil && ut.FirstName == nil && ut.LastName == nil &&
		ut.HireDate == nil && ut.Qualification == nil && ut.Department == nil
}

// Without returns a copy of teachers without the one with the given id.
func Without(teachers []Teacher, id core.ID) []Teacher {
	out := make([]Teacher, 0, len(teachers))
	for _, t := range teachers {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}
