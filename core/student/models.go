package student

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

type Student struct {
	ID             core.ID    `json:"id"`
	UserID         core.ID    `json:"user_id"`
	EnrollmentDate core.Date  `json:"enrollment_date"`
	GradeLevel     int        `json:"grade_level"`
	ParentName     string     `json:"parent_name"`
	ParentEmail    string     `json:"parent_email"`
	User           *user.User `json:"user,omitempty"`
}

// Name is the embedded user's full name, if the backend sent it.
func (s Student) Name() string {
	if s.User == nil {
		return ""
	}
	return s.User.FullName()
}

// NewStudent contains information needed to create a Student along with its user account.
type NewStudent struct {
	Email          string    `json:"email" validate:"required,email"`
	Password       string    `json:"password" validate:"required"`
	FirstName      string    `json:"first_name" validate:"notblank"`
	LastName       string    `json:"last_name" validate:"notblank"`
	EnrollmentDate core.Date `json:"enrollment_date"`
	GradeLevel     int       `json:"grade_level" validate:"gte=1"`
	ParentName     string    `json:"parent_name"`
	ParentEmail    string    `json:"parent_email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate(v *core.Validator) error {
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.ParentName = core.CleanString(ns.ParentName)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)
	if ns.EnrollmentDate.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "enrollment_date", Error: "this field is required"})
	}
	return v.Struct(ns)
}

// UpdateStudent defines what may be changed on an existing Student. nil fields are left untouched;
// an empty password means "keep the current one" and is never sent.
type UpdateStudent struct {
	Email          *string    `json:"email,omitempty" validate:"omitempty,email"`
	Password       *string    `json:"password,omitempty"`
	FirstName      *string    `json:"first_name,omitempty" validate:"omitempty,notblank"`
	LastName       *string    `json:"last_name,omitempty" validate:"omitempty,notblank"`
	EnrollmentDate *core.Date `json:"enrollment_date,omitempty"`
	GradeLevel     *int       `json:"grade_level,omitempty" validate:"omitempty,gte=1"`
	ParentName     *string    `json:"parent_name,omitempty"`
	ParentEmail    *string    `json:"parent_email,omitempty" validate:"omitempty,email"`
}

func (us *UpdateStudent) Validate(v *core.Validator) error {
	if us.Password != nil && *us.Password == "" {
		us.Password = nil
	}
	if us.Email != nil {
		us.Email = core.StrPtr(core.CleanString(*us.Email, true /* lower */))
	}
	if us.ParentEmail != nil {
		us.ParentEmail = core.StrPtr(core.CleanString(*us.ParentEmail, true /* lower */))
	}
	return v.Struct(us)
}

func (us UpdateStudent) IsEmpty() bool {
	return us.Email == nil && us.Password == nil && us.FirstName == nil && us.LastName == nil &&
		us.EnrollmentDate == nil && us.GradeLevel == nil && us.ParentName == nil && us.ParentEmail == nil
}

// FindByUser returns the student profile of the given user account.
func FindByUser(students []Student, userID core.ID) (Student, bool) {
	for _, s := range students {
		if s.UserID == userID {
			return s, true
		}
	}
	return Student{}, false
}

// Without returns a copy of students without the one with the given id.
func Without(students []Student, id core.ID) []Student {
	out := make([]Student, 0, len(students))
	for _, s := range students {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}
