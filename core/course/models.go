package course

import (
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

// TeacherRef is the teacher summary embedded in a Course.
type TeacherRef struct {
	ID     core.ID    `json:"id"`
	UserID core.ID    `json:"user_id"`
	User   *user.User `json:"user,omitempty"`
}

type Course struct {
	ID          core.ID     `json:"id"`
	Name        string      `json:"name"`
	Code        string      `json:"code"`
	Description string      `json:"description"`
	Credits     int         `json:"credits"`
	TeacherID   *core.ID    `json:"teacher_id,omitempty"`
	Teacher     *TeacherRef `json:"teacher,omitempty"`
}

// TeacherName is "-" when the course has no (expanded) teacher.
func (c Course) TeacherName() string {
	if c.Teacher == nil || c.Teacher.User == nil {
		return "-"
	}
	return c.Teacher.User.FullName()
}

type NewCourse struct {
	Name        string   `json:"name" validate:"notblank"`
	Code        string   `json:"code" validate:"notblank"`
	Description string   `json:"description"`
	Credits     int      `json:"credits" validate:"gte=1"`
	TeacherID   *core.ID `json:"teacher_id,omitempty"`
}

func (nc *NewCourse) Validate(v *core.Validator) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Description = core.CleanString(nc.Description)
	return v.Struct(nc)
}

// UpdateCourse defines what may be changed on an existing Course. nil fields are left untouched.
type UpdateCourse struct {
	Name        *string  `json:"name,omitempty"`
	Code        *string  `json:"code,omitempty"`
	Description *string  `json:"description,omitempty"`
	Credits     *int     `json:"credits,omitempty" validate:"omitempty,gte=1"`
	TeacherID   *core.ID `json:"teacher_id,omitempty"`
}

func (uc *UpdateCourse) Validate(v *core.Validator) error { return v.Struct(uc) }

func (uc UpdateCourse) IsEmpty() bool {
	return uc.Name == nil && uc.Code == nil && uc.Description == nil && uc.Credits == nil && uc.TeacherID == nil
}

// Without returns a copy of courses without the one with the given id.
func Without(courses []Course, id core.ID) []Course {
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// TaughtBy returns the courses assigned to the given teacher.
func TaughtBy(courses []Course, teacherID core.ID) []Course {
	out := make([]Course, 0)
	for _, c := range courses {
		if c.TeacherID != nil && *c.TeacherID == teacherID {
			out = append(out, c)
		}
	}
	return out
}
