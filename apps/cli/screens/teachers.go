package screens

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/teacher"
	schoolsvc "github.com/trezcool/academia/services/school"
)

type TeacherList struct {
	Banner
	env *Env

	Teachers []teacher.Teacher
}

func NewTeacherList(env *Env) *TeacherList {
	return &TeacherList{env: env}
}

func (t *TeacherList) Load(ctx context.Context) error {
	t.clear()
	teachers, err := t.env.API.Teachers.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return t.fail("Load teachers", err)
	}
	t.Teachers = teachers
	return nil
}

func (t *TeacherList) Delete(ctx context.Context, id core.ID) error {
	t.clear()
	if err := t.env.API.Teachers.Delete(ctx, id); err != nil {
		return t.fail("Delete teacher", err)
	}
	t.Teachers = teacher.Without(t.Teachers, id)
	return nil
}

// TeacherDetail shows a teacher and the courses they teach.
type TeacherDetail struct {
	Banner
	env *Env

	Teacher teacher.Teacher
	Courses []course.Course
}

func NewTeacherDetail(env *Env) *TeacherDetail {
	return &TeacherDetail{env: env}
}

func (t *TeacherDetail) Load(ctx context.Context, id core.ID) error {
	t.clear()
	tchr, err := t.env.API.Teachers.Get(ctx, id)
	if err != nil {
		return t.fail("Load teacher", err)
	}
	courses, err := t.env.API.Courses.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return t.fail("Load teacher", err)
	}
	t.Teacher, t.Courses = tchr, course.TaughtBy(courses, id)
	return nil
}

type TeacherForm struct {
	Banner
	env *Env

	Teacher teacher.Teacher
}

func NewTeacherForm(env *Env) *TeacherForm {
	return &TeacherForm{env: env}
}

func (f *TeacherForm) Load(ctx context.Context, id core.ID) error {
	f.clear()
	tchr, err := f.env.API.Teachers.Get(ctx, id)
	if err != nil {
		return f.fail("Load teacher", err)
	}
	f.Teacher = tchr
	return nil
}

func (f *TeacherForm) Create(ctx context.Context, nt teacher.NewTeacher) (teacher.Teacher, error) {
	f.clear()
	if err := nt.Validate(f.env.Validator); err != nil {
		return teacher.Teacher{}, f.fail("Save teacher", err)
	}
	tchr, err := f.env.API.Teachers.Create(ctx, nt)
	if err != nil {
		return teacher.Teacher{}, f.fail("Save teacher", err)
	}
	f.Teacher = tchr
	return tchr, nil
}

func (f *TeacherForm) Update(ctx context.Context, id core.ID, ut teacher.UpdateTeacher) (teacher.Teacher, error) {
	f.clear()
	if err := ut.Validate(f.env.Validator); err != nil {
		return teacher.Teacher{}, f.fail("Save teacher", err)
	}
	if ut.IsEmpty() {
		return teacher.Teacher{}, f.fail("Save teacher", core.NewValidationError(ErrNoChanges))
	}
	tchr, err := f.env.API.Teachers.Update(ctx, id, ut)
	if err != nil {
		return teacher.Teacher{}, f.fail("Save teacher", err)
	}
	f.Teacher = tchr
	return tchr, nil
}
