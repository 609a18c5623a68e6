package screens

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
	schoolsvc "github.com/trezcool/academia/services/school"
)

type CourseList struct {
	Banner
	env *Env

	Courses []course.Course
}

func NewCourseList(env *Env) *CourseList {
	return &CourseList{env: env}
}

func (c *CourseList) Load(ctx context.Context) error {
	c.clear()
	courses, err := c.env.API.Courses.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return c.fail("Load courses", err)
	}
	c.Courses = courses
	return nil
}

func (c *CourseList) Delete(ctx context.Context, id core.ID) error {
	c.clear()
	if err := c.env.API.Courses.Delete(ctx, id); err != nil {
		return c.fail("Delete course", err)
	}
	c.Courses = course.Without(c.Courses, id)
	return nil
}

type CourseDetail struct {
	Banner
	env *Env

	Course course.Course
}

func NewCourseDetail(env *Env) *CourseDetail {
	return &CourseDetail{env: env}
}

func (c *CourseDetail) Load(ctx context.Context, id core.ID) error {
	c.clear()
	crs, err := c.env.API.Courses.Get(ctx, id)
	if err != nil {
		return c.fail("Load course", err)
	}
	c.Course = crs
	return nil
}

// CourseRoster lists the students enrolled in a course.
type CourseRoster struct {
	Banner
	env *Env

	Course   course.Course
	Students []student.Student
}

func NewCourseRoster(env *Env) *CourseRoster {
	return &CourseRoster{env: env}
}

func (c *CourseRoster) Load(ctx context.Context, id core.ID) error {
	c.clear()
	crs, err := c.env.API.Courses.Get(ctx, id)
	if err != nil {
		return c.fail("Load enrolled students", err)
	}
	students, err := c.env.API.Courses.Roster(ctx, id)
	if err != nil {
		return c.fail("Load enrolled students", err)
	}
	c.Course, c.Students = crs, students
	return nil
}

// CourseForm creates or edits a course. Teachers lists who the course may be assigned to.
type CourseForm struct {
	Banner
	env *Env

	Course   course.Course
	Teachers []teacher.Teacher
}

func NewCourseForm(env *Env) *CourseForm {
	return &CourseForm{env: env}
}

// LoadTeachers fills the teacher choices. Only admins may list teachers.
func (f *CourseForm) LoadTeachers(ctx context.Context) error {
	f.clear()
	teachers, err := f.env.API.Teachers.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return f.fail("Load teachers", err)
	}
	f.Teachers = teachers
	return nil
}

func (f *CourseForm) Load(ctx context.Context, id core.ID) error {
	f.clear()
	crs, err := f.env.API.Courses.Get(ctx, id)
	if err != nil {
		return f.fail("Load course", err)
	}
	f.Course = crs
	return nil
}

func (f *CourseForm) Create(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	f.clear()
	if err := nc.Validate(f.env.Validator); err != nil {
		return course.Course{}, f.fail("Save course", err)
	}
	crs, err := f.env.API.Courses.Create(ctx, nc)
	if err != nil {
		return course.Course{}, f.fail("Save course", err)
	}
	f.Course = crs
	return crs, nil
}

func (f *CourseForm) Update(ctx context.Context, id core.ID, uc course.UpdateCourse) (course.Course, error) {
	f.clear()
	if err := uc.Validate(f.env.Validator); err != nil {
		return course.Course{}, f.fail("Save course", err)
	}
	if uc.IsEmpty() {
		return course.Course{}, f.fail("Save course", core.NewValidationError(ErrNoChanges))
	}
	crs, err := f.env.API.Courses.Update(ctx, id, uc)
	if err != nil {
		return course.Course{}, f.fail("Save course", err)
	}
	f.Course = crs
	return crs, nil
}
