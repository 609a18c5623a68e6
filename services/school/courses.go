package schoolsvc

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/student"
)

type CourseClient struct {
	c *Client
}

// List returns the courses visible to the current user; the backend narrows it down for teachers.
func (cc *CourseClient) List(ctx context.Context, opts ListOptions) ([]course.Course, error) {
	courses := make([]course.Course, 0)
	err := cc.c.call(ctx, request{method: rest.Get, path: "/courses/", query: opts.query()}, &courses)
	return courses, err
}

func (cc *CourseClient) Get(ctx context.Context, id core.ID) (course.Course, error) {
	var crs course.Course
	err := cc.c.call(ctx, request{method: rest.Get, path: idPath("courses", id)}, &crs)
	return crs, err
}

func (cc *CourseClient) Create(ctx context.Context, nc course.NewCourse) (course.Course, error) {
	var crs course.Course
	err := cc.c.call(ctx, request{method: rest.Post, path: "/courses/", body: nc}, &crs)
	return crs, err
}

func (cc *CourseClient) Update(ctx context.Context, id core.ID, uc course.UpdateCourse) (course.Course, error) {
	var crs course.Course
	err := cc.c.call(ctx, request{method: rest.Put, path: idPath("courses", id), body: uc}, &crs)
	return crs, err
}

func (cc *CourseClient) Delete(ctx context.Context, id core.ID) error {
	return cc.c.call(ctx, request{method: rest.Delete, path: idPath("courses", id)}, nil)
}

// Roster lists the students enrolled in a course.
func (cc *CourseClient) Roster(ctx context.Context, id core.ID) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := cc.c.call(ctx, request{method: rest.Get, path: idPath("courses", id, "students")}, &students)
	return students, err
}
