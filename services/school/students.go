package schoolsvc

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/student"
)

type StudentClient struct {
	c *Client
}

func (s *StudentClient) List(ctx context.Context, opts ListOptions) ([]student.Student, error) {
	students := make([]student.Student, 0)
	err := s.c.call(ctx, request{method: rest.Get, path: "/students/", query: opts.query()}, &students)
	return students, err
}

func (s *StudentClient) Get(ctx context.Context, id core.ID) (student.Student, error) {
	var stud student.Student
	err := s.c.call(ctx, request{method: rest.Get, path: idPath("students", id)}, &stud)
	return stud, err
}

func (s *StudentClient) Create(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	var stud student.Student
	err := s.c.call(ctx, request{method: rest.Post, path: "/students/", body: ns}, &stud)
	return stud, err
}

func (s *StudentClient) Update(ctx context.Context, id core.ID, us student.UpdateStudent) (student.Student, error) {
	var stud student.Student
	err := s.c.call(ctx, request{method: rest.Put, path: idPath("students", id), body: us}, &stud)
	return stud, err
}

func (s *StudentClient) Delete(ctx context.Context, id core.ID) error {
	return s.c.call(ctx, request{method: rest.Delete, path: idPath("students", id)}, nil)
}
