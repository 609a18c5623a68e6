package schoolsvc

import (
	"context"

	"github.com/sendgrid/rest"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/teacher"
)

type TeacherClient struct {
	c *Client
}

func (t *TeacherClient) List(ctx context.Context, opts ListOptions) ([]teacher.Teacher, error) {
	teachers := make([]teacher.Teacher, 0)
	err := t.c.call(ctx, request{method: rest.Get, path: "/teachers/", query: opts.query()}, &teachers)
	return teachers, err
}

func (t *TeacherClient) Get(ctx context.Context, id core.ID) (teacher.Teacher, error) {
	var tchr teacher.Teacher
	err := t.c.call(ctx, request{method: rest.Get, path: idPath("teachers", id)}, &tchr)
	return tchr, err
}

func (t *TeacherClient) Create(ctx context.Context, nt teacher.NewTeacher) (teacher.Teacher, error) {
	var tchr teacher.Teacher
	err := t.c.call(ctx, request{method: rest.Post, path: "/teachers/", body: nt}, &tchr)
	return tchr, err
}

func (t *TeacherClient) Update(ctx context.Context, id core.ID, ut teacher.UpdateTeacher) (teacher.Teacher, error) {
	var tchr teacher.Teacher
	err := t.c.call(ctx, request{method: rest.Put, path: idPath("teachers", id), body: ut}, &tchr)
	return tchr, err
}

func (t *TeacherClient) Delete(ctx context.Context, id core.ID) error {
	return t.c.call(ctx, request{method: rest.Delete, path: idPath("teachers", id)}, nil)
}
