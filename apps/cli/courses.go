package main

import (
	"context"
	"flag"

	"github.com/trezcool/academia/apps/cli/screens"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/access"
	"github.com/trezcool/academia/core/course"
)

type courseFlags struct {
	fs          *flag.FlagSet
	name        *string
	code        *string
	description *string
	credits     *int
	teacher     *string
}

func newCourseFlags(fs *flag.FlagSet) *courseFlags {
	return &courseFlags{
		fs:          fs,
		name:        fs.String("name", "", "Course name."),
		code:        fs.String("code", "", "Unique course code, eg. MATH101."),
		description: fs.String("description", "", "Description."),
		credits:     fs.Int("credits", 0, "Credit hours."),
		teacher:     fs.String("teacher", "", "ID of the teacher assigned to the course."),
	}
}

func (f *courseFlags) teacherID() (*core.ID, error) {
	if *f.teacher == "" {
		return nil, nil
	}
	id, err := core.ParseID(*f.teacher)
	if err != nil {
		return nil, core.NewValidationError(nil, core.FieldError{Field: "teacher_id", Error: err.Error()})
	}
	return &id, nil
}

func (f *courseFlags) newCourse() (course.NewCourse, error) {
	teacherID, err := f.teacherID()
	if err != nil {
		return course.NewCourse{}, err
	}
	return course.NewCourse{
		Name:        *f.name,
		Code:        *f.code,
		Description: *f.description,
		Credits:     *f.credits,
		TeacherID:   teacherID,
	}, nil
}

func (f *courseFlags) update() (course.UpdateCourse, error) {
	var uc course.UpdateCourse
	set := setFlags(f.fs)
	if set["name"] {
		uc.Name = f.name
	}
	if set["code"] {
		uc.Code = f.code
	}
	if set["description"] {
		uc.Description = f.description
	}
	if set["credits"] {
		uc.Credits = f.credits
	}
	if set["teacher"] {
		teacherID, err := f.teacherID()
		if err != nil {
			return uc, err
		}
		uc.TeacherID = teacherID
	}
	return uc, nil
}

func (cli *commandLine) coursesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	sub, args := args[0], args[1:]
	fs := cli.flagSet("courses " + sub)

	switch sub {
	case "list":
		return cli.visit(ctx, access.Path("courses.list"), nil)

	case "show", "roster":
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("courses."+sub, id), nil)

	case "delete":
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("courses.delete", id), func(ctx context.Context, _ access.Params) error {
			if ok, err := cli.confirmDelete(*yes, "course", id); !ok || err != nil {
				return err
			}
			if err := screens.NewCourseList(cli.env).Delete(ctx, id); err != nil {
				return err
			}
			cli.ui.success("Course deleted.")
			return nil
		})

	case "new":
		cf := newCourseFlags(fs)
		if err := fs.Parse(args); err != nil {
			return errHelp
		}
		return cli.visit(ctx, access.Path("courses.new"), func(ctx context.Context, _ access.Params) error {
			nc, err := cf.newCourse()
			if err != nil {
				return core.Failed("Save course", err)
			}
			crs, err := screens.NewCourseForm(cli.env).Create(ctx, nc)
			if err != nil {
				return err
			}
			cli.ui.success("Course created.")
			cli.ui.record(courseRecord(crs))
			return nil
		})

	case "edit":
		cf := newCourseFlags(fs)
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("courses.edit", id), func(ctx context.Context, _ access.Params) error {
			form := screens.NewCourseForm(cli.env)
			if err := form.Load(ctx, id); err != nil {
				return err
			}
			before := form.Course

			uc, err := cf.update()
			if err != nil {
				return core.Failed("Save course", err)
			}
			after, err := form.Update(ctx, id, uc)
			if err != nil {
				return err
			}
			cli.ui.success("Course updated.")
			cli.ui.diff(courseRecord(before), courseRecord(after))
			return nil
		})
	}

	cli.printUsage()
	return errHelp
}

func (cli *commandLine) courseList(ctx context.Context, _ access.Params) error {
	list := screens.NewCourseList(cli.env)
	if err := list.Load(ctx); err != nil {
		return err
	}
	cli.ui.title("Courses")
	cli.ui.courses(list.Courses)
	return nil
}

func (cli *commandLine) courseDetail(ctx context.Context, params access.Params) error {
	id, err := params.ID("id")
	if err != nil {
		return err
	}
	d := screens.NewCourseDetail(cli.env)
	if err := d.Load(ctx, id); err != nil {
		return err
	}
	cli.ui.title(d.Course.Name)
	cli.ui.record(courseRecord(d.Course))
	return nil
}

func (cli *commandLine) courseRoster(ctx context.Context, params access.Params) error {
	id, err := params.ID("id")
	if err != nil {
		return err
	}
	r := screens.NewCourseRoster(cli.env)
	if err := r.Load(ctx, id); err != nil {
		return err
	}
	cli.ui.title("Students enrolled in " + r.Course.Code)
	cli.ui.students(r.Students)
	return nil
}
