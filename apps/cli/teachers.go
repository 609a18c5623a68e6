package main

import (
	"context"
	"flag"

	"github.com/trezcool/academia/apps/cli/screens"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/access"
	"github.com/trezcool/academia/core/teacher"
)

type teacherFlags struct {
	fs            *flag.FlagSet
	email         *string
	first         *string
	last          *string
	hired         *string
	qualification *string
	department    *string
}

func newTeacherFlags(fs *flag.FlagSet) *teacherFlags {
	return &teacherFlags{
		fs:            fs,
		email:         fs.String("email", "", "The teacher's email, used to log in."),
		first:         fs.String("first", "", "First name."),
		last:          fs.String("last", "", "Last name."),
		hired:         fs.String("hired", "", "Hire date, YYYY-MM-DD."),
		qualification: fs.String("qualification", "", "Highest qualification, eg. MSc."),
		department:    fs.String("department", "", "Department."),
	}
}

func (f *teacherFlags) newTeacher(pwd string) (teacher.NewTeacher, error) {
	hired, err := dateFlag("hire_date", *f.hired)
	if err != nil {
		return teacher.NewTeacher{}, err
	}
	return teacher.NewTeacher{
		Email:         *f.email,
		Password:      pwd,
		FirstName:     *f.first,
		LastName:      *f.last,
		HireDate:      hired,
		Qualification: *f.qualification,
		Department:    *f.department,
	}, nil
}

func (f *teacherFlags) update() (teacher.UpdateTeacher, error) {
	var ut teacher.UpdateTeacher
	set := setFlags(f.fs)
	if set["email"] {
		ut.Email = f.email
	}
	if set["first"] {
		ut.FirstName = f.first
	}
	if set["last"] {
		ut.LastName = f.last
	}
	if set["hired"] {
		hired, err := dateFlag("hire_date", *f.hired)
		if err != nil {
			return ut, err
		}
		ut.HireDate = &hired
	}
	if set["qualification"] {
		ut.Qualification = f.qualification
	}
	if set["department"] {
		ut.Department = f.department
	}
	return ut, nil
}

func (cli *commandLine) teachersCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	sub, args := args[0], args[1:]
	fs := cli.flagSet("teachers " + sub)

	switch sub {
	case "list":
		return cli.visit(ctx, access.Path("teachers.list"), nil)

	case "show":
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("teachers.show", id), nil)

	case "delete":
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("teachers.delete", id), func(ctx context.Context, _ access.Params) error {
			if ok, err := cli.confirmDelete(*yes, "teacher", id); !ok || err != nil {
				return err
			}
			if err := screens.NewTeacherList(cli.env).Delete(ctx, id); err != nil {
				return err
			}
			cli.ui.success("Teacher deleted.")
			return nil
		})

	case "new":
		tf := newTeacherFlags(fs)
		if err := fs.Parse(args); err != nil {
			return errHelp
		}
		return cli.visit(ctx, access.Path("teachers.new"), func(ctx context.Context, _ access.Params) error {
			pwd, err := cli.promptPassword("Password")
			if err != nil {
				return err
			}
			nt, err := tf.newTeacher(pwd)
			if err != nil {
				return core.Failed("Save teacher", err)
			}
			tchr, err := screens.NewTeacherForm(cli.env).Create(ctx, nt)
			if err != nil {
				return err
			}
			cli.ui.success("Teacher created.")
			cli.ui.record(teacherRecord(tchr))
			return nil
		})

	case "edit":
		tf := newTeacherFlags(fs)
		newPwd := fs.Bool("password", false, "Prompt for a new password.")
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("teachers.edit", id), func(ctx context.Context, _ access.Params) error {
			form := screens.NewTeacherForm(cli.env)
			if err := form.Load(ctx, id); err != nil {
				return err
			}
			before := form.Teacher

			ut, err := tf.update()
			if err != nil {
				return core.Failed("Save teacher", err)
			}
			if *newPwd {
				pwd, err := cli.promptPassword("New password")
				if err != nil {
					return err
				}
				ut.Password = &pwd
			}
			after, err := form.Update(ctx, id, ut)
			if err != nil {
				return err
			}
			cli.ui.success("Teacher updated.")
			cli.ui.diff(teacherRecord(before), teacherRecord(after))
			return nil
		})
	}

	cli.printUsage()
	return errHelp
}

func (cli *commandLine) teacherList(ctx context.Context, _ access.Params) error {
	list := screens.NewTeacherList(cli.env)
	if err := list.Load(ctx); err != nil {
		return err
	}
	cli.ui.title("Teachers")
	cli.ui.teachers(list.Teachers)
	return nil
}

func (cli *commandLine) teacherDetail(ctx context.Context, params access.Params) error {
	id, err := params.ID("id")
	if err != nil {
		return err
	}
	d := screens.NewTeacherDetail(cli.env)
	if err := d.Load(ctx, id); err != nil {
		return err
	}
	cli.ui.title(d.Teacher.Name())
	cli.ui.record(teacherRecord(d.Teacher))
	cli.ui.title("Courses")
	cli.ui.courses(d.Courses)
	return nil
}
