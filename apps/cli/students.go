package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/academia/apps/cli/screens"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/access"
	"github.com/trezcool/academia/core/student"
)

type studentFlags struct {
	fs          *flag.FlagSet
	email       *string
	first       *string
	last        *string
	enrolled    *string
	grade       *int
	parentName  *string
	parentEmail *string
}

func newStudentFlags(fs *flag.FlagSet) *studentFlags {
	return &studentFlags{
		fs:          fs,
		email:       fs.String("email", "", "The student's email, used to log in."),
		first:       fs.String("first", "", "First name."),
		last:        fs.String("last", "", "Last name."),
		enrolled:    fs.String("enrolled", "", "Enrollment date, YYYY-MM-DD."),
		grade:       fs.Int("grade", 0, "Grade level."),
		parentName:  fs.String("parent-name", "", "Parent or guardian name."),
		parentEmail: fs.String("parent-email", "", "Parent or guardian email."),
	}
}

func (f *studentFlags) newStudent(pwd string) (student.NewStudent, error) {
	enrolled, err := dateFlag("enrollment_date", *f.enrolled)
	if err != nil {
		return student.NewStudent{}, err
	}
	return student.NewStudent{
		Email:          *f.email,
		Password:       pwd,
		FirstName:      *f.first,
		LastName:       *f.last,
		EnrollmentDate: enrolled,
		GradeLevel:     *f.grade,
		ParentName:     *f.parentName,
		ParentEmail:    *f.parentEmail,
	}, nil
}

// update only carries the flags given on the command line.
func (f *studentFlags) update() (student.UpdateStudent, error) {
	var us student.UpdateStudent
	set := setFlags(f.fs)
	if set["email"] {
		us.Email = f.email
	}
	if set["first"] {
		us.FirstName = f.first
	}
	if set["last"] {
		us.LastName = f.last
	}
	if set["enrolled"] {
		enrolled, err := dateFlag("enrollment_date", *f.enrolled)
		if err != nil {
			return us, err
		}
		us.EnrollmentDate = &enrolled
	}
	if set["grade"] {
		us.GradeLevel = f.grade
	}
	if set["parent-name"] {
		us.ParentName = f.parentName
	}
	if set["parent-email"] {
		us.ParentEmail = f.parentEmail
	}
	return us, nil
}

func (cli *commandLine) studentsCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	sub, args := args[0], args[1:]
	fs := cli.flagSet("students " + sub)

	switch sub {
	case "list":
		return cli.visit(ctx, access.Path("students.list"), nil)

	case "show", "transcript":
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("students."+sub, id), nil)

	case "delete":
		yes := fs.Bool("yes", false, "Do not ask for confirmation.")
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("students.delete", id), func(ctx context.Context, _ access.Params) error {
			if ok, err := cli.confirmDelete(*yes, "student", id); !ok || err != nil {
				return err
			}
			if err := screens.NewStudentList(cli.env).Delete(ctx, id); err != nil {
				return err
			}
			cli.ui.success("Student deleted.")
			return nil
		})

	case "new":
		sf := newStudentFlags(fs)
		if err := fs.Parse(args); err != nil {
			return errHelp
		}
		return cli.visit(ctx, access.Path("students.new"), func(ctx context.Context, _ access.Params) error {
			pwd, err := cli.promptPassword("Password")
			if err != nil {
				return err
			}
			form := screens.NewStudentForm(cli.env)
			ns, err := sf.newStudent(pwd)
			if err != nil {
				return core.Failed("Save student", err)
			}
			stud, err := form.Create(ctx, ns)
			if err != nil {
				return err
			}
			cli.ui.success("Student created.")
			cli.ui.record(studentRecord(stud))
			return nil
		})

	case "edit":
		sf := newStudentFlags(fs)
		newPwd := fs.Bool("password", false, "Prompt for a new password.")
		id, err := parseIDArg(fs, args)
		if err != nil {
			return err
		}
		return cli.visit(ctx, access.Path("students.edit", id), func(ctx context.Context, _ access.Params) error {
			form := screens.NewStudentForm(cli.env)
			if err := form.Load(ctx, id); err != nil {
				return err
			}
			before := form.Student

			us, err := sf.update()
			if err != nil {
				return core.Failed("Save student", err)
			}
			if *newPwd {
				pwd, err := cli.promptPassword("New password")
				if err != nil {
					return err
				}
				us.Password = &pwd
			}
			after, err := form.Update(ctx, id, us)
			if err != nil {
				return err
			}
			cli.ui.success("Student updated.")
			cli.ui.diff(studentRecord(before), studentRecord(after))
			return nil
		})
	}

	cli.printUsage()
	return errHelp
}

func (cli *commandLine) confirmDelete(yes bool, what string, id core.ID) (bool, error) {
	if yes {
		return true, nil
	}
	ok, err := cli.confirm(fmt.Sprintf("Delete %s %s?", what, id))
	if err == nil && !ok {
		cli.ui.println("Cancelled.")
	}
	return ok, err
}

func (cli *commandLine) studentList(ctx context.Context, _ access.Params) error {
	list := screens.NewStudentList(cli.env)
	if err := list.Load(ctx); err != nil {
		return err
	}
	cli.ui.title("Students")
	cli.ui.students(list.Students)
	return nil
}

func (cli *commandLine) studentDetail(ctx context.Context, params access.Params) error {
	id, err := params.ID("id")
	if err != nil {
		return err
	}
	d := screens.NewStudentDetail(cli.env)
	if err := d.Load(ctx, id); err != nil {
		return err
	}
	cli.ui.title(d.Student.Name())
	cli.ui.record(studentRecord(d.Student))
	cli.ui.title("Grades")
	cli.ui.gradeReport(d.Report, d.Summary)
	return nil
}

func (cli *commandLine) studentTranscript(ctx context.Context, params access.Params) error {
	id, err := params.ID("id")
	if err != nil {
		return err
	}
	path, err := screens.NewStudentList(cli.env).Transcript(ctx, id)
	if err != nil {
		return err
	}
	cli.ui.success("Transcript saved to " + path)
	return nil
}
