package screens

import (
	"context"

	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/user"
	schoolsvc "github.com/trezcool/academia/services/school"
)

// recentGrades is how many grades a student's dashboard shows.
const recentGrades = 3

type Stats struct {
	Students int
	Teachers int
	Courses  int
}

type Dashboard struct {
	Banner
	env *Env

	User  user.User
	Stats Stats

	// student view only
	Student *student.Student
	Report  *report.GradeReport
	Summary report.Summary
}

func NewDashboard(env *Env) *Dashboard {
	return &Dashboard{env: env}
}

// Recent returns the first grades of the student's report.
func (d *Dashboard) Recent() []report.GradeInfo {
	if d.Report == nil {
		return nil
	}
	if len(d.Report.Grades) > recentGrades {
		return d.Report.Grades[:recentGrades]
	}
	return d.Report.Grades
}

// Load fetches what the current user's role gets to see. Calls are sequential.
func (d *Dashboard) Load(ctx context.Context) error {
	d.clear()
	sess, ok := d.env.Session.Current()
	if !ok {
		return d.fail("Load dashboard", ErrNotLoggedIn)
	}

	fresh := Dashboard{Banner: d.Banner, env: d.env, User: sess.User}
	var err error
	switch sess.Role {
	case user.RoleAdmin, user.RoleTeacher:
		err = fresh.loadStaff(ctx)
	case user.RoleStudent:
		err = fresh.loadStudent(ctx)
	}
	if err != nil {
		return d.fail("Load dashboard", err)
	}
	*d = fresh
	return nil
}

func (d *Dashboard) loadStaff(ctx context.Context) error {
	students, err := d.env.API.Students.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return err
	}
	teachers, err := d.env.API.Teachers.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return err
	}
	courses, err := d.env.API.Courses.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return err
	}
	d.Stats = Stats{Students: len(students), Teachers: len(teachers), Courses: len(courses)}
	return nil
}

// loadStudent resolves the student profile first; the grade report needs its id.
func (d *Dashboard) loadStudent(ctx context.Context) error {
	students, err := d.env.API.Students.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return err
	}
	if stud, ok := student.FindByUser(students, d.User.ID); ok {
		rep, err := d.env.API.Reports.GradeReport(ctx, stud.ID)
		if err != nil {
			return err
		}
		d.Student, d.Report, d.Summary = &stud, &rep, report.Summarize(rep)
	}

	courses, err := d.env.API.Courses.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return err
	}
	d.Stats = Stats{Students: len(students), Courses: len(courses)}
	return nil
}
