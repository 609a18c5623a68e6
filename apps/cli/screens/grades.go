package screens

import (
	"context"

	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/student"
	schoolsvc "github.com/trezcool/academia/services/school"
)

const myTranscriptBase = "my_transcript"

// MyGrades is the logged in student's own grade report.
type MyGrades struct {
	Banner
	env *Env

	Student *student.Student
	Report  report.GradeReport
	Summary report.Summary
}

func NewMyGrades(env *Env) *MyGrades {
	return &MyGrades{env: env}
}

// resolve finds the student profile of the current user. It is looked up once.
func (g *MyGrades) resolve(ctx context.Context) (student.Student, error) {
	if g.Student != nil {
		return *g.Student, nil
	}
	sess, ok := g.env.Session.Current()
	if !ok {
		return student.Student{}, ErrNotLoggedIn
	}
	students, err := g.env.API.Students.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return student.Student{}, err
	}
	stud, ok := student.FindByUser(students, sess.ID)
	if !ok {
		return student.Student{}, ErrNoStudentProfile
	}
	g.Student = &stud
	return stud, nil
}

func (g *MyGrades) Load(ctx context.Context) error {
	g.clear()
	stud, err := g.resolve(ctx)
	if err != nil {
		return g.fail("Load your student information", err)
	}
	rep, err := g.env.API.Reports.GradeReport(ctx, stud.ID)
	if err != nil {
		return g.fail("Load your grades", err)
	}
	g.Report, g.Summary = rep, report.Summarize(rep)
	return nil
}

func (g *MyGrades) Transcript(ctx context.Context) (string, error) {
	g.clear()
	stud, err := g.resolve(ctx)
	if err != nil {
		return "", g.fail("Load your student information", err)
	}
	path, err := downloadTranscript(ctx, g.env, stud.ID, myTranscriptBase)
	if err != nil {
		return "", g.fail("Download transcript", err)
	}
	return path, nil
}
