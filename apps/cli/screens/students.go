package screens

import (
	"context"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/student"
	schoolsvc "github.com/trezcool/academia/services/school"
)

func transcriptBase(id core.ID) string { return "transcript_student_" + id.String() }

type StudentList struct {
	Banner
	env *Env

	Students []student.Student
}

func NewStudentList(env *Env) *StudentList {
	return &StudentList{env: env}
}

func (s *StudentList) Load(ctx context.Context) error {
	s.clear()
	students, err := s.env.API.Students.List(ctx, schoolsvc.ListOptions{})
	if err != nil {
		return s.fail("Load students", err)
	}
	s.Students = students
	return nil
}

// Delete removes the student on the backend, then exactly that row locally.
func (s *StudentList) Delete(ctx context.Context, id core.ID) error {
	s.clear()
	if err := s.env.API.Students.Delete(ctx, id); err != nil {
		return s.fail("Delete student", err)
	}
	s.Students = student.Without(s.Students, id)
	return nil
}

// Transcript saves the student's transcript and returns the file path.
func (s *StudentList) Transcript(ctx context.Context, id core.ID) (string, error) {
	s.clear()
	path, err := downloadTranscript(ctx, s.env, id, transcriptBase(id))
	if err != nil {
		return "", s.fail("Download transcript", err)
	}
	return path, nil
}

func downloadTranscript(ctx context.Context, env *Env, id core.ID, base string) (string, error) {
	dl, err := env.API.Reports.Transcript(ctx, id)
	if err != nil {
		return "", err
	}
	return env.save(base, dl)
}

type StudentDetail struct {
	Banner
	env *Env

	Student student.Student
	Report  report.GradeReport
	Summary report.Summary
}

func NewStudentDetail(env *Env) *StudentDetail {
	return &StudentDetail{env: env}
}

func (s *StudentDetail) Load(ctx context.Context, id core.ID) error {
	s.clear()
	stud, err := s.env.API.Students.Get(ctx, id)
	if err != nil {
		return s.fail("Load student", err)
	}
	rep, err := s.env.API.Reports.GradeReport(ctx, id)
	if err != nil {
		return s.fail("Load student", err)
	}
	s.Student, s.Report, s.Summary = stud, rep, report.Summarize(rep)
	return nil
}

func (s *StudentDetail) Transcript(ctx context.Context) (string, error) {
	s.clear()
	path, err := downloadTranscript(ctx, s.env, s.Student.ID, transcriptBase(s.Student.ID))
	if err != nil {
		return "", s.fail("Download transcript", err)
	}
	return path, nil
}

// StudentForm creates a student, or edits the one it loaded.
type StudentForm struct {
	Banner
	env *Env

	Student student.Student // edit mode only
}

func NewStudentForm(env *Env) *StudentForm {
	return &StudentForm{env: env}
}

func (f *StudentForm) Load(ctx context.Context, id core.ID) error {
	f.clear()
	stud, err := f.env.API.Students.Get(ctx, id)
	if err != nil {
		return f.fail("Load student", err)
	}
	f.Student = stud
	return nil
}

// Create requires a password: the backend creates the student's login along with it.
func (f *StudentForm) Create(ctx context.Context, ns student.NewStudent) (student.Student, error) {
	f.clear()
	if err := ns.Validate(f.env.Validator); err != nil {
		return student.Student{}, f.fail("Save student", err)
	}
	stud, err := f.env.API.Students.Create(ctx, ns)
	if err != nil {
		return student.Student{}, f.fail("Save student", err)
	}
	f.Student = stud
	return stud, nil
}

// Update sends the changed fields only; an empty password keeps the current one.
func (f *StudentForm) Update(ctx context.Context, id core.ID, us student.UpdateStudent) (student.Student, error) {
	f.clear()
	if err := us.Validate(f.env.Validator); err != nil {
		return student.Student{}, f.fail("Save student", err)
	}
	if us.IsEmpty() {
		return student.Student{}, f.fail("Save student", core.NewValidationError(ErrNoChanges))
	}
	stud, err := f.env.API.Students.Update(ctx, id, us)
	if err != nil {
		return student.Student{}, f.fail("Save student", err)
	}
	f.Student = stud
	return stud, nil
}
