package screens

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
	"github.com/trezcool/academia/core/user"
	schoolsvc "github.com/trezcool/academia/services/school"
	"github.com/trezcool/academia/storage/inmem"
	testutil "github.com/trezcool/academia/tests"
)

var clock = time.Date(2024, time.March, 5, 14, 30, 15, 0, time.Local)

func newEnv(t *testing.T, api *testutil.MockAPI) *Env {
	t.Helper()
	client := schoolsvc.NewClient(api.Config(), nil)
	store := session.NewStore(inmem.New(), client.Auth, nil)
	client.SetTokenSource(store)
	require.NoError(t, store.Init(context.Background()))

	v := core.NewValidator()
	v.Register(user.InitValidators)
	return &Env{
		API:          client,
		Session:      store,
		Validator:    v,
		DownloadsDir: t.TempDir(),
		Now:          func() time.Time { return clock },
	}
}

func loginAs(t *testing.T, env *Env, email, pwd string) {
	t.Helper()
	_, err := env.Session.Start(context.Background(), user.Credentials{Email: email, Password: pwd})
	require.NoError(t, err)
}

type school struct {
	api     *testutil.MockAPI
	admin   user.User
	teacher teacher.Teacher
	stud    student.Student
	studUsr user.User
	courses []course.Course
}

// newSchool seeds a backend with an admin, a teacher, two students and three courses.
// The first student has grades 90, ungraded & 70.
func newSchool(t *testing.T) *school {
	api := testutil.NewMockAPI(t)
	s := &school{api: api}
	s.admin = api.AddUser("admin@school.io", "adminpass", "Ada", "Admin", user.RoleAdmin)
	_, s.teacher = api.AddTeacher("t@school.io", "Tom", "Rivers", "Science")
	s.studUsr, s.stud = api.AddStudent("s@school.io", "Sam", "Stone", 10)
	api.AddStudent("s2@school.io", "Sue", "Storm", 11)
	s.courses = []course.Course{
		api.AddCourse("Algebra", "MATH101", 3, &s.teacher.ID),
		api.AddCourse("History", "HIST101", 2, nil),
		api.AddCourse("Physics", "PHYS101", 4, &s.teacher.ID),
	}
	api.Enroll(s.stud.ID, s.courses[0].ID, null.Float64From(90))
	api.Enroll(s.stud.ID, s.courses[1].ID, null.Float64{})
	api.Enroll(s.stud.ID, s.courses[2].ID, null.Float64From(70))
	return s
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("admin sees counts", func(t *testing.T) {
		sch := newSchool(t)
		env := newEnv(t, sch.api)
		loginAs(t, env, "admin@school.io", "adminpass")

		d := NewDashboard(env)
		require.NoError(t, d.Load(ctx))
		assert.Equal(t, Stats{Students: 2, Teachers: 1, Courses: 3}, d.Stats)
		assert.Nil(t, d.Student)
		assert.Empty(t, d.Message())
	})

	t.Run("teacher sees own courses", func(t *testing.T) {
		sch := newSchool(t)
		env := newEnv(t, sch.api)
		loginAs(t, env, "t@school.io", "password")

		d := NewDashboard(env)
		require.NoError(t, d.Load(ctx))
		assert.Equal(t, Stats{Students: 2, Teachers: 1, Courses: 2}, d.Stats)
	})

	t.Run("student sees grades", func(t *testing.T) {
		sch := newSchool(t)
		env := newEnv(t, sch.api)
		loginAs(t, env, "s@school.io", "password")

		d := NewDashboard(env)
		require.NoError(t, d.Load(ctx))
		require.NotNil(t, d.Student)
		assert.Equal(t, sch.stud.ID, d.Student.ID)
		assert.Len(t, d.Recent(), 3)
		assert.Equal(t, "3 enrolled / 2 graded, GPA 80.00", d.Summary.String())
		assert.Equal(t, 3, d.Stats.Courses)
	})

	t.Run("failure keeps previous data", func(t *testing.T) {
		sch := newSchool(t)
		env := newEnv(t, sch.api)
		loginAs(t, env, "admin@school.io", "adminpass")

		d := NewDashboard(env)
		require.NoError(t, d.Load(ctx))
		sch.api.Fail(http.MethodGet, "/teachers/", http.StatusInternalServerError, "database is down")

		err := d.Load(ctx)
		assert.EqualError(t, err, "Load dashboard failed: database is down")
		assert.Equal(t, err.Error(), d.Message())
		assert.Equal(t, 3, d.Stats.Courses)
	})

	t.Run("anonymous", func(t *testing.T) {
		env := newEnv(t, testutil.NewMockAPI(t))
		d := NewDashboard(env)
		assert.Equal(t, ErrNotLoggedIn, errors.Cause(d.Load(ctx)))
	})
}

func TestStudentList_Delete(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "admin@school.io", "adminpass")

	list := NewStudentList(env)
	require.NoError(t, list.Load(ctx))
	require.Len(t, list.Students, 2)
	first, other := list.Students[0], list.Students[1]

	sch.api.Fail(http.MethodDelete, "/students/"+first.ID.String(), http.StatusConflict, "Student has grades")
	err := list.Delete(ctx, first.ID)
	assert.EqualError(t, err, "Delete student failed: Student has grades")
	assert.Len(t, list.Students, 2, "rows untouched on failure")
	assert.True(t, sch.api.HasStudent(first.ID))

	require.NoError(t, list.Delete(ctx, other.ID))
	assert.Empty(t, list.Message(), "banner cleared by the next action")
	assert.Equal(t, []student.Student{first}, list.Students)
	assert.False(t, sch.api.HasStudent(other.ID))
}

func TestStudentList_Transcript(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "admin@school.io", "adminpass")

	list := NewStudentList(env)
	path, err := list.Transcript(ctx, sch.stud.ID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(env.DownloadsDir, "transcript_student_"+sch.stud.ID.String()+"_20240305143015.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testutil.TranscriptPDF, data)

	_, err = list.Transcript(ctx, 999)
	assert.EqualError(t, err, "Download transcript failed: Failed to generate transcript - student not found")
}

func TestStudentDetail(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "t@school.io", "password")

	d := NewStudentDetail(env)
	require.NoError(t, d.Load(ctx, sch.stud.ID))
	assert.Equal(t, "Sam Stone", d.Student.Name())
	assert.Equal(t, "3 enrolled / 2 graded, GPA 80.00", d.Summary.String())

	err := d.Load(ctx, 999)
	assert.EqualError(t, err, "Load student failed: Student with ID 999 not found")
	assert.Equal(t, sch.stud.ID, d.Student.ID, "previous copy kept")
}

func TestStudentForm(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "admin@school.io", "adminpass")
	f := NewStudentForm(env)

	_, err := f.Create(ctx, student.NewStudent{
		Email: "new@school.io", FirstName: "Nia", LastName: "New", EnrollmentDate: core.NewDate(2024, 1, 8), GradeLevel: 9,
	})
	assert.EqualError(t, err, "Save student failed: password: this field is required")
	_, sent := sch.api.LastRequest(http.MethodPost, "/students/")
	assert.False(t, sent, "invalid forms are never sent")

	created, err := f.Create(ctx, student.NewStudent{
		Email: "New@School.io ", Password: "password1", FirstName: "Nia", LastName: "New", EnrollmentDate: core.NewDate(2024, 1, 8), GradeLevel: 9,
	})
	require.NoError(t, err)
	assert.Equal(t, "new@school.io", created.User.Email)

	updated, err := f.Update(ctx, created.ID, student.UpdateStudent{Password: core.StrPtr(""), GradeLevel: core.IntPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, updated.GradeLevel)
	req, _ := sch.api.LastRequest(http.MethodPut, "/students/"+created.ID.String())
	assert.JSONEq(t, `{"grade_level":10}`, string(req.Body), "empty password is dropped")

	_, err = f.Update(ctx, created.ID, student.UpdateStudent{Password: core.StrPtr("")})
	assert.EqualError(t, err, "Save student failed: nothing to update")
	assert.True(t, core.IsValidation(err))
}

func TestMyGrades(t *testing.T) {
	ctx := context.Background()

	t.Run("student", func(t *testing.T) {
		sch := newSchool(t)
		env := newEnv(t, sch.api)
		loginAs(t, env, "s@school.io", "password")

		g := NewMyGrades(env)
		require.NoError(t, g.Load(ctx))
		assert.Equal(t, "3 enrolled / 2 graded, GPA 80.00", g.Summary.String())
		assert.Equal(t, "Not graded yet", g.Report.Grades[1].FormatGrade())

		path, err := g.Transcript(ctx)
		require.NoError(t, err)
		assert.Equal(t, "my_transcript_20240305143015.pdf", filepath.Base(path))
	})

	t.Run("no student profile", func(t *testing.T) {
		sch := newSchool(t)
		env := newEnv(t, sch.api)
		loginAs(t, env, "admin@school.io", "adminpass")

		g := NewMyGrades(env)
		err := g.Load(ctx)
		assert.EqualError(t, err, "Load your student information failed: could not find your student profile")
	})

	t.Run("nothing graded", func(t *testing.T) {
		api := testutil.NewMockAPI(t)
		_, stud := api.AddStudent("fresh@school.io", "Fred", "Fresh", 9)
		api.Enroll(stud.ID, api.AddCourse("Art", "ART1", 1, nil).ID, null.Float64{})
		env := newEnv(t, api)
		loginAs(t, env, "fresh@school.io", "password")

		g := NewMyGrades(env)
		require.NoError(t, g.Load(ctx))
		assert.Equal(t, "1 enrolled / 0 graded, GPA N/A", g.Summary.String())
	})
}

func TestTeacherScreens(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "admin@school.io", "adminpass")

	detail := NewTeacherDetail(env)
	require.NoError(t, detail.Load(ctx, sch.teacher.ID))
	assert.Len(t, detail.Courses, 2)

	form := NewTeacherForm(env)
	_, err := form.Create(ctx, teacher.NewTeacher{Email: "x@school.io", Password: "password1", FirstName: "X", LastName: "Y", Qualification: "PhD"})
	assert.EqualError(t, err, "Save teacher failed: hire_date: this field is required")

	created, err := form.Create(ctx, teacher.NewTeacher{
		Email: "x@school.io", Password: "password1", FirstName: "Xena", LastName: "Young", HireDate: core.NewDate(2021, 8, 30), Qualification: "PhD",
	})
	require.NoError(t, err)

	updated, err := form.Update(ctx, created.ID, teacher.UpdateTeacher{Department: core.StrPtr("Arts")})
	require.NoError(t, err)
	assert.Equal(t, "Arts", updated.Department)

	list := NewTeacherList(env)
	require.NoError(t, list.Load(ctx))
	require.Len(t, list.Teachers, 2)
	require.NoError(t, list.Delete(ctx, created.ID))
	assert.Len(t, list.Teachers, 1)
}

func TestCourseScreens(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "t@school.io", "password")

	roster := NewCourseRoster(env)
	require.NoError(t, roster.Load(ctx, sch.courses[0].ID))
	assert.Equal(t, "Algebra", roster.Course.Name)
	require.Len(t, roster.Students, 1)
	assert.Equal(t, sch.stud.ID, roster.Students[0].ID)

	form := NewCourseForm(env)
	_, err := form.Create(ctx, course.NewCourse{Name: "Chem", Code: "", Credits: 0})
	assert.EqualError(t, err, "Save course failed: code: this field cannot be blank; credits: credits must be 1 or greater")

	crs, err := form.Create(ctx, course.NewCourse{Name: "Chemistry", Code: "CHEM101", Credits: 3, TeacherID: &sch.teacher.ID})
	require.NoError(t, err)
	assert.Equal(t, "Tom Rivers", crs.TeacherName())

	_, err = form.Update(ctx, crs.ID, course.UpdateCourse{Code: core.StrPtr("MATH101")})
	assert.EqualError(t, err, "Save course failed: Course with code MATH101 already exists")

	list := NewCourseList(env)
	require.NoError(t, list.Load(ctx))
	assert.Len(t, list.Courses, 3)
	err = list.Delete(ctx, crs.ID)
	assert.EqualError(t, err, "Delete course failed: Not enough permissions")
	assert.Len(t, list.Courses, 3)

	detail := NewCourseDetail(env)
	require.NoError(t, detail.Load(ctx, crs.ID))
	assert.Equal(t, "CHEM101", detail.Course.Code)
}

func TestProfile(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "s@school.io", "password")

	p := NewProfile(env)
	require.NoError(t, p.Load(ctx))
	assert.Equal(t, sch.studUsr, p.User)

	tests := []struct {
		name    string
		pc      user.PasswordChange
		wantErr string
	}{
		{
			name:    "mismatch",
			pc:      user.PasswordChange{CurrentPassword: "password", NewPassword: "newpassword", ConfirmPassword: "newpasswort"},
			wantErr: "Change password failed: confirm_password: new password and confirmation do not match",
		},
		{
			name:    "too short",
			pc:      user.PasswordChange{CurrentPassword: "password", NewPassword: "short", ConfirmPassword: "short"},
			wantErr: "Change password failed: new_password: password must be at least 8 characters long",
		},
		{
			name:    "wrong current",
			pc:      user.PasswordChange{CurrentPassword: "nope", NewPassword: "newpassword", ConfirmPassword: "newpassword"},
			wantErr: "Change password failed: Incorrect current password",
		},
		{
			name: "ok",
			pc:   user.PasswordChange{CurrentPassword: "password", NewPassword: "newpassword", ConfirmPassword: "newpassword"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := p.ChangePassword(ctx, tt.pc)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	l := NewLogin(env)

	_, _, err := l.Submit(ctx, user.Credentials{Email: "admin@school.io", Password: "bad"}, "/login?next=%2Fstudents")
	assert.EqualError(t, err, "Login failed: Incorrect email or password")
	assert.Equal(t, session.StateAnonymous, env.Session.State())

	sess, next, err := l.Submit(ctx, user.Credentials{Email: "admin@school.io", Password: "adminpass"}, "/login?next=%2Fstudents")
	require.NoError(t, err)
	assert.Equal(t, "/students", next)
	assert.Equal(t, sch.admin, sess.User)
	assert.Empty(t, l.Message())

	require.NoError(t, l.Logout(ctx))
	assert.Equal(t, session.StateAnonymous, env.Session.State())
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	sch := newSchool(t)
	env := newEnv(t, sch.api)
	loginAs(t, env, "admin@school.io", "adminpass")
	r := NewRegister(env)

	_, err := r.Submit(ctx, user.NewUser{Email: "n@school.io", Password: "password1", FirstName: "N", LastName: "U", Role: "JANITOR"})
	assert.EqualError(t, err, "Register user failed: role: must be one of ADMIN, TEACHER or STUDENT")

	usr, err := r.Submit(ctx, user.NewUser{Email: "n@school.io", Password: "password1", FirstName: "N", LastName: "U", Role: user.RoleTeacher, IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, usr.Role)
}
