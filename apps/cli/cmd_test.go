package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/apps/cli/screens"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	schoolsvc "github.com/trezcool/academia/services/school"
	"github.com/trezcool/academia/storage/inmem"
	testutil "github.com/trezcool/academia/tests"
)

type fixtures struct {
	api     *testutil.MockAPI
	env     *screens.Env
	sam     core.ID // student
	sue     core.ID // student
	algebra core.ID // course
}

func setup(t *testing.T) *fixtures {
	api := testutil.NewMockAPI(t)
	api.AddUser("admin@school.io", "adminpass", "Ada", "Admin", user.RoleAdmin)
	_, tchr := api.AddTeacher("t@school.io", "Tom", "Rivers", "Science")
	_, sam := api.AddStudent("s@school.io", "Sam", "Stone", 10)
	_, sue := api.AddStudent("s2@school.io", "Sue", "Storm", 11)
	algebra := api.AddCourse("Algebra", "MATH101", 3, &tchr.ID)
	history := api.AddCourse("History", "HIST101", 2, nil)
	physics := api.AddCourse("Physics", "PHYS101", 4, &tchr.ID)
	api.Enroll(sam.ID, algebra.ID, null.Float64From(90))
	api.Enroll(sam.ID, history.ID, null.Float64{})
	api.Enroll(sam.ID, physics.ID, null.Float64From(70))

	client := schoolsvc.NewClient(api.Config(), nil)
	store := session.NewStore(inmem.New(), client.Auth, nil)
	client.SetTokenSource(store)

	return &fixtures{
		api: api,
		env: &screens.Env{
			API:          client,
			Session:      store,
			Validator:    newValidator(),
			DownloadsDir: t.TempDir(),
			Now:          func() time.Time { return time.Date(2024, time.March, 5, 14, 30, 15, 0, time.Local) },
		},
		sam:     sam.ID,
		sue:     sue.ID,
		algebra: algebra.ID,
	}
}

var passwords = map[string]string{
	"admin@school.io": "adminpass",
	"t@school.io":     "password",
	"s@school.io":     "password",
}

type cliTest struct {
	name       string
	as         string   // email of the user logged in before running, "" for anonymous
	args       []string // without program name
	stdin      string
	passwords  []string // answers to password prompts, in order
	wantErr    error
	wantErrStr string
	wantOut    []string
}

func runTests(t *testing.T, fx *fixtures, tests []cliTest) {
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := fx.env.Session.End(ctx); err != nil {
				t.Fatalf("Session.End() error = %v", err)
			}
			if tt.as != "" {
				if _, err := fx.env.Session.Start(ctx, user.Credentials{Email: tt.as, Password: passwords[tt.as]}); err != nil {
					t.Fatalf("Session.Start() error = %v", err)
				}
			}

			pwds := tt.passwords
			readPasswordFunc = func(int) ([]byte, error) {
				if len(pwds) == 0 {
					return nil, nil
				}
				pwd := pwds[0]
				pwds = pwds[1:]
				return []byte(pwd), nil
			}

			var out bytes.Buffer
			cli := newCommandLine(fx.env, strings.NewReader(tt.stdin), &out)
			err := cli.run(ctx, append([]string{"academia"}, tt.args...))

			switch {
			case tt.wantErr != nil:
				if errors.Cause(err) != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
			case tt.wantErrStr != "":
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
			case err != nil:
				t.Errorf("cli.run() unexpected error = %v", err)
			}

			for _, want := range tt.wantOut {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output does not contain %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func Test_commandLine_usage(t *testing.T) {
	fx := setup(t)
	runTests(t, fx, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage: academia"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no sub command", args: []string{"students"}, wantErr: errHelp},
		{name: "unknown sub command", args: []string{"courses", "lol"}, wantErr: errHelp},
		{name: "missing id", args: []string{"students", "show"}, wantErr: errHelp},
		{name: "invalid id", args: []string{"students", "show", "abc"}, wantErrStr: `invalid id "abc"`},
		{name: "open without path", args: []string{"open"}, wantErr: errHelp},
		{name: "open unknown page", as: "admin@school.io", args: []string{"open", "/nowhere"}, wantOut: []string{"Welcome, Ada Admin"}},
		{
			name:       "open a form",
			as:         "admin@school.io",
			args:       []string{"open", "/students/new"},
			wantErrStr: "/students/new needs input, use the matching command",
		},
	})
}

func Test_commandLine_auth(t *testing.T) {
	fx := setup(t)
	runTests(t, fx, []cliTest{
		{name: "whoami anonymous", args: []string{"whoami"}, wantErr: screens.ErrNotLoggedIn},
		{
			name:    "whoami",
			as:      "admin@school.io",
			args:    []string{"whoami"},
			wantOut: []string{"Email: admin@school.io", "Role: ADMIN", "Name: Ada Admin"},
		},
		{
			name:       "login with a wrong password",
			args:       []string{"login", "-email", "admin@school.io"},
			passwords:  []string{"nope"},
			wantErrStr: "Login failed: Incorrect email or password",
		},
		{
			name:      "login",
			args:      []string{"login", "-email", "Admin@School.io"},
			passwords: []string{"adminpass"},
			wantOut:   []string{"Logged in as admin@school.io (ADMIN)."},
		},
		{
			name:      "login prompts for the email",
			args:      []string{"login"},
			stdin:     "t@school.io\n",
			passwords: []string{"password"},
			wantOut:   []string{"Email: ", "Logged in as t@school.io (TEACHER)."},
		},
		{
			name:      "login then open the next page",
			args:      []string{"login", "-email", "t@school.io", "-next", "/courses"},
			passwords: []string{"password"},
			wantOut:   []string{"MATH101", "PHYS101"},
		},
		{
			name:      "gate asks to log in then resumes",
			args:      []string{"students", "list"},
			stdin:     "admin@school.io\n",
			passwords: []string{"adminpass"},
			wantOut:   []string{"Please log in to continue.", "Students", "Sam Stone", "Sue Storm"},
		},
		{
			name:       "gate login fails",
			args:       []string{"dashboard"},
			stdin:      "admin@school.io\n",
			passwords:  []string{"wrong"},
			wantErrStr: "Login failed: Incorrect email or password",
		},
		{name: "logout", as: "admin@school.io", args: []string{"logout"}, wantOut: []string{"Logged out."}},
		{
			name:      "register",
			as:        "admin@school.io",
			args:      []string{"register", "-email", "new@school.io", "-first", "Nia", "-last", "New", "-role", "teacher"},
			passwords: []string{"password1"},
			wantOut:   []string{"User registered.", "Role: TEACHER"},
		},
		{
			name:       "register with an unknown role",
			as:         "admin@school.io",
			args:       []string{"register", "-email", "x@school.io", "-first", "X", "-last", "Y", "-role", "janitor"},
			passwords:  []string{"password1"},
			wantErrStr: "Register user failed: role: must be one of ADMIN, TEACHER or STUDENT",
		},
		{
			name:       "passwd mismatch",
			as:         "s@school.io",
			args:       []string{"passwd"},
			passwords:  []string{"password", "newpassword", "newpasswort"},
			wantErrStr: "Change password failed: confirm_password: new password and confirmation do not match",
		},
		{name: "profile", as: "s@school.io", args: []string{"profile"}, wantOut: []string{"My Profile", "Name: Sam Stone"}},
	})

	if state := fx.env.Session.State(); state != session.StateAuthenticated {
		t.Errorf("Session.State() = %v, want %v", state, session.StateAuthenticated)
	}
}

func Test_commandLine_pages(t *testing.T) {
	fx := setup(t)
	sam, sue, algebra := fx.sam.String(), fx.sue.String(), fx.algebra.String()

	runTests(t, fx, []cliTest{
		{
			name:    "admin dashboard",
			as:      "admin@school.io",
			args:    []string{"dashboard"},
			wantOut: []string{"Welcome, Ada Admin", "Students: 2", "Teachers: 1", "Courses: 3"},
		},
		{
			name:    "teacher dashboard",
			as:      "t@school.io",
			args:    []string{"dashboard"},
			wantOut: []string{"Welcome, Tom Rivers", "Students: 2", "Teachers: 1", "Courses: 2"},
		},
		{
			name:    "student dashboard",
			as:      "s@school.io",
			args:    []string{"dashboard"},
			wantOut: []string{"Enrolled courses: 3", "3 enrolled / 2 graded, GPA 80.00", "Recent grades", "MATH101"},
		},
		{
			name:    "my grades",
			as:      "s@school.io",
			args:    []string{"grades"},
			wantOut: []string{"My Grades", "Not graded yet", "GPA 80.00"},
		},
		{
			name:    "my transcript",
			as:      "s@school.io",
			args:    []string{"grades", "-transcript"},
			wantOut: []string{"Transcript saved to", "my_transcript_20240305143015.pdf"},
		},
		{name: "teacher has no grades", as: "t@school.io", args: []string{"grades"}, wantErr: errUnauthorized, wantOut: []string{"Unauthorized"}},
		{name: "student on teachers", as: "s@school.io", args: []string{"teachers", "list"}, wantErr: errUnauthorized},
		{
			name:    "teacher sees a student",
			as:      "t@school.io",
			args:    []string{"students", "show", sam},
			wantOut: []string{"Sam Stone", "Grade level: 10", "3 enrolled / 2 graded, GPA 80.00"},
		},
		{
			name:    "student transcript",
			as:      "t@school.io",
			args:    []string{"students", "transcript", sam},
			wantOut: []string{"transcript_student_" + sam + "_20240305143015.pdf"},
		},
		{
			name:       "missing student",
			as:         "admin@school.io",
			args:       []string{"open", "/students/999"},
			wantErrStr: "Load student failed: Student with ID 999 not found",
		},
		{
			name:    "edit a student",
			as:      "admin@school.io",
			args:    []string{"students", "edit", sam, "-grade", "11"},
			wantOut: []string{"Student updated.", "-Grade level: 10", "+Grade level: 11"},
		},
		{
			name:       "edit nothing",
			as:         "admin@school.io",
			args:       []string{"students", "edit", sam},
			wantErrStr: "Save student failed: nothing to update",
		},
		{
			name:       "new student with a bad date",
			as:         "admin@school.io",
			args:       []string{"students", "new", "-email", "n@school.io", "-first", "N", "-last", "S", "-grade", "9", "-enrolled", "2024-13-01"},
			passwords:  []string{"password1"},
			wantErrStr: `Save student failed: enrollment_date: invalid date "2024-13-01" (want YYYY-MM-DD)`,
		},
		{
			name:      "new student",
			as:        "admin@school.io",
			args:      []string{"students", "new", "-email", "n@school.io", "-first", "Nia", "-last", "Sky", "-grade", "9", "-enrolled", "2024-01-08"},
			passwords: []string{"password1"},
			wantOut:   []string{"Student created.", "Name: Nia Sky", "Enrolled: January 8, 2024"},
		},
		{
			name:    "delete cancelled",
			as:      "admin@school.io",
			args:    []string{"students", "delete", sue},
			stdin:   "n\n",
			wantOut: []string{"Delete student " + sue + "? [y/N]", "Cancelled."},
		},
		{name: "delete", as: "admin@school.io", args: []string{"students", "delete", sue, "-yes"}, wantOut: []string{"Student deleted."}},
		{name: "teacher cannot delete", as: "t@school.io", args: []string{"students", "delete", sam, "-yes"}, wantErr: errUnauthorized},
		{
			name:    "roster",
			as:      "t@school.io",
			args:    []string{"courses", "roster", algebra},
			wantOut: []string{"Students enrolled in MATH101", "Sam Stone"},
		},
		{
			name:    "teacher edits a course",
			as:      "t@school.io",
			args:    []string{"courses", "edit", algebra, "-credits", "5"},
			wantOut: []string{"Course updated.", "-Credits: 3", "+Credits: 5"},
		},
		{name: "teacher cannot delete a course", as: "t@school.io", args: []string{"courses", "delete", algebra, "-yes"}, wantErr: errUnauthorized},
		{
			name:    "teachers",
			as:      "admin@school.io",
			args:    []string{"teachers", "list"},
			wantOut: []string{"Tom Rivers", "Science"},
		},
	})

	if fx.api.HasStudent(fx.sue) {
		t.Error("student was not deleted")
	}
	matches, _ := filepath.Glob(filepath.Join(fx.env.DownloadsDir, "*.pdf"))
	if len(matches) != 2 {
		t.Errorf("downloads = %v, want 2 files", matches)
	}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil || !bytes.Equal(data, testutil.TranscriptPDF) {
			t.Errorf("%s: content differs from the served transcript", path)
		}
	}
}

func Test_parseOptions(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantEphemeral bool
		wantArgs      []string
	}{
		{name: "none", args: []string{"academia", "whoami"}, wantArgs: []string{"academia", "whoami"}},
		{name: "ephemeral", args: []string{"academia", "-ephemeral", "login", "-email", "a@b.c"}, wantEphemeral: true, wantArgs: []string{"academia", "login", "-email", "a@b.c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, args, err := parseOptions(tt.args)
			if err != nil {
				t.Fatalf("parseOptions() error = %v", err)
			}
			if opts.ephemeral != tt.wantEphemeral {
				t.Errorf("parseOptions() ephemeral = %v, want %v", opts.ephemeral, tt.wantEphemeral)
			}
			if strings.Join(args, " ") != strings.Join(tt.wantArgs, " ") {
				t.Errorf("parseOptions() args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}
