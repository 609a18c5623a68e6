package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/labstack/gommon/color"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
	"github.com/trezcool/academia/core/user"
)

// ui prints screens to the terminal. Colors are dropped when out is not a terminal.
type ui struct {
	out   io.Writer
	color *color.Color
}

func newUI(out io.Writer) *ui {
	c := color.New()
	c.SetOutput(out)
	return &ui{out: out, color: c}
}

func (u *ui) println(args ...interface{}) {
	fmt.Fprintln(u.out, args...)
}

func (u *ui) printf(format string, args ...interface{}) {
	fmt.Fprintf(u.out, format, args...)
}

func (u *ui) title(s string) {
	u.println(u.color.Bold(s))
}

// banner is how every failed action is shown.
func (u *ui) banner(err error) {
	if err == nil {
		return
	}
	u.println(u.color.Red("Error: " + err.Error()))
}

func (u *ui) success(msg string) {
	u.println(u.color.Green(msg))
}

func (u *ui) unauthorized() {
	u.title("Unauthorized")
	u.println("You don't have permission to access this page.")
}

func (u *ui) table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		u.println(u.color.Grey("(none)"))
		return
	}
	tw := tabwriter.NewWriter(u.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	_ = tw.Flush()
}

// record prints label/value pairs, one per line.
func (u *ui) record(r record) {
	u.printf("%s", r.String())
}

// diff prints what an edit changed as a unified diff.
func (u *ui) diff(before, after record) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before.String()),
		B:        difflib.SplitLines(after.String()),
		FromFile: "before",
		ToFile:   "after",
		Context:  0,
	})
	if err != nil || text == "" {
		return
	}
	for _, line := range difflib.SplitLines(text) {
		line = strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			u.println(u.color.Green(line))
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			u.println(u.color.Red(line))
		default:
			u.println(line)
		}
	}
}

type field struct {
	label string
	value string
}

type record []field

func (r record) String() string {
	var b strings.Builder
	for _, f := range r {
		b.WriteString(f.label + ": " + f.value + "\n")
	}
	return b.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func userRecord(u user.User) record {
	return record{
		{"ID", u.ID.String()},
		{"Name", orDash(u.FullName())},
		{"Email", u.Email},
		{"Role", u.Role.String()},
		{"Active", strconv.FormatBool(u.IsActive)},
	}
}

func studentRecord(s student.Student) record {
	r := record{{"ID", s.ID.String()}, {"Name", orDash(s.Name())}}
	if s.User != nil {
		r = append(r, field{"Email", s.User.Email})
	}
	return append(r,
		field{"Grade level", strconv.Itoa(s.GradeLevel)},
		field{"Enrolled", s.EnrollmentDate.Human()},
		field{"Parent", orDash(s.ParentName)},
		field{"Parent email", orDash(s.ParentEmail)},
	)
}

func teacherRecord(t teacher.Teacher) record {
	r := record{{"ID", t.ID.String()}, {"Name", orDash(t.Name())}}
	if t.User != nil {
		r = append(r, field{"Email", t.User.Email})
	}
	return append(r,
		field{"Hired", t.HireDate.Human()},
		field{"Qualification", orDash(t.Qualification)},
		field{"Department", orDash(t.Department)},
	)
}

func courseRecord(c course.Course) record {
	return record{
		{"ID", c.ID.String()},
		{"Code", c.Code},
		{"Name", c.Name},
		{"Credits", strconv.Itoa(c.Credits)},
		{"Teacher", c.TeacherName()},
		{"Description", orDash(c.Description)},
	}
}

func (u *ui) students(students []student.Student) {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{s.ID.String(), orDash(s.Name()), strconv.Itoa(s.GradeLevel), s.EnrollmentDate.String()})
	}
	u.table([]string{"ID", "NAME", "GRADE", "ENROLLED"}, rows)
}

func (u *ui) teachers(teachers []teacher.Teacher) {
	rows := make([][]string, 0, len(teachers))
	for _, t := range teachers {
		rows = append(rows, []string{t.ID.String(), orDash(t.Name()), orDash(t.Department), t.HireDate.String()})
	}
	u.table([]string{"ID", "NAME", "DEPARTMENT", "HIRED"}, rows)
}

func (u *ui) courses(courses []course.Course) {
	rows := make([][]string, 0, len(courses))
	for _, c := range courses {
		rows = append(rows, []string{c.ID.String(), c.Code, c.Name, strconv.Itoa(c.Credits), c.TeacherName()})
	}
	u.table([]string{"ID", "CODE", "NAME", "CREDITS", "TEACHER"}, rows)
}

func (u *ui) grades(grades []report.GradeInfo) {
	rows := make([][]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []string{g.CourseCode, g.CourseName, g.FormatGrade(), orDash(g.GradeDate.String())})
	}
	u.table([]string{"CODE", "COURSE", "GRADE", "GRADED ON"}, rows)
}

func (u *ui) gradeReport(r report.GradeReport, s report.Summary) {
	u.grades(r.Grades)
	u.printf("%s\n", s)
}
