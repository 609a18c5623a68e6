// Package report holds the server computed grade report and the GPA derived from it.
// Every screen showing a GPA goes through Summarize.
package report

import (
	"fmt"
	"strconv"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
)

const NotApplicable = "N/A"

// GradeInfo is one course enrollment of the student. Grade is null until the course is graded.
type GradeInfo struct {
	CourseID       core.ID      `json:"course_id"`
	CourseCode     string       `json:"course_code"`
	CourseName     string       `json:"course_name"`
	EnrollmentDate core.Date    `json:"enrollment_date"`
	Grade          null.Float64 `json:"grade"`
	GradeDate      core.Date    `json:"grade_date"`
}

// FormatGrade renders the grade or a placeholder when it is not graded yet.
func (g GradeInfo) FormatGrade() string {
	if !g.Grade.Valid {
		return "Not graded yet"
	}
	return strconv.FormatFloat(g.Grade.Float64, 'f', -1, 64)
}

type GradeReport struct {
	StudentID      core.ID        `json:"student_id"`
	StudentName    string         `json:"student_name"`
	GradeLevel     int            `json:"grade_level"`
	EnrollmentDate core.Date      `json:"enrollment_date"`
	Grades         []GradeInfo    `json:"grades"`
	GeneratedAt    core.Timestamp `json:"generated_at"`
}

// GPA is the arithmetic mean of the non-null grades.
// Ungraded courses count in neither the sum nor the divisor; with nothing graded the GPA is null.
func GPA(grades []GradeInfo) null.Float64 {
	var sum float64
	var n int
	for _, g := range grades {
		if g.Grade.Valid {
			sum += g.Grade.Float64
			n++
		}
	}
	if n == 0 {
		return null.Float64{}
	}
	return null.Float64From(sum / float64(n))
}

// FormatGPA renders gpa with two decimals, or "N/A".
func FormatGPA(gpa null.Float64) string {
	if !gpa.Valid {
		return NotApplicable
	}
	return fmt.Sprintf("%.2f", gpa.Float64)
}

type Summary struct {
	Enrolled int
	Graded   int
	GPA      null.Float64
}

func Summarize(r GradeReport) Summary {
	s := Summary{Enrolled: len(r.Grades), GPA: GPA(r.Grades)}
	for _, g := range r.Grades {
		if g.Grade.Valid {
			s.Graded++
		}
	}
	return s
}

// Counts renders "3 enrolled / 2 graded".
func (s Summary) Counts() string {
	return fmt.Sprintf("%d enrolled / %d graded", s.Enrolled, s.Graded)
}

func (s Summary) String() string {
	return s.Counts() + ", GPA " + FormatGPA(s.GPA)
}
