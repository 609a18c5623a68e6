package report

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
)

func grade(id int, g ...float64) GradeInfo {
	gi := GradeInfo{CourseID: core.ID(id)}
	if len(g) > 0 {
		gi.Grade = null.Float64From(g[0])
	}
	return gi
}

func TestGPA(t *testing.T) {
	tests := []struct {
		name    string
		grades  []GradeInfo
		want    string
		wantSum string
	}{
		{name: "no courses", want: NotApplicable, wantSum: "0 enrolled / 0 graded, GPA N/A"},
		{name: "nothing graded", grades: []GradeInfo{grade(1), grade(2)}, want: NotApplicable, wantSum: "2 enrolled / 0 graded, GPA N/A"},
		{name: "nulls excluded", grades: []GradeInfo{grade(1, 90), grade(2), grade(3, 70)}, want: "80.00", wantSum: "3 enrolled / 2 graded, GPA 80.00"},
		{name: "single", grades: []GradeInfo{grade(1, 85.5)}, want: "85.50", wantSum: "1 enrolled / 1 graded, GPA 85.50"},
		{name: "zero grade counts", grades: []GradeInfo{grade(1, 0), grade(2, 100)}, want: "50.00", wantSum: "2 enrolled / 2 graded, GPA 50.00"},
		{name: "rounding", grades: []GradeInfo{grade(1, 90), grade(2, 85), grade(3, 88)}, want: "87.67", wantSum: "3 enrolled / 3 graded, GPA 87.67"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatGPA(GPA(tt.grades)); got != tt.want {
				t.Errorf("FormatGPA(GPA()) = %q, want %q", got, tt.want)
			}
			if got := Summarize(GradeReport{Grades: tt.grades}).String(); got != tt.wantSum {
				t.Errorf("Summarize().String() = %q, want %q", got, tt.wantSum)
			}
		})
	}
}

func TestGPA_NotZeroWhenUngraded(t *testing.T) {
	gpa := GPA([]GradeInfo{grade(1)})
	if gpa.Valid {
		t.Errorf("GPA() = %v, want null", gpa.Float64)
	}
}

func TestGradeReport_Decode(t *testing.T) {
	payload := []byte(`{
		"student_id": "7",
		"student_name": "Ada Lovelace",
		"grade_level": 10,
		"enrollment_date": "2023-09-01",
		"grades": [
			{"course_id": 1, "course_code": "MATH101", "course_name": "Algebra", "enrollment_date": "2023-09-02", "grade": 90, "grade_date": "2024-01-15"},
			{"course_id": 2, "course_code": "HIST101", "course_name": "History", "enrollment_date": "2023-09-02", "grade": null, "grade_date": null},
			{"course_id": 3, "course_code": "PHYS101", "course_name": "Physics", "enrollment_date": "2023-09-02", "grade": 70, "grade_date": "2024-01-16"}
		],
		"generated_at": "2024-02-01T10:00:00.123456"
	}`)

	var r GradeReport
	if err := json.Unmarshal(payload, &r); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if want := time.Date(2024, time.February, 1, 10, 0, 0, 123456000, time.Local); !r.GeneratedAt.Equal(want) {
		t.Errorf("GeneratedAt = %v, want %v", r.GeneratedAt.Time, want)
	}
	if r.StudentID != 7 {
		t.Errorf("StudentID = %v, want 7", r.StudentID)
	}
	if len(r.Grades) != 3 {
		t.Fatalf("len(Grades) = %d, want 3", len(r.Grades))
	}
	if r.Grades[1].Grade.Valid || !r.Grades[1].GradeDate.IsZero() {
		t.Errorf("Grades[1] = %+v, want null grade & date", r.Grades[1])
	}
	if got := r.Grades[1].FormatGrade(); got != "Not graded yet" {
		t.Errorf("FormatGrade() = %q", got)
	}
	if got := r.Grades[0].GradeDate.String(); got != "2024-01-15" {
		t.Errorf("GradeDate = %q, want 2024-01-15", got)
	}
	if got := Summarize(r).String(); got != "3 enrolled / 2 graded, GPA 80.00" {
		t.Errorf("Summarize() = %q", got)
	}
}
