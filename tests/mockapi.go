package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/report"
	"github.com/trezcool/academia/core/student"
	"github.com/trezcool/academia/core/teacher"
	"github.com/trezcool/academia/core/user"
)

const tokenPrefix = "mock-token-"

// TranscriptPDF is what the mock serves as a transcript: a PDF header followed by non UTF-8 bytes.
var TranscriptPDF = []byte("%PDF-1.4\n\x00\x01\x02\xff\xfe%%EOF\n")

// RecordedRequest is a request as received by the mock backend.
type RecordedRequest struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	ContentType   string
	RequestID     string
	Body          []byte
}

type account struct {
	user.User
	password string
}

type enrollment struct {
	courseID core.ID
	grade    null.Float64
}

type failure struct {
	status int
	detail interface{}
}

// MockAPI is an in-process school backend speaking the REST contract of the real one.
type MockAPI struct {
	URL    string
	server *httptest.Server

	mu          sync.Mutex
	lastID      core.ID
	accounts    map[core.ID]*account
	students    map[core.ID]student.Student
	teachers    map[core.ID]teacher.Teacher
	courses     map[core.ID]course.Course
	enrollments map[core.ID][]enrollment // by student
	failures    map[string]failure
	requests    []RecordedRequest
}

// NewMockAPI starts a mock backend, closed when the test ends.
func NewMockAPI(t *testing.T) *MockAPI {
	t.Helper()
	m := &MockAPI{
		accounts:    make(map[core.ID]*account),
		students:    make(map[core.ID]student.Student),
		teachers:    make(map[core.ID]teacher.Teacher),
		courses:     make(map[core.ID]course.Course),
		enrollments: make(map[core.ID][]enrollment),
		failures:    make(map[string]failure),
	}
	m.server = httptest.NewServer(m.router())
	m.URL = m.server.URL
	t.Cleanup(m.server.Close)
	return m
}

// Config returns a configuration pointing at the mock.
func (m *MockAPI) Config() *core.Config {
	return &core.Config{
		Env:          "TEST",
		TestMode:     true,
		AppName:      "Academia",
		DownloadsDir: ".",
		API:          core.APIConfig{BaseURL: m.URL, Timeout: 5 * time.Second},
		Session:      core.SessionConfig{Backend: "memory"},
	}
}

// Token is the bearer token the mock issues to usr.
func (m *MockAPI) Token(usr user.User) string {
	return tokenPrefix + usr.ID.String()
}

// Fail makes every call to "METHOD /path" answer status with {"detail": detail}.
func (m *MockAPI) Fail(method, path string, status int, detail interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method+" "+path] = failure{status: status, detail: detail}
}

// Requests returns the calls received so far.
func (m *MockAPI) Requests() []RecordedRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RecordedRequest(nil), m.requests...)
}

// LastRequest returns the last call to "METHOD /path".
func (m *MockAPI) LastRequest(method, path string) (RecordedRequest, bool) {
	reqs := m.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Method == method && reqs[i].Path == path {
			return reqs[i], true
		}
	}
	return RecordedRequest{}, false
}

func (m *MockAPI) nextID() core.ID {
	m.lastID++
	return m.lastID
}

// AddUser creates an account that can log in with email and pwd.
func (m *MockAPI) AddUser(email, pwd, firstName, lastName string, role user.Role) user.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addUser(email, pwd, firstName, lastName, role)
}

func (m *MockAPI) addUser(email, pwd, firstName, lastName string, role user.Role) user.User {
	usr := user.User{
		ID:        m.nextID(),
		Email:     strings.ToLower(email),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		IsActive:  true,
	}
	m.accounts[usr.ID] = &account{User: usr, password: pwd}
	return usr
}

// AddStudent creates a student account along with its student profile.
func (m *MockAPI) AddStudent(email, firstName, lastName string, gradeLevel int) (user.User, student.Student) {
	m.mu.Lock()
	defer m.mu.Unlock()
	usr := m.addUser(email, "password", firstName, lastName, user.RoleStudent)
	stud := student.Student{
		ID:             m.nextID(),
		UserID:         usr.ID,
		EnrollmentDate: core.NewDate(2023, time.September, 1),
		GradeLevel:     gradeLevel,
		User:           &usr,
	}
	m.students[stud.ID] = stud
	return usr, stud
}

// AddTeacher creates a teacher account along with its teacher profile.
func (m *MockAPI) AddTeacher(email, firstName, lastName, department string) (user.User, teacher.Teacher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	usr := m.addUser(email, "password", firstName, lastName, user.RoleTeacher)
	tchr := teacher.Teacher{
		ID:            m.nextID(),
		UserID:        usr.ID,
		HireDate:      core.NewDate(2020, time.January, 6),
		Qualification: "MSc",
		Department:    department,
		User:          &usr,
	}
	m.teachers[tchr.ID] = tchr
	return usr, tchr
}

func (m *MockAPI) AddCourse(name, code string, credits int, teacherID *core.ID) course.Course {
	m.mu.Lock()
	defer m.mu.Unlock()
	crs := course.Course{ID: m.nextID(), Name: name, Code: code, Credits: credits, TeacherID: teacherID}
	m.courses[crs.ID] = m.withTeacher(crs)
	return m.courses[crs.ID]
}

// Enroll enrolls a student in a course; a null grade means not graded yet.
func (m *MockAPI) Enroll(studentID, courseID core.ID, grade null.Float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enrollments[studentID] = append(m.enrollments[studentID], enrollment{courseID: courseID, grade: grade})
}

// HasStudent reports whether the student still exists on the backend.
func (m *MockAPI) HasStudent(id core.ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.students[id]
	return ok
}

func (m *MockAPI) withTeacher(crs course.Course) course.Course {
	crs.Teacher = nil
	if crs.TeacherID != nil {
		if tchr, ok := m.teachers[*crs.TeacherID]; ok {
			crs.Teacher = &course.TeacherRef{ID: tchr.ID, UserID: tchr.UserID, User: tchr.User}
		}
	}
	return crs
}

func (m *MockAPI) router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		he, ok := err.(*echo.HTTPError)
		if !ok {
			he = echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		_ = c.JSON(he.Code, echo.Map{"detail": he.Message})
	}
	e.Use(m.record, m.injectFailures)

	e.POST("/auth/login", m.login)

	authed := e.Group("", m.authenticate)
	authed.POST("/auth/change-password", m.changePassword)
	authed.GET("/users/me", m.me)
	authed.POST("/users/", m.register, requireRole(user.RoleAdmin))

	authed.GET("/students/", m.listStudents)
	authed.POST("/students/", m.createStudent, requireRole(user.RoleAdmin))
	authed.GET("/students/:id", m.getStudent)
	authed.PUT("/students/:id", m.updateStudent, requireRole(user.RoleAdmin))
	authed.DELETE("/students/:id", m.deleteStudent, requireRole(user.RoleAdmin))

	authed.GET("/teachers/", m.listTeachers)
	authed.POST("/teachers/", m.createTeacher, requireRole(user.RoleAdmin))
	authed.GET("/teachers/:id", m.getTeacher)
	authed.PUT("/teachers/:id", m.updateTeacher, requireRole(user.RoleAdmin))
	authed.DELETE("/teachers/:id", m.deleteTeacher, requireRole(user.RoleAdmin))

	authed.GET("/courses/", m.listCourses)
	authed.POST("/courses/", m.createCourse, requireRole(user.RoleAdmin, user.RoleTeacher))
	authed.GET("/courses/:id", m.getCourse)
	authed.PUT("/courses/:id", m.updateCourse, requireRole(user.RoleAdmin, user.RoleTeacher))
	authed.DELETE("/courses/:id", m.deleteCourse, requireRole(user.RoleAdmin))
	authed.GET("/courses/:id/students", m.roster, requireRole(user.RoleAdmin, user.RoleTeacher))

	authed.GET("/reports/students/:id/grades", m.gradeReport)
	authed.GET("/reports/students/:id/transcript", m.transcript)
	return e
}

// Middleware

func (m *MockAPI) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		body, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(body))

		m.mu.Lock()
		m.requests = append(m.requests, RecordedRequest{
			Method:        req.Method,
			Path:          req.URL.Path,
			Query:         req.URL.RawQuery,
			Authorization: req.Header.Get(echo.HeaderAuthorization),
			ContentType:   req.Header.Get(echo.HeaderContentType),
			RequestID:     req.Header.Get(echo.HeaderXRequestID),
			Body:          body,
		})
		m.mu.Unlock()
		return next(c)
	}
}

func (m *MockAPI) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		m.mu.Lock()
		f, ok := m.failures[c.Request().Method+" "+c.Request().URL.Path]
		m.mu.Unlock()
		if !ok {
			return next(c)
		}
		if f.detail == nil {
			return c.NoContent(f.status)
		}
		return c.JSON(f.status, echo.Map{"detail": f.detail})
	}
}

const currentUserKey = "user"

func (m *MockAPI) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		tok := strings.TrimPrefix(auth, "Bearer ")
		if tok == auth || !strings.HasPrefix(tok, tokenPrefix) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
		}
		id, err := core.ParseID(strings.TrimPrefix(tok, tokenPrefix))
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
		}
		m.mu.Lock()
		acc, ok := m.accounts[id]
		m.mu.Unlock()
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Could not validate credentials")
		}
		c.Set(currentUserKey, acc.User)
		return next(c)
	}
}

func requireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if usr, ok := c.Get(currentUserKey).(user.User); !ok || !usr.HasAnyRole(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "Not enough permissions")
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) user.User {
	usr, _ := c.Get(currentUserKey).(user.User)
	return usr
}

func idParam(c echo.Context) (core.ID, error) {
	id, err := core.ParseID(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, []echo.Map{{"msg": "value is not a valid integer"}})
	}
	return id, nil
}

// Handlers

func (m *MockAPI) login(c echo.Context) error {
	email := strings.ToLower(c.FormValue("username"))
	pwd := c.FormValue("password")

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, acc := range m.accounts {
		if acc.Email == email && acc.password == pwd {
			return c.JSON(http.StatusOK, user.Token{AccessToken: m.Token(acc.User), TokenType: "bearer", User: acc.User})
		}
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect email or password")
}

func (m *MockAPI) changePassword(c echo.Context) error {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&body); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.accounts[currentUser(c).ID]
	if acc.password != body.CurrentPassword {
		return echo.NewHTTPError(http.StatusBadRequest, "Incorrect current password")
	}
	acc.password = body.NewPassword
	return c.JSON(http.StatusOK, echo.Map{"message": "Password updated successfully"})
}

func (m *MockAPI) me(c echo.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return c.JSON(http.StatusOK, m.accounts[currentUser(c).ID].User)
}

func (m *MockAPI) emailTaken(email string) bool {
	for _, acc := range m.accounts {
		if acc.Email == strings.ToLower(email) {
			return true
		}
	}
	return false
}

func (m *MockAPI) register(c echo.Context) error {
	var nu user.NewUser
	if err := c.Bind(&nu); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(nu.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}
	usr := m.addUser(nu.Email, nu.Password, nu.FirstName, nu.LastName, nu.Role)
	return c.JSON(http.StatusCreated, usr)
}

func (m *MockAPI) listStudents(c echo.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	students := make([]student.Student, 0, len(m.students))
	for _, s := range m.students {
		students = append(students, s)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return c.JSON(http.StatusOK, page(c, students))
}

func page(c echo.Context, students []student.Student) []student.Student {
	if skip, _ := strconv.Atoi(c.QueryParam("skip")); skip > 0 {
		if skip > len(students) {
			skip = len(students)
		}
		students = students[skip:]
	}
	if limit, _ := strconv.Atoi(c.QueryParam("limit")); limit > 0 && limit < len(students) {
		students = students[:limit]
	}
	return students
}

func (m *MockAPI) getStudent(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stud, ok := m.students[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Student with ID %d not found", id))
	}
	if usr := currentUser(c); usr.IsStudent() && stud.UserID != usr.ID {
		return echo.NewHTTPError(http.StatusForbidden, "Not enough permissions")
	}
	return c.JSON(http.StatusOK, stud)
}

func (m *MockAPI) createStudent(c echo.Context) error {
	var ns student.NewStudent
	if err := c.Bind(&ns); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(ns.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}
	usr := m.addUser(ns.Email, ns.Password, ns.FirstName, ns.LastName, user.RoleStudent)
	stud := student.Student{
		ID:             m.nextID(),
		UserID:         usr.ID,
		EnrollmentDate: ns.EnrollmentDate,
		GradeLevel:     ns.GradeLevel,
		ParentName:     ns.ParentName,
		ParentEmail:    ns.ParentEmail,
		User:           &usr,
	}
	m.students[stud.ID] = stud
	return c.JSON(http.StatusCreated, stud)
}

func (m *MockAPI) updateStudent(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var us student.UpdateStudent
	if err = c.Bind(&us); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stud, ok := m.students[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Student with ID %d not found", id))
	}
	if us.EnrollmentDate != nil {
		stud.EnrollmentDate = *us.EnrollmentDate
	}
	if us.GradeLevel != nil {
		stud.GradeLevel = *us.GradeLevel
	}
	if us.ParentName != nil {
		stud.ParentName = *us.ParentName
	}
	if us.ParentEmail != nil {
		stud.ParentEmail = *us.ParentEmail
	}
	acc := m.accounts[stud.UserID]
	if us.FirstName != nil {
		acc.FirstName = *us.FirstName
	}
	if us.LastName != nil {
		acc.LastName = *us.LastName
	}
	if us.Email != nil {
		acc.Email = *us.Email
	}
	if us.Password != nil {
		acc.password = *us.Password
	}
	usr := acc.User
	stud.User = &usr
	m.students[id] = stud
	return c.JSON(http.StatusOK, stud)
}

func (m *MockAPI) deleteStudent(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stud, ok := m.students[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Student with ID %d not found", id))
	}
	delete(m.students, id)
	delete(m.accounts, stud.UserID)
	delete(m.enrollments, id)
	return c.NoContent(http.StatusNoContent)
}

func (m *MockAPI) listTeachers(c echo.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	teachers := make([]teacher.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		teachers = append(teachers, t)
	}
	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return c.JSON(http.StatusOK, teachers)
}

func (m *MockAPI) getTeacher(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tchr, ok := m.teachers[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Teacher with ID %d not found", id))
	}
	return c.JSON(http.StatusOK, tchr)
}

func (m *MockAPI) createTeacher(c echo.Context) error {
	var nt teacher.NewTeacher
	if err := c.Bind(&nt); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.emailTaken(nt.Email) {
		return echo.NewHTTPError(http.StatusBadRequest, "Email already registered")
	}
	usr := m.addUser(nt.Email, nt.Password, nt.FirstName, nt.LastName, user.RoleTeacher)
	tchr := teacher.Teacher{
		ID:            m.nextID(),
		UserID:        usr.ID,
		HireDate:      nt.HireDate,
		Qualification: nt.Qualification,
		Department:    nt.Department,
		User:          &usr,
	}
	m.teachers[tchr.ID] = tchr
	return c.JSON(http.StatusCreated, tchr)
}

func (m *MockAPI) updateTeacher(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var ut teacher.UpdateTeacher
	if err = c.Bind(&ut); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	tchr, ok := m.teachers[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Teacher with ID %d not found", id))
	}
	if ut.HireDate != nil {
		tchr.HireDate = *ut.HireDate
	}
	if ut.Qualification != nil {
		tchr.Qualification = *ut.Qualification
	}
	if ut.Department != nil {
		tchr.Department = *ut.Department
	}
	acc := m.accounts[tchr.UserID]
	if ut.FirstName != nil {
		acc.FirstName = *ut.FirstName
	}
	if ut.LastName != nil {
		acc.LastName = *ut.LastName
	}
	if ut.Email != nil {
		acc.Email = *ut.Email
	}
	usr := acc.User
	tchr.User = &usr
	m.teachers[id] = tchr
	return c.JSON(http.StatusOK, tchr)
}

func (m *MockAPI) deleteTeacher(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tchr, ok := m.teachers[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Teacher with ID %d not found", id))
	}
	delete(m.teachers, id)
	delete(m.accounts, tchr.UserID)
	return c.NoContent(http.StatusNoContent)
}

func (m *MockAPI) listCourses(c echo.Context) error {
	usr := currentUser(c)

	m.mu.Lock()
	defer m.mu.Unlock()
	courses := make([]course.Course, 0, len(m.courses))
	for _, crs := range m.courses {
		// teachers only see their own courses
		if usr.IsTeacher() && (crs.Teacher == nil || crs.Teacher.UserID != usr.ID) {
			continue
		}
		courses = append(courses, crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return c.JSON(http.StatusOK, courses)
}

func (m *MockAPI) getCourse(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	crs, ok := m.courses[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Course with ID %d not found", id))
	}
	return c.JSON(http.StatusOK, crs)
}

func (m *MockAPI) codeTaken(code string, except core.ID) bool {
	for _, crs := range m.courses {
		if crs.Code == code && crs.ID != except {
			return true
		}
	}
	return false
}

func (m *MockAPI) createCourse(c echo.Context) error {
	var nc course.NewCourse
	if err := c.Bind(&nc); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.codeTaken(nc.Code, 0) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Course with code %s already exists", nc.Code))
	}
	if nc.TeacherID != nil {
		if _, ok := m.teachers[*nc.TeacherID]; !ok {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Teacher with ID %d not found", *nc.TeacherID))
		}
	}
	crs := m.withTeacher(course.Course{
		ID:          m.nextID(),
		Name:        nc.Name,
		Code:        nc.Code,
		Description: nc.Description,
		Credits:     nc.Credits,
		TeacherID:   nc.TeacherID,
	})
	m.courses[crs.ID] = crs
	return c.JSON(http.StatusCreated, crs)
}

func (m *MockAPI) updateCourse(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var uc course.UpdateCourse
	if err = c.Bind(&uc); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	crs, ok := m.courses[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Course with ID %d not found", id))
	}
	if uc.Code != nil && m.codeTaken(*uc.Code, id) {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Course with code %s already exists", *uc.Code))
	}
	if uc.Name != nil {
		crs.Name = *uc.Name
	}
	if uc.Code != nil {
		crs.Code = *uc.Code
	}
	if uc.Description != nil {
		crs.Description = *uc.Description
	}
	if uc.Credits != nil {
		crs.Credits = *uc.Credits
	}
	if uc.TeacherID != nil {
		crs.TeacherID = uc.TeacherID
	}
	crs = m.withTeacher(crs)
	m.courses[id] = crs
	return c.JSON(http.StatusOK, crs)
}

func (m *MockAPI) deleteCourse(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Course with ID %d not found", id))
	}
	delete(m.courses, id)
	return c.NoContent(http.StatusNoContent)
}

func (m *MockAPI) roster(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.courses[id]; !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("Course with ID %d not found", id))
	}
	students := make([]student.Student, 0)
	for studID, enrs := range m.enrollments {
		for _, enr := range enrs {
			if enr.courseID == id {
				students = append(students, m.students[studID])
			}
		}
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return c.JSON(http.StatusOK, students)
}

// canSee applies the backend's report rule: staff see everyone, students only themselves.
func canSee(usr user.User, stud student.Student) bool {
	return !usr.IsStudent() || stud.UserID == usr.ID
}

// GeneratedAt is the generated_at every grade report carries.
const GeneratedAt = "2024-02-01T10:00:00.123456"

func (m *MockAPI) gradeReport(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stud, ok := m.students[id]
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Student not found")
	}
	if !canSee(currentUser(c), stud) {
		return echo.NewHTTPError(http.StatusForbidden, "You don't have permission to access this student's grades")
	}

	rep := report.GradeReport{
		StudentID:      stud.ID,
		StudentName:    stud.Name(),
		GradeLevel:     stud.GradeLevel,
		EnrollmentDate: stud.EnrollmentDate,
		Grades:         make([]report.GradeInfo, 0),
	}
	for _, enr := range m.enrollments[id] {
		crs := m.courses[enr.courseID]
		gi := report.GradeInfo{
			CourseID:       crs.ID,
			CourseCode:     crs.Code,
			CourseName:     crs.Name,
			EnrollmentDate: core.NewDate(2023, time.September, 2),
			Grade:          enr.grade,
		}
		if enr.grade.Valid {
			gi.GradeDate = core.NewDate(2024, time.January, 15)
		}
		rep.Grades = append(rep.Grades, gi)
	}
	// generated_at carries no offset on the wire
	return c.JSON(http.StatusOK, struct {
		report.GradeReport
		GeneratedAt string `json:"generated_at"`
	}{rep, GeneratedAt})
}

func (m *MockAPI) transcript(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	m.mu.Lock()
	stud, ok := m.students[id]
	m.mu.Unlock()
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Failed to generate transcript - student not found")
	}
	if !canSee(currentUser(c), stud) {
		return echo.NewHTTPError(http.StatusForbidden, "You don't have permission to generate this student's transcript")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="transcript_%d.pdf"`, id))
	return c.Blob(http.StatusOK, "application/pdf", TranscriptPDF)
}
