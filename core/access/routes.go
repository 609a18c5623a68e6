package access

import (
	"net/url"
	"strings"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/user"
)

// Route binds a path pattern to the roles allowed on it.
// Segments starting with ':' are parameters.
type Route struct {
	Name    string
	Pattern string
	Public  bool
	Roles   []user.Role // empty: any authenticated user
}

// Params are the values of a matched route's parameters.
type Params map[string]string

// ID parses the named parameter as a backend id.
func (p Params) ID(name string) (core.ID, error) {
	return core.ParseID(p[name])
}

var (
	staff     = []user.Role{user.RoleAdmin, user.RoleTeacher}
	adminOnly = []user.Role{user.RoleAdmin}
	students  = []user.Role{user.RoleStudent}
)

// Routes is every screen of the application with its role requirement.
// Literal routes come before parametrized siblings so "/students/new" is not read as an id.
var Routes = []Route{
	{Name: "login", Pattern: LoginPath, Public: true},
	{Name: "unauthorized", Pattern: UnauthorizedPath, Public: true},

	{Name: "dashboard", Pattern: "/"},
	{Name: "profile", Pattern: "/profile"},
	{Name: "profile.password", Pattern: "/profile/password"},

	{Name: "students.list", Pattern: "/students", Roles: staff},
	{Name: "students.new", Pattern: "/students/new", Roles: adminOnly},
	{Name: "students.show", Pattern: "/students/:id", Roles: staff},
	{Name: "students.edit", Pattern: "/students/:id/edit", Roles: adminOnly},
	{Name: "students.delete", Pattern: "/students/:id/delete", Roles: adminOnly},
	{Name: "students.transcript", Pattern: "/students/:id/transcript", Roles: staff},

	{Name: "teachers.list", Pattern: "/teachers", Roles: adminOnly},
	{Name: "teachers.new", Pattern: "/teachers/new", Roles: adminOnly},
	{Name: "teachers.show", Pattern: "/teachers/:id", Roles: adminOnly},
	{Name: "teachers.edit", Pattern: "/teachers/:id/edit", Roles: adminOnly},
	{Name: "teachers.delete", Pattern: "/teachers/:id/delete", Roles: adminOnly},

	{Name: "courses.list", Pattern: "/courses"},
	{Name: "courses.new", Pattern: "/courses/new", Roles: staff},
	{Name: "courses.show", Pattern: "/courses/:id"},
	{Name: "courses.edit", Pattern: "/courses/:id/edit", Roles: staff},
	{Name: "courses.delete", Pattern: "/courses/:id/delete", Roles: adminOnly},
	{Name: "courses.roster", Pattern: "/courses/:id/students", Roles: staff},

	{Name: "grades", Pattern: "/my-grades", Roles: students},
	{Name: "grades.transcript", Pattern: "/my-grades/transcript", Roles: students},

	{Name: "users.new", Pattern: "/users/new", Roles: adminOnly},
}

// Match finds the route for path. The query string and a trailing slash are ignored.
func Match(path string) (Route, Params, bool) {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	segs := split(path)
	for _, r := range Routes {
		if params, ok := match(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func match(pattern, segs []string) (Params, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := make(Params)
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}

// Path builds the path of the named route, filling its parameters in order.
func Path(name string, args ...interface{}) string {
	for _, r := range Routes {
		if r.Name != name {
			continue
		}
		segs := split(r.Pattern)
		for i, s := range segs {
			if strings.HasPrefix(s, ":") && len(args) > 0 {
				segs[i] = toString(args[0])
				args = args[1:]
			}
		}
		return "/" + strings.Join(segs, "/")
	}
	return HomePath
}

func toString(v interface{}) string {
	switch v := v.(type) {
	case string:
		return v
	case core.ID:
		return v.String()
	case int:
		return core.ID(v).String()
	}
	return ""
}
