package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/academia/apps/cli/screens"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/access"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errUnauthorized = errors.New("not allowed")
)

// action renders a page once the gate let it through.
type action func(ctx context.Context, params access.Params) error

type commandLine struct {
	env *screens.Env
	in  *bufio.Reader
	ui  *ui
}

func newCommandLine(env *screens.Env, in io.Reader, out io.Writer) *commandLine {
	if env.Logger == nil {
		env.Logger = core.NopLogger{}
	}
	return &commandLine{env: env, in: bufio.NewReader(in), ui: newUI(out)}
}

func (cli *commandLine) printUsage() {
	cli.ui.println("Usage: academia [-ephemeral] COMMAND [ARGS]")
	cli.ui.println("  login [-email EMAIL] [-next PATH]   - log in, the password is prompted")
	cli.ui.println("  logout                              - end the session")
	cli.ui.println("  whoami                              - show the logged in user")
	cli.ui.println("  dashboard                           - show the dashboard")
	cli.ui.println("  profile                             - show your profile")
	cli.ui.println("  passwd                              - change your password")
	cli.ui.println("  students list|show|new|edit|delete|transcript [ID]")
	cli.ui.println("  teachers list|show|new|edit|delete [ID]")
	cli.ui.println("  courses list|show|new|edit|delete|roster [ID]")
	cli.ui.println("  grades [-transcript]                - show your grades or download your transcript")
	cli.ui.println("  register                            - create a user account")
	cli.ui.println("  open PATH                           - open a page by path, eg. /students/7")
}

func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	if err := cli.env.Session.Init(ctx); err != nil {
		// a broken persisted session is dropped, the user logs in again
		cli.env.Logger.Warn("restoring session", err)
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case "login":
		return cli.loginCmd(ctx, rest)
	case "logout":
		return cli.logout(ctx)
	case "whoami":
		return cli.whoami()
	case "dashboard":
		return cli.visit(ctx, access.Path("dashboard"), nil)
	case "profile":
		return cli.visit(ctx, access.Path("profile"), nil)
	case "passwd":
		return cli.visit(ctx, access.Path("profile.password"), cli.changePassword)
	case "students":
		return cli.studentsCmd(ctx, rest)
	case "teachers":
		return cli.teachersCmd(ctx, rest)
	case "courses":
		return cli.coursesCmd(ctx, rest)
	case "grades":
		return cli.gradesCmd(ctx, rest)
	case "register":
		return cli.registerCmd(ctx, rest)
	case "open":
		if len(rest) != 1 {
			cli.printUsage()
			return errHelp
		}
		return cli.visit(ctx, rest[0], nil)
	default:
		cli.printUsage()
		return errHelp
	}
}

// visit gates path and runs act, or the page's default view when act is nil.
// A login redirect prompts for credentials then resumes path.
func (cli *commandLine) visit(ctx context.Context, path string, act action) error {
	for prompted := false; ; prompted = true {
		var current *session.Session
		if sess, ok := cli.env.Session.Current(); ok {
			current = &sess
		}
		route, params, decision, err := access.Resolve(cli.env.Session.State(), current, path)
		if err != nil {
			return err
		}

		switch decision.Outcome {
		case access.OutcomeRender:
			if act == nil {
				if act = cli.view(route.Name); act == nil {
					return errors.Errorf("%s needs input, use the matching command", path)
				}
			}
			return act(ctx, params)
		case access.OutcomeRedirectLogin:
			if prompted {
				return screens.ErrNotLoggedIn
			}
			cli.ui.println("Please log in to continue.")
			next, err := cli.login(ctx, "", decision.Location)
			if err != nil {
				return err
			}
			path = next
		case access.OutcomeRedirectUnauthorized:
			cli.ui.unauthorized()
			return errUnauthorized
		default:
			return errors.New("session is still loading")
		}
	}
}

// view returns the default action of pages which need no input.
func (cli *commandLine) view(route string) action {
	views := map[string]action{
		"login":               cli.loginPage,
		"unauthorized":        cli.unauthorizedPage,
		"dashboard":           cli.dashboard,
		"profile":             cli.profile,
		"students.list":       cli.studentList,
		"students.show":       cli.studentDetail,
		"students.transcript": cli.studentTranscript,
		"teachers.list":       cli.teacherList,
		"teachers.show":       cli.teacherDetail,
		"courses.list":        cli.courseList,
		"courses.show":        cli.courseDetail,
		"courses.roster":      cli.courseRoster,
		"grades":              cli.myGrades,
		"grades.transcript":   cli.myTranscript,
	}
	return views[route]
}

// Prompts

func (cli *commandLine) prompt(label string) (string, error) {
	cli.ui.printf("%s: ", label)
	line, err := cli.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrapf(err, "reading %s", strings.ToLower(label))
	}
	return strings.TrimSpace(line), nil
}

func (cli *commandLine) promptPassword(label string) (string, error) {
	cli.ui.printf("%s: ", label)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	cli.ui.println()
	if err != nil {
		return "", errors.Wrap(err, "reading password")
	}
	return string(pwd), nil
}

// Flags

// setFlags returns the names of the flags given on the command line.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// parseIDArg parses the single positional id of a sub command.
func parseIDArg(fs *flag.FlagSet, args []string) (core.ID, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		fs.Usage()
		return 0, errHelp
	}
	id, err := core.ParseID(args[0])
	if err != nil {
		return 0, err
	}
	if err := fs.Parse(args[1:]); err != nil {
		return 0, errHelp
	}
	return id, nil
}

func (cli *commandLine) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.ui.out)
	return fs
}

// dateFlag parses an optional YYYY-MM-DD flag value.
func dateFlag(name, value string) (core.Date, error) {
	d, err := core.ParseDate(value)
	if err != nil {
		return core.Date{}, core.NewValidationError(nil, core.FieldError{Field: name, Error: err.Error()})
	}
	return d, nil
}

// confirm asks a yes/no question, no being the default.
func (cli *commandLine) confirm(question string) (bool, error) {
	answer, err := cli.prompt(question + " [y/N]")
	if err != nil {
		return false, err
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes", nil
}

// Auth

func (cli *commandLine) loginCmd(ctx context.Context, args []string) error {
	fs := cli.flagSet("login")
	email := fs.String("email", "", "The account's email. Prompted if not given.")
	next := fs.String("next", "", "The page to open once logged in.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	location := access.LoginPath
	if *next != "" {
		location = access.LoginLocation(*next)
	}
	path, err := cli.login(ctx, *email, location)
	if err != nil {
		return err
	}
	if *next == "" {
		return nil
	}
	return cli.visit(ctx, path, nil)
}

// login prompts for what is missing, starts a session and returns the path to resume.
func (cli *commandLine) login(ctx context.Context, email, location string) (string, error) {
	var err error
	if email == "" {
		if email, err = cli.prompt("Email"); err != nil {
			return "", err
		}
	}
	pwd, err := cli.promptPassword("Password")
	if err != nil {
		return "", err
	}

	sess, next, err := screens.NewLogin(cli.env).Submit(ctx, user.Credentials{Email: email, Password: pwd}, location)
	if err != nil {
		return "", err
	}
	cli.ui.success(fmt.Sprintf("Logged in as %s (%s).", sess.Email, sess.Role))
	return next, nil
}

func (cli *commandLine) loginPage(ctx context.Context, _ access.Params) error {
	_, err := cli.login(ctx, "", access.LoginPath)
	return err
}

func (cli *commandLine) unauthorizedPage(context.Context, access.Params) error {
	cli.ui.unauthorized()
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	if err := screens.NewLogin(cli.env).Logout(ctx); err != nil {
		return err
	}
	cli.ui.success("Logged out.")
	return nil
}

func (cli *commandLine) whoami() error {
	sess, ok := cli.env.Session.Current()
	if !ok {
		return screens.ErrNotLoggedIn
	}
	cli.ui.record(userRecord(sess.User))
	return nil
}

func (cli *commandLine) registerCmd(ctx context.Context, args []string) error {
	fs := cli.flagSet("register")
	email := fs.String("email", "", "The new user's email.")
	first := fs.String("first", "", "First name.")
	last := fs.String("last", "", "Last name.")
	role := fs.String("role", "", "One of admin, teacher or student.")
	active := fs.Bool("active", true, "Whether the account can log in.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}

	return cli.visit(ctx, access.Path("users.new"), func(ctx context.Context, _ access.Params) error {
		pwd, err := cli.promptPassword("Password")
		if err != nil {
			return err
		}
		usr, err := screens.NewRegister(cli.env).Submit(ctx, user.NewUser{
			Email:     *email,
			Password:  pwd,
			FirstName: *first,
			LastName:  *last,
			Role:      user.Role(strings.ToUpper(core.CleanString(*role))),
			IsActive:  *active,
		})
		if err != nil {
			return err
		}
		cli.ui.success("User registered.")
		cli.ui.record(userRecord(usr))
		return nil
	})
}

// Profile

func (cli *commandLine) profile(ctx context.Context, _ access.Params) error {
	p := screens.NewProfile(cli.env)
	if err := p.Load(ctx); err != nil {
		return err
	}
	cli.ui.title("My Profile")
	cli.ui.record(userRecord(p.User))
	return nil
}

func (cli *commandLine) changePassword(ctx context.Context, _ access.Params) error {
	var pc user.PasswordChange
	var err error
	if pc.CurrentPassword, err = cli.promptPassword("Current password"); err != nil {
		return err
	}
	if pc.NewPassword, err = cli.promptPassword("New password"); err != nil {
		return err
	}
	if pc.ConfirmPassword, err = cli.promptPassword("Confirm new password"); err != nil {
		return err
	}
	if err := screens.NewProfile(cli.env).ChangePassword(ctx, pc); err != nil {
		return err
	}
	cli.ui.success("Password changed.")
	return nil
}

// Dashboard

func (cli *commandLine) dashboard(ctx context.Context, _ access.Params) error {
	d := screens.NewDashboard(cli.env)
	if err := d.Load(ctx); err != nil {
		return err
	}
	cli.ui.title("Welcome, " + d.User.FullName())

	if d.User.IsStudent() {
		if d.Student == nil {
			cli.ui.banner(screens.ErrNoStudentProfile)
			return nil
		}
		cli.ui.printf("Enrolled courses: %d\n", d.Stats.Courses)
		cli.ui.printf("%s\n", d.Summary)
		cli.ui.title("Recent grades")
		cli.ui.grades(d.Recent())
		return nil
	}

	cli.ui.printf("Students: %d\n", d.Stats.Students)
	cli.ui.printf("Teachers: %d\n", d.Stats.Teachers)
	cli.ui.printf("Courses: %d\n", d.Stats.Courses)
	return nil
}

// Grades

func (cli *commandLine) gradesCmd(ctx context.Context, args []string) error {
	fs := cli.flagSet("grades")
	transcript := fs.Bool("transcript", false, "Download your transcript instead.")
	if err := fs.Parse(args); err != nil {
		return errHelp
	}
	if *transcript {
		return cli.visit(ctx, access.Path("grades.transcript"), nil)
	}
	return cli.visit(ctx, access.Path("grades"), nil)
}

func (cli *commandLine) myGrades(ctx context.Context, _ access.Params) error {
	g := screens.NewMyGrades(cli.env)
	if err := g.Load(ctx); err != nil {
		return err
	}
	cli.ui.title("My Grades")
	cli.ui.gradeReport(g.Report, g.Summary)
	return nil
}

func (cli *commandLine) myTranscript(ctx context.Context, _ access.Params) error {
	path, err := screens.NewMyGrades(cli.env).Transcript(ctx)
	if err != nil {
		return err
	}
	cli.ui.success("Transcript saved to " + path)
	return nil
}
