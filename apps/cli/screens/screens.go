// Package screens holds one stateful view model per page of the application.
// A screen fetches through the school client, keeps its own copy of what it shows
// and changes that copy only when the backend confirmed the change.
package screens

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
	schoolsvc "github.com/trezcool/academia/services/school"
)

var (
	ErrNotLoggedIn      = session.ErrNoSession
	ErrNoStudentProfile = errors.New("could not find your student profile")
	ErrNoChanges        = errors.New("nothing to update")
)

// Env is what every screen depends on.
type Env struct {
	API          *schoolsvc.Client
	Session      *session.Store
	Validator    *core.Validator
	Logger       core.Logger
	DownloadsDir string
	Now          func() time.Time
}

func (env *Env) now() time.Time {
	if env.Now == nil {
		return time.Now()
	}
	return env.Now()
}

func (env *Env) log() core.Logger {
	if env.Logger == nil {
		return core.NopLogger{}
	}
	return env.Logger
}

func (env *Env) save(base string, dl core.Download) (string, error) {
	return core.SaveDownload(env.DownloadsDir, base, dl, env.now())
}

// Banner is the last error of a screen. Every action clears it first.
type Banner struct {
	err error
}

func (b *Banner) clear() { b.err = nil }

// fail records err as the failure of action and returns the banner error.
func (b *Banner) fail(action string, err error) error {
	b.err = core.Failed(action, err)
	return b.err
}

func (b *Banner) Err() error { return b.err }

// Message is the banner text, "" when the last action succeeded.
func (b *Banner) Message() string {
	if b.err == nil {
		return ""
	}
	return b.err.Error()
}
