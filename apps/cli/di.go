package main

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/dig"

	"github.com/trezcool/academia/apps/cli/screens"
	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/session"
	"github.com/trezcool/academia/core/user"
	logsvc "github.com/trezcool/academia/services/logger"
	schoolsvc "github.com/trezcool/academia/services/school"
	"github.com/trezcool/academia/storage"
)

// options are the global flags, read before the container is built.
type options struct {
	ephemeral bool
}

type streams struct {
	in  io.Reader
	out io.Writer
}

func newConfig(opts options) func() (*core.Config, error) {
	return func() (*core.Config, error) {
		conf, err := core.NewConfig()
		if err != nil {
			return nil, err
		}
		if opts.ephemeral {
			conf.Session.Backend = storage.Memory
		}
		return conf, nil
	}
}

func newLogger(conf *core.Config) *logsvc.RollbarLogger {
	logger := logsvc.NewRollbarLogger(logsvc.NewZerolog(conf, os.Stderr), conf)
	logger.Enable(conf.RollbarToken != "" && !conf.Debug && !conf.TestMode)
	return logger
}

func newValidator() *core.Validator {
	v := core.NewValidator()
	v.Register(user.InitValidators)
	return v
}

// newSessionStore logs in through the client, which in turn reads its bearer token from the store.
func newSessionStore(kv core.Storage, client *schoolsvc.Client, logger core.Logger) *session.Store {
	s := session.NewStore(kv, client.Auth, logger)
	client.SetTokenSource(s)
	return s
}

func newEnv(conf *core.Config, client *schoolsvc.Client, store *session.Store, v *core.Validator, logger core.Logger) *screens.Env {
	return &screens.Env{
		API:          client,
		Session:      store,
		Validator:    v,
		Logger:       logger,
		DownloadsDir: conf.DownloadsDir,
	}
}

// newContainer returns the dependency injection dig.Container of the CLI.
func newContainer(opts options, s streams) *dig.Container {
	c := dig.New()

	must(c.Provide(newConfig(opts)))
	must(c.Provide(newLogger, dig.As(new(core.Logger))))
	must(c.Provide(storage.Open))
	must(c.Provide(schoolsvc.NewClient))
	must(c.Provide(newSessionStore))
	must(c.Provide(newValidator))
	must(c.Provide(newEnv))
	must(c.Provide(func(env *screens.Env) *commandLine {
		return newCommandLine(env, s.in, s.out)
	}))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
