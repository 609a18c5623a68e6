package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/trezcool/academia/core"
)

func main() {
	opts, args, err := parseOptions(os.Args)
	if err != nil {
		os.Exit(2)
	}

	c := newContainer(opts, streams{in: os.Stdin, out: os.Stdout})
	code := 0
	err = c.Invoke(func(conf *core.Config, logger core.Logger, kv core.Storage, cli *commandLine) {
		defer func() {
			if err := kv.Close(); err != nil {
				logger.Error("closing session storage", err)
			}
		}()
		if f, ok := logger.(interface{ Flush() }); ok {
			defer f.Flush()
		}

		logger.Debug(fmt.Sprintf("%s %s : session backend %q", conf.AppName, conf.Build, conf.Session.Backend))
		if err := cli.run(context.Background(), args); err != nil {
			if err != errHelp {
				cli.ui.banner(err)
			}
			code = 1
		}
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		code = 1
	}
	os.Exit(code)
}

// parseOptions reads the global flags and returns the remaining args, program name first.
func parseOptions(args []string) (options, []string, error) {
	var opts options
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep the session in memory only.")
	if err := fs.Parse(args[1:]); err != nil {
		return opts, nil, err
	}
	return opts, append([]string{args[0]}, fs.Args()...), nil
}
