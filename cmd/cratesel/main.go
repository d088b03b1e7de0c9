/*
Package main is the cratesel cli tool (Crate Selector).
It resolves the latest stable and pre-release versions of crates from version
lists, crates.io database dumps and the local cargo cache, fetches them and
runs clippy over the cached ones.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/jessevdk/go-flags"
	"github.com/spf13/afero"

	"github.com/woozymasta/cratesel/internal/fetch"
	"github.com/woozymasta/cratesel/internal/lint"
	"github.com/woozymasta/cratesel/internal/logging"
)

type Options struct {
	// betteralign:ignore

	Global OptionsGlobal `group:"Global options"`

	Resolve ResolveCommand `command:"resolve" description:"Resolve versions read from stdin"`
	Top     TopCommand     `command:"top"     description:"Print the resolved versions of the most downloaded crates of a dump"`
	Fetch   FetchCommand   `command:"fetch"   description:"Download the resolved versions of the most downloaded crates into the cargo cache"`
	Cache   CacheCommand   `command:"cache"   description:"Print the resolved versions of the crates in the cargo cache"`
	Lint    LintCommand    `command:"lint"    description:"Run clippy over the resolved crates of the cargo cache and write a lint report"`
}

type OptionsGlobal struct {
	Config   func(string) error `short:"c" long:"config"    description:"INI file with options; flags given after it win" no-ini:"true"`
	LogLevel string             `short:"l" long:"log-level" description:"Log level" env:"CRATESEL_LOG_LEVEL" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"off" default:"info"`
	LogJSON  bool               `long:"log-json"           description:"Write logs as JSON lines" env:"CRATESEL_LOG_JSON"`
}

// app carries the process environment into the commands.
type app struct {
	ctx     context.Context
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
	fs      afero.Fs
	runner  fetch.Runner // nil means cargo
	checker lint.Checker // nil means clippy
	opts    *Options
	log     hclog.Logger
}

func (a *app) logger() hclog.Logger {
	if a.log == nil {
		a.log = logging.New(a.opts.Global.LogLevel, a.opts.Global.LogJSON, a.stderr)
	}

	return a.log
}

func (a *app) print(v fmt.Stringer) {
	fmt.Fprintln(a.stdout, v)
}

func newParser(a *app, popts flags.Options) *flags.Parser {
	opts := &Options{}
	opts.Resolve.app = a
	opts.Top.app = a
	opts.Fetch.app = a
	opts.Cache.app = a
	opts.Lint.app = a
	a.opts = opts

	var parser *flags.Parser
	opts.Global.Config = func(path string) error {
		if err := flags.NewIniParser(parser).ParseFile(path); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}

		return nil
	}

	parser = flags.NewParser(opts, popts)
	parser.LongDescription = `cratesel - Crate Selector.
Picks the latest stable release of every crate plus the latest pre-release of each
pre-release stream (alpha, beta, rc, ...) that is newer than that release.
Versions follow major.minor.patch[-stream.number][+build].`

	return parser
}

func run(ctx context.Context, a *app, args []string, popts flags.Options) int {
	a.ctx = ctx

	if _, err := newParser(a, popts).ParseArgs(args); err != nil {
		if flagErr, ok := err.(*flags.Error); ok && flagErr.Type == flags.ErrHelp {
			return 0
		}

		return 1
	}

	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		fs:     afero.NewOsFs(),
	}

	code := run(ctx, a, os.Args[1:], flags.Default)
	stop()
	os.Exit(code)
}
