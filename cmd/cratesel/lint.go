package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/woozymasta/cratesel/internal/cache"
	"github.com/woozymasta/cratesel/internal/lint"
)

type LintCommand struct {
	app *app

	Output OptionsOutput `group:"Output"`
	Cargo  OptionsCargo  `group:"Cargo"`

	Lints     []string `short:"L" long:"lint"        description:"Lint to count, repeatable; none counts every clippy lint"`
	Report    string   `short:"r" long:"report-file" description:"Report file (default: {branch}-{date}.txt, branch of --clippy-dir)"`
	ClippyDir string   `long:"clippy-dir"            description:"Clippy source checkout to build and run instead of the installed clippy"`
	Toolchain string   `long:"toolchain"             description:"Rustup channel (default: the one pinned in --clippy-dir)"`
	Bin       string   `long:"cargo"                 description:"Cargo executable" env:"CARGO" default:"cargo"`
}

func (c *LintCommand) Execute([]string) error {
	log := c.app.logger()

	home, err := cargoHome(c.Cargo)
	if err != nil {
		return err
	}

	cc := cache.New(c.app.fs, home, c.Cargo.Index)

	set, err := cc.Scan()
	if err != nil {
		return err
	}

	ids := c.Output.filter(set.ResolveAll(c.Output.mode()))
	if len(ids) == 0 {
		log.Warn("no crates in cache", "dir", cc.Dir)
	}

	checker := c.app.checker
	if checker == nil {
		if checker, err = c.clippy(home); err != nil {
			return err
		}
	}

	name := c.Report
	if name == "" {
		name = lint.ReportName(c.app.ctx, c.ClippyDir, time.Now())
	}

	f, err := c.app.fs.Create(name)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	l := &lint.Linter{
		Cache:   cc,
		Checker: checker,
		Log:     log,
		FS:      c.app.fs,
		Lints:   c.Lints,
	}

	rep, err := l.Run(c.app.ctx, ids, f)
	if err != nil {
		return fmt.Errorf("lint: %w", err)
	}

	if err := rep.WriteSummary(f); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	log.Info("lint done",
		"report", name,
		"checked", rep.Checked,
		"failed", rep.Failed,
		"with_warnings", len(rep.Crates),
	)

	return f.Close()
}

// clippy builds the checkout in --clippy-dir, if any, and returns its runner.
func (c *LintCommand) clippy(home string) (lint.Checker, error) {
	cl := lint.Clippy{Bin: c.Bin, Dir: c.ClippyDir, Toolchain: c.Toolchain, Home: home}

	if cl.Dir == "" {
		return cl, nil
	}

	if cl.Toolchain == "" {
		ch, err := lint.Toolchain(c.app.fs, cl.Dir)
		switch {
		case errors.Is(err, lint.ErrNoToolchain):
			c.app.logger().Warn("using the default toolchain", "reason", err)
		case err != nil:
			return nil, err
		}
		cl.Toolchain = ch
	}

	c.app.logger().Info("building clippy", "dir", cl.Dir, "toolchain", cl.Toolchain)

	if err := cl.Build(c.app.ctx); err != nil {
		return nil, err
	}

	return cl, nil
}
