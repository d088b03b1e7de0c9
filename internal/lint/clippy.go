package lint

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Job is one clippy run over an unpacked crate.
type Job struct {
	Manifest  string
	TargetDir string

	// Lints are enabled as warnings on top of the defaults.
	Lints []string
}

// Checker runs clippy and returns its JSON message stream. A failed run still
// returns whatever was written to stdout.
type Checker interface {
	Check(ctx context.Context, job Job) ([]byte, error)
}

// Clippy runs clippy through cargo: the installed "cargo clippy", or a clippy
// built from the source checkout in Dir.
type Clippy struct {
	// Bin is the cargo executable; empty means "cargo" from PATH.
	Bin string

	// Dir is a clippy source checkout; empty uses the installed clippy.
	Dir string

	// Toolchain selects the rustup channel ("+channel").
	Toolchain string

	// Home is exported as CARGO_HOME when set.
	Home string
}

func (c Clippy) bin() string {
	if c.Bin == "" {
		return "cargo"
	}

	return c.Bin
}

func (c Clippy) prefix() []string {
	if c.Toolchain == "" {
		return nil
	}

	return []string{"+" + c.Toolchain}
}

func (c Clippy) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.bin(), args...)
	if c.Home != "" {
		cmd.Env = append(os.Environ(), "CARGO_HOME="+c.Home)
	}

	return cmd
}

// Build compiles the checkout in Dir. It is a no-op for the installed clippy.
func (c Clippy) Build(ctx context.Context) error {
	if c.Dir == "" {
		return nil
	}

	args := append(c.prefix(), "build", "--manifest-path="+filepath.Join(c.Dir, "Cargo.toml"), "--release")

	out, err := c.command(ctx, args).CombinedOutput()
	if err != nil {
		return fmt.Errorf("build clippy: %w: %s", err, bytes.TrimSpace(out))
	}

	return nil
}

// args returns the cargo arguments of job.
func (c Clippy) args(job Job) []string {
	args := c.prefix()
	if c.Dir != "" {
		// cargo-clippy skips its first argument, the subcommand name.
		args = append(args, "--quiet", "run", "--manifest-path="+filepath.Join(c.Dir, "Cargo.toml"),
			"--release", "--bin", "cargo-clippy", "--", "--")
	} else {
		args = append(args, "clippy")
	}

	args = append(args,
		"--manifest-path", job.Manifest,
		"--quiet",
		"--message-format=json",
		"--target-dir", job.TargetDir,
		"--",
		"--cap-lints", "warn",
		"--allow", "clippy::all",
		"-C", "incremental=false",
	)

	for _, l := range job.Lints {
		args = append(args, "--warn", l)
	}

	return args
}

// Check implements Checker.
func (c Clippy) Check(ctx context.Context, job Job) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := c.command(ctx, c.args(job))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), fmt.Errorf("clippy: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return stdout.Bytes(), nil
}

// ReportName returns "{branch}-{date}.txt" for the git branch checked out in
// dir, or "{date}.txt" when dir is not a git checkout.
func ReportName(ctx context.Context, dir string, now time.Time) string {
	date := now.Format("2006-01-02")
	if dir == "" {
		return date + ".txt"
	}

	cmd := exec.CommandContext(ctx, "git", "branch", "--show-current")
	cmd.Dir = dir

	out, err := cmd.Output()
	branch := strings.TrimSpace(string(out))
	if err != nil || branch == "" {
		return date + ".txt"
	}

	return strings.ReplaceAll(branch, "/", "-") + "-" + date + ".txt"
}
