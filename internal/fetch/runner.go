package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Runner downloads the dependencies of the package in dir.
type Runner interface {
	Run(ctx context.Context, dir string) error
}

// Cargo runs "cargo fetch".
type Cargo struct {
	// Bin is the cargo executable; empty means "cargo" from PATH.
	Bin string

	// Home is exported as CARGO_HOME when set.
	Home string
}

// Run implements Runner.
func (c Cargo) Run(ctx context.Context, dir string) error {
	bin := c.Bin
	if bin == "" {
		bin = "cargo"
	}

	cmd := exec.CommandContext(ctx, bin, "fetch")
	cmd.Dir = dir
	if c.Home != "" {
		cmd.Env = append(os.Environ(), "CARGO_HOME="+c.Home)
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s fetch: %w: %s", bin, err, bytes.TrimSpace(out))
	}

	return nil
}
