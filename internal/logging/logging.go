// Package logging builds the hclog logger shared by the cratesel commands.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// Name is the root logger name; components derive from it with Named.
const Name = "cratesel"

// New returns a root logger writing to out (stderr when nil).
// Unknown levels fall back to info.
func New(level string, json bool, out io.Writer) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}

	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:               Name,
		Level:              lvl,
		Output:             out,
		JSONFormat:         json,
		JSONEscapeDisabled: true,
	})
}
