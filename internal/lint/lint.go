// Package lint runs clippy over the crate archives of the cargo registry cache
// and tallies the lints it reports.
package lint

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/woozymasta/cratesel"
	"github.com/woozymasta/cratesel/internal/cache"
)

// TargetReset is how many crates share one target directory before it is
// wiped.
const TargetReset = 256

// NormalizeLint returns the clippy:: form of a lint name, with dashes turned
// into underscores.
func NormalizeLint(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "-", "_")
	if !strings.HasPrefix(name, "clippy::") {
		name = "clippy::" + name
	}

	return name
}

// Linter checks crates from Cache one at a time.
type Linter struct {
	Cache   *cache.Cache
	Checker Checker
	Log     hclog.Logger

	// FS hosts the unpacked crates; nil means the OS filesystem.
	FS afero.Fs

	// Lints to count. Empty counts every clippy lint reported.
	Lints []string
}

// Run checks ids in order and writes the section of every crate with
// warnings to w as soon as it is known. A crate that cannot be checked is
// logged and counted; only workspace errors, write errors and cancellation
// stop the run. The summary is left to the caller (Report.WriteSummary).
func (l *Linter) Run(ctx context.Context, ids []cratesel.PackageID, w io.Writer) (*Report, error) {
	log := l.Log
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("lint")

	fs := afero.Afero{Fs: l.FS}
	if fs.Fs == nil {
		fs.Fs = afero.NewOsFs()
	}

	rep := newReport(l.Lints)

	work, err := fs.TempDir("", "cratesel-lint-")
	if err != nil {
		return rep, fmt.Errorf("create workspace: %w", err)
	}
	defer fs.RemoveAll(work)

	target := filepath.Join(work, "target")

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		if i > 0 && i%TargetReset == 0 {
			if err := fs.RemoveAll(target); err != nil {
				log.Warn("reset target dir", "error", err)
			}
		}

		log.Info("checking", "crate", id.String(), "progress", fmt.Sprintf("%d/%d", i+1, len(ids)))

		msgs, err := l.check(ctx, fs, id, work, target, rep)
		if err != nil {
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}

			rep.Failed++
			log.Error("check failed", "crate", id.String(), "error", err)
			continue
		}

		rep.Checked++
		if len(msgs) == 0 {
			continue
		}

		log.Info("warnings", "crate", id.String(), "count", len(msgs))
		rep.Crates[id.String()] = len(msgs)

		if err := writeCrate(w, id, msgs); err != nil {
			return rep, fmt.Errorf("write report: %w", err)
		}
	}

	return rep, nil
}

func (l *Linter) check(ctx context.Context, fs afero.Afero, id cratesel.PackageID, work, target string, rep *Report) ([]string, error) {
	f, err := l.Cache.FS.Open(l.Cache.Path(id))
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	dir := filepath.Join(work, id.String())
	defer fs.RemoveAll(dir)

	err = Extract(fs, f, work)
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", id.FileName(), err)
	}

	for _, name := range []string{filepath.Join(".cargo", "config"), filepath.Join(".cargo", "config.toml"), "Cargo.lock"} {
		if err := fs.RemoveAll(filepath.Join(dir, name)); err != nil {
			return nil, fmt.Errorf("remove %s: %w", name, err)
		}
	}

	manifest := filepath.Join(dir, "Cargo.toml")
	if _, err := PrepareManifest(fs, manifest); err != nil {
		return nil, err
	}

	out, err := l.Checker.Check(ctx, Job{Manifest: manifest, TargetDir: target, Lints: rep.lints()})
	if err != nil {
		return nil, failure(out, err)
	}

	return rep.count(out), nil
}

// message is the subset of a cargo "compiler-message" line that is read.
type message struct {
	Reason  string `json:"reason"`
	Message struct {
		Rendered string `json:"rendered"`
		Level    string `json:"level"`
		Code     *struct {
			Code string `json:"code"`
		} `json:"code"`
	} `json:"message"`
}

// messages decodes the compiler messages of a cargo JSON stream. Lines that
// are not JSON objects are skipped.
func messages(out []byte) []message {
	var msgs []message
	for _, line := range bytes.Split(out, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var m message
		if err := json.Unmarshal(line, &m); err != nil || m.Reason != "compiler-message" {
			continue
		}

		msgs = append(msgs, m)
	}

	return msgs
}

// failure folds the rendered errors of a failed run into err.
func failure(out []byte, err error) error {
	var b strings.Builder
	for _, m := range messages(out) {
		if m.Message.Rendered == "" {
			continue
		}

		switch m.Message.Level {
		case "error", "error: internal compiler error":
			b.WriteString(m.Message.Rendered)
		}
	}

	if b.Len() == 0 {
		return err
	}

	return fmt.Errorf("%w\n%s", err, strings.TrimRight(b.String(), "\n"))
}
