package lint

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"
)

// ErrNoToolchain is returned when a directory has no usable toolchain file.
var ErrNoToolchain = errors.New("no toolchain channel")

var depTables = []string{
	"dependencies", "dev-dependencies", "build-dependencies",
	"dev_dependencies", "build_dependencies",
}

// PrepareManifest rewrites the Cargo.toml at path so the package builds on its
// own: workspace and bench sections are dropped and path dependencies become
// registry dependencies (version "*" unless one is given). The file is only
// written when something changed, which is reported.
func PrepareManifest(fs afero.Fs, path string) (bool, error) {
	afs := afero.Afero{Fs: fs}

	body, err := afs.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read manifest: %w", err)
	}

	doc := map[string]any{}
	if _, err := toml.Decode(string(body), &doc); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	changed := false
	for _, key := range []string{"workspace", "bench"} {
		if _, ok := doc[key]; ok {
			delete(doc, key)
			changed = true
		}
	}

	if stripDepTables(doc) {
		changed = true
	}

	if targets, ok := doc["target"].(map[string]any); ok {
		for _, t := range targets {
			if tt, ok := t.(map[string]any); ok && stripDepTables(tt) {
				changed = true
			}
		}
	}

	if !changed {
		return false, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return false, fmt.Errorf("encode %s: %w", path, err)
	}

	if err := afs.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return false, fmt.Errorf("write manifest: %w", err)
	}

	return true, nil
}

func stripDepTables(t map[string]any) bool {
	changed := false
	for _, key := range depTables {
		if stripPathDeps(t[key]) {
			changed = true
		}
	}

	return changed
}

func stripPathDeps(v any) bool {
	deps, ok := v.(map[string]any)
	if !ok {
		return false
	}

	changed := false
	for _, d := range deps {
		dep, ok := d.(map[string]any)
		if !ok {
			continue
		}

		if _, ok := dep["path"]; !ok {
			continue
		}

		delete(dep, "path")
		if _, ok := dep["version"]; !ok {
			dep["version"] = "*"
		}
		changed = true
	}

	return changed
}

// Toolchain returns the channel pinned by rust-toolchain.toml or
// rust-toolchain in dir. The legacy one-line form of rust-toolchain is
// accepted too.
func Toolchain(fs afero.Fs, dir string) (string, error) {
	afs := afero.Afero{Fs: fs}

	for _, name := range []string{"rust-toolchain.toml", "rust-toolchain"} {
		path := filepath.Join(dir, name)

		body, err := afs.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return "", fmt.Errorf("read %s: %w", path, err)
		}

		var file struct {
			Toolchain struct {
				Channel string `toml:"channel"`
			} `toml:"toolchain"`
		}

		if _, err := toml.Decode(string(body), &file); err == nil {
			if file.Toolchain.Channel == "" {
				return "", fmt.Errorf("%w: %s has no [toolchain] channel", ErrNoToolchain, path)
			}

			return file.Toolchain.Channel, nil
		}

		line := strings.TrimSpace(string(body))
		if line != "" && !strings.ContainsAny(line, " \t\n=[") {
			return line, nil
		}

		return "", fmt.Errorf("%w: cannot parse %s", ErrNoToolchain, path)
	}

	return "", fmt.Errorf("%w in %s", ErrNoToolchain, dir)
}
