// Package fetch downloads crates into the cargo registry cache, one throw-away
// package per crate.
package fetch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/woozymasta/cratesel"
	"github.com/woozymasta/cratesel/internal/cache"
)

// Stats counts identifiers by outcome.
type Stats struct {
	Cached  int
	Fetched int
	Failed  int
	Planned int // dry run only
}

// Fetcher fills Cache with the archives of the requested identifiers.
type Fetcher struct {
	Cache  *cache.Cache
	Runner Runner
	Log    hclog.Logger

	// FS hosts the throw-away package; nil means the OS filesystem.
	FS afero.Fs

	// DryRun logs what would be fetched without running anything.
	DryRun bool
}

// Fetch walks ids from last to first: the tail of a download ranking holds the
// crates that popular ones depend on, so their archives land first.
// Identifiers already cached are skipped. A failed download is logged and
// counted; only workspace errors and cancellation stop the run.
func (f *Fetcher) Fetch(ctx context.Context, ids []cratesel.PackageID) (Stats, error) {
	var st Stats

	log := f.Log
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("fetch")

	fs := afero.Afero{Fs: f.FS}
	if fs.Fs == nil {
		fs.Fs = afero.NewOsFs()
	}

	work, err := fs.TempDir("", "cratesel-")
	if err != nil {
		return st, fmt.Errorf("create workspace: %w", err)
	}
	defer fs.RemoveAll(work)

	if err := fs.MkdirAll(filepath.Join(work, "src"), 0o755); err != nil {
		return st, fmt.Errorf("create workspace: %w", err)
	}

	if err := fs.WriteFile(filepath.Join(work, "src", "lib.rs"), nil, 0o644); err != nil {
		return st, fmt.Errorf("create workspace: %w", err)
	}

	for i := len(ids) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return st, err
		}

		id := ids[i]
		done := len(ids) - i

		if f.Cache.Has(id) {
			st.Cached++
			log.Trace("cached", "crate", id.String())
			continue
		}

		if f.DryRun {
			st.Planned++
			log.Info("would fetch", "crate", id.String(), "progress", fmt.Sprintf("%d/%d", done, len(ids)))
			continue
		}

		body, err := Manifest(id)
		if err != nil {
			return st, err
		}

		if err := fs.WriteFile(filepath.Join(work, "Cargo.toml"), body, 0o644); err != nil {
			return st, fmt.Errorf("write manifest for %s: %w", id, err)
		}

		log.Info("fetching", "crate", id.String(), "progress", fmt.Sprintf("%d/%d", done, len(ids)))

		if err := f.Runner.Run(ctx, work); err != nil {
			if ctx.Err() != nil {
				return st, ctx.Err()
			}

			st.Failed++
			log.Error("fetch failed", "crate", id.String(), "error", err)
			continue
		}

		st.Fetched++
	}

	return st, nil
}
