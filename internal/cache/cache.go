// Package cache inspects the crate archives cargo keeps under
// $CARGO_HOME/registry/cache.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/woozymasta/cratesel"
)

// DefaultIndex is the cache directory of the crates.io git index.
const DefaultIndex = "github.com-1ecc6299db9ec823"

// EnvCargoHome names the variable cargo itself reads.
const EnvCargoHome = "CARGO_HOME"

// CargoHome returns $CARGO_HOME, or ~/.cargo when it is unset.
func CargoHome() (string, error) {
	if dir := os.Getenv(EnvCargoHome); dir != "" {
		return dir, nil
	}

	dir, err := homedir.Expand(filepath.Join("~", ".cargo"))
	if err != nil {
		return "", fmt.Errorf("locate cargo home: %w", err)
	}

	return dir, nil
}

// Cache is one registry cache directory.
type Cache struct {
	FS afero.Afero

	// Dir holds the {name}-{version}.crate archives.
	Dir string
}

// New returns the cache of index under cargoHome. An empty index means
// DefaultIndex.
func New(fs afero.Fs, cargoHome, index string) *Cache {
	if index == "" {
		index = DefaultIndex
	}

	return &Cache{
		FS:  afero.Afero{Fs: fs},
		Dir: filepath.Join(cargoHome, "registry", "cache", index),
	}
}

// Path returns where the archive of id is stored.
func (c *Cache) Path(id cratesel.PackageID) string {
	return filepath.Join(c.Dir, id.FileName())
}

// Has reports whether the archive of id is present.
func (c *Cache) Has(id cratesel.PackageID) bool {
	ok, err := c.FS.Exists(c.Path(id))
	return err == nil && ok
}

// Scan aggregates every archive in the cache, per crate name. Files that are
// not crate archives are ignored. A missing cache directory is an empty Set.
// Archives are pushed in directory order, which is lexical.
func (c *Cache) Scan() (*cratesel.Set, error) {
	set := cratesel.NewSet()

	entries, err := c.FS.ReadDir(c.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}

		return nil, fmt.Errorf("scan %s: %w", c.Dir, err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}

		id, ok := cratesel.ParseFileName(e.Name())
		if !ok {
			continue
		}

		set.Push(id.Name, id.Version)
	}

	return set, nil
}
