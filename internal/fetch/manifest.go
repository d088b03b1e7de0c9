package fetch

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/woozymasta/cratesel"
)

// Throw-away package that depends on the crate being fetched.
const (
	PackageName    = "package"
	PackageVersion = "0.1.0"
)

type manifest struct {
	Package      manifestPackage   `toml:"package"`
	Dependencies map[string]string `toml:"dependencies,omitempty"`
}

type manifestPackage struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Manifest renders a Cargo.toml whose only dependency is id, written as
// id.Requirement.
func Manifest(id cratesel.PackageID) ([]byte, error) {
	var buf bytes.Buffer

	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(manifest{Package: manifestPackage{Name: PackageName, Version: PackageVersion}}); err != nil {
		return nil, fmt.Errorf("encode manifest for %s: %w", id, err)
	}

	fmt.Fprintf(&buf, "\n[dependencies]\n%s\n", id.Requirement())

	return buf.Bytes(), nil
}
