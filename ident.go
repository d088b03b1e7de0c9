package cratesel

import (
	"path"
	"strings"
)

// CrateExt is the file extension of cached crate archives.
const CrateExt = ".crate"

// PackageID pairs a package name with one of its versions.
// Its String form "name-version" names cached artifacts and must stay byte-stable.
type PackageID struct {
	Name    string
	Version Version
}

func (id PackageID) String() string {
	return id.Name + "-" + id.Version.String()
}

// FileName returns the cache archive name, "name-version.crate".
func (id PackageID) FileName() string {
	return id.String() + CrateExt
}

// Requirement returns the manifest dependency line: name = "version".
func (id PackageID) Requirement() string {
	return id.Name + ` = "` + id.Version.String() + `"`
}

// ParsePackageID splits "name-version" at the rightmost hyphen whose suffix is a
// valid Version. Package names may contain hyphens and so may versions, hence the
// right-to-left scan.
//
// The split is heuristic: a name ending in a segment that itself looks like
// "-X.Y.Z" is indistinguishable from a version boundary, and the rightmost
// candidate wins. Build metadata containing a hyphen splits the same way:
// "foo-1.0.0+build-1.2.3" yields name "foo-1.0.0+build", version "1.2.3".
func ParsePackageID(s string) (PackageID, bool) {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] != '-' {
			continue
		}

		v, ok := Parse(s[i+1:])
		if !ok {
			continue
		}

		if i == 0 {
			return PackageID{}, false
		}

		return PackageID{Name: s[:i], Version: v}, true
	}

	return PackageID{}, false
}

// ParseFileName parses a cache archive path such as
// "registry/cache/index/serde-1.0.0.crate". Directories are dropped and the
// ".crate" extension is required.
func ParseFileName(file string) (PackageID, bool) {
	base := path.Base(strings.ReplaceAll(file, `\`, "/"))

	stem, ok := strings.CutSuffix(base, CrateExt)
	if !ok {
		return PackageID{}, false
	}

	return ParsePackageID(stem)
}
