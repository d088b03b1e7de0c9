/*
Package cratesel (Crate Selector) decides which versions of a package are worth
fetching: the latest stable release, plus the latest pre-release of every
pre-release stream that is still newer than that release.

The package is I/O-agnostic: it operates on version strings and "name-version"
identifiers only. Typical flow:

 1. Decode (name, version) pairs elsewhere (e.g. a registry data dump).
 2. Push them into a Set, one Tracker per name, in the order observed.
 3. Resolve the Set and act on the identifiers.

Version grammar:

	major.minor.patch[-stream.number][+build]

Numeric parts are 16-bit unsigned integers. Pre-release identifiers are limited
to a single "stream.number" token; build metadata is opaque and never takes part
in ordering.

Tracking rules:
  - A stable release supersedes everything with an equal or lower main version.
  - Pre-releases are grouped by main version; a newer group replaces the old one.
  - Inside a group each stream ("beta", "rc", ...) keeps its highest number.
    Streams are never compared with each other.

Usage example:

	set := cratesel.NewSet()
	for _, raw := range []string{"1.0.0", "1.1.0-rc.1", "1.1.0-rc.2", "1.1.0-beta.1"} {
		set.PushString("serde", raw)
	}

	for _, id := range set.Resolve("serde", cratesel.SortNone) {
		fmt.Println(id) // serde-1.0.0, serde-1.1.0-rc.2, serde-1.1.0-beta.1
	}
*/
package cratesel
