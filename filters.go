package cratesel

import "strings"

// toolchainPrefixes name auto-generated compiler-internal crates that do not
// build outside the toolchain they were cut from.
var toolchainPrefixes = [...]string{"rustc-ap", "fast-rustc-ap"}

// IsToolchainInternal reports whether name is an auto-published
// compiler-internal crate ("rustc-ap-*", "fast-rustc-ap-*").
func IsToolchainInternal(name string) bool {
	for _, p := range toolchainPrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}

	return false
}

// ValidCrateName reports whether name follows the registry naming rules.
func ValidCrateName(name string) bool {
	return crateNameRe.MatchString(name)
}

// Buildable is the default name predicate for bulk selection: a valid crate
// name that is not toolchain-internal.
func Buildable(name string) bool {
	return ValidCrateName(name) && !IsToolchainInternal(name)
}

// prefilterRaw applies Include / Exclude to raw strings (cheap, before parsing).
func prefilterRaw(in []string, opt Options) []string {
	if opt.Include == nil && opt.Exclude == nil {
		return in
	}

	out := make([]string, 0, len(in))
	for _, s := range in {
		if opt.Include != nil && !opt.Include.MatchString(s) {
			continue
		}

		if opt.Exclude != nil && opt.Exclude.MatchString(s) {
			continue
		}

		out = append(out, s)
	}

	return out
}

// parseAll parses every raw string, dropping the malformed ones.
// Input order is preserved; it is the push order.
func parseAll(in []string) []Version {
	out := make([]Version, 0, len(in))
	for _, s := range in {
		if v, ok := Parse(s); ok {
			out = append(out, v)
		}
	}

	return out
}

// DropPrerelease keeps stable identifiers only, reusing the backing array.
func DropPrerelease(ids []PackageID) []PackageID {
	keep := ids[:0]
	for _, id := range ids {
		if !id.Version.IsPrerelease() {
			keep = append(keep, id)
		}
	}

	return keep
}
