package cratesel

import "github.com/woozymasta/semver"

// bounds is a compiled Range: a floor and a strictly exclusive ceiling.
type bounds struct {
	minFloor     semver.Semver
	maxCeil      semver.Semver
	haveMin      bool
	haveMax      bool
	minExclusive bool
}

// Matcher compiles r once and returns a predicate over versions.
// Unparseable bounds are ignored. A disabled Range matches everything.
func (r Range) Matcher() func(Version) bool {
	if !r.Enabled() {
		return func(Version) bool { return true }
	}

	b := r.compile()

	return b.contains
}

func (r Range) compile() bounds {
	var b bounds
	if r.Min != "" {
		b.minFloor, b.minExclusive, b.haveMin = compileMin(r.Min, r.MinExclusive, r.IncludePrerelease)
	}

	if r.Max != "" {
		b.maxCeil, b.haveMax = compileMaxExclusive(r.Max, r.MaxExclusive)
	}

	return b
}

func (b bounds) contains(v Version) bool {
	s := toSemver(v)

	if b.haveMin {
		cmp := s.Compare(b.minFloor)
		if cmp < 0 || (cmp == 0 && b.minExclusive) {
			return false
		}
	}

	return !b.haveMax || s.Compare(b.maxCeil) < 0
}

// clipRange keeps the versions inside r, reusing the backing array.
func clipRange(vs []Version, r Range) []Version {
	match := r.Matcher()

	keep := vs[:0]
	for _, v := range vs {
		if match(v) {
			keep = append(keep, v)
		}
	}

	return keep
}

// compileMin parses the lower bound once; shorthands become X.0.0 / X.Y.0,
// optionally with prerelease "0" so that X.Y.0-anything is included.
func compileMin(raw string, minExclusive bool, includePreAtFloor bool) (semver.Semver, bool, bool) {
	v, ok := semver.Parse(raw)
	if !ok || !v.IsValid() {
		return semver.Semver{}, false, false
	}

	if !v.HasPatch() {
		maj, min := v.Major, 0
		if v.HasMinor() {
			min = v.Minor
		}

		if includePreAtFloor {
			return makeSemver(maj, min, 0, "0"), minExclusive, true
		}

		return makeSemver(maj, min, 0, ""), minExclusive, true
	}

	return bare(v), minExclusive, true
}

// compileMaxExclusive turns the upper bound into a strictly exclusive ceiling.
//
//	X:     excl -> < X.0.0-0;   incl -> < (X+1).0.0-0
//	X.Y:   excl -> < X.Y.0-0;   incl -> < X.(Y+1).0-0
//	full:  excl -> < v;         incl -> < v.pre.0 for pre-releases, else < X.Y.(Z+1)-0
func compileMaxExclusive(raw string, maxExclusive bool) (semver.Semver, bool) {
	v, ok := semver.Parse(raw)
	if !ok || !v.IsValid() {
		return semver.Semver{}, false
	}

	if !v.HasPatch() {
		maj, min := v.Major, 0
		if v.HasMinor() {
			min = v.Minor
		}

		if maxExclusive {
			return makeSemver(maj, min, 0, "0"), true
		}

		if !v.HasMinor() {
			return makeSemver(maj+1, 0, 0, "0"), true
		}

		return makeSemver(maj, min+1, 0, "0"), true
	}

	if maxExclusive {
		return bare(v), true
	}

	if v.HasPre() {
		return makeSemver(v.Major, v.Minor, v.Patch, v.Prerelease+".0"), true
	}

	return makeSemver(v.Major, v.Minor, v.Patch+1, "0"), true
}

// bare drops build metadata and the original text so bounds compare equal to
// versions built with makeSemver.
func bare(v semver.Semver) semver.Semver {
	return makeSemver(v.Major, v.Minor, v.Patch, v.Prerelease)
}

// makeSemver builds a Semver without parsing.
// prerelease has no leading '-' (e.g. "0" or "rc.3").
func makeSemver(maj, min, pat int, prerelease string) semver.Semver {
	flags := semver.FlagHasMajor | semver.FlagHasMinor | semver.FlagHasPatch
	if prerelease != "" {
		flags |= semver.FlagHasPre
	}

	return semver.Semver{
		Major:      maj,
		Minor:      min,
		Patch:      pat,
		Prerelease: prerelease,
		Flags:      flags,
		Valid:      true,
	}
}
