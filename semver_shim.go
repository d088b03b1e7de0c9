package cratesel

import sv "github.com/woozymasta/semver"

// Reason explains why a raw string did or did not make it into a tracker.
type Reason uint8

const (
	// ReasonOK means the string parses as a Version.
	ReasonOK Reason = iota
	// ReasonUnsupported means the string is valid SemVer that the restricted
	// grammar cannot express (e.g. "1.0.0-alpha" or "1.0.0-rc.1.2").
	ReasonUnsupported
	// ReasonInvalid means the string is not a version at all.
	ReasonInvalid
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonUnsupported:
		return "unsupported"
	default:
		return "invalid"
	}
}

// Classify reports whether raw is a Version, a SemVer string outside the
// supported grammar, or garbage.
func Classify(raw string) Reason {
	if _, ok := Parse(raw); ok {
		return ReasonOK
	}

	if v, ok := sv.Parse(raw); ok && v.IsValid() && v.HasPatch() {
		return ReasonUnsupported
	}

	return ReasonInvalid
}

// toSemver converts v into the comparison form used by range bounds.
// Build metadata is dropped; it never takes part in precedence.
func toSemver(v Version) sv.Semver {
	pre := ""
	if v.Pre != nil {
		pre = v.Pre.String()
	}

	return makeSemver(int(v.Main.Major), int(v.Main.Minor), int(v.Main.Patch), pre)
}
