package cratesel

import (
	"strconv"
	"strings"
)

// MainVersion is the MAJOR.MINOR.PATCH triple that decides precedence.
type MainVersion struct {
	Major uint16
	Minor uint16
	Patch uint16
}

// Compare returns -1, 0 or 1 comparing (major, minor, patch) lexicographically.
func (m MainVersion) Compare(other MainVersion) int {
	if m.Major != other.Major {
		return cmpU16(m.Major, other.Major)
	}

	if m.Minor != other.Minor {
		return cmpU16(m.Minor, other.Minor)
	}

	return cmpU16(m.Patch, other.Patch)
}

// Less reports whether m < other.
func (m MainVersion) Less(other MainVersion) bool {
	return m.Compare(other) < 0
}

func (m MainVersion) String() string {
	b := make([]byte, 0, 16)
	b = m.appendTo(b)

	return string(b)
}

func (m MainVersion) appendTo(b []byte) []byte {
	b = strconv.AppendUint(b, uint64(m.Major), 10)
	b = append(b, '.')
	b = strconv.AppendUint(b, uint64(m.Minor), 10)
	b = append(b, '.')

	return strconv.AppendUint(b, uint64(m.Patch), 10)
}

// PreVersion is a pre-release channel ("beta", "rc") and its sequence number.
// Streams carry no order against each other, so PreVersion only supports equality.
type PreVersion struct {
	Stream string
	Number uint16
}

func (p PreVersion) String() string {
	return p.Stream + "." + strconv.FormatUint(uint64(p.Number), 10)
}

// Version is a MainVersion with optional pre-release and build metadata.
// Build is empty when absent. Only Main takes part in ordering.
type Version struct {
	Pre   *PreVersion
	Build string
	Main  MainVersion
}

// IsPrerelease reports whether v carries a pre-release component.
func (v Version) IsPrerelease() bool {
	return v.Pre != nil
}

// Equal reports whether all three components of v and other match.
func (v Version) Equal(other Version) bool {
	if v.Main != other.Main || v.Build != other.Build {
		return false
	}

	if v.Pre == nil || other.Pre == nil {
		return v.Pre == nil && other.Pre == nil
	}

	return *v.Pre == *other.Pre
}

// String renders the canonical form major.minor.patch[-stream.number][+build].
func (v Version) String() string {
	b := make([]byte, 0, 24+len(v.Build))
	b = v.Main.appendTo(b)

	if v.Pre != nil {
		b = append(b, '-')
		b = append(b, v.Pre.Stream...)
		b = append(b, '.')
		b = strconv.AppendUint(b, uint64(v.Pre.Number), 10)
	}

	if v.Build != "" {
		b = append(b, '+')
		b = append(b, v.Build...)
	}

	return string(b)
}

// Parse parses major.minor.patch[-stream.number][+build].
//
// Numeric parts are base-10 and must fit in 16 bits. A '+' seen before any '-'
// in the patch segment starts build metadata; otherwise the first '-' starts the
// pre-release, which must be "stream.number". Empty streams and empty build
// metadata are rejected.
func Parse(s string) (Version, bool) {
	parts := strings.SplitN(s, ".", 3)
	if len(parts) != 3 {
		return Version{}, false
	}

	major, ok := parseNum(parts[0])
	if !ok {
		return Version{}, false
	}

	minor, ok := parseNum(parts[1])
	if !ok {
		return Version{}, false
	}

	rest := parts[2]
	v := Version{Main: MainVersion{Major: major, Minor: minor}}

	dash := strings.IndexByte(rest, '-')
	plus := strings.IndexByte(rest, '+')

	// patch[+build]
	if dash < 0 || (plus >= 0 && plus < dash) {
		patch, build, ok := splitBuild(rest)
		if !ok {
			return Version{}, false
		}

		v.Main.Patch, ok = parseNum(patch)
		if !ok {
			return Version{}, false
		}
		v.Build = build

		return v, true
	}

	// patch-stream.number[+build]
	v.Main.Patch, ok = parseNum(rest[:dash])
	if !ok {
		return Version{}, false
	}

	stream, num, found := strings.Cut(rest[dash+1:], ".")
	if !found || stream == "" {
		return Version{}, false
	}

	num, build, ok := splitBuild(num)
	if !ok {
		return Version{}, false
	}

	n, ok := parseNum(num)
	if !ok {
		return Version{}, false
	}

	v.Pre = &PreVersion{Stream: stream, Number: n}
	v.Build = build

	return v, true
}

// MustParse is like Parse but panics on malformed input. Use only for constants/tests.
func MustParse(s string) Version {
	v, ok := Parse(s)
	if !ok {
		panic("cratesel: invalid version " + strconv.Quote(s))
	}

	return v
}

// splitBuild splits "x[+build]"; an empty build after '+' is rejected.
func splitBuild(s string) (head, build string, ok bool) {
	head, build, found := strings.Cut(s, "+")
	if found && build == "" {
		return "", "", false
	}

	return head, build, true
}

// parseNum accepts plain decimal digits only (no sign, no separators).
func parseNum(s string) (uint16, bool) {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return 0, false
	}

	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}

	return uint16(n), true
}

func cmpU16(a, b uint16) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
