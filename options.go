package cratesel

import "regexp"

// Options configures Select.
type Options struct {
	// Include keeps only raw version strings that match (applied before parsing).
	Include *regexp.Regexp

	// Exclude drops raw version strings that match (applied before parsing).
	Exclude *regexp.Regexp

	// Range clips parsed versions before they reach the tracker.
	Range Range

	// StableOnly drops pre-release identifiers from the result.
	StableOnly bool

	// Sort defines the output ordering.
	Sort SortMode

	// Limit caps the number of identifiers returned (<=0 = unlimited).
	Limit int
}

// SortMode controls the order of resolved identifiers.
type SortMode uint8

const (
	// SortNone keeps tracker order: stable first, then streams in the order
	// they were first established.
	SortNone SortMode = iota
	// SortStream keeps the stable version first and orders streams by name.
	SortStream
	// SortAsc orders by main version ascending, then by stream name.
	SortAsc
	// SortDesc orders by main version descending, then by stream name.
	SortDesc
)

// String returns a stable textual representation for SortMode.
func (m SortMode) String() string {
	switch m {
	case SortStream:
		return "stream"
	case SortAsc:
		return "ascending"
	case SortDesc:
		return "descending"
	default:
		return "none"
	}
}

// ParseSort maps strings to SortMode.
// Supported aliases (case-insensitive):
//
//	none:   "none","default","asis","seen"
//	stream: "stream","streams","name"
//	asc:    "asc","ascending","inc","up"
//	desc:   "desc","descending","dec","down"
func ParseSort(s string) SortMode {
	switch toTok(s) {
	case "stream", "streams", "name":
		return SortStream

	case "asc", "ascending", "inc", "up":
		return SortAsc

	case "desc", "descending", "dec", "down":
		return SortDesc

	default:
		return SortNone
	}
}

// Range clips versions to [Min, Max] with optional exclusive ends.
// Min/Max accept X, X.Y, X.Y.Z or full SemVer (may include -prerelease).
type Range struct {
	Min string // empty => no lower bound
	Max string // empty => no upper bound

	// When true => exclusive bound. Default false => inclusive.
	MinExclusive bool
	MaxExclusive bool

	// When Min is shorthand (X or X.Y), include pre-releases at the floor by using "-0".
	// E.g. Min="1.2" + IncludePrerelease=true => lower floor is "1.2.0-0".
	IncludePrerelease bool
}

// Enabled reports whether any bound is set.
func (r Range) Enabled() bool {
	return r.Min != "" || r.Max != ""
}
