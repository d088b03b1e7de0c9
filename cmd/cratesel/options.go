package main

import (
	"regexp"
	"strings"

	"github.com/woozymasta/cratesel"
)

type OptionsRange struct {
	Min             string `short:"m" long:"min"                description:"Lower bound (X / X.Y / X.Y.Z or full SemVer)"`
	Max             string `short:"x" long:"max"                description:"Upper bound (X / X.Y / X.Y.Z or full SemVer)"`
	MinExclusive    bool   `short:"M" long:"min-exclusive"      description:"Exclude lower bound itself"`
	MaxExclusive    bool   `short:"X" long:"max-exclusive"      description:"Exclude upper bound itself"`
	IncludePreAtMin bool   `short:"p" long:"include-prerelease" description:"When min is shorthand, include prereleases at the floor (>= X.Y.0-0)"`
}

func (o OptionsRange) toRange() cratesel.Range {
	return cratesel.Range{
		Min:               strings.TrimSpace(o.Min),
		Max:               strings.TrimSpace(o.Max),
		MinExclusive:      o.MinExclusive,
		MaxExclusive:      o.MaxExclusive,
		IncludePrerelease: o.IncludePreAtMin,
	}
}

type OptionsOutput struct {
	SortMode   string `short:"S" long:"sort"        description:"Order of the versions of one crate" choice:"none" choice:"stream" choice:"asc" choice:"desc" default:"stream"`
	StableOnly bool   `short:"s" long:"stable-only" description:"Print stable releases only"`
}

func (o OptionsOutput) mode() cratesel.SortMode {
	return cratesel.ParseSort(o.SortMode)
}

// filter drops pre-releases when asked; order is kept.
func (o OptionsOutput) filter(ids []cratesel.PackageID) []cratesel.PackageID {
	if o.StableOnly {
		return cratesel.DropPrerelease(ids)
	}

	return ids
}

type OptionsCargo struct {
	Home  string `short:"H" long:"cargo-home" description:"Cargo home (default ~/.cargo)" env:"CARGO_HOME"`
	Index string `short:"I" long:"index"      description:"Registry index directory under registry/cache" default:"github.com-1ecc6299db9ec823"`
}

// compileRe compiles a non-empty expression; empty yields nil.
func compileRe(s string) (*regexp.Regexp, error) {
	if s = strings.TrimSpace(s); s == "" {
		return nil, nil
	}

	return regexp.Compile(s)
}
