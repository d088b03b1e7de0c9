package cratesel

import "regexp"

var (
	// crates.io names: ASCII letter first, then letters, digits, '-' or '_', at most 64 chars.
	crateNameRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,63}$`)
)
