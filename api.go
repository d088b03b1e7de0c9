package cratesel

// DefaultOptions returns the preset used by the CLI: keep pre-release streams,
// order streams by name so output is reproducible.
func DefaultOptions() Options {
	return Options{
		Sort: SortStream,
	}
}

// Latest returns the latest stable version among raw, if any.
func Latest(raw []string) (Version, bool) {
	var t Tracker
	for _, v := range parseAll(raw) {
		t.Push(v)
	}

	return t.Stable()
}

// Versions runs Select with DefaultOptions and returns the versions only.
func Versions(raw []string) []Version {
	ids := Select("", raw, DefaultOptions())

	out := make([]Version, len(ids))
	for i, id := range ids {
		out[i] = id.Version
	}

	return out
}
