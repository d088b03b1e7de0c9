package cratesel

import "sort"

// Set maps package names to their trackers. It is owned by whichever
// aggregation step builds it; separate Sets may be filled on separate goroutines
// as long as each name is pushed into exactly one of them.
type Set struct {
	by map[string]*Tracker
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{by: make(map[string]*Tracker)}
}

// Push records v for name, creating the tracker on first use.
func (s *Set) Push(name string, v Version) {
	t, ok := s.by[name]
	if !ok {
		t = &Tracker{}
		s.by[name] = t
	}

	t.Push(v)
}

// PushString parses raw and pushes it. It reports false if raw is malformed.
func (s *Set) PushString(name, raw string) bool {
	v, ok := Parse(raw)
	if !ok {
		return false
	}

	s.Push(name, v)

	return true
}

// Tracker returns the tracker for name, or nil if nothing was pushed for it.
func (s *Set) Tracker(name string) *Tracker {
	return s.by[name]
}

// Len returns the number of distinct names.
func (s *Set) Len() int {
	return len(s.by)
}

// Names returns all names in lexical order.
func (s *Set) Names() []string {
	out := make([]string, 0, len(s.by))
	for name := range s.by {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// Resolve returns the identifiers tracked for name, ordered by mode.
func (s *Set) Resolve(name string, mode SortMode) []PackageID {
	t, ok := s.by[name]
	if !ok {
		return nil
	}

	return SortIDs(t.Resolve(name), mode)
}

// ResolveAll resolves every name; names are visited in lexical order.
func (s *Set) ResolveAll(mode SortMode) []PackageID {
	out := make([]PackageID, 0, len(s.by))
	for _, name := range s.Names() {
		out = append(out, s.Resolve(name, mode)...)
	}

	return out
}

// Merge moves the trackers of other into s. Names present in both keep the
// tracker of s; shards are expected to be disjoint.
func (s *Set) Merge(other *Set) {
	for name, t := range other.by {
		if _, ok := s.by[name]; !ok {
			s.by[name] = t
		}
	}
}
