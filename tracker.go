package cratesel

// preEntry is the latest pre-release seen for one stream of the current group.
type preEntry struct {
	pre   PreVersion
	build string
}

// Tracker keeps the latest stable version of one package plus the latest
// pre-release per stream, as long as that pre-release group is newer than the
// stable one. The zero value is ready to use.
//
// Pre-release streams cannot be ordered against each other, so a group keeps one
// entry per stream until a stable release or a newer pre-release main version
// invalidates it. Push order matters within one package: a Tracker is not safe
// for concurrent use and must see its pushes in observation order.
type Tracker struct {
	preByStream []preEntry
	stable      MainVersion
	stableBuild string
	preMain     MainVersion
	hasStable   bool
	hasPre      bool
}

// Push records v.
//
// Anything older than the current stable release is ignored, as is a
// pre-release of exactly the stable main version. A stable push equal to the
// current stable replaces its build metadata (last write wins).
func (t *Tracker) Push(v Version) {
	if t.hasStable {
		switch c := v.Main.Compare(t.stable); {
		case c < 0:
			return
		case c == 0:
			if v.Pre == nil {
				t.stableBuild = v.Build
			}
			return
		}
	}

	if v.Pre != nil {
		t.pushPre(v)
		return
	}

	t.stable, t.stableBuild, t.hasStable = v.Main, v.Build, true

	// the pre-release group is subsumed by this release
	if t.hasPre && t.preMain.Compare(v.Main) <= 0 {
		t.clearPre()
	}
}

func (t *Tracker) pushPre(v Version) {
	c := 1
	if t.hasPre {
		c = v.Main.Compare(t.preMain)
	}

	switch {
	case c > 0:
		t.preMain, t.hasPre = v.Main, true
		t.preByStream = append(t.preByStream[:0], preEntry{pre: *v.Pre, build: v.Build})

	case c == 0:
		for i := range t.preByStream {
			e := &t.preByStream[i]
			if e.pre.Stream != v.Pre.Stream {
				continue
			}

			if v.Pre.Number > e.pre.Number {
				e.pre.Number, e.build = v.Pre.Number, v.Build
			}

			return
		}

		t.preByStream = append(t.preByStream, preEntry{pre: *v.Pre, build: v.Build})

	default:
		// older group, irrelevant
	}
}

// clearPre drops the pre-release group, keeping the backing array.
func (t *Tracker) clearPre() {
	clear(t.preByStream)
	t.preByStream = t.preByStream[:0]
	t.preMain, t.hasPre = MainVersion{}, false
}

// Stable returns the latest stable version, if any.
func (t *Tracker) Stable() (Version, bool) {
	if !t.hasStable {
		return Version{}, false
	}

	return Version{Main: t.stable, Build: t.stableBuild}, true
}

// Len returns the number of versions Versions would return.
func (t *Tracker) Len() int {
	n := len(t.preByStream)
	if t.hasStable {
		n++
	}

	return n
}

// Versions returns the stable version first (if any), then one version per
// surviving stream in the order the streams were first established.
// The result is freshly built and owned by the caller.
func (t *Tracker) Versions() []Version {
	out := make([]Version, 0, t.Len())
	if v, ok := t.Stable(); ok {
		out = append(out, v)
	}

	for _, e := range t.preByStream {
		pre := e.pre
		out = append(out, Version{Main: t.preMain, Pre: &pre, Build: e.build})
	}

	return out
}

// Resolve returns Versions paired with name.
func (t *Tracker) Resolve(name string) []PackageID {
	vs := t.Versions()
	out := make([]PackageID, len(vs))
	for i, v := range vs {
		out[i] = PackageID{Name: name, Version: v}
	}

	return out
}

// Reset returns the tracker to its zero state.
func (t *Tracker) Reset() {
	t.clearPre()
	t.stable, t.stableBuild, t.hasStable = MainVersion{}, "", false
}
