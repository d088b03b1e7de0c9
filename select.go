package cratesel

// Select runs raw version strings of one package through the tracker:
//  1. cheap raw prefilter (Include / Exclude)
//  2. parse, dropping malformed strings
//  3. Range clipping
//  4. push in input order, resolve
//  5. StableOnly -> Sort -> Limit
func Select(name string, raw []string, opt Options) []PackageID {
	raw = prefilterRaw(raw, opt)
	if len(raw) == 0 {
		return nil
	}

	vs := parseAll(raw)
	if opt.Range.Enabled() && len(vs) > 0 {
		vs = clipRange(vs, opt.Range)
	}

	var t Tracker
	for _, v := range vs {
		t.Push(v)
	}

	ids := t.Resolve(name)
	if opt.StableOnly {
		ids = DropPrerelease(ids)
	}

	if len(ids) == 0 {
		return nil
	}

	return capIDs(SortIDs(ids, opt.Sort), opt.Limit)
}
