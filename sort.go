package cratesel

import "sort"

// SortIDs orders ids in place according to mode and returns them.
// Ties keep their input order. SortNone leaves ids untouched.
func SortIDs(ids []PackageID, mode SortMode) []PackageID {
	if mode == SortNone || len(ids) < 2 {
		return ids
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, b := ids[i], ids[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}

		switch mode {
		case SortStream:
			// stable release stays in front
			if a.Version.Pre == nil || b.Version.Pre == nil {
				return a.Version.Pre == nil && b.Version.Pre != nil
			}

			return a.Version.Pre.Stream < b.Version.Pre.Stream

		case SortDesc:
			if c := a.Version.Main.Compare(b.Version.Main); c != 0 {
				return c > 0
			}

		default: // SortAsc
			if c := a.Version.Main.Compare(b.Version.Main); c != 0 {
				return c < 0
			}
		}

		return streamName(a.Version) < streamName(b.Version)
	})

	return ids
}

// streamName is "" for stable versions, so they sort before pre-releases of the
// same main version.
func streamName(v Version) string {
	if v.Pre == nil {
		return ""
	}

	return v.Pre.Stream
}
