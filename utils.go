package cratesel

import "strings"

// toTok normalizes a free-form string into a lowercased token.
func toTok(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// capIDs returns out[:min(limit, len(out))] if limit>0; otherwise out.
func capIDs(out []PackageID, limit int) []PackageID {
	if limit > 0 && limit < len(out) {
		return out[:limit]
	}

	return out
}
