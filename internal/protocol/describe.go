package protocol

import "strings"

func trimPrompt(msg string) string {
	return strings.TrimSpace(msg)
}

// joinLocations collapses repeated locations so "reservoir:A1" listed once per
// column prints as a single source.
func joinLocations(locs []Location) string {
	seen := make(map[Location]bool, len(locs))
	parts := make([]string, 0, len(locs))
	for _, l := range locs {
		if seen[l] {
			continue
		}
		seen[l] = true
		parts = append(parts, l.String())
	}
	return strings.Join(parts, ",")
}
