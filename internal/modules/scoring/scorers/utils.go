package scorers

import "strings"

// clamp limits v to the [lo, hi] range.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// containsIndustry reports whether industry is an exact member of list.
func containsIndustry(list []string, industry string) bool {
	for _, item := range list {
		if item == industry {
			return true
		}
	}
	return false
}

// matchesMarker reports whether industry contains any of the markers
// (e.g. "Mining" matches "Gold Mining" and "Diversified Mining").
func matchesMarker(markers []string, industry string) bool {
	for _, marker := range markers {
		if marker != "" && strings.Contains(industry, marker) {
			return true
		}
	}
	return false
}
