package seatmap

import "slices"

// Toggle returns the selection after a click on label. Booked seats are
// ignored, including the caller's own earlier bookings: those are released
// through cancellation, not through the map. The input slice is not modified
// and insertion order is kept.
func Toggle(label string, selection []string, occ Occupancy) []string {
	out := slices.Clone(selection)
	if out == nil {
		out = []string{}
	}
	if occ.Booked(label) {
		return out
	}
	if i := slices.Index(out, label); i >= 0 {
		return slices.Delete(out, i, i+1)
	}
	return append(out, label)
}

// Clear resets the selection.
func Clear() []string {
	return []string{}
}

// Normalize drops duplicate labels, keeping the first occurrence.
func Normalize(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
