package utils

// InBounds reports whether idx addresses an element of s
func InBounds[T any](s []T, idx int) bool {
	return idx >= 0 && idx < len(s)
}

// RemoveIndexFromSlice removes s[removeIdx] in place, keeping order.
// An out of range index returns s unchanged.
func RemoveIndexFromSlice[T any](s []T, removeIdx int) []T {
	if !InBounds(s, removeIdx) {
		return s
	}
	return append(s[:removeIdx], s[removeIdx+1:]...)
}
