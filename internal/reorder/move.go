// Package reorder keeps the admin's local copy of the menu and applies drag and drop moves to
// it before asking the backend to persist them.
package reorder

// Move returns a copy of seq with the element at from removed and reinserted at to. Out of range
// indices and from == to return seq itself.
func Move[T any](seq []T, from, to int) []T {
	n := len(seq)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return seq
	}
	out := make([]T, 0, n)
	moved := seq[from]
	for i, v := range seq {
		if i == from {
			continue
		}
		if len(out) == to {
			out = append(out, moved)
		}
		out = append(out, v)
	}
	if len(out) < n {
		out = append(out, moved)
	}
	return out
}
