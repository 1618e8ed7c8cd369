package reorder

import (
	"reflect"
	"sort"
	"testing"
)

func TestMove(t *testing.T) {
	seq := []string{"A", "B", "C", "D"}
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"B", "C", "A", "D"}},
		{"backward", 3, 1, []string{"A", "D", "B", "C"}},
		{"to end", 1, 3, []string{"A", "C", "D", "B"}},
		{"to start", 2, 0, []string{"C", "A", "B", "D"}},
		{"adjacent", 1, 2, []string{"A", "C", "B", "D"}},
		{"same index", 2, 2, seq},
		{"negative from", -1, 2, seq},
		{"from past end", 4, 0, seq},
		{"to past end", 0, 4, seq},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(seq, tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Move(%d, %d) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
	if !reflect.DeepEqual(seq, []string{"A", "B", "C", "D"}) {
		t.Errorf("input must not be mutated, got %v", seq)
	}
	if got := Move([]int{}, 0, 0); len(got) != 0 {
		t.Errorf("empty input stays empty, got %v", got)
	}
}

func TestMove_IsPermutation(t *testing.T) {
	seq := []int{5, 1, 4, 2, 3, 9}
	for from := range seq {
		for to := range seq {
			got := Move(seq, from, to)
			if len(got) != len(seq) {
				t.Fatalf("Move(%d, %d) changed length", from, to)
			}
			if got[to] != seq[from] {
				t.Errorf("Move(%d, %d) put %d at %d", from, to, got[to], to)
			}
			sorted := append([]int{}, got...)
			sort.Ints(sorted)
			if !reflect.DeepEqual(sorted, []int{1, 2, 3, 4, 5, 9}) {
				t.Errorf("Move(%d, %d) is not a permutation: %v", from, to, got)
			}

			rest := make([]int, 0, len(seq)-1)
			for i, v := range got {
				if i != to {
					rest = append(rest, v)
				}
			}
			expected := make([]int, 0, len(seq)-1)
			for i, v := range seq {
				if i != from {
					expected = append(expected, v)
				}
			}
			if !reflect.DeepEqual(rest, expected) {
				t.Errorf("Move(%d, %d) reordered the other elements: %v", from, to, got)
			}
		}
	}
}
