package keyed

import (
	"math/rand/v2"
	"slices"
	"testing"
)

func TestLIS(t *testing.T) {
	tests := []struct {
		name string
		seq  []int
		want int
	}{
		{"empty", nil, 0},
		{"single", []int{7}, 1},
		{"sorted", []int{0, 1, 2, 3}, 4},
		{"reversed", []int{3, 2, 1, 0}, 1},
		{"swap", []int{0, 3, 2, 1, 4}, 3},
		{"rotate", []int{4, 0, 1, 2, 3}, 4},
		{"negatives skipped", []int{-1, 2, -1, 0, 1, -1}, 2},
		{"all negative", []int{-1, -1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LIS(tt.seq)
			if len(got) != tt.want {
				t.Fatalf("LIS(%v) = %v, want length %d", tt.seq, got, tt.want)
			}
			checkIncreasing(t, tt.seq, got)
		})
	}
}

func TestLISMatchesQuadratic(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	for iter := 0; iter < 500; iter++ {
		n := rng.IntN(40)
		seq := make([]int, n)
		for i := range seq {
			seq[i] = rng.IntN(30) - 5
		}

		got := LIS(seq)
		if want := lisLenQuadratic(seq); len(got) != want {
			t.Fatalf("LIS(%v) length = %d, want %d", seq, len(got), want)
		}
		checkIncreasing(t, seq, got)
	}
}

func checkIncreasing(t *testing.T, seq, positions []int) {
	t.Helper()
	if !slices.IsSorted(positions) {
		t.Fatalf("positions %v not ascending", positions)
	}
	for i, p := range positions {
		if seq[p] < 0 {
			t.Fatalf("negative entry at position %d selected", p)
		}
		if i > 0 && seq[positions[i-1]] >= seq[p] {
			t.Fatalf("values at %v not strictly increasing in %v", positions, seq)
		}
	}
}

func lisLenQuadratic(seq []int) int {
	best := make([]int, len(seq))
	longest := 0
	for i, v := range seq {
		if v < 0 {
			continue
		}
		best[i] = 1
		for j := 0; j < i; j++ {
			if seq[j] >= 0 && seq[j] < v && best[j]+1 > best[i] {
				best[i] = best[j] + 1
			}
		}
		longest = max(longest, best[i])
	}
	return longest
}
