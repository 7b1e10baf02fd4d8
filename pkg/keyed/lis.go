package keyed

// LIS returns the positions in seq of a longest strictly increasing
// subsequence, in ascending order. Negative entries never participate.
//
// It runs in O(n log n) with patience sorting and predecessor links.
func LIS(seq []int) []int {
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))

	for i, v := range seq {
		if v < 0 {
			continue
		}

		lo, hi := 0, len(tails)
		for lo < hi {
			mid := int(uint(lo+hi) >> 1)
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}

		if lo > 0 {
			prev[i] = tails[lo-1]
		} else {
			prev[i] = -1
		}

		if lo == len(tails) {
			tails = append(tails, i)
		} else {
			tails[lo] = i
		}
	}

	out := make([]int, len(tails))
	if len(tails) == 0 {
		return out
	}
	k := tails[len(tails)-1]
	for j := len(out) - 1; j >= 0; j-- {
		out[j] = k
		k = prev[k]
	}
	return out
}
