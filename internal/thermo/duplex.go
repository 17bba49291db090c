package thermo

import "strings"

// minStem is the shortest paired run treated as a structure. Shorter
// runs melt far below reaction temperatures
const minStem = 3

// minLoop is the fewest unpaired bases a hairpin loop can bridge
const minLoop = 3

// hairpinStem returns the longest Watson-Crick stem seq can fold back
// onto itself with a loop of at least minLoop bases, plus that fold's
// loop size. Stem is "" when no arm of minStem or more exists. Ties go
// to the fold closest to the 3' end, where extension matters most
func hairpinStem(seq string) (string, int) {
	seq = strings.ToUpper(strings.TrimSpace(seq))
	n := len(seq)

	best := ""
	bestLoop := 0
	bestEnd := -1
	for i := 0; i < n-minStem*2-minLoop+1; i++ {
		for j := n - 1; j >= i+minStem*2+minLoop-1; j-- {
			k := 0
			for i+k < j-k-minLoop && wc(seq[i+k], seq[j-k]) {
				k++
			}
			if k < minStem {
				continue
			}
			if k > len(best) || (k == len(best) && j > bestEnd) {
				best = seq[i : i+k]
				bestLoop = j - i - 2*k + 1
				bestEnd = j
			}
		}
	}
	return best, bestLoop
}

// dimerStem returns the longest contiguous Watson-Crick run in any
// ungapped anti-parallel alignment of two oligos, "" when no run of
// minStem or more exists. Both are given 5'→3'
func dimerStem(a, b string) string {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if len(a) < minStem || len(b) < minStem {
		return ""
	}

	// reverse b so both strings read in the same physical direction
	// for an anti-parallel alignment
	rb := reverse(b)

	best := ""
	for shift := -(len(rb) - 1); shift < len(a); shift++ {
		run := 0
		for i := 0; i < len(a); i++ {
			j := i - shift
			if j < 0 || j >= len(rb) {
				run = 0
				continue
			}
			if wc(a[i], rb[j]) {
				run++
				if run > len(best) {
					best = a[i-run+1 : i+1]
				}
			} else {
				run = 0
			}
		}
	}
	if len(best) < minStem {
		return ""
	}
	return best
}

func reverse(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[len(s)-1-i]
	}
	return string(out)
}
