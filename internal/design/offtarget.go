package design

import (
	"index/suffixarray"

	"github.com/hainesm6-learning/mascpcr/internal/genome"
)

// offtarget finds sites a primer could extend from besides its intended
// one. The index holds the recoded sequence and its reverse complement
// joined by a separator, so one lookup covers both strands
type offtarget struct {
	sa      *suffixarray.Index
	text    string
	n       int
	seedLen int
	maxMM   int
}

func newOfftarget(seq string, seedLen, maxMM int) *offtarget {
	text := seq + "|" + genome.RevComp(seq)
	return &offtarget{
		sa:      suffixarray.New([]byte(text)),
		text:    text,
		n:       len(seq),
		seedLen: seedLen,
		maxMM:   maxMM,
	}
}

// spurious reports whether seq could prime at any site besides the one
// with its 3' base at threePrime on strand. A site primes when the
// 3'-terminal seed matches exactly and the rest of the footprint
// carries at most maxMM mismatches, polymerase extension being
// controlled by the 3' end
func (o *offtarget) spurious(seq string, threePrime int, strand genome.Strand) bool {
	seed := seq
	if len(seed) > o.seedLen {
		seed = seq[len(seq)-o.seedLen:]
	}

	for _, hit := range o.sa.Lookup([]byte(seed), -1) {
		end := hit + len(seed)
		lo := end - len(seq)
		if lo < 0 {
			continue
		}
		// windows spanning the separator are not genomic sites
		if lo <= o.n && end > o.n {
			continue
		}

		mm := 0
		for i := 0; i < len(seq)-len(seed) && mm <= o.maxMM; i++ {
			if o.text[lo+i] != seq[i] {
				mm++
			}
		}
		if mm > o.maxMM {
			continue
		}

		if g, st := o.coord(end - 1); g == threePrime && st == strand {
			continue
		}
		return true
	}
	return false
}

// coord maps a text offset back to the forward-genome coordinate of the
// base there and the strand that half of the text represents
func (o *offtarget) coord(pos int) (int, genome.Strand) {
	if pos < o.n {
		return pos, genome.Fwd
	}
	return 2*o.n - pos, genome.Rev
}
