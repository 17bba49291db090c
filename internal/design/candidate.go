package design

import (
	"sort"
	"strings"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/genome"
	"github.com/hainesm6-learning/mascpcr/internal/lut"
	"github.com/hainesm6-learning/mascpcr/internal/thermo"
)

// Candidate is one scored primer. Coordinates are on the genome the
// primer anneals to: recoded for discriminatory and common primers,
// reference for wild-type counterparts
type Candidate struct {
	// Seq of the primer, 5'→3'
	Seq string

	// Start is the leftmost genomic coordinate of the footprint
	Start int

	// Length of the footprint (bp)
	Length int

	// Strand the primer anneals to
	Strand genome.Strand

	// Tm of the primer against its template
	Tm float64

	// HairpinTm of the most stable fold
	HairpinTm float64

	// HomodimerTm of the most stable self-dimer
	HomodimerTm float64

	// MismatchOffsets are 3'-end-relative offsets of allele differences
	// within the footprint, ascending. Empty for common and wild-type
	// primers
	MismatchOffsets []int

	// Score ranks candidates within a bin, higher is better
	Score float64
}

// End is one past the rightmost footprint coordinate
func (c Candidate) End() int {
	return c.Start + c.Length
}

// ThreePrime is the genomic coordinate under the primer's 3' terminus
func (c Candidate) ThreePrime() int {
	if c.Strand == genome.Rev {
		return c.Start
	}
	return c.End() - 1
}

// searcher carries the immutable inputs of a primer search
type searcher struct {
	rec  *genome.Genome
	ref  *genome.Genome
	t    lut.Tables
	calc thermo.Calculator
	conf *config.Config
}

// findDiscriminatory grows a window whose 3' terminus is pinned to the
// edited base at anchor and returns the best-scoring candidate together
// with its wild-type counterpart: the reference window of the same
// length ending at the aligned coordinate. The window may cover its own
// edit cluster but no other, must stay inside [spanLo, spanHi), and the
// wild-type primer has to clear the same cutoffs as the candidate
// itself
func (s *searcher) findDiscriminatory(anchor int, strand genome.Strand, own lut.Cluster, spanLo, spanHi int) (Candidate, Candidate, bool) {
	p := s.conf.Primer

	m, ok := s.mappedAnchor(anchor, strand)
	if !ok {
		return Candidate{}, Candidate{}, false
	}

	var best, bestWT Candidate
	found := false

	for l := p.MinSize; l <= p.MaxSize; l++ {
		lo, hi := anchor-l+1, anchor+1
		wtLo, wtHi := m-l+1, m+1
		if strand == genome.Rev {
			lo, hi = anchor, anchor+l
			wtLo, wtHi = m, m+l
		}
		if lo < spanLo || hi > spanHi || wtLo < 0 || wtHi > s.ref.Len() {
			break
		}
		if s.touchesForeignCluster(lo, hi, own) {
			break
		}

		seq := s.primerSeq(lo, hi, strand)
		wtSeq := s.ref.Seq[wtLo:wtHi]
		if strand == genome.Rev {
			wtSeq = genome.RevComp(wtSeq)
		}
		if strings.ContainsAny(seq+wtSeq, "NRYSWKMBDHV") {
			break
		}
		if !p.Lenient && gcHeavy3(seq) {
			continue
		}

		tm, err := s.calc.Tm(seq)
		if err != nil {
			break
		}
		wtTm, err := s.calc.Tm(wtSeq)
		if err != nil {
			break
		}
		hairpin, homo := s.calc.HairpinTm(seq), s.calc.HomodimerTm(seq)
		wtHairpin, wtHomo := s.calc.HairpinTm(wtSeq), s.calc.HomodimerTm(wtSeq)
		if !p.Lenient {
			if tm < p.TmMin || wtTm < p.TmMin {
				continue
			}
			if tm > p.TmMax || wtTm > p.TmMax {
				break
			}
			if hairpin > p.SpuriousTmClip || homo > p.SpuriousTmClip {
				break
			}
			if wtHairpin > p.SpuriousTmClip || wtHomo > p.SpuriousTmClip {
				break
			}
		}

		offsets := offsets3p(s.t.Mismatch.Positions(lo, hi), anchor, strand)
		if len(offsets) < p.MinMismatches {
			continue
		}

		score := s.thermoScore(tm, hairpin, homo) + s.mismatchBonus(offsets)
		if !found || score > best.Score {
			best = Candidate{
				Seq:             seq,
				Start:           lo,
				Length:          l,
				Strand:          strand,
				Tm:              tm,
				HairpinTm:       hairpin,
				HomodimerTm:     homo,
				MismatchOffsets: offsets,
				Score:           score,
			}
			bestWT = Candidate{
				Seq:         wtSeq,
				Start:       wtLo,
				Length:      l,
				Strand:      strand,
				Tm:          wtTm,
				HairpinTm:   wtHairpin,
				HomodimerTm: wtHomo,
			}
			found = true
		}
	}

	return best, bestWT, found
}

// mappedAnchor aligns a discriminatory 3' terminus to the reference. An
// inserted terminus borrows the nearest mapped base on the footprint
// side, which keeps the wild-type window against the insertion junction
func (s *searcher) mappedAnchor(anchor int, strand genome.Strand) (int, bool) {
	step := -1
	if strand == genome.Rev {
		step = 1
	}
	for i, pos := 0, anchor; i < s.conf.Primer.MaxSize; i, pos = i+1, pos+step {
		if pos < s.t.Coords.Start() || pos >= s.t.Coords.End() {
			break
		}
		if m, ok := s.t.Coords.Ref(pos); ok {
			return m, true
		}
	}
	return 0, false
}

// findCommon grows a window whose 5' terminus is pinned at fivePrime,
// the product-defining end, and returns the best candidate reading
// identically off both genomes. Growth stops at the first edit cluster,
// a shared primer cannot cover one. span bounds the footprint
func (s *searcher) findCommon(fivePrime int, strand genome.Strand, spanLo, spanHi int) (Candidate, bool) {
	p := s.conf.Primer
	var best Candidate
	found := false

	if fivePrime < spanLo || fivePrime >= spanHi {
		return best, false
	}

	for l := p.MinSize; l <= p.MaxSize; l++ {
		lo, hi := fivePrime, fivePrime+l
		if strand == genome.Rev {
			lo, hi = fivePrime-l+1, fivePrime+1
		}
		if lo < spanLo || hi > spanHi {
			break
		}
		if len(s.t.Edges.Intersecting(lo, hi)) > 0 {
			break
		}

		seq := s.primerSeq(lo, hi, strand)
		if strings.ContainsAny(seq, "NRYSWKMBDHV") {
			break
		}
		if !p.Lenient && gcHeavy3(seq) {
			continue
		}

		tm, err := s.calc.Tm(seq)
		if err != nil {
			break
		}
		if !p.Lenient {
			if tm < p.TmMin {
				continue
			}
			if tm > p.TmMax {
				break
			}
		}

		hairpin, homo := s.calc.HairpinTm(seq), s.calc.HomodimerTm(seq)
		if !p.Lenient && (hairpin > p.SpuriousTmClip || homo > p.SpuriousTmClip) {
			break
		}

		score := s.thermoScore(tm, hairpin, homo)
		if !found || score > best.Score {
			best = Candidate{
				Seq:         seq,
				Start:       lo,
				Length:      l,
				Strand:      strand,
				Tm:          tm,
				HairpinTm:   hairpin,
				HomodimerTm: homo,
				Score:       score,
			}
			found = true
		}
	}

	return best, found
}

// primerSeq reads the window off the recoded genome, reverse
// complemented for reverse-strand primers so Seq is always 5'→3'
func (s *searcher) primerSeq(lo, hi int, strand genome.Strand) string {
	seq := s.rec.Seq[lo:hi]
	if strand == genome.Rev {
		return genome.RevComp(seq)
	}
	return seq
}

// touchesForeignCluster reports whether [lo, hi) intersects any edit
// cluster other than own
func (s *searcher) touchesForeignCluster(lo, hi int, own lut.Cluster) bool {
	for _, c := range s.t.Edges.Intersecting(lo, hi) {
		if c != own {
			return true
		}
	}
	return false
}

// thermoScore grows as the square of the error: distance from the Tm
// window center plus the spurious-structure load
func (s *searcher) thermoScore(tm, hairpin, homo float64) float64 {
	p := s.conf.Primer
	width := p.TmMax - p.TmMin
	if width <= 0 {
		width = 1
	}
	mid := (p.TmMax + p.TmMin) / 2
	clip := p.SpuriousTmClip
	if clip <= 0 {
		clip = 1
	}
	return -sq((tm-mid)/width) - sq(hairpin/clip) - sq(homo/clip)
}

// mismatchBonus rewards allele differences near the 3' terminus, where
// they block extension on the wrong template. Offsets past the weight
// table earn the last weight
func (s *searcher) mismatchBonus(offsets []int) float64 {
	weights := s.conf.Primer.MismatchWeights
	if len(weights) == 0 {
		return 0
	}
	bonus := 0.0
	for _, off := range offsets {
		if off >= len(weights) {
			off = len(weights) - 1
		}
		bonus += float64(weights[off])
	}
	return bonus
}

// offsets3p converts genomic mismatch positions to 3'-end-relative
// offsets, ascending
func offsets3p(positions []int, anchor int, strand genome.Strand) []int {
	offs := make([]int, 0, len(positions))
	for _, p := range positions {
		off := anchor - p
		if strand == genome.Rev {
			off = p - anchor
		}
		offs = append(offs, off)
	}
	sort.Ints(offs)
	return offs
}

// gcHeavy3 reports whether more than 3 of the last 5 bases are G or C,
// a 3' end prone to mispriming
func gcHeavy3(seq string) bool {
	n := len(seq)
	if n < 5 {
		return false
	}
	gc := 0
	for i := n - 5; i < n; i++ {
		if seq[i] == 'G' || seq[i] == 'C' {
			gc++
		}
	}
	return gc > 3
}

func sq(x float64) float64 {
	return x * x
}
