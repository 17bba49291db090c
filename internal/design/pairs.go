package design

import (
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/genome"
	"github.com/hainesm6-learning/mascpcr/internal/lut"
	"github.com/hainesm6-learning/mascpcr/internal/thermo"
)

// PrimerPair is one bin's primer set: the allele-specific pair and the
// partner both alleles share. The discriminatory and wild-type primers
// run in separate reactions, each multiplexed with the common primer
type PrimerPair struct {
	// Bin index the set amplifies
	Bin int

	// Discriminatory primer, 3' end on a recoded base
	Discriminatory Candidate

	// Wildtype counterpart: the same-length reference window ending at
	// the coordinate aligned with the discriminatory 3' terminus
	Wildtype Candidate

	// Common partner primer, identical on both genomes
	Common Candidate

	// ProductSize of the amplicon in bp
	ProductSize int
}

// FindMascPrimers searches every bin for its primer set. Bins the
// search cannot satisfy come back as NoPrimerFoundError values; when
// strict, the first such bin fails the run instead
func FindMascPrimers(rec, ref *genome.Genome, t lut.Tables, bins []Bin, calc thermo.Calculator, conf *config.Config) ([]PrimerPair, []*NoPrimerFoundError, error) {
	return findPrimerSets(rec, ref, t, bins, calc, conf, nil)
}

// findPrimerSets runs the per-bin search in increasing coordinate
// order. Later bins check their candidates against every primer the
// earlier bins accepted, so the order is load-bearing. tick, when not
// nil, is called after each bin for progress display
func findPrimerSets(rec, ref *genome.Genome, t lut.Tables, bins []Bin, calc thermo.Calculator, conf *config.Config, tick func()) ([]PrimerPair, []*NoPrimerFoundError, error) {
	s := &searcher{rec: rec, ref: ref, t: t, calc: calc, conf: conf}

	var ot *offtarget
	if conf.Offtarget.Enabled {
		ot = newOfftarget(rec.Seq, conf.Offtarget.SeedLen, conf.Offtarget.MaxMismatches)
	}

	set := &accepted{calc: calc, clip: conf.Primer.SpuriousTmClip, skip: conf.Primer.Lenient}

	var pairs []PrimerPair
	var failures []*NoPrimerFoundError
	for _, bin := range bins {
		pair, failure := s.designBin(bin, set, ot)
		if tick != nil {
			tick()
		}
		if failure != nil {
			if conf.Bins.Strict {
				return nil, nil, failure
			}
			failures = append(failures, failure)
			continue
		}
		pairs = append(pairs, pair)
	}

	return pairs, failures, nil
}

// search stages, deepest first. The deepest stage a bin reached names
// its failure
const (
	stageAnchor = iota
	stageDisc
	stageDiscOfftarget
	stageCommon
	stageCommonOfftarget
	stagePool
)

var stageReasons = map[int]string{
	stageAnchor:          "discriminator clusters have no mismatched base inside the searchable span",
	stageDisc:            "no allele-specific primer cleared the melting and structure cutoffs",
	stageDiscOfftarget:   "every allele-specific primer primes elsewhere in the genome",
	stageCommon:          "no shared primer found in any product-size window",
	stageCommonOfftarget: "every shared primer primes elsewhere in the genome",
	stagePool:            "every candidate set cross-hybridizes with already accepted primers",
}

// designBin finds the best primer set for one bin that the multiplex
// will tolerate. Clusters are tried nearest the bin center first,
// discriminatory candidates best first, and the first set clearing the
// accepted-primer checks wins
func (s *searcher) designBin(bin Bin, set *accepted, ot *offtarget) (PrimerPair, *NoPrimerFoundError) {
	fail := func(reason string) *NoPrimerFoundError {
		return &NoPrimerFoundError{Bin: bin.Index, Lo: bin.Lo, Hi: bin.Hi, Reason: reason}
	}
	if !bin.HasEdit {
		if len(s.t.Edges.Clusters()) == 0 {
			return PrimerPair{}, fail("no edits in region")
		}
		return PrimerPair{}, fail("no edit clusters in bin")
	}

	// anchors keep the edge offset away from the bin boundaries; the
	// footprints themselves may range over the whole region, amplicons
	// are sized from the discriminatory primer, not boxed into the bin
	regLo, regHi := s.t.Coords.Start(), s.t.Coords.End()
	aLo, aHi := bin.Lo+s.conf.Bins.EdgeOffset, bin.Hi-s.conf.Bins.EdgeOffset
	if aLo < regLo {
		aLo = regLo
	}
	if aHi > regHi {
		aHi = regHi
	}
	if aLo >= aHi {
		return PrimerPair{}, fail(fmt.Sprintf("edge offset %d leaves no searchable span", s.conf.Bins.EdgeOffset))
	}

	stage := stageAnchor
	for _, cl := range orderClusters(bin.Clusters, (bin.Lo+bin.Hi)/2) {
		cLo, cHi := cl.Lo, cl.Hi+1
		if cLo < aLo {
			cLo = aLo
		}
		if cHi > aHi {
			cHi = aHi
		}
		anchors := s.t.Mismatch.Positions(cLo, cHi)
		if len(anchors) == 0 {
			continue
		}
		if stage < stageDisc {
			stage = stageDisc
		}

		for _, dr := range s.discCandidates(anchors, cl, regLo, regHi) {
			if ot != nil && ot.spurious(dr.disc.Seq, dr.disc.ThreePrime(), dr.disc.Strand) {
				if stage < stageDiscOfftarget {
					stage = stageDiscOfftarget
				}
				continue
			}
			if stage < stageCommon {
				stage = stageCommon
			}

			for _, cm := range s.commonCandidates(dr.disc, bin, regLo, regHi) {
				if ot != nil && ot.spurious(cm.Seq, cm.ThreePrime(), cm.Strand) {
					if stage < stageCommonOfftarget {
						stage = stageCommonOfftarget
					}
					continue
				}
				if !set.compatible(dr.disc.Seq, dr.wt.Seq, cm.Seq) {
					if stage < stagePool {
						stage = stagePool
					}
					continue
				}

				set.add(dr.disc.Seq, dr.wt.Seq, cm.Seq)
				return PrimerPair{
					Bin:            bin.Index,
					Discriminatory: dr.disc,
					Wildtype:       dr.wt,
					Common:         cm,
					ProductSize:    productSize(dr.disc, cm),
				}, nil
			}
		}
	}

	return PrimerPair{}, fail(stageReasons[stage])
}

// discResult couples a discriminatory candidate with its wild-type
// counterpart, found together and kept together
type discResult struct {
	disc Candidate
	wt   Candidate
}

// discCandidates collects every viable discriminatory primer over the
// cluster's anchors on both strands, best score first. Ties land on the
// leftmost start, then the forward strand, then the shorter primer
func (s *searcher) discCandidates(anchors []int, own lut.Cluster, spanLo, spanHi int) []discResult {
	var out []discResult
	for _, anchor := range anchors {
		for _, strand := range []genome.Strand{genome.Fwd, genome.Rev} {
			disc, wt, ok := s.findDiscriminatory(anchor, strand, own, spanLo, spanHi)
			if !ok {
				continue
			}
			out = append(out, discResult{disc: disc, wt: wt})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].disc, out[j].disc
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Strand != b.Strand {
			return a.Strand == genome.Fwd
		}
		return a.Length < b.Length
	})
	return out
}

// commonCandidates scans every 5' placement that puts the amplicon
// within tolerance of the bin's product size, in parallel, and returns
// the survivors best score first. Each placement's score carries a
// penalty for its distance to the target size, so placements near the
// rung's nominal length rank ahead of equally melting ones farther off.
// The window sits on the far side of the discriminatory 3' end so the
// footprints cannot collide
func (s *searcher) commonCandidates(disc Candidate, bin Bin, spanLo, spanHi int) []Candidate {
	tol := s.conf.Bins.SizeTolerance

	var qLo, qHi int
	strand := genome.Rev
	cLo, cHi := disc.ThreePrime()+1, spanHi
	if disc.Strand == genome.Fwd {
		five := disc.Start
		qLo, qHi = five+bin.TargetSize-tol-1, five+bin.TargetSize+tol-1
	} else {
		strand = genome.Fwd
		cLo, cHi = spanLo, disc.ThreePrime()
		five := disc.End() - 1
		qLo, qHi = five-bin.TargetSize-tol+1, five-bin.TargetSize+tol+1
	}
	if qLo < cLo {
		qLo = cLo
	}
	if qHi > cHi-1 {
		qHi = cHi - 1
	}
	if qHi < qLo {
		return nil
	}

	workers := s.conf.Threads
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	found := make([]Candidate, qHi-qLo+1)
	oks := make([]bool, qHi-qLo+1)
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				found[q-qLo], oks[q-qLo] = s.findCommon(q, strand, cLo, cHi)
			}
		}()
	}
	for q := qLo; q <= qHi; q++ {
		jobs <- q
	}
	close(jobs)
	wg.Wait()

	sizeDenom := float64(tol)
	if sizeDenom <= 0 {
		sizeDenom = 1
	}
	var out []Candidate
	for i, ok := range oks {
		if !ok {
			continue
		}
		c := found[i]
		c.Score -= sq(float64(productSize(disc, c)-bin.TargetSize) / sizeDenom)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Start < out[j].Start
	})
	return out
}

// productSize is the amplicon length between the two 5' ends, inclusive
func productSize(disc, common Candidate) int {
	if disc.Strand == genome.Fwd {
		return common.End() - disc.Start
	}
	return disc.End() - common.Start
}

// orderClusters sorts clusters by distance of their middle from the bin
// center, nearest first, ties to the lower coordinate
func orderClusters(clusters []lut.Cluster, center int) []lut.Cluster {
	out := make([]lut.Cluster, len(clusters))
	copy(out, clusters)
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := dist(out[i].Mid(), center), dist(out[j].Mid(), center)
		if di != dj {
			return di < dj
		}
		return out[i].Lo < out[j].Lo
	})
	return out
}

// accepted is the running, append-only set of primers committed to the
// multiplex. A candidate trio joins only when no pairing, inside the
// trio or against the set, melts above the clip. Lenient runs skip the
// check
type accepted struct {
	seqs []string
	clip float64
	calc thermo.Calculator
	skip bool
}

func (a *accepted) compatible(trio ...string) bool {
	if a.skip {
		return true
	}
	for i, s := range trio {
		for _, t := range trio[i+1:] {
			if a.calc.HeterodimerTm(s, t) > a.clip {
				return false
			}
		}
		for _, t := range a.seqs {
			if a.calc.HeterodimerTm(s, t) > a.clip {
				return false
			}
		}
	}
	return true
}

func (a *accepted) add(trio ...string) {
	a.seqs = append(a.seqs, trio...)
}
