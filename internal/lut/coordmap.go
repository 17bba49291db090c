package lut

import (
	"fmt"

	"github.com/hainesm6-learning/mascpcr/internal/genome"
)

// CoordinateError means the recoded and reference sequences fell out of
// register and could not be re-anchored
type CoordinateError struct {
	// Pos is the recoded position where alignment was lost
	Pos int

	// Reason alignment gave up
	Reason string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("coordinate map lost alignment at %d: %s", e.Pos, e.Reason)
}

// MapOptions tune the alignment walk of BuildCoordinateMap
type MapOptions struct {
	// AnchorLen is how many consecutive agreeing bases re-anchor the
	// walk after a divergence
	AnchorLen int

	// MaxShift bounds how many recoded or reference bases a single
	// divergence may span before the walk gives up
	MaxShift int
}

// DefaultMapOptions work for recoded genomes whose edits are point
// changes and short indels
func DefaultMapOptions() MapOptions {
	return MapOptions{AnchorLen: 20, MaxShift: 500}
}

// BuildCoordinateMap walks the recoded region [start, end) against the
// reference sequence and records, per recoded position, the reference
// position it aligns to. Recoded bases with no reference counterpart
// map to Inserted. Mapped positions are strictly increasing
func BuildCoordinateMap(recoded, reference *genome.Genome, start, end int, opts MapOptions) (*CoordinateMap, error) {
	if opts.AnchorLen <= 0 {
		opts.AnchorLen = DefaultMapOptions().AnchorLen
	}
	if opts.MaxShift <= 0 {
		opts.MaxShift = DefaultMapOptions().MaxShift
	}
	if start < 0 || end > recoded.Len() || start >= end {
		return nil, &CoordinateError{
			Pos:    start,
			Reason: fmt.Sprintf("region [%d, %d) outside recoded genome of %d bp", start, end, recoded.Len()),
		}
	}

	rec, ref := recoded.Seq, reference.Seq
	m := &CoordinateMap{start: start, ref: make([]int32, end-start)}

	w, ok := findAnchor(rec, ref, start, end, opts)
	if !ok {
		return nil, &CoordinateError{Pos: start, Reason: "no reference anchor near the region start"}
	}

	r := start
	for r < end {
		if w < len(ref) && rec[r] == ref[w] {
			m.ref[r-start] = int32(w)
			r++
			w++
			continue
		}

		dr, dw, ok := resync(rec, ref, r, w, end, opts)
		if !ok {
			return nil, &CoordinateError{
				Pos:    r,
				Reason: fmt.Sprintf("no agreement within %d bases of a divergence", opts.MaxShift),
			}
		}

		// paired positions are substitutions, surplus recoded bases are
		// insertions, surplus reference bases are deletions
		sub := dr
		if dw < sub {
			sub = dw
		}
		for i := 0; i < sub && r+i < end; i++ {
			m.ref[r+i-start] = int32(w + i)
		}
		for i := sub; i < dr && r+i < end; i++ {
			m.ref[r+i-start] = Inserted
		}
		r += dr
		w += dw
	}

	return m, nil
}

// findAnchor locates the reference position aligned with the region
// start, trying offsets outward from the start coordinate itself
func findAnchor(rec, ref string, start, end int, opts MapOptions) (int, bool) {
	if agree(rec, ref, start, start, end, opts.AnchorLen) {
		return start, true
	}
	for d := 1; d <= opts.MaxShift; d++ {
		if w := start - d; w >= 0 && agree(rec, ref, start, w, end, opts.AnchorLen) {
			return w, true
		}
		if w := start + d; agree(rec, ref, start, w, end, opts.AnchorLen) {
			return w, true
		}
	}
	return 0, false
}

// resync finds the smallest skip (dr recoded bases, dw reference bases)
// after which the anchor agrees again. Smallest means fewest bases
// skipped in total, ties to the fewest recoded bases
func resync(rec, ref string, r, w, end int, opts MapOptions) (dr, dw int, ok bool) {
	for total := 1; total <= 2*opts.MaxShift; total++ {
		for dr := 0; dr <= total && dr <= opts.MaxShift; dr++ {
			dw := total - dr
			if dw > opts.MaxShift {
				continue
			}
			if agree(rec, ref, r+dr, w+dw, end, opts.AnchorLen) {
				return dr, dw, true
			}
		}
	}
	return 0, 0, false
}

// agree reports whether anchorLen bases match at (r, w). Tails shorter
// than the anchor still agree when every remaining base matches, and
// reaching the region end trivially agrees
func agree(rec, ref string, r, w, end, anchorLen int) bool {
	if r >= end {
		return true
	}
	if w >= len(ref) {
		return false
	}
	n := anchorLen
	if rem := len(rec) - r; rem < n {
		n = rem
	}
	if rem := len(ref) - w; rem < n {
		n = rem
	}
	if n <= 0 {
		return false
	}
	for i := 0; i < n; i++ {
		if rec[r+i] != ref[w+i] {
			return false
		}
	}
	return true
}
