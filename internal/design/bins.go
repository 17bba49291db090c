// Package design lays the target region out into amplicon bins and
// searches each bin for an allele-discriminating primer set: one primer
// whose 3' end sits on a recoded base, its wild-type counterpart, and a
// shared partner primer placing the product at the bin's size rung.
package design

import (
	"fmt"

	"github.com/hainesm6-learning/mascpcr/internal/lut"
)

// BinPolicy controls how layout reacts to bins without edits
type BinPolicy struct {
	// Strict makes a bin without any edit cluster a BinningError.
	// Default is to lay the bin out anyway and let the search record it
	// as unsatisfied
	Strict bool
}

// Bin is one slice of the region, sized to produce one rung of the
// multiplexed product ladder
type Bin struct {
	// Index of the bin, 0-based, ascending with coordinates
	Index int

	// Lo, Hi bound the bin, [Lo, Hi) in recoded coordinates
	Lo, Hi int

	// TargetSize is the desired amplicon size for this bin
	TargetSize int

	// Clusters are the edit clusters inside the bin
	Clusters []lut.Cluster

	// Discriminator is the cluster the allele-specific primer lands on,
	// the one nearest the bin center
	Discriminator lut.Cluster

	// HasEdit is false when the bin contains no cluster at all
	HasEdit bool
}

// BuildBins partitions [start, end) into one bin per product size,
// shifting interior boundaries off edit clusters so every cluster
// belongs to exactly one bin. Bin widths may deviate from their product
// size by at most sizeTol
func BuildBins(start, end int, productSizes []int, sizeTol int, edges *lut.EdgeTable, borders *lut.BorderTable, policy BinPolicy) ([]Bin, error) {
	n := len(productSizes)
	if n == 0 {
		return nil, &BinningError{Bin: -1, Reason: "no product sizes given"}
	}
	if start >= end {
		return nil, &BinningError{Bin: -1, Reason: fmt.Sprintf("empty region [%d, %d)", start, end)}
	}

	total := 0
	for i, s := range productSizes {
		if s <= 0 {
			return nil, &BinningError{Bin: i, Reason: fmt.Sprintf("product size %d is not positive", s)}
		}
		total += s
	}

	// spread the slack over the bins, one base at a time
	extra := end - start - total
	widths := make([]int, n)
	for i := 0; i < n; i++ {
		share := extra*(i+1)/n - extra*i/n
		if share > sizeTol || -share > sizeTol {
			return nil, &BinningError{
				Bin: i,
				Reason: fmt.Sprintf("region of %d bp needs bin %d to deviate %d bp from its %d bp product, above the %d bp tolerance",
					end-start, i, share, productSizes[i], sizeTol),
			}
		}
		widths[i] = productSizes[i] + share
	}

	bounds := make([]int, n+1)
	bounds[0] = start
	for i := 0; i < n; i++ {
		bounds[i+1] = bounds[i] + widths[i]
	}

	for i := 1; i < n; i++ {
		if err := clearBoundary(bounds, i, productSizes, sizeTol, edges, borders); err != nil {
			return nil, err
		}
	}

	bins := make([]Bin, n)
	for i := 0; i < n; i++ {
		b := Bin{
			Index:      i,
			Lo:         bounds[i],
			Hi:         bounds[i+1],
			TargetSize: productSizes[i],
		}
		b.Clusters = edges.Intersecting(b.Lo, b.Hi)
		b.HasEdit = len(b.Clusters) > 0
		if b.HasEdit {
			b.Discriminator = centerCluster(b.Clusters, (b.Lo+b.Hi)/2)
		} else if policy.Strict {
			return nil, &BinningError{Bin: i, Reason: "no edits in bin"}
		}
		bins[i] = b
	}

	return bins, nil
}

// clearBoundary moves bounds[i] off any edit cluster it splits. The
// candidate landings are the cluster's two ends; the nearer one wins,
// tolerance permitting, with an annotated border position breaking ties
func clearBoundary(bounds []int, i int, productSizes []int, sizeTol int, edges *lut.EdgeTable, borders *lut.BorderTable) error {
	b := bounds[i]
	c, ok := splitCluster(edges, b)
	if !ok {
		return nil
	}

	left, right := c.Lo, c.Hi+1
	candidates := []int{left, right}
	if b-left > right-b {
		candidates = []int{right, left}
	} else if b-left == right-b && borders != nil {
		// tie: prefer the end that lands on an annotated border
		if !onBorder(borders, left) && onBorder(borders, right) {
			candidates = []int{right, left}
		}
	}

	for _, nb := range candidates {
		if boundaryFits(bounds, i, nb, productSizes, sizeTol) {
			bounds[i] = nb
			return nil
		}
	}

	return &BinningError{
		Bin: i,
		Reason: fmt.Sprintf("edit cluster [%d, %d] spans the bin boundary at %d and cannot be cleared within the %d bp tolerance",
			c.Lo, c.Hi, b, sizeTol),
	}
}

// splitCluster returns the cluster with bases on both sides of the
// boundary b, if any. A cluster starting exactly at b sits whole in the
// right bin and is not split
func splitCluster(edges *lut.EdgeTable, b int) (lut.Cluster, bool) {
	c, ok := edges.ClusterAt(b)
	if ok && c.Lo < b {
		return c, true
	}
	return lut.Cluster{}, false
}

func onBorder(borders *lut.BorderTable, pos int) bool {
	near, ok := borders.Nearest(pos)
	return ok && near.Pos == pos
}

// boundaryFits checks that moving bounds[i] to nb keeps both adjacent
// bins within tolerance of their product sizes and non-empty
func boundaryFits(bounds []int, i, nb int, productSizes []int, sizeTol int) bool {
	leftW := nb - bounds[i-1]
	rightW := bounds[i+1] - nb
	if leftW <= 0 || rightW <= 0 {
		return false
	}
	if d := leftW - productSizes[i-1]; d > sizeTol || -d > sizeTol {
		return false
	}
	if d := rightW - productSizes[i]; d > sizeTol || -d > sizeTol {
		return false
	}
	return true
}

// centerCluster picks the cluster whose middle sits closest to the bin
// center, ties to the lower coordinate
func centerCluster(clusters []lut.Cluster, center int) lut.Cluster {
	best := clusters[0]
	bestD := dist(best.Mid(), center)
	for _, c := range clusters[1:] {
		if d := dist(c.Mid(), center); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func dist(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
