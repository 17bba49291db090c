package lut

import (
	"github.com/hainesm6-learning/mascpcr/internal/genome"
)

// EditOptions tune edit cluster grouping
type EditOptions struct {
	// ClusterGap is the largest run of unedited bases absorbed into a
	// single cluster. Edits further apart start a new cluster
	ClusterGap int
}

// DefaultEditOptions group edits within a codon or two of each other
func DefaultEditOptions() EditOptions {
	return EditOptions{ClusterGap: 6}
}

// ScanEdits compares the mapped region base by base and returns the
// mismatch table and the edit cluster table. A position is mismatched
// when its base differs from the aligned reference base or has no
// reference counterpart. Clusters additionally absorb coordinate-map
// junctions, where mapped reference positions jump
func ScanEdits(cm *CoordinateMap, recoded, reference *genome.Genome, opts EditOptions) (*MismatchTable, *EdgeTable) {
	if opts.ClusterGap <= 0 {
		opts.ClusterGap = DefaultEditOptions().ClusterGap
	}

	start, end := cm.Start(), cm.End()
	mt := &MismatchTable{start: start, diff: make([]bool, end-start)}

	for p := start; p < end; p++ {
		w, ok := cm.Ref(p)
		if !ok {
			mt.diff[p-start] = true
			mt.count++
			continue
		}
		if w >= reference.Len() || recoded.Seq[p] != reference.Seq[w] {
			mt.diff[p-start] = true
			mt.count++
		}
	}

	et := &EdgeTable{clusters: clusterEdits(cm, mt, opts.ClusterGap)}
	return mt, et
}

// clusterEdits groups mismatched and junction positions into maximal
// runs separated by more than gap unedited bases
func clusterEdits(cm *CoordinateMap, mt *MismatchTable, gap int) []Cluster {
	start, end := cm.Start(), cm.End()

	var clusters []Cluster
	for p := start; p < end; p++ {
		if !mt.Is(p) && !junction(cm, p) {
			continue
		}
		if n := len(clusters); n > 0 && p-clusters[n-1].Hi <= gap {
			clusters[n-1].Hi = p
			continue
		}
		clusters = append(clusters, Cluster{Lo: p, Hi: p})
	}
	return clusters
}

// junction reports whether the coordinate map jumps between pos and
// pos+1, the footprint a deletion or rearrangement leaves on two
// otherwise matching bases
func junction(cm *CoordinateMap, pos int) bool {
	here, ok := cm.Ref(pos)
	if !ok {
		return false // inserted bases are already mismatches
	}
	next, ok := cm.Ref(pos + 1)
	if !ok {
		return false
	}
	return next != here+1
}
