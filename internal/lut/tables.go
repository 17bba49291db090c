// Package lut builds the four lookup tables the primer search runs on:
// the recoded→reference coordinate map, the mismatch table, the edit
// cluster table, and the border table. All four are immutable once
// built and cover a single [start, end) region in recoded coordinates.
package lut

import "sort"

// Inserted is the reference coordinate recorded for recoded bases with
// no reference counterpart
const Inserted = -1

// CoordinateMap maps recoded genome positions to reference genome
// positions over a region. Mapped coordinates are strictly increasing;
// inserted bases carry Inserted
type CoordinateMap struct {
	start int
	ref   []int32
}

// Start is the first recoded position the map covers
func (m *CoordinateMap) Start() int {
	return m.start
}

// End is one past the last recoded position the map covers
func (m *CoordinateMap) End() int {
	return m.start + len(m.ref)
}

// Len is the number of recoded positions covered
func (m *CoordinateMap) Len() int {
	return len(m.ref)
}

// Ref maps a recoded position to its reference position. ok is false
// for inserted bases and positions outside the region
func (m *CoordinateMap) Ref(pos int) (int, bool) {
	i := pos - m.start
	if i < 0 || i >= len(m.ref) || m.ref[i] == Inserted {
		return Inserted, false
	}
	return int(m.ref[i]), true
}

// Inserted reports whether the recoded base at pos has no reference
// counterpart. Positions outside the region are not inserted
func (m *CoordinateMap) Inserted(pos int) bool {
	i := pos - m.start
	return i >= 0 && i < len(m.ref) && m.ref[i] == Inserted
}

// MismatchTable marks the recoded positions whose base differs from the
// aligned reference base. Inserted bases always differ
type MismatchTable struct {
	start int
	diff  []bool
	count int
}

// Start is the first recoded position the table covers
func (t *MismatchTable) Start() int {
	return t.start
}

// End is one past the last recoded position the table covers
func (t *MismatchTable) End() int {
	return t.start + len(t.diff)
}

// Is reports whether the recoded base at pos differs from the reference
func (t *MismatchTable) Is(pos int) bool {
	i := pos - t.start
	return i >= 0 && i < len(t.diff) && t.diff[i]
}

// Count is the total number of mismatched positions in the region
func (t *MismatchTable) Count() int {
	return t.count
}

// Positions returns the mismatched positions within [lo, hi), ascending
func (t *MismatchTable) Positions(lo, hi int) []int {
	if lo < t.start {
		lo = t.start
	}
	if hi > t.End() {
		hi = t.End()
	}
	var out []int
	for p := lo; p < hi; p++ {
		if t.diff[p-t.start] {
			out = append(out, p)
		}
	}
	return out
}

// Cluster is a maximal run of edited positions, [Lo, Hi] inclusive in
// recoded coordinates
type Cluster struct {
	Lo int
	Hi int
}

// Mid is the center of the cluster, rounded down
func (c Cluster) Mid() int {
	return (c.Lo + c.Hi) / 2
}

// EdgeTable holds the edit clusters of the region. A cluster groups
// mismatches and coordinate-map junctions that sit within the cluster
// gap of one another
type EdgeTable struct {
	clusters []Cluster
}

// Clusters returns the clusters, ascending and non-overlapping
func (t *EdgeTable) Clusters() []Cluster {
	return t.clusters
}

// ClusterAt returns the cluster containing pos
func (t *EdgeTable) ClusterAt(pos int) (Cluster, bool) {
	i := sort.Search(len(t.clusters), func(i int) bool {
		return t.clusters[i].Hi >= pos
	})
	if i < len(t.clusters) && t.clusters[i].Lo <= pos {
		return t.clusters[i], true
	}
	return Cluster{}, false
}

// Intersecting returns the clusters overlapping the window [lo, hi)
func (t *EdgeTable) Intersecting(lo, hi int) []Cluster {
	i := sort.Search(len(t.clusters), func(i int) bool {
		return t.clusters[i].Hi >= lo
	})
	var out []Cluster
	for ; i < len(t.clusters) && t.clusters[i].Lo < hi; i++ {
		out = append(out, t.clusters[i])
	}
	return out
}

// IsEdge reports whether pos is the first or last position of a cluster
func (t *EdgeTable) IsEdge(pos int) bool {
	c, ok := t.ClusterAt(pos)
	return ok && (pos == c.Lo || pos == c.Hi)
}

// BorderSource is the provenance of a border
type BorderSource string

const (
	// BorderFeature marks borders read from genome annotations
	BorderFeature BorderSource = "feature"

	// BorderEdit marks borders derived from edit cluster boundaries
	BorderEdit BorderSource = "edit"
)

// Border is a segment boundary: a position between two stretches of the
// recoded genome that were synthesized or edited separately
type Border struct {
	// Pos in recoded coordinates, half-open boundary convention
	Pos int

	// Source of the border
	Source BorderSource

	// Label of the originating feature or cluster
	Label string
}

// BorderTable holds the segment borders of the region, ascending by
// position
type BorderTable struct {
	borders []Border
}

// All returns every border, ascending
func (t *BorderTable) All() []Border {
	return t.borders
}

// Within returns the borders with lo <= Pos < hi
func (t *BorderTable) Within(lo, hi int) []Border {
	i := sort.Search(len(t.borders), func(i int) bool {
		return t.borders[i].Pos >= lo
	})
	var out []Border
	for ; i < len(t.borders) && t.borders[i].Pos < hi; i++ {
		out = append(out, t.borders[i])
	}
	return out
}

// Nearest returns the border closest to pos, preferring the lower
// position on ties. ok is false when the table is empty
func (t *BorderTable) Nearest(pos int) (Border, bool) {
	if len(t.borders) == 0 {
		return Border{}, false
	}
	i := sort.Search(len(t.borders), func(i int) bool {
		return t.borders[i].Pos >= pos
	})
	if i == 0 {
		return t.borders[0], true
	}
	if i == len(t.borders) {
		return t.borders[len(t.borders)-1], true
	}
	below, above := t.borders[i-1], t.borders[i]
	if pos-below.Pos <= above.Pos-pos {
		return below, true
	}
	return above, true
}
