package design

import (
	"errors"
	"strings"
	"testing"
)

func TestBuildBins_evenSplit(t *testing.T) {
	seq := randSeq(1000, 3)
	tbl := makeTables(t, seq, seq, 0, 1000)

	bins, err := BuildBins(0, 1000, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{})
	if err != nil {
		t.Fatalf("BuildBins() err = %v", err)
	}
	if len(bins) != 3 {
		t.Fatalf("got %d bins, want 3", len(bins))
	}

	wantBounds := [][2]int{{0, 300}, {300, 600}, {600, 1000}}
	wantSizes := []int{300, 300, 400}
	for i, b := range bins {
		if b.Index != i {
			t.Errorf("bins[%d].Index = %d", i, b.Index)
		}
		if b.Lo != wantBounds[i][0] || b.Hi != wantBounds[i][1] {
			t.Errorf("bins[%d] spans [%d, %d), want [%d, %d)", i, b.Lo, b.Hi, wantBounds[i][0], wantBounds[i][1])
		}
		if b.TargetSize != wantSizes[i] {
			t.Errorf("bins[%d].TargetSize = %d, want %d", i, b.TargetSize, wantSizes[i])
		}
		if b.HasEdit {
			t.Errorf("bins[%d].HasEdit = true for an identical genome", i)
		}
	}
}

func TestBuildBins_spreadsSlack(t *testing.T) {
	tests := []struct {
		name   string
		end    int
		bounds []int
	}{
		{"ten extra", 1010, []int{0, 303, 606, 1010}},
		{"twenty short", 980, []int{0, 294, 587, 980}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := randSeq(tt.end, 4)
			tbl := makeTables(t, seq, seq, 0, tt.end)

			bins, err := BuildBins(0, tt.end, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{})
			if err != nil {
				t.Fatalf("BuildBins() err = %v", err)
			}
			for i, b := range bins {
				if b.Lo != tt.bounds[i] || b.Hi != tt.bounds[i+1] {
					t.Errorf("bins[%d] spans [%d, %d), want [%d, %d)", i, b.Lo, b.Hi, tt.bounds[i], tt.bounds[i+1])
				}
			}
		})
	}
}

func TestBuildBins_rejectsBadLayouts(t *testing.T) {
	seq := randSeq(1100, 5)
	tbl := makeTables(t, seq, seq, 0, 1100)

	tests := []struct {
		name  string
		start int
		end   int
		sizes []int
		bin   int
	}{
		{"slack above tolerance", 0, 1100, []int{300, 300, 400}, 0},
		{"no sizes", 0, 1000, nil, -1},
		{"empty region", 500, 500, []int{300}, -1},
		{"nonpositive size", 0, 600, []int{300, 0, 300}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildBins(tt.start, tt.end, tt.sizes, 20, tbl.Edges, tbl.Borders, BinPolicy{})
			var be *BinningError
			if !errors.As(err, &be) {
				t.Fatalf("BuildBins() err = %v, want BinningError", err)
			}
			if be.Bin != tt.bin {
				t.Errorf("BinningError.Bin = %d, want %d", be.Bin, tt.bin)
			}
		})
	}
}

func TestBuildBins_clearsSplitCluster(t *testing.T) {
	tests := []struct {
		name  string
		edits []int
		hi0   int // cleared first boundary
		owner int // bin the cluster lands in
	}{
		{"nearer left end", seqRange(295, 305), 295, 1},
		{"nearer right end", seqRange(290, 301), 302, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := randSeq(1000, 6)
			rec := mutate(ref, tt.edits...)
			tbl := makeTables(t, rec, ref, 0, 1000)

			bins, err := BuildBins(0, 1000, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{})
			if err != nil {
				t.Fatalf("BuildBins() err = %v", err)
			}
			if bins[0].Hi != tt.hi0 || bins[1].Lo != tt.hi0 {
				t.Fatalf("boundary cleared to %d/%d, want %d", bins[0].Hi, bins[1].Lo, tt.hi0)
			}

			lo, hi := tt.edits[0], tt.edits[len(tt.edits)-1]
			owner := bins[tt.owner]
			if len(owner.Clusters) != 1 || owner.Clusters[0].Lo != lo || owner.Clusters[0].Hi != hi {
				t.Errorf("bin %d clusters = %v, want [{%d %d}]", tt.owner, owner.Clusters, lo, hi)
			}
			other := bins[1-tt.owner]
			if other.HasEdit {
				t.Errorf("bin %d still intersects the cluster", other.Index)
			}
		})
	}
}

func TestBuildBins_unclearableBoundary(t *testing.T) {
	ref := randSeq(1000, 7)
	rec := mutate(ref, seqRange(270, 330)...)
	tbl := makeTables(t, rec, ref, 0, 1000)

	_, err := BuildBins(0, 1000, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{})
	var be *BinningError
	if !errors.As(err, &be) {
		t.Fatalf("BuildBins() err = %v, want BinningError", err)
	}
	if be.Bin != 1 {
		t.Errorf("BinningError.Bin = %d, want 1", be.Bin)
	}
	if !strings.Contains(be.Reason, "cannot be cleared") {
		t.Errorf("BinningError.Reason = %q", be.Reason)
	}
}

func TestBuildBins_strictNeedsEdits(t *testing.T) {
	ref := randSeq(1000, 8)
	rec := mutate(ref, 500)
	tbl := makeTables(t, rec, ref, 0, 1000)

	bins, err := BuildBins(0, 1000, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{})
	if err != nil {
		t.Fatalf("BuildBins() err = %v", err)
	}
	if bins[0].HasEdit || !bins[1].HasEdit || bins[2].HasEdit {
		t.Fatalf("HasEdit = %v/%v/%v, want false/true/false", bins[0].HasEdit, bins[1].HasEdit, bins[2].HasEdit)
	}

	_, err = BuildBins(0, 1000, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{Strict: true})
	var be *BinningError
	if !errors.As(err, &be) {
		t.Fatalf("strict BuildBins() err = %v, want BinningError", err)
	}
	if be.Bin != 0 {
		t.Errorf("BinningError.Bin = %d, want 0", be.Bin)
	}
}

func TestBuildBins_discriminatorNearestCenter(t *testing.T) {
	ref := randSeq(1000, 9)
	rec := mutate(ref, 320, 440)
	tbl := makeTables(t, rec, ref, 0, 1000)

	bins, err := BuildBins(0, 1000, []int{300, 300, 400}, 20, tbl.Edges, tbl.Borders, BinPolicy{})
	if err != nil {
		t.Fatalf("BuildBins() err = %v", err)
	}

	b := bins[1]
	if len(b.Clusters) != 2 {
		t.Fatalf("bin 1 has %d clusters, want 2", len(b.Clusters))
	}
	if b.Clusters[0].Lo != 320 || b.Clusters[1].Lo != 440 {
		t.Fatalf("bin 1 clusters = %v, want ascending 320, 440", b.Clusters)
	}
	if b.Discriminator.Lo != 440 {
		t.Errorf("Discriminator = %v, want the cluster at 440, nearest the bin center", b.Discriminator)
	}
}

// seqRange lists the positions lo..hi inclusive
func seqRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for p := lo; p <= hi; p++ {
		out = append(out, p)
	}
	return out
}
