package lut

import (
	"reflect"
	"testing"
)

func TestScanEdits_noEdits(t *testing.T) {
	seq := randSeq(300, 10)
	m, err := BuildCoordinateMap(mock(seq), mock(seq), 0, 300, MapOptions{})
	if err != nil {
		t.Fatal(err)
	}

	mt, et := ScanEdits(m, mock(seq), mock(seq), EditOptions{})

	if mt.Count() != 0 {
		t.Errorf("Count() = %d, want 0 for identical genomes", mt.Count())
	}
	if len(et.Clusters()) != 0 {
		t.Errorf("Clusters() = %v, want none for identical genomes", et.Clusters())
	}
}

func TestScanEdits_clusteredSubstitutions(t *testing.T) {
	ref := randSeq(400, 11)
	rec := []byte(ref)
	// two edits 4 apart cluster together, a third 100 later stands alone
	rec[100] = flip(rec[100])
	rec[104] = flip(rec[104])
	rec[204] = flip(rec[204])

	m, err := BuildCoordinateMap(mock(string(rec)), mock(ref), 0, 400, MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	mt, et := ScanEdits(m, mock(string(rec)), mock(ref), EditOptions{ClusterGap: 6})

	if mt.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", mt.Count())
	}
	for _, p := range []int{100, 104, 204} {
		if !mt.Is(p) {
			t.Errorf("Is(%d) = false, want true", p)
		}
	}
	if mt.Is(102) {
		t.Error("Is(102) = true, want false between edits")
	}

	want := []Cluster{{Lo: 100, Hi: 104}, {Lo: 204, Hi: 204}}
	if !reflect.DeepEqual(et.Clusters(), want) {
		t.Errorf("Clusters() = %v, want %v", et.Clusters(), want)
	}
}

func TestScanEdits_insertionCluster(t *testing.T) {
	ref := randSeq(300, 12)
	ins := string([]byte{flip(ref[150]), flip(ref[150]), flip(ref[150])})
	rec := ref[:150] + ins + ref[150:]

	m, err := BuildCoordinateMap(mock(rec), mock(ref), 0, len(rec), MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	mt, et := ScanEdits(m, mock(rec), mock(ref), EditOptions{})

	if mt.Count() != 3 {
		t.Fatalf("Count() = %d, want the 3 inserted bases", mt.Count())
	}
	clusters := et.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("Clusters() = %v, want one", clusters)
	}
	if clusters[0].Lo != 150 || clusters[0].Hi != 152 {
		t.Errorf("cluster = %+v, want [150, 152]", clusters[0])
	}
}

func TestScanEdits_deletionJunction(t *testing.T) {
	ref := randSeq(300, 13)
	rec := ref[:150] + ref[153:]

	m, err := BuildCoordinateMap(mock(rec), mock(ref), 0, len(rec), MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	mt, et := ScanEdits(m, mock(rec), mock(ref), EditOptions{})

	if mt.Count() != 0 {
		t.Errorf("Count() = %d, want 0: a deletion leaves no differing base", mt.Count())
	}
	clusters := et.Clusters()
	if len(clusters) != 1 {
		t.Fatalf("Clusters() = %v, want the junction cluster", clusters)
	}
	if clusters[0].Lo < 149 || clusters[0].Hi > 165 {
		t.Errorf("junction cluster = %+v, want near position 150", clusters[0])
	}
}

func TestMismatchTable_Positions(t *testing.T) {
	ref := randSeq(300, 14)
	rec := []byte(ref)
	rec[50] = flip(rec[50])
	rec[60] = flip(rec[60])
	rec[70] = flip(rec[70])

	m, err := BuildCoordinateMap(mock(string(rec)), mock(ref), 0, 300, MapOptions{})
	if err != nil {
		t.Fatal(err)
	}
	mt, _ := ScanEdits(m, mock(string(rec)), mock(ref), EditOptions{})

	type args struct {
		lo int
		hi int
	}
	tests := []struct {
		name string
		args args
		want []int
	}{
		{"all three", args{0, 300}, []int{50, 60, 70}},
		{"inner window", args{55, 65}, []int{60}},
		{"half-open end", args{50, 70}, []int{50, 60}},
		{"clamped to region", args{-10, 1000}, []int{50, 60, 70}},
		{"empty window", args{80, 90}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mt.Positions(tt.args.lo, tt.args.hi); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Positions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEdgeTable_lookups(t *testing.T) {
	et := &EdgeTable{clusters: []Cluster{{100, 104}, {204, 204}, {300, 310}}}

	if c, ok := et.ClusterAt(102); !ok || c.Lo != 100 {
		t.Errorf("ClusterAt(102) = %v, %v, want [100, 104]", c, ok)
	}
	if _, ok := et.ClusterAt(105); ok {
		t.Error("ClusterAt(105) ok = true, want false")
	}
	if _, ok := et.ClusterAt(99); ok {
		t.Error("ClusterAt(99) ok = true, want false")
	}

	type args struct {
		lo int
		hi int
	}
	tests := []struct {
		name string
		args args
		want int
	}{
		{"spans first two", args{104, 205}, 2},
		{"between clusters", args{105, 204}, 0},
		{"inside one", args{302, 303}, 1},
		{"touches nothing", args{0, 100}, 0},
		{"everything", args{0, 400}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := et.Intersecting(tt.args.lo, tt.args.hi); len(got) != tt.want {
				t.Errorf("Intersecting() = %v, want %d clusters", got, tt.want)
			}
		})
	}

	if !et.IsEdge(100) || !et.IsEdge(104) || !et.IsEdge(204) {
		t.Error("IsEdge() = false at cluster boundaries, want true")
	}
	if et.IsEdge(102) || et.IsEdge(99) {
		t.Error("IsEdge() = true off the boundaries, want false")
	}
}

func TestCluster_Mid(t *testing.T) {
	if got := (Cluster{100, 104}).Mid(); got != 102 {
		t.Errorf("Mid() = %d, want 102", got)
	}
	if got := (Cluster{204, 204}).Mid(); got != 204 {
		t.Errorf("Mid() = %d, want 204", got)
	}
}
