package design

import (
	"strings"
	"testing"

	"github.com/hainesm6-learning/mascpcr/config"
	"github.com/hainesm6-learning/mascpcr/internal/genome"
	"github.com/hainesm6-learning/mascpcr/internal/lut"
)

// randSeq builds a deterministic pseudo-random test sequence
func randSeq(n int, seed uint32) string {
	bases := []byte{'A', 'C', 'G', 'T'}
	out := make([]byte, n)
	s := seed
	for i := range out {
		s = s*1664525 + 1013904223
		out[i] = bases[(s>>16)&3]
	}
	return string(out)
}

// flip swaps a base for a different one, deterministically
func flip(b byte) byte {
	switch b {
	case 'A':
		return 'C'
	case 'C':
		return 'G'
	case 'G':
		return 'T'
	}
	return 'A'
}

// mutate returns seq with the bases at the given positions flipped
func mutate(seq string, positions ...int) string {
	out := []byte(seq)
	for _, p := range positions {
		out[p] = flip(out[p])
	}
	return string(out)
}

func mock(seq string) *genome.Genome {
	return &genome.Genome{ID: "mock", Seq: seq}
}

// makeTables aligns two sequences over [start, end) and builds the
// lookup tables the designer consumes
func makeTables(t *testing.T, rec, ref string, start, end int) lut.Tables {
	t.Helper()

	cm, err := lut.BuildCoordinateMap(mock(rec), mock(ref), start, end, lut.MapOptions{})
	if err != nil {
		t.Fatalf("BuildCoordinateMap() err = %v", err)
	}
	mt, et := lut.ScanEdits(cm, mock(rec), mock(ref), lut.EditOptions{})
	bt, err := lut.LocateBorders(nil, nil, nil, et)
	if err != nil {
		t.Fatalf("LocateBorders() err = %v", err)
	}
	return lut.Tables{Coords: cm, Mismatch: mt, Edges: et, Borders: bt}
}

// wallaceCalc melts primers by the Wallace rule, 2 degrees per A/T and
// 4 per G/C, and folds no secondary structure
type wallaceCalc struct{}

func (wallaceCalc) Tm(seq string) (float64, error) {
	tm := 0.0
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'G', 'C':
			tm += 4
		default:
			tm += 2
		}
	}
	return tm, nil
}

func (wallaceCalc) HairpinTm(string) float64             { return 0 }
func (wallaceCalc) HomodimerTm(string) float64           { return 0 }
func (wallaceCalc) HeterodimerTm(string, string) float64 { return 0 }

// testConfig returns design settings sized for the Wallace rule, where
// an 18-25mer of the repeat genome melts between 50 and 70
func testConfig() *config.Config {
	return &config.Config{
		Thermo: config.ThermoConfig{MvConc: 50, DvConc: 1.5, DNTPConc: 0.8, DNAConc: 50},
		Primer: config.PrimerConfig{
			TmMin:           50,
			TmMax:           70,
			MinSize:         18,
			MaxSize:         30,
			MinMismatches:   1,
			SpuriousTmClip:  40,
			MismatchWeights: []int{5, 4, 4, 3, 3, 2, 1},
		},
		Bins: config.BinConfig{
			ProductSizes:  []int{300, 300, 400},
			SizeTolerance: 20,
			EdgeOffset:    10,
		},
		Threads: 2,
	}
}

// repeatGenome tiles a 10-base motif into a 1000 base sequence. No
// 5-base window of the motif holds more than two G/C bases, so no
// primer ever trips the GC clamp
func repeatGenome() string {
	return strings.Repeat("ACTGATCTAG", 100)
}
