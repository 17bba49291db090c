// Package thermo predicts oligo melting temperatures with the unified
// SantaLucia nearest-neighbor parameter set. All temperatures are °C,
// enthalpies kcal/mol, entropies cal/(K·mol).
package thermo

import (
	"fmt"
	"math"
	"strings"
)

// gas constant, cal/(K·mol)
const rCal = 1.9872

type nnParams struct {
	dh float64
	ds float64
}

// Watson-Crick propagation parameters at 1 M Na+, keyed by the top
// strand dinucleotide read 5'→3'. SantaLucia & Hicks (2004), Table 1
var stackParams = map[string]nnParams{
	"AA": {-7.6, -21.3},
	"TT": {-7.6, -21.3},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7},
	"TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4},
	"AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0},
	"AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2},
	"TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9},
	"CC": {-8.0, -19.9},
}

// initiation, terminal AT, and self-complementary symmetry corrections
var (
	initDH, initDS     = 0.2, -5.7
	termATDH, termATDS = 2.2, 6.9
	symmDH, symmDS     = 0.0, -1.4
)

// duplexEnergy sums ΔH and ΔS at 1 M Na+ for seq annealed to its full
// Watson-Crick complement. Errors on non-ACGT bases or length < 2
func duplexEnergy(seq string) (dh, ds float64, err error) {
	if len(seq) < 2 {
		return 0, 0, fmt.Errorf("duplex too short for nearest-neighbor model: %q", seq)
	}

	dh, ds = initDH, initDS
	for i := 0; i < len(seq)-1; i++ {
		p, ok := stackParams[seq[i:i+2]]
		if !ok {
			return 0, 0, fmt.Errorf("cannot compute Tm of %q: non-ACGT stack %q", seq, seq[i:i+2])
		}
		dh += p.dh
		ds += p.ds
	}

	if seq[0] == 'A' || seq[0] == 'T' {
		dh += termATDH
		ds += termATDS
	}
	if last := seq[len(seq)-1]; last == 'A' || last == 'T' {
		dh += termATDH
		ds += termATDS
	}

	if selfComplementary(seq) {
		dh += symmDH
		ds += symmDS
	}

	return dh, ds, nil
}

// saltCorrectDS applies the monovalent correction
// ΔS([Na+]) = ΔS(1M) + 0.368*(N/2)*ln[Na+], N = phosphates = 2n-2
func saltCorrectDS(ds float64, n int, naM float64) float64 {
	phosphates := float64(2*n - 2)
	return ds + 0.368*(phosphates/2.0)*math.Log(naM)
}

// duplexTm is the two-state bimolecular melting temperature of seq
// against its perfect complement:
// Tm = ΔH*1000 / (ΔS_Na + R*ln(CT/x)) - 273.15, x=1 for
// self-complementary duplexes and 4 otherwise
func duplexTm(seq string, cond Conditions) (float64, error) {
	seq = strings.ToUpper(strings.TrimSpace(seq))

	dh, ds, err := duplexEnergy(seq)
	if err != nil {
		return 0, err
	}
	dsNa := saltCorrectDS(ds, len(seq), cond.monovalentM())

	x := 4.0
	if selfComplementary(seq) {
		x = 1.0
	}
	tmK := dh * 1000.0 / (dsNa + rCal*math.Log(cond.strandM()/x))
	return tmK - 273.15, nil
}

// hairpin loop penalties, ΔG37 kcal/mol by loop size.
// SantaLucia & Hicks (2004), Table 4
var loopDG37 = [...]float64{3: 3.5, 4: 3.5, 5: 3.3, 6: 4.0, 7: 4.2, 8: 4.3, 9: 4.5}

// loopDS converts the loop penalty to a pure entropic cost at 37 °C,
// extrapolating Jacobson-Stockmayer style past the tabulated sizes
func loopDS(loop int) float64 {
	dg := 0.0
	if loop >= len(loopDG37) {
		dg = loopDG37[len(loopDG37)-1] +
			2.44*rCal*310.15*math.Log(float64(loop)/float64(len(loopDG37)-1))/1000.0
	} else if loop >= 3 {
		dg = loopDG37[loop]
	}
	return -dg * 1000.0 / 310.15
}

// unimolecularTm is the two-state melting temperature of a hairpin
// with the given stem and loop size. No concentration term: folding is
// intramolecular
func unimolecularTm(stem string, loop int, cond Conditions) (float64, error) {
	dh, ds, err := duplexEnergy(stem)
	if err != nil {
		return 0, err
	}
	dsNa := saltCorrectDS(ds, len(stem), cond.monovalentM()) + loopDS(loop)
	if dsNa >= 0 {
		return 0, nil
	}
	return dh*1000.0/dsNa - 273.15, nil
}

func selfComplementary(seq string) bool {
	n := len(seq)
	for i := 0; i < n; i++ {
		if !wc(seq[i], seq[n-1-i]) {
			return false
		}
	}
	return true
}

func wc(a, b byte) bool {
	switch a {
	case 'A':
		return b == 'T'
	case 'T':
		return b == 'A'
	case 'C':
		return b == 'G'
	case 'G':
		return b == 'C'
	}
	return false
}
