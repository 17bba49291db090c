package thermo

import "math"

// Conditions are the reaction chemistry knobs the melting temperature
// model depends on. Concentrations follow the usual PCR conventions:
// salts and dNTPs in mM, primer in nM
type Conditions struct {
	// MvConc is the monovalent cation concentration (mM)
	MvConc float64

	// DvConc is the divalent cation concentration (mM)
	DvConc float64

	// DNTPConc is the dNTP concentration (mM). dNTPs chelate divalent
	// cations and reduce their effect on duplex stability
	DNTPConc float64

	// DNAConc is the concentration of the annealing oligo (nM)
	DNAConc float64
}

// DefaultConditions mirror a standard PCR mix: 50 mM monovalent,
// 1.5 mM Mg2+, 0.8 mM dNTP, 50 nM primer
func DefaultConditions() Conditions {
	return Conditions{
		MvConc:   50.0,
		DvConc:   1.5,
		DNTPConc: 0.8,
		DNAConc:  50.0,
	}
}

// monovalentM folds the divalent cation concentration into a single
// sodium-equivalent molarity: Mv + 120*sqrt(Dv - dNTP), with dNTP-bound
// magnesium discounted first. Result is mol/L
func (c Conditions) monovalentM() float64 {
	dv := c.DvConc - c.DNTPConc
	if dv < 0 {
		dv = 0
	}
	mvMM := c.MvConc + 120.0*math.Sqrt(dv)
	return mvMM / 1000.0
}

// strandM is the annealing oligo concentration in mol/L
func (c Conditions) strandM() float64 {
	return c.DNAConc * 1e-9
}
