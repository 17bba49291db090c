package thermo

// Calculator predicts melting temperatures for candidate oligos.
// Implementations must be safe for concurrent use
type Calculator interface {
	// Tm is the melting temperature of seq against its perfect
	// genomic complement
	Tm(seq string) (float64, error)

	// HairpinTm is the melting temperature of the most stable hairpin
	// seq can fold into, or 0 when no stem of 3+ bp exists
	HairpinTm(seq string) float64

	// HomodimerTm is the melting temperature of the most stable
	// self-dimer of seq, or 0 when none exists
	HomodimerTm(seq string) float64

	// HeterodimerTm is the melting temperature of the most stable
	// cross-dimer between two oligos, or 0 when none exists
	HeterodimerTm(a, b string) float64
}

// calculator is the in-repo nearest-neighbor Calculator
type calculator struct {
	cond Conditions
}

// New returns a nearest-neighbor Calculator for the given reaction
// conditions
func New(cond Conditions) Calculator {
	return &calculator{cond: cond}
}

func (c *calculator) Tm(seq string) (float64, error) {
	return duplexTm(seq, c.cond)
}

func (c *calculator) HairpinTm(seq string) float64 {
	stem, loop := hairpinStem(seq)
	if stem == "" {
		return 0
	}
	tm, err := unimolecularTm(stem, loop, c.cond)
	if err != nil {
		return 0
	}
	return tm
}

func (c *calculator) HomodimerTm(seq string) float64 {
	return c.HeterodimerTm(seq, seq)
}

func (c *calculator) HeterodimerTm(a, b string) float64 {
	stem := dimerStem(a, b)
	if stem == "" {
		return 0
	}
	tm, err := duplexTm(stem, c.cond)
	if err != nil {
		return 0
	}
	return tm
}
