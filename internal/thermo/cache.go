package thermo

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// cached memoizes an inner Calculator. The search phase re-queries the
// same oligo at every window growth step, so hits dominate
type cached struct {
	inner Calculator

	tms     *lru.Cache[string, tmResult]
	hairpin *lru.Cache[string, float64]
	homo    *lru.Cache[string, float64]
	hetero  *lru.Cache[string, float64]
}

type tmResult struct {
	tm  float64
	err error
}

// NewCached wraps a Calculator with per-method LRU memoization of the
// given size. Panics only if size is not positive
func NewCached(inner Calculator, size int) Calculator {
	tms, err := lru.New[string, tmResult](size)
	if err != nil {
		panic(err)
	}
	hairpin, _ := lru.New[string, float64](size)
	homo, _ := lru.New[string, float64](size)
	hetero, _ := lru.New[string, float64](size)

	return &cached{
		inner:   inner,
		tms:     tms,
		hairpin: hairpin,
		homo:    homo,
		hetero:  hetero,
	}
}

func (c *cached) Tm(seq string) (float64, error) {
	if r, ok := c.tms.Get(seq); ok {
		return r.tm, r.err
	}
	tm, err := c.inner.Tm(seq)
	c.tms.Add(seq, tmResult{tm, err})
	return tm, err
}

func (c *cached) HairpinTm(seq string) float64 {
	if tm, ok := c.hairpin.Get(seq); ok {
		return tm
	}
	tm := c.inner.HairpinTm(seq)
	c.hairpin.Add(seq, tm)
	return tm
}

func (c *cached) HomodimerTm(seq string) float64 {
	if tm, ok := c.homo.Get(seq); ok {
		return tm
	}
	tm := c.inner.HomodimerTm(seq)
	c.homo.Add(seq, tm)
	return tm
}

func (c *cached) HeterodimerTm(a, b string) float64 {
	// a dimer is orientation-free, normalize the key
	key := a + "|" + b
	if b < a {
		key = b + "|" + a
	}
	if tm, ok := c.hetero.Get(key); ok {
		return tm
	}
	tm := c.inner.HeterodimerTm(a, b)
	c.hetero.Add(key, tm)
	return tm
}
