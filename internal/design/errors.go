package design

import "fmt"

// BinningError means the region could not be partitioned into bins
// honoring the product sizes and tolerance
type BinningError struct {
	// Bin index the layout failed at, -1 for whole-region failures
	Bin int

	// Reason the layout failed
	Reason string
}

func (e *BinningError) Error() string {
	if e.Bin < 0 {
		return fmt.Sprintf("failed to bin region: %s", e.Reason)
	}
	return fmt.Sprintf("failed to bin region at bin %d: %s", e.Bin, e.Reason)
}

// NoPrimerFoundError means a bin's search space contained no acceptable
// primer set. Recoverable per bin unless the run is strict
type NoPrimerFoundError struct {
	// Bin index that failed
	Bin int

	// Lo, Hi is the bin's span in recoded coordinates
	Lo, Hi int

	// Reason the search came up empty
	Reason string
}

func (e *NoPrimerFoundError) Error() string {
	return fmt.Sprintf("no primer set for bin %d [%d, %d): %s", e.Bin, e.Lo, e.Hi, e.Reason)
}
