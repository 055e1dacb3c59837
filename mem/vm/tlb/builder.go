package tlb

import (
	"fmt"

	"github.com/sarchlab/pagesim/mem/vm/tlb/internal"
)

// A Builder can build TLBs
type Builder struct {
	numWays int
}

// MakeBuilder returns a Builder
func MakeBuilder() Builder {
	return Builder{
		numWays: 16,
	}
}

// WithNumWays sets the number of entries in the TLB.
func (b Builder) WithNumWays(n int) Builder {
	b.numWays = n
	return b
}

// Build creates a new TLB
func (b Builder) Build(name string) *TLB {
	if b.numWays <= 0 {
		panic(fmt.Sprintf("TLB %s must have at least one way, got %d",
			name, b.numWays))
	}

	return &TLB{
		name: name,
		Set:  internal.NewFIFOSet(b.numWays),
	}
}
