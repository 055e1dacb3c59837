package simulation

import (
	"github.com/sarchlab/pagesim/mem/vm/mmu"
	"github.com/sarchlab/pagesim/mem/vm/replacement"
	"github.com/sarchlab/pagesim/sim"
)

// A Builder can build simulations.
type Builder struct {
	log2PageSize uint64
	numFrames    int
	tlbSize      int
	policy       replacement.Policy
	strict       bool
	idGenerator  sim.IDGenerator
	hooks        []sim.Hook
}

// MakeBuilder returns a Builder with 4 KiB pages, 64 frames, a 16-entry TLB
// and LRU replacement.
func MakeBuilder() Builder {
	return Builder{
		log2PageSize: 12,
		numFrames:    64,
		tlbSize:      16,
	}
}

// WithLog2PageSize sets the page size as a power of 2.
func (b Builder) WithLog2PageSize(n uint64) Builder {
	b.log2PageSize = n
	return b
}

// WithNumFrames sets the number of physical frames.
func (b Builder) WithNumFrames(n int) Builder {
	b.numFrames = n
	return b
}

// WithTLBSize sets the number of TLB entries.
func (b Builder) WithTLBSize(n int) Builder {
	b.tlbSize = n
	return b
}

// WithPolicy sets the replacement policy.
func (b Builder) WithPolicy(p replacement.Policy) Builder {
	b.policy = p
	return b
}

// WithStrictTrace makes a malformed record fail the run.
func (b Builder) WithStrictTrace(strict bool) Builder {
	b.strict = strict
	return b
}

// WithIDGenerator sets the generator of translation IDs.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGenerator = g
	return b
}

// WithHooks registers hooks on the translator.
func (b Builder) WithHooks(hooks ...sim.Hook) Builder {
	b.hooks = append(append([]sim.Hook(nil), b.hooks...), hooks...)
	return b
}

// Build creates a new Simulation.
func (b Builder) Build(name string) *Simulation {
	t := mmu.MakeBuilder().
		WithLog2PageSize(b.log2PageSize).
		WithNumFrames(b.numFrames).
		WithTLBSize(b.tlbSize).
		WithPolicy(b.policy).
		WithIDGenerator(b.idGenerator).
		Build(name + ".MMU")

	for _, h := range b.hooks {
		t.AcceptHook(h)
	}

	return &Simulation{
		name:       name,
		translator: t,
		strict:     b.strict,
	}
}
