package mmu

import (
	"fmt"

	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/replacement"
	"github.com/sarchlab/pagesim/mem/vm/tlb"
	"github.com/sarchlab/pagesim/sim"
)

// A Builder can build translators.
type Builder struct {
	log2PageSize uint64
	addressBits  uint64
	numFrames    int
	tlbSize      int
	policy       replacement.Policy
	idGenerator  sim.IDGenerator
}

// MakeBuilder returns a Builder with 4 KiB pages, 32-bit addresses, 64
// frames, a 16-entry TLB and LRU replacement.
func MakeBuilder() Builder {
	return Builder{
		log2PageSize: 12,
		addressBits:  32,
		numFrames:    64,
		tlbSize:      16,
	}
}

// WithLog2PageSize sets the page size as a power of 2.
func (b Builder) WithLog2PageSize(n uint64) Builder {
	b.log2PageSize = n
	return b
}

// WithAddressBits sets the width of virtual addresses.
func (b Builder) WithAddressBits(n uint64) Builder {
	b.addressBits = n
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

// WithPolicy sets the replacement policy. The translator takes ownership of
// the policy's state.
func (b Builder) WithPolicy(p replacement.Policy) Builder {
	b.policy = p
	return b
}

// WithIDGenerator sets the generator of translation IDs. The process-wide
// generator is used by default.
func (b Builder) WithIDGenerator(g sim.IDGenerator) Builder {
	b.idGenerator = g
	return b
}

// Build creates a new Translator.
func (b Builder) Build(name string) *Translator {
	layout := vm.AddressLayout{
		Log2PageSize: b.log2PageSize,
		AddressBits:  b.addressBits,
	}
	if err := layout.Validate(); err != nil {
		panic(fmt.Sprintf("translator %s: %v", name, err))
	}

	if b.numFrames <= 0 {
		panic(fmt.Sprintf("translator %s: number of frames must be "+
			"positive, got %d", name, b.numFrames))
	}

	t := &Translator{
		HookableBase: sim.NewHookableBase(),
		name:         name,
		layout:       layout,
		pageTable:    vm.NewPageTable(),
		frames:       vm.NewFrameAllocator(b.numFrames),
		policy:       b.policy,
		idGenerator:  b.idGenerator,
	}

	t.tlb = tlb.MakeBuilder().
		WithNumWays(b.tlbSize).
		Build(name + ".TLB")

	if t.policy == nil {
		t.policy = replacement.NewLRU()
	}

	if t.idGenerator == nil {
		t.idGenerator = sim.GetIDGenerator()
	}

	return t
}
