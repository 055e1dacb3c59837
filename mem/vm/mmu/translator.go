// Package mmu provides the translator that turns virtual addresses into
// physical addresses with a TLB, a page table and a replacement policy.
package mmu

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/pagesim/mem/trace"
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/replacement"
	"github.com/sarchlab/pagesim/mem/vm/tlb"
	"github.com/sarchlab/pagesim/sim"
)

// HookPosTranslation is triggered after each translation. The hook item is a
// Translation.
var HookPosTranslation = &sim.HookPos{Name: "Translation"}

// ErrNoEvictablePage means a page fault found neither a free frame nor a
// resident page to evict.
var ErrNoEvictablePage = errors.New("no free frame and no evictable page")

// A Translation records what happened while translating one reference.
type Translation struct {
	ID     string
	Seq    uint64
	VAddr  uint64
	PAddr  uint64
	Page   vm.PageNumber
	Frame  vm.FrameNumber
	Offset uint64
	Access trace.AccessKind

	TLBHit    bool
	PageFault bool

	// StaleTLBEntry is set when the TLB held a mapping for a page that had
	// been evicted since, and the entry was dropped.
	StaleTLBEntry bool

	Evicted bool
	Victim  vm.PageNumber
}

// Translator is the address translation pipeline of one simulated machine.
type Translator struct {
	*sim.HookableBase

	name        string
	layout      vm.AddressLayout
	tlb         *tlb.TLB
	pageTable   vm.PageTable
	frames      *vm.FrameAllocator
	policy      replacement.Policy
	idGenerator sim.IDGenerator

	stats Stats
}

// Name returns the name of the translator.
func (t *Translator) Name() string {
	return t.name
}

// Layout returns the address layout.
func (t *Translator) Layout() vm.AddressLayout {
	return t.layout
}

// TLB returns the TLB.
func (t *Translator) TLB() *tlb.TLB {
	return t.tlb
}

// PageTable returns the page table.
func (t *Translator) PageTable() vm.PageTable {
	return t.pageTable
}

// Frames returns the frame allocator.
func (t *Translator) Frames() *vm.FrameAllocator {
	return t.frames
}

// Policy returns the replacement policy.
func (t *Translator) Policy() replacement.Policy {
	return t.policy
}

// Stats returns a copy of the counters.
func (t *Translator) Stats() Stats {
	return t.stats
}

// Translate resolves one reference.
func (t *Translator) Translate(
	vAddr uint64,
	access trace.AccessKind,
) (Translation, error) {
	page, offset, err := t.layout.Split(vAddr)
	if err != nil {
		return Translation{}, err
	}

	tr := Translation{
		ID:     t.idGenerator.Generate(),
		Seq:    t.stats.Accesses() + 1,
		VAddr:  vAddr,
		Page:   page,
		Offset: offset,
		Access: access,
	}

	frame, hit := t.lookupTLB(&tr)
	if hit {
		t.stats.TLBHits++
	} else {
		t.stats.TLBMisses++

		if !t.pageTable.IsResident(page) {
			t.handlePageFault(&tr)
		}

		frame = t.pageTable.Resolve(page)
		t.tlb.Insert(page, frame)
	}

	t.policy.Touch(t.pageTable, page)

	tr.TLBHit = hit
	tr.Frame = frame
	tr.PAddr = t.layout.Join(frame, offset)

	t.InvokeHook(sim.HookCtx{
		Domain: t,
		Pos:    HookPosTranslation,
		Item:   tr,
	})

	return tr, nil
}

// lookupTLB returns the cached frame only if the page table still agrees
// with it. A disagreeing entry is dropped.
func (t *Translator) lookupTLB(tr *Translation) (vm.FrameNumber, bool) {
	frame, found := t.tlb.Lookup(tr.Page)
	if !found {
		return 0, false
	}

	if t.pageTable.IsResident(tr.Page) &&
		t.pageTable.Resolve(tr.Page) == frame {
		return frame, true
	}

	t.tlb.Invalidate(tr.Page)
	tr.StaleTLBEntry = true

	return 0, false
}

func (t *Translator) handlePageFault(tr *Translation) {
	frame, ok := t.frames.AllocateFree()
	if !ok {
		victim, found := t.policy.FindVictim(t.pageTable)
		if !found {
			log.Panic(fmt.Errorf("%s: page 0x%x: %w",
				t.name, tr.Page, ErrNoEvictablePage))
		}

		frame = t.pageTable.Evict(victim)
		t.frames.Release(frame)
		t.stats.Evictions++

		tr.Evicted = true
		tr.Victim = victim
	}

	t.frames.Bind(frame, tr.Page)
	t.pageTable.Install(tr.Page, frame)
	t.stats.PageFaults++

	tr.PageFault = true
}

// CheckInvariants verifies that the frame allocator and the page table agree
// with each other.
func (t *Translator) CheckInvariants() error {
	resident := t.pageTable.Resident()

	if len(resident) != t.frames.NumOccupied() {
		return fmt.Errorf("%d resident pages but %d occupied frames",
			len(resident), t.frames.NumOccupied())
	}

	for _, pn := range resident {
		frame := t.pageTable.Resolve(pn)

		owner, occupied := t.frames.Owner(frame)
		if !occupied || owner != pn {
			return fmt.Errorf("page 0x%x maps to frame %d owned by 0x%x "+
				"(occupied %v)", pn, frame, owner, occupied)
		}
	}

	return nil
}

// Reset brings the translator back to its initial empty state.
func (t *Translator) Reset() {
	t.tlb.Reset()
	t.pageTable.Reset()
	t.frames.Reset()
	t.policy.Reset()
	t.stats = Stats{}
}
