// Package tlb provides a fully associative translation lookaside buffer.
package tlb

import (
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/tlb/internal"
)

// A Mapping is a valid page-to-frame translation cached by the TLB.
type Mapping struct {
	Page  vm.PageNumber
	Frame vm.FrameNumber
}

// TLB caches recently used translations. New entries overwrite the ways in
// FIFO order.
type TLB struct {
	name string
	Set  internal.Set
}

// Name returns the name of the TLB.
func (t *TLB) Name() string {
	return t.name
}

// NumWays returns the capacity of the TLB.
func (t *TLB) NumWays() int {
	return t.Set.NumWays()
}

// Lookup returns the frame cached for the page.
func (t *TLB) Lookup(page vm.PageNumber) (vm.FrameNumber, bool) {
	_, block, found := t.Set.Lookup(page)
	if !found || !block.Valid {
		return 0, false
	}

	return block.Frame, true
}

// Insert caches the mapping, overwriting the oldest way.
func (t *TLB) Insert(page vm.PageNumber, frame vm.FrameNumber) {
	wayID := t.Set.Evict()
	t.Set.Update(wayID, internal.Block{
		Page:  page,
		Frame: frame,
		Valid: true,
	})
}

// Invalidate drops the mapping of the page. It returns false if the page is
// not cached.
func (t *TLB) Invalidate(page vm.PageNumber) bool {
	wayID, _, found := t.Set.Lookup(page)
	if !found {
		return false
	}

	t.Set.Invalidate(wayID)

	return true
}

// Entries returns the valid mappings, in way order.
func (t *TLB) Entries() []Mapping {
	var entries []Mapping

	for _, b := range t.Set.Blocks() {
		if b.Valid {
			entries = append(entries, Mapping{Page: b.Page, Frame: b.Frame})
		}
	}

	return entries
}

// Reset sets all the entries in the TLB to be invalid.
func (t *TLB) Reset() {
	t.Set.Reset()
}
