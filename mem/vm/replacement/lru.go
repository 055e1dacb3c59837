package replacement

import (
	"github.com/sarchlab/pagesim/mem/vm"
)

// LRU evicts the page that has not been accessed for the longest time.
type LRU struct{}

// NewLRU returns a newly constructed LRU policy.
func NewLRU() *LRU {
	return &LRU{}
}

// Name returns "LRU".
func (p *LRU) Name() string {
	return "LRU"
}

// Touch stamps the page with a fresh tick.
func (p *LRU) Touch(pt vm.PageTable, page vm.PageNumber) {
	pt.MarkRecent(page)
}

// FindVictim returns the resident page with the oldest tick. Pages are
// scanned in ascending order and only a strictly older tick replaces the
// candidate, so ties go to the lower page number.
func (p *LRU) FindVictim(pt vm.PageTable) (vm.PageNumber, bool) {
	var (
		victim vm.PageNumber
		oldest uint64
		found  bool
	)

	for _, pn := range pt.Resident() {
		page, _ := pt.Find(pn)

		if !found || page.Recency < oldest {
			victim = pn
			oldest = page.Recency
			found = true
		}
	}

	return victim, found
}

// Reset does nothing; LRU keeps its state in the page table.
func (p *LRU) Reset() {}
