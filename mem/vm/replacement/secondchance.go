package replacement

import (
	"log"

	"github.com/sarchlab/pagesim/mem/vm"
)

// SecondChance is the clock algorithm. The hand walks the page-number space
// and survives across calls.
type SecondChance struct {
	hand vm.PageNumber
}

// NewSecondChance returns a clock policy with the hand at page 0.
func NewSecondChance() *SecondChance {
	return &SecondChance{}
}

// Name returns "Second-Chance".
func (p *SecondChance) Name() string {
	return "Second-Chance"
}

// Hand returns the page number the clock hand points to.
func (p *SecondChance) Hand() vm.PageNumber {
	return p.hand
}

// Reset moves the hand back to page 0.
func (p *SecondChance) Reset() {
	p.hand = 0
}

// Touch sets the reference bit of the page.
func (p *SecondChance) Touch(pt vm.PageTable, page vm.PageNumber) {
	pt.SetReferenced(page, true)
}

// FindVictim advances the hand over the resident pages. A referenced page
// loses its bit and is skipped; the first unreferenced page is the victim
// and the hand moves past it.
func (p *SecondChance) FindVictim(pt vm.PageTable) (vm.PageNumber, bool) {
	numResident := pt.NumResident()
	if numResident == 0 {
		return 0, false
	}

	for steps := 0; steps <= 2*numResident; steps++ {
		pn, _ := pt.NextResident(p.hand)
		page, _ := pt.Find(pn)

		p.hand = pn + 1

		if !page.Referenced {
			return pn, true
		}

		pt.SetReferenced(pn, false)
	}

	log.Panicf("clock hand swept %d resident pages twice without a victim",
		numResident)

	return 0, false
}
