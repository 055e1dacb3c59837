package replacement

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/pagesim/mem/vm"
)

var _ = Describe("SecondChance", func() {
	var (
		pt vm.PageTable
		p  *SecondChance
	)

	BeforeEach(func() {
		pt = vm.NewPageTable()
		p = NewSecondChance()
	})

	install := func(pages ...vm.PageNumber) {
		for i, pn := range pages {
			pt.Install(pn, vm.FrameNumber(i))
		}
	}

	It("should find nothing in an empty table", func() {
		_, ok := p.FindVictim(pt)
		Expect(ok).To(BeFalse())
	})

	It("should evict the first unreferenced page from the hand", func() {
		install(1, 2, 3)
		p.Touch(pt, 1)

		victim, ok := p.FindVictim(pt)

		Expect(ok).To(BeTrue())
		Expect(victim).To(Equal(vm.PageNumber(2)))
	})

	It("should clear the bits it passes over", func() {
		install(1, 2, 3)
		p.Touch(pt, 1)

		p.FindVictim(pt)

		page, _ := pt.Find(1)
		Expect(page.Referenced).To(BeFalse())
	})

	It("should keep the hand between calls", func() {
		install(1, 2, 3)

		victim, _ := p.FindVictim(pt)
		Expect(victim).To(Equal(vm.PageNumber(1)))
		Expect(p.Hand()).To(Equal(vm.PageNumber(2)))

		victim, _ = p.FindVictim(pt)
		Expect(victim).To(Equal(vm.PageNumber(2)))
	})

	It("should wrap the hand around the page-number space", func() {
		install(1, 2, 3)
		p.Touch(pt, 1)
		p.Touch(pt, 2)

		victim, _ := p.FindVictim(pt)
		Expect(victim).To(Equal(vm.PageNumber(3)))

		pt.Evict(3)
		pt.Install(4, 2)
		p.Touch(pt, 4)

		victim, _ = p.FindVictim(pt)
		Expect(victim).To(Equal(vm.PageNumber(1)))
	})

	It("should pick the page at the hand when every bit is set", func() {
		install(1, 2, 3)
		p.Touch(pt, 1)
		p.Touch(pt, 2)
		p.Touch(pt, 3)

		victim, ok := p.FindVictim(pt)

		Expect(ok).To(BeTrue())
		Expect(victim).To(Equal(vm.PageNumber(1)))

		for _, pn := range pt.Resident() {
			page, _ := pt.Find(pn)
			Expect(page.Referenced).To(BeFalse())
		}
	})

	It("should terminate within two sweeps on random tables", func() {
		r := rand.New(rand.NewSource(1))

		for round := 0; round < 200; round++ {
			pt.Reset()
			p = NewSecondChance()
			p.hand = vm.PageNumber(r.Intn(64))

			n := r.Intn(16) + 1
			perm := r.Perm(64)[:n]
			for i, pn := range perm {
				pt.Install(vm.PageNumber(pn), vm.FrameNumber(i))
				if r.Intn(2) == 0 {
					p.Touch(pt, vm.PageNumber(pn))
				}
			}

			victim, ok := p.FindVictim(pt)

			Expect(ok).To(BeTrue())
			Expect(pt.IsResident(victim)).To(BeTrue())
			page, _ := pt.Find(victim)
			Expect(page.Referenced).To(BeFalse())
		}
	})
})

var _ = Describe("SecondChance reset", func() {
	It("should move the hand back to page 0", func() {
		pt := vm.NewPageTable()
		pt.Install(4, 0)
		p := NewSecondChance()
		p.FindVictim(pt)

		p.Reset()

		Expect(p.Hand()).To(Equal(vm.PageNumber(0)))
	})
})
