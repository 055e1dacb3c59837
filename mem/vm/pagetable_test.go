package vm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageTable", func() {
	var pt PageTable

	BeforeEach(func() {
		pt = NewPageTable()
	})

	It("should start empty", func() {
		Expect(pt.IsResident(0)).To(BeFalse())
		Expect(pt.NumResident()).To(Equal(0))

		_, found := pt.Find(0)
		Expect(found).To(BeFalse())
	})

	It("should install a page", func() {
		pt.Install(7, 2)

		Expect(pt.IsResident(7)).To(BeTrue())
		Expect(pt.Resolve(7)).To(Equal(FrameNumber(2)))

		page, found := pt.Find(7)
		Expect(found).To(BeTrue())
		Expect(page.Valid).To(BeTrue())
		Expect(page.Referenced).To(BeFalse())
	})

	It("should panic when resolving a page that is not resident", func() {
		Expect(func() { pt.Resolve(1) }).To(Panic())
	})

	It("should panic when installing a resident page twice", func() {
		pt.Install(1, 0)
		Expect(func() { pt.Install(1, 1) }).To(Panic())
	})

	It("should evict a page and return its frame", func() {
		pt.Install(7, 2)

		frame := pt.Evict(7)

		Expect(frame).To(Equal(FrameNumber(2)))
		Expect(pt.IsResident(7)).To(BeFalse())
		Expect(pt.NumResident()).To(Equal(0))

		page, found := pt.Find(7)
		Expect(found).To(BeTrue())
		Expect(page.Valid).To(BeFalse())
	})

	It("should panic when evicting a page that is not resident", func() {
		Expect(func() { pt.Evict(3) }).To(Panic())
	})

	It("should reset the reference bit on install", func() {
		pt.Install(1, 0)
		pt.SetReferenced(1, true)
		pt.Evict(1)

		pt.Install(1, 3)

		page, _ := pt.Find(1)
		Expect(page.Referenced).To(BeFalse())
		Expect(page.Frame).To(Equal(FrameNumber(3)))
	})

	It("should stamp recency with increasing ticks", func() {
		pt.Install(1, 0)
		pt.Install(2, 1)

		p1, _ := pt.Find(1)
		p2, _ := pt.Find(2)
		Expect(p1.Recency).To(Equal(p2.Recency))

		pt.MarkRecent(1)
		pt.MarkRecent(2)

		p1, _ = pt.Find(1)
		p2, _ = pt.Find(2)
		Expect(p1.Recency).To(BeNumerically("<", p2.Recency))
	})

	It("should stamp installs with the current tick", func() {
		pt.Install(1, 0)
		pt.MarkRecent(1)
		pt.Install(2, 1)

		p1, _ := pt.Find(1)
		p2, _ := pt.Find(2)
		Expect(p2.Recency).To(Equal(p1.Recency))
	})

	It("should keep resident pages sorted", func() {
		pt.Install(9, 0)
		pt.Install(3, 1)
		pt.Install(5, 2)

		Expect(pt.Resident()).To(Equal([]PageNumber{3, 5, 9}))

		pt.Evict(5)
		Expect(pt.Resident()).To(Equal([]PageNumber{3, 9}))
	})

	It("should not expose its resident list", func() {
		pt.Install(1, 0)

		pages := pt.Resident()
		pages[0] = 100

		Expect(pt.Resident()).To(Equal([]PageNumber{1}))
	})

	It("should find the next resident page and wrap around", func() {
		pt.Install(3, 0)
		pt.Install(9, 1)

		next, ok := pt.NextResident(0)
		Expect(ok).To(BeTrue())
		Expect(next).To(Equal(PageNumber(3)))

		next, _ = pt.NextResident(3)
		Expect(next).To(Equal(PageNumber(3)))

		next, _ = pt.NextResident(4)
		Expect(next).To(Equal(PageNumber(9)))

		next, _ = pt.NextResident(10)
		Expect(next).To(Equal(PageNumber(3)))
	})

	It("should report no next resident page when empty", func() {
		_, ok := pt.NextResident(0)
		Expect(ok).To(BeFalse())
	})

	It("should reset", func() {
		pt.Install(1, 0)
		pt.MarkRecent(1)

		pt.Reset()

		Expect(pt.NumResident()).To(Equal(0))
		_, found := pt.Find(1)
		Expect(found).To(BeFalse())

		pt.Install(2, 0)
		p2, _ := pt.Find(2)
		Expect(p2.Recency).To(Equal(uint64(0)))
	})
})
