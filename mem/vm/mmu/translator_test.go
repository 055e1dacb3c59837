package mmu

import (
	"errors"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/pagesim/mem/trace"
	"github.com/sarchlab/pagesim/mem/vm"
	"github.com/sarchlab/pagesim/mem/vm/replacement"
	"github.com/sarchlab/pagesim/sim"
)

var _ = Describe("Translator", func() {
	var t *Translator

	BeforeEach(func() {
		t = MakeBuilder().
			WithNumFrames(4).
			WithIDGenerator(sim.NewSequentialIDGenerator()).
			Build("MMU")
	})

	It("should fault on the first reference", func() {
		tr, err := t.Translate(0x00003abc, trace.Read)

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.TLBHit).To(BeFalse())
		Expect(tr.PageFault).To(BeTrue())
		Expect(tr.Page).To(Equal(vm.PageNumber(3)))
		Expect(tr.Frame).To(Equal(vm.FrameNumber(0)))
		Expect(tr.PAddr).To(Equal(uint64(0x00000abc)))
		Expect(tr.Seq).To(Equal(uint64(1)))
		Expect(tr.ID).To(Equal("1"))
		Expect(t.Stats()).To(Equal(Stats{TLBMisses: 1, PageFaults: 1}))
	})

	It("should hit the TLB on a repeated address", func() {
		first, _ := t.Translate(0x2010, trace.Read)
		second, err := t.Translate(0x2010, trace.Write)

		Expect(err).NotTo(HaveOccurred())
		Expect(second.TLBHit).To(BeTrue())
		Expect(second.PageFault).To(BeFalse())
		Expect(second.PAddr).To(Equal(first.PAddr))
		Expect(second.Access).To(Equal(trace.Write))
		Expect(t.Stats()).To(Equal(Stats{
			TLBHits:    1,
			TLBMisses:  1,
			PageFaults: 1,
		}))
	})

	It("should give distinct pages distinct frames", func() {
		a, _ := t.Translate(0x1000, trace.Read)
		b, _ := t.Translate(0x2000, trace.Read)

		Expect(a.Frame).To(Equal(vm.FrameNumber(0)))
		Expect(b.Frame).To(Equal(vm.FrameNumber(1)))
		Expect(b.PAddr).To(Equal(uint64(0x1000)))
	})

	It("should reject an address outside the address space", func() {
		_, err := t.Translate(0x1_0000_0000, trace.Read)

		Expect(errors.Is(err, vm.ErrAddressOutOfRange)).To(BeTrue())
		Expect(t.Stats()).To(Equal(Stats{}))
	})

	It("should refill the TLB after a resident miss without faulting", func() {
		t = MakeBuilder().WithTLBSize(1).Build("MMU")

		t.Translate(0x1000, trace.Read)
		t.Translate(0x2000, trace.Read)
		tr, _ := t.Translate(0x1000, trace.Read)

		Expect(tr.TLBHit).To(BeFalse())
		Expect(tr.PageFault).To(BeFalse())
		Expect(t.Stats().PageFaults).To(Equal(uint64(2)))
		Expect(t.Stats().TLBMisses).To(Equal(uint64(3)))
	})

	It("should reset", func() {
		t.Translate(0x1000, trace.Read)

		t.Reset()

		Expect(t.Stats()).To(Equal(Stats{}))
		Expect(t.PageTable().NumResident()).To(Equal(0))
		Expect(t.Frames().NumOccupied()).To(Equal(0))
		Expect(t.TLB().Entries()).To(BeEmpty())

		tr, _ := t.Translate(0x1000, trace.Read)
		Expect(tr.PageFault).To(BeTrue())
	})

	Context("with one frame", func() {
		BeforeEach(func() {
			t = MakeBuilder().WithNumFrames(1).Build("MMU")
		})

		It("should fault on every alternating page", func() {
			var faults []bool
			for _, addr := range []uint64{0x00000000, 0x00001000, 0x00000000} {
				tr, err := t.Translate(addr, trace.Read)
				Expect(err).NotTo(HaveOccurred())
				Expect(tr.PAddr).To(Equal(uint64(0)))

				faults = append(faults, tr.PageFault)
			}

			Expect(faults).To(Equal([]bool{true, true, true}))
			Expect(t.Stats()).To(Equal(Stats{
				TLBHits:    0,
				TLBMisses:  3,
				PageFaults: 3,
				Evictions:  2,
			}))
		})

		It("should drop a stale TLB entry", func() {
			t.Translate(0x0000, trace.Read)
			t.Translate(0x1000, trace.Read)

			tr, _ := t.Translate(0x0000, trace.Read)

			Expect(tr.StaleTLBEntry).To(BeTrue())
			Expect(tr.Evicted).To(BeTrue())
			Expect(tr.Victim).To(Equal(vm.PageNumber(1)))

			frame, found := t.TLB().Lookup(1)
			Expect(found).To(BeTrue())
			Expect(frame).To(Equal(vm.FrameNumber(0)))
			Expect(t.PageTable().IsResident(1)).To(BeFalse())
		})
	})

	Context("with a two-entry TLB", func() {
		BeforeEach(func() {
			t = MakeBuilder().WithTLBSize(2).Build("MMU")
		})

		It("should evict the first TLB slot on the third distinct page", func() {
			pages := []uint64{0x1000, 0x2000, 0x3000}
			for _, addr := range pages {
				t.Translate(addr, trace.Read)
			}

			_, found := t.TLB().Lookup(1)
			Expect(found).To(BeFalse())

			tr, _ := t.Translate(0x1000, trace.Read)
			Expect(tr.TLBHit).To(BeFalse())
			Expect(tr.PageFault).To(BeFalse())

			for _, addr := range pages[1:] {
				t.Translate(addr, trace.Read)
			}

			Expect(t.Stats()).To(Equal(Stats{
				TLBMisses:  6,
				PageFaults: 3,
			}))
		})
	})
})

var _ = Describe("Translator with mocked collaborators", func() {
	var (
		mockCtrl *gomock.Controller
		policy   *MockPolicy
		t        *Translator
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		policy = NewMockPolicy(mockCtrl)
		policy.EXPECT().Touch(gomock.Any(), gomock.Any()).AnyTimes()

		t = MakeBuilder().
			WithNumFrames(1).
			WithPolicy(policy).
			Build("MMU")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should only ask for a victim when no frame is free", func() {
		t.Translate(0x0000, trace.Read)

		policy.EXPECT().FindVictim(t.PageTable()).Return(vm.PageNumber(0), true)

		tr, err := t.Translate(0x1000, trace.Read)

		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Evicted).To(BeTrue())
		Expect(tr.Victim).To(Equal(vm.PageNumber(0)))
		Expect(t.PageTable().IsResident(0)).To(BeFalse())
		Expect(t.CheckInvariants()).To(Succeed())
	})

	It("should touch the page on every reference", func() {
		mockCtrl.Finish()
		mockCtrl = gomock.NewController(GinkgoT())
		policy = NewMockPolicy(mockCtrl)
		t = MakeBuilder().WithPolicy(policy).Build("MMU")

		policy.EXPECT().Touch(t.PageTable(), vm.PageNumber(5)).Times(2)

		t.Translate(0x5000, trace.Read)
		t.Translate(0x5004, trace.Read)
	})

	It("should panic when no page can be evicted", func() {
		t.Translate(0x0000, trace.Read)

		policy.EXPECT().FindVictim(gomock.Any()).Return(vm.PageNumber(0), false)

		Expect(func() { t.Translate(0x1000, trace.Read) }).To(Panic())
	})

	It("should reset the policy", func() {
		policy.EXPECT().Reset()

		t.Reset()
	})

	It("should invoke hooks after each translation", func() {
		hook := NewMockHook(mockCtrl)
		t.AcceptHook(hook)

		var got Translation
		hook.EXPECT().Func(gomock.Any()).Do(func(ctx sim.HookCtx) {
			Expect(ctx.Pos).To(BeIdenticalTo(HookPosTranslation))
			Expect(ctx.Domain).To(BeIdenticalTo(t))
			got = ctx.Item.(Translation)
		})

		tr, _ := t.Translate(0x0042, trace.Read)

		Expect(got).To(Equal(tr))
	})
})

var _ = Describe("Translator properties", func() {
	DescribeTable("random traces",
		func(newPolicy func() replacement.Policy) {
			r := rand.New(rand.NewSource(42))
			t := MakeBuilder().
				WithNumFrames(4).
				WithTLBSize(3).
				WithPolicy(newPolicy()).
				Build("MMU")

			for i := 1; i <= 2000; i++ {
				page := uint64(r.Intn(10))
				addr := page<<12 | uint64(r.Intn(4096))

				tr, err := t.Translate(addr, trace.Read)
				Expect(err).NotTo(HaveOccurred())

				s := t.Stats()
				Expect(s.Accesses()).To(Equal(uint64(i)))
				Expect(s.PageFaults).To(BeNumerically("<=", s.TLBMisses))
				Expect(t.CheckInvariants()).To(Succeed())
				Expect(t.Frames().NumOccupied()).
					To(Equal(t.PageTable().NumResident()))

				Expect(t.PageTable().Resolve(tr.Page)).To(Equal(tr.Frame))
				Expect(tr.PAddr).To(Equal(uint64(tr.Frame)<<12 | addr&0xfff))
			}
		},
		Entry("LRU", func() replacement.Policy { return replacement.NewLRU() }),
		Entry("Second-Chance", func() replacement.Policy {
			return replacement.NewSecondChance()
		}),
	)
})

var _ = Describe("Builder", func() {
	It("should panic without frames", func() {
		Expect(func() { MakeBuilder().WithNumFrames(0).Build("MMU") }).
			To(Panic())
	})

	It("should panic with an invalid layout", func() {
		Expect(func() {
			MakeBuilder().WithLog2PageSize(40).Build("MMU")
		}).To(Panic())
	})

	It("should default to LRU", func() {
		t := MakeBuilder().Build("MMU")

		Expect(t.Policy().Name()).To(Equal("LRU"))
		Expect(t.TLB().NumWays()).To(Equal(16))
		Expect(t.Frames().NumFrames()).To(Equal(64))
		Expect(t.Layout().PageSize()).To(Equal(uint64(4096)))
		Expect(t.Name()).To(Equal("MMU"))
	})
})

var _ = Describe("Stats", func() {
	It("should compute rates", func() {
		s := Stats{TLBHits: 3, TLBMisses: 1, PageFaults: 1}

		Expect(s.TLBHitRate()).To(BeNumerically("~", 0.75))
		Expect(s.PageFaultRate()).To(BeNumerically("~", 0.25))
		Expect(Stats{}.TLBHitRate()).To(BeZero())
	})
})
