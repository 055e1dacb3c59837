package mmu

// Stats holds the counters of a translator. They never decrease.
type Stats struct {
	TLBHits    uint64
	TLBMisses  uint64
	PageFaults uint64
	Evictions  uint64
}

// Accesses returns the number of references translated.
func (s Stats) Accesses() uint64 {
	return s.TLBHits + s.TLBMisses
}

// TLBHitRate returns the fraction of references that hit in the TLB.
func (s Stats) TLBHitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.TLBHits) / float64(s.Accesses())
}

// PageFaultRate returns the fraction of references that caused a fault.
func (s Stats) PageFaultRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.PageFaults) / float64(s.Accesses())
}
