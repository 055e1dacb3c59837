package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/pagesim/mem/vm/mmu"
)

// A ProgressBar tracks how far a simulation has gone through its trace.
type ProgressBar struct {
	sync.Mutex
	ID        string
	Name      string
	StartTime time.Time
	Total     uint64
	Finished  uint64
	Stats     mmu.Stats
}

// ProgressSnapshot is a consistent copy of a ProgressBar.
type ProgressSnapshot struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	StartTime     time.Time `json:"start_time"`
	Total         uint64    `json:"total"`
	Finished      uint64    `json:"finished"`
	TLBHits       uint64    `json:"tlb_hits"`
	TLBMisses     uint64    `json:"tlb_misses"`
	PageFaults    uint64    `json:"page_faults"`
	Evictions     uint64    `json:"evictions"`
	TLBHitRate    float64   `json:"tlb_hit_rate"`
	PageFaultRate float64   `json:"page_fault_rate"`
}

// Update replaces the counters shown with the bar. The number of finished
// elements follows the number of translated references.
func (b *ProgressBar) Update(stats mmu.Stats) {
	b.Lock()
	defer b.Unlock()

	b.Stats = stats
	b.Finished = stats.Accesses()
}

// Snapshot returns a copy of the bar that is safe to read.
func (b *ProgressBar) Snapshot() ProgressSnapshot {
	b.Lock()
	defer b.Unlock()

	return ProgressSnapshot{
		ID:            b.ID,
		Name:          b.Name,
		StartTime:     b.StartTime,
		Total:         b.Total,
		Finished:      b.Finished,
		TLBHits:       b.Stats.TLBHits,
		TLBMisses:     b.Stats.TLBMisses,
		PageFaults:    b.Stats.PageFaults,
		Evictions:     b.Stats.Evictions,
		TLBHitRate:    b.Stats.TLBHitRate(),
		PageFaultRate: b.Stats.PageFaultRate(),
	}
}
