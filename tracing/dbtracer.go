package tracing

import (
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/mem/vm/mmu"
)

const (
	translationTable = "translations"
	summaryTable     = "summary"
)

// A TranslationRecord is a row of the translations table.
type TranslationRecord struct {
	ID            string
	Seq           uint64
	Access        string
	VAddr         uint64
	PAddr         uint64
	Page          uint64
	Frame         uint64
	TLBHit        bool
	PageFault     bool
	StaleTLBEntry bool
	Evicted       bool
	Victim        uint64
}

// A Summary is a row of the summary table. There is one per recorded run.
type Summary struct {
	Simulation string
	Policy     string
	Accesses   uint64
	TLBHits    uint64
	TLBMisses  uint64
	PageFaults uint64
	Evictions  uint64
}

// DBTracer stores translations into a database through a DataRecorder.
type DBTracer struct {
	backend datarecording.DataRecorder
}

// NewDBTracer creates the tables of the tracer in the recorder.
func NewDBTracer(dataRecorder datarecording.DataRecorder) *DBTracer {
	dataRecorder.CreateTable(translationTable, TranslationRecord{})
	dataRecorder.CreateTable(summaryTable, Summary{})

	return &DBTracer{backend: dataRecorder}
}

// Trace records a translation.
func (t *DBTracer) Trace(tr mmu.Translation) {
	t.backend.InsertData(translationTable, TranslationRecord{
		ID:            tr.ID,
		Seq:           tr.Seq,
		Access:        tr.Access.String(),
		VAddr:         tr.VAddr,
		PAddr:         tr.PAddr,
		Page:          uint64(tr.Page),
		Frame:         uint64(tr.Frame),
		TLBHit:        tr.TLBHit,
		PageFault:     tr.PageFault,
		StaleTLBEntry: tr.StaleTLBEntry,
		Evicted:       tr.Evicted,
		Victim:        uint64(tr.Victim),
	})
}

// RecordSummary stores the final counters of a run and flushes.
func (t *DBTracer) RecordSummary(
	simulation, policyName string,
	stats mmu.Stats,
) {
	t.backend.InsertData(summaryTable, Summary{
		Simulation: simulation,
		Policy:     policyName,
		Accesses:   stats.Accesses(),
		TLBHits:    stats.TLBHits,
		TLBMisses:  stats.TLBMisses,
		PageFaults: stats.PageFaults,
		Evictions:  stats.Evictions,
	})

	t.backend.Flush()
}

// Stats returns the counters of the run.
func (s Summary) Stats() mmu.Stats {
	return mmu.Stats{
		TLBHits:    s.TLBHits,
		TLBMisses:  s.TLBMisses,
		PageFaults: s.PageFaults,
		Evictions:  s.Evictions,
	}
}
