package tracing

import (
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/pagesim/mem/vm/mmu"
	"github.com/sarchlab/pagesim/sim"
)

// LogTracer prints one line per translation.
type LogTracer struct {
	sim.LogHookBase
}

// NewLogTracer creates a LogTracer that writes through logger.
func NewLogTracer(logger *log.Logger) *LogTracer {
	return &LogTracer{LogHookBase: sim.NewLogHookBase(logger)}
}

// NewConsoleTracer creates a LogTracer that writes bare lines to w.
func NewConsoleTracer(w io.Writer) *LogTracer {
	return NewLogTracer(log.New(w, "", 0))
}

// Trace prints the logical and the physical address of the translation.
func (t *LogTracer) Trace(tr mmu.Translation) {
	t.Printf("Logical Address: 0x%08X -> Physical Address: 0x%08X",
		tr.VAddr, tr.PAddr)
}

// PrintSummary writes the final counters of a run.
func PrintSummary(w io.Writer, policyName string, stats mmu.Stats) {
	fmt.Fprintf(w, "Policy: %s\n", policyName)
	fmt.Fprintf(w, "Page Faults: %d\n", stats.PageFaults)
	fmt.Fprintf(w, "TLB Hits: %d\n", stats.TLBHits)
	fmt.Fprintf(w, "TLB Misses: %d\n", stats.TLBMisses)
}
