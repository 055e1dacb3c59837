// Package tracing reports translations to the console, to CSV files and to
// SQLite databases.
package tracing

import (
	"github.com/sarchlab/pagesim/mem/vm/mmu"
	"github.com/sarchlab/pagesim/sim"
)

// A Tracer receives every translation of the translators it is attached to.
type Tracer interface {
	Trace(tr mmu.Translation)
}

// CollectTrace lets the tracer collect translations from a domain.
func CollectTrace(domain sim.Hookable, tracer Tracer) {
	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook forwards translation events to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer when a translation completes.
func (h *traceHook) Func(ctx sim.HookCtx) {
	if ctx.Pos != mmu.HookPosTranslation {
		return
	}

	h.t.Trace(ctx.Item.(mmu.Translation))
}
