package tracing

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/pagesim/mem/vm/mmu"
)

// CSVTracer stores translations into a CSV file.
type CSVTracer struct {
	path string
	file *os.File

	translations []mmu.Translation
	bufferSize   int
}

// NewCSVTracer creates a CSVTracer that writes to path + ".csv". An empty
// path picks a unique name.
func NewCSVTracer(path string) *CSVTracer {
	return &CSVTracer{
		path:       path,
		bufferSize: 1000,
	}
}

// Path returns the name of the CSV file, without the extension.
func (t *CSVTracer) Path() string {
	return t.path
}

// Init creates the CSV file. It fails if the file already exists.
func (t *CSVTracer) Init() error {
	if t.path == "" {
		t.path = "pagesim_trace_" + xid.New().String()
	}

	filename := t.path + ".csv"
	_, err := os.Stat(filename)
	if err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	t.file = file

	fmt.Fprintf(file, "ID, Seq, Access, VAddr, PAddr, Page, Frame, "+
		"TLBHit, PageFault, StaleTLBEntry, Victim\n")

	atexit.Register(func() { t.Close() })

	return nil
}

// Trace buffers a translation.
func (t *CSVTracer) Trace(tr mmu.Translation) {
	t.translations = append(t.translations, tr)
	if len(t.translations) >= t.bufferSize {
		t.Flush()
	}
}

// Flush writes the buffered translations to the file.
func (t *CSVTracer) Flush() {
	if t.file == nil {
		return
	}

	for _, tr := range t.translations {
		victim := ""
		if tr.Evicted {
			victim = fmt.Sprintf("0x%x", tr.Victim)
		}

		fmt.Fprintf(t.file, "%s, %d, %s, 0x%08x, 0x%08x, 0x%x, %d, "+
			"%t, %t, %t, %s\n",
			tr.ID,
			tr.Seq,
			tr.Access,
			tr.VAddr,
			tr.PAddr,
			tr.Page,
			tr.Frame,
			tr.TLBHit,
			tr.PageFault,
			tr.StaleTLBEntry,
			victim,
		)
	}

	t.translations = nil
}

// Close flushes and closes the file.
func (t *CSVTracer) Close() error {
	if t.file == nil {
		return nil
	}

	t.Flush()

	err := t.file.Close()
	t.file = nil

	return err
}
