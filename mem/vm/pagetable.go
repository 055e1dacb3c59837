package vm

import (
	"log"
	"sort"
)

// A PageTable holds one entry per virtual page, direct-mapped by page number.
type PageTable interface {
	// IsResident tells if the page is currently mapped to a frame.
	IsResident(page PageNumber) bool

	// Find returns the entry of the page. The bool return value indicates if
	// the page has ever been seen.
	Find(page PageNumber) (Page, bool)

	// Resolve returns the frame of a resident page. It panics if the page is
	// not resident.
	Resolve(page PageNumber) FrameNumber

	// Install maps the page to the frame and resets its replacement
	// metadata.
	Install(page PageNumber, frame FrameNumber)

	// Evict unmaps a resident page and returns the frame it used to occupy.
	Evict(page PageNumber) FrameNumber

	// MarkRecent stamps the page with the next tick.
	MarkRecent(page PageNumber)

	// SetReferenced sets or clears the reference bit of the page.
	SetReferenced(page PageNumber, referenced bool)

	// Resident returns the resident pages in ascending page number order.
	Resident() []PageNumber

	// NextResident returns the first resident page whose number is not
	// smaller than from, wrapping around to the lowest resident page.
	NextResident(from PageNumber) (PageNumber, bool)

	// NumResident returns the number of resident pages.
	NumResident() int

	// Reset invalidates every entry.
	Reset()
}

// NewPageTable creates a new PageTable.
func NewPageTable() PageTable {
	return &pageTableImpl{
		entries: make(map[PageNumber]*Page),
	}
}

// pageTableImpl keeps only the pages that were ever touched. The resident
// list is sorted and never longer than the number of frames.
type pageTableImpl struct {
	entries  map[PageNumber]*Page
	resident []PageNumber
	tick     uint64
}

func (pt *pageTableImpl) IsResident(page PageNumber) bool {
	entry, found := pt.entries[page]
	return found && entry.Valid
}

func (pt *pageTableImpl) Find(page PageNumber) (Page, bool) {
	entry, found := pt.entries[page]
	if !found {
		return Page{}, false
	}

	return *entry, true
}

func (pt *pageTableImpl) Resolve(page PageNumber) FrameNumber {
	return pt.pageMustBeResident(page).Frame
}

func (pt *pageTableImpl) Install(page PageNumber, frame FrameNumber) {
	entry, found := pt.entries[page]
	if !found {
		entry = &Page{PageNumber: page}
		pt.entries[page] = entry
	}

	if entry.Valid {
		log.Panicf("page 0x%x is already resident in frame %d",
			page, entry.Frame)
	}

	entry.Valid = true
	entry.Frame = frame
	entry.Referenced = false
	entry.Recency = pt.tick

	pt.addResident(page)
}

func (pt *pageTableImpl) Evict(page PageNumber) FrameNumber {
	entry := pt.pageMustBeResident(page)

	entry.Valid = false
	pt.removeResident(page)

	return entry.Frame
}

func (pt *pageTableImpl) MarkRecent(page PageNumber) {
	entry := pt.pageMustBeResident(page)

	pt.tick++
	entry.Recency = pt.tick
}

func (pt *pageTableImpl) SetReferenced(page PageNumber, referenced bool) {
	entry := pt.pageMustBeResident(page)
	entry.Referenced = referenced
}

func (pt *pageTableImpl) Resident() []PageNumber {
	pages := make([]PageNumber, len(pt.resident))
	copy(pages, pt.resident)

	return pages
}

func (pt *pageTableImpl) NextResident(from PageNumber) (PageNumber, bool) {
	if len(pt.resident) == 0 {
		return 0, false
	}

	i := pt.searchResident(from)
	if i == len(pt.resident) {
		return pt.resident[0], true
	}

	return pt.resident[i], true
}

func (pt *pageTableImpl) NumResident() int {
	return len(pt.resident)
}

func (pt *pageTableImpl) Reset() {
	pt.entries = make(map[PageNumber]*Page)
	pt.resident = nil
	pt.tick = 0
}

func (pt *pageTableImpl) searchResident(page PageNumber) int {
	return sort.Search(len(pt.resident), func(i int) bool {
		return pt.resident[i] >= page
	})
}

func (pt *pageTableImpl) addResident(page PageNumber) {
	i := pt.searchResident(page)

	pt.resident = append(pt.resident, 0)
	copy(pt.resident[i+1:], pt.resident[i:])
	pt.resident[i] = page
}

func (pt *pageTableImpl) removeResident(page PageNumber) {
	i := pt.searchResident(page)
	if i == len(pt.resident) || pt.resident[i] != page {
		log.Panicf("page 0x%x missing from the resident list", page)
	}

	pt.resident = append(pt.resident[:i], pt.resident[i+1:]...)
}

func (pt *pageTableImpl) pageMustBeResident(page PageNumber) *Page {
	entry, found := pt.entries[page]
	if !found || !entry.Valid {
		log.Panicf("page 0x%x is not resident", page)
	}

	return entry
}
