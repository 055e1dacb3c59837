// Package vm provides the models for address translations
package vm

import (
	"errors"
)

// PageNumber identifies a virtual page.
type PageNumber uint64

// FrameNumber identifies a physical frame.
type FrameNumber uint64

// A Page is an entry in the page table, maintaining the information about how
// to translate a virtual page to a physical frame.
type Page struct {
	PageNumber PageNumber
	Frame      FrameNumber
	Valid      bool

	// Recency is the tick of the last access, used by LRU.
	Recency uint64

	// Referenced is the reference bit, used by Second-Chance.
	Referenced bool
}

// ErrAddressOutOfRange is returned when a virtual address does not fit in the
// configured address space.
var ErrAddressOutOfRange = errors.New("virtual address out of range")
