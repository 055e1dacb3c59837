package vm

import (
	"fmt"
)

// AddressLayout describes how a virtual address is cut into a page number and
// an offset.
type AddressLayout struct {
	Log2PageSize uint64
	AddressBits  uint64
}

// DefaultAddressLayout returns 4 KiB pages in a 32-bit address space.
func DefaultAddressLayout() AddressLayout {
	return AddressLayout{
		Log2PageSize: 12,
		AddressBits:  32,
	}
}

// Validate reports whether the layout is usable.
func (l AddressLayout) Validate() error {
	if l.AddressBits == 0 || l.AddressBits > 64 {
		return fmt.Errorf("address bits must be in [1, 64], got %d",
			l.AddressBits)
	}

	if l.Log2PageSize >= l.AddressBits {
		return fmt.Errorf("log2 page size %d must be smaller than %d",
			l.Log2PageSize, l.AddressBits)
	}

	return nil
}

// PageSize returns the page size in bytes.
func (l AddressLayout) PageSize() uint64 {
	return 1 << l.Log2PageSize
}

// NumPages returns the number of pages in the address space.
func (l AddressLayout) NumPages() uint64 {
	return 1 << (l.AddressBits - l.Log2PageSize)
}

// Split returns the page number and the in-page offset of a virtual address.
func (l AddressLayout) Split(vAddr uint64) (PageNumber, uint64, error) {
	if l.AddressBits < 64 && vAddr>>l.AddressBits != 0 {
		return 0, 0, fmt.Errorf("%w: 0x%x does not fit in %d bits",
			ErrAddressOutOfRange, vAddr, l.AddressBits)
	}

	page := PageNumber(vAddr >> l.Log2PageSize)
	offset := vAddr & (l.PageSize() - 1)

	return page, offset, nil
}

// Join assembles a physical address from a frame and an offset.
func (l AddressLayout) Join(frame FrameNumber, offset uint64) uint64 {
	return uint64(frame)<<l.Log2PageSize | offset
}
