// Package trace reads memory-reference traces.
//
// A trace is a text file with one reference per line: a hexadecimal virtual
// address followed by a one-character access tag, for example
//
//	0x0040a3f0 R
//	7ffe1000 W
//
// Blank lines and lines starting with '#' are ignored.
package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable is returned when a trace cannot be opened or read.
	ErrSourceUnavailable = errors.New("trace source unavailable")

	// ErrMalformedRecord is returned for a line that is not a valid record.
	ErrMalformedRecord = errors.New("malformed trace record")
)

// AccessKind is the access tag of a record.
type AccessKind byte

// Access tags. Other characters are carried through unchanged.
const (
	Read  AccessKind = 'R'
	Write AccessKind = 'W'
)

// ParseAccessKind converts a one-character tag into an AccessKind. Lower
// case r and w are accepted.
func ParseAccessKind(tag string) (AccessKind, error) {
	if len(tag) != 1 {
		return 0, fmt.Errorf("access tag %q must be one character", tag)
	}

	switch tag[0] {
	case 'r':
		return Read, nil
	case 'w':
		return Write, nil
	}

	return AccessKind(tag[0]), nil
}

// String returns the tag as a string.
func (k AccessKind) String() string {
	return string(rune(k))
}

// IsWrite tells if the record is a write.
func (k AccessKind) IsWrite() bool {
	return k == Write
}

// A Record is one memory reference.
type Record struct {
	Address uint64
	Access  AccessKind

	// Line is the 1-based line number in the source, 0 if unknown.
	Line int
}

// A Source produces records until it returns io.EOF.
type Source interface {
	Next() (Record, error)
}
