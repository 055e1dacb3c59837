package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// A Reader parses records from a text stream. After the first error every
// call to Next returns the same error.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	err     error
}

// NewReader creates a Reader on top of r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
	}
}

// Next returns the next record, io.EOF at the end of the stream, or an error
// wrapping ErrMalformedRecord or ErrSourceUnavailable. A line too long to
// scan is a malformed record.
func (r *Reader) Next() (Record, error) {
	if r.err != nil {
		return Record{}, r.err
	}

	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		rec, err := parseRecord(text)
		if err != nil {
			r.err = fmt.Errorf("line %d: %w: %v",
				r.line, ErrMalformedRecord, err)
			return Record{}, r.err
		}

		rec.Line = r.line

		return rec, nil
	}

	err := r.scanner.Err()
	if errors.Is(err, bufio.ErrTooLong) {
		r.err = fmt.Errorf("line %d: %w: %v",
			r.line+1, ErrMalformedRecord, err)
		return Record{}, r.err
	}

	if err != nil {
		r.err = fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		return Record{}, r.err
	}

	r.err = io.EOF

	return Record{}, r.err
}

func parseRecord(text string) (Record, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf("expected address and access tag, got %q",
			text)
	}

	digits := strings.TrimPrefix(strings.ToLower(fields[0]), "0x")

	addr, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return Record{}, fmt.Errorf("bad address %q: %v", fields[0], err)
	}

	access, err := ParseAccessKind(fields[1])
	if err != nil {
		return Record{}, err
	}

	return Record{Address: addr, Access: access}, nil
}

// A File is a Reader over a trace file that can be rewound for another run.
type File struct {
	*Reader
	file *os.File
}

// Open opens the trace file at path.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	return &File{
		Reader: NewReader(f),
		file:   f,
	}, nil
}

// Name returns the path of the file.
func (f *File) Name() string {
	return f.file.Name()
}

// Rewind restarts reading from the beginning of the file.
func (f *File) Rewind() error {
	_, err := f.file.Seek(0, io.SeekStart)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	f.Reader = NewReader(f.file)

	return nil
}

// Close closes the file.
func (f *File) Close() error {
	return f.file.Close()
}

// SliceSource serves records from memory.
type SliceSource struct {
	records []Record
	next    int
}

// NewSliceSource creates a Source that returns the records in order.
func NewSliceSource(records ...Record) *SliceSource {
	return &SliceSource{records: records}
}

// NewAddressSource creates a read-only Source from bare addresses.
func NewAddressSource(addrs ...uint64) *SliceSource {
	records := make([]Record, len(addrs))
	for i, a := range addrs {
		records[i] = Record{Address: a, Access: Read, Line: i + 1}
	}

	return NewSliceSource(records...)
}

// Next returns the next record or io.EOF.
func (s *SliceSource) Next() (Record, error) {
	if s.next >= len(s.records) {
		return Record{}, io.EOF
	}

	rec := s.records[s.next]
	s.next++

	return rec, nil
}

// Rewind restarts from the first record.
func (s *SliceSource) Rewind() error {
	s.next = 0
	return nil
}
