package reference

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSourceUnavailable is returned when the reference source cannot be
	// opened or its header cannot be read.
	ErrSourceUnavailable = errors.New("reference source unavailable")
	// ErrChunkRead is returned for read failures that are not a single
	// malformed row. The run cannot continue past it.
	ErrChunkRead = errors.New("reference chunk read failed")
	// ErrInvalidChunkSize is returned for a chunk size below one.
	ErrInvalidChunkSize = errors.New("chunk size must be positive")
)

// Chunk is a contiguous block of reference rows in source order.
type Chunk struct {
	// Seq is the 1-based chunk number.
	Seq int
	// Offset is the 0-based position of the chunk's first record among all
	// data records of the source, malformed ones included.
	Offset int64
	// Rows holds the well-formed rows.
	Rows []Row
	// Malformed counts records skipped because they could not be parsed.
	Malformed int
}

// Seen returns the number of records the chunk covers.
func (c *Chunk) Seen() int {
	return len(c.Rows) + c.Malformed
}

// Scanner reads a CSV reference source in fixed-size chunks. Memory use is
// bounded by one chunk regardless of source size. A Scanner is not safe for
// concurrent use.
type Scanner struct {
	reader  *csv.Reader
	binding *Binding
	size    int
	seq     int
	offset  int64
	done    bool
}

// NewScanner reads the header from r and binds it to schema.
func NewScanner(r io.Reader, schema Schema, size int) (*Scanner, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty source", ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrSourceUnavailable, err)
	}

	return &Scanner{
		reader:  cr,
		binding: schema.Bind(header),
		size:    size,
	}, nil
}

// Header returns the source header.
func (s *Scanner) Header() []string {
	return s.binding.Header()
}

// Missing lists schema columns the source does not carry.
func (s *Scanner) Missing() []string {
	return s.binding.Missing()
}

// Binding exposes the header binding for callers that decode rows themselves.
func (s *Scanner) Binding() *Binding {
	return s.binding
}

// Next returns the next chunk, or io.EOF once the source is exhausted.
// Records that fail to parse, or carry more cells than the header, are
// skipped and counted in Chunk.Malformed.
func (s *Scanner) Next(ctx context.Context) (*Chunk, error) {
	if s.done {
		return nil, io.EOF
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	chunk := &Chunk{
		Seq:    s.seq + 1,
		Offset: s.offset,
		Rows:   make([]Row, 0, min(s.size, 4096)),
	}
	for chunk.Seen() < s.size {
		record, err := s.reader.Read()
		if errors.Is(err, io.EOF) {
			s.done = true
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				chunk.Malformed++
				continue
			}
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrChunkRead, chunk.Seq, err)
		}
		if len(record) > s.binding.width {
			chunk.Malformed++
			continue
		}
		chunk.Rows = append(chunk.Rows, s.binding.Decode(record))
	}

	if chunk.Seen() == 0 {
		return nil, io.EOF
	}
	s.seq++
	s.offset += int64(chunk.Seen())
	return chunk, nil
}
