package codec

import (
	"bytes"
	"fmt"
	"unicode"
)

// Record represents a single FASTQ record: the header identity plus raw
// sequence and quality bytes. Line terminators are never part of the
// stored bytes.
type Record struct {
	ID   string // token following '@' up to the first whitespace
	Desc string // remainder of the header line, empty if absent
	Seq  []byte // sequence bytes
	Qual []byte // quality bytes, same length as Seq
}

// NewRecord creates a record from its parts.
func NewRecord(id, desc string, seq, qual []byte) *Record {
	return &Record{
		ID:   id,
		Desc: desc,
		Seq:  seq,
		Qual: qual,
	}
}

// ParseHeader splits a header line (with the leading '@' already
// removed) into the record id and optional description. The description
// is whitespace-trimmed and empty when the header carries no text after
// the id.
func ParseHeader(line []byte) (id, desc string) {
	i := bytes.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return string(line), ""
	}
	return string(line[:i]), string(bytes.TrimSpace(line[i+1:]))
}

// Header renders the record's header line content without the leading
// '@' marker.
func (r *Record) Header() string {
	if r.Desc == "" {
		return r.ID
	}
	return r.ID + " " + r.Desc
}

// Len returns the sequence length.
func (r *Record) Len() int {
	return len(r.Seq)
}

// Validate checks the record invariants: a non-empty sequence and a
// quality string of exactly the same length.
func (r *Record) Validate() error {
	if len(r.Seq) == 0 {
		return fmt.Errorf("empty sequence")
	}
	if len(r.Seq) != len(r.Qual) {
		return fmt.Errorf("quality length (%d) does not match sequence length (%d)", len(r.Qual), len(r.Seq))
	}
	return nil
}

// Size returns the encoded size of the record in bytes, including the
// '@' and '+' markers and one line feed per line.
func (r *Record) Size() int {
	return 1 + len(r.Header()) + 1 + len(r.Seq) + 1 + 2 + len(r.Qual) + 1
}

// Encode serializes the record into the canonical four-line FASTQ
// layout. The record must satisfy Validate.
func Encode(r *Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, r.Size())
	buf = append(buf, '@')
	buf = append(buf, r.Header()...)
	buf = append(buf, '\n')
	buf = append(buf, r.Seq...)
	buf = append(buf, '\n', '+', '\n')
	buf = append(buf, r.Qual...)
	buf = append(buf, '\n')
	return buf, nil
}

// Decode deserializes a byte slice holding exactly one four-line FASTQ
// record. It tolerates CRLF terminators and a missing terminator on the
// final line, but requires the strict single-line layout: header,
// sequence, '+' separator, quality.
func Decode(data []byte) (*Record, error) {
	lines := splitLines(data)
	if len(lines) < 4 {
		return nil, fmt.Errorf("data too short for record: %d lines", len(lines))
	}
	if len(lines) > 4 {
		return nil, fmt.Errorf("trailing data after record: %d extra lines", len(lines)-4)
	}
	header := lines[0]
	if len(header) == 0 || header[0] != '@' {
		return nil, fmt.Errorf("header line does not start with '@'")
	}
	if len(lines[2]) == 0 || lines[2][0] != '+' {
		return nil, fmt.Errorf("separator line does not start with '+'")
	}
	id, desc := ParseHeader(header[1:])
	r := &Record{
		ID:   id,
		Desc: desc,
		Seq:  lines[1],
		Qual: lines[3],
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// splitLines splits on line feeds, stripping a carriage return that
// precedes one. A final terminator does not produce a trailing empty
// element.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, data)
			break
		}
		line := data[:i]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
		lines = append(lines, line)
		data = data[i+1:]
	}
	return lines
}
