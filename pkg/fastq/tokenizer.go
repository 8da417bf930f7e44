package fastq

import (
	"bufio"
	"bytes"
	"errors"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// lineScanner yields terminator-stripped lines from a buffered source,
// tagging each with the byte offset where it begins and its 1-based
// line number. Offsets advance by the exact number of raw bytes
// consumed, terminators included.
type lineScanner struct {
	r        *bufio.Reader
	consumed uint64
	line     uint64
}

func newLineScanner(r *bufio.Reader) *lineScanner {
	return &lineScanner{r: r}
}

// next returns the next line without its terminator, tagged with the
// position of its first byte. A final unterminated line is still
// yielded. End of stream is reported as io.EOF; any other error is a
// fatal source failure.
func (s *lineScanner) next() ([]byte, Position, error) {
	start := Position{Offset: s.consumed, Line: s.line + 1}
	raw, err := s.r.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, s.position(), err
	}
	if len(raw) == 0 {
		return nil, s.position(), io.EOF
	}
	s.consumed += uint64(len(raw))
	s.line++

	line := raw
	if line[len(line)-1] == '\n' {
		line = line[:len(line)-1]
		if len(line) > 0 && line[len(line)-1] == '\r' {
			line = line[:len(line)-1]
		}
	}
	// A byte-order mark on the very first line is not content.
	if start.Line == 1 {
		line = bytes.TrimPrefix(line, utf8BOM)
	}
	return line, start, nil
}

// position reports the stream position after the last consumed line.
func (s *lineScanner) position() Position {
	return Position{Offset: s.consumed, Line: s.line}
}
