package fastq

import (
	"bufio"
	"io"
	"os"

	"github.com/ssargent/fastqstream/pkg/codec"
)

// Reader is the blocking streaming FASTQ reader. It owns its byte
// source exclusively; nothing advances until Next is called, and at
// most one Next call may be in flight at a time.
type Reader struct {
	lines *lineScanner
	asm   *assembler
	file  *os.File // set when the reader opened the file itself
}

// Open opens a FASTQ file, interposing a gzip decompressor when the
// name ends in ".gz" or the content starts with the gzip magic bytes.
func Open(path string, opts ReaderOptions) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br, err := selectCodec(bufio.NewReaderSize(f, opts.bufferSize()), opts.bufferSize(), compressedByName(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	r := newReader(br, opts)
	r.file = f
	return r, nil
}

// NewReader wraps an arbitrary byte stream. Gzip content is detected by
// magic bytes alone; the peek consumes nothing. The reader takes
// exclusive ownership of src until Close.
func NewReader(src io.Reader, opts ReaderOptions) (*Reader, error) {
	br, err := selectCodec(bufio.NewReaderSize(src, opts.bufferSize()), opts.bufferSize(), false)
	if err != nil {
		return nil, err
	}
	return newReader(br, opts), nil
}

func newReader(br *bufio.Reader, opts ReaderOptions) *Reader {
	return &Reader{
		lines: newLineScanner(br),
		asm:   newAssembler(opts),
	}
}

// Next returns the next record, or the next classified format error as
// a *ParseError value. Exhaustion is reported as io.EOF, distinct from
// any error. Under PolicySkip, iteration continues after a format
// error; under PolicyReturn, the first one exhausts the stream. Fatal
// I/O failures from the source are returned as ordinary wrapped errors
// and always terminate iteration.
//
// Callers using PolicySkip must handle the error values to avoid
// silently ignoring data loss; every malformed record produces exactly
// one of them.
func (r *Reader) Next() (*codec.Record, error) {
	return r.asm.next(r.lines)
}

// Position reports the current stream position: the byte offset and
// line number consumed so far, decompressed when a codec is selected.
func (r *Reader) Position() Position {
	return r.lines.position()
}

// LastSpan reports the positions bounding the most recently returned
// record: the start of its header line and the end of its final line.
// Valid only after a successful Next.
func (r *Reader) LastSpan() (start, end Position) {
	return r.asm.span()
}

// Close releases the underlying file when the reader opened it. Readers
// built over a caller-supplied stream leave closing to the caller.
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	return r.file.Close()
}
