package codec

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// Writer writes FASTQ records in the canonical four-line layout.
type Writer struct {
	f io.Writer
	w *bufio.Writer
}

// NewWriter returns a new FASTQ writer using w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{
		f: w,
		w: bufio.NewWriter(w),
	}
}

// NewWriterFile returns a new FASTQ writer using a filename, truncating
// any existing file.
func NewWriterFile(name string) (*Writer, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return NewWriter(f), nil
}

// Write writes a single record and returns the number of bytes written.
// Records failing Validate are rejected.
func (w *Writer) Write(r *Record) (int, error) {
	buf, err := Encode(r)
	if err != nil {
		return 0, fmt.Errorf("invalid record %q: %w", r.ID, err)
	}
	return w.w.Write(buf)
}

// Flush writes any buffered records to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer and closes the underlying writer when it is
// closeable.
func (w *Writer) Close() error {
	if err := w.w.Flush(); err != nil {
		return err
	}
	if c, ok := w.f.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
