package fastq

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/ssargent/fastqstream/pkg/codec"
)

type asyncResult struct {
	rec *codec.Record
	err error
}

// AsyncReader is the suspending realization of the streaming contract.
// A background goroutine drives the same assembler state machine as
// Reader over the same tokenizer; Next suspends on a context instead of
// blocking the calling goroutine on source I/O. For identical bytes the
// two readers yield identical records and identical error
// classifications, in the same order.
type AsyncReader struct {
	results chan asyncResult
	quit    chan struct{}
	file    *os.File
	once    sync.Once
}

// OpenAsync opens a FASTQ file for suspending reads, with the same
// codec selection as Open.
func OpenAsync(path string, opts ReaderOptions) (*AsyncReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	br, err := selectCodec(bufio.NewReaderSize(f, opts.bufferSize()), opts.bufferSize(), compressedByName(path))
	if err != nil {
		f.Close()
		return nil, err
	}
	r := newAsyncReader(br, opts)
	r.file = f
	return r, nil
}

// NewAsyncReader wraps an arbitrary byte stream for suspending reads,
// with the same magic-byte codec selection as NewReader. The reader
// takes exclusive ownership of src until Close.
func NewAsyncReader(src io.Reader, opts ReaderOptions) (*AsyncReader, error) {
	br, err := selectCodec(bufio.NewReaderSize(src, opts.bufferSize()), opts.bufferSize(), false)
	if err != nil {
		return nil, err
	}
	return newAsyncReader(br, opts), nil
}

func newAsyncReader(br *bufio.Reader, opts ReaderOptions) *AsyncReader {
	r := &AsyncReader{
		// One slot so a result produced for an abandoned Next stays
		// queued for the retry instead of being torn.
		results: make(chan asyncResult, 1),
		quit:    make(chan struct{}),
	}
	go r.run(newLineScanner(br), newAssembler(opts))
	return r
}

func (r *AsyncReader) run(lines *lineScanner, asm *assembler) {
	defer close(r.results)
	for {
		rec, err := asm.next(lines)
		if errors.Is(err, io.EOF) {
			return
		}
		select {
		case r.results <- asyncResult{rec: rec, err: err}:
		case <-r.quit:
			return
		}
	}
}

// Next returns the next record or error with the exact semantics of
// Reader.Next, suspending on ctx while the source has nothing ready.
// Cancellation abandons only the wait: no partial state is committed,
// and a retry observes the result the cancelled call would have.
func (r *AsyncReader) Next(ctx context.Context) (*codec.Record, error) {
	select {
	case res, ok := <-r.results:
		if !ok {
			return nil, io.EOF
		}
		return res.rec, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the background goroutine and releases the underlying file
// when the reader opened it. Next calls after Close drain any already
// produced result and then report exhaustion.
func (r *AsyncReader) Close() error {
	var err error
	r.once.Do(func() {
		close(r.quit)
		if r.file != nil {
			err = r.file.Close()
		}
	})
	return err
}
