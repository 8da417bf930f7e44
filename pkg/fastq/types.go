package fastq

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Position locates a point in the input stream. Offset counts raw bytes
// consumed from the (possibly decompressed) source including line
// terminators; Line is 1-based and counts yielded lines. Both advance
// monotonically for the lifetime of a reader and are never reset.
type Position struct {
	Offset uint64 // byte offset from the start of the stream
	Line   uint64 // 1-based line number
}

// String renders the position in the stable human-readable form used by
// error messages.
func (p Position) String() string {
	return fmt.Sprintf("line %d, byte %d", p.Line, p.Offset)
}

// ErrorPolicy selects how the reader responds to format errors.
type ErrorPolicy int

const (
	// PolicySkip surfaces one error per malformed record, then
	// resynchronizes at the next plausible header and continues.
	PolicySkip ErrorPolicy = iota
	// PolicyReturn surfaces the first format error and exhausts the
	// stream; nothing further is yielded.
	PolicyReturn
)

// String returns the policy name.
func (p ErrorPolicy) String() string {
	switch p {
	case PolicySkip:
		return "skip"
	case PolicyReturn:
		return "return"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// LineMode selects how sequence and quality lines are laid out.
type LineMode int

const (
	// LineSingle constrains sequence and quality to exactly one
	// physical line each.
	LineSingle LineMode = iota
	// LineMulti allows sequence and quality to span several physical
	// lines, bounded by matching total lengths.
	LineMulti
)

// String returns the line mode name.
func (m LineMode) String() string {
	switch m {
	case LineSingle:
		return "single"
	case LineMulti:
		return "multi"
	default:
		return fmt.Sprintf("LineMode(%d)", int(m))
	}
}

// DefaultBufferSize is the read buffer size used when ReaderOptions
// does not specify one.
const DefaultBufferSize = 256 * 1024

// ReaderOptions holds the immutable configuration captured at reader
// construction.
type ReaderOptions struct {
	Policy     ErrorPolicy     // error policy, PolicySkip by default
	LineMode   LineMode        // line layout, LineSingle by default
	FastqOnly  bool            // classify '>' headers as FASTA intrusions
	BufferSize int             // read buffer size, DefaultBufferSize when 0
	Logger     *zerolog.Logger // logger for skip-policy warnings, discards when nil
}

// DefaultOptions returns the options matching CD-HIT input handling:
// skip malformed records, single-line layout, FASTQ only.
func DefaultOptions() ReaderOptions {
	return ReaderOptions{
		Policy:    PolicySkip,
		LineMode:  LineSingle,
		FastqOnly: true,
	}
}

func (o ReaderOptions) bufferSize() int {
	if o.BufferSize <= 0 {
		return DefaultBufferSize
	}
	return o.BufferSize
}

func (o ReaderOptions) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}
