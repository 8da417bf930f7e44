package fastq

import (
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/ssargent/fastqstream/pkg/codec"
)

// lineSource supplies tagged lines to the assembler. io.EOF signals end
// of stream; any other error is a fatal source failure. position
// reports the stream position after the last consumed line. How lines
// are obtained (blocking read, background goroutine) is the caller's
// concern; the assembler never assumes.
type lineSource interface {
	next() ([]byte, Position, error)
	position() Position
}

// assembler is the record-assembly state machine shared by Reader and
// AsyncReader. It consumes tagged lines and emits complete records or
// classified format errors, resynchronizing at the next plausible
// header under PolicySkip.
type assembler struct {
	opts ReaderOptions
	log  zerolog.Logger

	// Header line found by resynchronization, consumed by the next
	// assembly cycle instead of a fresh line.
	pending    []byte
	pendingPos Position

	// span of the most recently emitted record
	lastStart Position
	lastEnd   Position

	fatal error // deferred fatal I/O error hit during resync
	done  bool
}

func newAssembler(opts ReaderOptions) *assembler {
	return &assembler{
		opts: opts,
		log:  opts.logger(),
	}
}

// next drives the state machine until a complete record, one classified
// format error, or exhaustion. Exhaustion is reported as io.EOF.
func (a *assembler) next(src lineSource) (*codec.Record, error) {
	if a.done {
		return nil, io.EOF
	}
	if a.fatal != nil {
		a.done = true
		return nil, a.fatal
	}

	rec, err := a.readOne(src)
	if err == nil {
		if rec == nil {
			a.done = true
			return nil, io.EOF
		}
		return rec, nil
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		// Fatal I/O failures terminate the stream regardless of policy.
		a.done = true
		return nil, err
	}
	if a.opts.Policy == PolicyReturn {
		a.done = true
		return nil, err
	}
	a.log.Warn().
		Str("kind", perr.Kind.String()).
		Uint64("line", perr.Pos.Line).
		Uint64("offset", perr.Pos.Offset).
		Msg("skipping malformed record")
	a.resync(src)
	return nil, err
}

// readOne assembles one record. A nil record with a nil error means the
// stream ended cleanly while awaiting a header.
func (a *assembler) readOne(src lineSource) (*codec.Record, error) {
	header, hpos, err := a.awaitHeader(src)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, nil
	}

	if header[0] != '@' {
		if a.opts.FastqOnly && header[0] == '>' {
			return nil, formatErr(UnexpectedFastaHeader, hpos)
		}
		return nil, formatErr(MissingHeader, hpos)
	}
	id, desc := codec.ParseHeader(header[1:])

	var seq, qual []byte
	switch a.opts.LineMode {
	case LineMulti:
		seq, qual, err = a.readMulti(src)
	default:
		seq, qual, err = a.readSingle(src)
	}
	if err != nil {
		return nil, err
	}

	a.lastStart = hpos
	a.lastEnd = src.position()
	return codec.NewRecord(id, desc, seq, qual), nil
}

// awaitHeader returns the next candidate header line, skipping blank
// lines between records. A nil line means clean end of stream.
func (a *assembler) awaitHeader(src lineSource) ([]byte, Position, error) {
	if a.pending != nil {
		header, hpos := a.pending, a.pendingPos
		a.pending = nil
		return header, hpos, nil
	}
	for {
		line, pos, err := src.next()
		if errors.Is(err, io.EOF) {
			return nil, pos, nil
		}
		if err != nil {
			return nil, pos, ioErr(err, pos)
		}
		if len(line) == 0 {
			continue
		}
		return line, pos, nil
	}
}

// readSingle consumes exactly one sequence line, the separator, and
// exactly one quality line.
func (a *assembler) readSingle(src lineSource) (seq, qual []byte, err error) {
	seq, spos, err := a.mustLine(src)
	if err != nil {
		return nil, nil, err
	}

	plus, ppos, err := a.mustLine(src)
	if err != nil {
		return nil, nil, err
	}
	if len(plus) == 0 || plus[0] != '+' {
		return nil, nil, formatErr(MissingPlusLine, ppos)
	}

	qual, qpos, err := a.mustLine(src)
	if err != nil {
		return nil, nil, err
	}

	// Empty beats length mismatch: an empty/empty pair would otherwise
	// pass the length check.
	if len(seq) == 0 {
		return nil, nil, formatErr(EmptySequence, spos)
	}
	if len(qual) != len(seq) {
		return nil, nil, lengthErr(qpos, len(seq), len(qual))
	}
	return seq, qual, nil
}

// readMulti accumulates sequence lines until the '+' separator, then
// quality lines until the accumulated quality length reaches the
// sequence length. Overshooting it is a length mismatch.
func (a *assembler) readMulti(src lineSource) (seq, qual []byte, err error) {
	var ppos Position
	for {
		line, pos, lerr := a.mustLine(src)
		if lerr != nil {
			return nil, nil, lerr
		}
		if len(line) > 0 && line[0] == '+' {
			ppos = pos
			break
		}
		seq = append(seq, line...)
	}
	if len(seq) == 0 {
		return nil, nil, formatErr(EmptySequence, ppos)
	}

	var qpos Position
	for len(qual) < len(seq) {
		line, pos, lerr := a.mustLine(src)
		if lerr != nil {
			return nil, nil, lerr
		}
		qual = append(qual, line...)
		qpos = pos
	}
	if len(qual) != len(seq) {
		return nil, nil, lengthErr(qpos, len(seq), len(qual))
	}
	return seq, qual, nil
}

// mustLine reads one line inside a record, where end of stream is a
// format defect rather than normal termination.
func (a *assembler) mustLine(src lineSource) ([]byte, Position, error) {
	line, pos, err := src.next()
	if errors.Is(err, io.EOF) {
		return nil, pos, formatErr(UnexpectedEOF, src.position())
	}
	if err != nil {
		return nil, pos, ioErr(err, pos)
	}
	return line, pos, nil
}

// resync discards lines without interpretation until one begins with
// '@', which becomes the pending header for the next assembly cycle.
// Discarded lines are intentionally not re-classified: one malformed
// record produces exactly one error however corrupted its tail is.
func (a *assembler) resync(src lineSource) {
	for {
		line, pos, err := src.next()
		if errors.Is(err, io.EOF) {
			a.done = true
			return
		}
		if err != nil {
			a.fatal = ioErr(err, pos)
			return
		}
		if len(line) > 0 && line[0] == '@' {
			a.pending = line
			a.pendingPos = pos
			return
		}
	}
}

// span reports the positions of the first and last byte boundaries of
// the most recently emitted record.
func (a *assembler) span() (start, end Position) {
	return a.lastStart, a.lastEnd
}
