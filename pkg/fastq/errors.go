package fastq

import "fmt"

// ErrorKind classifies FASTQ format defects.
type ErrorKind int

const (
	// MissingHeader marks a line that does not start with '@' where a
	// record header was expected.
	MissingHeader ErrorKind = iota
	// UnexpectedFastaHeader marks a '>' line where a FASTQ header was
	// expected, reported only when ReaderOptions.FastqOnly is set.
	UnexpectedFastaHeader
	// MissingPlusLine marks a line that does not start with '+' where
	// the separator was expected.
	MissingPlusLine
	// UnexpectedEOF marks end of stream inside a record.
	UnexpectedEOF
	// LengthMismatch marks a quality string whose length differs from
	// the sequence length.
	LengthMismatch
	// EmptySequence marks a record with a zero-length sequence.
	EmptySequence
)

// String describes the defect kind.
func (k ErrorKind) String() string {
	switch k {
	case MissingHeader:
		return "expected header '@' at start of record"
	case UnexpectedFastaHeader:
		return "found FASTA header '>' where FASTQ '@' expected"
	case MissingPlusLine:
		return "missing '+' separator line"
	case UnexpectedEOF:
		return "unexpected EOF inside record"
	case LengthMismatch:
		return "quality length does not match sequence length"
	case EmptySequence:
		return "empty sequence"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// ParseError is a classified format defect carrying the position where
// it was detected. Parse errors are values: under PolicySkip the reader
// yields one per malformed record and keeps going, under PolicyReturn
// the first one exhausts the stream. Fatal I/O failures are never
// reported as *ParseError.
type ParseError struct {
	Kind    ErrorKind
	Pos     Position
	SeqLen  int // populated for LengthMismatch
	QualLen int // populated for LengthMismatch
}

// Error renders the defect kind plus line number and byte offset. The
// text layout is a stable contract for downstream log consumers.
func (e *ParseError) Error() string {
	if e.Kind == LengthMismatch {
		return fmt.Sprintf("fastq: quality length (%d) does not match sequence length (%d) at %s",
			e.QualLen, e.SeqLen, e.Pos)
	}
	return fmt.Sprintf("fastq: %s at %s", e.Kind, e.Pos)
}

func formatErr(kind ErrorKind, pos Position) *ParseError {
	return &ParseError{Kind: kind, Pos: pos}
}

func lengthErr(pos Position, seqLen, qualLen int) *ParseError {
	return &ParseError{Kind: LengthMismatch, Pos: pos, SeqLen: seqLen, QualLen: qualLen}
}

func ioErr(err error, pos Position) error {
	return fmt.Errorf("fastq: read failed at %s: %w", pos, err)
}
