// Package codec provides the FASTQ record type together with its text
// serialization and deserialization.
//
// # Record Format
//
// A FASTQ record occupies four logical lines:
//
//	@id description
//	SEQUENCE
//	+
//	QUALITY
//
// Fields:
//   - id: the token immediately following '@' up to the first whitespace
//   - description: the rest of the header line, optional
//   - sequence: raw sequence bytes, one line in the canonical layout
//   - quality: raw quality bytes, exactly as long as the sequence
//
// The '+' separator line may carry trailing text (often repeating the
// header); it is ignored entirely on decode and always written bare.
//
// # Invariants
//
// A valid record has a non-empty sequence and a quality string of
// exactly the same length. Validate enforces both, and Encode refuses
// records that fail it. Line terminators are never stored in the
// record; Decode strips LF and CRLF alike and tolerates a missing
// terminator on the final line.
//
// # Usage
//
//	rec := codec.NewRecord("read1", "lane=3", []byte("ACGT"), []byte("!!!!"))
//
//	buf, err := codec.Encode(rec)
//	if err != nil {
//	    return err
//	}
//
//	back, err := codec.Decode(buf)
//	if err != nil {
//	    return err
//	}
//
// Decode handles exactly one record in the strict single-line layout;
// streaming input, multi-line records, and error recovery are the
// fastq package's concern.
//
// # Thread Safety
//
// Record values are not mutated by this package after creation and are
// safe to share between goroutines once fully constructed. Writer
// instances are not safe for concurrent use.
package codec
