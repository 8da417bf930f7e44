package fastq

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// GzipSuffix is the filename suffix that selects decompression without
// inspecting content.
const GzipSuffix = ".gz"

var gzipMagic = [2]byte{0x1F, 0x8B}

// compressedByName reports whether the filename alone selects the
// decompressing filter.
func compressedByName(path string) bool {
	return strings.HasSuffix(path, GzipSuffix)
}

// selectCodec decides whether to interpose a gzip decompressor between
// the raw source and the tokenizer. When the filename did not decide,
// it peeks the 2-byte magic sequence; the peeked bytes stay buffered in
// br for whichever reader ends up consuming the stream, so nothing is
// lost on a non-seekable source. Ambiguity (short stream, no match)
// defaults to uncompressed.
func selectCodec(br *bufio.Reader, bufferSize int, byName bool) (*bufio.Reader, error) {
	gz := byName
	if !gz {
		magic, err := br.Peek(2)
		gz = err == nil && magic[0] == gzipMagic[0] && magic[1] == gzipMagic[1]
	}
	if !gz {
		return br, nil
	}
	zr, err := gzip.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("fastq: opening gzip stream: %w", err)
	}
	// Multistream decoding is the gzip reader's default, so
	// concatenated members decode as one stream.
	return bufio.NewReaderSize(zr, bufferSize), nil
}
