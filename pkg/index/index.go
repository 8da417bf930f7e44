// Package index builds a persistent record-id to file-location index
// over a plain single-line FASTQ file, enabling random access to
// individual records without re-scanning the stream.
package index

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/fastqstream/pkg/codec"
	"github.com/ssargent/fastqstream/pkg/fastq"
)

// Errors
var (
	// ErrNotFound is returned when the index holds no entry for an id.
	ErrNotFound = errors.New("index: record id not found")
	// ErrCompressedInput is returned when the input file is gzip
	// compressed; byte offsets into a compressed stream cannot be
	// seeked to.
	ErrCompressedInput = errors.New("index: cannot index compressed input")
	// ErrMultiLine is returned when a build is requested in multi-line
	// mode; extraction decodes the strict four-line layout only.
	ErrMultiLine = errors.New("index: multi-line mode is not indexable")
)

// Entry locates one record inside the indexed file.
type Entry struct {
	Offset uint64 // byte offset of the record's header line
	Length uint32 // encoded record length in bytes, terminators included
	Line   uint64 // 1-based line number of the header line
}

// Encoded entry layout: [Offset(8)][Length(4)][Line(8)], little-endian.
const entrySize = 20

// EncodeEntry serializes an entry into its fixed binary layout.
func EncodeEntry(e Entry) []byte {
	buf := make([]byte, entrySize)
	binary.LittleEndian.PutUint64(buf[0:], e.Offset)
	binary.LittleEndian.PutUint32(buf[8:], e.Length)
	binary.LittleEndian.PutUint64(buf[12:], e.Line)
	return buf
}

// DecodeEntry deserializes an entry from its fixed binary layout.
func DecodeEntry(data []byte) (Entry, error) {
	if len(data) != entrySize {
		return Entry{}, fmt.Errorf("index: entry is %d bytes, want %d", len(data), entrySize)
	}
	return Entry{
		Offset: binary.LittleEndian.Uint64(data[0:]),
		Length: binary.LittleEndian.Uint32(data[8:]),
		Line:   binary.LittleEndian.Uint64(data[12:]),
	}, nil
}

// BuildResult summarizes one index build.
type BuildResult struct {
	BuildID   ksuid.KSUID   // identifier of this index generation
	Records   uint64        // records indexed
	Skipped   uint64        // malformed records skipped
	Bytes     uint64        // source bytes consumed
	BuildTime time.Duration // wall time of the build
}

// Key namespaces inside the pebble store.
var (
	recordPrefix = []byte("r")
	metaBuildKey = []byte("m:build")
	metaSrcKey   = []byte("m:source")
)

// RecordIndex is a record-id index persisted in a pebble store. When
// the source file carries duplicate ids, the last occurrence wins.
type RecordIndex struct {
	db     *pebble.DB
	source string
}

// Open opens (creating if needed) the index store in dir.
func Open(dir string) (*RecordIndex, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	ix := &RecordIndex{db: db}
	src, closer, err := db.Get(metaSrcKey)
	if err == nil {
		ix.source = string(src)
		closer.Close()
	} else if !errors.Is(err, pebble.ErrNotFound) {
		db.Close()
		return nil, err
	}
	return ix, nil
}

// Build streams fastqPath through the reader and indexes every
// well-formed record by id. Malformed records are counted and skipped.
// Only plain single-line input is indexable.
func (ix *RecordIndex) Build(fastqPath string, opts fastq.ReaderOptions) (*BuildResult, error) {
	if opts.LineMode != fastq.LineSingle {
		return nil, ErrMultiLine
	}
	if err := checkPlain(fastqPath); err != nil {
		return nil, err
	}

	r, err := fastq.Open(fastqPath, opts)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	startTime := time.Now()
	result := &BuildResult{BuildID: ksuid.New()}
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *fastq.ParseError
		if errors.As(err, &perr) {
			result.Skipped++
			continue
		}
		if err != nil {
			return nil, err
		}

		start, end := r.LastSpan()
		entry := Entry{
			Offset: start.Offset,
			Length: uint32(end.Offset - start.Offset),
			Line:   start.Line,
		}
		if err := ix.db.Set(recordKey(rec.ID), EncodeEntry(entry), pebble.NoSync); err != nil {
			return nil, err
		}
		result.Records++
	}
	result.Bytes = r.Position().Offset

	if err := ix.db.Set(metaSrcKey, []byte(fastqPath), pebble.NoSync); err != nil {
		return nil, err
	}
	if err := ix.db.Set(metaBuildKey, result.BuildID.Bytes(), pebble.Sync); err != nil {
		return nil, err
	}
	ix.source = fastqPath

	result.BuildTime = time.Since(startTime)
	return result, nil
}

// Lookup returns the location of the record with the given id.
func (ix *RecordIndex) Lookup(id string) (Entry, error) {
	data, closer, err := ix.db.Get(recordKey(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()
	return DecodeEntry(data)
}

// Extract reads the record with the given id directly from the source
// file using its indexed location.
func (ix *RecordIndex) Extract(id string) (*codec.Record, error) {
	entry, err := ix.Lookup(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(ix.source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, entry.Length)
	if _, err := f.ReadAt(buf, int64(entry.Offset)); err != nil {
		return nil, fmt.Errorf("index: reading record %q at offset %d: %w", id, entry.Offset, err)
	}
	return codec.Decode(buf)
}

// BuildID returns the identifier of the persisted index generation.
func (ix *RecordIndex) BuildID() (ksuid.KSUID, error) {
	data, closer, err := ix.db.Get(metaBuildKey)
	if errors.Is(err, pebble.ErrNotFound) {
		return ksuid.Nil, ErrNotFound
	}
	if err != nil {
		return ksuid.Nil, err
	}
	defer closer.Close()
	return ksuid.FromBytes(data)
}

// Source returns the path of the indexed FASTQ file.
func (ix *RecordIndex) Source() string {
	return ix.source
}

// Close closes the underlying store.
func (ix *RecordIndex) Close() error {
	return ix.db.Close()
}

func recordKey(id string) []byte {
	key := make([]byte, 0, len(recordPrefix)+1+len(id))
	key = append(key, recordPrefix...)
	key = append(key, ':')
	key = append(key, id...)
	return key
}

// checkPlain rejects gzip input by suffix or magic bytes. Offsets refer
// to the decompressed stream and cannot be used to seek the file.
func checkPlain(path string) error {
	if strings.HasSuffix(path, fastq.GzipSuffix) {
		return ErrCompressedInput
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	var magic [2]byte
	if n, _ := io.ReadFull(f, magic[:]); n == 2 && magic[0] == 0x1F && magic[1] == 0x8B {
		return ErrCompressedInput
	}
	return nil
}
