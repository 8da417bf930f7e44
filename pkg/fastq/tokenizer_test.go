package fastq

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scannerFor(input string) *lineScanner {
	return newLineScanner(bufio.NewReader(strings.NewReader(input)))
}

func TestLineScanner_PositionsAndTerminators(t *testing.T) {
	s := scannerFor("ab\ncd\r\nef")

	line, pos, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), line)
	assert.Equal(t, Position{Offset: 0, Line: 1}, pos)

	line, pos, err = s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("cd"), line, "carriage return is part of the terminator")
	assert.Equal(t, Position{Offset: 3, Line: 2}, pos)

	line, pos, err = s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("ef"), line, "unterminated final line is still yielded")
	assert.Equal(t, Position{Offset: 7, Line: 3}, pos)

	_, _, err = s.next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, Position{Offset: 9, Line: 3}, s.position())
}

func TestLineScanner_EmptyLineVersusEOF(t *testing.T) {
	s := scannerFor("\n")

	line, pos, err := s.next()
	require.NoError(t, err, "an empty line is not end of stream")
	assert.Empty(t, line)
	assert.Equal(t, Position{Offset: 0, Line: 1}, pos)

	_, _, err = s.next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestLineScanner_CarriageReturnOnlyStrippedBeforeLineFeed(t *testing.T) {
	s := scannerFor("ab\rcd\n")

	line, _, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("ab\rcd"), line, "a lone CR is content, not a terminator")
}

func TestLineScanner_BOMOnlyOnFirstLine(t *testing.T) {
	s := scannerFor("\xEF\xBB\xBF@x\n\xEF\xBB\xBFdata\n")

	line, _, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("@x"), line)

	line, pos, err := s.next()
	require.NoError(t, err)
	assert.Equal(t, []byte("\xEF\xBB\xBFdata"), line)
	assert.Equal(t, uint64(6), pos.Offset, "offset counts the BOM bytes")
}

func TestLineScanner_MonotonicOffsets(t *testing.T) {
	s := scannerFor("a\nbb\nccc\n")

	var last Position
	for {
		_, pos, err := s.next()
		if err != nil {
			break
		}
		assert.GreaterOrEqual(t, pos.Offset, last.Offset)
		assert.Equal(t, last.Line+1, pos.Line)
		last = pos
	}
	assert.Equal(t, Position{Offset: 9, Line: 3}, s.position())
}
