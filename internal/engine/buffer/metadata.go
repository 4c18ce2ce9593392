package buffer

import (
	"fmt"
	"sort"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// MetaData is the line-index bookkeeping for a buffer: the ordered
// list of absolute offsets where each line begins, the cached total
// size, the backing file name, and the content checksums used for
// dirty tracking. It stores no text itself.
//
// The line-begin list always holds at least one entry, offset zero;
// an empty buffer is one empty line. Entries are strictly increasing.
type MetaData struct {
	fileName         string
	hasFile          bool
	lineBegins       []cursor.Index
	size             cursor.Length
	checksum         uint64
	pristineChecksum uint64
}

// NewMetaData creates metadata for an empty buffer.
func NewMetaData() *MetaData {
	return &MetaData{lineBegins: []cursor.Index{0}}
}

// FileName returns the backing file name, if one has been recorded.
func (m *MetaData) FileName() (string, bool) {
	return m.fileName, m.hasFile
}

// SetFileName records the backing file name.
func (m *MetaData) SetFileName(name string) {
	m.fileName = name
	m.hasFile = true
}

// LineCount returns the number of lines. It is always at least one.
func (m *MetaData) LineCount() int {
	return len(m.lineBegins)
}

// LineStart returns the absolute offset of the first character of the
// given line.
func (m *MetaData) LineStart(line cursor.Line) (cursor.Index, bool) {
	if line < 0 || int(line) >= len(m.lineBegins) {
		return 0, false
	}
	return m.lineBegins[line], true
}

// LineOf returns the line containing the given offset: the last line
// whose begin offset is not greater than it. Offsets in the final,
// unterminated segment belong to the last line, up to and including
// the buffer size. Offsets beyond the buffer size report false.
func (m *MetaData) LineOf(offset cursor.Index) (cursor.Line, bool) {
	if offset < 0 || cursor.Length(offset) > m.size {
		return 0, false
	}
	i := sort.Search(len(m.lineBegins), func(i int) bool {
		return m.lineBegins[i] > offset
	})
	return cursor.Line(i - 1), true
}

// LineSpan returns the half-open offset range [start, end) covering
// the given line. The end of the last line is the buffer size.
func (m *MetaData) LineSpan(line cursor.Line) (start, end cursor.Index, ok bool) {
	start, ok = m.LineStart(line)
	if !ok {
		return 0, 0, false
	}
	if next, nok := m.LineStart(line + 1); nok {
		return start, next, true
	}
	return start, cursor.Index(m.size), true
}

// LineLen returns the length of the given line in characters,
// including its trailing newline when one exists.
func (m *MetaData) LineLen(line cursor.Line) (cursor.Length, bool) {
	start, end, ok := m.LineSpan(line)
	if !ok {
		return 0, false
	}
	return cursor.Length(end - start), true
}

// Lines returns the line-begin offsets for the half-open line range
// [begin, end). It reports false when any part of the range lies
// outside the tracked lines; callers treat that as "range malformed"
// and leave the buffer untouched.
func (m *MetaData) Lines(begin, end cursor.Line) ([]cursor.Index, bool) {
	if begin < 0 || end < begin || int(end) > len(m.lineBegins) {
		return nil, false
	}
	return m.lineBegins[begin:end], true
}

// InsertLineBegin inserts a new line boundary at list position line.
// Used when a single newline is typed; the surrounding entries are
// patched separately by UpdateAfterLine.
func (m *MetaData) InsertLineBegin(offset cursor.Index, line cursor.Line) {
	i := int(line)
	if i < 0 {
		i = 0
	}
	if i > len(m.lineBegins) {
		i = len(m.lineBegins)
	}
	m.lineBegins = append(m.lineBegins, 0)
	copy(m.lineBegins[i+1:], m.lineBegins[i:])
	m.lineBegins[i] = offset
}

// UpdateAfterLine adds delta to every line-begin offset strictly after
// the given line. This is the incremental patch applied on
// single-character edits, avoiding a full rebuild.
func (m *MetaData) UpdateAfterLine(line cursor.Line, delta int) {
	for i := int(line) + 1; i < len(m.lineBegins); i++ {
		m.lineBegins[i] += cursor.Index(delta)
	}
}

// Clear resets the line index to the single entry at offset zero.
func (m *MetaData) Clear() {
	m.lineBegins = m.lineBegins[:0]
	m.lineBegins = append(m.lineBegins, 0)
}

// Rebuild recomputes the entire line index and the cached size by
// scanning the data for newlines. Used after bulk edits where
// incremental patching is error-prone.
func (m *MetaData) Rebuild(data []rune) {
	m.Clear()
	for i, r := range data {
		if r == '\n' {
			m.lineBegins = append(m.lineBegins, cursor.Index(i+1))
		}
	}
	m.size = cursor.Length(len(data))
}

// Size returns the cached total character count.
func (m *MetaData) Size() cursor.Length {
	return m.size
}

// SetSize updates the cached total character count.
func (m *MetaData) SetSize(size cursor.Length) {
	if size < 0 {
		size = 0
	}
	m.size = size
}

// Checksum returns the most recently computed content checksum.
func (m *MetaData) Checksum() uint64 {
	return m.checksum
}

// SetChecksum records a freshly computed content checksum.
func (m *MetaData) SetChecksum(sum uint64) {
	m.checksum = sum
}

// PristineChecksum returns the checksum recorded at the last
// successful save or load.
func (m *MetaData) PristineChecksum() uint64 {
	return m.pristineChecksum
}

// MarkPristine records the current checksum as the pristine one.
func (m *MetaData) MarkPristine() {
	m.pristineChecksum = m.checksum
}

// Pristine reports whether the recorded checksum matches the pristine
// checksum. Buffer.Pristine recomputes the checksum first; this is the
// raw bookkeeping comparison.
func (m *MetaData) Pristine() bool {
	return m.checksum == m.pristineChecksum
}

// String returns a short debug rendering of the index.
func (m *MetaData) String() string {
	name := "-"
	if m.hasFile {
		name = m.fileName
	}
	return fmt.Sprintf("MetaData(lines=%d, size=%d, file=%s)", len(m.lineBegins), m.size, name)
}
