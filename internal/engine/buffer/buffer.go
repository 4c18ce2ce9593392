package buffer

import (
	"fmt"
	"hash/fnv"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

const (
	// DefaultPageLines is the number of lines a page movement spans
	// when no other value is configured.
	DefaultPageLines = 40

	// DefaultBulkThreshold is the slice length above which InsertSlice
	// switches from per-character insertion to a one-pass copy with a
	// full metadata rebuild.
	DefaultBulkThreshold = 128
)

// Buffer is a contiguous text buffer: the character sequence, the
// single edit cursor, an optional meta cursor anchoring a selection,
// and the line-index metadata. A Buffer is owned by exactly one caller
// at a time and is not safe for concurrent use.
type Buffer struct {
	id            int
	data          []rune
	cur           cursor.BufferCursor
	meta          cursor.MetaCursor
	md            *MetaData
	pageLines     int
	bulkThreshold int
	onChange      func(Operation)
}

// New creates an empty buffer with the given pool id and an initial
// capacity in characters.
func New(id, capacity int, opts ...Option) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	b := &Buffer{
		id:            id,
		data:          make([]rune, 0, capacity),
		md:            NewMetaData(),
		pageLines:     DefaultPageLines,
		bulkThreshold: DefaultBulkThreshold,
	}
	for _, opt := range opts {
		opt(b)
	}
	cs := b.computeChecksum()
	b.md.SetChecksum(cs)
	b.md.MarkPristine()
	return b
}

// ID returns the identifier the pool assigned to this buffer.
func (b *Buffer) ID() int {
	return b.id
}

// Len returns the number of characters in the buffer.
func (b *Buffer) Len() cursor.Length {
	return cursor.Length(len(b.data))
}

// Cap returns the buffer's current backing capacity in characters.
func (b *Buffer) Cap() int {
	return cap(b.data)
}

// Empty reports whether the buffer holds no characters.
func (b *Buffer) Empty() bool {
	return len(b.data) == 0
}

// Cursor returns the current edit cursor.
func (b *Buffer) Cursor() cursor.BufferCursor {
	return b.cur
}

// Metadata returns the buffer's line-index metadata. The returned
// value is a read-only view owned by the buffer.
func (b *Buffer) Metadata() *MetaData {
	return b.md
}

// FileName returns the backing file name, if one has been recorded by
// a load or save.
func (b *Buffer) FileName() (string, bool) {
	return b.md.FileName()
}

// Text returns the full buffer contents as a string.
func (b *Buffer) Text() string {
	return string(b.data)
}

// Get returns the character at the given offset.
func (b *Buffer) Get(idx cursor.Index) (rune, bool) {
	if idx < 0 || int(idx) >= len(b.data) {
		return 0, false
	}
	return b.data[idx], true
}

// Slice returns the characters in the half-open range [from, to). The
// returned slice is a view into the buffer, valid until the next
// mutation.
func (b *Buffer) Slice(from, to cursor.Index) ([]rune, error) {
	if from < 0 || to < from || int(to) > len(b.data) {
		return nil, fmt.Errorf("slice [%d, %d) of buffer with length %d: %w", from, to, len(b.data), ErrOutOfBounds)
	}
	return b.data[from:to], nil
}

// LineSlices returns one view per line for the inclusive line range
// [first, last]. Each slice covers the line's characters including the
// trailing newline when one exists.
func (b *Buffer) LineSlices(first, last cursor.Line) ([][]rune, error) {
	if first < 0 || last < first || int(last) >= b.md.LineCount() {
		return nil, fmt.Errorf("lines %d..%d of buffer with %d lines: %w", first, last, b.md.LineCount(), ErrOutOfBounds)
	}
	res := make([][]rune, 0, int(last-first)+1)
	for l := first; l <= last; l++ {
		start, end, _ := b.md.LineSpan(l)
		res = append(res, b.data[start:end])
	}
	return res, nil
}

// LineLength returns the length of the given line, including its
// trailing newline when one exists.
func (b *Buffer) LineLength(line cursor.Line) (cursor.Length, bool) {
	return b.md.LineLen(line)
}

// Selection returns the active selection normalized to (from, to)
// with from <= to. It reports false when no selection is active or
// when the anchor is the reserved line-range variant.
func (b *Buffer) Selection() (from, to cursor.Index, ok bool) {
	mc, isAbs := b.meta.(cursor.Absolute)
	if !isAbs {
		return 0, 0, false
	}
	anchor := mc.Index()
	if anchor < b.cur.Pos() {
		return anchor, b.cur.Pos(), true
	}
	return b.cur.Pos(), anchor, true
}

// MetaCursor returns the raw selection anchor, nil when no selection
// is active.
func (b *Buffer) MetaCursor() cursor.MetaCursor {
	return b.meta
}

// Pristine reports whether the buffer content matches the state at the
// last successful save or load. The checksum is recomputed on every
// call.
func (b *Buffer) Pristine() bool {
	b.md.SetChecksum(b.computeChecksum())
	return b.md.Pristine()
}

// Clear removes all content and resets the cursor and line metadata.
// The recorded file name and checksums are kept; a cleared buffer that
// had unsaved content simply remains dirty.
func (b *Buffer) Clear() {
	b.data = b.data[:0]
	b.cur = cursor.BufferCursor{}
	b.meta = nil
	b.md.Clear()
	b.md.SetSize(0)
}

// SetOnChange installs a callback invoked once after each completed
// content mutation, with the buffer's invariants already restored.
// The callback must not re-enter the buffer. A nil callback disables
// notification.
func (b *Buffer) SetOnChange(fn func(Operation)) {
	b.onChange = fn
}

// String returns a short debug rendering of the buffer.
func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer(id=%d, len=%d, %s)", b.id, len(b.data), b.cur)
}

// CursorGoto validates the index and repositions the edit cursor
// there, deriving the (line, column) projection from metadata. The
// selection anchor, if any, is left in place.
func (b *Buffer) CursorGoto(idx cursor.Index) error {
	if idx < 0 || int(idx) > len(b.data) {
		return fmt.Errorf("goto %d in buffer with length %d: %w", idx, len(b.data), ErrOutOfBounds)
	}
	b.gotoIndex(idx)
	return nil
}

// GotoLine moves the cursor to the start of the given line. It
// reports false, moving nothing, when the line does not exist.
func (b *Buffer) GotoLine(line cursor.Line) bool {
	start, ok := b.md.LineStart(line)
	if !ok {
		return false
	}
	b.gotoIndex(start)
	return true
}

// cursorFromMetadata derives a full cursor from an absolute offset.
// This is the canonical constructor: every movement routine lands here
// or in the incremental steppers, never hand-deriving row and column a
// third way. The buffer-end offset projects onto the last line with
// the column measured from that line's begin.
func (b *Buffer) cursorFromMetadata(abs cursor.Index) (cursor.BufferCursor, bool) {
	if abs < 0 || int(abs) > len(b.data) {
		return cursor.BufferCursor{}, false
	}
	if int(abs) == len(b.data) {
		row := cursor.Line(b.md.LineCount() - 1)
		begin, ok := b.md.LineStart(row)
		if !ok {
			return cursor.BufferCursor{}, false
		}
		return cursor.NewBufferCursor(abs, row, cursor.Column(abs-begin)), true
	}
	row, ok := b.md.LineOf(abs)
	if !ok {
		return cursor.BufferCursor{}, false
	}
	begin, ok := b.md.LineStart(row)
	if !ok {
		return cursor.BufferCursor{}, false
	}
	return cursor.NewBufferCursor(abs, row, cursor.Column(abs-begin)), true
}

// gotoIndex repositions the cursor at a known-valid index. If the
// metadata cannot resolve the index the line index is rebuilt and the
// derivation retried, so a stale index never propagates.
func (b *Buffer) gotoIndex(idx cursor.Index) {
	idx = idx.Clamp(cursor.Index(len(b.data)))
	c, ok := b.cursorFromMetadata(idx)
	if !ok {
		b.md.Rebuild(b.data)
		c, ok = b.cursorFromMetadata(idx)
		if !ok {
			c = cursor.BufferCursor{}
		}
	}
	b.cur = c
}

// computeChecksum hashes the buffer content with FNV-1a.
func (b *Buffer) computeChecksum() uint64 {
	h := fnv.New64a()
	var enc [4]byte
	for _, r := range b.data {
		enc[0] = byte(r)
		enc[1] = byte(r >> 8)
		enc[2] = byte(r >> 16)
		enc[3] = byte(r >> 24)
		h.Write(enc[:])
	}
	return h.Sum64()
}

// fire invokes the change callback, when one is installed, with a
// record of a completed mutation.
func (b *Buffer) fire(op Operation) {
	if b.onChange != nil {
		b.onChange(op)
	}
}
