package buffer

import (
	"fmt"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// CopyRangeOrLine returns the selected text when an absolute selection
// is active, inclusive of both endpoints, or the full content of the
// cursor's line when no selection is active. A selection with either
// endpoint outside the buffer reports ErrOutOfBounds and copies
// nothing.
func (b *Buffer) CopyRangeOrLine() (string, error) {
	switch mc := b.meta.(type) {
	case cursor.Absolute:
		anchor := mc.Index()
		pos := b.cur.Pos()
		if int(anchor) >= len(b.data) || int(pos) >= len(b.data) {
			return "", fmt.Errorf("copy selection (%d, %d) in buffer with length %d: %w", anchor, pos, len(b.data), ErrOutOfBounds)
		}
		if anchor > pos {
			anchor, pos = pos, anchor
		}
		return string(b.data[anchor : pos+1]), nil
	case cursor.LineRange:
		return "", fmt.Errorf("copy line-range selection: %w", ErrUnsupported)
	}
	start, end, ok := b.md.LineSpan(b.cur.Row())
	if !ok {
		return "", fmt.Errorf("copy line %d: %w", b.cur.Row(), ErrOutOfBounds)
	}
	return string(b.data[start:end]), nil
}

// Copy returns the characters in the half-open range as a string.
func (b *Buffer) Copy(from, to cursor.Index) (string, error) {
	s, err := b.Slice(from, to)
	if err != nil {
		return "", err
	}
	return string(s), nil
}
