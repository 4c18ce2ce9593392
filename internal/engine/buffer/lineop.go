package buffer

import (
	"fmt"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// LineOp is a bulk transform applied per line over a contiguous line
// range.
type LineOp interface {
	lineOp()
	fmt.Stringer
}

// ShiftLeft removes up to By leading indent characters from each line.
type ShiftLeft struct {
	By int
}

// ShiftRight inserts By space characters at the start of each line.
type ShiftRight struct {
	By int
}

// PasteAt is a reserved variant for pasting a block at a column. Not
// yet supported.
type PasteAt struct {
	Col  cursor.Column
	Text string
}

// InsertElement is a reserved variant for inserting one character at a
// column of each line. Not yet supported.
type InsertElement struct {
	Col cursor.Column
	Ch  rune
}

// InsertString is a reserved variant for inserting a string at a
// column of each line. Not yet supported.
type InsertString struct {
	Col  cursor.Column
	Text string
}

func (ShiftLeft) lineOp()     {}
func (ShiftRight) lineOp()    {}
func (PasteAt) lineOp()       {}
func (InsertElement) lineOp() {}
func (InsertString) lineOp()  {}

func (o ShiftLeft) String() string     { return fmt.Sprintf("shift-left(%d)", o.By) }
func (o ShiftRight) String() string    { return fmt.Sprintf("shift-right(%d)", o.By) }
func (o PasteAt) String() string       { return fmt.Sprintf("paste-at(col=%d)", o.Col) }
func (o InsertElement) String() string { return fmt.Sprintf("insert-element(col=%d)", o.Col) }
func (o InsertString) String() string  { return fmt.Sprintf("insert-string(col=%d)", o.Col) }

// LineOperation applies op to each line in the half-open line range
// [begin, end). A range reaching outside the tracked lines performs no
// mutation at all and reports no error; that is the defined behavior
// for malformed ranges, not a failure. The cursor and any selection
// anchor are relocated by the net character shift afterwards.
func (b *Buffer) LineOperation(begin, end cursor.Line, op LineOp) error {
	if _, isRange := b.meta.(cursor.LineRange); isRange {
		return fmt.Errorf("line operation with line-range selection: %w", ErrUnsupported)
	}
	lines, ok := b.md.Lines(begin, end)
	if !ok {
		return nil
	}
	shift := 0
	switch o := op.(type) {
	case ShiftLeft:
		for _, lb := range lines {
			at := int(lb) + shift
			n := b.countShiftable(at, o.By)
			if n > 0 {
				b.data = append(b.data[:at], b.data[at+n:]...)
				shift -= n
			}
		}
	case ShiftRight:
		if o.By <= 0 {
			return nil
		}
		pad := make([]rune, o.By)
		for i := range pad {
			pad[i] = ' '
		}
		for _, lb := range lines {
			at := int(lb) + shift
			b.data = append(b.data, pad...)
			copy(b.data[at+o.By:], b.data[at:len(b.data)-o.By])
			copy(b.data[at:], pad)
			shift += o.By
		}
	default:
		return fmt.Errorf("line operation %s: %w", op, ErrUnsupported)
	}
	if shift == 0 {
		return nil
	}
	b.md.Rebuild(b.data)
	b.repairAfterShift(shift)
	kind := OpShiftRight
	if shift < 0 {
		kind = OpShiftLeft
	}
	start, _ := b.md.LineStart(begin)
	b.fire(Operation{Kind: kind, At: start, Count: absLength(shift)})
	return nil
}

// countShiftable counts the leading indent characters at the given
// offset, up to limit. Indent here is any ASCII whitespace except the
// newline, matching what a left shift may consume.
func (b *Buffer) countShiftable(from, limit int) int {
	n := 0
	for i := from; i >= 0 && i < len(b.data) && n < limit; i++ {
		if !isShiftable(b.data[i]) {
			break
		}
		n++
	}
	return n
}

// isShiftable reports whether a left shift may remove the character.
func isShiftable(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\f':
		return true
	}
	return false
}

// repairAfterShift relocates the cursor and any selection anchor by
// the net character shift of a line operation. Both are clamped to the
// buffer.
func (b *Buffer) repairAfterShift(net int) {
	if mc, isAbs := b.meta.(cursor.Absolute); isAbs {
		b.meta = cursor.Absolute(mc.Index().Forward(net).Clamp(cursor.Index(len(b.data))))
	}
	b.gotoIndex(b.cur.Pos().Forward(net))
}

func absLength(n int) cursor.Length {
	if n < 0 {
		return cursor.Length(-n)
	}
	return cursor.Length(n)
}
