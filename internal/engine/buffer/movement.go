package buffer

import (
	"fmt"
	"unicode"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// MoveCursor executes a plain movement. Any active selection anchor is
// cleared first; establishing or extending a selection goes through
// SelectMoveCursor instead.
func (b *Buffer) MoveCursor(m cursor.Movement) error {
	b.meta = nil
	var err error
	switch m.Dir {
	case cursor.Forward:
		err = b.moveForward(m.Kind, m.Count)
	case cursor.Backward:
		err = b.moveBackward(m.Kind, m.Count)
	case cursor.Begin:
		err = b.moveBegin(m.Kind)
	case cursor.End:
		err = b.moveEnd(m.Kind)
	default:
		err = ErrUnsupported
	}
	if err != nil {
		return fmt.Errorf("move %s: %w", m, err)
	}
	return nil
}

// SelectMoveCursor moves the edit cursor while keeping a selection
// anchor. With no active selection the anchor is set to the cursor
// position before the move; with an existing absolute anchor only the
// edit cursor moves. A failed movement leaves the selection state
// untouched.
func (b *Buffer) SelectMoveCursor(m cursor.Movement) error {
	var anchor cursor.Absolute
	switch mc := b.meta.(type) {
	case cursor.Absolute:
		anchor = mc
	case cursor.LineRange:
		return fmt.Errorf("select-move with line-range anchor: %w", ErrUnsupported)
	default:
		anchor = cursor.Absolute(b.cur.Pos())
	}
	prev := b.meta
	if err := b.MoveCursor(m); err != nil {
		b.meta = prev
		return err
	}
	b.meta = anchor
	return nil
}

func (b *Buffer) moveForward(kind cursor.TextKind, count int) error {
	switch kind {
	case cursor.CharKind:
		b.stepForward(count)
	case cursor.WordKind:
		for i := 0; i < count; i++ {
			b.wordForward()
		}
	case cursor.LineKind:
		for i := 0; i < count; i++ {
			b.moveDown()
		}
	case cursor.BlockKind:
		for i := 0; i < count; i++ {
			b.blockEnd()
		}
	case cursor.PageKind:
		for i := 0; i < count*b.pageLines; i++ {
			b.moveDown()
		}
	case cursor.FileKind:
		b.gotoIndex(cursor.Index(len(b.data)))
	default:
		return ErrUnsupported
	}
	return nil
}

func (b *Buffer) moveBackward(kind cursor.TextKind, count int) error {
	switch kind {
	case cursor.CharKind:
		b.stepBackward(count)
	case cursor.WordKind:
		for i := 0; i < count; i++ {
			b.wordBackward()
		}
	case cursor.LineKind:
		for i := 0; i < count; i++ {
			b.moveUp()
		}
	case cursor.BlockKind:
		for i := 0; i < count; i++ {
			b.blockBegin()
		}
	case cursor.PageKind:
		for i := 0; i < count*b.pageLines; i++ {
			b.moveUp()
		}
	case cursor.FileKind:
		b.gotoIndex(0)
	default:
		return ErrUnsupported
	}
	return nil
}

func (b *Buffer) moveBegin(kind cursor.TextKind) error {
	switch kind {
	case cursor.CharKind:
		b.stepBackward(1)
	case cursor.WordKind:
		b.wordRunBegin()
	case cursor.LineKind:
		if start, ok := b.md.LineStart(b.cur.Row()); ok {
			b.gotoIndex(start)
		}
	case cursor.BlockKind:
		b.blockBegin()
	case cursor.FileKind:
		b.gotoIndex(0)
	default:
		return ErrUnsupported
	}
	return nil
}

func (b *Buffer) moveEnd(kind cursor.TextKind) error {
	switch kind {
	case cursor.CharKind:
		b.stepForward(1)
	case cursor.WordKind:
		b.wordRunEnd()
	case cursor.LineKind:
		b.lineEnd()
	case cursor.BlockKind:
		b.blockEnd()
	case cursor.FileKind:
		b.gotoIndex(cursor.Index(len(b.data)))
	default:
		return ErrUnsupported
	}
	return nil
}

// stepForward advances the cursor up to count characters, maintaining
// the (line, column) projection as newlines are crossed. It stops at
// the buffer end.
func (b *Buffer) stepForward(count int) {
	pos, row, col := b.cur.Pos(), b.cur.Row(), b.cur.Col()
	for i := 0; i < count && int(pos) < len(b.data); i++ {
		if b.data[pos] == '\n' {
			row++
			col = 0
		} else {
			col++
		}
		pos++
	}
	b.cur = cursor.NewBufferCursor(pos, row, col)
}

// stepBackward retreats the cursor up to count characters. Stepping
// back to or past the start of the buffer lands on the zero cursor.
func (b *Buffer) stepBackward(count int) {
	if count >= int(b.cur.Pos()) {
		b.cur = cursor.BufferCursor{}
		return
	}
	pos, row, col := b.cur.Pos(), b.cur.Row(), b.cur.Col()
	for i := 0; i < count; i++ {
		pos--
		if b.data[pos] == '\n' {
			row--
			col = cursor.Column(pos - b.prevLineBegin(pos))
		} else {
			col--
		}
	}
	b.cur = cursor.NewBufferCursor(pos, row, col)
}

// prevLineBegin returns the begin offset of the line containing pos,
// found by scanning backward for the nearest newline. Positions at or
// past the buffer end resolve to the last line's begin.
func (b *Buffer) prevLineBegin(pos cursor.Index) cursor.Index {
	if int(pos) >= len(b.data) {
		if begin, ok := b.md.LineStart(cursor.Line(b.md.LineCount() - 1)); ok {
			return begin
		}
		return 0
	}
	for i := int(pos) - 1; i >= 0; i-- {
		if b.data[i] == '\n' {
			return cursor.Index(i + 1)
		}
	}
	return 0
}

// wordForward advances the cursor to the next character-class
// boundary: a word character seeks the following whitespace,
// whitespace seeks the next word character, and punctuation seeks the
// end of its run. With no boundary ahead the cursor lands at the
// buffer end.
func (b *Buffer) wordForward() {
	ch, ok := b.Get(b.cur.Pos())
	if !ok {
		return
	}
	if c, found := b.findNext(wordTarget(ch)); found {
		b.cur = c
		return
	}
	b.gotoIndex(cursor.Index(len(b.data)))
}

// wordBackward mirrors wordForward, scanning toward the start of the
// buffer. At the buffer end it first steps onto the last character.
func (b *Buffer) wordBackward() {
	ch, ok := b.Get(b.cur.Pos())
	if !ok {
		b.stepBackward(1)
		return
	}
	if c, found := b.findPrev(wordTarget(ch)); found {
		b.cur = c
	}
}

// wordRunBegin steps the cursor back to the start of the contiguous
// character-class run containing the character before it.
func (b *Buffer) wordRunBegin() {
	pos := b.cur.Pos()
	if pos == 0 {
		return
	}
	ch, ok := b.Get(pos - 1)
	if !ok {
		return
	}
	pred := classComplement(ch)
	runBegin := cursor.Index(0)
	if pos >= 2 {
		if i, found := b.findIndexOfPrevFrom(pos-2, pred); found {
			runBegin = i + 1
		}
	}
	b.stepBackward(int(pos - runBegin))
}

// wordRunEnd steps the cursor forward to the end of the contiguous
// character-class run containing the character under it.
func (b *Buffer) wordRunEnd() {
	ch, ok := b.Get(b.cur.Pos())
	if !ok {
		return
	}
	pred := classComplement(ch)
	target := cursor.Index(len(b.data))
	if i, found := b.findIndexOfNextFrom(b.cur.Pos()+1, pred); found {
		target = i
	}
	b.stepForward(int(target - b.cur.Pos()))
}

// lineEnd moves to the offset just before the next line's begin, which
// is the current line's newline, or to the buffer end on the last
// line.
func (b *Buffer) lineEnd() {
	end := cursor.Index(len(b.data))
	if next, ok := b.md.LineStart(b.cur.Row() + 1); ok {
		end = next - 1
	}
	b.gotoIndex(end)
}

// blockBegin moves to the nearest '{' before the cursor. A naive
// brace scan, not a matching one.
func (b *Buffer) blockBegin() {
	if b.cur.Pos() == 0 {
		return
	}
	if i, ok := b.findIndexOfPrevFrom(b.cur.Pos()-1, func(r rune) bool { return r == '{' }); ok {
		b.gotoIndex(i)
	}
}

// blockEnd moves to the nearest '}' after the cursor.
func (b *Buffer) blockEnd() {
	if i, ok := b.findIndexOfNextFrom(b.cur.Pos()+1, func(r rune) bool { return r == '}' }); ok {
		b.gotoIndex(i)
	}
}

// moveUp repositions the cursor at the same column one line up,
// clamped to the prior line's last character. From line zero it goes
// to absolute offset zero.
func (b *Buffer) moveUp() {
	if b.cur.Row() == 0 {
		b.gotoIndex(0)
		return
	}
	prior := b.cur.Row() - 1
	begin, ok := b.md.LineStart(prior)
	if !ok {
		b.cur = cursor.BufferCursor{}
		return
	}
	length, ok := b.md.LineLen(prior)
	if !ok {
		b.gotoIndex(begin)
		return
	}
	b.gotoIndex(begin + cursor.Index(clampColumn(b.cur.Col(), length)))
}

// moveDown repositions the cursor at the same column one line down,
// clamped to that line's last character. On the last line it does
// nothing.
func (b *Buffer) moveDown() {
	next := b.cur.Row() + 1
	begin, ok := b.md.LineStart(next)
	if !ok {
		return
	}
	length, ok := b.md.LineLen(next)
	if !ok {
		return
	}
	b.gotoIndex(begin + cursor.Index(clampColumn(b.cur.Col(), length)))
}

// clampColumn limits a column to the last character of a line with the
// given length, or to zero for an empty line.
func clampColumn(col cursor.Column, length cursor.Length) cursor.Column {
	last := int(length) - 1
	if last < 0 {
		last = 0
	}
	if int(col) > last {
		return cursor.Column(last)
	}
	return col
}

// findNext scans forward from the character after the cursor for the
// first one satisfying pred and derives a cursor there.
func (b *Buffer) findNext(pred func(rune) bool) (cursor.BufferCursor, bool) {
	for i := int(b.cur.Pos()) + 1; i < len(b.data); i++ {
		if pred(b.data[i]) {
			return b.cursorFromMetadata(cursor.Index(i))
		}
	}
	return cursor.BufferCursor{}, false
}

// findPrev scans backward from the character before the cursor for the
// first one satisfying pred and derives a cursor on it.
func (b *Buffer) findPrev(pred func(rune) bool) (cursor.BufferCursor, bool) {
	for i := int(b.cur.Pos()) - 1; i >= 0 && i < len(b.data); i-- {
		if pred(b.data[i]) {
			return b.cursorFromMetadata(cursor.Index(i))
		}
	}
	return cursor.BufferCursor{}, false
}

// findIndexOfNextFrom returns the first offset at or after start whose
// character satisfies pred.
func (b *Buffer) findIndexOfNextFrom(start cursor.Index, pred func(rune) bool) (cursor.Index, bool) {
	if start < 0 {
		start = 0
	}
	for i := int(start); i < len(b.data); i++ {
		if pred(b.data[i]) {
			return cursor.Index(i), true
		}
	}
	return 0, false
}

// findIndexOfPrevFrom returns the last offset at or before start whose
// character satisfies pred.
func (b *Buffer) findIndexOfPrevFrom(start cursor.Index, pred func(rune) bool) (cursor.Index, bool) {
	if int(start) >= len(b.data) {
		start = cursor.Index(len(b.data) - 1)
	}
	for i := int(start); i >= 0; i-- {
		if pred(b.data[i]) {
			return cursor.Index(i), true
		}
	}
	return 0, false
}

// isAlnum reports whether the character counts as a word character.
func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isASCIIPunct reports whether the character is ASCII punctuation.
func isASCIIPunct(r rune) bool {
	switch {
	case r >= '!' && r <= '/', r >= ':' && r <= '@', r >= '[' && r <= '`', r >= '{' && r <= '~':
		return true
	}
	return false
}

// wordTarget returns the boundary predicate for word-forward and
// word-backward movement, chosen by the character at the scan origin.
func wordTarget(ch rune) func(rune) bool {
	switch {
	case unicode.IsSpace(ch):
		return isAlnum
	case isAlnum(ch):
		return unicode.IsSpace
	default:
		return func(r rune) bool { return !isASCIIPunct(r) }
	}
}

// classComplement returns a predicate matching the complement of the
// character class ch belongs to. Word-run edges are found by scanning
// for the first character outside the run's class.
func classComplement(ch rune) func(rune) bool {
	switch {
	case unicode.IsSpace(ch):
		return func(r rune) bool { return !unicode.IsSpace(r) }
	case isAlnum(ch):
		return func(r rune) bool { return !isAlnum(r) }
	default:
		return func(r rune) bool { return !isASCIIPunct(r) }
	}
}
