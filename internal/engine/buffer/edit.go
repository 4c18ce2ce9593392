package buffer

import (
	"fmt"
	"unicode"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// Insert places a single character at the cursor. An active selection
// turns this into replace: the selected range is erased first and the
// character goes in at its start. Newlines patch the line index
// incrementally instead of rebuilding it.
func (b *Buffer) Insert(ch rune) error {
	if err := b.dropSelectionForEdit(); err != nil {
		return err
	}
	if int(b.cur.Pos()) > len(b.data) {
		return fmt.Errorf("insert at %d in buffer with length %d: %w", b.cur.Pos(), len(b.data), ErrOutOfBounds)
	}
	at := b.cur.Pos()
	b.insertRune(ch)
	b.fire(Operation{Kind: OpInsert, At: at, Text: string(ch), Count: 1})
	return nil
}

// InsertSlice inserts a run of characters at the cursor. Runs longer
// than the bulk threshold are spliced into a freshly built backing
// slice with one metadata rebuild; shorter runs reuse the
// single-character path. Both produce identical contents and
// metadata.
func (b *Buffer) InsertSlice(slice []rune) error {
	if err := b.dropSelectionForEdit(); err != nil {
		return err
	}
	if int(b.cur.Pos()) > len(b.data) {
		return fmt.Errorf("insert at %d in buffer with length %d: %w", b.cur.Pos(), len(b.data), ErrOutOfBounds)
	}
	at := b.cur.Pos()
	if len(slice) > b.bulkThreshold {
		abs := int(at)
		next := make([]rune, 0, len(b.data)+len(slice)*2)
		next = append(next, b.data[:abs]...)
		next = append(next, slice...)
		next = append(next, b.data[abs:]...)
		b.data = next
		b.md.Rebuild(b.data)
		b.gotoIndex(at + cursor.Index(len(slice)))
	} else {
		for _, ch := range slice {
			b.insertRune(ch)
		}
	}
	if len(slice) > 0 {
		b.fire(Operation{Kind: OpInsert, At: at, Text: string(slice), Count: cursor.Length(len(slice))})
	}
	return nil
}

// InsertString is InsertSlice over the characters of s.
func (b *Buffer) InsertString(s string) error {
	return b.InsertSlice([]rune(s))
}

// Delete removes text relative to the cursor and returns the number
// of characters removed. With an active selection the normalized
// range is erased and the movement argument is ignored. Otherwise the
// movement picks the span: forward or backward, by character or word.
// The line index is fully rebuilt after any removal.
func (b *Buffer) Delete(m cursor.Movement) (cursor.Length, error) {
	if b.Empty() {
		return 0, nil
	}
	switch mc := b.meta.(type) {
	case cursor.Absolute:
		before := len(b.data)
		b.eraseSelection(mc)
		return cursor.Length(before - len(b.data)), nil
	case cursor.LineRange:
		return 0, fmt.Errorf("delete with line-range selection: %w", ErrUnsupported)
	}

	before := len(b.data)
	var err error
	switch m.Dir {
	case cursor.Forward:
		err = b.deleteForward(m.Kind, m.Count)
	case cursor.Backward:
		err = b.deleteBackward(m.Kind, m.Count)
	default:
		err = ErrUnsupported
	}
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", m, err)
	}
	b.md.Rebuild(b.data)
	removed := cursor.Length(before - len(b.data))
	if removed > 0 {
		b.fire(Operation{Kind: OpDelete, At: b.cur.Pos(), Count: removed})
	}
	return removed, nil
}

func (b *Buffer) deleteForward(kind cursor.TextKind, count int) error {
	switch kind {
	case cursor.CharKind:
		b.removeAt(b.cur.Pos(), count)
	case cursor.WordKind:
		ch, ok := b.Get(b.cur.Pos())
		if !ok {
			return nil
		}
		switch {
		case unicode.IsSpace(ch):
			if c, found := b.findNext(func(r rune) bool { return !unicode.IsSpace(r) }); found {
				b.removeAt(b.cur.Pos(), int(c.Pos()-b.cur.Pos()))
			}
		case isAlnum(ch):
			if c, found := b.findNext(func(r rune) bool { return !isAlnum(r) }); found {
				b.removeAt(b.cur.Pos(), int(c.Pos()-b.cur.Pos()))
			}
		default:
			// punctuation is not run-compressed, delete one at a time
			b.removeAt(b.cur.Pos(), 1)
		}
	default:
		return ErrUnsupported
	}
	return nil
}

func (b *Buffer) deleteBackward(kind cursor.TextKind, count int) error {
	if b.cur.Pos() == 0 {
		return nil
	}
	switch kind {
	case cursor.CharKind:
		if c := int(b.cur.Pos()); count > c {
			count = c
		}
		b.stepBackward(count)
		b.removeAt(b.cur.Pos(), count)
	case cursor.WordKind:
		from := b.cur.Pos()
		b.wordRunBegin()
		b.removeAt(b.cur.Pos(), int(from-b.cur.Pos()))
	default:
		return ErrUnsupported
	}
	return nil
}

// dropSelectionForEdit resolves the selection state ahead of a content
// mutation: no selection passes through, an absolute selection is
// erased, and the reserved line-range variant is rejected.
func (b *Buffer) dropSelectionForEdit() error {
	switch mc := b.meta.(type) {
	case nil:
		return nil
	case cursor.Absolute:
		b.eraseSelection(mc)
		return nil
	case cursor.LineRange:
		return fmt.Errorf("edit with line-range selection: %w", ErrUnsupported)
	default:
		return fmt.Errorf("edit with selection %s: %w", mc, ErrUnsupported)
	}
}

// eraseSelection removes the active absolute selection inclusive of
// both endpoints, clamped to the buffer, clears the anchor, rebuilds
// the line index, and leaves the cursor at the range start.
func (b *Buffer) eraseSelection(anchor cursor.Absolute) {
	from := anchor.Index()
	to := b.cur.Pos()
	if to < from {
		from, to = to, from
	}
	if last := cursor.Index(len(b.data) - 1); to > last {
		to = last
	}
	removed := 0
	if from <= to {
		b.data = append(b.data[:from], b.data[to+1:]...)
		removed = int(to-from) + 1
	}
	b.meta = nil
	b.md.Rebuild(b.data)
	b.gotoIndex(from)
	if removed > 0 {
		b.fire(Operation{Kind: OpDelete, At: from, Count: cursor.Length(removed)})
	}
}

// insertRune splices one character in at the cursor and patches the
// cursor and line index in place. Selection handling and bounds
// checks belong to the callers.
func (b *Buffer) insertRune(ch rune) {
	pos := int(b.cur.Pos())
	b.data = append(b.data, 0)
	copy(b.data[pos+1:], b.data[pos:])
	b.data[pos] = ch
	if ch == '\n' {
		b.cur = cursor.NewBufferCursor(b.cur.Pos()+1, b.cur.Row()+1, 0)
		b.md.InsertLineBegin(b.cur.Pos(), b.cur.Row())
		b.md.UpdateAfterLine(b.cur.Row(), 1)
	} else {
		b.cur = cursor.NewBufferCursor(b.cur.Pos()+1, b.cur.Row(), b.cur.Col()+1)
		b.md.UpdateAfterLine(b.cur.Row(), 1)
	}
	b.md.SetSize(cursor.Length(len(b.data)))
}

// removeAt deletes up to count characters starting at the given
// offset, clamped to the buffer end.
func (b *Buffer) removeAt(at cursor.Index, count int) {
	if count <= 0 || int(at) >= len(b.data) || at < 0 {
		return
	}
	end := int(at) + count
	if end > len(b.data) {
		end = len(b.data)
	}
	b.data = append(b.data[:at], b.data[end:]...)
}
