package buffer

import (
	"errors"
	"testing"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

func mustMove(t *testing.T, b *Buffer, dir cursor.Direction, kind cursor.TextKind, count int) {
	t.Helper()
	if err := b.MoveCursor(cursor.NewMovement(dir, kind, count)); err != nil {
		t.Fatalf("move %s failed: %v", cursor.NewMovement(dir, kind, count), err)
	}
}

func TestCursorMoveInEmpty(t *testing.T) {
	b := New(0, 1024)

	moves := []struct {
		dir  cursor.Direction
		kind cursor.TextKind
	}{
		{cursor.Forward, cursor.CharKind},
		{cursor.Backward, cursor.CharKind},
		{cursor.Forward, cursor.BlockKind},
		{cursor.Backward, cursor.BlockKind},
		{cursor.Forward, cursor.LineKind},
		{cursor.Backward, cursor.LineKind},
		{cursor.Forward, cursor.WordKind},
		{cursor.Backward, cursor.WordKind},
	}
	for _, m := range moves {
		mustMove(t, b, m.dir, m.kind, 1)
		if b.Cursor().Pos() != 0 {
			t.Errorf("%s(%s) on empty buffer moved cursor to %d", m.dir, m.kind, b.Cursor().Pos())
		}
	}
}

func TestMoveForwardCharStopsAtEnd(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "abc")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.CharKind, 2)
	if b.Cursor().Pos() != 2 {
		t.Errorf("expected pos 2, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.Forward, cursor.CharKind, 10)
	if b.Cursor().Pos() != 3 {
		t.Errorf("expected pos clamped to 3, got %d", b.Cursor().Pos())
	}
}

func TestMoveBackwardCharStopsAtZero(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "abc")

	mustMove(t, b, cursor.Backward, cursor.CharKind, 10)
	c := b.Cursor()
	if c.Pos() != 0 || c.Row() != 0 || c.Col() != 0 {
		t.Errorf("expected zero cursor, got %s", c)
	}

	mustMove(t, b, cursor.Backward, cursor.CharKind, 1)
	if b.Cursor().Pos() != 0 {
		t.Errorf("expected pos to stay 0, got %d", b.Cursor().Pos())
	}
}

func TestStepBackwardAcrossNewline(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\ncd")

	mustMove(t, b, cursor.Backward, cursor.CharKind, 3)
	c := b.Cursor()
	if c.Pos() != 2 || c.Row() != 0 || c.Col() != 2 {
		t.Errorf("expected cursor (2, 0, 2), got %s", c)
	}
}

func TestMoveForwardWord(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "Hello test world")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.WordKind, 1)
	if b.Cursor().Pos() != 5 {
		t.Errorf("expected first boundary at 5, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.Forward, cursor.WordKind, 1)
	if b.Cursor().Pos() != 6 {
		t.Errorf("expected next word at 6, got %d", b.Cursor().Pos())
	}
}

func TestMoveForwardWordCounted(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "Hello test world")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.WordKind, 2)
	if b.Cursor().Pos() != 6 {
		t.Errorf("expected pos 6 after two word steps, got %d", b.Cursor().Pos())
	}
}

func TestMoveForwardWordWithoutBoundaryLandsAtEnd(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "Hello")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.WordKind, 1)
	c := b.Cursor()
	if c.Pos() != 5 || c.Row() != 0 || c.Col() != 5 {
		t.Errorf("expected end cursor (5, 0, 5), got %s", c)
	}
}

func TestMoveBackwardWord(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "Hello test world")

	// from the end, the scan origin is past the content, so the
	// cursor first steps onto the last character
	mustMove(t, b, cursor.Backward, cursor.WordKind, 1)
	if b.Cursor().Pos() != 15 {
		t.Errorf("expected pos 15, got %d", b.Cursor().Pos())
	}

	// 'd' is a word character, so the scan lands on the whitespace
	mustMove(t, b, cursor.Backward, cursor.WordKind, 1)
	if b.Cursor().Pos() != 10 {
		t.Errorf("expected pos 10, got %d", b.Cursor().Pos())
	}
}

func TestBeginWordFindsRunStart(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "hello world")
	if err := b.CursorGoto(8); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Begin, cursor.WordKind, 1)
	if b.Cursor().Pos() != 6 {
		t.Errorf("expected start of word at 6, got %d", b.Cursor().Pos())
	}
}

func TestBeginWordAtBufferStart(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "hello")

	mustMove(t, b, cursor.Begin, cursor.WordKind, 1)
	if b.Cursor().Pos() != 0 {
		t.Errorf("expected run start at 0, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.Begin, cursor.WordKind, 1)
	if b.Cursor().Pos() != 0 {
		t.Errorf("expected cursor to stay at 0, got %d", b.Cursor().Pos())
	}
}

func TestEndWord(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "hello world")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.End, cursor.WordKind, 1)
	if b.Cursor().Pos() != 5 {
		t.Errorf("expected run end at 5, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.End, cursor.WordKind, 1)
	if b.Cursor().Pos() != 6 {
		t.Errorf("expected whitespace run end at 6, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.End, cursor.WordKind, 1)
	if b.Cursor().Pos() != 11 {
		t.Errorf("expected final run end at buffer end 11, got %d", b.Cursor().Pos())
	}
}

func TestBeginEndCharAreSingleSteps(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\ncd")
	if err := b.CursorGoto(4); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	// begin and end at character granularity are one-step moves,
	// not jumps to the line edges
	mustMove(t, b, cursor.Begin, cursor.CharKind, 1)
	if b.Cursor().Pos() != 3 {
		t.Errorf("expected pos 3, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.End, cursor.CharKind, 1)
	if b.Cursor().Pos() != 4 {
		t.Errorf("expected pos 4, got %d", b.Cursor().Pos())
	}
}

func TestMoveLineDownClampsColumn(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "long line\nab\nlonger")
	if err := b.CursorGoto(7); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.LineKind, 1)
	c := b.Cursor()
	// line "ab\n" has 3 characters, so the column clamps to 2
	if c.Row() != 1 || c.Col() != 2 || c.Pos() != 12 {
		t.Errorf("expected cursor (12, 1, 2), got %s", c)
	}

	mustMove(t, b, cursor.Forward, cursor.LineKind, 1)
	c = b.Cursor()
	if c.Row() != 2 || c.Col() != 2 || c.Pos() != 15 {
		t.Errorf("expected cursor (15, 2, 2), got %s", c)
	}
}

func TestMoveLineUpFromLineZeroGoesToStart(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\ncd")
	if err := b.CursorGoto(1); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Backward, cursor.LineKind, 1)
	if b.Cursor().Pos() != 0 {
		t.Errorf("expected pos 0, got %d", b.Cursor().Pos())
	}
}

func TestMoveLineDownOnLastLineStays(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\ncd")
	if err := b.CursorGoto(4); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.LineKind, 1)
	if b.Cursor().Pos() != 4 {
		t.Errorf("expected pos to stay 4, got %d", b.Cursor().Pos())
	}
}

func TestMoveLineDownIntoEmptyLastLine(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\n")
	if err := b.CursorGoto(1); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.LineKind, 1)
	c := b.Cursor()
	if c.Pos() != 3 || c.Row() != 1 || c.Col() != 0 {
		t.Errorf("expected cursor (3, 1, 0), got %s", c)
	}
}

func TestMoveFile(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\ncd\nef")
	if err := b.CursorGoto(4); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.FileKind, 1)
	if int(b.Cursor().Pos()) != 8 {
		t.Errorf("expected buffer end 8, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.Backward, cursor.FileKind, 1)
	if b.Cursor().Pos() != 0 {
		t.Errorf("expected buffer start, got %d", b.Cursor().Pos())
	}
}

func TestMovePage(t *testing.T) {
	b := New(0, 1024, WithPageLines(2))
	insertAll(t, b, "a\nb\nc\nd\ne")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Forward, cursor.PageKind, 1)
	if b.Cursor().Row() != 2 {
		t.Errorf("expected row 2 after one page, got %d", b.Cursor().Row())
	}

	mustMove(t, b, cursor.Backward, cursor.PageKind, 1)
	if b.Cursor().Row() != 0 {
		t.Errorf("expected row 0 after paging back, got %d", b.Cursor().Row())
	}
}

func TestBeginEndLine(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab\ncde\nfg")
	if err := b.CursorGoto(5); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Begin, cursor.LineKind, 1)
	if b.Cursor().Pos() != 3 {
		t.Errorf("expected line begin 3, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.End, cursor.LineKind, 1)
	if b.Cursor().Pos() != 6 {
		t.Errorf("expected line end 6, got %d", b.Cursor().Pos())
	}

	// on the last line the end is the buffer end
	if err := b.CursorGoto(7); err != nil {
		t.Fatalf("goto failed: %v", err)
	}
	mustMove(t, b, cursor.End, cursor.LineKind, 1)
	if int(b.Cursor().Pos()) != 9 {
		t.Errorf("expected buffer end 9, got %d", b.Cursor().Pos())
	}
}

func TestBlockMovement(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "fn main() {\n  body\n}\n")
	if err := b.CursorGoto(14); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	mustMove(t, b, cursor.Begin, cursor.BlockKind, 1)
	if b.Cursor().Pos() != 10 {
		t.Errorf("expected opening brace at 10, got %d", b.Cursor().Pos())
	}

	mustMove(t, b, cursor.End, cursor.BlockKind, 1)
	if b.Cursor().Pos() != 19 {
		t.Errorf("expected closing brace at 19, got %d", b.Cursor().Pos())
	}
}

func TestBeginPageUnsupported(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "ab")

	err := b.MoveCursor(cursor.NewMovement(cursor.Begin, cursor.PageKind, 1))
	if !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}

func TestMoveClearsSelection(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "hello")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}
	if err := b.SelectMoveCursor(cursor.NewMovement(cursor.Forward, cursor.CharKind, 3)); err != nil {
		t.Fatalf("select-move failed: %v", err)
	}
	if _, _, ok := b.Selection(); !ok {
		t.Fatal("expected an active selection")
	}

	mustMove(t, b, cursor.Forward, cursor.CharKind, 1)
	if _, _, ok := b.Selection(); ok {
		t.Error("plain movement should clear the selection")
	}
}

func TestSelectMoveKeepsAnchor(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "hello world")
	if err := b.CursorGoto(2); err != nil {
		t.Fatalf("goto failed: %v", err)
	}

	if err := b.SelectMoveCursor(cursor.NewMovement(cursor.Forward, cursor.CharKind, 3)); err != nil {
		t.Fatalf("select-move failed: %v", err)
	}
	if err := b.SelectMoveCursor(cursor.NewMovement(cursor.Forward, cursor.CharKind, 2)); err != nil {
		t.Fatalf("second select-move failed: %v", err)
	}

	from, to, ok := b.Selection()
	if !ok || from != 2 || to != 7 {
		t.Errorf("expected selection (2, 7), got (%d, %d) ok=%v", from, to, ok)
	}
}

func TestSelectMoveFailureKeepsSelectionState(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "hello")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}
	if err := b.SelectMoveCursor(cursor.NewMovement(cursor.Forward, cursor.CharKind, 2)); err != nil {
		t.Fatalf("select-move failed: %v", err)
	}

	err := b.SelectMoveCursor(cursor.NewMovement(cursor.Begin, cursor.PageKind, 1))
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}

	from, to, ok := b.Selection()
	if !ok || from != 0 || to != 2 {
		t.Errorf("expected selection (0, 2) to survive, got (%d, %d) ok=%v", from, to, ok)
	}
}

func TestSearchKeepsSelection(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "abc abc")
	if err := b.CursorGoto(0); err != nil {
		t.Fatalf("goto failed: %v", err)
	}
	if err := b.SelectMoveCursor(cursor.NewMovement(cursor.Forward, cursor.CharKind, 2)); err != nil {
		t.Fatalf("select-move failed: %v", err)
	}

	if !b.SearchNext("abc") {
		t.Fatal("expected a match")
	}
	if b.Cursor().Pos() != 4 {
		t.Errorf("expected cursor at 4, got %d", b.Cursor().Pos())
	}
	if _, _, ok := b.Selection(); !ok {
		t.Error("cursor goto should keep the selection anchor")
	}
}
