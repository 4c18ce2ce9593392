package cursor

import "fmt"

// BufferCursor is a navigable position within a buffer: an absolute
// offset plus its cached (line, column) projection.
// BufferCursor is an immutable value type; movement produces new values.
type BufferCursor struct {
	pos Index
	row Line
	col Column
}

// NewBufferCursor creates a cursor at the given position. The row and
// column must be the projection of pos in the owning buffer's line
// metadata; the buffer's derivation routines are the only callers that
// can guarantee that.
func NewBufferCursor(pos Index, row Line, col Column) BufferCursor {
	if pos < 0 {
		pos = 0
	}
	if row < 0 {
		row = 0
	}
	if col < 0 {
		col = 0
	}
	return BufferCursor{pos: pos, row: row, col: col}
}

// Pos returns the cursor's absolute offset.
func (c BufferCursor) Pos() Index {
	return c.pos
}

// Row returns the cursor's zero-based line number.
func (c BufferCursor) Row() Line {
	return c.row
}

// Col returns the cursor's zero-based column.
func (c BufferCursor) Col() Column {
	return c.col
}

// Equals returns true if both cursors sit at the same absolute offset.
// The cached projections do not participate.
func (c BufferCursor) Equals(other BufferCursor) bool {
	return c.pos == other.pos
}

// Compare returns -1 if c is before other, 0 if equal, 1 if after.
// Ordering is by absolute offset alone.
func (c BufferCursor) Compare(other BufferCursor) int {
	if c.pos < other.pos {
		return -1
	}
	if c.pos > other.pos {
		return 1
	}
	return 0
}

// Before returns true if c is before other.
func (c BufferCursor) Before(other BufferCursor) bool {
	return c.pos < other.pos
}

// After returns true if c is after other.
func (c BufferCursor) After(other BufferCursor) bool {
	return c.pos > other.pos
}

// String returns a string representation of the cursor.
func (c BufferCursor) String() string {
	return fmt.Sprintf("Cursor(pos=%d, line=%d, col=%d)", c.pos, c.row, c.col)
}
