// Package cursor provides the position vocabulary for the text engine.
//
// The cursor package defines:
//
//   - Typed offsets: Index, Line, Column, Length. Each is a distinct
//     integer type so an absolute offset can never be confused with a
//     line number or a column without an explicit conversion.
//   - BufferCursor: a navigable position holding an absolute offset
//     plus its cached (line, column) projection.
//   - MetaCursor: the secondary anchor that, together with the edit
//     cursor, defines an active selection.
//   - Movement: a direction + granularity + count descriptor consumed
//     by the buffer's movement and deletion algorithms.
//
// Position Model:
//
// A BufferCursor's Row and Col are projections of Pos derived from the
// buffer's line-index metadata. They are carried on the value so hot
// paths avoid re-deriving them, but Pos alone is authoritative: two
// cursors with equal Pos are equal regardless of how Row and Col were
// computed. Ordering is likewise defined by Pos alone.
//
// Selection Model:
//
// A selection is the span between the edit cursor and a MetaCursor
// anchor. Absolute is the working variant: a single offset fixed at
// the moment the selection began. LineRange is a reserved
// column-block variant; operations that receive it report an
// unsupported-operation error rather than guessing.
//
// Basic usage:
//
//	m := cursor.NewMovement(cursor.Forward, cursor.WordKind, 2)
//	c := cursor.NewBufferCursor(12, 1, 3)
//	if c.Pos() > 0 {
//	    prev := c.Pos().Back(1)
//	    _ = prev
//	}
//	_ = m
package cursor
