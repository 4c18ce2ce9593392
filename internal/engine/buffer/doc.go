// Package buffer provides the contiguous text buffer at the heart of
// the editing engine. A buffer owns the character sequence, the single
// edit cursor, an optional meta cursor anchoring a selection, and the
// line-index metadata that maps absolute offsets to (line, column)
// coordinates.
//
// The buffer package provides:
//
//   - Insertion of single characters and bulk slices, with incremental
//     line-metadata patching for single-character edits and a full
//     rebuild for bulk edits
//   - Deletion driven by the movement vocabulary (character and word
//     granularity, forward and backward)
//   - Cursor movement over characters, words, lines, brace blocks,
//     pages, and the whole file
//   - Selection via a meta-cursor anchor, with normalized read-out
//   - Forward substring search
//   - Line shift operations (indent and unindent) over a line range
//   - File load and save with checksum-based dirty tracking
//
// Consistency Model:
//
// After every public operation returns, the buffer length equals the
// metadata's cached size, the line-begin list starts at offset zero
// and is strictly increasing, and the edit cursor's (line, column)
// projection is derivable from its absolute offset. All movement
// routes through cursorFromMetadata or the incremental step routines;
// nothing hand-derives a row or column a third way.
//
// A Buffer is not safe for concurrent use. It is owned by exactly one
// caller at a time; the pool package enforces that ownership model.
//
// Basic usage:
//
//	buf := buffer.New(0, 1024)
//	if err := buf.InsertSlice([]rune("Hello world")); err != nil {
//	    // handle
//	}
//	_ = buf.MoveCursor(cursor.NewMovement(cursor.Begin, cursor.LineKind, 1))
//	_ = buf.SelectMoveCursor(cursor.NewMovement(cursor.Forward, cursor.CharKind, 5))
//	text, _ := buf.CopyRangeOrLine() // "Hello"
//	_ = text
package buffer
