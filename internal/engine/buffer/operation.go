package buffer

import (
	"fmt"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// OpKind identifies the kind of a completed content mutation.
type OpKind int

const (
	// OpInsert covers single-character and bulk insertion.
	OpInsert OpKind = iota
	// OpDelete covers deletion by movement or selection.
	OpDelete
	// OpShiftLeft covers indent removal over a line range.
	OpShiftLeft
	// OpShiftRight covers indent insertion over a line range.
	OpShiftRight
	// OpLoad covers file content loaded into the buffer.
	OpLoad
)

// String returns the lowercase name of the kind.
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpShiftLeft:
		return "shift-left"
	case OpShiftRight:
		return "shift-right"
	case OpLoad:
		return "load"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Operation records a completed content mutation for layers outside
// the core: At is the offset where the mutation began, Text carries
// inserted characters, and Count carries the number of characters
// removed or, for shifts, the net number of characters the operation
// added or removed across the range.
type Operation struct {
	Kind  OpKind
	At    cursor.Index
	Text  string
	Count cursor.Length
}

// String returns a short debug rendering of the operation.
func (o Operation) String() string {
	if o.Kind == OpInsert {
		return fmt.Sprintf("%s(at=%d, %d chars)", o.Kind, o.At, len([]rune(o.Text)))
	}
	return fmt.Sprintf("%s(at=%d, count=%d)", o.Kind, o.At, o.Count)
}
