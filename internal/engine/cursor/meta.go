package cursor

import "fmt"

// MetaCursor is the secondary anchor that, together with the edit
// cursor, defines an active selection. A nil MetaCursor means no
// selection is active.
type MetaCursor interface {
	metaCursor()
	fmt.Stringer
}

// Absolute anchors a selection at a single buffer offset. The span
// between the anchor and the edit cursor is the selection; readers
// normalize it to (min, max).
type Absolute Index

func (Absolute) metaCursor() {}

// Index returns the anchor offset.
func (a Absolute) Index() Index {
	return Index(a)
}

// String returns a string representation of the anchor.
func (a Absolute) String() string {
	return fmt.Sprintf("Absolute(%d)", int(a))
}

// LineRange is a column-oriented anchor spanning the lines Begin
// through End at column Col. It is a reserved variant: no operation
// accepts it yet, and buffers report an unsupported-operation error
// when asked to act on one.
type LineRange struct {
	Col   Column
	Begin Line
	End   Line
}

func (LineRange) metaCursor() {}

// String returns a string representation of the range anchor.
func (lr LineRange) String() string {
	return fmt.Sprintf("LineRange(col=%d, lines=%d..%d)", lr.Col, lr.Begin, lr.End)
}
