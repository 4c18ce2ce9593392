package cursor

import "fmt"

// Direction selects which way a movement travels.
type Direction int

const (
	// Forward moves toward the end of the buffer.
	Forward Direction = iota
	// Backward moves toward the start of the buffer.
	Backward
	// Begin jumps to the start of the enclosing unit.
	Begin
	// End jumps to the end of the enclosing unit.
	End
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Begin:
		return "begin"
	case End:
		return "end"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// ParseDirection converts a lowercase direction name into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	case "begin":
		return Begin, nil
	case "end":
		return End, nil
	default:
		return Forward, fmt.Errorf("unknown direction %q", s)
	}
}

// TextKind is the granularity a movement or deletion operates on.
type TextKind int

const (
	// CharKind operates on single characters.
	CharKind TextKind = iota
	// WordKind operates on runs of a character class.
	WordKind
	// LineKind operates on whole lines.
	LineKind
	// BlockKind operates on brace-delimited blocks.
	BlockKind
	// PageKind operates on a configured number of lines.
	PageKind
	// FileKind operates on the entire buffer.
	FileKind
)

// String returns the lowercase name of the kind.
func (k TextKind) String() string {
	switch k {
	case CharKind:
		return "char"
	case WordKind:
		return "word"
	case LineKind:
		return "line"
	case BlockKind:
		return "block"
	case PageKind:
		return "page"
	case FileKind:
		return "file"
	default:
		return fmt.Sprintf("TextKind(%d)", int(k))
	}
}

// ParseTextKind converts a lowercase kind name into a TextKind.
func ParseTextKind(s string) (TextKind, error) {
	switch s {
	case "char":
		return CharKind, nil
	case "word":
		return WordKind, nil
	case "line":
		return LineKind, nil
	case "block":
		return BlockKind, nil
	case "page":
		return PageKind, nil
	case "file":
		return FileKind, nil
	default:
		return CharKind, fmt.Errorf("unknown text kind %q", s)
	}
}

// Movement describes a single cursor repositioning or deletion span:
// a direction, a granularity, and a repeat count. Begin and End
// directions ignore the count.
type Movement struct {
	Dir   Direction
	Kind  TextKind
	Count int
}

// NewMovement creates a movement. Negative counts clamp to zero; a
// zero-count Forward or Backward movement is a no-op when executed.
func NewMovement(dir Direction, kind TextKind, count int) Movement {
	if count < 0 {
		count = 0
	}
	return Movement{Dir: dir, Kind: kind, Count: count}
}

// String returns a string representation of the movement.
func (m Movement) String() string {
	switch m.Dir {
	case Begin, End:
		return fmt.Sprintf("%s(%s)", m.Dir, m.Kind)
	default:
		return fmt.Sprintf("%s(%s, %d)", m.Dir, m.Kind, m.Count)
	}
}
