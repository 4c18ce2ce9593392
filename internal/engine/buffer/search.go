package buffer

import (
	"slices"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// SearchNext scans forward from the character after the cursor for the
// first occurrence of pattern and moves the cursor to its start,
// keeping any selection anchor. It reports false, moving nothing, when
// the pattern does not occur before the buffer end. There is no
// wraparound.
func (b *Buffer) SearchNext(pattern string) bool {
	want := []rune(pattern)
	if len(want) == 0 {
		return false
	}
	last := len(b.data) - len(want)
	for idx := int(b.cur.Pos()) + 1; idx <= last; idx++ {
		if b.data[idx] != want[0] {
			continue
		}
		window := b.data[idx : idx+len(want)]
		if window[len(want)-1] != want[len(want)-1] {
			continue
		}
		if slices.Equal(window, want) {
			b.gotoIndex(cursor.Index(idx))
			return true
		}
	}
	return false
}
