package cursor

// Index is an absolute, zero-based character offset within a buffer.
type Index int

// Line is a zero-based line number.
type Line int

// Column is a zero-based column within a line, measured in characters.
type Column int

// Length is a count of characters.
type Length int

// Back returns the index moved n characters toward zero, saturating
// at zero instead of going negative.
func (i Index) Back(n int) Index {
	if n >= int(i) {
		return 0
	}
	return i - Index(n)
}

// Forward returns the index moved n characters forward.
func (i Index) Forward(n int) Index {
	if n < 0 {
		return i.Back(-n)
	}
	return i + Index(n)
}

// Clamp limits the index to the range [0, max].
func (i Index) Clamp(max Index) Index {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// Back returns the line moved n lines toward zero, saturating at zero.
func (l Line) Back(n int) Line {
	if n >= int(l) {
		return 0
	}
	return l - Line(n)
}
