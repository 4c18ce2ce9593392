package buffer

import "errors"

var (
	// ErrOutOfBounds is returned when an index, line, or range lies
	// outside the buffer.
	ErrOutOfBounds = errors.New("index out of buffer bounds")

	// ErrUnsupported is returned for operations the engine recognizes
	// but does not implement, such as line-granularity deletion or the
	// reserved meta-cursor and line-operation variants.
	ErrUnsupported = errors.New("operation not supported")

	// ErrAlreadyPristine is returned by SaveFile when the content
	// checksum matches the checksum recorded at the last save, so the
	// write was skipped.
	ErrAlreadyPristine = errors.New("buffer is already pristine")

	// ErrInvalidEncoding is returned by LoadFile when the file content
	// cannot be decoded as text.
	ErrInvalidEncoding = errors.New("file encoding is not valid text")
)
