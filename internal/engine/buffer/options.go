package buffer

// Option configures a buffer at construction time.
type Option func(*Buffer)

// WithFileName records a backing file name without loading anything.
func WithFileName(name string) Option {
	return func(b *Buffer) {
		b.md.SetFileName(name)
	}
}

// WithPageLines sets the number of lines a page movement spans.
// Values below one are ignored.
func WithPageLines(n int) Option {
	return func(b *Buffer) {
		if n >= 1 {
			b.pageLines = n
		}
	}
}

// WithBulkThreshold sets the slice length above which InsertSlice
// switches to the one-pass copy path. Values below one are ignored.
func WithBulkThreshold(n int) Option {
	return func(b *Buffer) {
		if n >= 1 {
			b.bulkThreshold = n
		}
	}
}
