// Package watch reports on-disk changes to the files backing loaded
// buffers. A shell registers each buffer's file and compares the disk
// content against the buffer's pristine checksum when an event
// arrives; the watcher itself never touches a buffer.
package watch

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
	ErrPathNotExist    = errors.New("path does not exist")
)

// Op is the kind of file system change.
type Op uint32

const (
	// OpCreated indicates the path appeared.
	OpCreated Op = 1 << iota
	// OpModified indicates the file content changed.
	OpModified
	// OpRemoved indicates the path was deleted.
	OpRemoved
	// OpRenamed indicates the path was moved away.
	OpRenamed
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpCreated:
		return "CREATED"
	case OpModified:
		return "MODIFIED"
	case OpRemoved:
		return "REMOVED"
	case OpRenamed:
		return "RENAMED"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event is one observed file system change.
type Event struct {
	// Path is the absolute path of the affected file.
	Path string

	// Op is the change that occurred. Coalesced events carry the
	// union of the observed operations.
	Op Op

	// Time is when the most recent underlying change was observed.
	Time time.Time
}

// Watcher monitors files for external changes.
type Watcher interface {
	// Watch starts watching a path. Returns ErrAlreadyWatching if the
	// path is already registered and ErrPathNotExist if it is absent.
	Watch(path string) error

	// Unwatch stops watching a path. Returns ErrNotWatching if the
	// path was never registered.
	Unwatch(path string) error

	// Events returns the channel of debounced change events. The
	// channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel of watcher errors. The channel is
	// closed when the watcher is closed.
	Errors() <-chan error

	// IsWatching reports whether the path is registered.
	IsWatching(path string) bool

	// WatchedPaths returns all registered paths.
	WatchedPaths() []string

	// Close stops the watcher and releases its resources. Events and
	// Errors channels are closed once the processing loop has drained.
	Close() error
}

// ignoreList drops events whose path contains any of the configured
// components, such as ".git" or "node_modules".
type ignoreList []string

func (il ignoreList) match(path string) bool {
	if len(il) == 0 {
		return false
	}
	parts := strings.Split(filepath.ToSlash(path), "/")
	for _, part := range parts {
		for _, ig := range il {
			if part == ig {
				return true
			}
		}
	}
	return false
}
