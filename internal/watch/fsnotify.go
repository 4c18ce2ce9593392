package watch

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/textstorm/internal/config"
)

// FSWatcher implements Watcher over fsnotify, coalescing rapid events
// on the same path into one within the configured debounce window.
type FSWatcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher

	paths  map[string]bool
	ignore ignoreList

	delay   time.Duration
	pending map[string]*pendingEvent

	events chan Event
	errors chan error

	closed  bool
	closeCh chan struct{}
	loopWg  sync.WaitGroup
}

// pendingEvent is a change waiting out its debounce window.
type pendingEvent struct {
	event Event
	timer *time.Timer
}

// channelBuffer is the capacity of the event and error channels. A
// full channel drops rather than blocks, so a stalled consumer cannot
// wedge the processing loop.
const channelBuffer = 100

// New creates a watcher with the given configuration.
func New(cfg config.WatchConfig) (*FSWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	delay := time.Duration(cfg.DebounceMS) * time.Millisecond
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	w := &FSWatcher{
		watcher: fsw,
		paths:   make(map[string]bool),
		ignore:  ignoreList(cfg.Ignore),
		delay:   delay,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, channelBuffer),
		errors:  make(chan error, channelBuffer),
		closeCh: make(chan struct{}),
	}

	w.loopWg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch starts watching a path.
func (w *FSWatcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(absPath); err != nil {
		if os.IsNotExist(err) {
			return ErrPathNotExist
		}
		return err
	}
	if w.paths[absPath] {
		return ErrAlreadyWatching
	}

	if err := w.watcher.Add(absPath); err != nil {
		return err
	}
	w.paths[absPath] = true
	return nil
}

// Unwatch stops watching a path.
func (w *FSWatcher) Unwatch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if !w.paths[absPath] {
		return ErrNotWatching
	}

	if err := w.watcher.Remove(absPath); err != nil {
		return err
	}
	delete(w.paths, absPath)
	return nil
}

// Events returns the debounced event channel.
func (w *FSWatcher) Events() <-chan Event {
	return w.events
}

// Errors returns the error channel.
func (w *FSWatcher) Errors() <-chan error {
	return w.errors
}

// IsWatching reports whether the path is registered.
func (w *FSWatcher) IsWatching(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return w.paths[absPath]
}

// WatchedPaths returns all registered paths.
func (w *FSWatcher) WatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.paths))
	for p := range w.paths {
		paths = append(paths, p)
	}
	return paths
}

// Close stops the watcher. Pending debounced events are discarded.
func (w *FSWatcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	for path, p := range w.pending {
		p.timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.loopWg.Wait()

	close(w.events)
	close(w.errors)

	return w.watcher.Close()
}

// processLoop translates raw fsnotify traffic into debounced events.
func (w *FSWatcher) processLoop() {
	defer w.loopWg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(err)
		}
	}
}

// handleFSEvent filters and debounces one raw event.
func (w *FSWatcher) handleFSEvent(fsEvent fsnotify.Event) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return
	}
	if w.ignore.match(fsEvent.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if p, ok := w.pending[fsEvent.Name]; ok {
		p.event.Op |= op
		p.event.Time = time.Now()
		p.timer.Reset(w.delay)
		return
	}

	p := &pendingEvent{
		event: Event{Path: fsEvent.Name, Op: op, Time: time.Now()},
	}
	p.timer = time.AfterFunc(w.delay, func() {
		w.flush(fsEvent.Name)
	})
	w.pending[fsEvent.Name] = p
}

// flush delivers a debounced event once its window has elapsed.
func (w *FSWatcher) flush(path string) {
	w.mu.Lock()
	p, ok := w.pending[path]
	if ok {
		delete(w.pending, path)
	}
	closed := w.closed
	w.mu.Unlock()

	if !ok || closed {
		return
	}

	select {
	case w.events <- p.event:
	default:
		// Channel full, drop the event rather than block.
	}
}

// sendError delivers an error without blocking the loop.
func (w *FSWatcher) sendError(err error) {
	select {
	case w.errors <- err:
	default:
	}
}

// convertOp maps fsnotify operations onto the watch vocabulary. Chmod
// is deliberately dropped: permission flips do not change content.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreated
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpModified
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemoved
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRenamed
	}
	return op
}

// Ensure FSWatcher implements Watcher.
var _ Watcher = (*FSWatcher)(nil)
