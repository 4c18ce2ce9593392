// Package pool manages buffer lifecycles: it creates buffers with
// unique ids, holds them between owners, and retires them. A buffer is
// either checked out to exactly one caller or parked in the pool;
// nothing hands the same buffer to two owners.
package pool

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/textstorm/internal/engine/buffer"
)

// ErrUnknownBuffer is returned when a take, give-back, or destroy names
// an id the pool does not track.
var ErrUnknownBuffer = errors.New("buffer id is not tracked by the pool")

// DefaultCapacity is the initial character capacity for buffers the
// pool creates when no other value is configured.
const DefaultCapacity = 1024

// Pool tracks live buffer identities and parks checked-in buffers.
// Like the buffers it manages, a Pool is owned by a single caller and
// is not safe for concurrent use.
type Pool struct {
	next     int
	parked   map[int]*buffer.Buffer
	live     map[int]bool
	capacity int
	bufOpts  []buffer.Option
}

// Option configures a pool at construction time.
type Option func(*Pool)

// WithCapacity sets the initial character capacity of created buffers.
func WithCapacity(n int) Option {
	return func(p *Pool) {
		if n >= 0 {
			p.capacity = n
		}
	}
}

// WithBufferOptions sets options applied to every created buffer.
func WithBufferOptions(opts ...buffer.Option) Option {
	return func(p *Pool) {
		p.bufOpts = opts
	}
}

// New creates an empty pool.
func New(opts ...Option) *Pool {
	p := &Pool{
		parked:   make(map[int]*buffer.Buffer),
		live:     make(map[int]bool),
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RequestNew creates a fresh buffer with the next id, records the id
// as live, and hands the buffer to the caller checked out. Ids are
// never reused, so a destroyed id can never alias a later buffer.
func (p *Pool) RequestNew() *buffer.Buffer {
	id := p.next
	p.next++
	p.live[id] = true
	return buffer.New(id, p.capacity, p.bufOpts...)
}

// Take checks the parked buffer with the given id out of the pool.
func (p *Pool) Take(id int) (*buffer.Buffer, error) {
	b, ok := p.parked[id]
	if !ok {
		return nil, fmt.Errorf("take buffer %d: %w", id, ErrUnknownBuffer)
	}
	delete(p.parked, id)
	return b, nil
}

// GiveBack parks a checked-out buffer in the pool.
func (p *Pool) GiveBack(b *buffer.Buffer) error {
	if b == nil || !p.live[b.ID()] {
		return fmt.Errorf("give back buffer: %w", ErrUnknownBuffer)
	}
	p.parked[b.ID()] = b
	return nil
}

// Destroy retires a buffer's id and drops the buffer, whether it was
// checked out or parked. Destroying a buffer the pool does not track,
// including one already destroyed, is an error.
func (p *Pool) Destroy(b *buffer.Buffer) error {
	if b == nil || !p.live[b.ID()] {
		return fmt.Errorf("destroy buffer: %w", ErrUnknownBuffer)
	}
	delete(p.live, b.ID())
	delete(p.parked, b.ID())
	return nil
}

// Free is give-back followed by destroy: the owner is done with the
// buffer and its id.
func (p *Pool) Free(b *buffer.Buffer) error {
	if err := p.GiveBack(b); err != nil {
		return err
	}
	return p.Destroy(b)
}

// Live returns all tracked ids, checked out or parked, in ascending
// order.
func (p *Pool) Live() []int {
	ids := make([]int, 0, len(p.live))
	for id := range p.live {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Parked returns the checked-in buffers in ascending id order.
func (p *Pool) Parked() []*buffer.Buffer {
	ids := make([]int, 0, len(p.parked))
	for id := range p.parked {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	bufs := make([]*buffer.Buffer, 0, len(ids))
	for _, id := range ids {
		bufs = append(bufs, p.parked[id])
	}
	return bufs
}

// Count returns the number of tracked ids.
func (p *Pool) Count() int {
	return len(p.live)
}

// String returns a short debug rendering of the pool.
func (p *Pool) String() string {
	return fmt.Sprintf("Pool(live=%d, parked=%d)", len(p.live), len(p.parked))
}
