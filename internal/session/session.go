// Package session persists the set of open files and their cursor
// positions as a small JSON document, so a shell can restore its
// buffers across runs.
package session

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/textstorm/internal/engine/cursor"
	"github.com/dshills/textstorm/internal/engine/pool"
	"github.com/dshills/textstorm/internal/log"
)

// ErrInvalidSession is returned when a session file is not a valid
// session document.
var ErrInvalidSession = errors.New("invalid session document")

// Entry records one open file and where its cursor sat.
type Entry struct {
	File   string
	Cursor int
	Line   int
	Col    int
}

// Session is a snapshot of the open buffers at a point in time.
type Session struct {
	ID      string
	SavedAt time.Time
	Entries []Entry
}

// New creates an empty session with a fresh identity.
func New() *Session {
	return &Session{
		ID:      uuid.New().String(),
		SavedAt: time.Now(),
	}
}

// Snapshot captures every parked buffer that has a backing file.
// Buffers that were never loaded from or saved to a file have nothing
// to restore and are skipped.
func Snapshot(p *pool.Pool) *Session {
	s := New()
	for _, b := range p.Parked() {
		name, ok := b.FileName()
		if !ok {
			continue
		}
		cur := b.Cursor()
		s.Entries = append(s.Entries, Entry{
			File:   name,
			Cursor: int(cur.Pos()),
			Line:   int(cur.Row()),
			Col:    int(cur.Col()),
		})
	}
	return s
}

// Write renders the session as JSON at path.
func (s *Session) Write(path string) error {
	doc := []byte(`{}`)
	var err error
	if doc, err = sjson.SetBytes(doc, "id", s.ID); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if doc, err = sjson.SetBytes(doc, "saved_at", s.SavedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if doc, err = sjson.SetRawBytes(doc, "entries", []byte(`[]`)); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	for i, e := range s.Entries {
		prefix := fmt.Sprintf("entries.%d.", i)
		if doc, err = sjson.SetBytes(doc, prefix+"file", e.File); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+"cursor", e.Cursor); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+"line", e.Line); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
		if doc, err = sjson.SetBytes(doc, prefix+"col", e.Col); err != nil {
			return fmt.Errorf("write session: %w", err)
		}
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", path, err)
	}
	return nil
}

// Read parses the session file at path. Unknown fields in the document
// are ignored, so older and newer session files interoperate.
func Read(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("read session %s: %w", path, ErrInvalidSession)
	}

	id := gjson.GetBytes(data, "id")
	if !id.Exists() || id.String() == "" {
		return nil, fmt.Errorf("read session %s: missing id: %w", path, ErrInvalidSession)
	}

	s := &Session{ID: id.String()}
	if saved := gjson.GetBytes(data, "saved_at"); saved.Exists() {
		if t, terr := time.Parse(time.RFC3339, saved.String()); terr == nil {
			s.SavedAt = t
		}
	}
	for _, ent := range gjson.GetBytes(data, "entries").Array() {
		file := ent.Get("file").String()
		if file == "" {
			continue
		}
		s.Entries = append(s.Entries, Entry{
			File:   file,
			Cursor: int(ent.Get("cursor").Int()),
			Line:   int(ent.Get("line").Int()),
			Col:    int(ent.Get("col").Int()),
		})
	}
	return s, nil
}

// Restore loads every entry's file into a fresh pool buffer and moves
// the cursor back where it was. Entries whose files fail to load are
// logged and skipped; the rest still restore. Returns the number of
// buffers restored.
func (s *Session) Restore(p *pool.Pool, lg *log.Logger) int {
	if lg == nil {
		lg = log.Null
	}
	restored := 0
	for _, e := range s.Entries {
		b := p.RequestNew()
		if err := b.LoadFile(e.File); err != nil {
			lg.Warn("session restore skipped %s: %v", e.File, err)
			_ = p.Destroy(b)
			continue
		}
		target := cursor.Index(e.Cursor).Clamp(cursor.Index(b.Len()))
		if err := b.CursorGoto(target); err != nil {
			lg.Warn("session restore cursor for %s: %v", e.File, err)
		}
		if err := p.GiveBack(b); err != nil {
			lg.Error("session restore park %s: %v", e.File, err)
			continue
		}
		restored++
	}
	return restored
}
