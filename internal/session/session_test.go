package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/textstorm/internal/engine/cursor"
	"github.com/dshills/textstorm/internal/engine/pool"
	"github.com/dshills/textstorm/internal/log"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}

func TestNewSessionHasIdentity(t *testing.T) {
	a := New()
	b := New()

	if a.ID == "" {
		t.Error("expected a non-empty session id")
	}
	if a.ID == b.ID {
		t.Errorf("expected distinct ids, both are %s", a.ID)
	}
}

func TestSnapshotCapturesParkedFileBuffers(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "a.txt", "line one\nline two\n")

	p := pool.New()
	withFile := p.RequestNew()
	if err := withFile.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if err := withFile.CursorGoto(5); err != nil {
		t.Fatalf("goto failed: %v", err)
	}
	if err := p.GiveBack(withFile); err != nil {
		t.Fatalf("give back failed: %v", err)
	}

	// A scratch buffer with no backing file must not be captured.
	scratch := p.RequestNew()
	if err := p.GiveBack(scratch); err != nil {
		t.Fatalf("give back failed: %v", err)
	}

	s := Snapshot(p)
	if len(s.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.Entries))
	}
	if s.Entries[0].File != path {
		t.Errorf("expected file %s, got %s", path, s.Entries[0].File)
	}
	if s.Entries[0].Cursor != 5 {
		t.Errorf("expected cursor 5, got %d", s.Entries[0].Cursor)
	}
}

func TestWriteReadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New()
	s.Entries = []Entry{
		{File: "/src/main.go", Cursor: 42, Line: 3, Col: 7},
		{File: "/src/util.go", Cursor: 0, Line: 0, Col: 0},
	}

	path := filepath.Join(dir, "session.json")
	if err := s.Write(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("expected id %s, got %s", s.ID, got.ID)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got.Entries))
	}
	if got.Entries[0] != s.Entries[0] {
		t.Errorf("entry mismatch: expected %+v, got %+v", s.Entries[0], got.Entries[0])
	}
}

func TestWriteEmptySession(t *testing.T) {
	dir := t.TempDir()
	s := New()

	path := filepath.Join(dir, "empty.json")
	if err := s.Write(path); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	got, err := Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(got.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(got.Entries))
	}
}

func TestReadRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "broken.json", "{not json")

	if _, err := Read(path); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestReadRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "noid.json", `{"entries": []}`)

	if _, err := Read(path); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected ErrInvalidSession, got %v", err)
	}
}

func TestReadToleratesUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "future.json",
		`{"id": "abc", "theme": "dark", "entries": [{"file": "/a", "cursor": 1, "pinned": true}]}`)

	s, err := Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(s.Entries) != 1 || s.Entries[0].File != "/a" {
		t.Errorf("unexpected entries %+v", s.Entries)
	}
}

func TestRestoreReopensFilesAndSkipsMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "keep.txt", "hello\nworld\n")

	s := New()
	s.Entries = []Entry{
		{File: path, Cursor: 8},
		{File: filepath.Join(dir, "gone.txt"), Cursor: 0},
	}

	p := pool.New()
	restored := s.Restore(p, log.Null)
	if restored != 1 {
		t.Fatalf("expected 1 restored buffer, got %d", restored)
	}

	parked := p.Parked()
	if len(parked) != 1 {
		t.Fatalf("expected 1 parked buffer, got %d", len(parked))
	}
	b := parked[0]
	if name, _ := b.FileName(); name != path {
		t.Errorf("expected file %s, got %s", path, name)
	}
	if b.Cursor().Pos() != cursor.Index(8) {
		t.Errorf("expected cursor 8, got %d", b.Cursor().Pos())
	}
	// The failed entry's id must be retired, not leaked.
	if p.Count() != 1 {
		t.Errorf("expected 1 tracked id, got %d", p.Count())
	}
}
