package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeTemp(t, "in.txt", []byte("alpha\nbeta\n"))
	b := New(0, 1024)

	if err := b.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Text() != "alpha\nbeta\n" {
		t.Errorf("expected file content, got %q", b.Text())
	}
	if b.Cursor().Pos() != cursor.Index(b.Len()) {
		t.Errorf("expected cursor at end %d, got %d", b.Len(), b.Cursor().Pos())
	}
	if b.Metadata().LineCount() != 3 {
		t.Errorf("expected 3 lines, got %d", b.Metadata().LineCount())
	}
	name, ok := b.FileName()
	if !ok || name != path {
		t.Errorf("expected recorded path %q, got %q ok=%v", path, name, ok)
	}
	if !b.Pristine() {
		t.Error("freshly loaded buffer should be pristine")
	}
	checkInvariants(t, b)
}

func TestLoadFileKeepsExistingContentAfter(t *testing.T) {
	path := writeTemp(t, "in.txt", []byte("head "))
	b := New(0, 1024)
	insertAll(t, b, "tail")

	if err := b.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Text() != "head tail" {
		t.Errorf("expected loaded content in front, got %q", b.Text())
	}
}

func TestLoadFileMissing(t *testing.T) {
	b := New(0, 1024)
	insertAll(t, b, "keep")

	err := b.LoadFile(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if b.Text() != "keep" {
		t.Errorf("expected buffer unchanged, got %q", b.Text())
	}
}

func TestLoadFileUTF8BOM(t *testing.T) {
	path := writeTemp(t, "bom.txt", append([]byte{0xEF, 0xBB, 0xBF}, []byte("héllo")...))
	b := New(0, 1024)

	if err := b.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Text() != "héllo" {
		t.Errorf("expected BOM stripped, got %q", b.Text())
	}
}

func TestLoadFileUTF16(t *testing.T) {
	// "hi\n" encoded little-endian with BOM
	raw := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00, '\n', 0x00}
	path := writeTemp(t, "utf16.txt", raw)
	b := New(0, 1024)

	if err := b.LoadFile(path); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Text() != "hi\n" {
		t.Errorf("expected decoded UTF-16 content, got %q", b.Text())
	}
}

func TestLoadFileInvalidUTF8(t *testing.T) {
	path := writeTemp(t, "bad.txt", []byte{'a', 0xFF, 0xFE, 0xFD, 'b'})
	b := New(0, 1024)

	err := b.LoadFile(path)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
	if !b.Empty() {
		t.Errorf("expected buffer unchanged, got %q", b.Text())
	}
}

func TestLoadFileOddUTF16(t *testing.T) {
	path := writeTemp(t, "odd.txt", []byte{0xFF, 0xFE, 'h', 0x00, 'i'})
	b := New(0, 1024)

	if err := b.LoadFile(path); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestSaveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	b := New(0, 1024)
	insertAll(t, b, "saved\ncontent")

	if err := b.SaveFile(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(raw) != "saved\ncontent" {
		t.Errorf("expected %q on disk, got %q", "saved\ncontent", string(raw))
	}
	if !b.Pristine() {
		t.Error("buffer should be pristine after save")
	}
	name, ok := b.FileName()
	if !ok || name != path {
		t.Errorf("expected recorded path %q, got %q ok=%v", path, name, ok)
	}
}

func TestSaveFileAlreadyPristine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	b := New(0, 1024)
	insertAll(t, b, "once")

	if err := b.SaveFile(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	err := b.SaveFile(path)
	if !errors.Is(err, ErrAlreadyPristine) {
		t.Errorf("expected ErrAlreadyPristine, got %v", err)
	}
}

func TestSaveFileTruncatesOldContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	b := New(0, 1024)
	insertAll(t, b, "a longer first version")
	if err := b.SaveFile(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	b.Clear()
	insertAll(t, b, "short")
	if err := b.SaveFile(path); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(raw) != "short" {
		t.Errorf("expected %q on disk, got %q", "short", string(raw))
	}
}

func TestSaveThenEditThenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	b := New(0, 1024)
	insertAll(t, b, "v1")

	if err := b.SaveFile(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	insertAll(t, b, " v2")
	if b.Pristine() {
		t.Fatal("buffer should be dirty after edit")
	}
	if err := b.SaveFile(path); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(raw) != "v1 v2" {
		t.Errorf("expected %q on disk, got %q", "v1 v2", string(raw))
	}
}

func TestLoadSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	content := "line one\nline two\n\tindented\n"
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}

	b := New(0, 1024)
	if err := b.LoadFile(src); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	insertAll(t, b, "tail\n")
	if err := b.SaveFile(dst); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	raw, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(raw) != content+"tail\n" {
		t.Errorf("expected %q, got %q", content+"tail\n", string(raw))
	}
}
