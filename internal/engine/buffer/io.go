package buffer

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/dshills/textstorm/internal/engine/cursor"
)

// LoadFile reads the file at path into the buffer, in front of any
// existing content, then rebuilds the line index, moves the cursor to
// the buffer end, records the path, and marks the content pristine.
// UTF-8 is assumed; a UTF-16 byte-order mark switches the decoder. On
// any error the buffer is left exactly as it was.
func (b *Buffer) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	content, err := decodeText(raw)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	b.data = append(content, b.data...)
	b.md.Rebuild(b.data)
	b.gotoIndex(cursor.Index(len(b.data)))
	b.md.SetFileName(path)
	cs := b.computeChecksum()
	b.md.SetChecksum(cs)
	b.md.MarkPristine()
	b.fire(Operation{Kind: OpLoad, At: 0, Count: cursor.Length(len(content))})
	return nil
}

// SaveFile writes the buffer to path as UTF-8 when the content has
// changed since the last save or load, then records the path and marks
// the content pristine. An unchanged buffer returns ErrAlreadyPristine
// and performs no write. On a write error the checksums are left
// untouched, so the buffer stays dirty.
func (b *Buffer) SaveFile(path string) error {
	cs := b.computeChecksum()
	if cs == b.md.PristineChecksum() {
		return fmt.Errorf("save %s: %w", path, ErrAlreadyPristine)
	}
	if err := os.WriteFile(path, []byte(string(b.data)), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	b.md.SetChecksum(cs)
	b.md.MarkPristine()
	b.md.SetFileName(path)
	return nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText converts raw file bytes to characters. A leading
// byte-order mark selects UTF-16 decoding; otherwise the bytes must be
// valid UTF-8. Malformed input is rejected rather than patched with
// replacement characters.
func decodeText(raw []byte) ([]rune, error) {
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		raw = raw[len(bomUTF8):]
		if !utf8.Valid(raw) {
			return nil, ErrInvalidEncoding
		}
		return []rune(string(raw)), nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		if (len(raw)-2)%2 != 0 {
			return nil, ErrInvalidEncoding
		}
		dec := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, raw)
		if err != nil {
			return nil, ErrInvalidEncoding
		}
		return []rune(string(out)), nil
	default:
		if !utf8.Valid(raw) {
			return nil, ErrInvalidEncoding
		}
		return []rune(string(raw)), nil
	}
}
