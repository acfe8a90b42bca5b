package host

import (
	"fmt"
	"strings"
)

// Buffer is an in-memory Editor. It backs tests and library embeddings that
// manage document text themselves.
type Buffer struct {
	text   string
	cursor Position

	// Writes counts SetDocument calls, letting tests assert the engine only
	// writes when the computed text actually changed.
	Writes int
}

func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

func (b *Buffer) Document() (string, error) { return b.text, nil }

func (b *Buffer) SetDocument(text string) error {
	b.text = text
	b.Writes++
	return nil
}

func (b *Buffer) Cursor() (Position, error) { return b.cursor, nil }

func (b *Buffer) SetCursor(p Position) error {
	b.cursor = p
	return nil
}

func (b *Buffer) Line(n int) (string, error) {
	lines := strings.Split(b.text, "\n")
	if n < 0 || n >= len(lines) {
		return "", fmt.Errorf("line %d out of range (document has %d lines)", n, len(lines))
	}
	return lines[n], nil
}
