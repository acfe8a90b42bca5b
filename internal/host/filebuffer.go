package host

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// FileBuffer adapts a file on disk to the Editor interface for the watch
// command. It keeps a snapshot of the last content it saw so Reload can tell
// which line changed and whether a change was the engine's own write.
type FileBuffer struct {
	path      string
	text      string
	cursor    Position
	lastWrite string
}

func OpenFile(path string) (*FileBuffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open note file: %w", err)
	}
	return &FileBuffer{path: path, text: string(data)}, nil
}

func (f *FileBuffer) Path() string { return f.path }

func (f *FileBuffer) Document() (string, error) { return f.text, nil }

func (f *FileBuffer) SetDocument(text string) error {
	if err := os.WriteFile(f.path, []byte(text), 0644); err != nil {
		return fmt.Errorf("write note file: %w", err)
	}
	f.text = text
	f.lastWrite = text
	return nil
}

func (f *FileBuffer) Cursor() (Position, error) { return f.cursor, nil }

func (f *FileBuffer) SetCursor(p Position) error {
	f.cursor = p
	return nil
}

func (f *FileBuffer) Line(n int) (string, error) {
	lines := strings.Split(f.text, "\n")
	if n < 0 || n >= len(lines) {
		return "", fmt.Errorf("line %d out of range (document has %d lines)", n, len(lines))
	}
	return lines[n], nil
}

// Reload re-reads the file and synthesizes an edit event for the first line
// that differs from the previous snapshot. The cursor moves to the end of
// that line and the trigger is its last rune, which for the "word then space"
// convention is the space just typed. Events caused by the engine's own
// SetDocument are reported as no change.
func (f *FileBuffer) Reload() (EditEvent, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return EditEvent{}, false, fmt.Errorf("reload note file: %w", err)
	}
	text := string(data)
	if text == f.text || text == f.lastWrite {
		f.text = text
		return EditEvent{}, false, nil
	}

	line, changed := firstChangedLine(f.text, text)
	f.text = text
	if !changed {
		return EditEvent{}, false, nil
	}

	lines := strings.Split(text, "\n")
	edited := lines[line]
	f.cursor = Position{Line: line, Ch: utf8.RuneCountInString(edited)}

	var trigger rune
	if edited != "" {
		trigger, _ = utf8.DecodeLastRuneInString(edited)
	}
	return EditEvent{Trigger: trigger, Source: f.path}, true, nil
}

func firstChangedLine(before, after string) (int, bool) {
	oldLines := strings.Split(before, "\n")
	newLines := strings.Split(after, "\n")
	for i := range newLines {
		if i >= len(oldLines) || oldLines[i] != newLines[i] {
			return i, true
		}
	}
	// Only trailing lines were deleted; nothing to trigger on.
	return 0, false
}
