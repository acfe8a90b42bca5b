// Package host defines the text-editing surface the resolution engine runs
// against, plus the buffer implementations shipped with the CLI.
package host

// Position is a cursor location: zero-based line and character offset.
type Position struct {
	Line int
	Ch   int
}

// EditEvent is delivered by a host when an edit completes. Trigger is the
// last character the user typed; Source identifies the document for logging
// and the creation history.
type EditEvent struct {
	Trigger rune
	Source  string
}

// Editor is the surface the engine needs from a host: whole-document get/set,
// cursor get/set, and single-line reads.
type Editor interface {
	Document() (string, error)
	SetDocument(text string) error
	Cursor() (Position, error)
	SetCursor(p Position) error
	Line(n int) (string, error)
}
