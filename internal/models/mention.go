package models

// MentionKind classifies a span of note text that refers to a tracker task.
type MentionKind int

const (
	// KindNewTask is free text followed by a queue key, not yet linked.
	KindNewTask MentionKind = iota
	// KindBareRef is a fully qualified QUEUE-123 id without link markup.
	KindBareRef
	// KindLinked is a reference already wrapped in a markdown link. Linked
	// spans are immutable and are never reclassified within a pass.
	KindLinked
)

func (k MentionKind) String() string {
	switch k {
	case KindNewTask:
		return "new-task"
	case KindBareRef:
		return "bare-ref"
	case KindLinked:
		return "linked"
	}
	return "unknown"
}

// Mention is a classified span within a single line. Offsets are byte
// positions into that line. Mentions are recomputed on every pass and never
// persisted.
type Mention struct {
	Kind  MentionKind
	Start int
	End   int

	// QueueKey and Text are set for new-task mentions: the uppercase queue
	// key and the free text preceding it.
	QueueKey string
	Text     string

	// TaskID is set for bare and linked references.
	TaskID string

	// URL is set for linked references.
	URL string
}
