package typewriter

import "sync"

// Sink receives what an engine renders. The cursor is a fixture kept
// separate from the text: it is attached once, stays after every SetText and
// is only removed by DetachCursor.
type Sink interface {
	SetText(text string)
	AttachCursor(glyph string)
	DetachCursor()
}

// Buffer is an in-memory Sink that keeps every text it was given.
type Buffer struct {
	mu      sync.Mutex
	text    string
	cursor  string
	history []string
}

func (b *Buffer) SetText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.text = text
	b.history = append(b.history, text)
}

func (b *Buffer) AttachCursor(glyph string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = glyph
}

func (b *Buffer) DetachCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = ""
}

// Text returns the current text without the cursor.
func (b *Buffer) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Cursor returns the attached cursor glyph, or "" when detached.
func (b *Buffer) Cursor() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cursor
}

// String renders the text followed by the cursor.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text + b.cursor
}

// History returns a copy of every text set so far, in order.
func (b *Buffer) History() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.history))
	copy(out, b.history)
	return out
}
