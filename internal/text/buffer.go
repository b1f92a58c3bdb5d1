package text

import (
	"errors"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// LineEnding specifies the line ending style.
type LineEnding uint8

const (
	LineEndingLF   LineEnding = iota // Unix: \n
	LineEndingCRLF                   // Windows: \r\n
)

// Sequence returns the actual line ending characters.
func (le LineEnding) Sequence() string {
	if le == LineEndingCRLF {
		return "\r\n"
	}
	return "\n"
}

// Revision identifies a buffer state. Every successful edit produces a new
// revision, so a cached revision can detect external modification.
type Revision uint64

// Buffer holds document content with revision tracking and atomic edits.
// All methods are safe for concurrent use.
type Buffer struct {
	mu         sync.RWMutex
	content    string
	revision   Revision
	lineEnding LineEnding
}

// Option configures a Buffer.
type Option func(*Buffer)

// WithLineEnding sets the buffer's line ending style.
func WithLineEnding(le LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// NewBuffer creates a new empty buffer.
func NewBuffer(opts ...Option) *Buffer {
	b := &Buffer{lineEnding: LineEndingLF}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string, opts ...Option) *Buffer {
	b := NewBuffer(opts...)
	b.content = b.normalizeLineEndings(s)
	return b
}

// normalizeLineEndings converts all line endings to the buffer's style.
func (b *Buffer) normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	if b.lineEnding == LineEndingCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.content
}

// TextRange returns text in the given byte range.
// Out-of-range offsets are clamped to the buffer bounds.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := ByteOffset(len(b.content))
	if start < 0 {
		start = 0
	}
	if end > n {
		end = n
	}
	if start >= end {
		return ""
	}
	return b.content[start:end]
}

// Len returns the total byte length of the buffer.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.content))
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.content) == 0
}

// LineCount returns the number of lines.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Count(b.content, "\n") + 1
}

// Lines returns the buffer content split into lines without line endings.
func (b *Buffer) Lines() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s := strings.ReplaceAll(b.content, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// OffsetToPoint converts a byte offset to a line/column position.
// The offset is clamped to the buffer bounds.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if offset < 0 {
		offset = 0
	}
	if offset > ByteOffset(len(b.content)) {
		offset = ByteOffset(len(b.content))
	}

	prefix := b.content[:offset]
	line := strings.Count(prefix, "\n")
	lastNL := strings.LastIndexByte(prefix, '\n')
	col := len(prefix) - lastNL - 1

	return Point{Line: uint32(line), Column: uint32(col)}
}

// PointToOffset converts a line/column position to a byte offset.
// Positions beyond the end of a line or the buffer are clamped.
func (b *Buffer) PointToOffset(p Point) ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offset := 0
	for line := uint32(0); line < p.Line; line++ {
		nl := strings.IndexByte(b.content[offset:], '\n')
		if nl < 0 {
			return ByteOffset(len(b.content))
		}
		offset += nl + 1
	}

	lineEnd := strings.IndexByte(b.content[offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(b.content) - offset
	}
	col := int(p.Column)
	if col > lineEnd {
		col = lineEnd
	}
	return ByteOffset(offset + col)
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if start < 0 || start > end || end > ByteOffset(len(b.content)) {
		return 0, ErrRangeInvalid
	}

	text = b.normalizeLineEndings(text)
	b.content = b.content[:start] + text + b.content[end:]
	b.revision++

	return start + ByteOffset(len(text)), nil
}

// Insert inserts text at the given offset.
// Returns the end position of the inserted text.
func (b *Buffer) Insert(offset ByteOffset, text string) (ByteOffset, error) {
	if offset < 0 || offset > b.Len() {
		return 0, ErrOffsetOutOfRange
	}
	return b.Replace(offset, offset, text)
}

// Delete removes text in the given range.
func (b *Buffer) Delete(start, end ByteOffset) error {
	_, err := b.Replace(start, end, "")
	return err
}

// ApplyEdit applies a single edit atomically.
func (b *Buffer) ApplyEdit(edit Edit) (EditResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if edit.Range.Start < 0 || edit.Range.Start > edit.Range.End ||
		edit.Range.End > ByteOffset(len(b.content)) {
		return EditResult{}, ErrRangeInvalid
	}

	oldText := b.content[edit.Range.Start:edit.Range.End]
	newText := b.normalizeLineEndings(edit.NewText)
	b.content = b.content[:edit.Range.Start] + newText + b.content[edit.Range.End:]
	b.revision++

	newEnd := edit.Range.Start + ByteOffset(len(newText))

	return EditResult{
		OldRange: edit.Range,
		NewRange: Range{Start: edit.Range.Start, End: newEnd},
		OldText:  oldText,
		Delta:    int64(len(newText)) - int64(edit.Range.Len()),
	}, nil
}

// Revision returns the current buffer revision.
func (b *Buffer) Revision() Revision {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// LineEnding returns the buffer's line ending style.
func (b *Buffer) LineEnding() LineEnding {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineEnding
}
