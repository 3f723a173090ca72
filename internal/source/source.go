// Package source provides byte-offset source tracking for the bsharp
// front end. A Span is an immutable cursor over the full source text:
// parsers consume input by returning advanced copies, so the original
// text is shared and never copied or mutated. Line/column information
// is derived on demand rather than cached per node.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Span is a view into source text starting at a byte offset. The zero
// value is an empty span over the empty string.
type Span struct {
	text string
	off  int
}

// NewSpan creates a span covering the whole of text, positioned at
// offset zero.
func NewSpan(text string) Span {
	return Span{text: text}
}

// Offset returns the 0-based byte offset of the span within the full
// source text.
func (s Span) Offset() int { return s.off }

// Rest returns the unconsumed remainder of the source text.
func (s Span) Rest() string { return s.text[s.off:] }

// Text returns the full underlying source text.
func (s Span) Text() string { return s.text }

// Len returns the number of unconsumed bytes.
func (s Span) Len() int { return len(s.text) - s.off }

// EOF reports whether the span has no unconsumed input.
func (s Span) EOF() bool { return s.off >= len(s.text) }

// Advance returns a new span positioned n bytes further into the
// source. It panics when n exceeds the remaining length; correct
// parser composition makes that unreachable.
func (s Span) Advance(n int) Span {
	if n < 0 || n > s.Len() {
		panic(fmt.Sprintf("source: advance %d beyond remaining %d bytes", n, s.Len()))
	}
	return Span{text: s.text, off: s.off + n}
}

// HasPrefix reports whether the unconsumed input starts with p.
func (s Span) HasPrefix(p string) bool {
	return strings.HasPrefix(s.Rest(), p)
}

// Byte returns the byte at index i of the unconsumed input, or 0 when
// i is past the end.
func (s Span) Byte(i int) byte {
	if s.off+i >= len(s.text) {
		return 0
	}
	return s.text[s.off+i]
}

// First returns the first unconsumed byte, or 0 at end of input.
func (s Span) First() byte { return s.Byte(0) }

// LineColumn derives the 1-based line and column of the span's offset
// by counting newlines in the consumed prefix.
func (s Span) LineColumn() (line, column int) {
	return lineColumn(s.text, s.off)
}

func lineColumn(text string, offset int) (line, column int) {
	line, column = 1, 1
	for i := 0; i < offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// Position represents a single point in source code.
type Position struct {
	Filename string // Source file name
	Line     int    // 1-based line number
	Column   int    // 1-based column number
	Offset   int    // 0-based byte offset in source
}

// IsValid returns true if the position is valid.
func (p Position) IsValid() bool {
	return p.Line > 0 && p.Column > 0 && p.Offset >= 0
}

// String returns a string representation of the position.
func (p Position) String() string {
	if p.Filename != "" {
		return fmt.Sprintf("%s:%d:%d", filepath.Base(p.Filename), p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// ByteRange is a half-open [Start, End) range of byte offsets, used by
// the span table to record where a declaration occurred.
type ByteRange struct {
	Start int
	End   int
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int {
	if r.End < r.Start {
		return 0
	}
	return r.End - r.Start
}

// String returns a compact start..end rendering of the range.
func (r ByteRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// File represents a source file with content and position derivation.
type File struct {
	Filename string
	Content  string
}

// NewFile creates a source file from content.
func NewFile(filename, content string) *File {
	return &File{Filename: filename, Content: content}
}

// Span returns a fresh parse cursor over the file's content.
func (f *File) Span() Span { return NewSpan(f.Content) }

// PositionFromOffset converts a byte offset to a Position.
func (f *File) PositionFromOffset(offset int) Position {
	if offset < 0 {
		return Position{}
	}
	if offset > len(f.Content) {
		offset = len(f.Content)
	}
	line, column := lineColumn(f.Content, offset)
	return Position{
		Filename: f.Filename,
		Line:     line,
		Column:   column,
		Offset:   offset,
	}
}

// Line returns the text of the given 1-based line without its
// terminating newline, or an empty string when out of range.
func (f *File) Line(lineNum int) string {
	if lineNum < 1 {
		return ""
	}
	start := 0
	current := 1
	for current < lineNum {
		idx := strings.IndexByte(f.Content[start:], '\n')
		if idx < 0 {
			return ""
		}
		start += idx + 1
		current++
	}
	end := strings.IndexByte(f.Content[start:], '\n')
	if end < 0 {
		return f.Content[start:]
	}
	return f.Content[start : start+end]
}

// Slice returns the text covered by the byte range, clamped to the
// file's bounds.
func (f *File) Slice(r ByteRange) string {
	start, end := r.Start, r.End
	if start < 0 {
		start = 0
	}
	if end > len(f.Content) {
		end = len(f.Content)
	}
	if start >= end {
		return ""
	}
	return f.Content[start:end]
}
