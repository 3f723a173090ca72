package source

import "testing"

func TestSpanAdvance(t *testing.T) {
	s := NewSpan("hello world")

	s2 := s.Advance(6)
	if s2.Rest() != "world" {
		t.Errorf("expected remainder %q, got %q", "world", s2.Rest())
	}
	if s2.Offset() != 6 {
		t.Errorf("expected offset 6, got %d", s2.Offset())
	}

	// The original span is unaffected.
	if s.Rest() != "hello world" {
		t.Errorf("source span mutated: %q", s.Rest())
	}
}

func TestSpanTotality(t *testing.T) {
	input := "abc def"
	s := NewSpan(input)
	consumed := 4
	rest := s.Advance(consumed)
	if len(input) != consumed+rest.Len() {
		t.Errorf("consumed %d + remainder %d != input %d", consumed, rest.Len(), len(input))
	}
}

func TestSpanAdvancePastEndPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic advancing past end")
		}
	}()
	NewSpan("ab").Advance(3)
}

func TestSpanLineColumn(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		offset   int
		line     int
		column   int
	}{
		{"start", "abc", 0, 1, 1},
		{"same line", "abc", 2, 1, 3},
		{"after newline", "a\nbc", 2, 2, 1},
		{"third line", "a\nb\nc", 4, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := NewSpan(tt.text).Advance(tt.offset).LineColumn()
			if line != tt.line || col != tt.column {
				t.Errorf("offset %d: got %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.column)
			}
		})
	}
}

func TestFileLine(t *testing.T) {
	f := NewFile("test.cs", "first\nsecond\nthird")
	if got := f.Line(2); got != "second" {
		t.Errorf("Line(2) = %q, want %q", got, "second")
	}
	if got := f.Line(3); got != "third" {
		t.Errorf("Line(3) = %q, want %q", got, "third")
	}
	if got := f.Line(4); got != "" {
		t.Errorf("Line(4) = %q, want empty", got)
	}
}

func TestFilePositionFromOffset(t *testing.T) {
	f := NewFile("test.cs", "ab\ncd")
	pos := f.PositionFromOffset(3)
	if pos.Line != 2 || pos.Column != 1 {
		t.Errorf("got %d:%d, want 2:1", pos.Line, pos.Column)
	}
	if pos.Filename != "test.cs" {
		t.Errorf("filename %q", pos.Filename)
	}
}

func TestByteRange(t *testing.T) {
	r := ByteRange{Start: 3, End: 9}
	if r.Length() != 6 {
		t.Errorf("Length = %d, want 6", r.Length())
	}
	if r.String() != "3..9" {
		t.Errorf("String = %q", r.String())
	}
}
