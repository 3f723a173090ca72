package diagnostics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/bsharp-lang/bsharp/internal/parser"
	"github.com/bsharp-lang/bsharp/internal/source"
)

func TestFromParseError(t *testing.T) {
	file := source.NewFile("main.bs", "class C {\nint x = ;\n}\n")
	fail := &parser.Fail{Expected: "expression", Offset: 18}
	d, ok := FromParseError(file, fail)
	if !ok {
		t.Fatalf("FromParseError did not recognize a parser failure")
	}
	if d.Message != "expected expression" {
		t.Errorf("message = %q", d.Message)
	}
	if d.Range.Start != 18 || d.Range.End != 19 {
		t.Errorf("range = %v, want 18..19", d.Range)
	}

	if _, ok := FromParseError(file, errors.New("io failure")); ok {
		t.Errorf("non-parse error recognized as diagnostic")
	}
}

func TestFromParseErrorExtendsOverWord(t *testing.T) {
	file := source.NewFile("main.bs", "class garbage here")
	fail := &parser.Fail{Expected: "'{'", Offset: 6}
	d, _ := FromParseError(file, fail)
	if d.Range.Start != 6 || d.Range.End != 13 {
		t.Errorf("range = %v, want 6..13 covering the word", d.Range)
	}
}

func TestRenderPlain(t *testing.T) {
	file := source.NewFile("main.bs", "class C {\nint x = ;\n}\n")
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(file, New(SeverityError, "expected expression", source.ByteRange{Start: 18, End: 19}))

	want := "main.bs:2:9: error: expected expression\n" +
		"    2 | int x = ;\n" +
		"      |         ^\n"
	if buf.String() != want {
		t.Errorf("render output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderCaretRunWidth(t *testing.T) {
	file := source.NewFile("main.bs", "var garbage = 1;\n")
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(file, New(SeverityError, "expected type", source.ByteRange{Start: 4, End: 11}))

	want := "main.bs:1:5: error: expected type\n" +
		"    1 | var garbage = 1;\n" +
		"      |     ^^^^^^^\n"
	if buf.String() != want {
		t.Errorf("render output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestRenderAtEndOfInput(t *testing.T) {
	file := source.NewFile("main.bs", "class C {")
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Render(file, New(SeverityError, "expected '}'", source.ByteRange{Start: 9, End: 10}))

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("main.bs:1:10: error: expected '}'")) {
		t.Errorf("missing header in:\n%s", out)
	}
	if !bytes.Contains([]byte(out), []byte("^")) {
		t.Errorf("missing caret in:\n%s", out)
	}
}

func TestCaretPaddingKeepsTabs(t *testing.T) {
	if got := caretPadding("\tint x;", 4); got != "\t   " {
		t.Errorf("padding = %q, want tab plus three spaces", got)
	}
}

func TestRenderAllCountsErrors(t *testing.T) {
	file := source.NewFile("main.bs", "class C { }\n")
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	n := r.RenderAll(file, []Diagnostic{
		New(SeverityError, "first", source.ByteRange{Start: 0, End: 5}),
		New(SeverityWarning, "second", source.ByteRange{Start: 6, End: 7}),
		New(SeverityError, "third", source.ByteRange{Start: 8, End: 9}),
	})
	if n != 2 {
		t.Errorf("error count = %d, want 2", n)
	}
}

func TestStrictParseFailureRoundTrip(t *testing.T) {
	file := source.NewFile("bad.bs", "if (x > 0)")
	_, _, err := parser.ParseStrict(file.Content)
	if err == nil {
		t.Fatalf("strict parse of dangling if succeeded")
	}
	d, ok := FromParseError(file, err)
	if !ok {
		t.Fatalf("strict parse error is not a parser failure: %v", err)
	}
	if d.Severity != SeverityError {
		t.Errorf("severity = %v", d.Severity)
	}
	var buf bytes.Buffer
	NewRenderer(&buf).Render(file, d)
	if buf.Len() == 0 {
		t.Errorf("nothing rendered")
	}
}
