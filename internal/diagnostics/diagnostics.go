// Package diagnostics renders parse errors as caret-style terminal
// output: a file:line:col header, the offending source line, and a
// caret run under the offending token. Color is applied with
// fatih/color and disabled when the destination is not a terminal.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/bsharp-lang/bsharp/internal/parser"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// Severity is the level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Diagnostic is one reportable finding against a source file.
type Diagnostic struct {
	Severity Severity
	Message  string
	Range    source.ByteRange
}

// New builds a diagnostic over the given byte range.
func New(sev Severity, msg string, r source.ByteRange) Diagnostic {
	return Diagnostic{Severity: sev, Message: msg, Range: r}
}

// FromParseError converts a parser failure into a diagnostic whose
// range covers the token at the failure offset. It reports false when
// err is not a parse failure.
func FromParseError(file *source.File, err error) (Diagnostic, bool) {
	var fail *parser.Fail
	if !errors.As(err, &fail) {
		return Diagnostic{}, false
	}
	return Diagnostic{
		Severity: SeverityError,
		Message:  "expected " + fail.Expected,
		Range:    source.ByteRange{Start: fail.Offset, End: tokenEnd(file.Content, fail.Offset)},
	}, true
}

// tokenEnd extends the range over the identifier-shaped token at
// offset, or one byte otherwise, so the caret run underlines the whole
// offending word.
func tokenEnd(content string, offset int) int {
	if offset >= len(content) {
		return offset + 1
	}
	end := offset
	for end < len(content) && isWordByte(content[end]) {
		end++
	}
	if end == offset {
		end = offset + 1
	}
	return end
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// Renderer writes diagnostics to a destination.
type Renderer struct {
	out      io.Writer
	colorize bool
}

// NewRenderer builds a renderer for out. Color is enabled only when
// out is a terminal and the global color override allows it.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out, colorize: isTerminal(out) && !color.NoColor}
}

// SetColor overrides terminal detection.
func (r *Renderer) SetColor(enabled bool) { r.colorize = enabled }

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var (
	headerFmt   = color.New(color.Bold).SprintFunc()
	errorFmt    = color.New(color.FgRed, color.Bold).SprintFunc()
	warningFmt  = color.New(color.FgYellow, color.Bold).SprintFunc()
	infoFmt     = color.New(color.FgCyan, color.Bold).SprintFunc()
	caretRunFmt = color.New(color.FgRed, color.Bold).SprintFunc()
)

func (r *Renderer) severityLabel(sev Severity) string {
	if !r.colorize {
		return sev.String()
	}
	switch sev {
	case SeverityError:
		return errorFmt(sev.String())
	case SeverityWarning:
		return warningFmt(sev.String())
	default:
		return infoFmt(sev.String())
	}
}

// Render writes one diagnostic: the header line, the source line it
// points into, and a caret run spanning the diagnostic's range within
// that line. The run is clamped to the line and never empty.
func (r *Renderer) Render(file *source.File, d Diagnostic) {
	pos := file.PositionFromOffset(d.Range.Start)
	header := fmt.Sprintf("%s:%d:%d", file.Filename, pos.Line, pos.Column)
	if r.colorize {
		header = headerFmt(header)
	}
	fmt.Fprintf(r.out, "%s: %s: %s\n", header, r.severityLabel(d.Severity), d.Message)

	line := file.Line(pos.Line)
	fmt.Fprintf(r.out, "%5d | %s\n", pos.Line, line)

	pad := caretPadding(line, pos.Column-1)
	width := d.Range.Length()
	if max := len(line) - (pos.Column - 1); width > max {
		width = max
	}
	if width < 1 {
		width = 1
	}
	carets := strings.Repeat("^", width)
	if r.colorize {
		carets = caretRunFmt(carets)
	}
	fmt.Fprintf(r.out, "      | %s%s\n", pad, carets)
}

// caretPadding mirrors the line's leading bytes as whitespace so the
// caret column lines up even when the line contains tabs.
func caretPadding(line string, n int) string {
	if n > len(line) {
		n = len(line)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		if line[i] == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// RenderAll renders each diagnostic in order and returns how many were
// errors.
func (r *Renderer) RenderAll(file *source.File, ds []Diagnostic) int {
	errs := 0
	for _, d := range ds {
		r.Render(file, d)
		if d.Severity == SeverityError {
			errs++
		}
	}
	return errs
}
