// Package parser implements a scannerless recursive-descent parser
// for bsharp source. There is no token stream: every grammar rule is
// a method on *Parser taking a source.Span and returning the
// remaining span, the parsed value, and an error. Failures are
// ordinary values of type *Fail; a recoverable failure lets an
// ordered-choice caller try its next alternative, while a fatal
// failure (raised after a keyword has committed the parse) propagates
// through every alternative so the error points at the real problem
// instead of the last branch tried.
package parser

import (
	"fmt"

	"github.com/bsharp-lang/bsharp/internal/ast"
	"github.com/bsharp-lang/bsharp/internal/source"
)

// Fail describes a parse failure at a byte offset. Fatal marks a
// committed ("cut") failure that ordered choice must not swallow.
type Fail struct {
	Expected string
	Offset   int
	Fatal    bool
}

// Error implements the error interface.
func (f *Fail) Error() string {
	return fmt.Sprintf("offset %d: expected %s", f.Offset, f.Expected)
}

// expect builds a recoverable failure at the span's position.
func expect(sp source.Span, what string) *Fail {
	return &Fail{Expected: what, Offset: sp.Offset()}
}

// cut converts err into a fatal failure. Failures already fatal pass
// through unchanged; nil stays nil.
func cut(err error) error {
	f, ok := err.(*Fail)
	if !ok || f == nil {
		return err
	}
	if f.Fatal {
		return f
	}
	return &Fail{Expected: f.Expected, Offset: f.Offset, Fatal: true}
}

// isFatal reports whether err is a committed failure.
func isFatal(err error) bool {
	f, ok := err.(*Fail)
	return ok && f.Fatal
}

// Parser carries parse-scoped state: the strict-mode flag and the
// brace-depth tracker read by block recovery. A Parser serves one
// parse at a time and must not be shared across goroutines;
// independent files parse concurrently with independent Parsers.
type Parser struct {
	strict bool

	// Open braces enclosing the current position. Brace-owning parsers
	// update it; skipToBoundary reads it to decide whether an unmatched
	// } closes an enclosing construct or is plain garbage. Token
	// recognizers never touch it.
	braceDepth int

	spans   SpanTable
	nsPath  []string // enclosing namespace segments
	ownPath []string // enclosing type names, outermost first
}

// NewParser returns a lenient parser: unparseable members and
// statements are skipped past the next safe boundary and the parse
// yields a best-effort tree.
func NewParser() *Parser {
	return &Parser{spans: make(SpanTable)}
}

// NewStrictParser returns a parser that propagates every failure and
// rejects trailing input after the compilation unit.
func NewStrictParser() *Parser {
	return &Parser{strict: true, spans: make(SpanTable)}
}

// Strict reports whether the parser is in strict mode.
func (p *Parser) Strict() bool { return p.strict }

// Spans returns the span table built during the last parse.
func (p *Parser) Spans() SpanTable { return p.spans }

// reset clears per-parse state so a Parser can be reused.
func (p *Parser) reset() {
	p.braceDepth = 0
	p.spans = make(SpanTable)
	p.nsPath = nil
	p.ownPath = nil
}

// ws skips whitespace, line and block comments, and preprocessor
// directive lines. Preprocessor directives are trivia here: they are
// legal wherever whitespace is and never reach the tree.
func (p *Parser) ws(sp source.Span) source.Span {
	for {
		switch {
		case isSpace(sp.First()):
			sp = sp.Advance(1)
		case sp.HasPrefix("//"):
			sp = skipToLineEnd(sp)
		case sp.HasPrefix("/*"):
			sp = skipBlockComment(sp)
		case sp.First() == '#':
			sp = skipToLineEnd(sp)
		default:
			return sp
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}

func skipToLineEnd(sp source.Span) source.Span {
	for !sp.EOF() && sp.First() != '\n' {
		sp = sp.Advance(1)
	}
	return sp
}

func skipBlockComment(sp source.Span) source.Span {
	sp = sp.Advance(2)
	for !sp.EOF() {
		if sp.HasPrefix("*/") {
			return sp.Advance(2)
		}
		sp = sp.Advance(1)
	}
	return sp // unclosed comment runs to end of input
}

// parseFn is the shape shared by all grammar rules.
type parseFn[T any] func(source.Span) (source.Span, T, error)

// choice tries alternatives in order and returns the first success.
// A fatal failure from any alternative stops the scan immediately;
// when every alternative fails recoverably the reported failure is
// the one that progressed furthest into the input.
func choice[T any](sp source.Span, what string, alts ...parseFn[T]) (source.Span, T, error) {
	var zero T
	best := expect(sp, what)
	for _, alt := range alts {
		rest, v, err := alt(sp)
		if err == nil {
			return rest, v, nil
		}
		if isFatal(err) {
			return sp, zero, err
		}
		if f, ok := err.(*Fail); ok && f.Offset > best.Offset {
			best = &Fail{Expected: f.Expected, Offset: f.Offset}
		}
	}
	return sp, zero, best
}

// opt tries f and reports success; on recoverable failure the input
// is untouched. Fatal failures still propagate.
func opt[T any](sp source.Span, f parseFn[T]) (source.Span, T, bool, error) {
	rest, v, err := f(sp)
	if err == nil {
		return rest, v, true, nil
	}
	var zero T
	if isFatal(err) {
		return sp, zero, false, err
	}
	return sp, zero, false, nil
}

// commaSep parses one or more f separated by commas, with surrounding
// trivia handled by the element parser. A trailing comma is not
// consumed.
func commaSep[T any](p *Parser, sp source.Span, f parseFn[T]) (source.Span, []T, error) {
	rest, first, err := f(sp)
	if err != nil {
		return sp, nil, err
	}
	out := []T{first}
	for {
		after := p.ws(rest)
		if after.First() != ',' {
			return rest, out, nil
		}
		next, v, err := f(p.ws(after.Advance(1)))
		if err != nil {
			if isFatal(err) {
				return sp, nil, err
			}
			return rest, out, nil
		}
		rest = next
		out = append(out, v)
	}
}

// Parse parses input leniently and returns the tree together with the
// span table recorded during the parse.
func Parse(input string) (*ast.CompilationUnit, SpanTable, error) {
	p := NewParser()
	unit, err := p.ParseCompilationUnit(input)
	return unit, p.spans, err
}

// ParseStrict parses input in strict mode: any failure anywhere,
// including trailing non-whitespace input, fails the whole parse.
func ParseStrict(input string) (*ast.CompilationUnit, SpanTable, error) {
	p := NewStrictParser()
	unit, err := p.ParseCompilationUnit(input)
	return unit, p.spans, err
}
