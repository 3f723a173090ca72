package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bsharp-lang/bsharp/internal/source"
)

// SpanTable maps stable declaration keys to the byte range of the
// declaration in the source. Keys are path strings, never node
// addresses, so they survive any later tree transformation:
//
//	namespace::A.B
//	class::A.B::C
//	method::A.B::C.Inner::Run
//	ctor::A.B::C
//	property::A.B::C::Name
//
// The kind prefix is the declaration keyword; the segments that
// follow are the namespace (dotted, omitted when empty), the
// enclosing type path (dotted, omitted at top level), and the member
// name. Identity is insertion order, not structure: a second
// declaration producing the same key gets a #2 suffix, a third #3,
// and so on.
type SpanTable map[string]source.ByteRange

// add records r under the key assembled from kind and segments,
// disambiguating collisions with a #n suffix. The final key is
// returned.
func (t SpanTable) add(kind string, r source.ByteRange, segments ...string) string {
	parts := []string{kind}
	for _, s := range segments {
		if s != "" {
			parts = append(parts, s)
		}
	}
	key := strings.Join(parts, "::")
	if _, taken := t[key]; !taken {
		t[key] = r
		return key
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s#%d", key, n)
		if _, taken := t[candidate]; !taken {
			t[candidate] = r
			return candidate
		}
	}
}

// Lookup returns the recorded range for key.
func (t SpanTable) Lookup(key string) (source.ByteRange, bool) {
	r, ok := t[key]
	return r, ok
}

// Keys returns all keys in sorted order, for deterministic dumps.
func (t SpanTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// nsKey returns the parser's current namespace path as a dotted
// string, empty at the top level.
func (p *Parser) nsKey() string { return strings.Join(p.nsPath, ".") }

// ownerKey returns the enclosing type path as a dotted string, empty
// outside any type.
func (p *Parser) ownerKey() string { return strings.Join(p.ownPath, ".") }

// recordSpan stores the byte range from the start offset to the end
// offset under the assembled key.
func (p *Parser) recordSpan(kind string, start, end int, name string) {
	p.spans.add(kind, source.ByteRange{Start: start, End: end}, p.nsKey(), p.ownerKey(), name)
}
