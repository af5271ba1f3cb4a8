// Package path addresses subterms of a term.
//
// A Path is an immutable sequence of segments leading from a root term to
// one of its subterms. Structural segments (fn, arg, bound, body) can reach
// any subterm. Pretty segments (left, binop, right, main) read binary
// operator calls the way they are written infix and collapse pairs of
// structural segments; Prettify and Expand convert between the dialects.
package path

import (
	"fmt"
	"strings"

	"github.com/funvibe/funterm/internal/config"
)

// Segment is one step of a path.
type Segment string

const (
	Fn    Segment = config.SegFn
	Arg   Segment = config.SegArg
	Bound Segment = config.SegBound
	Body  Segment = config.SegBody
	Left  Segment = config.SegLeft
	Binop Segment = config.SegBinop
	Right Segment = config.SegRight
	Main  Segment = config.SegMain
)

var segments = map[Segment]bool{
	Fn: true, Arg: true, Bound: true, Body: true,
	Left: true, Binop: true, Right: true, Main: true,
}

// IsPretty reports whether s belongs to the pretty dialect.
func (s Segment) IsPretty() bool {
	switch s {
	case Left, Binop, Right, Main:
		return true
	}
	return false
}

// Path is an immutable sequence of segments. The zero value is the empty
// path, which addresses the root.
type Path struct {
	segs []Segment
}

// Empty is the path to the root term.
var Empty = Path{}

// New returns a path with the given segments.
func New(segs ...Segment) Path {
	if len(segs) == 0 {
		return Empty
	}
	cp := make([]Segment, len(segs))
	copy(cp, segs)
	return Path{segs: cp}
}

// SegmentError reports an unknown segment name in path text.
type SegmentError struct {
	Text    string
	Segment string
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("path %q: unknown segment %q", e.Text, e.Segment)
}

// Parse reads a slash separated path such as "/left/arg". The empty
// string and "/" denote the empty path. One trailing slash is ignored;
// an empty segment elsewhere is an error.
func Parse(text string) (Path, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(text), "/")
	trimmed = strings.TrimSuffix(trimmed, "/")
	if trimmed == "" {
		return Empty, nil
	}
	parts := strings.Split(trimmed, "/")
	segs := make([]Segment, 0, len(parts))
	for _, part := range parts {
		seg := Segment(part)
		if !segments[seg] {
			return Empty, &SegmentError{Text: text, Segment: part}
		}
		segs = append(segs, seg)
	}
	return Path{segs: segs}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the slash form of p, "" for the empty path.
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p.segs {
		sb.WriteByte('/')
		sb.WriteString(string(seg))
	}
	return sb.String()
}

func (p Path) Len() int       { return len(p.segs) }
func (p Path) IsEmpty() bool  { return len(p.segs) == 0 }
func (p Path) First() Segment { return p.segs[0] }
func (p Path) Rest() Path     { return Path{segs: p.segs[1:]} }

// Segments returns a copy of the segments of p.
func (p Path) Segments() []Segment {
	cp := make([]Segment, len(p.segs))
	copy(cp, p.segs)
	return cp
}

// Last returns the final segment of p.
func (p Path) Last() (Segment, bool) {
	if len(p.segs) == 0 {
		return "", false
	}
	return p.segs[len(p.segs)-1], true
}

// Parent returns p without its final segment.
func (p Path) Parent() (Path, bool) {
	if len(p.segs) == 0 {
		return Empty, false
	}
	return Path{segs: p.segs[:len(p.segs)-1]}, true
}

// Append returns p extended by segs.
func (p Path) Append(segs ...Segment) Path {
	out := make([]Segment, 0, len(p.segs)+len(segs))
	out = append(out, p.segs...)
	out = append(out, segs...)
	return Path{segs: out}
}

// Concat returns p followed by q.
func (p Path) Concat(q Path) Path {
	return p.Append(q.segs...)
}

// Equal reports whether p and q have the same segments.
func (p Path) Equal(q Path) bool {
	if len(p.segs) != len(q.segs) {
		return false
	}
	for i, seg := range p.segs {
		if q.segs[i] != seg {
			return false
		}
	}
	return true
}

// HasPrefix reports whether q is an initial part of p.
func (p Path) HasPrefix(q Path) bool {
	if len(q.segs) > len(p.segs) {
		return false
	}
	return Path{segs: p.segs[:len(q.segs)]}.Equal(q)
}

// UpTo returns the initial part of p that precedes tail, when p ends with
// tail.
func (p Path) UpTo(tail Path) (Path, bool) {
	n := len(p.segs) - len(tail.segs)
	if n < 0 {
		return Empty, false
	}
	if !(Path{segs: p.segs[n:]}).Equal(tail) {
		return Empty, false
	}
	return Path{segs: p.segs[:n]}, true
}

// IsPretty reports whether p contains any pretty segment.
func (p Path) IsPretty() bool {
	for _, seg := range p.segs {
		if seg.IsPretty() {
			return true
		}
	}
	return false
}
