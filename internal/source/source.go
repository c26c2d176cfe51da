// Package source provides positioned identifiers and source locations,
// the foundation every other HIR node builds diagnostics on.
package source

import (
	"fmt"
	"strings"
)

// File is a loaded source buffer. Files outlive every HIR node that
// references them; they are scoped to the compiler session, not to any
// single module.
type File struct {
	Path string
	Text string

	lineStarts []int
}

// NewFile builds a File and precomputes line-start offsets for LineCol.
func NewFile(path, text string) *File {
	f := &File{Path: path, Text: text}
	f.lineStarts = append(f.lineStarts, 0)
	for i, r := range text {
		if r == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// LineCol converts a byte offset into a 1-based line and column.
func (f *File) LineCol(offset int) (line, col int) {
	if f == nil {
		return 0, 0
	}
	// Binary search the largest line start <= offset.
	lo, hi := 0, len(f.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1, offset - f.lineStarts[lo] + 1
}

// Location is a half-open byte range within a File.
type Location struct {
	File  *File
	Start int
	End   int
}

// Join returns the smallest location spanning both a and b. Used to derive
// a composite node's range from its first and last sub-node, per §4.1.
func Join(a, b Location) Location {
	if a.File == nil {
		return b
	}
	if b.File == nil {
		return a
	}
	start, end := a.Start, a.End
	if b.Start < start {
		start = b.Start
	}
	if b.End > end {
		end = b.End
	}
	return Location{File: a.File, Start: start, End: end}
}

// IsZero reports whether this location carries no position (e.g. a
// temporary identifier's location).
func (l Location) IsZero() bool {
	return l.File == nil
}

func (l Location) String() string {
	if l.IsZero() {
		return "<generated>"
	}
	line, col := l.File.LineCol(l.Start)
	return fmt.Sprintf("%s:%d:%d", l.File.Path, line, col)
}

// Text returns the source slice covered by this location.
func (l Location) Text() string {
	if l.IsZero() {
		return ""
	}
	return l.File.Text[l.Start:l.End]
}

// Kind distinguishes how an Identifier's text was spelled.
type Kind int

const (
	// Ordinary identifiers are bare names: x, distance, Point.
	Ordinary Kind = iota
	// Escaped identifiers are quoted to allow arbitrary text, e.g. `my name`.
	Escaped
	// Temporary identifiers are compiler-generated and never user-visible.
	// They always carry the $tmp prefix and an empty Location.
	Temporary
)

const temporaryPrefix = "$tmp"

// Identifier is a positioned string. Equality is by text only; ordering
// queries use the Location.
type Identifier struct {
	Text string
	Kind Kind
	Loc  Location
}

// New builds an ordinary identifier at the given location.
func New(text string, loc Location) Identifier {
	return Identifier{Text: text, Kind: Ordinary, Loc: loc}
}

// NewEscaped builds an escaped identifier, e.g. from `quoted text`.
func NewEscaped(text string, loc Location) Identifier {
	return Identifier{Text: text, Kind: Escaped, Loc: loc}
}

// NewTemporary allocates a fresh compiler-generated identifier. seq should
// be unique within the compiler session (see compiler.Session.NextTemp).
func NewTemporary(seq uint64) Identifier {
	return Identifier{
		Text: fmt.Sprintf("%s%d", temporaryPrefix, seq),
		Kind: Temporary,
	}
}

// Equal compares identifiers by text only, per §4.1.
func (i Identifier) Equal(o Identifier) bool {
	return i.Text == o.Text
}

// IsTemporary reports whether this identifier was compiler-generated and
// must never be surfaced to the user.
func (i Identifier) IsTemporary() bool {
	return i.Kind == Temporary || strings.HasPrefix(i.Text, temporaryPrefix)
}

func (i Identifier) String() string {
	switch i.Kind {
	case Escaped:
		return "`" + i.Text + "`"
	default:
		return i.Text
	}
}

// Start and End satisfy a Ranged-like convenience for composing locations
// from a first/last sub-node without every caller touching Loc directly.
func (i Identifier) Start() int { return i.Loc.Start }
func (i Identifier) End() int   { return i.Loc.End }
