// Package source holds the position and span types shared by every stage of
// the pipeline (lexer, parser, unit algebra, typechecker, error reporting),
// so a single Span survives from a token through to a diagnostic.
package source

import "fmt"

// Pos is a single point in a source file.
type Pos struct {
	File   string
	Line   int
	Column int
	Offset int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// IsZero reports whether p was never set.
func (p Pos) IsZero() bool {
	return p == Pos{}
}

// Span is a half-open range [Start, End) in a source file.
type Span struct {
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%d:%d", s.Start.String(), s.End.Line, s.End.Column)
}

// IsZero reports whether s was never set.
func (s Span) IsZero() bool {
	return s.Start.IsZero() && s.End.IsZero()
}
