package asts

import "fmt"

// Span locates a node in source text. Lines and columns are 1-based.
type Span struct {
	File   string
	Line   int
	Column int
	Start  int
	End    int
	Text   string
}

func (s Span) Extent() Span {
	return s
}

func (s Span) String() string {
	if s.File != "" {
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

func (s Span) IsValid() bool {
	return s.Line > 0 && s.Column > 0
}

func (Span) node() {}
