package chtml

import "fmt"

// Point is a position in a source file: 1-based line and column.
// The zero value means the position is unknown.
type Point struct {
	Line   int
	Column int
}

// Known reports whether the point carries a real position.
func (p Point) Known() bool {
	return p.Line > 0
}

func (p Point) String() string {
	if !p.Known() {
		return "?:?"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Loc describes the extent of a construct in a source file: a file path plus
// inclusive begin and end points. The zero value means the location is
// unknown, which suppresses offsets-table construction in RawText.
type Loc struct {
	File  string
	Begin Point
	End   Point
}

// Known reports whether the location carries real positions.
func (l Loc) Known() bool {
	return l.Begin.Known()
}

// Extend returns a location covering both l and other: l's begin, other's end.
// No check is made that the two come from the same file or are ordered.
func (l Loc) Extend(other Loc) Loc {
	return Loc{File: l.File, Begin: l.Begin, End: other.End}
}

func (l Loc) String() string {
	if !l.Known() {
		if l.File != "" {
			return l.File
		}
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%s-%s", l.File, l.Begin, l.End)
}
