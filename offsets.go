package chtml

import (
	"fmt"
	"slices"
	"sort"
)

// Offsets maps indexes within a raw text value back to positions in the
// original source file.
//
// Raw text does not correspond byte-for-byte to the source it came from:
// escape sequences like {\n} collapse to single characters and rewrite passes
// splice text together, so a begin/end location alone cannot recover the
// position of an arbitrary character. Offsets records a checkpoint at every
// index where the source position changes discontinuously; positions between
// checkpoints are recovered by counting line terminators forward through the
// text.
//
// An Offsets is immutable once built. Substring and Concat return new
// instances and never touch the receiver, so spans may be shared freely
// across compiler passes.
type Offsets struct {
	// Parallel slices. indexes is strictly increasing, starts at 0 and ends
	// with a sentinel equal to the text length, holding the position of the
	// last character so end-of-range lookups need no special case.
	indexes []int
	lines   []int
	columns []int
}

// OffsetsFromLoc builds the trivial two-checkpoint table for a span whose
// text came from a single contiguous source range. Returns nil for an
// unknown location.
func OffsetsFromLoc(loc Loc, length int) *Offsets {
	if !loc.Known() {
		return nil
	}
	b := NewOffsetsBuilder()
	b.Add(0, loc.Begin.Line, loc.Begin.Column, loc.End.Line, loc.End.Column)
	return b.Build(length)
}

// At returns the source position of the character at index i within text.
// i must be in [0, len(text)).
func (o *Offsets) At(text string, i int) Point {
	// sort.SearchInts yields the smallest checkpoint >= i.
	cp := sort.SearchInts(o.indexes, i)
	if o.indexes[cp] == i {
		return Point{Line: o.lines[cp], Column: o.columns[cp]}
	}
	// Not a checkpoint: the previous one is guaranteed to exist (indexes
	// starts at 0) and to be < i, so scan forward from there.
	return o.scanFrom(text, cp-1, i)
}

// scanFrom walks text from checkpoint cp to target, counting line
// terminators. A \r\n pair counts as one terminator; a lone \r or \n
// terminates a line on its own.
func (o *Offsets) scanFrom(text string, cp, target int) Point {
	line := o.lines[cp]
	col := o.columns[cp]
	for i := o.indexes[cp]; i < target; i++ {
		switch text[i] {
		case '\n':
			line++
			col = 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			line++
			col = 1
		default:
			col++
		}
	}
	return Point{Line: line, Column: col}
}

// Substring returns a new table valid for text[start:end], with indexes
// re-based to 0 at start. The range must be non-empty and within text.
func (o *Offsets) Substring(start, end int, text string) *Offsets {
	if start < 0 || start >= end || end > len(text) {
		panic(fmt.Sprintf("chtml: invalid offsets range [%d:%d) for text of length %d", start, end, len(text)))
	}
	length := end - start
	// The stored end point names the last character, not one past it.
	end--

	cp := sort.SearchInts(o.indexes, start)

	b := NewOffsetsBuilder()
	var startLine, startCol int
	orphanNL := false
	if o.indexes[cp] == start {
		startLine = o.lines[cp]
		startCol = o.columns[cp]
	} else {
		cp--
		p := o.scanFrom(text, cp, start)
		startLine = p.Line
		startCol = p.Column
		// A split between the \r and \n of a pair orphans the \n: within
		// the new text it reads as a terminator of its own, which it was
		// not in the original. Pin the following character's position so
		// scans never cross it. (A checkpoint directly at start or at
		// start+1 already pins the right position.)
		orphanNL = start < end && text[start] == '\n' && text[start-1] == '\r' &&
			o.indexes[cp+1] > start+1
	}
	b.add(0, startLine, startCol)
	if orphanNL {
		b.add(1, startLine, startCol)
	}

	if start == end {
		// Single character range: the end point is the start point.
		b.SetEnd(startLine, startCol)
		return b.Build(length)
	}

	// Copy the surviving checkpoints, re-basing their indexes, until the end
	// point is found or overshot.
	for i := cp + 1; ; i++ {
		switch idx := o.indexes[i]; {
		case idx < end:
			b.add(idx-start, o.lines[i], o.columns[i])
		case idx == end:
			// The last included character carries its own discontinuity;
			// keep it as an interior checkpoint too, or lookups at the
			// final index would scan past it from the previous one.
			b.add(idx-start, o.lines[i], o.columns[i])
			b.SetEnd(o.lines[i], o.columns[i])
			return b.Build(length)
		default:
			// Overshot: locate the end point by scanning from the
			// checkpoint before it.
			p := o.scanFrom(text, i-1, end)
			b.SetEnd(p.Line, p.Column)
			return b.Build(length)
		}
	}
}

// Concat returns a table valid for the concatenation of the receiver's text
// followed by other's text.
func (o *Offsets) Concat(other *Offsets) *Offsets {
	// The receiver's sentinel describes the position at its own length,
	// which becomes an interior point once other's text follows; drop it.
	// Every checkpoint of other shifts by the receiver's length, and other's
	// sentinel becomes the sentinel of the result.
	keep := len(o.indexes) - 1
	shift := o.indexes[keep]
	n := keep + len(other.indexes)

	indexes := make([]int, keep, n)
	copy(indexes, o.indexes[:keep])
	for _, idx := range other.indexes {
		indexes = append(indexes, idx+shift)
	}

	lines := make([]int, keep, n)
	copy(lines, o.lines[:keep])
	lines = append(lines, other.lines...)

	columns := make([]int, keep, n)
	copy(columns, o.columns[:keep])
	columns = append(columns, other.columns...)

	return &Offsets{indexes: indexes, lines: lines, columns: columns}
}

// Loc returns the bounding location of the whole table.
func (o *Offsets) Loc(file string) Loc {
	last := len(o.indexes) - 1
	return Loc{
		File:  file,
		Begin: Point{Line: o.lines[0], Column: o.columns[0]},
		End:   Point{Line: o.lines[last], Column: o.columns[last]},
	}
}

func (o *Offsets) String() string {
	return fmt.Sprintf("Offsets{indexes: %v, lines: %v, columns: %v}", o.indexes, o.lines, o.columns)
}

// OffsetsBuilder accumulates checkpoints in increasing index order plus a
// pending end location, then freezes them into an Offsets. A builder is
// single-owner and must not be reused across spans.
type OffsetsBuilder struct {
	indexes []int
	lines   []int
	columns []int
	endLine int
	endCol  int
}

func NewOffsetsBuilder() *OffsetsBuilder {
	return &OffsetsBuilder{endLine: -1, endCol: -1}
}

// Add records a checkpoint at index with position (startLine, startCol) and
// updates the pending end location. Indexes must be added in strictly
// increasing order.
func (b *OffsetsBuilder) Add(index, startLine, startCol, endLine, endCol int) *OffsetsBuilder {
	if index < 0 {
		panic(fmt.Sprintf("chtml: expected index to be non-negative: %d", index))
	}
	if startLine <= 0 || startCol <= 0 {
		panic(fmt.Sprintf("chtml: expected a positive start position, got %d:%d", startLine, startCol))
	}
	if endLine <= 0 || endCol <= 0 {
		panic(fmt.Sprintf("chtml: expected a positive end position, got %d:%d", endLine, endCol))
	}
	if n := len(b.indexes); n != 0 && index <= b.indexes[n-1] {
		panic(fmt.Sprintf("chtml: expected indexes to be added in increasing order, got %d after %d", index, b.indexes[n-1]))
	}
	b.add(index, startLine, startCol)
	b.endLine = endLine
	b.endCol = endCol
	return b
}

// SetEnd updates the pending end location only.
func (b *OffsetsBuilder) SetEnd(endLine, endCol int) *OffsetsBuilder {
	if endLine <= 0 || endCol <= 0 {
		panic(fmt.Sprintf("chtml: expected a positive end position, got %d:%d", endLine, endCol))
	}
	b.endLine = endLine
	b.endCol = endCol
	return b
}

// Delete drops every checkpoint at or after the given index.
func (b *OffsetsBuilder) Delete(from int) *OffsetsBuilder {
	i := sort.SearchInts(b.indexes, from)
	b.indexes = b.indexes[:i]
	b.lines = b.lines[:i]
	b.columns = b.columns[:i]
	return b
}

func (b *OffsetsBuilder) IsEmpty() bool {
	return len(b.indexes) == 0
}

// EndLine returns the pending end line, or -1 if it has not been set.
func (b *OffsetsBuilder) EndLine() int {
	return b.endLine
}

// EndColumn returns the pending end column, or -1 if it has not been set.
func (b *OffsetsBuilder) EndColumn() int {
	return b.endCol
}

func (b *OffsetsBuilder) add(index, line, col int) {
	b.indexes = append(b.indexes, index)
	b.lines = append(b.lines, line)
	b.columns = append(b.columns, col)
}

// Build appends the sentinel checkpoint at length using the pending end
// location and freezes the table. The sentinel is then rolled back off the
// builder, so Build may be called again after adding more checkpoints.
func (b *OffsetsBuilder) Build(length int) *Offsets {
	if b.endLine <= 0 || b.endCol <= 0 {
		panic("chtml: offsets builder has no end location")
	}
	b.add(length, b.endLine, b.endCol)

	if len(b.indexes) < 2 {
		panic(fmt.Sprintf("chtml: offsets builder needs at least one checkpoint, got %d", len(b.indexes)-1))
	}
	if b.indexes[0] != 0 {
		panic(fmt.Sprintf("chtml: expected first index to be zero, got %d", b.indexes[0]))
	}

	o := &Offsets{
		indexes: slices.Clone(b.indexes),
		lines:   slices.Clone(b.lines),
		columns: slices.Clone(b.columns),
	}

	n := len(b.indexes) - 1
	b.indexes = b.indexes[:n]
	b.lines = b.lines[:n]
	b.columns = b.columns[:n]

	return o
}
