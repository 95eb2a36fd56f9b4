package chtml

import "fmt"

// RawText is an immutable run of template text together with the position
// bookkeeping needed to report precise source locations after the text has
// been transformed (escapes decoded, fragments split or merged).
//
// A RawText is never mutated: Substring and Concat return new instances.
// The single exception is the HTML context tag, which is assigned exactly
// once by the classification pass after construction.
type RawText struct {
	text    string
	offsets *Offsets // nil when the source location is unknown
	loc     Loc

	ctx    HTMLContext
	ctxSet bool
}

// NewRawText creates a span over text originating from the given contiguous
// source range. An unknown location suppresses the offsets table; position
// queries then degrade to the bounding location. Empty text is a contract
// violation.
func NewRawText(text string, loc Loc) *RawText {
	return NewRawTextWithOffsets(text, loc, OffsetsFromLoc(loc, len(text)))
}

// NewRawTextWithOffsets creates a span with an explicitly built offsets
// table, for callers that already know the exact positions (the command-text
// parser, the split and merge operations).
func NewRawTextWithOffsets(text string, loc Loc, offsets *Offsets) *RawText {
	if text == "" {
		panic("chtml: cannot create an empty RawText")
	}
	return &RawText{text: text, offsets: offsets, loc: loc}
}

// NewRawTextInContext creates a span whose HTML context is already known,
// bypassing the classification pass.
func NewRawTextInContext(text string, loc Loc, ctx HTMLContext) *RawText {
	rt := NewRawText(text, loc)
	rt.ctx = ctx
	rt.ctxSet = true
	return rt
}

// Text returns the raw text value (after escape processing).
func (rt *RawText) Text() string {
	return rt.text
}

// Loc returns the bounding source location of the whole span.
func (rt *RawText) Loc() Loc {
	return rt.loc
}

// LocationOf returns the source position of the character at index i, or the
// zero Point when the span has no offsets table.
func (rt *RawText) LocationOf(i int) Point {
	if i < 0 || i >= len(rt.text) {
		panic(fmt.Sprintf("chtml: index %d out of range for text of length %d", i, len(rt.text)))
	}
	if rt.offsets == nil {
		return Point{}
	}
	return rt.offsets.At(rt.text, i)
}

// RangeLoc returns the source location of text[start:end]. The range is
// half-open at the API but the location's end point names the last character
// of the range. Without an offsets table the span's own bounding location is
// returned.
func (rt *RawText) RangeLoc(start, end int) Loc {
	if start < 0 || start >= len(rt.text) {
		panic(fmt.Sprintf("chtml: start %d out of range for text of length %d", start, len(rt.text)))
	}
	if start >= end || end > len(rt.text) {
		panic(fmt.Sprintf("chtml: invalid range [%d:%d) for text of length %d", start, end, len(rt.text)))
	}
	if rt.offsets == nil {
		return rt.loc
	}
	return Loc{
		File:  rt.loc.File,
		Begin: rt.offsets.At(rt.text, start),
		End:   rt.offsets.At(rt.text, end-1),
	}
}

// Substring returns a span over text[start:end]. The range must be
// non-empty; a range covering the whole span returns the receiver itself.
func (rt *RawText) Substring(start, end int) *RawText {
	if start < 0 || start >= end || end > len(rt.text) {
		panic(fmt.Sprintf("chtml: invalid range [%d:%d) for text of length %d", start, end, len(rt.text)))
	}
	if start == 0 && end == len(rt.text) {
		return rt
	}
	text := rt.text[start:end]
	var offsets *Offsets
	loc := rt.loc
	if rt.offsets != nil {
		offsets = rt.offsets.Substring(start, end, rt.text)
		loc = offsets.Loc(rt.loc.File)
	}
	return NewRawTextWithOffsets(text, loc, offsets)
}

// Concat returns a span over the receiver's text followed by other's text.
// The offsets tables are merged only when both operands carry one; otherwise
// the result has none and reports only its bounding location, which always
// extends from the receiver's begin to other's end.
func (rt *RawText) Concat(other *RawText) *RawText {
	text := rt.text + other.text
	var offsets *Offsets
	if rt.offsets != nil && other.offsets != nil {
		offsets = rt.offsets.Concat(other.offsets)
	}
	return NewRawTextWithOffsets(text, rt.loc.Extend(other.loc), offsets)
}

// Context returns the HTML context this span renders in. It is a contract
// violation to read the context before the classification pass has set it.
func (rt *RawText) Context() HTMLContext {
	if !rt.ctxSet {
		panic("chtml: cannot access the HTML context before classification")
	}
	return rt.ctx
}

// SetContext assigns the HTML context. The tag transitions from unset to set
// exactly once; a second assignment is a contract violation.
func (rt *RawText) SetContext(ctx HTMLContext) {
	if rt.ctxSet {
		panic("chtml: HTML context already set")
	}
	rt.ctx = ctx
	rt.ctxSet = true
}
