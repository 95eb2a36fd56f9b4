package chtml

import (
	"errors"
	"fmt"
	"strings"
)

// ParseText scans template command text into a RawText span. Literal
// characters pass through unchanged; the escape markers {\n}, {\r}, {\t},
// {lb} and {rb} decode to their single-character values. Because a marker
// occupies four source columns but one byte of raw text, every marker
// introduces a position discontinuity, and the resulting span carries a
// checkpoint for each so that location queries stay exact.
//
// ParseText inverts RawText.SourceString.
func ParseText(file, src string) (*RawText, error) {
	return ParseTextAt(file, src, 1, 1)
}

// ParseTextAt is ParseText with an explicit start position, for command text
// embedded somewhere other than the top of a file.
func ParseTextAt(file, src string, line, col int) (*RawText, error) {
	if line <= 0 || col <= 0 {
		panic(fmt.Sprintf("chtml: expected a positive start position, got %d:%d", line, col))
	}

	b := NewOffsetsBuilder()
	var text strings.Builder
	text.Grow(len(src))

	// The first character is always a checkpoint; after that, one is needed
	// only where a marker breaks the 1:1 correspondence with the source.
	disc := true

	i := 0
	for i < len(src) {
		c := src[i]

		if c == '{' {
			var tag string
			if i+4 <= len(src) {
				tag = src[i : i+4]
			}
			ch, ok := tagToSpecialChar[tag]
			if !ok {
				return nil, &PosError{
					Loc: Loc{File: file, Begin: Point{Line: line, Column: col}, End: Point{Line: line, Column: col}},
					Err: fmt.Errorf("unrecognized command %q in raw text", snippet(src[i:])),
				}
			}
			// The decoded character sits at the marker's first column; the
			// character after the marker jumps past its full width.
			b.Add(text.Len(), line, col, line, col)
			text.WriteByte(ch)
			col += len(tag)
			i += len(tag)
			disc = true
			continue
		}

		if disc {
			b.Add(text.Len(), line, col, line, col)
			disc = false
		} else {
			b.SetEnd(line, col)
		}
		text.WriteByte(c)

		switch c {
		case '\n':
			line++
			col = 1
			i++
		case '\r':
			pair := i+1 < len(src) && src[i+1] == '\n'
			if pair {
				text.WriteByte('\n')
				i++
			}
			line++
			col = 1
			i++
			if pair {
				// A lookup of the pair's \n scans past the whole
				// terminator; keep the pending end location in agreement
				// with what it reports.
				b.SetEnd(line, col)
			}
		default:
			col++
			i++
		}
	}

	if text.Len() == 0 {
		return nil, &PosError{
			Loc: Loc{File: file, Begin: Point{Line: line, Column: col}, End: Point{Line: line, Column: col}},
			Err: errors.New("empty raw text"),
		}
	}

	offsets := b.Build(text.Len())
	return NewRawTextWithOffsets(text.String(), offsets.Loc(file), offsets), nil
}

func snippet(s string) string {
	if len(s) > 8 {
		return s[:8] + "..."
	}
	return s
}
