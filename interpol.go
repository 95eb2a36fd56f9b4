package chtml

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

const (
	eof        rune = -1
	leftDelim       = "${"
	rightDelim      = "}"
)

// Segment is one piece of a raw text span split on ${...} placeholders:
// either a literal sub-span or a compiled expression. Exactly one of Text
// and Prog is set.
type Segment struct {
	Text *RawText    // literal text, nil for expression segments
	Prog *vm.Program // compiled expression, nil for text segments
	Loc  Loc         // source location of the segment
}

// SplitInterpol splits rt on ${...} placeholders. Literal pieces become
// position-accurate sub-spans of rt; expression pieces are compiled with the
// expr engine, type-checked against env when env is non-nil. A span with no
// placeholders comes back as a single text segment holding rt itself.
func SplitInterpol(rt *RawText, env map[string]any) ([]Segment, error) {
	l := &ilexer{input: rt.Text()}
	for state := lexText; state != nil; {
		state = state(l)
	}

	var segs []Segment
	for _, it := range l.items {
		switch it.typ {
		case itemError:
			return nil, &PosError{Loc: interpLoc(rt, it.start, it.end), Err: errors.New(it.val)}
		case itemEOF:
			return segs, nil
		case itemText:
			t := rt.Substring(it.start, it.end)
			segs = append(segs, Segment{Text: t, Loc: t.Loc()})
		case itemExpr:
			opts := []expr.Option{expr.AllowUndefinedVariables()}
			if env != nil {
				opts = []expr.Option{expr.Env(env)}
			}
			p, err := expr.Compile(it.val, opts...)
			if err != nil {
				return nil, &PosError{Loc: interpLoc(rt, it.start, it.end), Err: err}
			}
			segs = append(segs, Segment{Prog: p, Loc: interpLoc(rt, it.start, it.end)})
		}
	}
	return segs, nil
}

// interpLoc widens degenerate ranges (empty expressions, errors reported at
// end of input) enough to satisfy RangeLoc's non-empty contract.
func interpLoc(rt *RawText, start, end int) Loc {
	n := len(rt.Text())
	if start >= n {
		start = n - 1
	}
	if end > n {
		end = n
	}
	if end <= start {
		end = start + 1
	}
	return rt.RangeLoc(start, end)
}

// Implementation of the lexer based on https://go.dev/talks/2011/lex.slide

type itemType int

const (
	itemError itemType = iota
	itemEOF
	itemText
	itemExpr
)

type item struct {
	typ        itemType
	val        string
	start, end int // byte offsets of val within the input
}

// ilexer holds the state of the placeholder scanner.
type ilexer struct {
	input       string // the string being scanned
	start       int    // start position of this item
	pos         int    // current position in the input
	width       int    // width of last rune read from input
	bracesDepth int    // nesting depth of braces {}
	items       []item
}

// stateFn represents the state of the scanner as a function that returns
// the next state.
type stateFn func(*ilexer) stateFn

// emit passes an item back to the client.
func (l *ilexer) emit(t itemType) stateFn {
	l.items = append(l.items, item{t, l.input[l.start:l.pos], l.start, l.pos})
	l.start = l.pos
	return nil
}

// errorf emits an error item and terminates the scan by returning nil as
// the next state.
func (l *ilexer) errorf(msg string) stateFn {
	l.items = append(l.items, item{itemError, msg, l.start, l.pos})
	return nil
}

func (l *ilexer) scanString(quote rune) {
	for ch := l.next(); ch != quote; ch = l.next() {
		if ch == '\n' || ch == eof {
			l.errorf("unterminated string")
			return
		}
		if ch == '\\' {
			l.next()
		}
	}
}

// next returns the next rune in the input.
func (l *ilexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	return r
}

// ignore skips over the pending input before this point.
func (l *ilexer) ignore() {
	l.start = l.pos
}

// atRightDelim reports whether the lexer is at a right delimiter.
func (l *ilexer) atRightDelim() bool {
	return l.bracesDepth == 0 && strings.HasPrefix(l.input[l.pos:], rightDelim)
}

func lexText(l *ilexer) stateFn {
	if x := strings.Index(l.input[l.pos:], leftDelim); x >= 0 {
		if x > 0 {
			l.pos += x
			l.emit(itemText)
		}
		return lexLeftDelim
	}
	l.pos = len(l.input)
	// Correctly reached EOF.
	if l.pos > l.start {
		l.emit(itemText)
	}
	return l.emit(itemEOF)
}

func lexLeftDelim(l *ilexer) stateFn {
	l.pos += len(leftDelim)
	l.ignore()
	return lexExpr // Now inside ${ }.
}

func lexRightDelim(l *ilexer) stateFn {
	l.pos += len(rightDelim)
	l.ignore()
	return lexText
}

func lexExpr(l *ilexer) stateFn {
	if l.atRightDelim() {
		l.emit(itemExpr)
		return lexRightDelim
	}
	switch r := l.next(); {
	case r == eof:
		return l.errorf("unclosed placeholder")
	case r == '\'' || r == '"':
		l.scanString(r)
	case r == '{':
		l.bracesDepth++
	case r == '}':
		l.bracesDepth--
	}
	return lexExpr
}
