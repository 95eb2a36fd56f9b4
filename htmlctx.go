package chtml

import (
	"strings"

	"golang.org/x/net/html"
)

// HTMLContext is the markup context a RawText renders in, assigned by
// ClassifyHTML (or known up front via NewRawTextInContext). Code generators
// use it to pick the right escaping discipline per span.
type HTMLContext int

const (
	// HTMLContextText is content outside any markup construct.
	HTMLContextText HTMLContext = iota
	// HTMLPCDATA is regular character data between tags.
	HTMLPCDATA
	// HTMLRCDATA is character data inside script, style, textarea or title
	// elements, where tags other than the closing one do not apply.
	HTMLRCDATA
	// HTMLTag covers a whole tag, from "<" through ">".
	HTMLTag
	// HTMLComment covers an entire "<!--...-->" comment.
	HTMLComment
)

func (c HTMLContext) String() string {
	switch c {
	case HTMLContextText:
		return "Text"
	case HTMLPCDATA:
		return "HTML_PCDATA"
	case HTMLRCDATA:
		return "HTML_RCDATA"
	case HTMLTag:
		return "HTML_TAG"
	case HTMLComment:
		return "HTML_COMMENT"
	}
	return "HTML_UNKNOWN"
}

// rawTextElements hold RCDATA content: the tokenizer still reports it as
// text, but the rendering context differs.
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// ClassifyHTML splits rt into consecutive sub-spans, one per HTML token, and
// assigns each its context. Positions survive the split exactly: every
// sub-span answers location queries as the parent would for the same
// characters. A span holding a single token is tagged in place and returned
// as-is.
func ClassifyHTML(rt *RawText) []*RawText {
	z := html.NewTokenizer(strings.NewReader(rt.Text()))

	var out []*RawText
	off := 0
	rcdata := false
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		raw := z.Raw()

		var ctx HTMLContext
		switch tt {
		case html.TextToken:
			if rcdata {
				ctx = HTMLRCDATA
			} else {
				ctx = HTMLPCDATA
			}
		case html.StartTagToken:
			ctx = HTMLTag
			name, _ := z.TagName()
			rcdata = rawTextElements[string(name)]
		case html.EndTagToken:
			ctx = HTMLTag
			rcdata = false
		case html.SelfClosingTagToken, html.DoctypeToken:
			ctx = HTMLTag
		case html.CommentToken:
			ctx = HTMLComment
		}

		span := rt.Substring(off, off+len(raw))
		span.SetContext(ctx)
		out = append(out, span)
		off += len(raw)
	}

	// The tokenizer can hit EOF holding an unfinished construct (e.g. an
	// unclosed "<"); keep the remainder as plain text so no characters are
	// dropped from the tree.
	if off < len(rt.text) {
		span := rt.Substring(off, len(rt.text))
		span.SetContext(HTMLContextText)
		out = append(out, span)
	}

	return out
}
