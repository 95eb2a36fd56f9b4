package chtml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyHTML(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		spans []struct {
			text string
			ctx  HTMLContext
		}
	}{
		{
			name: "element with text",
			src:  "<b>Hi</b>",
			spans: []struct {
				text string
				ctx  HTMLContext
			}{
				{"<b>", HTMLTag},
				{"Hi", HTMLPCDATA},
				{"</b>", HTMLTag},
			},
		},
		{
			name: "script content is rcdata",
			src:  "<script>x=1</script>ok",
			spans: []struct {
				text string
				ctx  HTMLContext
			}{
				{"<script>", HTMLTag},
				{"x=1", HTMLRCDATA},
				{"</script>", HTMLTag},
				{"ok", HTMLPCDATA},
			},
		},
		{
			name: "comment",
			src:  "a<!-- note -->b",
			spans: []struct {
				text string
				ctx  HTMLContext
			}{
				{"a", HTMLPCDATA},
				{"<!-- note -->", HTMLComment},
				{"b", HTMLPCDATA},
			},
		},
		{
			name: "self closing tag",
			src:  "x<br/>y",
			spans: []struct {
				text string
				ctx  HTMLContext
			}{
				{"x", HTMLPCDATA},
				{"<br/>", HTMLTag},
				{"y", HTMLPCDATA},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRawText(tt.src, Loc{File: "t.chtml", Begin: Point{1, 1}, End: Point{1, len(tt.src)}})
			spans := ClassifyHTML(rt)

			require.Len(t, spans, len(tt.spans))
			off := 0
			for i, span := range spans {
				want := tt.spans[i]
				require.Equal(t, want.text, span.Text(), "span %d", i)
				require.Equal(t, want.ctx, span.Context(), "span %d (%q)", i, want.text)

				// The split must preserve position fidelity: each sub-span
				// answers exactly as the parent does for the same range.
				if got, wantLoc := span.Loc(), rt.RangeLoc(off, off+len(span.Text())); got != wantLoc {
					t.Errorf("span %d (%q): Loc() = %v, want %v", i, want.text, got, wantLoc)
				}
				off += len(span.Text())
			}
			require.Equal(t, len(tt.src), off, "classified spans must cover the whole text")
		})
	}
}

func TestClassifyHTMLSingleToken(t *testing.T) {
	rt := NewRawText("just text", testLoc(1, 1, 1, 9))
	spans := ClassifyHTML(rt)

	require.Len(t, spans, 1)
	require.Same(t, rt, spans[0], "a single-token span is tagged in place")
	require.Equal(t, HTMLPCDATA, rt.Context())
}

func TestClassifyHTMLMultiline(t *testing.T) {
	rt := NewRawText("<i>\nhey\n</i>", testLoc(1, 1, 3, 4))
	spans := ClassifyHTML(rt)

	require.Len(t, spans, 3)
	require.Equal(t, "\nhey\n", spans[1].Text())
	if got := spans[1].LocationOf(1); got != (Point{2, 1}) {
		t.Errorf("text span LocationOf(1) = %v, want 2:1", got)
	}
	if got := spans[2].Loc().Begin; got != (Point{3, 1}) {
		t.Errorf("closing tag begins at %v, want 3:1", got)
	}
}

func TestClassifyHTMLUnfinishedTag(t *testing.T) {
	rt := NewRawText("ok<i", testLoc(1, 1, 1, 4))
	spans := ClassifyHTML(rt)

	// The trailing unfinished construct survives as plain text so no
	// characters disappear from the tree.
	var covered int
	for _, span := range spans {
		covered += len(span.Text())
	}
	require.Equal(t, len(rt.Text()), covered)

	last := spans[len(spans)-1]
	require.Equal(t, HTMLContextText, last.Context())
}

func TestHTMLContextString(t *testing.T) {
	require.Equal(t, "HTML_PCDATA", HTMLPCDATA.String())
	require.Equal(t, "HTML_TAG", HTMLTag.String())
	require.Equal(t, "Text", HTMLContextText.String())
	require.Equal(t, "HTML_UNKNOWN", HTMLContext(99).String())
}
