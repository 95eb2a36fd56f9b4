package chtml

import (
	"testing"

	"github.com/expr-lang/expr"
	"github.com/stretchr/testify/require"
)

func TestSplitInterpol(t *testing.T) {
	rt := NewRawText("Hello, ${name}!", testLoc(1, 1, 1, 15))
	env := map[string]any{"name": "world"}

	segs, err := SplitInterpol(rt, env)
	require.NoError(t, err)
	require.Len(t, segs, 3)

	require.NotNil(t, segs[0].Text)
	require.Equal(t, "Hello, ", segs[0].Text.Text())
	require.Equal(t, testLoc(1, 1, 1, 7), segs[0].Loc)

	require.NotNil(t, segs[1].Prog)
	require.Equal(t, testLoc(1, 10, 1, 13), segs[1].Loc, "location of the expression text")
	out, err := expr.Run(segs[1].Prog, env)
	require.NoError(t, err)
	require.Equal(t, "world", out)

	require.NotNil(t, segs[2].Text)
	require.Equal(t, "!", segs[2].Text.Text())
	require.Equal(t, testLoc(1, 15, 1, 15), segs[2].Loc)
}

func TestSplitInterpolNoPlaceholders(t *testing.T) {
	rt := NewRawText("plain text", testLoc(1, 1, 1, 10))

	segs, err := SplitInterpol(rt, nil)
	require.NoError(t, err)
	require.Len(t, segs, 1)
	require.Same(t, rt, segs[0].Text, "a placeholder-free span comes back as-is")
}

func TestSplitInterpolExpressionOnly(t *testing.T) {
	rt := NewRawText("${a + b}", testLoc(1, 1, 1, 8))

	segs, err := SplitInterpol(rt, map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	require.Len(t, segs, 1)
	require.Nil(t, segs[0].Text)

	out, err := expr.Run(segs[0].Prog, map[string]any{"a": 1, "b": 2})
	require.NoError(t, err)
	require.Equal(t, 3, out)
}

func TestSplitInterpolNestedBraces(t *testing.T) {
	rt := NewRawText(`${ {"k": 1}.k }`, testLoc(1, 1, 1, 15))

	segs, err := SplitInterpol(rt, nil)
	require.NoError(t, err)
	require.Len(t, segs, 1)

	out, err := expr.Run(segs[0].Prog, nil)
	require.NoError(t, err)
	require.Equal(t, 1, out)
}

func TestSplitInterpolPositionsAcrossLines(t *testing.T) {
	// The literal fragments keep reporting original source positions even
	// though the split re-based their indexes.
	rt := NewRawText("one\n${x}\ntwo", testLoc(1, 1, 3, 3))

	segs, err := SplitInterpol(rt, nil)
	require.NoError(t, err)
	require.Len(t, segs, 3)

	require.Equal(t, "one\n", segs[0].Text.Text())
	require.Equal(t, "\ntwo", segs[2].Text.Text())
	if got := segs[2].Text.LocationOf(1); got != (Point{3, 1}) {
		t.Errorf("LocationOf(1) = %v, want 3:1", got)
	}
	if got := segs[1].Loc.Begin; got != (Point{2, 3}) {
		t.Errorf("expression begins at %v, want 2:3", got)
	}
}

func TestSplitInterpolErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
		env  map[string]any
	}{
		{"unclosed placeholder", "a${b", nil},
		{"unterminated string", `${'oops}`, nil},
		{"empty expression", "${}", nil},
		{"undefined variable", "${missing}", map[string]any{"known": 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := NewRawText(tt.text, testLoc(1, 1, 1, len(tt.text)))
			_, err := SplitInterpol(rt, tt.env)
			require.Error(t, err)

			var perr *PosError
			require.ErrorAs(t, err, &perr)
			require.Equal(t, "t.chtml", perr.Loc.File)
		})
	}
}
