package main

import (
	"log/slog"
	"os"

	chtml "github.com/dpotapov/chtml-ast"
)

// Demonstrates the raw text position tracking: command text is parsed into a
// span (decoding escape markers), classified into HTML contexts, and split
// on ${...} placeholders, with every piece reporting its original source
// location.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	src := `<b>Hello, ${name}!</b>{\n}<i>bye</i>`

	rt, err := chtml.ParseText("demo.chtml", src)
	if err != nil {
		logger.Error("parse failed", "error", err)
		os.Exit(1)
	}
	logger.Info("parsed raw text", "text", rt.Text(), "loc", rt.Loc().String())

	for _, span := range chtml.ClassifyHTML(rt) {
		logger.Info("classified span",
			"text", span.Text(),
			"context", span.Context().String(),
			"loc", span.Loc().String())

		if span.Context() != chtml.HTMLPCDATA {
			continue
		}

		segs, err := chtml.SplitInterpol(span, map[string]any{"name": "world"})
		if err != nil {
			logger.Error("interpolation failed", "error", err)
			os.Exit(1)
		}
		for _, seg := range segs {
			if seg.Text != nil {
				logger.Info("text segment", "text", seg.Text.Text(), "loc", seg.Loc.String())
			} else {
				logger.Info("expression segment", "loc", seg.Loc.String())
			}
		}
	}
}
