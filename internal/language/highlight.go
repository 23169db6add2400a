package language

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/zjrosen/splitdiff/internal/log"
)

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "monokai"

// Lexer returns the chroma lexer for m, or nil for Text.
func (m Mode) Lexer() chroma.Lexer {
	if m == Text || !m.Valid() {
		return nil
	}
	l := lexers.Get(string(m))
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}

// Highlighter renders lines with ANSI syntax colouring.
type Highlighter struct {
	style     *chroma.Style
	formatter chroma.Formatter
}

// NewHighlighter creates a terminal highlighter with the named chroma style.
// Unknown style names fall back to chroma's default.
func NewHighlighter(style string) *Highlighter {
	if style == "" {
		style = DefaultStyle
	}
	return &Highlighter{
		style:     styles.Get(style),
		formatter: formatters.Get("terminal256"),
	}
}

// Lines highlights a whole pane at once so multi-line constructs keep their
// state, then returns one rendered string per input line. When the lexer's
// line structure does not line up with the input, or m has no lexer, the
// input is returned unchanged.
func (h *Highlighter) Lines(m Mode, lines []string) []string {
	lexer := m.Lexer()
	if lexer == nil || len(lines) == 0 {
		return lines
	}

	it, err := lexer.Tokenise(nil, strings.Join(lines, "\n"))
	if err != nil {
		log.ErrorErr(log.CatUI, "tokenise failed", err, "mode", m)
		return lines
	}
	split := chroma.SplitTokensIntoLines(it.Tokens())
	if len(split) < len(lines) {
		return lines
	}

	out := make([]string, len(lines))
	var b strings.Builder
	for i := range lines {
		toks := split[i]
		for j := range toks {
			toks[j].Value = strings.TrimRight(toks[j].Value, "\n")
		}
		b.Reset()
		if err := h.formatter.Format(&b, h.style, chroma.Literator(toks...)); err != nil {
			return lines
		}
		out[i] = b.String()
	}
	return out
}
