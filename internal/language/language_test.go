package language

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	m, err := Parse("")
	require.NoError(t, err)
	require.Equal(t, Text, m)

	m, err = Parse(" JSON ")
	require.NoError(t, err)
	require.Equal(t, JSON, m)

	_, err = Parse("cobol")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestNext_CyclesAllModes(t *testing.T) {
	seen := map[Mode]bool{}
	m := Text
	for range Modes {
		seen[m] = true
		m = m.Next()
	}
	require.Equal(t, Text, m, "wraps back to the start")
	require.Len(t, seen, len(Modes))
	require.Equal(t, Text, Mode("bogus").Next())
}

func TestDetect(t *testing.T) {
	tests := map[string]Mode{
		"config.yml":       YAML,
		"a/b/package.json": JSON,
		"main.TS":          TypeScript,
		"script.py":        Python,
		"README.md":        Markdown,
		"index.html":       HTML,
		"notes":            Text,
		"archive.tar.gz":   Text,
		"component.jsx":    JavaScript,
		"/tmp/feed.xml":    XML,
	}
	for path, want := range tests {
		require.Equal(t, want, Detect(path), path)
	}
}

func TestLabel(t *testing.T) {
	require.Equal(t, "Plain Text", Text.Label())
	require.Equal(t, "TypeScript", TypeScript.Label())
	require.Equal(t, "weird", Mode("weird").Label())
}

func TestLexer(t *testing.T) {
	require.Nil(t, Text.Lexer())
	for _, m := range Modes[1:] {
		require.NotNil(t, m.Lexer(), m)
	}
}

func TestHighlighter_Lines(t *testing.T) {
	h := NewHighlighter("")
	in := []string{`{`, `  "name": "splitdiff",`, `  "live": true`, `}`}

	out := h.Lines(JSON, in)
	require.Len(t, out, len(in))
	for i := range in {
		require.Equal(t, in[i], ansi.Strip(out[i]), "line %d keeps its text", i)
	}
	require.NotEqual(t, in[1], out[1], "colour codes were added")
}

func TestHighlighter_MultilineComment(t *testing.T) {
	h := NewHighlighter("")
	in := []string{"/* start", "still comment */", "const x = 1;"}
	out := h.Lines(JavaScript, in)
	require.Len(t, out, 3)
	for i := range in {
		require.Equal(t, in[i], ansi.Strip(out[i]))
	}
}

func TestHighlighter_TextPassesThrough(t *testing.T) {
	in := []string{"a", "b"}
	require.Equal(t, in, NewHighlighter("").Lines(Text, in))
	require.Empty(t, NewHighlighter("").Lines(JSON, nil))
}
