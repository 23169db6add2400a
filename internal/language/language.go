// Package language defines the syntax modes a pane can be displayed in.
package language

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnknownMode is returned by Parse for names outside Modes.
var ErrUnknownMode = errors.New("unknown language mode")

// Mode is a pane's syntax mode.
type Mode string

const (
	Text       Mode = "text"
	JSON       Mode = "json"
	YAML       Mode = "yaml"
	JavaScript Mode = "javascript"
	TypeScript Mode = "typescript"
	Python     Mode = "python"
	Markdown   Mode = "markdown"
	XML        Mode = "xml"
	HTML       Mode = "html"
)

// Modes lists every mode in cycling order.
var Modes = []Mode{Text, JSON, YAML, JavaScript, TypeScript, Python, Markdown, XML, HTML}

var labels = map[Mode]string{
	Text:       "Plain Text",
	JSON:       "JSON",
	YAML:       "YAML",
	JavaScript: "JavaScript",
	TypeScript: "TypeScript",
	Python:     "Python",
	Markdown:   "Markdown",
	XML:        "XML",
	HTML:       "HTML",
}

var extensions = map[string]Mode{
	".json":     JSON,
	".yaml":     YAML,
	".yml":      YAML,
	".js":       JavaScript,
	".mjs":      JavaScript,
	".cjs":      JavaScript,
	".jsx":      JavaScript,
	".ts":       TypeScript,
	".tsx":      TypeScript,
	".py":       Python,
	".md":       Markdown,
	".markdown": Markdown,
	".xml":      XML,
	".svg":      XML,
	".html":     HTML,
	".htm":      HTML,
}

// Label returns the display name, e.g. "Plain Text".
func (m Mode) Label() string {
	if l, ok := labels[m]; ok {
		return l
	}
	return string(m)
}

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	_, ok := labels[m]
	return ok
}

// Next returns the mode after m in Modes, wrapping. Unknown modes go to Text.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return Text
}

// Parse resolves a mode name case-insensitively. Empty means Text.
func Parse(name string) (Mode, error) {
	if name == "" {
		return Text, nil
	}
	m := Mode(strings.ToLower(strings.TrimSpace(name)))
	if !m.Valid() {
		return Text, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return m, nil
}

// Detect picks a mode from a file name's extension, defaulting to Text.
func Detect(path string) Mode {
	if m, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return Text
}
