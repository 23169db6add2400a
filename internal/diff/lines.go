package diff

import "strings"

// SplitLines splits text into lines on "\n".
//
// A single trailing terminator does not produce an empty final line, so
// "a\nb\n" and "a\nb" both yield ["a", "b"]. Empty text yields no lines.
// A "\r" directly before "\n" is treated as part of the terminator.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		// The last element had no "\n" after it, so its "\r" is content.
		if i == len(lines)-1 && !strings.HasSuffix(text, "\n") {
			break
		}
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
