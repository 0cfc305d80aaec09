package tmux

import "strings"

// fieldSeparator delimits fields in display-message formats. ASCII Unit
// Separator avoids collision with pane titles and shell content.
const fieldSeparator = "\x1f"

// joinFormat builds a display-message format string with the canonical
// delimiter.
func joinFormat(fields ...string) string {
	return strings.Join(fields, fieldSeparator)
}

// splitFields splits a formatted reply line, accepting real tabs as a
// fallback for servers that rewrite control characters.
func splitFields(line string, maxParts int) []string {
	if maxParts <= 0 {
		return nil
	}
	if strings.Contains(line, fieldSeparator) {
		return strings.SplitN(line, fieldSeparator, maxParts)
	}
	if strings.Contains(line, "\t") {
		return strings.SplitN(line, "\t", maxParts)
	}
	return []string{line}
}
