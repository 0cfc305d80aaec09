package overlay

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultPrefix namespaces the window titles of surfaces this tool spawns.
const DefaultPrefix = "hyprcanvas"

// NewAppID returns a fresh identifier for one overlay surface. The surface
// adopts it as its title, and every window rule and dispatch targets it, so
// it must be unique per surface. An empty prefix selects DefaultPrefix.
func NewAppID(prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "-" + uuid.NewString()
}

// IsAppID reports whether title was issued by NewAppID with the given
// prefix.
func IsAppID(prefix, title string) bool {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	rest, ok := strings.CutPrefix(title, prefix+"-")
	if !ok {
		return false
	}
	_, err := uuid.Parse(rest)
	return err == nil
}
