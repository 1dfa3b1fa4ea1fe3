// Package naming derives canonical runtime identifiers from user-facing
// labels. The runtime config format only accepts lowercase [a-z0-9_]
// names, so every label is squashed onto that alphabet before it is
// written out.
package naming

import (
	"fmt"
	"strings"
)

// Normalize lower-cases label and replaces every character outside
// [a-z0-9_] with an underscore. An empty result falls back to fallback.
// Normalize is idempotent: a canonical name maps to itself.
func Normalize(label, fallback string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// Fallback builds the default identifier used when a node has no usable
// label, e.g. "signal_3".
func Fallback(kind string, index int) string {
	return fmt.Sprintf("%s_%d", kind, index)
}
