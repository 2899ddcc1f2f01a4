package engine

import (
	"strings"

	"conditionscript/internal/script"
)

// MatchKey reports whether a registry key matches a lookup path.
// Keys and paths are compared segment by segment, and both must have
// the same number of segments. A key without "*" only matches itself.
func MatchKey(key, path script.Path) bool {
	if !strings.Contains(string(key), "*") {
		return key == path
	}

	keySegs, pathSegs := key.Segments(), path.Segments()
	if len(keySegs) != len(pathSegs) {
		return false
	}
	for i := range keySegs {
		if !matchGlob(keySegs[i], pathSegs[i]) {
			return false
		}
	}
	return true
}

// matchGlob matches a single segment against a pattern where "*" matches
// any run of characters, including none.
func matchGlob(pattern, value string) bool {
	if !strings.Contains(pattern, "*") {
		return pattern == value
	}

	parts := strings.Split(pattern, "*")
	pos := 0
	for i, part := range parts {
		if part == "" {
			continue
		}

		idx := strings.Index(value[pos:], part)
		if idx == -1 {
			return false
		}
		// the first part is anchored unless the pattern opens with "*"
		if i == 0 && idx != 0 {
			return false
		}
		pos += idx + len(part)
	}

	// the last part is anchored unless the pattern closes with "*"
	last := parts[len(parts)-1]
	return last == "" || strings.HasSuffix(value, last)
}
