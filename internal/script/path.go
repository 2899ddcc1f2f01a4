package script

import "strings"

// Path is a normalized dotted lookup key (e.g. "message1.anycorrect").
// Paths compare case-insensitively because they are always stored lower-cased.
type Path string

// NewPath normalizes raw into a Path
func NewPath(raw string) Path {
	return Path(strings.ToLower(strings.TrimSpace(raw)))
}

// Join appends other to p with the access separator
func (p Path) Join(other Path) Path {
	switch {
	case p == "":
		return other
	case other == "":
		return p
	}
	return p + "." + other
}

// Segments splits the path on the access separator
func (p Path) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

func (p Path) String() string {
	return string(p)
}
