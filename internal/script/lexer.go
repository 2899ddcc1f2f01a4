package script

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits a predicate into tokens in source order.
// The language is case-insensitive, so the source is lower-cased first.
func Tokenize(source string) ([]Token, error) {
	src := strings.ToLower(source)
	tokens := []Token{}

	pos := 0
	for {
		for pos < len(src) && unicode.IsSpace(rune(src[pos])) {
			pos++
		}
		if pos >= len(src) {
			return tokens, nil
		}

		loc := tokenPattern.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			r, _ := utf8.DecodeRuneInString(src[pos:])
			return nil, &LexError{Pos: pos, Char: string(r)}
		}

		tokens = append(tokens, Token{
			Text: src[pos : pos+loc[1]],
			Kind: matchedKind(loc),
			Pos:  pos,
		})
		pos += loc[1]
	}
}

// matchedKind returns the kind whose catalog group participated in the match
func matchedKind(loc []int) Kind {
	for k, group := range kindGroups {
		if loc[2*group] >= 0 {
			return Kind(k)
		}
	}
	return KindIdent
}

// whereField extracts the field name embedded in a where operator ("whereid" -> "id")
func whereField(text string) string {
	m := wherePattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[wherePattern.SubexpIndex("field")]
}
