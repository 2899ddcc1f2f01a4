package script

import (
	"errors"
	"fmt"
)

var (
	// ErrLex is matched by every tokenization failure
	ErrLex = errors.New("lex error")

	// ErrParse is matched by every parse failure
	ErrParse = errors.New("parse error")
)

// LexError reports input that matches no token pattern
type LexError struct {
	Pos  int
	Char string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("unexpected character '%s' at position %d", e.Char, e.Pos)
}

func (e *LexError) Unwrap() error { return ErrLex }

// ParseError reports an expression that cannot be folded into a tree
type ParseError struct {
	Token   Token
	Message string
}

func (e *ParseError) Error() string {
	if e.Token.Text == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (at '%s', position %d)", e.Message, e.Token.Text, e.Token.Pos)
}

func (e *ParseError) Unwrap() error { return ErrParse }
