package engine

import (
	"errors"
	"fmt"

	"conditionscript/internal/script"
)

var (
	// ErrFunctionNotFound is matched when no registered function fits a path and arity
	ErrFunctionNotFound = errors.New("function not found")

	// ErrValueNotFound is matched when a path has no value in the environment
	ErrValueNotFound = errors.New("value not found")

	// ErrMalformedNode is matched when a command node lacks the children its operator needs
	ErrMalformedNode = errors.New("malformed node")

	// ErrInvalidOperand is matched when an operator receives a value of the wrong type
	ErrInvalidOperand = errors.New("invalid operand")
)

// FunctionNotFoundError reports a failed function lookup
type FunctionNotFoundError struct {
	Path  script.Path
	Arity int
}

func (e *FunctionNotFoundError) Error() string {
	return fmt.Sprintf("no function '%s' taking %d argument(s)", e.Path, e.Arity)
}

func (e *FunctionNotFoundError) Unwrap() error { return ErrFunctionNotFound }

// ValueNotFoundError reports a failed value lookup
type ValueNotFoundError struct {
	Path script.Path
}

func (e *ValueNotFoundError) Error() string {
	return fmt.Sprintf("no value bound to '%s'", e.Path)
}

func (e *ValueNotFoundError) Unwrap() error { return ErrValueNotFound }

// MalformedNodeError reports a command node with an unexpected shape
type MalformedNodeError struct {
	Token   script.Token
	Message string
}

func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("%s (at '%s', position %d)", e.Message, e.Token.Text, e.Token.Pos)
}

func (e *MalformedNodeError) Unwrap() error { return ErrMalformedNode }

// InvalidOperandError reports an operator applied to an unsupported value
type InvalidOperandError struct {
	Op    string
	Value any
}

func (e *InvalidOperandError) Error() string {
	return fmt.Sprintf("%s: unsupported operand %s (%T)", e.Op, Text(e.Value), e.Value)
}

func (e *InvalidOperandError) Unwrap() error { return ErrInvalidOperand }
