package message

import (
	"errors"
	"fmt"
	"strconv"

	"conditionscript/internal/engine"
	"conditionscript/internal/script"
)

var (
	// ErrMessageNotFound is matched when a where lookup has no match
	ErrMessageNotFound = errors.New("message not found")

	// ErrUnsupportedField is matched when a where lookup cannot search a field
	ErrUnsupportedField = errors.New("unsupported field")
)

// MessageNotFoundError reports a where lookup without a match
type MessageNotFoundError struct {
	Field string
	Value any
}

func (e *MessageNotFoundError) Error() string {
	return fmt.Sprintf("no message with %s %s", e.Field, engine.Text(e.Value))
}

func (e *MessageNotFoundError) Unwrap() error { return ErrMessageNotFound }

// UnsupportedFieldError reports a where lookup on a field that cannot be searched
type UnsupportedFieldError struct {
	Field string
}

func (e *UnsupportedFieldError) Error() string {
	return fmt.Sprintf("cannot look messages up by %q", e.Field)
}

func (e *UnsupportedFieldError) Unwrap() error { return ErrUnsupportedField }

// StdLib binds the predicate functions of messages. Any variable whose
// name starts with "message" can receive them.
func StdLib() engine.Lib {
	return engine.Lib{
		{Key: "message*.allcorrect", Value: accessor("allCorrect", (*PredicateMessage).AllCorrect)},
		{Key: "message*.anycorrect", Value: accessor("anyCorrect", (*PredicateMessage).AnyCorrect)},
		{Key: "message*.allincorrect", Value: accessor("allIncorrect", (*PredicateMessage).AllIncorrect)},
		{Key: "message*.anyincorrect", Value: accessor("anyIncorrect", (*PredicateMessage).AnyIncorrect)},
		{Key: "message*.selected", Value: accessor("selected", (*PredicateMessage).Selected)},
	}
}

func accessor[T any](name string, fn func(*PredicateMessage) T) engine.Func1 {
	return func(receiver any) (any, error) {
		msg, ok := receiver.(*PredicateMessage)
		if !ok || msg == nil {
			return nil, &engine.InvalidOperandError{Op: name, Value: receiver}
		}
		return fn(msg), nil
	}
}

// LookupFunc returns the message with the given id, or nil when there is none
type LookupFunc func(id string) (*PredicateMessage, error)

// LookupLib binds the where operator to a single-message lookup.
// Only the id field can be searched.
func LookupLib(lookup LookupFunc) engine.Lib {
	return engine.Lib{
		{Key: "op.where", Value: engine.Func3(func(env *engine.Env, variable script.Path, field string, value any) (any, error) {
			if field != "id" {
				return nil, &UnsupportedFieldError{Field: field}
			}
			msg, err := lookup(engine.Text(value))
			if err != nil {
				return nil, err
			}
			if msg == nil {
				return nil, &MessageNotFoundError{Field: field, Value: value}
			}
			env.Set(variable, msg)
			return true, nil
		})},
	}
}

// Provider returns every message a where lookup may choose from
type Provider interface {
	Messages() ([]*PredicateMessage, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func() ([]*PredicateMessage, error)

func (f ProviderFunc) Messages() ([]*PredicateMessage, error) { return f() }

// Messages is a fixed message set
type Messages []*PredicateMessage

func (m Messages) Messages() ([]*PredicateMessage, error) { return m, nil }

// CollectionLib binds the where operator to a scan over every message the
// provider returns. The first message whose id, previousmessageid or type
// matches is bound.
func CollectionLib(provider Provider) engine.Lib {
	return engine.Lib{
		{Key: "op.where", Value: engine.Func3(func(env *engine.Env, variable script.Path, field string, value any) (any, error) {
			get, err := fieldGetter(field)
			if err != nil {
				return nil, err
			}
			messages, err := provider.Messages()
			if err != nil {
				return nil, err
			}

			want := engine.Text(value)
			for _, msg := range messages {
				if msg != nil && get(msg) == want {
					env.Set(variable, msg)
					return true, nil
				}
			}
			return nil, &MessageNotFoundError{Field: field, Value: value}
		})},
	}
}

func fieldGetter(field string) (func(*PredicateMessage) string, error) {
	switch field {
	case "id":
		return func(m *PredicateMessage) string { return m.ID }, nil
	case "previousmessageid":
		return func(m *PredicateMessage) string { return strconv.FormatInt(m.PreviousMessageID, 10) }, nil
	case "type":
		return func(m *PredicateMessage) string { return string(m.Kind) }, nil
	}
	return nil, &UnsupportedFieldError{Field: field}
}
