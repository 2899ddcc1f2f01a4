package message

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Delimiter separates alternatives in correct, options and answer strings
const Delimiter = "||"

// Kind is the type of a chat message
type Kind string

const (
	KindText         Kind = "text"
	KindSingleChoice Kind = "single_choice"
	KindMultiChoice  Kind = "multi_choice"
	KindEnterText    Kind = "enter_text"
)

// HasOptions reports whether questions of this kind carry options and
// correctness data
func (k Kind) HasOptions() bool {
	switch k {
	case KindSingleChoice, KindMultiChoice, KindEnterText:
		return true
	}
	return false
}

// Question is the flow step a message answers
type Question struct {
	OrderNumber         int64
	PreviousOrderNumber int64
	Kind                Kind
	Correct             string // 1-based indices, e.g. "1||3"
	Options             string // e.g. "a||b||c"
	ShowPredicate       string
}

// Record is a stored answer together with its question
type Record struct {
	ID       string
	Kind     Kind
	Answer   string
	Question Question
}

// Option is one offered choice as seen by predicates
type Option struct {
	Text        string
	IsCorrected bool
	IsSelected  bool
}

// PredicateMessage is the read-only view of a message that predicate
// functions operate on. Options is nil when the question has no options.
type PredicateMessage struct {
	ID                string
	PreviousMessageID int64
	ViewPredicate     string
	Kind              Kind
	GivenAnswer       string
	Options           []Option
}

// New derives a PredicateMessage from a stored record
func New(rec Record) (*PredicateMessage, error) {
	msg := &PredicateMessage{
		ID:                rec.ID,
		PreviousMessageID: rec.Question.PreviousOrderNumber,
		ViewPredicate:     rec.Question.ShowPredicate,
		Kind:              rec.Kind,
		GivenAnswer:       rec.Answer,
	}

	options, err := DeriveOptions(rec.Question, rec.Answer)
	if err != nil {
		return nil, fmt.Errorf("message %s: %w", rec.ID, err)
	}
	msg.Options = options
	return msg, nil
}

// DeriveOptions marks each option of q as correct and/or selected.
// It returns nil when q carries no options.
func DeriveOptions(q Question, answer string) ([]Option, error) {
	if !q.Kind.HasOptions() || strings.TrimSpace(q.Options) == "" {
		return nil, nil
	}

	correct, err := parseIndices(q.Correct)
	if err != nil {
		return nil, err
	}
	selected := Split(answer)

	texts := Split(q.Options)
	options := make([]Option, len(texts))
	for i, text := range texts {
		options[i] = Option{
			Text:        text,
			IsCorrected: slices.Contains(correct, i),
			IsSelected:  slices.Contains(selected, text),
		}
	}
	return options, nil
}

// Split breaks a delimited string into trimmed pieces. An empty string has none.
func Split(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, Delimiter)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parseIndices converts 1-based indices into 0-based ones
func parseIndices(s string) ([]int, error) {
	var indices []int
	for _, part := range Split(s) {
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid correct index %q", part)
		}
		indices = append(indices, n-1)
	}
	return indices, nil
}

// HasOptions reports whether options were derived
func (m *PredicateMessage) HasOptions() bool {
	return m.Options != nil
}

// AllCorrect reports whether every option was chosen exactly when correct
func (m *PredicateMessage) AllCorrect() bool {
	if !m.HasOptions() {
		return false
	}
	for _, o := range m.Options {
		if o.IsCorrected != o.IsSelected {
			return false
		}
	}
	return true
}

// AnyCorrect reports whether at least one option was chosen exactly when correct
func (m *PredicateMessage) AnyCorrect() bool {
	if !m.HasOptions() {
		return false
	}
	for _, o := range m.Options {
		if o.IsCorrected == o.IsSelected {
			return true
		}
	}
	return false
}

func (m *PredicateMessage) AllIncorrect() bool {
	return m.HasOptions() && !m.AllCorrect()
}

func (m *PredicateMessage) AnyIncorrect() bool {
	return m.HasOptions() && !m.AnyCorrect()
}

// Selected returns the 1-based positions of the selected options
func (m *PredicateMessage) Selected() []any {
	positions := []any{}
	for i, o := range m.Options {
		if o.IsSelected {
			positions = append(positions, float64(i+1))
		}
	}
	return positions
}

func (m *PredicateMessage) String() string {
	return "message " + m.ID
}
