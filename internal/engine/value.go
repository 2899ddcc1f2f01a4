package engine

import (
	"cmp"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"conditionscript/internal/script"
)

// Text renders a runtime value the way it would be written in a predicate.
// Strings are rendered bare, so Text("a") == "a".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case script.Path:
		return string(x)
	case []any:
		parts := make([]string, len(x))
		for i, item := range x {
			if s, ok := item.(string); ok {
				parts[i] = strconv.Quote(s)
				continue
			}
			parts[i] = Text(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case fmt.Stringer:
		return x.String()
	}
	if n, ok := number(v); ok {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}

// Equal compares two runtime values. Numbers compare numerically whatever
// their Go type, lists compare element-wise, and values of different kinds
// are never equal.
func Equal(a, b any) bool {
	if x, ok := number(a); ok {
		y, ok := number(b)
		return ok && x == y
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		return ok && x == y
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	case []any:
		y, ok := b.([]any)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Compare orders two numbers or two strings. Any other pairing is an
// InvalidOperandError naming op.
func Compare(op string, a, b any) (int, error) {
	if x, ok := number(a); ok {
		y, ok := number(b)
		if !ok {
			return 0, &InvalidOperandError{Op: op, Value: b}
		}
		return cmp.Compare(x, y), nil
	}

	x, ok := a.(string)
	if !ok {
		return 0, &InvalidOperandError{Op: op, Value: a}
	}
	y, ok := b.(string)
	if !ok {
		return 0, &InvalidOperandError{Op: op, Value: b}
	}
	return strings.Compare(x, y), nil
}

// Bool asserts a boolean operand
func Bool(op string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &InvalidOperandError{Op: op, Value: v}
	}
	return b, nil
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
