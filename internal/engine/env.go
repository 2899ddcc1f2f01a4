package engine

import (
	"fmt"
	"maps"
	"strings"

	"conditionscript/internal/script"
)

// Func1 is called with the resolved receiver of an invoke expression
type Func1 func(receiver any) (any, error)

// Func2 implements a binary operator
type Func2 func(left, right any) (any, error)

// Func3 implements the where operator. It receives the environment so it
// can bind its match under variable.
type Func3 func(env *Env, variable script.Path, field string, value any) (any, error)

// Binding pairs a registry key with a value or a function.
// Keys are dotted paths; a segment may contain "*" wildcards when the
// value is a function.
type Binding struct {
	Key   string
	Value any
}

// Lib is an ordered set of bindings loaded together
type Lib []Binding

type funcEntry struct {
	key   script.Path
	arity int
	fn    any
}

// Env is the mutable name table a predicate is evaluated against
type Env struct {
	values map[script.Path]any
	exact  map[script.Path][]funcEntry
	// wildcard keys in registration order
	patterns []funcEntry
}

// NewEnv creates an environment with libs loaded in order
func NewEnv(libs ...Lib) (*Env, error) {
	env := &Env{
		values: make(map[script.Path]any),
		exact:  make(map[script.Path][]funcEntry),
	}
	for _, lib := range libs {
		if err := env.Load(lib); err != nil {
			return nil, err
		}
	}
	return env, nil
}

// Load binds every entry of lib
func (e *Env) Load(lib Lib) error {
	for _, b := range lib {
		if err := e.Bind(b.Key, b.Value); err != nil {
			return err
		}
	}
	return nil
}

// Bind registers a function or stores a value under key.
// A later function with the same exact key and arity shadows the earlier one.
func (e *Env) Bind(key string, value any) error {
	path := script.NewPath(key)
	if path == "" {
		return fmt.Errorf("bind: empty key")
	}

	arity, fn := funcArity(value)
	if arity == 0 {
		if strings.Contains(string(path), "*") {
			return fmt.Errorf("bind %s: wildcard keys only accept functions", path)
		}
		e.values[path] = value
		return nil
	}

	entry := funcEntry{key: path, arity: arity, fn: fn}
	if strings.Contains(string(path), "*") {
		e.patterns = append(e.patterns, entry)
		return nil
	}
	e.exact[path] = append([]funcEntry{entry}, e.exact[path]...)
	return nil
}

// Set stores a value under path, replacing any previous value
func (e *Env) Set(path script.Path, value any) {
	e.values[path] = value
}

// Value resolves a path to its stored value
func (e *Env) Value(path script.Path) (any, error) {
	v, ok := e.values[path]
	if !ok {
		return nil, &ValueNotFoundError{Path: path}
	}
	return v, nil
}

// Has reports whether a value is stored under path
func (e *Env) Has(path script.Path) bool {
	_, ok := e.values[path]
	return ok
}

// Func1 looks up a one-argument function
func (e *Env) Func1(path script.Path) (Func1, error) {
	fn, err := e.lookup(path, 1)
	if err != nil {
		return nil, err
	}
	return fn.(Func1), nil
}

// Func2 looks up a two-argument function
func (e *Env) Func2(path script.Path) (Func2, error) {
	fn, err := e.lookup(path, 2)
	if err != nil {
		return nil, err
	}
	return fn.(Func2), nil
}

// Func3 looks up a three-argument function
func (e *Env) Func3(path script.Path) (Func3, error) {
	fn, err := e.lookup(path, 3)
	if err != nil {
		return nil, err
	}
	return fn.(Func3), nil
}

// lookup tries exact keys before wildcard keys
func (e *Env) lookup(path script.Path, arity int) (any, error) {
	for _, entry := range e.exact[path] {
		if entry.arity == arity {
			return entry.fn, nil
		}
	}
	for _, entry := range e.patterns {
		if entry.arity == arity && MatchKey(entry.key, path) {
			return entry.fn, nil
		}
	}
	return nil, &FunctionNotFoundError{Path: path, Arity: arity}
}

// Clone copies the environment. Bound values are shared, not deep-copied.
func (e *Env) Clone() *Env {
	exact := make(map[script.Path][]funcEntry, len(e.exact))
	for k, v := range e.exact {
		exact[k] = append([]funcEntry(nil), v...)
	}
	return &Env{
		values:   maps.Clone(e.values),
		exact:    exact,
		patterns: append([]funcEntry(nil), e.patterns...),
	}
}

// funcArity classifies a bound value; 0 means it is not a function
func funcArity(v any) (int, any) {
	switch fn := v.(type) {
	case Func1:
		return 1, fn
	case func(any) (any, error):
		return 1, Func1(fn)
	case Func2:
		return 2, fn
	case func(any, any) (any, error):
		return 2, Func2(fn)
	case Func3:
		return 3, fn
	case func(*Env, script.Path, string, any) (any, error):
		return 3, Func3(fn)
	}
	return 0, nil
}
