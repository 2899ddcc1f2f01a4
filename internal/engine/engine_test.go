package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conditionscript/internal/script"
)

type record struct {
	id   string
	done bool
}

// testLib binds records by id through the where function and exposes
// record*.done() on them
func testLib(records ...record) Lib {
	return Lib{
		{Key: "op.where", Value: Func3(func(env *Env, variable script.Path, field string, value any) (any, error) {
			if field != "id" {
				return nil, errors.New("unsupported field " + field)
			}
			for _, r := range records {
				if Equal(r.id, value) {
					env.Set(variable, r)
					return true, nil
				}
			}
			return false, nil
		})},
		{Key: "record*.done", Value: Func1(func(v any) (any, error) {
			r, ok := v.(record)
			if !ok {
				return nil, &InvalidOperandError{Op: "done", Value: v}
			}
			return r.done, nil
		})},
	}
}

func evaluate(t *testing.T, env *Env, predicate string) (any, error) {
	t.Helper()
	node, err := script.Compile(predicate)
	require.NoError(t, err)
	return New(env).Evaluate(node)
}

func TestEngine_Evaluate(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		want      any
	}{
		{name: "literal", predicate: `true`, want: true},
		{name: "string literal", predicate: `"Hi"`, want: "hi"},
		{name: "equality", predicate: `score == 3`, want: true},
		{name: "more", predicate: `score > 2.5`, want: true},
		{name: "less", predicate: `score < 2.5`, want: false},
		{name: "string comparison", predicate: `name < "zed"`, want: true},
		{name: "list equality", predicate: `picked == [1, 3]`, want: true},
		{name: "and", predicate: `score == 3 and name == "ann"`, want: true},
		{name: "or", predicate: `score == 4 or name == "ann"`, want: true},
		{name: "precedence", predicate: `false and false or true`, want: true},
		{name: "dotted value", predicate: `chat.owner == "ann"`, want: true},
		{name: "negation", predicate: `flag.not()`, want: false},
		{name: "double negation", predicate: `flag.not().not()`, want: true},
		{name: "where binds for later access", predicate: `record whereId "7" and record.done()`, want: true},
		{name: "where binds numbered variable", predicate: `record2 whereId "8" and record2.done().not()`, want: true},
		{name: "where miss", predicate: `record whereId "9"`, want: false},
		{name: "bound record", predicate: `record1.done()`, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := NewEnv(
				Builtins(),
				testLib(record{id: "7", done: true}, record{id: "8", done: false}),
				Lib{
					{Key: "score", Value: 3.0},
					{Key: "name", Value: "ann"},
					{Key: "picked", Value: []any{1.0, 3.0}},
					{Key: "chat.owner", Value: "ann"},
					{Key: "flag", Value: true},
					{Key: "record1", Value: record{id: "1", done: true}},
				},
			)
			require.NoError(t, err)

			got, err := evaluate(t, env, tt.predicate)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Errors(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		wantErr   error
	}{
		{name: "unknown value", predicate: `missing == 1`, wantErr: ErrValueNotFound},
		{name: "unknown function", predicate: `flag.explode()`, wantErr: ErrFunctionNotFound},
		{name: "unbound receiver", predicate: `record.done()`, wantErr: ErrValueNotFound},
		{name: "and on a number", predicate: `flag and 1`, wantErr: ErrInvalidOperand},
		{name: "compare bool", predicate: `flag > 1`, wantErr: ErrInvalidOperand},
		{name: "negate a number", predicate: `score.not()`, wantErr: ErrInvalidOperand},
		{name: "no where function", predicate: `x whereId "1"`, wantErr: ErrFunctionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := NewEnv(Builtins(), Lib{
				{Key: "flag", Value: true},
				{Key: "score", Value: 3.0},
				{Key: "record*.done", Value: constFunc1(true)},
			})
			require.NoError(t, err)

			_, err = evaluate(t, env, tt.predicate)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// Hand-built trees reach shapes the parser never produces.
func TestEngine_MalformedNodes(t *testing.T) {
	tests := []struct {
		name string
		node script.Node
	}{
		{
			name: "invoke without access",
			node: script.CommandNode{
				Tok:   script.Token{Text: "()", Kind: script.KindInvoke},
				Right: script.ValueNode{Value: script.Path("f")},
			},
		},
		{
			name: "where without variable",
			node: script.CommandNode{
				Tok:   script.Token{Text: "whereid", Kind: script.KindWhere},
				Right: script.ValueNode{Value: "1"},
				Field: "id",
			},
		},
		{
			name: "binary with one side",
			node: script.CommandNode{
				Tok:  script.Token{Text: "==", Kind: script.KindEqual},
				Left: script.ValueNode{Value: 1.0},
			},
		},
		{
			name: "nil root",
			node: nil,
		},
	}

	env, err := NewEnv(Builtins())
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(env).Execute(tt.node)
			assert.ErrorIs(t, err, ErrMalformedNode)
		})
	}
}

func TestEngine_ExecuteKeepsPaths(t *testing.T) {
	env, err := NewEnv(Builtins())
	require.NoError(t, err)

	node, err := script.Compile(`Chat.Owner.Name`)
	require.NoError(t, err)

	got, err := New(env).Execute(node)
	require.NoError(t, err)
	assert.Equal(t, script.Path("chat.owner.name"), got)
}

func TestEngine_WhereBindingIsLocalToTheEnv(t *testing.T) {
	lib := testLib(record{id: "7", done: true})

	first, err := NewEnv(Builtins(), lib)
	require.NoError(t, err)
	got, err := evaluate(t, first, `record whereId "7" and record.done()`)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	second, err := NewEnv(Builtins(), lib)
	require.NoError(t, err)
	_, err = evaluate(t, second, `record.done()`)
	assert.ErrorIs(t, err, ErrValueNotFound)
}
