package engine

import (
	"conditionscript/internal/script"
)

// Engine evaluates syntax trees against one environment
type Engine struct {
	env *Env
}

// New creates an engine over env
func New(env *Env) *Engine {
	return &Engine{env: env}
}

// Env returns the environment the engine evaluates against
func (e *Engine) Env() *Env {
	return e.env
}

// Evaluate executes node and resolves a path result to its bound value
func (e *Engine) Evaluate(node script.Node) (any, error) {
	v, err := e.Execute(node)
	if err != nil {
		return nil, err
	}
	return e.Resolve(v)
}

// Execute evaluates node. Identifiers evaluate to unresolved paths so that
// operators can decide whether to look them up or extend them.
func (e *Engine) Execute(node script.Node) (any, error) {
	switch n := node.(type) {
	case script.ValueNode:
		return n.Value, nil
	case script.CommandNode:
		return e.command(n)
	case nil:
		return nil, &MalformedNodeError{Message: "missing node"}
	default:
		return node.Token().Text, nil
	}
}

// Resolve looks a path up in the environment; other values pass through
func (e *Engine) Resolve(v any) (any, error) {
	if p, ok := v.(script.Path); ok {
		return e.env.Value(p)
	}
	return v, nil
}

func (e *Engine) command(n script.CommandNode) (any, error) {
	switch n.Kind() {
	case script.KindAccess:
		return e.access(n)
	case script.KindInvoke:
		return e.invoke(n)
	case script.KindWhere:
		return e.where(n)
	case script.KindEqual, script.KindMore, script.KindLess, script.KindAnd, script.KindOr:
		return e.binary(n)
	default:
		return n.Tok.Text, nil
	}
}

// access joins both sides into one longer path
func (e *Engine) access(n script.CommandNode) (any, error) {
	if n.Left == nil || n.Right == nil {
		return nil, &MalformedNodeError{Token: n.Tok, Message: "access needs two operands"}
	}
	left, err := e.Execute(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.Execute(n.Right)
	if err != nil {
		return nil, err
	}
	return pathOf(left).Join(pathOf(right)), nil
}

// invoke calls the function named by an access operand with the access
// receiver as its argument: for a.b(), the function at "a.b" receives a.
func (e *Engine) invoke(n script.CommandNode) (any, error) {
	operand, ok := n.Right.(script.CommandNode)
	if !ok || operand.Kind() != script.KindAccess || operand.Left == nil || operand.Right == nil {
		return nil, &MalformedNodeError{Token: n.Tok, Message: "invoke needs a dotted function name"}
	}

	receiver, err := e.Execute(operand.Left)
	if err != nil {
		return nil, err
	}
	name, err := e.Execute(operand.Right)
	if err != nil {
		return nil, err
	}

	fn, err := e.env.Func1(pathOf(receiver).Join(pathOf(name)))
	if err != nil {
		return nil, err
	}
	arg, err := e.Resolve(receiver)
	if err != nil {
		return nil, err
	}
	return fn(arg)
}

// where hands the variable name, field and resolved value to the where function
func (e *Engine) where(n script.CommandNode) (any, error) {
	if n.Variable == "" || n.Field == "" || n.Right == nil {
		return nil, &MalformedNodeError{Token: n.Tok, Message: "where needs a variable, a field and a value"}
	}

	fn, err := e.env.Func3(n.Kind().FuncPath())
	if err != nil {
		return nil, err
	}
	value, err := e.operand(n.Right)
	if err != nil {
		return nil, err
	}
	return fn(e.env, n.Variable, n.Field, value)
}

// binary resolves both operands, left first, and applies the operator function
func (e *Engine) binary(n script.CommandNode) (any, error) {
	if n.Left == nil || n.Right == nil {
		return nil, &MalformedNodeError{Token: n.Tok, Message: n.Kind().String() + " needs two operands"}
	}

	fn, err := e.env.Func2(n.Kind().FuncPath())
	if err != nil {
		return nil, err
	}
	left, err := e.operand(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := e.operand(n.Right)
	if err != nil {
		return nil, err
	}
	return fn(left, right)
}

func (e *Engine) operand(node script.Node) (any, error) {
	v, err := e.Execute(node)
	if err != nil {
		return nil, err
	}
	return e.Resolve(v)
}

// pathOf uses a path as is and turns any other value into its text
func pathOf(v any) script.Path {
	if p, ok := v.(script.Path); ok {
		return p
	}
	return script.NewPath(Text(v))
}
