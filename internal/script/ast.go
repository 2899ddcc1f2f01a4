package script

// Node represents a node of the predicate syntax tree
type Node interface {
	isNode()
	Token() Token
}

// ValueNode is a leaf holding a resolved literal or an unresolved Path.
// Value is one of: string, float64, bool, []any, Path.
type ValueNode struct {
	Tok   Token
	Value any
}

func (ValueNode) isNode() {}

// Token returns the token the node was built from
func (n ValueNode) Token() Token { return n.Tok }

// CommandNode applies an operator to its children.
// Unary operators (invoke) only use Right.
type CommandNode struct {
	Tok   Token
	Left  Node
	Right Node

	// Set for where operators: the variable the match is bound to and the
	// field it is looked up by.
	Variable Path
	Field    string
}

func (CommandNode) isNode() {}

// Token returns the operator token
func (n CommandNode) Token() Token { return n.Tok }

// Kind is a shorthand for the operator kind
func (n CommandNode) Kind() Kind { return n.Tok.Kind }
