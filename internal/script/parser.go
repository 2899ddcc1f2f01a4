package script

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`^` + catalog[KindNumber].pattern + `$`)

// Compile tokenizes and parses a predicate into its syntax tree
func Compile(source string) (Node, error) {
	if strings.TrimSpace(source) == "" {
		return nil, &ParseError{Message: "empty predicate"}
	}

	tokens, err := Tokenize(source)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Parse folds an infix token sequence into a syntax tree
func Parse(tokens []Token) (Node, error) {
	return BuildAST(ShuntingYard(tokens))
}

// ShuntingYard reorders infix tokens into postfix order.
// An operator pops every stacked operator that binds tighter, or equally
// tight when it is left-associative. Postfix operators go straight to the
// output after popping since nothing can bind their operand afterwards.
func ShuntingYard(tokens []Token) []Token {
	output := make([]Token, 0, len(tokens))
	var stack []Token

	for _, tok := range tokens {
		if !tok.Kind.IsOperator() {
			output = append(output, tok)
			continue
		}

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if !pops(top.Kind, tok.Kind) {
				break
			}
			output = append(output, top)
			stack = stack[:len(stack)-1]
		}

		if tok.Kind.Postfix() {
			output = append(output, tok)
			continue
		}
		stack = append(stack, tok)
	}

	for i := len(stack) - 1; i >= 0; i-- {
		output = append(output, stack[i])
	}
	return output
}

// pops reports whether a stacked operator must be emitted before incoming is pushed
func pops(stacked, incoming Kind) bool {
	if stacked.Precedence() > incoming.Precedence() {
		return true
	}
	return stacked.Precedence() == incoming.Precedence() && incoming.Assoc() == AssocLeft
}

// BuildAST folds a postfix token sequence into a syntax tree.
// Operands are pushed; each operator pops its operands (right first) and
// pushes the resulting command node. Exactly one node must remain.
func BuildAST(postfix []Token) (Node, error) {
	if len(postfix) == 0 {
		return nil, &ParseError{Message: "empty predicate"}
	}

	var stack []Node
	for _, tok := range postfix {
		if !tok.Kind.IsOperator() {
			node, err := newValueNode(tok)
			if err != nil {
				return nil, err
			}
			stack = append(stack, node)
			continue
		}

		arity := tok.Kind.Arity()
		if len(stack) < arity {
			return nil, &ParseError{
				Token:   tok,
				Message: fmt.Sprintf("operator '%s' expects %d operand(s)", tok.Kind, arity),
			}
		}

		node := CommandNode{Tok: tok}
		node.Right = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if arity == 2 {
			node.Left = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		}

		if err := checkShape(&node); err != nil {
			return nil, err
		}
		stack = append(stack, node)
	}

	if len(stack) != 1 {
		return nil, &ParseError{
			Token:   stack[1].Token(),
			Message: fmt.Sprintf("unbalanced expression: %d operands without an operator", len(stack)-1),
		}
	}
	return stack[0], nil
}

// checkShape validates operator-specific operand shapes and decodes the
// where binding into the node
func checkShape(node *CommandNode) error {
	switch node.Tok.Kind {
	case KindInvoke:
		operand, ok := node.Right.(CommandNode)
		if !ok || operand.Kind() != KindAccess {
			return &ParseError{Token: node.Tok, Message: "'()' must follow a dotted function name"}
		}

	case KindWhere:
		variable, ok := node.Left.(ValueNode)
		path, isPath := variable.Value.(Path)
		if !ok || !isPath {
			return &ParseError{Token: node.Tok, Message: "where expects a variable name on its left"}
		}
		node.Variable = path
		node.Field = whereField(node.Tok.Text)
	}
	return nil
}

// newValueNode resolves an operand token into its literal value
func newValueNode(tok Token) (Node, error) {
	switch tok.Kind {
	case KindString:
		return ValueNode{Tok: tok, Value: unquote(tok.Text)}, nil

	case KindList:
		items, err := parseList(tok)
		if err != nil {
			return nil, err
		}
		return ValueNode{Tok: tok, Value: items}, nil

	case KindNumber:
		n, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			return nil, &ParseError{Token: tok, Message: "invalid number"}
		}
		return ValueNode{Tok: tok, Value: n}, nil
	}

	if v, ok := parsePrimitive(tok.Text); ok {
		return ValueNode{Tok: tok, Value: v}, nil
	}
	return ValueNode{Tok: tok, Value: NewPath(tok.Text)}, nil
}

// parseList resolves "[1, "a", true]" into its elements
func parseList(tok Token) ([]any, error) {
	body := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(tok.Text, "["), "]"))
	items := []any{}
	if body == "" {
		return items, nil
	}

	for _, raw := range strings.Split(body, ",") {
		item := strings.TrimSpace(raw)
		if len(item) >= 2 && strings.HasPrefix(item, `"`) && strings.HasSuffix(item, `"`) {
			items = append(items, unquote(item))
			continue
		}
		v, ok := parsePrimitive(item)
		if !ok {
			return nil, &ParseError{Token: tok, Message: fmt.Sprintf("invalid list element '%s'", item)}
		}
		items = append(items, v)
	}
	return items, nil
}

// parsePrimitive converts boolean and numeric text
func parsePrimitive(text string) (any, bool) {
	switch text {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	if !numberPattern.MatchString(text) {
		return nil, false
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, false
	}
	return n, true
}

func unquote(text string) string {
	return strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`)
}
