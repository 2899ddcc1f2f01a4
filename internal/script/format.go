package script

import "strings"

// Format renders a syntax tree back into predicate source
func Format(node Node) string {
	switch n := node.(type) {
	case ValueNode:
		return n.Tok.Text
	case CommandNode:
		switch n.Kind() {
		case KindAccess:
			return Format(n.Left) + "." + Format(n.Right)
		case KindInvoke:
			return Format(n.Right) + "()"
		default:
			return Format(n.Left) + " " + n.Tok.Text + " " + Format(n.Right)
		}
	default:
		return "<unknown>"
	}
}

// Levels returns the token text of every node, grouped by depth in
// breadth-first order
func Levels(root Node) [][]string {
	if root == nil {
		return nil
	}

	var levels [][]string
	queue := []Node{root}
	for len(queue) > 0 {
		var next []Node
		level := make([]string, 0, len(queue))
		for _, node := range queue {
			level = append(level, node.Token().Text)
			if cmd, ok := node.(CommandNode); ok {
				if cmd.Left != nil {
					next = append(next, cmd.Left)
				}
				if cmd.Right != nil {
					next = append(next, cmd.Right)
				}
			}
		}
		levels = append(levels, level)
		queue = next
	}
	return levels
}

// FormatTree renders Levels one depth per line
func FormatTree(root Node) string {
	var sb strings.Builder
	for _, level := range Levels(root) {
		sb.WriteString(strings.Join(level, " "))
		sb.WriteString("\n")
	}
	return sb.String()
}
