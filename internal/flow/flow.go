// Package flow loads conversation flows: ordered questions whose
// visibility is decided by show predicates.
package flow

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"conditionscript/internal/message"
	"conditionscript/internal/script"
)

// Node is one step of a flow
type Node struct {
	OrderNumber         int64        `yaml:"orderNumber"`
	PreviousOrderNumber int64        `yaml:"previousOrderNumber,omitempty"`
	Kind                message.Kind `yaml:"kind"`
	Text                string       `yaml:"text,omitempty"`
	Options             string       `yaml:"options,omitempty"`
	Correct             string       `yaml:"correct,omitempty"`
	ShowPredicate       string       `yaml:"showPredicate,omitempty"`
}

// Question returns the node as the question a stored message answers
func (n Node) Question() message.Question {
	return message.Question{
		OrderNumber:         n.OrderNumber,
		PreviousOrderNumber: n.PreviousOrderNumber,
		Kind:                n.Kind,
		Correct:             n.Correct,
		Options:             n.Options,
		ShowPredicate:       n.ShowPredicate,
	}
}

// Flow is a named sequence of nodes
type Flow struct {
	Name  string `yaml:"name"`
	Nodes []Node `yaml:"nodes"`
}

// Decode parses a flow document and checks its structure, without
// compiling show predicates
func Decode(content []byte) (Flow, error) {
	var doc any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return Flow{}, fmt.Errorf("%w: invalid YAML: %v", ErrInvalidFlow, err)
	}
	if err := validateDocument(doc); err != nil {
		return Flow{}, err
	}

	var f Flow
	if err := yaml.Unmarshal(content, &f); err != nil {
		return Flow{}, fmt.Errorf("%w: invalid YAML: %v", ErrInvalidFlow, err)
	}

	seen := make(map[int64]bool, len(f.Nodes))
	for _, n := range f.Nodes {
		if seen[n.OrderNumber] {
			return Flow{}, fmt.Errorf("%w: duplicate orderNumber %d", ErrInvalidFlow, n.OrderNumber)
		}
		seen[n.OrderNumber] = true
	}
	for _, n := range f.Nodes {
		if n.PreviousOrderNumber != 0 && !seen[n.PreviousOrderNumber] {
			return Flow{}, fmt.Errorf("%w: node %d follows unknown node %d", ErrInvalidFlow, n.OrderNumber, n.PreviousOrderNumber)
		}
		if _, err := message.DeriveOptions(n.Question(), ""); err != nil {
			return Flow{}, fmt.Errorf("%w: node %d: %v", ErrInvalidFlow, n.OrderNumber, err)
		}
	}
	return f, nil
}

// Parse decodes a flow document and requires every show predicate to compile
func Parse(content []byte) (Flow, error) {
	f, err := Decode(content)
	if err != nil {
		return Flow{}, err
	}

	for _, n := range f.Nodes {
		if n.ShowPredicate == "" {
			continue
		}
		if _, err := script.Compile(n.ShowPredicate); err != nil {
			return Flow{}, fmt.Errorf("node %d: invalid showPredicate: %w", n.OrderNumber, err)
		}
	}
	return f, nil
}

// ReadFile reads and decodes a flow document without compiling predicates
func ReadFile(path string) (Flow, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Flow{}, fmt.Errorf("failed to read flow: %w", err)
	}
	return Decode(content)
}

// Load reads and parses a flow document
func Load(path string) (Flow, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Flow{}, fmt.Errorf("failed to read flow: %w", err)
	}
	return Parse(content)
}

// Candidates returns the nodes that directly follow previous, in document order.
// previous 0 selects the opening nodes.
func (f Flow) Candidates(previous int64) []Node {
	var nodes []Node
	for _, n := range f.Nodes {
		if n.PreviousOrderNumber == previous {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Node returns the node with the given order number
func (f Flow) Node(orderNumber int64) (Node, bool) {
	for _, n := range f.Nodes {
		if n.OrderNumber == orderNumber {
			return n, true
		}
	}
	return Node{}, false
}
