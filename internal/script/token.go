package script

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind represents the lexical class of a token
type Kind int

const (
	KindString Kind = iota
	KindList
	KindWhere
	KindAnd
	KindOr
	KindInvoke
	KindAccess
	KindEqual
	KindMore
	KindLess
	KindNumber
	KindIdent
)

// Assoc is the associativity of an operator kind
type Assoc int

const (
	AssocLeft Assoc = iota
	AssocRight
)

// kindEntry describes one entry of the token catalog.
// precedence 0 marks an operand kind.
type kindEntry struct {
	name       string
	pattern    string
	precedence int
	assoc      Assoc
	arity      int
	postfix    bool
	funcPath   string
}

// catalog is indexed by Kind. Alternatives are tried in this order, so
// keyword operators must come before identifiers.
var catalog = [...]kindEntry{
	KindString: {name: "string", pattern: `"[^"]*"`},
	KindList:   {name: "list", pattern: `\[[^\]]*\]`},
	KindWhere:  {name: "where", pattern: `where(?P<field>\w+)`, precedence: 3, arity: 2, funcPath: "op.where"},
	KindAnd:    {name: "and", pattern: `and\b`, precedence: 2, arity: 2, funcPath: "op.and"},
	KindOr:     {name: "or", pattern: `or\b`, precedence: 1, arity: 2, funcPath: "op.or"},
	KindInvoke: {name: "invoke", pattern: `\(\)`, precedence: 5, arity: 1, postfix: true},
	KindAccess: {name: "access", pattern: `\.`, precedence: 6, arity: 2},
	KindEqual:  {name: "equal", pattern: `==`, precedence: 4, arity: 2, funcPath: "op.equal"},
	KindMore:   {name: "more", pattern: `>`, precedence: 4, arity: 2, funcPath: "op.more"},
	KindLess:   {name: "less", pattern: `<`, precedence: 4, arity: 2, funcPath: "op.less"},
	KindNumber: {name: "number", pattern: `-?\d+(?:\.\d+)?`},
	KindIdent:  {name: "identifier", pattern: `[a-z_]\w*`},
}

// tokenPattern is the combined catalog; group k<N> holds a match of Kind N.
var tokenPattern, kindGroups = compileCatalog()

var wherePattern = regexp.MustCompile(`^` + catalog[KindWhere].pattern + `$`)

func compileCatalog() (*regexp.Regexp, []int) {
	alternatives := make([]string, len(catalog))
	for k, entry := range catalog {
		alternatives[k] = "(?P<k" + strconv.Itoa(k) + ">" + entry.pattern + ")"
	}
	re := regexp.MustCompile(`^(?:` + strings.Join(alternatives, "|") + `)`)

	groups := make([]int, len(catalog))
	for k := range catalog {
		groups[k] = re.SubexpIndex("k" + strconv.Itoa(k))
	}
	return re, groups
}

// Token is a single lexical unit of a predicate
type Token struct {
	Text string
	Kind Kind
	Pos  int // byte offset in the source
}

func (k Kind) String() string {
	if int(k) < 0 || int(k) >= len(catalog) {
		return "unknown"
	}
	return catalog[k].name
}

// IsOperator reports whether tokens of this kind are operators
func (k Kind) IsOperator() bool {
	return k.Precedence() > 0
}

// Precedence returns the binding strength of the operator kind; higher binds tighter.
func (k Kind) Precedence() int {
	if int(k) < 0 || int(k) >= len(catalog) {
		return 0
	}
	return catalog[k].precedence
}

// Assoc returns the associativity of the operator kind
func (k Kind) Assoc() Assoc {
	return catalog[k].assoc
}

// Arity returns the number of operands the operator consumes
func (k Kind) Arity() int {
	return catalog[k].arity
}

// Postfix reports whether the operator follows its only operand
func (k Kind) Postfix() bool {
	return catalog[k].postfix
}

// FuncPath returns the environment path of the function implementing the
// operator. Access and invoke have none.
func (k Kind) FuncPath() Path {
	return NewPath(catalog[k].funcPath)
}

// Kinds returns every token kind in catalog order
func Kinds() []Kind {
	kinds := make([]Kind, len(catalog))
	for k := range catalog {
		kinds[k] = Kind(k)
	}
	return kinds
}
