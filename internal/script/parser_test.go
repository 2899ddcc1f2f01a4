package script

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var ignorePos = cmpopts.IgnoreFields(Token{}, "Pos")

func tok(text string, kind Kind) Token {
	return Token{Text: text, Kind: kind}
}

func ident(name string) ValueNode {
	return ValueNode{Tok: tok(name, KindIdent), Value: Path(name)}
}

func call(receiver Node, fn string) CommandNode {
	return CommandNode{
		Tok:   tok("()", KindInvoke),
		Right: CommandNode{Tok: tok(".", KindAccess), Left: receiver, Right: ident(fn)},
	}
}

func TestShuntingYard(t *testing.T) {
	tokens, err := Tokenize(`message whereId "3" and message.anyCorrect()`)
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}

	var got []string
	for _, tok := range ShuntingYard(tokens) {
		got = append(got, tok.Text)
	}

	want := []string{"message", `"3"`, "whereid", "message", "anycorrect", ".", "()", "and"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ShuntingYard() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_Shapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{
			name:  "where binding and accessor call",
			input: `message whereId "3" and message.anyCorrect()`,
			want: CommandNode{
				Tok: tok("and", KindAnd),
				Left: CommandNode{
					Tok:      tok("whereid", KindWhere),
					Left:     ident("message"),
					Right:    ValueNode{Tok: tok(`"3"`, KindString), Value: "3"},
					Variable: "message",
					Field:    "id",
				},
				Right: call(ident("message"), "anycorrect"),
			},
		},
		{
			name:  "chained negation",
			input: `message.anyCorrect().not()`,
			want:  call(call(ident("message"), "anycorrect"), "not"),
		},
		{
			name:  "list comparison",
			input: `message1.selected() == [1 ,3]`,
			want: CommandNode{
				Tok:   tok("==", KindEqual),
				Left:  call(ident("message1"), "selected"),
				Right: ValueNode{Tok: tok("[1 ,3]", KindList), Value: []any{1.0, 3.0}},
			},
		},
		{
			name:  "and binds tighter than or",
			input: `a or b and c`,
			want: CommandNode{
				Tok:  tok("or", KindOr),
				Left: ident("a"),
				Right: CommandNode{
					Tok:   tok("and", KindAnd),
					Left:  ident("b"),
					Right: ident("c"),
				},
			},
		},
		{
			name:  "comparison binds tighter than and",
			input: `score > 2 and flag == true`,
			want: CommandNode{
				Tok: tok("and", KindAnd),
				Left: CommandNode{
					Tok:   tok(">", KindMore),
					Left:  ident("score"),
					Right: ValueNode{Tok: tok("2", KindNumber), Value: 2.0},
				},
				Right: CommandNode{
					Tok:   tok("==", KindEqual),
					Left:  ident("flag"),
					Right: ValueNode{Tok: tok("true", KindIdent), Value: true},
				},
			},
		},
		{
			name:  "equal precedence groups left",
			input: `a and b and c`,
			want: CommandNode{
				Tok: tok("and", KindAnd),
				Left: CommandNode{
					Tok:   tok("and", KindAnd),
					Left:  ident("a"),
					Right: ident("b"),
				},
				Right: ident("c"),
			},
		},
		{
			name:  "dotted value path",
			input: `chat.owner.name`,
			want: CommandNode{
				Tok: tok(".", KindAccess),
				Left: CommandNode{
					Tok:   tok(".", KindAccess),
					Left:  ident("chat"),
					Right: ident("owner"),
				},
				Right: ident("name"),
			},
		},
		{
			name:  "mixed list literal",
			input: `["a", 2, false]`,
			want:  ValueNode{Tok: tok(`["a", 2, false]`, KindList), Value: []any{"a", 2.0, false}},
		},
		{
			name:  "empty list literal",
			input: `[]`,
			want:  ValueNode{Tok: tok(`[]`, KindList), Value: []any{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compile(tt.input)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got, ignorePos); diff != "" {
				t.Errorf("Compile() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLex bool
		wantErr string
	}{
		{name: "empty", input: "  ", wantErr: "empty predicate"},
		{name: "missing left operand", input: "and flag", wantErr: "operator 'and' expects 2 operand(s)"},
		{name: "missing right operand", input: "flag ==", wantErr: "operator 'equal' expects 2 operand(s)"},
		{name: "dangling operand", input: "flag other", wantErr: "unbalanced expression"},
		{name: "call without receiver", input: "anycorrect()", wantErr: "'()' must follow a dotted function name"},
		{name: "access without member", input: "message.()", wantErr: "operator 'access' expects 2 operand(s)"},
		{name: "where on literal", input: `"3" whereId "4"`, wantErr: "where expects a variable name"},
		{name: "where on call", input: `message.anycorrect() whereId "4"`, wantErr: "where expects a variable name"},
		{name: "bad list element", input: `[1, two]`, wantErr: "invalid list element 'two'"},
		{name: "lex failure", input: `flag & other`, wantLex: true, wantErr: "unexpected character '&'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.input)
			if err == nil {
				t.Fatalf("Compile() expected error containing %q", tt.wantErr)
			}
			if tt.wantLex && !errors.Is(err, ErrLex) {
				t.Errorf("Compile() error = %v, want ErrLex", err)
			}
			if !tt.wantLex && !errors.Is(err, ErrParse) {
				t.Errorf("Compile() error = %v, want ErrParse", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Compile() error = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_CaseInsensitive(t *testing.T) {
	upper, err := Compile(`MESSAGE WHEREID "3" AND MESSAGE.ANYCORRECT()`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	lower, err := Compile(`message whereId "3" and message.anyCorrect()`)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if diff := cmp.Diff(lower, upper); diff != "" {
		t.Errorf("case changed the tree (-lower +upper):\n%s", diff)
	}
}

// For A op1 B op2 C with op1, op2 in {and, or}, the root is the weaker
// operator, and equal operators group to the left, whatever the spacing.
func TestProperty_Precedence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genOp := gen.OneConstOf("and", "or")
	genSpace := gen.IntRange(1, 4).Map(func(n int) string { return strings.Repeat(" ", n) })

	properties.Property("logical operators group by precedence", prop.ForAll(
		func(op1, op2, s1, s2, s3, s4 string) bool {
			input := "a" + s1 + op1 + s2 + "b" + s3 + op2 + s4 + "c"
			node, err := Compile(input)
			if err != nil {
				t.Logf("Compile(%q) failed: %v", input, err)
				return false
			}

			root, ok := node.(CommandNode)
			if !ok {
				return false
			}

			groupLeft := op1 == op2 || op1 == "and"
			if groupLeft {
				left, ok := root.Left.(CommandNode)
				return ok && root.Tok.Text == op2 && left.Tok.Text == op1
			}
			right, ok := root.Right.(CommandNode)
			return ok && root.Tok.Text == op1 && right.Tok.Text == op2
		},
		genOp, genOp, genSpace, genSpace, genSpace, genSpace,
	))

	properties.TestingRun(t)
}

// Formatting a parsed tree and parsing it again yields the same tree.
func TestProperty_FormatRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("format then compile preserves the tree", prop.ForAll(
		func(predicate string) bool {
			compiled, err := Compile(predicate)
			if err != nil {
				t.Logf("Compile(%q) failed: %v", predicate, err)
				return false
			}

			formatted := Format(compiled)
			parsed, err := Compile(formatted)
			if err != nil {
				t.Logf("Compile(%q) failed: %v", formatted, err)
				return false
			}

			if diff := cmp.Diff(compiled, parsed, ignorePos); diff != "" {
				t.Logf("round-trip mismatch for %q:\n%s", formatted, diff)
				return false
			}
			return true
		},
		genPredicate(),
	))

	properties.TestingRun(t)
}
