package engine

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"conditionscript/internal/script"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"numbers across types", 3, 3.0, true},
		{"different numbers", 3.0, 3.5, false},
		{"strings", "a", "a", true},
		{"string vs number", "3", 3.0, false},
		{"bools", true, true, true},
		{"bool vs string", true, "true", false},
		{"lists element-wise", []any{1.0, 3.0}, []any{1, int64(3)}, true},
		{"lists differ in length", []any{1.0}, []any{1.0, 3.0}, false},
		{"nested lists", []any{[]any{"a"}}, []any{[]any{"a"}}, true},
		{"nil", nil, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name    string
		a, b    any
		want    int
		wantErr bool
	}{
		{"numbers", 2.0, 1, 1, false},
		{"strings", "a", "b", -1, false},
		{"equal", 4, 4.0, 0, false},
		{"mixed", "a", 1.0, 0, true},
		{"bool", true, false, 0, true},
		{"list", []any{}, []any{}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compare("more", tt.a, tt.b)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOperand) {
					t.Errorf("Compare() error = %v, want ErrInvalidOperand", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Compare() unexpected error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"a b", "a b"},
		{2.0, "2"},
		{2.5, "2.5"},
		{-3, "-3"},
		{true, "true"},
		{script.Path("message.id"), "message.id"},
		{[]any{1.0, "x", false}, `[1, "x", false]`},
		{nil, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := Text(tt.in); got != tt.want {
				t.Errorf("Text(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// Equality is reflexive and symmetric over the literal value space.
func TestProperty_EqualSymmetry(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	genValue := gen.OneGenOf(
		gen.Float64Range(-10, 10).Map(func(f float64) any { return f }),
		gen.IntRange(-10, 10).Map(func(n int) any { return n }),
		gen.AlphaString().Map(func(s string) any { return s }),
		gen.Bool().Map(func(b bool) any { return b }),
		gen.SliceOfN(2, gen.IntRange(0, 3)).Map(func(ns []int) any {
			items := make([]any, len(ns))
			for i, n := range ns {
				items[i] = float64(n)
			}
			return items
		}),
	)

	properties.Property("Equal is reflexive", prop.ForAll(
		func(a any) bool { return Equal(a, a) },
		genValue,
	))

	properties.Property("Equal is symmetric", prop.ForAll(
		func(a, b any) bool { return Equal(a, b) == Equal(b, a) },
		genValue, genValue,
	))

	properties.TestingRun(t)
}
