package message

import (
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choice(correct, options, answer string) Record {
	return Record{
		ID:     "3",
		Kind:   KindMultiChoice,
		Answer: answer,
		Question: Question{
			OrderNumber:         3,
			PreviousOrderNumber: 2,
			Kind:                KindMultiChoice,
			Correct:             correct,
			Options:             options,
		},
	}
}

func TestNew_DerivesOptions(t *testing.T) {
	msg, err := New(choice("1||3", "a||b||c", "a||c"))
	require.NoError(t, err)

	want := []Option{
		{Text: "a", IsCorrected: true, IsSelected: true},
		{Text: "b", IsCorrected: false, IsSelected: false},
		{Text: "c", IsCorrected: true, IsSelected: true},
	}
	if diff := cmp.Diff(want, msg.Options); diff != "" {
		t.Errorf("Options mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, msg.AllCorrect())
	assert.True(t, msg.AnyCorrect())
	assert.False(t, msg.AllIncorrect())
	assert.False(t, msg.AnyIncorrect())
	assert.Equal(t, []any{1.0, 3.0}, msg.Selected())
	assert.Equal(t, int64(2), msg.PreviousMessageID)
}

func TestNew_Aggregates(t *testing.T) {
	tests := []struct {
		name         string
		rec          Record
		allCorrect   bool
		anyCorrect   bool
		allIncorrect bool
		anyIncorrect bool
	}{
		{
			name:       "exact answer",
			rec:        choice("2", "a||b||c", "b"),
			allCorrect: true, anyCorrect: true,
		},
		{
			name:       "partly wrong",
			rec:        choice("2", "a||b||c", "a||b"),
			anyCorrect: true, allIncorrect: true,
		},
		{
			name:         "every option wrong",
			rec:          choice("1", "a||b", "b"),
			allIncorrect: true, anyIncorrect: true,
		},
		{
			name:         "trims pieces",
			rec:          choice(" 1 || 2 ", " a || b ", "a || b"),
			allCorrect:   true,
			anyCorrect:   true,
			allIncorrect: false,
		},
		{
			name: "text message has no options",
			rec:  Record{ID: "1", Kind: KindText, Question: Question{Kind: KindText, Options: "a||b", Correct: "1"}},
		},
		{
			name: "choice without options text",
			rec:  choice("1", "", "a"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := New(tt.rec)
			require.NoError(t, err)
			assert.Equal(t, tt.allCorrect, msg.AllCorrect(), "AllCorrect")
			assert.Equal(t, tt.anyCorrect, msg.AnyCorrect(), "AnyCorrect")
			assert.Equal(t, tt.allIncorrect, msg.AllIncorrect(), "AllIncorrect")
			assert.Equal(t, tt.anyIncorrect, msg.AnyIncorrect(), "AnyIncorrect")
		})
	}
}

func TestNew_AbsentOptions(t *testing.T) {
	msg, err := New(Record{ID: "1", Kind: KindText, Answer: "hello"})
	require.NoError(t, err)

	assert.Nil(t, msg.Options)
	assert.False(t, msg.HasOptions())
	assert.False(t, msg.AllCorrect())
	assert.False(t, msg.AnyCorrect())
	assert.False(t, msg.AllIncorrect())
	assert.False(t, msg.AnyIncorrect())
	assert.Equal(t, []any{}, msg.Selected())
}

func TestNew_InvalidCorrectIndex(t *testing.T) {
	for _, correct := range []string{"x", "0", "1||-2"} {
		t.Run(correct, func(t *testing.T) {
			_, err := New(choice(correct, "a||b", "a"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid correct index")
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a", []string{"a"}},
		{"a || b||c ", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, Split(tt.in)); diff != "" {
			t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

// genChoice builds a choice record over options o1..oN with random
// correct and selected subsets
func genChoice() gopter.Gen {
	return gen.IntRange(1, 6).FlatMap(func(v interface{}) gopter.Gen {
		n := v.(int)
		return gopter.CombineGens(
			gen.SliceOfN(n, gen.Bool()),
			gen.SliceOfN(n, gen.Bool()),
		).Map(func(vals []interface{}) Record {
			correctMask, selectedMask := vals[0].([]bool), vals[1].([]bool)
			var options, correct, answer []string
			for i := 0; i < n; i++ {
				text := "o" + strconv.Itoa(i+1)
				options = append(options, text)
				if correctMask[i] {
					correct = append(correct, strconv.Itoa(i+1))
				}
				if selectedMask[i] {
					answer = append(answer, text)
				}
			}
			return choice(strings.Join(correct, Delimiter), strings.Join(options, Delimiter), strings.Join(answer, Delimiter))
		})
	}, reflect.TypeOf(Record{}))
}

func TestProperty_Aggregates(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("incorrect aggregates negate correct ones", prop.ForAll(
		func(rec Record) bool {
			msg, err := New(rec)
			if err != nil {
				return false
			}
			return msg.AllIncorrect() == !msg.AllCorrect() && msg.AnyIncorrect() == !msg.AnyCorrect()
		},
		genChoice(),
	))

	properties.Property("allCorrect implies anyCorrect", prop.ForAll(
		func(rec Record) bool {
			msg, err := New(rec)
			if err != nil {
				return false
			}
			return !msg.AllCorrect() || msg.AnyCorrect()
		},
		genChoice(),
	))

	properties.Property("selected lists the answered positions", prop.ForAll(
		func(rec Record) bool {
			msg, err := New(rec)
			if err != nil {
				return false
			}
			return len(msg.Selected()) == len(Split(rec.Answer))
		},
		genChoice(),
	))

	properties.TestingRun(t)
}
