package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"conditionscript/internal/engine"
	"conditionscript/internal/message"
	"conditionscript/internal/report"
	"conditionscript/internal/runner"
	"conditionscript/internal/script"
)

// fixture is an eval --messages document
type fixture struct {
	Messages []fixtureMessage `yaml:"messages"`
	Vars     map[string]any   `yaml:"vars"`
}

type fixtureMessage struct {
	ID       string          `yaml:"id"`
	Kind     message.Kind    `yaml:"kind"`
	Answer   string          `yaml:"answer"`
	Question fixtureQuestion `yaml:"question"`
}

type fixtureQuestion struct {
	OrderNumber         int64        `yaml:"orderNumber"`
	PreviousOrderNumber int64        `yaml:"previousOrderNumber"`
	Kind                message.Kind `yaml:"kind"`
	Options             string       `yaml:"options"`
	Correct             string       `yaml:"correct"`
}

func (a *app) evalCmd() *cobra.Command {
	var (
		messagesPath string
		tree         bool
		vars         []string
	)

	cmd := &cobra.Command{
		Use:   "eval <predicate>",
		Short: "Evaluate one predicate",
		Long: `Evaluates a predicate against the messages of a YAML fixture and prints
the result. A false result exits with status 2.

Fixture:
  messages:
    - id: "3"
      kind: multi_choice
      answer: a||c
      question: {orderNumber: 3, kind: multi_choice, options: a||b||c, correct: 1||3}
  vars:
    vip: true`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			predicate := args[0]

			libs, err := a.evalLibs(messagesPath, vars)
			if err != nil {
				return err
			}
			opts := []runner.Option{runner.WithLogger(a.logger)}
			for _, lib := range libs {
				opts = append(opts, runner.WithLib(lib))
			}
			r, err := runner.New(opts...)
			if err != nil {
				return withCode(exitError, err)
			}

			if tree {
				node, err := r.Compile(predicate)
				if err != nil {
					return withCode(exitError, fmt.Errorf("%s: %w", report.Classify(err), err))
				}
				fmt.Fprintln(a.stdout, script.Format(node))
				fmt.Fprint(a.stdout, script.FormatTree(node))
			}

			value, err := r.Run(predicate)
			if err != nil {
				return withCode(exitError, fmt.Errorf("%s: %w", report.Classify(err), err))
			}
			fmt.Fprintln(a.stdout, engine.Text(value))

			if b, ok := value.(bool); ok && !b {
				return withCode(exitUnsatisfied, nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&messagesPath, "messages", "", "YAML fixture with messages and variables")
	cmd.Flags().BoolVar(&tree, "tree", false, "print the parsed expression tree")
	cmd.Flags().StringArrayVar(&vars, "var", nil, "bind a value, name=value (value is parsed as YAML)")
	return cmd
}

// evalLibs builds the libraries for eval from the fixture file and --var flags
func (a *app) evalLibs(messagesPath string, vars []string) ([]engine.Lib, error) {
	var libs []engine.Lib

	if messagesPath != "" {
		fx, err := readFixture(messagesPath)
		if err != nil {
			return nil, withCode(exitLoad, err)
		}
		msgs, err := fx.predicateMessages()
		if err != nil {
			return nil, withCode(exitLoad, err)
		}
		a.logger.Debug("fixture loaded", zap.String("path", messagesPath), zap.Int("messages", len(msgs)))
		libs = append(libs, message.CollectionLib(msgs))
		if len(fx.Vars) > 0 {
			libs = append(libs, varsLib(fx.Vars))
		}
	}

	if len(vars) > 0 {
		bound := make(map[string]any, len(vars))
		for _, v := range vars {
			name, raw, ok := strings.Cut(v, "=")
			if !ok || name == "" {
				return nil, withCode(exitError, fmt.Errorf("invalid --var %q: want name=value", v))
			}
			var value any
			if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
				return nil, withCode(exitError, fmt.Errorf("invalid --var %q: %w", v, err))
			}
			bound[name] = value
		}
		libs = append(libs, varsLib(bound))
	}
	return libs, nil
}

func readFixture(path string) (fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fixture{}, fmt.Errorf("failed to read messages: %w", err)
	}
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return fixture{}, fmt.Errorf("invalid messages %s: %w", path, err)
	}
	return fx, nil
}

func (fx fixture) predicateMessages() (message.Messages, error) {
	msgs := make(message.Messages, 0, len(fx.Messages))
	for i, m := range fx.Messages {
		q := m.Question
		if q.Kind == "" {
			q.Kind = m.Kind
		}
		msg, err := message.New(message.Record{
			ID:     m.ID,
			Kind:   m.Kind,
			Answer: m.Answer,
			Question: message.Question{
				OrderNumber:         q.OrderNumber,
				PreviousOrderNumber: q.PreviousOrderNumber,
				Kind:                q.Kind,
				Options:             q.Options,
				Correct:             q.Correct,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("message %d (%s): %w", i+1, m.ID, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// varsLib binds plain values by lower-cased name, since predicates are
// lower-cased before lexing
func varsLib(vars map[string]any) engine.Lib {
	lib := make(engine.Lib, 0, len(vars))
	for name, value := range vars {
		lib = append(lib, engine.Binding{Key: strings.ToLower(name), Value: value})
	}
	return lib
}
