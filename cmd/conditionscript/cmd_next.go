package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"conditionscript/internal/flow"
	"conditionscript/internal/report"
)

func (a *app) nextCmd() *cobra.Command {
	var (
		flowFile   string
		chatID     string
		after      int64
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Select the node a chat sees next",
		Long: `Evaluates the show predicates of the nodes following --after, in flow
order, against the chat's stored answers. The first node whose predicate is
empty or true is printed. No visible node exits with status 2.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.flowPath([]string{flowFile})
			if err != nil {
				return err
			}
			f, err := flow.Load(path)
			if err != nil {
				return withCode(exitLoad, err)
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			sel := &flow.Selector{Flow: f, Messages: s, Logger: a.logger}
			node, results, err := sel.Next(cmd.Context(), chatID, after)

			if jsonOutput {
				out, jerr := report.FormatJSON(results)
				if jerr != nil {
					return withCode(exitError, jerr)
				}
				fmt.Fprintln(a.stdout, out)
			}

			if errors.Is(err, flow.ErrNoNextNode) {
				fmt.Fprintln(a.stderr, err)
				return withCode(exitUnsatisfied, nil)
			}
			if err != nil {
				return withCode(exitError, err)
			}

			if !jsonOutput {
				fmt.Fprintf(a.stdout, "%d\t%s\n", node.OrderNumber, node.Text)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flowFile, "flow", "", "flow document (default from config)")
	cmd.Flags().StringVar(&chatID, "chat", "", "chat id")
	cmd.Flags().Int64Var(&after, "after", 0, "order number of the last shown node; 0 selects the opening node")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print evaluated predicates as JSON")
	_ = cmd.MarkFlagRequired("chat")
	return cmd
}
