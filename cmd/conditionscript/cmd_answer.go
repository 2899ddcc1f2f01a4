package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conditionscript/internal/flow"
	"conditionscript/internal/message"
	"conditionscript/internal/store"
)

func (a *app) answerCmd() *cobra.Command {
	var (
		flowFile string
		chatID   string
		order    int64
		answer   string
	)

	cmd := &cobra.Command{
		Use:   "answer",
		Short: "Record a chat's answer to a flow node",
		Long: `Stores the answer given in a chat to the node with --order. Choice
answers list the selected option texts separated by "||".`,
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
			node, ok := f.Node(order)
			if !ok {
				return withCode(exitError, fmt.Errorf("flow %q has no node %d", f.Name, order))
			}
			if _, err := message.DeriveOptions(node.Question(), answer); err != nil {
				return withCode(exitError, fmt.Errorf("node %d: %w", order, err))
			}

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			saved, err := s.Save(cmd.Context(), store.Message{
				ChatID:      chatID,
				OrderNumber: order,
				Kind:        node.Kind,
				Answer:      answer,
			})
			if err != nil {
				return withCode(exitError, err)
			}
			a.logger.Info("answer recorded",
				zap.String("id", saved.ID),
				zap.String("chat", chatID),
				zap.Int64("orderNumber", order))
			fmt.Fprintln(a.stdout, saved.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&flowFile, "flow", "", "flow document (default from config)")
	cmd.Flags().StringVar(&chatID, "chat", "", "chat id")
	cmd.Flags().Int64Var(&order, "order", 0, "order number of the answered node")
	cmd.Flags().StringVar(&answer, "answer", "", `answer text; choices separated by "||"`)
	_ = cmd.MarkFlagRequired("chat")
	_ = cmd.MarkFlagRequired("order")
	return cmd
}
