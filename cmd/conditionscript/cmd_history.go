package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conditionscript/internal/store"
)

func (a *app) historyCmd() *cobra.Command {
	var (
		chatID     string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored chats, or the answers of one chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			var rows any
			if chatID == "" {
				chats, err := s.Chats(cmd.Context())
				if err != nil {
					return withCode(exitError, err)
				}
				rows = chats
				if !jsonOutput {
					for _, c := range chats {
						fmt.Fprintf(a.stdout, "%s\t%d\t%s\n", c.ChatID, c.Messages, c.LastSeen.Format(time.RFC3339))
					}
				}
			} else {
				messages, err := s.ListByChat(cmd.Context(), chatID)
				if err != nil {
					return withCode(exitError, err)
				}
				rows = messages
				if !jsonOutput {
					for _, m := range messages {
						fmt.Fprintf(a.stdout, "%s\t%d\t%s\t%s\n", m.ID, m.OrderNumber, m.Kind, m.Answer)
					}
				}
			}

			if jsonOutput {
				data, err := json.MarshalIndent(rows, "", "  ")
				if err != nil {
					return withCode(exitError, fmt.Errorf("failed to marshal history: %w", err))
				}
				fmt.Fprintln(a.stdout, string(data))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chatID, "chat", "", "list the answers of this chat")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print as JSON")
	return cmd
}

func (a *app) pruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete answers older than a duration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if olderThan <= 0 {
				return withCode(exitError, fmt.Errorf("--older-than must be positive"))
			}
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			n, err := s.Prune(cmd.Context(), olderThan)
			if err != nil {
				return withCode(exitError, err)
			}
			a.logger.Info("answers pruned", zap.Int("deleted", n), zap.Duration("olderThan", olderThan))
			fmt.Fprintf(a.stdout, "deleted %d answer(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 30*24*time.Hour, "age of the answers to delete")
	return cmd
}

func (a *app) forgetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forget <message-id>",
		Short: "Delete one stored answer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			msg, err := s.Load(cmd.Context(), args[0])
			if errors.Is(err, store.ErrNotFound) {
				return withCode(exitError, fmt.Errorf("message %s not found", args[0]))
			}
			if err != nil {
				return withCode(exitError, err)
			}
			if err := s.Delete(cmd.Context(), msg.ID); err != nil {
				return withCode(exitError, err)
			}
			fmt.Fprintf(a.stdout, "deleted %s (chat %s, node %d)\n", msg.ID, msg.ChatID, msg.OrderNumber)
			return nil
		},
	}
}
