package flow

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"conditionscript/internal/engine"
	"conditionscript/internal/message"
	"conditionscript/internal/report"
	"conditionscript/internal/runner"
	"conditionscript/internal/store"
)

// ErrNoNextNode is returned when no candidate node may be shown
var ErrNoNextNode = errors.New("no next node")

// MessageSource finds the answers a chat has given
type MessageSource interface {
	Latest(ctx context.Context, chatID string, orderNumber int64) (store.Message, error)
}

// Selector decides which node of a flow a chat sees next
type Selector struct {
	Flow     Flow
	Messages MessageSource
	Logger   *zap.Logger
	// Libs are loaded into every predicate run after the message libraries
	Libs []engine.Lib
}

// Next returns the first node following previous whose show predicate is
// empty or true. Predicate errors count as not satisfied. The results of
// every evaluated predicate are returned alongside.
func (s *Selector) Next(ctx context.Context, chatID string, previous int64) (Node, []report.Result, error) {
	logger := s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("chat", chatID), zap.Int64("previous", previous))

	var results []report.Result
	for _, node := range s.Flow.Candidates(previous) {
		if err := ctx.Err(); err != nil {
			return Node{}, results, err
		}

		if node.ShowPredicate == "" {
			logger.Debug("node selected without predicate", zap.Int64("orderNumber", node.OrderNumber))
			return node, results, nil
		}

		passed, err := s.evaluate(ctx, chatID, node.ShowPredicate)
		results = append(results, report.Result{
			OrderNumber: node.OrderNumber,
			Predicate:   node.ShowPredicate,
			Passed:      passed,
			Err:         err,
		})
		if err != nil {
			logger.Info("predicate not satisfied",
				zap.Int64("orderNumber", node.OrderNumber),
				zap.String("predicate", node.ShowPredicate),
				zap.String("errorKind", report.Classify(err)),
				zap.Error(err))
			continue
		}

		logger.Debug("predicate evaluated",
			zap.Int64("orderNumber", node.OrderNumber),
			zap.String("predicate", node.ShowPredicate),
			zap.Bool("result", passed))
		if passed {
			return node, results, nil
		}
	}
	return Node{}, results, fmt.Errorf("%w after %d", ErrNoNextNode, previous)
}

func (s *Selector) evaluate(ctx context.Context, chatID, predicate string) (bool, error) {
	opts := []runner.Option{
		runner.WithLogger(s.Logger),
		runner.WithLib(message.LookupLib(s.lookup(ctx, chatID))),
	}
	for _, lib := range s.Libs {
		opts = append(opts, runner.WithLib(lib))
	}

	r, err := runner.New(opts...)
	if err != nil {
		return false, err
	}
	return r.RunPredicate(predicate)
}

// lookup resolves a where id to the chat's latest answer to the question
// with that order number
func (s *Selector) lookup(ctx context.Context, chatID string) message.LookupFunc {
	return func(id string) (*message.PredicateMessage, error) {
		order, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, nil
		}

		stored, err := s.Messages.Latest(ctx, chatID, order)
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("load answer to node %d: %w", order, err)
		}

		question := message.Question{OrderNumber: order, Kind: stored.Kind}
		if node, ok := s.Flow.Node(order); ok {
			question = node.Question()
		}
		return message.New(message.Record{
			ID:       id,
			Kind:     stored.Kind,
			Answer:   stored.Answer,
			Question: question,
		})
	}
}
