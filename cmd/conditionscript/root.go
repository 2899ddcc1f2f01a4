package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conditionscript/internal/config"
	"conditionscript/internal/logging"
	"conditionscript/internal/store"
)

// app holds the state shared by every subcommand of one run
type app struct {
	environ []string
	stdout  io.Writer
	stderr  io.Writer

	configPath string
	logLevel   string
	logFormat  string
	database   string

	cfg    config.Config
	logger *zap.Logger
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "conditionscript",
		Short: "Evaluate show predicates of training chat flows",
		Long: `conditionscript evaluates the predicate language that decides which
question of a training chat is shown next.

Predicates look like:
  message whereId "3" and message.allCorrect()`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultFile+")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: json or console")
	flags.StringVar(&a.database, "database", "", "answer store path")

	root.AddCommand(
		a.evalCmd(),
		a.checkCmd(),
		a.nextCmd(),
		a.answerCmd(),
		a.historyCmd(),
		a.pruneCmd(),
		a.forgetCmd(),
		a.watchCmd(),
	)
	return root
}

// setup loads configuration and builds the logger. Flags override the
// config file and environment.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.environ)
	if err != nil {
		return withCode(exitLoad, err)
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if a.database != "" {
		cfg.Database = a.database
	}
	if err := cfg.Validate(); err != nil {
		return withCode(exitError, err)
	}

	logger, err := logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return withCode(exitError, err)
	}
	a.cfg = cfg
	a.logger = logger.With(zap.String("command", cmd.Name()))
	return nil
}

// openStore opens the configured answer store
func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.cfg.Database)
	if err != nil {
		return nil, withCode(exitLoad, err)
	}
	a.logger.Debug("store opened", zap.String("path", s.Path()))
	return s, nil
}

// flowPath returns the positional flow argument or the configured default
func (a *app) flowPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.cfg.Flow != "" {
		return a.cfg.Flow, nil
	}
	return "", withCode(exitError, fmt.Errorf("no flow given and no flow configured"))
}
