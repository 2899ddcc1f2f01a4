package main

import (
	"github.com/spf13/cobra"

	"conditionscript/internal/watch"
)

func (a *app) watchCmd() *cobra.Command {
	var jsonOutput, ciMode bool

	cmd := &cobra.Command{
		Use:   "watch [flow.yaml]",
		Short: "Re-check a flow whenever it changes",
		Long: `Runs check once, then again after every save of the flow file, until
interrupted. Failed checks are reported and watching continues.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.flowPath(args)
			if err != nil {
				return err
			}
			onChange := func() error { return a.check(path, jsonOutput, ciMode) }

			// the first pass reports problems but does not stop the watcher
			_ = onChange()

			w := watch.New(path, a.logger)
			if err := w.Run(cmd.Context(), onChange); err != nil {
				return withCode(exitError, err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "print failures as GitHub Actions annotations")
	return cmd
}
