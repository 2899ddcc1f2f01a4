package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conditionscript/internal/flow"
	"conditionscript/internal/report"
)

func (a *app) checkCmd() *cobra.Command {
	var jsonOutput, ciMode bool

	cmd := &cobra.Command{
		Use:   "check [flow.yaml]",
		Short: "Validate a flow and compile every show predicate",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.flowPath(args)
			if err != nil {
				return err
			}
			ci := ciMode || envBool(a.environ, "CI")
			return a.check(path, jsonOutput, ci)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&ciMode, "ci", false, "print failures as GitHub Actions annotations")
	return cmd
}

// check runs one validation pass over the flow at path
func (a *app) check(path string, jsonOutput, ci bool) error {
	f, err := flow.ReadFile(path)
	if err != nil {
		return withCode(exitLoad, err)
	}

	results := flow.Check(f)
	a.logger.Debug("flow checked",
		zap.String("flow", f.Name),
		zap.Int("nodes", len(f.Nodes)),
		zap.Int("failures", len(report.Failures(results))))

	if jsonOutput {
		out, err := report.FormatJSON(results)
		if err != nil {
			return withCode(exitError, err)
		}
		fmt.Fprintln(a.stdout, out)
	}

	if report.HasFailures(results) {
		if ci {
			fmt.Fprint(a.stderr, report.FormatCI(results, path))
		} else if !jsonOutput {
			fmt.Fprint(a.stderr, report.FormatCLI(results))
		}
		return withCode(exitError, nil)
	}

	if !jsonOutput {
		fmt.Fprintf(a.stdout, "flow %q: %d node(s) ok\n", f.Name, len(f.Nodes))
	}
	return nil
}

// envBool reports whether name is set to a true value in environ
func envBool(environ []string, name string) bool {
	for _, entry := range environ {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key != name {
			continue
		}
		b, err := strconv.ParseBool(value)
		return err == nil && b
	}
	return false
}
