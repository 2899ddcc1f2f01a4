package flow

import (
	"conditionscript/internal/report"
	"conditionscript/internal/script"
)

// Check compiles every show predicate of f. Nodes without a predicate pass.
func Check(f Flow) []report.Result {
	results := make([]report.Result, 0, len(f.Nodes))
	for _, n := range f.Nodes {
		result := report.Result{OrderNumber: n.OrderNumber, Predicate: n.ShowPredicate, Passed: true}
		if n.ShowPredicate != "" {
			if _, err := script.Compile(n.ShowPredicate); err != nil {
				result.Passed = false
				result.Err = err
			}
		}
		results = append(results, result)
	}
	return results
}
