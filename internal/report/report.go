package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"conditionscript/internal/engine"
	"conditionscript/internal/message"
	"conditionscript/internal/runner"
	"conditionscript/internal/script"
)

// Result is the outcome of compiling or evaluating one node's predicate.
// Passed is false both for predicates that evaluated to false and for
// predicates that failed; only the latter carry Err.
type Result struct {
	OrderNumber int64
	Predicate   string
	Passed      bool
	Err         error
}

// Report is the JSON output format
type Report struct {
	Results     []ResultJSON `json:"results"`
	AllPassed   bool         `json:"allPassed"`
	FailedCount int          `json:"failedCount"`
}

// ResultJSON is a single result in JSON format
type ResultJSON struct {
	OrderNumber int64  `json:"orderNumber"`
	Predicate   string `json:"predicate"`
	Passed      bool   `json:"passed"`
	Error       string `json:"error,omitempty"`
	ErrorKind   string `json:"errorKind,omitempty"`
}

// Classify names the kind of a predicate error, or "" for nil
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, script.ErrLex):
		return "lex"
	case errors.Is(err, script.ErrParse):
		return "parse"
	case errors.Is(err, engine.ErrFunctionNotFound):
		return "function_not_found"
	case errors.Is(err, engine.ErrValueNotFound):
		return "value_not_found"
	case errors.Is(err, engine.ErrMalformedNode):
		return "malformed_node"
	case errors.Is(err, engine.ErrInvalidOperand):
		return "invalid_operand"
	case errors.Is(err, message.ErrMessageNotFound):
		return "message_not_found"
	case errors.Is(err, message.ErrUnsupportedField):
		return "unsupported_field"
	case errors.Is(err, runner.ErrNotBoolean):
		return "not_boolean"
	default:
		return "internal"
	}
}

// FormatFailure formats one failed result for terminal output
func FormatFailure(r Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("PREDICATE ERROR: node %d\n", r.OrderNumber))
	sb.WriteString(fmt.Sprintf("  Predicate: %s\n", r.Predicate))
	sb.WriteString(fmt.Sprintf("  Kind: %s\n", Classify(r.Err)))
	sb.WriteString(fmt.Sprintf("  Reason: %v\n", r.Err))
	return sb.String()
}

// FormatCLI formats every failed result for terminal output.
// It returns "" when nothing failed.
func FormatCLI(results []Result) string {
	failures := Failures(results)
	if len(failures) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Predicate check failed: %d error(s)\n\n", len(failures)))
	for _, r := range failures {
		sb.WriteString(FormatFailure(r))
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatCI formats failed results as GitHub Actions error annotations on file
func FormatCI(results []Result, file string) string {
	failures := Failures(results)
	if len(failures) == 0 {
		return ""
	}

	var sb strings.Builder
	for _, r := range failures {
		sb.WriteString(fmt.Sprintf("::error file=%s::node %d: %s: %v\n", file, r.OrderNumber, Classify(r.Err), r.Err))
	}
	sb.WriteString(fmt.Sprintf("\nPredicate check failed for %s: %d error(s)\n", file, len(failures)))
	return sb.String()
}

// FormatJSON formats every result as JSON
func FormatJSON(results []Result) (string, error) {
	report := Report{
		Results:   make([]ResultJSON, 0, len(results)),
		AllPassed: true,
	}

	for _, r := range results {
		item := ResultJSON{
			OrderNumber: r.OrderNumber,
			Predicate:   r.Predicate,
			Passed:      r.Passed,
			ErrorKind:   Classify(r.Err),
		}
		if r.Err != nil {
			item.Error = r.Err.Error()
			report.AllPassed = false
			report.FailedCount++
		}
		report.Results = append(report.Results, item)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal predicate results: %w", err)
	}
	return string(data), nil
}

// HasFailures reports whether any result carries an error
func HasFailures(results []Result) bool {
	for _, r := range results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Failures returns only the results that carry an error
func Failures(results []Result) []Result {
	var failures []Result
	for _, r := range results {
		if r.Err != nil {
			failures = append(failures, r)
		}
	}
	return failures
}
