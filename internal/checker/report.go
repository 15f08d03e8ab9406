package checker

import (
	"encoding/json"

	"github.com/veldlang/veld/internal/ast"
)

// ReportSchema versions the diagnostic JSON format.
const ReportSchema = "veld.diagnostic/v1"

// Report is the canonical structured form of a diagnostic, for tooling
// that consumes checker output as JSON. Spans are byte offsets
// [start, end) into the original source.
type Report struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Severity string         `json:"severity"` // "error" or "warning"
	Message  string         `json:"message"`
	Spans    []ast.Span     `json:"spans"`
	Data     map[string]any `json:"data,omitempty"`
}

// ErrorReport converts a TypeError to its Report form, attaching the
// structured payload diagnostics renderers care about.
func ErrorReport(err TypeError) *Report {
	report := &Report{
		Schema:   ReportSchema,
		Code:     err.Code(),
		Severity: "error",
		Message:  err.Error(),
		Spans:    err.Spans(),
	}
	switch err := err.(type) {
	case *TypesNotEqual:
		report.Data = map[string]any{
			"expected": err.Expected.String(),
			"actual":   err.Actual.String(),
		}
	case *KindsNotEqual:
		report.Data = map[string]any{
			"expected": err.Expected.String(),
			"actual":   err.Actual.String(),
		}
	case *InfiniteType:
		report.Data = map[string]any{
			"var":  err.Var,
			"type": err.InfiniteType.String(),
		}
	case *MatchNotExhaustive:
		report.Data = map[string]any{
			"missing_patterns": err.MissingPatterns,
		}
	case *RefutableFunctionBinder:
		report.Data = map[string]any{
			"missing_patterns": err.MissingPatterns,
		}
	case *ArgumentLengthMismatch:
		report.Data = map[string]any{"wanted": err.Wanted, "got": err.Got}
	case *TypeArgumentLengthMismatch:
		report.Data = map[string]any{"wanted": err.Wanted, "got": err.Got}
	case *NotAFunction:
		report.Data = map[string]any{"actual": err.ActualType.String()}
	case *TypeNotAFunction:
		report.Data = map[string]any{"actual": err.ActualKind.String()}
	}
	return report
}

// WarningReport converts a Warning to its Report form.
func WarningReport(warning Warning) *Report {
	return &Report{
		Schema:   ReportSchema,
		Code:     warning.Code(),
		Severity: "warning",
		Message:  warning.Message(),
		Spans:    warning.Spans(),
	}
}

// ToJSON renders the report as deterministic JSON.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}
