package ctypes

import (
	"fmt"
	"strings"
)

// Severity is the urgency of a recoverable CalculationError.
// Unrecoverable conditions never become a CalculationError — they are
// returned as a plain Go error and abort the run.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Category groups CalculationErrors for filtering and reporting.
type Category string

const (
	CategoryDataQuality       Category = "data_quality"
	CategoryBusinessRule      Category = "business_rule"
	CategorySchemaValidation  Category = "schema_validation"
	CategoryConfiguration     Category = "configuration"
	CategoryCalculation       Category = "calculation"
	CategoryHierarchy         Category = "hierarchy"
	CategoryCRM               Category = "crm"
)

// CalculationError is an immutable record of a recoverable issue
// encountered during a pipeline run. Errors accumulate; they never cause a
// stage to raise an exception for a business condition.
type CalculationError struct {
	Code                   string
	Message                string
	Severity               Severity
	Category               Category
	ExposureReference      string
	CounterpartyReference  string
	RegulatoryReference    string
	FieldName              string
	ExpectedValue          string
	ActualValue            string
}

// New builds a CalculationError with the required fields; optional fields
// are set afterwards via the With* helpers for readable call sites.
func New(code, message string, severity Severity, category Category) CalculationError {
	return CalculationError{Code: code, Message: message, Severity: severity, Category: category}
}

// WithExposure attaches the exposure reference the error concerns.
func (e CalculationError) WithExposure(ref string) CalculationError {
	e.ExposureReference = ref
	return e
}

// WithCounterparty attaches the counterparty reference the error concerns.
func (e CalculationError) WithCounterparty(ref string) CalculationError {
	e.CounterpartyReference = ref
	return e
}

// WithRegulatoryReference attaches a stable citation (e.g. "CRR Art. 166(8)").
func (e CalculationError) WithRegulatoryReference(ref string) CalculationError {
	e.RegulatoryReference = ref
	return e
}

// WithField attaches the field name plus expected/actual values.
func (e CalculationError) WithField(name, expected, actual string) CalculationError {
	e.FieldName = name
	e.ExpectedValue = expected
	e.ActualValue = actual
	return e
}

// String renders a human-readable one-line summary, matching the pipe-joined
// format the original error contract used.
func (e CalculationError) String() string {
	parts := []string{fmt.Sprintf("[%s] %s: %s", e.Code, strings.ToUpper(string(e.Severity)), e.Message)}
	if e.ExposureReference != "" {
		parts = append(parts, "Exposure: "+e.ExposureReference)
	}
	if e.CounterpartyReference != "" {
		parts = append(parts, "Counterparty: "+e.CounterpartyReference)
	}
	if e.RegulatoryReference != "" {
		parts = append(parts, "Ref: "+e.RegulatoryReference)
	}
	return strings.Join(parts, " | ")
}

// Errors is an accumulator of CalculationErrors, passed by value between
// stages and merged by the orchestrator.
type Errors []CalculationError

// Add appends one or more errors and returns the extended slice, allowing
// `errs = errs.Add(...)` call sites without a pointer receiver.
func (errs Errors) Add(more...CalculationError) Errors {
	return append(errs, more...)
}

// HasErrors reports whether any entry is at Error or Critical severity.
func (errs Errors) HasErrors() bool {
	for _, e := range errs {
		if e.Severity == SeverityError || e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// HasCritical reports whether any entry is Critical severity, which per
// policy terminates the pipeline and returns a partial bundle.
func (errs Errors) HasCritical() bool {
	for _, e := range errs {
		if e.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// ByCategory filters the accumulator to one category.
func (errs Errors) ByCategory(c Category) Errors {
	out := make(Errors, 0, len(errs))
	for _, e := range errs {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}
