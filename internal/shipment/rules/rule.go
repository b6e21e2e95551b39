package rules

import (
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

// Severity classifies an issue as blocking or advisory
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one triggered rule, produced fresh on every evaluation
type Issue struct {
	ID       string            `json:"id"`
	Severity Severity          `json:"severity"`
	Field    string            `json:"field,omitempty"`
	Message  string            `json:"message"`
	Details  map[string]string `json:"details,omitempty"`
}

// Detail is a message builder's output
type Detail struct {
	Message string
	Details map[string]string
}

// Rule pairs a predicate with a message builder. Check must be side-effect
// free and independent of other rules; Describe recomputes the same derived
// numbers Check used so displayed figures always match the trigger condition.
type Rule struct {
	ID       string
	Severity Severity
	Field    string
	Check    func(s *domainShipment.Snapshot, now time.Time) bool
	Describe func(s *domainShipment.Snapshot, now time.Time) Detail
}

// Result groups triggered issues by severity. Valid is true iff no error
// rule fired; warnings never block validity.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

func (r *Rule) issue(s *domainShipment.Snapshot, now time.Time) Issue {
	detail := r.Describe(s, now)
	return Issue{
		ID:       r.ID,
		Severity: r.Severity,
		Field:    r.Field,
		Message:  detail.Message,
		Details:  detail.Details,
	}
}
