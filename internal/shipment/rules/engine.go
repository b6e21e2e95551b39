package rules

import (
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

// Validate evaluates the full catalog against a snapshot. Error rules run
// first, then warning rules, each in catalog order. The snapshot is never
// mutated; the returned issues are freshly built on every call.
func Validate(s *domainShipment.Snapshot, now time.Time) Result {
	return evaluate(s, now, nil)
}

// ValidateSubset evaluates only the rules whose ID appears in ruleIDs.
// Unknown IDs are ignored; the result is always a restriction of Validate's.
func ValidateSubset(s *domainShipment.Snapshot, ruleIDs []string, now time.Time) Result {
	eligible := make(map[string]struct{}, len(ruleIDs))
	for _, id := range ruleIDs {
		eligible[id] = struct{}{}
	}
	return evaluate(s, now, eligible)
}

func evaluate(s *domainShipment.Snapshot, now time.Time, eligible map[string]struct{}) Result {
	result := Result{
		Errors:   []Issue{},
		Warnings: []Issue{},
	}

	for i := range errorRules {
		rule := &errorRules[i]
		if eligible != nil {
			if _, ok := eligible[rule.ID]; !ok {
				continue
			}
		}
		if rule.Check(s, now) {
			result.Errors = append(result.Errors, rule.issue(s, now))
		}
	}

	for i := range warningRules {
		rule := &warningRules[i]
		if eligible != nil {
			if _, ok := eligible[rule.ID]; !ok {
				continue
			}
		}
		if rule.Check(s, now) {
			result.Warnings = append(result.Warnings, rule.issue(s, now))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// RuleIDs returns every catalog rule ID in evaluation order
func RuleIDs() []string {
	ids := make([]string, 0, len(errorRules)+len(warningRules))
	for _, rule := range errorRules {
		ids = append(ids, rule.ID)
	}
	for _, rule := range warningRules {
		ids = append(ids, rule.ID)
	}
	return ids
}
