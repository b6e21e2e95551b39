package rules

import (
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

// Section identifies one wizard step whose feedback is scoped to a fixed
// list of rules. The lists are part of the API contract: the frontend keys
// its banners to them, so membership must stay stable.
type Section string

const (
	SectionCommercial Section = "commercial"
	SectionLogistics  Section = "logistics"
	SectionFinancials Section = "financials"
	SectionProducts   Section = "products"
)

var sectionRules = map[Section][]string{
	SectionCommercial: {
		"lc-number-required",
		"lc-expiry-before-eta",
		"negative-price",
		"price-too-low",
		"price-too-high",
	},
	SectionLogistics: {
		"date-etd-after-eta",
		"date-clearance-before-eta",
		"eta-too-far-future",
		"etd-too-far-past",
		"weight-required",
		"container-weight-too-low",
		"container-weight-too-high",
		"truck-weight-unusual",
	},
	SectionFinancials: {
		"negative-price",
		"price-too-low",
		"price-too-high",
		"value-mismatch",
	},
	SectionProducts: {
		"bag-weight-unusual",
		"value-mismatch",
		"weight-required",
	},
}

// ParseSection returns the Section for a raw identifier
func ParseSection(raw string) (Section, bool) {
	section := Section(raw)
	_, ok := sectionRules[section]
	return section, ok
}

// SectionRuleIDs returns the fixed rule list for a section
func SectionRuleIDs(section Section) ([]string, bool) {
	ids, ok := sectionRules[section]
	return ids, ok
}

// ValidateSection runs the catalog restricted to one wizard step. An unknown
// section yields an empty, valid result.
func ValidateSection(s *domainShipment.Snapshot, section Section, now time.Time) Result {
	ids, ok := sectionRules[section]
	if !ok {
		return Result{Valid: true, Errors: []Issue{}, Warnings: []Issue{}}
	}
	return ValidateSubset(s, ids, now)
}
