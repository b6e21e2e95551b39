package status

import (
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

// Derived is a lifecycle stage computed from timestamped facts. No code path
// sets it directly on a shipment except the display field maintained by the
// service layer.
type Derived string

const (
	StatusPlanning          Derived = "planning"
	StatusDelayed           Derived = "delayed"
	StatusSailed            Derived = "sailed"
	StatusAwaitingClearance Derived = "awaiting_clearance"
	StatusPendingTransport  Derived = "pending_transport"
	StatusLoadedToFinal     Derived = "loaded_to_final"
	StatusQualityIssue      Derived = "quality_issue"
	StatusReceived          Derived = "received"
)

// Signals carries facts external to the shipment snapshot (incident and
// transport records live in their own tables). Passing them in keeps
// derivation pure and testable without a data-access dependency.
type Signals struct {
	QualityIssue      bool
	TransportAssigned bool
}

// Derivation is the computed stage with a short machine-independent reason
type Derivation struct {
	Status       Derived `json:"status"`
	Reason       string  `json:"reason"`
	Overridden   bool    `json:"overridden"`
	OverriddenBy string  `json:"overridden_by,omitempty"`
}

// HasOverride reports whether a human override suppresses derivation
func HasOverride(s *domainShipment.Snapshot) bool {
	return s.StatusOverrideBy != ""
}

// Derive computes the lifecycle stage from the snapshot's dated facts.
// Checks run in priority order, first match wins; each check assumes every
// prior one failed. An override returns the stored status and reason
// verbatim, never a recomputed value.
func Derive(s *domainShipment.Snapshot, now time.Time, sig Signals) Derivation {
	if HasOverride(s) {
		return Derivation{
			Status:       Derived(s.Status),
			Reason:       s.StatusReason,
			Overridden:   true,
			OverriddenBy: s.StatusOverrideBy,
		}
	}

	switch {
	case s.DeliveryConfirmedAt != nil:
		return Derivation{Status: StatusReceived, Reason: "delivery confirmed at warehouse"}
	case sig.QualityIssue:
		return Derivation{Status: StatusQualityIssue, Reason: "open quality incident"}
	case s.CustomsClearanceDate != nil:
		return Derivation{Status: StatusLoadedToFinal, Reason: "customs cleared, moving to final destination"}
	case sig.TransportAssigned:
		return Derivation{Status: StatusPendingTransport, Reason: "onward transport assigned, awaiting clearance"}
	case s.ETA != nil && !s.ETA.After(now):
		return Derivation{Status: StatusAwaitingClearance, Reason: "arrived, awaiting customs clearance"}
	case s.CarrierReference() != "" && s.ETA != nil && s.ETA.After(now):
		return Derivation{Status: StatusSailed, Reason: "carrier document issued, vessel under way"}
	case s.AgreedShippingDate != nil && s.AgreedShippingDate.Before(now) && s.CarrierReference() == "":
		return Derivation{Status: StatusDelayed, Reason: "agreed shipping date passed without carrier document"}
	default:
		return Derivation{Status: StatusPlanning, Reason: "no shipping facts recorded yet"}
	}
}

// legacyStatuses maps values written by the previous system onto the
// canonical set. Display code must go through Canonical rather than
// duplicating this table.
var legacyStatuses = map[string]Derived{
	"booked":    StatusPlanning,
	"gate_in":   StatusPlanning,
	"loaded":    StatusSailed,
	"arrived":   StatusAwaitingClearance,
	"delivered": StatusReceived,
	"invoiced":  StatusReceived,
}

var canonicalStatuses = map[Derived]struct{}{
	StatusPlanning:          {},
	StatusDelayed:           {},
	StatusSailed:            {},
	StatusAwaitingClearance: {},
	StatusPendingTransport:  {},
	StatusLoadedToFinal:     {},
	StatusQualityIssue:      {},
	StatusReceived:          {},
}

// Canonical maps any stored status value, legacy included, onto the
// canonical enumeration for display. Unknown values fall back to planning.
func Canonical(raw string) Derived {
	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped
	}
	if _, ok := canonicalStatuses[Derived(raw)]; ok {
		return Derived(raw)
	}
	return StatusPlanning
}

// IsCanonical reports whether a value belongs to the canonical enumeration
func IsCanonical(raw string) bool {
	_, ok := canonicalStatuses[Derived(raw)]
	return ok
}
