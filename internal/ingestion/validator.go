package ingestion

import (
	"fmt"
	"time"
)

// ValidationError represents a validation error on an incoming event
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.Message)
}

const etaLayout = "2006-01-02"

var knownEventTypes = map[string]struct{}{
	EventBookingConfirmed: {},
	EventBLIssued:         {},
	EventETAUpdated:       {},
	EventCustomsCleared:   {},
	EventDelivered:        {},
}

// ValidateTrackingEvent checks that an event carries everything needed to
// apply it. Events that fail here are counted and dropped, never applied
// half-way.
func ValidateTrackingEvent(msg *TrackingEventMessage) error {
	if msg.ReferenceNo == "" {
		return &ValidationError{Field: "reference_no", Message: "reference_no is required"}
	}
	if msg.EventType == "" {
		return &ValidationError{Field: "event_type", Message: "event_type is required"}
	}
	if _, ok := knownEventTypes[msg.EventType]; !ok {
		return &ValidationError{Field: "event_type", Message: fmt.Sprintf("unknown event type %q", msg.EventType)}
	}
	if msg.OccurredAt.IsZero() {
		return &ValidationError{Field: "occurred_at", Message: "occurred_at is required"}
	}
	if msg.OccurredAt.After(time.Now().Add(time.Hour)) {
		return &ValidationError{Field: "occurred_at", Message: "occurred_at is in the future"}
	}

	switch msg.EventType {
	case EventBookingConfirmed:
		if msg.BookingNumber == "" {
			return &ValidationError{Field: "booking_no", Message: "booking_no is required for booking_confirmed"}
		}
	case EventBLIssued:
		if msg.BLNumber == "" {
			return &ValidationError{Field: "bl_no", Message: "bl_no is required for bl_issued"}
		}
	case EventETAUpdated:
		if msg.ETA == "" {
			return &ValidationError{Field: "eta", Message: "eta is required for eta_updated"}
		}
		if _, err := time.Parse(etaLayout, msg.ETA); err != nil {
			return &ValidationError{Field: "eta", Message: "eta must be a YYYY-MM-DD date"}
		}
	}

	return nil
}
