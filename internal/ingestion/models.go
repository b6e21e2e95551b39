package ingestion

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Carrier event types accepted on the tracking feed
const (
	EventBookingConfirmed = "booking_confirmed"
	EventBLIssued         = "bl_issued"
	EventETAUpdated       = "eta_updated"
	EventCustomsCleared   = "customs_cleared"
	EventDelivered        = "delivered"
)

// TrackingEventMessage is one carrier event as published on the feed.
// Shipments are addressed by commercial reference; carriers do not know
// internal IDs.
type TrackingEventMessage struct {
	ReferenceNo   string    `json:"reference_no"`
	EventType     string    `json:"event_type"`
	OccurredAt    time.Time `json:"occurred_at"`
	BookingNumber string    `json:"booking_no,omitempty"`
	BLNumber      string    `json:"bl_no,omitempty"`
	ETA           string    `json:"eta,omitempty"`
	Source        string    `json:"source,omitempty"`
}

// EventRecord is the audit row written for every applied event
type EventRecord struct {
	Time          time.Time
	ShipmentID    uuid.UUID
	ReferenceNo   string
	EventType     string
	BookingNumber string
	BLNumber      string
	ETA           string
	Source        string
	StatusAfter   string
}

// ParseTrackingEvent parses a JSON payload into a TrackingEventMessage
func ParseTrackingEvent(payload []byte) (*TrackingEventMessage, error) {
	var msg TrackingEventMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, err
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now()
	}
	return &msg, nil
}
