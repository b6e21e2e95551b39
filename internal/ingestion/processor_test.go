package ingestion

import (
	"testing"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

func TestApplyFacts(t *testing.T) {
	occurred := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	t.Run("booking confirmed", func(t *testing.T) {
		sh := &domainShipment.Shipment{}
		applyFacts(sh, &TrackingEventMessage{
			EventType:     EventBookingConfirmed,
			BookingNumber: "BKG-1122",
			OccurredAt:    occurred,
		})
		if sh.BookingNumber != "BKG-1122" {
			t.Errorf("booking number not applied: %q", sh.BookingNumber)
		}
	})

	t.Run("bl issued", func(t *testing.T) {
		sh := &domainShipment.Shipment{BookingNumber: "BKG-1122"}
		applyFacts(sh, &TrackingEventMessage{
			EventType:  EventBLIssued,
			BLNumber:   "MAEU555",
			OccurredAt: occurred,
		})
		if sh.BLNumber != "MAEU555" {
			t.Errorf("bl number not applied: %q", sh.BLNumber)
		}
		if sh.BookingNumber != "BKG-1122" {
			t.Error("bl issuance must not clobber the booking number")
		}
	})

	t.Run("eta updated", func(t *testing.T) {
		sh := &domainShipment.Shipment{}
		applyFacts(sh, &TrackingEventMessage{
			EventType:  EventETAUpdated,
			ETA:        "2026-04-20",
			OccurredAt: occurred,
		})
		if sh.ETA == nil || !sh.ETA.Equal(time.Date(2026, 4, 20, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("eta not applied: %v", sh.ETA)
		}
	})

	t.Run("customs cleared", func(t *testing.T) {
		sh := &domainShipment.Shipment{}
		applyFacts(sh, &TrackingEventMessage{
			EventType:  EventCustomsCleared,
			OccurredAt: occurred,
		})
		if sh.CustomsClearanceDate == nil || !sh.CustomsClearanceDate.Equal(occurred) {
			t.Errorf("clearance date not applied: %v", sh.CustomsClearanceDate)
		}
	})

	t.Run("delivered", func(t *testing.T) {
		sh := &domainShipment.Shipment{}
		applyFacts(sh, &TrackingEventMessage{
			EventType:  EventDelivered,
			OccurredAt: occurred,
		})
		if sh.DeliveryConfirmedAt == nil || !sh.DeliveryConfirmedAt.Equal(occurred) {
			t.Errorf("delivery confirmation not applied: %v", sh.DeliveryConfirmedAt)
		}
	})
}

func TestRefreshDisplayStatus(t *testing.T) {
	occurred := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)

	t.Run("derivation follows new facts", func(t *testing.T) {
		sh := &domainShipment.Shipment{Status: "planning"}
		sh.DeliveryConfirmedAt = &occurred

		refreshDisplayStatus(sh)
		if sh.Status != "received" {
			t.Errorf("expected received, got %q", sh.Status)
		}
	})

	t.Run("override survives new facts", func(t *testing.T) {
		sh := &domainShipment.Shipment{
			Status:           "quality_issue",
			StatusReason:     "damaged bags found on inspection",
			StatusOverrideBy: "ops@example.com",
		}
		sh.DeliveryConfirmedAt = &occurred

		refreshDisplayStatus(sh)
		if sh.Status != "quality_issue" {
			t.Errorf("override must survive, got %q", sh.Status)
		}
		if sh.StatusReason != "damaged bags found on inspection" {
			t.Errorf("override reason must survive, got %q", sh.StatusReason)
		}
	})
}
