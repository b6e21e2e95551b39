package status

import (
	"testing"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestDerivePriorityOrder(t *testing.T) {
	pastETA := date(2024, 5, 20)
	futureETA := date(2024, 7, 1)
	pastAgreed := date(2024, 5, 1)

	tests := []struct {
		name     string
		snapshot domainShipment.Snapshot
		signals  Signals
		want     Derived
	}{
		{
			name: "delivery confirmation wins over everything",
			snapshot: domainShipment.Snapshot{
				DeliveryConfirmedAt:  date(2024, 5, 30),
				CustomsClearanceDate: date(2024, 5, 25),
				ETA:                  pastETA,
				BLNumber:             "BL-1",
			},
			signals: Signals{QualityIssue: true, TransportAssigned: true},
			want:    StatusReceived,
		},
		{
			name: "quality incident before clearance",
			snapshot: domainShipment.Snapshot{
				CustomsClearanceDate: date(2024, 5, 25),
			},
			signals: Signals{QualityIssue: true},
			want:    StatusQualityIssue,
		},
		{
			name: "clearance implies moving to final destination",
			snapshot: domainShipment.Snapshot{
				CustomsClearanceDate: date(2024, 5, 25),
				ETA:                  pastETA,
			},
			signals: Signals{TransportAssigned: true},
			want:    StatusLoadedToFinal,
		},
		{
			name:     "transport assigned without clearance",
			snapshot: domainShipment.Snapshot{ETA: pastETA},
			signals:  Signals{TransportAssigned: true},
			want:     StatusPendingTransport,
		},
		{
			name:     "eta in the past means awaiting clearance",
			snapshot: domainShipment.Snapshot{ETA: pastETA, BLNumber: "BL-1"},
			want:     StatusAwaitingClearance,
		},
		{
			name:     "eta today means awaiting clearance",
			snapshot: domainShipment.Snapshot{ETA: &testNow},
			want:     StatusAwaitingClearance,
		},
		{
			name:     "bl with future eta means sailed",
			snapshot: domainShipment.Snapshot{ETA: futureETA, BLNumber: "BL-1"},
			want:     StatusSailed,
		},
		{
			name:     "booking number counts as carrier reference",
			snapshot: domainShipment.Snapshot{ETA: futureETA, BookingNumber: "BK-9"},
			want:     StatusSailed,
		},
		{
			name:     "agreed date passed without document",
			snapshot: domainShipment.Snapshot{AgreedShippingDate: pastAgreed},
			want:     StatusDelayed,
		},
		{
			name: "agreed date passed but document issued",
			snapshot: domainShipment.Snapshot{
				AgreedShippingDate: pastAgreed,
				ETA:                futureETA,
				BLNumber:           "BL-1",
			},
			want: StatusSailed,
		},
		{
			name:     "empty snapshot stays in planning",
			snapshot: domainShipment.Snapshot{},
			want:     StatusPlanning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(&tt.snapshot, testNow, tt.signals)
			if got.Status != tt.want {
				t.Errorf("Derive() = %s, want %s", got.Status, tt.want)
			}
			if got.Overridden {
				t.Error("Derive() reported an override without one")
			}
			if got.Reason == "" {
				t.Error("Derive() returned an empty reason")
			}
		})
	}
}

func TestDeriveRespectsOverride(t *testing.T) {
	s := &domainShipment.Snapshot{
		DeliveryConfirmedAt: date(2024, 5, 30),
		Status:              "delayed",
		StatusOverrideBy:    "user1",
		StatusReason:        "customs dispute, held at port",
	}

	got := Derive(s, testNow, Signals{})
	if !got.Overridden {
		t.Fatal("expected override to be reported")
	}
	if got.Status != Derived("delayed") {
		t.Errorf("override status = %s, want the stored value verbatim", got.Status)
	}
	if got.Reason != "customs dispute, held at port" {
		t.Errorf("override reason = %q, want the stored reason verbatim", got.Reason)
	}
	if got.OverriddenBy != "user1" {
		t.Errorf("OverriddenBy = %q, want user1", got.OverriddenBy)
	}
}

func TestHasOverride(t *testing.T) {
	if HasOverride(&domainShipment.Snapshot{}) {
		t.Error("empty snapshot must not report an override")
	}
	if !HasOverride(&domainShipment.Snapshot{StatusOverrideBy: "user1"}) {
		t.Error("snapshot with StatusOverrideBy must report an override")
	}
}

func TestCanonicalMapping(t *testing.T) {
	tests := []struct {
		raw  string
		want Derived
	}{
		{"booked", StatusPlanning},
		{"gate_in", StatusPlanning},
		{"loaded", StatusSailed},
		{"arrived", StatusAwaitingClearance},
		{"delivered", StatusReceived},
		{"invoiced", StatusReceived},
		{"sailed", StatusSailed},
		{"received", StatusReceived},
		{"", StatusPlanning},
		{"garbage", StatusPlanning},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Canonical(tt.raw); got != tt.want {
				t.Errorf("Canonical(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}
