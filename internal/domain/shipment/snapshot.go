package shipment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is a read-only view of a shipment's fields at evaluation time.
// The rule engine and status calculator consume snapshots and never mutate
// them; callers build a fresh snapshot per evaluation.
type Snapshot struct {
	// Dates
	ETD                  *time.Time
	ETA                  *time.Time
	CustomsClearanceDate *time.Time
	AgreedShippingDate   *time.Time
	LCExpiryDate         *time.Time

	// Commercial terms
	PaymentMethod       PaymentMethod
	LCNumber            string
	FixedPriceUSDPerTon decimal.Decimal

	// Cargo
	CargoType      CargoType
	ContainerCount int
	TruckCount     int
	Barrels        int
	WeightTon      decimal.Decimal
	FreeTimeDays   *int

	// Product lines, in entry order
	Lines []SnapshotLine

	// Tracking facts
	BLNumber            string
	BookingNumber       string
	DeliveryConfirmedAt *time.Time

	// Status override recorded by a human; when OverrideBy is set the stored
	// Status/StatusReason take precedence over derivation.
	Status           string
	StatusOverrideBy string
	StatusReason     string
}

// SnapshotLine is one product line as seen by the engine
type SnapshotLine struct {
	QuantityMT decimal.Decimal
	AmountUSD  decimal.Decimal
	BagsCount  int
}

// CarrierReference returns the BL number if present, otherwise the booking
// number. Empty string means no carrier document has been issued yet.
func (s *Snapshot) CarrierReference() string {
	if s.BLNumber != "" {
		return s.BLNumber
	}
	return s.BookingNumber
}

// SnapshotOf builds an evaluation snapshot from a stored shipment
func SnapshotOf(sh *Shipment) *Snapshot {
	snap := &Snapshot{
		ETD:                  sh.ETD,
		ETA:                  sh.ETA,
		CustomsClearanceDate: sh.CustomsClearanceDate,
		AgreedShippingDate:   sh.AgreedShippingDate,
		LCExpiryDate:         sh.LCExpiryDate,
		PaymentMethod:        sh.PaymentMethod,
		LCNumber:             sh.LCNumber,
		FixedPriceUSDPerTon:  sh.FixedPriceUSDPerTon,
		CargoType:            sh.CargoType,
		ContainerCount:       sh.ContainerCount,
		TruckCount:           sh.TruckCount,
		Barrels:              sh.Barrels,
		WeightTon:            sh.WeightTon,
		FreeTimeDays:         sh.FreeTimeDays,
		BLNumber:             sh.BLNumber,
		BookingNumber:        sh.BookingNumber,
		DeliveryConfirmedAt:  sh.DeliveryConfirmedAt,
		Status:               sh.Status,
		StatusOverrideBy:     sh.StatusOverrideBy,
		StatusReason:         sh.StatusReason,
	}

	snap.Lines = make([]SnapshotLine, len(sh.Lines))
	for i, line := range sh.Lines {
		snap.Lines[i] = SnapshotLine{
			QuantityMT: line.QuantityMT,
			AmountUSD:  line.AmountUSD,
			BagsCount:  line.BagsCount,
		}
	}

	return snap
}
