package shipment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents the agreed payment instrument
type PaymentMethod string

const (
	PaymentLetterOfCredit  PaymentMethod = "letter_of_credit"
	PaymentCashAgainstDocs PaymentMethod = "cash_against_documents"
	PaymentAdvance         PaymentMethod = "advance"
	PaymentOpenAccount     PaymentMethod = "open_account"
)

// CargoType represents how the goods are packed and moved
type CargoType string

const (
	CargoContainers   CargoType = "containers"
	CargoTrucks       CargoType = "trucks"
	CargoTankers      CargoType = "tankers"
	CargoGeneralCargo CargoType = "general_cargo"
)

// Shipment represents a trade shipment entity in the domain
type Shipment struct {
	ID uuid.UUID

	// Reference and parties
	ReferenceNo string
	SupplierID  *uuid.UUID
	CustomerID  *uuid.UUID
	CreatedBy   uuid.UUID

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

	// Product lines
	Lines []ProductLine

	// Tracking facts
	BLNumber            string
	BookingNumber       string
	DeliveryConfirmedAt *time.Time

	// Status bookkeeping. Status holds the last displayed value (possibly a
	// legacy one); StatusOverrideBy marks a manual override that suppresses
	// derivation until cleared.
	Status           string
	StatusOverrideBy string
	StatusReason     string

	Notes string

	// External facts kept alongside the shipment row
	TransportAssigned bool
	QualityIssueOpen  bool

	// Metadata
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProductLine represents one commodity line on a shipment
type ProductLine struct {
	ID         uuid.UUID
	ShipmentID uuid.UUID
	Position   int
	Product    string
	QuantityMT decimal.Decimal
	AmountUSD  decimal.Decimal
	BagsCount  int
}
