package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentModel represents the database model for Shipment
type ShipmentModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ReferenceNo string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	SupplierID  *uuid.UUID `gorm:"type:uuid;index"`
	CustomerID  *uuid.UUID `gorm:"type:uuid;index"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null"`

	ETD                  *time.Time `gorm:"type:date"`
	ETA                  *time.Time `gorm:"type:date;index"`
	CustomsClearanceDate *time.Time `gorm:"type:date"`
	AgreedShippingDate   *time.Time `gorm:"type:date"`
	LCExpiryDate         *time.Time `gorm:"type:date"`

	PaymentMethod       string          `gorm:"type:varchar(50)"`
	LCNumber            string          `gorm:"type:varchar(100)"`
	FixedPriceUSDPerTon decimal.Decimal `gorm:"type:decimal(12,2)"`

	CargoType      string          `gorm:"type:varchar(30);index"`
	ContainerCount int             `gorm:"default:0"`
	TruckCount     int             `gorm:"default:0"`
	Barrels        int             `gorm:"default:0"`
	WeightTon      decimal.Decimal `gorm:"type:decimal(12,3)"`
	FreeTimeDays   *int

	BLNumber            string     `gorm:"type:varchar(100);index"`
	BookingNumber       string     `gorm:"type:varchar(100)"`
	DeliveryConfirmedAt *time.Time `gorm:"type:timestamp"`

	Status           string `gorm:"type:varchar(30);index"`
	StatusOverrideBy string `gorm:"type:varchar(255)"`
	StatusReason     string `gorm:"type:text"`

	Notes string `gorm:"type:text"`

	TransportAssigned bool `gorm:"default:false"`
	QualityIssueOpen  bool `gorm:"default:false"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`

	Lines []ProductLineModel `gorm:"foreignKey:ShipmentID;constraint:OnDelete:CASCADE"`
}

func (ShipmentModel) TableName() string {
	return "shipments"
}

// ProductLineModel represents the database model for one commodity line
type ProductLineModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShipmentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	Product    string          `gorm:"type:varchar(255)"`
	QuantityMT decimal.Decimal `gorm:"type:decimal(12,3)"`
	AmountUSD  decimal.Decimal `gorm:"type:decimal(14,2)"`
	BagsCount  int             `gorm:"default:0"`
}

func (ProductLineModel) TableName() string {
	return "shipment_product_lines"
}
