package shipment

import (
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
	"freight-operations/internal/shipment/rules"
	"freight-operations/internal/shipment/status"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Request DTOs. The wizard sends dates as ISO strings and numbers as free
// text; unparsable numerics become zero and unparsable dates are treated as
// absent, so a half-filled step never causes a request to fail outright.

type ProductLineRequest struct {
	Product    string `json:"product" validate:"omitempty,max=255"`
	QuantityMT string `json:"quantity_mt" validate:"omitempty,max=20"`
	AmountUSD  string `json:"amount_usd" validate:"omitempty,max=20"`
	BagsCount  int    `json:"bags_count" validate:"omitempty,min=0"`
}

type ShipmentPayload struct {
	ETD                  *string `json:"etd" validate:"omitempty"`
	ETA                  *string `json:"eta" validate:"omitempty"`
	CustomsClearanceDate *string `json:"customs_clearance_date" validate:"omitempty"`
	AgreedShippingDate   *string `json:"agreed_shipping_date" validate:"omitempty"`
	LCExpiryDate         *string `json:"lc_expiry_date" validate:"omitempty"`

	PaymentMethod       string `json:"payment_method" validate:"omitempty,oneof=letter_of_credit cash_against_documents advance open_account"`
	LCNumber            string `json:"lc_number" validate:"omitempty,max=100"`
	FixedPriceUSDPerTon string `json:"fixed_price_usd_per_ton" validate:"omitempty,max=20"`

	CargoType      string `json:"cargo_type" validate:"omitempty,oneof=containers trucks tankers general_cargo"`
	ContainerCount int    `json:"container_count" validate:"omitempty,min=0"`
	TruckCount     int    `json:"truck_count" validate:"omitempty,min=0"`
	Barrels        int    `json:"barrels" validate:"omitempty,min=0"`
	WeightTon      string `json:"weight_ton" validate:"omitempty,max=20"`
	FreeTimeDays   *int   `json:"free_time_days" validate:"omitempty,min=0"`

	BLNumber      string `json:"bl_no" validate:"omitempty,max=100"`
	BookingNumber string `json:"booking_no" validate:"omitempty,max=100"`

	Notes string `json:"notes" validate:"omitempty,max=2000"`

	Lines []ProductLineRequest `json:"lines" validate:"omitempty,max=100,dive"`
}

type CreateShipmentRequest struct {
	ReferenceNo string     `json:"reference_no" validate:"required,min=3,max=50"`
	SupplierID  *uuid.UUID `json:"supplier_id" validate:"omitempty"`
	CustomerID  *uuid.UUID `json:"customer_id" validate:"omitempty"`
	ShipmentPayload
}

type UpdateShipmentRequest struct {
	ShipmentPayload
}

type OverrideStatusRequest struct {
	Status string `json:"status" validate:"required,max=30"`
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

type ListShipmentsRequest struct {
	Status    *string `form:"status"`
	CargoType *string `form:"cargo_type"`
	Reference *string `form:"reference"`
	Limit     int     `form:"limit"`
	Offset    int     `form:"offset"`
}

// Response DTOs

type ProductLineResponse struct {
	Product    string `json:"product"`
	QuantityMT string `json:"quantity_mt"`
	AmountUSD  string `json:"amount_usd"`
	BagsCount  int    `json:"bags_count"`
}

type StatusResponse struct {
	Status        status.Derived `json:"status"`
	DisplayStatus status.Derived `json:"display_status"`
	Reason        string         `json:"reason"`
	Overridden    bool           `json:"overridden"`
	OverriddenBy  string         `json:"overridden_by,omitempty"`
	DaysRemaining *int           `json:"days_remaining"`
}

type ShipmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	ReferenceNo string     `json:"reference_no"`
	SupplierID  *uuid.UUID `json:"supplier_id,omitempty"`
	CustomerID  *uuid.UUID `json:"customer_id,omitempty"`

	ETD                  *string `json:"etd,omitempty"`
	ETA                  *string `json:"eta,omitempty"`
	CustomsClearanceDate *string `json:"customs_clearance_date,omitempty"`
	AgreedShippingDate   *string `json:"agreed_shipping_date,omitempty"`
	LCExpiryDate         *string `json:"lc_expiry_date,omitempty"`

	PaymentMethod       string `json:"payment_method,omitempty"`
	LCNumber            string `json:"lc_number,omitempty"`
	FixedPriceUSDPerTon string `json:"fixed_price_usd_per_ton"`

	CargoType      string `json:"cargo_type,omitempty"`
	ContainerCount int    `json:"container_count"`
	TruckCount     int    `json:"truck_count"`
	Barrels        int    `json:"barrels"`
	WeightTon      string `json:"weight_ton"`
	FreeTimeDays   *int   `json:"free_time_days,omitempty"`

	BLNumber      string     `json:"bl_no,omitempty"`
	BookingNumber string     `json:"booking_no,omitempty"`
	DeliveredAt   *time.Time `json:"delivery_confirmed_at,omitempty"`

	Notes string `json:"notes,omitempty"`

	Lines []ProductLineResponse `json:"lines"`

	Status StatusResponse `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListShipmentsResponse struct {
	Shipments []*ShipmentResponse `json:"shipments"`
	Total     int64               `json:"total"`
}

// SaveOutcome couples the saved shipment with its validation feedback so the
// frontend can show warnings after a successful save and errors after a
// blocked one.
type SaveOutcome struct {
	Shipment   *ShipmentResponse `json:"shipment,omitempty"`
	Validation rules.Result      `json:"validation"`
}

func parseDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}

func (p *ShipmentPayload) apply(sh *domainShipment.Shipment) {
	sh.ETD = parseDate(p.ETD)
	sh.ETA = parseDate(p.ETA)
	sh.CustomsClearanceDate = parseDate(p.CustomsClearanceDate)
	sh.AgreedShippingDate = parseDate(p.AgreedShippingDate)
	sh.LCExpiryDate = parseDate(p.LCExpiryDate)

	sh.PaymentMethod = domainShipment.PaymentMethod(p.PaymentMethod)
	sh.LCNumber = p.LCNumber
	sh.FixedPriceUSDPerTon = rules.ParseDecimal(p.FixedPriceUSDPerTon)

	sh.CargoType = domainShipment.CargoType(p.CargoType)
	sh.ContainerCount = p.ContainerCount
	sh.TruckCount = p.TruckCount
	sh.Barrels = p.Barrels
	sh.WeightTon = rules.ParseDecimal(p.WeightTon)
	sh.FreeTimeDays = p.FreeTimeDays

	sh.BLNumber = p.BLNumber
	sh.BookingNumber = p.BookingNumber
	sh.Notes = p.Notes

	sh.Lines = make([]domainShipment.ProductLine, len(p.Lines))
	for i, line := range p.Lines {
		sh.Lines[i] = domainShipment.ProductLine{
			Position:   i + 1,
			Product:    line.Product,
			QuantityMT: rules.ParseDecimal(line.QuantityMT),
			AmountUSD:  rules.ParseDecimal(line.AmountUSD),
			BagsCount:  line.BagsCount,
		}
	}
}

// Snapshot builds an engine snapshot straight from a wizard payload, for
// validating drafts that have not been saved yet.
func (p *ShipmentPayload) Snapshot() *domainShipment.Snapshot {
	var sh domainShipment.Shipment
	p.apply(&sh)
	return domainShipment.SnapshotOf(&sh)
}

func toStatusResponse(d status.Derivation, days int, known bool) StatusResponse {
	resp := StatusResponse{
		Status:        d.Status,
		DisplayStatus: status.Canonical(string(d.Status)),
		Reason:        d.Reason,
		Overridden:    d.Overridden,
		OverriddenBy:  d.OverriddenBy,
	}
	if known {
		resp.DaysRemaining = &days
	}
	return resp
}

func ToShipmentResponse(sh *domainShipment.Shipment, now time.Time) *ShipmentResponse {
	snap := domainShipment.SnapshotOf(sh)
	derivation := status.Derive(snap, now, status.Signals{
		QualityIssue:      sh.QualityIssueOpen,
		TransportAssigned: sh.TransportAssigned,
	})
	days, known := status.DaysRemaining(snap, now)

	resp := &ShipmentResponse{
		ID:                   sh.ID,
		ReferenceNo:          sh.ReferenceNo,
		SupplierID:           sh.SupplierID,
		CustomerID:           sh.CustomerID,
		ETD:                  formatDate(sh.ETD),
		ETA:                  formatDate(sh.ETA),
		CustomsClearanceDate: formatDate(sh.CustomsClearanceDate),
		AgreedShippingDate:   formatDate(sh.AgreedShippingDate),
		LCExpiryDate:         formatDate(sh.LCExpiryDate),
		PaymentMethod:        string(sh.PaymentMethod),
		LCNumber:             sh.LCNumber,
		FixedPriceUSDPerTon:  sh.FixedPriceUSDPerTon.String(),
		CargoType:            string(sh.CargoType),
		ContainerCount:       sh.ContainerCount,
		TruckCount:           sh.TruckCount,
		Barrels:              sh.Barrels,
		WeightTon:            sh.WeightTon.String(),
		FreeTimeDays:         sh.FreeTimeDays,
		BLNumber:             sh.BLNumber,
		BookingNumber:        sh.BookingNumber,
		DeliveredAt:          sh.DeliveryConfirmedAt,
		Notes:                sh.Notes,
		Status:               toStatusResponse(derivation, days, known),
		CreatedAt:            sh.CreatedAt,
		UpdatedAt:            sh.UpdatedAt,
	}

	resp.Lines = make([]ProductLineResponse, len(sh.Lines))
	for i, line := range sh.Lines {
		resp.Lines[i] = ProductLineResponse{
			Product:    line.Product,
			QuantityMT: line.QuantityMT.String(),
			AmountUSD:  line.AmountUSD.String(),
			BagsCount:  line.BagsCount,
		}
	}

	return resp
}
