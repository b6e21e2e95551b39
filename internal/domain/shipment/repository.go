package shipment

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows shipment listings
type Filter struct {
	Status    *string
	CargoType *CargoType
	Reference *string
	Limit     int
	Offset    int
}

// Repository defines shipment persistence operations
type Repository interface {
	Create(ctx context.Context, s *Shipment) error
	Update(ctx context.Context, s *Shipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Shipment, error)
	GetByReference(ctx context.Context, reference string) (*Shipment, error)
	List(ctx context.Context, filter *Filter) ([]*Shipment, int64, error)
	ReplaceLines(ctx context.Context, shipmentID uuid.UUID, lines []ProductLine) error
	Delete(ctx context.Context, id uuid.UUID) error
}
