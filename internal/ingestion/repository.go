package ingestion

import (
	"context"
	"fmt"
	"time"

	"freight-operations/internal/infrastructure/database/postgres"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// trackingEventModel is the audit row for applied carrier events
type trackingEventModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Time          time.Time `gorm:"not null;index"`
	ShipmentID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ReferenceNo   string    `gorm:"type:varchar(50);not null;index"`
	EventType     string    `gorm:"type:varchar(30);not null"`
	BookingNumber string    `gorm:"type:varchar(100)"`
	BLNumber      string    `gorm:"type:varchar(100)"`
	ETA           string    `gorm:"type:varchar(10)"`
	Source        string    `gorm:"type:varchar(100)"`
	StatusAfter   string    `gorm:"type:varchar(30)"`
	CreatedAt     time.Time
}

func (trackingEventModel) TableName() string {
	return "tracking_events"
}

// Repository persists the tracking-event audit trail
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *postgres.DB) *Repository {
	return &Repository{db: db.DB}
}

// BatchInsertEvents writes a batch of audit rows in one transaction
func (r *Repository) BatchInsertEvents(ctx context.Context, records []EventRecord) error {
	if len(records) == 0 {
		return nil
	}

	dbModels := make([]trackingEventModel, len(records))
	for i, record := range records {
		dbModels[i] = trackingEventModel{
			Time:          record.Time,
			ShipmentID:    record.ShipmentID,
			ReferenceNo:   record.ReferenceNo,
			EventType:     record.EventType,
			BookingNumber: record.BookingNumber,
			BLNumber:      record.BLNumber,
			ETA:           record.ETA,
			Source:        record.Source,
			StatusAfter:   record.StatusAfter,
		}
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.CreateInBatches(dbModels, 500).Error; err != nil {
			return fmt.Errorf("failed to insert tracking event batch: %w", err)
		}
		return nil
	})
}

// RecentEvents returns the latest audit rows for one shipment
func (r *Repository) RecentEvents(ctx context.Context, shipmentID uuid.UUID, limit int) ([]EventRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var dbModels []trackingEventModel
	err := r.db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("time DESC").
		Limit(limit).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking events: %w", err)
	}

	records := make([]EventRecord, len(dbModels))
	for i, m := range dbModels {
		records[i] = EventRecord{
			Time:          m.Time,
			ShipmentID:    m.ShipmentID,
			ReferenceNo:   m.ReferenceNo,
			EventType:     m.EventType,
			BookingNumber: m.BookingNumber,
			BLNumber:      m.BLNumber,
			ETA:           m.ETA,
			Source:        m.Source,
			StatusAfter:   m.StatusAfter,
		}
	}
	return records, nil
}
