package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
	"freight-operations/internal/infrastructure/database/postgres/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShipmentRepository struct {
	db *DB
}

func NewShipmentRepository(db *DB) *ShipmentRepository {
	return &ShipmentRepository{db: db}
}

func (r *ShipmentRepository) Create(ctx context.Context, s *domainShipment.Shipment) error {
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()

	dbModel := toShipmentModel(s)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create shipment: %w", err)
	}

	s.ID = dbModel.ID
	s.CreatedAt = dbModel.CreatedAt
	s.UpdatedAt = dbModel.UpdatedAt

	return nil
}

func (r *ShipmentRepository) Update(ctx context.Context, s *domainShipment.Shipment) error {
	s.UpdatedAt = time.Now()

	// Select("*") forces zero values (cleared overrides, removed dates) to be
	// written; a plain struct update would silently skip them.
	dbModel := toShipmentModel(s)
	result := r.db.DB.WithContext(ctx).
		Model(&models.ShipmentModel{}).
		Where("id = ?", s.ID).
		Select("*").
		Omit("id", "created_at", "Lines").
		Updates(dbModel)
	if result.Error != nil {
		return fmt.Errorf("failed to update shipment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShipment.ErrShipmentNotFound
	}

	return nil
}

func (r *ShipmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domainShipment.Shipment, error) {
	var dbModel models.ShipmentModel
	err := r.db.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", id).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainShipment.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	return toShipmentEntity(&dbModel), nil
}

func (r *ShipmentRepository) GetByReference(ctx context.Context, reference string) (*domainShipment.Shipment, error) {
	var dbModel models.ShipmentModel
	err := r.db.DB.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("reference_no = ?", reference).
		First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainShipment.ErrShipmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment by reference: %w", err)
	}

	return toShipmentEntity(&dbModel), nil
}

func (r *ShipmentRepository) List(ctx context.Context, filter *domainShipment.Filter) ([]*domainShipment.Shipment, int64, error) {
	query := r.db.DB.WithContext(ctx).Model(&models.ShipmentModel{})

	if filter != nil {
		if filter.Status != nil {
			query = query.Where("status = ?", *filter.Status)
		}
		if filter.CargoType != nil {
			query = query.Where("cargo_type = ?", string(*filter.CargoType))
		}
		if filter.Reference != nil {
			query = query.Where("reference_no ILIKE ?", "%"+*filter.Reference+"%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count shipments: %w", err)
	}

	if filter != nil {
		if filter.Limit > 0 {
			query = query.Limit(filter.Limit)
		}
		if filter.Offset > 0 {
			query = query.Offset(filter.Offset)
		}
	}

	var dbModels []models.ShipmentModel
	err := query.
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("created_at DESC").
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list shipments: %w", err)
	}

	shipments := make([]*domainShipment.Shipment, len(dbModels))
	for i := range dbModels {
		shipments[i] = toShipmentEntity(&dbModels[i])
	}

	return shipments, total, nil
}

func (r *ShipmentRepository) ReplaceLines(ctx context.Context, shipmentID uuid.UUID, lines []domainShipment.ProductLine) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shipment_id = ?", shipmentID).
			Delete(&models.ProductLineModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear product lines: %w", err)
		}

		if len(lines) == 0 {
			return nil
		}

		dbLines := make([]models.ProductLineModel, len(lines))
		for i, line := range lines {
			dbLines[i] = models.ProductLineModel{
				ID:         uuid.New(),
				ShipmentID: shipmentID,
				Position:   i + 1,
				Product:    line.Product,
				QuantityMT: line.QuantityMT,
				AmountUSD:  line.AmountUSD,
				BagsCount:  line.BagsCount,
			}
		}

		if err := tx.Create(&dbLines).Error; err != nil {
			return fmt.Errorf("failed to insert product lines: %w", err)
		}
		return nil
	})
}

func (r *ShipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.ShipmentModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete shipment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainShipment.ErrShipmentNotFound
	}
	return nil
}

func toShipmentModel(s *domainShipment.Shipment) *models.ShipmentModel {
	m := &models.ShipmentModel{
		ID:                   s.ID,
		ReferenceNo:          s.ReferenceNo,
		SupplierID:           s.SupplierID,
		CustomerID:           s.CustomerID,
		CreatedBy:            s.CreatedBy,
		ETD:                  s.ETD,
		ETA:                  s.ETA,
		CustomsClearanceDate: s.CustomsClearanceDate,
		AgreedShippingDate:   s.AgreedShippingDate,
		LCExpiryDate:         s.LCExpiryDate,
		PaymentMethod:        string(s.PaymentMethod),
		LCNumber:             s.LCNumber,
		FixedPriceUSDPerTon:  s.FixedPriceUSDPerTon,
		CargoType:            string(s.CargoType),
		ContainerCount:       s.ContainerCount,
		TruckCount:           s.TruckCount,
		Barrels:              s.Barrels,
		WeightTon:            s.WeightTon,
		FreeTimeDays:         s.FreeTimeDays,
		BLNumber:             s.BLNumber,
		BookingNumber:        s.BookingNumber,
		DeliveryConfirmedAt:  s.DeliveryConfirmedAt,
		Status:               s.Status,
		StatusOverrideBy:     s.StatusOverrideBy,
		StatusReason:         s.StatusReason,
		Notes:                s.Notes,
		TransportAssigned:    s.TransportAssigned,
		QualityIssueOpen:     s.QualityIssueOpen,
		CreatedAt:            s.CreatedAt,
		UpdatedAt:            s.UpdatedAt,
	}

	m.Lines = make([]models.ProductLineModel, len(s.Lines))
	for i, line := range s.Lines {
		m.Lines[i] = models.ProductLineModel{
			ID:         line.ID,
			ShipmentID: s.ID,
			Position:   i + 1,
			Product:    line.Product,
			QuantityMT: line.QuantityMT,
			AmountUSD:  line.AmountUSD,
			BagsCount:  line.BagsCount,
		}
	}

	return m
}

func toShipmentEntity(m *models.ShipmentModel) *domainShipment.Shipment {
	s := &domainShipment.Shipment{
		ID:                   m.ID,
		ReferenceNo:          m.ReferenceNo,
		SupplierID:           m.SupplierID,
		CustomerID:           m.CustomerID,
		CreatedBy:            m.CreatedBy,
		ETD:                  m.ETD,
		ETA:                  m.ETA,
		CustomsClearanceDate: m.CustomsClearanceDate,
		AgreedShippingDate:   m.AgreedShippingDate,
		LCExpiryDate:         m.LCExpiryDate,
		PaymentMethod:        domainShipment.PaymentMethod(m.PaymentMethod),
		LCNumber:             m.LCNumber,
		FixedPriceUSDPerTon:  m.FixedPriceUSDPerTon,
		CargoType:            domainShipment.CargoType(m.CargoType),
		ContainerCount:       m.ContainerCount,
		TruckCount:           m.TruckCount,
		Barrels:              m.Barrels,
		WeightTon:            m.WeightTon,
		FreeTimeDays:         m.FreeTimeDays,
		BLNumber:             m.BLNumber,
		BookingNumber:        m.BookingNumber,
		DeliveryConfirmedAt:  m.DeliveryConfirmedAt,
		Status:               m.Status,
		StatusOverrideBy:     m.StatusOverrideBy,
		StatusReason:         m.StatusReason,
		Notes:                m.Notes,
		TransportAssigned:    m.TransportAssigned,
		QualityIssueOpen:     m.QualityIssueOpen,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}

	s.Lines = make([]domainShipment.ProductLine, len(m.Lines))
	for i, line := range m.Lines {
		s.Lines[i] = domainShipment.ProductLine{
			ID:         line.ID,
			ShipmentID: line.ShipmentID,
			Position:   line.Position,
			Product:    line.Product,
			QuantityMT: line.QuantityMT,
			AmountUSD:  line.AmountUSD,
			BagsCount:  line.BagsCount,
		}
	}

	return s
}
