package shipment

import (
	"context"
	"errors"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
	"freight-operations/internal/logger"
	"freight-operations/internal/shipment/rules"
	"freight-operations/internal/shipment/status"
	appErrors "freight-operations/pkg/errors"
	"freight-operations/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements shipment use cases
type Service struct {
	shipmentRepo domainShipment.Repository
	now          func() time.Time
}

// NewService creates a new shipment service
func NewService(shipmentRepo domainShipment.Repository) *Service {
	return &Service{
		shipmentRepo: shipmentRepo,
		now:          time.Now,
	}
}

// Create validates a new shipment and saves it when no blocking errors
// remain. On blocking errors nothing is written and the validation result
// is returned alongside ErrValidationBlocked so the caller can render it.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, req *CreateShipmentRequest) (*SaveOutcome, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	reference := utils.SanitizeReference(req.ReferenceNo)

	// Reject duplicate references up front
	existing, err := s.shipmentRepo.GetByReference(ctx, reference)
	if err != nil && !errors.Is(err, domainShipment.ErrShipmentNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, appErrors.NewAppError("REFERENCE_TAKEN", "Shipment reference already in use", domainShipment.ErrReferenceTaken)
	}

	sh := &domainShipment.Shipment{
		ID:          uuid.New(),
		ReferenceNo: reference,
		SupplierID:  req.SupplierID,
		CustomerID:  req.CustomerID,
		CreatedBy:   createdBy,
		CreatedAt:   s.now(),
		UpdatedAt:   s.now(),
	}
	req.ShipmentPayload.apply(sh)

	result := rules.Validate(domainShipment.SnapshotOf(sh), s.now())
	if !result.Valid {
		logger.Info("Shipment creation blocked by validation",
			zap.String("reference_no", reference),
			zap.Int("error_count", len(result.Errors)),
			zap.String("event", "shipment_create_blocked"),
		)
		return &SaveOutcome{Validation: result}, domainShipment.ErrValidationBlocked
	}

	s.refreshDisplayStatus(sh)

	if err := s.shipmentRepo.Create(ctx, sh); err != nil {
		return nil, err
	}

	created, err := s.shipmentRepo.GetByID(ctx, sh.ID)
	if err != nil {
		return nil, err
	}

	logger.Info("Shipment created",
		zap.String("shipment_id", created.ID.String()),
		zap.String("reference_no", created.ReferenceNo),
		zap.String("status", created.Status),
		zap.String("event", "shipment_created"),
	)

	return &SaveOutcome{
		Shipment:   ToShipmentResponse(created, s.now()),
		Validation: result,
	}, nil
}

// Update replaces the editable fields of a shipment. Tracking facts written
// by the ingestion pipeline and any active status override survive the
// update untouched.
func (s *Service) Update(ctx context.Context, shipmentID uuid.UUID, req *UpdateShipmentRequest) (*SaveOutcome, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	req.ShipmentPayload.apply(sh)
	sh.UpdatedAt = s.now()

	result := rules.Validate(domainShipment.SnapshotOf(sh), s.now())
	if !result.Valid {
		logger.Info("Shipment update blocked by validation",
			zap.String("shipment_id", shipmentID.String()),
			zap.Int("error_count", len(result.Errors)),
			zap.String("event", "shipment_update_blocked"),
		)
		return &SaveOutcome{Validation: result}, domainShipment.ErrValidationBlocked
	}

	s.refreshDisplayStatus(sh)

	if err := s.shipmentRepo.Update(ctx, sh); err != nil {
		return nil, err
	}
	if err := s.shipmentRepo.ReplaceLines(ctx, sh.ID, sh.Lines); err != nil {
		return nil, err
	}

	updated, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	logger.Info("Shipment updated",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("status", updated.Status),
		zap.String("event", "shipment_updated"),
	)

	return &SaveOutcome{
		Shipment:   ToShipmentResponse(updated, s.now()),
		Validation: result,
	}, nil
}

func (s *Service) Get(ctx context.Context, shipmentID uuid.UUID) (*ShipmentResponse, error) {
	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	return ToShipmentResponse(sh, s.now()), nil
}

func (s *Service) List(ctx context.Context, req *ListShipmentsRequest) (*ListShipmentsResponse, error) {
	if req.Limit <= 0 {
		req.Limit = 20
	}
	if req.Limit > 100 {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	filter := &domainShipment.Filter{
		Status:    req.Status,
		Reference: req.Reference,
		Limit:     req.Limit,
		Offset:    req.Offset,
	}
	if req.CargoType != nil {
		cargoType := domainShipment.CargoType(*req.CargoType)
		filter.CargoType = &cargoType
	}

	shipments, total, err := s.shipmentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]*ShipmentResponse, len(shipments))
	for i, sh := range shipments {
		responses[i] = ToShipmentResponse(sh, now)
	}

	return &ListShipmentsResponse{
		Shipments: responses,
		Total:     total,
	}, nil
}

func (s *Service) Delete(ctx context.Context, shipmentID uuid.UUID) error {
	if _, err := s.shipmentRepo.GetByID(ctx, shipmentID); err != nil {
		return err
	}
	if err := s.shipmentRepo.Delete(ctx, shipmentID); err != nil {
		return err
	}

	logger.Info("Shipment deleted",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("event", "shipment_deleted"),
	)
	return nil
}

// Validate runs the catalog against a stored shipment. When section is
// non-empty only that wizard step's rules run; an unrecognized section name
// is rejected rather than silently widened to the full catalog.
func (s *Service) Validate(ctx context.Context, shipmentID uuid.UUID, section string) (*rules.Result, error) {
	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	snap := domainShipment.SnapshotOf(sh)
	if section == "" {
		result := rules.Validate(snap, s.now())
		return &result, nil
	}

	parsed, ok := rules.ParseSection(section)
	if !ok {
		return nil, appErrors.NewAppError("UNKNOWN_SECTION", "Unknown validation section", appErrors.ErrInvalidInput)
	}
	result := rules.ValidateSection(snap, parsed, s.now())
	return &result, nil
}

// ValidateDraft checks an unsaved wizard payload without touching storage
func (s *Service) ValidateDraft(payload *ShipmentPayload, section string) (*rules.Result, error) {
	if err := utils.ValidateStruct(payload); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	snap := payload.Snapshot()
	if section == "" {
		result := rules.Validate(snap, s.now())
		return &result, nil
	}

	parsed, ok := rules.ParseSection(section)
	if !ok {
		return nil, appErrors.NewAppError("UNKNOWN_SECTION", "Unknown validation section", appErrors.ErrInvalidInput)
	}
	result := rules.ValidateSection(snap, parsed, s.now())
	return &result, nil
}

// Status derives the current lifecycle stage and demurrage countdown
func (s *Service) Status(ctx context.Context, shipmentID uuid.UUID) (*StatusResponse, error) {
	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	snap := domainShipment.SnapshotOf(sh)
	now := s.now()
	derivation := status.Derive(snap, now, status.Signals{
		QualityIssue:      sh.QualityIssueOpen,
		TransportAssigned: sh.TransportAssigned,
	})
	days, known := status.DaysRemaining(snap, now)

	resp := toStatusResponse(derivation, days, known)
	return &resp, nil
}

// OverrideStatus pins a shipment to a chosen status until cleared. Only
// canonical statuses may be pinned; the stored value and reason are served
// back verbatim while the override is active.
func (s *Service) OverrideStatus(ctx context.Context, shipmentID uuid.UUID, overriddenBy string, req *OverrideStatusRequest) (*StatusResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}
	if !status.IsCanonical(req.Status) {
		return nil, appErrors.NewAppError("INVALID_STATUS", "Status is not a recognized lifecycle stage", appErrors.ErrInvalidInput)
	}

	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}

	sh.Status = req.Status
	sh.StatusReason = utils.SanitizeString(req.Reason)
	sh.StatusOverrideBy = overriddenBy
	sh.UpdatedAt = s.now()

	if err := s.shipmentRepo.Update(ctx, sh); err != nil {
		return nil, err
	}

	logger.Info("Shipment status overridden",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("status", req.Status),
		zap.String("overridden_by", overriddenBy),
		zap.String("event", "status_overridden"),
	)

	return s.Status(ctx, shipmentID)
}

// ClearOverride removes a manual override and resumes automatic derivation
func (s *Service) ClearOverride(ctx context.Context, shipmentID uuid.UUID) (*StatusResponse, error) {
	sh, err := s.shipmentRepo.GetByID(ctx, shipmentID)
	if err != nil {
		return nil, err
	}
	if sh.StatusOverrideBy == "" {
		return nil, appErrors.NewAppError("NO_OVERRIDE", "Shipment has no status override", domainShipment.ErrNoOverride)
	}

	sh.StatusOverrideBy = ""
	sh.StatusReason = ""
	s.refreshDisplayStatus(sh)
	sh.UpdatedAt = s.now()

	if err := s.shipmentRepo.Update(ctx, sh); err != nil {
		return nil, err
	}

	logger.Info("Shipment status override cleared",
		zap.String("shipment_id", shipmentID.String()),
		zap.String("status", sh.Status),
		zap.String("event", "status_override_cleared"),
	)

	return s.Status(ctx, shipmentID)
}

// refreshDisplayStatus recomputes the stored display status from current
// facts. Overridden shipments keep their pinned value.
func (s *Service) refreshDisplayStatus(sh *domainShipment.Shipment) {
	derivation := status.Derive(domainShipment.SnapshotOf(sh), s.now(), status.Signals{
		QualityIssue:      sh.QualityIssueOpen,
		TransportAssigned: sh.TransportAssigned,
	})
	if derivation.Overridden {
		return
	}
	sh.Status = string(derivation.Status)
	sh.StatusReason = derivation.Reason
}
