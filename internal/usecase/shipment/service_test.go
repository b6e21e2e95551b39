package shipment

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
	"freight-operations/internal/logger"
	"freight-operations/internal/shipment/status"

	"github.com/google/uuid"
)

func TestMain(m *testing.M) {
	if err := logger.Init("development"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type mockShipmentRepo struct {
	shipments map[uuid.UUID]*domainShipment.Shipment
	byRef     map[string]uuid.UUID
}

func newMockShipmentRepo() *mockShipmentRepo {
	return &mockShipmentRepo{
		shipments: make(map[uuid.UUID]*domainShipment.Shipment),
		byRef:     make(map[string]uuid.UUID),
	}
}

func (m *mockShipmentRepo) Create(_ context.Context, s *domainShipment.Shipment) error {
	if _, taken := m.byRef[s.ReferenceNo]; taken {
		return domainShipment.ErrReferenceTaken
	}
	stored := *s
	m.shipments[s.ID] = &stored
	m.byRef[s.ReferenceNo] = s.ID
	return nil
}

func (m *mockShipmentRepo) Update(_ context.Context, s *domainShipment.Shipment) error {
	if _, ok := m.shipments[s.ID]; !ok {
		return domainShipment.ErrShipmentNotFound
	}
	stored := *s
	m.shipments[s.ID] = &stored
	return nil
}

func (m *mockShipmentRepo) GetByID(_ context.Context, id uuid.UUID) (*domainShipment.Shipment, error) {
	s, ok := m.shipments[id]
	if !ok {
		return nil, domainShipment.ErrShipmentNotFound
	}
	copied := *s
	return &copied, nil
}

func (m *mockShipmentRepo) GetByReference(_ context.Context, reference string) (*domainShipment.Shipment, error) {
	id, ok := m.byRef[reference]
	if !ok {
		return nil, domainShipment.ErrShipmentNotFound
	}
	return m.GetByID(context.Background(), id)
}

func (m *mockShipmentRepo) List(_ context.Context, _ *domainShipment.Filter) ([]*domainShipment.Shipment, int64, error) {
	out := make([]*domainShipment.Shipment, 0, len(m.shipments))
	for _, s := range m.shipments {
		copied := *s
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (m *mockShipmentRepo) ReplaceLines(_ context.Context, shipmentID uuid.UUID, lines []domainShipment.ProductLine) error {
	s, ok := m.shipments[shipmentID]
	if !ok {
		return domainShipment.ErrShipmentNotFound
	}
	s.Lines = append([]domainShipment.ProductLine(nil), lines...)
	return nil
}

func (m *mockShipmentRepo) Delete(_ context.Context, id uuid.UUID) error {
	s, ok := m.shipments[id]
	if !ok {
		return domainShipment.ErrShipmentNotFound
	}
	delete(m.byRef, s.ReferenceNo)
	delete(m.shipments, id)
	return nil
}

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo *mockShipmentRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func TestCreateBlockedByErrors(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	req := &CreateShipmentRequest{
		ReferenceNo: "SH-1001",
		ShipmentPayload: ShipmentPayload{
			ETD: strPtr("2026-03-20"),
			ETA: strPtr("2026-03-15"),
		},
	}

	outcome, err := svc.Create(context.Background(), uuid.New(), req)
	if !errors.Is(err, domainShipment.ErrValidationBlocked) {
		t.Fatalf("expected ErrValidationBlocked, got %v", err)
	}
	if outcome == nil || len(outcome.Validation.Errors) == 0 {
		t.Fatal("expected validation errors in outcome")
	}
	if outcome.Shipment != nil {
		t.Error("blocked creation must not return a saved shipment")
	}
	if len(repo.shipments) != 0 {
		t.Error("blocked creation must not persist anything")
	}
}

func TestCreateSavesDespiteWarnings(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	req := &CreateShipmentRequest{
		ReferenceNo: "SH-1002",
		ShipmentPayload: ShipmentPayload{
			FixedPriceUSDPerTon: "7",
		},
	}

	outcome, err := svc.Create(context.Background(), uuid.New(), req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !outcome.Validation.Valid {
		t.Error("warnings alone must not invalidate the result")
	}
	if len(outcome.Validation.Warnings) == 0 {
		t.Error("expected a low price warning")
	}
	if outcome.Shipment == nil {
		t.Fatal("expected saved shipment in outcome")
	}
	if len(repo.shipments) != 1 {
		t.Fatalf("expected 1 stored shipment, got %d", len(repo.shipments))
	}
}

func TestCreateRejectsDuplicateReference(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	first := &CreateShipmentRequest{ReferenceNo: "SH-2001"}
	if _, err := svc.Create(context.Background(), uuid.New(), first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	second := &CreateShipmentRequest{ReferenceNo: "SH-2001"}
	if _, err := svc.Create(context.Background(), uuid.New(), second); err == nil {
		t.Fatal("expected duplicate reference error")
	}
}

func TestUpdateBlockedKeepsStoredShipment(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{
		ReferenceNo: "SH-3001",
		ShipmentPayload: ShipmentPayload{
			ETA: strPtr("2026-04-01"),
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := outcome.Shipment.ID

	blocked, err := svc.Update(context.Background(), id, &UpdateShipmentRequest{
		ShipmentPayload: ShipmentPayload{
			ETD: strPtr("2026-04-10"),
			ETA: strPtr("2026-04-01"),
		},
	})
	if !errors.Is(err, domainShipment.ErrValidationBlocked) {
		t.Fatalf("expected ErrValidationBlocked, got %v", err)
	}
	if len(blocked.Validation.Errors) == 0 {
		t.Fatal("expected blocking errors")
	}

	stored, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.ETD != nil {
		t.Error("blocked update must not change the stored shipment")
	}
}

func TestOverrideLifecycle(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{ReferenceNo: "SH-4001"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := outcome.Shipment.ID

	pinned, err := svc.OverrideStatus(context.Background(), id, "ops@example.com", &OverrideStatusRequest{
		Status: "received",
		Reason: "confirmed by warehouse phone call",
	})
	if err != nil {
		t.Fatalf("override failed: %v", err)
	}
	if !pinned.Overridden || pinned.Status != status.StatusReceived {
		t.Errorf("expected pinned received status, got %+v", pinned)
	}
	if pinned.OverriddenBy != "ops@example.com" {
		t.Errorf("unexpected overridden_by %q", pinned.OverriddenBy)
	}
	if pinned.Reason != "confirmed by warehouse phone call" {
		t.Errorf("override reason must be served verbatim, got %q", pinned.Reason)
	}

	cleared, err := svc.ClearOverride(context.Background(), id)
	if err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if cleared.Overridden {
		t.Error("override should be gone after clearing")
	}
	if cleared.Status != status.StatusPlanning {
		t.Errorf("derivation should resume after clearing, got %s", cleared.Status)
	}

	if _, err := svc.ClearOverride(context.Background(), id); err == nil {
		t.Fatal("clearing twice should fail")
	}
}

func TestOverrideRejectsLegacyStatus(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{ReferenceNo: "SH-5001"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = svc.OverrideStatus(context.Background(), outcome.Shipment.ID, "ops@example.com", &OverrideStatusRequest{
		Status: "delivered",
		Reason: "legacy value must be rejected",
	})
	if err == nil {
		t.Fatal("legacy statuses must not be pinnable")
	}
}

func TestValidateUnknownSection(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{ReferenceNo: "SH-6001"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Validate(context.Background(), outcome.Shipment.ID, "paperwork"); err == nil {
		t.Fatal("unknown section must be rejected")
	}
}

func TestValidateSectionScopesResult(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	// Letter of credit without an LC number is a commercial error; the
	// logistics step must not surface it.
	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{ReferenceNo: "SH-6002"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	id := outcome.Shipment.ID

	blocked, err := svc.Update(context.Background(), id, &UpdateShipmentRequest{
		ShipmentPayload: ShipmentPayload{PaymentMethod: "letter_of_credit"},
	})
	if !errors.Is(err, domainShipment.ErrValidationBlocked) {
		t.Fatalf("expected blocked update, got %v", err)
	}
	if len(blocked.Validation.Errors) == 0 {
		t.Fatal("expected lc-number-required error")
	}

	draft := &ShipmentPayload{PaymentMethod: "letter_of_credit"}

	commercial, err := svc.ValidateDraft(draft, "commercial")
	if err != nil {
		t.Fatalf("draft validation failed: %v", err)
	}
	if commercial.Valid {
		t.Error("commercial step should surface the missing LC number")
	}

	logistics, err := svc.ValidateDraft(draft, "logistics")
	if err != nil {
		t.Fatalf("draft validation failed: %v", err)
	}
	if !logistics.Valid {
		t.Error("logistics step must not surface commercial errors")
	}
}

func TestStatusReportsDemurrageCountdown(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	// Arrived two days ago with five free days: three days remaining.
	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{
		ReferenceNo: "SH-7001",
		ShipmentPayload: ShipmentPayload{
			ETA:          strPtr("2026-03-08"),
			FreeTimeDays: intPtr(5),
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	st, err := svc.Status(context.Background(), outcome.Shipment.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if st.Status != status.StatusAwaitingClearance {
		t.Errorf("expected awaiting_clearance, got %s", st.Status)
	}
	if st.DaysRemaining == nil || *st.DaysRemaining != 3 {
		t.Errorf("expected 3 days remaining, got %v", st.DaysRemaining)
	}
}

func TestStatusDisplayMapsLegacyValues(t *testing.T) {
	repo := newMockShipmentRepo()
	svc := newTestService(repo)

	outcome, err := svc.Create(context.Background(), uuid.New(), &CreateShipmentRequest{ReferenceNo: "SH-8001"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Simulate a row written by the previous system with a legacy override.
	stored := repo.shipments[outcome.Shipment.ID]
	stored.Status = "gate_in"
	stored.StatusOverrideBy = "importer@example.com"
	stored.StatusReason = "carried over from the old tracker"

	resp, err := svc.Get(context.Background(), outcome.Shipment.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if resp.Status.Status != "gate_in" {
		t.Errorf("override must be served verbatim, got %s", resp.Status.Status)
	}
	if resp.Status.DisplayStatus != status.StatusPlanning {
		t.Errorf("display mapping must canonicalize gate_in, got %s", resp.Status.DisplayStatus)
	}
}
