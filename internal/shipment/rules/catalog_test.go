package rules

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domainShipment "freight-operations/internal/domain/shipment"
)

var testNow = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func hasIssue(issues []Issue, id string) bool {
	for _, issue := range issues {
		if issue.ID == id {
			return true
		}
	}
	return false
}

func TestDateETDAfterETA(t *testing.T) {
	tests := []struct {
		name  string
		etd   *time.Time
		eta   *time.Time
		fires bool
	}{
		{"etd after eta", date(2024, 5, 10), date(2024, 5, 1), true},
		{"etd before eta", date(2024, 5, 1), date(2024, 5, 10), false},
		{"equal dates do not trigger", date(2024, 5, 1), date(2024, 5, 1), false},
		{"etd missing", nil, date(2024, 5, 10), false},
		{"eta missing", date(2024, 5, 1), nil, false},
		{"both missing", nil, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domainShipment.Snapshot{ETD: tt.etd, ETA: tt.eta}
			result := Validate(s, testNow)
			if got := hasIssue(result.Errors, "date-etd-after-eta"); got != tt.fires {
				t.Errorf("date-etd-after-eta fired = %v, want %v", got, tt.fires)
			}
		})
	}
}

func TestClearanceBeforeETA(t *testing.T) {
	s := &domainShipment.Snapshot{
		ETA:                  date(2024, 5, 10),
		CustomsClearanceDate: date(2024, 5, 5),
	}
	result := Validate(s, testNow)
	if !hasIssue(result.Errors, "date-clearance-before-eta") {
		t.Error("expected date-clearance-before-eta to fire when clearance precedes eta")
	}

	s.CustomsClearanceDate = date(2024, 5, 10)
	result = Validate(s, testNow)
	if hasIssue(result.Errors, "date-clearance-before-eta") {
		t.Error("clearance on the eta date must not fire")
	}
}

func TestLCRules(t *testing.T) {
	tests := []struct {
		name     string
		snapshot domainShipment.Snapshot
		wantIDs  []string
	}{
		{
			name: "lc without number",
			snapshot: domainShipment.Snapshot{
				PaymentMethod: domainShipment.PaymentLetterOfCredit,
			},
			wantIDs: []string{"lc-number-required"},
		},
		{
			name: "lc with blank number",
			snapshot: domainShipment.Snapshot{
				PaymentMethod: domainShipment.PaymentLetterOfCredit,
				LCNumber:      "   ",
			},
			wantIDs: []string{"lc-number-required"},
		},
		{
			name: "lc expiry before eta",
			snapshot: domainShipment.Snapshot{
				PaymentMethod: domainShipment.PaymentLetterOfCredit,
				LCNumber:      "LC-2024-001",
				LCExpiryDate:  date(2024, 5, 1),
				ETA:           date(2024, 5, 10),
			},
			wantIDs: []string{"lc-expiry-before-eta"},
		},
		{
			name: "other payment method ignores lc fields",
			snapshot: domainShipment.Snapshot{
				PaymentMethod: domainShipment.PaymentAdvance,
				LCExpiryDate:  date(2024, 5, 1),
				ETA:           date(2024, 5, 10),
			},
			wantIDs: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&tt.snapshot, testNow)
			for _, id := range tt.wantIDs {
				if !hasIssue(result.Errors, id) {
					t.Errorf("expected %s to fire", id)
				}
			}
			if tt.wantIDs == nil {
				if hasIssue(result.Errors, "lc-number-required") || hasIssue(result.Errors, "lc-expiry-before-eta") {
					t.Error("lc rules must not fire for non-lc payment methods")
				}
			}
		})
	}
}

func TestWeightRequired(t *testing.T) {
	tests := []struct {
		name     string
		snapshot domainShipment.Snapshot
		fires    bool
	}{
		{
			name: "containers without weight",
			snapshot: domainShipment.Snapshot{
				CargoType:      domainShipment.CargoContainers,
				ContainerCount: 4,
			},
			fires: true,
		},
		{
			name: "tankers exempt",
			snapshot: domainShipment.Snapshot{
				CargoType: domainShipment.CargoTankers,
				Barrels:   5000,
			},
			fires: false,
		},
		{
			name: "cargo type alone requires weight",
			snapshot: domainShipment.Snapshot{
				CargoType: domainShipment.CargoGeneralCargo,
			},
			fires: true,
		},
		{
			name: "weight present",
			snapshot: domainShipment.Snapshot{
				CargoType:      domainShipment.CargoContainers,
				ContainerCount: 4,
				WeightTon:      decimal.NewFromInt(80),
			},
			fires: false,
		},
		{
			name:     "nothing declared",
			snapshot: domainShipment.Snapshot{},
			fires:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&tt.snapshot, testNow)
			if got := hasIssue(result.Errors, "weight-required"); got != tt.fires {
				t.Errorf("weight-required fired = %v, want %v", got, tt.fires)
			}
		})
	}
}

func TestContainerWeightWarnings(t *testing.T) {
	tests := []struct {
		name      string
		weightTon int64
		wantID    string
	}{
		{"4 MT per container fires low", 40, "container-weight-too-low"},
		{"20 MT per container is fine", 200, ""},
		{"35 MT per container fires high", 350, "container-weight-too-high"},
		{"exactly 5 MT does not fire", 50, ""},
		{"exactly 30 MT does not fire", 300, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domainShipment.Snapshot{
				CargoType:      domainShipment.CargoContainers,
				ContainerCount: 10,
				WeightTon:      decimal.NewFromInt(tt.weightTon),
			}
			result := Validate(s, testNow)
			for _, id := range []string{"container-weight-too-low", "container-weight-too-high"} {
				want := id == tt.wantID
				if got := hasIssue(result.Warnings, id); got != want {
					t.Errorf("%s fired = %v, want %v", id, got, want)
				}
			}
		})
	}
}

func TestContainerWeightMessageMatchesPredicate(t *testing.T) {
	s := &domainShipment.Snapshot{
		CargoType:      domainShipment.CargoContainers,
		ContainerCount: 10,
		WeightTon:      decimal.NewFromInt(40),
	}
	result := Validate(s, testNow)
	for _, issue := range result.Warnings {
		if issue.ID != "container-weight-too-low" {
			continue
		}
		if issue.Details["weight_per_container_mt"] != "4.00" {
			t.Errorf("details weight_per_container_mt = %q, want %q",
				issue.Details["weight_per_container_mt"], "4.00")
		}
		return
	}
	t.Fatal("container-weight-too-low did not fire")
}

func TestTruckWeightUnusual(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		weightTon int64
		fires     bool
	}{
		{"5 MT per truck too light", 4, 20, true},
		{"60 MT per truck too heavy", 2, 120, true},
		{"25 MT per truck fine", 4, 100, false},
		{"zero trucks skipped", 0, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domainShipment.Snapshot{
				CargoType:  domainShipment.CargoTrucks,
				TruckCount: tt.count,
				WeightTon:  decimal.NewFromInt(tt.weightTon),
			}
			result := Validate(s, testNow)
			if got := hasIssue(result.Warnings, "truck-weight-unusual"); got != tt.fires {
				t.Errorf("truck-weight-unusual fired = %v, want %v", got, tt.fires)
			}
		})
	}
}

func TestPriceRules(t *testing.T) {
	tests := []struct {
		name   string
		price  string
		wantID string
		isErr  bool
	}{
		{"negative price is an error", "-1", "negative-price", true},
		{"price below floor warns", "5", "price-too-low", false},
		{"zero price fires nothing", "0", "", false},
		{"normal price fires nothing", "450", "", false},
		{"price above ceiling warns", "5001", "price-too-high", false},
		{"exactly 10 fires nothing", "10", "", false},
		{"exactly 5000 fires nothing", "5000", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domainShipment.Snapshot{FixedPriceUSDPerTon: decimal.RequireFromString(tt.price)}
			result := Validate(s, testNow)

			issues := result.Warnings
			if tt.isErr {
				issues = result.Errors
			}
			if tt.wantID == "" {
				for _, id := range []string{"negative-price", "price-too-low", "price-too-high"} {
					if hasIssue(result.Errors, id) || hasIssue(result.Warnings, id) {
						t.Errorf("%s must not fire for price %s", id, tt.price)
					}
				}
				return
			}
			if !hasIssue(issues, tt.wantID) {
				t.Errorf("expected %s to fire for price %s", tt.wantID, tt.price)
			}
		})
	}
}

func TestBagWeightUnusual(t *testing.T) {
	line := func(qtyMT string, bags int) domainShipment.SnapshotLine {
		return domainShipment.SnapshotLine{
			QuantityMT: decimal.RequireFromString(qtyMT),
			AmountUSD:  decimal.Zero,
			BagsCount:  bags,
		}
	}

	tests := []struct {
		name  string
		lines []domainShipment.SnapshotLine
		fires bool
	}{
		{"5 kg per bag too light", []domainShipment.SnapshotLine{line("1", 200)}, true},
		{"200 kg per bag too heavy", []domainShipment.SnapshotLine{line("20", 100)}, true},
		{"50 kg per bag fine", []domainShipment.SnapshotLine{line("10", 200)}, false},
		{"no bags skipped", []domainShipment.SnapshotLine{line("10", 0)}, false},
		{"second line triggers", []domainShipment.SnapshotLine{line("10", 200), line("1", 500)}, true},
		{"no lines", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domainShipment.Snapshot{Lines: tt.lines}
			result := Validate(s, testNow)
			if got := hasIssue(result.Warnings, "bag-weight-unusual"); got != tt.fires {
				t.Errorf("bag-weight-unusual fired = %v, want %v", got, tt.fires)
			}
		})
	}
}

func TestDateHorizonWarnings(t *testing.T) {
	farFuture := testNow.AddDate(0, 0, 400)
	recentFuture := testNow.AddDate(0, 0, 100)
	farPast := testNow.AddDate(0, 0, -45)
	recentPast := testNow.AddDate(0, 0, -10)

	s := &domainShipment.Snapshot{ETA: &farFuture, ETD: &farPast}
	result := Validate(s, testNow)
	if !hasIssue(result.Warnings, "eta-too-far-future") {
		t.Error("expected eta-too-far-future for eta 400 days out")
	}
	if !hasIssue(result.Warnings, "etd-too-far-past") {
		t.Error("expected etd-too-far-past for etd 45 days back")
	}

	s = &domainShipment.Snapshot{ETA: &recentFuture, ETD: &recentPast}
	result = Validate(s, testNow)
	if hasIssue(result.Warnings, "eta-too-far-future") || hasIssue(result.Warnings, "etd-too-far-past") {
		t.Error("horizon warnings must not fire for nearby dates")
	}
}

func TestValueMismatch(t *testing.T) {
	line := func(amount string) domainShipment.SnapshotLine {
		return domainShipment.SnapshotLine{AmountUSD: decimal.RequireFromString(amount)}
	}

	tests := []struct {
		name   string
		weight string
		price  string
		lines  []domainShipment.SnapshotLine
		fires  bool
	}{
		{
			// expected 100 * 500 = 50000; entered 60000 deviates 20%
			name:   "deviation above tolerance",
			weight: "100", price: "500",
			lines: []domainShipment.SnapshotLine{line("60000")},
			fires: true,
		},
		{
			// entered 51000 deviates 2%
			name:   "deviation within tolerance",
			weight: "100", price: "500",
			lines: []domainShipment.SnapshotLine{line("51000")},
			fires: false,
		},
		{
			name:   "empty lines never fire",
			weight: "100", price: "500",
			lines: nil,
			fires: false,
		},
		{
			name:   "zero price never fires",
			weight: "100", price: "0",
			lines: []domainShipment.SnapshotLine{line("60000")},
			fires: false,
		},
		{
			name:   "zero weight never fires",
			weight: "0", price: "500",
			lines: []domainShipment.SnapshotLine{line("60000")},
			fires: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domainShipment.Snapshot{
				WeightTon:           decimal.RequireFromString(tt.weight),
				FixedPriceUSDPerTon: decimal.RequireFromString(tt.price),
				Lines:               tt.lines,
			}
			result := Validate(s, testNow)
			if got := hasIssue(result.Warnings, "value-mismatch"); got != tt.fires {
				t.Errorf("value-mismatch fired = %v, want %v", got, tt.fires)
			}
		})
	}
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"12.5", "12.5"},
		{"", "0"},
		{"abc", "0"},
		{"-3", "-3"},
		{"1,000", "0"},
	}

	for _, tt := range tests {
		if got := ParseDecimal(tt.raw); got.String() != tt.want {
			t.Errorf("ParseDecimal(%q) = %s, want %s", tt.raw, got.String(), tt.want)
		}
	}
}
