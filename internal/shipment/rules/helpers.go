package rules

import (
	"github.com/shopspring/decimal"

	domainShipment "freight-operations/internal/domain/shipment"
)

// Thresholds shared between predicates and message builders
var (
	minContainerWeightMT = decimal.NewFromInt(5)
	maxContainerWeightMT = decimal.NewFromInt(30)
	minTruckWeightMT     = decimal.NewFromInt(10)
	maxTruckWeightMT     = decimal.NewFromInt(50)
	minBagWeightKg       = decimal.NewFromInt(10)
	maxBagWeightKg       = decimal.NewFromInt(100)
	priceFloorUSD        = decimal.NewFromInt(10)
	priceCeilingUSD      = decimal.NewFromInt(5000)
	valueTolerancePct    = decimal.NewFromInt(5)

	kgPerTon = decimal.NewFromInt(1000)
	hundred  = decimal.NewFromInt(100)
)

const (
	etaHorizonDays  = 365
	etdLookbackDays = 30
)

// ParseDecimal converts a human-entered numeric string to a decimal.
// Unparsable or empty input yields zero, never an error, so evaluation stays
// total over partially-filled wizard snapshots.
func ParseDecimal(raw string) decimal.Decimal {
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// weightPerContainer returns average MT per container, zero when the count
// is not positive.
func weightPerContainer(s *domainShipment.Snapshot) decimal.Decimal {
	if s.ContainerCount <= 0 {
		return decimal.Zero
	}
	return s.WeightTon.Div(decimal.NewFromInt(int64(s.ContainerCount)))
}

// weightPerTruck returns average MT per truck, zero when the count is not
// positive.
func weightPerTruck(s *domainShipment.Snapshot) decimal.Decimal {
	if s.TruckCount <= 0 {
		return decimal.Zero
	}
	return s.WeightTon.Div(decimal.NewFromInt(int64(s.TruckCount)))
}

// bagWeightKg returns average kilograms per bag for one product line, zero
// when the bag count is not positive.
func bagWeightKg(line domainShipment.SnapshotLine) decimal.Decimal {
	if line.BagsCount <= 0 {
		return decimal.Zero
	}
	return line.QuantityMT.Mul(kgPerTon).Div(decimal.NewFromInt(int64(line.BagsCount)))
}

// lineTotalUSD sums the entered amounts across all product lines
func lineTotalUSD(s *domainShipment.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, line := range s.Lines {
		total = total.Add(line.AmountUSD)
	}
	return total
}

// expectedValueUSD is the contract value implied by total weight and the
// fixed per-ton price.
func expectedValueUSD(s *domainShipment.Snapshot) decimal.Decimal {
	return s.WeightTon.Mul(s.FixedPriceUSDPerTon)
}

// valueDeviationPct is the absolute deviation of the entered line totals
// from the expected contract value, as a percentage of the expected value.
// Zero when the expected value is not positive.
func valueDeviationPct(s *domainShipment.Snapshot) decimal.Decimal {
	expected := expectedValueUSD(s)
	if !expected.IsPositive() {
		return decimal.Zero
	}
	return lineTotalUSD(s).Sub(expected).Abs().Div(expected).Mul(hundred)
}
