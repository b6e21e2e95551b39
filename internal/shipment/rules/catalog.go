package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

// errorRules block saving; warningRules are advisory. Both lists are fixed
// at init and read-only afterwards, so evaluation is safe from any number of
// goroutines. Rule IDs are unique across both lists.
var errorRules = []Rule{
	{
		ID:       "date-etd-after-eta",
		Severity: SeverityError,
		Field:    "etd",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.ETD != nil && s.ETA != nil && s.ETD.After(*s.ETA)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Departure date %s is after arrival date %s",
					s.ETD.Format("2006-01-02"), s.ETA.Format("2006-01-02")),
				Details: map[string]string{
					"etd": s.ETD.Format("2006-01-02"),
					"eta": s.ETA.Format("2006-01-02"),
				},
			}
		},
	},
	{
		ID:       "date-clearance-before-eta",
		Severity: SeverityError,
		Field:    "customs_clearance_date",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.CustomsClearanceDate != nil && s.ETA != nil &&
				s.CustomsClearanceDate.Before(*s.ETA)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Customs clearance date %s is before arrival date %s",
					s.CustomsClearanceDate.Format("2006-01-02"), s.ETA.Format("2006-01-02")),
				Details: map[string]string{
					"customs_clearance_date": s.CustomsClearanceDate.Format("2006-01-02"),
					"eta":                    s.ETA.Format("2006-01-02"),
				},
			}
		},
	},
	{
		ID:       "lc-number-required",
		Severity: SeverityError,
		Field:    "lc_number",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.PaymentMethod == domainShipment.PaymentLetterOfCredit &&
				strings.TrimSpace(s.LCNumber) == ""
		},
		Describe: func(_ *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{Message: "LC number is required when payment method is letter of credit"}
		},
	},
	{
		ID:       "weight-required",
		Severity: SeverityError,
		Field:    "weight_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			if s.CargoType == domainShipment.CargoTankers {
				return false
			}
			cargoDeclared := s.ContainerCount > 0 || s.TruckCount > 0 || s.CargoType != ""
			return cargoDeclared && !s.WeightTon.IsPositive()
		},
		Describe: func(_ *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{Message: "Total weight in metric tons is required for this cargo type"}
		},
	},
	{
		ID:       "negative-price",
		Severity: SeverityError,
		Field:    "fixed_price_usd_per_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.FixedPriceUSDPerTon.IsNegative()
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Price %s USD/MT cannot be negative", s.FixedPriceUSDPerTon.String()),
				Details: map[string]string{"fixed_price_usd_per_ton": s.FixedPriceUSDPerTon.String()},
			}
		},
	},
	{
		ID:       "lc-expiry-before-eta",
		Severity: SeverityError,
		Field:    "lc_expiry_date",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.PaymentMethod == domainShipment.PaymentLetterOfCredit &&
				s.LCExpiryDate != nil && s.ETA != nil &&
				s.LCExpiryDate.Before(*s.ETA)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("LC expires %s, before the arrival date %s",
					s.LCExpiryDate.Format("2006-01-02"), s.ETA.Format("2006-01-02")),
				Details: map[string]string{
					"lc_expiry_date": s.LCExpiryDate.Format("2006-01-02"),
					"eta":            s.ETA.Format("2006-01-02"),
				},
			}
		},
	},
}

var warningRules = []Rule{
	{
		ID:       "container-weight-too-low",
		Severity: SeverityWarning,
		Field:    "weight_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.CargoType == domainShipment.CargoContainers &&
				s.ContainerCount > 0 && s.WeightTon.IsPositive() &&
				weightPerContainer(s).LessThan(minContainerWeightMT)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			perContainer := weightPerContainer(s)
			return Detail{
				Message: fmt.Sprintf("Average container weight %s MT is below the usual minimum of %s MT",
					perContainer.StringFixed(2), minContainerWeightMT.String()),
				Details: map[string]string{
					"weight_per_container_mt": perContainer.StringFixed(2),
					"container_count":         strconv.Itoa(s.ContainerCount),
				},
			}
		},
	},
	{
		ID:       "container-weight-too-high",
		Severity: SeverityWarning,
		Field:    "weight_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.CargoType == domainShipment.CargoContainers &&
				s.ContainerCount > 0 && s.WeightTon.IsPositive() &&
				weightPerContainer(s).GreaterThan(maxContainerWeightMT)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			perContainer := weightPerContainer(s)
			return Detail{
				Message: fmt.Sprintf("Average container weight %s MT exceeds the usual maximum of %s MT",
					perContainer.StringFixed(2), maxContainerWeightMT.String()),
				Details: map[string]string{
					"weight_per_container_mt": perContainer.StringFixed(2),
					"container_count":         strconv.Itoa(s.ContainerCount),
				},
			}
		},
	},
	{
		ID:       "truck-weight-unusual",
		Severity: SeverityWarning,
		Field:    "weight_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			if s.CargoType != domainShipment.CargoTrucks || s.TruckCount <= 0 || !s.WeightTon.IsPositive() {
				return false
			}
			perTruck := weightPerTruck(s)
			return perTruck.LessThan(minTruckWeightMT) || perTruck.GreaterThan(maxTruckWeightMT)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			perTruck := weightPerTruck(s)
			return Detail{
				Message: fmt.Sprintf("Average truck load %s MT is outside the usual %s-%s MT range",
					perTruck.StringFixed(2), minTruckWeightMT.String(), maxTruckWeightMT.String()),
				Details: map[string]string{
					"weight_per_truck_mt": perTruck.StringFixed(2),
					"truck_count":         strconv.Itoa(s.TruckCount),
				},
			}
		},
	},
	{
		ID:       "price-too-low",
		Severity: SeverityWarning,
		Field:    "fixed_price_usd_per_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.FixedPriceUSDPerTon.IsPositive() &&
				s.FixedPriceUSDPerTon.LessThan(priceFloorUSD)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Price %s USD/MT looks unusually low (below %s USD/MT)",
					s.FixedPriceUSDPerTon.String(), priceFloorUSD.String()),
				Details: map[string]string{"fixed_price_usd_per_ton": s.FixedPriceUSDPerTon.String()},
			}
		},
	},
	{
		ID:       "price-too-high",
		Severity: SeverityWarning,
		Field:    "fixed_price_usd_per_ton",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			return s.FixedPriceUSDPerTon.GreaterThan(priceCeilingUSD)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Price %s USD/MT looks unusually high (above %s USD/MT)",
					s.FixedPriceUSDPerTon.String(), priceCeilingUSD.String()),
				Details: map[string]string{"fixed_price_usd_per_ton": s.FixedPriceUSDPerTon.String()},
			}
		},
	},
	{
		ID:       "bag-weight-unusual",
		Severity: SeverityWarning,
		Field:    "lines",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			for _, line := range s.Lines {
				if line.BagsCount <= 0 || !line.QuantityMT.IsPositive() {
					continue
				}
				perBag := bagWeightKg(line)
				if perBag.LessThan(minBagWeightKg) || perBag.GreaterThan(maxBagWeightKg) {
					return true
				}
			}
			return false
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			details := map[string]string{}
			var parts []string
			for i, line := range s.Lines {
				if line.BagsCount <= 0 || !line.QuantityMT.IsPositive() {
					continue
				}
				perBag := bagWeightKg(line)
				if perBag.LessThan(minBagWeightKg) || perBag.GreaterThan(maxBagWeightKg) {
					key := fmt.Sprintf("line_%d_bag_weight_kg", i+1)
					details[key] = perBag.StringFixed(2)
					parts = append(parts, fmt.Sprintf("line %d: %s kg/bag", i+1, perBag.StringFixed(2)))
				}
			}
			return Detail{
				Message: fmt.Sprintf("Bag weight outside the usual %s-%s kg range (%s)",
					minBagWeightKg.String(), maxBagWeightKg.String(), strings.Join(parts, ", ")),
				Details: details,
			}
		},
	},
	{
		ID:       "eta-too-far-future",
		Severity: SeverityWarning,
		Field:    "eta",
		Check: func(s *domainShipment.Snapshot, now time.Time) bool {
			return s.ETA != nil && s.ETA.After(now.AddDate(0, 0, etaHorizonDays))
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Arrival date %s is more than %d days ahead",
					s.ETA.Format("2006-01-02"), etaHorizonDays),
				Details: map[string]string{"eta": s.ETA.Format("2006-01-02")},
			}
		},
	},
	{
		ID:       "etd-too-far-past",
		Severity: SeverityWarning,
		Field:    "etd",
		Check: func(s *domainShipment.Snapshot, now time.Time) bool {
			return s.ETD != nil && s.ETD.Before(now.AddDate(0, 0, -etdLookbackDays))
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			return Detail{
				Message: fmt.Sprintf("Departure date %s is more than %d days in the past",
					s.ETD.Format("2006-01-02"), etdLookbackDays),
				Details: map[string]string{"etd": s.ETD.Format("2006-01-02")},
			}
		},
	},
	{
		ID:       "value-mismatch",
		Severity: SeverityWarning,
		Field:    "lines",
		Check: func(s *domainShipment.Snapshot, _ time.Time) bool {
			if len(s.Lines) == 0 {
				return false
			}
			if !s.WeightTon.IsPositive() || !s.FixedPriceUSDPerTon.IsPositive() {
				return false
			}
			return valueDeviationPct(s).GreaterThan(valueTolerancePct)
		},
		Describe: func(s *domainShipment.Snapshot, _ time.Time) Detail {
			expected := expectedValueUSD(s)
			actual := lineTotalUSD(s)
			deviation := valueDeviationPct(s)
			return Detail{
				Message: fmt.Sprintf("Line totals %s USD differ from expected value %s USD by %s%%",
					actual.StringFixed(2), expected.StringFixed(2), deviation.StringFixed(1)),
				Details: map[string]string{
					"line_total_usd":     actual.StringFixed(2),
					"expected_value_usd": expected.StringFixed(2),
					"deviation_pct":      deviation.StringFixed(1),
				},
			}
		},
	},
}
