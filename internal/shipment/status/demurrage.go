package status

import (
	"math"
	"time"

	domainShipment "freight-operations/internal/domain/shipment"
)

// DaysRemaining computes how many free-time days are left before demurrage
// charges accrue. The second return value is false when ETA or the free-time
// allowance is absent. Negative values mean the window was already exceeded;
// zero means the deadline is today. The computation uses calendar days with
// the time of day zeroed and never mutates its inputs.
func DaysRemaining(s *domainShipment.Snapshot, now time.Time) (int, bool) {
	if s.ETA == nil || s.FreeTimeDays == nil {
		return 0, false
	}

	deadline := midnight(*s.ETA).AddDate(0, 0, *s.FreeTimeDays)

	comparison := now
	if s.CustomsClearanceDate != nil {
		comparison = *s.CustomsClearanceDate
	}

	days := math.Floor(deadline.Sub(midnight(comparison)).Hours() / 24)
	return int(days), true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
