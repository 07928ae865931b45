package booking

import (
	"time"

	"github.com/pawhaus/service-boarding/internal/domain"
)

// Period is a boarding stay interval. Both endpoints are inclusive: a stay
// arriving and departing on the same day occupies the kennel for that day.
type Period struct {
	Arrival   time.Time
	Departure time.Time
}

// Overlaps reports whether the other period intersects this one. Two periods
// overlap when other.Departure >= p.Arrival and other.Arrival <= p.Departure.
func (p Period) Overlaps(other Period) bool {
	return !other.Departure.Before(p.Arrival) && !other.Arrival.After(p.Departure)
}

// ValidatePeriod checks that a proposed stay is well-formed and not in the
// past relative to now. The caller supplies now so the check stays
// deterministic under test. Only stays targeting StatusBooked are subject to
// this check.
func ValidatePeriod(arrival, departure, now time.Time) error {
	if arrival.After(departure) {
		return domain.NewValidationError(domain.CodeInvalidPeriod, "arrival must not be after departure")
	}
	if arrival.Before(now) {
		return domain.NewValidationError(domain.CodePastPeriod, "arrival must not be in the past")
	}
	return nil
}

// IsFuturePeriod reports whether the stay passes ValidatePeriod.
func IsFuturePeriod(arrival, departure, now time.Time) bool {
	return ValidatePeriod(arrival, departure, now) == nil
}
