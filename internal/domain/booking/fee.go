package booking

import "time"

// BillableDays counts the calendar days spanned by a stay, boundary days
// inclusive: arrival and departure on the same day is one billable day,
// Jan 1 to Jan 5 is five. Returns 0 when departure precedes arrival.
func BillableDays(arrival, departure time.Time) int {
	if departure.Before(arrival) {
		return 0
	}
	a := toDay(arrival)
	d := toDay(departure)
	return int(d.Sub(a)/(24*time.Hour)) + 1
}

// CalculateFee returns the boarding fee in cents for the stay. Pure:
// billable days times the daily rate. The fee is recomputed on every create
// and update; client-supplied fees are never trusted.
func CalculateFee(arrival, departure time.Time, dailyFeeCents int64) int64 {
	return int64(BillableDays(arrival, departure)) * dailyFeeCents
}

func toDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
