package circulation

import "time"

const (
	DailyFee         = 1.0
	ExtendedDailyFee = 2.0
	FeeTierDays      = 30
)

/* Computes the overdue fee of a loan due at dueDate, as of asOf. The first 30 overdue
days cost DailyFee each, every day after that costs ExtendedDailyFee. Pure function,
callable for open loans (asOf = now) and for closed ones (asOf = return date). */
func ComputeOverdueFee(dueDate, asOf time.Time) float64 {
	days := OverdueDays(dueDate, asOf)
	if days <= 0 {
		return 0
	}
	if days <= FeeTierDays {
		return float64(days) * DailyFee
	}
	return FeeTierDays*DailyFee + float64(days-FeeTierDays)*ExtendedDailyFee
}

/* Whole days between the due date and asOf, never negative. Partial days do not count:
a loan is one day overdue only once a full 24h have passed after the due date. */
func OverdueDays(dueDate, asOf time.Time) int {
	if !asOf.After(dueDate) {
		return 0
	}
	return int(asOf.Sub(dueDate) / (24 * time.Hour))
}
