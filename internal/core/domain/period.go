package domain

import "time"

// PeriodType identifies the granularity of a snapshot or closing period.
type PeriodType string

const (
	PeriodDaily   PeriodType = "DAILY"
	PeriodMonthly PeriodType = "MONTHLY"
	PeriodYearly  PeriodType = "YEARLY"
)

// DateOnly normalizes t to midnight UTC. All ledger dates have day
// granularity; normalizing at the edges keeps comparisons exact.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first day of the given month at midnight UTC.
func MonthStart(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last day of the given month at midnight UTC.
func MonthEnd(year int, month time.Month) time.Time {
	return MonthStart(year, month).AddDate(0, 1, -1)
}

// YearStart returns January 1st of the given year at midnight UTC.
func YearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// YearEnd returns December 31st of the given year at midnight UTC.
func YearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}

// ClosedPeriod marks a date range that no longer accepts postings.
type ClosedPeriod struct {
	PeriodID   string     `json:"periodID"`
	PeriodType PeriodType `json:"periodType"`
	StartDate  time.Time  `json:"startDate"`
	EndDate    time.Time  `json:"endDate"`
	AuditFields
}

// Contains reports whether d (day granularity) falls inside the closed range.
func (p ClosedPeriod) Contains(d time.Time) bool {
	d = DateOnly(d)
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}
