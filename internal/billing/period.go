// Package billing holds the coverage and billing-cycle rules. Everything is
// derived from the recorded payment history at call time; nothing here is
// cached or persisted.
package billing

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the storage format for payment and connection dates.
	// Lexicographic order on these strings matches chronological order.
	DateLayout = "2006-01-02"

	// PeriodLayout is the human-facing billing period label, e.g. "February 2026".
	PeriodLayout = "January 2006"
)

// Period is a billing month identified numerically. Comparisons on the
// (Year, Month) pair are safe across year boundaries, unlike comparing the
// labels themselves ("December 2025" sorts after "February 2026" as text).
type Period struct {
	Year  int
	Month time.Month
}

// ParsePeriod parses a label like "February 2026".
func ParsePeriod(label string) (Period, error) {
	t, err := time.Parse(PeriodLayout, label)
	if err != nil {
		return Period{}, fmt.Errorf("parse billing period %q: %w", label, err)
	}
	return Period{Year: t.Year(), Month: t.Month()}, nil
}

// Start returns midnight UTC on the first day of the period's month.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Before reports whether p is an earlier month than other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

func (p Period) String() string {
	return p.Start().Format(PeriodLayout)
}

// ParseDate parses a stored YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return t, nil
}

// AddMonths advances t by the given number of calendar months with native
// overflow: Jan 31 plus one month lands on Mar 3 in a non-leap year. The
// overflow is deliberate and the rest of the package depends on it.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
