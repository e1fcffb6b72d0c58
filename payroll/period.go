/*
period.go - Pay period calendar arithmetic

PURPOSE:
  Partitions continuous time into non-overlapping, numbered pay periods.
  Every period is derived from (anchor date, frequency) by pure arithmetic;
  nothing here is persisted or cached.

THE MODEL:
  The anchor date is the start of period #1. For WEEKLY/BIWEEKLY the period
  length is fixed (7/14 days) and the enclosing period is a floor division
  of the day offset from the anchor. For MONTHLY, periods are anchored to
  the anchor's day-of-month and walked month by month, clamping the day to
  short months, so every calendar month yields exactly one period.

PRE-ANCHOR DATES:
  Dates before the anchor floor toward negative infinity (not toward zero),
  so boundaries stay consistent on both sides of the anchor. They yield
  period numbers <= 0; whether that is valid is the caller's decision.

BOUNDARY TIE-BREAK:
  A date equal to a period's end date belongs to that period, not the next.

SEE ALSO:
  - navigator.go: company-scoped lookups using a stored PaySchedule
  - time.go: floorDiv and clamped month arithmetic
*/
package payroll

import (
	"fmt"
	"time"
)

// =============================================================================
// PAY FREQUENCY
// =============================================================================

type PayFrequency string

const (
	Weekly   PayFrequency = "weekly"
	Biweekly PayFrequency = "biweekly"
	Monthly  PayFrequency = "monthly"
)

func (f PayFrequency) Valid() bool {
	return f == Weekly || f == Biweekly || f == Monthly
}

// PeriodsPerYear is informational only (display), never used for boundary
// math: a year does not contain a whole number of weekly periods.
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case Weekly:
		return 52
	case Biweekly:
		return 26
	case Monthly:
		return 12
	default:
		return 0
	}
}

// lengthDays returns the fixed period length, or 0 for MONTHLY where the
// length varies with the calendar.
func (f PayFrequency) lengthDays() int {
	switch f {
	case Weekly:
		return 7
	case Biweekly:
		return 14
	default:
		return 0
	}
}

// =============================================================================
// PERIOD - Value object, never persisted
// =============================================================================

// Period is one pay period: an inclusive date range with a 1-based ordinal
// number counted from the anchor. Periods of the same frequency/anchor never
// overlap and cover all time from the anchor onward with no gaps.
type Period struct {
	Start     Date
	End       Date
	Frequency PayFrequency
	// Number is 1-based from the anchor. Dates before the anchor produce
	// numbers <= 0.
	Number int

	// anchor is carried so Next/Previous stay anchored arithmetic rather
	// than naive calendar subtraction.
	anchor Date
}

// Contains returns true if the date falls within [Start, End].
func (p Period) Contains(d Date) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// ContainsTime returns true if the instant falls within the period's days.
func (p Period) ContainsTime(t time.Time) bool {
	return p.Contains(DateOf(t))
}

// Next returns the following period.
func (p Period) Next() Period {
	next, _ := PeriodByNumber(p.Number+1, p.anchor, p.Frequency)
	return next
}

// Previous returns the preceding period.
func (p Period) Previous() Period {
	prev, _ := PeriodByNumber(p.Number-1, p.anchor, p.Frequency)
	return prev
}

func (p Period) String() string {
	return fmt.Sprintf("[%s, %s]", p.Start, p.End)
}

// Label is the display string surfaced to dashboards,
// e.g. "Period 3: Jan 29 - Feb 11, 2024".
func (p Period) Label() string {
	return fmt.Sprintf("Period %d: %s - %s, %d",
		p.Number, p.Start.Time.Format("Jan 02"), p.End.Time.Format("Jan 02"), p.End.Year())
}

// =============================================================================
// PERIOD CALCULATOR
// =============================================================================

// PeriodFor returns the period enclosing the given date.
func PeriodFor(date, anchor Date, freq PayFrequency) (Period, error) {
	if anchor.IsZero() {
		return Period{}, &ConfigurationError{Reason: "anchor date is not set"}
	}
	if !freq.Valid() {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}

	if l := freq.lengthDays(); l > 0 {
		// Floor toward negative infinity so pre-anchor dates land in the
		// correct earlier bucket instead of sharing period 1's boundaries.
		idx := floorDiv(DaysBetween(anchor, date), l)
		return fixedLengthPeriod(idx, anchor, freq, l), nil
	}
	return monthlyPeriodFor(date, anchor), nil
}

// PeriodByNumber locates a period directly from its 1-based number, without
// scanning. Inverts the same arithmetic as PeriodFor.
func PeriodByNumber(n int, anchor Date, freq PayFrequency) (Period, error) {
	if anchor.IsZero() {
		return Period{}, &ConfigurationError{Reason: "anchor date is not set"}
	}
	if !freq.Valid() {
		return Period{}, fmt.Errorf("%w: %q", ErrInvalidFrequency, freq)
	}

	idx := n - 1
	if l := freq.lengthDays(); l > 0 {
		return fixedLengthPeriod(idx, anchor, freq, l), nil
	}
	return monthlyPeriod(idx, anchor), nil
}

func fixedLengthPeriod(idx int, anchor Date, freq PayFrequency, length int) Period {
	start := anchor.AddDays(idx * length)
	return Period{
		Start:     start,
		End:       start.AddDays(length - 1),
		Frequency: freq,
		Number:    idx + 1,
		anchor:    anchor,
	}
}

// monthlyPeriod builds the period at the given index by clamped month
// offsets from the anchor. Offsets are always taken from the anchor itself,
// never cumulatively, so an anchor on the 31st keeps producing 31st-anchored
// starts after passing through a short month.
func monthlyPeriod(idx int, anchor Date) Period {
	start := addMonthsClamped(anchor, idx)
	end := addMonthsClamped(anchor, idx+1).AddDays(-1)
	return Period{
		Start:     start,
		End:       end,
		Frequency: Monthly,
		Number:    idx + 1,
		anchor:    anchor,
	}
}

// monthlyPeriodFor walks one month at a time from the anchor until the date
// falls inside a period. Month lengths vary, so this is exact where a fixed
// day count would drift.
func monthlyPeriodFor(date, anchor Date) Period {
	idx := 0
	p := monthlyPeriod(idx, anchor)
	for date.After(p.End) {
		idx++
		p = monthlyPeriod(idx, anchor)
	}
	for date.Before(p.Start) {
		idx--
		p = monthlyPeriod(idx, anchor)
	}
	return p
}
