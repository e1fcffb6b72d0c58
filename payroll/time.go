package payroll

import "time"

// =============================================================================
// DATE - Day-granularity time abstraction (periods are date ranges)
// =============================================================================

// Date is a calendar day, normalized to UTC midnight. Pay periods are
// date-based: a period starts at the beginning of its start date and ends at
// the end of its end date. Clock timestamps stay as time.Time; Date is only
// for period boundaries and schedule anchors.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return DateOf(d.Time.AddDate(0, 0, n)) }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// EndOfDay returns the last instant attributed to this date. Used when a
// date-bounded period must be compared against clock timestamps.
func (d Date) EndOfDay() time.Time {
	return d.Time.Add(24*time.Hour - time.Nanosecond)
}

// =============================================================================
// DATE UTILITIES
// =============================================================================

// DaysBetween returns the signed day count from one date to another.
// Negative when to is before from.
func DaysBetween(from, to Date) int {
	return int(to.Time.Sub(from.Time).Hours() / 24)
}

// floorDiv divides with flooring toward negative infinity. Go's integer
// division truncates toward zero, which mis-buckets dates before the anchor:
// -3/14 must be -1 (previous period), not 0.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// addMonthsClamped moves a date by whole months, clamping the day-of-month to
// the target month's length instead of letting it spill over (Go's AddDate
// turns Jan 31 + 1 month into Mar 2/3). Monthly pay periods anchored on the
// 29th-31st need the clamped behavior so every month yields exactly one period.
func addMonthsClamped(d Date, n int) Date {
	y := d.Year()
	m := int(d.Month()) - 1 + n
	y += m / 12
	m = m % 12
	if m < 0 {
		m += 12
		y--
	}
	month := time.Month(m + 1)
	day := d.Day()
	if max := daysInMonth(y, month); day > max {
		day = max
	}
	return NewDate(y, month, day)
}
