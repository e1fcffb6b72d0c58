/*
aggregate.go - Shift-to-payroll aggregation

PURPOSE:
  Combines completed shifts plus wage information into period totals (hours,
  earnings) and period-over-period deltas for dashboards. Pure functions:
  the same shift list always yields the same totals.

ROUNDING:
  Per-shift hours are minutes/60 rounded half-up to 2 decimal places;
  earnings are hours x wage rounded the same way. Totals sum the
  pre-rounded per-shift values rather than re-deriving from raw durations -
  that is what payroll auditors expect to reconcile against.

EFFECTIVE WAGE:
  Employee-specific override if present and positive, else the job's
  default wage, else zero.

PERCENT CHANGE:
  PeriodOverPeriodDelta's percent is (current/previous)*100 - a ratio to
  the previous total, not a percentage-point delta - and returns 0 when the
  previous total is zero. Dashboards surface this number directly.

SEE ALSO:
  - service.go: feeds completed shifts from the store into these functions
*/
package payments

import (
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

var (
	minutesPerHour = decimal.NewFromInt(60)
	hundred        = decimal.NewFromInt(100)
)

// =============================================================================
// PER-SHIFT MATH
// =============================================================================

// ShiftHours returns the shift's worked hours, rounded half-up to 2 decimal
// places. Open shifts contribute zero.
func ShiftHours(s payroll.ShiftRecord) decimal.Decimal {
	if s.Status != payroll.ShiftCompleted || s.ClockOut.IsZero() {
		return decimal.Zero
	}
	minutes := decimal.NewFromFloat(s.ClockOut.Sub(s.ClockIn).Minutes())
	return minutes.Div(minutesPerHour).Round(2)
}

// ShiftEarnings returns hours x wage, rounded half-up to 2 decimal places.
func ShiftEarnings(s payroll.ShiftRecord, hourlyWage decimal.Decimal) decimal.Decimal {
	return ShiftHours(s).Mul(hourlyWage).Round(2)
}

// EffectiveWage resolves the wage used for a shift: the override when
// positive, else the job default, else zero.
func EffectiveWage(override, jobDefault decimal.Decimal) decimal.Decimal {
	if override.IsPositive() {
		return override
	}
	if jobDefault.IsPositive() {
		return jobDefault
	}
	return decimal.Zero
}

// =============================================================================
// PERIOD TOTALS
// =============================================================================

// Totals is the aggregation of a set of completed shifts.
type Totals struct {
	TotalHours    decimal.Decimal
	TotalEarnings decimal.Decimal
	ShiftCount    int
}

// ShiftTotals sums hours and earnings independently across completed
// shifts, using pre-rounded per-shift values. wageFor resolves the
// effective hourly wage for each shift's employee-job.
func ShiftTotals(shifts []payroll.ShiftRecord, wageFor func(payroll.EmployeeJobID) decimal.Decimal) Totals {
	totals := Totals{TotalHours: decimal.Zero, TotalEarnings: decimal.Zero}
	for _, s := range shifts {
		if s.Status != payroll.ShiftCompleted {
			continue
		}
		totals.TotalHours = totals.TotalHours.Add(ShiftHours(s))
		totals.TotalEarnings = totals.TotalEarnings.Add(ShiftEarnings(s, wageFor(s.EmployeeJobID)))
		totals.ShiftCount++
	}
	return totals
}

// =============================================================================
// PERIOD-OVER-PERIOD DELTA
// =============================================================================

// Delta compares a current total against the previous period's.
type Delta struct {
	Absolute decimal.Decimal
	// Percent is (current/previous)*100, 0 when previous is zero.
	Percent decimal.Decimal
}

// PeriodOverPeriodDelta computes the dashboard delta between two totals.
func PeriodOverPeriodDelta(current, previous decimal.Decimal) Delta {
	d := Delta{Absolute: current.Sub(previous), Percent: decimal.Zero}
	if !previous.IsZero() {
		d.Percent = current.Div(previous).Mul(hundred).Round(2)
	}
	return d
}
