package payments_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/payroll-engine/payments"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func completedShift(jobID string, minutes int) payroll.ShiftRecord {
	in := time.Date(2024, time.January, 10, 9, 0, 0, 0, time.UTC)
	return payroll.ShiftRecord{
		ID:            "s1",
		EmployeeID:    "e1",
		EmployeeJobID: payroll.EmployeeJobID(jobID),
		ClockIn:       in,
		ClockOut:      in.Add(time.Duration(minutes) * time.Minute),
		Status:        payroll.ShiftCompleted,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flatWage(s string) func(payroll.EmployeeJobID) decimal.Decimal {
	w := dec(s)
	return func(payroll.EmployeeJobID) decimal.Decimal { return w }
}

// =============================================================================
// PER-SHIFT MATH
// =============================================================================

func TestShiftHours_RoundsHalfUpToTwoPlaces(t *testing.T) {
	// 500 minutes = 8.3333... hours -> 8.33
	assert.True(t, payments.ShiftHours(completedShift("j1", 500)).Equal(dec("8.33")))
	// 505 minutes = 8.41666... hours -> 8.42
	assert.True(t, payments.ShiftHours(completedShift("j1", 505)).Equal(dec("8.42")))
	// 90 minutes = exactly 1.5 hours
	assert.True(t, payments.ShiftHours(completedShift("j1", 90)).Equal(dec("1.5")))
}

func TestShiftHours_OpenShift_Zero(t *testing.T) {
	open := completedShift("j1", 480)
	open.ClockOut = time.Time{}
	open.Status = payroll.ShiftActive
	assert.True(t, payments.ShiftHours(open).IsZero())
}

func TestShiftEarnings_RoundedHoursTimesWage(t *testing.T) {
	// GIVEN: 500 minutes at $15.75/h
	// WHEN: Computing earnings
	// THEN: 8.33 (pre-rounded hours) x 15.75 = 131.1975 -> 131.20

	s := completedShift("j1", 500)
	got := payments.ShiftEarnings(s, dec("15.75"))
	assert.True(t, got.Equal(dec("131.20")), "got %s", got)
}

func TestEffectiveWage_OverrideThenDefaultThenZero(t *testing.T) {
	assert.True(t, payments.EffectiveWage(dec("20"), dec("15")).Equal(dec("20")))
	assert.True(t, payments.EffectiveWage(decimal.Zero, dec("15")).Equal(dec("15")))
	assert.True(t, payments.EffectiveWage(decimal.Zero, decimal.Zero).IsZero())
}

// =============================================================================
// TOTALS
// =============================================================================

func TestShiftTotals_SumsPreRoundedValues(t *testing.T) {
	// GIVEN: Three 500-minute shifts at $10/h
	// WHEN: Totaling
	// THEN: Hours are 3 x 8.33 = 24.99 (sum of rounded values, not the
	//       rounded sum 25.00) and earnings 3 x 83.30 = 249.90

	shifts := []payroll.ShiftRecord{
		completedShift("j1", 500),
		completedShift("j1", 500),
		completedShift("j1", 500),
	}
	totals := payments.ShiftTotals(shifts, flatWage("10"))

	assert.Equal(t, 3, totals.ShiftCount)
	assert.True(t, totals.TotalHours.Equal(dec("24.99")), "got %s", totals.TotalHours)
	assert.True(t, totals.TotalEarnings.Equal(dec("249.90")), "got %s", totals.TotalEarnings)
}

func TestShiftTotals_SkipsOpenShifts(t *testing.T) {
	open := completedShift("j1", 480)
	open.Status = payroll.ShiftActive
	open.ClockOut = time.Time{}

	totals := payments.ShiftTotals([]payroll.ShiftRecord{
		completedShift("j1", 480),
		open,
	}, flatWage("10"))

	assert.Equal(t, 1, totals.ShiftCount)
	assert.True(t, totals.TotalHours.Equal(dec("8")))
}

func TestShiftTotals_Deterministic(t *testing.T) {
	// Same inputs, same totals - the aggregation is pure.
	shifts := []payroll.ShiftRecord{
		completedShift("j1", 455),
		completedShift("j2", 502),
	}
	wage := flatWage("12.50")

	first := payments.ShiftTotals(shifts, wage)
	second := payments.ShiftTotals(shifts, wage)
	assert.True(t, first.TotalHours.Equal(second.TotalHours))
	assert.True(t, first.TotalEarnings.Equal(second.TotalEarnings))
}

// =============================================================================
// PERIOD-OVER-PERIOD DELTA
// =============================================================================

func TestPeriodOverPeriodDelta_RatioPercent(t *testing.T) {
	// GIVEN: Current 120, previous 100
	// WHEN: Computing the delta
	// THEN: Absolute +20, percent 120.00 (ratio, not percentage points)

	d := payments.PeriodOverPeriodDelta(dec("120"), dec("100"))
	assert.True(t, d.Absolute.Equal(dec("20")))
	assert.True(t, d.Percent.Equal(dec("120")))
}

func TestPeriodOverPeriodDelta_ZeroPrevious_NoDivide(t *testing.T) {
	// GIVEN: No activity in the previous period
	// WHEN: Computing the delta
	// THEN: Percent is 0, never a division error

	d := payments.PeriodOverPeriodDelta(dec("50"), decimal.Zero)
	assert.True(t, d.Absolute.Equal(dec("50")))
	assert.True(t, d.Percent.IsZero())
}

func TestPeriodOverPeriodDelta_Decline(t *testing.T) {
	d := payments.PeriodOverPeriodDelta(dec("75"), dec("100"))
	assert.True(t, d.Absolute.Equal(dec("-25")))
	assert.True(t, d.Percent.Equal(dec("75")))
}
