package payroll_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func date(year int, month time.Month, day int) payroll.Date {
	return payroll.NewDate(year, month, day)
}

func mustPeriodFor(t *testing.T, d, anchor payroll.Date, freq payroll.PayFrequency) payroll.Period {
	t.Helper()
	p, err := payroll.PeriodFor(d, anchor, freq)
	if err != nil {
		t.Fatalf("PeriodFor(%s) failed: %v", d, err)
	}
	return p
}

// =============================================================================
// FIXED-LENGTH PERIOD TESTS (WEEKLY / BIWEEKLY)
// =============================================================================

func TestPeriodFor_Biweekly_SecondPeriod(t *testing.T) {
	// GIVEN: Biweekly schedule anchored 2024-01-01
	// WHEN: Resolving 2024-01-15
	// THEN: Period 2, running 2024-01-15 through 2024-01-28

	anchor := date(2024, time.January, 1)
	p := mustPeriodFor(t, date(2024, time.January, 15), anchor, payroll.Biweekly)

	if p.Number != 2 {
		t.Errorf("expected period 2, got %d", p.Number)
	}
	if !p.Start.Equal(date(2024, time.January, 15)) {
		t.Errorf("expected start 2024-01-15, got %s", p.Start)
	}
	if !p.End.Equal(date(2024, time.January, 28)) {
		t.Errorf("expected end 2024-01-28, got %s", p.End)
	}
}

func TestPeriodFor_Biweekly_LastDayOfFirstPeriod(t *testing.T) {
	// GIVEN: Biweekly schedule anchored 2024-01-01
	// WHEN: Resolving 2024-01-14, the first period's final day
	// THEN: Period 1, not period 2 (end date belongs to its period)

	anchor := date(2024, time.January, 1)
	p := mustPeriodFor(t, date(2024, time.January, 14), anchor, payroll.Biweekly)

	if p.Number != 1 {
		t.Errorf("expected period 1, got %d", p.Number)
	}
	if !p.End.Equal(date(2024, time.January, 14)) {
		t.Errorf("expected end 2024-01-14, got %s", p.End)
	}
}

func TestPeriodFor_Weekly_AnchorDay(t *testing.T) {
	// GIVEN: Weekly schedule anchored 2024-03-04 (a Monday)
	// WHEN: Resolving the anchor day itself
	// THEN: Period 1, 2024-03-04 through 2024-03-10

	anchor := date(2024, time.March, 4)
	p := mustPeriodFor(t, anchor, anchor, payroll.Weekly)

	if p.Number != 1 {
		t.Errorf("expected period 1, got %d", p.Number)
	}
	if !p.End.Equal(date(2024, time.March, 10)) {
		t.Errorf("expected end 2024-03-10, got %s", p.End)
	}
}

func TestPeriodFor_BeforeAnchor_FloorsToEarlierPeriod(t *testing.T) {
	// GIVEN: Biweekly schedule anchored 2024-01-15
	// WHEN: Resolving 2024-01-10, five days before the anchor
	// THEN: Period 0, 2024-01-01 through 2024-01-14 (floor toward negative
	//       infinity, never sharing period 1's boundaries)

	anchor := date(2024, time.January, 15)
	p := mustPeriodFor(t, date(2024, time.January, 10), anchor, payroll.Biweekly)

	if p.Number != 0 {
		t.Errorf("expected period 0, got %d", p.Number)
	}
	if !p.Start.Equal(date(2024, time.January, 1)) {
		t.Errorf("expected start 2024-01-01, got %s", p.Start)
	}
	if !p.End.Equal(date(2024, time.January, 14)) {
		t.Errorf("expected end 2024-01-14, got %s", p.End)
	}
}

func TestPeriodFor_NoGapsNoOverlaps(t *testing.T) {
	// GIVEN: A biweekly schedule
	// WHEN: Walking day by day across several periods
	// THEN: Every day lands in exactly one period and period numbers only
	//       step up by one at boundaries

	anchor := date(2024, time.January, 1)
	prev := mustPeriodFor(t, anchor, anchor, payroll.Biweekly)

	for d := anchor.AddDays(1); d.Before(date(2024, time.June, 1)); d = d.AddDays(1) {
		p := mustPeriodFor(t, d, anchor, payroll.Biweekly)
		if !p.Contains(d) {
			t.Fatalf("%s not contained in its own period %s", d, p)
		}
		switch p.Number {
		case prev.Number:
			// Same period: boundaries must not move.
			if !p.Start.Equal(prev.Start) || !p.End.Equal(prev.End) {
				t.Fatalf("period %d boundaries moved at %s", p.Number, d)
			}
		case prev.Number + 1:
			// New period: must start the day after the last one ended.
			if !p.Start.Equal(prev.End.AddDays(1)) {
				t.Fatalf("gap or overlap between period %d and %d at %s", prev.Number, p.Number, d)
			}
		default:
			t.Fatalf("period number jumped from %d to %d at %s", prev.Number, p.Number, d)
		}
		prev = p
	}
}

// =============================================================================
// MONTHLY PERIOD TESTS
// =============================================================================

func TestPeriodFor_Monthly_MidMonthAnchor(t *testing.T) {
	// GIVEN: Monthly schedule anchored 2024-01-15
	// WHEN: Resolving 2024-02-20
	// THEN: Period 2, 2024-02-15 through 2024-03-14

	anchor := date(2024, time.January, 15)
	p := mustPeriodFor(t, date(2024, time.February, 20), anchor, payroll.Monthly)

	if p.Number != 2 {
		t.Errorf("expected period 2, got %d", p.Number)
	}
	if !p.Start.Equal(date(2024, time.February, 15)) {
		t.Errorf("expected start 2024-02-15, got %s", p.Start)
	}
	if !p.End.Equal(date(2024, time.March, 14)) {
		t.Errorf("expected end 2024-03-14, got %s", p.End)
	}
}

func TestPeriodFor_Monthly_EndOfMonthAnchor_ClampsShortMonths(t *testing.T) {
	// GIVEN: Monthly schedule anchored 2024-01-31 (leap year)
	// WHEN: Resolving dates in February and March
	// THEN: Period 2 starts at the clamped 2024-02-29 and ends 2024-03-30;
	//       period 3 resumes the 31st-anchored start

	anchor := date(2024, time.January, 31)

	p2 := mustPeriodFor(t, date(2024, time.March, 1), anchor, payroll.Monthly)
	if p2.Number != 2 {
		t.Fatalf("expected period 2, got %d", p2.Number)
	}
	if !p2.Start.Equal(date(2024, time.February, 29)) {
		t.Errorf("expected clamped start 2024-02-29, got %s", p2.Start)
	}
	if !p2.End.Equal(date(2024, time.March, 30)) {
		t.Errorf("expected end 2024-03-30, got %s", p2.End)
	}

	p3 := p2.Next()
	if !p3.Start.Equal(date(2024, time.March, 31)) {
		t.Errorf("expected period 3 to resume the 31st anchor, got %s", p3.Start)
	}
}

func TestPeriodFor_Monthly_FirstOfMonthAnchor(t *testing.T) {
	// GIVEN: Monthly schedule anchored 2024-01-01
	// WHEN: Resolving the last day of February
	// THEN: Period 2 covers exactly calendar February

	anchor := date(2024, time.January, 1)
	p := mustPeriodFor(t, date(2024, time.February, 29), anchor, payroll.Monthly)

	if p.Number != 2 {
		t.Errorf("expected period 2, got %d", p.Number)
	}
	if !p.Start.Equal(date(2024, time.February, 1)) || !p.End.Equal(date(2024, time.February, 29)) {
		t.Errorf("expected [2024-02-01, 2024-02-29], got %s", p)
	}
}

func TestPeriodFor_Monthly_BeforeAnchor(t *testing.T) {
	// GIVEN: Monthly schedule anchored 2024-03-10
	// WHEN: Resolving 2024-02-15, before the anchor
	// THEN: Period 0, 2024-02-10 through 2024-03-09

	anchor := date(2024, time.March, 10)
	p := mustPeriodFor(t, date(2024, time.February, 15), anchor, payroll.Monthly)

	if p.Number != 0 {
		t.Errorf("expected period 0, got %d", p.Number)
	}
	if !p.Start.Equal(date(2024, time.February, 10)) {
		t.Errorf("expected start 2024-02-10, got %s", p.Start)
	}
	if !p.End.Equal(date(2024, time.March, 9)) {
		t.Errorf("expected end 2024-03-09, got %s", p.End)
	}
}

// =============================================================================
// ROUND-TRIP AND NAVIGATION TESTS
// =============================================================================

func TestPeriodByNumber_RoundTripsWithPeriodFor(t *testing.T) {
	// GIVEN: A schedule in each frequency
	// WHEN: Resolving a period by date, then looking its number back up
	// THEN: The two lookups agree on boundaries

	anchors := map[payroll.PayFrequency]payroll.Date{
		payroll.Weekly:   date(2024, time.January, 1),
		payroll.Biweekly: date(2024, time.January, 1),
		payroll.Monthly:  date(2024, time.January, 31),
	}

	for freq, anchor := range anchors {
		for _, d := range []payroll.Date{
			date(2024, time.February, 5),
			date(2024, time.July, 19),
			date(2025, time.January, 2),
		} {
			byDate := mustPeriodFor(t, d, anchor, freq)
			byNumber, err := payroll.PeriodByNumber(byDate.Number, anchor, freq)
			if err != nil {
				t.Fatalf("%s: PeriodByNumber(%d) failed: %v", freq, byDate.Number, err)
			}
			if !byNumber.Start.Equal(byDate.Start) || !byNumber.End.Equal(byDate.End) {
				t.Errorf("%s: %s resolved to %s but number %d gives %s",
					freq, d, byDate, byDate.Number, byNumber)
			}
		}
	}
}

func TestPeriod_NextPrevious_AreInverse(t *testing.T) {
	// GIVEN: Any period
	// WHEN: Stepping forward then back
	// THEN: The original period returns, and Next is contiguous

	anchor := date(2024, time.January, 31)
	p := mustPeriodFor(t, date(2024, time.May, 5), anchor, payroll.Monthly)

	next := p.Next()
	if !next.Start.Equal(p.End.AddDays(1)) {
		t.Errorf("next period not contiguous: %s then %s", p, next)
	}
	back := next.Previous()
	if !back.Start.Equal(p.Start) || !back.End.Equal(p.End) || back.Number != p.Number {
		t.Errorf("previous(next(p)) != p: got %s, want %s", back, p)
	}
}

// =============================================================================
// CONFIGURATION FAILURES
// =============================================================================

func TestPeriodFor_MissingAnchor_Fails(t *testing.T) {
	// GIVEN: No anchor date
	// WHEN: Resolving any period
	// THEN: ErrNotConfigured, never a silent default

	_, err := payroll.PeriodFor(date(2024, time.January, 15), payroll.Date{}, payroll.Biweekly)
	if !errors.Is(err, payroll.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestPeriodFor_InvalidFrequency_Fails(t *testing.T) {
	_, err := payroll.PeriodFor(date(2024, time.January, 15), date(2024, time.January, 1), "fortnightly")
	if !errors.Is(err, payroll.ErrInvalidFrequency) {
		t.Errorf("expected ErrInvalidFrequency, got %v", err)
	}
}

func TestPeriodByNumber_MissingAnchor_Fails(t *testing.T) {
	_, err := payroll.PeriodByNumber(3, payroll.Date{}, payroll.Weekly)
	if !errors.Is(err, payroll.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
