/*
navigator.go - Company-scoped period lookups

PURPOSE:
  Wraps the period calculator with a company's stored pay schedule so
  callers can ask "what period are we in" without carrying the schedule
  themselves. The schedule is re-read on every call: it is mutable per
  company over time, and period math must stay reproducible from
  (date, anchor, frequency) with no hidden context.

FAILURE:
  Every method fails with a ConfigurationError (wrapping ErrNotConfigured)
  when the company has no schedule or the schedule lacks an anchor date.

HISTORY WALKS:
  ListRecent walks backward by whole period lengths from the current
  period, not by calendar subtraction. A schedule change invalidates
  historical period numbering; reconciling that is the caller's
  responsibility.

SEE ALSO:
  - period.go: the underlying calendar arithmetic
  - store.go: ScheduleSource collaborator
*/
package payroll

import (
	"context"
	"time"
)

// =============================================================================
// PERIOD NAVIGATOR
// =============================================================================

type Navigator struct {
	schedules ScheduleSource
}

func NewNavigator(schedules ScheduleSource) *Navigator {
	return &Navigator{schedules: schedules}
}

// schedule loads and checks the company's configuration.
func (n *Navigator) schedule(ctx context.Context, companyID CompanyID) (*PaySchedule, error) {
	s, err := n.schedules.PaySchedule(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !s.Configured() {
		return nil, &ConfigurationError{CompanyID: companyID, Reason: "pay schedule has no anchor date"}
	}
	return s, nil
}

// Current returns the period containing today.
func (n *Navigator) Current(ctx context.Context, companyID CompanyID) (Period, error) {
	return n.On(ctx, companyID, Today())
}

// On returns the period containing the given date.
func (n *Navigator) On(ctx context.Context, companyID CompanyID, date Date) (Period, error) {
	s, err := n.schedule(ctx, companyID)
	if err != nil {
		return Period{}, err
	}
	return PeriodFor(date, s.AnchorDate, s.Frequency)
}

// ByNumber returns the period with the given 1-based number.
func (n *Navigator) ByNumber(ctx context.Context, companyID CompanyID, number int) (Period, error) {
	s, err := n.schedule(ctx, companyID)
	if err != nil {
		return Period{}, err
	}
	return PeriodByNumber(number, s.AnchorDate, s.Frequency)
}

// ListRecent returns the count most recent periods, most-recent-first,
// including the current period.
func (n *Navigator) ListRecent(ctx context.Context, companyID CompanyID, count int) ([]Period, error) {
	current, err := n.Current(ctx, companyID)
	if err != nil {
		return nil, err
	}

	periods := make([]Period, 0, count)
	p := current
	for i := 0; i < count; i++ {
		periods = append(periods, p)
		p = p.Previous()
	}
	return periods, nil
}

// =============================================================================
// GRACE-WINDOW ATTRIBUTION
// =============================================================================

// AttributeShift returns the period a completed shift's time belongs to.
// The shift follows its clock-in period as long as the clock-out lands
// within that period or within the schedule's grace window after the
// period's end; a later clock-out moves the shift to the clock-out period.
func (n *Navigator) AttributeShift(ctx context.Context, companyID CompanyID, clockIn, clockOut time.Time) (Period, error) {
	s, err := n.schedule(ctx, companyID)
	if err != nil {
		return Period{}, err
	}

	inPeriod, err := PeriodFor(DateOf(clockIn), s.AnchorDate, s.Frequency)
	if err != nil {
		return Period{}, err
	}
	if clockOut.IsZero() || inPeriod.ContainsTime(clockOut) {
		return inPeriod, nil
	}
	if clockOut.Sub(inPeriod.End.EndOfDay()) <= s.GraceWindow() {
		return inPeriod, nil
	}
	return PeriodFor(DateOf(clockOut), s.AnchorDate, s.Frequency)
}
