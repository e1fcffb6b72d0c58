/*
Package clock implements the per-employee clock state machine.

PURPOSE:
  Decides whether an employee's next clock action is a clock-in or a
  clock-out and validates the action's preconditions. The critical
  invariant: at most one ACTIVE shift per employee at any time.

WHAT THE RESOLVER CHECKS:
  Clock-in:
    1. Employee status is ACTIVE
    2. No ACTIVE shift already exists (AlreadyClockedIn)
    3. The clock-in time is not more than 5 minutes in the future
       (allowance for client clock skew, nothing more)
  Clock-out:
    1. An ACTIVE shift exists (NoActiveShift)
    2. The clock-out is not before the clock-in
    3. The resulting duration is at most 24 hours - bounds both data-entry
       mistakes and runaway "forgot to clock out" shifts

SIDE EFFECTS:
  None. Successful validation authorizes the caller to create or close a
  ShiftRecord; persistence belongs to the store (see service.go).

SEE ALSO:
  - service.go: runs validation inside the store transaction
  - payroll/errors.go: the sentinel errors wrapped here
*/
package clock

import (
	"fmt"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// Timing bounds for clock actions.
const (
	// FutureTolerance is how far ahead of the server clock a clock time may
	// be before it is rejected.
	FutureTolerance = 5 * time.Minute

	// MaxShiftDuration caps a single shift.
	MaxShiftDuration = 24 * time.Hour
)

// =============================================================================
// CLOCK ACTION
// =============================================================================

type Action string

const (
	ActionClockIn  Action = "clock_in"
	ActionClockOut Action = "clock_out"
)

// DetermineAction classifies the employee's next clock action based solely
// on whether an ACTIVE shift currently exists.
func DetermineAction(active *payroll.ShiftRecord) Action {
	if active != nil {
		return ActionClockOut
	}
	return ActionClockIn
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolver validates clock actions against snapshots of employee and shift
// state. Now is injectable for tests; it defaults to time.Now.
type Resolver struct {
	Now func() time.Time
}

func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// ValidateClockIn authorizes creating an ACTIVE shift for the employee.
// The active snapshot must be read inside the same transaction that will
// write the shift; validating against a stale read races the insert.
func (r *Resolver) ValidateClockIn(employee *payroll.Employee, active *payroll.ShiftRecord, at time.Time) error {
	if employee == nil {
		return payroll.ErrEmployeeNotFound
	}
	if employee.Status != payroll.EmployeeActive {
		return &payroll.ClockError{
			EmployeeID: employee.ID,
			Reason:     "employee is not active",
			Sentinel:   payroll.ErrEmployeeInactive,
		}
	}
	if active != nil {
		return &payroll.ClockError{
			EmployeeID: employee.ID,
			Reason:     fmt.Sprintf("already clocked in since %s", active.ClockIn.Format(time.RFC3339)),
			Sentinel:   payroll.ErrAlreadyClockedIn,
		}
	}
	if at.Sub(r.now()) > FutureTolerance {
		return &payroll.ClockError{
			EmployeeID: employee.ID,
			Reason:     "clock-in time is in the future",
			Sentinel:   payroll.ErrInvalidOperation,
		}
	}
	return nil
}

// ValidateClockOut authorizes closing the open shift at the given time.
func (r *Resolver) ValidateClockOut(open *payroll.ShiftRecord, at time.Time) error {
	if open == nil || !open.IsOpen() {
		return payroll.ErrNoActiveShift
	}
	if at.Before(open.ClockIn) {
		return &payroll.ClockError{
			EmployeeID: open.EmployeeID,
			Reason:     "clock-out is before clock-in",
			Sentinel:   payroll.ErrInvalidOperation,
		}
	}
	if at.Sub(open.ClockIn) > MaxShiftDuration {
		return &payroll.ClockError{
			EmployeeID: open.EmployeeID,
			Reason:     fmt.Sprintf("shift exceeds %s", MaxShiftDuration),
			Sentinel:   payroll.ErrInvalidOperation,
		}
	}
	return nil
}
