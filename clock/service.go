/*
service.go - Shift clock operations over the persistence collaborators

PURPOSE:
  Drives the resolver against live store state. Each clock action runs
  read-then-decide-then-write inside a single store transaction: the active
  shift is re-read through the transactional view immediately before the
  write, so two concurrent clock-ins for the same employee cannot both
  succeed - the loser fails validation, or the store's uniqueness
  constraint rejects its insert.

GROUP OPERATIONS:
  Group clock-in/out apply the same single-shift path to each member
  through the batch runner: itemized successes and failures, never an
  aborted batch. Employee display info is pre-fetched in one query so
  batch reporting doesn't fan out into N+1 lookups.

SEE ALSO:
  - resolver.go: the validation rules
  - payroll/batch.go: the batch runner
  - store/sqlite: the uniqueness constraint backing the invariant
*/
package clock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// SHIFT SERVICE
// =============================================================================

type ShiftService struct {
	employees payroll.EmployeeStore
	shifts    payroll.ShiftStore
	resolver  *Resolver
}

func NewShiftService(employees payroll.EmployeeStore, shifts payroll.ShiftStore) *ShiftService {
	return &ShiftService{
		employees: employees,
		shifts:    shifts,
		resolver:  NewResolver(),
	}
}

// ClockIn opens a new ACTIVE shift for the employee at the given time.
func (s *ShiftService) ClockIn(ctx context.Context, employeeID payroll.EmployeeID, jobID payroll.EmployeeJobID, at time.Time) (payroll.ShiftRecord, error) {
	employee, err := s.employees.Employee(ctx, employeeID)
	if err != nil {
		return payroll.ShiftRecord{}, err
	}

	shift := payroll.ShiftRecord{
		ID:            payroll.ShiftID(uuid.NewString()),
		EmployeeID:    employeeID,
		EmployeeJobID: jobID,
		ClockIn:       at,
		Status:        payroll.ShiftActive,
	}

	err = s.shifts.WithClockTx(ctx, func(m payroll.ShiftMutator) error {
		active, err := m.ActiveShift(ctx, employeeID)
		if err != nil {
			return err
		}
		if err := s.resolver.ValidateClockIn(employee, active, at); err != nil {
			return err
		}
		return m.CreateShift(ctx, shift)
	})
	if err != nil {
		return payroll.ShiftRecord{}, err
	}
	return shift, nil
}

// ClockOut closes the employee's open shift at the given time.
func (s *ShiftService) ClockOut(ctx context.Context, employeeID payroll.EmployeeID, at time.Time) (payroll.ShiftRecord, error) {
	var closed payroll.ShiftRecord

	err := s.shifts.WithClockTx(ctx, func(m payroll.ShiftMutator) error {
		active, err := m.ActiveShift(ctx, employeeID)
		if err != nil {
			return err
		}
		if err := s.resolver.ValidateClockOut(active, at); err != nil {
			return err
		}
		if err := m.CloseShift(ctx, active.ID, at); err != nil {
			return err
		}
		closed = *active
		closed.ClockOut = at
		closed.Status = payroll.ShiftCompleted
		return nil
	})
	if err != nil {
		return payroll.ShiftRecord{}, err
	}
	return closed, nil
}

// NextAction reports whether the employee's next clock action is a clock-in
// or a clock-out.
func (s *ShiftService) NextAction(ctx context.Context, employeeID payroll.EmployeeID) (Action, error) {
	active, err := s.shifts.ActiveShift(ctx, employeeID)
	if err != nil {
		return "", err
	}
	return DetermineAction(active), nil
}

// Toggle performs whichever clock action the employee's state calls for.
func (s *ShiftService) Toggle(ctx context.Context, employeeID payroll.EmployeeID, jobID payroll.EmployeeJobID, at time.Time) (Action, payroll.ShiftRecord, error) {
	action, err := s.NextAction(ctx, employeeID)
	if err != nil {
		return "", payroll.ShiftRecord{}, err
	}

	var shift payroll.ShiftRecord
	if action == ActionClockIn {
		shift, err = s.ClockIn(ctx, employeeID, jobID, at)
	} else {
		shift, err = s.ClockOut(ctx, employeeID, at)
	}
	return action, shift, err
}

// =============================================================================
// GROUP CLOCK OPERATIONS
// =============================================================================

// GroupMember identifies one employee in a group clock request.
type GroupMember struct {
	EmployeeID    payroll.EmployeeID
	EmployeeJobID payroll.EmployeeJobID
}

// GroupClockIn clocks in every member, itemized. A member's failure never
// prevents the rest from being attempted; batch-level validation (empty,
// oversize) rejects upfront.
func (s *ShiftService) GroupClockIn(ctx context.Context, members []GroupMember, at time.Time) (payroll.BatchResult[payroll.ShiftRecord], error) {
	return payroll.RunBatch(members, payroll.MaxClockBatch,
		func(m GroupMember) string { return string(m.EmployeeID) },
		func(m GroupMember) (payroll.ShiftRecord, error) {
			return s.ClockIn(ctx, m.EmployeeID, m.EmployeeJobID, at)
		})
}

// GroupClockOut clocks out every member, itemized.
func (s *ShiftService) GroupClockOut(ctx context.Context, ids []payroll.EmployeeID, at time.Time) (payroll.BatchResult[payroll.ShiftRecord], error) {
	return payroll.RunBatch(ids, payroll.MaxClockBatch,
		func(id payroll.EmployeeID) string { return string(id) },
		func(id payroll.EmployeeID) (payroll.ShiftRecord, error) {
			return s.ClockOut(ctx, id, at)
		})
}

// GroupStatus returns each member's next action in one pass, using the
// batched active-shift lookup.
func (s *ShiftService) GroupStatus(ctx context.Context, ids []payroll.EmployeeID) (map[payroll.EmployeeID]Action, error) {
	active, err := s.shifts.ActiveShiftsByEmployees(ctx, ids)
	if err != nil {
		return nil, err
	}
	actions := make(map[payroll.EmployeeID]Action, len(ids))
	for _, id := range ids {
		actions[id] = DetermineAction(active[id])
	}
	return actions, nil
}
