package clock_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/clock"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payroll/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) (*clock.ShiftService, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	return clock.NewShiftService(mem, mem), mem
}

func seedEmployee(t *testing.T, mem *store.Memory, id string, status payroll.EmployeeStatus) {
	t.Helper()
	err := mem.SaveEmployee(context.Background(), payroll.Employee{
		ID:        payroll.EmployeeID(id),
		CompanyID: "acme",
		Name:      id,
		Status:    status,
	})
	require.NoError(t, err)
}

// =============================================================================
// SINGLE CLOCK OPERATIONS
// =============================================================================

func TestShiftService_ClockInThenOut(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, mem, "e1", payroll.EmployeeActive)

	in := time.Now().Add(-8 * time.Hour)
	shift, err := svc.ClockIn(ctx, "e1", "ej1", in)
	require.NoError(t, err)
	assert.Equal(t, payroll.ShiftActive, shift.Status)
	assert.True(t, shift.IsOpen())

	out := in.Add(8 * time.Hour)
	closed, err := svc.ClockOut(ctx, "e1", out)
	require.NoError(t, err)
	assert.Equal(t, payroll.ShiftCompleted, closed.Status)
	assert.Equal(t, 8*time.Hour, closed.Duration())

	// No active shift remains.
	active, err := mem.ActiveShift(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestShiftService_SecondClockIn_Rejected(t *testing.T) {
	// GIVEN: An employee already clocked in
	// WHEN: Clocking in again
	// THEN: ErrAlreadyClockedIn, and exactly one ACTIVE shift survives

	svc, mem := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, mem, "e1", payroll.EmployeeActive)

	first, err := svc.ClockIn(ctx, "e1", "ej1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = svc.ClockIn(ctx, "e1", "ej1", time.Now())
	assert.ErrorIs(t, err, payroll.ErrAlreadyClockedIn)

	active, err := mem.ActiveShift(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, first.ID, active.ID)
}

func TestShiftService_ClockOutWithoutShift_Rejected(t *testing.T) {
	svc, mem := newTestService(t)
	seedEmployee(t, mem, "e1", payroll.EmployeeActive)

	_, err := svc.ClockOut(context.Background(), "e1", time.Now())
	assert.ErrorIs(t, err, payroll.ErrNoActiveShift)
}

func TestShiftService_InactiveEmployee_CannotClockIn(t *testing.T) {
	svc, mem := newTestService(t)
	seedEmployee(t, mem, "e1", payroll.EmployeeInactive)

	_, err := svc.ClockIn(context.Background(), "e1", "ej1", time.Now())
	assert.ErrorIs(t, err, payroll.ErrEmployeeInactive)
}

func TestShiftService_FailedClockIn_LeavesNoShift(t *testing.T) {
	// GIVEN: A clock-in that fails validation (future time)
	// WHEN: The transaction rolls back
	// THEN: No shift record exists for the employee

	svc, mem := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, mem, "e1", payroll.EmployeeActive)

	_, err := svc.ClockIn(ctx, "e1", "ej1", time.Now().Add(time.Hour))
	require.ErrorIs(t, err, payroll.ErrInvalidOperation)

	active, err := mem.ActiveShift(ctx, "e1")
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestShiftService_Toggle(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, mem, "e1", payroll.EmployeeActive)

	action, _, err := svc.Toggle(ctx, "e1", "ej1", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, clock.ActionClockIn, action)

	action, shift, err := svc.Toggle(ctx, "e1", "ej1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, clock.ActionClockOut, action)
	assert.Equal(t, payroll.ShiftCompleted, shift.Status)
}

// =============================================================================
// GROUP OPERATIONS
// =============================================================================

func TestShiftService_GroupClockIn_PartialFailure(t *testing.T) {
	// GIVEN: Three employees, one already clocked in
	// WHEN: Group clock-in for all three
	// THEN: Two succeed, one itemized failure with a stable code; the
	//       failure never aborts the rest

	svc, mem := newTestService(t)
	ctx := context.Background()
	for _, id := range []string{"e1", "e2", "e3"} {
		seedEmployee(t, mem, id, payroll.EmployeeActive)
	}
	_, err := svc.ClockIn(ctx, "e2", "ej2", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	members := []clock.GroupMember{
		{EmployeeID: "e1", EmployeeJobID: "ej1"},
		{EmployeeID: "e2", EmployeeJobID: "ej2"},
		{EmployeeID: "e3", EmployeeJobID: "ej3"},
	}
	result, err := svc.GroupClockIn(ctx, members, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount())
	require.Equal(t, 1, result.FailureCount())
	assert.Equal(t, "e2", result.Failures[0].Key)
	assert.Equal(t, "already_clocked_in", result.Failures[0].Code)
}

func TestShiftService_GroupClockIn_EmptyBatch(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.GroupClockIn(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, payroll.ErrEmptyBatch)
}

func TestShiftService_GroupClockIn_OverLimit(t *testing.T) {
	svc, _ := newTestService(t)

	members := make([]clock.GroupMember, payroll.MaxClockBatch+1)
	_, err := svc.GroupClockIn(context.Background(), members, time.Now())
	assert.ErrorIs(t, err, payroll.ErrBatchTooLarge)
}

func TestShiftService_GroupStatus(t *testing.T) {
	svc, mem := newTestService(t)
	ctx := context.Background()
	seedEmployee(t, mem, "e1", payroll.EmployeeActive)
	seedEmployee(t, mem, "e2", payroll.EmployeeActive)

	_, err := svc.ClockIn(ctx, "e1", "ej1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	actions, err := svc.GroupStatus(ctx, []payroll.EmployeeID{"e1", "e2"})
	require.NoError(t, err)
	assert.Equal(t, clock.ActionClockOut, actions["e1"])
	assert.Equal(t, clock.ActionClockIn, actions["e2"])
}
