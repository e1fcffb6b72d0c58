/*
store.go - Collaborator interfaces between the engine and persistence

PURPOSE:
  The engine is invoked as a library by service-layer collaborators; it owns
  no storage. These interfaces are what the engine needs from persistence.
  Different implementations can use SQLite or in-memory storage.

TRANSACTION BOUNDARY:
  Clock validation must run against a freshly read state inside the same
  transaction as the write (read, decide, write - one transaction). ShiftTx
  expresses that: WithClockTx hands the callback a view whose reads and
  writes share one database transaction, and the store backs the
  one-ACTIVE-shift invariant with a uniqueness constraint so two concurrent
  clock-ins cannot both commit.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite
  - payroll/store: in-memory for tests

SEE ALSO:
  - clock/service.go: drives ShiftStore through WithClockTx
  - payments/service.go: drives PaymentStore
*/
package payroll

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SCHEDULE LOOKUP
// =============================================================================

// ScheduleSource resolves a company's pay schedule. Returns an error
// wrapping ErrNotConfigured when no schedule exists.
type ScheduleSource interface {
	PaySchedule(ctx context.Context, companyID CompanyID) (*PaySchedule, error)
}

// ScheduleStore adds schedule persistence.
type ScheduleStore interface {
	ScheduleSource
	SavePaySchedule(ctx context.Context, schedule PaySchedule) error
	// CompaniesWithAutoCalculate lists companies whose schedules have the
	// auto-calculate flag set. Used by the calculation scheduler.
	CompaniesWithAutoCalculate(ctx context.Context) ([]CompanyID, error)
}

// =============================================================================
// EMPLOYEES AND JOBS
// =============================================================================

type EmployeeStore interface {
	Employee(ctx context.Context, id EmployeeID) (*Employee, error)
	SaveEmployee(ctx context.Context, e Employee) error
	ListEmployees(ctx context.Context, companyID CompanyID) ([]Employee, error)

	SaveJob(ctx context.Context, j Job) error
	SaveEmployeeJob(ctx context.Context, ej EmployeeJob) error
	EmployeeJob(ctx context.Context, id EmployeeJobID) (*EmployeeJob, error)
}

// WageSource resolves the effective hourly wage for an employee-job: the
// employee-specific override if present and positive, else the job's
// default wage, else zero.
type WageSource interface {
	EffectiveHourlyWage(ctx context.Context, id EmployeeJobID) (decimal.Decimal, error)
}

// =============================================================================
// SHIFTS
// =============================================================================

// ShiftView is the read side of shift state.
type ShiftView interface {
	// ActiveShift returns the employee's open shift, or nil when none.
	ActiveShift(ctx context.Context, employeeID EmployeeID) (*ShiftRecord, error)

	// ActiveShiftsByEmployees returns open shifts for the given employees in
	// one query, keyed by employee. Avoids N+1 lookups during batch work.
	ActiveShiftsByEmployees(ctx context.Context, ids []EmployeeID) (map[EmployeeID]*ShiftRecord, error)

	// CompletedShiftsInRange returns completed shifts whose clock-in falls
	// within [from, to] for the company.
	CompletedShiftsInRange(ctx context.Context, companyID CompanyID, from, to time.Time) ([]ShiftRecord, error)

	// ShiftsByEmployee returns an employee's shifts, newest first.
	ShiftsByEmployee(ctx context.Context, employeeID EmployeeID, from, to time.Time) ([]ShiftRecord, error)
}

// ShiftMutator is the write side used inside a clock transaction.
type ShiftMutator interface {
	ShiftView
	CreateShift(ctx context.Context, s ShiftRecord) error
	CloseShift(ctx context.Context, id ShiftID, clockOut time.Time) error
}

// ShiftStore spans shift reads and the transactional clock mutation.
type ShiftStore interface {
	ShiftView

	// WithClockTx executes fn with reads and writes inside one database
	// transaction. Rolls back when fn returns an error.
	WithClockTx(ctx context.Context, fn func(ShiftMutator) error) error
}

// =============================================================================
// PAYMENTS
// =============================================================================

type PaymentStore interface {
	// PaymentsByIDs pre-fetches a batch's payments, scoped to the company.
	// Missing ids are simply absent from the result.
	PaymentsByIDs(ctx context.Context, companyID CompanyID, ids []PaymentID) (map[PaymentID]*Payment, error)

	// PaymentsForPeriod lists a company's payments for a period.
	PaymentsForPeriod(ctx context.Context, companyID CompanyID, start, end Date) ([]Payment, error)

	// SavePayments persists a batch in a single collection-level save.
	// Nothing is committed until the whole batch is written.
	SavePayments(ctx context.Context, payments []Payment) error
}
