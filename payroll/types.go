/*
Package payroll provides the core payroll period and clock-state engine.

PURPOSE:
  This package contains the domain types and pure algorithms for partitioning
  time into numbered pay periods, validating clock-in/clock-out state
  transitions, running itemized batch operations, and governing payment
  status lifecycles. The engine is stateless: it operates on snapshots passed
  in by persistence collaborators and returns new snapshots; it performs no
  I/O of its own.

KEY CONCEPTS IN THIS FILE (types.go):
  - PaySchedule: per-company period configuration (frequency + anchor date)
  - ShiftRecord: a single work shift, ACTIVE until clocked out
  - Payment: a period's aggregated pay, moving through a strict status FSM
  - Typed IDs: prevent mixing employee/job/payment identifiers

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for hours and money, never float64
  2. Explicit configuration: the schedule is a parameter on every call,
     never cached global state, so period math is always reproducible
  3. Snapshots in, snapshots out: entity ownership stays with the stores

SEE ALSO:
  - period.go: Period value object and calendar arithmetic
  - navigator.go: company-scoped period lookups
  - batch.go: itemized batch execution
  - store.go: collaborator interfaces
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CompanyID string
type EmployeeID string
type JobID string
type EmployeeJobID string
type ShiftID string
type PaymentID string

// =============================================================================
// PAY SCHEDULE - Per-company period configuration
// =============================================================================

// PaySchedule configures how a company's pay periods are derived. AnchorDate
// is the start of period #1; every other period is computed from it by
// arithmetic offset. A schedule without an anchor date cannot resolve any
// period - that is a configuration error, never a silent default.
type PaySchedule struct {
	CompanyID CompanyID
	Frequency PayFrequency
	// AnchorDate is the start date of period #1.
	AnchorDate Date
	// CalculationDay is how many days after a period ends automatic
	// calculation may run. CalculationTime is the time of day ("15:04").
	CalculationDay  int
	CalculationTime string
	// GracePeriodHours is how long after a period's end a late clock-out is
	// still attributed to that period.
	GracePeriodHours int
	AutoCalculate    bool
	NotifyEmail      string
}

// Configured reports whether the schedule can resolve periods at all.
func (s *PaySchedule) Configured() bool {
	return s != nil && !s.AnchorDate.IsZero() && s.Frequency.Valid()
}

// GraceWindow returns the grace period as a duration.
func (s *PaySchedule) GraceWindow() time.Duration {
	return time.Duration(s.GracePeriodHours) * time.Hour
}

// =============================================================================
// EMPLOYEES AND JOBS
// =============================================================================

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

type Employee struct {
	ID        EmployeeID
	CompanyID CompanyID
	Name      string
	Email     string
	Status    EmployeeStatus
	CreatedAt time.Time
}

// Job is a role with a default hourly wage.
type Job struct {
	ID                JobID
	CompanyID         CompanyID
	Name              string
	DefaultHourlyWage decimal.Decimal
}

// EmployeeJob links an employee to a job. WageOverride, when positive,
// replaces the job's default wage for this employee.
type EmployeeJob struct {
	ID           EmployeeJobID
	EmployeeID   EmployeeID
	JobID        JobID
	WageOverride decimal.Decimal
}

// =============================================================================
// SHIFT RECORD - One work shift, ACTIVE until clocked out
// =============================================================================

type ShiftStatus string

const (
	ShiftActive    ShiftStatus = "active"
	ShiftCompleted ShiftStatus = "completed"
)

// ShiftRecord is a single shift. Created ACTIVE with ClockIn set and ClockOut
// zero by a clock-in; completed when a matching clock-out sets ClockOut.
//
// INVARIANT: at most one ACTIVE shift exists per employee at any time.
// The resolver validates it and the store enforces it with a uniqueness
// constraint spanning the validation-read and the write.
type ShiftRecord struct {
	ID            ShiftID
	EmployeeID    EmployeeID
	EmployeeJobID EmployeeJobID
	ClockIn       time.Time
	ClockOut      time.Time // zero while the shift is open
	Status        ShiftStatus
}

// IsOpen reports whether the shift is still active.
func (s ShiftRecord) IsOpen() bool { return s.Status == ShiftActive }

// Duration returns the worked duration. Zero while the shift is open.
func (s ShiftRecord) Duration() time.Duration {
	if s.ClockOut.IsZero() {
		return 0
	}
	return s.ClockOut.Sub(s.ClockIn)
}

// =============================================================================
// PAYMENT - A period's aggregated pay for one employee
// =============================================================================

type PaymentStatus string

const (
	PaymentCalculated PaymentStatus = "calculated"
	PaymentIssued     PaymentStatus = "issued"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentVoided     PaymentStatus = "voided"
)

// Payment is created only by the aggregator (CALCULATED), mutated only
// through the transition validator, and never deleted - only VOIDED.
type Payment struct {
	ID            PaymentID
	CompanyID     CompanyID
	EmployeeID    EmployeeID
	PeriodStart   Date
	PeriodEnd     Date
	TotalHours    decimal.Decimal
	TotalEarnings decimal.Decimal
	Status        PaymentStatus

	// One timestamp per transition, set when the transition is applied.
	CalculatedAt time.Time
	IssuedAt     time.Time
	CompletedAt  time.Time
	VoidedAt     time.Time

	ModifiedBy string
}
