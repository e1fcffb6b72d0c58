/*
errors.go - Centralized error types for the payroll engine

PURPOSE:
  All engine error types in one place for consistency and discoverability.
  Domain packages wrap these with additional context.

ERROR CATEGORIES:
  1. Configuration errors - missing/invalid pay schedule; fatal to any
     period resolution, surfaced immediately to the caller
  2. Validation errors - bad batch shape or bad clock input; rejected
     before any per-item work begins
  3. State-conflict errors - already clocked in, no active shift, illegal
     payment transition; captured per item inside a batch
  4. Not-found errors - unknown payment/employee inside a batch; per item

PROPAGATION POLICY:
  Configuration and validation errors abort the whole operation. Conflict
  and not-found errors never abort a batch: they are returned itemized
  alongside successes (see batch.go).

USAGE:
  if errors.Is(err, payroll.ErrAlreadyClockedIn) { ... }
  code := payroll.ErrorCode(err) // stable code for client branching

SEE ALSO:
  - batch.go: carries ErrorCode per failed item
  - clock/resolver.go: wraps conflict errors with shift context
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotConfigured is returned when a company has no pay schedule or the
	// schedule lacks an anchor date. No period can be resolved without one.
	ErrNotConfigured = errors.New("pay schedule not configured")

	// ErrInvalidFrequency is returned for an unknown pay frequency.
	ErrInvalidFrequency = errors.New("invalid pay frequency")

	// ErrEmptyBatch is returned when a batch operation receives no items.
	ErrEmptyBatch = errors.New("batch is empty")

	// ErrBatchTooLarge is returned when a batch exceeds its size limit.
	ErrBatchTooLarge = errors.New("batch exceeds maximum size")

	// ErrAlreadyClockedIn is returned when a clock-in targets an employee
	// who already has an ACTIVE shift.
	ErrAlreadyClockedIn = errors.New("employee already clocked in")

	// ErrNoActiveShift is returned when a clock-out finds no ACTIVE shift.
	ErrNoActiveShift = errors.New("no active shift")

	// ErrEmployeeInactive is returned when a clock action targets an
	// employee whose status is not ACTIVE.
	ErrEmployeeInactive = errors.New("employee is not active")

	// ErrInvalidOperation is returned for clock times that fail sanity
	// checks: too far in the future, out of order, or an excessive duration.
	ErrInvalidOperation = errors.New("invalid clock operation")

	// ErrInvalidTransition is returned when a payment status change is not
	// in the allowed set for the current status.
	ErrInvalidTransition = errors.New("invalid payment status transition")

	// ErrInvalidStatus is returned when the target status equals the current
	// status. A no-op transition is an error, not idempotent success.
	ErrInvalidStatus = errors.New("payment already in target status")

	// ErrPaymentNotFound is returned when a payment id is absent from the
	// batch's pre-fetched set.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrEmployeeNotFound is returned when a referenced employee or
	// employee-job doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrShiftNotFound is returned when a referenced shift doesn't exist.
	ErrShiftNotFound = errors.New("shift not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigurationError reports why period resolution is impossible for a
// company. Surfaced to admins as "configure payment settings first".
type ConfigurationError struct {
	CompanyID CompanyID
	Reason    string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("company %s: %s", e.CompanyID, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrNotConfigured }

// BatchSizeError reports a batch that was rejected before any item ran.
type BatchSizeError struct {
	Size int
	Max  int
}

func (e *BatchSizeError) Error() string {
	return fmt.Sprintf("batch of %d items exceeds maximum of %d", e.Size, e.Max)
}

func (e *BatchSizeError) Unwrap() error { return ErrBatchTooLarge }

// TransitionError reports an illegal payment status change.
type TransitionError struct {
	PaymentID PaymentID
	From      PaymentStatus
	To        PaymentStatus
}

func (e *TransitionError) Error() string {
	if e.From == e.To {
		return fmt.Sprintf("payment %s is already %s", e.PaymentID, e.From)
	}
	return fmt.Sprintf("payment %s cannot move from %s to %s", e.PaymentID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	if e.From == e.To {
		return ErrInvalidStatus
	}
	return ErrInvalidTransition
}

// ClockError reports a rejected clock action with timing context.
type ClockError struct {
	EmployeeID EmployeeID
	Reason     string
	Sentinel   error
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("employee %s: %s", e.EmployeeID, e.Reason)
}

func (e *ClockError) Unwrap() error { return e.Sentinel }

// =============================================================================
// ERROR CODES - Stable codes for batch items and API clients
// =============================================================================

// ErrorCode maps an error to a stable code clients can branch on.
// Unknown errors map to "internal_error".
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, ErrInvalidFrequency):
		return "invalid_frequency"
	case errors.Is(err, ErrEmptyBatch):
		return "empty_batch"
	case errors.Is(err, ErrBatchTooLarge):
		return "batch_too_large"
	case errors.Is(err, ErrAlreadyClockedIn):
		return "already_clocked_in"
	case errors.Is(err, ErrNoActiveShift):
		return "no_active_shift"
	case errors.Is(err, ErrEmployeeInactive):
		return "employee_inactive"
	case errors.Is(err, ErrInvalidOperation):
		return "invalid_operation"
	case errors.Is(err, ErrInvalidStatus):
		return "invalid_status"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrPaymentNotFound):
		return "payment_not_found"
	case errors.Is(err, ErrEmployeeNotFound):
		return "employee_not_found"
	case errors.Is(err, ErrShiftNotFound):
		return "shift_not_found"
	default:
		return "internal_error"
	}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigurationError returns true for errors that should be surfaced as
// "configure payment settings first".
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

// IsValidationError returns true for errors that abort an operation before
// any per-item work begins.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrEmptyBatch) ||
		errors.Is(err, ErrBatchTooLarge) ||
		errors.Is(err, ErrInvalidFrequency)
}

// IsConflict returns true for state-conflict errors reported per item
// inside a batch.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyClockedIn) ||
		errors.Is(err, ErrNoActiveShift) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrEmployeeInactive)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPaymentNotFound) ||
		errors.Is(err, ErrEmployeeNotFound) ||
		errors.Is(err, ErrShiftNotFound)
}
