/*
Package payments governs payment calculation and the status lifecycle.

transition.go - Payment status finite state machine

PURPOSE:
  Enforces the legal payment status transitions:

    CALCULATED -> ISSUED, VOIDED
    ISSUED     -> COMPLETED, VOIDED
    COMPLETED  -> (terminal)
    VOIDED     -> (terminal)

  The table is an enum-keyed mapping, not scattered conditionals: adding a
  status is one table edit.

NO-OP TRANSITIONS:
  current == target is an error (ErrInvalidStatus), not idempotent success.

AUTHORIZATION, NOT MUTATION:
  Validate does not change state. It returns an Authorization naming the
  new status and which timestamp field the caller must set; Apply performs
  that mutation on a payment snapshot.

SEE ALSO:
  - service.go: bulk status updates through the batch runner
  - payroll/errors.go: TransitionError and the sentinels it wraps
*/
package payments

import (
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// TRANSITION TABLE
// =============================================================================

var allowedTransitions = map[payroll.PaymentStatus][]payroll.PaymentStatus{
	payroll.PaymentCalculated: {payroll.PaymentIssued, payroll.PaymentVoided},
	payroll.PaymentIssued:     {payroll.PaymentCompleted, payroll.PaymentVoided},
	payroll.PaymentCompleted:  {},
	payroll.PaymentVoided:     {},
}

// CanTransition reports whether the status change is in the allowed set.
func CanTransition(from, to payroll.PaymentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves the status.
func IsTerminal(status payroll.PaymentStatus) bool {
	return len(allowedTransitions[status]) == 0
}

// =============================================================================
// TRANSITION VALIDATOR
// =============================================================================

// Timestamp fields set by each transition.
const (
	FieldIssuedAt    = "issued_at"
	FieldCompletedAt = "completed_at"
	FieldVoidedAt    = "voided_at"
)

// Authorization is a validated transition: the new status plus the
// timestamp field the caller must set when applying it.
type Authorization struct {
	PaymentID      payroll.PaymentID
	From           payroll.PaymentStatus
	To             payroll.PaymentStatus
	TimestampField string
	At             time.Time
}

// Validate checks a status change against the transition table. The payment
// comes from the batch's pre-fetched set; nil means it was absent.
func Validate(payment *payroll.Payment, id payroll.PaymentID, target payroll.PaymentStatus, at time.Time) (Authorization, error) {
	if payment == nil {
		return Authorization{}, payroll.ErrPaymentNotFound
	}
	if payment.Status == target {
		return Authorization{}, &payroll.TransitionError{PaymentID: id, From: payment.Status, To: target}
	}
	if !CanTransition(payment.Status, target) {
		return Authorization{}, &payroll.TransitionError{PaymentID: id, From: payment.Status, To: target}
	}

	return Authorization{
		PaymentID:      id,
		From:           payment.Status,
		To:             target,
		TimestampField: timestampField(target),
		At:             at,
	}, nil
}

// Apply mutates the payment snapshot per the authorization. The caller owns
// persisting the result.
func Apply(payment *payroll.Payment, auth Authorization, modifiedBy string) {
	payment.Status = auth.To
	payment.ModifiedBy = modifiedBy
	switch auth.TimestampField {
	case FieldIssuedAt:
		payment.IssuedAt = auth.At
	case FieldCompletedAt:
		payment.CompletedAt = auth.At
	case FieldVoidedAt:
		payment.VoidedAt = auth.At
	}
}

func timestampField(target payroll.PaymentStatus) string {
	switch target {
	case payroll.PaymentIssued:
		return FieldIssuedAt
	case payroll.PaymentCompleted:
		return FieldCompletedAt
	case payroll.PaymentVoided:
		return FieldVoidedAt
	default:
		return ""
	}
}
