package payments_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-engine/payments"
	"github.com/warp/payroll-engine/payroll"
)

var transitionNow = time.Date(2024, time.June, 3, 12, 0, 0, 0, time.UTC)

func paymentWith(status payroll.PaymentStatus) *payroll.Payment {
	return &payroll.Payment{
		ID:     "p1",
		Status: status,
	}
}

// =============================================================================
// TRANSITION TABLE
// =============================================================================

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to payroll.PaymentStatus
		allowed  bool
	}{
		{payroll.PaymentCalculated, payroll.PaymentIssued, true},
		{payroll.PaymentCalculated, payroll.PaymentVoided, true},
		{payroll.PaymentCalculated, payroll.PaymentCompleted, false},
		{payroll.PaymentIssued, payroll.PaymentCompleted, true},
		{payroll.PaymentIssued, payroll.PaymentVoided, true},
		{payroll.PaymentIssued, payroll.PaymentCalculated, false},
		{payroll.PaymentCompleted, payroll.PaymentVoided, false},
		{payroll.PaymentCompleted, payroll.PaymentIssued, false},
		{payroll.PaymentVoided, payroll.PaymentCalculated, false},
		{payroll.PaymentVoided, payroll.PaymentIssued, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, payments.CanTransition(c.from, c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, payments.IsTerminal(payroll.PaymentCalculated))
	assert.False(t, payments.IsTerminal(payroll.PaymentIssued))
	assert.True(t, payments.IsTerminal(payroll.PaymentCompleted))
	assert.True(t, payments.IsTerminal(payroll.PaymentVoided))
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate_LegalTransition_AuthorizesTimestampField(t *testing.T) {
	// GIVEN: A CALCULATED payment
	// WHEN: Validating the move to ISSUED
	// THEN: Authorization names issued_at; the payment is untouched

	p := paymentWith(payroll.PaymentCalculated)
	auth, err := payments.Validate(p, "p1", payroll.PaymentIssued, transitionNow)
	require.NoError(t, err)

	assert.Equal(t, payments.FieldIssuedAt, auth.TimestampField)
	assert.Equal(t, payroll.PaymentCalculated, auth.From)
	assert.Equal(t, payroll.PaymentIssued, auth.To)
	assert.Equal(t, payroll.PaymentCalculated, p.Status, "Validate must not mutate")
}

func TestValidate_NoOpTransition_IsError(t *testing.T) {
	// GIVEN: An ISSUED payment
	// WHEN: Moving it to ISSUED again
	// THEN: ErrInvalidStatus - a no-op is an error, not idempotent success

	p := paymentWith(payroll.PaymentIssued)
	_, err := payments.Validate(p, "p1", payroll.PaymentIssued, transitionNow)
	assert.ErrorIs(t, err, payroll.ErrInvalidStatus)
}

func TestValidate_IllegalTransition(t *testing.T) {
	p := paymentWith(payroll.PaymentCompleted)
	_, err := payments.Validate(p, "p1", payroll.PaymentVoided, transitionNow)
	assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
}

func TestValidate_MissingPayment(t *testing.T) {
	_, err := payments.Validate(nil, "ghost", payroll.PaymentIssued, transitionNow)
	assert.ErrorIs(t, err, payroll.ErrPaymentNotFound)
}

// =============================================================================
// APPLY
// =============================================================================

func TestApply_SetsStatusTimestampAndAuditTrail(t *testing.T) {
	p := paymentWith(payroll.PaymentIssued)
	auth, err := payments.Validate(p, "p1", payroll.PaymentCompleted, transitionNow)
	require.NoError(t, err)

	payments.Apply(p, auth, "admin@acme")

	assert.Equal(t, payroll.PaymentCompleted, p.Status)
	assert.Equal(t, transitionNow, p.CompletedAt)
	assert.Equal(t, "admin@acme", p.ModifiedBy)
	assert.True(t, p.IssuedAt.IsZero(), "other timestamps untouched")
}

func TestApply_VoidSetsVoidedAt(t *testing.T) {
	p := paymentWith(payroll.PaymentCalculated)
	auth, err := payments.Validate(p, "p1", payroll.PaymentVoided, transitionNow)
	require.NoError(t, err)

	payments.Apply(p, auth, "system")
	assert.Equal(t, payroll.PaymentVoided, p.Status)
	assert.Equal(t, transitionNow, p.VoidedAt)
}
