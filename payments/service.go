/*
service.go - Payment calculation and bulk status updates

PURPOSE:
  Wires the aggregator and the transition validator to the persistence
  collaborators. Payments are created only here (CALCULATED) and mutated
  only through validated transitions.

BULK UPDATE SEMANTICS:
  The batch's payments are pre-fetched in one query; each item validates
  and applies against its in-memory snapshot; after all items are
  attempted, the mutated payments are persisted in a single
  collection-level save. Individual failures do not roll back other items'
  mutations, but nothing is committed until the batch completes.

CALCULATION:
  A calculation run fetches completed shifts around the period (one day of
  slack for overnight shifts plus the grace window), attributes each shift
  to its period, aggregates per employee, and skips employees who already
  have a non-voided payment for the period - recalculation never doubles
  pay.

SEE ALSO:
  - aggregate.go: the pure math
  - transition.go: the status FSM
  - api/scheduler.go: drives CalculateForPeriod automatically
*/
package payments

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// PAYMENT SERVICE
// =============================================================================

type PaymentService struct {
	payments  payroll.PaymentStore
	shifts    payroll.ShiftView
	wages     payroll.WageSource
	navigator *payroll.Navigator
}

func NewPaymentService(payments payroll.PaymentStore, shifts payroll.ShiftView, wages payroll.WageSource, navigator *payroll.Navigator) *PaymentService {
	return &PaymentService{
		payments:  payments,
		shifts:    shifts,
		wages:     wages,
		navigator: navigator,
	}
}

// =============================================================================
// CALCULATION
// =============================================================================

// CalculateForPeriod aggregates the period's completed shifts into one
// CALCULATED payment per employee and persists them in a single save.
// Returns the payments created.
func (s *PaymentService) CalculateForPeriod(ctx context.Context, companyID payroll.CompanyID, period payroll.Period) ([]payroll.Payment, error) {
	shifts, err := s.attributedShifts(ctx, companyID, period)
	if err != nil {
		return nil, err
	}

	existing, err := s.payments.PaymentsForPeriod(ctx, companyID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	alreadyPaid := make(map[payroll.EmployeeID]bool)
	for _, p := range existing {
		if p.Status != payroll.PaymentVoided {
			alreadyPaid[p.EmployeeID] = true
		}
	}

	wageFor, err := s.wageCache(ctx, shifts)
	if err != nil {
		return nil, err
	}

	byEmployee := make(map[payroll.EmployeeID][]payroll.ShiftRecord)
	for _, sh := range shifts {
		if alreadyPaid[sh.EmployeeID] {
			continue
		}
		byEmployee[sh.EmployeeID] = append(byEmployee[sh.EmployeeID], sh)
	}

	now := time.Now()
	created := make([]payroll.Payment, 0, len(byEmployee))
	for employeeID, employeeShifts := range byEmployee {
		totals := ShiftTotals(employeeShifts, wageFor)
		created = append(created, payroll.Payment{
			ID:            payroll.PaymentID(uuid.NewString()),
			CompanyID:     companyID,
			EmployeeID:    employeeID,
			PeriodStart:   period.Start,
			PeriodEnd:     period.End,
			TotalHours:    totals.TotalHours,
			TotalEarnings: totals.TotalEarnings,
			Status:        payroll.PaymentCalculated,
			CalculatedAt:  now,
			ModifiedBy:    "system",
		})
	}

	// Map iteration order is random; keep the save deterministic.
	sort.Slice(created, func(i, j int) bool { return created[i].EmployeeID < created[j].EmployeeID })

	if len(created) > 0 {
		if err := s.payments.SavePayments(ctx, created); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// attributedShifts fetches completed shifts near the period and keeps those
// the grace rules attribute to it. The fetch window starts a day early so
// overnight shifts clocked in before the boundary are considered.
func (s *PaymentService) attributedShifts(ctx context.Context, companyID payroll.CompanyID, period payroll.Period) ([]payroll.ShiftRecord, error) {
	from := period.Start.AddDays(-1).Time
	to := period.End.EndOfDay()

	candidates, err := s.shifts.CompletedShiftsInRange(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	var attributed []payroll.ShiftRecord
	for _, sh := range candidates {
		p, err := s.navigator.AttributeShift(ctx, companyID, sh.ClockIn, sh.ClockOut)
		if err != nil {
			return nil, err
		}
		if p.Number == period.Number && p.Start.Equal(period.Start) {
			attributed = append(attributed, sh)
		}
	}
	return attributed, nil
}

// wageCache resolves each distinct employee-job's effective wage once.
func (s *PaymentService) wageCache(ctx context.Context, shifts []payroll.ShiftRecord) (func(payroll.EmployeeJobID) decimal.Decimal, error) {
	cache := make(map[payroll.EmployeeJobID]decimal.Decimal)
	for _, sh := range shifts {
		if _, ok := cache[sh.EmployeeJobID]; ok {
			continue
		}
		wage, err := s.wages.EffectiveHourlyWage(ctx, sh.EmployeeJobID)
		if err != nil {
			return nil, err
		}
		cache[sh.EmployeeJobID] = wage
	}
	return func(id payroll.EmployeeJobID) decimal.Decimal {
		return cache[id]
	}, nil
}

// =============================================================================
// BULK STATUS UPDATE
// =============================================================================

// BulkStatusUpdate moves each payment to the target status, itemized.
// Validation failures (unknown id, no-op, illegal transition) are captured
// per item; mutated payments are persisted in one collection-level save
// after every item has been attempted.
func (s *PaymentService) BulkStatusUpdate(ctx context.Context, companyID payroll.CompanyID, ids []payroll.PaymentID, target payroll.PaymentStatus, modifiedBy string) (payroll.BatchResult[payroll.Payment], error) {
	fetched, err := s.payments.PaymentsByIDs(ctx, companyID, ids)
	if err != nil {
		return payroll.BatchResult[payroll.Payment]{}, err
	}

	now := time.Now()
	var mutated []payroll.Payment

	result, err := payroll.RunBatch(ids, payroll.MaxPaymentBatch,
		func(id payroll.PaymentID) string { return string(id) },
		func(id payroll.PaymentID) (payroll.Payment, error) {
			payment := fetched[id]
			auth, err := Validate(payment, id, target, now)
			if err != nil {
				return payroll.Payment{}, err
			}
			Apply(payment, auth, modifiedBy)
			mutated = append(mutated, *payment)
			return *payment, nil
		})
	if err != nil {
		return result, err
	}

	if len(mutated) > 0 {
		if err := s.payments.SavePayments(ctx, mutated); err != nil {
			return result, err
		}
	}
	return result, nil
}

// =============================================================================
// DASHBOARD SUMMARY
// =============================================================================

// Summary compares the current period's totals against the previous
// period's for dashboard display.
type Summary struct {
	Current       payroll.Period
	Previous      payroll.Period
	CurrentTotals Totals
	PreviousTotal Totals
	HoursDelta    Delta
	EarningsDelta Delta
}

// PeriodSummary aggregates the current and previous periods and computes
// the period-over-period deltas.
func (s *PaymentService) PeriodSummary(ctx context.Context, companyID payroll.CompanyID) (Summary, error) {
	current, err := s.navigator.Current(ctx, companyID)
	if err != nil {
		return Summary{}, err
	}
	previous := current.Previous()

	currentTotals, err := s.periodTotals(ctx, companyID, current)
	if err != nil {
		return Summary{}, err
	}
	previousTotals, err := s.periodTotals(ctx, companyID, previous)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		Current:       current,
		Previous:      previous,
		CurrentTotals: currentTotals,
		PreviousTotal: previousTotals,
		HoursDelta:    PeriodOverPeriodDelta(currentTotals.TotalHours, previousTotals.TotalHours),
		EarningsDelta: PeriodOverPeriodDelta(currentTotals.TotalEarnings, previousTotals.TotalEarnings),
	}, nil
}

func (s *PaymentService) periodTotals(ctx context.Context, companyID payroll.CompanyID, period payroll.Period) (Totals, error) {
	shifts, err := s.attributedShifts(ctx, companyID, period)
	if err != nil {
		return Totals{}, err
	}
	wageFor, err := s.wageCache(ctx, shifts)
	if err != nil {
		return Totals{}, err
	}
	return ShiftTotals(shifts, wageFor), nil
}
