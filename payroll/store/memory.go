// Package store provides in-memory implementations of the payroll
// collaborator interfaces, for tests and development.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// MEMORY STORE
// =============================================================================

// Memory implements ScheduleStore, EmployeeStore, ShiftStore, PaymentStore
// and WageSource in memory. A single mutex spans each clock transaction, so
// the read-validate-write sequence is as atomic here as a database
// transaction makes it in production.
type Memory struct {
	mu           sync.Mutex
	schedules    map[payroll.CompanyID]payroll.PaySchedule
	employees    map[payroll.EmployeeID]payroll.Employee
	jobs         map[payroll.JobID]payroll.Job
	employeeJobs map[payroll.EmployeeJobID]payroll.EmployeeJob
	shifts       map[payroll.ShiftID]payroll.ShiftRecord
	payments     map[payroll.PaymentID]payroll.Payment
}

func NewMemory() *Memory {
	return &Memory{
		schedules:    make(map[payroll.CompanyID]payroll.PaySchedule),
		employees:    make(map[payroll.EmployeeID]payroll.Employee),
		jobs:         make(map[payroll.JobID]payroll.Job),
		employeeJobs: make(map[payroll.EmployeeJobID]payroll.EmployeeJob),
		shifts:       make(map[payroll.ShiftID]payroll.ShiftRecord),
		payments:     make(map[payroll.PaymentID]payroll.Payment),
	}
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

func (m *Memory) PaySchedule(_ context.Context, companyID payroll.CompanyID) (*payroll.PaySchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.schedules[companyID]
	if !ok {
		return nil, &payroll.ConfigurationError{CompanyID: companyID, Reason: "no pay schedule"}
	}
	return &s, nil
}

func (m *Memory) SavePaySchedule(_ context.Context, schedule payroll.PaySchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules[schedule.CompanyID] = schedule
	return nil
}

func (m *Memory) CompaniesWithAutoCalculate(_ context.Context) ([]payroll.CompanyID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var ids []payroll.CompanyID
	for id, s := range m.schedules {
		if s.AutoCalculate {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (m *Memory) Employee(_ context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, payroll.ErrEmployeeNotFound
	}
	return &e, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e payroll.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) ListEmployees(_ context.Context, companyID payroll.CompanyID) ([]payroll.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []payroll.Employee
	for _, e := range m.employees {
		if e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveJob(_ context.Context, j payroll.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[j.ID] = j
	return nil
}

func (m *Memory) SaveEmployeeJob(_ context.Context, ej payroll.EmployeeJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employeeJobs[ej.ID] = ej
	return nil
}

func (m *Memory) EmployeeJob(_ context.Context, id payroll.EmployeeJobID) (*payroll.EmployeeJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ej, ok := m.employeeJobs[id]
	if !ok {
		return nil, payroll.ErrEmployeeNotFound
	}
	return &ej, nil
}

// EffectiveHourlyWage resolves override-then-default-then-zero.
func (m *Memory) EffectiveHourlyWage(_ context.Context, id payroll.EmployeeJobID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ej, ok := m.employeeJobs[id]
	if !ok {
		return decimal.Zero, payroll.ErrEmployeeNotFound
	}
	if ej.WageOverride.IsPositive() {
		return ej.WageOverride, nil
	}
	if job, ok := m.jobs[ej.JobID]; ok && job.DefaultHourlyWage.IsPositive() {
		return job.DefaultHourlyWage, nil
	}
	return decimal.Zero, nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

func (m *Memory) ActiveShift(ctx context.Context, employeeID payroll.EmployeeID) (*payroll.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeShiftLocked(employeeID), nil
}

func (m *Memory) activeShiftLocked(employeeID payroll.EmployeeID) *payroll.ShiftRecord {
	for _, s := range m.shifts {
		if s.EmployeeID == employeeID && s.Status == payroll.ShiftActive {
			shift := s
			return &shift
		}
	}
	return nil
}

func (m *Memory) ActiveShiftsByEmployees(_ context.Context, ids []payroll.EmployeeID) (map[payroll.EmployeeID]*payroll.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[payroll.EmployeeID]*payroll.ShiftRecord, len(ids))
	for _, id := range ids {
		out[id] = m.activeShiftLocked(id)
	}
	return out, nil
}

func (m *Memory) CompletedShiftsInRange(_ context.Context, companyID payroll.CompanyID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []payroll.ShiftRecord
	for _, s := range m.shifts {
		if s.Status != payroll.ShiftCompleted {
			continue
		}
		e, ok := m.employees[s.EmployeeID]
		if !ok || e.CompanyID != companyID {
			continue
		}
		if !s.ClockIn.Before(from) && !s.ClockIn.After(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.Before(out[j].ClockIn) })
	return out, nil
}

func (m *Memory) ShiftsByEmployee(_ context.Context, employeeID payroll.EmployeeID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []payroll.ShiftRecord
	for _, s := range m.shifts {
		if s.EmployeeID != employeeID {
			continue
		}
		if !s.ClockIn.Before(from) && !s.ClockIn.After(to) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClockIn.After(out[j].ClockIn) })
	return out, nil
}

// WithClockTx holds the store lock across fn, then restores the shift table
// if fn fails. Mirrors a database transaction's read-your-own-writes plus
// rollback.
func (m *Memory) WithClockTx(_ context.Context, fn func(payroll.ShiftMutator) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[payroll.ShiftID]payroll.ShiftRecord, len(m.shifts))
	for k, v := range m.shifts {
		snapshot[k] = v
	}

	if err := fn(&txView{parent: m}); err != nil {
		m.shifts = snapshot
		return err
	}
	return nil
}

// txView is the in-transaction view. The parent lock is already held.
type txView struct {
	parent *Memory
}

func (v *txView) ActiveShift(_ context.Context, employeeID payroll.EmployeeID) (*payroll.ShiftRecord, error) {
	return v.parent.activeShiftLocked(employeeID), nil
}

func (v *txView) ActiveShiftsByEmployees(_ context.Context, ids []payroll.EmployeeID) (map[payroll.EmployeeID]*payroll.ShiftRecord, error) {
	out := make(map[payroll.EmployeeID]*payroll.ShiftRecord, len(ids))
	for _, id := range ids {
		out[id] = v.parent.activeShiftLocked(id)
	}
	return out, nil
}

func (v *txView) CompletedShiftsInRange(ctx context.Context, companyID payroll.CompanyID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	var out []payroll.ShiftRecord
	for _, s := range v.parent.shifts {
		if s.Status != payroll.ShiftCompleted {
			continue
		}
		e, ok := v.parent.employees[s.EmployeeID]
		if !ok || e.CompanyID != companyID {
			continue
		}
		if !s.ClockIn.Before(from) && !s.ClockIn.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (v *txView) ShiftsByEmployee(ctx context.Context, employeeID payroll.EmployeeID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	var out []payroll.ShiftRecord
	for _, s := range v.parent.shifts {
		if s.EmployeeID == employeeID && !s.ClockIn.Before(from) && !s.ClockIn.After(to) {
			out = append(out, s)
		}
	}
	return out, nil
}

// CreateShift enforces the one-ACTIVE-shift invariant the way a database
// uniqueness constraint would: the insert itself rejects a second open
// shift, independent of the resolver's validation.
func (v *txView) CreateShift(_ context.Context, s payroll.ShiftRecord) error {
	if existing := v.parent.activeShiftLocked(s.EmployeeID); existing != nil {
		return payroll.ErrAlreadyClockedIn
	}
	v.parent.shifts[s.ID] = s
	return nil
}

func (v *txView) CloseShift(_ context.Context, id payroll.ShiftID, clockOut time.Time) error {
	s, ok := v.parent.shifts[id]
	if !ok {
		return payroll.ErrShiftNotFound
	}
	s.ClockOut = clockOut
	s.Status = payroll.ShiftCompleted
	v.parent.shifts[id] = s
	return nil
}

// =============================================================================
// PAYMENT STORE
// =============================================================================

func (m *Memory) PaymentsByIDs(_ context.Context, companyID payroll.CompanyID, ids []payroll.PaymentID) (map[payroll.PaymentID]*payroll.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[payroll.PaymentID]*payroll.Payment)
	for _, id := range ids {
		if p, ok := m.payments[id]; ok && p.CompanyID == companyID {
			payment := p
			out[id] = &payment
		}
	}
	return out, nil
}

func (m *Memory) PaymentsForPeriod(_ context.Context, companyID payroll.CompanyID, start, end payroll.Date) ([]payroll.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []payroll.Payment
	for _, p := range m.payments {
		if p.CompanyID == companyID && p.PeriodStart.Equal(start) && p.PeriodEnd.Equal(end) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (m *Memory) SavePayments(_ context.Context, payments []payroll.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range payments {
		m.payments[p.ID] = p
	}
	return nil
}
