/*
Package sqlite provides a SQLite-backed implementation of the payroll
storage interfaces.

PURPOSE:
  Implements the persistence collaborators (ScheduleStore, EmployeeStore,
  ShiftStore, PaymentStore, WageSource) using SQLite. In production the
  same patterns apply to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  pay_schedules: Per-company period configuration
  employees:     Employee records with status
  jobs:          Roles with default hourly wages
  employee_jobs: Employee-to-job links with wage overrides
  shifts:        Work shifts, ACTIVE until clocked out
  payments:      Period payments with status lifecycle timestamps

THE ONE-ACTIVE-SHIFT CONSTRAINT:
  idx_shifts_one_active is a partial unique index on employee_id WHERE
  status = 'active'. Clock-in runs read-validate-insert inside one
  transaction (WithClockTx); if two concurrent clock-ins race past
  validation, the index rejects the second insert and it surfaces as
  ErrAlreadyClockedIn. Exactly one wins.

WAL MODE:
  SQLite is opened with WAL for better concurrency: readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/payroll.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - payroll/store.go: interface definitions
  - payroll/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payroll-engine/payroll"
)

// Store implements the payroll storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pay_schedules (
		company_id TEXT PRIMARY KEY,
		frequency TEXT NOT NULL,
		anchor_date TEXT NOT NULL,
		calculation_day INTEGER NOT NULL DEFAULT 0,
		calculation_time TEXT NOT NULL DEFAULT '02:00',
		grace_period_hours INTEGER NOT NULL DEFAULT 0,
		auto_calculate BOOLEAN NOT NULL DEFAULT FALSE,
		notify_email TEXT,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_company
		ON employees(company_id);

	CREATE TABLE IF NOT EXISTS jobs (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		name TEXT NOT NULL,
		default_hourly_wage TEXT NOT NULL DEFAULT '0'
	);

	CREATE TABLE IF NOT EXISTS employee_jobs (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		job_id TEXT NOT NULL REFERENCES jobs(id),
		wage_override TEXT NOT NULL DEFAULT '0'
	);

	CREATE INDEX IF NOT EXISTS idx_employee_jobs_employee
		ON employee_jobs(employee_id);

	CREATE TABLE IF NOT EXISTS shifts (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		employee_job_id TEXT NOT NULL,
		clock_in TEXT NOT NULL,
		clock_out TEXT,
		status TEXT NOT NULL DEFAULT 'active'
	);

	-- At most one ACTIVE shift per employee. Clock-in validation reads
	-- inside the same transaction as the insert; this index is the backstop
	-- that makes concurrent clock-ins lose deterministically.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_one_active
		ON shifts(employee_id) WHERE status = 'active';

	CREATE INDEX IF NOT EXISTS idx_shifts_employee_clock_in
		ON shifts(employee_id, clock_in DESC);
	CREATE INDEX IF NOT EXISTS idx_shifts_status_clock_in
		ON shifts(status, clock_in);

	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		period_start TEXT NOT NULL,
		period_end TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		total_earnings TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'calculated',
		calculated_at TEXT,
		issued_at TEXT,
		completed_at TEXT,
		voided_at TEXT,
		modified_by TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_payments_company_period
		ON payments(company_id, period_start, period_end);
	CREATE INDEX IF NOT EXISTS idx_payments_status
		ON payments(status);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

func (s *Store) PaySchedule(ctx context.Context, companyID payroll.CompanyID) (*payroll.PaySchedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT company_id, frequency, anchor_date, calculation_day,
		       calculation_time, grace_period_hours, auto_calculate, notify_email
		FROM pay_schedules WHERE company_id = ?`, companyID)

	var (
		sched      payroll.PaySchedule
		anchor     string
		notifyMail sql.NullString
	)
	err := row.Scan(&sched.CompanyID, &sched.Frequency, &anchor, &sched.CalculationDay,
		&sched.CalculationTime, &sched.GracePeriodHours, &sched.AutoCalculate, &notifyMail)
	if err == sql.ErrNoRows {
		return nil, &payroll.ConfigurationError{CompanyID: companyID, Reason: "no pay schedule"}
	}
	if err != nil {
		return nil, err
	}

	sched.AnchorDate, err = payroll.ParseDate(anchor)
	if err != nil {
		return nil, fmt.Errorf("corrupt anchor date %q: %w", anchor, err)
	}
	sched.NotifyEmail = notifyMail.String
	return &sched, nil
}

func (s *Store) SavePaySchedule(ctx context.Context, schedule payroll.PaySchedule) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pay_schedules
			(company_id, frequency, anchor_date, calculation_day, calculation_time,
			 grace_period_hours, auto_calculate, notify_email, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id) DO UPDATE SET
			frequency = excluded.frequency,
			anchor_date = excluded.anchor_date,
			calculation_day = excluded.calculation_day,
			calculation_time = excluded.calculation_time,
			grace_period_hours = excluded.grace_period_hours,
			auto_calculate = excluded.auto_calculate,
			notify_email = excluded.notify_email,
			updated_at = excluded.updated_at`,
		schedule.CompanyID, schedule.Frequency, schedule.AnchorDate.String(),
		schedule.CalculationDay, schedule.CalculationTime, schedule.GracePeriodHours,
		schedule.AutoCalculate, schedule.NotifyEmail, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Store) CompaniesWithAutoCalculate(ctx context.Context) ([]payroll.CompanyID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT company_id FROM pay_schedules WHERE auto_calculate ORDER BY company_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []payroll.CompanyID
	for rows.Next() {
		var id payroll.CompanyID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

func (s *Store) Employee(ctx context.Context, id payroll.EmployeeID) (*payroll.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, company_id, name, email, status, created_at
		FROM employees WHERE id = ?`, id)
	return scanEmployee(row)
}

func (s *Store) SaveEmployee(ctx context.Context, e payroll.Employee) error {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employees (id, company_id, name, email, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			status = excluded.status`,
		e.ID, e.CompanyID, e.Name, e.Email, e.Status, createdAt.Format(time.RFC3339))
	return err
}

func (s *Store) ListEmployees(ctx context.Context, companyID payroll.CompanyID) ([]payroll.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, name, email, status, created_at
		FROM employees WHERE company_id = ? ORDER BY id`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *Store) SaveJob(ctx context.Context, j payroll.Job) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, company_id, name, default_hourly_wage)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			default_hourly_wage = excluded.default_hourly_wage`,
		j.ID, j.CompanyID, j.Name, j.DefaultHourlyWage.String())
	return err
}

func (s *Store) SaveEmployeeJob(ctx context.Context, ej payroll.EmployeeJob) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO employee_jobs (id, employee_id, job_id, wage_override)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			job_id = excluded.job_id,
			wage_override = excluded.wage_override`,
		ej.ID, ej.EmployeeID, ej.JobID, ej.WageOverride.String())
	return err
}

func (s *Store) EmployeeJob(ctx context.Context, id payroll.EmployeeJobID) (*payroll.EmployeeJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, job_id, wage_override
		FROM employee_jobs WHERE id = ?`, id)

	var (
		ej       payroll.EmployeeJob
		override string
	)
	err := row.Scan(&ej.ID, &ej.EmployeeID, &ej.JobID, &override)
	if err == sql.ErrNoRows {
		return nil, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	ej.WageOverride, err = decimal.NewFromString(override)
	if err != nil {
		return nil, fmt.Errorf("corrupt wage override %q: %w", override, err)
	}
	return &ej, nil
}

// EffectiveHourlyWage resolves the wage in one joined query:
// override when positive, else job default, else zero.
func (s *Store) EffectiveHourlyWage(ctx context.Context, id payroll.EmployeeJobID) (decimal.Decimal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT ej.wage_override, COALESCE(j.default_hourly_wage, '0')
		FROM employee_jobs ej
		LEFT JOIN jobs j ON j.id = ej.job_id
		WHERE ej.id = ?`, id)

	var overrideStr, defaultStr string
	err := row.Scan(&overrideStr, &defaultStr)
	if err == sql.ErrNoRows {
		return decimal.Zero, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return decimal.Zero, err
	}

	override, err := decimal.NewFromString(overrideStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt wage override %q: %w", overrideStr, err)
	}
	jobDefault, err := decimal.NewFromString(defaultStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("corrupt default wage %q: %w", defaultStr, err)
	}

	if override.IsPositive() {
		return override, nil
	}
	if jobDefault.IsPositive() {
		return jobDefault, nil
	}
	return decimal.Zero, nil
}

// =============================================================================
// SHIFT STORE
// =============================================================================

// querier abstracts *sql.DB and *sql.Tx so shift reads work both outside
// and inside a clock transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) ActiveShift(ctx context.Context, employeeID payroll.EmployeeID) (*payroll.ShiftRecord, error) {
	return activeShift(ctx, s.db, employeeID)
}

func activeShift(ctx context.Context, q querier, employeeID payroll.EmployeeID) (*payroll.ShiftRecord, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, employee_id, employee_job_id, clock_in, clock_out, status
		FROM shifts WHERE employee_id = ? AND status = 'active'`, employeeID)

	shift, err := scanShift(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return shift, nil
}

func (s *Store) ActiveShiftsByEmployees(ctx context.Context, ids []payroll.EmployeeID) (map[payroll.EmployeeID]*payroll.ShiftRecord, error) {
	return activeShiftsByEmployees(ctx, s.db, ids)
}

func activeShiftsByEmployees(ctx context.Context, q querier, ids []payroll.EmployeeID) (map[payroll.EmployeeID]*payroll.ShiftRecord, error) {
	out := make(map[payroll.EmployeeID]*payroll.ShiftRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		out[id] = nil
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, employee_id, employee_job_id, clock_in, clock_out, status
		FROM shifts WHERE status = 'active' AND employee_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out[shift.EmployeeID] = shift
	}
	return out, rows.Err()
}

func (s *Store) CompletedShiftsInRange(ctx context.Context, companyID payroll.CompanyID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	return completedShiftsInRange(ctx, s.db, companyID, from, to)
}

func completedShiftsInRange(ctx context.Context, q querier, companyID payroll.CompanyID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT s.id, s.employee_id, s.employee_job_id, s.clock_in, s.clock_out, s.status
		FROM shifts s
		JOIN employees e ON e.id = s.employee_id
		WHERE e.company_id = ? AND s.status = 'completed'
		  AND s.clock_in >= ? AND s.clock_in <= ?
		ORDER BY s.clock_in`,
		companyID, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

func (s *Store) ShiftsByEmployee(ctx context.Context, employeeID payroll.EmployeeID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	return shiftsByEmployee(ctx, s.db, employeeID, from, to)
}

func shiftsByEmployee(ctx context.Context, q querier, employeeID payroll.EmployeeID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, employee_id, employee_job_id, clock_in, clock_out, status
		FROM shifts
		WHERE employee_id = ? AND clock_in >= ? AND clock_in <= ?
		ORDER BY clock_in DESC`,
		employeeID, from.UTC().Format(time.RFC3339), to.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectShifts(rows)
}

// WithClockTx runs fn with reads and writes inside one database
// transaction. The store mutex serializes clock transactions against
// sqlite's single-writer model; PostgreSQL would rely on row locks instead.
func (s *Store) WithClockTx(ctx context.Context, fn func(payroll.ShiftMutator) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(&txShifts{tx: tx}); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

type txShifts struct {
	tx *sql.Tx
}

func (t *txShifts) ActiveShift(ctx context.Context, employeeID payroll.EmployeeID) (*payroll.ShiftRecord, error) {
	return activeShift(ctx, t.tx, employeeID)
}

func (t *txShifts) ActiveShiftsByEmployees(ctx context.Context, ids []payroll.EmployeeID) (map[payroll.EmployeeID]*payroll.ShiftRecord, error) {
	return activeShiftsByEmployees(ctx, t.tx, ids)
}

func (t *txShifts) CompletedShiftsInRange(ctx context.Context, companyID payroll.CompanyID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	return completedShiftsInRange(ctx, t.tx, companyID, from, to)
}

func (t *txShifts) ShiftsByEmployee(ctx context.Context, employeeID payroll.EmployeeID, from, to time.Time) ([]payroll.ShiftRecord, error) {
	return shiftsByEmployee(ctx, t.tx, employeeID, from, to)
}

func (t *txShifts) CreateShift(ctx context.Context, shift payroll.ShiftRecord) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO shifts (id, employee_id, employee_job_id, clock_in, clock_out, status)
		VALUES (?, ?, ?, ?, NULL, ?)`,
		shift.ID, shift.EmployeeID, shift.EmployeeJobID,
		shift.ClockIn.UTC().Format(time.RFC3339), shift.Status)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return payroll.ErrAlreadyClockedIn
	}
	return err
}

func (t *txShifts) CloseShift(ctx context.Context, id payroll.ShiftID, clockOut time.Time) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE shifts SET clock_out = ?, status = 'completed'
		WHERE id = ? AND status = 'active'`,
		clockOut.UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return payroll.ErrNoActiveShift
	}
	return nil
}

// =============================================================================
// PAYMENT STORE
// =============================================================================

func (s *Store) PaymentsByIDs(ctx context.Context, companyID payroll.CompanyID, ids []payroll.PaymentID) (map[payroll.PaymentID]*payroll.Payment, error) {
	out := make(map[payroll.PaymentID]*payroll.Payment)
	if len(ids) == 0 {
		return out, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := []any{companyID}
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, employee_id, period_start, period_end,
		       total_hours, total_earnings, status,
		       calculated_at, issued_at, completed_at, voided_at, modified_by
		FROM payments WHERE company_id = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

func (s *Store) PaymentsForPeriod(ctx context.Context, companyID payroll.CompanyID, start, end payroll.Date) ([]payroll.Payment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, employee_id, period_start, period_end,
		       total_hours, total_earnings, status,
		       calculated_at, issued_at, completed_at, voided_at, modified_by
		FROM payments
		WHERE company_id = ? AND period_start = ? AND period_end = ?
		ORDER BY employee_id`,
		companyID, start.String(), end.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []payroll.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// SavePayments writes the batch in one transaction: the single
// collection-level save the batch contract requires.
func (s *Store) SavePayments(ctx context.Context, payments []payroll.Payment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	for _, p := range payments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO payments
				(id, company_id, employee_id, period_start, period_end,
				 total_hours, total_earnings, status,
				 calculated_at, issued_at, completed_at, voided_at, modified_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				status = excluded.status,
				total_hours = excluded.total_hours,
				total_earnings = excluded.total_earnings,
				issued_at = excluded.issued_at,
				completed_at = excluded.completed_at,
				voided_at = excluded.voided_at,
				modified_by = excluded.modified_by`,
			p.ID, p.CompanyID, p.EmployeeID, p.PeriodStart.String(), p.PeriodEnd.String(),
			p.TotalHours.String(), p.TotalEarnings.String(), p.Status,
			nullableTime(p.CalculatedAt), nullableTime(p.IssuedAt),
			nullableTime(p.CompletedAt), nullableTime(p.VoidedAt), p.ModifiedBy)
		if err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*payroll.Employee, error) {
	var (
		e         payroll.Employee
		email     sql.NullString
		createdAt string
	)
	err := row.Scan(&e.ID, &e.CompanyID, &e.Name, &email, &e.Status, &createdAt)
	if err == sql.ErrNoRows {
		return nil, payroll.ErrEmployeeNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Email = email.String
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}

func scanShift(row rowScanner) (*payroll.ShiftRecord, error) {
	var (
		shift    payroll.ShiftRecord
		clockIn  string
		clockOut sql.NullString
	)
	err := row.Scan(&shift.ID, &shift.EmployeeID, &shift.EmployeeJobID, &clockIn, &clockOut, &shift.Status)
	if err != nil {
		return nil, err
	}
	shift.ClockIn, err = time.Parse(time.RFC3339, clockIn)
	if err != nil {
		return nil, fmt.Errorf("corrupt clock_in %q: %w", clockIn, err)
	}
	if clockOut.Valid {
		shift.ClockOut, err = time.Parse(time.RFC3339, clockOut.String)
		if err != nil {
			return nil, fmt.Errorf("corrupt clock_out %q: %w", clockOut.String, err)
		}
	}
	return &shift, nil
}

func collectShifts(rows *sql.Rows) ([]payroll.ShiftRecord, error) {
	var out []payroll.ShiftRecord
	for rows.Next() {
		shift, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *shift)
	}
	return out, rows.Err()
}

func scanPayment(row rowScanner) (*payroll.Payment, error) {
	var (
		p                    payroll.Payment
		periodStart          string
		periodEnd            string
		hours, earnings      string
		calc, iss, comp, vod sql.NullString
		modifiedBy           sql.NullString
	)
	err := row.Scan(&p.ID, &p.CompanyID, &p.EmployeeID, &periodStart, &periodEnd,
		&hours, &earnings, &p.Status, &calc, &iss, &comp, &vod, &modifiedBy)
	if err != nil {
		return nil, err
	}

	if p.PeriodStart, err = payroll.ParseDate(periodStart); err != nil {
		return nil, fmt.Errorf("corrupt period_start %q: %w", periodStart, err)
	}
	if p.PeriodEnd, err = payroll.ParseDate(periodEnd); err != nil {
		return nil, fmt.Errorf("corrupt period_end %q: %w", periodEnd, err)
	}
	if p.TotalHours, err = decimal.NewFromString(hours); err != nil {
		return nil, fmt.Errorf("corrupt total_hours %q: %w", hours, err)
	}
	if p.TotalEarnings, err = decimal.NewFromString(earnings); err != nil {
		return nil, fmt.Errorf("corrupt total_earnings %q: %w", earnings, err)
	}

	p.CalculatedAt = parseNullableTime(calc)
	p.IssuedAt = parseNullableTime(iss)
	p.CompletedAt = parseNullableTime(comp)
	p.VoidedAt = parseNullableTime(vod)
	p.ModifiedBy = modifiedBy.String
	return &p, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339, s.String)
	return t
}
