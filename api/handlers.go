/*
handlers.go - HTTP API handlers for the payroll engine

PURPOSE:
  Exposes the payroll engine via REST API. Handles HTTP request/response,
  JSON serialization and validation, and delegates to domain logic.

ENDPOINTS:
  Schedule:
    GET    /api/companies/{companyID}/schedule          Get pay schedule
    PUT    /api/companies/{companyID}/schedule          Set pay schedule

  Periods:
    GET    /api/companies/{companyID}/periods/current   Current period
    GET    /api/companies/{companyID}/periods/recent    Recent periods
    GET    /api/companies/{companyID}/periods/{number}  Period by number
    GET    /api/companies/{companyID}/summary           Dashboard summary

  Employees:
    GET    /api/companies/{companyID}/employees         List employees
    POST   /api/employees                               Create employee
    GET    /api/employees/{id}                          Get employee
    GET    /api/employees/{id}/shifts                   Shift history
    POST   /api/employees/{id}/clock                    Toggle clock state
    GET    /api/employees/{id}/clock                    Next clock action
    POST   /api/jobs                                    Create job
    POST   /api/employee-jobs                           Assign job

  Group clock:
    POST   /api/clock/group-in                          Group clock-in
    POST   /api/clock/group-out                         Group clock-out

  Payments:
    POST   /api/companies/{companyID}/payments/calculate  Calculate period
    GET    /api/companies/{companyID}/payments            List by period
    POST   /api/companies/{companyID}/payments/status     Bulk status update

ERROR HANDLING:
  Domain errors map to HTTP status by category:
  - 400: Validation errors (bad input, bad batch shape)
  - 404: Not found
  - 409: State conflicts (already clocked in, illegal transition) and
         missing pay schedule configuration
  - 500: Internal errors
  Every error response carries the engine's stable error code so clients
  branch on codes, not messages.

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scheduler.go: Automatic calculation runs
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/warp/payroll-engine/clock"
	"github.com/warp/payroll-engine/factory"
	"github.com/warp/payroll-engine/payments"
	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Store is the persistence surface the API needs; both the SQLite store
// and the in-memory store satisfy it.
type Store interface {
	payroll.ScheduleStore
	payroll.EmployeeStore
	payroll.ShiftStore
	payroll.PaymentStore
	payroll.WageSource
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store     Store
	Navigator *payroll.Navigator
	Shifts    *clock.ShiftService
	Payments  *payments.PaymentService
	Factory   *factory.ScheduleFactory

	validate *validator.Validate
}

// NewHandler wires the engine services over the given store.
func NewHandler(store Store) *Handler {
	navigator := payroll.NewNavigator(store)
	return &Handler{
		Store:     store,
		Navigator: navigator,
		Shifts:    clock.NewShiftService(store, store),
		Payments:  payments.NewPaymentService(store, store, store, navigator),
		Factory:   factory.NewScheduleFactory(),
		validate:  validator.New(),
	}
}

// =============================================================================
// SCHEDULE HANDLERS
// =============================================================================

// GetPaySchedule returns the company's pay schedule.
func (h *Handler) GetPaySchedule(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	s, err := h.Store.PaySchedule(r.Context(), companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, factory.ScheduleJSON{
		CompanyID:        string(s.CompanyID),
		Frequency:        string(s.Frequency),
		AnchorDate:       s.AnchorDate.String(),
		CalculationDay:   s.CalculationDay,
		CalculationTime:  s.CalculationTime,
		GracePeriodHours: s.GracePeriodHours,
		AutoCalculate:    s.AutoCalculate,
		NotifyEmail:      s.NotifyEmail,
	})
}

// SetPaySchedule creates or replaces the company's pay schedule.
func (h *Handler) SetPaySchedule(w http.ResponseWriter, r *http.Request) {
	companyID := chi.URLParam(r, "companyID")

	var raw factory.ScheduleJSON
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	raw.CompanyID = companyID

	schedule, err := h.Factory.Build(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid schedule", err)
		return
	}

	if err := h.Store.SavePaySchedule(r.Context(), *schedule); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// GetCurrentPeriod returns the period containing today.
func (h *Handler) GetCurrentPeriod(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	period, err := h.Navigator.Current(r.Context(), companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dto := toPeriodDTO(period)
	dto.Current = true
	writeJSON(w, http.StatusOK, dto)
}

// GetPeriodByNumber returns the period with the given 1-based number.
func (h *Handler) GetPeriodByNumber(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil || number < 1 {
		writeError(w, http.StatusBadRequest, "Period number must be a positive integer", err)
		return
	}

	period, err := h.Navigator.ByNumber(r.Context(), companyID, number)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(period))
}

// ListRecentPeriods returns the most recent periods, current first.
// Query param: count (default 6).
func (h *Handler) ListRecentPeriods(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	count := 6
	if raw := r.URL.Query().Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 52 {
			writeError(w, http.StatusBadRequest, "count must be between 1 and 52", err)
			return
		}
		count = n
	}

	periods, err := h.Navigator.ListRecent(r.Context(), companyID, count)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	dtos := make([]PeriodDTO, len(periods))
	for i, p := range periods {
		dtos[i] = toPeriodDTO(p)
	}
	dtos[0].Current = true
	writeJSON(w, http.StatusOK, dtos)
}

// GetSummary returns the dashboard summary for the current period.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	summary, err := h.Payments.PeriodSummary(r.Context(), companyID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees of a company.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	employees, err := h.Store.ListEmployees(r.Context(), companyID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.Employee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	status := payroll.EmployeeStatus(req.Status)
	if status == "" {
		status = payroll.EmployeeActive
	}

	emp := payroll.Employee{
		ID:        payroll.EmployeeID(req.ID),
		CompanyID: payroll.CompanyID(req.CompanyID),
		Name:      req.Name,
		Email:     req.Email,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// CreateJob creates a job with its default hourly wage.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	wage, err := decimal.NewFromString(req.DefaultHourlyWage)
	if err != nil || wage.IsNegative() {
		writeError(w, http.StatusBadRequest, "default_hourly_wage must be a non-negative decimal", err)
		return
	}

	job := payroll.Job{
		ID:                payroll.JobID(req.ID),
		CompanyID:         payroll.CompanyID(req.CompanyID),
		Name:              req.Name,
		DefaultHourlyWage: wage,
	}
	if err := h.Store.SaveJob(r.Context(), job); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create job", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// AssignJob links an employee to a job.
func (h *Handler) AssignJob(w http.ResponseWriter, r *http.Request) {
	var req AssignJobRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	override := decimal.Zero
	if req.WageOverride != "" {
		var err error
		override, err = decimal.NewFromString(req.WageOverride)
		if err != nil || override.IsNegative() {
			writeError(w, http.StatusBadRequest, "wage_override must be a non-negative decimal", err)
			return
		}
	}

	ej := payroll.EmployeeJob{
		ID:           payroll.EmployeeJobID(req.ID),
		EmployeeID:   payroll.EmployeeID(req.EmployeeID),
		JobID:        payroll.JobID(req.JobID),
		WageOverride: override,
	}
	if err := h.Store.SaveEmployeeJob(r.Context(), ej); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to assign job", err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// GetEmployeeShifts returns an employee's shift history.
// Query params: from, to (YYYY-MM-DD, default last 30 days).
func (h *Handler) GetEmployeeShifts(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if raw := r.URL.Query().Get("from"); raw != "" {
		d, err := payroll.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
			return
		}
		from = d.Time
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		d, err := payroll.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
			return
		}
		to = d.EndOfDay()
	}

	shifts, err := h.Store.ShiftsByEmployee(r.Context(), id, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list shifts", err)
		return
	}

	dtos := make([]ShiftDTO, len(shifts))
	for i, s := range shifts {
		dtos[i] = toShiftDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// CLOCK HANDLERS
// =============================================================================

// GetClockStatus returns the employee's next clock action.
func (h *Handler) GetClockStatus(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	action, err := h.Shifts.NextAction(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"next_action": string(action)})
}

// ToggleClock performs whichever clock action the employee's state calls
// for: clock-in if no ACTIVE shift exists, clock-out otherwise.
func (h *Handler) ToggleClock(w http.ResponseWriter, r *http.Request) {
	id := payroll.EmployeeID(chi.URLParam(r, "id"))

	var req ClockRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	at, ok := parseAt(w, req.At)
	if !ok {
		return
	}

	action, shift, err := h.Shifts.Toggle(r.Context(), id, payroll.EmployeeJobID(req.EmployeeJobID), at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"action": string(action),
		"shift":  toShiftDTO(shift),
	})
}

// GroupClockIn clocks in every listed member, itemized.
func (h *Handler) GroupClockIn(w http.ResponseWriter, r *http.Request) {
	var req GroupClockInRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	at, ok := parseAt(w, req.At)
	if !ok {
		return
	}

	members := make([]clock.GroupMember, len(req.Members))
	for i, m := range req.Members {
		members[i] = clock.GroupMember{
			EmployeeID:    payroll.EmployeeID(m.EmployeeID),
			EmployeeJobID: payroll.EmployeeJobID(m.EmployeeJobID),
		}
	}

	result, err := h.Shifts.GroupClockIn(r.Context(), members, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResultDTO(result))
}

// GroupClockOut clocks out every listed employee, itemized.
func (h *Handler) GroupClockOut(w http.ResponseWriter, r *http.Request) {
	var req GroupClockOutRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	at, ok := parseAt(w, req.At)
	if !ok {
		return
	}

	ids := make([]payroll.EmployeeID, len(req.EmployeeIDs))
	for i, id := range req.EmployeeIDs {
		ids[i] = payroll.EmployeeID(id)
	}

	result, err := h.Shifts.GroupClockOut(r.Context(), ids, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResultDTO(result))
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// CalculatePayments aggregates a period's completed shifts into CALCULATED
// payments. With no period number, the most recently ended period is used.
func (h *Handler) CalculatePayments(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	var req CalculateRequest
	if r.ContentLength > 0 {
		if !h.decodeAndValidate(w, r, &req) {
			return
		}
	}

	ctx := r.Context()
	var period payroll.Period
	var err error
	if req.PeriodNumber > 0 {
		period, err = h.Navigator.ByNumber(ctx, companyID, req.PeriodNumber)
	} else {
		period, err = h.Navigator.Current(ctx, companyID)
		if err == nil {
			period = period.Previous()
		}
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	created, err := h.Payments.CalculateForPeriod(ctx, companyID, period)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":   toPeriodDTO(period),
		"payments": toPaymentDTOs(created),
	})
}

// ListPayments returns a period's payments. Query param: period (1-based
// number, default current).
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))
	ctx := r.Context()

	var period payroll.Period
	var err error
	if raw := r.URL.Query().Get("period"); raw != "" {
		number, convErr := strconv.Atoi(raw)
		if convErr != nil || number < 1 {
			writeError(w, http.StatusBadRequest, "period must be a positive integer", convErr)
			return
		}
		period, err = h.Navigator.ByNumber(ctx, companyID, number)
	} else {
		period, err = h.Navigator.Current(ctx, companyID)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	list, err := h.Store.PaymentsForPeriod(ctx, companyID, period.Start, period.End)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":   toPeriodDTO(period),
		"payments": toPaymentDTOs(list),
	})
}

// BulkUpdatePaymentStatus moves the listed payments to the target status,
// itemized.
func (h *Handler) BulkUpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	companyID := payroll.CompanyID(chi.URLParam(r, "companyID"))

	var req BulkStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ids := make([]payroll.PaymentID, len(req.PaymentIDs))
	for i, id := range req.PaymentIDs {
		ids[i] = payroll.PaymentID(id)
	}

	result, err := h.Payments.BulkStatusUpdate(r.Context(), companyID, ids,
		payroll.PaymentStatus(req.Status), req.ModifiedBy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBatchResultDTO(result))
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate parses the body into dst and runs struct validation.
// Writes the error response and returns false on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// parseAt resolves an optional RFC3339 timestamp, defaulting to now.
func parseAt(w http.ResponseWriter, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Now().UTC(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid at timestamp (use RFC3339)", err)
		return time.Time{}, false
	}
	return at, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
		resp.Code = payroll.ErrorCode(err)
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps an engine error to an HTTP status by category.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case payroll.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "Invalid request", err)
	case payroll.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case payroll.IsConfigurationError(err):
		writeError(w, http.StatusConflict, "Pay schedule not configured", err)
	case payroll.IsConflict(err):
		writeError(w, http.StatusConflict, "Conflict", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
