/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Request types carry validator struct tags and are checked in the
  handlers before any domain logic runs. Amounts and dates cross the wire
  as strings so clients never touch binary floats.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/schedule.go: ScheduleJSON, the schedule wire format
*/
package api

import (
	"time"

	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/payments"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee.
type CreateEmployeeRequest struct {
	ID        string `json:"id" validate:"required"`
	CompanyID string `json:"company_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Status    string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CreateJobRequest is the request to create a job (role) with its default
// hourly wage.
type CreateJobRequest struct {
	ID                string `json:"id" validate:"required"`
	CompanyID         string `json:"company_id" validate:"required"`
	Name              string `json:"name" validate:"required"`
	DefaultHourlyWage string `json:"default_hourly_wage" validate:"required"`
}

// AssignJobRequest links an employee to a job, optionally overriding the
// job's default wage.
type AssignJobRequest struct {
	ID           string `json:"id" validate:"required"`
	EmployeeID   string `json:"employee_id" validate:"required"`
	JobID        string `json:"job_id" validate:"required"`
	WageOverride string `json:"wage_override" validate:"omitempty"`
}

// PeriodDTO represents a pay period in API responses.
type PeriodDTO struct {
	Number    int    `json:"number"`
	Start     string `json:"start"`
	End       string `json:"end"`
	Frequency string `json:"frequency"`
	Label     string `json:"label"`
	Current   bool   `json:"current,omitempty"`
}

// ShiftDTO represents a work shift.
type ShiftDTO struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	EmployeeJobID string `json:"employee_job_id"`
	ClockIn       string `json:"clock_in"`
	ClockOut      string `json:"clock_out,omitempty"`
	Status        string `json:"status"`
}

// ClockRequest is a single clock action.
type ClockRequest struct {
	EmployeeJobID string `json:"employee_job_id" validate:"required"`
	// At is optional; defaults to the server's now.
	At string `json:"at" validate:"omitempty"`
}

// GroupMemberDTO identifies one employee in a group clock-in.
type GroupMemberDTO struct {
	EmployeeID    string `json:"employee_id" validate:"required"`
	EmployeeJobID string `json:"employee_job_id" validate:"required"`
}

// GroupClockInRequest clocks in up to the clock batch limit of employees.
type GroupClockInRequest struct {
	Members []GroupMemberDTO `json:"members" validate:"required,dive"`
	At      string           `json:"at" validate:"omitempty"`
}

// GroupClockOutRequest clocks out the listed employees.
type GroupClockOutRequest struct {
	EmployeeIDs []string `json:"employee_ids" validate:"required"`
	At          string   `json:"at" validate:"omitempty"`
}

// PaymentDTO represents a payment in API responses.
type PaymentDTO struct {
	ID            string `json:"id"`
	CompanyID     string `json:"company_id"`
	EmployeeID    string `json:"employee_id"`
	PeriodStart   string `json:"period_start"`
	PeriodEnd     string `json:"period_end"`
	TotalHours    string `json:"total_hours"`
	TotalEarnings string `json:"total_earnings"`
	Status        string `json:"status"`
	CalculatedAt  string `json:"calculated_at,omitempty"`
	IssuedAt      string `json:"issued_at,omitempty"`
	CompletedAt   string `json:"completed_at,omitempty"`
	VoidedAt      string `json:"voided_at,omitempty"`
	ModifiedBy    string `json:"modified_by,omitempty"`
}

// CalculateRequest triggers payment calculation for a period. PeriodNumber
// zero means the most recently ended period.
type CalculateRequest struct {
	PeriodNumber int `json:"period_number" validate:"omitempty,min=1"`
}

// BulkStatusRequest moves a set of payments to a target status.
type BulkStatusRequest struct {
	PaymentIDs []string `json:"payment_ids" validate:"required"`
	Status     string   `json:"status" validate:"required,oneof=issued completed voided"`
	ModifiedBy string   `json:"modified_by" validate:"required"`
}

// BatchResultDTO is the itemized outcome of a batch operation.
type BatchResultDTO[R any] struct {
	Successes []payroll.BatchSuccess[R] `json:"successes"`
	Failures  []payroll.BatchFailure    `json:"failures"`
	Succeeded int                       `json:"succeeded"`
	Failed    int                       `json:"failed"`
}

// DeltaDTO is a period-over-period comparison.
type DeltaDTO struct {
	Absolute string `json:"absolute"`
	Percent  string `json:"percent"`
}

// SummaryDTO is the dashboard summary of the current period against the
// previous one.
type SummaryDTO struct {
	Current        PeriodDTO `json:"current_period"`
	Previous       PeriodDTO `json:"previous_period"`
	TotalHours     string    `json:"total_hours"`
	TotalEarnings  string    `json:"total_earnings"`
	ShiftCount     int       `json:"shift_count"`
	PreviousHours  string    `json:"previous_hours"`
	PreviousAmount string    `json:"previous_earnings"`
	HoursDelta     DeltaDTO  `json:"hours_delta"`
	EarningsDelta  DeltaDTO  `json:"earnings_delta"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:        string(e.ID),
		CompanyID: string(e.CompanyID),
		Name:      e.Name,
		Email:     e.Email,
		Status:    string(e.Status),
	}
	if !e.CreatedAt.IsZero() {
		dto.CreatedAt = e.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPeriodDTO(p payroll.Period) PeriodDTO {
	return PeriodDTO{
		Number:    p.Number,
		Start:     p.Start.String(),
		End:       p.End.String(),
		Frequency: string(p.Frequency),
		Label:     p.Label(),
	}
}

func toShiftDTO(s payroll.ShiftRecord) ShiftDTO {
	dto := ShiftDTO{
		ID:            string(s.ID),
		EmployeeID:    string(s.EmployeeID),
		EmployeeJobID: string(s.EmployeeJobID),
		ClockIn:       s.ClockIn.UTC().Format(time.RFC3339),
		Status:        string(s.Status),
	}
	if !s.ClockOut.IsZero() {
		dto.ClockOut = s.ClockOut.UTC().Format(time.RFC3339)
	}
	return dto
}

func toPaymentDTO(p payroll.Payment) PaymentDTO {
	return PaymentDTO{
		ID:            string(p.ID),
		CompanyID:     string(p.CompanyID),
		EmployeeID:    string(p.EmployeeID),
		PeriodStart:   p.PeriodStart.String(),
		PeriodEnd:     p.PeriodEnd.String(),
		TotalHours:    p.TotalHours.StringFixed(2),
		TotalEarnings: p.TotalEarnings.StringFixed(2),
		Status:        string(p.Status),
		CalculatedAt:  formatOptional(p.CalculatedAt),
		IssuedAt:      formatOptional(p.IssuedAt),
		CompletedAt:   formatOptional(p.CompletedAt),
		VoidedAt:      formatOptional(p.VoidedAt),
		ModifiedBy:    p.ModifiedBy,
	}
}

func toPaymentDTOs(ps []payroll.Payment) []PaymentDTO {
	dtos := make([]PaymentDTO, len(ps))
	for i, p := range ps {
		dtos[i] = toPaymentDTO(p)
	}
	return dtos
}

func toBatchResultDTO[R any](r payroll.BatchResult[R]) BatchResultDTO[R] {
	return BatchResultDTO[R]{
		Successes: r.Successes,
		Failures:  r.Failures,
		Succeeded: r.SuccessCount(),
		Failed:    r.FailureCount(),
	}
}

func toSummaryDTO(s payments.Summary) SummaryDTO {
	current := toPeriodDTO(s.Current)
	current.Current = true
	return SummaryDTO{
		Current:        current,
		Previous:       toPeriodDTO(s.Previous),
		TotalHours:     s.CurrentTotals.TotalHours.StringFixed(2),
		TotalEarnings:  s.CurrentTotals.TotalEarnings.StringFixed(2),
		ShiftCount:     s.CurrentTotals.ShiftCount,
		PreviousHours:  s.PreviousTotal.TotalHours.StringFixed(2),
		PreviousAmount: s.PreviousTotal.TotalEarnings.StringFixed(2),
		HoursDelta: DeltaDTO{
			Absolute: s.HoursDelta.Absolute.StringFixed(2),
			Percent:  s.HoursDelta.Percent.StringFixed(2),
		},
		EarningsDelta: DeltaDTO{
			Absolute: s.EarningsDelta.Absolute.StringFixed(2),
			Percent:  s.EarningsDelta.Percent.StringFixed(2),
		},
	}
}

func formatOptional(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
