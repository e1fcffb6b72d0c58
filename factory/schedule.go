/*
Package factory provides JSON to Go pay-schedule conversion.

PURPOSE:
  Converts JSON schedule definitions into payroll.PaySchedule values. This
  enables schedule configuration without code changes - admins define the
  company's pay cadence in JSON, the factory validates and builds the
  proper Go struct.

JSON SCHEMA:
  {
    "company_id": "acme",
    "frequency": "biweekly",
    "anchor_date": "2024-01-01",
    "calculation_day": 1,
    "calculation_time": "02:00",
    "grace_period_hours": 4,
    "auto_calculate": true,
    "notification_email": "payroll@acme.example"
  }

VALIDATION:
  - frequency must be weekly/biweekly/monthly
  - anchor_date is required; a schedule without one can resolve no period
  - calculation_time must be HH:MM when present
  - grace_period_hours must be non-negative

USAGE:
  f := factory.NewScheduleFactory()
  schedule, err := f.Parse(jsonString)

SEE ALSO:
  - payroll/types.go: PaySchedule definition
  - payroll/navigator.go: consumes the stored schedule
*/
package factory

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"time"

	"github.com/warp/payroll-engine/payroll"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the JSON representation of a pay schedule.
type ScheduleJSON struct {
	CompanyID        string `json:"company_id"`
	Frequency        string `json:"frequency"`
	AnchorDate       string `json:"anchor_date"`
	CalculationDay   int    `json:"calculation_day,omitempty"`
	CalculationTime  string `json:"calculation_time,omitempty"`
	GracePeriodHours int    `json:"grace_period_hours,omitempty"`
	AutoCalculate    bool   `json:"auto_calculate,omitempty"`
	NotifyEmail      string `json:"notification_email,omitempty"`
}

// =============================================================================
// SCHEDULE FACTORY
// =============================================================================

// ScheduleFactory converts JSON schedules to Go structs.
type ScheduleFactory struct{}

func NewScheduleFactory() *ScheduleFactory {
	return &ScheduleFactory{}
}

// Parse validates and converts a JSON schedule definition.
func (f *ScheduleFactory) Parse(jsonStr string) (*payroll.PaySchedule, error) {
	var raw ScheduleJSON
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, fmt.Errorf("invalid schedule JSON: %w", err)
	}
	return f.Build(raw)
}

// Build converts an already-decoded schedule definition.
func (f *ScheduleFactory) Build(raw ScheduleJSON) (*payroll.PaySchedule, error) {
	if raw.CompanyID == "" {
		return nil, fmt.Errorf("schedule requires company_id")
	}

	freq := payroll.PayFrequency(raw.Frequency)
	if !freq.Valid() {
		return nil, fmt.Errorf("%w: %q", payroll.ErrInvalidFrequency, raw.Frequency)
	}

	if raw.AnchorDate == "" {
		return nil, &payroll.ConfigurationError{
			CompanyID: payroll.CompanyID(raw.CompanyID),
			Reason:    "anchor date is required",
		}
	}
	anchor, err := payroll.ParseDate(raw.AnchorDate)
	if err != nil {
		return nil, fmt.Errorf("invalid anchor_date %q: %w", raw.AnchorDate, err)
	}

	calcTime := raw.CalculationTime
	if calcTime == "" {
		calcTime = "02:00"
	}
	if _, err := time.Parse("15:04", calcTime); err != nil {
		return nil, fmt.Errorf("invalid calculation_time %q: use HH:MM", raw.CalculationTime)
	}

	if raw.CalculationDay < 0 {
		return nil, fmt.Errorf("calculation_day must be non-negative")
	}
	if raw.GracePeriodHours < 0 {
		return nil, fmt.Errorf("grace_period_hours must be non-negative")
	}

	if raw.NotifyEmail != "" {
		if _, err := mail.ParseAddress(raw.NotifyEmail); err != nil {
			return nil, fmt.Errorf("invalid notification_email %q", raw.NotifyEmail)
		}
	}

	return &payroll.PaySchedule{
		CompanyID:        payroll.CompanyID(raw.CompanyID),
		Frequency:        freq,
		AnchorDate:       anchor,
		CalculationDay:   raw.CalculationDay,
		CalculationTime:  calcTime,
		GracePeriodHours: raw.GracePeriodHours,
		AutoCalculate:    raw.AutoCalculate,
		NotifyEmail:      raw.NotifyEmail,
	}, nil
}

// =============================================================================
// PRESETS
// =============================================================================

// BiweeklyScheduleJSON is a ready-to-parse biweekly schedule definition.
func BiweeklyScheduleJSON(companyID, anchorDate string) string {
	b, _ := json.Marshal(ScheduleJSON{
		CompanyID:        companyID,
		Frequency:        string(payroll.Biweekly),
		AnchorDate:       anchorDate,
		CalculationDay:   1,
		CalculationTime:  "02:00",
		GracePeriodHours: 4,
	})
	return string(b)
}

// MonthlyScheduleJSON is a ready-to-parse monthly schedule definition.
func MonthlyScheduleJSON(companyID, anchorDate string) string {
	b, _ := json.Marshal(ScheduleJSON{
		CompanyID:       companyID,
		Frequency:       string(payroll.Monthly),
		AnchorDate:      anchorDate,
		CalculationDay:  2,
		CalculationTime: "02:00",
	})
	return string(b)
}
