package payroll

import (
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// POLICY DTOs
// ========================================

type PolicyResponse struct {
	ID                        string          `json:"id"`
	LatePenaltyPerMinute      decimal.Decimal `json:"late_penalty_per_minute"`
	EarlyExitPenaltyPerMinute decimal.Decimal `json:"early_exit_penalty_per_minute"`
	AbsentFullDayPenalty      decimal.Decimal `json:"absent_full_day_penalty"`
	HalfDayPenalty            decimal.Decimal `json:"half_day_penalty"`
	GraceLateMinutes          int             `json:"grace_late_minutes"`
	GraceEarlyMinutes         int             `json:"grace_early_minutes"`
	StandardShiftMinutes      int             `json:"standard_shift_minutes"`
	HalfDayThresholdMinutes   int             `json:"half_day_threshold_minutes"`
	MinimumOvertimeMinutes    int             `json:"minimum_overtime_minutes"`
	OvertimeRatePerMinute     decimal.Decimal `json:"overtime_rate_per_minute"`
	UpdatedAt                 string          `json:"updated_at"`
}

type UpdatePolicyRequest struct {
	LatePenaltyPerMinute      *decimal.Decimal `json:"late_penalty_per_minute"`
	EarlyExitPenaltyPerMinute *decimal.Decimal `json:"early_exit_penalty_per_minute"`
	AbsentFullDayPenalty      *decimal.Decimal `json:"absent_full_day_penalty"`
	HalfDayPenalty            *decimal.Decimal `json:"half_day_penalty"`
	GraceLateMinutes          *int             `json:"grace_late_minutes"`
	GraceEarlyMinutes         *int             `json:"grace_early_minutes"`
	StandardShiftMinutes      *int             `json:"standard_shift_minutes"`
	HalfDayThresholdMinutes   *int             `json:"half_day_threshold_minutes"`
	MinimumOvertimeMinutes    *int             `json:"minimum_overtime_minutes"`
	OvertimeRatePerMinute     *decimal.Decimal `json:"overtime_rate_per_minute"`
}

func (r *UpdatePolicyRequest) Validate() error {
	var errs validator.ValidationErrors

	rates := map[string]*decimal.Decimal{
		"late_penalty_per_minute":       r.LatePenaltyPerMinute,
		"early_exit_penalty_per_minute": r.EarlyExitPenaltyPerMinute,
		"absent_full_day_penalty":       r.AbsentFullDayPenalty,
		"half_day_penalty":              r.HalfDayPenalty,
		"overtime_rate_per_minute":      r.OvertimeRatePerMinute,
	}
	for field, v := range rates {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must not be negative",
			})
		}
	}

	minutes := map[string]*int{
		"grace_late_minutes":         r.GraceLateMinutes,
		"grace_early_minutes":        r.GraceEarlyMinutes,
		"standard_shift_minutes":     r.StandardShiftMinutes,
		"half_day_threshold_minutes": r.HalfDayThresholdMinutes,
		"minimum_overtime_minutes":   r.MinimumOvertimeMinutes,
	}
	for field, v := range minutes {
		if v != nil && *v < 0 {
			errs = append(errs, validator.ValidationError{
				Field:   field,
				Message: field + " must not be negative",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// AGGREGATE REPORT DTOs
// ========================================

// SkippedRecord reports one record isolated in best-effort mode.
type SkippedRecord struct {
	AttendanceID string `json:"attendance_id"`
	EmployeeID   string `json:"employee_id"`
	Date         string `json:"date"`
	Reason       string `json:"reason"`
}

type DeductionSummaryRequest struct {
	Date       *string `json:"date"`
	StartDate  *string `json:"start_date"`
	EndDate    *string `json:"end_date"`
	EmployeeID *string `json:"employee_id"`
	BestEffort bool    `json:"best_effort"`
}

func (r *DeductionSummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	hasSingle := r.Date != nil && *r.Date != ""
	hasStart := r.StartDate != nil && *r.StartDate != ""
	hasEnd := r.EndDate != nil && *r.EndDate != ""

	if !hasSingle && !hasStart && !hasEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "either date or start_date/end_date is required",
		})
	}
	if hasSingle && (hasStart || hasEnd) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date and start_date/end_date are mutually exclusive",
		})
	}
	if hasStart != hasEnd {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date and end_date must be supplied together",
		})
	}

	if hasSingle {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}
	if hasStart && hasEnd {
		start, okStart := validator.IsValidDate(*r.StartDate)
		end, okEnd := validator.IsValidDate(*r.EndDate)
		if !okStart {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		if !okEnd {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		if okStart && okEnd && end.Before(start) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must not precede start_date",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DeductionSummaryResponse struct {
	StartDate               string          `json:"start_date"`
	EndDate                 string          `json:"end_date"`
	RecordCount             int             `json:"record_count"`
	TotalLateMinutes        int             `json:"total_late_minutes"`
	TotalLateDeduction      decimal.Decimal `json:"total_late_deduction"`
	TotalEarlyExitMinutes   int             `json:"total_early_exit_minutes"`
	TotalEarlyExitDeduction decimal.Decimal `json:"total_early_exit_deduction"`
	TotalAbsentDeduction    decimal.Decimal `json:"total_absent_deduction"`
	TotalOvertimeMinutes    int             `json:"total_overtime_minutes"`
	TotalOvertimeAmount     decimal.Decimal `json:"total_overtime_amount"`
	TotalDeduction          decimal.Decimal `json:"total_deduction"`
	Skipped                 []SkippedRecord `json:"skipped,omitempty"`
}

type MonthlyPayrollRequest struct {
	Month      int  `json:"month"`
	Year       int  `json:"year"`
	BestEffort bool `json:"best_effort"`
}

func (r *MonthlyPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be between 2000 and 2100",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeePayrollRow struct {
	EmployeeID              string          `json:"employee_id"`
	EmployeeName            string          `json:"employee_name"`
	EmployeeCode            string          `json:"employee_code"`
	Department              *string         `json:"department,omitempty"`
	BaseSalary              decimal.Decimal `json:"base_salary"`
	WorkingDays             int             `json:"working_days"`
	LeaveDays               int             `json:"leave_days"`
	AbsentDays              int             `json:"absent_days"`
	TotalLateMinutes        int             `json:"total_late_minutes"`
	TotalLateDeduction      decimal.Decimal `json:"total_late_deduction"`
	TotalEarlyExitMinutes   int             `json:"total_early_exit_minutes"`
	TotalEarlyExitDeduction decimal.Decimal `json:"total_early_exit_deduction"`
	TotalAbsentDeduction    decimal.Decimal `json:"total_absent_deduction"`
	TotalOvertimeMinutes    int             `json:"total_overtime_minutes"`
	TotalOvertimeAmount     decimal.Decimal `json:"total_overtime_amount"`
	TotalDeductions         decimal.Decimal `json:"total_deductions"`
	NetSalary               decimal.Decimal `json:"net_salary"`
}

type MonthlyPayrollReport struct {
	PeriodMonth int                  `json:"period_month"`
	PeriodYear  int                  `json:"period_year"`
	PeriodStart string               `json:"period_start"`
	PeriodEnd   string               `json:"period_end"`
	GeneratedAt string               `json:"generated_at"`
	Employees   []EmployeePayrollRow `json:"employees"`
	Skipped     []SkippedRecord      `json:"skipped,omitempty"`
}
