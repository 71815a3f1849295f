package report

import (
	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Row is the sealed union of log-row variants. The caller's role picks the
// variant; one object is never conditionally reshaped.
type Row interface {
	isRow()
}

type BreakSummary struct {
	Count        int `json:"count"`
	TotalMinutes int `json:"total_minutes"`
}

// LogRow is the employee-view display row for one attendance record.
// Synthetic rows (employee never clocked in that day) carry a nil
// AttendanceID, nil time fields, zero hours and no deduction result.
type LogRow struct {
	AttendanceID  *string                  `json:"attendance_id"`
	EmployeeID    string                   `json:"employee_id"`
	Date          string                   `json:"date"`
	Status        *string                  `json:"status"`
	ClockInTime   *string                  `json:"clock_in_time"`
	ClockOutTime  *string                  `json:"clock_out_time"`
	WorkMinutes   int                      `json:"work_minutes"`
	WorkHours     float64                  `json:"work_hours"`
	Breaks        BreakSummary             `json:"breaks"`
	Deductions    *payroll.DeductionResult `json:"deductions,omitempty"`
	OvertimeHours float64                  `json:"overtime_hours"`
}

func (LogRow) isRow() {}

type EmployeeIdentity struct {
	FullName     string  `json:"full_name"`
	Email        string  `json:"email"`
	EmployeeCode string  `json:"employee_code"`
	Department   *string `json:"department,omitempty"`
}

// AdminLogRow embeds the employee view plus identity fields; returned to
// admin and manager callers only.
type AdminLogRow struct {
	LogRow
	Employee EmployeeIdentity `json:"employee"`
}

func (AdminLogRow) isRow() {}

// ========================================
// DAILY LOGS
// ========================================

type DailyLogsRequest struct {
	Date       *string
	EmployeeID *string
	Status     *string
	Page       int
	Limit      int
}

func (r *DailyLogsRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Date != nil && *r.Date != "" {
		if _, ok := validator.IsValidDate(*r.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.Status != nil && *r.Status != "" && !validator.IsInSlice(*r.Status, attendance.ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "unknown status filter",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DailyLogsResponse struct {
	Date       string        `json:"date"`
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Rows       []AdminLogRow `json:"rows"`
}

// ========================================
// DAILY SUMMARY
// ========================================

type DailySummary struct {
	Date           string `json:"date"`
	TotalEmployees int    `json:"total_employees"`
	Present        int    `json:"present"`
	OnLeave        int    `json:"on_leave"`
	CheckedIn      int    `json:"checked_in"`
	CheckedOut     int    `json:"checked_out"`
	OnBreak        int    `json:"on_break"`
	Late           int    `json:"late"`
	NotClockedIn   int    `json:"not_clocked_in"`
}

// ========================================
// LATE EMPLOYEES REPORT
// ========================================

type LateReportRequest struct {
	Date  *string
	Page  int
	Limit int
}

type LateRow struct {
	AttendanceID  string          `json:"attendance_id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	EmployeeCode  string          `json:"employee_code"`
	Date          string          `json:"date"`
	ClockInTime   *string         `json:"clock_in_time"`
	LateMinutes   int             `json:"late_minutes"`
	LateDeduction decimal.Decimal `json:"late_deduction"`
}

type LateReportResponse struct {
	Date       string    `json:"date"`
	TotalCount int64     `json:"total_count"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
	Rows       []LateRow `json:"rows"`
}
