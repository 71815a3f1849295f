package report

import (
	"math"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/employee"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/domain/report"
)

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

func minutesToHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

// assembleLogRow builds the employee-view display row for one record.
//
// For records still in progress the work figure runs from clock-in to now;
// deductions are only attached once the record is CHECKED_OUT, since an
// open record would otherwise read as an absence.
func assembleLogRow(
	rec attendance.Attendance,
	breaks []attendance.BreakSession,
	policy payroll.Policy,
	calc *payroll.Calculator,
	now time.Time,
) (report.LogRow, error) {
	attendanceID := rec.ID
	status := rec.Status

	row := report.LogRow{
		AttendanceID: &attendanceID,
		EmployeeID:   rec.EmployeeID,
		Date:         rec.Date.Format("2006-01-02"),
		Status:       &status,
		ClockInTime:  timePtrToString(rec.ClockIn),
		ClockOutTime: timePtrToString(rec.ClockOut),
	}

	for _, b := range breaks {
		row.Breaks.Count++
		row.Breaks.TotalMinutes += b.DurationMinutes
	}

	switch {
	case rec.ClockIn != nil && rec.ClockOut != nil:
		row.WorkMinutes = int(rec.ClockOut.Sub(*rec.ClockIn).Milliseconds()/60000) - rec.TotalBreakMinutes
	case rec.ClockIn != nil && (rec.Status == attendance.StatusCheckedIn || rec.Status == attendance.StatusOnBreak):
		row.WorkMinutes = int(now.Sub(*rec.ClockIn).Milliseconds()/60000) - rec.TotalBreakMinutes
	}
	if row.WorkMinutes < 0 {
		row.WorkMinutes = 0
	}
	row.WorkHours = minutesToHours(row.WorkMinutes)

	if rec.Status == attendance.StatusCheckedOut {
		result, err := calc.Compute(rec, breaks, policy)
		if err != nil {
			return report.LogRow{}, err
		}
		row.Deductions = &result
		row.OvertimeHours = minutesToHours(result.OvertimeMinutes)
	}

	return row, nil
}

func assembleAdminRow(
	rec attendance.Attendance,
	breaks []attendance.BreakSession,
	policy payroll.Policy,
	calc *payroll.Calculator,
	now time.Time,
) (report.AdminLogRow, error) {
	row, err := assembleLogRow(rec, breaks, policy, calc, now)
	if err != nil {
		return report.AdminLogRow{}, err
	}

	identity := report.EmployeeIdentity{Department: rec.EmployeeDept}
	if rec.EmployeeName != nil {
		identity.FullName = *rec.EmployeeName
	}
	if rec.EmployeeEmail != nil {
		identity.Email = *rec.EmployeeEmail
	}
	if rec.EmployeeCode != nil {
		identity.EmployeeCode = *rec.EmployeeCode
	}

	return report.AdminLogRow{LogRow: row, Employee: identity}, nil
}

// syntheticRow builds the placeholder row for an active employee with no
// attendance record on the date. Leave shows as ON_LEAVE; otherwise the
// status stays nil and the row reads as not clocked in.
func syntheticRow(emp employee.Employee, date time.Time, onLeave bool) report.AdminLogRow {
	row := report.LogRow{
		EmployeeID: emp.ID,
		Date:       date.Format("2006-01-02"),
	}
	if onLeave {
		status := attendance.StatusOnLeave
		row.Status = &status
	}

	return report.AdminLogRow{
		LogRow: row,
		Employee: report.EmployeeIdentity{
			FullName:     emp.FullName,
			Email:        emp.Email,
			EmployeeCode: emp.EmployeeCode,
			Department:   emp.Department,
		},
	}
}
