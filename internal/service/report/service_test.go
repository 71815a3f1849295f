package report

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/employee"
	"github.com/kerjahub/attendance-backend-go/internal/domain/leave"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/domain/report"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReportRepo struct {
	countPresentFn  func(ctx context.Context, date time.Time) (int, error)
	countByStatusFn func(ctx context.Context, date time.Time, status string) (int, error)
	countLateFn     func(ctx context.Context, date time.Time) (int, error)
	listLateFn      func(ctx context.Context, date time.Time, page, limit int) ([]attendance.Attendance, int64, error)
}

func (f *fakeReportRepo) CountPresent(ctx context.Context, date time.Time) (int, error) {
	return f.countPresentFn(ctx, date)
}
func (f *fakeReportRepo) CountByStatus(ctx context.Context, date time.Time, status string) (int, error) {
	return f.countByStatusFn(ctx, date, status)
}
func (f *fakeReportRepo) CountLate(ctx context.Context, date time.Time) (int, error) {
	return f.countLateFn(ctx, date)
}
func (f *fakeReportRepo) ListLate(ctx context.Context, date time.Time, page, limit int) ([]attendance.Attendance, int64, error) {
	return f.listLateFn(ctx, date, page, limit)
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	getByIDFn func(ctx context.Context, id string) (attendance.Attendance, error)
	listFn    func(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error)
}

func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return f.listFn(ctx, filter)
}

type fakeBreakRepo struct {
	attendance.BreakRepository
	listByAttendanceIDFn func(ctx context.Context, attendanceID string) ([]attendance.BreakSession, error)
}

func (f *fakeBreakRepo) ListByAttendanceID(ctx context.Context, attendanceID string) ([]attendance.BreakSession, error) {
	if f.listByAttendanceIDFn == nil {
		return nil, nil
	}
	return f.listByAttendanceIDFn(ctx, attendanceID)
}
func (f *fakeBreakRepo) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.BreakSession, error) {
	return map[string][]attendance.BreakSession{}, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	getActiveFn   func(ctx context.Context) ([]employee.Employee, error)
	countActiveFn func(ctx context.Context) (int, error)
}

func (f *fakeEmployeeRepo) GetActive(ctx context.Context) ([]employee.Employee, error) {
	return f.getActiveFn(ctx)
}
func (f *fakeEmployeeRepo) CountActive(ctx context.Context) (int, error) {
	return f.countActiveFn(ctx)
}

type fakeLeaveRepo struct {
	leave.LeaveRepository
	getApprovedEmployeeIDsFn func(ctx context.Context, date time.Time) (map[string]bool, error)
	countApprovedByDateFn    func(ctx context.Context, date time.Time) (int, error)
}

func (f *fakeLeaveRepo) GetApprovedEmployeeIDs(ctx context.Context, date time.Time) (map[string]bool, error) {
	return f.getApprovedEmployeeIDsFn(ctx, date)
}
func (f *fakeLeaveRepo) CountApprovedByDate(ctx context.Context, date time.Time) (int, error) {
	return f.countApprovedByDateFn(ctx, date)
}

type fakePolicyRepo struct {
	payroll.PolicyRepository
	getActiveFn func(ctx context.Context) (payroll.Policy, error)
}

func (f *fakePolicyRepo) GetActive(ctx context.Context) (payroll.Policy, error) {
	return f.getActiveFn(ctx)
}

func activePolicy() payroll.Policy {
	return payroll.Policy{
		ID:                        "policy-1",
		LatePenaltyPerMinute:      decimal.NewFromInt(10),
		EarlyExitPenaltyPerMinute: decimal.NewFromInt(8),
		AbsentFullDayPenalty:      decimal.NewFromInt(1000),
		GraceLateMinutes:          15,
		GraceEarlyMinutes:         10,
		StandardShiftMinutes:      480,
		MinimumOvertimeMinutes:    30,
		OvertimeRatePerMinute:     decimal.NewFromInt(5),
		IsActive:                  true,
	}
}

func authedContext(t *testing.T, employeeID string, role employee.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func strPtr(s string) *string { return &s }

func checkedOutRecord(id, employeeID string, day time.Time, lateMinutes int) attendance.Attendance {
	in := day.Add(9 * time.Hour).Add(time.Duration(lateMinutes) * time.Minute)
	out := in.Add(8 * time.Hour)
	return attendance.Attendance{
		ID:           id,
		EmployeeID:   employeeID,
		Date:         day,
		ClockIn:      &in,
		ClockOut:     &out,
		Status:       attendance.StatusCheckedOut,
		LateFlag:     lateMinutes > 0,
		LateMinutes:  lateMinutes,
		EmployeeName: strPtr("Budi Santoso"),
		EmployeeCode: strPtr("EMP001"),
	}
}

func TestGetDailySummary(t *testing.T) {
	reportRepo := &fakeReportRepo{
		countPresentFn: func(ctx context.Context, date time.Time) (int, error) { return 6, nil },
		countByStatusFn: func(ctx context.Context, date time.Time, status string) (int, error) {
			switch status {
			case attendance.StatusCheckedIn:
				return 3, nil
			case attendance.StatusCheckedOut:
				return 2, nil
			case attendance.StatusOnBreak:
				return 1, nil
			}
			return 0, nil
		},
		countLateFn: func(ctx context.Context, date time.Time) (int, error) { return 2, nil },
	}
	empRepo := &fakeEmployeeRepo{
		countActiveFn: func(ctx context.Context) (int, error) { return 10, nil },
	}
	leaveRepo := &fakeLeaveRepo{
		countApprovedByDateFn: func(ctx context.Context, date time.Time) (int, error) { return 1, nil },
	}

	svc := NewReportService(reportRepo, &fakeAttendanceRepo{}, &fakeBreakRepo{}, empRepo, leaveRepo, &fakePolicyRepo{}, payroll.NewCalculator())

	date := "2026-03-02"
	summary, err := svc.GetDailySummary(context.Background(), &date)
	require.NoError(t, err)

	assert.Equal(t, 10, summary.TotalEmployees)
	assert.Equal(t, 6, summary.Present)
	assert.Equal(t, 1, summary.OnLeave)
	assert.Equal(t, 3, summary.CheckedIn)
	assert.Equal(t, 2, summary.CheckedOut)
	assert.Equal(t, 1, summary.OnBreak)
	assert.Equal(t, 2, summary.Late)
	assert.Equal(t, 3, summary.NotClockedIn)
}

func TestGetDailyLogs_AppendsSyntheticRows(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	date := "2026-03-02"

	attRepo := &fakeAttendanceRepo{
		listFn: func(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
			return []attendance.Attendance{
				checkedOutRecord("att-1", "emp-1", day, 0),
				checkedOutRecord("att-2", "emp-2", day, 20),
			}, 2, nil
		},
	}
	empRepo := &fakeEmployeeRepo{
		getActiveFn: func(ctx context.Context) ([]employee.Employee, error) {
			return []employee.Employee{
				{ID: "emp-1", FullName: "Budi Santoso"},
				{ID: "emp-2", FullName: "Ani Wijaya"},
				{ID: "emp-3", FullName: "Citra Lestari"},
				{ID: "emp-4", FullName: "Dewi Anggraini"},
			}, nil
		},
	}
	leaveRepo := &fakeLeaveRepo{
		getApprovedEmployeeIDsFn: func(ctx context.Context, date time.Time) (map[string]bool, error) {
			return map[string]bool{"emp-3": true}, nil
		},
	}
	policyRepo := &fakePolicyRepo{
		getActiveFn: func(ctx context.Context) (payroll.Policy, error) { return activePolicy(), nil },
	}

	svc := NewReportService(&fakeReportRepo{}, attRepo, &fakeBreakRepo{}, empRepo, leaveRepo, policyRepo, payroll.NewCalculator())

	resp, err := svc.GetDailyLogs(context.Background(), report.DailyLogsRequest{Date: &date})
	require.NoError(t, err)

	// 2 real rows plus synthetic rows for emp-3 (on leave) and emp-4 (absent)
	require.Len(t, resp.Rows, 4)
	assert.Equal(t, int64(2), resp.TotalCount)

	byEmployee := map[string]report.AdminLogRow{}
	for _, row := range resp.Rows {
		byEmployee[row.EmployeeID] = row
	}

	leaveRow := byEmployee["emp-3"]
	assert.Nil(t, leaveRow.AttendanceID)
	require.NotNil(t, leaveRow.Status)
	assert.Equal(t, attendance.StatusOnLeave, *leaveRow.Status)
	assert.Nil(t, leaveRow.Deductions)

	absentRow := byEmployee["emp-4"]
	assert.Nil(t, absentRow.AttendanceID)
	assert.Nil(t, absentRow.Status)
	assert.Zero(t, absentRow.WorkMinutes)

	// Real checked-out rows carry calculator output
	lateRow := byEmployee["emp-2"]
	require.NotNil(t, lateRow.Deductions)
	assert.Equal(t, 5, lateRow.Deductions.LateMinutes)
}

func TestGetDailyLogs_EmployeeFilterSkipsSynthetic(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	date := "2026-03-02"
	empID := "emp-1"

	attRepo := &fakeAttendanceRepo{
		listFn: func(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
			return []attendance.Attendance{checkedOutRecord("att-1", "emp-1", day, 0)}, 1, nil
		},
	}
	policyRepo := &fakePolicyRepo{
		getActiveFn: func(ctx context.Context) (payroll.Policy, error) { return activePolicy(), nil },
	}

	svc := NewReportService(&fakeReportRepo{}, attRepo, &fakeBreakRepo{}, &fakeEmployeeRepo{}, &fakeLeaveRepo{}, policyRepo, payroll.NewCalculator())

	resp, err := svc.GetDailyLogs(context.Background(), report.DailyLogsRequest{Date: &date, EmployeeID: &empID})
	require.NoError(t, err)
	assert.Len(t, resp.Rows, 1)
}

func TestGetDailyLogs_RejectsUnknownStatus(t *testing.T) {
	status := "NOT_A_STATUS"

	svc := NewReportService(&fakeReportRepo{}, &fakeAttendanceRepo{}, &fakeBreakRepo{}, &fakeEmployeeRepo{}, &fakeLeaveRepo{}, &fakePolicyRepo{}, payroll.NewCalculator())

	_, err := svc.GetDailyLogs(context.Background(), report.DailyLogsRequest{Status: &status})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "status", verrs[0].Field)
}

func TestGetAttendanceLog_RoleShaping(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rec := checkedOutRecord("att-1", "emp-1", day, 0)

	attRepo := &fakeAttendanceRepo{
		getByIDFn: func(ctx context.Context, id string) (attendance.Attendance, error) { return rec, nil },
	}
	policyRepo := &fakePolicyRepo{
		getActiveFn: func(ctx context.Context) (payroll.Policy, error) { return activePolicy(), nil },
	}

	svc := NewReportService(&fakeReportRepo{}, attRepo, &fakeBreakRepo{}, &fakeEmployeeRepo{}, &fakeLeaveRepo{}, policyRepo, payroll.NewCalculator())

	// Owner sees the employee-shaped row
	row, err := svc.GetAttendanceLog(authedContext(t, "emp-1", employee.RoleEmployee), "att-1")
	require.NoError(t, err)
	_, isEmployeeRow := row.(report.LogRow)
	assert.True(t, isEmployeeRow)

	// Admin sees the identity-bearing variant
	row, err = svc.GetAttendanceLog(authedContext(t, "admin-1", employee.RoleAdmin), "att-1")
	require.NoError(t, err)
	adminRow, isAdminRow := row.(report.AdminLogRow)
	require.True(t, isAdminRow)
	assert.Equal(t, "Budi Santoso", adminRow.Employee.FullName)
}

func TestGetAttendanceLog_DeniesOtherEmployee(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rec := checkedOutRecord("att-1", "emp-1", day, 0)

	attRepo := &fakeAttendanceRepo{
		getByIDFn: func(ctx context.Context, id string) (attendance.Attendance, error) { return rec, nil },
	}

	svc := NewReportService(&fakeReportRepo{}, attRepo, &fakeBreakRepo{}, &fakeEmployeeRepo{}, &fakeLeaveRepo{}, &fakePolicyRepo{}, payroll.NewCalculator())

	_, err := svc.GetAttendanceLog(authedContext(t, "emp-2", employee.RoleEmployee), "att-1")
	assert.ErrorIs(t, err, attendance.ErrUnauthorized)
}

// The late report's deduction figure must come from the policy-aware
// calculator, never a hard-coded per-minute constant.
func TestGetLateReport_UsesPolicyRate(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	date := "2026-03-02"

	reportRepo := &fakeReportRepo{
		listLateFn: func(ctx context.Context, d time.Time, page, limit int) ([]attendance.Attendance, int64, error) {
			return []attendance.Attendance{checkedOutRecord("att-1", "emp-1", day, 20)}, 1, nil
		},
	}
	policyRepo := &fakePolicyRepo{
		getActiveFn: func(ctx context.Context) (payroll.Policy, error) {
			pol := activePolicy()
			pol.LatePenaltyPerMinute = decimal.NewFromInt(25)
			return pol, nil
		},
	}

	svc := NewReportService(reportRepo, &fakeAttendanceRepo{}, &fakeBreakRepo{}, &fakeEmployeeRepo{}, &fakeLeaveRepo{}, policyRepo, payroll.NewCalculator())

	resp, err := svc.GetLateReport(context.Background(), report.LateReportRequest{Date: &date})
	require.NoError(t, err)

	require.Len(t, resp.Rows, 1)
	row := resp.Rows[0]
	// 20 stored minus 15 grace leaves 5 billable at the policy's 25
	assert.Equal(t, 5, row.LateMinutes)
	assert.True(t, row.LateDeduction.Equal(decimal.NewFromInt(125)),
		"expected 125, got %s", row.LateDeduction)
	assert.Equal(t, "Budi Santoso", row.EmployeeName)
}

func TestGetLateReport_MissingPolicyAborts(t *testing.T) {
	date := "2026-03-02"

	policyRepo := &fakePolicyRepo{
		getActiveFn: func(ctx context.Context) (payroll.Policy, error) {
			return payroll.Policy{}, payroll.ErrPolicyNotFound
		},
	}

	svc := NewReportService(&fakeReportRepo{}, &fakeAttendanceRepo{}, &fakeBreakRepo{}, &fakeEmployeeRepo{}, &fakeLeaveRepo{}, policyRepo, payroll.NewCalculator())

	_, err := svc.GetLateReport(context.Background(), report.LateReportRequest{Date: &date})
	assert.ErrorIs(t, err, payroll.ErrPolicyNotFound)
}
