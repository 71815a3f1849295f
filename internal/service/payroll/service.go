package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/employee"
	"github.com/kerjahub/attendance-backend-go/internal/domain/leave"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	payroll.PolicyRepository
	attendance.AttendanceRepository
	attendance.BreakRepository
	employee.EmployeeRepository
	leave.LeaveRepository
	calculator *payroll.Calculator
}

func NewPayrollService(
	policyRepo payroll.PolicyRepository,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	calculator *payroll.Calculator,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		PolicyRepository:     policyRepo,
		AttendanceRepository: attendanceRepo,
		BreakRepository:      breakRepo,
		EmployeeRepository:   employeeRepo,
		LeaveRepository:      leaveRepo,
		calculator:           calculator,
	}
}

// GetActivePolicy implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetActivePolicy(ctx context.Context) (payroll.PolicyResponse, error) {
	policy, err := s.PolicyRepository.GetActive(ctx)
	if err != nil {
		return payroll.PolicyResponse{}, err
	}

	return toPolicyResponse(policy), nil
}

// UpdatePolicy implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdatePolicy(ctx context.Context, req payroll.UpdatePolicyRequest) (payroll.PolicyResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PolicyResponse{}, err
	}

	current, err := s.PolicyRepository.GetActive(ctx)
	if err != nil && !errors.Is(err, payroll.ErrPolicyNotFound) {
		return payroll.PolicyResponse{}, err
	}

	applyPolicyUpdate(&current, req)
	current.IsActive = true

	saved, err := s.PolicyRepository.UpsertActive(ctx, current)
	if err != nil {
		return payroll.PolicyResponse{}, fmt.Errorf("failed to save policy: %w", err)
	}

	return toPolicyResponse(saved), nil
}

// GetDeductionSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetDeductionSummary(ctx context.Context, req payroll.DeductionSummaryRequest) (payroll.DeductionSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.DeductionSummaryResponse{}, err
	}

	start, end := summaryRange(req)

	// A missing policy always aborts the batch, best-effort or not.
	policy, err := s.PolicyRepository.GetActive(ctx)
	if err != nil {
		return payroll.DeductionSummaryResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByDateRange(ctx, req.EmployeeID, start, end)
	if err != nil {
		return payroll.DeductionSummaryResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	breaksByRecord, err := s.breaksFor(ctx, records)
	if err != nil {
		return payroll.DeductionSummaryResponse{}, err
	}

	resp := payroll.DeductionSummaryResponse{
		StartDate:               start.Format("2006-01-02"),
		EndDate:                 end.Format("2006-01-02"),
		TotalLateDeduction:      decimal.Zero,
		TotalEarlyExitDeduction: decimal.Zero,
		TotalAbsentDeduction:    decimal.Zero,
		TotalOvertimeAmount:     decimal.Zero,
		TotalDeduction:          decimal.Zero,
	}

	for _, rec := range records {
		result, err := s.calculator.Compute(rec, breaksByRecord[rec.ID], policy)
		if err != nil {
			if req.BestEffort && errors.Is(err, attendance.ErrInvalidRecordState) {
				resp.Skipped = append(resp.Skipped, payroll.SkippedRecord{
					AttendanceID: rec.ID,
					EmployeeID:   rec.EmployeeID,
					Date:         rec.Date.Format("2006-01-02"),
					Reason:       err.Error(),
				})
				continue
			}
			return payroll.DeductionSummaryResponse{}, err
		}

		resp.RecordCount++
		resp.TotalLateMinutes += result.LateMinutes
		resp.TotalLateDeduction = resp.TotalLateDeduction.Add(result.LateDeduction)
		resp.TotalEarlyExitMinutes += result.EarlyExitMinutes
		resp.TotalEarlyExitDeduction = resp.TotalEarlyExitDeduction.Add(result.EarlyExitDeduction)
		resp.TotalAbsentDeduction = resp.TotalAbsentDeduction.Add(result.AbsentDeduction)
		resp.TotalOvertimeMinutes += result.OvertimeMinutes
		resp.TotalOvertimeAmount = resp.TotalOvertimeAmount.Add(result.OvertimeAmount)
		resp.TotalDeduction = resp.TotalDeduction.Add(result.TotalDeduction)
	}

	return resp, nil
}

// GetMonthlyPayrollReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMonthlyPayrollReport(ctx context.Context, req payroll.MonthlyPayrollRequest) (payroll.MonthlyPayrollReport, error) {
	if err := req.Validate(); err != nil {
		return payroll.MonthlyPayrollReport{}, err
	}

	policy, err := s.PolicyRepository.GetActive(ctx)
	if err != nil {
		return payroll.MonthlyPayrollReport{}, err
	}

	periodStart := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	periodEnd := periodStart.AddDate(0, 1, -1)
	daysInMonth := periodEnd.Day()

	employees, err := s.EmployeeRepository.GetActive(ctx)
	if err != nil {
		return payroll.MonthlyPayrollReport{}, fmt.Errorf("failed to list active employees: %w", err)
	}

	report := payroll.MonthlyPayrollReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: periodStart.Format("2006-01-02"),
		PeriodEnd:   periodEnd.Format("2006-01-02"),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Employees:   make([]payroll.EmployeePayrollRow, 0, len(employees)),
	}

	for _, emp := range employees {
		empID := emp.ID

		records, err := s.AttendanceRepository.ListByDateRange(ctx, &empID, periodStart, periodEnd)
		if err != nil {
			return payroll.MonthlyPayrollReport{}, fmt.Errorf("failed to list records for employee %s: %w", empID, err)
		}

		breaksByRecord, err := s.breaksFor(ctx, records)
		if err != nil {
			return payroll.MonthlyPayrollReport{}, err
		}

		leaveDays, err := s.LeaveRepository.CountApprovedInRange(ctx, empID, periodStart, periodEnd)
		if err != nil {
			return payroll.MonthlyPayrollReport{}, fmt.Errorf("failed to count leave days for employee %s: %w", empID, err)
		}

		row := payroll.EmployeePayrollRow{
			EmployeeID:              emp.ID,
			EmployeeName:            emp.FullName,
			EmployeeCode:            emp.EmployeeCode,
			Department:              emp.Department,
			BaseSalary:              decimal.Zero,
			LeaveDays:               leaveDays,
			TotalLateDeduction:      decimal.Zero,
			TotalEarlyExitDeduction: decimal.Zero,
			TotalAbsentDeduction:    decimal.Zero,
			TotalOvertimeAmount:     decimal.Zero,
			TotalDeductions:         decimal.Zero,
		}
		if emp.BaseSalary != nil {
			row.BaseSalary = *emp.BaseSalary
		}

		for _, rec := range records {
			result, err := s.calculator.Compute(rec, breaksByRecord[rec.ID], policy)
			if err != nil {
				if req.BestEffort && errors.Is(err, attendance.ErrInvalidRecordState) {
					report.Skipped = append(report.Skipped, payroll.SkippedRecord{
						AttendanceID: rec.ID,
						EmployeeID:   rec.EmployeeID,
						Date:         rec.Date.Format("2006-01-02"),
						Reason:       err.Error(),
					})
					continue
				}
				return payroll.MonthlyPayrollReport{}, err
			}

			row.WorkingDays++
			row.TotalLateMinutes += result.LateMinutes
			row.TotalLateDeduction = row.TotalLateDeduction.Add(result.LateDeduction)
			row.TotalEarlyExitMinutes += result.EarlyExitMinutes
			row.TotalEarlyExitDeduction = row.TotalEarlyExitDeduction.Add(result.EarlyExitDeduction)
			row.TotalAbsentDeduction = row.TotalAbsentDeduction.Add(result.AbsentDeduction)
			row.TotalOvertimeMinutes += result.OvertimeMinutes
			row.TotalOvertimeAmount = row.TotalOvertimeAmount.Add(result.OvertimeAmount)
			row.TotalDeductions = row.TotalDeductions.Add(result.TotalDeduction)
		}

		row.AbsentDays = daysInMonth - row.WorkingDays - row.LeaveDays
		if row.AbsentDays < 0 {
			row.AbsentDays = 0
		}
		row.NetSalary = row.BaseSalary.Sub(row.TotalDeductions)

		report.Employees = append(report.Employees, row)
	}

	return report, nil
}

// breaksFor fetches break sessions for a batch of records in one query.
func (s *PayrollServiceImpl) breaksFor(ctx context.Context, records []attendance.Attendance) (map[string][]attendance.BreakSession, error) {
	if len(records) == 0 {
		return map[string][]attendance.BreakSession{}, nil
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}

	breaks, err := s.BreakRepository.ListByAttendanceIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list break sessions: %w", err)
	}

	return breaks, nil
}

func summaryRange(req payroll.DeductionSummaryRequest) (time.Time, time.Time) {
	if req.Date != nil && *req.Date != "" {
		day, _ := validator.IsValidDate(*req.Date)
		return day, day
	}
	start, _ := validator.IsValidDate(*req.StartDate)
	end, _ := validator.IsValidDate(*req.EndDate)
	return start, end
}

func applyPolicyUpdate(policy *payroll.Policy, req payroll.UpdatePolicyRequest) {
	if req.LatePenaltyPerMinute != nil {
		policy.LatePenaltyPerMinute = *req.LatePenaltyPerMinute
	}
	if req.EarlyExitPenaltyPerMinute != nil {
		policy.EarlyExitPenaltyPerMinute = *req.EarlyExitPenaltyPerMinute
	}
	if req.AbsentFullDayPenalty != nil {
		policy.AbsentFullDayPenalty = *req.AbsentFullDayPenalty
	}
	if req.HalfDayPenalty != nil {
		policy.HalfDayPenalty = *req.HalfDayPenalty
	}
	if req.OvertimeRatePerMinute != nil {
		policy.OvertimeRatePerMinute = *req.OvertimeRatePerMinute
	}
	if req.GraceLateMinutes != nil {
		policy.GraceLateMinutes = *req.GraceLateMinutes
	}
	if req.GraceEarlyMinutes != nil {
		policy.GraceEarlyMinutes = *req.GraceEarlyMinutes
	}
	if req.StandardShiftMinutes != nil {
		policy.StandardShiftMinutes = *req.StandardShiftMinutes
	}
	if req.HalfDayThresholdMinutes != nil {
		policy.HalfDayThresholdMinutes = *req.HalfDayThresholdMinutes
	}
	if req.MinimumOvertimeMinutes != nil {
		policy.MinimumOvertimeMinutes = *req.MinimumOvertimeMinutes
	}
}

func toPolicyResponse(policy payroll.Policy) payroll.PolicyResponse {
	return payroll.PolicyResponse{
		ID:                        policy.ID,
		LatePenaltyPerMinute:      policy.LatePenaltyPerMinute,
		EarlyExitPenaltyPerMinute: policy.EarlyExitPenaltyPerMinute,
		AbsentFullDayPenalty:      policy.AbsentFullDayPenalty,
		HalfDayPenalty:            policy.HalfDayPenalty,
		GraceLateMinutes:          policy.GraceLateMinutes,
		GraceEarlyMinutes:         policy.GraceEarlyMinutes,
		StandardShiftMinutes:      policy.StandardShiftMinutes,
		HalfDayThresholdMinutes:   policy.HalfDayThresholdMinutes,
		MinimumOvertimeMinutes:    policy.MinimumOvertimeMinutes,
		OvertimeRatePerMinute:     policy.OvertimeRatePerMinute,
		UpdatedAt:                 policy.UpdatedAt.Format(time.RFC3339),
	}
}
