package report

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/employee"
	"github.com/kerjahub/attendance-backend-go/internal/domain/leave"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/domain/report"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	report.ReportRepository
	attendance.AttendanceRepository
	attendance.BreakRepository
	employee.EmployeeRepository
	leave.LeaveRepository
	payroll.PolicyRepository
	calculator *payroll.Calculator
}

func NewReportService(
	reportRepo report.ReportRepository,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	employeeRepo employee.EmployeeRepository,
	leaveRepo leave.LeaveRepository,
	policyRepo payroll.PolicyRepository,
	calculator *payroll.Calculator,
) report.ReportService {
	return &ReportServiceImpl{
		ReportRepository:     reportRepo,
		AttendanceRepository: attendanceRepo,
		BreakRepository:      breakRepo,
		EmployeeRepository:   employeeRepo,
		LeaveRepository:      leaveRepo,
		PolicyRepository:     policyRepo,
		calculator:           calculator,
	}
}

func callerFromContext(ctx context.Context) (string, employee.Role, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	roleStr, ok := claims["role"].(string)
	if !ok || roleStr == "" {
		return "", "", fmt.Errorf("role claim is missing or invalid")
	}

	return employeeID, employee.Role(roleStr), nil
}

// resolveDate parses an optional YYYY-MM-DD value, defaulting to today.
func resolveDate(date *string) (time.Time, error) {
	if date == nil || *date == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}

	parsed, ok := validator.IsValidDate(*date)
	if !ok {
		return time.Time{}, validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return parsed, nil
}

// GetDailyLogs implements report.ReportService.
func (s *ReportServiceImpl) GetDailyLogs(ctx context.Context, req report.DailyLogsRequest) (report.DailyLogsResponse, error) {
	if err := req.Validate(); err != nil {
		return report.DailyLogsResponse{}, err
	}

	date, err := resolveDate(req.Date)
	if err != nil {
		return report.DailyLogsResponse{}, err
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	policy, err := s.PolicyRepository.GetActive(ctx)
	if err != nil {
		return report.DailyLogsResponse{}, err
	}

	dateStr := date.Format("2006-01-02")
	filter := attendance.AttendanceFilter{
		Date:       &dateStr,
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
		Page:       req.Page,
		Limit:      req.Limit,
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return report.DailyLogsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	breaksByRecord, err := s.BreakRepository.ListByAttendanceIDs(ctx, ids)
	if err != nil {
		return report.DailyLogsResponse{}, fmt.Errorf("failed to list break sessions: %w", err)
	}

	now := time.Now()
	rows := make([]report.AdminLogRow, 0, len(records))
	for _, rec := range records {
		row, err := assembleAdminRow(rec, breaksByRecord[rec.ID], policy, s.calculator, now)
		if err != nil {
			return report.DailyLogsResponse{}, err
		}
		rows = append(rows, row)
	}

	// Employees with no record that day only belong in the unfiltered
	// listing, appended once after the last page of real rows.
	lastPage := int64(req.Page*req.Limit) >= total
	if req.EmployeeID == nil && req.Status == nil && lastPage {
		synthetic, err := s.syntheticRows(ctx, date, records)
		if err != nil {
			return report.DailyLogsResponse{}, err
		}
		rows = append(rows, synthetic...)
	}

	return report.DailyLogsResponse{
		Date:       dateStr,
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(req.Limit))),
		Rows:       rows,
	}, nil
}

func (s *ReportServiceImpl) syntheticRows(ctx context.Context, date time.Time, records []attendance.Attendance) ([]report.AdminLogRow, error) {
	roster, err := s.EmployeeRepository.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}

	onLeave, err := s.LeaveRepository.GetApprovedEmployeeIDs(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees on leave: %w", err)
	}

	recorded := make(map[string]bool, len(records))
	for _, rec := range records {
		recorded[rec.EmployeeID] = true
	}

	var rows []report.AdminLogRow
	for _, emp := range roster {
		if recorded[emp.ID] {
			continue
		}
		rows = append(rows, syntheticRow(emp, date, onLeave[emp.ID]))
	}

	return rows, nil
}

// GetAttendanceLog implements report.ReportService.
func (s *ReportServiceImpl) GetAttendanceLog(ctx context.Context, id string) (report.Row, error) {
	callerID, role, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !role.CanViewAllEmployees() && rec.EmployeeID != callerID {
		return nil, attendance.ErrUnauthorized
	}

	breaks, err := s.BreakRepository.ListByAttendanceID(ctx, rec.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list break sessions: %w", err)
	}

	policy, err := s.PolicyRepository.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if role.CanViewAllEmployees() {
		return assembleAdminRow(rec, breaks, policy, s.calculator, now)
	}

	return assembleLogRow(rec, breaks, policy, s.calculator, now)
}

// GetDailySummary implements report.ReportService.
func (s *ReportServiceImpl) GetDailySummary(ctx context.Context, date *string) (report.DailySummary, error) {
	day, err := resolveDate(date)
	if err != nil {
		return report.DailySummary{}, err
	}

	summary := report.DailySummary{Date: day.Format("2006-01-02")}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary.TotalEmployees, err = s.EmployeeRepository.CountActive(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Present, err = s.ReportRepository.CountPresent(gctx, day)
		return err
	})
	g.Go(func() error {
		var err error
		summary.OnLeave, err = s.LeaveRepository.CountApprovedByDate(gctx, day)
		return err
	})
	g.Go(func() error {
		var err error
		summary.CheckedIn, err = s.ReportRepository.CountByStatus(gctx, day, attendance.StatusCheckedIn)
		return err
	})
	g.Go(func() error {
		var err error
		summary.CheckedOut, err = s.ReportRepository.CountByStatus(gctx, day, attendance.StatusCheckedOut)
		return err
	})
	g.Go(func() error {
		var err error
		summary.OnBreak, err = s.ReportRepository.CountByStatus(gctx, day, attendance.StatusOnBreak)
		return err
	})
	g.Go(func() error {
		var err error
		summary.Late, err = s.ReportRepository.CountLate(gctx, day)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.DailySummary{}, fmt.Errorf("failed to build daily summary: %w", err)
	}

	summary.NotClockedIn = summary.TotalEmployees - summary.Present - summary.OnLeave
	if summary.NotClockedIn < 0 {
		summary.NotClockedIn = 0
	}

	return summary, nil
}

// GetLateReport implements report.ReportService.
func (s *ReportServiceImpl) GetLateReport(ctx context.Context, req report.LateReportRequest) (report.LateReportResponse, error) {
	date, err := resolveDate(req.Date)
	if err != nil {
		return report.LateReportResponse{}, err
	}

	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}

	policy, err := s.PolicyRepository.GetActive(ctx)
	if err != nil {
		return report.LateReportResponse{}, err
	}

	records, total, err := s.ReportRepository.ListLate(ctx, date, req.Page, req.Limit)
	if err != nil {
		return report.LateReportResponse{}, fmt.Errorf("failed to list late records: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID)
	}
	breaksByRecord, err := s.BreakRepository.ListByAttendanceIDs(ctx, ids)
	if err != nil {
		return report.LateReportResponse{}, fmt.Errorf("failed to list break sessions: %w", err)
	}

	rows := make([]report.LateRow, 0, len(records))
	for _, rec := range records {
		result, err := s.calculator.Compute(rec, breaksByRecord[rec.ID], policy)
		if err != nil {
			return report.LateReportResponse{}, err
		}

		row := report.LateRow{
			AttendanceID:  rec.ID,
			EmployeeID:    rec.EmployeeID,
			Date:          rec.Date.Format("2006-01-02"),
			ClockInTime:   timePtrToString(rec.ClockIn),
			LateMinutes:   result.LateMinutes,
			LateDeduction: result.LateDeduction,
		}
		if rec.EmployeeName != nil {
			row.EmployeeName = *rec.EmployeeName
		}
		if rec.EmployeeCode != nil {
			row.EmployeeCode = *rec.EmployeeCode
		}
		rows = append(rows, row)
	}

	return report.LateReportResponse{
		Date:       date.Format("2006-01-02"),
		TotalCount: total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(req.Limit))),
		Rows:       rows,
	}, nil
}
