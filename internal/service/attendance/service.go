package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/sse"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"github.com/kerjahub/attendance-backend-go/internal/repository/postgresql"
)

// txFunc runs fn inside a database transaction carried on the context.
type txFunc func(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.AttendanceRepository
	attendance.BreakRepository
	hub    *sse.Hub
	withTx txFunc
}

func NewAttendanceService(
	db *database.DB,
	attendanceRepo attendance.AttendanceRepository,
	breakRepo attendance.BreakRepository,
	hub *sse.Hub,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		db:                   db,
		AttendanceRepository: attendanceRepo,
		BreakRepository:      breakRepo,
		hub:                  hub,
		withTx:               postgresql.WithTransaction,
	}
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.Format("2006-01-02 15:04:05")
	return &format
}

// elapsedMinutes truncates the difference toward zero, never below zero.
func elapsedMinutes(from, to time.Time) int {
	m := int(to.Sub(from).Milliseconds() / 60000)
	if m < 0 {
		return 0
	}
	return m
}

// dateOf normalizes a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// shiftTimeOn places an "HH:MM" boundary on the given day.
func shiftTimeOn(day time.Time, clock string) (time.Time, error) {
	parsed, ok := validator.IsValidClockTime(clock)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid shift time %q", clock)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), parsed.Hour(), parsed.Minute(), 0, 0, day.Location()), nil
}

func employeeIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	employeeID, ok := claims["employee_id"].(string)
	if !ok || employeeID == "" {
		return "", fmt.Errorf("employee_id claim is missing or invalid")
	}

	return employeeID, nil
}

func (a *AttendanceServiceImpl) publish(employeeID, event string, data interface{}) {
	if a.hub == nil {
		return
	}
	a.hub.Publish(employeeID, sse.Event{
		EmployeeID: employeeID,
		Event:      event,
		Data:       data,
	})
}

// ClockIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := time.Now()
	today := dateOf(now)

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	shiftStart, err := shiftTimeOn(today, attendance.DefaultShiftStart)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// The raw delta against the shift start is frozen here; the grace
	// window is the calculator's business.
	lateMinutes := 0
	if now.After(shiftStart) {
		lateMinutes = elapsedMinutes(shiftStart, now)
	}

	clockIn := now
	record := attendance.Attendance{
		EmployeeID:       employeeID,
		Date:             today,
		ClockIn:          &clockIn,
		Status:           attendance.StatusCheckedIn,
		ShiftStartTime:   attendance.DefaultShiftStart,
		ShiftEndTime:     attendance.DefaultShiftEnd,
		LateFlag:         lateMinutes > 0,
		LateMinutes:      lateMinutes,
		ClockInLatitude:  &req.Latitude,
		ClockInLongitude: &req.Longitude,
		ClockInPhotoURL:  req.PhotoURL,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := toAttendanceResponse(created)
	a.publish(employeeID, "attendance.clock_in", resp)

	return resp, nil
}

// ClockOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := time.Now()
	today := dateOf(now)

	var updated attendance.Attendance
	err = a.withTx(ctx, a.db, func(ctx context.Context) error {
		record, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if record == nil {
			return attendance.ErrNotCheckedIn
		}

		switch record.Status {
		case attendance.StatusCheckedOut:
			return attendance.ErrAlreadyCheckedOut
		case attendance.StatusOnBreak:
			return attendance.ErrOnBreak
		}

		clockOut := now
		record.ClockOut = &clockOut
		record.Status = attendance.StatusCheckedOut
		record.ClockOutLatitude = &req.Latitude
		record.ClockOutLongitude = &req.Longitude
		record.ClockOutPhotoURL = req.PhotoURL

		// Display snapshot against the record's own shift end. Payroll
		// recomputes from timestamps and the policy on every evaluation.
		shiftEnd, err := shiftTimeOn(record.Date, record.ShiftEndTime)
		if err != nil {
			return err
		}
		if clockOut.Before(shiftEnd) {
			record.EarlyExitFlag = true
			record.EarlyExitMinutes = elapsedMinutes(clockOut, shiftEnd)
		}

		if record.ClockIn != nil {
			work := elapsedMinutes(*record.ClockIn, clockOut) - record.TotalBreakMinutes
			if work < 0 {
				work = 0
			}
			record.WorkMinutes = &work
		}

		if err := a.AttendanceRepository.Update(ctx, *record); err != nil {
			return err
		}

		updated = *record
		return nil
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	resp := toAttendanceResponse(updated)
	a.publish(employeeID, "attendance.clock_out", resp)

	return resp, nil
}

// StartBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.StartBreakRequest) (attendance.BreakSessionResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.BreakSessionResponse{}, err
	}

	now := time.Now()
	today := dateOf(now)

	var created attendance.BreakSession
	err = a.withTx(ctx, a.db, func(ctx context.Context) error {
		record, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if record == nil {
			return attendance.ErrNotCheckedIn
		}

		switch record.Status {
		case attendance.StatusOnBreak:
			return attendance.ErrBreakAlreadyActive
		case attendance.StatusCheckedOut:
			return attendance.ErrAlreadyCheckedOut
		}

		session := attendance.BreakSession{
			AttendanceID: record.ID,
			EmployeeID:   employeeID,
			BreakStart:   now,
			IsActive:     true,
			Reason:       req.Reason,
		}
		created, err = a.BreakRepository.Create(ctx, session)
		if err != nil {
			return err
		}

		record.Status = attendance.StatusOnBreak
		return a.AttendanceRepository.Update(ctx, *record)
	})
	if err != nil {
		return attendance.BreakSessionResponse{}, err
	}

	resp := toBreakResponse(created)
	a.publish(employeeID, "attendance.break_start", resp)

	return resp, nil
}

// EndBreak implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.BreakSessionResponse, error) {
	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.BreakSessionResponse{}, err
	}

	now := time.Now()
	today := dateOf(now)

	var closed attendance.BreakSession
	err = a.withTx(ctx, a.db, func(ctx context.Context) error {
		record, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, employeeID, today)
		if err != nil {
			return fmt.Errorf("failed to get today's attendance: %w", err)
		}
		if record == nil {
			return attendance.ErrNotCheckedIn
		}
		if record.Status != attendance.StatusOnBreak {
			return attendance.ErrNoActiveBreak
		}

		session, err := a.BreakRepository.GetActiveByAttendanceID(ctx, record.ID)
		if err != nil {
			return fmt.Errorf("failed to get active break: %w", err)
		}
		if session == nil {
			return attendance.ErrNoActiveBreak
		}

		breakEnd := now
		session.BreakEnd = &breakEnd
		session.DurationMinutes = elapsedMinutes(session.BreakStart, breakEnd)
		session.IsActive = false
		if err := a.BreakRepository.Update(ctx, *session); err != nil {
			return err
		}

		record.Status = attendance.StatusCheckedIn
		record.TotalBreakMinutes += session.DurationMinutes
		if err := a.AttendanceRepository.Update(ctx, *record); err != nil {
			return err
		}

		closed = *session
		return nil
	})
	if err != nil {
		return attendance.BreakSessionResponse{}, err
	}

	resp := toBreakResponse(closed)
	a.publish(employeeID, "attendance.break_end", resp)

	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	employeeID, err := employeeIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	records, total, err := a.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toAttendanceResponse(rec))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(filter.Limit))),
		Attendances: responses,
	}, nil
}

// FinalizeRolledOverRecords implements attendance.AttendanceService.
//
// Records that never reached CHECKED_OUT before their day rolled over are
// closed without a clock-out stamp, which the deduction calculator treats
// as an absence. An active break is ended at the record day's boundary.
func (a *AttendanceServiceImpl) FinalizeRolledOverRecords(ctx context.Context, now time.Time) (int, error) {
	cutoff := dateOf(now)

	open, err := a.AttendanceRepository.ListOpenBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to list rolled-over records: %w", err)
	}

	finalized := 0
	for _, rec := range open {
		err := a.withTx(ctx, a.db, func(ctx context.Context) error {
			locked, err := a.AttendanceRepository.GetByEmployeeAndDateForUpdate(ctx, rec.EmployeeID, rec.Date)
			if err != nil {
				return err
			}
			if locked == nil || locked.Status == attendance.StatusCheckedOut {
				return nil
			}

			if locked.Status == attendance.StatusOnBreak {
				session, err := a.BreakRepository.GetActiveByAttendanceID(ctx, locked.ID)
				if err != nil {
					return err
				}
				if session != nil {
					dayEnd := locked.Date.Add(24 * time.Hour)
					session.BreakEnd = &dayEnd
					session.DurationMinutes = elapsedMinutes(session.BreakStart, dayEnd)
					session.IsActive = false
					if err := a.BreakRepository.Update(ctx, *session); err != nil {
						return err
					}
					locked.TotalBreakMinutes += session.DurationMinutes
				}
			}

			locked.Status = attendance.StatusCheckedOut
			return a.AttendanceRepository.Update(ctx, *locked)
		})
		if err != nil {
			return finalized, fmt.Errorf("failed to finalize record %s: %w", rec.ID, err)
		}
		finalized++
	}

	return finalized, nil
}

func toAttendanceResponse(rec attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:                rec.ID,
		EmployeeID:        rec.EmployeeID,
		Date:              rec.Date.Format("2006-01-02"),
		ClockInTime:       timePtrToString(rec.ClockIn),
		ClockOutTime:      timePtrToString(rec.ClockOut),
		Status:            rec.Status,
		ShiftStartTime:    rec.ShiftStartTime,
		ShiftEndTime:      rec.ShiftEndTime,
		LateFlag:          rec.LateFlag,
		LateMinutes:       rec.LateMinutes,
		EarlyExitFlag:     rec.EarlyExitFlag,
		EarlyExitMinutes:  rec.EarlyExitMinutes,
		TotalBreakMinutes: rec.TotalBreakMinutes,
		WorkMinutes:       rec.WorkMinutes,
		ClockInLatitude:   rec.ClockInLatitude,
		ClockInLongitude:  rec.ClockInLongitude,
		ClockInPhotoURL:   rec.ClockInPhotoURL,
		ClockOutLatitude:  rec.ClockOutLatitude,
		ClockOutLongitude: rec.ClockOutLongitude,
		ClockOutPhotoURL:  rec.ClockOutPhotoURL,
		CreatedAt:         rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         rec.UpdatedAt.Format(time.RFC3339),
	}
}

func toBreakResponse(session attendance.BreakSession) attendance.BreakSessionResponse {
	return attendance.BreakSessionResponse{
		ID:              session.ID,
		AttendanceID:    session.AttendanceID,
		BreakStart:      session.BreakStart.Format("2006-01-02 15:04:05"),
		BreakEnd:        timePtrToString(session.BreakEnd),
		DurationMinutes: session.DurationMinutes,
		IsActive:        session.IsActive,
		Reason:          session.Reason,
	}
}
