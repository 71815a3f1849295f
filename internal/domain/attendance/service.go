package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for the clock-in/out and break
// lifecycle that produces the records the deduction engine evaluates.
type AttendanceService interface {
	// ClockIn creates today's record for the authenticated employee
	ClockIn(ctx context.Context, req ClockInRequest) (AttendanceResponse, error)

	// ClockOut stamps clock-out and snapshots the early-exit/work figures
	ClockOut(ctx context.Context, req ClockOutRequest) (AttendanceResponse, error)

	// StartBreak opens a break session; the record must be CHECKED_IN with
	// no active break
	StartBreak(ctx context.Context, req StartBreakRequest) (BreakSessionResponse, error)

	// EndBreak closes the active break session and accumulates its duration
	EndBreak(ctx context.Context) (BreakSessionResponse, error)

	// GetMyAttendance retrieves the authenticated employee's records
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) (ListAttendanceResponse, error)

	// FinalizeRolledOverRecords closes records still open after their day
	// rolled over; invoked by the scheduler, never for the current day
	FinalizeRolledOverRecords(ctx context.Context, now time.Time) (int, error)
}
