package attendance

import (
	"time"
)

// Attendance statuses
const (
	StatusCheckedIn  = "CHECKED_IN"
	StatusOnBreak    = "ON_BREAK"
	StatusCheckedOut = "CHECKED_OUT"
	StatusOnLeave    = "ON_LEAVE"
)

// Default shift boundaries used when a record carries no explicit shift.
const (
	DefaultShiftStart = "09:00"
	DefaultShiftEnd   = "18:00"
)

// Attendance is one record per (employee, calendar day). Created on
// clock-in, mutated on break start/end and clock-out, historically
// immutable once the day rolls over.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ClockIn    *time.Time
	ClockOut   *time.Time
	Status     string

	// Shift boundaries as "HH:MM"
	ShiftStartTime string
	ShiftEndTime   string

	// LateMinutes is the raw delta between actual clock-in and the shift
	// start, captured at clock-in time. Grace is applied by the calculator,
	// not here.
	LateFlag    bool
	LateMinutes int

	// Early-exit snapshot written at clock-out for audit/display; the
	// calculator recomputes from timestamps on every evaluation.
	EarlyExitFlag    bool
	EarlyExitMinutes int

	TotalBreakMinutes int
	WorkMinutes       *int

	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockInPhotoURL   *string
	ClockOutLatitude  *float64
	ClockOutLongitude *float64
	ClockOutPhotoURL  *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined employee fields for list/display paths
	EmployeeName  *string
	EmployeeEmail *string
	EmployeeCode  *string
	EmployeeDept  *string
}

// BreakSession belongs to exactly one attendance record. At most one
// session per record is active at a time.
type BreakSession struct {
	ID              string
	AttendanceID    string
	EmployeeID      string
	BreakStart      time.Time
	BreakEnd        *time.Time
	DurationMinutes int
	IsActive        bool
	Reason          *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ValidStatuses lists the accepted status filter values.
var ValidStatuses = []string{StatusCheckedIn, StatusOnBreak, StatusCheckedOut, StatusOnLeave}
