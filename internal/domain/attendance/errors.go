package attendance

import "errors"

// Attendance domain errors
var (
	// Clock-in/out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Break state machine errors
	ErrBreakAlreadyActive = errors.New("a break is already active for this attendance record")
	ErrNoActiveBreak      = errors.New("no active break to end")
	ErrOnBreak            = errors.New("end the active break before clocking out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrDuplicateRecord    = errors.New("attendance record already exists for this employee and date")
	ErrInvalidRecordState = errors.New("attendance record is in an inconsistent state")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
