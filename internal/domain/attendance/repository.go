package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access for attendance records.
// The data layer enforces uniqueness on (employee_id, date).
type AttendanceRepository interface {
	// Create inserts a new record; a unique violation on
	// (employee_id, date) surfaces as ErrDuplicateRecord
	Create(ctx context.Context, record Attendance) (Attendance, error)

	// GetByID retrieves one record with joined employee fields
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one employee and day;
	// nil when none exists
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// GetByEmployeeAndDateForUpdate is GetByEmployeeAndDate with a row lock;
	// break start/end runs inside a transaction against this
	GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update persists a mutated record
	Update(ctx context.Context, record Attendance) error

	// List retrieves records with filters and pagination, newest clock-in first
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployee retrieves one employee's records with filters and pagination
	ListByEmployee(ctx context.Context, employeeID string, filter MyAttendanceFilter) ([]Attendance, int64, error)

	// ListByDateRange retrieves all records in [start, end], optionally for
	// one employee; used by aggregate reporters
	ListByDateRange(ctx context.Context, employeeID *string, start, end time.Time) ([]Attendance, error)

	// ListOpenBefore retrieves records from days before cutoff that never
	// reached CHECKED_OUT; used by the rollover job
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]Attendance, error)
}

// BreakRepository defines data access for break sessions.
type BreakRepository interface {
	// Create inserts a new break session
	Create(ctx context.Context, session BreakSession) (BreakSession, error)

	// Update persists a mutated session
	Update(ctx context.Context, session BreakSession) error

	// GetActiveByAttendanceID retrieves the active session for a record;
	// nil when none is active
	GetActiveByAttendanceID(ctx context.Context, attendanceID string) (*BreakSession, error)

	// ListByAttendanceID retrieves all sessions for a record, oldest first
	ListByAttendanceID(ctx context.Context, attendanceID string) ([]BreakSession, error)

	// ListByAttendanceIDs retrieves sessions for many records in one query,
	// keyed by attendance ID
	ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]BreakSession, error)
}
