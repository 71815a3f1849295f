package leave

import (
	"context"
	"time"
)

// LeaveRepository is the approved-leave lookup the attendance core depends on.
// Leave request workflow lives outside this service.
type LeaveRepository interface {
	// GetApprovedEmployeeIDs returns employee IDs with approved leave on the date
	GetApprovedEmployeeIDs(ctx context.Context, date time.Time) (map[string]bool, error)

	// CountApprovedByDate counts approved leaves on the date
	CountApprovedByDate(ctx context.Context, date time.Time) (int, error)

	// CountApprovedInRange counts the employee's approved leave days in [start, end]
	CountApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) (int, error)
}
