package response

import (
	"errors"
	"net/http"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/employee"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Clock-in/out state errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "You have not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		BadRequest(w, "You have already checked out", nil)
	case errors.Is(err, attendance.ErrDuplicateRecord):
		Conflict(w, "Attendance record already exists for this date")

	// Break state machine errors
	case errors.Is(err, attendance.ErrBreakAlreadyActive):
		Conflict(w, "A break is already active")
	case errors.Is(err, attendance.ErrNoActiveBreak):
		BadRequest(w, "No active break to end", nil)
	case errors.Is(err, attendance.ErrOnBreak):
		BadRequest(w, "End the active break before clocking out", nil)

	// Lookup and access errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, "You may only view your own attendance records")
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, employee.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPolicyNotFound):
		NotFound(w, "No active payroll policy is configured")
	case errors.Is(err, attendance.ErrInvalidRecordState):
		BadRequest(w, "Attendance record is in an inconsistent state", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
