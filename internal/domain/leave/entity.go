package leave

import "time"

const StatusApproved = "APPROVED"

type Leave struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     string
	Reason     *string
	CreatedAt  time.Time
}
