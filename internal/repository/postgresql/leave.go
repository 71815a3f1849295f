package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/leave"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}

// GetApprovedEmployeeIDs implements leave.LeaveRepository.
func (r *leaveRepository) GetApprovedEmployeeIDs(ctx context.Context, date time.Time) (map[string]bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM leaves
		WHERE date = $1
		  AND status = $2
	`

	rows, err := q.Query(ctx, query, date, leave.StatusApproved)
	if err != nil {
		return nil, fmt.Errorf("failed to query approved leaves: %w", err)
	}
	defer rows.Close()

	result := make(map[string]bool)
	for rows.Next() {
		var employeeID string
		if err := rows.Scan(&employeeID); err != nil {
			return nil, fmt.Errorf("failed to scan leave: %w", err)
		}
		result[employeeID] = true
	}

	return result, nil
}

// CountApprovedByDate implements leave.LeaveRepository.
func (r *leaveRepository) CountApprovedByDate(ctx context.Context, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM leaves WHERE date = $1 AND status = $2`
	if err := q.QueryRow(ctx, query, date, leave.StatusApproved).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved leaves: %w", err)
	}

	return count, nil
}

// CountApprovedInRange implements leave.LeaveRepository.
func (r *leaveRepository) CountApprovedInRange(ctx context.Context, employeeID string, start, end time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `
		SELECT COUNT(*)
		FROM leaves
		WHERE employee_id = $1
		  AND date >= $2
		  AND date <= $3
		  AND status = $4
	`
	if err := q.QueryRow(ctx, query, employeeID, start, end, leave.StatusApproved).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count approved leaves in range: %w", err)
	}

	return count, nil
}
