package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/report"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
)

type reportRepository struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepository{db: db}
}

// CountPresent implements report.ReportRepository.
func (r *reportRepository) CountPresent(ctx context.Context, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM attendances WHERE date = $1`
	if err := q.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count present employees: %w", err)
	}

	return count, nil
}

// CountByStatus implements report.ReportRepository.
func (r *reportRepository) CountByStatus(ctx context.Context, date time.Time, status string) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM attendances WHERE date = $1 AND status = $2`
	if err := q.QueryRow(ctx, query, date, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendances by status: %w", err)
	}

	return count, nil
}

// CountLate implements report.ReportRepository.
func (r *reportRepository) CountLate(ctx context.Context, date time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	query := `SELECT COUNT(*) FROM attendances WHERE date = $1 AND late_flag = TRUE`
	if err := q.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count late employees: %w", err)
	}

	return count, nil
}

// ListLate implements report.ReportRepository.
func (r *reportRepository) ListLate(ctx context.Context, date time.Time, page, limit int) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances WHERE date = $1 AND late_flag = TRUE`
	if err := q.QueryRow(ctx, countQuery, date).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count late attendances: %w", err)
	}

	query := `
		SELECT` + attendanceColumns + `,
			e.full_name AS employee_name,
			e.email AS employee_email,
			e.employee_code AS employee_code,
			e.department AS employee_department
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1
		  AND a.late_flag = TRUE
		ORDER BY a.late_minutes DESC
		LIMIT $2 OFFSET $3
	`

	if limit == 0 {
		limit = 20
	}
	if page == 0 {
		page = 1
	}

	rows, err := q.Query(ctx, query, date, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query late attendances: %w", err)
	}
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendanceWithEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}

	return attendances, total, nil
}
