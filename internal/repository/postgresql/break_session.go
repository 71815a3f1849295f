package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
)

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

const breakColumns = `
	b.id, b.attendance_id, b.employee_id, b.break_start, b.break_end,
	b.duration_minutes, b.is_active, b.reason, b.created_at, b.updated_at`

func scanBreak(row pgx.Row) (attendance.BreakSession, error) {
	var s attendance.BreakSession
	err := row.Scan(
		&s.ID, &s.AttendanceID, &s.EmployeeID, &s.BreakStart, &s.BreakEnd,
		&s.DurationMinutes, &s.IsActive, &s.Reason, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Create implements attendance.BreakRepository.
func (r *breakRepository) Create(ctx context.Context, session attendance.BreakSession) (attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	query := `
		INSERT INTO break_sessions (
			id, attendance_id, employee_id, break_start, break_end,
			duration_minutes, is_active, reason
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		session.ID,
		session.AttendanceID,
		session.EmployeeID,
		session.BreakStart,
		session.BreakEnd,
		session.DurationMinutes,
		session.IsActive,
		session.Reason,
	).Scan(&session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		// Partial unique index on (attendance_id) WHERE is_active backs up
		// the application-level check against racing break starts
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return attendance.BreakSession{}, attendance.ErrBreakAlreadyActive
		}
		return attendance.BreakSession{}, fmt.Errorf("failed to create break session: %w", err)
	}

	return session, nil
}

// Update implements attendance.BreakRepository.
func (r *breakRepository) Update(ctx context.Context, session attendance.BreakSession) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE break_sessions SET
			break_end = $2,
			duration_minutes = $3,
			is_active = $4,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, session.ID, session.BreakEnd, session.DurationMinutes, session.IsActive)
	if err != nil {
		return fmt.Errorf("failed to update break session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoActiveBreak
	}

	return nil
}

// GetActiveByAttendanceID implements attendance.BreakRepository.
func (r *breakRepository) GetActiveByAttendanceID(ctx context.Context, attendanceID string) (*attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + breakColumns + `
		FROM break_sessions b
		WHERE b.attendance_id = $1
		  AND b.is_active = TRUE
		LIMIT 1
	`

	s, err := scanBreak(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active break session: %w", err)
	}

	return &s, nil
}

// ListByAttendanceID implements attendance.BreakRepository.
func (r *breakRepository) ListByAttendanceID(ctx context.Context, attendanceID string) ([]attendance.BreakSession, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + breakColumns + `
		FROM break_sessions b
		WHERE b.attendance_id = $1
		ORDER BY b.break_start ASC
	`

	rows, err := q.Query(ctx, query, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query break sessions: %w", err)
	}
	defer rows.Close()

	var sessions []attendance.BreakSession
	for rows.Next() {
		s, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, nil
}

// ListByAttendanceIDs implements attendance.BreakRepository.
func (r *breakRepository) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.BreakSession, error) {
	result := make(map[string][]attendance.BreakSession, len(attendanceIDs))
	if len(attendanceIDs) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + breakColumns + `
		FROM break_sessions b
		WHERE b.attendance_id = ANY($1)
		ORDER BY b.break_start ASC
	`

	rows, err := q.Query(ctx, query, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query break sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		s, err := scanBreak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan break session: %w", err)
		}
		result[s.AttendanceID] = append(result[s.AttendanceID], s)
	}

	return result, nil
}
