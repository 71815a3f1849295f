package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
)

type policyRepository struct {
	db *database.DB
}

func NewPolicyRepository(db *database.DB) payroll.PolicyRepository {
	return &policyRepository{db: db}
}

const policyColumns = `
	id, late_penalty_per_minute, early_exit_penalty_per_minute,
	absent_full_day_penalty, half_day_penalty,
	grace_late_minutes, grace_early_minutes, standard_shift_minutes,
	half_day_threshold_minutes, minimum_overtime_minutes,
	overtime_rate_per_minute, is_active, created_at, updated_at`

func scanPolicy(row pgx.Row) (payroll.Policy, error) {
	var p payroll.Policy
	err := row.Scan(
		&p.ID, &p.LatePenaltyPerMinute, &p.EarlyExitPenaltyPerMinute,
		&p.AbsentFullDayPenalty, &p.HalfDayPenalty,
		&p.GraceLateMinutes, &p.GraceEarlyMinutes, &p.StandardShiftMinutes,
		&p.HalfDayThresholdMinutes, &p.MinimumOvertimeMinutes,
		&p.OvertimeRatePerMinute, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetActive implements payroll.PolicyRepository.
func (r *policyRepository) GetActive(ctx context.Context) (payroll.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + policyColumns + `
		FROM payroll_policies
		WHERE is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1
	`

	p, err := scanPolicy(q.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Policy{}, payroll.ErrPolicyNotFound
		}
		return payroll.Policy{}, fmt.Errorf("failed to get active payroll policy: %w", err)
	}

	return p, nil
}

// UpsertActive implements payroll.PolicyRepository.
func (r *policyRepository) UpsertActive(ctx context.Context, policy payroll.Policy) (payroll.Policy, error) {
	var saved payroll.Policy

	err := WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		// One source of truth: any other active row loses the flag in the
		// same transaction that writes the new values.
		if _, err := q.Exec(txCtx, `UPDATE payroll_policies SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE AND id <> $1`, policy.ID); err != nil {
			return fmt.Errorf("failed to deactivate previous policies: %w", err)
		}

		if policy.ID == "" {
			policy.ID = uuid.NewString()
		}

		query := `
			INSERT INTO payroll_policies (
				id, late_penalty_per_minute, early_exit_penalty_per_minute,
				absent_full_day_penalty, half_day_penalty,
				grace_late_minutes, grace_early_minutes, standard_shift_minutes,
				half_day_threshold_minutes, minimum_overtime_minutes,
				overtime_rate_per_minute, is_active
			) VALUES (
				$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE
			)
			ON CONFLICT (id) DO UPDATE SET
				late_penalty_per_minute = EXCLUDED.late_penalty_per_minute,
				early_exit_penalty_per_minute = EXCLUDED.early_exit_penalty_per_minute,
				absent_full_day_penalty = EXCLUDED.absent_full_day_penalty,
				half_day_penalty = EXCLUDED.half_day_penalty,
				grace_late_minutes = EXCLUDED.grace_late_minutes,
				grace_early_minutes = EXCLUDED.grace_early_minutes,
				standard_shift_minutes = EXCLUDED.standard_shift_minutes,
				half_day_threshold_minutes = EXCLUDED.half_day_threshold_minutes,
				minimum_overtime_minutes = EXCLUDED.minimum_overtime_minutes,
				overtime_rate_per_minute = EXCLUDED.overtime_rate_per_minute,
				is_active = TRUE,
				updated_at = NOW()
			RETURNING` + policyColumns + `
		`

		var err error
		saved, err = scanPolicy(q.QueryRow(txCtx, query,
			policy.ID,
			policy.LatePenaltyPerMinute,
			policy.EarlyExitPenaltyPerMinute,
			policy.AbsentFullDayPenalty,
			policy.HalfDayPenalty,
			policy.GraceLateMinutes,
			policy.GraceEarlyMinutes,
			policy.StandardShiftMinutes,
			policy.HalfDayThresholdMinutes,
			policy.MinimumOvertimeMinutes,
			policy.OvertimeRatePerMinute,
		))
		if err != nil {
			return fmt.Errorf("failed to upsert payroll policy: %w", err)
		}

		return nil
	})
	if err != nil {
		return payroll.Policy{}, err
	}

	return saved, nil
}
