package payroll

import "context"

// PayrollService defines business logic for policy management and the
// deduction aggregates built on top of the calculator.
type PayrollService interface {
	// GetActivePolicy retrieves the active payroll policy
	GetActivePolicy(ctx context.Context) (PolicyResponse, error)

	// UpdatePolicy applies a partial update and keeps exactly one policy
	// active. Already-persisted deduction snapshots are never recomputed.
	UpdatePolicy(ctx context.Context, req UpdatePolicyRequest) (PolicyResponse, error)

	// GetDeductionSummary folds calculator output across a date range
	GetDeductionSummary(ctx context.Context, req DeductionSummaryRequest) (DeductionSummaryResponse, error)

	// GetMonthlyPayrollReport builds the per-employee payroll report for a
	// calendar month, re-running the calculator per attendance record
	GetMonthlyPayrollReport(ctx context.Context, req MonthlyPayrollRequest) (MonthlyPayrollReport, error)
}
