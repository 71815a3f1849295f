package payroll

import "errors"

// Payroll domain errors
var (
	// ErrPolicyNotFound is fatal for any deduction computation: there is no
	// fallback policy, and aggregate runs abort instead of skipping records.
	ErrPolicyNotFound = errors.New("no active payroll policy found")
)
