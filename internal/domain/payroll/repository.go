package payroll

import "context"

// PolicyRepository defines data access for the payroll policy.
type PolicyRepository interface {
	// GetActive retrieves the active policy. Returns ErrPolicyNotFound when
	// no row is active; if several are (a state the update path prevents),
	// the most recently updated wins so evaluation stays deterministic.
	GetActive(ctx context.Context) (Policy, error)

	// UpsertActive persists the policy as the single active row,
	// deactivating any other active row in the same transaction.
	UpsertActive(ctx context.Context, policy Policy) (Policy, error)
}
