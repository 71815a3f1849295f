package employee

import "context"

// EmployeeRepository is the directory lookup the attendance core depends on.
// Employee CRUD itself lives outside this service.
type EmployeeRepository interface {
	// GetByID retrieves one employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// GetActive retrieves the active employee roster
	GetActive(ctx context.Context) ([]Employee, error)

	// CountActive counts active employees
	CountActive(ctx context.Context) (int, error)
}
