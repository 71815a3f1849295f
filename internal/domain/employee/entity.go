package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

// CanViewAllEmployees reports whether the role may see other employees' rows.
func (r Role) CanViewAllEmployees() bool {
	return r == RoleAdmin || r == RoleManager
}

type Employee struct {
	ID           string
	FullName     string
	Email        string
	EmployeeCode string
	Department   *string
	Role         Role
	BaseSalary   *decimal.Decimal
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
