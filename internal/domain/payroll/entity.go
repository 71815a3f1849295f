package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy is the single active payroll policy. Exactly one row is active at
// any evaluation time; the update path deactivates any other active row in
// the same transaction.
type Policy struct {
	ID                        string
	LatePenaltyPerMinute      decimal.Decimal
	EarlyExitPenaltyPerMinute decimal.Decimal
	AbsentFullDayPenalty      decimal.Decimal
	HalfDayPenalty            decimal.Decimal
	GraceLateMinutes          int
	GraceEarlyMinutes         int
	StandardShiftMinutes      int
	HalfDayThresholdMinutes   int
	MinimumOvertimeMinutes    int
	OvertimeRatePerMinute     decimal.Decimal
	IsActive                  bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

type BreakdownType string

const (
	BreakdownLate      BreakdownType = "LATE"
	BreakdownEarlyExit BreakdownType = "EARLY_EXIT"
	// BreakdownHalfDayAbsent exists on the policy side but is never emitted:
	// half-day classification is inert configuration for now.
	BreakdownHalfDayAbsent BreakdownType = "HALF_DAY_ABSENT"
	BreakdownAbsent        BreakdownType = "ABSENT"
)

// BreakdownEntry is one itemized penalty line. Derived, not persisted on
// its own; some call sites snapshot it onto the attendance record.
type BreakdownEntry struct {
	Type        BreakdownType   `json:"type"`
	Minutes     int             `json:"minutes"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	WorkMinutes *int            `json:"work_minutes,omitempty"`
}

// DeductionResult is the calculator's output for one attendance record.
// Overtime is tracked separately and never subtracted from TotalDeduction.
type DeductionResult struct {
	LateMinutes        int              `json:"late_minutes"`
	LateDeduction      decimal.Decimal  `json:"late_deduction"`
	EarlyExitMinutes   int              `json:"early_exit_minutes"`
	EarlyExitDeduction decimal.Decimal  `json:"early_exit_deduction"`
	AbsentDeduction    decimal.Decimal  `json:"absent_deduction"`
	OvertimeMinutes    int              `json:"overtime_minutes"`
	OvertimeAmount     decimal.Decimal  `json:"overtime_amount"`
	TotalDeduction     decimal.Decimal  `json:"total_deduction"`
	TotalWorkMinutes   int              `json:"total_work_minutes"`
	TotalBreakMinutes  int              `json:"total_break_minutes"`
	Breakdown          []BreakdownEntry `json:"breakdown"`
}
