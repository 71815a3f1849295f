package payroll

import (
	"fmt"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

// Calculator converts one attendance record, its break sessions and the
// active policy into a deduction/overtime breakdown. It is a pure function
// of its inputs and the single entry point for every deduction figure in
// the system: logs, summaries and payroll reports all go through Compute.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// minutesBetween truncates the millisecond difference toward zero.
func minutesBetween(from, to time.Time) int {
	return int(to.Sub(from).Milliseconds() / 60000)
}

// Compute produces the DeductionResult for one record.
//
// The caller supplies the active policy; Compute never falls back to
// default coefficients (see ErrPolicyNotFound at the fetch site).
// Returns attendance.ErrInvalidRecordState for records whose clock-out
// precedes clock-in; aggregate callers decide whether that aborts the
// batch or is isolated per-row.
func (c *Calculator) Compute(rec attendance.Attendance, breaks []attendance.BreakSession, pol Policy) (DeductionResult, error) {
	if rec.ClockIn != nil && rec.ClockOut != nil && rec.ClockOut.Before(*rec.ClockIn) {
		return DeductionResult{}, fmt.Errorf("record %s: clock-out precedes clock-in: %w", rec.ID, attendance.ErrInvalidRecordState)
	}

	res := DeductionResult{
		LateDeduction:      decimal.Zero,
		EarlyExitDeduction: decimal.Zero,
		AbsentDeduction:    decimal.Zero,
		OvertimeAmount:     decimal.Zero,
		TotalDeduction:     decimal.Zero,
	}

	for _, b := range breaks {
		res.TotalBreakMinutes += b.DurationMinutes
	}

	if rec.ClockIn != nil && rec.ClockOut != nil {
		res.TotalWorkMinutes = minutesBetween(*rec.ClockIn, *rec.ClockOut) - res.TotalBreakMinutes
	}

	// Late arrival. The raw delta against the shift start is captured at
	// clock-in time; only the grace window is applied here.
	if late := rec.LateMinutes - pol.GraceLateMinutes; late > 0 {
		res.LateMinutes = late
		res.LateDeduction = decimal.NewFromInt(int64(late)).Mul(pol.LatePenaltyPerMinute)
		res.Breakdown = append(res.Breakdown, BreakdownEntry{
			Type:        BreakdownLate,
			Minutes:     late,
			Amount:      res.LateDeduction,
			Description: fmt.Sprintf("Late arrival of %d minute(s) beyond %d minute grace", late, pol.GraceLateMinutes),
		})
	}

	// Early exit is measured against clock-in plus the standard shift
	// length, not the configured shift-end string, so the window follows
	// when the employee actually started.
	if rec.ClockIn != nil && rec.ClockOut != nil {
		expectedEnd := rec.ClockIn.Add(time.Duration(pol.StandardShiftMinutes) * time.Minute)
		if early := minutesBetween(*rec.ClockOut, expectedEnd) - pol.GraceEarlyMinutes; early > 0 {
			res.EarlyExitMinutes = early
			res.EarlyExitDeduction = decimal.NewFromInt(int64(early)).Mul(pol.EarlyExitPenaltyPerMinute)
			res.Breakdown = append(res.Breakdown, BreakdownEntry{
				Type:        BreakdownEarlyExit,
				Minutes:     early,
				Amount:      res.EarlyExitDeduction,
				Description: fmt.Sprintf("Early exit of %d minute(s) beyond %d minute grace", early, pol.GraceEarlyMinutes),
			})
		}
	}

	// Flat absence penalty when either stamp is missing. Half-day policy
	// fields are deliberately not consulted here.
	if rec.ClockIn == nil || rec.ClockOut == nil {
		work := res.TotalWorkMinutes
		res.AbsentDeduction = pol.AbsentFullDayPenalty
		res.Breakdown = append(res.Breakdown, BreakdownEntry{
			Type:        BreakdownAbsent,
			Amount:      res.AbsentDeduction,
			Description: "Missing clock-in or clock-out for the day",
			WorkMinutes: &work,
		})
	}

	if overtime := res.TotalWorkMinutes - pol.StandardShiftMinutes; overtime > 0 {
		res.OvertimeMinutes = overtime
		if overtime >= pol.MinimumOvertimeMinutes {
			res.OvertimeAmount = decimal.NewFromInt(int64(overtime)).Mul(pol.OvertimeRatePerMinute)
		}
	}

	res.TotalDeduction = res.LateDeduction.Add(res.EarlyExitDeduction).Add(res.AbsentDeduction)

	return res, nil
}
