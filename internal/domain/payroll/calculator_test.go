package payroll

import (
	"testing"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPolicy() Policy {
	return Policy{
		ID:                        "policy-1",
		LatePenaltyPerMinute:      decimal.NewFromInt(10),
		EarlyExitPenaltyPerMinute: decimal.NewFromInt(8),
		AbsentFullDayPenalty:      decimal.NewFromInt(1000),
		HalfDayPenalty:            decimal.NewFromInt(500),
		GraceLateMinutes:          15,
		GraceEarlyMinutes:         10,
		StandardShiftMinutes:      480,
		HalfDayThresholdMinutes:   240,
		MinimumOvertimeMinutes:    30,
		OvertimeRatePerMinute:     decimal.NewFromInt(5),
		IsActive:                  true,
	}
}

func stamp(hour, minute int) *time.Time {
	t := time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
	return &t
}

func checkedOutRecord(in, out *time.Time, lateMinutes int) attendance.Attendance {
	return attendance.Attendance{
		ID:          "att-1",
		EmployeeID:  "emp-1",
		Date:        time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ClockIn:     in,
		ClockOut:    out,
		Status:      attendance.StatusCheckedOut,
		LateFlag:    lateMinutes > 0,
		LateMinutes: lateMinutes,
	}
}

func TestCompute_LateBeyondGrace(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	// 09:20 against a 09:00 shift: 20 stored, 15 grace, 5 billable
	rec := checkedOutRecord(stamp(9, 20), stamp(17, 20), 20)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.Equal(t, 5, result.LateMinutes)
	assert.True(t, result.LateDeduction.Equal(decimal.NewFromInt(50)),
		"expected 50, got %s", result.LateDeduction)
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, BreakdownLate, result.Breakdown[0].Type)
}

func TestCompute_LateWithinGraceIsFree(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	rec := checkedOutRecord(stamp(9, 15), stamp(17, 15), 15)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.Zero(t, result.LateMinutes)
	assert.True(t, result.LateDeduction.IsZero())
	assert.Empty(t, result.Breakdown)
}

func TestCompute_GraceMonotonicity(t *testing.T) {
	calc := NewCalculator()
	rec := checkedOutRecord(stamp(9, 40), stamp(17, 40), 40)

	var previous decimal.Decimal
	for i, grace := range []int{0, 10, 20, 30, 50} {
		pol := testPolicy()
		pol.GraceLateMinutes = grace

		result, err := calc.Compute(rec, nil, pol)
		require.NoError(t, err)

		if i > 0 {
			assert.True(t, result.LateDeduction.LessThanOrEqual(previous),
				"deduction must not grow as grace grows: grace=%d", grace)
		}
		previous = result.LateDeduction
	}
}

func TestCompute_MissingClockOutIsAbsent(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	rec := checkedOutRecord(stamp(9, 0), nil, 0)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.True(t, result.AbsentDeduction.Equal(pol.AbsentFullDayPenalty))
	assert.Zero(t, result.TotalWorkMinutes)
	assert.Zero(t, result.OvertimeMinutes)
	assert.True(t, result.TotalDeduction.Equal(pol.AbsentFullDayPenalty))
	require.Len(t, result.Breakdown, 1)
	assert.Equal(t, BreakdownAbsent, result.Breakdown[0].Type)
}

func TestCompute_MissingClockInIsAbsent(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	rec := checkedOutRecord(nil, stamp(17, 0), 0)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.True(t, result.AbsentDeduction.Equal(pol.AbsentFullDayPenalty))
}

func TestCompute_OvertimeWithBreaks(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	// 09:00 to 19:00 is 600 elapsed; one 30 minute break leaves 570
	rec := checkedOutRecord(stamp(9, 0), stamp(19, 0), 0)
	breaks := []attendance.BreakSession{
		{ID: "brk-1", AttendanceID: rec.ID, DurationMinutes: 30},
	}

	result, err := calc.Compute(rec, breaks, pol)
	require.NoError(t, err)

	assert.Equal(t, 570, result.TotalWorkMinutes)
	assert.Equal(t, 30, result.TotalBreakMinutes)
	assert.Equal(t, 90, result.OvertimeMinutes)
	assert.True(t, result.OvertimeAmount.Equal(decimal.NewFromInt(450)),
		"expected 450, got %s", result.OvertimeAmount)
}

func TestCompute_OvertimeBelowFloorPaysNothing(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	// 20 minutes over, floor is 30: tracked but unpaid
	rec := checkedOutRecord(stamp(9, 0), stamp(17, 20), 0)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.Equal(t, 20, result.OvertimeMinutes)
	assert.True(t, result.OvertimeAmount.IsZero())
}

func TestCompute_OvertimeNeverReducesDeductions(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	// Late by 20 stored and two hours of overtime in the same day
	rec := checkedOutRecord(stamp(9, 20), stamp(19, 20), 20)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.True(t, result.OvertimeAmount.IsPositive())
	expected := result.LateDeduction.Add(result.EarlyExitDeduction).Add(result.AbsentDeduction)
	assert.True(t, result.TotalDeduction.Equal(expected))
}

func TestCompute_EarlyExitAgainstActualStart(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	// Started 09:30, shift is 480 minutes, so the day runs to 17:30.
	// Leaving at 16:30 is 60 short; 10 grace leaves 50 billable.
	rec := checkedOutRecord(stamp(9, 30), stamp(16, 30), 30)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.Equal(t, 50, result.EarlyExitMinutes)
	assert.True(t, result.EarlyExitDeduction.Equal(decimal.NewFromInt(400)),
		"expected 400, got %s", result.EarlyExitDeduction)
}

func TestCompute_EarlyExitWithinGraceIsFree(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	rec := checkedOutRecord(stamp(9, 0), stamp(16, 52), 0)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.Zero(t, result.EarlyExitMinutes)
	assert.True(t, result.EarlyExitDeduction.IsZero())
}

func TestCompute_ClockOutBeforeClockIn(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	rec := checkedOutRecord(stamp(17, 0), stamp(9, 0), 0)

	_, err := calc.Compute(rec, nil, pol)
	assert.ErrorIs(t, err, attendance.ErrInvalidRecordState)
}

func TestCompute_Idempotent(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	rec := checkedOutRecord(stamp(9, 25), stamp(19, 10), 25)
	breaks := []attendance.BreakSession{
		{ID: "brk-1", AttendanceID: rec.ID, DurationMinutes: 45},
	}

	first, err := calc.Compute(rec, breaks, pol)
	require.NoError(t, err)
	second, err := calc.Compute(rec, breaks, pol)
	require.NoError(t, err)

	assert.Equal(t, first.LateMinutes, second.LateMinutes)
	assert.Equal(t, first.TotalWorkMinutes, second.TotalWorkMinutes)
	assert.True(t, first.TotalDeduction.Equal(second.TotalDeduction))
	assert.True(t, first.OvertimeAmount.Equal(second.OvertimeAmount))
}

func TestCompute_NonNegativeOutputs(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()
	pol.GraceLateMinutes = 120
	pol.GraceEarlyMinutes = 120

	// Everything falls inside grace; nothing may go negative
	rec := checkedOutRecord(stamp(9, 5), stamp(16, 30), 5)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, result.LateMinutes, 0)
	assert.GreaterOrEqual(t, result.EarlyExitMinutes, 0)
	assert.False(t, result.LateDeduction.IsNegative())
	assert.False(t, result.EarlyExitDeduction.IsNegative())
	assert.False(t, result.TotalDeduction.IsNegative())
}

// Half-day threshold and penalty are configuration without behavior: a day
// worked below the threshold with both stamps present bills nothing extra.
func TestCompute_HalfDayFieldsAreInert(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()
	pol.GraceEarlyMinutes = 600

	// Only 120 minutes worked, far below the 240 minute threshold
	rec := checkedOutRecord(stamp(9, 0), stamp(11, 0), 0)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	assert.True(t, result.AbsentDeduction.IsZero())
	for _, entry := range result.Breakdown {
		assert.NotEqual(t, BreakdownHalfDayAbsent, entry.Type)
	}
}

func TestCompute_SecondsTruncateTowardZero(t *testing.T) {
	calc := NewCalculator()
	pol := testPolicy()

	in := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	out := time.Date(2026, 3, 2, 17, 0, 59, 0, time.UTC)
	rec := checkedOutRecord(&in, &out, 0)

	result, err := calc.Compute(rec, nil, pol)
	require.NoError(t, err)

	// 480 minutes and 59 seconds truncates to 480; no overtime
	assert.Equal(t, 480, result.TotalWorkMinutes)
	assert.Zero(t, result.OvertimeMinutes)
}
