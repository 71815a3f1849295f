package attendance

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
	"github.com/kerjahub/attendance-backend-go/internal/domain/employee"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/database"
	"github.com/kerjahub/attendance-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAttendanceRepo struct {
	createFn                 func(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error)
	getByIDFn                func(ctx context.Context, id string) (attendance.Attendance, error)
	getByEmployeeAndDateFn   func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error)
	updateFn                 func(ctx context.Context, record attendance.Attendance) error
	listFn                   func(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error)
	listByEmployeeFn         func(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error)
	listByDateRangeFn        func(ctx context.Context, employeeID *string, start, end time.Time) ([]attendance.Attendance, error)
	listOpenBeforeFn         func(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error)
}

func (f *fakeAttendanceRepo) Create(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
	return f.createFn(ctx, record)
}
func (f *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return f.getByEmployeeAndDateFn(ctx, employeeID, date)
}
func (f *fakeAttendanceRepo) GetByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	return f.getByEmployeeAndDateFn(ctx, employeeID, date)
}
func (f *fakeAttendanceRepo) Update(ctx context.Context, record attendance.Attendance) error {
	return f.updateFn(ctx, record)
}
func (f *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	return f.listFn(ctx, filter)
}
func (f *fakeAttendanceRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
	return f.listByEmployeeFn(ctx, employeeID, filter)
}
func (f *fakeAttendanceRepo) ListByDateRange(ctx context.Context, employeeID *string, start, end time.Time) ([]attendance.Attendance, error) {
	return f.listByDateRangeFn(ctx, employeeID, start, end)
}
func (f *fakeAttendanceRepo) ListOpenBefore(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
	return f.listOpenBeforeFn(ctx, cutoff)
}

type fakeBreakRepo struct {
	createFn                  func(ctx context.Context, session attendance.BreakSession) (attendance.BreakSession, error)
	updateFn                  func(ctx context.Context, session attendance.BreakSession) error
	getActiveByAttendanceIDFn func(ctx context.Context, attendanceID string) (*attendance.BreakSession, error)
	listByAttendanceIDFn      func(ctx context.Context, attendanceID string) ([]attendance.BreakSession, error)
	listByAttendanceIDsFn     func(ctx context.Context, attendanceIDs []string) (map[string][]attendance.BreakSession, error)
}

func (f *fakeBreakRepo) Create(ctx context.Context, session attendance.BreakSession) (attendance.BreakSession, error) {
	return f.createFn(ctx, session)
}
func (f *fakeBreakRepo) Update(ctx context.Context, session attendance.BreakSession) error {
	return f.updateFn(ctx, session)
}
func (f *fakeBreakRepo) GetActiveByAttendanceID(ctx context.Context, attendanceID string) (*attendance.BreakSession, error) {
	return f.getActiveByAttendanceIDFn(ctx, attendanceID)
}
func (f *fakeBreakRepo) ListByAttendanceID(ctx context.Context, attendanceID string) ([]attendance.BreakSession, error) {
	return f.listByAttendanceIDFn(ctx, attendanceID)
}
func (f *fakeBreakRepo) ListByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string][]attendance.BreakSession, error) {
	return f.listByAttendanceIDsFn(ctx, attendanceIDs)
}

func authedContext(t *testing.T, employeeID string, role employee.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"employee_id": employeeID,
		"role":        string(role),
		"type":        "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(attRepo attendance.AttendanceRepository, brkRepo attendance.BreakRepository) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attRepo,
		BreakRepository:      brkRepo,
		withTx: func(ctx context.Context, db *database.DB, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

func TestClockIn_CreatesTodayRecord(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	var created attendance.Attendance
	attRepo := &fakeAttendanceRepo{
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			return nil, nil
		},
		createFn: func(ctx context.Context, record attendance.Attendance) (attendance.Attendance, error) {
			record.ID = "att-1"
			created = record
			return record, nil
		},
	}

	svc := newTestService(attRepo, &fakeBreakRepo{})
	resp, err := svc.ClockIn(ctx, attendance.ClockInRequest{Latitude: -6.2, Longitude: 106.8})
	require.NoError(t, err)

	assert.Equal(t, "att-1", resp.ID)
	assert.Equal(t, attendance.StatusCheckedIn, resp.Status)
	assert.Equal(t, "emp-1", created.EmployeeID)
	assert.NotNil(t, created.ClockIn)
	assert.Nil(t, created.ClockOut)
	assert.Equal(t, attendance.DefaultShiftStart, created.ShiftStartTime)
	assert.Equal(t, time.Now().Format("2006-01-02"), resp.Date)
}

func TestClockIn_Duplicate(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	attRepo := &fakeAttendanceRepo{
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: "att-1", Status: attendance.StatusCheckedIn}, nil
		},
	}

	svc := newTestService(attRepo, &fakeBreakRepo{})
	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestClockIn_RejectsInvalidCoordinates(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	svc := newTestService(&fakeAttendanceRepo{}, &fakeBreakRepo{})
	_, err := svc.ClockIn(ctx, attendance.ClockInRequest{Latitude: 120})
	assert.Error(t, err)
}

func TestClockOut_StampsAndSnapshots(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	clockIn := time.Now().Add(-8 * time.Hour)
	record := attendance.Attendance{
		ID:                "att-1",
		EmployeeID:        "emp-1",
		Date:              time.Now().Truncate(24 * time.Hour),
		ClockIn:           &clockIn,
		Status:            attendance.StatusCheckedIn,
		ShiftStartTime:    attendance.DefaultShiftStart,
		ShiftEndTime:      attendance.DefaultShiftEnd,
		TotalBreakMinutes: 30,
	}

	var updated attendance.Attendance
	attRepo := &fakeAttendanceRepo{
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			rec := record
			return &rec, nil
		},
		updateFn: func(ctx context.Context, rec attendance.Attendance) error {
			updated = rec
			return nil
		},
	}

	svc := newTestService(attRepo, &fakeBreakRepo{})
	resp, err := svc.ClockOut(ctx, attendance.ClockOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, attendance.StatusCheckedOut, resp.Status)
	assert.NotNil(t, updated.ClockOut)
	require.NotNil(t, updated.WorkMinutes)
	assert.Equal(t, 450, *updated.WorkMinutes)
}

func TestClockOut_StateErrors(t *testing.T) {
	tests := []struct {
		name    string
		record  *attendance.Attendance
		wantErr error
	}{
		{"not checked in", nil, attendance.ErrNotCheckedIn},
		{"on break", &attendance.Attendance{ID: "att-1", Status: attendance.StatusOnBreak}, attendance.ErrOnBreak},
		{"already checked out", &attendance.Attendance{ID: "att-1", Status: attendance.StatusCheckedOut}, attendance.ErrAlreadyCheckedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := authedContext(t, "emp-1", employee.RoleEmployee)
			attRepo := &fakeAttendanceRepo{
				getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
					return tt.record, nil
				},
			}

			svc := newTestService(attRepo, &fakeBreakRepo{})
			_, err := svc.ClockOut(ctx, attendance.ClockOutRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStartBreak_OpensSessionAndFlipsStatus(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	record := attendance.Attendance{ID: "att-1", EmployeeID: "emp-1", Status: attendance.StatusCheckedIn}

	var updatedStatus string
	attRepo := &fakeAttendanceRepo{
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			rec := record
			return &rec, nil
		},
		updateFn: func(ctx context.Context, rec attendance.Attendance) error {
			updatedStatus = rec.Status
			return nil
		},
	}
	brkRepo := &fakeBreakRepo{
		createFn: func(ctx context.Context, session attendance.BreakSession) (attendance.BreakSession, error) {
			session.ID = "brk-1"
			return session, nil
		},
	}

	svc := newTestService(attRepo, brkRepo)
	resp, err := svc.StartBreak(ctx, attendance.StartBreakRequest{})
	require.NoError(t, err)

	assert.Equal(t, "brk-1", resp.ID)
	assert.Equal(t, "att-1", resp.AttendanceID)
	assert.True(t, resp.IsActive)
	assert.Equal(t, attendance.StatusOnBreak, updatedStatus)
}

func TestStartBreak_StateErrors(t *testing.T) {
	tests := []struct {
		name    string
		record  *attendance.Attendance
		wantErr error
	}{
		{"not checked in", nil, attendance.ErrNotCheckedIn},
		{"break already active", &attendance.Attendance{ID: "att-1", Status: attendance.StatusOnBreak}, attendance.ErrBreakAlreadyActive},
		{"already checked out", &attendance.Attendance{ID: "att-1", Status: attendance.StatusCheckedOut}, attendance.ErrAlreadyCheckedOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := authedContext(t, "emp-1", employee.RoleEmployee)
			attRepo := &fakeAttendanceRepo{
				getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
					return tt.record, nil
				},
			}

			svc := newTestService(attRepo, &fakeBreakRepo{})
			_, err := svc.StartBreak(ctx, attendance.StartBreakRequest{})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// A break of N whole minutes must close with duration N and bump the
// parent's break total by exactly N.
func TestEndBreak_RoundTrip(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	record := attendance.Attendance{
		ID:                "att-1",
		EmployeeID:        "emp-1",
		Status:            attendance.StatusOnBreak,
		TotalBreakMinutes: 15,
	}
	session := attendance.BreakSession{
		ID:           "brk-1",
		AttendanceID: "att-1",
		EmployeeID:   "emp-1",
		BreakStart:   time.Now().Add(-25 * time.Minute),
		IsActive:     true,
	}

	var updatedRecord attendance.Attendance
	var updatedSession attendance.BreakSession
	attRepo := &fakeAttendanceRepo{
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			rec := record
			return &rec, nil
		},
		updateFn: func(ctx context.Context, rec attendance.Attendance) error {
			updatedRecord = rec
			return nil
		},
	}
	brkRepo := &fakeBreakRepo{
		getActiveByAttendanceIDFn: func(ctx context.Context, attendanceID string) (*attendance.BreakSession, error) {
			s := session
			return &s, nil
		},
		updateFn: func(ctx context.Context, s attendance.BreakSession) error {
			updatedSession = s
			return nil
		},
	}

	svc := newTestService(attRepo, brkRepo)
	resp, err := svc.EndBreak(ctx)
	require.NoError(t, err)

	assert.False(t, resp.IsActive)
	assert.Equal(t, 25, updatedSession.DurationMinutes)
	assert.NotNil(t, updatedSession.BreakEnd)
	assert.Equal(t, attendance.StatusCheckedIn, updatedRecord.Status)
	assert.Equal(t, 40, updatedRecord.TotalBreakMinutes)
}

func TestEndBreak_NoActiveBreak(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	attRepo := &fakeAttendanceRepo{
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			return &attendance.Attendance{ID: "att-1", Status: attendance.StatusCheckedIn}, nil
		},
	}

	svc := newTestService(attRepo, &fakeBreakRepo{})
	_, err := svc.EndBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNoActiveBreak)
}

func TestGetMyAttendance_Pagination(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)

	attRepo := &fakeAttendanceRepo{
		listByEmployeeFn: func(ctx context.Context, employeeID string, filter attendance.MyAttendanceFilter) ([]attendance.Attendance, int64, error) {
			assert.Equal(t, "emp-1", employeeID)
			return []attendance.Attendance{
				{ID: "att-1", EmployeeID: employeeID, Status: attendance.StatusCheckedOut},
				{ID: "att-2", EmployeeID: employeeID, Status: attendance.StatusCheckedOut},
			}, 42, nil
		},
	}

	svc := newTestService(attRepo, &fakeBreakRepo{})
	resp, err := svc.GetMyAttendance(ctx, attendance.MyAttendanceFilter{})
	require.NoError(t, err)

	assert.Equal(t, int64(42), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Len(t, resp.Attendances, 2)
}

func TestGetMyAttendance_RejectsUnknownStatus(t *testing.T) {
	ctx := authedContext(t, "emp-1", employee.RoleEmployee)
	status := "NOT_A_STATUS"

	svc := newTestService(&fakeAttendanceRepo{}, &fakeBreakRepo{})
	_, err := svc.GetMyAttendance(ctx, attendance.MyAttendanceFilter{Status: &status})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "status", verrs[0].Field)
}

func TestFinalizeRolledOverRecords(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	clockIn := yesterday.Add(9 * time.Hour)

	open := attendance.Attendance{
		ID:         "att-1",
		EmployeeID: "emp-1",
		Date:       yesterday,
		ClockIn:    &clockIn,
		Status:     attendance.StatusOnBreak,
	}
	session := attendance.BreakSession{
		ID:           "brk-1",
		AttendanceID: "att-1",
		BreakStart:   yesterday.Add(16 * time.Hour),
		IsActive:     true,
	}

	var updatedRecord attendance.Attendance
	var updatedSession attendance.BreakSession
	attRepo := &fakeAttendanceRepo{
		listOpenBeforeFn: func(ctx context.Context, cutoff time.Time) ([]attendance.Attendance, error) {
			return []attendance.Attendance{open}, nil
		},
		getByEmployeeAndDateFn: func(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
			rec := open
			return &rec, nil
		},
		updateFn: func(ctx context.Context, rec attendance.Attendance) error {
			updatedRecord = rec
			return nil
		},
	}
	brkRepo := &fakeBreakRepo{
		getActiveByAttendanceIDFn: func(ctx context.Context, attendanceID string) (*attendance.BreakSession, error) {
			s := session
			return &s, nil
		},
		updateFn: func(ctx context.Context, s attendance.BreakSession) error {
			updatedSession = s
			return nil
		},
	}

	svc := newTestService(attRepo, brkRepo)
	finalized, err := svc.FinalizeRolledOverRecords(context.Background(), time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, finalized)
	assert.Equal(t, attendance.StatusCheckedOut, updatedRecord.Status)
	assert.Nil(t, updatedRecord.ClockOut, "rolled-over records never get a synthetic clock-out")
	assert.False(t, updatedSession.IsActive)
	// Break ran from 16:00 to midnight, 480 minutes
	assert.Equal(t, 480, updatedSession.DurationMinutes)
	assert.Equal(t, 480, updatedRecord.TotalBreakMinutes)
}
