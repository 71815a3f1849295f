package report

import (
	"context"
	"time"

	"github.com/kerjahub/attendance-backend-go/internal/domain/attendance"
)

// ReportRepository exposes the count and listing queries behind the daily
// summary and the late employees report. Each count is one query so the
// service can fan them out.
type ReportRepository interface {
	// CountPresent counts employees with any attendance record on the date
	CountPresent(ctx context.Context, date time.Time) (int, error)

	// CountByStatus counts records with the given status on the date
	CountByStatus(ctx context.Context, date time.Time, status string) (int, error)

	// CountLate counts records flagged late on the date
	CountLate(ctx context.Context, date time.Time) (int, error)

	// ListLate retrieves late-flagged records for the date with joined
	// employee fields, sorted by late minutes descending, paginated
	ListLate(ctx context.Context, date time.Time, page, limit int) ([]attendance.Attendance, int64, error)
}
