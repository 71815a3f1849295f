package report

import "context"

// ReportService defines the display and summary side of the deduction
// engine: assembled log rows, daily summaries and the late report.
type ReportService interface {
	// GetDailyLogs lists assembled rows for a date (default today). A
	// listing without an employee filter appends synthetic absent/leave
	// rows for active employees with no record that day.
	GetDailyLogs(ctx context.Context, req DailyLogsRequest) (DailyLogsResponse, error)

	// GetAttendanceLog assembles the display row for one record. The
	// variant depends on the caller's role; employees only see their own
	// records.
	GetAttendanceLog(ctx context.Context, id string) (Row, error)

	// GetDailySummary counts the day's attendance states
	GetDailySummary(ctx context.Context, date *string) (DailySummary, error)

	// GetLateReport lists late-flagged records for a date, lateMinutes
	// descending; the per-row deduction goes through the calculator
	GetLateReport(ctx context.Context, req LateReportRequest) (LateReportResponse, error)
}
