package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/kerjahub/attendance-backend-go/internal/domain/report"
	"github.com/kerjahub/attendance-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetDailyLogs(w http.ResponseWriter, r *http.Request)
	GetAttendanceLog(w http.ResponseWriter, r *http.Request)
	GetDailySummary(w http.ResponseWriter, r *http.Request)
	GetLateReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetDailyLogs implements ReportHandler.
func (h *reportHandlerImpl) GetDailyLogs(w http.ResponseWriter, r *http.Request) {
	req := report.DailyLogsRequest{
		Date:       optionalQuery(r, "date"),
		EmployeeID: optionalQuery(r, "employee_id"),
		Status:     optionalQuery(r, "status"),
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
	}

	result, err := h.reportService.GetDailyLogs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetAttendanceLog implements ReportHandler.
func (h *reportHandlerImpl) GetAttendanceLog(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Attendance ID is required", nil)
		return
	}

	result, err := h.reportService.GetAttendanceLog(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetDailySummary implements ReportHandler.
func (h *reportHandlerImpl) GetDailySummary(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetDailySummary(r.Context(), optionalQuery(r, "date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLateReport implements ReportHandler.
func (h *reportHandlerImpl) GetLateReport(w http.ResponseWriter, r *http.Request) {
	req := report.LateReportRequest{
		Date:  optionalQuery(r, "date"),
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}

	result, err := h.reportService.GetLateReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
