package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/kerjahub/attendance-backend-go/internal/domain/payroll"
	"github.com/kerjahub/attendance-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	GetPolicy(w http.ResponseWriter, r *http.Request)
	UpdatePolicy(w http.ResponseWriter, r *http.Request)
	GetDeductionSummary(w http.ResponseWriter, r *http.Request)
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// GetPolicy implements PayrollHandler.
func (h *payrollHandlerImpl) GetPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetActivePolicy(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdatePolicy implements PayrollHandler.
func (h *payrollHandlerImpl) UpdatePolicy(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.payrollService.UpdatePolicy(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Policy updated", result)
}

// GetDeductionSummary implements PayrollHandler.
func (h *payrollHandlerImpl) GetDeductionSummary(w http.ResponseWriter, r *http.Request) {
	req := payroll.DeductionSummaryRequest{
		Date:       optionalQuery(r, "date"),
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		EmployeeID: optionalQuery(r, "employee_id"),
		BestEffort: r.URL.Query().Get("best_effort") == "true",
	}

	result, err := h.payrollService.GetDeductionSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMonthlyReport implements PayrollHandler.
func (h *payrollHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))

	req := payroll.MonthlyPayrollRequest{
		Month:      month,
		Year:       year,
		BestEffort: r.URL.Query().Get("best_effort") == "true",
	}

	result, err := h.payrollService.GetMonthlyPayrollReport(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
