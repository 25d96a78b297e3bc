package http

import (
	"net/http"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/worklog-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	SearchWorkLogs(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// SearchWorkLogs implements ReportHandler.
// GET /api/v1/reports/worklogs?employee_id=&employee_username=&date=YYYY-MM-DD
func (h *reportHandlerImpl) SearchWorkLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := report.SearchRequest{
		EmployeeID:       query.Get("employee_id"),
		EmployeeUsername: query.Get("employee_username"),
		Date:             query.Get("date"),
	}

	result, err := h.reportService.SearchWorkLogs(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
