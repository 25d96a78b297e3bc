package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
)

type WorkLogHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	AddWorkOrder(w http.ResponseWriter, r *http.Request)
}

type workLogHandlerImpl struct {
	employeeResolver
	workLogService worklog.WorkLogService
	now            func() time.Time
	location       *time.Location
}

// NewWorkLogHandler builds the clock and work order handlers. Wall-clock reads
// use now, rendered in location.
func NewWorkLogHandler(workLogService worklog.WorkLogService, employeeRepo employee.EmployeeRepository, now func() time.Time, location *time.Location) WorkLogHandler {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	return &workLogHandlerImpl{
		employeeResolver: employeeResolver{employeeRepo: employeeRepo},
		workLogService:   workLogService,
		now:              now,
		location:         location,
	}
}

func (h *workLogHandlerImpl) wallClock() string {
	return validator.FormatInstant(h.now().In(h.location), validator.DateTimeFormat)
}

// Status implements WorkLogHandler.
func (h *workLogHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	emp, err := h.currentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	status, err := h.workLogService.Reconcile(r.Context(), emp.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	status.EmployeeUsername = emp.Username

	response.Success(w, status)
}

// ClockIn implements WorkLogHandler.
func (h *workLogHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	emp, err := h.currentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req := worklog.ClockInRequest{
		EmployeeID:  emp.ID,
		ClockInTime: h.wallClock(),
	}

	result, err := h.workLogService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", result)
}

// ClockOut implements WorkLogHandler.
func (h *workLogHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	emp, err := h.currentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// The body is optional and may name the shift being closed.
	var body struct {
		ClockInTime string `json:"clock_in_time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		slog.Error("Failed to decode clock out request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req := worklog.ClockOutRequest{
		EmployeeID:   emp.ID,
		ClockInTime:  body.ClockInTime,
		ClockOutTime: h.wallClock(),
	}

	result, err := h.workLogService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", result)
}

// AddWorkOrder implements WorkLogHandler.
func (h *workLogHandlerImpl) AddWorkOrder(w http.ResponseWriter, r *http.Request) {
	emp, err := h.currentEmployee(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req worklog.AddWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode work order request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = emp.ID

	result, err := h.workLogService.AddWorkOrder(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Work order submitted", result)
}
