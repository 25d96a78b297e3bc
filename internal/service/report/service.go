package report

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
)

type ReportServiceImpl struct {
	employee.EmployeeRepository
	worklog.WorkLogRepository
	dayRange DayRange
}

// NewReportService builds the search service. A nil dayRange uses NaiveDayRange.
func NewReportService(employeeRepo employee.EmployeeRepository, workLogRepo worklog.WorkLogRepository, dayRange DayRange) report.ReportService {
	if dayRange == nil {
		dayRange = NaiveDayRange
	}
	return &ReportServiceImpl{
		EmployeeRepository: employeeRepo,
		WorkLogRepository:  workLogRepo,
		dayRange:           dayRange,
	}
}

// findEmployee looks the employee up by ID when given, otherwise by username.
func (s *ReportServiceImpl) findEmployee(ctx context.Context, req report.SearchRequest) (employee.Employee, error) {
	if id := strings.TrimSpace(req.EmployeeID); id != "" {
		emp, err := s.EmployeeRepository.GetByID(ctx, id)
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, &report.EmployeeLookupError{Field: "ID", Value: id}
		}
		if err != nil {
			slog.Error("Failed to get employee", "employee_id", id, "error", err)
			return employee.Employee{}, worklog.NewPersistenceError("get_employee", "Error retrieving employee", err)
		}
		return emp, nil
	}

	username := strings.TrimSpace(req.EmployeeUsername)
	matches, err := s.EmployeeRepository.ListByUsername(ctx, username)
	if err != nil {
		slog.Error("Failed to list employees by username", "employee_username", username, "error", err)
		return employee.Employee{}, worklog.NewPersistenceError("employees_by_username", "Error retrieving employee", err)
	}
	if len(matches) == 0 {
		return employee.Employee{}, &report.EmployeeLookupError{Field: "username", Value: username}
	}
	return matches[0], nil
}

// SearchWorkLogs implements report.ReportService.
func (s *ReportServiceImpl) SearchWorkLogs(ctx context.Context, req report.SearchRequest) (report.DailyReport, error) {
	if err := req.Validate(); err != nil {
		return report.DailyReport{}, err
	}

	emp, err := s.findEmployee(ctx, req)
	if err != nil {
		return report.DailyReport{}, err
	}

	from, to := s.dayRange(req.Date)
	shifts, err := s.WorkLogRepository.List(ctx, emp.ID, worklog.ListFilter{
		ClockInFrom: &from,
		ClockInTo:   &to,
		Sort:        worklog.SortAsc,
	})
	if err != nil {
		slog.Error("Failed to list work logs", "employee_id", emp.ID, "date", req.Date, "error", err)
		return report.DailyReport{}, worklog.NewPersistenceError("list_work_logs", "Error retrieving work logs", err)
	}

	workLogs := make([]worklog.WorkLogResponse, 0, len(shifts))
	for _, shift := range shifts {
		workLogs = append(workLogs, worklog.ToResponse(shift))
	}

	return report.DailyReport{
		EmployeeID:       emp.ID,
		EmployeeUsername: emp.Username,
		Date:             req.Date,
		Totals:           Aggregate(shifts),
		WorkLogs:         workLogs,
	}, nil
}
