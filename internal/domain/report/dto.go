package report

import (
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
)

// ========================================
// WORK LOG SEARCH
// ========================================

// SearchRequest looks up one employee's work logs for one day. Either the
// employee ID or the username identifies the employee; the ID wins when both
// are given.
type SearchRequest struct {
	EmployeeID       string `json:"employee_id"`
	EmployeeUsername string `json:"employee_username"`
	Date             string `json:"date"` // YYYY-MM-DD
}

func (r *SearchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) && validator.IsEmpty(r.EmployeeUsername) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee",
			Message: "employee_id or employee_username is required",
		})
	}

	if r.Date == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if !validator.MatchesDateFormat(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be of the form " + string(validator.DateFormat),
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be a valid date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Totals is the aggregate of a set of shifts.
type Totals struct {
	TotalClockedSeconds   int64   `json:"total_clocked_seconds"`
	TotalWorkOrderSeconds int64   `json:"total_work_order_seconds"`
	TotalWorkHours        float64 `json:"total_work_hours"`
	TotalJobHours         float64 `json:"total_job_hours"`
	Efficiency            string  `json:"efficiency"`
}

type DailyReport struct {
	EmployeeID       string                    `json:"employee_id"`
	EmployeeUsername string                    `json:"employee_username"`
	Date             string                    `json:"date"`
	Totals           Totals                    `json:"totals"`
	WorkLogs         []worklog.WorkLogResponse `json:"work_logs"`
}
