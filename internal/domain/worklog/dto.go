package worklog

import (
	"fmt"

	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
)

// ========================================
// CLOCK DTOs
// ========================================

type ClockInRequest struct {
	EmployeeID  string `json:"employee_id"`
	ClockInTime string `json:"clock_in_time"`
}

func (r *ClockInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if msg := timeMessage(r.ClockInTime, "Clock in time"); msg != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_in_time",
			Message: msg,
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockOutRequest struct {
	EmployeeID string `json:"employee_id"`
	// ClockInTime identifies the open shift. Empty means "the shift the
	// engine currently believes is open".
	ClockInTime  string `json:"clock_in_time,omitempty"`
	ClockOutTime string `json:"clock_out_time"`
}

func (r *ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.ClockInTime != "" {
		if msg := timeMessage(r.ClockInTime, "Clock in time"); msg != "" {
			errs = append(errs, validator.ValidationError{
				Field:   "clock_in_time",
				Message: msg,
			})
		}
	}

	if msg := timeMessage(r.ClockOutTime, "Clock out time"); msg != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "clock_out_time",
			Message: msg,
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ClockStatusResponse struct {
	EmployeeID       string  `json:"employee_id"`
	EmployeeUsername string  `json:"employee_username,omitempty"`
	State            string  `json:"state"`
	ClockedIn        bool    `json:"clocked_in"`
	ClockInTime      *string `json:"clock_in_time,omitempty"`
}

// ========================================
// WORK ORDER DTOs
// ========================================

type AddWorkOrderRequest struct {
	EmployeeID string `json:"employee_id"`
	OrderNum   string `json:"order_num"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

// Validate checks every field, then the ordering of start and end once both
// times are individually valid.
func (r *AddWorkOrderRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if r.OrderNum == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "order_num",
			Message: "Order number cannot be empty",
		})
	} else if !validator.MatchesOrderNumberFormat(r.OrderNum) {
		errs = append(errs, validator.ValidationError{
			Field:   "order_num",
			Message: "Order number must consist only of alphanumeric characters",
		})
	}

	startMsg := timeMessage(r.StartTime, "Start time")
	if startMsg != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "start_time",
			Message: startMsg,
		})
	}

	endMsg := timeMessage(r.EndTime, "End time")
	if endMsg != "" {
		errs = append(errs, validator.ValidationError{
			Field:   "end_time",
			Message: endMsg,
		})
	}

	if startMsg == "" && endMsg == "" {
		start := validator.ToInstant(r.StartTime, validator.DateTimeFormat)
		end := validator.ToInstant(r.EndTime, validator.DateTimeFormat)
		if start.After(end) {
			errs = append(errs, validator.ValidationError{
				Field:   "end_time",
				Message: "End time must be on or after start time",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// timeMessage returns the user-facing problem with a timestamp-string, or "".
func timeMessage(value, name string) string {
	if value == "" {
		return fmt.Sprintf("%s cannot be empty", name)
	}
	if !validator.MatchesDateTimeFormat(value) {
		return fmt.Sprintf("%s must be of the form %s", name, validator.DateTimeFormat)
	}
	if !validator.IsValidInstant(value, validator.DateTimeFormat) {
		return fmt.Sprintf("%s must be a valid time", name)
	}
	return ""
}

// ========================================
// WORK LOG RESPONSES
// ========================================

type WorkOrderResponse struct {
	OrderNum  string `json:"order_num"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type WorkLogResponse struct {
	EmployeeID   string              `json:"employee_id"`
	ClockInTime  string              `json:"clock_in_time"`
	ClockOutTime *string             `json:"clock_out_time,omitempty"`
	WorkOrders   []WorkOrderResponse `json:"work_orders"`
	Version      int                 `json:"version"`
}

// ToResponse maps a work log to its API shape.
func ToResponse(w WorkLog) WorkLogResponse {
	orders := make([]WorkOrderResponse, 0, len(w.WorkOrders))
	for _, o := range w.WorkOrders {
		orders = append(orders, WorkOrderResponse{
			OrderNum:  o.OrderNum,
			StartTime: o.StartTime,
			EndTime:   o.EndTime,
		})
	}
	return WorkLogResponse{
		EmployeeID:   w.EmployeeID,
		ClockInTime:  w.ClockInTime,
		ClockOutTime: w.ClockOutTime,
		WorkOrders:   orders,
		Version:      w.Version,
	}
}
