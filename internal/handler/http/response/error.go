package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Store failures carry their own user-facing message
	var persistenceErr *worklog.PersistenceError
	if errors.As(err, &persistenceErr) {
		if persistenceErr.IsConflict() {
			Conflict(w, persistenceErr.Message)
			return
		}
		BadGateway(w, persistenceErr.Message)
		return
	}

	var lookupErr *report.EmployeeLookupError
	if errors.As(err, &lookupErr) {
		NotFound(w, lookupErr.Error())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrMissingUsername):
		Unauthorized(w, "Token has no username")
	case errors.Is(err, auth.ErrManagerAccessRequired):
		Forbidden(w, "Manager access required")
	case errors.Is(err, auth.ErrEmployeeNotLinked):
		Forbidden(w, "Signed-in user is not linked to an employee")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Work log domain errors
	case errors.Is(err, worklog.ErrAlreadyClockedIn):
		Conflict(w, "Already clocked in")
	case errors.Is(err, worklog.ErrNotClockedIn):
		Conflict(w, "Not clocked in")
	case errors.Is(err, worklog.ErrClockInMismatch):
		Conflict(w, "Clock in time does not match the open shift")
	case errors.Is(err, worklog.ErrShiftResolution):
		UnprocessableEntity(w, "SHIFT_RESOLUTION_ERROR", "Error determining shift corresponding with job start and end time")
	case errors.Is(err, worklog.ErrShiftNotFound):
		NotFound(w, "Error retrieving shift information corresponding with job start and end time")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
