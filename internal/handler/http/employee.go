package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
)

// employeeResolver maps the signed-in username to its employee record.
type employeeResolver struct {
	employeeRepo employee.EmployeeRepository
}

// currentEmployee takes the first employee carrying the token's username.
func (e employeeResolver) currentEmployee(r *http.Request) (employee.Employee, error) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		return employee.Employee{}, err
	}

	matches, err := e.employeeRepo.ListByUsername(r.Context(), identity.Username)
	if err != nil {
		slog.Error("Failed to look up signed-in employee", "username", identity.Username, "error", err)
		return employee.Employee{}, worklog.NewPersistenceError("employees_by_username", "Error retrieving employee", err)
	}
	if len(matches) == 0 {
		return employee.Employee{}, auth.ErrEmployeeNotLinked
	}
	return matches[0], nil
}
