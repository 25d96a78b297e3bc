package employee

import "context"

// EmployeeRepository reads employees. Employees are provisioned outside this service.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when no employee has the ID.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListByUsername returns every employee with the username via the secondary index, in key order.
	ListByUsername(ctx context.Context, username string) ([]Employee, error)
}
