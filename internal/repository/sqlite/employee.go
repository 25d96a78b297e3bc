package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
)

type employeeRepositoryImpl struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	var found employee.Employee
	err := r.db.QueryRowContext(ctx,
		`SELECT employee_id, employee_username FROM employees WHERE employee_id = ?`,
		id,
	).Scan(&found.ID, &found.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return employee.Employee{}, fmt.Errorf("employee with id %s: %w", id, employee.ErrEmployeeNotFound)
	}
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return found, nil
}

// ListByUsername implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListByUsername(ctx context.Context, username string) ([]employee.Employee, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT employee_id, employee_username FROM employees WHERE employee_username = ? ORDER BY employee_id ASC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.Username); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	return employees, rows.Err()
}
