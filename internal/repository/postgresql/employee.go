package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db database.Pool
}

func NewEmployeeRepository(db database.Pool) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT employee_id, employee_username
		FROM employees
		WHERE employee_id = $1
	`

	var found employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(&found.ID, &found.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, fmt.Errorf("employee with id %s: %w", id, employee.ErrEmployeeNotFound)
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}

	return found, nil
}

// ListByUsername implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) ListByUsername(ctx context.Context, username string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT employee_id, employee_username
		FROM employees
		WHERE employee_username = $1
		ORDER BY employee_id ASC
	`

	rows, err := q.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees with username %s: %w", username, err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.Username); err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}
