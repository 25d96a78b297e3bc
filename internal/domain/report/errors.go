package report

import (
	"errors"
	"fmt"
)

var ErrEmployeeLookup = errors.New("cannot find employee")

// EmployeeLookupError names the search key that matched no employee.
type EmployeeLookupError struct {
	Field string // "username" or "ID"
	Value string
}

func (e *EmployeeLookupError) Error() string {
	return fmt.Sprintf("Cannot find employee with %s %s", e.Field, e.Value)
}

func (e *EmployeeLookupError) Is(target error) bool {
	return target == ErrEmployeeLookup
}
