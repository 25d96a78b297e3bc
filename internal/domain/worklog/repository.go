package worklog

import "context"

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// ListFilter narrows ListWorkLogs. Zero values disable a condition.
type ListFilter struct {
	// ClockOutAbsent keeps only open shifts.
	ClockOutAbsent bool

	// ClockInFrom and ClockInTo form a half-open [from, to) range on the clock-in string.
	ClockInFrom *string
	ClockInTo   *string

	// ClockInAtOrBefore keeps shifts whose clock-in string is <= the value.
	ClockInAtOrBefore *string

	Sort  SortDirection
	Limit int
}

// UpdateInput changes an existing work log. Nil fields are left untouched.
type UpdateInput struct {
	EmployeeID   string
	ClockInTime  string
	ClockOutTime *string
	WorkOrders   []WorkOrder

	// ExpectedVersion, when set, makes the update conditional on the stored version.
	ExpectedVersion *int
}

// WorkLogRepository is the work-log store.
type WorkLogRepository interface {
	// Get returns ErrWorkLogNotFound when the key does not exist.
	Get(ctx context.Context, employeeID string, clockInTime string) (WorkLog, error)

	List(ctx context.Context, employeeID string, filter ListFilter) ([]WorkLog, error)

	// Create returns ErrWorkLogExists when the key is taken.
	Create(ctx context.Context, workLog WorkLog) (WorkLog, error)

	// Update returns ErrWorkLogNotFound for a missing key and ErrVersionConflict
	// when ExpectedVersion no longer matches.
	Update(ctx context.Context, input UpdateInput) (WorkLog, error)
}
