package worklog

import (
	"context"
)

// WorkLogService defines clock and work order operations for one employee at a time.
type WorkLogService interface {
	// Reconcile refreshes the cached clock state from the store's open shift.
	Reconcile(ctx context.Context, employeeID string) (ClockStatusResponse, error)

	// QueryOpenShift returns the employee's open shift, or nil when not clocked in.
	QueryOpenShift(ctx context.Context, employeeID string) (*WorkLog, error)

	// ClockIn opens a new shift at the supplied time
	ClockIn(ctx context.Context, req ClockInRequest) (WorkLogResponse, error)

	// ClockOut closes the open shift at the supplied time
	ClockOut(ctx context.Context, req ClockOutRequest) (WorkLogResponse, error)

	// ResolveShift returns the clock-in time of the latest shift starting at or before referenceTime.
	ResolveShift(ctx context.Context, employeeID string, referenceTime string) (string, error)

	// AddWorkOrder validates a work order and appends it to its shift
	AddWorkOrder(ctx context.Context, req AddWorkOrderRequest) (WorkLogResponse, error)
}
