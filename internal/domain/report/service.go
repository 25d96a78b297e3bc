package report

import "context"

// ReportService answers manager searches over historical work logs.
type ReportService interface {
	// SearchWorkLogs resolves the employee, loads the day's shifts and aggregates them.
	SearchWorkLogs(ctx context.Context, req SearchRequest) (DailyReport, error)
}
