// Package sqlite contains the SQLite work-log store.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const workLogColumns = `employee_id, clock_in_time, clock_out_time, work_orders, version, created_at, updated_at`

type workLogRepositoryImpl struct {
	db *sql.DB
}

func NewWorkLogRepository(db *sql.DB) worklog.WorkLogRepository {
	return &workLogRepositoryImpl{db: db}
}

// Get implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Get(ctx context.Context, employeeID string, clockInTime string) (worklog.WorkLog, error) {
	found, err := scanWorkLog(r.db.QueryRowContext(ctx,
		`SELECT `+workLogColumns+` FROM work_logs WHERE employee_id = ? AND clock_in_time = ?`,
		employeeID, clockInTime,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return worklog.WorkLog{}, fmt.Errorf("work log %s/%s: %w", employeeID, clockInTime, worklog.ErrWorkLogNotFound)
	}
	if err != nil {
		return worklog.WorkLog{}, fmt.Errorf("failed to get work log: %w", err)
	}
	return found, nil
}

// List implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) List(ctx context.Context, employeeID string, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	query := `SELECT ` + workLogColumns + ` FROM work_logs WHERE employee_id = ?`
	args := []any{employeeID}

	if filter.ClockOutAbsent {
		query += " AND clock_out_time IS NULL"
	}
	if filter.ClockInFrom != nil {
		query += " AND clock_in_time >= ?"
		args = append(args, *filter.ClockInFrom)
	}
	if filter.ClockInTo != nil {
		query += " AND clock_in_time < ?"
		args = append(args, *filter.ClockInTo)
	}
	if filter.ClockInAtOrBefore != nil {
		query += " AND clock_in_time <= ?"
		args = append(args, *filter.ClockInAtOrBefore)
	}

	if filter.Sort == worklog.SortDesc {
		query += " ORDER BY clock_in_time DESC"
	} else {
		query += " ORDER BY clock_in_time ASC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work logs: %w", err)
	}
	defer rows.Close()

	workLogs := []worklog.WorkLog{}
	for rows.Next() {
		w, err := scanWorkLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work log: %w", err)
		}
		workLogs = append(workLogs, w)
	}

	return workLogs, rows.Err()
}

// Create implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Create(ctx context.Context, newWorkLog worklog.WorkLog) (worklog.WorkLog, error) {
	orders := "[]"
	if newWorkLog.WorkOrders != nil {
		b, err := json.Marshal(newWorkLog.WorkOrders)
		if err != nil {
			return worklog.WorkLog{}, fmt.Errorf("encode work orders: %w", err)
		}
		orders = string(b)
	}

	created, err := scanWorkLog(r.db.QueryRowContext(ctx,
		`INSERT INTO work_logs (employee_id, clock_in_time, clock_out_time, work_orders)
		VALUES (?, ?, ?, ?)
		RETURNING `+workLogColumns,
		newWorkLog.EmployeeID, newWorkLog.ClockInTime, nullString(newWorkLog.ClockOutTime), orders,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return worklog.WorkLog{}, fmt.Errorf("work log %s/%s: %w", newWorkLog.EmployeeID, newWorkLog.ClockInTime, worklog.ErrWorkLogExists)
		}
		return worklog.WorkLog{}, fmt.Errorf("failed to create work log: %w", err)
	}

	return created, nil
}

// Update implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Update(ctx context.Context, input worklog.UpdateInput) (worklog.WorkLog, error) {
	var orders sql.NullString
	if input.WorkOrders != nil {
		b, err := json.Marshal(input.WorkOrders)
		if err != nil {
			return worklog.WorkLog{}, fmt.Errorf("encode work orders: %w", err)
		}
		orders = sql.NullString{String: string(b), Valid: true}
	}

	var expected sql.NullInt64
	if input.ExpectedVersion != nil {
		expected = sql.NullInt64{Int64: int64(*input.ExpectedVersion), Valid: true}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return worklog.WorkLog{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	updated, err := scanWorkLog(tx.QueryRowContext(ctx,
		`UPDATE work_logs
		SET clock_out_time = COALESCE(?, clock_out_time),
			work_orders = COALESCE(?, work_orders),
			version = version + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE employee_id = ? AND clock_in_time = ?
			AND (? IS NULL OR version = ?)
		RETURNING `+workLogColumns,
		nullString(input.ClockOutTime), orders, input.EmployeeID, input.ClockInTime, expected, expected,
	))
	if errors.Is(err, sql.ErrNoRows) {
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM work_logs WHERE employee_id = ? AND clock_in_time = ?)`,
			input.EmployeeID, input.ClockInTime,
		).Scan(&exists); err != nil {
			return worklog.WorkLog{}, fmt.Errorf("failed to check work log: %w", err)
		}
		if exists {
			return worklog.WorkLog{}, fmt.Errorf("work log %s/%s: %w", input.EmployeeID, input.ClockInTime, worklog.ErrVersionConflict)
		}
		return worklog.WorkLog{}, fmt.Errorf("work log %s/%s: %w", input.EmployeeID, input.ClockInTime, worklog.ErrWorkLogNotFound)
	}
	if err != nil {
		return worklog.WorkLog{}, fmt.Errorf("failed to update work log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return worklog.WorkLog{}, fmt.Errorf("commit transaction: %w", err)
	}

	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkLog(row rowScanner) (worklog.WorkLog, error) {
	var (
		w            worklog.WorkLog
		clockOutTime sql.NullString
		orders       string
		createdAt    string
		updatedAt    string
	)

	if err := row.Scan(&w.EmployeeID, &w.ClockInTime, &clockOutTime, &orders, &w.Version, &createdAt, &updatedAt); err != nil {
		return worklog.WorkLog{}, err
	}

	if clockOutTime.Valid {
		w.ClockOutTime = &clockOutTime.String
	}

	w.WorkOrders = []worklog.WorkOrder{}
	if orders != "" {
		if err := json.Unmarshal([]byte(orders), &w.WorkOrders); err != nil {
			return worklog.WorkLog{}, fmt.Errorf("decode work orders: %w", err)
		}
	}
	w.CreatedAt = parseTimestamp(createdAt)
	w.UpdatedAt = parseTimestamp(updatedAt)

	return w, nil
}

// parseTimestamp reads CURRENT_TIMESTAMP text, or the RFC 3339 form the driver
// produces for DATETIME columns.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
