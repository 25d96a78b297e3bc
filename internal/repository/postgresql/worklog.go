package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

const workLogColumns = `employee_id, clock_in_time, clock_out_time, work_orders, version, created_at, updated_at`

type workLogRepositoryImpl struct {
	db database.Pool
}

func NewWorkLogRepository(db database.Pool) worklog.WorkLogRepository {
	return &workLogRepositoryImpl{db: db}
}

// Get implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Get(ctx context.Context, employeeID string, clockInTime string) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + workLogColumns + `
		FROM work_logs
		WHERE employee_id = $1 AND clock_in_time = $2
	`

	found, err := scanWorkLog(q.QueryRow(ctx, query, employeeID, clockInTime))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return worklog.WorkLog{}, fmt.Errorf("work log %s/%s: %w", employeeID, clockInTime, worklog.ErrWorkLogNotFound)
		}
		return worklog.WorkLog{}, fmt.Errorf("failed to get work log %s/%s: %w", employeeID, clockInTime, err)
	}

	return found, nil
}

// List implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) List(ctx context.Context, employeeID string, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	args := []interface{}{employeeID}
	baseWhere := "WHERE employee_id = $1"
	argIdx := 2

	if filter.ClockOutAbsent {
		baseWhere += " AND clock_out_time IS NULL"
	}
	if filter.ClockInFrom != nil {
		baseWhere += fmt.Sprintf(" AND clock_in_time >= $%d", argIdx)
		args = append(args, *filter.ClockInFrom)
		argIdx++
	}
	if filter.ClockInTo != nil {
		baseWhere += fmt.Sprintf(" AND clock_in_time < $%d", argIdx)
		args = append(args, *filter.ClockInTo)
		argIdx++
	}
	if filter.ClockInAtOrBefore != nil {
		baseWhere += fmt.Sprintf(" AND clock_in_time <= $%d", argIdx)
		args = append(args, *filter.ClockInAtOrBefore)
		argIdx++
	}

	sortOrder := worklog.SortAsc
	if filter.Sort == worklog.SortDesc {
		sortOrder = worklog.SortDesc
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM work_logs
		%s
		ORDER BY clock_in_time %s`, workLogColumns, baseWhere, sortOrder)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, filter.Limit)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list work logs for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	workLogs := []worklog.WorkLog{}
	for rows.Next() {
		w, err := scanWorkLog(rows)
		if err != nil {
			return nil, err
		}
		workLogs = append(workLogs, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return workLogs, nil
}

// Create implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Create(ctx context.Context, newWorkLog worklog.WorkLog) (worklog.WorkLog, error) {
	q := GetQuerier(ctx, r.db)

	orders, err := encodeWorkOrders(newWorkLog.WorkOrders)
	if err != nil {
		return worklog.WorkLog{}, err
	}
	if orders == nil {
		orders = []byte("[]")
	}

	query := `
		INSERT INTO work_logs (employee_id, clock_in_time, clock_out_time, work_orders)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + workLogColumns

	created, err := scanWorkLog(q.QueryRow(ctx, query,
		newWorkLog.EmployeeID, newWorkLog.ClockInTime, newWorkLog.ClockOutTime, orders,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return worklog.WorkLog{}, fmt.Errorf("work log %s/%s: %w", newWorkLog.EmployeeID, newWorkLog.ClockInTime, worklog.ErrWorkLogExists)
		}
		return worklog.WorkLog{}, fmt.Errorf("failed to create work log %s/%s: %w", newWorkLog.EmployeeID, newWorkLog.ClockInTime, err)
	}

	return created, nil
}

// Update implements worklog.WorkLogRepository.
func (r *workLogRepositoryImpl) Update(ctx context.Context, input worklog.UpdateInput) (worklog.WorkLog, error) {
	orders, err := encodeWorkOrders(input.WorkOrders)
	if err != nil {
		return worklog.WorkLog{}, err
	}

	query := `
		UPDATE work_logs
		SET clock_out_time = COALESCE($3, clock_out_time),
			work_orders = COALESCE($4, work_orders),
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $1 AND clock_in_time = $2
			AND ($5::INTEGER IS NULL OR version = $5)
		RETURNING ` + workLogColumns

	var updated worklog.WorkLog
	err = WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var scanErr error
		updated, scanErr = scanWorkLog(q.QueryRow(ctx, query,
			input.EmployeeID, input.ClockInTime, input.ClockOutTime, orders, input.ExpectedVersion,
		))
		if scanErr == nil {
			return nil
		}
		if !errors.Is(scanErr, pgx.ErrNoRows) {
			return fmt.Errorf("failed to update work log %s/%s: %w", input.EmployeeID, input.ClockInTime, scanErr)
		}

		var exists bool
		existsQuery := `SELECT EXISTS(SELECT 1 FROM work_logs WHERE employee_id = $1 AND clock_in_time = $2)`
		if err := q.QueryRow(ctx, existsQuery, input.EmployeeID, input.ClockInTime).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check work log %s/%s: %w", input.EmployeeID, input.ClockInTime, err)
		}
		if exists {
			return fmt.Errorf("work log %s/%s: %w", input.EmployeeID, input.ClockInTime, worklog.ErrVersionConflict)
		}
		return fmt.Errorf("work log %s/%s: %w", input.EmployeeID, input.ClockInTime, worklog.ErrWorkLogNotFound)
	})
	if err != nil {
		return worklog.WorkLog{}, err
	}

	return updated, nil
}

func scanWorkLog(row pgx.Row) (worklog.WorkLog, error) {
	var (
		w            worklog.WorkLog
		clockOutTime sql.NullString
		orders       []byte
	)

	if err := row.Scan(
		&w.EmployeeID, &w.ClockInTime, &clockOutTime, &orders,
		&w.Version, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return worklog.WorkLog{}, err
	}

	if clockOutTime.Valid {
		w.ClockOutTime = &clockOutTime.String
	}

	decoded, err := decodeWorkOrders(orders)
	if err != nil {
		return worklog.WorkLog{}, err
	}
	w.WorkOrders = decoded

	return w, nil
}

// encodeWorkOrders returns nil for a nil slice so the column is left unchanged on update.
func encodeWorkOrders(orders []worklog.WorkOrder) ([]byte, error) {
	if orders == nil {
		return nil, nil
	}
	b, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("encode work orders: %w", err)
	}
	return b, nil
}

func decodeWorkOrders(b []byte) ([]worklog.WorkOrder, error) {
	orders := []worklog.WorkOrder{}
	if len(b) == 0 {
		return orders, nil
	}
	if err := json.Unmarshal(b, &orders); err != nil {
		return nil, fmt.Errorf("decode work orders: %w", err)
	}
	return orders, nil
}
