package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.MigrateSQLite(db, database.Up))

	_, err = db.Exec(`INSERT INTO employees (employee_id, employee_username) VALUES
		('emp-1', 'janedoe'),
		('emp-2', 'johndoe'),
		('emp-3', 'johndoe')`)
	require.NoError(t, err)

	return db
}

func strPtr(s string) *string { return &s }

func TestWorkLogRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkLogRepository(setupTestDB(t))

	created, err := repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-1", ClockInTime: "2023-01-01 08:00:00"})
	require.NoError(t, err)
	assert.True(t, created.IsOpen())
	assert.Equal(t, 1, created.Version)
	assert.Empty(t, created.WorkOrders)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.Get(ctx, "emp-1", "2023-01-01 08:00:00")
	require.NoError(t, err)
	assert.Equal(t, created.ClockInTime, got.ClockInTime)
	assert.True(t, got.IsOpen())

	_, err = repo.Get(ctx, "emp-1", "2023-01-01 09:00:00")
	assert.ErrorIs(t, err, worklog.ErrWorkLogNotFound)
}

func TestWorkLogRepository_Create_Duplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkLogRepository(setupTestDB(t))

	closed := "2023-01-01 12:00:00"
	_, err := repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-1", ClockInTime: "2023-01-01 08:00:00", ClockOutTime: &closed})
	require.NoError(t, err)

	_, err = repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-1", ClockInTime: "2023-01-01 08:00:00"})
	assert.ErrorIs(t, err, worklog.ErrWorkLogExists)
}

func TestWorkLogRepository_Create_SecondOpenShift(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkLogRepository(setupTestDB(t))

	_, err := repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-1", ClockInTime: "2023-01-01 08:00:00"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-1", ClockInTime: "2023-01-01 13:00:00"})
	assert.ErrorIs(t, err, worklog.ErrWorkLogExists)

	_, err = repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-2", ClockInTime: "2023-01-01 13:00:00"})
	assert.NoError(t, err)
}

func TestWorkLogRepository_UpdateAppendsAndVersions(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkLogRepository(setupTestDB(t))

	created, err := repo.Create(ctx, worklog.WorkLog{EmployeeID: "emp-1", ClockInTime: "2023-01-01 08:00:00"})
	require.NoError(t, err)

	orders := []worklog.WorkOrder{{OrderNum: "A1", StartTime: "2023-01-01 09:00:00", EndTime: "2023-01-01 10:00:00"}}
	updated, err := repo.Update(ctx, worklog.UpdateInput{
		EmployeeID:      "emp-1",
		ClockInTime:     "2023-01-01 08:00:00",
		WorkOrders:      orders,
		ExpectedVersion: &created.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, orders, updated.WorkOrders)
	assert.Equal(t, 2, updated.Version)
	assert.True(t, updated.IsOpen())

	// Stale version.
	_, err = repo.Update(ctx, worklog.UpdateInput{
		EmployeeID:      "emp-1",
		ClockInTime:     "2023-01-01 08:00:00",
		ClockOutTime:    strPtr("2023-01-01 12:00:00"),
		ExpectedVersion: &created.Version,
	})
	assert.ErrorIs(t, err, worklog.ErrVersionConflict)

	// Unconditional clock-out keeps the work orders.
	closed, err := repo.Update(ctx, worklog.UpdateInput{
		EmployeeID:   "emp-1",
		ClockInTime:  "2023-01-01 08:00:00",
		ClockOutTime: strPtr("2023-01-01 12:00:00"),
	})
	require.NoError(t, err)
	require.NotNil(t, closed.ClockOutTime)
	assert.Equal(t, "2023-01-01 12:00:00", *closed.ClockOutTime)
	assert.Equal(t, orders, closed.WorkOrders)
	assert.Equal(t, 3, closed.Version)

	_, err = repo.Update(ctx, worklog.UpdateInput{
		EmployeeID:   "emp-1",
		ClockInTime:  "2023-01-02 08:00:00",
		ClockOutTime: strPtr("2023-01-02 12:00:00"),
	})
	assert.ErrorIs(t, err, worklog.ErrWorkLogNotFound)
}

func TestWorkLogRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkLogRepository(setupTestDB(t))

	for _, w := range []worklog.WorkLog{
		{EmployeeID: "emp-1", ClockInTime: "2023-01-08 08:00:00", ClockOutTime: strPtr("2023-01-08 12:00:00")},
		{EmployeeID: "emp-1", ClockInTime: "2023-01-09 08:00:00", ClockOutTime: strPtr("2023-01-09 12:00:00")},
		{EmployeeID: "emp-1", ClockInTime: "2023-01-09 13:00:00"},
		{EmployeeID: "emp-1", ClockInTime: "2023-01-10 08:00:00", ClockOutTime: strPtr("2023-01-10 12:00:00")},
		{EmployeeID: "emp-2", ClockInTime: "2023-01-09 08:00:00"},
	} {
		_, err := repo.Create(ctx, w)
		require.NoError(t, err)
	}

	t.Run("open shift", func(t *testing.T) {
		logs, err := repo.List(ctx, "emp-1", worklog.ListFilter{ClockOutAbsent: true, Sort: worklog.SortDesc, Limit: 1})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "2023-01-09 13:00:00", logs[0].ClockInTime)
	})

	t.Run("half-open day range", func(t *testing.T) {
		logs, err := repo.List(ctx, "emp-1", worklog.ListFilter{ClockInFrom: strPtr("2023-01-09"), ClockInTo: strPtr("2023-01-10")})
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "2023-01-09 08:00:00", logs[0].ClockInTime)
		assert.Equal(t, "2023-01-09 13:00:00", logs[1].ClockInTime)
	})

	t.Run("naive upper bound covers only the day", func(t *testing.T) {
		logs, err := repo.List(ctx, "emp-1", worklog.ListFilter{ClockInFrom: strPtr("2023-01-09"), ClockInTo: strPtr("2023-01-0:")})
		require.NoError(t, err)
		assert.Len(t, logs, 2, "bytewise, '2023-01-09 23:59:59' < '2023-01-0:' < '2023-01-10'")
	})

	t.Run("latest at or before", func(t *testing.T) {
		logs, err := repo.List(ctx, "emp-1", worklog.ListFilter{ClockInAtOrBefore: strPtr("2023-01-09 14:00:00"), Sort: worklog.SortDesc, Limit: 1})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "2023-01-09 13:00:00", logs[0].ClockInTime)
	})
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(setupTestDB(t))

	emp, err := repo.GetByID(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, employee.Employee{ID: "emp-1", Username: "janedoe"}, emp)

	_, err = repo.GetByID(ctx, "emp-9")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	emps, err := repo.ListByUsername(ctx, "johndoe")
	require.NoError(t, err)
	require.Len(t, emps, 2)
	assert.Equal(t, "emp-2", emps[0].ID)

	emps, err = repo.ListByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, emps)
}
