package worklog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/worklog-backend-go/internal/repository/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEmployeeID = "emp-1"

func newTestRepo(t *testing.T) worklog.WorkLogRepository {
	t.Helper()

	db, err := database.NewSQLiteDB(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateSQLite(db, database.Up))

	_, err = db.Exec(`INSERT INTO employees (employee_id, employee_username) VALUES ('emp-1', 'janedoe')`)
	require.NoError(t, err)

	return sqlite.NewWorkLogRepository(db)
}

// flakyRepo fails the selected operations and delegates the rest.
type flakyRepo struct {
	worklog.WorkLogRepository
	mu         sync.Mutex
	failList   bool
	failCreate error
	failUpdate error
	updates    int
}

var errStoreDown = errors.New("store unavailable")

func (f *flakyRepo) List(ctx context.Context, employeeID string, filter worklog.ListFilter) ([]worklog.WorkLog, error) {
	if f.failList {
		return nil, errStoreDown
	}
	return f.WorkLogRepository.List(ctx, employeeID, filter)
}

func (f *flakyRepo) Create(ctx context.Context, w worklog.WorkLog) (worklog.WorkLog, error) {
	if f.failCreate != nil {
		return worklog.WorkLog{}, f.failCreate
	}
	return f.WorkLogRepository.Create(ctx, w)
}

func (f *flakyRepo) Update(ctx context.Context, input worklog.UpdateInput) (worklog.WorkLog, error) {
	f.mu.Lock()
	f.updates++
	f.mu.Unlock()
	if f.failUpdate != nil {
		return worklog.WorkLog{}, f.failUpdate
	}
	return f.WorkLogRepository.Update(ctx, input)
}

func clockIn(t *testing.T, svc worklog.WorkLogService, at string) {
	t.Helper()
	_, err := svc.ClockIn(context.Background(), worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: at})
	require.NoError(t, err)
}

func clockOut(t *testing.T, svc worklog.WorkLogService, at string) {
	t.Helper()
	_, err := svc.ClockOut(context.Background(), worklog.ClockOutRequest{EmployeeID: testEmployeeID, ClockOutTime: at})
	require.NoError(t, err)
}

func TestClockInClockOut(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkLogService(newTestRepo(t), sse.NewHub(0))

	status, err := svc.Reconcile(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.False(t, status.ClockedIn)
	assert.Equal(t, "not_clocked_in", status.State)

	resp, err := svc.ClockIn(ctx, worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-01-01 08:00:00"})
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01 08:00:00", resp.ClockInTime)
	assert.Nil(t, resp.ClockOutTime)

	_, err = svc.ClockIn(ctx, worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-01-01 09:00:00"})
	assert.ErrorIs(t, err, worklog.ErrAlreadyClockedIn)

	status, err = svc.Reconcile(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.True(t, status.ClockedIn)
	require.NotNil(t, status.ClockInTime)
	assert.Equal(t, "2023-01-01 08:00:00", *status.ClockInTime)

	_, err = svc.ClockOut(ctx, worklog.ClockOutRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-01-01 07:00:00", ClockOutTime: "2023-01-01 12:00:00"})
	assert.ErrorIs(t, err, worklog.ErrClockInMismatch)

	out, err := svc.ClockOut(ctx, worklog.ClockOutRequest{EmployeeID: testEmployeeID, ClockOutTime: "2023-01-01 12:00:00"})
	require.NoError(t, err)
	require.NotNil(t, out.ClockOutTime)
	assert.Equal(t, "2023-01-01 12:00:00", *out.ClockOutTime)

	_, err = svc.ClockOut(ctx, worklog.ClockOutRequest{EmployeeID: testEmployeeID, ClockOutTime: "2023-01-01 13:00:00"})
	assert.ErrorIs(t, err, worklog.ErrNotClockedIn)

	open, err := svc.QueryOpenShift(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Nil(t, open)
}

func TestReconcile_RecoversOpenShiftAcrossSessions(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := NewWorkLogService(repo, nil)
	clockIn(t, first, "2023-01-01 08:00:00")

	// A fresh engine, such as another device, learns the open shift from the store.
	second := NewWorkLogService(repo, nil)
	status, err := second.Reconcile(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.True(t, status.ClockedIn)

	clockOut(t, second, "2023-01-01 12:00:00")

	// The first engine still caches the closed shift as open.
	_, err = first.ClockOut(ctx, worklog.ClockOutRequest{EmployeeID: testEmployeeID, ClockOutTime: "2023-01-01 12:30:00"})
	assert.ErrorIs(t, err, worklog.ErrNotClockedIn)

	status, err = first.Reconcile(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.False(t, status.ClockedIn)
}

func TestClockIn_Validation(t *testing.T) {
	svc := NewWorkLogService(newTestRepo(t), nil)

	_, err := svc.ClockIn(context.Background(), worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-02-30 08:00:00"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "Clock in time must be a valid time", verrs.ToMap()["clock_in_time"])
}

func TestClockIn_PersistenceError(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepo{WorkLogRepository: newTestRepo(t), failCreate: errStoreDown}
	svc := NewWorkLogService(repo, nil)

	_, err := svc.ClockIn(ctx, worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-01-01 08:00:00"})
	require.ErrorIs(t, err, worklog.ErrPersistence)

	var pErr *worklog.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "Error initializing new work log", pErr.Message)
	assert.False(t, pErr.IsConflict())

	status, err := svc.Reconcile(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.False(t, status.ClockedIn, "state only changes after the store confirms")
}

func TestClockIn_DuplicateKeyIsConflict(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	svc := NewWorkLogService(repo, nil)

	clockIn(t, svc, "2023-01-01 08:00:00")
	clockOut(t, svc, "2023-01-01 12:00:00")

	_, err := svc.ClockIn(ctx, worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-01-01 08:00:00"})
	var pErr *worklog.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.True(t, pErr.IsConflict())
}

func TestClockOut_FailureDropsCachedState(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepo{WorkLogRepository: newTestRepo(t)}
	svc := NewWorkLogService(repo, nil)

	clockIn(t, svc, "2023-01-01 08:00:00")

	repo.failUpdate = errStoreDown
	_, err := svc.ClockOut(ctx, worklog.ClockOutRequest{EmployeeID: testEmployeeID, ClockOutTime: "2023-01-01 12:00:00"})
	var pErr *worklog.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "Error clocking out", pErr.Message)

	// The next call reconciles with the store, where the shift is still open.
	repo.failUpdate = nil
	clockOut(t, svc, "2023-01-01 12:00:00")
}

func TestQueryOpenShift_StoreFailure(t *testing.T) {
	repo := &flakyRepo{WorkLogRepository: newTestRepo(t), failList: true}
	svc := NewWorkLogService(repo, nil)

	_, err := svc.QueryOpenShift(context.Background(), testEmployeeID)
	assert.ErrorIs(t, err, worklog.ErrPersistence)

	_, err = svc.ClockIn(context.Background(), worklog.ClockInRequest{EmployeeID: testEmployeeID, ClockInTime: "2023-01-01 08:00:00"})
	assert.ErrorIs(t, err, worklog.ErrPersistence)
}

func TestResolveShift(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkLogService(newTestRepo(t), nil)

	_, err := svc.ResolveShift(ctx, testEmployeeID, "2023-01-01 07:00:00")
	assert.ErrorIs(t, err, worklog.ErrShiftResolution)

	clockIn(t, svc, "2023-01-01 08:00:00")
	clockOut(t, svc, "2023-01-01 12:00:00")
	clockIn(t, svc, "2023-01-01 13:00:00")
	clockOut(t, svc, "2023-01-01 13:30:00")

	cases := []struct {
		reference string
		want      string
	}{
		{"2023-01-01 08:00:00", "2023-01-01 08:00:00"},
		{"2023-01-01 12:59:59", "2023-01-01 08:00:00"},
		{"2023-01-01 13:00:00", "2023-01-01 13:00:00"},
		// After the 13:00 shift closed; still resolves to it.
		{"2023-01-01 14:00:00", "2023-01-01 13:00:00"},
	}
	for _, c := range cases {
		got, err := svc.ResolveShift(ctx, testEmployeeID, c.reference)
		require.NoError(t, err)
		assert.Equal(t, c.want, got, "reference %s", c.reference)
	}

	_, err = svc.ResolveShift(ctx, testEmployeeID, "2023-01-01 07:59:59")
	assert.ErrorIs(t, err, worklog.ErrShiftResolution)
}

func TestAddWorkOrder_AppendsPreservingOrder(t *testing.T) {
	ctx := context.Background()
	hub := sse.NewHub(4)
	svc := NewWorkLogService(newTestRepo(t), hub)

	clockIn(t, svc, "2023-01-01 08:00:00")

	events, cleanup := hub.Subscribe(testEmployeeID)
	defer cleanup()

	first := worklog.AddWorkOrderRequest{EmployeeID: testEmployeeID, OrderNum: "A100", StartTime: "2023-01-01 08:15:00", EndTime: "2023-01-01 08:45:00"}
	_, err := svc.AddWorkOrder(ctx, first)
	require.NoError(t, err)

	second := worklog.AddWorkOrderRequest{EmployeeID: testEmployeeID, OrderNum: "B200", StartTime: "2023-01-01 09:00:00", EndTime: "2023-01-01 10:00:00"}
	resp, err := svc.AddWorkOrder(ctx, second)
	require.NoError(t, err)

	require.Len(t, resp.WorkOrders, 2)
	assert.Equal(t, worklog.WorkOrderResponse{OrderNum: "A100", StartTime: "2023-01-01 08:15:00", EndTime: "2023-01-01 08:45:00"}, resp.WorkOrders[0])
	assert.Equal(t, worklog.WorkOrderResponse{OrderNum: "B200", StartTime: "2023-01-01 09:00:00", EndTime: "2023-01-01 10:00:00"}, resp.WorkOrders[1])

	for i := 0; i < 2; i++ {
		select {
		case ev := <-events:
			assert.Equal(t, sse.EventWorkLogUpdated, ev.Event)
		case <-time.After(time.Second):
			t.Fatal("expected a work log update event")
		}
	}
}

func TestAddWorkOrder_DuplicateOrderNumbersAllowed(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkLogService(newTestRepo(t), nil)
	clockIn(t, svc, "2023-01-01 08:00:00")

	req := worklog.AddWorkOrderRequest{EmployeeID: testEmployeeID, OrderNum: "A1", StartTime: "2023-01-01 09:00:00", EndTime: "2023-01-01 09:00:00"}
	_, err := svc.AddWorkOrder(ctx, req)
	require.NoError(t, err)
	resp, err := svc.AddWorkOrder(ctx, req)
	require.NoError(t, err)
	assert.Len(t, resp.WorkOrders, 2)
}

func TestAddWorkOrder_StartAfterEndNeverTouchesStore(t *testing.T) {
	repo := &flakyRepo{WorkLogRepository: newTestRepo(t), failList: true}
	svc := NewWorkLogService(repo, nil)

	_, err := svc.AddWorkOrder(context.Background(), worklog.AddWorkOrderRequest{
		EmployeeID: testEmployeeID,
		OrderNum:   "A1",
		StartTime:  "2023-01-01 10:00:01",
		EndTime:    "2023-01-01 10:00:00",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "End time must be on or after start time", verrs.ToMap()["end_time"])
	assert.Zero(t, repo.updates)
}

func TestAddWorkOrder_NoShift(t *testing.T) {
	svc := NewWorkLogService(newTestRepo(t), nil)

	_, err := svc.AddWorkOrder(context.Background(), worklog.AddWorkOrderRequest{
		EmployeeID: testEmployeeID,
		OrderNum:   "A1",
		StartTime:  "2023-01-01 09:00:00",
		EndTime:    "2023-01-01 10:00:00",
	})
	assert.ErrorIs(t, err, worklog.ErrShiftResolution)
}

func TestAddWorkOrder_PersistenceError(t *testing.T) {
	ctx := context.Background()
	repo := &flakyRepo{WorkLogRepository: newTestRepo(t)}
	svc := NewWorkLogService(repo, nil)
	clockIn(t, svc, "2023-01-01 08:00:00")

	repo.failUpdate = worklog.ErrVersionConflict
	_, err := svc.AddWorkOrder(ctx, worklog.AddWorkOrderRequest{
		EmployeeID: testEmployeeID,
		OrderNum:   "A1",
		StartTime:  "2023-01-01 09:00:00",
		EndTime:    "2023-01-01 10:00:00",
	})
	var pErr *worklog.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "Error submitting work order", pErr.Message)
	assert.True(t, pErr.IsConflict())
}

func TestAddWorkOrder_ConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	svc := NewWorkLogService(newTestRepo(t), nil)
	clockIn(t, svc, "2023-01-01 08:00:00")

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddWorkOrder(ctx, worklog.AddWorkOrderRequest{
				EmployeeID: testEmployeeID,
				OrderNum:   "A1",
				StartTime:  "2023-01-01 09:00:00",
				EndTime:    "2023-01-01 10:00:00",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	open, err := svc.QueryOpenShift(ctx, testEmployeeID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Len(t, open.WorkOrders, n)
	assert.Equal(t, n+1, open.Version)
}
