package worklog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/keylock"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/sse"
)

// User-facing messages of PersistenceError.
const (
	msgClockStatus = "Error retrieving clock status"
	msgClockIn     = "Error initializing new work log"
	msgClockOut    = "Error clocking out"
	msgResolve     = "Error determining shift corresponding with job start and end time"
	msgWorkOrder   = "Error submitting work order"
)

type WorkLogServiceImpl struct {
	worklog.WorkLogRepository
	hub   *sse.Hub
	locks *keylock.KeyLock

	mu     sync.Mutex
	clocks map[string]worklog.EmployeeClock
}

func NewWorkLogService(workLogRepo worklog.WorkLogRepository, hub *sse.Hub) worklog.WorkLogService {
	return &WorkLogServiceImpl{
		WorkLogRepository: workLogRepo,
		hub:               hub,
		locks:             keylock.New(),
		clocks:            make(map[string]worklog.EmployeeClock),
	}
}

func employeeKey(employeeID string) string {
	return "employee:" + employeeID
}

func shiftKey(employeeID, clockInTime string) string {
	return "shift:" + employeeID + "\x00" + clockInTime
}

func (s *WorkLogServiceImpl) cached(employeeID string) worklog.EmployeeClock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clocks[employeeID]
}

func (s *WorkLogServiceImpl) setCached(employeeID string, clock worklog.EmployeeClock) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if clock.State == worklog.ClockStateUnknown {
		delete(s.clocks, employeeID)
		return
	}
	s.clocks[employeeID] = clock
}

func (s *WorkLogServiceImpl) publish(employeeID, event string, w worklog.WorkLog) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(employeeID, event, worklog.ToResponse(w))
}

// QueryOpenShift implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) QueryOpenShift(ctx context.Context, employeeID string) (*worklog.WorkLog, error) {
	open, err := s.WorkLogRepository.List(ctx, employeeID, worklog.ListFilter{
		ClockOutAbsent: true,
		Sort:           worklog.SortDesc,
		Limit:          1,
	})
	if err != nil {
		slog.Error("Failed to query open shift", "employee_id", employeeID, "error", err)
		return nil, worklog.NewPersistenceError("query_open_shift", msgClockStatus, err)
	}
	if len(open) == 0 {
		return nil, nil
	}
	return &open[0], nil
}

// Reconcile implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) Reconcile(ctx context.Context, employeeID string) (worklog.ClockStatusResponse, error) {
	clock, err := s.reconcile(ctx, employeeID)
	if err != nil {
		return worklog.ClockStatusResponse{}, err
	}

	resp := worklog.ClockStatusResponse{
		EmployeeID: employeeID,
		State:      clock.State.String(),
		ClockedIn:  clock.State == worklog.ClockStateClockedIn,
	}
	if resp.ClockedIn {
		clockInTime := clock.ClockInTime
		resp.ClockInTime = &clockInTime
	}
	return resp, nil
}

func (s *WorkLogServiceImpl) reconcile(ctx context.Context, employeeID string) (worklog.EmployeeClock, error) {
	open, err := s.QueryOpenShift(ctx, employeeID)
	if err != nil {
		s.setCached(employeeID, worklog.EmployeeClock{})
		return worklog.EmployeeClock{}, err
	}

	clock := worklog.EmployeeClock{State: worklog.ClockStateNotClockedIn}
	if open != nil {
		clock = worklog.EmployeeClock{State: worklog.ClockStateClockedIn, ClockInTime: open.ClockInTime}
	}
	s.setCached(employeeID, clock)
	return clock, nil
}

// currentClock returns the cached state, reconciling first when it is unknown.
func (s *WorkLogServiceImpl) currentClock(ctx context.Context, employeeID string) (worklog.EmployeeClock, error) {
	clock := s.cached(employeeID)
	if clock.State != worklog.ClockStateUnknown {
		return clock, nil
	}
	return s.reconcile(ctx, employeeID)
}

// ClockIn implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) ClockIn(ctx context.Context, req worklog.ClockInRequest) (worklog.WorkLogResponse, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogResponse{}, err
	}

	unlock := s.locks.Lock(employeeKey(req.EmployeeID))
	defer unlock()

	clock, err := s.currentClock(ctx, req.EmployeeID)
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}
	if clock.State == worklog.ClockStateClockedIn {
		return worklog.WorkLogResponse{}, worklog.ErrAlreadyClockedIn
	}

	created, err := s.WorkLogRepository.Create(ctx, worklog.WorkLog{
		EmployeeID:  req.EmployeeID,
		ClockInTime: req.ClockInTime,
	})
	if err != nil {
		slog.Error("Failed to create work log", "employee_id", req.EmployeeID, "clock_in_time", req.ClockInTime, "error", err)
		pErr := worklog.NewPersistenceError("clock_in", msgClockIn, err)
		if pErr.IsConflict() {
			// Another session may have clocked in; re-read on the next call.
			s.setCached(req.EmployeeID, worklog.EmployeeClock{})
		}
		return worklog.WorkLogResponse{}, pErr
	}

	s.setCached(req.EmployeeID, worklog.EmployeeClock{State: worklog.ClockStateClockedIn, ClockInTime: created.ClockInTime})
	s.publish(req.EmployeeID, sse.EventWorkLogCreated, created)

	slog.Info("Employee clocked in", "employee_id", req.EmployeeID, "clock_in_time", created.ClockInTime)
	return worklog.ToResponse(created), nil
}

// ClockOut implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) ClockOut(ctx context.Context, req worklog.ClockOutRequest) (worklog.WorkLogResponse, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogResponse{}, err
	}

	unlock := s.locks.Lock(employeeKey(req.EmployeeID))
	defer unlock()

	clock, err := s.currentClock(ctx, req.EmployeeID)
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}
	if clock.State != worklog.ClockStateClockedIn {
		return worklog.WorkLogResponse{}, worklog.ErrNotClockedIn
	}
	if req.ClockInTime != "" && req.ClockInTime != clock.ClockInTime {
		return worklog.WorkLogResponse{}, worklog.ErrClockInMismatch
	}

	unlockShift := s.locks.Lock(shiftKey(req.EmployeeID, clock.ClockInTime))
	defer unlockShift()

	shift, err := s.WorkLogRepository.Get(ctx, req.EmployeeID, clock.ClockInTime)
	if err != nil {
		slog.Error("Failed to read shift for clock out", "employee_id", req.EmployeeID, "clock_in_time", clock.ClockInTime, "error", err)
		s.setCached(req.EmployeeID, worklog.EmployeeClock{})
		return worklog.WorkLogResponse{}, worklog.NewPersistenceError("clock_out", msgClockOut, err)
	}
	if !shift.IsOpen() {
		s.setCached(req.EmployeeID, worklog.EmployeeClock{})
		return worklog.WorkLogResponse{}, worklog.ErrNotClockedIn
	}

	clockOutTime := req.ClockOutTime
	updated, err := s.WorkLogRepository.Update(ctx, worklog.UpdateInput{
		EmployeeID:      req.EmployeeID,
		ClockInTime:     clock.ClockInTime,
		ClockOutTime:    &clockOutTime,
		ExpectedVersion: &shift.Version,
	})
	if err != nil {
		slog.Error("Failed to clock out", "employee_id", req.EmployeeID, "clock_in_time", clock.ClockInTime, "error", err)
		s.setCached(req.EmployeeID, worklog.EmployeeClock{})
		return worklog.WorkLogResponse{}, worklog.NewPersistenceError("clock_out", msgClockOut, err)
	}

	s.setCached(req.EmployeeID, worklog.EmployeeClock{State: worklog.ClockStateNotClockedIn})
	s.publish(req.EmployeeID, sse.EventWorkLogUpdated, updated)

	slog.Info("Employee clocked out", "employee_id", req.EmployeeID, "clock_in_time", clock.ClockInTime, "clock_out_time", clockOutTime)
	return worklog.ToResponse(updated), nil
}

// ResolveShift implements worklog.WorkLogService. The shift's clock-out time
// is not checked: a reference time after clock-out still resolves to it.
func (s *WorkLogServiceImpl) ResolveShift(ctx context.Context, employeeID string, referenceTime string) (string, error) {
	candidates, err := s.WorkLogRepository.List(ctx, employeeID, worklog.ListFilter{
		ClockInAtOrBefore: &referenceTime,
		Sort:              worklog.SortDesc,
		Limit:             1,
	})
	if err != nil {
		slog.Error("Failed to resolve shift", "employee_id", employeeID, "reference_time", referenceTime, "error", err)
		return "", worklog.NewPersistenceError("resolve_shift", msgResolve, err)
	}
	if len(candidates) == 0 {
		return "", worklog.ErrShiftResolution
	}
	return candidates[0].ClockInTime, nil
}

// AddWorkOrder implements worklog.WorkLogService.
func (s *WorkLogServiceImpl) AddWorkOrder(ctx context.Context, req worklog.AddWorkOrderRequest) (worklog.WorkLogResponse, error) {
	if err := req.Validate(); err != nil {
		return worklog.WorkLogResponse{}, err
	}

	clockInTime, err := s.ResolveShift(ctx, req.EmployeeID, req.StartTime)
	if err != nil {
		return worklog.WorkLogResponse{}, err
	}

	unlock := s.locks.Lock(shiftKey(req.EmployeeID, clockInTime))
	defer unlock()

	shift, err := s.WorkLogRepository.Get(ctx, req.EmployeeID, clockInTime)
	if err != nil {
		slog.Error("Failed to retrieve shift", "employee_id", req.EmployeeID, "clock_in_time", clockInTime, "error", err)
		return worklog.WorkLogResponse{}, fmt.Errorf("shift %s: %w", clockInTime, worklog.ErrShiftNotFound)
	}

	orders := make([]worklog.WorkOrder, 0, len(shift.WorkOrders)+1)
	orders = append(orders, shift.WorkOrders...)
	orders = append(orders, worklog.WorkOrder{
		OrderNum:  req.OrderNum,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})

	updated, err := s.WorkLogRepository.Update(ctx, worklog.UpdateInput{
		EmployeeID:      req.EmployeeID,
		ClockInTime:     clockInTime,
		WorkOrders:      orders,
		ExpectedVersion: &shift.Version,
	})
	if err != nil {
		slog.Error("Failed to submit work order", "employee_id", req.EmployeeID, "clock_in_time", clockInTime, "order_num", req.OrderNum, "error", err)
		return worklog.WorkLogResponse{}, worklog.NewPersistenceError("add_work_order", msgWorkOrder, err)
	}

	s.publish(req.EmployeeID, sse.EventWorkLogUpdated, updated)

	return worklog.ToResponse(updated), nil
}
