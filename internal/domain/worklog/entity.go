package worklog

import "time"

// WorkLog is one shift: a clock-in to clock-out period of an employee.
// (EmployeeID, ClockInTime) is its natural key.
type WorkLog struct {
	EmployeeID   string
	ClockInTime  string
	ClockOutTime *string
	WorkOrders   []WorkOrder
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOpen reports whether the shift has no recorded clock-out.
func (w WorkLog) IsOpen() bool {
	return w.ClockOutTime == nil
}

// WorkOrder is a job interval logged against the shift that owns it.
type WorkOrder struct {
	OrderNum  string `json:"orderNum"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ClockState int

const (
	// ClockStateUnknown means the engine has not reconciled with the store yet.
	ClockStateUnknown ClockState = iota
	ClockStateNotClockedIn
	ClockStateClockedIn
)

func (s ClockState) String() string {
	switch s {
	case ClockStateNotClockedIn:
		return "not_clocked_in"
	case ClockStateClockedIn:
		return "clocked_in"
	default:
		return "unknown"
	}
}

// EmployeeClock is the cached clock state of one employee.
type EmployeeClock struct {
	State       ClockState
	ClockInTime string
}
