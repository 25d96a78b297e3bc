package report

import (
	"fmt"
	"math"

	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/worklog"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/validator"
)

const efficiencyNotAvailable = "N/A"

// secondsBetween returns end-start in seconds, and false when either
// timestamp is not a valid YYYY-MM-DD HH:mm:ss string.
func secondsBetween(start, end string) (int64, bool) {
	if !validator.IsValidInstant(start, validator.DateTimeFormat) || !validator.IsValidInstant(end, validator.DateTimeFormat) {
		return 0, false
	}
	d := validator.ToInstant(end, validator.DateTimeFormat).Sub(validator.ToInstant(start, validator.DateTimeFormat))
	return int64(d.Seconds()), true
}

// TotalClockedSeconds sums the duration of closed shifts. Open shifts add nothing.
func TotalClockedSeconds(shifts []worklog.WorkLog) int64 {
	var total int64
	for _, s := range shifts {
		if s.ClockOutTime == nil {
			continue
		}
		if secs, ok := secondsBetween(s.ClockInTime, *s.ClockOutTime); ok {
			total += secs
		}
	}
	return total
}

// TotalWorkOrderSeconds sums the duration of every work order of every shift.
func TotalWorkOrderSeconds(shifts []worklog.WorkLog) int64 {
	var total int64
	for _, s := range shifts {
		for _, o := range s.WorkOrders {
			if secs, ok := secondsBetween(o.StartTime, o.EndTime); ok {
				total += secs
			}
		}
	}
	return total
}

// Efficiency formats work/clocked as a percentage with one decimal, or "N/A"
// when nothing was clocked.
func Efficiency(workOrderSeconds, clockedSeconds int64) string {
	if clockedSeconds == 0 {
		return efficiencyNotAvailable
	}
	pct := math.Round(float64(workOrderSeconds)/float64(clockedSeconds)*1000) / 10
	return fmt.Sprintf("%.1f%%", pct)
}

func secondsToHours(secs int64) float64 {
	return math.Round(float64(secs)/3600*10) / 10
}

// Aggregate computes the report totals of a set of shifts.
func Aggregate(shifts []worklog.WorkLog) report.Totals {
	clocked := TotalClockedSeconds(shifts)
	work := TotalWorkOrderSeconds(shifts)

	return report.Totals{
		TotalClockedSeconds:   clocked,
		TotalWorkOrderSeconds: work,
		TotalWorkHours:        secondsToHours(clocked),
		TotalJobHours:         secondsToHours(work),
		Efficiency:            Efficiency(work, clocked),
	}
}
