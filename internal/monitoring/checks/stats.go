package checks

import (
	"context"
	"time"

	"github.com/charlesng35/askai/internal/monitoring"
)

// RefreshRecorder exposes the outcome of the most recent stats refresh.
type RefreshRecorder interface {
	LastRefresh() (at time.Time, err error)
}

// Stats reports whether the query log statistics job is keeping up. A failed or
// stale refresh degrades readiness without taking the process out of rotation.
func Stats(recorder RefreshRecorder, maxAge time.Duration) monitoring.Check {
	return monitoring.NewCheck("query_log_stats", func(context.Context) monitoring.ProbeResult {
		if recorder == nil {
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "stats job disabled"}
		}

		at, err := recorder.LastRefresh()
		switch {
		case at.IsZero():
			return monitoring.ProbeResult{Status: monitoring.StatusUp, Details: "pending first run"}
		case err != nil:
			return monitoring.ProbeResult{Status: monitoring.StatusDegraded, Details: err.Error()}
		case maxAge > 0 && time.Since(at) > maxAge:
			return monitoring.ProbeResult{
				Status:  monitoring.StatusDegraded,
				Details: "stale run " + at.UTC().Format(time.RFC3339),
			}
		}
		return monitoring.ProbeResult{Status: monitoring.StatusUp}
	})
}
