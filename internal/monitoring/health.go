package monitoring

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProbeStatus encodes the outcome of a health probe.
type ProbeStatus string

const (
	StatusUp       ProbeStatus = "up"
	StatusDown     ProbeStatus = "down"
	StatusDegraded ProbeStatus = "degraded"
)

// ProbeResult captures a single dependency check outcome.
type ProbeResult struct {
	Component string        `json:"component"`
	Status    ProbeStatus   `json:"status"`
	Details   string        `json:"details,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// HealthReport aggregates probe results for a liveness or readiness evaluation.
type HealthReport struct {
	Success bool          `json:"success"`
	Status  ProbeStatus   `json:"status"`
	Checks  []ProbeResult `json:"checks"`
}

// Check is a named dependency probe.
type Check struct {
	Name string
	Run  func(ctx context.Context) ProbeResult
}

// NewCheck constructs a check. A nil probe always reports down.
func NewCheck(name string, fn func(ctx context.Context) ProbeResult) Check {
	if fn == nil {
		fn = func(context.Context) ProbeResult {
			return ProbeResult{Status: StatusDown, Details: "probe not implemented"}
		}
	}
	return Check{Name: name, Run: fn}
}

// HealthManager holds the liveness and readiness probes of the process.
type HealthManager struct {
	liveness  []Check
	readiness []Check
}

// NewHealthManager constructs an empty health manager.
func NewHealthManager() *HealthManager {
	return &HealthManager{}
}

// RegisterLiveness appends a liveness probe. Unnamed checks are ignored.
func (m *HealthManager) RegisterLiveness(check Check) {
	if check.Name != "" {
		m.liveness = append(m.liveness, check)
	}
}

// RegisterReadiness appends a readiness probe. Unnamed checks are ignored.
func (m *HealthManager) RegisterReadiness(check Check) {
	if check.Name != "" {
		m.readiness = append(m.readiness, check)
	}
}

// EvaluateLiveness runs every liveness probe.
func (m *HealthManager) EvaluateLiveness(ctx context.Context) HealthReport {
	return evaluate(ctx, m.liveness)
}

// EvaluateReadiness runs every readiness probe.
func (m *HealthManager) EvaluateReadiness(ctx context.Context) HealthReport {
	return evaluate(ctx, m.readiness)
}

func evaluate(ctx context.Context, checks []Check) HealthReport {
	report := HealthReport{
		Success: true,
		Status:  StatusUp,
		Checks:  make([]ProbeResult, 0, len(checks)),
	}

	for _, check := range checks {
		result := runCheck(ctx, check)
		report.Checks = append(report.Checks, result)
		report.Status = worse(report.Status, result.Status)
	}
	report.Success = report.Status == StatusUp
	return report
}

func runCheck(ctx context.Context, check Check) (result ProbeResult) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			result = ProbeResult{Status: StatusDown, Details: fmt.Sprint(rec)}
		}
		if result.Status == "" {
			result.Status = StatusDown
		}
		if result.Duration == 0 {
			result.Duration = time.Since(start)
		}
		result.Component = check.Name
	}()

	return check.Run(ctx)
}

func worse(a, b ProbeStatus) ProbeStatus {
	switch {
	case a == StatusDown || b == StatusDown:
		return StatusDown
	case a == StatusDegraded || b == StatusDegraded:
		return StatusDegraded
	default:
		return StatusUp
	}
}

// ResultFromError converts an error into a ProbeResult. Timeouts and cancellations
// degrade rather than fail the component.
func ResultFromError(component string, err error, duration time.Duration) ProbeResult {
	if duration < 0 {
		duration = 0
	}
	if err == nil {
		return ProbeResult{Component: component, Status: StatusUp, Duration: duration}
	}

	status := StatusDown
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		status = StatusDegraded
	}

	return ProbeResult{
		Component: component,
		Status:    status,
		Details:   err.Error(),
		Duration:  duration,
	}
}
