package maintenance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/charlesng35/askai/pkg/logger"
	"github.com/charlesng35/askai/pkg/metrics"
)

const (
	defaultStatsSpec  = "@every 1m"
	defaultRunTimeout = 10 * time.Second
)

// RecordCounter reports how many question/answer pairs have been persisted.
type RecordCounter interface {
	Count(ctx context.Context) (int64, error)
}

// GaugeSetter is satisfied by prometheus.Gauge.
type GaugeSetter interface {
	Set(float64)
}

// StatsReporter periodically refreshes gauges derived from the query log.
type StatsReporter struct {
	counter  RecordCounter
	gauge    GaugeSetter
	cron     *cron.Cron
	schedule string
	timeout  time.Duration
	log      *zap.Logger
	started  bool

	mu          sync.Mutex
	lastRefresh time.Time
	lastErr     error
}

// Option customises the StatsReporter.
type Option func(*StatsReporter)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(r *StatsReporter) {
		if c != nil {
			r.cron = c
		}
	}
}

// WithSchedule overrides the cron specification for the refresh job.
func WithSchedule(spec string) Option {
	return func(r *StatsReporter) {
		if spec != "" {
			r.schedule = spec
		}
	}
}

// WithGauge overrides the gauge receiving the record count.
func WithGauge(g GaugeSetter) Option {
	return func(r *StatsReporter) {
		if g != nil {
			r.gauge = g
		}
	}
}

// WithRunTimeout bounds a single refresh.
func WithRunTimeout(d time.Duration) Option {
	return func(r *StatsReporter) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// NewStatsReporter constructs a reporter. A nil counter disables the job.
func NewStatsReporter(counter RecordCounter, opts ...Option) *StatsReporter {
	reporter := &StatsReporter{
		counter:  counter,
		gauge:    metrics.QueryLogRecords,
		schedule: defaultStatsSpec,
		timeout:  defaultRunTimeout,
		log:      logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(reporter)
	}

	if reporter.cron == nil {
		reporter.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return reporter
}

// Start registers the refresh job and launches the scheduler.
func (r *StatsReporter) Start() error {
	if r.counter == nil || r.started {
		return nil
	}

	if _, err := r.cron.AddFunc(r.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.RunOnce(ctx); err != nil {
			r.log.Warn("query log stats refresh failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("maintenance: schedule %q: %w", r.schedule, err)
	}

	r.cron.Start()
	r.started = true
	return nil
}

// Stop halts the scheduler. The returned context is done once running jobs finish.
func (r *StatsReporter) Stop() context.Context {
	if r.cron == nil || !r.started {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	r.started = false
	return r.cron.Stop()
}

// RunOnce refreshes every gauge immediately.
func (r *StatsReporter) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.counter == nil {
		return errors.New("maintenance: record counter is required")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	count, err := r.counter.Count(ctx)
	if err != nil {
		err = fmt.Errorf("maintenance: count query log: %w", err)
	} else {
		r.gauge.Set(float64(count))
	}

	r.mu.Lock()
	r.lastRefresh = time.Now()
	r.lastErr = err
	r.mu.Unlock()

	return err
}

// LastRefresh reports when RunOnce last completed and the error it returned.
// The time is zero until the first run.
func (r *StatsReporter) LastRefresh() (time.Time, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastRefresh, r.lastErr
}
