package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/askai/internal/api"
	"github.com/charlesng35/askai/internal/app"
	"github.com/charlesng35/askai/internal/app/maintenance"
	"github.com/charlesng35/askai/internal/completion"
	"github.com/charlesng35/askai/internal/database"
	"github.com/charlesng35/askai/internal/monitoring"
	"github.com/charlesng35/askai/internal/monitoring/checks"
	"github.com/charlesng35/askai/internal/querylog"
	"github.com/charlesng35/askai/web"
)

// Stats older than this many missed runs degrade readiness.
const staleStatsFactor = 3

// runtimeStack bundles long-lived services used by the HTTP server.
type runtimeStack struct {
	DB        *gorm.DB
	Store     *querylog.Store
	Generator completion.Generator
	Stats     *maintenance.StatsReporter
	Health    *monitoring.HealthManager
	Router    *gin.Engine
}

// bootstrapRuntime opens the query log, builds the completion client and the HTTP router.
func bootstrapRuntime(ctx context.Context, cfg *app.Config, log *zap.Logger) (*runtimeStack, error) {
	stack := &runtimeStack{}
	var err error
	success := false

	defer func() {
		if !success {
			if shutdownErr := stack.Shutdown(context.Background()); shutdownErr != nil {
				log.Warn("partial bootstrap cleanup failed", zap.Error(shutdownErr))
			}
		}
	}()

	// enable gin debug mode
	if debug, _ := os.LookupEnv("GIN_DEBUG"); debug != "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	stack.DB, err = initialiseDatabase(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	stack.Store, err = querylog.NewStore(stack.DB)
	if err != nil {
		return nil, err
	}
	if err := stack.Store.EnsureSchema(ctx); err != nil {
		return nil, err
	}

	stack.Generator, err = completion.New(cfg.Completion.ClientConfig())
	if err != nil {
		return nil, fmt.Errorf("initialise completion client: %w", err)
	}
	log.Info("completion provider configured",
		zap.String("provider", cfg.Completion.Provider),
		zap.String("model", completion.ModelOf(stack.Generator)),
	)

	stack.Stats = maintenance.NewStatsReporter(stack.Store, maintenance.WithSchedule(cfg.Monitoring.StatsSchedule))
	if err := stack.Stats.RunOnce(ctx); err != nil {
		log.Warn("initial query log stats refresh failed", zap.Error(err))
	}
	if err := stack.Stats.Start(); err != nil {
		return nil, fmt.Errorf("start maintenance jobs: %w", err)
	}

	stack.Health = monitoring.NewHealthManager()
	stack.Health.RegisterReadiness(checks.Database(stack.DB, 0))
	stack.Health.RegisterReadiness(checks.Stats(stack.Stats, statsMaxAge(cfg.Monitoring.StatsSchedule)))

	stack.Router, err = api.NewRouter(api.Dependencies{
		Config:    cfg,
		Generator: stack.Generator,
		Queries:   stack.Store,
		Health:    stack.Health,
		IndexPage: web.IndexHTML,
	})
	if err != nil {
		return nil, fmt.Errorf("build api router: %w", err)
	}

	success = true
	return stack, nil
}

// Shutdown stops background jobs and releases resources. It is safe on a partially
// built stack.
func (s *runtimeStack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs error

	if s.Stats != nil {
		select {
		case <-s.Stats.Stop().Done():
		case <-ctx.Done():
			errs = multierr.Append(errs, fmt.Errorf("stop stats job: %w", ctx.Err()))
		}
	}

	if s.DB != nil {
		errs = multierr.Append(errs, database.Close(s.DB))
		s.DB = nil
	}

	return errs
}

func initialiseDatabase(ctx context.Context, cfg *app.Config, log *zap.Logger) (*gorm.DB, error) {
	dbCfg := cfg.Database.ConnectionConfig()
	db, err := database.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Ping(ctx, db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info("database connected", zap.String("driver", dbCfg.Driver))
	return db, nil
}

// statsMaxAge derives the staleness window from "@every <duration>" schedules. Other
// cron expressions disable the staleness check.
func statsMaxAge(schedule string) time.Duration {
	rest, ok := strings.CutPrefix(strings.TrimSpace(schedule), "@every ")
	if !ok {
		return 0
	}
	every, err := time.ParseDuration(strings.TrimSpace(rest))
	if err != nil || every <= 0 {
		return 0
	}
	return staleStatsFactor * every
}
