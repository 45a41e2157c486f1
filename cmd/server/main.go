// offramp wires the offboarding services: the reconciliation engine with its
// scheduler, the action sequencer, and the ops API. Business logic lives in
// the internal service packages; this file only assembles them from config.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"offramp/internal/actionlog"
	"offramp/internal/audittrail"
	"offramp/internal/directory"
	"offramp/internal/directory/rest"
	"offramp/internal/directory/simulation"
	"offramp/internal/events"
	"offramp/internal/offboard"
	"offramp/internal/platform/config"
	"offramp/internal/platform/httpserver"
	"offramp/internal/platform/logger"
	"offramp/internal/platform/metrics"
	"offramp/internal/platform/middleware"
	redisplatform "offramp/internal/platform/redis"
	"offramp/internal/platform/runnerlock"
	"offramp/internal/reconcile"
	"offramp/internal/trackedset"
	httptransport "offramp/internal/transport/http"
	"offramp/pkg/domain"
)

// lockTTL bounds how long a crashed runner can block its replacement. It
// must comfortably exceed the longest expected cycle.
const lockTTL = 30 * time.Minute

// directoryPorts is everything the engine and sequencer need from the
// external systems. Both the gateway client and the simulation satisfy it.
type directoryPorts interface {
	directory.EligibleSource
	directory.PhaseCompletion
	directory.PhaseAction
	directory.AccessReader
	directory.AccessRevoker
}

func main() {
	log := logger.New()
	slog.SetDefault(log)
	if err := run(log); err != nil {
		log.Error("offramp exited", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	dir, err := buildDirectory(cfg, log)
	if err != nil {
		return err
	}

	trailStore, trackedStore, cleanup, err := buildStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	actions := actionlog.NewActionLog(cfg.LogDir)
	errLog := actionlog.NewErrorLog(cfg.LogDir)

	publisher, err := events.New(ctx, cfg.KafkaBrokers, events.WithLogger(log))
	if err != nil {
		return err
	}
	defer publisher.Close()

	seqOpts := []offboard.Option{
		offboard.WithLogger(log),
		offboard.WithSkipMailGroups(cfg.SkipMailGroups),
		offboard.WithSkipCalendar(cfg.SkipCalendar),
	}
	if publisher != nil {
		seqOpts = append(seqOpts, offboard.WithEvents(publisher))
	}
	sequencer, err := offboard.New(dir, dir, trailStore, errLog, seqOpts...)
	if err != nil {
		return err
	}

	engOpts := []reconcile.Option{
		reconcile.WithLogger(log),
		reconcile.WithMetrics(m),
	}
	if publisher != nil {
		engOpts = append(engOpts, reconcile.WithEvents(publisher))
	}
	engine, err := reconcile.New(
		reconcile.Deps{
			Source:     dir,
			Completion: dir,
			Action:     dir,
			Tracked:    trackedStore,
			Actions:    actions,
			Errors:     errLog,
		},
		reconcile.Config{
			Scope:         cfg.Scope,
			HoldDuration:  cfg.HoldDuration,
			LicenseGroups: cfg.LicenseGroups,
			Simulation:    cfg.Simulate,
		},
		engOpts...,
	)
	if err != nil {
		return err
	}

	cycles := &guardedCycles{engine: engine}
	rdb, err := redisplatform.New(cfg.Redis())
	if err != nil {
		return err
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		cycles.lock = runnerlock.New(rdb.Client, cfg.Scope, lockTTL)
	} else {
		log.Warn("no redis configured, cycle runs are not guarded across processes")
	}

	if cfg.APITokenKey == "" {
		log.Warn("ops API token key is empty (OFFRAMP_API_TOKEN_KEY)")
	}
	handler := httptransport.New(cycles, trailStore, sequencer, log)
	router := httptransport.NewRouter(handler, middleware.NewHMACValidator(cfg.APITokenKey), log)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting offramp", "addr", cfg.Addr, "simulation", cfg.Simulate)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return runScheduler(ctx, cfg.CycleInterval, cycles, log)
	})

	return g.Wait()
}

// buildDirectory picks the external-system implementation: fixed fixtures in
// simulation mode, the provisioning gateway otherwise.
func buildDirectory(cfg config.Config, log *slog.Logger) (directoryPorts, error) {
	if cfg.Simulate {
		sim := simulation.New(cfg.Scope)
		for _, name := range []domain.PrincipalName{
			"sim.alpha@corp.example",
			"sim.bravo@corp.example",
		} {
			sim.Seed(name)
		}
		log.Info("simulation mode: external queries use fixed fixtures")
		return sim, nil
	}
	return rest.New(rest.Options{
		BaseURL: cfg.DirectoryURL,
		Token:   cfg.DirectoryToken,
		Logger:  log,
	})
}

// buildStores selects postgres-backed stores when a database is configured,
// file-backed documents otherwise.
func buildStores(ctx context.Context, cfg config.Config) (audittrail.Store, trackedset.Store, func(), error) {
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, fmt.Errorf("database ping failed: %w", err)
		}
		trail := audittrail.NewPostgres(db)
		tracked := trackedset.NewPostgres(db)
		if err := trail.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		if err := tracked.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
		return trail, tracked, func() { _ = db.Close() }, nil
	}

	for _, path := range []string{cfg.AuditTrailPath, cfg.TrackedSetPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	return audittrail.NewFileStore(cfg.AuditTrailPath),
		trackedset.NewFileStore(cfg.TrackedSetPath),
		func() {}, nil
}

// runScheduler runs one cycle at startup and then one per interval. Cycle
// failures are logged and retried at the next tick; only context
// cancellation stops the loop.
func runScheduler(ctx context.Context, interval time.Duration, cycles *guardedCycles, log *slog.Logger) error {
	if interval <= 0 {
		log.Info("cycle scheduler disabled, cycles run only via the ops API")
		<-ctx.Done()
		return nil
	}

	runOnce := func() {
		if _, err := cycles.RunCycle(ctx); err != nil {
			log.Error("scheduled reconciliation cycle failed", "error", err)
		}
	}

	runOnce()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			runOnce()
		}
	}
}
