// Package app wires the draft-sync daemon: configuration, storage
// backends, the saver registry, and the scheduler, with graceful shutdown
// that flushes outstanding drafts before exit.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avielas/tripsync/internal/config"
	"github.com/avielas/tripsync/internal/draft"
	"github.com/avielas/tripsync/internal/logging"
	"github.com/avielas/tripsync/internal/remote"
	"github.com/avielas/tripsync/internal/session"
	"github.com/avielas/tripsync/internal/sync"
)

// shutdownFlushTimeout bounds the final flush on exit; an unreachable
// remote must not wedge the shutdown.
const shutdownFlushTimeout = 30 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger

	draftKV   *draft.SQLiteKV
	documents *remote.PostgresStore
	scheduler *sync.Scheduler
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	kv, err := draft.OpenSQLite(ctx, cfg.DraftDSN)
	if err != nil {
		return nil, fmt.Errorf("draft store init error: %w", err)
	}

	documents, err := remote.OpenPostgres(ctx, cfg.DocumentDSN)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("document store init error: %w", err)
	}

	users := session.NewTokenProvider([]byte(cfg.SecretKey))
	users.SetToken(cfg.SessionToken)

	drafts := draft.NewStore(kv)
	registry := sync.NewRegistry(users, documents, drafts)
	orchestrator := sync.NewOrchestrator(drafts, registry, logger)
	scheduler := sync.NewScheduler(orchestrator, cfg.SyncInterval, logger)

	return &App{
		config:    cfg,
		logger:    logger,
		draftKV:   kv,
		documents: documents,
		scheduler: scheduler,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run blocks until a termination signal, then performs one awaited flush so
// no draft is silently lost on exit.
func (app *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.initSignalHandler(cancel)

	app.logger.Info(ctx, "sync daemon started", "interval", app.config.SyncInterval.String())
	app.scheduler.Run(ctx)

	flushCtx, flushCancel := context.WithTimeout(context.Background(), shutdownFlushTimeout)
	defer flushCancel()

	report, err := app.scheduler.FlushNow(flushCtx)
	switch {
	case err != nil:
		app.logger.Error(flushCtx, "final flush error", "error", err)
	case !report.Clean():
		app.logger.Warn(flushCtx, "final flush left dirty trips", "still_dirty", len(report.StillDirty))
	default:
		app.logger.Info(flushCtx, "final flush complete", "trips", report.Succeeded)
	}

	if err := app.documents.Close(); err != nil {
		app.logger.Error(flushCtx, "document store close error", "error", err)
	}
	if err := app.draftKV.Close(); err != nil {
		app.logger.Error(flushCtx, "draft store close error", "error", err)
	}

	app.logger.Info(flushCtx, "sync daemon stopped")
}
