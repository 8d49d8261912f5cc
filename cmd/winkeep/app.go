package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/winkeep/winkeep/internal/config"
	"github.com/winkeep/winkeep/internal/database"
	"github.com/winkeep/winkeep/internal/eventlog"
	"github.com/winkeep/winkeep/internal/geometry"
	"github.com/winkeep/winkeep/internal/host"
	"github.com/winkeep/winkeep/internal/reporter"
	"github.com/winkeep/winkeep/internal/tracker"
	"github.com/winkeep/winkeep/internal/web"
	"github.com/winkeep/winkeep/pkg/backend"
	"github.com/winkeep/winkeep/pkg/integrations/hybrid"
	"github.com/winkeep/winkeep/pkg/window"
)

const shutdownTimeout = 10 * time.Second

// app holds everything a tracking process owns
type app struct {
	backend *hybrid.Backend
	store   *geometry.Store
	buffer  *eventlog.Buffer
	db      *database.DB
	repo    *database.Repository
	service *tracker.Service
	keeper  *host.Keeper
}

func newApp(cfg *config.Config) (*app, error) {
	be, err := backend.New(cfg.Backend.Prefer, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize window backend: %w", err)
	}
	logger.Info("window backend initialized", "display", be.DisplayServer(), "backend", be.Active())

	a := &app{
		backend: be,
		store:   geometry.NewStore(cfg.Storage.GeometryPath),
		buffer:  eventlog.New(eventlog.DefaultCapacity),
	}

	sinks := tracker.MultiSink{tracker.NewLogSink(logger), a.buffer}

	if cfg.Journal.Enabled {
		db, err := openJournal(cfg)
		if err != nil {
			logger.Warn("event journal disabled", "error", err)
		} else {
			a.db = db
			a.repo = database.NewRepository(db)
			sinks = append(sinks, database.NewEventSink(a.repo, logger))
		}
	}

	t := tracker.New(cfg.Target.Title, be, a.store)
	a.service = tracker.NewService(t, cfg.PollInterval(), sinks)
	a.service.SetLogger(logger)

	a.keeper = &host.Keeper{
		Title:   cfg.Host.Title,
		Backend: be,
		Store:   geometry.NewPositionStore(cfg.Storage.PositionPath),
		Default: window.Point{X: cfg.Host.DefaultX, Y: cfg.Host.DefaultY},
	}

	return a, nil
}

func openJournal(cfg *config.Config) (*database.DB, error) {
	db, err := database.Connect(cfg.Journal.Path)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			logger.Warn("failed to close journal", "error", err)
		}
	}
	if err := a.backend.Close(); err != nil {
		logger.Warn("failed to close window backend", "error", err)
	}
}

func (a *app) webHandler() *web.Handler {
	h := web.NewHandler(a.service, a.buffer, a.store).
		WithDisplayServer(a.backend.DisplayServer()).
		WithLogger(logger)
	if a.repo != nil {
		h.WithReporter(reporter.New(cfg.Target.Title, a.repo))
	}
	return h
}

// runTracking runs the tracker in the foreground until SIGINT or SIGTERM.
// Shutdown stops the tracker before the host position is recorded, so the
// process never exits while a geometry save is in flight.
func runTracking(withWeb bool, webPort int) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if pos, err := a.keeper.Restore(); err != nil {
		logger.Warn("could not restore host window position", "error", err)
	} else if a.keeper.Title != "" {
		logger.Info("host window positioned", "x", pos.X, "y", pos.Y)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Debug("configuration loaded", "config", cfg.String())

	if err := a.service.Start(ctx); err != nil {
		return fmt.Errorf("failed to start tracker: %w", err)
	}

	var server *web.Server
	if withWeb {
		server = web.NewServer(cfg, a.webHandler(), webPort)
		go func() {
			if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("web server error", "error", err)
				stop()
			}
		}()
	}

	<-ctx.Done()
	logger.Info("received shutdown signal")

	a.service.Stop()

	if pos, err := a.keeper.Persist(); err != nil {
		logger.Warn("could not save host window position", "error", err)
	} else if a.keeper.Title != "" {
		logger.Info("host window position saved", "x", pos.X, "y", pos.Y)
	}

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error shutting down web server", "error", err)
		}
	}

	return nil
}

// openRepository opens the journal for the read-only commands
func openRepository() (*database.Repository, func(), error) {
	db, err := openJournal(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return database.NewRepository(db), func() { db.Close() }, nil
}
