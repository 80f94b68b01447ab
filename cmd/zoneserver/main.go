package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zonefx/internal/admin"
	"github.com/udisondev/zonefx/internal/admin/commands"
	"github.com/udisondev/zonefx/internal/config"
	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/persist"
	"github.com/udisondev/zonefx/internal/world"
)

const shutdownSaveTimeout = 10 * time.Second

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Config first: it determines the log level.
	cfgPath := config.Path()
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	slog.Info("zoneserver starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick_rate", cfg.TickRate,
		"storage", cfg.Storage.Driver,
		"worlds", cfg.Worlds)

	store, closeStore, err := persist.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening zone store: %w", err)
	}
	defer closeStore()

	w := world.New(cfg.Worlds...)
	zones := zone.NewManager()
	loaded := persist.LoadInto(ctx, store, zones, w.HasWorld)
	slog.Info("zones loaded", "count", loaded)

	saver := persist.NewSaver(store, cfg.Storage.SaveDebounce)
	zones.SetPersister(saver)

	engine := zone.NewEngine(zones, zone.NewApplier(w, cfg.TickRate), w)
	w.SetTracker(engine)

	handler := admin.NewHandler()
	commands.RegisterAll(handler, zones, engine, w, cfg.Admin.ZoneAccessLevel)
	slog.Info("commands registered",
		"admin", handler.AdminCommandCount(),
		"user", handler.UserCommandCount())

	con := newConsole(w, engine, handler, os.Stdout, cfg.Worlds[0], cfg.Admin.OpAccessLevel)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := w.Run(gctx, cfg.TickRate); err != nil {
			return fmt.Errorf("world tick loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting zone saver", "debounce", cfg.Storage.SaveDebounce)
		return saver.Run(gctx)
	})

	g.Go(func() error {
		if err := con.Run(gctx, os.Stdin); err != nil {
			return fmt.Errorf("console: %w", err)
		}
		return nil
	})

	runErr := g.Wait()

	// Сохранение на остановке: пишем последний снимок, если он не записан.
	saveCtx, cancelSave := context.WithTimeout(context.Background(), shutdownSaveTimeout)
	defer cancelSave()
	if err := saver.Flush(saveCtx); err != nil {
		slog.Error("shutdown save failed", "error", err)
	}

	if runErr != nil {
		return fmt.Errorf("server error: %w", runErr)
	}

	slog.Info("zoneserver stopped", "zones", zones.Count())
	return nil
}
