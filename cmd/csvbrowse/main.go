package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"csvbrowse/internal/app"
	"csvbrowse/internal/config"
	"csvbrowse/internal/export"
	"csvbrowse/internal/filter"
	"csvbrowse/internal/ingest"
	"csvbrowse/internal/ui"
	"csvbrowse/internal/util/logx"
	"csvbrowse/internal/version"
	"csvbrowse/internal/web"
)

func main() {
	logx.SetLevelFromEnv()
	defer logx.Sync()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	if cfg.ShowVersion {
		fmt.Println(version.Banner())
		return
	}

	where, err := filter.NewWhere(cfg.Where)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	// Setup cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logx.Infof("starting %s: %s", version.Banner(), cfg.String())
	ctrl := app.New(ingest.NewLoader(cfg.LoadTimeout), cfg.Source, where)
	if err := run(ctx, cfg, ctrl); err != nil {
		logx.Errorf("csvbrowse exited with error: %v", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		logx.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, ctrl *app.Controller) error {
	switch cfg.Mode() {
	case "print":
		return runPrint(ctx, cfg, ctrl)
	case "serve":
		// a failed load is served as the error row
		_, _ = ctrl.OnStartup(ctx)
		return web.NewServer(ctrl.Snapshot(), cfg.Theme).Serve(ctx, cfg.Serve)
	default:
		return ui.Run(ctx, cfg, ctrl)
	}
}

func runPrint(ctx context.Context, cfg *config.Config, ctrl *app.Controller) error {
	dm, loadErr := ctrl.OnStartup(ctx)
	if loadErr == nil {
		dm, _ = ctrl.OnQueryChange(cfg.Query)
	}
	if err := ui.Print(os.Stdout, dm, cfg.Theme); err != nil {
		return err
	}
	if loadErr != nil {
		return loadErr
	}
	if cfg.ExportFormat != "" {
		rows := ctrl.Filtered()
		if err := export.Write(cfg.ExportFormat, cfg.ExportOut, ctrl.Snapshot().Headers, rows); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logx.Infof("export: wrote %d rows to %s (%s)", len(rows), cfg.ExportOut, cfg.ExportFormat)
	}
	return nil
}
