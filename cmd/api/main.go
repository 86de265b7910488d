package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"consumption-heatmap/internal/api"
	"consumption-heatmap/internal/api/handlers"
	"consumption-heatmap/internal/config"
	"consumption-heatmap/internal/data"
	"consumption-heatmap/internal/heatmap"
	"consumption-heatmap/internal/logging"
	"consumption-heatmap/internal/observability/metrics"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("HEATMAP_CONFIG"), "Path to YAML config")
	flag.Parse()

	if err := run(*cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return err
	}
	logging.SetDefault(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	metrics.Init()

	settings, err := heatmap.SettingsFromConfig(cfg)
	if err != nil {
		return err
	}
	uploads := data.NewUploadCache(cfg.Upload.TTL)
	defer uploads.Close()

	router, err := api.NewRouter(api.Deps{
		Uploads: uploads,
		Service: heatmap.New(settings, logger),
		UI: handlers.UIConfig{
			DefaultTitle:    cfg.Render.DefaultTitle,
			DefaultFileName: cfg.Render.DefaultFileName,
			PlotlyURL:       cfg.Render.PlotlyURL,
		},
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})
	if err != nil {
		return fmt.Errorf("building router: %w", err)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.WithFields(logging.Fields{"addr": srv.Addr, "env": cfg.Server.Env}).Info("starting API server")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
