package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ForecastBoard/internal/backend"
	"ForecastBoard/internal/config"
	"ForecastBoard/internal/dashboard"
	"ForecastBoard/internal/logger"
	"ForecastBoard/internal/marketdata"
	"ForecastBoard/internal/recorder"
	"ForecastBoard/internal/scheduler"
	"ForecastBoard/internal/web"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("[FATAL] init logger: %v", err)
	}
	defer logger.Sync()
	logger.Log.Info("ForecastBoard starting", zap.String("backend", cfg.Backend.BaseURL))

	// Init market data oracle
	var oracle marketdata.Oracle
	switch cfg.MarketData.Provider {
	case "static":
		oracle = marketdata.NewStaticOracle(cfg.MarketData.Symbols...)
	default:
		oracle = marketdata.NewYahooOracle(cfg.MarketData.BaseURL, cfg.Proxy)
	}
	logger.Log.Info("market data provider", zap.String("name", oracle.Name()))

	client := backend.NewClient(cfg.Backend.BaseURL, oracle, cfg.Backend.Timeout, cfg.Proxy)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			logger.Log.Warn("init sqlite recorder failed, using noop", zap.Error(err))
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, client, rec, cfg.Schedule.Concurrency)
	if err := sched.Register(cfg.Schedule.SnapshotCron); err != nil {
		logger.Log.Fatal("register cron tasks", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		logger.Log.Info("RUN_ON_START enabled, taking forecast snapshot now")
		go sched.RunSnapshotNow()
	}

	ctrl := dashboard.NewController(client, rec)
	srv := web.NewServer(ctrl, web.NewSessionStore(web.DefaultSessionTTL)).HTTPServer(cfg.Server.Addr)

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("dashboard listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Log.Info("shutdown signal received, stopping...")
	case err := <-errCh:
		logger.Log.Error("http server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("http shutdown", zap.Error(err))
	}
	logger.Log.Info("ForecastBoard stopped")
}
