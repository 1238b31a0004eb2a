package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"stock_relay/internal/app/di"
	"stock_relay/internal/app/router"
	historyhandler "stock_relay/internal/feature/history/transport/handler"
	historyusecase "stock_relay/internal/feature/history/usecase"
	"stock_relay/internal/platform/config"
	"stock_relay/internal/platform/logging"
	"stock_relay/internal/platform/metrics"
)

func main() {
	// .envを読み込む
	if err := godotenv.Load(".env"); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(os.Stderr, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	// Prometheus
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Repository
	market, err := di.NewMarket(cfg, reg)
	if err != nil {
		slog.Error("failed to create market repository", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}

	// Usecase
	historyUC := historyusecase.NewHistoryUsecase(market)

	// Handler
	historyH := historyhandler.NewHistoryHandler(historyUC)

	// ルータ生成
	r := router.NewRouter(historyH, metrics.Handler(reg))

	slog.Info("listening", "port", cfg.Port, "provider", cfg.Provider)
	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
