package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/in/http"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/in/rabbitmq"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/out/cache"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/out/ehr"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/out/logger"
	"github.com/medbooking/ehr-schedule-reconciler/internal/adapters/out/storage"
	"github.com/medbooking/ehr-schedule-reconciler/internal/config"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/ports/out"
	"github.com/medbooking/ehr-schedule-reconciler/internal/core/services/availability_service"
	"github.com/medbooking/ehr-schedule-reconciler/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера с таймзоной
	mainLogger, err := logger.NewConsoleLogger(cfg.App.Timezone)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger := mainLogger.WithModule("Main")

	logger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	// Настройка Gin в зависимости от окружения
	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Инициализация адаптеров
	ehrAdapter := ehr.NewEhrAdapter(cfg, mainLogger)

	storageAdapter, err := storage.NewPostgresAdapter(ctx, cfg, mainLogger)
	if err != nil {
		logger.Error("app.storage.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer storageAdapter.Close()

	var cacheAdapter out.CachePort
	if cfg.Cache.Enabled {
		adapter, err := cache.NewCacheAdapter(cfg, mainLogger)
		if err != nil {
			logger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		cacheAdapter = adapter
	}

	reconcilerMetrics := metrics.NewReconcilerMetrics(prometheus.DefaultRegisterer)

	// Инициализация сервиса
	availabilityService, err := availability_service.NewAvailabilityService(
		cfg,
		ehrAdapter,
		storageAdapter,
		cacheAdapter,
		reconcilerMetrics,
		mainLogger,
	)
	if err != nil {
		logger.Error("app.service.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Настройка HTTP сервера
	router := gin.Default()
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	controller := http.NewAvailabilityController(availabilityService, cfg)
	controller.RegisterRoutes(router)

	// Настройка RabbitMQ слушателя только если он включен
	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewAppointmentListener(availabilityService, cfg, mainLogger)
		if err != nil {
			logger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			logger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				logger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			logger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	logger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
