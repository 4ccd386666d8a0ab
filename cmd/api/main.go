package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/caramelohq/grooming-platform/cmd/mainconfig"
	"github.com/caramelohq/grooming-platform/internal/api/router"
	"github.com/caramelohq/grooming-platform/internal/catalog"
	"github.com/caramelohq/grooming-platform/internal/clients"
	appconfig "github.com/caramelohq/grooming-platform/internal/config"
	"github.com/caramelohq/grooming-platform/internal/dashboard"
	"github.com/caramelohq/grooming-platform/internal/database"
	"github.com/caramelohq/grooming-platform/internal/events"
	"github.com/caramelohq/grooming-platform/internal/notify"
	"github.com/caramelohq/grooming-platform/internal/observability/metrics"
	"github.com/caramelohq/grooming-platform/internal/organizations"
	"github.com/caramelohq/grooming-platform/internal/pets"
	"github.com/caramelohq/grooming-platform/internal/scheduling"
	"github.com/caramelohq/grooming-platform/internal/staff"
	"github.com/caramelohq/grooming-platform/internal/worker/reminders"
	"github.com/caramelohq/grooming-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting grooming-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	db := database.NewWithRetry(pool, cfg.DBRetryMaxAttempts, cfg.DBRetryBaseDelay, logger)

	// Dashboard cache is optional; a nil cache degrades to direct reads.
	var dashCache *dashboard.Cache
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		dashCache = dashboard.NewCache(redis.NewClient(opts), cfg.DashboardTTL, logger)
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	bookingMetrics := metrics.NewBookingMetrics(registry)

	orgRepo := organizations.NewRepository(db)
	orgService := organizations.NewService(orgRepo, logger)
	clientsRepo := clients.NewRepository(db)
	petsRepo := pets.NewRepository(db)
	catalogRepo := catalog.NewRepository(db)
	staffRepo := staff.NewRepository(db)
	apptRepo := scheduling.NewRepository(db)
	outboxStore := events.NewOutboxStore(db)

	scheduler := scheduling.NewScheduler(apptRepo, petsRepo, catalogRepo,
		outboxStore, dashCache, bookingMetrics, logger)

	dashRepo := dashboard.NewRepository(db)
	dashService := dashboard.NewService(dashRepo, orgRepo, dashCache, logger)

	var deliveryHandler events.DeliveryHandler
	if cfg.AppointmentEventsQueueURL != "" {
		deliveryHandler = events.NewSQSHandler(sqs.NewFromConfig(awsCfg), cfg.AppointmentEventsQueueURL)
	} else {
		deliveryHandler = events.NewLogHandler(logger)
	}
	deliverer := events.NewDeliverer(outboxStore, deliveryHandler, logger).
		WithInterval(cfg.OutboxPollInterval)
	go deliverer.Start(ctx)

	if cfg.RemindersEnabled {
		from := notify.From{Email: cfg.EmailFromAddress, Name: cfg.EmailFromName}
		var sender notify.Sender
		if cfg.EmailFromAddress != "" {
			if ses := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), from, logger); ses != nil {
				sender = ses
			}
		}
		if sender == nil {
			if sg := notify.NewSendGridSender(cfg.SendGridAPIKey, from, logger); sg != nil {
				sender = sg
			}
		}
		reminderWorker := reminders.NewWorker(reminders.NewStore(db), sender, logger).
			WithWindow(cfg.ReminderWindow).
			WithInterval(cfg.ReminderPollInterval)
		go reminderWorker.Run(ctx)
	}

	var corsOrigins []string
	if cfg.CORSAllowedOrigins != "" {
		for _, origin := range strings.Split(cfg.CORSAllowedOrigins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				corsOrigins = append(corsOrigins, origin)
			}
		}
	}

	routerCfg := &router.Config{
		Logger:             logger,
		Appointments:       scheduling.NewHandler(scheduler, apptRepo, logger),
		Dashboard:          dashboard.NewHandler(dashService, logger),
		Clients:            clients.NewHandler(clientsRepo, logger),
		Pets:               pets.NewHandler(petsRepo, logger),
		Services:           catalog.NewHandler(catalogRepo, logger),
		Staff:              staff.NewHandler(staffRepo, logger),
		Organization:       organizations.NewHandler(orgRepo, logger),
		SessionSecret:      cfg.SessionSecret,
		SessionResolver:    orgService,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: corsOrigins,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
