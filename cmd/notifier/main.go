package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	commonaws "careerhub-notifications/internal/common/aws"
	"careerhub-notifications/internal/common/config"
	"careerhub-notifications/internal/common/database"
	"careerhub-notifications/internal/common/logger"
	"careerhub-notifications/internal/common/observability"
	"careerhub-notifications/internal/dispatcher"
	"careerhub-notifications/internal/ingest"
	"careerhub-notifications/internal/promoter"
	"careerhub-notifications/internal/scheduler"
	"careerhub-notifications/internal/search"
	"careerhub-notifications/internal/sendtime"
	"careerhub-notifications/internal/server"
	"careerhub-notifications/internal/store"
)

// logOnlySender stands in for SES when the email channel is disabled in
// local development. It reports success without sending anything.
type logOnlySender struct {
	log logger.Logger
}

func (s logOnlySender) SendHTML(_ context.Context, _, to, subject, _ string) (string, error) {
	s.log.Info("email channel disabled, dropping send", map[string]interface{}{
		"to":      to,
		"subject": subject,
	})
	return "dev-" + fmt.Sprint(time.Now().UnixNano()), nil
}

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting notification pipeline",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Postgres ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	err = retryWithBackoff(func() error {
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "postgres connection")
	if err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	// --- Redis (engagement histograms for smart scheduling) ---
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()
	if err := rdb.Ping(ctx); err != nil {
		zapLog.Warn("redis unreachable, smart scheduling will fall back", zap.Error(err))
	}

	// --- Stores ---
	notifications := store.NewNotificationStore(pg.DB)
	scheduled := store.NewScheduledStore(pg.DB)

	// --- Optimizer + scheduler ---
	var optimizer sendtime.Optimizer
	engagement := sendtime.NewEngagementOptimizer(rdb.Client, cfg.Scheduler.OptimizerWindowHours)
	if cfg.Scheduler.SmartEnabled {
		optimizer = engagement
	}
	sched := scheduler.New(scheduler.Config{
		DefaultMinDelay: time.Duration(cfg.Scheduler.DefaultMinDelayMinutes) * time.Minute,
	}, scheduled, notifications, optimizer, log)

	// --- Email + push providers ---
	var emails dispatcher.EmailSender
	if cfg.Email.Enabled {
		sesClient, err := commonaws.NewSESClient(ctx, cfg.Email.AWSRegion)
		if err != nil {
			zapLog.Fatal("ses init failed", zap.Error(err))
		}
		emails = sesClient
	} else {
		zapLog.Warn("email channel disabled, dispatches will be dropped to log")
		emails = logOnlySender{log: log}
	}

	var pushes promoter.PushSender
	if cfg.Push.Enabled {
		snsClient, err := commonaws.NewSNSClient(ctx, cfg.Push.AWSRegion)
		if err != nil {
			zapLog.Fatal("sns init failed", zap.Error(err))
		}
		pushes = snsClient
	}

	// --- Delivery log ---
	var deliveries dispatcher.DeliveryRecorder
	if cfg.Search.Enabled {
		es, err := database.NewElasticsearch(cfg.Search)
		if err != nil {
			zapLog.Warn("elasticsearch init failed, delivery log disabled", zap.Error(err))
		} else {
			deliveries = search.NewDeliveryLog(es, cfg.Search.Index, log)
		}
	}

	disp := dispatcher.New(dispatcher.Config{
		FromEmail: cfg.Email.FromEmail,
		BaseURL:   cfg.App.BaseURL,
	}, notifications, emails, deliveries, obs, log)

	// --- Promoter ---
	if cfg.Promoter.Enabled {
		prom := promoter.New(promoter.Config{
			Interval:  time.Duration(cfg.Promoter.IntervalSeconds) * time.Second,
			BatchSize: cfg.Promoter.BatchSize,
			PushTopic: cfg.Push.TopicARN,
		}, scheduled, notifications, disp, pushes, log)
		go prom.Run(ctx)
	}

	// --- Kafka ingest ---
	if cfg.Ingest.Enabled {
		consumer, err := ingest.NewConsumer(cfg.Ingest, sched, log)
		if err != nil {
			zapLog.Fatal("ingest init failed", zap.Error(err))
		}
		go func() {
			if err := consumer.Run(ctx); err != nil {
				zapLog.Error("ingest consumer exited", zap.Error(err))
			}
		}()
	}

	// --- HTTP server ---
	srv := server.New(disp, sched, notifications, engagement, log)
	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	}

	go func() {
		zapLog.Info("http server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("http server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutting down")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("http shutdown failed", zap.Error(err))
	}
	zapLog.Info("stopped")
}
