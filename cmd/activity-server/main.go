// cmd/activity-server/main.go
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
	"time"

	"go.uber.org/zap"

	"activity-signup/internal/api"
	awsclients "activity-signup/internal/common/aws"
	"activity-signup/internal/common/config"
	"activity-signup/internal/common/database"
	"activity-signup/internal/common/logger"
	"activity-signup/internal/common/observability"
	"activity-signup/internal/events"
	"activity-signup/internal/roster"
	"activity-signup/internal/signup"
)

// retryWithBackoff attempts to execute a function with exponential backoff
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

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: configs/config.yaml lookup)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting activity server...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel metrics exporter unavailable", zap.Error(err))
	}
	defer obs.Shutdown()

	ctx := context.Background()

	catalog, err := roster.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		zapLog.Fatal("catalog load failed", zap.Error(err))
	}
	store := roster.NewStore(catalog)
	zapLog.Info("Roster store seeded", zap.Int("activities", store.Len()), zap.String("catalog", cfg.Catalog.Path))

	var (
		publishers events.Multi
		recent     events.RecentReader
		checks     = map[string]api.Check{}
	)

	// --- Init Redis event sink with retry ---
	if cfg.Events.Redis.Enabled {
		redis := database.NewRedis(cfg.Database.Redis)
		err = retryWithBackoff(func() error {
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		redisPub := events.NewRedisPublisher(redis.Client, cfg.Events.Redis.Channel, cfg.Events.Redis.RecentSize)
		publishers = append(publishers, redisPub)
		recent = redisPub
		checks["redis"] = redis.Ping
	}

	// --- Init PostgreSQL audit log with retry ---
	if cfg.Events.Audit.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		audit := events.NewAuditLog(pg.DB)
		if err := audit.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		publishers = append(publishers, audit)
		checks["postgres"] = pg.Ping
	}

	// --- Init AWS sinks ---
	if cfg.Events.SNS.Enabled || cfg.Events.SES.Enabled {
		clients, err := awsclients.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("aws client setup failed", zap.Error(err))
		}
		if cfg.Events.SNS.Enabled {
			publishers = append(publishers, events.NewSNSPublisher(clients.SNS, cfg.Events.SNS.TopicARN))
			zapLog.Info("SNS sink enabled", zap.String("topicArn", cfg.Events.SNS.TopicARN))
		}
		if cfg.Events.SES.Enabled {
			publishers = append(publishers, events.NewSESNotifier(clients.SES, cfg.Events.SES.FromEmail))
			zapLog.Info("SES sink enabled", zap.String("from", cfg.Events.SES.FromEmail))
		}
	}

	zapLog.Info("Event sinks configured", zap.Int("sinks", len(publishers)))

	svcConfig := signup.DefaultConfig()
	svcConfig.EventTimeout = config.GetDuration(cfg.Events.Timeout)
	if err := svcConfig.Validate(); err != nil {
		zapLog.Fatal("invalid signup config", zap.Error(err))
	}

	service := signup.NewService(signup.ServiceDependencies{
		Store:         store,
		Publisher:     publishers,
		Observability: obs,
		Logger:        log,
	}, svcConfig)

	router := api.NewRouter(api.Dependencies{
		Service:   service,
		Recent:    recent,
		Logger:    log,
		StaticDir: cfg.Server.StaticDir,
		Checks:    checks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, draining requests...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Activity server stopped gracefully")
}
