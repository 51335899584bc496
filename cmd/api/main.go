package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saravana-agencies/billing-sync/internal/cache"
	"github.com/saravana-agencies/billing-sync/internal/config"
	"github.com/saravana-agencies/billing-sync/internal/database"
	"github.com/saravana-agencies/billing-sync/internal/domain"
	"github.com/saravana-agencies/billing-sync/internal/gateway"
	"github.com/saravana-agencies/billing-sync/internal/http/handler"
	"github.com/saravana-agencies/billing-sync/internal/http/middleware"
	"github.com/saravana-agencies/billing-sync/internal/http/router"
	"github.com/saravana-agencies/billing-sync/internal/jobs"
	"github.com/saravana-agencies/billing-sync/internal/logger"
	"github.com/saravana-agencies/billing-sync/internal/repository"
	"github.com/saravana-agencies/billing-sync/internal/service"
	syncpkg "github.com/saravana-agencies/billing-sync/internal/sync"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
		zap.Int("number_width", cfg.Client.NumberWidth),
		zap.Bool("allow_unmark_paid", cfg.Client.AllowUnmarkPaid),
	)

	// Connect to the backing table store
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Connect the change feed
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	cancelPing()
	defer func() { _ = redisClient.Close() }()

	pubsub := gateway.NewRedisPubSubWithClient(redisClient, cfg.Redis.ChannelPrefix, log)

	// Remote gateway publishes its own writes so other clients refresh
	remote := gateway.NewGormGateway(db, pubsub, log)

	// Snapshot store for instant startup rendering
	snapshots, err := cache.NewSnapshots(&cfg.Cache, log)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}

	// Repositories
	customerRepo := repository.NewCustomerRepository(remote, snapshots, log)
	streetRepo := repository.NewStreetRepository(remote, snapshots, log)
	itemRepo := repository.NewItemRepository(remote, snapshots, log)
	invoiceRepo := repository.NewInvoiceRepository(remote, snapshots, log, cfg.Client.NumberWidth, cfg.Client.AllowUnmarkPaid)

	// Seed from the last snapshot so the API answers before the first
	// remote round-trip completes
	customerRepo.LoadFromCache()
	streetRepo.LoadFromCache()
	itemRepo.LoadFromCache()
	invoiceRepo.LoadFromCache()

	// Services
	customerService := service.NewCustomerService(customerRepo, streetRepo, log)
	streetService := service.NewStreetService(streetRepo, customerRepo, log)
	itemService := service.NewItemService(itemRepo, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, customerRepo, itemRepo, &cfg.Client, log)

	// Live update coordinator refreshes a table's working set whenever
	// another client writes to it
	coordinator := syncpkg.NewCoordinator(pubsub, log)
	coordinator.Watch(domain.TableCustomers, customerRepo)
	coordinator.Watch(domain.TableStreets, streetRepo)
	coordinator.Watch(domain.TableItems, itemRepo)
	coordinator.Watch(domain.TableInvoices, invoiceRepo)
	coordinator.OnRefresh(func(table string) {
		// Streets live both in their own table and on customer rows
		// from before the streets table existed, so customer changes
		// feed the street list too
		if table == domain.TableCustomers {
			streetService.Migrate()
		}
	})

	// Initial full load. A failure here is tolerable: snapshot data is
	// already serving and the resync job retries
	if err := coordinator.RefreshAll(ctx); err != nil {
		log.Warn("Initial refresh incomplete, serving snapshot data", zap.Error(err))
	}
	streetService.Migrate()

	if err := coordinator.Start(ctx); err != nil {
		return fmt.Errorf("failed to start change subscriptions: %w", err)
	}
	defer coordinator.Stop()

	// Periodic resync backstop for dropped subscriptions
	scheduler := jobs.NewScheduler(log)
	resyncJob := jobs.NewResyncJob(coordinator, &cfg.Resync, log)
	if err := resyncJob.Register(scheduler); err != nil {
		log.Error("Failed to register resync job", zap.Error(err))
	}
	scheduler.Start()

	// Middleware and handlers
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	customerHandler := handler.NewCustomerHandler(customerService, log)
	itemHandler := handler.NewItemHandler(itemService, log)
	streetHandler := handler.NewStreetHandler(streetService, log)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		redisClient,
		rateLimiter,
		customerHandler,
		itemHandler,
		streetHandler,
		invoiceHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		stopCtx := scheduler.Stop()
		<-stopCtx.Done()
		log.Info("Scheduler stopped")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
