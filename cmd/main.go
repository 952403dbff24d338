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

	"github.com/go-redis/redis/v8"
	"golang.org/x/sync/errgroup"

	"food-storefront/internal/catalog"
	"food-storefront/internal/config"
	"food-storefront/internal/database"
	"food-storefront/internal/logger"
	"food-storefront/internal/messaging"
	"food-storefront/internal/models"
	"food-storefront/internal/services/notification"
	"food-storefront/internal/services/order"
	"food-storefront/internal/services/storefront"
	trackingsvc "food-storefront/internal/services/tracking"
	"food-storefront/internal/session"
	"food-storefront/internal/tracking"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (storefront-service, tracking-service, notification-subscriber, publish-status)")
		port       = flag.Int("port", 3000, "HTTP port")
		configPath = flag.String("config", "config.yaml", "Path to YAML config; empty uses defaults and environment only")
		prefetch   = flag.Int("prefetch", 10, "RabbitMQ prefetch count for the status subscriber")
		orderID    = flag.String("order", "", "Order number (publish-status mode)")
		status     = flag.String("status", "", "New status (publish-status mode)")
		changedBy  = flag.String("changed-by", "operator", "Source of the status change (publish-status mode)")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(*mode, os.Stdout, cfg.Service.LogLevel)
	requestID := logger.GenerateRequestID()

	log.Info("service_starting", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode":           *mode,
		"port":           *port,
		"catalog_source": cfg.Catalog.Source,
		"tracking_board": cfg.Tracking.Board,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "storefront-service":
		err = runStorefrontService(ctx, cfg, log, *port, *prefetch)
	case "tracking-service":
		err = runTrackingService(ctx, cfg, log, *port)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	case "publish-status":
		err = runPublishStatus(ctx, cfg, log, *orderID, *status, *changedBy)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}
	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

// runStorefrontService serves the storefront API, applies status updates
// from the notification exchange and expires idle sessions in one process.
func runStorefrontService(ctx context.Context, cfg *config.Config, log *logger.Logger, port, prefetch int) error {
	requestID := logger.GenerateRequestID()

	board, closeBoard, err := newBoard(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBoard()

	store, err := newCatalog(ctx, cfg, log)
	if err != nil {
		return err
	}

	pricing, err := cfg.CartPricing()
	if err != nil {
		return fmt.Errorf("invalid pricing: %w", err)
	}

	conn, err := messaging.New(cfg.RabbitMQURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()
	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(conn, log)
	sink := order.NewSink(publisher, board, log)
	sessions := session.NewStore(pricing, sink)

	service := storefront.NewService(store, sessions, board, log)
	handler := storefront.NewHandler(service, log)

	consumer := messaging.NewConsumer(conn, log, messaging.QueueStatusUpdates, "storefront-status", prefetch)
	defer consumer.Close()
	subscriber := notification.NewSubscriber(consumer, board, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(gctx, server, log, "Storefront service", port)
	})
	g.Go(func() error {
		return subscriber.Start(gctx)
	})
	g.Go(func() error {
		return service.ExpireSessions(gctx, cfg.Session.IdleTTL, cfg.Session.SweepInterval)
	})
	return g.Wait()
}

func runTrackingService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	board, closeBoard, err := newBoard(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBoard()

	service := trackingsvc.NewService(board, log)
	handler := trackingsvc.NewHandler(service, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}
	return serve(ctx, server, log, "Tracking service", port)
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	board, closeBoard, err := newBoard(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeBoard()

	conn, err := messaging.New(cfg.RabbitMQURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.QueueStatusUpdates, "status-subscriber", prefetch)
	defer consumer.Close()

	return notification.NewSubscriber(consumer, board, log).Start(ctx)
}

// runPublishStatus emits one status update on the notification exchange,
// standing in for the fulfillment side during local runs.
func runPublishStatus(ctx context.Context, cfg *config.Config, log *logger.Logger, orderID, status, changedBy string) error {
	if orderID == "" {
		return errors.New("--order is required for publish-status mode")
	}
	newStatus, err := models.ParseOrderStatus(status)
	if err != nil {
		return err
	}

	conn, err := messaging.New(cfg.RabbitMQURL(), log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	msg := models.CreateStatusUpdateMessage(orderID, "", string(newStatus), changedBy)
	if err := messaging.NewPublisher(conn, log).PublishNotification(ctx, msg); err != nil {
		return err
	}

	log.Info("status_published", "Status update published", logger.GenerateRequestID(), map[string]interface{}{
		"order_number": orderID,
		"new_status":   newStatus,
		"changed_by":   changedBy,
	})
	return nil
}

// serve runs server until ctx is done, then shuts it down gracefully
func serve(ctx context.Context, server *http.Server, log *logger.Logger, name string, port int) error {
	requestID := logger.GenerateRequestID()
	errCh := make(chan error, 1)

	go func() {
		log.Info("service_started", fmt.Sprintf("%s started on port %d", name, port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("graceful_shutdown", fmt.Sprintf("Shutting down %s", name), requestID, nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newBoard(ctx context.Context, cfg *config.Config, log *logger.Logger) (tracking.Board, func(), error) {
	if cfg.Tracking.Board != config.BoardRedis {
		return tracking.NewMemoryBoard(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	board := tracking.NewRedisBoard(client, cfg.Redis.StatusTTL)
	if err := board.Ping(ctx); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis_connected", "Connected to Redis status board", logger.GenerateRequestID(), map[string]interface{}{
		"addr": cfg.Redis.Addr,
	})
	return board, func() { client.Close() }, nil
}

func newCatalog(ctx context.Context, cfg *config.Config, log *logger.Logger) (*catalog.Store, error) {
	if cfg.Catalog.Source != config.CatalogPostgres {
		return catalog.NewStore(ctx, catalog.NewMemorySource(catalog.PlaceholderRestaurants()))
	}

	requestID := logger.GenerateRequestID()
	db, err := database.New(ctx, cfg.DatabaseURL(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	// The catalog is loaded once; the pool is not needed afterwards.
	defer db.Close()

	applied, err := db.RunMigrations(ctx, cfg.Catalog.MigrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("migrations_applied", "Catalog migrations applied", requestID, map[string]interface{}{
		"applied": applied,
	})

	store, err := catalog.NewStore(ctx, catalog.NewPostgresSource(db))
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return store, nil
}
