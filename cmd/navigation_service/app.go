package navigationservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"city-guide/internal/domain/session"
	"city-guide/internal/general/config"
	"city-guide/internal/general/geocode"
	"city-guide/internal/general/graph"
	"city-guide/internal/general/jwt"
	"city-guide/internal/general/logger"
	"city-guide/internal/general/postgres"
	"city-guide/internal/general/rabbitmq"
	"city-guide/internal/general/websocket"
	"city-guide/internal/software/navigator/handler"
	"city-guide/internal/software/navigator/queue"
	"city-guide/internal/software/navigator/service"
)

// Run wires the navigation service and blocks until ctx is cancelled.
func Run(ctx context.Context, maxConcurrent int) error {
	// static request ID for startup logs
	logger := logger.New("navigation-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	cfg, err := config.LoadFromFile("config/config.yaml")
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	// Postgres pool and the stored street graph
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	graphRepo := postgres.NewGraphRepo(pool)
	if err := graphRepo.EnsureSchema(ctx); err != nil {
		logger.Error(ctx, "db_schema_failed", "Failed to ensure graph schema", err, nil)
		return err
	}

	cityGraph, err := graphRepo.LoadCity(ctx, cfg.City)
	if err != nil {
		logger.Error(ctx, "graph_load_failed", "Failed to load city graph; run graph-import first", err,
			map[string]any{"city": cfg.City})
		return err
	}
	logger.Info(ctx, "graph_loaded", "City street graph loaded", map[string]any{
		"city":  cfg.City,
		"nodes": len(cityGraph.Nodes),
	})

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	mqPub := rabbitmq.NewMQPublisher(rmq)

	jwtManager := jwt.NewManager(cfg.JWT.SecretKey, 2*time.Hour)

	geocoder := geocode.NewPhotonClient(cfg.Geocoder.BaseURL, cfg.GeocoderTimeout(), logger)

	// event publisher; the WebSocket sink is attached after the hub exists
	eventPub := queue.NewPublisher(mqPub, logger, nil)

	svc := service.NewNavigationService(
		logger,
		graph.NewProvider(cityGraph),
		geocoder,
		eventPub,
		rmq,
		service.NewRegistry(),
		session.Limits{
			ArrivalRadiusM:      cfg.Navigation.ArrivalRadiusM,
			DeviationThresholdM: cfg.Navigation.DeviationThresholdM,
		},
		cfg.City,
	)

	ws := websocket.NewWebSocket(logger, jwtManager, svc)
	eventPub.AttachSink(ws)

	// run the background consumers for position updates and route commands
	svc.RunBackgroundConsumers(ctx)

	// set up the HTTP handler and its routes
	mux := http.NewServeMux()
	httpHandler := handler.NewNavigationHTTPHandler(svc, logger, jwtManager, ws)
	httpHandler.RegisterRoutes(mux)

	// concurrency limiter (global) - blocks when capacity is full
	limitedHandler := withConcurrencyLimit(maxConcurrent, mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           limitedHandler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger.Info(ctx, "service_started",
		fmt.Sprintf("Navigation Service started on port %d", cfg.HTTP.Port),
		map[string]any{"port": cfg.HTTP.Port, "max_concurrent": maxConcurrent, "city": cfg.City},
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Starting graceful shutdown", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.HTTP.Port})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
