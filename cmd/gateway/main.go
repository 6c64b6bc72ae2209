// Command gateway serves the catalog over its four protocol fronts: REST,
// GraphQL, SOAP and gRPC, plus a websocket price push and Prometheus
// metrics.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"google.golang.org/grpc"

	"github.com/cswatch/catalog/api/gen/skinspb"
	"github.com/cswatch/catalog/internal/app"
	"github.com/cswatch/catalog/internal/app/graphqlapi"
	"github.com/cswatch/catalog/internal/app/grpcapi"
	"github.com/cswatch/catalog/internal/app/httpapi"
	"github.com/cswatch/catalog/internal/app/soapapi"
	"github.com/cswatch/catalog/internal/app/storage"
	"github.com/cswatch/catalog/internal/app/storage/jsonfile"
	"github.com/cswatch/catalog/internal/app/storage/memory"
	"github.com/cswatch/catalog/internal/app/storage/postgres"
	"github.com/cswatch/catalog/internal/app/wsapi"
	"github.com/cswatch/catalog/internal/config"
	"github.com/cswatch/catalog/internal/metrics"
	"github.com/cswatch/catalog/internal/middleware"
	"github.com/cswatch/catalog/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gateway: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.LoadOrDefault()
	log := logger.New(logger.LoggingConfig{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}).WithField("component", "gateway")

	store, closeStore, err := buildStore(cfg, log)
	if err != nil {
		return fmt.Errorf("configure store: %w", err)
	}
	defer closeStore()

	m := metrics.New()
	application, err := app.New(app.Stores{Catalog: store}, cfg.Market, m, log)
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	router := mux.NewRouter()
	router.Use(middleware.Logging(log))
	router.Use(middleware.Metrics(m))
	limiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst, log)
	router.Use(limiter.Middleware)

	httpapi.Register(router, application.Catalog, log)

	gql, err := graphqlapi.NewHandler(application.Catalog, log)
	if err != nil {
		return fmt.Errorf("build graphql handler: %w", err)
	}
	router.Handle("/graphql", gql).Methods(http.MethodPost)
	router.Handle("/soap/agents", soapapi.NewHandler(application.Catalog, log)).Methods(http.MethodPost)
	router.Handle("/grpc", grpcapi.NewHTTPHandler(application.Market, cfg.Server.GRPCAddr, log))
	router.Handle("/ws/prices", wsapi.NewHandler(application.Market, log)).Methods(http.MethodGet)
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           middleware.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	skinspb.RegisterSkinsPriceServer(grpcServer, grpcapi.NewServer(application.Market, log))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start application: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		log.WithField("addr", cfg.Server.HTTPAddr).Info("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
		if err != nil {
			errCh <- fmt.Errorf("grpc listen: %w", err)
			return
		}
		log.WithField("addr", cfg.Server.GRPCAddr).Info("grpc server listening")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case runErr = <-errCh:
		log.WithError(runErr).Error("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutMS)*time.Millisecond)
	defer cancel()

	stopGRPC(shutdownCtx, grpcServer)
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown incomplete")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application shutdown incomplete")
	}
	return runErr
}

// stopGRPC drains the server gracefully but forces termination when ctx
// expires: subscription streams live until the client cancels, so a graceful
// stop alone can block shutdown indefinitely.
func stopGRPC(ctx context.Context, srv *grpc.Server) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.GracefulStop()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		srv.Stop()
		<-done
	}
}

func buildStore(cfg *config.Config, log *logger.Logger) (storage.CatalogStore, func(), error) {
	noop := func() {}
	switch cfg.Storage.Backend {
	case "memory":
		return memory.New(), noop, nil
	case "file":
		store, err := jsonfile.New(cfg.Storage.DataDir, log.WithField("component", "jsonfile-store"))
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.Storage.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		store := postgres.New(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			db.Close()
			return nil, noop, err
		}
		return store, func() { db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
