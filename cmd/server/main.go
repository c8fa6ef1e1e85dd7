package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/decant-catalog/internal/config"
	"github.com/light-bringer/decant-catalog/internal/pkg/logger"
	"github.com/light-bringer/decant-catalog/internal/services"
	httptransport "github.com/light-bringer/decant-catalog/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration from .env and environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting Decant Catalog Service...",
		zap.String("spanner_database", cfg.SpannerDatabase),
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Bool("cache_enabled", cfg.CacheEnabled()))

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Create gRPC server with health and reflection (for grpcurl and health checks)
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+strconv.Itoa(cfg.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	// 4. Create HTTP server
	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: httptransport.NewRouter(serviceOpts.HTTPHandler, log),
	}

	// 5. Serve until a signal arrives or a listener fails
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("gRPC server listening", zap.Int("port", cfg.GRPCPort))
		healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		log.Info("HTTP server listening", zap.Int("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// 6. Graceful shutdown handling
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down gracefully...")

		healthServer.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}
