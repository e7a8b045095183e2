package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/light-bringer/catalog-listing/internal/config"
	"github.com/light-bringer/catalog-listing/internal/pkg/logger"
	"github.com/light-bringer/catalog-listing/internal/services"
	grpclisting "github.com/light-bringer/catalog-listing/internal/transport/grpc/listing"
	httptransport "github.com/light-bringer/catalog-listing/internal/transport/http"
)

var configPath = flag.String("config", os.Getenv("LISTING_CONFIG"), "Path to an optional YAML config file")

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting catalog listing service",
		zap.String("backend", cfg.Catalog.Backend),
		zap.String("http_addr", cfg.HTTP.Addr),
		zap.String("grpc_addr", cfg.GRPC.Addr),
	)

	// 2. Initialize service dependencies
	svc, err := services.NewServiceOptions(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer svc.Close()

	// 3. HTTP server
	httpServer := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httptransport.NewRouter(httptransport.RouterConfig{
			Engine:         svc.Engine,
			Logger:         log.Named("http"),
			Gatherer:       svc.Registry,
			Ready:          svc.Ready,
			RequestTimeout: cfg.HTTP.WriteTimeout,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	// 4. gRPC server, disabled by an empty address. Both ports are bound
	// before any server goroutine starts so a bind failure leaves nothing
	// running.
	grpcServer, healthSrv := grpclisting.NewServer(svc.Engine, log.Named("grpc"))

	httpLis, grpcLis, err := listen(cfg.HTTP.Addr, cfg.GRPC.Addr)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", httpLis.Addr().String()))
		if err := httpServer.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	if grpcLis != nil {
		g.Go(func() error {
			log.Info("gRPC server listening", zap.String("addr", grpcLis.Addr().String()))
			return grpcServer.Serve(grpcLis)
		})
	}

	// 5. Graceful shutdown on signal or server failure
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down gracefully")

		healthSrv.SetServingStatus(grpclisting.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP server shutdown error", zap.Error(err))
		}
		grpcServer.GracefulStop()
		return nil
	})

	return g.Wait()
}

// listen binds the HTTP port and, when grpcAddr is set, the gRPC port. On
// failure no listener is left open. grpcLis is nil when gRPC is disabled.
func listen(httpAddr, grpcAddr string) (httpLis, grpcLis net.Listener, err error) {
	httpLis, err = net.Listen("tcp", httpAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to listen on HTTP address: %w", err)
	}
	if grpcAddr == "" {
		return httpLis, nil, nil
	}
	grpcLis, err = net.Listen("tcp", grpcAddr)
	if err != nil {
		_ = httpLis.Close()
		return nil, nil, fmt.Errorf("failed to listen on gRPC address: %w", err)
	}
	return httpLis, grpcLis, nil
}
