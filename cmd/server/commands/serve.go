package commands

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/simaogato/portfolio-backend/internal/adapter/auth"
	grpcadapter "github.com/simaogato/portfolio-backend/internal/adapter/grpc"
	"github.com/simaogato/portfolio-backend/internal/adapter/rest"
	"github.com/simaogato/portfolio-backend/internal/usecase/calculator"
	"github.com/simaogato/portfolio-backend/internal/usecase/factory"
	"github.com/simaogato/portfolio-backend/internal/usecase/portfolio"
	"github.com/simaogato/portfolio-backend/internal/usecase/seeder"
	"github.com/simaogato/portfolio-backend/pkg/config"
	"github.com/simaogato/portfolio-backend/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST and gRPC servers",
	Long: `Starts the portfolio API.

REST endpoints (Authorization: Bearer <token>):
  GET    /health
  GET    /api/portfolio/assets
  POST   /api/portfolio/assets
  GET    /api/portfolio/assets/{id}
  PUT    /api/portfolio/assets/{id}
  PATCH  /api/portfolio/assets/{id}
  DELETE /api/portfolio/assets/{id}
  GET    /api/portfolio/summary
  GET    /api/portfolio/performance?metric=roi|gain|annualized
  GET    /api/portfolio/allocation
  GET    /api/portfolio/asset-types

gRPC: portfolio.v1.PortfolioService, grpc.health.v1.Health, reflection.

Example:
  go run ./cmd/server serve
  go run ./cmd/server serve --port 8081 --grpc-port 9091`,
	RunE: runServe,
}

var (
	servePort     string
	serveGRPCPort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "REST port (default PORT)")
	serveCmd.Flags().StringVar(&serveGRPCPort, "grpc-port", "", "gRPC port (default GRPC_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveGRPCPort != "" {
		cfg.GRPCPort = serveGRPCPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)
	log.WithFields(map[string]interface{}{
		"port":      cfg.Port,
		"grpc_port": cfg.GRPCPort,
		"env":       cfg.Env,
		"driver":    cfg.Database.Driver,
	}).Info("Initializing portfolio server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Open storage
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.close()

	// 4. Build the service
	service := portfolio.NewPortfolioService(store.repo, factory.NewDefaultRegistry(), nil)
	calc, err := calculator.ByName(cfg.PerformanceMetric, service.Now)
	if err != nil {
		return err
	}
	service = service.WithCalculator(calc)

	if cfg.SeedDemo {
		created, err := seeder.NewDemoSeeder(service).Seed(ctx)
		if err != nil {
			return fmt.Errorf("seed demo portfolio: %w", err)
		}
		log.WithFields(map[string]interface{}{
			"owner":   seeder.DemoOwnerID.String(),
			"created": created,
		}).Info("Demo portfolio seeded")
	}

	verifier := auth.NewVerifier(cfg.JWTSecret)

	// 5. Start servers
	restServer := rest.NewServer(cfg, log, rest.NewRouter(rest.NewPortfolioHandler(service, log), verifier, log))
	grpcServer := grpcadapter.NewGRPCServer(service, verifier, log)

	grpcLis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen on gRPC port %s: %w", cfg.GRPCPort, err)
	}

	errCh := make(chan error, 2)
	go func() {
		errCh <- restServer.Start()
	}()
	go func() {
		log.WithField("addr", grpcLis.Addr().String()).Info("Starting gRPC server")
		errCh <- grpcServer.Serve(grpcLis)
	}()

	// 6. Wait for a signal or a server failure
	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("Server stopped unexpectedly")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("REST server shutdown failed")
	}

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-shutdownCtx.Done():
		grpcServer.Stop()
	}

	log.Info("Server stopped")
	return nil
}
