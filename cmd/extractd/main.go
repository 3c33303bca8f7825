package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/orthodoxmetrics/record-extractor/internal/common"
	"github.com/orthodoxmetrics/record-extractor/internal/engine"
	"github.com/orthodoxmetrics/record-extractor/internal/repository"
	"github.com/orthodoxmetrics/record-extractor/internal/worker"
)

func main() {
	// Logger
	zl, _ := zap.NewProduction()
	defer func() { _ = zl.Sync() }()
	log := zl.Sugar()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.Database.DSN == "" {
		log.Fatal("DB_URL env var is required")
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("opening DB: %v", err)
	}
	defer db.Close(logger)
	if err := repository.Migrate(ctx, db, logger); err != nil {
		log.Fatalf("migrating DB: %v", err)
	}
	log.Infow("DB health OK")

	jobs := repository.NewJobRepository(db, logger)
	extractor := engine.NewExtractor(logger)
	proc := worker.NewProcessor(logger, extractor, jobs)
	loop := worker.NewLoop(logger, proc, cfg.Worker)

	// gRPC health endpoint for orchestration probes; reflection for grpcurl
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.HealthAddr)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	log.Infof("health endpoint serving on %s", cfg.Server.HealthAddr)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			log.Fatalf("grpc serve: %v", err)
		}
	}()

	go loop.Run(ctx)

	<-ctx.Done()
	log.Info("shutting down...")
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	grpcServer.GracefulStop()
	log.Info("stopped")
}
