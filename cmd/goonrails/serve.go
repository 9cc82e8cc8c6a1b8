package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpc_prometheus "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/yourEmotion/goonrails/internal/api"
	"github.com/yourEmotion/goonrails/internal/cache"
	"github.com/yourEmotion/goonrails/internal/config"
	"github.com/yourEmotion/goonrails/internal/middleware"
	"github.com/yourEmotion/goonrails/internal/rpc"
	"github.com/yourEmotion/goonrails/internal/service"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the post store (HTTP API, gRPC and metrics)",
	Long: `Connects to the database and Redis, migrates the schema and serves:
  HTTP API  GET / and GET /posts/:id plus the write endpoints
  gRPC      blog.PostService
  metrics   Prometheus /metrics

The log level follows changes to the config file while running.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

func runServe(ctx context.Context, cfg *config.Config) error {
	zap.L().Info("Starting GoOnRails post store")

	db, err := config.OpenDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	zap.L().Info("Connected to database", zap.String("driver", cfg.Database.Driver))

	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" && cfg.Cache.FeedTTL > 0 {
		redisClient, err = config.InitRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		defer redisClient.Close()
		zap.L().Info("Connected to Redis!", zap.String("addr", cfg.Redis.Addr))
	} else {
		zap.L().Info("Feed cache disabled")
	}

	svc := service.NewBlogService(db, cache.NewFeed(redisClient, cfg.Cache.FeedTTL))

	grpcSrv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.UnaryLoggingInterceptor(),
			grpc_prometheus.UnaryServerInterceptor,
		),
	)
	rpc.RegisterPostServiceServer(grpcSrv, rpc.NewServer(svc))
	grpc_prometheus.Register(grpcSrv)

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPC.Addr, err)
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Metrics.Addr, Handler: metricsMux}

	httpSrv := &http.Server{Addr: cfg.HTTP.Addr, Handler: api.NewRouter(svc)}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("gRPC server started", zap.String("addr", cfg.GRPC.Addr))
		if err := grpcSrv.Serve(lis); err != nil {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		zap.L().Info("HTTP API started", zap.String("addr", cfg.HTTP.Addr))
		return listenAndServe(httpSrv)
	})
	g.Go(func() error {
		zap.L().Info("Prometheus metrics listening", zap.String("addr", cfg.Metrics.Addr+"/metrics"))
		return listenAndServe(metricsSrv)
	})
	if configPath != "" {
		g.Go(func() error {
			return config.Watch(gctx, configPath, func(next *config.Config) {
				lvl, err := levelFor(next.Logging.Level)
				if err != nil {
					zap.L().Warn("ignoring log level", zap.Error(err))
					return
				}
				logLevel.SetLevel(lvl)
			})
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		grpcSrv.GracefulStop()
		return errors.Join(httpSrv.Shutdown(shutdownCtx), metricsSrv.Shutdown(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	zap.L().Info("Servers stopped gracefully")
	return nil
}

func listenAndServe(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", srv.Addr, err)
	}
	return nil
}
