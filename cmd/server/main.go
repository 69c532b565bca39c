package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/mealprice-service/internal/config"
	"github.com/light-bringer/mealprice-service/internal/pkg/logger"
	"github.com/light-bringer/mealprice-service/internal/services"
	"github.com/light-bringer/mealprice-service/internal/transport/grpc/pricing"
	httptransport "github.com/light-bringer/mealprice-service/internal/transport/http"
)

func init() {
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			config.Load,
			provideLoggerConfig,
			logger.New,
			provideRegistry,
			provideServiceOptions,
			provideGRPCServer,
			provideRouter,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Invoke(
			startGRPCServer,
			startHTTPServer,
			watchCacheReload,
		),
	)
	app.Run()
}

func provideLoggerConfig(cfg *config.Configuration) logger.Config {
	return cfg.LoggerConfig()
}

// provideRegistry returns one registry used both to register and to serve
// metrics.
func provideRegistry() (prometheus.Registerer, prometheus.Gatherer) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry, registry
}

func provideServiceOptions(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	log *zap.Logger,
	registerer prometheus.Registerer,
) (*services.ServiceOptions, error) {
	opts, err := services.NewServiceOptions(context.Background(), cfg, log, registerer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize service")
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			opts.Close()
			return nil
		},
	})
	return opts, nil
}

func provideGRPCServer(opts *services.ServiceOptions, log *zap.Logger) *grpc.Server {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(pricing.LoggingInterceptor(log)))
	pricing.RegisterPricingServiceServer(server, opts.PricingHandler)
	reflection.Register(server)
	return server
}

func provideRouter(opts *services.ServiceOptions, log *zap.Logger, gatherer prometheus.Gatherer, cfg *config.Configuration) *gin.Engine {
	if cfg.Logging.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	return httptransport.NewRouter(opts.HTTPHandlers, log, gatherer)
}

func startGRPCServer(lc fx.Lifecycle, server *grpc.Server, cfg *config.Configuration, log *zap.Logger) {
	addr := ":" + cfg.Server.GRPCPort

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on gRPC port %s", cfg.Server.GRPCPort)
			}
			go func() {
				log.Info("gRPC server listening", zap.String("addr", addr))
				if err := server.Serve(lis); err != nil {
					log.Error("gRPC server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping gRPC server")
			stopped := make(chan struct{})
			go func() {
				server.GracefulStop()
				close(stopped)
			}()
			select {
			case <-stopped:
			case <-ctx.Done():
				server.Stop()
			}
			return nil
		},
	})
}

func startHTTPServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Configuration, log *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			lis, err := net.Listen("tcp", server.Addr)
			if err != nil {
				return errors.Wrapf(err, "failed to listen on HTTP port %s", cfg.Server.HTTPPort)
			}
			go func() {
				log.Info("HTTP server listening", zap.String("addr", server.Addr))
				if err := server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server error", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// watchCacheReload drops cached snapshots on SIGHUP.
func watchCacheReload(lc fx.Lifecycle, opts *services.ServiceOptions, log *zap.Logger) {
	if opts.RuleCache == nil {
		return
	}

	hup := make(chan os.Signal, 1)
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			signal.Notify(hup, syscall.SIGHUP)
			go func() {
				for {
					select {
					case <-hup:
						opts.RuleCache.Invalidate(context.Background())
						log.Info("snapshot cache invalidated")
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			signal.Stop(hup)
			close(done)
			return nil
		},
	})
}
