package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	route "github.com/bassista/tzcache/internal/api/route"
	appctx "github.com/bassista/tzcache/internal/app"
	"github.com/bassista/tzcache/internal/cache"
	"github.com/bassista/tzcache/internal/config"
	"github.com/bassista/tzcache/internal/fetcher"
	"github.com/bassista/tzcache/internal/logger"
	"github.com/bassista/tzcache/internal/repository"
	"github.com/gin-gonic/gin"

	"github.com/enrichman/httpgrace"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	if err := logger.SetLevel(cfg.Misc.LogLevel); err != nil {
		logger.WithComponent("main").Warnf("invalid log level '%s', using 'info': %v", cfg.Misc.LogLevel, err)
	}
	logger.WithComponent("main").Infof("App will run on port: %d", cfg.Server.Port)

	app, err := buildApp(context.Background(), cfg)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err != nil {
		logger.WithComponent("main").Fatalf("cannot start background jobs: %v", err)
	}

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := route.SetupRoutes(app)
	srv := createGraceHttpServer(app.BaseCtx, "main-server", cfg.Server, r)

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithComponent("main").Error(err)
	}
}

// buildApp wires the repository, the cache, the fetcher and the persisted snapshot.
func buildApp(ctx context.Context, cfg *config.Config) (*appctx.App, error) {
	repo, err := repository.NewRepositoryFromConfig(cfg.Data)
	if err != nil {
		return nil, fmt.Errorf("cannot init repository: %w", err)
	}

	source, err := fetcher.NewSourceFromConfig(cfg.Upstream)
	if err != nil {
		return nil, fmt.Errorf("cannot init upstream source: %w", err)
	}

	store := cache.NewStore()
	app, err := appctx.New(cfg, repo, store, fetcher.New(source, store))
	if err != nil {
		return nil, err
	}

	if err := app.LoadSnapshot(ctx); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

func createGraceHttpServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
