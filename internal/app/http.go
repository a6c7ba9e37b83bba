package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-workspace/internal/analytics"
	"github.com/adanyl0v/go-workspace/internal/config"
	"github.com/adanyl0v/go-workspace/internal/delivery/http/v1"
	"github.com/adanyl0v/go-workspace/internal/services"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	router := gin.New()
	router.ContextWithFallback = true
	router.Use(requestLogger(globalLogger))
	router.Use(gin.Recovery())
	v1.RegisterRoutes(router, mustNewV1Handler())

	// Cancelled before Shutdown so that dashboard streams end instead of
	// holding the server open until the shutdown timeout.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:              net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler:           router,
		ReadHeaderTimeout: httpCfg.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return baseCtx
		},
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")
	cancelBase()

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func mustNewV1Handler() v1.Handler {
	cfg := config.Global()

	location, err := cfg.Analytics.Location()
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to load analytics timezone")
		panic(err)
	}

	authService := newAuthService()
	sessionService := services.NewSessionService(globalLogger, globalPostgresPool)
	workspaceService := services.NewWorkspaceService(globalLogger, globalPostgresPool)
	projectService := services.NewProjectService(globalLogger, globalPostgresPool)
	taskService := services.NewTaskService(globalLogger, globalPostgresPool)
	chatService := services.NewChatService(globalLogger, globalPostgresPool)

	aggregator := analytics.NewAggregator(
		taskService,
		analytics.WithWindowDays(cfg.Analytics.TrendWindowDays),
		analytics.WithLocation(location),
		analytics.WithLogger(globalLogger),
	)

	return v1.New(
		globalLogger,
		authService,
		sessionService,
		workspaceService,
		projectService,
		taskService,
		chatService,
		aggregator,
		cfg.Analytics.StreamInterval,
	)
}

func newAuthService() services.AuthService {
	jwtCfg := config.Global().JWT
	return services.NewAuthService(
		globalLogger,
		globalPostgresPool,
		jwtCfg.Issuer,
		[]byte(jwtCfg.SigningKey),
		jwtCfg.AccessTokenTTL,
		jwtCfg.RefreshTokenTTL,
	)
}
