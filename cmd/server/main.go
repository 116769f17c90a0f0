package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/hugorgg/command-ai-nexus/internal/gateway"
	"github.com/hugorgg/command-ai-nexus/internal/handler"
	"github.com/hugorgg/command-ai-nexus/internal/middleware"
	"github.com/hugorgg/command-ai-nexus/internal/model"
	"github.com/hugorgg/command-ai-nexus/internal/provision"
	"github.com/hugorgg/command-ai-nexus/internal/stats"
	"github.com/hugorgg/command-ai-nexus/pkg/config"
	"github.com/hugorgg/command-ai-nexus/pkg/database"
	"github.com/hugorgg/command-ai-nexus/pkg/jwtutil"
	"github.com/hugorgg/command-ai-nexus/pkg/logger"
	"github.com/hugorgg/command-ai-nexus/prometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.Load("command-ai-nexus")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()
	log.Info("Configuration loaded", conf.LogConfig()...)

	prometheus.InitMetrics(conf.Metrics.Prefix)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(&conf.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(db, model.TenantModels()...); err != nil {
		log.Fatal("Failed to migrate database models", zap.Error(err))
	}
	if conf.DB.RunMigrations {
		if err := database.RunSQLMigrations(ctx, db, conf.DB.Driver); err != nil {
			log.Fatal("Failed to run SQL migrations", zap.Error(err))
		}
	}

	gw := gateway.New(db, log)

	var cache stats.Cache
	if conf.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     conf.Redis.Addr,
			Password: conf.Redis.Password,
			DB:       conf.Redis.DB,
		})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, stats cache disabled", zap.Error(err))
		} else {
			cache = stats.NewRedisCache(client, conf.Redis.TTL)
		}
	}
	statsService := stats.NewService(newStatsTransport(conf, gw), cache, log)

	validate := validator.New()
	h := handler.New(gw, statsService, provision.New(gw, validate, log), validate, conf.Feed.PollInterval)

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.ErrorHandler

	e.Use(middleware.RequestID)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware)
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		Skipper:      func(c echo.Context) bool { return c.Path() == handler.ProvisionPath },
		AllowOrigins: conf.Server.AllowOrigins,
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestID},
	}))

	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))
	h.Register(e, middleware.Auth(jwt))

	go func() {
		log.Info("Starting server", zap.String("port", conf.Server.Port))
		if err := e.Start(":" + conf.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}

func newStatsTransport(conf *config.Config, gw *gateway.Gateway) stats.Transport {
	switch conf.Stats.Transport {
	case config.StatsTransportHTTP:
		return stats.NewHTTPTransport(conf.Stats.BaseURL, conf.Stats.APIKey, conf.Stats.Timeout, conf.Stats.RetryCount)
	case config.StatsTransportLocal:
		return stats.NewLocalTransport(gw)
	default:
		return stats.NewDBTransport(gw)
	}
}
