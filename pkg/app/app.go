// Package app 提供应用程序的装配与生命周期管理.
package app

import (
	contextPkg "context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yeisme/docvault/pkg/configs"
	"github.com/yeisme/docvault/pkg/context"
	"github.com/yeisme/docvault/pkg/internal/jobs"
	consumers "github.com/yeisme/docvault/pkg/internal/mq"
	"github.com/yeisme/docvault/pkg/internal/router"
	"github.com/yeisme/docvault/pkg/internal/storage"
	"github.com/yeisme/docvault/pkg/log"
	"github.com/yeisme/docvault/pkg/metrics"
	"github.com/yeisme/docvault/pkg/middleware"
	"github.com/yeisme/docvault/pkg/scheduler"
	"github.com/yeisme/docvault/pkg/tracing"
)

type App struct {
	Engine    *gin.Engine
	config    *configs.AppConfig
	manager   *storage.Manager
	scheduler *scheduler.Scheduler
	baseCtx   contextPkg.Context
}

// NewApp 初始化配置、日志、追踪、指标与存储，装配路由与后台组件.
func NewApp(configPath string) *App {
	ctx := contextPkg.Background()

	if err := configs.InitConfig(configPath); err != nil {
		fmt.Printf("Error initializing config: %v\n", err)
		os.Exit(1)
	}

	log.Init()

	config := configs.GetConfig()
	if err := tracing.InitTracer(config.Tracing); err != nil {
		fmt.Printf("Error initializing tracing: %v\n", err)
		os.Exit(1)
	}

	if err := metrics.InitMetrics(config.Metrics); err != nil {
		fmt.Printf("Error initializing metrics: %v\n", err)
		os.Exit(1)
	}

	manager, err := storage.Init(ctx)
	if err != nil {
		fmt.Printf("Error initializing storage: %v\n", err)
		os.Exit(1)
	}

	// 后台组件（消费者、定时任务）共享携带存储管理器的根 ctx
	ctx = context.WithStorageManager(ctx, manager)

	l := log.Logger()
	gin.DefaultWriter = log.NewGinWriter(l, zerolog.InfoLevel)
	gin.DefaultErrorWriter = log.NewGinWriter(l, zerolog.ErrorLevel)

	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.CORSMiddleware(),
		gzip.Gzip(gzip.DefaultCompression),
		middleware.RateLimitMiddleware(config.RateLimit),
		middleware.TracingMiddleware(),
		middleware.PrometheusMiddleware(),
		middleware.StorageMiddleware(manager),
		middleware.AuthMiddleware(config.Auth),
	)

	if config.Metrics.Enabled {
		_ = metrics.StartMetricsServer(config.Metrics, engine)
	}

	sched, err := scheduler.NewScheduler()
	if err != nil {
		l.Error().Err(err).Msg("scheduler init failed")

		sched = nil
	} else if err := jobs.Register(ctx, sched); err != nil {
		l.Error().Err(err).Msg("register jobs failed")
	}

	router.Register(engine, router.Options{Scheduler: sched})

	if err := consumers.StartConsumers(ctx); err != nil {
		l.Error().Err(err).Msg("start consumers failed")
	}

	return &App{
		Engine:    engine,
		config:    config,
		manager:   manager,
		scheduler: sched,
		baseCtx:   ctx,
	}
}

// Run 启动 HTTP 服务与调度器，收到 SIGINT/SIGTERM 后优雅退出.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: a.config.Server.GetTimeoutDuration(),
	}

	if a.scheduler != nil {
		a.scheduler.Start()
	}

	l := log.Logger()

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("addr", addr).Msg("http server started")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdown(nil)
		return err
	case sig := <-quit:
		l.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := contextPkg.WithTimeout(contextPkg.Background(), a.config.Server.GetTimeoutDuration())
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	a.shutdown(shutdownCtx)

	return err
}

// shutdown 依次停掉调度器、存储与追踪导出器.
func (a *App) shutdown(ctx contextPkg.Context) {
	l := log.Logger()

	if a.scheduler != nil {
		if err := a.scheduler.Stop(); err != nil {
			l.Warn().Err(err).Msg("stop scheduler")
		}
	}

	a.manager.Close()

	if ctx == nil {
		ctx = contextPkg.Background()
	}

	if err := tracing.ShutdownTracer(ctx); err != nil {
		l.Warn().Err(err).Msg("shutdown tracer")
	}
}
