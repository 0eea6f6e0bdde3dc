package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/apper-canvas/study-primary-pixel/config"
	"github.com/apper-canvas/study-primary-pixel/internal/api/handler"
	"github.com/apper-canvas/study-primary-pixel/internal/api/middleware"
	"github.com/apper-canvas/study-primary-pixel/internal/api/router"
	"github.com/apper-canvas/study-primary-pixel/internal/dto"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
	"github.com/apper-canvas/study-primary-pixel/internal/repository/memory"
	"github.com/apper-canvas/study-primary-pixel/internal/repository/remote"
	"github.com/apper-canvas/study-primary-pixel/internal/service"
	"github.com/apper-canvas/study-primary-pixel/pkg/database"
	apperrors "github.com/apper-canvas/study-primary-pixel/pkg/errors"
	applogger "github.com/apper-canvas/study-primary-pixel/pkg/logger"
	"github.com/apper-canvas/study-primary-pixel/pkg/redis"
)

func main() {
	// 0. .env 文件（可选）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("PLANNER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	if err := dto.RegisterBindingValidations(); err != nil {
		logger.Fatal("注册校验规则失败", zap.Error(err))
	}

	// 3. 打开存储
	st, err := openStore(cfg, logger)
	if err != nil {
		logger.Fatal("存储初始化失败", zap.Error(err))
	}
	checks := []handler.HealthCheck{{Name: "store", Check: st.ping}}

	// 4. 连接 Redis（可选：连接失败时降级运行，不限流）
	var rdb *redis.Client
	var limiter middleware.RateLimiter
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，限流功能将不可用", zap.Error(err))
			rdb = nil
		} else {
			limiter = rdb
			checks = append(checks, handler.HealthCheck{Name: "redis", Optional: true, Check: rdb.Ping})
		}
	}

	// 5. 依赖注入: Repository → Service → Handler
	svc, err := service.NewService(cfg, st.repo, logger)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}
	h := handler.NewHandler(svc, checks...)

	// 6. 初始化路由
	engine := router.Setup(cfg, h, limiter, logger)

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 8. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	st.close()

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}

// store 存储驱动的运行时句柄
type store struct {
	repo  *repository.Repository
	ping  func(ctx context.Context) error
	close func()
}

func noopPing(context.Context) error { return nil }

// openStore 按 store.driver 打开存储
func openStore(cfg *config.Config, logger *zap.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		seed := memory.Seed{}
		if cfg.Store.SeedFile != "" {
			loaded, err := memory.LoadSeed(cfg.Store.SeedFile)
			if err != nil {
				return nil, err
			}
			seed = loaded
		}
		logger.Info("使用内存存储",
			zap.Int("courses", len(seed.Courses)),
			zap.Int("assignments", len(seed.Assignments)))
		return &store{repo: memory.New(seed).Repository(), ping: noopPing, close: func() {}}, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.NewDB(cfg, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		if cfg.Store.Driver == config.DriverPostgres {
			if err := database.RunMigrations(sqlDB, logger); err != nil {
				return nil, err
			}
		}
		return &store{
			repo:  repository.NewRepository(db),
			ping:  sqlDB.PingContext,
			close: func() { sqlDB.Close() },
		}, nil

	case config.DriverRemote:
		client, err := remote.NewClient(remote.Config{
			BaseURL:   cfg.Remote.BaseURL,
			ProjectID: cfg.Remote.ProjectID,
			PublicKey: cfg.Remote.PublicKey,
			Timeout:   cfg.Remote.Timeout,
			PageSize:  cfg.Remote.PageSize,
		}, logger)
		if err != nil {
			return nil, err
		}
		return &store{repo: client.Repository(), ping: noopPing, close: func() {}}, nil

	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedDriver, cfg.Store.Driver)
	}
}
