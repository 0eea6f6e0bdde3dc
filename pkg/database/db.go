package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/apper-canvas/study-primary-pixel/config"
	"github.com/apper-canvas/study-primary-pixel/internal/model"
	apperrors "github.com/apper-canvas/study-primary-pixel/pkg/errors"
)

func gormConfig(logSQL bool) *gorm.Config {
	level := gormlogger.Warn
	if logSQL {
		level = gormlogger.Info
	}
	return &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	}
}

// NewDB 按 store.driver 打开关系型数据库（postgres / sqlite）
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return NewPostgres(&cfg.Database, logger)
	case config.DriverSQLite:
		return NewSQLite(cfg.Store.SQLitePath, cfg.Database.LogSQL, logger)
	default:
		return nil, fmt.Errorf("%w: %s 不是关系型驱动", apperrors.ErrUnsupportedDriver, cfg.Store.Driver)
	}
}

// NewPostgres 初始化 PostgreSQL 数据库连接
func NewPostgres(cfg *config.DatabaseConfig, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig(cfg.LogSQL))
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}

	// 连接池配置（从配置文件读取，已有默认值 25/10）
	maxOpen := cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 25
	}
	maxIdle := cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = 10
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	logger.Info("数据库连接成功",
		zap.String("driver", config.DriverPostgres),
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("dbname", cfg.Name),
	)

	return db, nil
}

// NewSQLite 打开 SQLite 数据库文件（":memory:" 亦可），并通过 AutoMigrate 建表
func NewSQLite(path string, logSQL bool, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), gormConfig(logSQL))
	if err != nil {
		return nil, fmt.Errorf("打开 SQLite 失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	// SQLite 单写者
	sqlDB.SetMaxOpenConns(1)

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	logger.Info("数据库连接成功",
		zap.String("driver", config.DriverSQLite),
		zap.String("path", path),
	)
	return db, nil
}

// AutoMigrate 根据模型建表（SQLite 与测试使用；PostgreSQL 走 SQL 迁移）
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Course{}, &model.Assignment{}, &model.Grade{}); err != nil {
		return fmt.Errorf("自动建表失败: %w", err)
	}
	return nil
}
