//go:build integration

package repository_test

import (
	"fmt"
	"os"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/apper-canvas/study-primary-pixel/internal/model"
	"github.com/apper-canvas/study-primary-pixel/internal/repository"
	"github.com/apper-canvas/study-primary-pixel/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=planner password=planner_password dbname=study_planner_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 与生产环境一致，走 SQL 迁移建表
	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "获取底层 sql.DB 失败: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// cleanTables 清空业务表并重置自增序列
func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{
		model.Grade{}.TableName(),
		model.Assignment{}.TableName(),
		model.Course{}.TableName(),
	} {
		if err := testDB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY", table)).Error; err != nil {
			t.Fatalf("清空 %s 失败: %v", table, err)
		}
	}
}

// ═══════════════════════════════════════════════════════════
// Test: PostgreSQL 驱动行为与 SQLite 一致
// ═══════════════════════════════════════════════════════════

func TestGormRepository_Postgres(t *testing.T) {
	cleanTables(t)
	defer cleanTables(t)

	runRepositoryContract(t, repository.NewRepository(testDB))
}
