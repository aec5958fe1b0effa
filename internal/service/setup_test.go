package service

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cutspace_v1_202509/internal/config"
	"cutspace_v1_202509/internal/model"
)

// ==================== 测试辅助 ====================

func setupSvcTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Barbershop{},
		&model.Review{},
		&model.Booking{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

// testConfig 固定测试配置，adminIDs 为管理员白名单
func testConfig(adminIDs ...int64) *config.Config {
	ids := make(map[int64]struct{})
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &config.Config{
		BotToken:         "1234567890:TEST_TOKEN_abcdefghijklmnopqrstuv",
		AdminTelegramIDs: ids,
		JWTSecret:        "test-secret",
		JWTTTL:           time.Hour,
		InitDataMaxAge:   time.Hour,
	}
}
