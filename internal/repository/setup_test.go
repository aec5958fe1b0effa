package repository

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cutspace_v1_202509/internal/model"
)

// setupTestDB 内存 sqlite + 全量迁移
// sqlite 对列类型宽容，text[] 列会以序列化字符串落盘，Scan/Value 仍然走 pq 的数组编码
func setupTestDB(t *testing.T) *gorm.DB {
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
