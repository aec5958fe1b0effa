package task

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cutspace_v1_202509/internal/model"
	"cutspace_v1_202509/internal/repository"
	"cutspace_v1_202509/internal/service"
)

// ==================== 辅助函数 ====================

func setupTaskTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(&model.User{}, &model.Barbershop{}, &model.Booking{})
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func seedBooking(t *testing.T, db *gorm.DB, status string, age time.Duration) *model.Booking {
	t.Helper()
	b := &model.Booking{
		BarbershopID: 1,
		UserID:       1,
		Service:      "Soch olish",
		BookingAt:    time.Now().Add(24 * time.Hour),
		Status:       status,
	}
	if err := db.Create(b).Error; err != nil {
		t.Fatalf("创建预约失败: %v", err)
	}
	if age > 0 {
		created := time.Now().Add(-age)
		db.Model(b).UpdateColumn("created_at", created)
	}
	return b
}

// ==================== 预约过期清理 ====================

func TestBookingExpiryTask_ExpireNow(t *testing.T) {
	db := setupTaskTestDB(t)
	bookingRepo := repository.NewBookingRepository(db)
	bookingSvc := service.NewBookingService(bookingRepo, repository.NewBarbershopRepository(db), nil)

	stale := seedBooking(t, db, model.BookingStatusPending, 72*time.Hour)
	fresh := seedBooking(t, db, model.BookingStatusPending, time.Hour)
	accepted := seedBooking(t, db, model.BookingStatusAccepted, 72*time.Hour)

	task := NewBookingExpiryTask(bookingSvc, 48*time.Hour)
	affected, err := task.ExpireNow(context.Background())
	if err != nil {
		t.Fatalf("ExpireNow 执行失败: %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	var got model.Booking
	db.First(&got, stale.ID)
	if got.Status != model.BookingStatusExpired {
		t.Errorf("过期预约 status = %s, want expired", got.Status)
	}

	db.First(&got, fresh.ID)
	if got.Status != model.BookingStatusPending {
		t.Errorf("新预约 status = %s, want pending", got.Status)
	}

	// 已接受的预约不受清理影响
	db.First(&got, accepted.ID)
	if got.Status != model.BookingStatusAccepted {
		t.Errorf("已接受预约 status = %s, want accepted", got.Status)
	}
}

func TestBookingExpiryTask_Disabled(t *testing.T) {
	task := NewBookingExpiryTask(nil, 0)
	if task.expireAfter != 48*time.Hour {
		t.Errorf("expireAfter = %v, want 默认 48h", task.expireAfter)
	}

	_, err := task.ExpireNow(context.Background())
	if err != ErrTaskDisabled {
		t.Errorf("err = %v, want ErrTaskDisabled", err)
	}
}
