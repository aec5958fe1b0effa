package repository

import (
	"context"
	"testing"
	"time"

	"cutspace_v1_202509/internal/model"
)

func TestBookingRepo_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	booking := &model.Booking{
		BarbershopID:  1,
		UserID:        2,
		Service:       "Soch olish",
		BookingAt:     time.Now().Add(24 * time.Hour),
		CustomerName:  "Ali",
		CustomerPhone: "+998901234567",
		Status:        model.BookingStatusPending,
	}

	if err := repo.Create(ctx, booking); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByID(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found == nil || found.Service != "Soch olish" {
		t.Errorf("booking = %+v", found)
	}
}

func TestBookingRepo_UpdateStatus_Conditional(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	booking := &model.Booking{
		BarbershopID: 1,
		UserID:       2,
		Service:      "Soqol olish",
		BookingAt:    time.Now().Add(time.Hour),
		Status:       model.BookingStatusPending,
	}
	repo.Create(ctx, booking)

	// 第一次流转成功
	ok, err := repo.UpdateStatus(ctx, booking.ID, model.BookingStatusPending, model.BookingStatusAccepted)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if !ok {
		t.Fatal("pending -> accepted 应该成功")
	}

	// 并发第二次（比如双击拒绝）必须失败
	ok, err = repo.UpdateStatus(ctx, booking.ID, model.BookingStatusPending, model.BookingStatusRejected)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if ok {
		t.Error("状态已是 accepted，二次流转应该失败")
	}

	found, _ := repo.GetByID(ctx, booking.ID)
	if found.Status != model.BookingStatusAccepted {
		t.Errorf("status = %s, want accepted", found.Status)
	}
}

func TestBookingRepo_ListByShop_StatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	bookings := []*model.Booking{
		{BarbershopID: 1, UserID: 1, Service: "a", BookingAt: time.Now(), Status: model.BookingStatusPending},
		{BarbershopID: 1, UserID: 2, Service: "b", BookingAt: time.Now(), Status: model.BookingStatusAccepted},
		{BarbershopID: 1, UserID: 3, Service: "c", BookingAt: time.Now(), Status: model.BookingStatusPending},
		{BarbershopID: 2, UserID: 4, Service: "d", BookingAt: time.Now(), Status: model.BookingStatusPending},
	}
	for _, b := range bookings {
		repo.Create(ctx, b)
	}

	list, total, err := repo.ListByShop(ctx, 1, model.BookingStatusPending, 1, 20)
	if err != nil {
		t.Fatalf("ListByShop() error = %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("total = %d len = %d, want 2/2", total, len(list))
	}
}

func TestBookingRepo_ExpirePendingBefore(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	old := &model.Booking{BarbershopID: 1, UserID: 1, Service: "a", BookingAt: time.Now(), Status: model.BookingStatusPending}
	fresh := &model.Booking{BarbershopID: 1, UserID: 2, Service: "b", BookingAt: time.Now(), Status: model.BookingStatusPending}
	accepted := &model.Booking{BarbershopID: 1, UserID: 3, Service: "c", BookingAt: time.Now(), Status: model.BookingStatusAccepted}
	for _, b := range []*model.Booking{old, fresh, accepted} {
		repo.Create(ctx, b)
	}

	// 把第一条做旧
	db.Model(&model.Booking{}).Where("id = ?", old.ID).
		Update("created_at", time.Now().Add(-72*time.Hour))

	affected, err := repo.ExpirePendingBefore(ctx, time.Now().Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("ExpirePendingBefore() error = %v", err)
	}
	if affected != 1 {
		t.Errorf("affected = %d, want 1", affected)
	}

	found, _ := repo.GetByID(ctx, old.ID)
	if found.Status != model.BookingStatusExpired {
		t.Errorf("status = %s, want expired", found.Status)
	}

	// 新单和已接受的不受影响
	found, _ = repo.GetByID(ctx, fresh.ID)
	if found.Status != model.BookingStatusPending {
		t.Errorf("fresh status = %s, want pending", found.Status)
	}
	found, _ = repo.GetByID(ctx, accepted.ID)
	if found.Status != model.BookingStatusAccepted {
		t.Errorf("accepted status = %s, want accepted", found.Status)
	}
}
